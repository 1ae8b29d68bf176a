// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package contextkit holds concrete capsula.Context implementations: pure
// snapshot capture with no lifecycle around the routine.
package contextkit

import (
	"context"
	"os"
	"runtime"

	"github.com/tombarlow/capsula/pkg/capsula"
)

// Platform captures OS, architecture, hostname, and the Go runtime version.
type Platform struct {
	// Abort, if true, makes a capture failure here fatal to the phase.
	// Platform capture essentially cannot fail; the field exists so Platform
	// satisfies the same configuration shape as contexts that can.
	Abort bool
}

// NewPlatform returns a Platform context with default (non-abort) behavior.
func NewPlatform() *Platform { return &Platform{} }

func (p *Platform) AbortOnError() bool  { return p.Abort }
func (p *Platform) DefaultKey() capsula.Key { return capsula.NewKey("platform") }

func (p *Platform) Encapsulate(context.Context) (any, error) {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = ""
	}
	return map[string]any{
		"os":         runtime.GOOS,
		"arch":       runtime.GOARCH,
		"hostname":   hostname,
		"go_version": runtime.Version(),
	}, nil
}

// CPU captures the logical CPU count and the current GOMAXPROCS setting.
type CPU struct {
	Abort bool
}

// NewCPU returns a CPU context with default (non-abort) behavior.
func NewCPU() *CPU { return &CPU{} }

func (c *CPU) AbortOnError() bool  { return c.Abort }
func (c *CPU) DefaultKey() capsula.Key { return capsula.NewKey("cpu") }

func (c *CPU) Encapsulate(context.Context) (any, error) {
	return map[string]any{
		"num_cpu":    runtime.NumCPU(),
		"gomaxprocs": runtime.GOMAXPROCS(0),
	}, nil
}
