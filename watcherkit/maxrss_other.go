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

//go:build !linux

package watcherkit

import (
	"context"

	"github.com/tombarlow/capsula/pkg/capsula"
)

// MaxRSS is a no-op outside Linux: /proc/self/status has no equivalent this
// package parses on other platforms. Encapsulate reports zero deltas rather
// than failing the phase.
type MaxRSS struct {
	Abort bool
}

// NewMaxRSS returns a MaxRSS watcher.
func NewMaxRSS() *MaxRSS { return &MaxRSS{} }

func (m *MaxRSS) AbortOnError() bool      { return m.Abort }
func (m *MaxRSS) DefaultKey() capsula.Key { return capsula.NewKey("memory", "max_rss_kb") }

func (m *MaxRSS) Enter(context.Context) (capsula.Handle, error) { return nil, nil }

func (m *MaxRSS) Exit(context.Context, capsula.Handle, *capsula.ExceptionState) (bool, error) {
	return false, nil
}

func (m *MaxRSS) Encapsulate(context.Context) (any, error) {
	return map[string]any{"before_kb": int64(0), "after_kb": int64(0), "delta_kb": int64(0)}, nil
}
