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

// Package watcherkit holds concrete capsula.Watcher implementations:
// scoped observers that bracket a routine's execution with setup/teardown.
package watcherkit

import (
	"context"
	"time"

	"github.com/tombarlow/capsula/pkg/capsula"
)

type elapsedHandle struct {
	start time.Time
}

// Elapsed records the routine's wall-clock duration under
// ("time","execution_time"), per spec.md's first end-to-end scenario.
//
// Elapsed carries its result as instance state between Exit and Encapsulate;
// build a fresh instance per Run (e.g. via a WatcherBuilder) rather than
// sharing one across concurrent invocations.
type Elapsed struct {
	Abort    bool
	duration time.Duration
}

// NewElapsed returns an Elapsed watcher.
func NewElapsed() *Elapsed { return &Elapsed{} }

func (e *Elapsed) AbortOnError() bool      { return e.Abort }
func (e *Elapsed) DefaultKey() capsula.Key { return capsula.NewKey("time", "execution_time") }

func (e *Elapsed) Enter(context.Context) (capsula.Handle, error) {
	return elapsedHandle{start: time.Now()}, nil
}

func (e *Elapsed) Exit(_ context.Context, h capsula.Handle, _ *capsula.ExceptionState) (bool, error) {
	start := h.(elapsedHandle).start
	e.duration = time.Since(start)
	return false, nil
}

func (e *Elapsed) Encapsulate(context.Context) (any, error) {
	return e.duration.Seconds(), nil
}
