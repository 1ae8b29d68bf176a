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

package watcherkit

import (
	"context"

	"github.com/tombarlow/capsula/pkg/capsula"
)

// UncaughtException observes the routine's exception state on teardown. It
// never suppresses (handled is always false): its purpose is to make the
// failure visible in the capsule, not to change what propagates. Per
// spec.md's second end-to-end scenario, this is what populates
// ("exception","exception") when the routine fails.
type UncaughtException struct {
	Abort bool
	info  *capsula.ExceptionInfo
}

// NewUncaughtException returns an UncaughtException watcher. Build a fresh
// instance per Run, like Elapsed.
func NewUncaughtException() *UncaughtException { return &UncaughtException{} }

func (u *UncaughtException) AbortOnError() bool { return u.Abort }

func (u *UncaughtException) DefaultKey() capsula.Key {
	return capsula.NewKey("exception", "exception")
}

func (u *UncaughtException) Enter(context.Context) (capsula.Handle, error) {
	return nil, nil
}

func (u *UncaughtException) Exit(_ context.Context, _ capsula.Handle, exc *capsula.ExceptionState) (bool, error) {
	if exc.Err != nil {
		info := capsula.NewExceptionInfo(exc.Err)
		u.info = &info
	}
	return false, nil
}

func (u *UncaughtException) Encapsulate(context.Context) (any, error) {
	if u.info == nil {
		return nil, nil
	}
	return *u.info, nil
}
