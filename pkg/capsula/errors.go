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

package capsula

import "fmt"

// ConfigurationError indicates a malformed RunSpec, an unknown registered
// item name, or a missing required field in a config-driven item.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("capsula: configuration error: %s", e.Message)
}

// UninitializedError indicates a Run was triggered before a required field
// (vault dir, run name factory, func/command) was set.
type UninitializedError struct {
	Field string
}

func (e *UninitializedError) Error() string {
	return fmt.Sprintf("capsula: run started before required field %q was set", e.Field)
}

// KeyConflictError indicates a duplicate capsule-item key within an
// Encapsulator, or a flat-to-nested key conflict in Nest.
type KeyConflictError struct {
	Key    Key
	Reason string
}

func (e *KeyConflictError) Error() string {
	return fmt.Sprintf("capsula: key conflict on %q: %s", e.Key, e.Reason)
}

// CaptureFailureError wraps the error returned by a Context or Watcher's
// Encapsulate. When the item is abort_on_error, this propagates out of
// Encapsulator.Encapsulate; otherwise it is folded into Capsule.Fails.
type CaptureFailureError struct {
	Key   Key
	Cause error
}

func (e *CaptureFailureError) Error() string {
	return fmt.Sprintf("capsula: capture failed for %q: %v", e.Key, e.Cause)
}

func (e *CaptureFailureError) Unwrap() error {
	return e.Cause
}

// NoRunError indicates an ambient API call (CurrentRunName) made outside any
// Run on the calling goroutine.
type NoRunError struct{}

func (e *NoRunError) Error() string {
	return "capsula: no run is active on this goroutine"
}

// NoEncapsulatorError indicates Record was called outside any Encapsulator
// on the calling goroutine.
type NoEncapsulatorError struct{}

func (e *NoEncapsulatorError) Error() string {
	return "capsula: no encapsulator is active on this goroutine"
}
