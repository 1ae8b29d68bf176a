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

// runStack is the process-wide ambient stack of currently-executing Run
// invocations, one LIFO per goroutine. An execution is pushed just before its
// routine starts and popped as soon as the routine returns, on every exit
// path.
var runStack = newGoroutineStack[*execution]()

// Record lets code running inside a Run's routine contribute a value to the
// in-run Capsule without holding an explicit Encapsulator handle. It fails
// with NoEncapsulatorError if called outside any Run on the calling
// goroutine.
func Record(key Key, value any) error {
	enc, ok := currentEncapsulator()
	if !ok {
		return &NoEncapsulatorError{}
	}
	return enc.Record(key, value)
}

// CurrentRunName returns the run_name of the innermost Run active on the
// calling goroutine. It fails with NoRunError if no Run is active.
func CurrentRunName() (string, error) {
	exec, ok := runStack.top()
	if !ok {
		return "", &NoRunError{}
	}
	return exec.name, nil
}
