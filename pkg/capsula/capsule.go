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

// ExceptionInfo is the captured, purely descriptive shape of a failure. It
// is never re-raised.
type ExceptionInfo struct {
	TypeName      string
	Message       string
	TracebackText string
}

// NewExceptionInfo builds an ExceptionInfo from a Go error.
func NewExceptionInfo(err error) ExceptionInfo {
	return ExceptionInfo{
		TypeName: fmt.Sprintf("%T", err),
		Message:  err.Error(),
	}
}

// Capsule is an immutable snapshot produced by one Encapsulator.Encapsulate
// call: a mapping from item key to captured value, plus a mapping from key
// to failure record for items that failed without abort_on_error. Keys are
// disjoint across the two maps.
type Capsule struct {
	data  map[Key]any
	fails map[Key]ExceptionInfo
	order []Key
}

// newCapsule builds a Capsule from already-validated, disjoint maps and the
// order in which their keys were added.
func newCapsule(data map[Key]any, fails map[Key]ExceptionInfo, order []Key) *Capsule {
	d := make(map[Key]any, len(data))
	for k, v := range data {
		d[k] = v
	}
	f := make(map[Key]ExceptionInfo, len(fails))
	for k, v := range fails {
		f[k] = v
	}
	o := make([]Key, len(order))
	copy(o, order)

	return &Capsule{data: d, fails: f, order: o}
}

// Data returns a copy of the successfully captured values.
func (c *Capsule) Data() map[Key]any {
	out := make(map[Key]any, len(c.data))
	for k, v := range c.data {
		out[k] = v
	}
	return out
}

// Fails returns a copy of the non-aborting capture failures.
func (c *Capsule) Fails() map[Key]ExceptionInfo {
	out := make(map[Key]ExceptionInfo, len(c.fails))
	for k, v := range c.fails {
		out[k] = v
	}
	return out
}

// Get returns the captured value for key and whether it was present in Data.
func (c *Capsule) Get(key Key) (any, bool) {
	v, ok := c.data[key]
	return v, ok
}

// Keys returns every key in the capsule (both data and fails) in the order
// items were added to the encapsulator that produced it.
func (c *Capsule) Keys() []Key {
	out := make([]Key, len(c.order))
	copy(out, c.order)
	return out
}

// Nested converts the capsule's data into a nested map via Nest, for
// reporters that emit structured output (e.g. JSON).
func (c *Capsule) Nested() (map[string]any, error) {
	return Nest(c.data)
}
