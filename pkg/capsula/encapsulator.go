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

import (
	"context"
	"log/slog"

	"github.com/tombarlow/capsula/internal/rlog"
)

// encapsulatorStack is the process-wide ambient stack of currently-entered
// Encapsulators, one LIFO per goroutine.
var encapsulatorStack = newGoroutineStack[*Encapsulator]()

// entry pairs an added item with the key it was registered under, so
// Encapsulator can iterate in insertion order while still indexing by key.
type entry struct {
	key     Key
	context Context // set for both Context and Watcher entries; Watcher embeds Context
	watcher Watcher // non-nil only for watcher entries
}

// Encapsulator holds an ordered collection of contexts and watchers keyed by
// a unique Key and produces a Capsule from them. It is built fresh once per
// phase by the Run orchestrator.
type Encapsulator struct {
	entries []entry
	seen    map[Key]bool
}

// NewEncapsulator returns an empty Encapsulator.
func NewEncapsulator() *Encapsulator {
	return &Encapsulator{seen: make(map[Key]bool)}
}

// AddContext adds ctx under key, or ctx.DefaultKey() if key is empty. It
// returns KeyConflictError if the key is already used by a context or
// watcher in this encapsulator.
func (e *Encapsulator) AddContext(ctx Context, key Key) error {
	if key == "" {
		key = ctx.DefaultKey()
	}
	if e.seen[key] {
		return &KeyConflictError{Key: key, Reason: "already registered on this encapsulator"}
	}
	e.seen[key] = true
	e.entries = append(e.entries, entry{key: key, context: ctx})
	return nil
}

// AddWatcher adds w under key, or w.DefaultKey() if key is empty. Symmetric
// to AddContext; watchers also participate in key uniqueness.
func (e *Encapsulator) AddWatcher(w Watcher, key Key) error {
	if key == "" {
		key = w.DefaultKey()
	}
	if e.seen[key] {
		return &KeyConflictError{Key: key, Reason: "already registered on this encapsulator"}
	}
	e.seen[key] = true
	e.entries = append(e.entries, entry{key: key, context: w, watcher: w})
	return nil
}

// Record is sugar for AddContext with a trivial Context that returns value
// unchanged from Encapsulate.
func (e *Encapsulator) Record(key Key, value any) error {
	return e.AddContext(staticContext{value: value}, key)
}

// Encapsulate iterates every added item in insertion order, calling
// Encapsulate on each. A success is stored in the resulting Capsule's data;
// a failure on a non-abort item is folded into fails and logged; a failure
// on an abort_on_error item propagates as CaptureFailureError.
func (e *Encapsulator) Encapsulate(ctx context.Context) (*Capsule, error) {
	data := make(map[Key]any)
	fails := make(map[Key]ExceptionInfo)
	order := make([]Key, 0, len(e.entries))

	for _, item := range e.entries {
		order = append(order, item.key)

		value, err := item.context.Encapsulate(ctx)
		if err == nil {
			data[item.key] = value
			continue
		}

		if item.context.AbortOnError() {
			return nil, &CaptureFailureError{Key: item.key, Cause: err}
		}

		rlog.Default.Warn("capsule item capture failed",
			slog.String(rlog.KeyKey, item.key.String()),
			slog.String("error", err.Error()),
		)
		fails[item.key] = NewExceptionInfo(err)
	}

	return newCapsule(data, fails, order), nil
}

// Watch builds a WatcherGroup over every watcher added to this encapsulator,
// in the order required by §4.4: reverse insertion order on enter, so the
// first-inserted watcher is innermost.
func (e *Encapsulator) Watch() *WatcherGroup {
	watchers := make([]Watcher, 0, len(e.entries))
	for _, item := range e.entries {
		if item.watcher != nil {
			watchers = append(watchers, item.watcher)
		}
	}
	return newWatcherGroup(watchers)
}

// enter pushes e onto the calling goroutine's ambient encapsulator stack; the
// returned func must be deferred to pop it.
func (e *Encapsulator) enter() (exit func()) {
	return encapsulatorStack.push(e)
}

// currentEncapsulator returns the calling goroutine's innermost entered
// Encapsulator, if any.
func currentEncapsulator() (*Encapsulator, bool) {
	return encapsulatorStack.top()
}

// staticContext is a trivial Context wrapping a fixed value, used by Record.
type staticContext struct {
	value any
}

func (staticContext) AbortOnError() bool { return false }
func (staticContext) DefaultKey() Key    { return StringKey("record") }
func (s staticContext) Encapsulate(context.Context) (any, error) {
	return s.value, nil
}
