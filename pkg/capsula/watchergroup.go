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

import "context"

// acquisition is one entered watcher scope awaiting teardown.
type acquisition struct {
	watcher Watcher
	handle  Handle
}

// WatcherGroup composes the scoped resources of every watcher added to an
// Encapsulator around a single region of execution (the in-run phase's user
// routine). The first-inserted watcher is innermost: its Enter runs last and
// its Exit runs first, per §4.4.
type WatcherGroup struct {
	watchers []Watcher
	acquired []acquisition
}

func newWatcherGroup(watchers []Watcher) *WatcherGroup {
	return &WatcherGroup{watchers: watchers}
}

// Enter acquires every watcher's scope in reverse insertion order, so the
// first-inserted watcher is entered last and is therefore innermost. If a
// watcher's Enter fails, every scope already acquired is unwound (in LIFO
// order, each Exit seeing the Enter error as the propagating exception)
// before that error is returned.
func (g *WatcherGroup) Enter(ctx context.Context) error {
	for i := len(g.watchers) - 1; i >= 0; i-- {
		w := g.watchers[i]
		handle, err := w.Enter(ctx)
		if err != nil {
			g.unwind(ctx, &ExceptionState{Err: err})
			return err
		}
		g.acquired = append(g.acquired, acquisition{watcher: w, handle: handle})
	}
	return nil
}

// Exit tears down every acquired scope in LIFO order (last-acquired first,
// which is the first-inserted, innermost watcher), threading the exception
// state through each Exit call. It returns the final exception state after
// every teardown has run — nil if some watcher declared it handled, or the
// original error otherwise.
func (g *WatcherGroup) Exit(ctx context.Context, routineErr error) error {
	exc := &ExceptionState{Err: routineErr}
	g.unwind(ctx, exc)
	return exc.Err
}

// unwind releases every currently-acquired scope in LIFO order, updating exc
// in place as teardowns observe, suppress, or replace the propagating error.
func (g *WatcherGroup) unwind(ctx context.Context, exc *ExceptionState) {
	for i := len(g.acquired) - 1; i >= 0; i-- {
		a := g.acquired[i]
		handled, err := a.watcher.Exit(ctx, a.handle, exc)
		switch {
		case err != nil:
			exc.Err = err
		case handled:
			exc.Err = nil
		}
	}
	g.acquired = nil
}
