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
	"bytes"
	"runtime"
	"strconv"
	"sync"
)

// goroutineID extracts the calling goroutine's numeric ID from its own stack
// trace header ("goroutine 18 [running]: ..."). Go deliberately exposes no
// public goroutine-local storage; this is the one place in the package that
// falls back to a runtime-internal trick rather than a library, because none
// of the ecosystem libraries pulled in elsewhere address per-goroutine
// scoping. It is used only to key the ambient run/encapsulator stacks below,
// never for anything correctness-critical across goroutine handoffs.
func goroutineID() int64 {
	buf := make([]byte, 64)
	buf = buf[:runtime.Stack(buf, false)]
	buf = bytes.TrimPrefix(buf, []byte("goroutine "))
	buf = buf[:bytes.IndexByte(buf, ' ')]
	id, err := strconv.ParseInt(string(buf), 10, 64)
	if err != nil {
		// Stack format changed or buffer was too small to contain the
		// header; fall back to a sentinel rather than panicking.
		return -1
	}
	return id
}

// goroutineStack is a per-goroutine LIFO stack of T, used to track the
// innermost active Run or Encapsulator so that ambient calls like Record and
// CurrentRunName can find it without an explicit handle.
type goroutineStack[T any] struct {
	mu    sync.Mutex
	stack map[int64][]T
}

func newGoroutineStack[T any]() *goroutineStack[T] {
	return &goroutineStack[T]{stack: make(map[int64][]T)}
}

// push adds v to the top of the calling goroutine's stack. It returns a pop
// func that removes exactly this entry; callers must defer it.
func (s *goroutineStack[T]) push(v T) (pop func()) {
	id := goroutineID()

	s.mu.Lock()
	s.stack[id] = append(s.stack[id], v)
	depth := len(s.stack[id])
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		cur := s.stack[id]
		if len(cur) >= depth {
			s.stack[id] = cur[:depth-1]
		}
		if len(s.stack[id]) == 0 {
			delete(s.stack, id)
		}
	}
}

// top returns the calling goroutine's innermost entry, if any.
func (s *goroutineStack[T]) top() (T, bool) {
	id := goroutineID()

	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.stack[id]
	if len(cur) == 0 {
		var zero T
		return zero, false
	}
	return cur[len(cur)-1], true
}
