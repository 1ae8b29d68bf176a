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
	"testing"
	"time"

	"github.com/tombarlow/capsula/pkg/capsula"
)

func TestElapsedMeasuresDuration(t *testing.T) {
	e := NewElapsed()
	handle, err := e.Enter(context.Background())
	if err != nil {
		t.Fatalf("Enter() error = %v", err)
	}
	time.Sleep(10 * time.Millisecond)
	if _, err := e.Exit(context.Background(), handle, &capsula.ExceptionState{}); err != nil {
		t.Fatalf("Exit() error = %v", err)
	}

	v, err := e.Encapsulate(context.Background())
	if err != nil {
		t.Fatalf("Encapsulate() error = %v", err)
	}
	seconds := v.(float64)
	if seconds <= 0 {
		t.Errorf("Encapsulate() = %v, want a positive duration", seconds)
	}
}

func TestElapsedDefaultKey(t *testing.T) {
	if got, want := NewElapsed().DefaultKey().String(), "time.execution_time"; got != want {
		t.Errorf("DefaultKey() = %q, want %q", got, want)
	}
}
