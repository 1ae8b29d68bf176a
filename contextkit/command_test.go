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

package contextkit

import (
	"context"
	"testing"
)

func TestCommandEncapsulateCapturesOutputAndExitCode(t *testing.T) {
	cmd := NewCommand("", "sh", "-c", "echo hi; exit 3")
	v, err := cmd.Encapsulate(context.Background())
	if err != nil {
		t.Fatalf("Encapsulate() error = %v", err)
	}
	fields := v.(map[string]any)
	if fields["exit_code"] != 3 {
		t.Errorf("exit_code = %v, want 3", fields["exit_code"])
	}
	if fields["stdout"] != "hi\n" {
		t.Errorf("stdout = %q, want %q", fields["stdout"], "hi\n")
	}
}

func TestCommandDefaultKey(t *testing.T) {
	cmd := NewCommand("", "uname", "-a")
	if got, want := cmd.DefaultKey().String(), "command.uname"; got != want {
		t.Errorf("DefaultKey() = %q, want %q", got, want)
	}
	empty := &Command{}
	if got, want := empty.DefaultKey().String(), "command"; got != want {
		t.Errorf("DefaultKey() on empty argv = %q, want %q", got, want)
	}
}
