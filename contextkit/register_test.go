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
	"testing"

	"github.com/tombarlow/capsula/pkg/capsula"
)

func TestBuiltinContextsAreRegistered(t *testing.T) {
	for _, name := range []string{"platform", "cpu", "env", "file_hash", "git", "command"} {
		if !capsula.ContextRegistry.Has(name) {
			t.Errorf("expected %q to be registered by contextkit's init()", name)
		}
	}
}

func TestFileHashRegistryRequiresPath(t *testing.T) {
	_, err := capsula.ContextRegistry.Build("file_hash", capsula.CapsuleParams{}, capsula.RawFields{})
	if err == nil {
		t.Fatal("expected an error when \"path\" is missing")
	}
	if _, ok := err.(*capsula.ConfigurationError); !ok {
		t.Errorf("expected *capsula.ConfigurationError, got %T", err)
	}
}

func TestGitRegistryDefaultsDirToProjectRoot(t *testing.T) {
	got, err := capsula.ContextRegistry.Build("git", capsula.CapsuleParams{ProjectRoot: "/srv/project"}, capsula.RawFields{})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	g, ok := got.(*Git)
	if !ok {
		t.Fatalf("Build() = %T, want *Git", got)
	}
	if g.Dir != "/srv/project" {
		t.Errorf("Dir = %q, want %q", g.Dir, "/srv/project")
	}
}

func TestCommandRegistryRequiresArgv(t *testing.T) {
	_, err := capsula.ContextRegistry.Build("command", capsula.CapsuleParams{}, capsula.RawFields{})
	if err == nil {
		t.Fatal("expected an error when \"argv\" is missing")
	}
}
