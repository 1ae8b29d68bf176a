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

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const execConfigTOML = `
vault-dir = "@/.capsula"

[pre-run]
contexts = [
  { type = "platform" },
]

[in-run]
watchers = [
  { type = "elapsed" },
]

[post-run]
contexts = [
  { type = "cpu" },
]
`

func writeExecConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "capsula.toml")
	if err := os.WriteFile(path, []byte(execConfigTOML), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestExecCommandSuccessfulChild(t *testing.T) {
	configPath := writeExecConfig(t)
	root := newRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"exec", configPath, "--", "true"})

	if err := root.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(out.String(), "run directory:") {
		t.Errorf("output = %q, want a run directory line", out.String())
	}

	vaultDir := filepath.Join(filepath.Dir(configPath), ".capsula")
	if _, err := os.Stat(vaultDir); err != nil {
		t.Errorf("expected vault dir %q to exist: %v", vaultDir, err)
	}
}

func TestExecCommandPropagatesExitCode(t *testing.T) {
	configPath := writeExecConfig(t)
	root := newRootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"exec", configPath, "--", "sh", "-c", "exit 9"})

	err := root.Execute()
	if err == nil {
		t.Fatal("expected a non-zero exit error")
	}
	ec, ok := err.(*commandExitError)
	if !ok {
		t.Fatalf("expected *commandExitError, got %T", err)
	}
	if ec.ExitCode() != 9 {
		t.Errorf("ExitCode() = %d, want 9", ec.ExitCode())
	}
}

func TestExecCommandMissingConfigFile(t *testing.T) {
	root := newRootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"exec", filepath.Join(t.TempDir(), "missing.toml"), "--", "true"})

	if err := root.Execute(); err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}
