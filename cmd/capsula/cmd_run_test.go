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
	"path/filepath"
	"strings"
	"testing"
)

func TestRunCommandSuccessfulChild(t *testing.T) {
	vault := t.TempDir()
	root := newRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"run", "--vault-dir", vault, "--", "true"})

	if err := root.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(out.String(), "run directory:") {
		t.Errorf("output = %q, want a run directory line", out.String())
	}
}

func TestRunCommandPropagatesExitCode(t *testing.T) {
	vault := t.TempDir()
	root := newRootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"run", "--vault-dir", vault, "--", "sh", "-c", "exit 5"})

	err := root.Execute()
	if err == nil {
		t.Fatal("expected Execute() to return the child's non-zero exit as an error")
	}
	ec, ok := err.(*commandExitError)
	if !ok {
		t.Fatalf("expected *commandExitError, got %T", err)
	}
	if ec.ExitCode() != 5 {
		t.Errorf("ExitCode() = %d, want 5", ec.ExitCode())
	}
}

func TestRunCommandNoArgsAfterDash(t *testing.T) {
	root := newRootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"run", "--vault-dir", t.TempDir(), "--"})

	if err := root.Execute(); err == nil {
		t.Fatal("expected an error when no command follows --")
	}
}

func TestRunCommandWritesReportFile(t *testing.T) {
	vault := t.TempDir()
	reportPath := filepath.Join(t.TempDir(), "report.json")

	root := newRootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"run", "--vault-dir", vault, "--report", reportPath, "--", "true"})

	if err := root.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
}
