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

package config

import (
	"os"
	"path/filepath"
	"testing"

	_ "github.com/tombarlow/capsula/contextkit"
	"github.com/tombarlow/capsula/pkg/capsula"
)

const sampleTOML = `
vault-dir = "@/.capsula"

[pre-run]
contexts = [
  { type = "platform" },
  { type = "file_hash", path = "input.csv", key = "input" },
]

[in-run]
watchers = [
  { type = "elapsed" },
  { type = "max_rss", abort = true },
]
reporters = [
  { type = "json", path = "in-run.json" },
]

[post-run]
contexts = [
  { type = "cpu" },
]
reporters = [
  { type = "json" },
]
`

func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "capsula.toml")
	if err := os.WriteFile(path, []byte(sampleTOML), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestLoadParsesPhasesAndItems(t *testing.T) {
	spec, err := Load(writeSample(t))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	preContexts, err := spec.PreContexts()
	if err != nil {
		t.Fatalf("PreContexts() error = %v", err)
	}
	if len(preContexts) != 2 {
		t.Fatalf("len(PreContexts()) = %d, want 2", len(preContexts))
	}
	if preContexts[0].Type != "platform" {
		t.Errorf("preContexts[0].Type = %q, want platform", preContexts[0].Type)
	}
	if preContexts[1].Fields["path"] != "input.csv" {
		t.Errorf("preContexts[1].Fields[path] = %v, want input.csv", preContexts[1].Fields["path"])
	}

	watchers, err := spec.Watchers()
	if err != nil {
		t.Fatalf("Watchers() error = %v", err)
	}
	if len(watchers) != 2 || watchers[1].Type != "max_rss" {
		t.Errorf("Watchers() = %+v, want [elapsed max_rss]", watchers)
	}
	if abort, _ := watchers[1].Fields["abort"].(bool); !abort {
		t.Errorf("watchers[1].Fields[abort] = %v, want true", watchers[1].Fields["abort"])
	}

	postContexts, err := spec.PostContexts()
	if err != nil {
		t.Fatalf("PostContexts() error = %v", err)
	}
	if len(postContexts) != 1 || postContexts[0].Type != "cpu" {
		t.Errorf("PostContexts() = %+v, want [cpu]", postContexts)
	}
}

func TestItemDefBuildersResolveAgainstRegistries(t *testing.T) {
	spec, err := Load(writeSample(t))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	preContexts, _ := spec.PreContexts()
	builder := preContexts[0].ContextBuilder()
	ctx, err := builder(capsula.CapsuleParams{})
	if err != nil {
		t.Fatalf("ContextBuilder()() error = %v", err)
	}
	if ctx.DefaultKey().String() != "platform" {
		t.Errorf("resolved context key = %q, want platform", ctx.DefaultKey().String())
	}
}

func TestResolveVaultDirProjectRelative(t *testing.T) {
	spec := &Spec{VaultDir: "@/.capsula"}
	got := ResolveVaultDir(spec, "/srv/project")
	if want := filepath.Join("/srv/project", ".capsula"); got != want {
		t.Errorf("ResolveVaultDir() = %q, want %q", got, want)
	}
}

func TestResolveVaultDirAbsolute(t *testing.T) {
	spec := &Spec{VaultDir: "/var/capsula"}
	if got := ResolveVaultDir(spec, "/srv/project"); got != "/var/capsula" {
		t.Errorf("ResolveVaultDir() = %q, want /var/capsula", got)
	}
}

func TestRawItemMissingTypeField(t *testing.T) {
	r := rawItem{"abort": true}
	if _, err := r.toDef(); err == nil {
		t.Fatal("expected an error when \"type\" is missing")
	}
}

func TestRawItemTypeMustBeString(t *testing.T) {
	r := rawItem{"type": 7}
	if _, err := r.toDef(); err == nil {
		t.Fatal("expected an error when \"type\" is not a string")
	}
}
