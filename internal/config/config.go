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

// Package config loads the TOML configuration described in spec.md §6 and
// exposes it as item definitions the capsula registries can resolve.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/tombarlow/capsula/pkg/capsula"
)

// ItemDef is one `{type = "...", ...}` table: a registered item name plus
// its arbitrary config fields.
type ItemDef struct {
	Type   string
	Fields map[string]any
}

// phaseSpec is one of [pre-run]/[in-run]/[post-run].
type phaseSpec struct {
	Contexts  []rawItem `toml:"contexts"`
	Watchers  []rawItem `toml:"watchers"`
	Reporters []rawItem `toml:"reporters"`
}

// rawItem mirrors one TOML item table; Type is pulled out, everything else
// (including unknown keys) rides along in Fields via toml.Primitive-free
// decoding: we decode into a generic map and pop "type" ourselves, since the
// field set is open-ended per item kind.
type rawItem map[string]any

func (r rawItem) toDef() (ItemDef, error) {
	typeVal, ok := r["type"]
	if !ok {
		return ItemDef{}, fmt.Errorf("config: item table is missing required \"type\" field")
	}
	typeName, ok := typeVal.(string)
	if !ok {
		return ItemDef{}, fmt.Errorf("config: \"type\" field must be a string, got %T", typeVal)
	}

	fields := make(map[string]any, len(r)-1)
	for k, v := range r {
		if k == "type" {
			continue
		}
		fields[k] = v
	}
	return ItemDef{Type: typeName, Fields: fields}, nil
}

// Spec is the parsed shape of a capsula TOML configuration file.
type Spec struct {
	VaultDir string `toml:"vault-dir"`

	PreRun  phaseSpec `toml:"pre-run"`
	InRun   phaseSpec `toml:"in-run"`
	PostRun phaseSpec `toml:"post-run"`
}

// PreContexts returns the pre-run phase's context item definitions.
func (s *Spec) PreContexts() ([]ItemDef, error) { return toDefs(s.PreRun.Contexts) }

// PostContexts returns the post-run phase's context item definitions.
func (s *Spec) PostContexts() ([]ItemDef, error) { return toDefs(s.PostRun.Contexts) }

// Watchers returns the in-run phase's watcher item definitions.
func (s *Spec) Watchers() ([]ItemDef, error) { return toDefs(s.InRun.Watchers) }

// PreReporters returns the pre-run phase's reporter item definitions.
func (s *Spec) PreReporters() ([]ItemDef, error) { return toDefs(s.PreRun.Reporters) }

// InReporters returns the in-run phase's reporter item definitions.
func (s *Spec) InReporters() ([]ItemDef, error) { return toDefs(s.InRun.Reporters) }

// PostReporters returns the post-run phase's reporter item definitions.
func (s *Spec) PostReporters() ([]ItemDef, error) { return toDefs(s.PostRun.Reporters) }

func toDefs(raw []rawItem) ([]ItemDef, error) {
	defs := make([]ItemDef, 0, len(raw))
	for _, r := range raw {
		def, err := r.toDef()
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, nil
}

// Load decodes path as a capsula TOML configuration file.
func Load(path string) (*Spec, error) {
	var spec Spec
	if _, err := toml.DecodeFile(path, &spec); err != nil {
		return nil, fmt.Errorf("config: failed to decode %q: %w", path, err)
	}
	return &spec, nil
}

// ContextBuilder resolves this item definition against capsula.ContextRegistry,
// producing a capsula.ContextBuilder suitable for RunSpec.AddContext.
func (d ItemDef) ContextBuilder() capsula.ContextBuilder {
	return func(params capsula.CapsuleParams) (capsula.Context, error) {
		return capsula.ContextRegistry.Build(d.Type, params, d.Fields)
	}
}

// WatcherBuilder resolves this item definition against capsula.WatcherRegistry.
func (d ItemDef) WatcherBuilder() capsula.WatcherBuilder {
	return func(params capsula.CapsuleParams) (capsula.Watcher, error) {
		return capsula.WatcherRegistry.Build(d.Type, params, d.Fields)
	}
}

// ReporterBuilder resolves this item definition against capsula.ReporterRegistry.
func (d ItemDef) ReporterBuilder() capsula.ReporterBuilder {
	return func(params capsula.CapsuleParams) (capsula.Reporter, error) {
		return capsula.ReporterRegistry.Build(d.Type, params, d.Fields)
	}
}

// ResolveVaultDir resolves spec's vault-dir against projectRoot when it
// carries the "@/" project-relative prefix described in spec.md §6.
func ResolveVaultDir(spec *Spec, projectRoot string) string {
	if strings.HasPrefix(spec.VaultDir, "@/") {
		return filepath.Join(projectRoot, strings.TrimPrefix(spec.VaultDir, "@/"))
	}
	return spec.VaultDir
}
