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
	"time"
)

// Mode selects which phases a context or reporter addition applies to.
type Mode string

const (
	ModePre  Mode = "pre"
	ModeIn   Mode = "in"
	ModePost Mode = "post"
	ModeAll  Mode = "all"
)

// ContextBuilder constructs a Context for one phase's CapsuleParams. A bare
// Context instance is wrapped in a builder that returns it unchanged.
type ContextBuilder func(params CapsuleParams) (Context, error)

// WatcherBuilder constructs a Watcher for the in-run phase's CapsuleParams.
type WatcherBuilder func(params CapsuleParams) (Watcher, error)

// ReporterBuilder constructs a Reporter for one phase's CapsuleParams.
type ReporterBuilder func(params CapsuleParams) (Reporter, error)

// RunNameFactory produces the directory name for one Run, given what it
// executes, a random suffix, and the current UTC time. Its output must be a
// valid directory name and must not collide with an existing vault child;
// collision is a fatal error at Run time, not validated here.
type RunNameFactory func(exec ExecInfo, randomSuffix string, now time.Time) string

// RunSpec is the mutable staging area populated by the builder surface. It
// holds phase-indexed builder sequences and the run's identity inputs.
// Sequences are frozen (defensively copied) the moment a Run is constructed
// from it; RunSpec itself may keep being mutated afterward without affecting
// already-frozen Runs.
type RunSpec struct {
	preContexts  []ContextBuilder
	postContexts []ContextBuilder
	watchers     []WatcherBuilder

	preReporters  []ReporterBuilder
	inReporters   []ReporterBuilder
	postReporters []ReporterBuilder

	runNameFactory RunNameFactory
	vaultDir       string
	projectRoot    string

	execInfo          ExecInfo
	fn                func(ctx CallContext, args []any) (any, error)
	command           []string
	passPreRunCapsule bool
}

// CallContext is the minimal context threaded to a function-bound routine;
// it exists so routines can be written without importing capsula's Run type
// directly.
type CallContext struct {
	Context context.Context
	Capsule *Capsule // the pre-run capsule, non-nil only when PassPreRunCapsule is set
}

// NewRunSpec returns an empty RunSpec with the default run-name factory.
func NewRunSpec() *RunSpec {
	return &RunSpec{
		execInfo:       NoExecInfo{},
		runNameFactory: defaultRunNameFactory,
	}
}

// AddContext stages ctx (or a constant-builder wrapping it) for mode, honoring
// append_left to match the decorator composition order described in §4.5/§4.8:
// decorator-driven additions append left (outermost decorator runs first).
// Builder.LoadConfig also appends left, walking its lists back to front so
// config items stay in declared order ahead of everything already staged.
func (s *RunSpec) AddContext(builder ContextBuilder, mode Mode, appendLeft bool) {
	for _, m := range modePhases(mode, true) {
		switch m {
		case ModePre:
			s.preContexts = prepend(s.preContexts, builder, appendLeft)
		case ModePost:
			s.postContexts = prepend(s.postContexts, builder, appendLeft)
		}
	}
}

// AddWatcher stages builder for the in-run phase. Per §4.5, watchers use the
// inverse append rule from contexts/reporters: append_left=false places the
// addition closest to the function (innermost).
func (s *RunSpec) AddWatcher(builder WatcherBuilder, appendLeft bool) {
	s.watchers = prepend(s.watchers, builder, appendLeft)
}

// AddReporter stages builder for mode.
func (s *RunSpec) AddReporter(builder ReporterBuilder, mode Mode, appendLeft bool) {
	for _, m := range modePhases(mode, false) {
		switch m {
		case ModePre:
			s.preReporters = prepend(s.preReporters, builder, appendLeft)
		case ModeIn:
			s.inReporters = prepend(s.inReporters, builder, appendLeft)
		case ModePost:
			s.postReporters = prepend(s.postReporters, builder, appendLeft)
		}
	}
}

// WithRunNameFactory overrides the default run-name factory.
func (s *RunSpec) WithRunNameFactory(f RunNameFactory) { s.runNameFactory = f }

// WithVaultDir sets the vault directory.
func (s *RunSpec) WithVaultDir(dir string) { s.vaultDir = dir }

// WithProjectRoot sets the project root surfaced to builders via
// CapsuleParams.ProjectRoot (the config-built git and command contexts use
// it as their default working directory).
func (s *RunSpec) WithProjectRoot(root string) { s.projectRoot = root }

// WithFunc binds a function-bound routine.
func (s *RunSpec) WithFunc(name string, passPreRunCapsule bool, fn func(ctx CallContext, args []any) (any, error)) {
	s.execInfo = FuncInfo{Name: name, PassPreRunCapsule: passPreRunCapsule}
	s.fn = fn
	s.command = nil
	s.passPreRunCapsule = passPreRunCapsule
}

// WithCommand binds a command-bound routine.
func (s *RunSpec) WithCommand(argv []string) {
	s.execInfo = CommandInfo{Argv: argv}
	s.command = argv
	s.fn = nil
	s.passPreRunCapsule = false
}

// modePhases expands a Mode into the concrete phases it applies to.
// contextLike selects the context expansion of "all" (pre and post only);
// otherwise "all" also includes the in phase, which only reporters support.
func modePhases(mode Mode, contextLike bool) []Mode {
	switch mode {
	case ModeAll:
		if contextLike {
			return []Mode{ModePre, ModePost}
		}
		return []Mode{ModePre, ModeIn, ModePost}
	default:
		return []Mode{mode}
	}
}

// prepend appends to the front (append_left) or back of seq.
func prepend[T any](seq []T, v T, appendLeft bool) []T {
	if !appendLeft {
		return append(seq, v)
	}
	out := make([]T, 0, len(seq)+1)
	out = append(out, v)
	out = append(out, seq...)
	return out
}

// frozenSpec is an immutable, defensively-copied snapshot of a RunSpec taken
// when a Run is built. §3's invariant: "the builder sequences are frozen
// when the Run begins; no mutation during execution."
type frozenSpec struct {
	preContexts  []ContextBuilder
	postContexts []ContextBuilder
	watchers     []WatcherBuilder

	preReporters  []ReporterBuilder
	inReporters   []ReporterBuilder
	postReporters []ReporterBuilder

	runNameFactory RunNameFactory
	vaultDir       string
	projectRoot    string

	execInfo          ExecInfo
	fn                func(ctx CallContext, args []any) (any, error)
	command           []string
	passPreRunCapsule bool
}

func (s *RunSpec) freeze() *frozenSpec {
	return &frozenSpec{
		preContexts:       append([]ContextBuilder(nil), s.preContexts...),
		postContexts:      append([]ContextBuilder(nil), s.postContexts...),
		watchers:          append([]WatcherBuilder(nil), s.watchers...),
		preReporters:      append([]ReporterBuilder(nil), s.preReporters...),
		inReporters:       append([]ReporterBuilder(nil), s.inReporters...),
		postReporters:     append([]ReporterBuilder(nil), s.postReporters...),
		runNameFactory:    s.runNameFactory,
		vaultDir:          s.vaultDir,
		projectRoot:       s.projectRoot,
		execInfo:          s.execInfo,
		fn:                s.fn,
		command:           append([]string(nil), s.command...),
		passPreRunCapsule: s.passPreRunCapsule,
	}
}
