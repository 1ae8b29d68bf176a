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

// Builder is the fluent composition surface over a RunSpec. Every Add*
// method mutates the underlying spec and returns the Builder for chaining;
// the spec is only frozen once a terminal operation (Func or Command) is
// called, producing a callable Run.
type Builder struct {
	spec *RunSpec
}

// NewBuilder returns a Builder wrapping a fresh RunSpec.
func NewBuilder() *Builder {
	return &Builder{spec: NewRunSpec()}
}

// WithVaultDir sets the vault directory that will contain per-run
// directories.
func (b *Builder) WithVaultDir(dir string) *Builder {
	b.spec.WithVaultDir(dir)
	return b
}

// WithProjectRoot sets the project root surfaced to item builders.
func (b *Builder) WithProjectRoot(root string) *Builder {
	b.spec.WithProjectRoot(root)
	return b
}

// WithRunNameFactory overrides the default run-name factory.
func (b *Builder) WithRunNameFactory(f RunNameFactory) *Builder {
	b.spec.WithRunNameFactory(f)
	return b
}

// AddContext stages a bare Context instance (wrapped in a constant-function
// builder per §9's builder/instance duality) for mode. appendLeft should be
// true for decorator-driven additions (outermost decorator runs first);
// false appends after what is already staged. Config-driven items go
// through LoadConfig, which prepends them.
func (b *Builder) AddContext(ctx Context, mode Mode, appendLeft bool) *Builder {
	b.spec.AddContext(constantContextBuilder(ctx), mode, appendLeft)
	return b
}

// AddContextBuilder stages a ContextBuilder directly.
func (b *Builder) AddContextBuilder(builder ContextBuilder, mode Mode, appendLeft bool) *Builder {
	b.spec.AddContext(builder, mode, appendLeft)
	return b
}

// AddWatcher stages a bare Watcher instance. Per §4.5, watchers use the
// inverse append rule from contexts/reporters: appendLeft=false places the
// addition closest to the function (innermost).
func (b *Builder) AddWatcher(w Watcher, appendLeft bool) *Builder {
	b.spec.AddWatcher(constantWatcherBuilder(w), appendLeft)
	return b
}

// AddWatcherBuilder stages a WatcherBuilder directly.
func (b *Builder) AddWatcherBuilder(builder WatcherBuilder, appendLeft bool) *Builder {
	b.spec.AddWatcher(builder, appendLeft)
	return b
}

// AddReporter stages a bare Reporter instance for mode.
func (b *Builder) AddReporter(r Reporter, mode Mode, appendLeft bool) *Builder {
	b.spec.AddReporter(constantReporterBuilder(r), mode, appendLeft)
	return b
}

// AddReporterBuilder stages a ReporterBuilder directly.
func (b *Builder) AddReporterBuilder(builder ReporterBuilder, mode Mode, appendLeft bool) *Builder {
	b.spec.AddReporter(builder, mode, appendLeft)
	return b
}

// LoadConfig merges builders produced by an external config loader into the
// spec. Per §4.8, config-declared items are prepended so they appear before
// decorator-declared ones: each list is walked back to front with
// appendLeft=true, so config items land ahead of whatever is already staged,
// in their declared order.
func (b *Builder) LoadConfig(preContexts, postContexts []ContextBuilder, watchers []WatcherBuilder, preReporters, inReporters, postReporters []ReporterBuilder) *Builder {
	for i := len(preContexts) - 1; i >= 0; i-- {
		b.spec.AddContext(preContexts[i], ModePre, true)
	}
	for i := len(postContexts) - 1; i >= 0; i-- {
		b.spec.AddContext(postContexts[i], ModePost, true)
	}
	for i := len(watchers) - 1; i >= 0; i-- {
		b.spec.AddWatcher(watchers[i], true)
	}
	for i := len(preReporters) - 1; i >= 0; i-- {
		b.spec.AddReporter(preReporters[i], ModePre, true)
	}
	for i := len(inReporters) - 1; i >= 0; i-- {
		b.spec.AddReporter(inReporters[i], ModeIn, true)
	}
	for i := len(postReporters) - 1; i >= 0; i-- {
		b.spec.AddReporter(postReporters[i], ModePost, true)
	}
	return b
}

// Func is a terminal operation: it binds a function-bound routine and
// freezes the spec into a callable Run. name identifies the routine for the
// default run-name factory; passPreRunCapsule toggles whether the routine
// receives the pre-run Capsule as its first argument (via CallContext).
func (b *Builder) Func(name string, passPreRunCapsule bool, fn func(ctx CallContext, args []any) (any, error)) (*Run, error) {
	b.spec.WithFunc(name, passPreRunCapsule, fn)
	return newRun(b.spec.freeze())
}

// Command is a terminal operation: it binds a command-bound routine and
// freezes the spec into a callable Run.
func (b *Builder) Command(argv []string) (*Run, error) {
	b.spec.WithCommand(argv)
	return newRun(b.spec.freeze())
}

func constantContextBuilder(ctx Context) ContextBuilder {
	return func(CapsuleParams) (Context, error) { return ctx, nil }
}

func constantWatcherBuilder(w Watcher) WatcherBuilder {
	return func(CapsuleParams) (Watcher, error) { return w, nil }
}

func constantReporterBuilder(r Reporter) ReporterBuilder {
	return func(CapsuleParams) (Reporter, error) { return r, nil }
}
