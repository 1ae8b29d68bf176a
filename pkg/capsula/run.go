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
	"fmt"
	"log/slog"
	"time"

	"github.com/tombarlow/capsula/internal/errutil"
	"github.com/tombarlow/capsula/internal/rlog"
	"github.com/tombarlow/capsula/internal/spawn"
)

// CommandResult is returned by a command-bound Run. Per §4.6, the command
// runs with check=false: a non-zero exit is reported here, never as an
// error.
type CommandResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
	RunDir   string
}

// Run is a frozen, repeatedly-callable execution pipeline produced by the
// builder surface (§4.8). A single Run may be invoked concurrently from
// multiple goroutines; each invocation materializes its own run directory
// and its own pre/in/post Encapsulators, per §5's independent-Runs
// guarantee.
type Run struct {
	spec *frozenSpec
}

// execution is the ambient record pushed onto the goroutine-local run stack
// while one invocation of a Run is in flight, giving Record and
// CurrentRunName something to resolve against.
type execution struct {
	name string
	dir  string
}

// newRun validates a frozen spec and wraps it as a callable Run. It enforces
// §7's UninitializedError: a Run cannot be built before vault_dir,
// run_name_factory, and a bound func/command are all set.
func newRun(spec *frozenSpec) (*Run, error) {
	if spec.vaultDir == "" {
		return nil, &UninitializedError{Field: "vault_dir"}
	}
	if spec.runNameFactory == nil {
		return nil, &UninitializedError{Field: "run_name_factory"}
	}
	if _, isNone := spec.execInfo.(NoExecInfo); isNone {
		return nil, &UninitializedError{Field: "func/command"}
	}
	return &Run{spec: spec}, nil
}

// Call triggers a function-bound Run's three-phase lifecycle, invoking the
// bound routine with args. It returns the routine's result, or its error
// after post-run has fully executed — see §4.6's failure ordering.
func (r *Run) Call(ctx context.Context, args ...any) (any, error) {
	if r.spec.fn == nil {
		return nil, &ConfigurationError{Message: "Call invoked on a command-bound Run"}
	}

	exec, preCapsule, err := r.preRun(ctx)
	if err != nil {
		return nil, err
	}
	logger := rlog.WithRun(rlog.Default, exec.name)

	call := CallContext{Context: ctx}
	if r.spec.passPreRunCapsule {
		call.Capsule = preCapsule
	}

	result, routineErr := r.inRun(ctx, exec, logger, func() (any, error) {
		return r.spec.fn(call, args)
	})

	r.postRun(ctx, exec, logger)

	if routineErr != nil {
		return nil, routineErr
	}
	return result, nil
}

// ExecCommand triggers a command-bound Run. The child runs to completion; a
// non-zero exit is surfaced via CommandResult, never as an error.
func (r *Run) ExecCommand(ctx context.Context) (*CommandResult, error) {
	if r.spec.command == nil {
		return nil, &ConfigurationError{Message: "ExecCommand invoked on a function-bound Run"}
	}

	exec, _, err := r.preRun(ctx)
	if err != nil {
		return nil, err
	}
	logger := rlog.WithRun(rlog.Default, exec.name)

	var spawned *spawn.Result
	_, routineErr := r.inRun(ctx, exec, logger, func() (any, error) {
		res, sErr := spawn.Run(ctx, r.spec.command, exec.dir)
		spawned = res
		return res, sErr
	})

	r.postRun(ctx, exec, logger)

	if routineErr != nil {
		return nil, routineErr
	}
	return &CommandResult{
		ExitCode: spawned.ExitCode,
		Stdout:   spawned.Stdout,
		Stderr:   spawned.Stderr,
		RunDir:   exec.dir,
	}, nil
}

// preRun bootstraps the vault, materializes the run directory, then builds,
// encapsulates and reports the pre-run contexts. A pre-run reporter failure
// is fatal (§7): it propagates and no in-run or post-run phase runs.
func (r *Run) preRun(ctx context.Context) (*execution, *Capsule, error) {
	if err := bootstrapVault(r.spec.vaultDir); err != nil {
		return nil, nil, err
	}

	name := r.spec.runNameFactory(r.spec.execInfo, randomSuffix(), time.Now())
	dir, err := createRunDir(r.spec.vaultDir, name)
	if err != nil {
		return nil, nil, err
	}
	exec := &execution{name: name, dir: dir}

	params := CapsuleParams{
		ExecInfo:    r.spec.execInfo,
		RunName:     name,
		RunDir:      dir,
		Phase:       PhasePre,
		ProjectRoot: r.spec.projectRoot,
	}

	enc := NewEncapsulator()
	for _, build := range r.spec.preContexts {
		c, err := build(params)
		if err != nil {
			return nil, nil, errutil.Wrap(err, "capsula: pre-run context build failed")
		}
		if err := enc.AddContext(c, ""); err != nil {
			return nil, nil, err
		}
	}

	capsule, err := enc.Encapsulate(ctx)
	if err != nil {
		return nil, nil, err
	}

	for _, build := range r.spec.preReporters {
		rep, err := build(params)
		if err != nil {
			return nil, nil, errutil.Wrap(err, "capsula: pre-run reporter build failed")
		}
		if err := rep.Report(ctx, capsule); err != nil {
			return nil, nil, errutil.Wrap(err, "capsula: pre-run reporter failed")
		}
	}

	return exec, capsule, nil
}

// inRun builds the in-run watchers, nests them around routine via a
// WatcherGroup, and encapsulates/reports the result. In-run reporter
// failures are caught and logged, never fatal (§7) — they must not mask the
// routine's own outcome.
func (r *Run) inRun(ctx context.Context, exec *execution, logger *slog.Logger, routine func() (any, error)) (any, error) {
	params := CapsuleParams{
		ExecInfo:    r.spec.execInfo,
		RunName:     exec.name,
		RunDir:      exec.dir,
		Phase:       PhaseIn,
		ProjectRoot: r.spec.projectRoot,
	}

	enc := NewEncapsulator()
	var buildErr error
	for _, build := range r.spec.watchers {
		w, err := build(params)
		if err != nil {
			buildErr = err
			break
		}
		if err := enc.AddWatcher(w, ""); err != nil {
			buildErr = err
			break
		}
	}

	popRun := runStack.push(exec)
	popEnc := enc.enter()

	var result any
	var routineErr error

	if buildErr != nil {
		routineErr = buildErr
	} else {
		group := enc.Watch()
		if err := group.Enter(ctx); err != nil {
			routineErr = err
		} else {
			result, routineErr = safeCall(routine)
			routineErr = group.Exit(ctx, routineErr)
		}
	}

	popEnc()
	popRun()

	inCapsule, capErr := enc.Encapsulate(ctx)
	if capErr != nil {
		if routineErr == nil {
			routineErr = capErr
		} else {
			logger.Warn("in-run encapsulation aborted", slog.String("error", capErr.Error()))
		}
		inCapsule = newCapsule(nil, nil, nil)
	}

	for _, build := range r.spec.inReporters {
		rep, err := build(params)
		if err != nil {
			logger.Warn("in-run reporter build failed", slog.String("error", err.Error()))
			continue
		}
		if err := rep.Report(ctx, inCapsule); err != nil {
			logger.Warn("in-run reporter failed", slog.String("error", err.Error()))
		}
	}

	return result, routineErr
}

// postRun builds, encapsulates and reports the post-run contexts. It always
// runs, and its own failures never propagate: by this point the routine's
// outcome (or error) is already decided and must not be masked.
func (r *Run) postRun(ctx context.Context, exec *execution, logger *slog.Logger) {
	params := CapsuleParams{
		ExecInfo:    r.spec.execInfo,
		RunName:     exec.name,
		RunDir:      exec.dir,
		Phase:       PhasePost,
		ProjectRoot: r.spec.projectRoot,
	}

	enc := NewEncapsulator()
	for _, build := range r.spec.postContexts {
		c, err := build(params)
		if err != nil {
			logger.Warn("post-run context build failed", slog.String("error", err.Error()))
			continue
		}
		if err := enc.AddContext(c, ""); err != nil {
			logger.Warn("post-run context add failed", slog.String("error", err.Error()))
		}
	}

	capsule, err := enc.Encapsulate(ctx)
	if err != nil {
		logger.Warn("post-run encapsulation aborted", slog.String("error", err.Error()))
		capsule = newCapsule(nil, nil, nil)
	}

	for _, build := range r.spec.postReporters {
		rep, err := build(params)
		if err != nil {
			logger.Warn("post-run reporter build failed", slog.String("error", err.Error()))
			continue
		}
		if err := rep.Report(ctx, capsule); err != nil {
			logger.Warn("post-run reporter failed", slog.String("error", err.Error()))
		}
	}
}

// safeCall recovers a panicking routine and folds it into the same error
// path as a normal returned error, so a misbehaving routine still lets
// in-run/post-run reporting complete.
func safeCall(routine func() (any, error)) (result any, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("capsula: routine panicked: %v", p)
		}
	}()
	return routine()
}
