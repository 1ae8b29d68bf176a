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

/*
Package capsula surrounds the execution of a routine or shell command with
three ordered phases — pre-run, in-run, post-run — and produces a capsule:
a record of the environment, the routine's effects, and any ambient
observations made while it ran.

# Building a Run

A Run is assembled with the fluent builder surface and triggered by calling
it:

	run, err := capsula.NewBuilder().
		WithVaultDir("./.capsula").
		AddContext(contextkit.NewPlatform(), capsula.ModeAll, false).
		AddWatcher(watcherkit.NewElapsed(), false).
		AddReporter(reporterkit.NewJSON(os.Stdout), capsula.ModeAll, false).
		Func("add", false, add)
	if err != nil {
		return err
	}

	result, err := run.Call(context.Background(), 2, 3)

# Phases

Pre-run builds and encapsulates contexts, then reports. In-run nests
watchers around the routine with a WatcherGroup and encapsulates the
watchers' own captures. Post-run builds and encapsulates a fresh set of
contexts. In-run and post-run reports always run, even when the routine
fails — see Run.Call and Run.ExecCommand.

# Ambient recording

Code running inside the routine can contribute to the in-run capsule
without holding an explicit handle:

	capsula.Record(capsula.StringKey("note"), "cache warmed")

Record and CurrentRunName look up the calling goroutine's current
encapsulator/run; both fail if called outside a Run.
*/
package capsula
