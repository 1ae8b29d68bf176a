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

// Command capsula is a thin CLI front-end over the capsula core: it wires a
// RunSpec (from flags or a TOML config file), executes a command-bound Run,
// and propagates the child's exit code. Per spec.md §1, the front-end is an
// external collaborator, not part of the core's scope.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Blank-imported so their init() functions register the built-in
	// contexts/watchers/reporters with capsula's registries before any
	// config-driven RunSpec is resolved.
	_ "github.com/tombarlow/capsula/contextkit"
	_ "github.com/tombarlow/capsula/reporterkit"
	_ "github.com/tombarlow/capsula/watcherkit"
)

// exitCoder lets a subcommand request a specific process exit code (e.g. a
// command-bound Run's non-zero exit) without cobra treating it as a usage
// error.
type exitCoder interface {
	ExitCode() int
}

func main() {
	root := newRootCommand()

	if err := root.Execute(); err != nil {
		var ec exitCoder
		if errors.As(err, &ec) {
			os.Exit(ec.ExitCode())
		}
		fmt.Fprintln(os.Stderr, "capsula:", err)
		os.Exit(1)
	}
}

// newRootCommand builds the capsula root command.
func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "capsula",
		Short:         "Wrap a command in a reproducibility capsule",
		Long:          `Capsula surrounds a command with pre-run, in-run, and post-run capture phases and writes the result to a self-contained run directory.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newRunCommand())
	cmd.AddCommand(newExecCommand())

	return cmd
}
