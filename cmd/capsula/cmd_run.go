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
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tombarlow/capsula/contextkit"
	"github.com/tombarlow/capsula/pkg/capsula"
	"github.com/tombarlow/capsula/reporterkit"
	"github.com/tombarlow/capsula/watcherkit"
)

// commandExitError carries a command-bound Run's child exit code out of
// cobra's RunE without capsula printing a spurious "capsula: exit status 3"
// usage error for what is, per §6, an expected non-zero exit.
type commandExitError struct{ code int }

func (e *commandExitError) Error() string { return fmt.Sprintf("command exited %d", e.code) }
func (e *commandExitError) ExitCode() int { return e.code }

// newRunCommand builds `capsula run -- <command...>`: a config-free
// command-bound Run with a sensible default capture set (platform context,
// elapsed/uncaught-exception watchers, a JSON reporter to stdout).
func newRunCommand() *cobra.Command {
	var (
		vaultDir    string
		projectRoot string
		reportPath  string
	)

	cmd := &cobra.Command{
		Use:   "run -- <command> [args...]",
		Short: "Run a command inside a capsule",
		Long: `Run wraps the given command in capsula's three-phase lifecycle using a
built-in default capture set: platform info before and after, elapsed time
and uncaught-exception watchers around the command, and a JSON report of
each phase written to stdout (or --report).`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			argv := args
			if dash := cmd.ArgsLenAtDash(); dash >= 0 {
				argv = args[dash:]
			}
			if len(argv) == 0 {
				return &capsula.ConfigurationError{Message: "run: no command given after --"}
			}

			reporter, closeReporter, err := newJSONReporter(reportPath)
			if err != nil {
				return err
			}
			defer closeReporter()

			builder := capsula.NewBuilder().
				WithVaultDir(vaultDir).
				WithProjectRoot(projectRoot).
				AddContext(contextkit.NewPlatform(), capsula.ModeAll, true).
				AddWatcher(watcherkit.NewElapsed(), false).
				AddWatcher(watcherkit.NewUncaughtException(), false).
				AddReporter(reporter, capsula.ModeAll, true)

			run, err := builder.Command(argv)
			if err != nil {
				return fmt.Errorf("capsula: failed to build run: %w", err)
			}

			result, err := run.ExecCommand(cmd.Context())
			if err != nil {
				return fmt.Errorf("capsula: run failed: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "run directory: %s\n", result.RunDir)
			if result.ExitCode != 0 {
				return &commandExitError{code: result.ExitCode}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&vaultDir, "vault-dir", "./.capsula", "directory that holds per-run capsule directories")
	cmd.Flags().StringVar(&projectRoot, "project-root", ".", "project root surfaced to contexts that resolve relative paths")
	cmd.Flags().StringVar(&reportPath, "report", "", "write each phase's JSON report to this file instead of stdout")

	return cmd
}

func newJSONReporter(path string) (*reporterkit.JSON, func(), error) {
	if path == "" {
		return reporterkit.NewJSON(os.Stdout), func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("capsula: failed to create report file %q: %w", path, err)
	}
	return reporterkit.NewJSON(f), func() { f.Close() }, nil
}
