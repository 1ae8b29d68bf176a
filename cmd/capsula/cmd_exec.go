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
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tombarlow/capsula/internal/config"
	"github.com/tombarlow/capsula/pkg/capsula"
)

// newExecCommand builds `capsula exec <config.toml> -- <command...>`: a
// config-driven command-bound Run, per spec.md §6's TOML shape and §4.12.
func newExecCommand() *cobra.Command {
	var projectRoot string

	cmd := &cobra.Command{
		Use:   "exec <config.toml> -- <command> [args...]",
		Short: "Run a command inside a capsule built from a TOML config",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath := args[0]
			argv := args[1:]
			if dash := cmd.ArgsLenAtDash(); dash >= 1 {
				argv = args[dash:]
			}
			if len(argv) == 0 {
				return &capsula.ConfigurationError{Message: "exec: no command given after --"}
			}

			root := projectRoot
			if root == "" {
				abs, err := filepath.Abs(filepath.Dir(configPath))
				if err != nil {
					return fmt.Errorf("capsula: failed to resolve project root: %w", err)
				}
				root = abs
			}

			spec, err := config.Load(configPath)
			if err != nil {
				return err
			}

			run, err := buildRunFromConfig(spec, root, argv)
			if err != nil {
				return err
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

	cmd.Flags().StringVar(&projectRoot, "project-root", "", "project root surfaced to contexts (default: the config file's directory)")

	return cmd
}

// buildRunFromConfig resolves every item definition in spec against the
// capsula registries and assembles a command-bound Run.
func buildRunFromConfig(spec *config.Spec, projectRoot string, argv []string) (*capsula.Run, error) {
	preContexts, err := itemDefsToContextBuilders(spec.PreContexts)
	if err != nil {
		return nil, err
	}
	postContexts, err := itemDefsToContextBuilders(spec.PostContexts)
	if err != nil {
		return nil, err
	}
	watchers, err := itemDefsToWatcherBuilders(spec.Watchers)
	if err != nil {
		return nil, err
	}
	preReporters, err := itemDefsToReporterBuilders(spec.PreReporters)
	if err != nil {
		return nil, err
	}
	inReporters, err := itemDefsToReporterBuilders(spec.InReporters)
	if err != nil {
		return nil, err
	}
	postReporters, err := itemDefsToReporterBuilders(spec.PostReporters)
	if err != nil {
		return nil, err
	}

	vaultDir := config.ResolveVaultDir(spec, projectRoot)
	if vaultDir == "" {
		vaultDir = filepath.Join(projectRoot, ".capsula")
	}

	builder := capsula.NewBuilder().
		WithVaultDir(vaultDir).
		WithProjectRoot(projectRoot).
		LoadConfig(preContexts, postContexts, watchers, preReporters, inReporters, postReporters)

	return builder.Command(argv)
}

func itemDefsToContextBuilders(load func() ([]config.ItemDef, error)) ([]capsula.ContextBuilder, error) {
	defs, err := load()
	if err != nil {
		return nil, err
	}
	out := make([]capsula.ContextBuilder, len(defs))
	for i, d := range defs {
		out[i] = d.ContextBuilder()
	}
	return out, nil
}

func itemDefsToWatcherBuilders(load func() ([]config.ItemDef, error)) ([]capsula.WatcherBuilder, error) {
	defs, err := load()
	if err != nil {
		return nil, err
	}
	out := make([]capsula.WatcherBuilder, len(defs))
	for i, d := range defs {
		out[i] = d.WatcherBuilder()
	}
	return out, nil
}

func itemDefsToReporterBuilders(load func() ([]config.ItemDef, error)) ([]capsula.ReporterBuilder, error) {
	defs, err := load()
	if err != nil {
		return nil, err
	}
	out := make([]capsula.ReporterBuilder, len(defs))
	for i, d := range defs {
		out[i] = d.ReporterBuilder()
	}
	return out, nil
}
