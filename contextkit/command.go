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

package contextkit

import (
	"context"

	"github.com/tombarlow/capsula/internal/spawn"
	"github.com/tombarlow/capsula/pkg/capsula"
)

// Command runs an arbitrary side-observation command (e.g. "uname -a") and
// records its exit code, stdout, and stderr. It is distinct from a
// command-bound Run: that route runs the routine itself, while Command is
// just another context observing something alongside it.
type Command struct {
	Argv  []string
	Dir   string
	Abort bool
}

// NewCommand returns a Command context running argv in dir.
func NewCommand(dir string, argv ...string) *Command {
	return &Command{Argv: argv, Dir: dir}
}

func (c *Command) AbortOnError() bool { return c.Abort }

func (c *Command) DefaultKey() capsula.Key {
	if len(c.Argv) == 0 {
		return capsula.NewKey("command")
	}
	return capsula.NewKey("command", c.Argv[0])
}

func (c *Command) Encapsulate(ctx context.Context) (any, error) {
	result, err := spawn.Run(ctx, c.Argv, c.Dir)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"argv":      c.Argv,
		"exit_code": result.ExitCode,
		"stdout":    result.Stdout,
		"stderr":    result.Stderr,
	}, nil
}
