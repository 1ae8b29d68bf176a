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
	"strings"

	"github.com/tombarlow/capsula/internal/spawn"
	"github.com/tombarlow/capsula/pkg/capsula"
)

// Git snapshots the current commit, branch, and dirty state of a repository
// by shelling out to the git binary — there is no go-git dependency in this
// codebase's lineage, so this follows the same process-spawning style as the
// command-bound Run route.
type Git struct {
	Dir   string
	Abort bool
}

// NewGit returns a Git context rooted at dir.
func NewGit(dir string) *Git {
	return &Git{Dir: dir}
}

func (g *Git) AbortOnError() bool      { return g.Abort }
func (g *Git) DefaultKey() capsula.Key { return capsula.NewKey("git") }

func (g *Git) Encapsulate(ctx context.Context) (any, error) {
	commit, err := spawn.Capture(ctx, g.Dir, "git", "rev-parse", "HEAD")
	if err != nil {
		return nil, err
	}
	branch, err := spawn.Capture(ctx, g.Dir, "git", "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return nil, err
	}

	status, err := spawn.Capture(ctx, g.Dir, "git", "status", "--porcelain")
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"commit": strings.TrimSpace(commit),
		"branch": strings.TrimSpace(branch),
		"dirty":  strings.TrimSpace(status) != "",
	}, nil
}
