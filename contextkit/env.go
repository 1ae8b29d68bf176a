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
	"os"
	"strings"

	"github.com/tombarlow/capsula/pkg/capsula"
)

// Env snapshots the process environment, filtered through Ignore — the only
// redaction mechanism the core's non-goals allow. Entries whose key appears
// in Ignore are omitted entirely rather than masked.
type Env struct {
	Ignore []string
	Abort  bool
}

// NewEnv returns an Env context that omits the given variable names.
func NewEnv(ignore ...string) *Env {
	return &Env{Ignore: ignore}
}

func (e *Env) AbortOnError() bool      { return e.Abort }
func (e *Env) DefaultKey() capsula.Key { return capsula.NewKey("env") }

func (e *Env) Encapsulate(context.Context) (any, error) {
	ignore := make(map[string]bool, len(e.Ignore))
	for _, name := range e.Ignore {
		ignore[name] = true
	}

	out := make(map[string]any)
	for _, kv := range os.Environ() {
		key, value, found := strings.Cut(kv, "=")
		if !found || ignore[key] {
			continue
		}
		out[key] = value
	}
	return out, nil
}
