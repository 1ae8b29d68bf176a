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

import "github.com/tombarlow/capsula/pkg/capsula"

// init registers every built-in Context with capsula.ContextRegistry under
// the name a TOML `[pre-run]`/`[post-run]` item table would use as its
// "type" field, per spec.md §4.2/§6. Importing contextkit for its side
// effect (a blank import) is enough to make these names resolvable by
// internal/config-driven RunSpecs.
func init() {
	capsula.ContextRegistry.MustRegister("platform", func(_ capsula.CapsuleParams, fields capsula.RawFields) (capsula.Context, error) {
		return &Platform{Abort: boolField(fields, "abort")}, nil
	})
	capsula.ContextRegistry.MustRegister("cpu", func(_ capsula.CapsuleParams, fields capsula.RawFields) (capsula.Context, error) {
		return &CPU{Abort: boolField(fields, "abort")}, nil
	})
	capsula.ContextRegistry.MustRegister("env", func(_ capsula.CapsuleParams, fields capsula.RawFields) (capsula.Context, error) {
		return &Env{Ignore: stringsField(fields, "ignore"), Abort: boolField(fields, "abort")}, nil
	})
	capsula.ContextRegistry.MustRegister("file_hash", func(_ capsula.CapsuleParams, fields capsula.RawFields) (capsula.Context, error) {
		path, err := requireStringField(fields, "path")
		if err != nil {
			return nil, err
		}
		return &FileHash{Path: path, Key: stringField(fields, "key"), Abort: boolField(fields, "abort")}, nil
	})
	capsula.ContextRegistry.MustRegister("git", func(params capsula.CapsuleParams, fields capsula.RawFields) (capsula.Context, error) {
		dir := stringField(fields, "dir")
		if dir == "" {
			dir = params.ProjectRoot
		}
		return &Git{Dir: dir, Abort: boolField(fields, "abort")}, nil
	})
	capsula.ContextRegistry.MustRegister("command", func(params capsula.CapsuleParams, fields capsula.RawFields) (capsula.Context, error) {
		argv := stringsField(fields, "argv")
		if len(argv) == 0 {
			return nil, &capsula.ConfigurationError{Message: "contextkit: \"command\" requires a non-empty \"argv\" field"}
		}
		dir := stringField(fields, "dir")
		if dir == "" {
			dir = params.ProjectRoot
		}
		return &Command{Argv: argv, Dir: dir, Abort: boolField(fields, "abort")}, nil
	})
}

func boolField(fields capsula.RawFields, key string) bool {
	v, _ := fields[key].(bool)
	return v
}

func stringField(fields capsula.RawFields, key string) string {
	v, _ := fields[key].(string)
	return v
}

func requireStringField(fields capsula.RawFields, key string) (string, error) {
	v, ok := fields[key].(string)
	if !ok || v == "" {
		return "", &capsula.ConfigurationError{Message: "contextkit: missing required string field " + key}
	}
	return v, nil
}

// stringsField reads a TOML string array, which decodes as []interface{}.
func stringsField(fields capsula.RawFields, key string) []string {
	raw, ok := fields[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
