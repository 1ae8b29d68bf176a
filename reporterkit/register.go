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

package reporterkit

import (
	"os"

	"github.com/tombarlow/capsula/pkg/capsula"
)

// init registers every built-in Reporter with capsula.ReporterRegistry so a
// config-driven `reporters = [{type = "json", ...}]` table can resolve them
// by name, per spec.md §4.2/§6.
func init() {
	capsula.ReporterRegistry.MustRegister("json", func(params capsula.CapsuleParams, fields capsula.RawFields) (capsula.Reporter, error) {
		path, _ := fields["path"].(string)
		if path == "" {
			return NewJSON(os.Stdout), nil
		}
		return NewJSONFile(resolvePath(path, params)), nil
	})
	capsula.ReporterRegistry.MustRegister("chat", func(_ capsula.CapsuleParams, fields capsula.RawFields) (capsula.Reporter, error) {
		url, ok := fields["webhook_url"].(string)
		if !ok || url == "" {
			return nil, &capsula.ConfigurationError{Message: "reporterkit: \"chat\" requires a non-empty \"webhook_url\" field"}
		}
		return NewChat(url), nil
	})
}

// resolvePath joins a relative reporter output path against the run
// directory, so a config-driven JSON reporter writes alongside the rest of
// the capsule rather than into the process's current directory.
func resolvePath(path string, params capsula.CapsuleParams) string {
	if path == "" || path[0] == '/' {
		return path
	}
	if params.RunDir == "" {
		return path
	}
	return params.RunDir + string(os.PathSeparator) + path
}
