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

// Package reporterkit holds concrete capsula.Reporter implementations:
// consumers of a finished Capsule.
package reporterkit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/tombarlow/capsula/pkg/capsula"
)

// JSON serializes a Capsule's nested representation as JSON. If Path is set,
// Report opens (creating/truncating) that file for the duration of the
// write; otherwise it writes to Writer, which the caller owns. Any fails
// entries are included under a top-level "_fails" key so a failed,
// non-aborting capture is still visible in the output.
type JSON struct {
	Writer io.Writer
	Path   string
	Indent string
}

// NewJSON returns a JSON reporter writing to w with two-space indentation.
func NewJSON(w io.Writer) *JSON {
	return &JSON{Writer: w, Indent: "  "}
}

// NewJSONFile returns a JSON reporter that writes to path, created fresh on
// every Report call.
func NewJSONFile(path string) *JSON {
	return &JSON{Path: path, Indent: "  "}
}

func (j *JSON) Report(_ context.Context, capsule *capsula.Capsule) error {
	nested, err := capsule.Nested()
	if err != nil {
		return fmt.Errorf("reporterkit: failed to nest capsule data: %w", err)
	}

	if fails := capsule.Fails(); len(fails) > 0 {
		failsOut := make(map[string]any, len(fails))
		for key, info := range fails {
			failsOut[key.String()] = map[string]any{
				"type":      info.TypeName,
				"message":   info.Message,
				"traceback": info.TracebackText,
			}
		}
		nested["_fails"] = failsOut
	}

	w := j.Writer
	if j.Path != "" {
		f, err := os.Create(j.Path)
		if err != nil {
			return fmt.Errorf("reporterkit: failed to create %q: %w", j.Path, err)
		}
		defer f.Close()
		w = f
	}
	if w == nil {
		return fmt.Errorf("reporterkit: JSON reporter has neither Path nor Writer set")
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", j.Indent)
	if err := enc.Encode(nested); err != nil {
		return fmt.Errorf("reporterkit: failed to encode capsule: %w", err)
	}
	return nil
}
