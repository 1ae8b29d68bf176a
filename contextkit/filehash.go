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
	"fmt"
	"os"

	"github.com/cespare/xxhash/v2"

	"github.com/tombarlow/capsula/pkg/capsula"
)

// FileHash captures the xxhash64 of a file's contents under Key, so a
// capsule can prove which version of an input file a run actually consumed.
type FileHash struct {
	Path  string
	Key   string
	Abort bool
}

// NewFileHash returns a FileHash context for path, keyed by path as given
// unless overridden via the Key field.
func NewFileHash(path string) *FileHash {
	return &FileHash{Path: path}
}

func (f *FileHash) AbortOnError() bool { return f.Abort }

func (f *FileHash) DefaultKey() capsula.Key {
	if f.Key != "" {
		return capsula.NewKey("file_hash", f.Key)
	}
	return capsula.NewKey("file_hash", f.Path)
}

func (f *FileHash) Encapsulate(context.Context) (any, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("contextkit: failed to read %q: %w", f.Path, err)
	}
	sum := xxhash.Sum64(data)
	return map[string]any{
		"path":     f.Path,
		"size":     len(data),
		"xxhash64": fmt.Sprintf("%016x", sum),
	}, nil
}
