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

package capsula

import "strings"

// keySep joins the parts of a compound key into Key's underlying string
// representation. It is not expected to appear in a context/watcher/
// reporter name or a record() key.
const keySep = "\x1f"

// Key uniquely identifies an item within an Encapsulator. It models either
// a single string or an ordered tuple of strings (a compound namespace, e.g.
// git.main). Key's underlying type is a plain string so it can be used
// directly as a map key.
type Key string

// NewKey builds a compound key from its ordered parts.
func NewKey(parts ...string) Key {
	return Key(strings.Join(parts, keySep))
}

// StringKey builds a single-part key.
func StringKey(s string) Key {
	return Key(s)
}

// Parts returns the key's ordered path segments.
func (k Key) Parts() []string {
	return strings.Split(string(k), keySep)
}

// String renders the key for logs and error messages.
func (k Key) String() string {
	return strings.Join(k.Parts(), ".")
}

// Flatten converts a nested map into a flat Key-addressed map, interpreting
// each level of nesting as a path segment. A nested map value becomes a
// compound key; a leaf value becomes the key's tuple.
func Flatten(nested map[string]any) map[Key]any {
	result := make(map[Key]any)
	var walk func(prefix []string, m map[string]any)
	walk = func(prefix []string, m map[string]any) {
		for k, v := range m {
			path := make([]string, len(prefix), len(prefix)+1)
			copy(path, prefix)
			path = append(path, k)

			if sub, ok := v.(map[string]any); ok {
				walk(path, sub)
			} else {
				result[NewKey(path...)] = v
			}
		}
	}
	walk(nil, nested)
	return result
}

// Nest converts a flat Key-addressed map into nested maps, interpreting each
// key's parts as a path. It fails with KeyConflictError if any prefix of one
// key equals another key in full (a leaf would have to occupy the same slot
// as a subtree).
func Nest(flat map[Key]any) (map[string]any, error) {
	result := make(map[string]any)

	for key, value := range flat {
		parts := key.Parts()
		cur := result

		for i, part := range parts {
			last := i == len(parts)-1
			if last {
				if existing, exists := cur[part]; exists {
					if _, isMap := existing.(map[string]any); isMap {
						return nil, &KeyConflictError{Key: key, Reason: "leaf conflicts with an existing subtree"}
					}
					return nil, &KeyConflictError{Key: key, Reason: "duplicate leaf key"}
				}
				cur[part] = value
				continue
			}

			next, exists := cur[part]
			if !exists {
				sub := make(map[string]any)
				cur[part] = sub
				cur = sub
			} else if sub, isMap := next.(map[string]any); isMap {
				cur = sub
			} else {
				return nil, &KeyConflictError{Key: key, Reason: "path element conflicts with an existing leaf"}
			}
		}
	}

	return result, nil
}
