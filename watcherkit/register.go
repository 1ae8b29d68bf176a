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

package watcherkit

import "github.com/tombarlow/capsula/pkg/capsula"

// init registers every built-in Watcher with capsula.WatcherRegistry, so a
// config-driven `[in-run] watchers = [{type = "elapsed"}, ...]` table can
// resolve them by name. Every factory returns a fresh instance per call: a
// Watcher carries per-invocation state (§4.5's builder/instance duality
// note), so registries must never hand out a shared one.
func init() {
	capsula.WatcherRegistry.MustRegister("elapsed", func(_ capsula.CapsuleParams, fields capsula.RawFields) (capsula.Watcher, error) {
		return &Elapsed{Abort: boolField(fields, "abort")}, nil
	})
	capsula.WatcherRegistry.MustRegister("uncaught_exception", func(_ capsula.CapsuleParams, fields capsula.RawFields) (capsula.Watcher, error) {
		return &UncaughtException{Abort: boolField(fields, "abort")}, nil
	})
	capsula.WatcherRegistry.MustRegister("max_rss", func(_ capsula.CapsuleParams, fields capsula.RawFields) (capsula.Watcher, error) {
		return &MaxRSS{Abort: boolField(fields, "abort")}, nil
	})
}

func boolField(fields capsula.RawFields, key string) bool {
	v, _ := fields[key].(bool)
	return v
}
