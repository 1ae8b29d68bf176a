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

import (
	"crypto/rand"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const alnum = "abcdefghijklmnopqrstuvwxyz0123456789"

// randomSuffix returns a 4-character alphanumeric suffix for the default
// run-name factory.
func randomSuffix() string {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing is not something a run directory name should
		// ever fail over; fall back to a fixed time-derived suffix instead
		// of panicking.
		now := time.Now().UnixNano()
		for i := range buf {
			buf[i] = alnum[(now>>(i*4))%int64(len(alnum))]
		}
		return string(buf)
	}
	for i, b := range buf {
		buf[i] = alnum[int(b)%len(alnum)]
	}
	return string(buf)
}

// execName extracts a run-name-friendly identifier from an ExecInfo.
func execName(exec ExecInfo) string {
	switch e := exec.(type) {
	case FuncInfo:
		if e.Name != "" {
			return e.Name
		}
		return "func"
	case CommandInfo:
		if len(e.Argv) > 0 {
			return filepath.Base(e.Argv[0])
		}
		return "command"
	default:
		return "run"
	}
}

// defaultRunNameFactory implements §4.6's default: "{exec_name}_{YYYYMMDD_HHMMSS}_{4-char alnum}".
func defaultRunNameFactory(exec ExecInfo, suffix string, now time.Time) string {
	return fmt.Sprintf("%s_%s_%s", execName(exec), now.UTC().Format("20060102_150405"), suffix)
}

// bootstrapVault creates vaultDir and seeds its .gitignore if they don't
// already exist. It is idempotent: calling it twice never rewrites
// .gitignore. A pre-existing non-directory at vaultDir is fatal.
func bootstrapVault(vaultDir string) error {
	info, err := os.Stat(vaultDir)
	switch {
	case err == nil:
		if !info.IsDir() {
			return &ConfigurationError{Message: fmt.Sprintf("vault path %q exists and is not a directory", vaultDir)}
		}
		return nil
	case os.IsNotExist(err):
		if mkErr := os.MkdirAll(vaultDir, 0o755); mkErr != nil {
			return fmt.Errorf("capsula: failed to create vault dir %q: %w", vaultDir, mkErr)
		}
		gitignore := filepath.Join(vaultDir, ".gitignore")
		if _, statErr := os.Stat(gitignore); os.IsNotExist(statErr) {
			if wErr := os.WriteFile(gitignore, []byte("*\n"), 0o644); wErr != nil {
				return fmt.Errorf("capsula: failed to seed %q: %w", gitignore, wErr)
			}
		}
		return nil
	default:
		return fmt.Errorf("capsula: failed to stat vault dir %q: %w", vaultDir, err)
	}
}

// createRunDir materializes vaultDir/runName, failing if it already exists.
// Per §3/§7, a collision is fatal: the run-name factory is expected to be
// unique, and the core does not retry or disambiguate on its behalf.
func createRunDir(vaultDir, runName string) (string, error) {
	runDir := filepath.Join(vaultDir, runName)
	if err := os.Mkdir(runDir, 0o755); err != nil {
		if os.IsExist(err) {
			return "", fmt.Errorf("capsula: run directory %q already exists; make the run-name factory produce unique names: %w", runDir, err)
		}
		return "", fmt.Errorf("capsula: failed to create run directory %q: %w", runDir, err)
	}
	return runDir, nil
}
