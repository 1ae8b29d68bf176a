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

//go:build linux

package watcherkit

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/tombarlow/capsula/pkg/capsula"
)

// MaxRSS samples the process's resident set size before and after the
// routine by parsing /proc/self/status, recording the delta in kilobytes.
// It is Linux-only; see maxrss_other.go for the no-op used elsewhere.
type MaxRSS struct {
	Abort    bool
	beforeKB int64
	afterKB  int64
}

// NewMaxRSS returns a MaxRSS watcher. Build a fresh instance per Run.
func NewMaxRSS() *MaxRSS { return &MaxRSS{} }

func (m *MaxRSS) AbortOnError() bool      { return m.Abort }
func (m *MaxRSS) DefaultKey() capsula.Key { return capsula.NewKey("memory", "max_rss_kb") }

func (m *MaxRSS) Enter(context.Context) (capsula.Handle, error) {
	kb, err := vmRSSKB()
	if err != nil {
		return nil, err
	}
	m.beforeKB = kb
	return nil, nil
}

func (m *MaxRSS) Exit(context.Context, capsula.Handle, *capsula.ExceptionState) (bool, error) {
	kb, err := vmRSSKB()
	if err != nil {
		return false, err
	}
	m.afterKB = kb
	return false, nil
}

func (m *MaxRSS) Encapsulate(context.Context) (any, error) {
	return map[string]any{
		"before_kb": m.beforeKB,
		"after_kb":  m.afterKB,
		"delta_kb":  m.afterKB - m.beforeKB,
	}, nil
}

func vmRSSKB() (int64, error) {
	f, err := os.Open("/proc/self/status")
	if err != nil {
		return 0, fmt.Errorf("watcherkit: failed to open /proc/self/status: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "VmRSS:") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return 0, fmt.Errorf("watcherkit: malformed VmRSS line %q", line)
		}
		return strconv.ParseInt(fields[1], 10, 64)
	}
	return 0, fmt.Errorf("watcherkit: VmRSS not found in /proc/self/status")
}
