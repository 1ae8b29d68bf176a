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
	"testing"
)

func TestEnvEncapsulateIgnoresListedNames(t *testing.T) {
	t.Setenv("CAPSULA_TEST_SECRET", "shh")
	t.Setenv("CAPSULA_TEST_PUBLIC", "fine")

	env := NewEnv("CAPSULA_TEST_SECRET")
	v, err := env.Encapsulate(context.Background())
	if err != nil {
		t.Fatalf("Encapsulate() error = %v", err)
	}
	fields := v.(map[string]any)

	if _, present := fields["CAPSULA_TEST_SECRET"]; present {
		t.Error("ignored variable should be omitted entirely, not masked")
	}
	if fields["CAPSULA_TEST_PUBLIC"] != "fine" {
		t.Errorf("CAPSULA_TEST_PUBLIC = %v, want fine", fields["CAPSULA_TEST_PUBLIC"])
	}
}

func TestEnvEncapsulateNoIgnoreList(t *testing.T) {
	t.Setenv("CAPSULA_TEST_VAR", "value")
	env := NewEnv()
	v, err := env.Encapsulate(context.Background())
	if err != nil {
		t.Fatalf("Encapsulate() error = %v", err)
	}
	fields := v.(map[string]any)
	if fields["CAPSULA_TEST_VAR"] != "value" {
		t.Errorf("CAPSULA_TEST_VAR = %v, want value", fields["CAPSULA_TEST_VAR"])
	}
}
