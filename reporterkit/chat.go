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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/tombarlow/capsula/pkg/capsula"
)

// Chat posts a capsule summary to an incoming-webhook URL (Slack-compatible
// "text" payload shape). It uses net/http directly rather than a chat-app
// SDK, matching this codebase's existing raw-HTTP integration style.
type Chat struct {
	WebhookURL string
	Client     *http.Client
}

// NewChat returns a Chat reporter posting to webhookURL with a 10-second
// timeout client.
func NewChat(webhookURL string) *Chat {
	return &Chat{WebhookURL: webhookURL, Client: &http.Client{Timeout: 10 * time.Second}}
}

func (c *Chat) Report(ctx context.Context, capsule *capsula.Capsule) error {
	text := fmt.Sprintf("capsule: %d captured, %d failed", len(capsule.Data()), len(capsule.Fails()))
	payload, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return fmt.Errorf("reporterkit: failed to encode chat payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.WebhookURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("reporterkit: failed to build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("reporterkit: chat webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("reporterkit: chat webhook returned status %d", resp.StatusCode)
	}
	return nil
}
