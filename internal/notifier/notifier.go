// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package notifier defines the one-shot outbound notification port fired
// on a job's terminal transition, and a webhook-backed implementation.
package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"
)

// Payload is the logical completion payload delivered to the Notifier.
// Transport framing is the port implementation's concern.
type Payload struct {
	JobID          string  `json:"job_id"`
	SessionKey     string  `json:"session_key"`
	Status         string  `json:"status"`
	ElapsedSeconds float64 `json:"elapsed_seconds"`
	OutputSize     int64   `json:"output_size"`
	ExitCode       *int    `json:"exit_code,omitempty"`
	ErrorKind      string  `json:"error_kind,omitempty"`
}

// Notifier delivers a terminal job transition. Implementations must
// succeed or fail silently: the core never retries and never blocks on
// delivery beyond the call itself.
type Notifier interface {
	Notify(ctx context.Context, payload Payload)
}

// WebhookNotifier POSTs the payload as JSON to a configured URL with a
// bounded timeout. Delivery failures are logged only, never returned or
// retried — mirroring the core's fire-and-forget contract.
type WebhookNotifier struct {
	url     string
	client  *http.Client
	timeout time.Duration
}

// NewWebhookNotifier creates a WebhookNotifier posting to url with the
// given per-request timeout.
func NewWebhookNotifier(url string, timeout time.Duration) *WebhookNotifier {
	return &WebhookNotifier{
		url:     url,
		client:  &http.Client{Timeout: timeout},
		timeout: timeout,
	}
}

// Notify posts payload to the configured webhook URL. If no URL is
// configured, the call is a silent no-op — a deployment may run without a
// webhook.
func (n *WebhookNotifier) Notify(ctx context.Context, payload Payload) {
	if n.url == "" {
		return
	}

	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("notifier: marshal payload for job %s: %v", payload.JobID, err)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(data))
	if err != nil {
		log.Printf("notifier: build request for job %s: %v", payload.JobID, err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		log.Printf("notifier: deliver job %s: %v", payload.JobID, err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		log.Printf("notifier: webhook for job %s returned %s", payload.JobID, resp.Status)
	}
}

// NoopNotifier discards every notification; used when no webhook URL is
// configured and the caller wants an explicit Notifier rather than a nil
// check at every call site.
type NoopNotifier struct{}

func (NoopNotifier) Notify(ctx context.Context, payload Payload) {}

var _ Notifier = (*WebhookNotifier)(nil)
var _ Notifier = NoopNotifier{}

func (p Payload) String() string {
	return fmt.Sprintf("job=%s session=%s status=%s", p.JobID, p.SessionKey, p.Status)
}
