// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebhookNotifierDeliversPayload(t *testing.T) {
	received := make(chan Payload, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var p Payload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&p))
		received <- p
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	n := NewWebhookNotifier(server.URL, 2*time.Second)
	code := 0
	n.Notify(context.Background(), Payload{JobID: "job-1", SessionKey: "abc", Status: "completed", ExitCode: &code})

	select {
	case p := <-received:
		assert.Equal(t, "job-1", p.JobID)
		assert.Equal(t, "completed", p.Status)
	case <-time.After(time.Second):
		t.Fatal("webhook was not delivered")
	}
}

func TestWebhookNotifierNoURLIsNoop(t *testing.T) {
	n := NewWebhookNotifier("", time.Second)
	assert.NotPanics(t, func() {
		n.Notify(context.Background(), Payload{JobID: "job-1"})
	})
}

func TestWebhookNotifierDeliveryFailureDoesNotPanic(t *testing.T) {
	n := NewWebhookNotifier("http://127.0.0.1:1", 100*time.Millisecond)
	assert.NotPanics(t, func() {
		n.Notify(context.Background(), Payload{JobID: "job-1"})
	})
}

func TestNoopNotifier(t *testing.T) {
	var n Notifier = NoopNotifier{}
	assert.NotPanics(t, func() {
		n.Notify(context.Background(), Payload{JobID: "job-1"})
	})
}
