// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAppliesDefaults(t *testing.T) {
	c := New("http://localhost:8090/")
	assert.Equal(t, "http://localhost:8090", c.BaseURL())
	assert.Equal(t, LatestVersion, c.Version())
	require.NotNil(t, c.Jobs)
	require.NotNil(t, c.Sessions)
}

func TestWithVersionOverridesHeader(t *testing.T) {
	var gotHeader string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Get(VersionHeader)
		writeEnvelope(w, http.StatusOK, json.RawMessage(`{"Sessions":[]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, WithVersion("2025-12-01"))
	_, err := c.Sessions.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2025-12-01", gotHeader)
}

func TestJobsStartSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/jobs", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var body StartRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "s1", body.SessionKey)

		writeEnvelope(w, http.StatusAccepted, mustMarshal(t, StartResponse{
			JobID:      "job-1",
			SessionKey: "s1",
			Status:     "running",
		}))
	}))
	defer srv.Close()

	c := New(srv.URL)
	resp, err := c.Jobs.Start(context.Background(), StartRequest{SessionKey: "s1", Prompt: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "job-1", resp.JobID)
	assert.Equal(t, "running", resp.Status)
}

func TestJobsStartConflictReturnsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusConflict, "CONFLICT", "session s1 already has an active job")
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.Jobs.Start(context.Background(), StartRequest{SessionKey: "s1", Prompt: "hi"})
	require.Error(t, err)

	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.Equal(t, "CONFLICT", apiErr.Code)
}

func TestJobsStatusNotFoundIsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "job not found")
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.Jobs.Status(context.Background(), "s1", "nonexistent")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "job not found")
}

func TestJobsOutputSuccessReturnsPlainTextBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/jobs/job-1/output", r.URL.Path)
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("hello world"))
	}))
	defer srv.Close()

	c := New(srv.URL)
	resp, err := c.Jobs.Output(context.Background(), "s1", "job-1", 0, 0)
	require.NoError(t, err)
	assert.True(t, resp.Found)
	assert.Equal(t, "hello world", string(resp.Content))
}

func TestJobsOutputNotFoundSetsFoundFalse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "job not found")
	}))
	defer srv.Close()

	c := New(srv.URL)
	resp, err := c.Jobs.Output(context.Background(), "s1", "job-1", 0, 0)
	require.NoError(t, err)
	assert.False(t, resp.Found)
	assert.Equal(t, "job not found", resp.Message)
}

func TestJobsCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		writeEnvelope(w, http.StatusOK, mustMarshal(t, CancelResponse{Message: "cancel requested"}))
	}))
	defer srv.Close()

	c := New(srv.URL)
	resp, err := c.Jobs.Cancel(context.Background(), "s1", "job-1")
	require.NoError(t, err)
	assert.Equal(t, "cancel requested", resp.Message)
}

func TestSessionsCleanup(t *testing.T) {
	var gotBody map[string]bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		writeEnvelope(w, http.StatusOK, mustMarshal(t, CleanupResponse{Count: 2, Keys: []string{"a", "b"}}))
	}))
	defer srv.Close()

	c := New(srv.URL)
	resp, err := c.Sessions.Cleanup(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Count)
	assert.True(t, gotBody["delete_workspaces"])
}

func writeEnvelope(w http.ResponseWriter, status int, data json.RawMessage) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{"data": data})
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{"code": code, "message": message},
	})
}

func mustMarshal(t *testing.T, v interface{}) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}
