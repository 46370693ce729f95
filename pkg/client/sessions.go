// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"context"
	"encoding/json"
	"fmt"
)

// SessionsClient provides access to session-scoped operations.
//
// Access this client through [Client.Sessions]:
//
//	sessions, err := client.Sessions.List(ctx)
type SessionsClient struct {
	c *Client
}

// List returns every known session with its enriched summary: age,
// last-activity, message count, and active job (if any).
func (s *SessionsClient) List(ctx context.Context) (*SessionsResponse, error) {
	data, err := s.c.get(ctx, "/api/v1/sessions")
	if err != nil {
		return nil, err
	}

	var resp SessionsResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse sessions response: %w", err)
	}
	return &resp, nil
}

// Cleanup removes sessions that have been idle past the daemon's
// configured threshold. If deleteWorkspaces is true, each removed
// session's workspace directory is deleted too.
func (s *SessionsClient) Cleanup(ctx context.Context, deleteWorkspaces bool) (*CleanupResponse, error) {
	body := struct {
		DeleteWorkspaces bool `json:"delete_workspaces"`
	}{DeleteWorkspaces: deleteWorkspaces}

	data, err := s.c.postJSON(ctx, "/api/v1/sessions/cleanup", body)
	if err != nil {
		return nil, err
	}

	var resp CleanupResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse cleanup response: %w", err)
	}
	return &resp, nil
}
