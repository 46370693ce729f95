// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// JobsClient provides access to job lifecycle operations.
//
// Access this client through [Client.Jobs]:
//
//	start, err := client.Jobs.Start(ctx, client.StartRequest{...})
type JobsClient struct {
	c *Client
}

// Start submits a prompt to a session, creating a new job and starting its
// container. A session may have at most one active job; Start returns an
// *APIError with code "CONFLICT" if one is already running.
func (j *JobsClient) Start(ctx context.Context, req StartRequest) (*StartResponse, error) {
	data, err := j.c.postJSON(ctx, "/api/v1/jobs", req)
	if err != nil {
		return nil, err
	}

	var resp StartResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse start response: %w", err)
	}
	return &resp, nil
}

// Status returns a job's current lifecycle state. sessionKey scopes the
// lookup: a jobID that exists but belongs to a different session is
// reported as not found.
func (j *JobsClient) Status(ctx context.Context, sessionKey, jobID string) (*StatusResponse, error) {
	path := fmt.Sprintf("/api/v1/jobs/%s?session_key=%s", url.PathEscape(jobID), url.QueryEscape(sessionKey))
	data, err := j.c.get(ctx, path)
	if err != nil {
		return nil, err
	}

	var resp StatusResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse status response: %w", err)
	}
	return &resp, nil
}

// Output reads a byte range of a job's accumulated output. offset and
// limit are both optional; zero values request the server's defaults.
func (j *JobsClient) Output(ctx context.Context, sessionKey, jobID string, offset, limit int64) (*OutputResponse, error) {
	path := fmt.Sprintf("/api/v1/jobs/%s/output?session_key=%s", url.PathEscape(jobID), url.QueryEscape(sessionKey))
	if offset != 0 {
		path += fmt.Sprintf("&offset=%d", offset)
	}
	if limit != 0 {
		path += fmt.Sprintf("&limit=%d", limit)
	}

	resp, err := j.c.rawGet(ctx, path)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read output response: %w", err)
	}

	// A not-found or error response comes back through the standard JSON
	// envelope, not the plain-text body a successful read uses.
	if resp.StatusCode >= 400 {
		var envelope apiResponse
		if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error != nil {
			if resp.StatusCode == http.StatusNotFound {
				return &OutputResponse{Found: false, Message: envelope.Error.Message}, nil
			}
			return nil, envelope.Error
		}
		return nil, fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(body))
	}

	return &OutputResponse{Found: true, Content: body}, nil
}

// Cancel requests termination of a running job. It never raises for a
// missing or already-terminal job; the response Message explains what
// happened.
func (j *JobsClient) Cancel(ctx context.Context, sessionKey, jobID string) (*CancelResponse, error) {
	path := fmt.Sprintf("/api/v1/jobs/%s/cancel?session_key=%s", url.PathEscape(jobID), url.QueryEscape(sessionKey))
	data, err := j.c.post(ctx, path)
	if err != nil {
		return nil, err
	}

	var resp CancelResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse cancel response: %w", err)
	}
	return &resp, nil
}
