// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package supervisor owns the job lifecycle state machine: session/job
// creation, the per-job watcher that drives log parsing and terminal
// classification, cancellation, status inspection, and cleanup.
package supervisor

import (
	"time"

	"github.com/sandrun/jobsupervisor/internal/store"
)

// StartRequest is the input to Start.
type StartRequest struct {
	SessionKey         string
	Prompt             string
	HasCredentials     bool
	CredentialFilename string
	CredentialData     []byte
}

// StartResponse is the result of a successful Start.
type StartResponse struct {
	JobID      string
	SessionKey string
	Status     store.JobStatus
}

// StatusRequest is the input to Status.
type StatusRequest struct {
	JobID      string
	SessionKey string
}

// StatusResponse mirrors spec.md §4.3.5's inspection record.
type StatusResponse struct {
	Found                bool
	Message              string
	JobID                string
	SessionKey           string
	Status               store.JobStatus
	ElapsedSeconds       float64
	OutputSize           int64
	LastOutputSecondsAgo float64
	ActivityState        ActivityState
	TailOutput           []byte
	ExitCode             *int
	Error                string
	Metrics              *store.Metrics
}

// ActivityState classifies a running job's recent activity.
type ActivityState string

const (
	ActivityActive     ActivityState = "active"
	ActivityProcessing ActivityState = "processing"
	ActivityIdle       ActivityState = "idle"
)

// OutputRequest is the input to Output.
type OutputRequest struct {
	JobID      string
	SessionKey string
	Offset     int64
	Limit      int64
}

// OutputResponse is a header line plus the requested byte range.
type OutputResponse struct {
	Found   bool
	Message string
	Header  string
	Content []byte
}

// CancelRequest is the input to Cancel.
type CancelRequest struct {
	JobID      string
	SessionKey string
}

// CancelResponse is a text confirmation; Cancel never raises for a
// missing or already-terminal job.
type CancelResponse struct {
	Message string
}

// CleanupRequest is the input to Cleanup.
type CleanupRequest struct {
	DeleteWorkspaces bool
}

// CleanupResponse reports what Cleanup removed.
type CleanupResponse struct {
	Count   int
	Keys    []string
	Message string
}

// SessionSummary is one enriched entry in SessionsResponse.
type SessionSummary struct {
	SessionKey      string
	CreatedAt       time.Time
	LastActivity    time.Time
	AgeSeconds      float64
	TimeSinceActive float64
	MessageCount    int
	ActiveJob       *ActiveJobSummary
}

// ActiveJobSummary is the resolved active-job portion of a SessionSummary.
type ActiveJobSummary struct {
	JobID  string
	Status store.JobStatus
}

// SessionsResponse is the result of Sessions.
type SessionsResponse struct {
	Sessions []SessionSummary
}

// CompletionEvent describes a job's terminal transition: its identity,
// terminal status, elapsed time, output size, exit code and error kind.
type CompletionEvent struct {
	JobID          string
	SessionKey     string
	Status         store.JobStatus
	ElapsedSeconds float64
	OutputSize     int64
	ExitCode       *int
	ErrorKind      store.ErrorKind
}
