// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package store persists sessions, jobs, and their output logs to a
// directory tree, using atomic rename for every record that may be read
// concurrently with a write.
package store

import "time"

// JobStatus is a job's position in its lifecycle state machine.
type JobStatus string

const (
	StatusPending   JobStatus = "pending"
	StatusRunning   JobStatus = "running"
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"
	StatusCancelled JobStatus = "cancelled"
)

// Terminal reports whether the status is one a job does not leave.
func (s JobStatus) Terminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusCancelled:
		return true
	default:
		return false
	}
}

// ErrorKind is the stable taxonomy of job failure reasons.
type ErrorKind string

const (
	ErrorKindStartupTimeout   ErrorKind = "startup_timeout"
	ErrorKindIdleTimeout      ErrorKind = "idle_timeout"
	ErrorKindOOM              ErrorKind = "oom"
	ErrorKindCrash            ErrorKind = "crash"
	ErrorKindSpawnFailed      ErrorKind = "spawn_failed"
	ErrorKindRateLimit        ErrorKind = "rate_limit"
	ErrorKindAuthTokenExpired ErrorKind = "auth_token_expired"
	ErrorKindAuthFailed       ErrorKind = "auth_failed"
)

// Metrics is a point-in-time resource usage snapshot for a job's container.
type Metrics struct {
	MemMB      float64 `json:"mem_mb,omitempty"`
	MemLimitMB float64 `json:"mem_limit_mb,omitempty"`
	MemPct     float64 `json:"mem_pct,omitempty"`
	CPUPct     float64 `json:"cpu_pct,omitempty"`
}

// Session is the persisted envelope for a sequence of one-job-at-a-time
// interactions with the assistant under a caller-supplied key.
type Session struct {
	SessionKey          string    `json:"session_key"`
	AssistantSessionID  string    `json:"assistant_session_id,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
	LastActivity        time.Time `json:"last_activity"`
	MessageCount        int       `json:"message_count"`
	ActiveJobID         string    `json:"active_job_id,omitempty"`
}

// Job is a single, bounded execution of a prompt in a container.
type Job struct {
	JobID           string     `json:"job_id"`
	SessionKey      string     `json:"session_key"`
	ContainerName   string     `json:"container_name"`
	Status          JobStatus  `json:"status"`
	Prompt          string     `json:"prompt"`
	CreatedAt       time.Time  `json:"created_at"`
	StartedAt       *time.Time `json:"started_at,omitempty"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	ExitCode        *int       `json:"exit_code,omitempty"`
	ErrorKind       ErrorKind  `json:"error_kind,omitempty"`
	ErrorMessage    string     `json:"error_message,omitempty"`
	OutputFile      string     `json:"output_file"`
	OutputSize      int64      `json:"output_size"`
	OutputTruncated bool       `json:"output_truncated"`
	Metrics         *Metrics   `json:"metrics,omitempty"`
	LastOutputAt    *time.Time `json:"last_output_at,omitempty"`
}

// JobPatch describes a partial update to a job record. Nil fields are left
// untouched; use the pointer/zero-value fields to clear a value explicitly
// (e.g. ClearActiveJob-style semantics live in Store.SetActiveJob, not here).
type JobPatch struct {
	Status       *JobStatus
	StartedAt    *time.Time
	CompletedAt  *time.Time
	ExitCode     *int
	ErrorKind    *ErrorKind
	ErrorMessage *string
	Metrics      *Metrics
}

// ReadResult is the result of Store.ReadJobOutput.
type ReadResult struct {
	Content   []byte
	Size      int64
	TotalSize int64
	HasMore   bool
}

// TailResult is the result of Store.ReadJobOutputTail.
type TailResult struct {
	Tail                 []byte
	LastOutputSecondsAgo float64
	TotalSize            int64
}
