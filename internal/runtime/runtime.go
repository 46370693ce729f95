// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package runtime defines the container runtime port the supervisor core
// drives, and a concrete implementation that shells out to the docker
// CLI. The core knows only these operations, never CLI flags or process
// plumbing.
package runtime

import (
	"context"
	"regexp"
	"strings"
	"time"
)

// StartOptions describes a container the runtime should launch detached.
type StartOptions struct {
	ContainerName string
	Image         string
	WorkspaceDir  string
	CredentialDir string
	Prompt        string
	Env           map[string]string
}

// StartResult is returned by StartDetached on success.
type StartResult struct {
	ContainerName string
	ContainerID   string
}

// Status is the point-in-time state of a container.
type Status struct {
	Running    bool
	ExitCode   *int
	StartedAt  *time.Time
	FinishedAt *time.Time
}

// Stats is a resource usage snapshot.
type Stats struct {
	MemMB      float64
	MemLimitMB float64
	MemPct     float64
	CPUPct     float64
}

// ContainerInfo is one entry from ListByPrefix.
type ContainerInfo struct {
	Name      string
	Running   bool
	CreatedAt time.Time
}

// LogChunk is one unit sent on a StreamLogs channel: a line of the
// container's combined stdout/stderr.
type LogChunk struct {
	Line []byte
}

// Runtime is the port the core uses to start, observe, and stop detached
// containers. Ownership of all sandboxing decisions (memory, CPU,
// network, capability drops, tmpfs, volume mounts) belongs to the
// implementation; the core does not specify them.
type Runtime interface {
	// CheckImage reports whether the configured image is available to run.
	CheckImage(ctx context.Context, image string) (bool, error)

	// StartDetached launches a container in the background and returns
	// immediately once it has been created.
	StartDetached(ctx context.Context, opts StartOptions) (*StartResult, error)

	// StreamLogs yields the container's combined stdout/stderr in arrival
	// order on lineCh, closing it when the container exits. It returns the
	// exit code observed at stream termination, or an error for a genuine
	// transport failure (not a container-reported non-zero exit).
	StreamLogs(ctx context.Context, containerName string, lineCh chan<- LogChunk) (exitCode int, err error)

	// GetLogs returns all currently-available log bytes without streaming.
	GetLogs(ctx context.Context, containerName string) ([]byte, error)

	// GetStatus returns nil if the container does not exist.
	GetStatus(ctx context.Context, containerName string) (*Status, error)

	// GetStats returns nil if the container does not exist or is not running.
	GetStats(ctx context.Context, containerName string) (*Stats, error)

	// ListByPrefix enumerates containers (running or not) whose name
	// begins with prefix.
	ListByPrefix(ctx context.Context, prefix string) ([]ContainerInfo, error)

	// Kill stops and removes the container. It is idempotent and never
	// errors — a missing container is treated as already-killed.
	Kill(ctx context.Context, containerName string)
}

const containerPrefix = "claude-"

var unsafeNameChar = regexp.MustCompile(`[^A-Za-z0-9-]`)

// ContainerNameFromSessionKey is a total, deterministic mapping from a
// caller-supplied session key to a container name: every character
// outside [A-Za-z0-9-] becomes "-", and the result is prefixed with
// "claude-".
func ContainerNameFromSessionKey(sessionKey string) string {
	sanitized := unsafeNameChar.ReplaceAllString(sessionKey, "-")
	return containerPrefix + sanitized
}

// SessionKeyFromContainerName is the inverse of
// ContainerNameFromSessionKey, used by the orphan reconciler. It returns
// ("", false) if name does not begin with the expected prefix.
func SessionKeyFromContainerName(name string) (string, bool) {
	if !strings.HasPrefix(name, containerPrefix) {
		return "", false
	}
	return strings.TrimPrefix(name, containerPrefix), true
}
