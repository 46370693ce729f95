// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package reconciler runs the one-shot start-up pass that reconciles
// persisted job state against actual container state, recovering jobs
// orphaned by a supervisor restart. Structurally this mirrors
// worktree.Manager's Refresh-at-construction discovery pass and
// crashes.Manager's classify-a-terminated-process-into-a-record shape,
// generalized from worktrees/events to containers/jobs.
package reconciler

import (
	"bufio"
	"bytes"
	"context"
	"log"
	"time"

	"github.com/sandrun/jobsupervisor/internal/runtime"
	"github.com/sandrun/jobsupervisor/internal/store"
	"github.com/sandrun/jobsupervisor/internal/streamparser"
	"github.com/sandrun/jobsupervisor/internal/supervisor"
)

// containerPrefix matches runtime.ContainerNameFromSessionKey's fixed
// prefix; the reconciler only ever scopes ListByPrefix to containers it
// could itself have created.
const containerPrefix = "claude-"

// Reconciler performs the start-up reconciliation pass described in
// spec.md §4.4.
type Reconciler struct {
	store   *store.Store
	runtime runtime.Runtime
}

// New creates a Reconciler backed by st and rt.
func New(st *store.Store, rt runtime.Runtime) *Reconciler {
	return &Reconciler{store: st, runtime: rt}
}

// Result summarizes one reconciliation pass, for logging/testing.
type Result struct {
	Matched      int // active job running, left alone
	Healed       int // active job found the container stopped; terminal state persisted
	Removed      int // stale or unmatched container removed
	Unrecognized int // container name did not parse as ours; skipped
}

// Run enumerates every claude-* container and reconciles it against
// persisted session/job state. It is best-effort: per spec.md §4.4 any
// per-container error is logged and the pass continues, since the
// normal Status self-healing path will eventually catch anything missed
// here.
func (r *Reconciler) Run(ctx context.Context) Result {
	var res Result

	containers, err := r.runtime.ListByPrefix(ctx, containerPrefix)
	if err != nil {
		log.Printf("reconciler: list containers: %v", err)
		return res
	}

	for _, c := range containers {
		sessionKey, ok := runtime.SessionKeyFromContainerName(c.Name)
		if !ok {
			res.Unrecognized++
			continue
		}

		if err := r.reconcileOne(ctx, sessionKey, c, &res); err != nil {
			log.Printf("reconciler: reconcile %s: %v", c.Name, err)
		}
	}

	return res
}

func (r *Reconciler) reconcileOne(ctx context.Context, sessionKey string, c runtime.ContainerInfo, res *Result) error {
	activeJob, err := r.store.GetActiveJob(ctx, sessionKey)
	if err != nil {
		return err
	}

	if activeJob == nil || activeJob.ContainerName != c.Name || activeJob.Status.Terminal() {
		r.runtime.Kill(ctx, c.Name)
		res.Removed++
		return nil
	}

	if c.Running {
		res.Matched++
		return nil
	}

	if err := r.healStoppedJob(ctx, sessionKey, activeJob, c); err != nil {
		return err
	}
	res.Healed++
	return nil
}

// healStoppedJob drains whatever logs the container still has, applies
// the same classification a live watcher would, and persists the
// terminal record. It never notifies: the user was not waiting on this
// session (the supervisor just started).
func (r *Reconciler) healStoppedJob(ctx context.Context, sessionKey string, job *store.Job, c runtime.ContainerInfo) error {
	logBytes, err := r.runtime.GetLogs(ctx, c.Name)
	if err != nil {
		log.Printf("reconciler: get logs for %s: %v", c.Name, err)
	}

	var terminalSignal streamparser.Event
	var haveSignal bool
	now := time.Now()

	scanner := bufio.NewScanner(bytes.NewReader(logBytes))
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		ev := streamparser.Parse(scanner.Bytes(), now)
		switch ev.Kind {
		case streamparser.KindTextFragment:
			if err := r.store.AppendJobOutput(ctx, sessionKey, job.JobID, []byte(ev.Text)); err != nil {
				log.Printf("reconciler: append output for job %s: %v", job.JobID, err)
			}
		case streamparser.KindRateLimit, streamparser.KindAuthError:
			terminalSignal = ev
			haveSignal = true
		}
	}

	status, err := r.runtime.GetStatus(ctx, c.Name)
	exitCode := 0
	var finishedAt *time.Time
	if err == nil && status != nil {
		if status.ExitCode != nil {
			exitCode = *status.ExitCode
		}
		finishedAt = status.FinishedAt
	}

	newStatus, errorKind, errorMessage := supervisor.ClassifyTerminal(exitCode, nil, haveSignal, terminalSignal)

	completedAt := time.Now().UTC()
	if finishedAt != nil {
		completedAt = *finishedAt
	}
	code := exitCode
	patch := store.JobPatch{
		Status:       &newStatus,
		CompletedAt:  &completedAt,
		ExitCode:     &code,
		ErrorMessage: &errorMessage,
	}
	if errorKind != "" {
		patch.ErrorKind = &errorKind
	}

	if _, err := r.store.UpdateJob(ctx, sessionKey, job.JobID, patch); err != nil {
		return err
	}
	if _, err := r.store.SetActiveJob(ctx, sessionKey, ""); err != nil {
		log.Printf("reconciler: clear active job for session %s: %v", sessionKey, err)
	}

	r.runtime.Kill(ctx, c.Name)
	return nil
}
