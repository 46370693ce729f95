// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package supervisor

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sandrun/jobsupervisor/internal/notifier"
	"github.com/sandrun/jobsupervisor/internal/runtime"
	"github.com/sandrun/jobsupervisor/internal/store"
	"github.com/sandrun/jobsupervisor/internal/streamparser"
)

const (
	activeWindow     = 10 * time.Second
	processingCPUPct = 20.0

	// defaultStartupTimeout/defaultWatcherIdleTimeout/defaultTailBytes/
	// defaultOutputLimit back WithTimeouts/WithOutputLimits when a caller
	// doesn't override them; mirror config.DefaultStartupTimeout/
	// config.DefaultIdleTimeout/config.DefaultTailBytes/
	// config.DefaultOutputLimit.
	defaultStartupTimeout     = 2 * time.Minute
	defaultWatcherIdleTimeout = 10 * time.Minute
	defaultTailBytes          = 500
	defaultOutputLimit        = 64 * 1024
)

// Supervisor is the job lifecycle state machine: it owns Start, Cancel,
// Status, Output, Cleanup, and Sessions, and spawns one watcher goroutine
// per running job.
type Supervisor struct {
	store    *store.Store
	runtime  runtime.Runtime
	notifier notifier.Notifier
	image    string
	idleTTL  time.Duration

	// startupTimeout/watcherIdleTimeout implement spec.md §7's
	// startup_timeout/idle_timeout error kinds: the watcher kills a job's
	// container and classifies it as timed-out if no output line arrives
	// within the relevant window.
	startupTimeout     time.Duration
	watcherIdleTimeout time.Duration

	// tailBytes/defaultLimit size Status's output tail and Output's
	// default byte-range when the caller doesn't specify one.
	tailBytes    int64
	defaultLimit int64

	// sessionLocks serializes Start's check-then-act sequence per session
	// key, so two concurrent starts for the same session cannot both pass
	// the "no active job" precondition before either writes a job record.
	mu           sync.Mutex
	sessionLocks map[string]*sync.Mutex

	// generation guards a watcher against acting on behalf of a job slot
	// that has since been superseded — mirrors the teacher's processGen
	// idiom, generalized from a resumable chat process to a one-shot job.
	generation map[string]int64
}

// Option configures optional Supervisor behavior, following the same
// functional-option shape as pkg/client.Option.
type Option func(*Supervisor)

// WithTimeouts overrides the watcher's startup and output-idle windows.
// A zero duration leaves the corresponding default in place.
func WithTimeouts(startup, watcherIdle time.Duration) Option {
	return func(sv *Supervisor) {
		if startup > 0 {
			sv.startupTimeout = startup
		}
		if watcherIdle > 0 {
			sv.watcherIdleTimeout = watcherIdle
		}
	}
}

// WithOutputLimits overrides Status's output tail size and Output's
// default byte-range limit. A zero value leaves the corresponding
// default in place.
func WithOutputLimits(tailBytes, defaultLimit int64) Option {
	return func(sv *Supervisor) {
		if tailBytes > 0 {
			sv.tailBytes = tailBytes
		}
		if defaultLimit > 0 {
			sv.defaultLimit = defaultLimit
		}
	}
}

// New creates a Supervisor backed by st, rt, and nf. image is the
// container image passed to Runtime.CheckImage/StartDetached, and idleTTL
// is the session-level window Cleanup uses to prune idle sessions.
func New(st *store.Store, rt runtime.Runtime, nf notifier.Notifier, image string, idleTTL time.Duration, opts ...Option) *Supervisor {
	sv := &Supervisor{
		store:              st,
		runtime:            rt,
		notifier:           nf,
		image:              image,
		idleTTL:            idleTTL,
		startupTimeout:     defaultStartupTimeout,
		watcherIdleTimeout: defaultWatcherIdleTimeout,
		tailBytes:          defaultTailBytes,
		defaultLimit:       defaultOutputLimit,
		sessionLocks:       make(map[string]*sync.Mutex),
		generation:         make(map[string]int64),
	}
	for _, opt := range opts {
		opt(sv)
	}
	return sv
}

func (sv *Supervisor) lockFor(sessionKey string) *sync.Mutex {
	sv.mu.Lock()
	defer sv.mu.Unlock()
	l, ok := sv.sessionLocks[sessionKey]
	if !ok {
		l = &sync.Mutex{}
		sv.sessionLocks[sessionKey] = l
	}
	return l
}

// Start creates (or reuses) a session, rejects if it has an active job,
// derives the container name, creates the job record, asks the runtime to
// launch a detached container, marks the job running, and spawns its
// watcher. See spec.md §4.3.2.
func (sv *Supervisor) Start(ctx context.Context, req StartRequest) (*StartResponse, error) {
	if req.Prompt == "" {
		return nil, ErrPromptRequired
	}
	if req.SessionKey == "" {
		return nil, ErrSessionRequired
	}
	if !req.HasCredentials {
		return nil, ErrNoCredentials
	}

	ok, err := sv.runtime.CheckImage(ctx, sv.image)
	if err != nil {
		return nil, fmt.Errorf("check image: %w", err)
	}
	if !ok {
		return nil, ErrImageMissing
	}

	lock := sv.lockFor(req.SessionKey)
	lock.Lock()
	defer lock.Unlock()

	sess, err := sv.store.GetOrCreateSession(ctx, req.SessionKey)
	if err != nil {
		return nil, fmt.Errorf("get or create session: %w", err)
	}
	if sess.ActiveJobID != "" {
		active, err := sv.store.GetJob(ctx, req.SessionKey, sess.ActiveJobID)
		if err != nil {
			return nil, fmt.Errorf("load active job: %w", err)
		}
		if active != nil && !active.Status.Terminal() {
			return nil, ErrSessionHasActiveJob
		}
	}

	if req.CredentialData != nil {
		if err := sv.store.PutCredentials(ctx, req.SessionKey, req.CredentialFilename, req.CredentialData); err != nil {
			return nil, fmt.Errorf("materialize credentials: %w", err)
		}
	}

	containerName := runtime.ContainerNameFromSessionKey(req.SessionKey)
	jobID := uuid.NewString()

	job, err := sv.store.CreateJob(ctx, req.SessionKey, jobID, req.Prompt, containerName)
	if err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}

	startRes, err := sv.runtime.StartDetached(ctx, runtime.StartOptions{
		ContainerName: containerName,
		Image:         sv.image,
		WorkspaceDir:  sv.store.WorkspaceDir(req.SessionKey),
		Prompt:        req.Prompt,
	})
	if err != nil {
		failedStatus := store.StatusFailed
		kind := store.ErrorKindSpawnFailed
		msg := err.Error()
		now := time.Now().UTC()
		_, _ = sv.store.UpdateJob(ctx, req.SessionKey, jobID, store.JobPatch{
			Status: &failedStatus, ErrorKind: &kind, ErrorMessage: &msg, CompletedAt: &now,
		})
		return nil, fmt.Errorf("start container: %w", err)
	}
	_ = startRes

	running := store.StatusRunning
	now := time.Now().UTC()
	job, err = sv.store.UpdateJob(ctx, req.SessionKey, jobID, store.JobPatch{Status: &running, StartedAt: &now})
	if err != nil {
		return nil, fmt.Errorf("mark job running: %w", err)
	}

	if _, err := sv.store.SetActiveJob(ctx, req.SessionKey, jobID); err != nil {
		return nil, fmt.Errorf("set active job: %w", err)
	}

	sv.mu.Lock()
	sv.generation[jobID]++
	gen := sv.generation[jobID]
	sv.mu.Unlock()

	go sv.watch(req.SessionKey, jobID, containerName, gen)

	return &StartResponse{JobID: job.JobID, SessionKey: req.SessionKey, Status: job.Status}, nil
}

// streamAttempt runs one full StreamLogs pass for containerName, feeding
// parsed lines into the job's output and watching for a startup/idle
// timeout. sawOutput is threaded in and out so a retried attempt keeps
// whichever timeout window the prior attempt had already earned.
func (sv *Supervisor) streamAttempt(ctx context.Context, sessionKey, jobID, containerName string, sawOutput *bool) (exitCode int, streamErr error, haveSignal bool, terminalSignal streamparser.Event, timedOut bool, timeoutKind store.ErrorKind) {
	lineCh := make(chan runtime.LogChunk, 64)

	done := make(chan struct{})
	go func() {
		defer close(done)
		exitCode, streamErr = sv.runtime.StreamLogs(ctx, containerName, lineCh)
	}()

	timer := time.NewTimer(sv.startupTimeout)
	if *sawOutput {
		timer.Reset(sv.watcherIdleTimeout)
	}
	defer timer.Stop()

drain:
	for {
		select {
		case chunk, ok := <-lineCh:
			if !ok {
				break drain
			}
			ev := streamparser.Parse(chunk.Line, time.Now())
			switch ev.Kind {
			case streamparser.KindTextFragment:
				if err := sv.store.AppendJobOutput(ctx, sessionKey, jobID, []byte(ev.Text)); err != nil {
					log.Printf("supervisor: append output for job %s: %v", jobID, err)
				}
				*sawOutput = true
			case streamparser.KindRateLimit, streamparser.KindAuthError:
				terminalSignal = ev
				haveSignal = true
			}

			if !timer.Stop() {
				<-timer.C
			}
			if *sawOutput {
				timer.Reset(sv.watcherIdleTimeout)
			} else {
				timer.Reset(sv.startupTimeout)
			}
		case <-timer.C:
			timedOut = true
			if *sawOutput {
				timeoutKind = store.ErrorKindIdleTimeout
			} else {
				timeoutKind = store.ErrorKindStartupTimeout
			}
			log.Printf("supervisor: job %s %s, killing container", jobID, timeoutKind)
			sv.runtime.Kill(ctx, containerName)
			break drain
		}
	}
	<-done

	return exitCode, streamErr, haveSignal, terminalSignal, timedOut, timeoutKind
}

// watch is the per-job concurrent unit described in spec.md §4.3.3. It
// streams the container's combined stdout/stderr, feeds each line to the
// StreamParser, appends extracted text to the output log, and classifies
// the terminal status once the stream ends.
func (sv *Supervisor) watch(sessionKey, jobID, containerName string, gen int64) {
	ctx := context.Background()

	sawOutput := false
	exitCode, streamErr, haveSignal, terminalSignal, timedOut, timeoutKind := sv.streamAttempt(ctx, sessionKey, jobID, containerName, &sawOutput)

	// A transport failure (as opposed to a clean exit or a watcher-driven
	// timeout) gets a single retry before we give up and classify it as a
	// crash with whatever exit code we last observed.
	if streamErr != nil && !timedOut {
		log.Printf("supervisor: stream logs for job %s: %v, retrying once", jobID, streamErr)
		retryCode, retryErr, retryHaveSignal, retrySignal, retryTimedOut, retryTimeoutKind := sv.streamAttempt(ctx, sessionKey, jobID, containerName, &sawOutput)
		exitCode, streamErr, timedOut, timeoutKind = retryCode, retryErr, retryTimedOut, retryTimeoutKind
		if retryHaveSignal {
			haveSignal, terminalSignal = retryHaveSignal, retrySignal
		}
	}

	if streamErr != nil {
		log.Printf("supervisor: stream logs for job %s: %v", jobID, streamErr)
	}

	sv.mu.Lock()
	current := sv.generation[jobID]
	sv.mu.Unlock()
	if current != gen {
		log.Printf("supervisor: watcher for job %s superseded, skipping terminal write", jobID)
		return
	}

	job, err := sv.store.GetJob(ctx, sessionKey, jobID)
	if err != nil {
		log.Printf("supervisor: fetch job %s at terminal check: %v", jobID, err)
		return
	}
	if job == nil || job.Status != store.StatusRunning {
		return
	}

	var status store.JobStatus
	var errorKind store.ErrorKind
	var errorMessage string
	if timedOut {
		status = store.StatusFailed
		errorKind = timeoutKind
		if timeoutKind == store.ErrorKindIdleTimeout {
			errorMessage = fmt.Sprintf("no output for %s, container killed", sv.watcherIdleTimeout)
		} else {
			errorMessage = fmt.Sprintf("no output within %s of starting, container killed", sv.startupTimeout)
		}
	} else {
		status, errorKind, errorMessage = ClassifyTerminal(exitCode, streamErr, haveSignal, terminalSignal)
	}

	now := time.Now().UTC()
	codePtr := &exitCode
	patch := store.JobPatch{
		Status:       &status,
		CompletedAt:  &now,
		ExitCode:     codePtr,
		ErrorMessage: &errorMessage,
	}
	if errorKind != "" {
		patch.ErrorKind = &errorKind
	}

	updated, err := sv.store.UpdateJob(ctx, sessionKey, jobID, patch)
	if err != nil {
		log.Printf("supervisor: persist terminal status for job %s: %v", jobID, err)
		return
	}

	if _, err := sv.store.SetActiveJob(ctx, sessionKey, ""); err != nil {
		log.Printf("supervisor: clear active job for session %s: %v", sessionKey, err)
	}

	sv.emitCompletion(ctx, updated)
}

// ClassifyTerminal implements spec.md §4.3.1's classification rule:
// a rate-limit signal forces failed/rate_limit even on exit 0; 137 is
// oom; any other non-zero exit is crash; a transport failure with no
// exit code observed is also crash.
// It is exported so the orphan reconciler can classify a stopped
// container's outcome the same way a live watcher would.
func ClassifyTerminal(exitCode int, streamErr error, haveSignal bool, signal streamparser.Event) (store.JobStatus, store.ErrorKind, string) {
	if haveSignal {
		switch signal.Kind {
		case streamparser.KindRateLimit:
			return store.StatusFailed, store.ErrorKindRateLimit, streamparser.RateLimitMessage(signal)
		case streamparser.KindAuthError:
			kind := store.ErrorKindAuthFailed
			if signal.AuthKind == streamparser.AuthTokenExpired {
				kind = store.ErrorKindAuthTokenExpired
			}
			return store.StatusFailed, kind, streamparser.AuthErrorMessage(signal)
		}
	}

	if streamErr != nil {
		return store.StatusFailed, store.ErrorKindCrash, streamErr.Error()
	}
	if exitCode == 137 {
		return store.StatusFailed, store.ErrorKindOOM, "container was killed (out of memory)"
	}
	if exitCode != 0 {
		return store.StatusFailed, store.ErrorKindCrash, fmt.Sprintf("container exited with code %d", exitCode)
	}
	return store.StatusCompleted, "", ""
}

func (sv *Supervisor) emitCompletion(ctx context.Context, job *store.Job) {
	elapsed := 0.0
	if job.StartedAt != nil && job.CompletedAt != nil {
		elapsed = job.CompletedAt.Sub(*job.StartedAt).Seconds()
	}
	sv.notifier.Notify(ctx, notifier.Payload{
		JobID:          job.JobID,
		SessionKey:     job.SessionKey,
		Status:         string(job.Status),
		ElapsedSeconds: elapsed,
		OutputSize:     job.OutputSize,
		ExitCode:       job.ExitCode,
		ErrorKind:      string(job.ErrorKind),
	})
}

// resolveSession finds the session key owning jobID. If sessionKeyHint is
// non-empty it is trusted and returned as-is (the job's presence is
// verified by the caller). Otherwise every session is scanned linearly —
// acceptable per spec.md §4.3.4, since the set is small.
func (sv *Supervisor) resolveSession(ctx context.Context, jobID, sessionKeyHint string) (string, *store.Job, error) {
	if sessionKeyHint != "" {
		job, err := sv.store.GetJob(ctx, sessionKeyHint, jobID)
		if err != nil {
			return "", nil, err
		}
		return sessionKeyHint, job, nil
	}

	sessions, err := sv.store.ListSessions(ctx)
	if err != nil {
		return "", nil, err
	}
	for _, sess := range sessions {
		job, err := sv.store.GetJob(ctx, sess.SessionKey, jobID)
		if err != nil || job == nil {
			continue
		}
		return sess.SessionKey, job, nil
	}
	return "", nil, nil
}

// Cancel stops the container and forces a terminal transition. It never
// raises for a missing or already-terminal job; both are reported as a
// textual confirmation per spec.md §7.
func (sv *Supervisor) Cancel(ctx context.Context, req CancelRequest) (*CancelResponse, error) {
	if req.JobID == "" {
		return nil, ErrJobIDRequired
	}

	sessionKey, job, err := sv.resolveSession(ctx, req.JobID, req.SessionKey)
	if err != nil {
		return nil, fmt.Errorf("resolve session: %w", err)
	}
	if job == nil {
		return &CancelResponse{Message: "job not found"}, nil
	}
	if job.Status.Terminal() {
		return &CancelResponse{Message: "job already completed"}, nil
	}

	sv.runtime.Kill(ctx, job.ContainerName)

	sv.mu.Lock()
	sv.generation[req.JobID]++
	sv.mu.Unlock()

	cancelled := store.StatusCancelled
	now := time.Now().UTC()
	updated, err := sv.store.UpdateJob(ctx, sessionKey, req.JobID, store.JobPatch{
		Status: &cancelled, CompletedAt: &now,
	})
	if err != nil {
		return nil, fmt.Errorf("mark job cancelled: %w", err)
	}

	if _, err := sv.store.SetActiveJob(ctx, sessionKey, ""); err != nil {
		log.Printf("supervisor: clear active job for session %s after cancel: %v", sessionKey, err)
	}

	sv.emitCompletion(ctx, updated)

	return &CancelResponse{Message: "cancelled"}, nil
}

// Status performs the inspection path, including the self-healing
// synchronous reconciliation described in spec.md §4.3.5.
func (sv *Supervisor) Status(ctx context.Context, req StatusRequest) (*StatusResponse, error) {
	if req.JobID == "" {
		return nil, ErrJobIDRequired
	}

	sessionKey, job, err := sv.resolveSession(ctx, req.JobID, req.SessionKey)
	if err != nil {
		return nil, fmt.Errorf("resolve session: %w", err)
	}
	if job == nil {
		return &StatusResponse{Found: false, Message: "job not found"}, nil
	}

	if job.Status == store.StatusRunning {
		job = sv.reconcileRunning(ctx, sessionKey, job)
	}

	tail, err := sv.store.ReadJobOutputTail(ctx, sessionKey, req.JobID, sv.tailBytes)
	if err != nil {
		return nil, fmt.Errorf("read output tail: %w", err)
	}

	elapsed := elapsedSeconds(job)
	activity := activityStateFor(job, tail.LastOutputSecondsAgo)

	return &StatusResponse{
		Found:                true,
		JobID:                job.JobID,
		SessionKey:           sessionKey,
		Status:               job.Status,
		ElapsedSeconds:       elapsed,
		OutputSize:           tail.TotalSize,
		LastOutputSecondsAgo: tail.LastOutputSecondsAgo,
		ActivityState:        activity,
		TailOutput:           tail.Tail,
		ExitCode:             job.ExitCode,
		Error:                job.ErrorMessage,
		Metrics:              job.Metrics,
	}, nil
}

// reconcileRunning asks the runtime for the container's live status. If
// it has stopped, this mirrors the watcher's terminal classification so a
// dead watcher cannot wedge a job in "running" forever. If still running,
// the latest resource metrics are attached.
func (sv *Supervisor) reconcileRunning(ctx context.Context, sessionKey string, job *store.Job) *store.Job {
	status, err := sv.runtime.GetStatus(ctx, job.ContainerName)
	if err != nil {
		log.Printf("supervisor: reconcile status for job %s: %v", job.JobID, err)
		return job
	}
	if status == nil || status.Running {
		if stats, err := sv.runtime.GetStats(ctx, job.ContainerName); err == nil && stats != nil {
			metrics := &store.Metrics{MemMB: stats.MemMB, MemLimitMB: stats.MemLimitMB, MemPct: stats.MemPct, CPUPct: stats.CPUPct}
			updated, err := sv.store.UpdateJob(ctx, sessionKey, job.JobID, store.JobPatch{Metrics: metrics})
			if err == nil {
				return updated
			}
		}
		return job
	}

	exitCode := 0
	if status.ExitCode != nil {
		exitCode = *status.ExitCode
	}
	newStatus, errorKind, errorMessage := ClassifyTerminal(exitCode, nil, false, streamparser.Event{})

	now := time.Now().UTC()
	if status.FinishedAt != nil {
		now = *status.FinishedAt
	}
	code := exitCode
	patch := store.JobPatch{Status: &newStatus, CompletedAt: &now, ExitCode: &code, ErrorMessage: &errorMessage}
	if errorKind != "" {
		patch.ErrorKind = &errorKind
	}

	updated, err := sv.store.UpdateJob(ctx, sessionKey, job.JobID, patch)
	if err != nil {
		log.Printf("supervisor: persist self-healed status for job %s: %v", job.JobID, err)
		return job
	}
	if _, err := sv.store.SetActiveJob(ctx, sessionKey, ""); err != nil {
		log.Printf("supervisor: clear active job for session %s after self-heal: %v", sessionKey, err)
	}
	sv.emitCompletion(ctx, updated)
	return updated
}

func elapsedSeconds(job *store.Job) float64 {
	start := job.CreatedAt
	if job.StartedAt != nil {
		start = *job.StartedAt
	}
	end := time.Now().UTC()
	if job.CompletedAt != nil {
		end = *job.CompletedAt
	}
	return end.Sub(start).Seconds()
}

func activityStateFor(job *store.Job, lastOutputSecondsAgo float64) ActivityState {
	if job.Status != store.StatusRunning {
		return ActivityIdle
	}
	if lastOutputSecondsAgo <= activeWindow.Seconds() {
		return ActivityActive
	}
	if job.Metrics != nil && job.Metrics.CPUPct > processingCPUPct {
		return ActivityProcessing
	}
	return ActivityIdle
}

// Output delegates to Store.ReadJobOutput, prefixing the result with a
// header line per spec.md §4.3.6.
func (sv *Supervisor) Output(ctx context.Context, req OutputRequest) (*OutputResponse, error) {
	if req.JobID == "" {
		return nil, ErrJobIDRequired
	}

	sessionKey, job, err := sv.resolveSession(ctx, req.JobID, req.SessionKey)
	if err != nil {
		return nil, fmt.Errorf("resolve session: %w", err)
	}
	if job == nil {
		return &OutputResponse{Found: false, Message: "job not found"}, nil
	}

	limit := req.Limit
	if limit <= 0 {
		limit = sv.defaultLimit
	}
	result, err := sv.store.ReadJobOutput(ctx, sessionKey, req.JobID, req.Offset, limit)
	if err != nil {
		return nil, fmt.Errorf("read output: %w", err)
	}

	header := fmt.Sprintf("job=%s status=%s range=[%d:%d) more=%t\n",
		job.JobID, job.Status, req.Offset, req.Offset+result.Size, result.HasMore)

	return &OutputResponse{Found: true, Header: header, Content: result.Content}, nil
}

// Cleanup prunes idle sessions. It never removes workspaces unless the
// caller explicitly opts in.
func (sv *Supervisor) Cleanup(ctx context.Context, req CleanupRequest) (*CleanupResponse, error) {
	removed, err := sv.store.CleanupIdleSessions(ctx, sv.idleTTL)
	if err != nil {
		return nil, fmt.Errorf("cleanup idle sessions: %w", err)
	}

	if req.DeleteWorkspaces {
		for _, key := range removed {
			if err := sv.store.DeleteWorkspace(ctx, key); err != nil {
				log.Printf("supervisor: delete workspace for %s: %v", key, err)
			}
		}
	}

	resp := &CleanupResponse{Count: len(removed), Keys: removed}
	if len(removed) == 0 {
		resp.Message = "no idle sessions"
	}
	return resp, nil
}

// Sessions returns every session enriched with age, activity recency,
// and its active job's summary when present.
func (sv *Supervisor) Sessions(ctx context.Context) (*SessionsResponse, error) {
	sessions, err := sv.store.ListSessions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	now := time.Now().UTC()
	var out []SessionSummary
	for _, sess := range sessions {
		summary := SessionSummary{
			SessionKey:      sess.SessionKey,
			CreatedAt:       sess.CreatedAt,
			LastActivity:    sess.LastActivity,
			AgeSeconds:      now.Sub(sess.CreatedAt).Seconds(),
			TimeSinceActive: now.Sub(sess.LastActivity).Seconds(),
			MessageCount:    sess.MessageCount,
		}
		if sess.ActiveJobID != "" {
			job, err := sv.store.GetJob(ctx, sess.SessionKey, sess.ActiveJobID)
			if err == nil && job != nil {
				summary.ActiveJob = &ActiveJobSummary{JobID: job.JobID, Status: job.Status}
			}
		}
		out = append(out, summary)
	}
	return &SessionsResponse{Sessions: out}, nil
}
