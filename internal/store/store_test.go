// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	return New(filepath.Join(dir, "sessions"), filepath.Join(dir, "workspaces"))
}

func TestGetSessionAbsent(t *testing.T) {
	s := newTestStore(t)
	sess, err := s.GetSession(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, sess)
}

func TestCreateAndGetSession(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.CreateSession(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", created.SessionKey)
	assert.Zero(t, created.MessageCount)

	fetched, err := s.GetSession(ctx, "abc")
	require.NoError(t, err)
	require.NotNil(t, fetched)
	assert.Equal(t, created.SessionKey, fetched.SessionKey)
}

func TestGetOrCreateSessionIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first, err := s.GetOrCreateSession(ctx, "abc")
	require.NoError(t, err)

	_, err = s.UpdateSession(ctx, "abc", "asst-1")
	require.NoError(t, err)

	second, err := s.GetOrCreateSession(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, first.SessionKey, second.SessionKey)
	assert.Equal(t, "asst-1", second.AssistantSessionID)
}

func TestUpdateSessionBumpsActivityAndCount(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	_, err := s.CreateSession(ctx, "abc")
	require.NoError(t, err)

	updated, err := s.UpdateSession(ctx, "abc", "asst-1")
	require.NoError(t, err)
	assert.Equal(t, 1, updated.MessageCount)
	assert.Equal(t, "asst-1", updated.AssistantSessionID)

	updated2, err := s.UpdateSession(ctx, "abc", "")
	require.NoError(t, err)
	assert.Equal(t, 2, updated2.MessageCount)
	assert.Equal(t, "asst-1", updated2.AssistantSessionID, "empty assistant id must not clear the existing one")
}

func TestUpdateSessionNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.UpdateSession(context.Background(), "missing", "x")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSetActiveJobRejectsConflict(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	_, err := s.CreateSession(ctx, "abc")
	require.NoError(t, err)

	_, err = s.SetActiveJob(ctx, "abc", "job-1")
	require.NoError(t, err)

	_, err = s.SetActiveJob(ctx, "abc", "job-2")
	assert.ErrorIs(t, err, ErrActiveJobExists)

	// Clearing then setting a new one succeeds.
	_, err = s.SetActiveJob(ctx, "abc", "")
	require.NoError(t, err)
	sess, err := s.SetActiveJob(ctx, "abc", "job-2")
	require.NoError(t, err)
	assert.Equal(t, "job-2", sess.ActiveJobID)
}

func TestDeleteSessionLeavesWorkspace(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	_, err := s.CreateSession(ctx, "abc")
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(s.WorkspaceDir("abc"), 0755))

	require.NoError(t, s.DeleteSession(ctx, "abc"))

	sess, err := s.GetSession(ctx, "abc")
	require.NoError(t, err)
	assert.Nil(t, sess)

	_, err = os.Stat(s.WorkspaceDir("abc"))
	assert.NoError(t, err, "workspace must survive session deletion")
}

func TestDeleteWorkspace(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, os.MkdirAll(s.WorkspaceDir("abc"), 0755))

	require.NoError(t, s.DeleteWorkspace(ctx, "abc"))
	_, err := os.Stat(s.WorkspaceDir("abc"))
	assert.True(t, os.IsNotExist(err))
}

func TestListSessionsToleratesMissingRoot(t *testing.T) {
	s := newTestStore(t)
	sessions, err := s.ListSessions(context.Background())
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestListSessionsSorted(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	for _, key := range []string{"charlie", "alpha", "bravo"} {
		_, err := s.CreateSession(ctx, key)
		require.NoError(t, err)
	}

	sessions, err := s.ListSessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 3)
	assert.Equal(t, []string{"alpha", "bravo", "charlie"},
		[]string{sessions[0].SessionKey, sessions[1].SessionKey, sessions[2].SessionKey})
}

func TestCleanupIdleSessions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	fresh, err := s.CreateSession(ctx, "fresh")
	require.NoError(t, err)
	_ = fresh

	stale, err := s.CreateSession(ctx, "stale")
	require.NoError(t, err)
	stale.LastActivity = time.Now().UTC().Add(-2 * time.Hour)
	require.NoError(t, atomicWriteJSON(s.sessionFile("stale"), stale))

	removed, err := s.CleanupIdleSessions(ctx, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, []string{"stale"}, removed)

	sess, err := s.GetSession(ctx, "fresh")
	require.NoError(t, err)
	assert.NotNil(t, sess)
}

func TestCreateJobRequiresSession(t *testing.T) {
	s := newTestStore(t)
	_, err := s.CreateJob(context.Background(), "missing", "job-1", "hello", "claude-missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateAndGetJob(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	_, err := s.CreateSession(ctx, "abc")
	require.NoError(t, err)

	job, err := s.CreateJob(ctx, "abc", "job-1", "hello", "claude-abc")
	require.NoError(t, err)
	assert.Equal(t, StatusPending, job.Status)
	assert.Equal(t, "hello", job.Prompt)

	fetched, err := s.GetJob(ctx, "abc", "job-1")
	require.NoError(t, err)
	require.NotNil(t, fetched)
	assert.Equal(t, job.JobID, fetched.JobID)
	assert.Zero(t, fetched.OutputSize)
}

func TestGetJobAbsent(t *testing.T) {
	s := newTestStore(t)
	job, err := s.GetJob(context.Background(), "abc", "nope")
	require.NoError(t, err)
	assert.Nil(t, job)
}

func TestGetJobRetriesOnPartialWrite(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	_, err := s.CreateSession(ctx, "abc")
	require.NoError(t, err)
	_, err = s.CreateJob(ctx, "abc", "job-1", "hello", "claude-abc")
	require.NoError(t, err)

	path := s.jobFile("abc", "job-1")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	go func() {
		time.Sleep(20 * time.Millisecond)
		full := &Job{JobID: "job-1", SessionKey: "abc", Status: StatusRunning, OutputFile: s.jobLogFile("abc", "job-1")}
		_ = atomicWriteJSON(path, full)
	}()

	job, err := s.GetJob(ctx, "abc", "job-1")
	require.NoError(t, err)
	require.NotNil(t, job)
	assert.Equal(t, StatusRunning, job.Status)
}

func TestUpdateJobAtomic(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	_, err := s.CreateSession(ctx, "abc")
	require.NoError(t, err)
	_, err = s.CreateJob(ctx, "abc", "job-1", "hello", "claude-abc")
	require.NoError(t, err)

	running := StatusRunning
	now := time.Now().UTC()
	job, err := s.UpdateJob(ctx, "abc", "job-1", JobPatch{Status: &running, StartedAt: &now})
	require.NoError(t, err)
	assert.Equal(t, StatusRunning, job.Status)
	assert.NotNil(t, job.StartedAt)
}

func TestUpdateJobRejectsTerminalRegression(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	_, err := s.CreateSession(ctx, "abc")
	require.NoError(t, err)
	_, err = s.CreateJob(ctx, "abc", "job-1", "hello", "claude-abc")
	require.NoError(t, err)

	completed := StatusCompleted
	_, err = s.UpdateJob(ctx, "abc", "job-1", JobPatch{Status: &completed})
	require.NoError(t, err)

	running := StatusRunning
	_, err = s.UpdateJob(ctx, "abc", "job-1", JobPatch{Status: &running})
	assert.Error(t, err)
}

func TestUpdateJobConcurrentWritersLeaveOneWinner(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	_, err := s.CreateSession(ctx, "abc")
	require.NoError(t, err)
	_, err = s.CreateJob(ctx, "abc", "job-1", "hello", "claude-abc")
	require.NoError(t, err)

	const n = 10
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			msg := string(rune('a' + i))
			_, _ = s.UpdateJob(ctx, "abc", "job-1", JobPatch{ErrorMessage: &msg})
		}(i)
	}
	wg.Wait()

	job, err := s.GetJob(ctx, "abc", "job-1")
	require.NoError(t, err)
	require.NotNil(t, job)
	assert.Len(t, job.ErrorMessage, 1, "file must contain exactly one of the N proposed records")
}

func TestListJobsSortedByCreation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	_, err := s.CreateSession(ctx, "abc")
	require.NoError(t, err)

	_, err = s.CreateJob(ctx, "abc", "job-1", "first", "claude-abc")
	require.NoError(t, err)
	time.Sleep(2 * time.Millisecond)
	_, err = s.CreateJob(ctx, "abc", "job-2", "second", "claude-abc")
	require.NoError(t, err)

	jobs, err := s.ListJobs(ctx, "abc")
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, "job-1", jobs[0].JobID)
	assert.Equal(t, "job-2", jobs[1].JobID)
}

func TestListJobsToleratesMissingDir(t *testing.T) {
	s := newTestStore(t)
	jobs, err := s.ListJobs(context.Background(), "nope")
	require.NoError(t, err)
	assert.Empty(t, jobs)
}

func TestGetActiveJob(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	_, err := s.CreateSession(ctx, "abc")
	require.NoError(t, err)
	_, err = s.CreateJob(ctx, "abc", "job-1", "hello", "claude-abc")
	require.NoError(t, err)
	_, err = s.SetActiveJob(ctx, "abc", "job-1")
	require.NoError(t, err)

	job, err := s.GetActiveJob(ctx, "abc")
	require.NoError(t, err)
	require.NotNil(t, job)
	assert.Equal(t, "job-1", job.JobID)
}

func TestGetActiveJobNone(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	_, err := s.CreateSession(ctx, "abc")
	require.NoError(t, err)

	job, err := s.GetActiveJob(ctx, "abc")
	require.NoError(t, err)
	assert.Nil(t, job)
}

func TestAppendAndReadJobOutput(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	_, err := s.CreateSession(ctx, "abc")
	require.NoError(t, err)
	_, err = s.CreateJob(ctx, "abc", "job-1", "hello", "claude-abc")
	require.NoError(t, err)

	require.NoError(t, s.AppendJobOutput(ctx, "abc", "job-1", []byte("Hi, ")))
	require.NoError(t, s.AppendJobOutput(ctx, "abc", "job-1", []byte("world")))

	result, err := s.ReadJobOutput(ctx, "abc", "job-1", 0, 1024)
	require.NoError(t, err)
	assert.Equal(t, "Hi, world", string(result.Content))
	assert.Equal(t, int64(9), result.TotalSize)
	assert.False(t, result.HasMore)
}

func TestReadJobOutputOffsetLimit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	_, err := s.CreateSession(ctx, "abc")
	require.NoError(t, err)
	_, err = s.CreateJob(ctx, "abc", "job-1", "hello", "claude-abc")
	require.NoError(t, err)
	require.NoError(t, s.AppendJobOutput(ctx, "abc", "job-1", []byte("0123456789")))

	result, err := s.ReadJobOutput(ctx, "abc", "job-1", 3, 4)
	require.NoError(t, err)
	assert.Equal(t, "3456", string(result.Content))
	assert.True(t, result.HasMore)

	result2, err := s.ReadJobOutput(ctx, "abc", "job-1", 100, 4)
	require.NoError(t, err)
	assert.Empty(t, result2.Content)
	assert.False(t, result2.HasMore)
}

func TestReadJobOutputTailTruncationPrefix(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	_, err := s.CreateSession(ctx, "abc")
	require.NoError(t, err)
	_, err = s.CreateJob(ctx, "abc", "job-1", "hello", "claude-abc")
	require.NoError(t, err)
	require.NoError(t, s.AppendJobOutput(ctx, "abc", "job-1", []byte("0123456789")))

	tail, err := s.ReadJobOutputTail(ctx, "abc", "job-1", 4)
	require.NoError(t, err)
	assert.Equal(t, "...6789", string(tail.Tail))
	assert.Equal(t, int64(10), tail.TotalSize)
}

func TestReadJobOutputTailNoTruncation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	_, err := s.CreateSession(ctx, "abc")
	require.NoError(t, err)
	_, err = s.CreateJob(ctx, "abc", "job-1", "hello", "claude-abc")
	require.NoError(t, err)
	require.NoError(t, s.AppendJobOutput(ctx, "abc", "job-1", []byte("short")))

	tail, err := s.ReadJobOutputTail(ctx, "abc", "job-1", 500)
	require.NoError(t, err)
	assert.Equal(t, "short", string(tail.Tail))
}

func TestPutCredentials(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	_, err := s.CreateSession(ctx, "abc")
	require.NoError(t, err)

	require.NoError(t, s.PutCredentials(ctx, "abc", "token.json", []byte(`{"token":"x"}`)))

	data, err := os.ReadFile(filepath.Join(s.credDir("abc"), "token.json"))
	require.NoError(t, err)
	assert.Equal(t, `{"token":"x"}`, string(data))
}
