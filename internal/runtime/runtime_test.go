// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package runtime

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContainerNameFromSessionKey(t *testing.T) {
	assert.Equal(t, "claude-abc123", ContainerNameFromSessionKey("abc123"))
	assert.Equal(t, "claude-my-session--test", ContainerNameFromSessionKey("my session!/test"))
}

func TestSessionKeyRoundTrip(t *testing.T) {
	cases := []string{"abc123", "weird key/with.dots", "", "UPPER-lower-123"}
	for _, key := range cases {
		name := ContainerNameFromSessionKey(key)
		back, ok := SessionKeyFromContainerName(name)
		require.True(t, ok)
		assert.Equal(t, ContainerNameFromSessionKey(key), ContainerNameFromSessionKey(back))
	}
}

func TestSessionKeyFromContainerNameRejectsForeignNames(t *testing.T) {
	_, ok := SessionKeyFromContainerName("postgres-main")
	assert.False(t, ok)
}

func TestEmptySessionKeyRoundTrips(t *testing.T) {
	name := ContainerNameFromSessionKey("")
	assert.Equal(t, "claude-", name)
	key, ok := SessionKeyFromContainerName(name)
	require.True(t, ok)
	assert.Equal(t, "", key)
}

func TestFakeRuntimeStartAndStream(t *testing.T) {
	f := NewFakeRuntime()
	ctx := context.Background()

	res, err := f.StartDetached(ctx, StartOptions{ContainerName: "claude-abc", Image: "img"})
	require.NoError(t, err)
	assert.Equal(t, "claude-abc", res.ContainerName)

	status, err := f.GetStatus(ctx, "claude-abc")
	require.NoError(t, err)
	assert.True(t, status.Running)

	f.SeedLines("claude-abc", 0, "line1", "line2")

	lineCh := make(chan LogChunk, 10)
	exitCode, err := f.StreamLogs(ctx, "claude-abc", lineCh)
	require.NoError(t, err)
	assert.Equal(t, 0, exitCode)

	var got []string
	for chunk := range lineCh {
		got = append(got, string(chunk.Line))
	}
	assert.Equal(t, []string{"line1", "line2"}, got)

	status, err = f.GetStatus(ctx, "claude-abc")
	require.NoError(t, err)
	assert.False(t, status.Running)
	require.NotNil(t, status.ExitCode)
	assert.Equal(t, 0, *status.ExitCode)
}

func TestFakeRuntimeListByPrefix(t *testing.T) {
	f := NewFakeRuntime()
	ctx := context.Background()
	_, _ = f.StartDetached(ctx, StartOptions{ContainerName: "claude-a"})
	_, _ = f.StartDetached(ctx, StartOptions{ContainerName: "claude-b"})
	_, _ = f.StartDetached(ctx, StartOptions{ContainerName: "other-c"})

	infos, err := f.ListByPrefix(ctx, "claude-")
	require.NoError(t, err)
	assert.Len(t, infos, 2)
}

func TestFakeRuntimeKillIdempotent(t *testing.T) {
	f := NewFakeRuntime()
	ctx := context.Background()
	_, _ = f.StartDetached(ctx, StartOptions{ContainerName: "claude-a"})

	f.Kill(ctx, "claude-a")
	f.Kill(ctx, "claude-a")

	status, err := f.GetStatus(ctx, "claude-a")
	require.NoError(t, err)
	assert.Nil(t, status)
}
