// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package runtime

import (
	"context"
	"sync"
	"time"
)

// FakeContainer is the in-memory state of one fake container. StreamLogs
// blocks reading from lineCh until the test calls SeedLines (which closes
// it) or Kill (which force-closes it) — this lets tests exercise races
// between Cancel and an in-flight watcher instead of relying on
// goroutine-scheduling luck.
type FakeContainer struct {
	Name      string
	Running   bool
	CreatedAt time.Time
	Stats     *Stats

	lineCh   chan []byte
	allLines [][]byte
	exitCode int
	closed   bool
	killed   bool
}

// FakeRuntime is a test double for Runtime with no external process
// dependency.
type FakeRuntime struct {
	mu          sync.Mutex
	ImageExists bool
	Containers  map[string]*FakeContainer
	StartErr    error
	LogDelay    time.Duration

	// StreamErrOnce, if set, is returned by the next StreamLogs call
	// instead of streaming anything, then cleared — simulating a single
	// transient transport failure for tests exercising the watcher's
	// retry.
	StreamErrOnce error

	// StreamErrAlways, if set, is returned by every StreamLogs call and
	// never cleared — simulating a transport that never recovers.
	StreamErrAlways error
}

// NewFakeRuntime creates an empty FakeRuntime with the image present.
func NewFakeRuntime() *FakeRuntime {
	return &FakeRuntime{
		ImageExists: true,
		Containers:  make(map[string]*FakeContainer),
	}
}

func (f *FakeRuntime) CheckImage(ctx context.Context, image string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ImageExists, nil
}

func (f *FakeRuntime) StartDetached(ctx context.Context, opts StartOptions) (*StartResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.StartErr != nil {
		return nil, f.StartErr
	}
	f.Containers[opts.ContainerName] = &FakeContainer{
		Name:      opts.ContainerName,
		Running:   true,
		CreatedAt: time.Now().UTC(),
		lineCh:    make(chan []byte, 64),
	}
	return &StartResult{ContainerName: opts.ContainerName, ContainerID: opts.ContainerName}, nil
}

// containerFor returns the container's state, creating an empty one if
// the test drives StreamLogs/SeedLines ahead of StartDetached.
func (f *FakeRuntime) containerFor(name string) *FakeContainer {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := f.Containers[name]
	if c == nil {
		c = &FakeContainer{Name: name, CreatedAt: time.Now().UTC(), lineCh: make(chan []byte, 64)}
		f.Containers[name] = c
	}
	return c
}

// closeLineCh closes c.lineCh exactly once, guarded by f.mu.
func (f *FakeRuntime) closeLineCh(c *FakeContainer) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.lineCh)
}

// SeedLines pushes lines for a blocked StreamLogs call to deliver, then
// signals end of stream with exitCode. A no-op if the container was
// already killed.
func (f *FakeRuntime) SeedLines(containerName string, exitCode int, lines ...string) {
	c := f.containerFor(containerName)

	f.mu.Lock()
	if c.killed {
		f.mu.Unlock()
		return
	}
	c.exitCode = exitCode
	c.Running = false
	f.mu.Unlock()

	for _, l := range lines {
		if f.LogDelay > 0 {
			time.Sleep(f.LogDelay)
		}
		f.mu.Lock()
		c.allLines = append(c.allLines, []byte(l))
		f.mu.Unlock()
		c.lineCh <- []byte(l)
	}
	f.closeLineCh(c)
}

func (f *FakeRuntime) StreamLogs(ctx context.Context, containerName string, lineCh chan<- LogChunk) (int, error) {
	defer close(lineCh)

	f.mu.Lock()
	if f.StreamErrAlways != nil {
		err := f.StreamErrAlways
		f.mu.Unlock()
		return 0, err
	}
	if f.StreamErrOnce != nil {
		err := f.StreamErrOnce
		f.StreamErrOnce = nil
		f.mu.Unlock()
		return 0, err
	}
	f.mu.Unlock()

	c := f.containerFor(containerName)

	for {
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case line, ok := <-c.lineCh:
			if !ok {
				f.mu.Lock()
				code := c.exitCode
				f.mu.Unlock()
				return code, nil
			}
			select {
			case <-ctx.Done():
				return 0, ctx.Err()
			case lineCh <- LogChunk{Line: line}:
			}
		}
	}
}

func (f *FakeRuntime) GetLogs(ctx context.Context, containerName string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := f.Containers[containerName]
	if c == nil {
		return nil, nil
	}
	var out []byte
	for _, l := range c.allLines {
		out = append(out, l...)
		out = append(out, '\n')
	}
	return out, nil
}

func (f *FakeRuntime) GetStatus(ctx context.Context, containerName string) (*Status, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := f.Containers[containerName]
	if c == nil {
		return nil, nil
	}
	status := &Status{Running: c.Running}
	if !c.Running {
		code := c.exitCode
		status.ExitCode = &code
		now := time.Now().UTC()
		status.FinishedAt = &now
	}
	return status, nil
}

func (f *FakeRuntime) GetStats(ctx context.Context, containerName string) (*Stats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := f.Containers[containerName]
	if c == nil || !c.Running {
		return nil, nil
	}
	if c.Stats != nil {
		return c.Stats, nil
	}
	return &Stats{}, nil
}

func (f *FakeRuntime) ListByPrefix(ctx context.Context, prefix string) ([]ContainerInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var infos []ContainerInfo
	for name, c := range f.Containers {
		if len(name) < len(prefix) || name[:len(prefix)] != prefix {
			continue
		}
		infos = append(infos, ContainerInfo{Name: name, Running: c.Running, CreatedAt: c.CreatedAt})
	}
	return infos, nil
}

// Kill stops the container and removes it from the registry. Idempotent
// and never errors. A StreamLogs call blocked on this container's
// lineCh unblocks immediately with exit code 0, mirroring a killed
// container reporting no further output.
func (f *FakeRuntime) Kill(ctx context.Context, containerName string) {
	f.mu.Lock()
	c := f.Containers[containerName]
	if c == nil {
		f.mu.Unlock()
		return
	}
	c.Running = false
	c.killed = true
	delete(f.Containers, containerName)
	f.mu.Unlock()

	f.closeLineCh(c)
}
