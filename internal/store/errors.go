// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package store

import "errors"

// ErrNotFound is returned by operations that require an existing session
// or job when the target is absent.
var ErrNotFound = errors.New("store: not found")

// ErrActiveJobExists is returned when a caller attempts to set a session's
// active job pointer while it already points at a different job.
var ErrActiveJobExists = errors.New("store: session already has an active job")
