// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package supervisor

import "errors"

// Errors raised synchronously by Start et al. per spec.md §7's
// "user-visible failure behavior": these are the cases that raise rather
// than return a textual, successful-shaped response.
var (
	ErrPromptRequired      = errors.New("supervisor: prompt is required")
	ErrJobIDRequired       = errors.New("supervisor: job_id is required")
	ErrSessionRequired     = errors.New("supervisor: session_id is required")
	ErrNoCredentials       = errors.New("supervisor: no authentication credentials available")
	ErrImageMissing        = errors.New("supervisor: container image not available")
	ErrSessionHasActiveJob = errors.New("supervisor: session already has an active job")
)
