// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package supervisor

import "context"

// API is the core-exposed operation surface from spec.md §6.3. Both the
// HTTP handlers and the orphan reconciler's callers depend on this
// interface rather than the concrete Supervisor, so tests can substitute
// a fake.
type API interface {
	Start(ctx context.Context, req StartRequest) (*StartResponse, error)
	Status(ctx context.Context, req StatusRequest) (*StatusResponse, error)
	Output(ctx context.Context, req OutputRequest) (*OutputResponse, error)
	Cancel(ctx context.Context, req CancelRequest) (*CancelResponse, error)
	Cleanup(ctx context.Context, req CleanupRequest) (*CleanupResponse, error)
	Sessions(ctx context.Context) (*SessionsResponse, error)
}

var _ API = (*Supervisor)(nil)
