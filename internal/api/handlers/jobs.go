// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/sandrun/jobsupervisor/internal/supervisor"
)

// JobHandler adapts the six supervisor.API operations to HTTP+JSON, per
// spec.md §6.3.
type JobHandler struct {
	sv supervisor.API
}

// NewJobHandler creates a JobHandler backed by sv.
func NewJobHandler(sv supervisor.API) *JobHandler {
	return &JobHandler{sv: sv}
}

// startRequestBody is the wire shape for POST /jobs. Credential bytes
// are delivered base64-encoded in JSON since a container's auth
// material (an OAuth token or API key file) is typically small.
type startRequestBody struct {
	SessionKey         string `json:"session_key"`
	Prompt             string `json:"prompt"`
	CredentialFilename string `json:"credential_filename"`
	CredentialData     []byte `json:"credential_data"`
}

// Start handles POST /jobs.
func (h *JobHandler) Start(w http.ResponseWriter, r *http.Request) {
	var body startRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		WriteError(w, http.StatusBadRequest, ErrBadRequest, "invalid JSON")
		return
	}

	resp, err := h.sv.Start(r.Context(), supervisor.StartRequest{
		SessionKey:         body.SessionKey,
		Prompt:             body.Prompt,
		HasCredentials:     len(body.CredentialData) > 0,
		CredentialFilename: body.CredentialFilename,
		CredentialData:     body.CredentialData,
	})
	if err != nil {
		writeSupervisorError(w, err)
		return
	}

	WriteJSON(w, http.StatusAccepted, resp)
}

// Status handles GET /jobs/{jobID}.
func (h *JobHandler) Status(w http.ResponseWriter, r *http.Request) {
	jobID := mux.Vars(r)["jobID"]

	resp, err := h.sv.Status(r.Context(), supervisor.StatusRequest{
		JobID:      jobID,
		SessionKey: r.URL.Query().Get("session_key"),
	})
	if err != nil {
		writeSupervisorError(w, err)
		return
	}
	if !resp.Found {
		WriteError(w, http.StatusNotFound, ErrNotFound, resp.Message)
		return
	}

	WriteJSON(w, http.StatusOK, resp)
}

// Output handles GET /jobs/{jobID}/output.
func (h *JobHandler) Output(w http.ResponseWriter, r *http.Request) {
	jobID := mux.Vars(r)["jobID"]

	offset, _ := strconv.ParseInt(r.URL.Query().Get("offset"), 10, 64)
	limit, _ := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64)

	resp, err := h.sv.Output(r.Context(), supervisor.OutputRequest{
		JobID:      jobID,
		SessionKey: r.URL.Query().Get("session_key"),
		Offset:     offset,
		Limit:      limit,
	})
	if err != nil {
		writeSupervisorError(w, err)
		return
	}
	if !resp.Found {
		WriteError(w, http.StatusNotFound, ErrNotFound, resp.Message)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(resp.Header))
	w.Write(resp.Content)
}

// Cancel handles POST /jobs/{jobID}/cancel.
func (h *JobHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	jobID := mux.Vars(r)["jobID"]

	resp, err := h.sv.Cancel(r.Context(), supervisor.CancelRequest{
		JobID:      jobID,
		SessionKey: r.URL.Query().Get("session_key"),
	})
	if err != nil {
		writeSupervisorError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, resp)
}

type cleanupRequestBody struct {
	DeleteWorkspaces bool `json:"delete_workspaces"`
}

// Cleanup handles POST /sessions/cleanup.
func (h *JobHandler) Cleanup(w http.ResponseWriter, r *http.Request) {
	var body cleanupRequestBody
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteError(w, http.StatusBadRequest, ErrBadRequest, "invalid JSON")
			return
		}
	}

	resp, err := h.sv.Cleanup(r.Context(), supervisor.CleanupRequest{DeleteWorkspaces: body.DeleteWorkspaces})
	if err != nil {
		writeSupervisorError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, resp)
}

// Sessions handles GET /sessions.
func (h *JobHandler) Sessions(w http.ResponseWriter, r *http.Request) {
	resp, err := h.sv.Sessions(r.Context())
	if err != nil {
		writeSupervisorError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, resp)
}

// writeSupervisorError maps the supervisor package's sentinel errors
// (the "raises" half of spec.md §7's success/raise split) onto HTTP
// status codes. Anything unrecognized is a 500.
func writeSupervisorError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, supervisor.ErrPromptRequired),
		errors.Is(err, supervisor.ErrJobIDRequired),
		errors.Is(err, supervisor.ErrSessionRequired),
		errors.Is(err, supervisor.ErrNoCredentials):
		WriteError(w, http.StatusBadRequest, ErrBadRequest, err.Error())
	case errors.Is(err, supervisor.ErrSessionHasActiveJob):
		WriteError(w, http.StatusConflict, ErrConflict, err.Error())
	case errors.Is(err, supervisor.ErrImageMissing):
		WriteError(w, http.StatusNotFound, ErrNotFound, err.Error())
	default:
		WriteError(w, http.StatusInternalServerError, ErrInternalError, err.Error())
	}
}
