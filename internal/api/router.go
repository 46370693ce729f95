// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/sandrun/jobsupervisor/internal/api/handlers"
	"github.com/sandrun/jobsupervisor/internal/api/middleware"
	"github.com/sandrun/jobsupervisor/internal/api/version"
	"github.com/sandrun/jobsupervisor/internal/config"
	"github.com/sandrun/jobsupervisor/internal/supervisor"
)

// ServerConfig holds configuration for the API server.
type ServerConfig struct {
	Host    string
	Port    int
	TLSCert string // Path to TLS certificate file
	TLSKey  string // Path to TLS private key file
}

// Dependencies holds all dependencies for API handlers.
type Dependencies struct {
	Supervisor supervisor.API
}

// NewRouter creates a new API router exposing the job supervisor's six
// operations under /api/v1, plus the debug/pprof endpoints the teacher
// carries for operational introspection.
func NewRouter(deps Dependencies) *mux.Router {
	r := mux.NewRouter()

	r.Use(middleware.Logging)
	r.Use(middleware.Recovery)
	r.Use(middleware.CORS)
	r.Use(version.Middleware)

	jobHandler := handlers.NewJobHandler(deps.Supervisor)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/jobs", jobHandler.Start).Methods("POST")
	api.HandleFunc("/jobs/{jobID}", jobHandler.Status).Methods("GET")
	api.HandleFunc("/jobs/{jobID}/output", jobHandler.Output).Methods("GET")
	api.HandleFunc("/jobs/{jobID}/cancel", jobHandler.Cancel).Methods("POST")
	api.HandleFunc("/sessions", jobHandler.Sessions).Methods("GET")
	api.HandleFunc("/sessions/cleanup", jobHandler.Cleanup).Methods("POST")

	r.PathPrefix("/debug/pprof/").Handler(http.DefaultServeMux)

	return r
}

// Server represents the API server.
type Server struct {
	router *mux.Router
	cfg    ServerConfig
	server *http.Server
}

// NewServer creates a new API server.
func NewServer(cfg ServerConfig, deps Dependencies) *Server {
	return &Server{
		router: NewRouter(deps),
		cfg:    cfg,
	}
}

// Router returns the underlying router.
func (s *Server) Router() *mux.Router {
	return s.router
}

// ListenAndServe starts the server.
// If TLS is configured (tls_cert and tls_key), uses HTTPS.
func (s *Server) ListenAndServe() error {
	addr := s.cfg.Host + ":" + strconv.Itoa(s.cfg.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.router,
	}

	tlsEnabled, err := CheckTLSConfig(s.cfg.TLSCert, s.cfg.TLSKey)
	if err != nil {
		return fmt.Errorf("TLS configuration error: %w", err)
	}

	if tlsEnabled {
		certPath := config.ExpandPath(s.cfg.TLSCert)
		keyPath := config.ExpandPath(s.cfg.TLSKey)
		log.Printf("API server listening on https://%s (TLS enabled)", addr)
		return s.server.ListenAndServeTLS(certPath, keyPath)
	}

	log.Printf("API server listening on http://%s", addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}

	log.Println("Shutting down API server...")

	shutdownCtx := ctx
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		shutdownCtx, cancel = context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
	}

	return s.server.Shutdown(shutdownCtx)
}
