// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package app wires the supervisor daemon's components together: config,
// store, runtime, notifier, supervisor, orphan reconciler, and the HTTP API
// server.
package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/sandrun/jobsupervisor/internal/api"
	"github.com/sandrun/jobsupervisor/internal/config"
	"github.com/sandrun/jobsupervisor/internal/notifier"
	"github.com/sandrun/jobsupervisor/internal/reconciler"
	"github.com/sandrun/jobsupervisor/internal/runtime"
	"github.com/sandrun/jobsupervisor/internal/store"
	"github.com/sandrun/jobsupervisor/internal/supervisor"
)

// App is the main application container.
type App struct {
	mu sync.RWMutex

	configPath string
	version    string
	config     *config.Config

	store      *store.Store
	runtime    runtime.Runtime
	notifier   notifier.Notifier
	supervisor *supervisor.Supervisor
	reconciler *reconciler.Reconciler
	apiServer  *api.Server

	reconcileStop chan struct{}
	reconcileDone chan struct{}

	done     chan struct{}
	stopOnce sync.Once
}

// Options holds configuration options for the app.
type Options struct {
	ConfigPath string
	Host       string
	Port       int
	Debug      bool
	Version    string
}

// New creates a new App instance.
func New(opts Options) (*App, error) {
	app := &App{
		configPath: opts.ConfigPath,
		version:    opts.Version,
		done:       make(chan struct{}),
	}

	loader := config.NewLoader()
	cfg, err := loader.LoadWithDefaults(context.Background(), opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.config = cfg

	if opts.Host != "" {
		cfg.Server.Host = opts.Host
	}
	if opts.Port > 0 {
		cfg.Server.Port = opts.Port
	}

	return app, nil
}

// Initialize sets up all components.
func (app *App) Initialize(ctx context.Context) error {
	cfg := app.config

	app.store = store.New(cfg.Store.SessionsDir, cfg.Store.WorkspacesDir)
	app.runtime = runtime.NewDockerRuntime(cfg.Runtime.Timeout())

	if cfg.Notify.WebhookURL != "" {
		app.notifier = notifier.NewWebhookNotifier(cfg.Notify.WebhookURL, cfg.Notify.HTTPTimeout())
		log.Printf("Notifications: webhook %s", cfg.Notify.WebhookURL)
	} else {
		app.notifier = notifier.NoopNotifier{}
		log.Printf("Notifications: disabled (no webhook_url configured)")
	}

	app.supervisor = supervisor.New(app.store, app.runtime, app.notifier, cfg.Runtime.Image, cfg.Sessions.Idle(),
		supervisor.WithTimeouts(cfg.Jobs.Startup(), cfg.Jobs.Idle()),
		supervisor.WithOutputLimits(int64(cfg.Jobs.TailBytes), int64(cfg.Jobs.DefaultLimit)))
	app.reconciler = reconciler.New(app.store, app.runtime)

	app.apiServer = api.NewServer(api.ServerConfig{
		Host:    cfg.Server.Host,
		Port:    cfg.Server.Port,
		TLSCert: cfg.Server.TLSCert,
		TLSKey:  cfg.Server.TLSKey,
	}, api.Dependencies{Supervisor: app.supervisor})

	return nil
}

// Start starts all components: an orphan-reconciliation pass, a periodic
// reconciliation loop, and the API server.
func (app *App) Start(ctx context.Context) error {
	res := app.reconciler.Run(ctx)
	log.Printf("Startup reconciliation: matched=%d healed=%d removed=%d unrecognized=%d",
		res.Matched, res.Healed, res.Removed, res.Unrecognized)

	app.reconcileStop = make(chan struct{})
	app.reconcileDone = make(chan struct{})
	go app.reconcileLoop()

	go func() {
		log.Printf("Starting API server on %s:%d", app.config.Server.Host, app.config.Server.Port)
		if err := app.apiServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("API server error: %v", err)
		}
	}()

	return nil
}

// reconcileLoop periodically re-runs orphan reconciliation, in case a
// container exits or is killed out-of-band between watcher notifications.
func (app *App) reconcileLoop() {
	defer close(app.reconcileDone)

	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			res := app.reconciler.Run(context.Background())
			if res.Healed > 0 || res.Removed > 0 {
				log.Printf("Periodic reconciliation: matched=%d healed=%d removed=%d unrecognized=%d",
					res.Matched, res.Healed, res.Removed, res.Unrecognized)
			}
		case <-app.reconcileStop:
			return
		}
	}
}

// Run starts the app and blocks until shutdown.
func (app *App) Run(ctx context.Context) error {
	if err := app.Initialize(ctx); err != nil {
		return err
	}

	if err := app.Start(ctx); err != nil {
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("Received signal %v, shutting down...", sig)
	case <-ctx.Done():
		log.Printf("Context cancelled, shutting down...")
	case <-app.done:
		log.Printf("Shutdown requested...")
	}

	return app.Shutdown(context.Background())
}

// Shutdown gracefully shuts down all components.
func (app *App) Shutdown(ctx context.Context) error {
	app.mu.Lock()
	defer app.mu.Unlock()

	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if app.apiServer != nil {
		if err := app.apiServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("Error shutting down API server: %v", err)
		}
	}

	if app.reconcileStop != nil {
		close(app.reconcileStop)
		<-app.reconcileDone
	}

	log.Println("Shutdown complete")
	return nil
}

// Stop signals the app to shut down. Safe to call multiple times.
func (app *App) Stop() {
	app.stopOnce.Do(func() {
		close(app.done)
	})
}

// Supervisor returns the wired supervisor.API, for callers embedding the
// app in-process (e.g. tests) without going through HTTP.
func (app *App) Supervisor() supervisor.API {
	return app.supervisor
}
