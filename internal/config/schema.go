// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package config handles HJSON configuration loading for the supervisor.
package config

import "time"

// Config is the root configuration structure for the supervisor daemon.
type Config struct {
	Version  string         `json:"version"`
	Server   ServerConfig   `json:"server"`
	Store    StoreConfig    `json:"store"`
	Runtime  RuntimeConfig  `json:"runtime"`
	Jobs     JobsConfig     `json:"jobs"`
	Sessions SessionsConfig `json:"sessions"`
	Notify   NotifyConfig   `json:"notify"`
	Logging  LoggingConfig  `json:"logging"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Host    string `json:"host"`
	Port    int    `json:"port"`
	TLSCert string `json:"tls_cert"` // path to TLS certificate file (enables HTTPS if both cert and key set)
	TLSKey  string `json:"tls_key"`  // path to TLS private key file
}

// StoreConfig configures on-disk persistence locations.
type StoreConfig struct {
	SessionsDir   string `json:"sessions_dir"`   // root directory for session/job records; "~" expands to $HOME
	WorkspacesDir string `json:"workspaces_dir"` // root directory for per-session workspaces; "~" expands to $HOME
}

// RuntimeConfig configures the container runtime port.
type RuntimeConfig struct {
	Image                string `json:"image"`                 // container image that runs the assistant CLI
	IntrospectionTimeout string `json:"introspection_timeout"` // budget for inspect/stats calls, e.g. "5s"
}

// JobsConfig configures job lifecycle timing.
type JobsConfig struct {
	StartupTimeout string `json:"startup_timeout"` // no output within this window while starting fails the job
	IdleTimeout    string `json:"idle_timeout"`     // no output within this window while running fails the job
	TailBytes      int    `json:"tail_bytes"`       // default ReadJobOutputTail size
	DefaultLimit   int    `json:"default_limit"`    // default ReadJobOutput limit
}

// SessionsConfig configures session idle cleanup.
type SessionsConfig struct {
	IdleTimeout string `json:"idle_timeout"` // sessions idle longer than this are eligible for Cleanup
}

// NotifyConfig configures the outbound webhook notifier.
type NotifyConfig struct {
	WebhookURL string `json:"webhook_url"`
	Timeout    string `json:"timeout"` // HTTP timeout for the webhook POST, e.g. "5s"
}

// LoggingConfig configures process-wide logging verbosity.
type LoggingConfig struct {
	Debug bool `json:"debug"`
}

// Defaults applied when a field is left at its zero value.
const (
	DefaultHost                 = "127.0.0.1"
	DefaultPort                 = 8090
	DefaultSessionsDir          = "~/.supervisor/sessions"
	DefaultWorkspacesDir        = "~/.supervisor/workspaces"
	DefaultImage                = "supervisor-runner:latest"
	DefaultIntrospectionTimeout = 5 * time.Second
	DefaultStartupTimeout       = 2 * time.Minute
	DefaultIdleTimeout          = 10 * time.Minute
	DefaultTailBytes            = 500
	DefaultOutputLimit          = 64 * 1024
	DefaultSessionIdleTimeout   = time.Hour
	DefaultNotifyTimeout        = 5 * time.Second
)

// applyDefaults fills zero-value fields with the defaults above.
func applyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = DefaultHost
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultPort
	}
	if cfg.Store.SessionsDir == "" {
		cfg.Store.SessionsDir = DefaultSessionsDir
	}
	if cfg.Store.WorkspacesDir == "" {
		cfg.Store.WorkspacesDir = DefaultWorkspacesDir
	}
	if cfg.Runtime.Image == "" {
		cfg.Runtime.Image = DefaultImage
	}
	if cfg.Runtime.IntrospectionTimeout == "" {
		cfg.Runtime.IntrospectionTimeout = DefaultIntrospectionTimeout.String()
	}
	if cfg.Jobs.StartupTimeout == "" {
		cfg.Jobs.StartupTimeout = DefaultStartupTimeout.String()
	}
	if cfg.Jobs.IdleTimeout == "" {
		cfg.Jobs.IdleTimeout = DefaultIdleTimeout.String()
	}
	if cfg.Jobs.TailBytes == 0 {
		cfg.Jobs.TailBytes = DefaultTailBytes
	}
	if cfg.Jobs.DefaultLimit == 0 {
		cfg.Jobs.DefaultLimit = DefaultOutputLimit
	}
	if cfg.Sessions.IdleTimeout == "" {
		cfg.Sessions.IdleTimeout = DefaultSessionIdleTimeout.String()
	}
	if cfg.Notify.Timeout == "" {
		cfg.Notify.Timeout = DefaultNotifyTimeout.String()
	}
}

// Timeout parses RuntimeConfig.IntrospectionTimeout, falling back to the
// default on a parse error.
func (r RuntimeConfig) Timeout() time.Duration {
	return parseDurationOr(r.IntrospectionTimeout, DefaultIntrospectionTimeout)
}

// Startup parses JobsConfig.StartupTimeout.
func (j JobsConfig) Startup() time.Duration {
	return parseDurationOr(j.StartupTimeout, DefaultStartupTimeout)
}

// Idle parses JobsConfig.IdleTimeout.
func (j JobsConfig) Idle() time.Duration {
	return parseDurationOr(j.IdleTimeout, DefaultIdleTimeout)
}

// Idle parses SessionsConfig.IdleTimeout.
func (s SessionsConfig) Idle() time.Duration {
	return parseDurationOr(s.IdleTimeout, DefaultSessionIdleTimeout)
}

// HTTPTimeout parses NotifyConfig.Timeout.
func (n NotifyConfig) HTTPTimeout() time.Duration {
	return parseDurationOr(n.Timeout, DefaultNotifyTimeout)
}

func parseDurationOr(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}
