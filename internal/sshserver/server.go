// SPDX-License-Identifier: MPL-2.0

package sshserver

import (
	"net"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"

	"taskweave-cli/internal/core/serverbase"
	"taskweave-cli/internal/registry"
)

type (
	// Config holds immutable configuration for the SSH server.
	Config struct {
		// Host is the address to bind to (default: 127.0.0.1).
		Host HostAddress
		// Port is the port to listen on (0 = auto-select).
		Port ListenPort
		// AuthorizedKeys is the path to an OpenSSH authorized_keys file.
		// When empty, every connection is rejected.
		AuthorizedKeys string
		// WorkDir is the working directory for task runs and interactive
		// sessions. Empty means the process working directory.
		WorkDir string
		// DefaultShell is the shell for interactive sessions (default: /bin/sh).
		DefaultShell string
		// ShutdownTimeout is the timeout for graceful shutdown (default: 10s).
		ShutdownTimeout time.Duration
		// StartupTimeout is the max time to wait for readiness (default: 5s).
		StartupTimeout time.Duration
	}

	// Server serves the resolved task registry over SSH.
	// A Server instance is single-use: once stopped or failed, create a new
	// instance.
	Server struct {
		*serverbase.Base

		cfg      Config
		reg      *registry.Registry
		resolver registry.ActionResolver

		// Initialized during Start(); protected by srvMu for writes.
		srvMu    sync.Mutex
		srv      *ssh.Server
		listener net.Listener
		addr     string

		logger *log.Logger
	}
)

// Validate returns nil if the Config is usable, or an
// InvalidServerConfigError collecting the field errors.
func (c Config) Validate() error {
	var errs []error
	if err := c.Host.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.Port.Validate(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return &InvalidServerConfigError{FieldErrors: errs}
	}
	return nil
}

// DefaultConfig returns a default configuration.
func DefaultConfig() Config {
	return Config{
		Host:            "127.0.0.1",
		Port:            0,
		DefaultShell:    "/bin/sh",
		ShutdownTimeout: 10 * time.Second,
		StartupTimeout:  5 * time.Second,
	}
}

// New creates a server for the given resolved registry. The server is not
// started; call Start() to begin accepting connections.
func New(cfg Config, reg *registry.Registry, resolver registry.ActionResolver, logger *log.Logger) (*Server, error) {
	if cfg.Host == "" {
		cfg.Host = "127.0.0.1"
	}
	if cfg.DefaultShell == "" {
		cfg.DefaultShell = "/bin/sh"
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	if cfg.StartupTimeout == 0 {
		cfg.StartupTimeout = 5 * time.Second
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "ssh-server"})
	}

	return &Server{
		Base:     serverbase.NewBase(),
		cfg:      cfg,
		reg:      reg,
		resolver: resolver,
		logger:   logger,
	}, nil
}
