// SPDX-License-Identifier: MPL-2.0

package sshserver

import (
	"context"
	"errors"
	"net"
	"strings"
	"testing"

	"taskweave-cli/internal/core/serverbase"
	"taskweave-cli/internal/registry"
	"taskweave-cli/internal/testutil"
	"taskweave-cli/pkg/taskdef"
)

func noopAction(ctx context.Context, a taskdef.Arguments, env any, super taskdef.RunSuper) (any, error) {
	return nil, nil
}

func testRegistry(t *testing.T) *registry.Registry {
	t.Helper()

	build, err := taskdef.NewTask("build").
		Description("Build the project").
		Action(noopAction).
		Build()
	if err != nil {
		t.Fatal(err)
	}
	docs, err := taskdef.NewTask("build", "docs").
		Description("Build the docs").
		Action(noopAction).
		Build()
	if err != nil {
		t.Fatal(err)
	}
	clean, err := taskdef.NewTask("clean").Action(noopAction).Build()
	if err != nil {
		t.Fatal(err)
	}

	reg, err := registry.Resolve([]registry.Contributor{
		{Identity: "builder", Tasks: []*taskdef.TaskDefinition{build, docs, clean}},
	})
	if err != nil {
		t.Fatal(err)
	}
	return reg
}

func newTestServer(t *testing.T) *Server {
	t.Helper()

	cfg := DefaultConfig()
	cfg.Port = 0 // Auto-select port

	srv, err := New(cfg, testRegistry(t), nil, nil)
	if err != nil {
		t.Fatalf("New() returned error: %v", err)
	}
	return srv
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	if cfg.Host != "127.0.0.1" || cfg.Port != 0 {
		t.Errorf("cfg = %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	bad := Config{Host: " ", Port: -1}
	err := bad.Validate()
	if !errors.Is(err, ErrInvalidServerConfig) {
		t.Fatalf("Validate() = %v, want ErrInvalidServerConfig", err)
	}
	var cfgErr *InvalidServerConfigError
	if !errors.As(err, &cfgErr) || len(cfgErr.FieldErrors) != 2 {
		t.Errorf("field errors = %v, want host and port", err)
	}
	if !errors.Is(cfgErr.FieldErrors[0], ErrInvalidHostAddress) {
		t.Errorf("first field error = %v, want ErrInvalidHostAddress", cfgErr.FieldErrors[0])
	}
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Port = 70000
	if _, err := New(cfg, testRegistry(t), nil, nil); err == nil {
		t.Error("New() should reject an out-of-range port")
	}
}

func TestRenderTaskList(t *testing.T) {
	t.Parallel()

	out := renderTaskList(testRegistry(t))

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %q, want 3", lines)
	}
	if !strings.HasPrefix(lines[0], "build\t") {
		t.Errorf("first line = %q, want the build root", lines[0])
	}
	if !strings.HasPrefix(lines[1], "  build.docs") {
		t.Errorf("second line = %q, want the indented subtask", lines[1])
	}
	if lines[2] != "clean" {
		t.Errorf("third line = %q; no tab without a description", lines[2])
	}
}

func TestRenderTaskList_Empty(t *testing.T) {
	t.Parallel()

	reg, err := registry.Resolve(nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := renderTaskList(reg); got != "no tasks registered\n" {
		t.Errorf("renderTaskList() = %q", got)
	}
}

func TestServerStartStop(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	if srv.State() != serverbase.StateCreated {
		t.Errorf("State should be Created, got %s", srv.State())
	}
	select {
	case <-srv.StartedChannel():
		t.Error("Server should not signal readiness before Start()")
	default:
	}

	if err := srv.Start(context.Background()); err != nil {
		t.Fatalf("Failed to start server: %v", err)
	}

	if srv.State() != serverbase.StateRunning {
		t.Errorf("State should be Running, got %s", srv.State())
	}
	if srv.Port() == 0 {
		t.Error("Server port should be assigned")
	}
	if srv.Address() == "" {
		t.Error("Server address should not be empty")
	}
	if srv.Host() != "127.0.0.1" {
		t.Errorf("Host() = %q", srv.Host())
	}

	if err := srv.Stop(); err != nil {
		t.Fatalf("Failed to stop server: %v", err)
	}
	if srv.State() != serverbase.StateStopped {
		t.Errorf("State should be Stopped, got %s", srv.State())
	}
}

func TestServerDoubleStart(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	if err := srv.Start(context.Background()); err != nil {
		t.Fatalf("Failed to start server: %v", err)
	}
	defer testutil.MustStop(t, srv)

	if err := srv.Start(context.Background()); err == nil {
		t.Error("Second Start() should return error")
	}
}

func TestServerDoubleStop(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	if err := srv.Start(context.Background()); err != nil {
		t.Fatalf("Failed to start server: %v", err)
	}
	if err := srv.Stop(); err != nil {
		t.Fatalf("First Stop() failed: %v", err)
	}
	if err := srv.Stop(); err != nil {
		t.Errorf("Second Stop() should not error, got: %v", err)
	}
}

func TestStopWithoutStart(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	if err := srv.Stop(); err != nil {
		t.Errorf("Stop() without Start() should not error, got: %v", err)
	}
	if srv.State() != serverbase.StateStopped {
		t.Errorf("State should be Stopped, got %s", srv.State())
	}
}

func TestServerStartWithCancelledContext(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := srv.Start(ctx); err == nil {
		t.Error("Start() with cancelled context should fail")
	}
	if srv.State() != serverbase.StateFailed {
		t.Errorf("State should be Failed, got %s", srv.State())
	}
}

func TestServerStartWithUsedPort(t *testing.T) {
	t.Parallel()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer testutil.MustClose(t, listener)

	cfg := DefaultConfig()
	cfg.Port = ListenPort(listener.Addr().(*net.TCPAddr).Port)

	srv, err := New(cfg, testRegistry(t), nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := srv.Start(context.Background()); err == nil {
		testutil.MustStop(t, srv)
		t.Fatal("Start() should fail on a used port")
	}
	if srv.State() != serverbase.StateFailed {
		t.Errorf("State should be Failed, got %s", srv.State())
	}
}

func TestIsClosedConnError(t *testing.T) {
	t.Parallel()

	if isClosedConnError(nil) {
		t.Error("nil is not a closed-connection error")
	}
	if isClosedConnError(errors.New("boom")) {
		t.Error("plain errors are not closed-connection errors")
	}
	opErr := &net.OpError{Op: "read", Err: errors.New("use of closed network connection")}
	if !isClosedConnError(opErr) {
		t.Error("closed-connection op errors should be recognized")
	}
}
