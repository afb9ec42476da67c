// SPDX-License-Identifier: MPL-2.0

// Package testutil holds the small fail-fast helpers shared by tests:
// environment patching, directory setup, and server/stream teardown.
package testutil

import (
	"io"
	"os"
	"runtime"
	"testing"
)

// Stopper matches server types with a Stop() error method.
type Stopper interface {
	Stop() error
}

// MustSetenv sets key to value and returns the restore function. Pair the
// restore with t.Cleanup; tests touching the environment must not run in
// parallel.
func MustSetenv(t testing.TB, key, value string) func() {
	t.Helper()
	prev, had := os.LookupEnv(key)
	if err := os.Setenv(key, value); err != nil {
		t.Fatalf("setting %s: %v", key, err)
	}
	return func() {
		restoreEnv(t, key, prev, had)
	}
}

// MustUnsetenv clears key and returns the restore function.
func MustUnsetenv(t testing.TB, key string) func() {
	t.Helper()
	prev, had := os.LookupEnv(key)
	if err := os.Unsetenv(key); err != nil {
		t.Fatalf("unsetting %s: %v", key, err)
	}
	return func() {
		restoreEnv(t, key, prev, had)
	}
}

func restoreEnv(t testing.TB, key, prev string, had bool) {
	t.Helper()
	var err error
	if had {
		err = os.Setenv(key, prev)
	} else {
		err = os.Unsetenv(key)
	}
	if err != nil {
		t.Errorf("restoring %s: %v", key, err)
	}
}

// SetHomeDir points the platform home variable at dir and returns the
// restore function. Windows keys home lookups off USERPROFILE, everything
// else off HOME.
func SetHomeDir(t testing.TB, dir string) func() {
	t.Helper()
	key := "HOME"
	if runtime.GOOS == "windows" {
		key = "USERPROFILE"
	}
	return MustSetenv(t, key, dir)
}

// MustMkdirAll creates path and any missing parents, failing the test on
// error.
func MustMkdirAll(t testing.TB, path string, perm os.FileMode) {
	t.Helper()
	if err := os.MkdirAll(path, perm); err != nil {
		t.Fatalf("creating %s: %v", path, err)
	}
}

// MustClose closes c, failing the test on error.
func MustClose(t testing.TB, c io.Closer) {
	t.Helper()
	if err := c.Close(); err != nil {
		t.Fatalf("closing: %v", err)
	}
}

// MustStop stops s. Shutdown errors during cleanup are logged rather than
// failed on.
func MustStop(t testing.TB, s Stopper) {
	t.Helper()
	if err := s.Stop(); err != nil {
		t.Logf("stop returned error: %v", err)
	}
}
