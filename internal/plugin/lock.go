// SPDX-License-Identifier: MPL-2.0

package plugin

import (
	"fmt"
	"os"
	"sort"

	"github.com/pelletier/go-toml/v2"
)

const (
	// LockFileName is the plugin lock file kept next to the config file.
	LockFileName = "plugins.lock.toml"
	// LockVersion is the current lock file format version.
	LockVersion = 1
)

type (
	// Lock pins the order discovered plugins fold into the registry, so the
	// task graph stays stable across runs even when directory listings
	// change.
	Lock struct {
		Version int         `toml:"version"`
		Plugins []LockEntry `toml:"plugin"`
	}

	// LockEntry records one pinned plugin.
	LockEntry struct {
		Identity string `toml:"identity"`
		Path     string `toml:"path"`
	}
)

// ReadLock parses the lock file at path. A missing file yields an empty
// lock, not an error.
func ReadLock(path string) (*Lock, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Lock{Version: LockVersion}, nil
		}
		return nil, fmt.Errorf("failed to read plugin lock file: %w", err)
	}

	var lock Lock
	if err := toml.Unmarshal(data, &lock); err != nil {
		return nil, fmt.Errorf("failed to parse plugin lock file %s: %w", path, err)
	}
	return &lock, nil
}

// WriteLock serializes the lock to path.
func WriteLock(path string, lock *Lock) error {
	data, err := toml.Marshal(lock)
	if err != nil {
		return fmt.Errorf("failed to serialize plugin lock file: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write plugin lock file: %w", err)
	}
	return nil
}

// Snapshot captures the given plugins, in order, as a fresh lock.
func Snapshot(plugins []*Plugin) *Lock {
	lock := &Lock{Version: LockVersion}
	for _, p := range plugins {
		lock.Plugins = append(lock.Plugins, LockEntry{Identity: p.Identity(), Path: p.Path})
	}
	return lock
}

// rank maps each pinned path to its lock position.
func (l *Lock) rank() map[string]int {
	ranks := make(map[string]int, len(l.Plugins))
	for i, entry := range l.Plugins {
		ranks[entry.Path] = i
	}
	return ranks
}

// applyOrder reorders plugins in place: pinned plugins first, in lock order,
// then unpinned plugins in their current order.
func (l *Lock) applyOrder(plugins []*Plugin) {
	ranks := l.rank()
	pinned := len(l.Plugins)
	pos := make(map[*Plugin]int, len(plugins))
	for i, p := range plugins {
		if r, ok := ranks[p.Path]; ok {
			pos[p] = r
		} else {
			pos[p] = pinned + i
		}
	}
	sort.SliceStable(plugins, func(i, j int) bool {
		return pos[plugins[i]] < pos[plugins[j]]
	})
}
