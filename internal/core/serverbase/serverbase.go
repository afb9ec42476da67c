// SPDX-License-Identifier: MPL-2.0

package serverbase

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
)

// State is a server lifecycle state. The legal flow is
// created -> starting -> running -> stopping -> stopped, with failed
// reachable from starting and running.
type State int32

const (
	StateCreated State = iota
	StateStarting
	StateRunning
	StateStopping
	StateStopped
	StateFailed
)

// String returns the lowercase state name.
func (s State) String() string {
	names := [...]string{"created", "starting", "running", "stopping", "stopped", "failed"}
	if s < StateCreated || int(s) >= len(names) {
		return "unknown"
	}
	return names[s]
}

// IsTerminal reports whether no further transitions are possible.
func (s State) IsTerminal() bool {
	return s == StateStopped || s == StateFailed
}

// Base carries the lifecycle plumbing a long-running server embeds: the
// state word, the readiness and error channels, the shutdown WaitGroup,
// and the internal context cancelled on stop or failure.
//
// A Base is single-use. Once terminal, build a new server.
type Base struct {
	state atomic.Int32

	mu      sync.Mutex // guards lastErr, ctx, cancel
	lastErr error
	ctx     context.Context
	cancel  context.CancelFunc

	wg        sync.WaitGroup
	startedCh chan struct{}
	errCh     chan error
}

// NewBase returns a Base in the created state.
func NewBase() *Base {
	return &Base{
		startedCh: make(chan struct{}),
		// One slot: a failing goroutine never blocks on report.
		errCh: make(chan error, 1),
	}
}

// State returns the current lifecycle state without locking.
func (b *Base) State() State {
	return State(b.state.Load())
}

// LastError returns the error recorded by TransitionToFailed, or nil.
func (b *Base) LastError() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastErr
}

// Err exposes the async error channel. CloseErrChannel closes it.
func (b *Base) Err() <-chan error {
	return b.errCh
}

// StartedChannel is closed when the server reaches running.
func (b *Base) StartedChannel() <-chan struct{} {
	return b.startedCh
}

// Context returns the internal lifecycle context, nil before starting.
func (b *Base) Context() context.Context {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ctx
}

// TransitionToStarting moves created -> starting and installs the internal
// context. A cancelled ctx fails the server before any setup runs; any
// state other than created is rejected.
func (b *Base) TransitionToStarting(ctx context.Context) error {
	select {
	case <-ctx.Done():
		b.TransitionToFailed(fmt.Errorf("context cancelled before start: %w", ctx.Err()))
		return b.LastError()
	default:
	}

	if !b.state.CompareAndSwap(int32(StateCreated), int32(StateStarting)) {
		return fmt.Errorf("cannot start server in state %s", b.State())
	}

	b.mu.Lock()
	b.ctx, b.cancel = context.WithCancel(context.Background())
	b.mu.Unlock()
	return nil
}

// TransitionToRunning moves starting -> running and closes the started
// channel. Any other current state leaves everything untouched, so a
// concurrent stop or failure wins.
func (b *Base) TransitionToRunning() {
	if b.state.CompareAndSwap(int32(StateStarting), int32(StateRunning)) {
		close(b.startedCh)
	}
}

// TransitionToFailed records err, enters the failed state, cancels the
// internal context, and reports err on the error channel without blocking.
func (b *Base) TransitionToFailed(err error) {
	b.mu.Lock()
	b.lastErr = err
	cancel := b.cancel
	b.mu.Unlock()

	b.state.Store(int32(StateFailed))
	if cancel != nil {
		cancel()
	}
	b.SendError(err)
}

// TransitionToStopping begins shutdown. It returns true exactly once, for
// the caller that wins the transition from starting or running; that caller
// owns the rest of the shutdown. Created servers jump straight to stopped,
// and terminal or already-stopping servers report false.
func (b *Base) TransitionToStopping() bool {
	for {
		switch current := b.State(); current {
		case StateStarting, StateRunning:
			if !b.state.CompareAndSwap(int32(current), int32(StateStopping)) {
				continue
			}
			b.mu.Lock()
			cancel := b.cancel
			b.mu.Unlock()
			if cancel != nil {
				cancel()
			}
			return true
		case StateCreated:
			if b.state.CompareAndSwap(int32(StateCreated), int32(StateStopped)) {
				return false
			}
		default:
			return false
		}
	}
}

// TransitionToStopped marks shutdown complete. Call it only after
// WaitForShutdown has returned.
func (b *Base) TransitionToStopped() {
	b.state.Store(int32(StateStopped))
}

// AddGoroutine registers a goroutine with the shutdown WaitGroup.
func (b *Base) AddGoroutine() {
	b.wg.Add(1)
}

// DoneGoroutine marks a registered goroutine finished.
func (b *Base) DoneGoroutine() {
	b.wg.Done()
}

// WaitForShutdown blocks until every registered goroutine has finished.
func (b *Base) WaitForShutdown() {
	b.wg.Wait()
}

// SendError reports err on the error channel, dropping it when the single
// buffer slot is already taken.
func (b *Base) SendError(err error) {
	select {
	case b.errCh <- err:
	default:
	}
}

// CloseErrChannel closes the error channel once the server is fully
// stopped, releasing range consumers.
func (b *Base) CloseErrChannel() {
	close(b.errCh)
}
