package app

import (
	"context"
	"sync"
	"time"

	"messenger_service/internal/chat/domain"
)

// Session signed-in state, created at login and destroyed at logout.
// Everything started on behalf of the user hangs off its context.
type Session struct {
	user   domain.User
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

func newSession(parent context.Context, user domain.User) *Session {
	ctx, cancel := context.WithCancel(parent)
	return &Session{user: user, ctx: ctx, cancel: cancel}
}

// User signed-in user
func (s *Session) User() domain.User { return s.user }

// Context cancelled at logout
func (s *Session) Context() context.Context { return s.ctx }

// After run fn once d has elapsed, unless the session ends first
func (s *Session) After(d time.Duration, fn func(ctx context.Context)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		t := time.NewTimer(d)
		defer t.Stop()
		select {
		case <-s.ctx.Done():
		case <-t.C:
			fn(s.ctx)
		}
	}()
}

// close cancel the context and wait for pending After callbacks
func (s *Session) close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()
}
