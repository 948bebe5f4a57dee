package workflow

import (
	"context"
	"sync"
	"time"
)

// Sessions keeps one Session per signed-in user. Anonymous visitors get a
// throwaway session that is never stored.
type Sessions struct {
	mu     sync.Mutex
	byUser map[string]*Session
	loader AppliedLoader
	now    func() time.Time
}

func NewSessions(loader AppliedLoader) *Sessions {
	return &Sessions{byUser: map[string]*Session{}, loader: loader, now: time.Now}
}

// For returns the session bound to id. The applied set is only loaded when
// the session is created or the identity changed.
func (r *Sessions) For(ctx context.Context, id *Identity) (*Session, error) {
	if id == nil || id.UserID == "" {
		return r.newSession(), nil
	}

	r.mu.Lock()
	s, ok := r.byUser[id.UserID]
	if !ok {
		s = r.newSession()
		r.byUser[id.UserID] = s
	}
	r.mu.Unlock()

	if err := s.Bind(ctx, id, r.loader); err != nil {
		r.Drop(id.UserID)
		return nil, err
	}
	return s, nil
}

// Refresh throws away the cached session so the next For reloads the
// applied set from the store. Called on sign-in.
func (r *Sessions) Refresh(ctx context.Context, id *Identity) (*Session, error) {
	if id != nil {
		r.Drop(id.UserID)
	}
	return r.For(ctx, id)
}

func (r *Sessions) Drop(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byUser, userID)
}

// Sweep removes sessions idle for longer than maxIdle and returns how many
// were dropped.
func (r *Sessions) Sweep(maxIdle time.Duration) int {
	cutoff := r.now().Add(-maxIdle)

	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for uid, s := range r.byUser {
		if s.idleSince().Before(cutoff) {
			delete(r.byUser, uid)
			n++
		}
	}
	return n
}

func (r *Sessions) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byUser)
}

func (r *Sessions) newSession() *Session {
	s := NewSession()
	s.now = r.now
	return s
}
