package session

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Store holds the authentication state of one browser tab: the committed
// session and the single pending-login slot. Every mutation goes through mu.
type Store struct {
	mu       sync.Mutex
	tabID    string
	keys     Persister
	session  *Session
	pending  *PendingLogin
	lastSeen time.Time
	nowF     func() time.Time
	// onLive is called once, outside mu, when an unregistered store first holds state.
	onLive   func(*Store)
}

// NewStore returns an empty store. keys may be nil, in which case nothing is persisted.
func NewStore(tabID string, keys Persister) *Store {
	s := &Store{tabID: tabID, keys: keys, nowF: time.Now}
	s.lastSeen = s.nowF()
	return s
}

func (s *Store) TabID() string {
	return s.tabID
}

// Restore loads the persisted key group, replacing the in-memory session.
// A missing or malformed group leaves the store logged out.
func (s *Store) Restore(ctx context.Context) error {
	if s.keys == nil {
		return nil
	}
	values, err := s.keys.Load(ctx, s.tabID)
	if err != nil {
		return fmt.Errorf("restore session keys: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = nil
	if sess, ok := FromKeys(values); ok {
		s.session = &sess
	}
	return nil
}

func (s *Store) CurrentSession() (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()
	if s.session == nil || !s.session.LoggedIn {
		return Session{}, false
	}
	return *s.session, true
}

func (s *Store) Pending() (PendingLogin, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return PendingLogin{}, false
	}
	return *s.pending, true
}

func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.session != nil && s.session.LoggedIn:
		return StateLoggedIn
	case s.pending != nil:
		return StateAwaitingPasscode
	default:
		return StateLoggedOut
	}
}

// Clear wipes the session and any pending login, then removes the persisted
// key group. The in-memory state is cleared even when removal fails.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()
	s.session = nil
	s.pending = nil
	if s.keys == nil {
		return nil
	}
	if err := s.keys.Remove(ctx, s.tabID); err != nil {
		return fmt.Errorf("remove session keys: %w", err)
	}
	return nil
}

// IdleSince reports when the store was last touched.
func (s *Store) IdleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func (s *Store) withLock(fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()
	return fn()
}

// commitLocked persists then installs sess. Caller holds mu.
func (s *Store) commitLocked(ctx context.Context, sess Session) error {
	if s.keys != nil {
		if err := s.keys.Save(ctx, s.tabID, sess.Keys()); err != nil {
			return fmt.Errorf("save session keys: %w", err)
		}
	}
	s.session = &sess
	return nil
}

// live hands the store to its registry the first time it holds state.
func (s *Store) live() {
	s.mu.Lock()
	fn := s.onLive
	s.onLive = nil
	s.mu.Unlock()
	if fn != nil {
		fn(s)
	}
}

func (s *Store) touchLocked() {
	s.lastSeen = s.nowF()
}
