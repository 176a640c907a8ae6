// Package session holds the single source of identity for the client.
// The store is a three-state machine (Loading, Unauthenticated,
// Authenticated) with one writer, the auth flow, and many readers.
// Readers treat it as eventually consistent: Loading settles into one
// of the other two states exactly once per restore.
package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/pawmate/pawmate/internal/observability"
	"github.com/pawmate/pawmate/internal/security"
)

type State int

const (
	StateLoading State = iota
	StateUnauthenticated
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticated:
		return "authenticated"
	}
	return "unknown"
}

// Snapshot is an immutable view of the store at one point in time.
type Snapshot struct {
	State       State
	UserID      string
	Credentials security.Credentials
}

// IsAuthenticatedUserSession is the one predicate consumers use instead
// of re-deriving the state machine: authenticated state, a user id and
// a complete token pair. A partial pair never counts as authenticated.
func IsAuthenticatedUserSession(s Snapshot) bool {
	return s.State == StateAuthenticated && s.UserID != "" && s.Credentials.Complete()
}

// Store is injected into consumers rather than imported as a singleton
// so tests can substitute their own.
type Store struct {
	mu       sync.RWMutex
	snap     Snapshot
	logger   *slog.Logger
	nextID   int
	watchers map[int]chan Snapshot
}

func NewStore(logger *slog.Logger) *Store {
	return &Store{
		snap:     Snapshot{State: StateLoading},
		logger:   logger,
		watchers: make(map[int]chan Snapshot),
	}
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Subscribe returns a channel receiving every subsequent snapshot plus
// the current one, and a cancel function releasing the subscription.
// The channel is buffered; a slow consumer drops intermediate states
// but always observes the latest.
func (s *Store) Subscribe() (<-chan Snapshot, func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	ch := make(chan Snapshot, 8)
	s.watchers[id] = ch
	ch <- s.snap
	s.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.watchers, id)
			s.mu.Unlock()
		})
	}
	return ch, cancel
}

// setAuthenticated installs a complete session. Both tokens must be
// present together; the store refuses partial pairs and falls back to
// unauthenticated instead of holding an invalid session.
func (s *Store) setAuthenticated(ctx context.Context, userID string, creds security.Credentials) {
	if userID == "" || !creds.Complete() {
		s.setUnauthenticated(ctx)
		return
	}
	s.transition(ctx, Snapshot{State: StateAuthenticated, UserID: userID, Credentials: creds})
}

func (s *Store) setUnauthenticated(ctx context.Context) {
	s.transition(ctx, Snapshot{State: StateUnauthenticated})
}

func (s *Store) transition(ctx context.Context, next Snapshot) {
	s.mu.Lock()
	prev := s.snap
	s.snap = next
	for _, ch := range s.watchers {
		select {
		case ch <- next:
		default:
			// drop the oldest buffered snapshot so the latest wins
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- next:
			default:
			}
		}
	}
	s.mu.Unlock()

	if prev.State != next.State {
		observability.RecordSessionTransition(ctx, prev.State.String(), next.State.String())
		s.logger.Info("session state changed", "from", prev.State.String(), "to", next.State.String())
	}
}
