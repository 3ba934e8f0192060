package authkit

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/fieldform/authkit/httpx"
	"github.com/fieldform/authkit/internal/flows"
	"github.com/fieldform/authkit/securestore"
)

// Session is the single source of truth for authentication state. It owns
// the credential pair, mediates every authenticated call through the
// transport boundary, and publishes state snapshots to registered listeners.
//
// Session instances are built through [Builder.Build] and are safe for
// concurrent use.
type Session struct {
	config  Config
	logger  zerolog.Logger
	store   securestore.Store
	client  *httpx.Client
	metrics *Metrics
	audit   *auditDispatcher
	flows   flows.Deps

	// mu guards the in-memory snapshot below.
	mu           sync.RWMutex
	user         *User
	accessToken  string
	initializing bool
	// gen is the session generation. Logout bumps it; a refresh that
	// resolves against a stale generation discards its result, so a logout
	// always wins the race.
	gen       uint64
	listeners []ChangeListener

	// io serializes multi-key store write sequences so a refresh commit and
	// a logout can never interleave their writes to the token pair.
	io sync.Mutex

	// refreshGroup coalesces concurrent refresh attempts into one exchange;
	// refreshWaiters counts callers attached to the in-flight one.
	refreshGroup   singleflight.Group
	refreshWaiters atomic.Int64
}

// Close flushes and stops the audit dispatcher. The Session is unusable
// afterwards.
func (s *Session) Close() {
	if s == nil {
		return
	}
	s.audit.close()
}

// CurrentUser returns the profile snapshot of the authenticated user, or
// ok=false when logged out.
func (s *Session) CurrentUser() (User, bool) {
	if s == nil {
		return User{}, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.user == nil {
		return User{}, false
	}
	return *s.user, true
}

// Initializing reports whether the startup restoration sequence is still
// running. It transitions true to false exactly once per process.
func (s *Session) Initializing() bool {
	if s == nil {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.initializing
}

// AccessToken returns the in-memory bearer credential. It also satisfies
// [httpx.TokenSource].
func (s *Session) AccessToken() (string, bool) {
	if s == nil {
		return "", false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken, s.accessToken != ""
}

// Snapshot returns the current observable state.
func (s *Session) Snapshot() State {
	if s == nil {
		return State{}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// OnChange registers a listener for state transitions. Must be called before
// the session is shared across goroutines.
func (s *Session) OnChange(fn ChangeListener) {
	if s == nil || fn == nil {
		return
	}
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// MetricsSnapshot returns a copy of the engine counters.
func (s *Session) MetricsSnapshot() MetricsSnapshot {
	if s == nil {
		return MetricsSnapshot{Counters: map[MetricID]uint64{}}
	}
	return s.metrics.Snapshot()
}

// AuditDropped reports how many audit events were discarded because the
// dispatch buffer was full.
func (s *Session) AuditDropped() uint64 {
	if s == nil {
		return 0
	}
	return s.audit.dropped()
}

func (s *Session) snapshotLocked() State {
	state := State{
		Authenticated: s.user != nil,
		Initializing:  s.initializing,
	}
	if s.user != nil {
		u := *s.user
		state.User = &u
	}
	return state
}

func (s *Session) metricInc(id MetricID) {
	if s == nil {
		return
	}
	s.metrics.Inc(id)
}

// notify delivers the current snapshot to listeners outside the lock.
func (s *Session) notify() {
	s.mu.RLock()
	state := s.snapshotLocked()
	listeners := make([]ChangeListener, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.RUnlock()

	for _, fn := range listeners {
		fn(state)
	}
}

func (s *Session) generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gen
}

// clearMemory wipes the in-memory session and bumps the generation so any
// in-flight refresh is superseded.
func (s *Session) clearMemory() {
	s.mu.Lock()
	s.user = nil
	s.accessToken = ""
	s.gen++
	s.mu.Unlock()
	s.notify()
}

func (s *Session) setUser(profile flows.ProfileRecord) {
	s.mu.Lock()
	s.user = &User{
		ID:              profile.ID,
		Email:           profile.Email,
		ProfileImageURL: profile.ProfileImageURL,
	}
	s.mu.Unlock()
	s.notify()
}

// mergeUser overlays non-empty fields from a partial server response.
func (s *Session) mergeUser(profile flows.ProfileRecord) {
	s.mu.Lock()
	if s.user != nil {
		if profile.ID != "" {
			s.user.ID = profile.ID
		}
		if profile.Email != "" {
			s.user.Email = profile.Email
		}
		if profile.ProfileImageURL != "" {
			s.user.ProfileImageURL = profile.ProfileImageURL
		}
	}
	s.mu.Unlock()
	s.notify()
}

func (s *Session) currentEmail() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return ""
	}
	return s.user.Email
}

func (s *Session) currentUserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return ""
	}
	return s.user.ID
}

// warn adapts zerolog to the flows' Warn closure signature.
func (s *Session) warn(msg string, args ...any) {
	evt := s.logger.Warn()
	for i := 0; i+1 < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			continue
		}
		evt = evt.Interface(key, args[i+1])
	}
	evt.Msg(msg)
}

func (s *Session) emitAudit(ctx context.Context, event AuditEvent) {
	if s == nil || s.audit == nil {
		return
	}
	event.Timestamp = nowUTC()
	if event.UserID == "" {
		event.UserID = s.currentUserID()
	}
	s.audit.emit(ctx, event)
}

// readStoredToken returns a flow-shaped reader for one store key.
func (s *Session) readStoredToken(key string) func(ctx context.Context) (string, bool, error) {
	return func(ctx context.Context) (string, bool, error) {
		value, err := s.store.Get(ctx, key)
		switch {
		case err == nil:
			return value, true, nil
		case isNotFound(err):
			return "", false, nil
		default:
			return "", false, err
		}
	}
}
