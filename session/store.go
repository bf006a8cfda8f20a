package session

import (
	"sync"

	"github.com/Pazitos10/fastapi-auth-ds/users"
)

// State is the session snapshot consumed by the rest of the application.
// Invariant: IsAuthenticated implies User != nil. A non-empty AccessToken on
// its own does not imply authenticated; the identity fetch may still be
// pending or may have failed.
type State struct {
	User            *users.User
	AccessToken     string
	IsLoading       bool
	IsAuthenticated bool
	Err             string
}

// Store is the single source of truth for session state. Consumers read
// snapshots or subscribe; only the session operations mutate it, and each
// outcome is applied as one transition so no partially updated state is ever
// observable.
type Store struct {
	mu       sync.RWMutex
	state    State
	nextID   int
	watchers map[int]func(State)
}

// NewStore returns a store holding the all-empty default state
func NewStore() *Store {
	return &Store{watchers: make(map[int]func(State))}
}

// Snapshot returns a copy of the current session state
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// CurrentUser returns the loaded identity, or nil
func (s *Store) CurrentUser() *users.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.User
}

// IsAuthenticated reports whether an identity is loaded and validated
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.IsAuthenticated
}

// LastError returns the last user-facing error message, or ""
func (s *Store) LastError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Err
}

// Subscribe registers fn to run after every state transition with the new
// snapshot. The returned cancel func removes the subscription.
func (s *Store) Subscribe(fn func(State)) (cancel func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.watchers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.watchers, id)
		s.mu.Unlock()
	}
}

// SetLoading toggles the loading flag around an operation
func (s *Store) SetLoading(loading bool) {
	s.transition(func(st *State) {
		st.IsLoading = loading
	})
}

// BeginOperation marks an operation in flight and clears the previous error
func (s *Store) BeginOperation() {
	s.transition(func(st *State) {
		st.IsLoading = true
		st.Err = ""
	})
}

// LoginSucceeded installs the fetched identity and credential
func (s *Store) LoginSucceeded(user *users.User, accessToken string) {
	s.transition(func(st *State) {
		st.User = user
		st.AccessToken = accessToken
		st.IsAuthenticated = true
		st.Err = ""
	})
}

// LoginFailed clears the identity and records the user-facing message.
// The previously held credential, if any, is left alone: an operation-level
// failure does not tear down an established session.
func (s *Store) LoginFailed(msg string) {
	s.transition(func(st *State) {
		st.User = nil
		st.IsAuthenticated = false
		st.Err = msg
	})
}

// RegisterSucceeded records that an account was created without
// authenticating it; registration and login are decoupled.
func (s *Store) RegisterSucceeded() {
	s.transition(func(st *State) {
		st.User = nil
		st.AccessToken = ""
		st.IsAuthenticated = false
		st.Err = ""
	})
}

// Reset tears the session down to the all-empty defaults
func (s *Store) Reset() {
	s.transition(func(st *State) {
		*st = State{}
	})
}

// ResetSilently clears identity and credential without surfacing an error;
// used by the background validate-on-load check.
func (s *Store) ResetSilently() {
	s.transition(func(st *State) {
		loading := st.IsLoading
		*st = State{IsLoading: loading}
	})
}

// CredentialRefreshed updates the mirrored access token after a background
// refresh without touching identity or error state.
func (s *Store) CredentialRefreshed(accessToken string) {
	s.transition(func(st *State) {
		st.AccessToken = accessToken
	})
}

// SessionExpired tears the session down and records why
func (s *Store) SessionExpired(msg string) {
	s.transition(func(st *State) {
		st.User = nil
		st.AccessToken = ""
		st.IsAuthenticated = false
		st.Err = msg
	})
}

// SetError records a user-facing error message
func (s *Store) SetError(msg string) {
	s.transition(func(st *State) {
		st.Err = msg
	})
}

// ClearError clears the last error message
func (s *Store) ClearError() {
	s.transition(func(st *State) {
		st.Err = ""
	})
}

// transition applies one mutation atomically and notifies subscribers with
// the resulting snapshot outside the lock.
func (s *Store) transition(mutate func(*State)) {
	s.mu.Lock()
	mutate(&s.state)
	snapshot := s.state
	watchers := make([]func(State), 0, len(s.watchers))
	for _, fn := range s.watchers {
		watchers = append(watchers, fn)
	}
	s.mu.Unlock()

	for _, fn := range watchers {
		fn(snapshot)
	}
}
