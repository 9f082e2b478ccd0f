// Package session holds the in-memory authentication state shared by every
// view of the client.
//
// The state lives in a Store that is created once at startup and handed to
// each consumer explicitly. Consumers read it with Get, change it with Set or
// Update, and react to changes with Subscribe.
package session

import (
	"sync"

	"github.com/dmitrijs2005/authapp/internal/client/models"
)

// State is the authentication snapshot of the client.
//
// IsAuthenticated implies a non-empty Token and a valid User. IsLoading is
// true only until the first startup validation completes.
type State struct {
	IsAuthenticated bool
	User            *models.Identity
	Token           string
	IsLoading       bool
}

// Loading is the state a Store starts in.
func Loading() State {
	return State{IsLoading: true}
}

// Authenticated returns the state for a validated session.
func Authenticated(user models.Identity, token string) State {
	return State{IsAuthenticated: true, User: &user, Token: token}
}

// Anonymous returns the state after logout, deletion or failed validation.
func Anonymous() State {
	return State{}
}

// UserID returns the id of the authenticated user, or 0.
func (s State) UserID() int64 {
	if s.User == nil {
		return 0
	}
	return s.User.ID
}

// Username returns the name of the authenticated user, or "".
func (s State) Username() string {
	if s.User == nil {
		return ""
	}
	return s.User.Username
}

func (s State) clone() State {
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return s
}

// Store is a concurrency-safe holder of State with change notification.
// Subscribers run synchronously, in subscription order, after every write,
// and receive their own copy of the new state.
type Store struct {
	mu     sync.RWMutex
	state  State
	nextID int
	subs   map[int]func(State)
	order  []int
}

// NewStore returns a Store in the loading state.
func NewStore() *Store {
	return &Store{state: Loading(), subs: make(map[int]func(State))}
}

// Get returns a copy of the current state.
func (s *Store) Get() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

// Set replaces the state and notifies subscribers.
func (s *Store) Set(st State) {
	s.mu.Lock()
	s.state = st.clone()
	s.mu.Unlock()
	s.notify()
}

// Update applies fn to a copy of the current state under the write lock and
// publishes the result.
func (s *Store) Update(fn func(st *State)) {
	s.mu.Lock()
	st := s.state.clone()
	fn(&st)
	s.state = st
	s.mu.Unlock()
	s.notify()
}

// Token returns the current bearer token. It lets the Store act as the
// token source of the API client.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Token
}

// Subscribe registers fn for change notifications. The returned function
// removes the subscription; calling it more than once is harmless.
func (s *Store) Subscribe(fn func(State)) (cancel func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.order = append(s.order, id)
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.subs[id]; !ok {
			return
		}
		delete(s.subs, id)
		for i, v := range s.order {
			if v == id {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
	}
}

func (s *Store) notify() {
	s.mu.RLock()
	st := s.state
	fns := make([]func(State), 0, len(s.order))
	for _, id := range s.order {
		fns = append(fns, s.subs[id])
	}
	s.mu.RUnlock()

	for _, fn := range fns {
		fn(st.clone())
	}
}
