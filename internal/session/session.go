package session

import (
	"context"
	"sync"
)

// Identity is the signed-in user as seen by the pages.
type Identity struct {
	UserID      int    `json:"user_id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}

// Change is one identity-change notification. A nil Identity means signed out.
type Change struct {
	Identity *Identity `json:"identity"`
}

// Navigator performs a page change decided by State.
type Navigator interface {
	Navigate(target Page)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(target Page)

func (f NavigatorFunc) Navigate(target Page) { f(target) }

// State holds the current identity for one client and the page it is on.
// It is passed explicitly to every component that needs an identity.
type State struct {
	mu       sync.RWMutex
	identity *Identity
	page     Page
}

// NewState returns a signed-out state on page.
func NewState(page Page) *State {
	return &State{page: page}
}

// WithIdentity returns a state that is already signed in.
func WithIdentity(page Page, id *Identity) *State {
	return &State{page: page, identity: id}
}

func (s *State) Identity() (*Identity, bool) {
	if s == nil {
		return nil, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity, s.identity != nil
}

// Set replaces the identity without navigating.
func (s *State) Set(id *Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = id
}

func (s *State) Clear() { s.Set(nil) }

func (s *State) Page() Page {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.page
}

// Apply records a notification and navigates when the current page no longer
// fits the identity. Navigation moves the state to the target page, so a
// repeated notification does not navigate twice.
func (s *State) Apply(c Change, nav Navigator) {
	s.mu.Lock()
	s.identity = c.Identity
	target, ok := Route(s.page, c.Identity)
	if ok {
		s.page = target
	}
	s.mu.Unlock()

	if ok && nav != nil {
		nav.Navigate(target)
	}
}

// Listen applies notifications until the stream closes or ctx is done.
func (s *State) Listen(ctx context.Context, changes <-chan Change, nav Navigator) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case c, ok := <-changes:
			if !ok {
				return nil
			}
			s.Apply(c, nav)
		}
	}
}
