package auth

import (
	"errors"
	"sync"

	"aozu-ops-hub/internal/domain"
)

var ErrEmptyUserID = errors.New("user id is required")

// Listener observes identity transitions. prev or next is nil for the
// signed-out state.
type Listener func(prev, next *domain.User)

type subscription struct {
	id int
	fn Listener
}

// Session holds the identity of the person using this device.
type Session struct {
	mu      sync.Mutex
	current *domain.User
	subs    []subscription
	nextID  int
}

func NewSession() *Session {
	return &Session{}
}

// SignIn replaces the current identity. Signing in again as the same uid only
// refreshes the profile and does not notify listeners.
func (s *Session) SignIn(user domain.User) error {
	if user.UID == "" {
		return ErrEmptyUserID
	}

	s.mu.Lock()
	prev := s.current
	next := user
	s.current = &next
	if prev != nil && prev.UID == next.UID {
		s.mu.Unlock()
		return nil
	}
	subs := s.snapshot()
	s.mu.Unlock()

	notify(subs, prev, &next)
	return nil
}

func (s *Session) SignOut() {
	s.mu.Lock()
	prev := s.current
	s.current = nil
	if prev == nil {
		s.mu.Unlock()
		return
	}
	subs := s.snapshot()
	s.mu.Unlock()

	notify(subs, prev, nil)
}

// Current returns a copy of the signed-in user, or nil.
func (s *Session) Current() *domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	u := *s.current
	return &u
}

func (s *Session) IsLoggedIn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current != nil
}

func (s *Session) UserID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return ""
	}
	return s.current.UID
}

// Subscribe registers fn. Listeners run synchronously, in subscription order,
// on the goroutine that changed the session.
func (s *Session) Subscribe(fn func(prev, next *domain.User)) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.subs = append(s.subs, subscription{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, sub := range s.subs {
				if sub.id == id {
					s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
					return
				}
			}
		})
	}
}

func (s *Session) snapshot() []Listener {
	out := make([]Listener, len(s.subs))
	for i, sub := range s.subs {
		out[i] = sub.fn
	}
	return out
}

func notify(subs []Listener, prev, next *domain.User) {
	for _, fn := range subs {
		var p, n *domain.User
		if prev != nil {
			cp := *prev
			p = &cp
		}
		if next != nil {
			cp := *next
			n = &cp
		}
		fn(p, n)
	}
}
