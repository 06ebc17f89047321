// internal/app/system/auth/auth.go
package auth

import (
	"sync"
	"time"
)

// Session is the in-process record of a signed-in identity. There is at
// most one active session per Manager.
type Session struct {
	Email      string
	SignedInAt time.Time
}

// Manager holds the current session and notifies listeners when it
// changes. It stands in for the identity provider's session accessor
// and session-change stream: the chat store subscribes so it can clear
// its local mirror if the session is ended from outside an action.
type Manager struct {
	mu        sync.Mutex
	current   *Session
	listeners []func(*Session)
}

func NewManager() *Manager {
	return &Manager{}
}

// SignIn replaces the current session with one for email and notifies
// listeners.
func (m *Manager) SignIn(email string) Session {
	s := Session{Email: email, SignedInAt: time.Now().UTC()}

	m.mu.Lock()
	m.current = &s
	listeners := append([]func(*Session){}, m.listeners...)
	m.mu.Unlock()

	for _, fn := range listeners {
		fn(&s)
	}
	return s
}

// SignOut clears the current session and notifies listeners with nil.
// Signing out with no session is a no-op and does not notify.
func (m *Manager) SignOut() {
	m.mu.Lock()
	if m.current == nil {
		m.mu.Unlock()
		return
	}
	m.current = nil
	listeners := append([]func(*Session){}, m.listeners...)
	m.mu.Unlock()

	for _, fn := range listeners {
		fn(nil)
	}
}

// Current returns the active session, if any.
func (m *Manager) Current() (Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return Session{}, false
	}
	return *m.current, true
}

// OnChange registers fn to be called with the new session (nil on
// sign-out) after every session change. Listeners are invoked outside
// the manager's lock, in registration order.
func (m *Manager) OnChange(fn func(*Session)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}
