// Package session owns the client-side sign-in state: the bearer token and
// user id kept in the persistent Store, change notifications for anything on
// screen that depends on them, the one-shot flash message shown after an
// expiry, and navigation to the login view.
package session

import (
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Routes the session layer can navigate to.
const (
	RouteLogin       = "/auth"
	RouteCollections = "/collections"
)

// ExpiredMessage is persisted as the flash after a session expiry.
const ExpiredMessage = "Your session has expired. Please log in again."

// Navigator moves the user to another view.
type Navigator interface {
	Navigate(route string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(route string)

func (f NavigatorFunc) Navigate(route string) { f(route) }

// Session is a snapshot of the sign-in state.
type Session struct {
	Token  string
	UserID string
	// Generation identifies the sign-in this snapshot belongs to. It changes
	// on every login, logout and expiry.
	Generation uint64
}

// SignedIn reports whether the snapshot carries a token.
func (s Session) SignedIn() bool { return s.Token != "" }

type EventKind int

const (
	EventSignedIn EventKind = iota
	EventSignedOut
	EventExpired
)

func (k EventKind) String() string {
	switch k {
	case EventSignedIn:
		return "signed_in"
	case EventSignedOut:
		return "signed_out"
	case EventExpired:
		return "expired"
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// Event is published on every session change.
type Event struct {
	Kind   EventKind
	UserID string
	At     time.Time
}

// Manager serializes all session mutations.
type Manager struct {
	store  Store
	nav    Navigator
	logger *slog.Logger
	now    func() time.Time

	mu   sync.Mutex
	gen  uint64
	subs map[int]chan Event
	next int
}

// NewManager creates a Manager. nav and logger may be nil.
func NewManager(store Store, nav Navigator, logger *slog.Logger) *Manager {
	if nav == nil {
		nav = NavigatorFunc(func(string) {})
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Manager{
		store:  store,
		nav:    nav,
		logger: logger,
		now:    time.Now,
		subs:   make(map[int]chan Event),
	}
}

// Store returns the underlying persistent store.
func (m *Manager) Store() Store { return m.store }

// Navigate forwards to the configured Navigator.
func (m *Manager) Navigate(route string) { m.nav.Navigate(route) }

// Current reads the session from the store.
func (m *Manager) Current() (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.readLocked()
}

func (m *Manager) readLocked() (Session, error) {
	token, _, err := m.store.Get(KeyToken)
	if err != nil {
		return Session{}, fmt.Errorf("read token: %w", err)
	}
	userID, _, err := m.store.Get(KeyUserID)
	if err != nil {
		return Session{}, fmt.Errorf("read user id: %w", err)
	}
	return Session{Token: token, UserID: userID, Generation: m.gen}, nil
}

// Login persists a new session and publishes EventSignedIn.
func (m *Manager) Login(token, userID string) error {
	if token == "" || userID == "" {
		return fmt.Errorf("login requires both token and user id")
	}
	m.mu.Lock()
	if err := m.store.Set(KeyToken, token); err != nil {
		m.mu.Unlock()
		return fmt.Errorf("store token: %w", err)
	}
	if err := m.store.Set(KeyUserID, userID); err != nil {
		m.mu.Unlock()
		return fmt.Errorf("store user id: %w", err)
	}
	// A fresh sign-in invalidates any stale flash.
	_ = m.store.Delete(KeyFlash)
	m.gen++
	m.mu.Unlock()

	m.logger.Info("signed in", "user_id", userID)
	m.publish(Event{Kind: EventSignedIn, UserID: userID, At: m.now()})
	return nil
}

// Logout clears the session and publishes EventSignedOut.
func (m *Manager) Logout() error {
	m.mu.Lock()
	sess, _ := m.readLocked()
	if err := m.clearLocked(); err != nil {
		m.mu.Unlock()
		return err
	}
	m.gen++
	m.mu.Unlock()

	m.logger.Info("signed out", "user_id", sess.UserID)
	m.publish(Event{Kind: EventSignedOut, UserID: sess.UserID, At: m.now()})
	return nil
}

// Expire runs the session-expiry sequence for the sign-in identified by
// generation: purge token and user id, publish EventExpired, persist the
// flash, navigate to login. It reports whether it did so. Calls carrying a
// generation that was already expired (or replaced by a newer login) are
// no-ops, so concurrent 401s trigger the sequence once.
func (m *Manager) Expire(generation uint64) bool {
	m.mu.Lock()
	if generation != m.gen {
		m.mu.Unlock()
		return false
	}
	sess, err := m.readLocked()
	if err != nil || !sess.SignedIn() {
		m.mu.Unlock()
		return false
	}
	if err := m.clearLocked(); err != nil {
		// The token may still be on disk; the next 401 tries again.
		m.mu.Unlock()
		m.logger.Error("clear expired session", "error", err)
		return false
	}
	if err := m.store.Set(KeyFlash, ExpiredMessage); err != nil {
		m.logger.Error("store flash message", "error", err)
	}
	m.gen++
	m.mu.Unlock()

	m.logger.Warn("session expired", "user_id", sess.UserID)
	m.publish(Event{Kind: EventExpired, UserID: sess.UserID, At: m.now()})
	m.nav.Navigate(RouteLogin)
	return true
}

func (m *Manager) clearLocked() error {
	if err := m.store.Delete(KeyToken); err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	if err := m.store.Delete(KeyUserID); err != nil {
		return fmt.Errorf("delete user id: %w", err)
	}
	return nil
}

// SetFlash stores a message to be shown once on the next view.
func (m *Manager) SetFlash(msg string) error {
	return m.store.Set(KeyFlash, msg)
}

// ExpiryPending reports whether a session expired and the user has not yet
// seen the expiry message.
func (m *Manager) ExpiryPending() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg, ok, err := m.store.Get(KeyFlash)
	return err == nil && ok && msg == ExpiredMessage
}

// TakeFlash returns the pending flash message and removes it.
func (m *Manager) TakeFlash() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg, ok, err := m.store.Get(KeyFlash)
	if err != nil || !ok {
		return "", err
	}
	if err := m.store.Delete(KeyFlash); err != nil {
		return "", err
	}
	return msg, nil
}

// Subscribe registers a listener for session changes. Events are dropped
// for a subscriber whose buffer is full. The returned function unsubscribes
// and closes the channel.
func (m *Manager) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan Event, buffer)

	m.mu.Lock()
	id := m.next
	m.next++
	m.subs[id] = ch
	m.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.subs, id)
			m.mu.Unlock()
			close(ch)
		})
	}
}

func (m *Manager) publish(ev Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ch := range m.subs {
		select {
		case ch <- ev:
		default:
			m.logger.Debug("dropped session event", "kind", ev.Kind.String())
		}
	}
}
