package viewmodel

import (
	"context"
	"errors"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/verdant-app/verdant/internal/api"
	"github.com/verdant-app/verdant/internal/session"
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 6

var (
	ErrEmailUnchanged    = errors.New("Please enter a different email address.")
	ErrPasswordEmpty     = errors.New("Please enter a new password.")
	ErrPasswordTooShort  = errors.New("Password must be at least 6 characters.")
	ErrPasswordsMismatch = errors.New("Passwords do not match.")
)

// ProfileState is a snapshot of the account page.
type ProfileState struct {
	Profile *api.Profile
	Loading bool
	Saving  bool
	Err     string
	Notice  string
}

// Profile shows and edits the signed-in account.
type Profile struct {
	client *api.Client

	mu    sync.Mutex
	state ProfileState
}

func NewProfile(client *api.Client) *Profile {
	return &Profile{client: client}
}

func (p *Profile) State() ProfileState {
	p.mu.Lock()
	defer p.mu.Unlock()
	s := p.state
	if p.state.Profile != nil {
		cp := *p.state.Profile
		s.Profile = &cp
	}
	return s
}

// Load fetches the account. Without a session it sends the user to the
// login view.
func (p *Profile) Load(ctx context.Context) error {
	if !currentSession(p.client).SignedIn() {
		if sessions := p.client.Sessions(); sessions != nil {
			sessions.Navigate(session.RouteLogin)
		}
		return p.reject(api.ErrSignInRequired)
	}
	p.mu.Lock()
	if err := begin(&p.state.Loading, &p.state.Err); err != nil {
		p.mu.Unlock()
		return err
	}
	p.mu.Unlock()

	prof, err := p.client.Profile(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.Loading = false
	if err != nil {
		p.state.Err = api.Message(err)
		return err
	}
	p.state.Profile = prof
	return nil
}

func (p *Profile) reject(err error) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.Err = api.Message(err)
	p.state.Notice = ""
	return err
}

func (p *Profile) save(op func() (string, error), fallback string, onSuccess func()) error {
	p.mu.Lock()
	if err := begin(&p.state.Saving, &p.state.Err); err != nil {
		p.mu.Unlock()
		return err
	}
	p.state.Notice = ""
	p.mu.Unlock()

	msg, err := op()

	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.Saving = false
	if err != nil {
		p.state.Err = api.Message(err)
		return err
	}
	if msg == "" {
		msg = fallback
	}
	p.state.Notice = msg
	onSuccess()
	return nil
}

// UpdateEmail changes the account email. The new address must differ from
// the current one, ignoring case.
func (p *Profile) UpdateEmail(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	p.mu.Lock()
	current := ""
	if p.state.Profile != nil {
		current = p.state.Profile.Email
	}
	p.mu.Unlock()
	if email == "" || strings.EqualFold(email, current) {
		return p.reject(ErrEmailUnchanged)
	}
	return p.save(func() (string, error) {
		return p.client.UpdateEmail(ctx, email)
	}, "Email updated successfully!", func() {
		if p.state.Profile != nil {
			p.state.Profile.Email = email
		}
	})
}

// UpdatePassword changes the account password after checking the
// confirmation.
func (p *Profile) UpdatePassword(ctx context.Context, password, confirm string) error {
	switch {
	case password == "":
		return p.reject(ErrPasswordEmpty)
	case utf8.RuneCountInString(password) < MinPasswordLength:
		return p.reject(ErrPasswordTooShort)
	case password != confirm:
		return p.reject(ErrPasswordsMismatch)
	}
	// The backend's own message is generic; keep the fixed wording.
	return p.save(func() (string, error) {
		_, err := p.client.UpdatePassword(ctx, password)
		return "", err
	}, "Password updated successfully!", func() {})
}
