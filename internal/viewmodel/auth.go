package viewmodel

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/verdant-app/verdant/internal/api"
	"github.com/verdant-app/verdant/internal/session"
)

var (
	ErrCredentialsRequired = errors.New("Email and password are required.")
	ErrAutoLoginFailed     = errors.New("Sign up successful, but automatic login failed. Please try manually.")
)

// AuthState is a snapshot of the sign-in form.
type AuthState struct {
	Loading bool
	Err     string
	Notice  string
}

// Auth drives sign-in, sign-up and sign-out.
type Auth struct {
	client *api.Client

	mu    sync.Mutex
	state AuthState
}

func NewAuth(client *api.Client) *Auth {
	return &Auth{client: client}
}

func (a *Auth) State() AuthState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

func (a *Auth) start() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.state.Notice = ""
	return begin(&a.state.Loading, &a.state.Err)
}

func (a *Auth) finish(notice string, err error) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.state.Loading = false
	a.state.Err = api.Message(err)
	if err == nil {
		a.state.Notice = notice
	}
	return err
}

func (a *Auth) reject(err error) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.state.Err = api.Message(err)
	return err
}

// Login signs in and, on success, stores the session and opens the
// collections view.
func (a *Auth) Login(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return a.reject(ErrCredentialsRequired)
	}
	if err := a.start(); err != nil {
		return err
	}
	return a.finish("Signed in.", a.login(ctx, email, password))
}

func (a *Auth) login(ctx context.Context, email, password string) error {
	res, err := a.client.Login(ctx, email, password)
	if err != nil {
		return err
	}
	sessions := a.client.Sessions()
	if err := sessions.Login(res.Token, res.UserID); err != nil {
		return err
	}
	sessions.Navigate(session.RouteCollections)
	return nil
}

// Signup registers an account and then signs in with the same credentials.
func (a *Auth) Signup(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return a.reject(ErrCredentialsRequired)
	}
	if err := a.start(); err != nil {
		return err
	}
	if _, err := a.client.Signup(ctx, email, password); err != nil {
		return a.finish("", err)
	}
	if err := a.login(ctx, email, password); err != nil {
		return a.finish("", ErrAutoLoginFailed)
	}
	return a.finish("Sign up successful. You are now signed in.", nil)
}

// Logout clears the session and returns to the login view.
func (a *Auth) Logout() error {
	sessions := a.client.Sessions()
	if err := sessions.Logout(); err != nil {
		return a.reject(err)
	}
	sessions.Navigate(session.RouteLogin)
	a.mu.Lock()
	a.state = AuthState{Notice: "Signed out."}
	a.mu.Unlock()
	return nil
}
