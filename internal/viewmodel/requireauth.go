package viewmodel

import (
	"github.com/verdant-app/verdant/internal/api"
	"github.com/verdant-app/verdant/internal/session"
)

// RequireAuth guards views that need a session.
type RequireAuth struct {
	client *api.Client
}

func NewRequireAuth(client *api.Client) *RequireAuth {
	return &RequireAuth{client: client}
}

// Check reports whether a session exists. When it does not, the user is
// sent to the login view.
func (r *RequireAuth) Check() bool {
	if currentSession(r.client).SignedIn() {
		return true
	}
	if sessions := r.client.Sessions(); sessions != nil {
		sessions.Navigate(session.RouteLogin)
	}
	return false
}
