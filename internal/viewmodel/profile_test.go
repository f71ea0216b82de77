package viewmodel

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdant-app/verdant/internal/api"
	"github.com/verdant-app/verdant/internal/session"
)

func loadedProfile(t *testing.T) (*testEnv, *Profile) {
	t.Helper()
	e := newTestEnv(t)
	e.signIn()
	e.backend.reply("GET /profile", 200, `{"id":"user-1","email":"Fern@Example.com","created_at":"2025-04-01T10:00:00Z"}`)
	p := NewProfile(e.client)
	require.NoError(t, p.Load(context.Background()))
	return e, p
}

func TestProfileLoad(t *testing.T) {
	_, p := loadedProfile(t)
	st := p.State()
	require.NotNil(t, st.Profile)
	assert.Equal(t, "Fern@Example.com", st.Profile.Email)
}

func TestProfileLoadWithoutSession(t *testing.T) {
	e := newTestEnv(t)
	p := NewProfile(e.client)

	assert.ErrorIs(t, p.Load(context.Background()), api.ErrSignInRequired)
	assert.Equal(t, []string{session.RouteLogin}, e.nav.Routes())
	assert.Empty(t, e.backend.Calls())
}

func TestProfileEmailValidation(t *testing.T) {
	e, p := loadedProfile(t)

	assert.ErrorIs(t, p.UpdateEmail(context.Background(), ""), ErrEmailUnchanged)
	assert.ErrorIs(t, p.UpdateEmail(context.Background(), " fern@example.COM "), ErrEmailUnchanged)
	assert.Equal(t, []string{"GET /profile"}, e.backend.Calls())
}

func TestProfileUpdateEmail(t *testing.T) {
	e, p := loadedProfile(t)
	e.backend.reply("PUT /profile/email", 200, `{"message":"Email updated. Check your inbox to confirm."}`)

	require.NoError(t, p.UpdateEmail(context.Background(), "moss@example.com"))
	st := p.State()
	assert.Equal(t, "Email updated. Check your inbox to confirm.", st.Notice)
	assert.Equal(t, "moss@example.com", st.Profile.Email)
}

func TestProfileUpdateEmailConflict(t *testing.T) {
	e, p := loadedProfile(t)
	e.backend.reply("PUT /profile/email", 400, `{"error":"Email already in use"}`)

	require.Error(t, p.UpdateEmail(context.Background(), "moss@example.com"))
	st := p.State()
	assert.Equal(t, "Email already in use", st.Err)
	assert.Equal(t, "Fern@Example.com", st.Profile.Email)
}

func TestProfilePasswordValidation(t *testing.T) {
	tests := []struct {
		name     string
		password string
		confirm  string
		want     error
	}{
		{"empty", "", "", ErrPasswordEmpty},
		{"short", "abc12", "abc12", ErrPasswordTooShort},
		{"mismatch", "abcdef", "abcdeg", ErrPasswordsMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, p := loadedProfile(t)
			assert.ErrorIs(t, p.UpdatePassword(context.Background(), tt.password, tt.confirm), tt.want)
			assert.Equal(t, tt.want.Error(), p.State().Err)
			assert.Equal(t, []string{"GET /profile"}, e.backend.Calls())
		})
	}
}

func TestProfileUpdatePassword(t *testing.T) {
	e, p := loadedProfile(t)
	e.backend.reply("PUT /profile/password", 200, `{"message":"ok"}`)

	require.NoError(t, p.UpdatePassword(context.Background(), "abcdef", "abcdef"))
	assert.Equal(t, "Password updated successfully!", p.State().Notice)
	assert.Empty(t, p.State().Err)
}

func TestRequireAuth(t *testing.T) {
	e := newTestEnv(t)
	r := NewRequireAuth(e.client)

	assert.False(t, r.Check())
	assert.Equal(t, []string{session.RouteLogin}, e.nav.Routes())

	e.signIn()
	assert.True(t, r.Check())
	assert.Len(t, e.nav.Routes(), 1)
}
