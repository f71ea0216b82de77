package api

import (
	"context"
	"net/http"
)

// Profile fetches the signed-in user's account info.
func (c *Client) Profile(ctx context.Context) (*Profile, error) {
	env, err := c.call(ctx, http.MethodGet, "/profile", nil)
	if err != nil {
		return nil, err
	}
	var p Profile
	if err := env.Into(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateEmail changes the account email and returns the backend's message.
func (c *Client) UpdateEmail(ctx context.Context, email string) (string, error) {
	env, err := c.call(ctx, http.MethodPut, "/profile/email", map[string]string{"email": email})
	if err != nil {
		return "", err
	}
	return env.Message, nil
}

// UpdatePassword changes the account password.
func (c *Client) UpdatePassword(ctx context.Context, password string) (string, error) {
	env, err := c.call(ctx, http.MethodPut, "/profile/password", map[string]string{"password": password})
	if err != nil {
		return "", err
	}
	return env.Message, nil
}
