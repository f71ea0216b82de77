package api

import (
	"context"
	"net/http"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges credentials for a session token. It does not touch the
// stored session; the caller decides what to persist.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	env, err := c.call(ctx, http.MethodPost, "/auth/login", credentials{email, password}, Anonymous())
	if err != nil {
		return nil, err
	}
	var res LoginResult
	if err := env.Into(&res); err != nil {
		return nil, err
	}
	if res.Token == "" || res.UserID == "" {
		return nil, &APIError{
			Kind:    KindValidation,
			Status:  env.HTTPStatus,
			Message: "Login response did not include a session.",
		}
	}
	return &res, nil
}

// Signup registers a new account and returns the backend's message.
func (c *Client) Signup(ctx context.Context, email, password string) (string, error) {
	env, err := c.call(ctx, http.MethodPost, "/auth/signup", credentials{email, password}, Anonymous())
	if err != nil {
		return "", err
	}
	return env.Message, nil
}
