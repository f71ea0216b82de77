package api

import (
	"context"
	"errors"
	"net/http"
)

// Plan asks the backend for an AI garden plan. The plan is markdown text.
func (c *Client) Plan(ctx context.Context, input string) (string, error) {
	env, err := c.call(ctx, http.MethodPost, "/ai/plan", map[string]string{"user_input": input})
	if err != nil {
		return "", err
	}
	if err := env.Require(); err != nil {
		return "", err
	}
	plan := env.Field("plan")
	if !plan.Exists() {
		return "", &DecodeError{Status: env.HTTPStatus, Err: errors.New("response has no plan")}
	}
	return plan.String(), nil
}
