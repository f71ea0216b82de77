package api

import (
	"context"
	"net/http"
	"net/url"
)

// Plant looks up care details for a plant by name and type.
func (c *Client) Plant(ctx context.Context, name, plantType string) (*Plant, error) {
	q := url.Values{}
	q.Set("name", name)
	if plantType != "" {
		q.Set("type", plantType)
	}
	env, err := c.call(ctx, http.MethodGet, "/plants", nil, WithQuery(q))
	if err != nil {
		return nil, err
	}
	var p Plant
	if err := env.Into(&p); err != nil {
		return nil, err
	}
	return &p, nil
}
