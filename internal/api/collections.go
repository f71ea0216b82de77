package api

import (
	"context"
	"net/http"
)

// Collections fetches every collection of the signed-in user.
func (c *Client) Collections(ctx context.Context) (Collections, error) {
	env, err := c.call(ctx, http.MethodGet, "/collections", nil)
	if err != nil {
		return nil, err
	}
	// No collections is answered with [] instead of {}.
	if env.IsEmptyArray() {
		return Collections{}, nil
	}
	var out Collections
	if err := env.Into(&out); err != nil {
		return nil, err
	}
	if out == nil {
		out = Collections{}
	}
	return out, nil
}

// CreateCollection creates an empty, named collection.
func (c *Client) CreateCollection(ctx context.Context, name, userID string) error {
	body := map[string]string{"collection_name": name, "user_id": userID}
	env, err := c.call(ctx, http.MethodPost, "/collections/create", body)
	if err != nil {
		return err
	}
	return env.Require()
}

// RenameCollection renames a collection owned by the signed-in user.
func (c *Client) RenameCollection(ctx context.Context, oldName, newName string) error {
	body := map[string]string{"old_name": oldName, "new_name": newName}
	_, err := c.call(ctx, http.MethodPut, "/collections/rename", body)
	return err
}

// DeleteCollection deletes a collection and every plant saved in it.
func (c *Client) DeleteCollection(ctx context.Context, name string) error {
	_, err := c.call(ctx, http.MethodDelete, "/collections/container/"+pathEscape(name), nil)
	return err
}

// DeleteEntry removes one saved plant.
func (c *Client) DeleteEntry(ctx context.Context, id ID) error {
	_, err := c.call(ctx, http.MethodDelete, "/collections/"+pathEscape(string(id)), nil)
	return err
}

// AddToCollection saves a plant snapshot into the named collection. The
// backend creates the collection when it does not exist yet.
func (c *Client) AddToCollection(ctx context.Context, plant Plant, collection string) error {
	body := struct {
		PlantData      Plant  `json:"plant_data"`
		CollectionName string `json:"collection_name"`
	}{plant, collection}
	_, err := c.call(ctx, http.MethodPost, "/collections", body)
	return err
}
