package api

import (
	"context"
	"net/http"
)

// Posts lists recent forum posts. The endpoint is public; a token is sent
// when present.
func (c *Client) Posts(ctx context.Context) ([]Post, error) {
	env, err := c.call(ctx, http.MethodGet, "/forum/posts", nil)
	if err != nil {
		return nil, err
	}
	var posts []Post
	if err := env.Into(&posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// CreatePost publishes a post. The returned id is empty when the backend
// did not report one.
func (c *Client) CreatePost(ctx context.Context, title, content string) (ID, error) {
	body := map[string]string{"title": title, "content": content}
	env, err := c.call(ctx, http.MethodPost, "/forum/posts", body)
	if err != nil {
		return "", err
	}
	if err := env.Require(); err != nil {
		return "", err
	}
	if id := env.Field("post_id"); id.Exists() {
		return ID(id.String()), nil
	}
	return ID(env.Field("data.0.id").String()), nil
}

// Comments lists the comments of a post, oldest first.
func (c *Client) Comments(ctx context.Context, postID ID) ([]Comment, error) {
	env, err := c.call(ctx, http.MethodGet, "/forum/posts/"+pathEscape(string(postID))+"/comments", nil)
	if err != nil {
		return nil, err
	}
	var comments []Comment
	if err := env.Into(&comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// CreateComment posts a comment, or a reply when parent is non-empty. The
// returned id is empty when the backend did not report one.
func (c *Client) CreateComment(ctx context.Context, postID ID, content string, parent ID) (ID, error) {
	body := map[string]any{"content": content}
	if parent != "" {
		body["parent_comment_id"] = parent
	}
	env, err := c.call(ctx, http.MethodPost, "/forum/posts/"+pathEscape(string(postID))+"/comments", body)
	if err != nil {
		return "", err
	}
	return ID(env.Field("data.0.id").String()), nil
}
