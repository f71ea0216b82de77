package forum

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/verdant-app/verdant/internal/api"
)

// LocalIDPrefix marks ids generated on the client.
const LocalIDPrefix = "local-"

// SyncState tells whether the backend has reported an item yet.
type SyncState int

const (
	Confirmed SyncState = iota
	Pending
)

func (s SyncState) String() string {
	if s == Pending {
		return "pending"
	}
	return "confirmed"
}

// Comment is a backend comment plus its sync state.
type Comment struct {
	api.Comment
	Sync SyncState
}

// Post is a backend post plus its sync state.
type Post struct {
	api.Post
	Sync SyncState
}

// IsLocalID reports whether id was generated on the client.
func IsLocalID(id api.ID) bool {
	return strings.HasPrefix(string(id), LocalIDPrefix)
}

func newLocalID() api.ID {
	return api.ID(LocalIDPrefix + uuid.NewString())
}

func timestamp(now time.Time) string {
	return now.UTC().Format(time.RFC3339)
}

// NewPendingComment wraps a just-submitted comment. draft.ID is the id the
// backend returned, if any; otherwise a local id is assigned.
func NewPendingComment(draft api.Comment, now time.Time) Comment {
	if draft.ID == "" {
		draft.ID = newLocalID()
	}
	if draft.CreatedAt == "" {
		draft.CreatedAt = timestamp(now)
	}
	return Comment{Comment: draft, Sync: Pending}
}

// NewPendingPost wraps a just-submitted post the same way.
func NewPendingPost(draft api.Post, now time.Time) Post {
	if draft.ID == "" {
		draft.ID = newLocalID()
	}
	if draft.CreatedAt == "" {
		draft.CreatedAt = timestamp(now)
	}
	return Post{Post: draft, Sync: Pending}
}

// Confirm marks backend comments as confirmed.
func Confirm(comments []api.Comment) []Comment {
	out := make([]Comment, len(comments))
	for i, c := range comments {
		out[i] = Comment{Comment: c}
	}
	return out
}

// ConfirmPosts marks backend posts as confirmed.
func ConfirmPosts(posts []api.Post) []Post {
	out := make([]Post, len(posts))
	for i, p := range posts {
		out[i] = Post{Post: p}
	}
	return out
}

// ReconcileComments replaces local with the server list and appends the
// pending comments the server does not report yet. A pending comment with a
// backend id matches by id; one with a local id matches by content and
// parent.
func ReconcileComments(local []Comment, server []api.Comment) []Comment {
	out := Confirm(server)

	ids := make(map[api.ID]bool, len(server))
	type key struct {
		parent  api.ID
		content string
	}
	seen := make(map[key]int, len(server))
	for _, c := range server {
		ids[c.ID] = true
		seen[key{c.Parent(), c.Content}]++
	}

	for _, c := range local {
		if c.Sync != Pending {
			continue
		}
		if !IsLocalID(c.ID) {
			if ids[c.ID] {
				continue
			}
		} else if k := (key{c.Parent(), c.Content}); seen[k] > 0 {
			seen[k]--
			continue
		}
		out = append(out, c)
	}
	return out
}

// ReconcilePosts is ReconcileComments for posts, matched on title and
// content. Pending posts stay in front since posts list newest first.
func ReconcilePosts(local []Post, server []api.Post) []Post {
	ids := make(map[api.ID]bool, len(server))
	type key struct{ title, content string }
	seen := make(map[key]int, len(server))
	for _, p := range server {
		ids[p.ID] = true
		seen[key{p.Title, p.Content}]++
	}

	var out []Post
	for _, p := range local {
		if p.Sync != Pending {
			continue
		}
		if !IsLocalID(p.ID) {
			if ids[p.ID] {
				continue
			}
		} else if k := (key{p.Title, p.Content}); seen[k] > 0 {
			seen[k]--
			continue
		}
		out = append(out, p)
	}
	return append(out, ConfirmPosts(server)...)
}
