// Package forum builds discussion threads from the backend's flat comment
// list and tracks optimistically created posts and comments until the
// backend reports them.
package forum

import "github.com/verdant-app/verdant/internal/api"

// Thread is a flat comment list grouped for display. Top-level comments are
// rendered with their direct replies; deeper replies are indexed but not
// rendered.
type Thread struct {
	top     []Comment
	replies map[api.ID][]Comment
	hidden  []Comment
	count   int
}

// BuildThread groups comments by parent. Relative order is preserved both
// among top-level comments and among the replies of one parent.
func BuildThread(comments []Comment) *Thread {
	t := &Thread{replies: make(map[api.ID][]Comment), count: len(comments)}

	parents := make(map[api.ID]api.ID, len(comments))
	for _, c := range comments {
		parents[c.ID] = c.Parent()
	}

	for _, c := range comments {
		parent := c.Parent()
		if parent == "" {
			t.top = append(t.top, c)
			continue
		}
		t.replies[parent] = append(t.replies[parent], c)

		// Shown only when the parent is itself top-level. Orphans are
		// dropped silently.
		grand, known := parents[parent]
		if known && grand != "" {
			t.hidden = append(t.hidden, c)
		}
	}
	return t
}

// TopLevel returns the comments without a parent.
func (t *Thread) TopLevel() []Comment { return t.top }

// Replies returns the direct replies to id in input order.
func (t *Thread) Replies(id api.ID) []Comment { return t.replies[id] }

// Hidden returns replies to replies. They exist in the data but the
// one-level layout does not show them.
func (t *Thread) Hidden() []Comment { return t.hidden }

// Len is the number of comments the thread was built from.
func (t *Thread) Len() int { return t.count }

// Empty reports whether the thread has nothing to show.
func (t *Thread) Empty() bool { return len(t.top) == 0 }
