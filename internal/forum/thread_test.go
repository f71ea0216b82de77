package forum

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdant-app/verdant/internal/api"
)

func comment(id, parent, content string) Comment {
	c := api.Comment{ID: api.ID(id), Content: content}
	if parent != "" {
		p := api.ID(parent)
		c.ParentCommentID = &p
	}
	return Comment{Comment: c}
}

func ids(cs []Comment) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = string(c.ID)
	}
	return out
}

func TestBuildThreadOneLevel(t *testing.T) {
	th := BuildThread([]Comment{
		comment("1", "", "root"),
		comment("2", "1", "reply"),
		comment("3", "2", "reply to reply"),
	})

	assert.Equal(t, []string{"1"}, ids(th.TopLevel()))
	assert.Equal(t, []string{"2"}, ids(th.Replies("1")))
	assert.Equal(t, []string{"3"}, ids(th.Replies("2")))
	assert.Equal(t, []string{"3"}, ids(th.Hidden()))
	assert.Equal(t, 3, th.Len())
}

func TestBuildThreadPreservesOrder(t *testing.T) {
	th := BuildThread([]Comment{
		comment("a", "", ""),
		comment("r2", "b", ""),
		comment("b", "", ""),
		comment("r1", "a", ""),
		comment("r3", "b", ""),
		comment("c", "", ""),
	})

	assert.Equal(t, []string{"a", "b", "c"}, ids(th.TopLevel()))
	assert.Equal(t, []string{"r1"}, ids(th.Replies("a")))
	assert.Equal(t, []string{"r2", "r3"}, ids(th.Replies("b")))
	assert.Empty(t, th.Replies("c"))
	assert.Empty(t, th.Hidden())
}

func TestBuildThreadOrphansNeverSurface(t *testing.T) {
	th := BuildThread([]Comment{
		comment("1", "", ""),
		comment("9", "missing", ""),
	})

	assert.Equal(t, []string{"1"}, ids(th.TopLevel()))
	assert.Empty(t, th.Replies("1"))
	assert.Empty(t, th.Hidden())
}

func TestBuildThreadEmpty(t *testing.T) {
	th := BuildThread(nil)
	assert.True(t, th.Empty())
	assert.Empty(t, th.TopLevel())
	assert.Equal(t, 0, th.Len())
}

func TestBuildThreadMixedIDTypes(t *testing.T) {
	var raw []api.Comment
	require.NoError(t, jsonUnmarshal(`[{"id":1,"content":"x"},{"id":"2","content":"y","parent_comment_id":1}]`, &raw))

	th := BuildThread(Confirm(raw))
	assert.Equal(t, []string{"2"}, ids(th.Replies("1")))
}
