package viewmodel

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdant-app/verdant/internal/api"
	"github.com/verdant-app/verdant/internal/forum"
)

func TestForumRefreshIsPublic(t *testing.T) {
	e := newTestEnv(t)
	e.backend.reply("GET /forum/posts", 200, `[{"id":"p1","title":"Aphids"},{"id":"p2","title":"Repotting"}]`)

	f := NewForum(e.client)
	require.NoError(t, f.Refresh(context.Background()))
	st := f.State()
	require.Len(t, st.Posts, 2)
	assert.Equal(t, forum.Confirmed, st.Posts[0].Sync)
	assert.Empty(t, e.nav.Routes())
}

func TestForumCreatePostIsOptimistic(t *testing.T) {
	e := newTestEnv(t)
	e.signIn()
	e.backend.reply("GET /forum/posts", 200, `[{"id":"p1","title":"Old","content":"x"}]`)
	e.backend.reply("POST /forum/posts", 201, `{"status":"success","message":"Post created successfully"}`)

	f := NewForum(e.client)
	f.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	require.NoError(t, f.Refresh(context.Background()))
	require.NoError(t, f.CreatePost(context.Background(), " New ", "Body"))

	st := f.State()
	require.Len(t, st.Posts, 2)
	assert.Equal(t, "New", st.Posts[0].Title)
	assert.Equal(t, forum.Pending, st.Posts[0].Sync)
	assert.True(t, forum.IsLocalID(st.Posts[0].ID))
	assert.Equal(t, "user-1", st.Posts[0].UserID)
	assert.Equal(t, "2026-01-02T03:04:05Z", st.Posts[0].CreatedAt)
	assert.Equal(t, "Post created successfully!", st.Notice)

	// The pending post survives a refresh that does not include it yet.
	require.NoError(t, f.Refresh(context.Background()))
	assert.Len(t, f.State().Posts, 2)
}

func TestForumPendingPostReplacedOnRefresh(t *testing.T) {
	e := newTestEnv(t)
	e.signIn()
	e.backend.reply("POST /forum/posts", 201, `{"status":"success","post_id":"p9"}`)
	var served atomic.Int32
	e.backend.mux.HandleFunc("GET /forum/posts", func(w http.ResponseWriter, r *http.Request) {
		if served.Add(1) == 1 {
			w.Write([]byte(`[]`))
			return
		}
		w.Write([]byte(`[{"id":"p9","title":"New","content":"Body"}]`))
	})

	f := NewForum(e.client)
	require.NoError(t, f.Refresh(context.Background()))
	require.NoError(t, f.CreatePost(context.Background(), "New", "Body"))
	assert.Equal(t, api.ID("p9"), f.State().Posts[0].ID)

	require.NoError(t, f.Refresh(context.Background()))
	st := f.State()
	require.Len(t, st.Posts, 1)
	assert.Equal(t, forum.Confirmed, st.Posts[0].Sync)
}

func TestForumCreatePostValidation(t *testing.T) {
	e := newTestEnv(t)
	f := NewForum(e.client)

	assert.ErrorIs(t, f.CreatePost(context.Background(), "", "body"), ErrPostFieldsRequired)
	assert.ErrorIs(t, f.CreatePost(context.Background(), "t", "b"), ErrSignInToPost)
	assert.Equal(t, "Please sign in to create a post.", f.State().Err)
	assert.Empty(t, e.backend.Calls())
}

func TestForumCreatePostNeedsSuccessTag(t *testing.T) {
	e := newTestEnv(t)
	e.signIn()
	e.backend.reply("POST /forum/posts", 200, `{"message":"saved?"}`)

	f := NewForum(e.client)
	require.Error(t, f.CreatePost(context.Background(), "t", "b"))
	assert.Equal(t, "saved?", f.State().Err)
	assert.Empty(t, f.State().Posts)
}

func TestForumDuplicateSubmissionIsBusy(t *testing.T) {
	e := newTestEnv(t)
	e.signIn()
	entered := make(chan struct{})
	release := make(chan struct{})
	e.backend.mux.HandleFunc("POST /forum/posts", func(w http.ResponseWriter, r *http.Request) {
		close(entered)
		<-release
		w.Write([]byte(`{"status":"success"}`))
	})

	f := NewForum(e.client)
	done := make(chan error, 1)
	go func() { done <- f.CreatePost(context.Background(), "t", "b") }()

	<-entered
	assert.True(t, f.State().Posting)
	assert.ErrorIs(t, f.CreatePost(context.Background(), "t", "b"), ErrBusy)
	close(release)
	require.NoError(t, <-done)
	assert.Len(t, f.State().Posts, 1)
}

func TestPostThreadLoad(t *testing.T) {
	e := newTestEnv(t)
	e.backend.reply("GET /forum/posts", 200, `[{"id":"p1","title":"Aphids"}]`)
	e.backend.reply("GET /forum/posts/{id}/comments", 200, `[
		{"id":1,"content":"root"},
		{"id":2,"content":"reply","parent_comment_id":1},
		{"id":3,"content":"deep","parent_comment_id":2}
	]`)

	pt := NewPostThread(e.client)
	require.NoError(t, pt.Load(context.Background(), "p1"))

	st := pt.State()
	require.NotNil(t, st.Post)
	assert.Equal(t, "Aphids", st.Post.Title)

	th := pt.Thread()
	require.Len(t, th.TopLevel(), 1)
	assert.Equal(t, api.ID("1"), th.TopLevel()[0].ID)
	require.Len(t, th.Replies("1"), 1)
	assert.Equal(t, api.ID("2"), th.Replies("1")[0].ID)
	require.Len(t, th.Hidden(), 1)
	assert.Equal(t, api.ID("3"), th.Hidden()[0].ID)
}

func TestPostThreadToleratesCommentErrors(t *testing.T) {
	e := newTestEnv(t)
	e.backend.reply("GET /forum/posts", 200, `[{"id":"p1","title":"Aphids"}]`)
	e.backend.reply("GET /forum/posts/{id}/comments", 500, `{"error":"relation does not exist"}`)

	pt := NewPostThread(e.client)
	require.NoError(t, pt.Load(context.Background(), "p1"))
	st := pt.State()
	assert.Empty(t, st.Err)
	assert.True(t, pt.Thread().Empty())
	assert.NotNil(t, st.Post)
}

func TestPostThreadMissingPost(t *testing.T) {
	e := newTestEnv(t)
	e.backend.reply("GET /forum/posts", 200, `[]`)
	e.backend.reply("GET /forum/posts/{id}/comments", 200, `[]`)

	pt := NewPostThread(e.client)
	require.NoError(t, pt.Load(context.Background(), "nope"))
	assert.Nil(t, pt.State().Post)
}

func TestPostThreadCommentAndReply(t *testing.T) {
	e := newTestEnv(t)
	e.backend.reply("GET /forum/posts", 200, `[{"id":"p1","title":"Aphids"}]`)
	e.backend.reply("GET /forum/posts/{id}/comments", 200, `[{"id":"c1","content":"root"}]`)
	e.backend.reply("POST /forum/posts/{id}/comments", 201, `{"status":"success","data":[{"id":"c2"}]}`)

	pt := NewPostThread(e.client)
	require.NoError(t, pt.Load(context.Background(), "p1"))

	assert.ErrorIs(t, pt.Reply(context.Background(), "c1", "hi"), ErrSignInToReply)
	assert.ErrorIs(t, pt.Comment(context.Background(), "hi"), ErrSignInToComment)
	assert.Equal(t, "Please sign in to comment.", pt.State().Err)

	e.signIn()
	assert.ErrorIs(t, pt.Comment(context.Background(), "   "), ErrCommentEmpty)
	require.NoError(t, pt.Reply(context.Background(), "c1", "me too"))

	st := pt.State()
	assert.Equal(t, "Reply posted successfully!", st.Notice)
	replies := pt.Thread().Replies("c1")
	require.Len(t, replies, 1)
	assert.Equal(t, api.ID("c2"), replies[0].ID)
	assert.Equal(t, forum.Pending, replies[0].Sync)

	// Reloading with the server copy confirms it without duplication.
	e2 := newTestEnv(t)
	e2.backend.reply("GET /forum/posts", 200, `[{"id":"p1"}]`)
	e2.backend.reply("GET /forum/posts/{id}/comments", 200, `[{"id":"c1","content":"root"},{"id":"c2","content":"me too","parent_comment_id":"c1"}]`)
	pt.client = e2.client
	require.NoError(t, pt.Load(context.Background(), "p1"))
	replies = pt.Thread().Replies("c1")
	require.Len(t, replies, 1)
	assert.Equal(t, forum.Confirmed, replies[0].Sync)
}

func TestPostThreadCommentRequiresLoadedPost(t *testing.T) {
	e := newTestEnv(t)
	e.signIn()
	pt := NewPostThread(e.client)
	assert.ErrorIs(t, pt.Comment(context.Background(), "hi"), ErrNoPostLoaded)
}
