package viewmodel

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/verdant-app/verdant/internal/api"
	"github.com/verdant-app/verdant/internal/forum"
)

var (
	ErrPostFieldsRequired = errors.New("Title and content are required.")
	ErrSignInToPost       = errors.New("Please sign in to create a post.")
)

// ForumState is a snapshot of the post list, newest first.
type ForumState struct {
	Posts   []forum.Post
	Loading bool
	Posting bool
	Err     string
	Notice  string
}

// Forum lists posts and creates new ones.
type Forum struct {
	client *api.Client
	now    func() time.Time

	mu    sync.Mutex
	state ForumState
}

func NewForum(client *api.Client) *Forum {
	return &Forum{client: client, now: time.Now}
}

func (f *Forum) State() ForumState {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := f.state
	s.Posts = append([]forum.Post(nil), f.state.Posts...)
	return s
}

// Refresh reloads the public post list, keeping posts the backend has not
// reported yet.
func (f *Forum) Refresh(ctx context.Context) error {
	f.mu.Lock()
	if err := begin(&f.state.Loading, &f.state.Err); err != nil {
		f.mu.Unlock()
		return err
	}
	f.mu.Unlock()

	posts, err := f.client.Posts(ctx)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.Loading = false
	if err != nil {
		f.state.Err = api.Message(err)
		return err
	}
	f.state.Posts = forum.ReconcilePosts(f.state.Posts, posts)
	return nil
}

// CreatePost publishes a post and shows it at the top of the list at once.
func (f *Forum) CreatePost(ctx context.Context, title, content string) error {
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	sess := currentSession(f.client)

	f.mu.Lock()
	switch {
	case title == "" || content == "":
		f.state.Err = api.Message(ErrPostFieldsRequired)
		f.mu.Unlock()
		return ErrPostFieldsRequired
	case !sess.SignedIn():
		f.state.Err = api.Message(ErrSignInToPost)
		f.mu.Unlock()
		return ErrSignInToPost
	}
	if err := begin(&f.state.Posting, &f.state.Err); err != nil {
		f.mu.Unlock()
		return err
	}
	f.state.Notice = ""
	f.mu.Unlock()

	id, err := f.client.CreatePost(ctx, title, content)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.Posting = false
	if err != nil {
		f.state.Err = api.Message(err)
		return err
	}
	p := forum.NewPendingPost(api.Post{
		ID:          id,
		Title:       title,
		Content:     content,
		UserID:      sess.UserID,
		AuthorEmail: "You",
	}, f.now())
	f.state.Posts = append([]forum.Post{p}, f.state.Posts...)
	f.state.Notice = "Post created successfully!"
	return nil
}

var (
	ErrCommentEmpty    = errors.New("Comment cannot be empty.")
	ErrSignInToComment = errors.New("Please sign in to comment.")
	ErrSignInToReply   = errors.New("Please sign in to reply.")
	ErrNoPostLoaded    = errors.New("No post is loaded.")
)

// PostThreadState is a snapshot of one post and its comments.
type PostThreadState struct {
	PostID   api.ID
	Post     *api.Post
	Comments []forum.Comment
	Loading  bool
	Posting  bool
	Err      string
	Notice   string
}

// Thread groups the comments for display.
func (s PostThreadState) Thread() *forum.Thread {
	return forum.BuildThread(s.Comments)
}

// PostThread shows a post with its discussion and posts comments and
// replies.
type PostThread struct {
	client *api.Client
	now    func() time.Time

	mu    sync.Mutex
	state PostThreadState
}

func NewPostThread(client *api.Client) *PostThread {
	return &PostThread{client: client, now: time.Now}
}

func (t *PostThread) State() PostThreadState {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := t.state
	s.Comments = append([]forum.Comment(nil), t.state.Comments...)
	return s
}

// Thread builds the comment thread from the current state.
func (t *PostThread) Thread() *forum.Thread {
	return t.State().Thread()
}

// Load fetches the post and its comments. A failed comment fetch shows an
// empty thread rather than an error, unless the backend was unreachable.
func (t *PostThread) Load(ctx context.Context, postID api.ID) error {
	t.mu.Lock()
	if err := begin(&t.state.Loading, &t.state.Err); err != nil {
		t.mu.Unlock()
		return err
	}
	if t.state.PostID != postID {
		t.state.Post = nil
		t.state.Comments = nil
	}
	t.state.PostID = postID
	t.mu.Unlock()

	post, err := t.findPost(ctx, postID)
	if err != nil {
		return t.loadFailed(err)
	}

	comments, err := t.client.Comments(ctx, postID)
	if err != nil {
		var apiErr *api.APIError
		var decErr *api.DecodeError
		tolerated := errors.As(err, &decErr) || (errors.As(err, &apiErr) && apiErr.Kind != api.KindNetwork)
		if !tolerated {
			return t.loadFailed(err)
		}
		comments = nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.state.Loading = false
	t.state.Post = post
	t.state.Comments = forum.ReconcileComments(t.state.Comments, comments)
	return nil
}

func (t *PostThread) findPost(ctx context.Context, postID api.ID) (*api.Post, error) {
	posts, err := t.client.Posts(ctx)
	if err != nil {
		return nil, err
	}
	for i := range posts {
		if posts[i].ID == postID {
			return &posts[i], nil
		}
	}
	return nil, nil
}

func (t *PostThread) loadFailed(err error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state.Loading = false
	t.state.Err = api.Message(err)
	return err
}

// Comment posts a top-level comment.
func (t *PostThread) Comment(ctx context.Context, content string) error {
	return t.submit(ctx, "", content, ErrSignInToComment, "Comment posted successfully!")
}

// Reply posts a reply to parent.
func (t *PostThread) Reply(ctx context.Context, parent api.ID, content string) error {
	return t.submit(ctx, parent, content, ErrSignInToReply, "Reply posted successfully!")
}

func (t *PostThread) submit(ctx context.Context, parent api.ID, content string, signIn error, notice string) error {
	content = strings.TrimSpace(content)
	sess := currentSession(t.client)

	t.mu.Lock()
	postID := t.state.PostID
	var reject error
	switch {
	case postID == "":
		reject = ErrNoPostLoaded
	case content == "":
		reject = ErrCommentEmpty
	case !sess.SignedIn():
		reject = signIn
	}
	if reject != nil {
		t.state.Err = api.Message(reject)
		t.mu.Unlock()
		return reject
	}
	if err := begin(&t.state.Posting, &t.state.Err); err != nil {
		t.mu.Unlock()
		return err
	}
	t.state.Notice = ""
	t.mu.Unlock()

	id, err := t.client.CreateComment(ctx, postID, content, parent)

	t.mu.Lock()
	defer t.mu.Unlock()
	t.state.Posting = false
	if err != nil {
		t.state.Err = api.Message(err)
		return err
	}
	draft := api.Comment{
		ID:          id,
		PostID:      postID,
		UserID:      sess.UserID,
		Content:     content,
		AuthorEmail: "You",
	}
	if parent != "" {
		p := parent
		draft.ParentCommentID = &p
	}
	t.state.Comments = append(t.state.Comments, forum.NewPendingComment(draft, t.now()))
	t.state.Notice = notice
	return nil
}
