package viewmodel

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/verdant-app/verdant/internal/api"
	"github.com/verdant-app/verdant/internal/session"
)

type navRecorder struct {
	mu     sync.Mutex
	routes []string
}

func (n *navRecorder) Navigate(route string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.routes = append(n.routes, route)
}

func (n *navRecorder) Routes() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.routes...)
}

// fakeBackend routes requests by Go 1.22 mux patterns and records every
// call as "METHOD /path".
type fakeBackend struct {
	mux *http.ServeMux

	mu    sync.Mutex
	calls []string
}

func (b *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	b.calls = append(b.calls, r.Method+" "+r.URL.Path)
	b.mu.Unlock()
	b.mux.ServeHTTP(w, r)
}

func (b *fakeBackend) Calls() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.calls...)
}

// reply registers a fixed answer for pattern.
func (b *fakeBackend) reply(pattern string, status int, body string) {
	b.mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, body)
	})
}

type testEnv struct {
	t        *testing.T
	backend  *fakeBackend
	client   *api.Client
	sessions *session.Manager
	nav      *navRecorder
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	b := &fakeBackend{mux: http.NewServeMux()}
	srv := httptest.NewServer(b)
	t.Cleanup(srv.Close)

	nav := &navRecorder{}
	mgr := session.NewManager(session.NewMemoryStore(), nav, nil)
	return &testEnv{
		t:        t,
		backend:  b,
		client:   api.New(srv.URL, mgr),
		sessions: mgr,
		nav:      nav,
	}
}

func (e *testEnv) signIn() {
	e.t.Helper()
	require.NoError(e.t, e.sessions.Login("tok", "user-1"))
}

func (e *testEnv) signedIn() bool {
	e.t.Helper()
	sess, err := e.sessions.Current()
	require.NoError(e.t, err)
	return sess.SignedIn()
}
