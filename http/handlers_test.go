// http/handlers_test.go
package http

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vinizap/instantnotes/domain"
	"github.com/vinizap/instantnotes/events"
	"github.com/vinizap/instantnotes/filesystem"
)

func newTestServer(t *testing.T) (*Server, *filesystem.Repository) {
	t.Helper()
	s, repo, _ := newStoppableServer(t)
	return s, repo
}

// newStoppableServer also returns a function stopping the event hub.
func newStoppableServer(t *testing.T) (*Server, *filesystem.Repository, context.CancelFunc) {
	t.Helper()
	repo, err := filesystem.Open(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	hub := events.NewHub(zerolog.Nop())
	go hub.Run(ctx)

	return NewServer(repo, hub, zerolog.Nop()), repo, cancel
}

func do(t *testing.T, s *Server, method, target, title string) (*http.Response, string) {
	t.Helper()
	var body io.Reader
	if title != "" {
		body = strings.NewReader(url.Values{"title": {title}}.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	return resp, string(data)
}

func TestListEmpty(t *testing.T) {
	s, _ := newTestServer(t)

	resp, body := do(t, s, http.MethodGet, "/notes", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, body)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestCreateDoesNotReturnID(t *testing.T) {
	s, repo := newTestServer(t)

	resp, body := do(t, s, http.MethodPost, "/notes", "Groceries")
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Empty(t, body)

	notes, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.Note{{ID: 1, Title: "Groceries"}}, notes)
}

func TestNoteLifecycle(t *testing.T) {
	s, _ := newTestServer(t)

	do(t, s, http.MethodPost, "/notes", "A")
	do(t, s, http.MethodPost, "/notes", "B")

	resp, body := do(t, s, http.MethodGet, "/notes/2", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"id":2,"title":"B"}`, body)

	resp, body = do(t, s, http.MethodPut, "/notes/1", "A-edited")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"id":1,"title":"A-edited"}`, body)

	resp, _ = do(t, s, http.MethodDelete, "/notes/2", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	_, body = do(t, s, http.MethodGet, "/notes", "")
	var notes []domain.Note
	require.NoError(t, json.Unmarshal([]byte(body), &notes))
	assert.Equal(t, []domain.Note{{ID: 1, Title: "A-edited"}}, notes)
}

func TestErrors(t *testing.T) {
	s, _ := newTestServer(t)

	tests := []struct {
		method, target string
		want           int
	}{
		{http.MethodGet, "/notes/42", http.StatusNotFound},
		{http.MethodPut, "/notes/42", http.StatusNotFound},
		{http.MethodDelete, "/notes/42", http.StatusNotFound},
		{http.MethodGet, "/notes/abc", http.StatusBadRequest},
		{http.MethodPatch, "/notes/1", http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		resp, _ := do(t, s, tt.method, tt.target, "")
		assert.Equal(t, tt.want, resp.StatusCode, "%s %s", tt.method, tt.target)
	}
}

func TestPreflight(t *testing.T) {
	s, _ := newTestServer(t)

	resp, _ := do(t, s, http.MethodOptions, "/notes", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), "DELETE")
}

func TestEventStream(t *testing.T) {
	s, _, stopHub := newStoppableServer(t)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go s.App().Listener(ln)
	t.Cleanup(func() {
		// Ends the open stream before the server waits for connections.
		stopHub()
		s.App().ShutdownWithTimeout(2 * time.Second)
	})
	base := "http://" + ln.Addr().String()

	resp, err := http.Get(base + "/notes/events")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	lines := bufio.NewScanner(resp.Body)
	require.True(t, lines.Scan())
	assert.Equal(t, ": connected", lines.Text())

	post, err := http.PostForm(base+"/notes", url.Values{"title": {"live"}})
	require.NoError(t, err)
	post.Body.Close()

	var event, data string
	deadline := time.After(3 * time.Second)
	for data == "" {
		select {
		case <-deadline:
			t.Fatal("no event received")
		default:
		}
		require.True(t, lines.Scan())
		line := lines.Text()
		switch {
		case strings.HasPrefix(line, "event: "):
			event = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			data = strings.TrimPrefix(line, "data: ")
		}
	}
	assert.Equal(t, events.NoteCreated, event)
	assert.JSONEq(t, `{"type":"note_created","note":{"id":1,"title":"live"}}`, data)
}
