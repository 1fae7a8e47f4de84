package sse

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/folio/internal/models"
	"github.com/starford/folio/internal/watcher"
)

func strPtr(s string) *string { return &s }

func drain(ch chan []byte) []string {
	var out []string
	for {
		select {
		case msg := <-ch:
			out = append(out, string(msg))
		default:
			return out
		}
	}
}

func countEvents(msgs []string, event string) int {
	n := 0
	for _, m := range msgs {
		if strings.Contains(m, "event: "+event+"\n") {
			n++
		}
	}
	return n
}

func TestNotify_Payload(t *testing.T) {
	h := NewHub(time.Second, nil)
	ch, ok := h.subscribe()
	require.True(t, ok)

	h.Notify(watcher.Change{Kind: watcher.Created, Name: "_a b.md", Slug: "a-b", Hidden: true, Title: strPtr("A B")})

	msgs := drain(ch)
	require.Len(t, msgs, 2)
	assert.Regexp(t, `(?m)^id: [0-9a-f-]{36}$`, msgs[0])
	assert.Contains(t, msgs[0], "event: document.created\n")
	assert.Contains(t, msgs[0], `data: {"slug":"a-b","title":"A B","hidden":true}`)
	assert.Contains(t, msgs[1], "event: documents.changed\n")
}

func TestNotify_UnknownKindIgnored(t *testing.T) {
	h := NewHub(time.Second, nil)
	ch, _ := h.subscribe()

	h.Notify(watcher.Change{Kind: "renamed", Slug: "x"})
	assert.Empty(t, drain(ch))
}

func TestNotify_ListingThrottled(t *testing.T) {
	h := NewHub(time.Second, nil)
	clock := time.Unix(1000, 0)
	h.now = func() time.Time { return clock }
	ch, _ := h.subscribe()

	h.Notify(watcher.Change{Kind: watcher.Created, Slug: "a"})
	h.Notify(watcher.Change{Kind: watcher.Updated, Slug: "b"})
	msgs := drain(ch)
	assert.Equal(t, 2, countEvents(msgs, "document.created")+countEvents(msgs, "document.updated"))
	assert.Equal(t, 1, countEvents(msgs, "documents.changed"))

	clock = clock.Add(time.Second)
	h.Notify(watcher.Change{Kind: watcher.Deleted, Slug: "a"})
	msgs = drain(ch)
	assert.Equal(t, 1, countEvents(msgs, "document.deleted"))
	assert.Equal(t, 1, countEvents(msgs, "documents.changed"))
}

func TestNotify_SlowClientDoesNotBlock(t *testing.T) {
	h := NewHub(time.Hour, nil)
	ch, _ := h.subscribe()

	for range clientBuffer + 10 {
		h.Notify(watcher.Change{Kind: watcher.Updated, Slug: "x"})
	}
	assert.Len(t, drain(ch), clientBuffer)
}

func TestServeHTTP_SnapshotThenChanges(t *testing.T) {
	h := NewHub(time.Second, func(context.Context) ([]Summary, error) {
		return []Summary{{Slug: "first", Title: strPtr("First")}}, nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/events", nil).WithContext(ctx)
	w := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		h.ServeHTTP(w, req)
		close(done)
	}()

	require.Eventually(t, func() bool { return h.ClientCount() == 1 }, time.Second, 10*time.Millisecond)
	h.Notify(watcher.Change{Kind: watcher.Deleted, Slug: "gone"})
	time.Sleep(50 * time.Millisecond)

	cancel()
	<-done

	body := w.Body.String()
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
	snapshot := strings.Index(body, "event: documents.snapshot\n")
	deleted := strings.Index(body, "event: document.deleted\n")
	require.GreaterOrEqual(t, snapshot, 0, body)
	require.GreaterOrEqual(t, deleted, 0, body)
	assert.Less(t, snapshot, deleted, "snapshot must come first")
	assert.Contains(t, body, `data: [{"slug":"first","title":"First","hidden":false}]`)
	assert.Zero(t, h.ClientCount())
}

func TestServeHTTP_SnapshotErrorStillStreams(t *testing.T) {
	h := NewHub(time.Second, func(context.Context) ([]Summary, error) {
		return nil, errors.New("disk gone")
	})

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/events", nil).WithContext(ctx)
	w := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		h.ServeHTTP(w, req)
		close(done)
	}()

	require.Eventually(t, func() bool { return h.ClientCount() == 1 }, time.Second, 10*time.Millisecond)
	h.Notify(watcher.Change{Kind: watcher.Created, Slug: "new"})
	time.Sleep(50 * time.Millisecond)
	cancel()
	<-done

	assert.NotContains(t, w.Body.String(), "documents.snapshot")
	assert.Contains(t, w.Body.String(), "event: document.created\n")
}

func TestClose(t *testing.T) {
	h := NewHub(time.Second, nil)
	ch, _ := h.subscribe()

	h.Close()
	_, open := <-ch
	assert.False(t, open, "subscriber channel should be closed")
	assert.Zero(t, h.ClientCount())

	// Safe after close.
	h.Notify(watcher.Change{Kind: watcher.Updated, Slug: "x"})
	h.Close()

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/events", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestSummarize(t *testing.T) {
	assert.Equal(t, Summary{Slug: "a", Hidden: true}, Summarize(models.Document{Slug: "a", Hidden: true}))

	s := Summarize(models.Document{Slug: "b", Metadata: &models.Metadata{Title: strPtr("B")}})
	require.NotNil(t, s.Title)
	assert.Equal(t, "B", *s.Title)
}
