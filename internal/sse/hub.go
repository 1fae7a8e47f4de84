// Package sse streams document changes to browsers as Server-Sent Events.
//
// A new subscriber first receives documents.snapshot with the current
// listing, then document.created, document.updated and document.deleted as
// the watcher reports them. documents.changed follows a change at most once
// per throttle interval, for clients that only refetch the listing.
package sse

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/starford/folio/internal/models"
	"github.com/starford/folio/internal/watcher"
)

// clientBuffer is how many messages a slow client may fall behind before
// messages to it are dropped.
const clientBuffer = 64

// Summary identifies a document in events and in the replayed listing.
type Summary struct {
	Slug   string  `json:"slug"`
	Title  *string `json:"title"`
	Hidden bool    `json:"hidden"`
}

// Summarize reduces a document to its Summary.
func Summarize(d models.Document) Summary {
	s := Summary{Slug: d.Slug, Hidden: d.Hidden}
	if d.Metadata != nil {
		s.Title = d.Metadata.Title
	}
	return s
}

// Lister returns the listing replayed to new subscribers.
type Lister func(ctx context.Context) ([]Summary, error)

// Hub fans document changes out to connected clients.
type Hub struct {
	throttle time.Duration
	list     Lister
	now      func() time.Time

	mu       sync.Mutex
	clients  map[chan []byte]struct{}
	lastList time.Time
	closed   bool
}

// NewHub creates a Hub. list may be nil, in which case no snapshot is sent.
func NewHub(throttle time.Duration, list Lister) *Hub {
	if throttle <= 0 {
		throttle = 2 * time.Second
	}
	return &Hub{
		throttle: throttle,
		list:     list,
		now:      time.Now,
		clients:  make(map[chan []byte]struct{}),
	}
}

// Notify broadcasts a watcher change. Changes of unknown kind are ignored.
func (h *Hub) Notify(c watcher.Change) {
	if !c.Kind.Valid() {
		return
	}
	msg, err := message("document."+string(c.Kind), Summary{Slug: c.Slug, Title: c.Title, Hidden: c.Hidden})
	if err != nil {
		slog.Error("sse: encode event", slog.String("error", err.Error()))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.broadcast(msg)

	if now := h.now(); now.Sub(h.lastList) >= h.throttle {
		h.lastList = now
		if msg, err := message("documents.changed", struct{}{}); err == nil {
			h.broadcast(msg)
		}
	}
}

// broadcast must be called with mu held.
func (h *Hub) broadcast(msg []byte) {
	for ch := range h.clients {
		select {
		case ch <- msg:
		default:
		}
	}
}

func (h *Hub) subscribe() (chan []byte, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, false
	}
	ch := make(chan []byte, clientBuffer)
	h.clients[ch] = struct{}{}
	return ch, true
}

func (h *Hub) unsubscribe(ch chan []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[ch]; ok {
		delete(h.clients, ch)
		close(ch)
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every client. Later notifications are dropped.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for ch := range h.clients {
		delete(h.clients, ch)
		close(ch)
	}
}

// ServeHTTP is the SSE endpoint handler (GET /events).
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	// Subscribe before taking the snapshot so no change falls in between.
	ch, ok := h.subscribe()
	if !ok {
		http.Error(w, "shutting down", http.StatusServiceUnavailable)
		return
	}
	defer h.unsubscribe(ch)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(http.StatusOK)

	if h.list != nil {
		if err := h.writeSnapshot(r.Context(), w); err != nil {
			slog.Warn("sse: snapshot failed", slog.String("error", err.Error()))
		}
	}
	flusher.Flush()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if _, err := w.Write(msg); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func (h *Hub) writeSnapshot(ctx context.Context, w http.ResponseWriter) error {
	docs, err := h.list(ctx)
	if err != nil {
		return err
	}
	if docs == nil {
		docs = []Summary{}
	}
	msg, err := message("documents.snapshot", docs)
	if err != nil {
		return err
	}
	_, err = w.Write(msg)
	return err
}

func message(event string, data any) ([]byte, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return fmt.Appendf(nil, "id: %s\nevent: %s\ndata: %s\n\n", uuid.NewString(), event, payload), nil
}
