package feed

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/bcdxn/carrera/internal/race"
	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

const (
	// Path is where the hub serves the websocket feed and where clients connect.
	Path         = "/race"
	writeTimeout = 5 * time.Second
)

// NewHub returns a hub with no subscribers.
func NewHub(opts ...HubOption) *Hub {
	h := &Hub{
		subscribers: make(map[*subscriber]struct{}),
		logger:      slog.Default(),
	}
	// apply given options
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Hub fans race snapshots out to every connected spectator. It is safe for concurrent use: the
// race loop publishes while the HTTP server adds and removes subscribers.
type Hub struct {
	mu          sync.Mutex
	subscribers map[*subscriber]struct{}
	latest      *race.Snapshot
	logger      *slog.Logger
}

// subscriber holds at most one pending snapshot; a newer snapshot replaces an undelivered one so a
// slow spectator never blocks the race.
type subscriber struct {
	pending chan race.Snapshot
}

type HubOption = func(h *Hub)

// WithHubLogger configures the logger to use within the hub.
func WithHubLogger(l *slog.Logger) HubOption {
	return func(h *Hub) { h.logger = l }
}

// Publish records s as the latest snapshot and hands it to every subscriber without blocking.
func (h *Hub) Publish(s race.Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.latest = &s
	for sub := range h.subscribers {
		sub.offer(s)
	}
}

// Subscribers returns the number of connected spectators.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}

// ServeHTTP upgrades the request to a websocket and streams snapshots as JSON until the spectator
// disconnects or the request context ends.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		h.logger.Error("error accepting spectator", "err", err)
		return
	}
	defer conn.CloseNow()
	// spectators never send anything; CloseRead handles control frames and cancels on close
	ctx := conn.CloseRead(r.Context())

	sub := h.subscribe()
	defer h.unsubscribe(sub)
	h.logger.Debug("spectator connected", "remote", r.RemoteAddr)

	for {
		select {
		case <-ctx.Done():
			h.logger.Debug("spectator disconnected", "remote", r.RemoteAddr)
			return
		case s := <-sub.pending:
			if err := writeSnapshot(ctx, conn, s); err != nil {
				h.logger.Debug("error writing snapshot", "remote", r.RemoteAddr, "err", err)
				return
			}
		}
	}
}

/* Private Helper Functions
------------------------------------------------------------------------------------------------- */

func (h *Hub) subscribe() *subscriber {
	h.mu.Lock()
	defer h.mu.Unlock()
	sub := &subscriber{pending: make(chan race.Snapshot, 1)}
	if h.latest != nil {
		sub.offer(*h.latest)
	}
	h.subscribers[sub] = struct{}{}
	return sub
}

func (h *Hub) unsubscribe(sub *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subscribers, sub)
}

func writeSnapshot(ctx context.Context, conn *websocket.Conn, s race.Snapshot) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return wsjson.Write(ctx, conn, s)
}

// offer must be called with the hub lock held, which makes the drain-then-send race free.
func (s *subscriber) offer(snap race.Snapshot) {
	select {
	case <-s.pending:
	default:
	}
	s.pending <- snap
}
