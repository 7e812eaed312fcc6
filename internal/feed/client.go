package feed

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/bcdxn/carrera/internal/race"
	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

// New returns a new spectator feed client.
func New(opts ...ClientOption) Client {
	// create a default instance of the client
	c := Client{
		snapshotsCh: make(chan race.Snapshot),
		doneCh:      make(chan error, 1),
		logger:      slog.Default(),
		wsBaseURL:   "ws://localhost:8080",
	}
	// apply given options
	for _, opt := range opts {
		opt(&c)
	}
	// return new instance of the client
	return c
}

type Client struct {
	// channels
	snapshotsCh chan race.Snapshot
	doneCh      chan error
	// Feed Configuration
	wsBaseURL string
	// logger
	logger *slog.Logger
}

/* Client Optional Functional Parameters
------------------------------------------------------------------------------------------------- */

type ClientOption = func(c *Client)

// WithWSBaseURL configures the websocket URL of the race feed, e.g. ws://localhost:8080.
func WithWSBaseURL(baseURL string) ClientOption {
	return func(c *Client) { c.wsBaseURL = baseURL }
}

// WithLogger configures the logger to use within the client.
func WithLogger(l *slog.Logger) ClientOption {
	return func(c *Client) { c.logger = l }
}

/* Client API
------------------------------------------------------------------------------------------------- */

// Snapshots exposes the snapshot channel as read-only; a full snapshot of the race can be read from
// this channel on every tick broadcast by the feed.
func (c Client) Snapshots() <-chan race.Snapshot {
	return c.snapshotsCh
}

// Done allows the client to signal to the caller that it has exited; an error is sent first when
// the connection failed or was closed abnormally, then the channel is closed.
func (c Client) Done() <-chan error {
	return c.doneCh
}

// Listen connects to the feed and forwards snapshots until ctx is done or the server goes away.
func (c Client) Listen(ctx context.Context) {
	defer close(c.doneCh)
	u, err := c.websocketURL()
	if err != nil {
		c.logger.Error("error building websocket URL", "err", err)
		c.doneCh <- err
		return
	}
	conn, _, err := websocket.Dial(ctx, u.String(), nil)
	if err != nil {
		c.logger.Error("error dialing websocket", "err", err.Error())
		c.doneCh <- err
		return
	}
	defer conn.CloseNow()
	c.logger.Debug("connected to race feed", "url", u.String())

	for {
		var s race.Snapshot
		err := wsjson.Read(ctx, conn, &s)
		if err != nil {
			if ctx.Err() != nil || websocket.CloseStatus(err) == websocket.StatusNormalClosure {
				conn.Close(websocket.StatusNormalClosure, "client closed")
			} else {
				c.logger.Error("error reading snapshot", "err", err)
				c.doneCh <- err
			}
			return
		}
		select {
		case c.snapshotsCh <- s:
		case <-ctx.Done():
			conn.Close(websocket.StatusNormalClosure, "client closed")
			return
		}
	}
}

/* Private Helper Functions
------------------------------------------------------------------------------------------------- */

// websocketURL derives the feed endpoint from the configured base URL.
func (c Client) websocketURL() (*url.URL, error) {
	u, err := url.Parse(c.wsBaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid WSBaseURL: %w", err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return nil, fmt.Errorf("invalid WSBaseURL: unsupported scheme %q", u.Scheme)
	}
	return &url.URL{Scheme: u.Scheme, Host: u.Host, Path: Path}, nil
}
