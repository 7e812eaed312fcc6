package feed

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bcdxn/carrera/internal/race"
)

func TestFeed(t *testing.T) {
	t.Run("LatestSnapshotOnConnect", func(t *testing.T) {
		t.Parallel()
		hub, baseURL := newTestFeed(t)
		r := race.New(race.WithSeed(1), race.WithLogger(testLogger(t)))
		r.Create()
		hub.Publish(r.Snapshot())

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		c := New(WithWSBaseURL(baseURL), WithLogger(testLogger(t)))
		go c.Listen(ctx)

		s := receive(t, c)
		if s.RaceID != r.ID() {
			t.Errorf("expected race id '%s' but found '%s'", r.ID(), s.RaceID)
		}
		if len(s.Vehicles) != race.GridSize {
			t.Errorf("expected %d vehicles but found %d", race.GridSize, len(s.Vehicles))
		}

		r.Start()
		r.Tick()
		hub.Publish(r.Snapshot())
		s = receive(t, c)
		if s.Tick != 1 || !s.Running {
			t.Errorf("expected a running race at tick %d but found tick %d running=%t", 1, s.Tick, s.Running)
		}
		for i, v := range s.Vehicles {
			if v != r.Vehicles()[i] {
				t.Errorf("expected %+v but found %+v", r.Vehicles()[i], v)
			}
		}

		cancel()
		select {
		case err := <-c.Done():
			if err != nil {
				t.Errorf("expected a clean exit but found %v", err)
			}
		case <-time.After(5 * time.Second):
			t.Fatal("expected the client to exit")
		}
	})
	t.Run("Unreachable", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.NotFoundHandler())
		baseURL := "ws" + strings.TrimPrefix(srv.URL, "http")
		srv.Close()

		c := New(WithWSBaseURL(baseURL), WithLogger(testLogger(t)))
		go c.Listen(context.Background())
		select {
		case err := <-c.Done():
			if err == nil {
				t.Error("expected a dial error")
			}
		case <-time.After(5 * time.Second):
			t.Fatal("expected the client to exit")
		}
	})
	t.Run("InvalidScheme", func(t *testing.T) {
		t.Parallel()
		c := New(WithWSBaseURL("ftp://localhost"), WithLogger(testLogger(t)))
		go c.Listen(context.Background())
		if err := <-c.Done(); err == nil {
			t.Error("expected an error for a non websocket URL")
		}
	})
}

func TestHubPublishNeverBlocks(t *testing.T) {
	hub := NewHub(WithHubLogger(testLogger(t)))
	sub := hub.subscribe()
	for i := range 10 {
		hub.Publish(race.Snapshot{Tick: i})
	}
	s := <-sub.pending
	if s.Tick != 9 {
		t.Errorf("expected the latest tick %d but found %d", 9, s.Tick)
	}
	if hub.Subscribers() != 1 {
		t.Errorf("expected %d subscriber but found %d", 1, hub.Subscribers())
	}
	hub.unsubscribe(sub)
	if hub.Subscribers() != 0 {
		t.Errorf("expected %d subscribers but found %d", 0, hub.Subscribers())
	}
}

/* Test Helpers
------------------------------------------------------------------------------------------------- */

// testLogger creates a new logger to be used in tests that writes all logs to /dev/null so they
// don't uglify the test output.
func testLogger(t *testing.T) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestFeed(t *testing.T) (*Hub, string) {
	t.Helper()
	hub := NewHub(WithHubLogger(testLogger(t)))
	mux := http.NewServeMux()
	mux.Handle(Path, hub)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return hub, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func receive(t *testing.T, c Client) race.Snapshot {
	t.Helper()
	select {
	case s := <-c.Snapshots():
		return s
	case err := <-c.Done():
		t.Fatalf("expected a snapshot but client exited with %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("expected a snapshot")
	}
	return race.Snapshot{}
}
