package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"curio/cmd/internal/secrets"
	v1 "curio/shared/contracts/marketwire/v1"

	"github.com/coder/websocket"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// wsServer is a scripted realtime backend for channel tests. It records
// the Authorization header of each upgrade and echoes every inbound
// envelope back to the sender.
type wsServer struct {
	*httptest.Server
	dials      atomic.Int64
	lastBearer atomic.Value // string
}

func newWSServer(t *testing.T) *wsServer {
	t.Helper()

	s := &wsServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.dials.Add(1)
		s.lastBearer.Store(r.Header.Get("Authorization"))

		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols: []string{v1.Subprotocol},
		})
		if err != nil {
			return
		}
		defer c.CloseNow()

		ctx := r.Context()
		for {
			mt, data, err := c.Read(ctx)
			if err != nil {
				return
			}
			if err := c.Write(ctx, mt, data); err != nil {
				return
			}
		}
	}))
	t.Cleanup(s.Server.Close)
	return s
}

func newTestChannel(t *testing.T, srv *wsServer, token string) *Channel {
	t.Helper()

	store := secrets.NewMemStore()
	if token != "" {
		if err := store.Save(token); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}
	return NewChannel(srv.URL, store, testLogger())
}

func TestOpenWithoutTokenReturnsNil(t *testing.T) {
	t.Parallel()

	srv := newWSServer(t)
	ch := newTestChannel(t, srv, "")

	conn, err := ch.Open(context.Background())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if conn != nil {
		t.Fatalf("expected nil conn without a token")
	}
	if got := srv.dials.Load(); got != 0 {
		t.Fatalf("expected no dial, got %d", got)
	}
}

func TestOpenIsIdempotentWhileConnected(t *testing.T) {
	t.Parallel()

	srv := newWSServer(t)
	ch := newTestChannel(t, srv, "abc123")
	defer ch.Close()

	first, err := ch.Open(context.Background())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if first == nil {
		t.Fatalf("expected a connection")
	}

	second, err := ch.Open(context.Background())
	if err != nil {
		t.Fatalf("second Open: %v", err)
	}
	if second != first {
		t.Fatalf("second Open returned a different connection")
	}
	if got := srv.dials.Load(); got != 1 {
		t.Fatalf("expected 1 dial, got %d", got)
	}
	if bearer, _ := srv.lastBearer.Load().(string); bearer != "Bearer abc123" {
		t.Fatalf("upgrade Authorization: got %q", bearer)
	}
}

func TestCloseThenGetReturnsNil(t *testing.T) {
	t.Parallel()

	srv := newWSServer(t)
	ch := newTestChannel(t, srv, "abc123")

	first, err := ch.Open(context.Background())
	if err != nil || first == nil {
		t.Fatalf("Open: conn=%v err=%v", first, err)
	}

	ch.Close()
	if ch.Get() != nil {
		t.Fatalf("Get after Close: expected nil")
	}

	// Close with no live connection is a no-op.
	ch.Close()

	// Reopening constructs a fresh connection, not the stale reference.
	second, err := ch.Open(context.Background())
	if err != nil || second == nil {
		t.Fatalf("reopen: conn=%v err=%v", second, err)
	}
	defer ch.Close()
	if second == first {
		t.Fatalf("reopen returned the stale connection")
	}
	if got := srv.dials.Load(); got != 2 {
		t.Fatalf("expected 2 dials, got %d", got)
	}
}

func TestOpenDialFailureLeavesHandleNil(t *testing.T) {
	t.Parallel()

	srv := newWSServer(t)
	srv.Close() // force dial failure

	store := secrets.NewMemStore()
	if err := store.Save("abc123"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	ch := NewChannel(srv.URL, store, testLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if _, err := ch.Open(ctx); err == nil {
		t.Fatalf("expected dial error")
	}
	if ch.Get() != nil {
		t.Fatalf("failed open must not leave a half-open handle")
	}
}

func TestEmitAfterCloseErrorsWithoutPanic(t *testing.T) {
	t.Parallel()

	srv := newWSServer(t)
	ch := newTestChannel(t, srv, "abc123")

	conn, err := ch.Open(context.Background())
	if err != nil || conn == nil {
		t.Fatalf("Open: conn=%v err=%v", conn, err)
	}

	ch.Close()

	if err := conn.JoinAuction(context.Background(), "A1"); err != ErrConnClosed {
		t.Fatalf("JoinAuction after close: got %v, want ErrConnClosed", err)
	}
}

func TestListenerDispatchAndDispose(t *testing.T) {
	t.Parallel()

	srv := newWSServer(t)
	ch := newTestChannel(t, srv, "abc123")
	defer ch.Close()

	conn, err := ch.Open(context.Background())
	if err != nil || conn == nil {
		t.Fatalf("Open: conn=%v err=%v", conn, err)
	}

	got := make(chan v1.Envelope, 8)
	off := conn.On(v1.TypeBidPlace, func(env v1.Envelope) {
		select {
		case got <- env:
		default:
		}
	})

	// The scripted server echoes outbound envelopes, so emitting a
	// bid_place produces an inbound bid_place for the listener.
	if err := conn.PlaceBid(context.Background(), "A1", 50); err != nil {
		t.Fatalf("PlaceBid: %v", err)
	}

	select {
	case env := <-got:
		if env.EntityID != "A1" {
			t.Fatalf("entity id: got %q", env.EntityID)
		}
		var p v1.BidPlacePayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			t.Fatalf("payload: %v", err)
		}
		if p.AuctionID != "A1" || p.Amount != 50 {
			t.Fatalf("payload mismatch: %+v", p)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("timeout waiting for dispatched event")
	}

	// After disposal, further events must not reach the listener.
	off()
	off() // disposers are idempotent

	if err := conn.PlaceBid(context.Background(), "A1", 60); err != nil {
		t.Fatalf("PlaceBid after dispose: %v", err)
	}

	select {
	case env := <-got:
		t.Fatalf("listener fired after dispose: %+v", env)
	case <-time.After(500 * time.Millisecond):
	}
}

func TestNormalizeWSURL(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{in: "http://127.0.0.1:4001", want: "ws://127.0.0.1:4001"},
		{in: "https://live.curio.example", want: "wss://live.curio.example"},
		{in: "ws://127.0.0.1:4001/ws", want: "ws://127.0.0.1:4001/ws"},
		{in: "wss://live.curio.example/", want: "wss://live.curio.example"},
		{in: "127.0.0.1:4001", want: "ws://127.0.0.1:4001"},
	}

	for _, tc := range cases {
		if got := normalizeWSURL(tc.in); got != tc.want {
			t.Fatalf("normalizeWSURL(%q)=%q want=%q", tc.in, got, tc.want)
		}
	}
}
