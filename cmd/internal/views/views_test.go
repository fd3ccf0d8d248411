package views

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"curio/cmd/internal/api"
	"curio/cmd/internal/realtime"
	"curio/cmd/internal/secrets"
	v1 "curio/shared/contracts/marketwire/v1"

	"github.com/coder/websocket"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// scriptedBackend accepts realtime connections and reacts to join
// commands: an auction_join triggers a bid_update for an unrelated
// auction followed by one for the joined auction; a group_join does the
// same with message_new events. This exercises the identifier filter in
// every consumer.
type scriptedBackend struct {
	*httptest.Server
	bids atomic.Int64 // bid_place envelopes seen
}

func newScriptedBackend(t *testing.T) *scriptedBackend {
	t.Helper()

	b := &scriptedBackend{}
	b.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols: []string{v1.Subprotocol},
		})
		if err != nil {
			return
		}
		defer c.CloseNow()

		ctx := r.Context()
		for {
			_, data, err := c.Read(ctx)
			if err != nil {
				return
			}

			var env v1.Envelope
			if err := json.Unmarshal(data, &env); err != nil {
				continue
			}

			switch env.Type {
			case v1.TypeAuctionJoin:
				var p v1.AuctionJoinPayload
				_ = json.Unmarshal(env.Payload, &p)
				send(ctx, c, v1.TypeBidUpdate, "OTHER", v1.BidUpdatePayload{
					AuctionID: "OTHER", CurrentBid: 999, HighestBidderID: "UX",
				})
				send(ctx, c, v1.TypeBidUpdate, p.AuctionID, v1.BidUpdatePayload{
					AuctionID: p.AuctionID, CurrentBid: 110, HighestBidderID: "U2",
				})
			case v1.TypeGroupJoin:
				var p v1.GroupJoinPayload
				_ = json.Unmarshal(env.Payload, &p)
				send(ctx, c, v1.TypeMessageNew, "OTHER", v1.MessageNewPayload{
					GroupID: "OTHER", MessageID: "MX", SenderID: "UX", Content: "wrong room",
				})
				send(ctx, c, v1.TypeMessageNew, p.GroupID, v1.MessageNewPayload{
					GroupID: p.GroupID, MessageID: "M1", SenderID: "U2", Content: "hello",
				})
			case v1.TypeBidPlace:
				b.bids.Add(1)
			}
		}
	}))
	t.Cleanup(b.Server.Close)
	return b
}

func send(ctx context.Context, c *websocket.Conn, eventType, entityID string, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return
	}
	env := v1.Envelope{
		V:        v1.Version,
		Type:     eventType,
		ID:       "srv-" + eventType,
		EntityID: entityID,
		TS:       time.Now().UTC(),
		Payload:  raw,
	}
	b, err := json.Marshal(env)
	if err != nil {
		return
	}
	_ = c.Write(ctx, websocket.MessageText, b)
}

func openConn(t *testing.T, backend *scriptedBackend) (*realtime.Channel, *realtime.Conn) {
	t.Helper()

	store := secrets.NewMemStore()
	if err := store.Save("abc123"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	ch := realtime.NewChannel(backend.URL, store, testLogger())
	t.Cleanup(ch.Close)

	conn, err := ch.Open(context.Background())
	if err != nil || conn == nil {
		t.Fatalf("Open: conn=%v err=%v", conn, err)
	}
	return ch, conn
}

func TestAuctionWatcherFiltersByIdentifier(t *testing.T) {
	t.Parallel()

	backend := newScriptedBackend(t)
	_, conn := openConn(t, backend)

	w := NewAuctionWatcher(nil, "A1", testLogger())
	if err := w.Start(context.Background(), conn); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	// The backend sends an update for auction "OTHER" first; only the
	// "A1" update may reach the watcher.
	select {
	case u := <-w.Updates():
		if u.AuctionID != "A1" || u.CurrentBid != 110 {
			t.Fatalf("update: %+v", u)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("timeout waiting for bid update")
	}

	select {
	case u := <-w.Updates():
		t.Fatalf("unexpected extra update: %+v", u)
	case <-time.After(300 * time.Millisecond):
	}

	if latest, ok := w.Latest(); !ok || latest.CurrentBid != 110 {
		t.Fatalf("latest: %+v ok=%v", latest, ok)
	}
}

func TestAuctionWatcherStopDetachesBeforeRestart(t *testing.T) {
	t.Parallel()

	backend := newScriptedBackend(t)
	_, conn := openConn(t, backend)

	w := NewAuctionWatcher(nil, "A1", testLogger())
	if err := w.Start(context.Background(), conn); err != nil {
		t.Fatalf("Start: %v", err)
	}

	select {
	case <-w.Updates():
	case <-time.After(3 * time.Second):
		t.Fatalf("timeout on first update")
	}

	// Cleanup must run before re-subscription; a leaked listener would
	// double-deliver after the second join.
	w.Stop()
	w.Stop() // idempotent

	if err := w.Start(context.Background(), conn); err != nil {
		t.Fatalf("restart: %v", err)
	}
	defer w.Stop()

	got := 0
	deadline := time.After(2 * time.Second)
loop:
	for {
		select {
		case <-w.Updates():
			got++
		case <-deadline:
			break loop
		}
	}
	if got != 1 {
		t.Fatalf("deliveries after restart: got %d, want 1", got)
	}
}

func TestAuctionWatcherBidPrefersChannel(t *testing.T) {
	t.Parallel()

	backend := newScriptedBackend(t)
	_, conn := openConn(t, backend)

	w := NewAuctionWatcher(nil, "A1", testLogger())
	if err := w.Start(context.Background(), conn); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	if err := w.Bid(context.Background(), 120); err != nil {
		t.Fatalf("Bid: %v", err)
	}

	waitFor(t, 3*time.Second, func() bool { return backend.bids.Load() == 1 })
}

func TestAuctionWatcherBidFallsBackToHTTP(t *testing.T) {
	t.Parallel()

	var bidPath atomic.Value // string
	apiSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		bidPath.Store(r.Method + " " + r.URL.Path)
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(apiSrv.Close)

	client := api.NewClient(apiSrv.URL, 5*time.Second, secrets.NewMemStore(), testLogger())

	// Never started: no connection, so the HTTP fallback must be used.
	w := NewAuctionWatcher(client, "A1", testLogger())
	if err := w.Bid(context.Background(), 120); err != nil {
		t.Fatalf("Bid: %v", err)
	}

	if got, _ := bidPath.Load().(string); got != "POST /auctions/A1/bid" {
		t.Fatalf("fallback path: got %q", got)
	}
}

func TestChatSessionFiltersAndSends(t *testing.T) {
	t.Parallel()

	backend := newScriptedBackend(t)
	_, conn := openConn(t, backend)

	s := NewChatSession(nil, "G1", testLogger())
	if err := s.Start(context.Background(), conn); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer s.Stop()

	select {
	case m := <-s.Messages():
		if m.GroupID != "G1" || m.Content != "hello" {
			t.Fatalf("message: %+v", m)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("timeout waiting for message")
	}

	clientMsgID, err := s.Send(context.Background(), "hi there", "")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if clientMsgID == "" {
		t.Fatalf("expected a client message id")
	}
}

func TestChatSessionSendOfflineErrors(t *testing.T) {
	t.Parallel()

	s := NewChatSession(nil, "G1", testLogger())
	if err := s.Start(context.Background(), nil); err != nil {
		t.Fatalf("Start with nil conn: %v", err)
	}

	if _, err := s.Send(context.Background(), "hi", ""); !errors.Is(err, ErrChatOffline) {
		t.Fatalf("expected ErrChatOffline, got %v", err)
	}
}

func TestChatSessionHistory(t *testing.T) {
	t.Parallel()

	apiSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/groups/G1/messages" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"messages":[{"_id":"M1","groupId":"G1","senderId":"U2","content":"first"},{"_id":"M2","groupId":"G1","senderId":"U1","content":"second"}]}`))
	}))
	t.Cleanup(apiSrv.Close)

	client := api.NewClient(apiSrv.URL, 5*time.Second, secrets.NewMemStore(), testLogger())
	s := NewChatSession(client, "G1", testLogger())

	msgs, err := s.History(context.Background())
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(msgs) != 2 || msgs[0].Content != "first" || msgs[1].Key() != "M2" {
		t.Fatalf("history: %+v", msgs)
	}
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("condition not met within %s", timeout)
}
