// Package realtime manages the single shared connection to the
// marketplace's realtime backend.
//
// The Channel owns at most one live Conn at a time. Only the session
// manager opens or closes it; any number of concurrently running
// consumers read the handle via Get and attach scoped listeners.
package realtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"curio/cmd/internal/secrets"
	v1 "curio/shared/contracts/marketwire/v1"

	"github.com/coder/websocket"
)

// Channel is the process-wide handle to the realtime connection.
// All mutation funnels through Open and Close; Get only reads.
type Channel struct {
	url   string
	store secrets.Store
	log   *slog.Logger

	mu   sync.Mutex
	conn *Conn
}

// NewChannel constructs a Channel dialing the given websocket base URL,
// authenticating with the token held by store.
func NewChannel(wsURL string, store secrets.Store, log *slog.Logger) *Channel {
	return &Channel{
		url:   normalizeWSURL(wsURL),
		store: store,
		log:   log,
	}
}

// Open establishes the connection if needed and returns it.
//
// Without a stored token it returns (nil, nil): an unauthenticated process
// has no business on the realtime channel, and callers already guard
// against a nil connection. An existing connected handle is returned
// unchanged; a stale handle is closed before a new dial. The returned
// connection may still be settling server-side; callers must not assume
// immediate readiness. On any dial failure the handle stays nil; there is
// no half-open state.
func (ch *Channel) Open(ctx context.Context) (*Conn, error) {
	ch.mu.Lock()
	defer ch.mu.Unlock()

	if ch.conn != nil && ch.conn.Connected() {
		return ch.conn, nil
	}
	if ch.conn != nil {
		ch.conn.Close()
		ch.conn = nil
	}

	tok, err := ch.store.Load()
	if errors.Is(err, secrets.ErrNotFound) {
		ch.log.Debug("channel.open.skipped", "reason", "no token")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load token: %w", err)
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, dialTimeout)
		defer cancel()
	}

	h := http.Header{}
	h.Set("Authorization", "Bearer "+tok)

	ws, resp, err := websocket.Dial(ctx, ch.url, &websocket.DialOptions{
		Subprotocols: []string{v1.Subprotocol},
		HTTPHeader:   h,
	})
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		ch.log.Warn("channel.open.failed", "err", err)
		return nil, fmt.Errorf("dial realtime: %w", err)
	}

	ch.conn = newConn(ch.log, ws)
	channelOpens.Inc()
	ch.log.Info("channel.open", "url", ch.url)
	return ch.conn, nil
}

// Get returns the current connection or nil. It never blocks and never
// creates a connection.
func (ch *Channel) Get() *Conn {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	return ch.conn
}

// Close disconnects and releases the handle. Closing with no live
// connection is a no-op. After Close, Get returns nil and listeners on the
// old connection stop firing.
func (ch *Channel) Close() {
	ch.mu.Lock()
	defer ch.mu.Unlock()

	if ch.conn == nil {
		return
	}
	ch.conn.Close()
	ch.conn = nil
	ch.log.Info("channel.close")
}

// Await blocks until the connection shuts down or the context expires.
// Used by long-running consumers that want to notice a logout.
func (ch *Channel) Await(ctx context.Context) error {
	conn := ch.Get()
	if conn == nil {
		return nil
	}
	select {
	case <-conn.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// normalizeWSURL maps an http(s) base to its ws(s) counterpart and leaves
// ws(s) URLs untouched. A bare host:port gets the ws scheme.
func normalizeWSURL(raw string) string {
	raw = strings.TrimSpace(strings.TrimRight(raw, "/"))
	switch {
	case strings.HasPrefix(raw, "ws://"), strings.HasPrefix(raw, "wss://"):
		return raw
	case strings.HasPrefix(raw, "https://"):
		return "wss://" + strings.TrimPrefix(raw, "https://")
	case strings.HasPrefix(raw, "http://"):
		return "ws://" + strings.TrimPrefix(raw, "http://")
	default:
		return "ws://" + raw
	}
}
