package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	v1 "curio/shared/contracts/marketwire/v1"

	"github.com/coder/websocket"
)

var (
	// ErrConnClosed is returned by Emit after the connection has shut down.
	ErrConnClosed = errors.New("connection closed")

	// ErrSendQueueFull is returned when the bounded outbound queue is full.
	ErrSendQueueFull = errors.New("send queue full")
)

// Handler receives one inbound envelope. Handlers run on the read loop
// goroutine and must not block; consumers hand the event off to their own
// channel or mutex-guarded state.
type Handler func(env v1.Envelope)

// Conn is one live connection to the realtime backend.
//
// Design notes:
//   - send is never closed; writers race broadcast-style emitters and a
//     close, so shutdown is signalled through done instead.
//   - Close is idempotent.
//   - listeners are keyed by event type and registration id so a disposer
//     removes exactly the registration it was returned for.
type Conn struct {
	log *slog.Logger
	ws  *websocket.Conn

	send      chan v1.Envelope
	done      chan struct{}
	closeOnce sync.Once
	connected atomic.Bool

	mu        sync.Mutex
	nextReg   int
	listeners map[string]map[int]Handler
}

func newConn(log *slog.Logger, ws *websocket.Conn) *Conn {
	c := &Conn{
		log:       log,
		ws:        ws,
		send:      make(chan v1.Envelope, sendQueueSize),
		done:      make(chan struct{}),
		listeners: make(map[string]map[int]Handler),
	}
	c.connected.Store(true)
	c.log.Debug("channel.connected")

	go c.readLoop()
	go c.writeLoop()
	return c
}

// Connected reports whether the connection is believed live.
func (c *Conn) Connected() bool {
	if c == nil {
		return false
	}
	return c.connected.Load()
}

// Done returns a channel closed when the connection shuts down.
func (c *Conn) Done() <-chan struct{} {
	if c == nil {
		ch := make(chan struct{})
		close(ch)
		return ch
	}
	return c.done
}

// Close shuts the connection down (idempotent). Listeners attached to a
// closed connection simply stop firing; disposers remain safe to call.
func (c *Conn) Close() {
	if c == nil {
		return
	}
	c.closeOnce.Do(func() {
		c.connected.Store(false)
		close(c.done)
		_ = c.ws.Close(websocket.StatusNormalClosure, "bye")
		c.log.Debug("channel.disconnected", "reason", "closed by client")
	})
}

// fail records a transport-level failure and shuts the connection down.
// This is diagnostic only: transport events never mutate session state.
func (c *Conn) fail(err error) {
	c.closeOnce.Do(func() {
		c.connected.Store(false)
		close(c.done)
		_ = c.ws.Close(websocket.StatusNormalClosure, "bye")
		c.log.Debug("channel.disconnected", "reason", err.Error())
	})
}

// On registers a named event listener and returns its disposer. The
// disposer removes exactly this registration, is idempotent, and is safe
// to call after Close.
func (c *Conn) On(eventType string, h Handler) (off func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextReg++
	id := c.nextReg

	m, ok := c.listeners[eventType]
	if !ok {
		m = make(map[int]Handler)
		c.listeners[eventType] = m
	}
	m[id] = h

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			if m, ok := c.listeners[eventType]; ok {
				delete(m, id)
				if len(m) == 0 {
					delete(c.listeners, eventType)
				}
			}
		})
	}
}

// Emit queues an envelope for sending. It never blocks: a closed
// connection or a full queue returns an error instead.
func (c *Conn) Emit(ctx context.Context, env v1.Envelope) error {
	if err := env.Validate(); err != nil {
		return err
	}
	select {
	case <-c.done:
		return ErrConnClosed
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	select {
	case c.send <- env:
		channelEmits.WithLabelValues(env.Type).Inc()
		return nil
	case <-c.done:
		return ErrConnClosed
	case <-ctx.Done():
		return ctx.Err()
	default:
		return ErrSendQueueFull
	}
}

func (c *Conn) readLoop() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		<-c.done
		cancel()
	}()

	c.ws.SetReadLimit(maxFrameBytes)

	for {
		mt, data, err := c.ws.Read(ctx)
		if err != nil {
			c.fail(err)
			return
		}
		if mt != websocket.MessageText && mt != websocket.MessageBinary {
			continue
		}

		var env v1.Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			c.log.Warn("channel.read.bad_json", "err", err)
			continue
		}
		if err := env.Validate(); err != nil {
			c.log.Warn("channel.read.bad_envelope", "err", err)
			continue
		}

		channelEvents.WithLabelValues(env.Type).Inc()
		c.dispatch(env)
	}
}

func (c *Conn) dispatch(env v1.Envelope) {
	c.mu.Lock()
	handlers := make([]Handler, 0, len(c.listeners[env.Type]))
	for _, h := range c.listeners[env.Type] {
		handlers = append(handlers, h)
	}
	c.mu.Unlock()

	for _, h := range handlers {
		h(env)
	}
}

func (c *Conn) writeLoop() {
	for {
		select {
		case <-c.done:
			return
		case env := <-c.send:
			b, err := json.Marshal(env)
			if err != nil {
				c.log.Warn("channel.write.encode_failed", "err", err)
				continue
			}

			ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
			err = c.ws.Write(ctx, websocket.MessageText, b)
			cancel()
			if err != nil {
				c.fail(err)
				return
			}
		}
	}
}

// ---- Outbound event helpers ----

// JoinAuction subscribes this connection to an auction room.
func (c *Conn) JoinAuction(ctx context.Context, auctionID string) error {
	return c.emitPayload(ctx, v1.TypeAuctionJoin, auctionID, v1.AuctionJoinPayload{AuctionID: auctionID})
}

// JoinGroup subscribes this connection to a group chat room.
func (c *Conn) JoinGroup(ctx context.Context, groupID string) error {
	return c.emitPayload(ctx, v1.TypeGroupJoin, groupID, v1.GroupJoinPayload{GroupID: groupID})
}

// PlaceBid sends a bid command for an auction.
func (c *Conn) PlaceBid(ctx context.Context, auctionID string, amount float64) error {
	return c.emitPayload(ctx, v1.TypeBidPlace, auctionID, v1.BidPlacePayload{
		AuctionID: auctionID,
		Amount:    amount,
	})
}

// SendMessage sends a chat message into a group and returns the
// client-generated message id used for deduplication.
func (c *Conn) SendMessage(ctx context.Context, groupID, content, replyToID string) (string, error) {
	clientMsgID, err := newEventID(time.Now().UTC())
	if err != nil {
		return "", err
	}
	err = c.emitPayload(ctx, v1.TypeMessageSend, groupID, v1.MessageSendPayload{
		GroupID:     groupID,
		ClientMsgID: clientMsgID,
		Content:     content,
		ReplyToID:   replyToID,
	})
	if err != nil {
		return "", err
	}
	return clientMsgID, nil
}

func (c *Conn) emitPayload(ctx context.Context, eventType, entityID string, payload any) error {
	now := time.Now().UTC()
	id, err := newEventID(now)
	if err != nil {
		return err
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return c.Emit(ctx, v1.Envelope{
		V:        v1.Version,
		Type:     eventType,
		ID:       id,
		EntityID: entityID,
		TS:       now,
		Payload:  b,
	})
}
