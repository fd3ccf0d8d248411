package views

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"curio/cmd/internal/api"
	"curio/cmd/internal/realtime"
	v1 "curio/shared/contracts/marketwire/v1"
)

// ErrChatOffline is returned by Send when no live connection exists.
// Chat has no HTTP send fallback; history remains readable.
var ErrChatOffline = errors.New("chat unavailable: realtime channel is down")

// ChatSession is the live view of one group's chat.
type ChatSession struct {
	log     *slog.Logger
	client  *api.Client
	groupID string

	mu   sync.Mutex
	conn *realtime.Conn
	offs []func()

	msgs chan v1.MessageNewPayload
}

// NewChatSession constructs a session for the given group.
func NewChatSession(client *api.Client, groupID string, log *slog.Logger) *ChatSession {
	return &ChatSession{
		log:     log,
		client:  client,
		groupID: groupID,
		msgs:    make(chan v1.MessageNewPayload, 64),
	}
}

// History loads the group's message backlog, oldest first.
func (s *ChatSession) History(ctx context.Context) ([]api.Message, error) {
	return s.client.Groups.Messages(ctx, s.groupID)
}

// Start joins the group room and attaches the message listener.
// A nil connection is tolerated; the session stays read-only.
func (s *ChatSession) Start(ctx context.Context, conn *realtime.Conn) error {
	if conn == nil {
		s.log.Info("chat.offline", "group", s.groupID)
		return nil
	}

	if err := conn.JoinGroup(ctx, s.groupID); err != nil {
		return err
	}

	off := conn.On(v1.TypeMessageNew, s.handleMessage)

	s.mu.Lock()
	s.conn = conn
	s.offs = append(s.offs, off)
	s.mu.Unlock()
	return nil
}

// Stop detaches the session's listeners (idempotent).
func (s *ChatSession) Stop() {
	s.mu.Lock()
	offs := s.offs
	s.offs = nil
	s.conn = nil
	s.mu.Unlock()

	for _, off := range offs {
		off()
	}
}

// Messages streams new chat messages for this group.
func (s *ChatSession) Messages() <-chan v1.MessageNewPayload { return s.msgs }

// Send emits a chat message and returns the client-generated message id.
func (s *ChatSession) Send(ctx context.Context, content, replyToID string) (string, error) {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()

	if !conn.Connected() {
		return "", ErrChatOffline
	}
	return conn.SendMessage(ctx, s.groupID, content, replyToID)
}

func (s *ChatSession) handleMessage(env v1.Envelope) {
	var p v1.MessageNewPayload
	if err := json.Unmarshal(env.Payload, &p); err != nil {
		s.log.Warn("chat.bad_payload", "err", err)
		return
	}
	if p.GroupID != s.groupID {
		return
	}

	select {
	case s.msgs <- p:
	default:
		s.log.Warn("chat.messages_dropped", "group", s.groupID)
	}
}
