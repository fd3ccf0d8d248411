// Package v1 defines the Curio market wire protocol v1 contract.
//
// This package is intentionally stable and dependency-light.
// It is shared between the client and any tooling that speaks the realtime
// protocol, to keep the wire format authoritative in one place.
package v1

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Version is the protocol version identifier embedded into every envelope.
const Version = "v1"

// Subprotocol is the websocket subprotocol negotiated at dial time.
const Subprotocol = "curio.marketwire.v1"

// Type constants (wire-stable).
const (
	// TypeAuctionJoin subscribes the connection to an auction room (client -> server).
	TypeAuctionJoin = "auction_join"
	// TypeGroupJoin subscribes the connection to a group room (client -> server).
	TypeGroupJoin = "group_join"

	// TypeBidPlace requests placing a bid on an auction (client -> server).
	TypeBidPlace = "bid_place"
	// TypeBidUpdate broadcasts the new high bid for an auction (server -> room members).
	TypeBidUpdate = "bid_update"

	// TypeMessageSend requests sending a chat message into a group (client -> server).
	TypeMessageSend = "message_send"
	// TypeMessageNew broadcasts a newly accepted chat message (server -> room members).
	TypeMessageNew = "message_new"

	// TypeError is a generic error envelope (server -> client).
	TypeError = "error"
)

// Envelope is the canonical wire wrapper.
//
// EntityID carries the auction or group identifier the event belongs to.
// Consumers correlate inbound events against the entity they are currently
// displaying by comparing this identifier (or the one embedded in the
// payload) with their own.
type Envelope struct {
	V        string          `json:"v"`
	Type     string          `json:"type"`
	ID       string          `json:"id,omitempty"`
	EntityID string          `json:"entity_id,omitempty"`
	TS       time.Time       `json:"ts,omitempty"`
	Payload  json.RawMessage `json:"payload,omitempty"`
}

// Validate performs strict structural validation for an Envelope.
func (e Envelope) Validate() error {
	if strings.TrimSpace(e.V) == "" {
		return errors.New("missing field: v")
	}
	if e.V != Version {
		return fmt.Errorf("unsupported protocol version: %q", e.V)
	}
	if strings.TrimSpace(e.Type) == "" {
		return errors.New("missing field: type")
	}

	switch e.Type {
	case TypeAuctionJoin,
		TypeGroupJoin,
		TypeBidPlace,
		TypeBidUpdate,
		TypeMessageSend,
		TypeMessageNew,
		TypeError:
		return nil
	default:
		return fmt.Errorf("unknown type: %q", e.Type)
	}
}

// ---- Payloads ----

// AuctionJoinPayload subscribes to live updates for one auction.
type AuctionJoinPayload struct {
	AuctionID string `json:"auction_id"`
}

// GroupJoinPayload subscribes to live chat for one group.
type GroupJoinPayload struct {
	GroupID string `json:"group_id"`
}

// BidPlacePayload requests a bid on an auction. Amount is in whole
// currency units; the server is authoritative on acceptance.
type BidPlacePayload struct {
	AuctionID string  `json:"auction_id"`
	Amount    float64 `json:"amount"`
}

// BidUpdatePayload is broadcast when an auction's high bid changes.
type BidUpdatePayload struct {
	AuctionID       string  `json:"auction_id"`
	CurrentBid      float64 `json:"current_bid"`
	HighestBidderID string  `json:"highest_bidder_id"`
}

// MessageSendPayload requests sending a chat message into a group.
// ReplyToID is optional and references a prior message in the same group.
type MessageSendPayload struct {
	GroupID     string `json:"group_id"`
	ClientMsgID string `json:"client_msg_id"`
	Content     string `json:"content"`
	ReplyToID   string `json:"reply_to_id,omitempty"`
}

// MessageNewPayload is broadcast when a new chat message is accepted.
type MessageNewPayload struct {
	GroupID     string    `json:"group_id"`
	MessageID   string    `json:"message_id"`
	ClientMsgID string    `json:"client_msg_id,omitempty"`
	SenderID    string    `json:"sender_id"`
	SenderName  string    `json:"sender_name,omitempty"`
	Content     string    `json:"content"`
	ReplyToID   string    `json:"reply_to_id,omitempty"`
	SentAt      time.Time `json:"sent_at"`
}

// ErrorPayload is a generic error response payload.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
