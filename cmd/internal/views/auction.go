package views

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"curio/cmd/internal/api"
	"curio/cmd/internal/realtime"
	v1 "curio/shared/contracts/marketwire/v1"
)

// AuctionWatcher tracks one auction's live bid state.
//
// With a live connection it joins the auction room and reconciles
// bid_update events against the auction it displays; without one it
// degrades to HTTP-only (bids still work through the REST fallback).
type AuctionWatcher struct {
	log       *slog.Logger
	client    *api.Client
	auctionID string

	mu     sync.Mutex
	conn   *realtime.Conn
	offs   []func()
	latest *v1.BidUpdatePayload

	updates chan v1.BidUpdatePayload
	errs    chan v1.ErrorPayload
}

// NewAuctionWatcher constructs a watcher for the given auction.
func NewAuctionWatcher(client *api.Client, auctionID string, log *slog.Logger) *AuctionWatcher {
	return &AuctionWatcher{
		log:       log,
		client:    client,
		auctionID: auctionID,
		updates:   make(chan v1.BidUpdatePayload, 16),
		errs:      make(chan v1.ErrorPayload, 4),
	}
}

// Start joins the auction room and attaches the watcher's listeners.
// A nil connection is tolerated: the watcher logs it and runs HTTP-only.
func (w *AuctionWatcher) Start(ctx context.Context, conn *realtime.Conn) error {
	if conn == nil {
		w.log.Info("auction.watch.offline", "auction", w.auctionID)
		return nil
	}

	if err := conn.JoinAuction(ctx, w.auctionID); err != nil {
		return err
	}

	offBid := conn.On(v1.TypeBidUpdate, w.handleBidUpdate)
	offErr := conn.On(v1.TypeError, w.handleError)

	w.mu.Lock()
	w.conn = conn
	w.offs = append(w.offs, offBid, offErr)
	w.mu.Unlock()
	return nil
}

// Stop detaches exactly the listeners Start attached. It runs on every
// exit path and is idempotent.
func (w *AuctionWatcher) Stop() {
	w.mu.Lock()
	offs := w.offs
	w.offs = nil
	w.conn = nil
	w.mu.Unlock()

	for _, off := range offs {
		off()
	}
}

// Updates streams bid updates for this auction.
func (w *AuctionWatcher) Updates() <-chan v1.BidUpdatePayload { return w.updates }

// Errors streams server-side auction errors.
func (w *AuctionWatcher) Errors() <-chan v1.ErrorPayload { return w.errs }

// Latest returns the most recent bid state seen, if any.
func (w *AuctionWatcher) Latest() (v1.BidUpdatePayload, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.latest == nil {
		return v1.BidUpdatePayload{}, false
	}
	return *w.latest, true
}

// Bid places a bid, preferring the realtime channel and falling back to
// the HTTP endpoint when the connection is down. On the realtime path the
// confirmation arrives as a bid_update broadcast, not a return value.
func (w *AuctionWatcher) Bid(ctx context.Context, amount float64) error {
	w.mu.Lock()
	conn := w.conn
	w.mu.Unlock()

	if conn.Connected() {
		w.log.Debug("auction.bid.channel", "auction", w.auctionID, "amount", amount)
		return conn.PlaceBid(ctx, w.auctionID, amount)
	}

	w.log.Debug("auction.bid.http_fallback", "auction", w.auctionID, "amount", amount)
	return w.client.Auctions.Bid(ctx, w.auctionID, amount)
}

func (w *AuctionWatcher) handleBidUpdate(env v1.Envelope) {
	var p v1.BidUpdatePayload
	if err := json.Unmarshal(env.Payload, &p); err != nil {
		w.log.Warn("auction.watch.bad_payload", "err", err)
		return
	}

	// Identifier mismatch: the event belongs to another auction.
	if p.AuctionID != w.auctionID {
		return
	}

	w.mu.Lock()
	w.latest = &p
	w.mu.Unlock()

	select {
	case w.updates <- p:
	default:
		w.log.Warn("auction.watch.updates_dropped", "auction", w.auctionID)
	}
}

func (w *AuctionWatcher) handleError(env v1.Envelope) {
	if env.EntityID != "" && env.EntityID != w.auctionID {
		return
	}

	var p v1.ErrorPayload
	if err := json.Unmarshal(env.Payload, &p); err != nil {
		return
	}
	select {
	case w.errs <- p:
	default:
	}
}
