package api

import "context"

// AuctionsService covers /auctions, including the HTTP bid fallback used
// when the realtime channel is down.
type AuctionsService struct {
	c *Client
}

// CreateAuctionInput is the body for starting an auction.
type CreateAuctionInput struct {
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Image       string  `json:"image,omitempty"`
	CardID      string  `json:"cardId,omitempty"`
	StartingBid float64 `json:"startingBid"`
	DurationMin int     `json:"durationMinutes,omitempty"`
}

type bidRequest struct {
	Amount float64 `json:"amount"`
}

// List returns open auctions.
func (s *AuctionsService) List(ctx context.Context) ([]Auction, error) {
	raw, err := s.c.do(ctx, "GET", "/auctions", nil)
	if err != nil {
		return nil, err
	}
	return decodeList[Auction](raw, "auctions")
}

// Create starts a new auction.
func (s *AuctionsService) Create(ctx context.Context, in CreateAuctionInput) (Auction, error) {
	raw, err := s.c.do(ctx, "POST", "/auctions", in)
	if err != nil {
		return Auction{}, err
	}
	return decodeWrapped[Auction](raw, "auction")
}

// Get fetches a single auction. The backend returns either
// {"auction": {...}} or the bare auction object.
func (s *AuctionsService) Get(ctx context.Context, id string) (Auction, error) {
	raw, err := s.c.do(ctx, "GET", "/auctions/"+id, nil)
	if err != nil {
		return Auction{}, err
	}
	return decodeWrapped[Auction](raw, "auction")
}

// Bid places a bid over HTTP. The realtime path is preferred; this exists
// as the fallback and for tooling.
func (s *AuctionsService) Bid(ctx context.Context, id string, amount float64) error {
	_, err := s.c.do(ctx, "POST", "/auctions/"+id+"/bid", bidRequest{Amount: amount})
	return err
}
