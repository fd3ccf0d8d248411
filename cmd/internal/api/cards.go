package api

import "context"

// CardsService covers the /cards inventory endpoints.
type CardsService struct {
	c *Client
}

// AddCardInput is the body for adding a card to the inventory.
type AddCardInput struct {
	Name    string `json:"name"`
	SetName string `json:"setName,omitempty"`
	Grade   string `json:"grade,omitempty"`
	Image   string `json:"image,omitempty"`
}

// List returns the user's cards.
func (s *CardsService) List(ctx context.Context) ([]Card, error) {
	raw, err := s.c.do(ctx, "GET", "/cards", nil)
	if err != nil {
		return nil, err
	}
	return decodeList[Card](raw, "cards")
}

// Add puts a new card into the inventory.
func (s *CardsService) Add(ctx context.Context, in AddCardInput) (Card, error) {
	raw, err := s.c.do(ctx, "POST", "/cards", in)
	if err != nil {
		return Card{}, err
	}
	return decodeWrapped[Card](raw, "card")
}
