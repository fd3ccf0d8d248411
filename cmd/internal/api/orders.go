package api

import "context"

// OrdersService covers order listing and fulfillment transitions.
// The server owns the order state machine; these calls only request
// transitions.
type OrdersService struct {
	c *Client
}

// List returns the user's orders.
func (s *OrdersService) List(ctx context.Context) ([]Order, error) {
	raw, err := s.c.do(ctx, "GET", "/orders", nil)
	if err != nil {
		return nil, err
	}
	return decodeList[Order](raw, "orders")
}

// Pay requests the paid transition.
func (s *OrdersService) Pay(ctx context.Context, id string) error {
	_, err := s.c.do(ctx, "POST", "/orders/"+id+"/pay", nil)
	return err
}

// Ship requests the shipped transition.
func (s *OrdersService) Ship(ctx context.Context, id string) error {
	_, err := s.c.do(ctx, "POST", "/orders/"+id+"/ship", nil)
	return err
}

// Deliver requests the delivered transition.
func (s *OrdersService) Deliver(ctx context.Context, id string) error {
	_, err := s.c.do(ctx, "POST", "/orders/"+id+"/deliver", nil)
	return err
}
