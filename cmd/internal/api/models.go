package api

import "time"

// Ref carries the server-assigned identifier for a record. Depending on the
// route the backend emits either "id" or "_id"; Key normalizes the two.
type Ref struct {
	ID  string `json:"id,omitempty"`
	OID string `json:"_id,omitempty"`
}

// Key returns the canonical identifier for the record.
func (r Ref) Key() string {
	if r.ID != "" {
		return r.ID
	}
	return r.OID
}

// User is the authenticated profile returned by /users/me.
type User struct {
	Ref
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName,omitempty"`
	Plan        string    `json:"plan,omitempty"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
}

// Group is a topic community with group chat.
type Group struct {
	Ref
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	MemberCount int      `json:"memberCount,omitempty"`
	Members     []string `json:"members,omitempty"`
}

// Message is one chat message within a group.
type Message struct {
	Ref
	GroupID    string    `json:"groupId"`
	SenderID   string    `json:"senderId"`
	SenderName string    `json:"senderName,omitempty"`
	Content    string    `json:"content"`
	ReplyToID  string    `json:"replyToId,omitempty"`
	CreatedAt  time.Time `json:"createdAt,omitempty"`
}

// Auction is a live listing. Bid state is server-authoritative; clients
// reconcile it with realtime bid_update events by identifier match.
type Auction struct {
	Ref
	Title           string    `json:"title"`
	Description     string    `json:"description,omitempty"`
	Image           string    `json:"image,omitempty"`
	SellerID        string    `json:"sellerId,omitempty"`
	StartingBid     float64   `json:"startingBid,omitempty"`
	CurrentBid      float64   `json:"currentBid"`
	HighestBidderID string    `json:"highestBidderId,omitempty"`
	Status          string    `json:"status,omitempty"`
	EndsAt          time.Time `json:"endsAt,omitempty"`
}

// Card is a collectible in the user's inventory.
type Card struct {
	Ref
	Name    string `json:"name"`
	SetName string `json:"setName,omitempty"`
	Grade   string `json:"grade,omitempty"`
	Image   string `json:"image,omitempty"`
}

// Order tracks fulfillment of a resolved auction. State transitions
// (pay/ship/deliver) are decided server-side.
type Order struct {
	Ref
	AuctionID string    `json:"auctionId,omitempty"`
	BuyerID   string    `json:"buyerId,omitempty"`
	SellerID  string    `json:"sellerId,omitempty"`
	Amount    float64   `json:"amount,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}
