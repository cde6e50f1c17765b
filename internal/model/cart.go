package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cart line statuses.
const (
	CartLineActive  = "active"
	CartLineOrdered = "ordered"
	CartLineRemoved = "removed"
)

// CartLine is a user's cart entry for a single item. (user, item) is unique
// while the line is active; re-adding merges into the existing line.
type CartLine struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	UserID        uuid.UUID       `json:"userId" db:"user_id"`
	ItemID        uuid.UUID       `json:"itemId" db:"item_id"`
	Quantity      int             `json:"quantity" db:"quantity"`
	PriceSnapshot decimal.Decimal `json:"priceSnapshot" db:"price_snapshot"`
	Status        string          `json:"status" db:"status"`
	CreatedAt     time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time       `json:"updatedAt" db:"updated_at"`
}

// CartAddRequest is the payload for adding an item to the cart.
type CartAddRequest struct {
	ItemID   uuid.UUID `json:"itemId"`
	Quantity int       `json:"quantity"`
}
