package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Item is a catalog product sold by a shop.
type Item struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	ShopID    uuid.UUID       `json:"shopId" db:"shop_id"`
	Name      string          `json:"name" db:"name"`
	Price     decimal.Decimal `json:"price" db:"price"`
	CreatedAt time.Time       `json:"createdAt" db:"created_at"`
}
