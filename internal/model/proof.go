package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Proof-of-delivery statuses.
const (
	ProofPending   = "pending"
	ProofDelivered = "delivered"
	ProofFailed    = "failed"
)

// ProofOfDelivery is a geotagged photographic record attached to an order
// detail. Multiple records per order detail are permitted; the latest by
// creation time is authoritative for display.
type ProofOfDelivery struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	OrderDetailID uuid.UUID       `json:"orderDetailId" db:"order_detail_id"`
	ImagePath     string          `json:"imagePath" db:"image_path"`
	Latitude      decimal.Decimal `json:"latitude" db:"latitude"`
	Longitude     decimal.Decimal `json:"longitude" db:"longitude"`
	Remarks       *string         `json:"remarks,omitempty" db:"remarks"`
	Status        string          `json:"status" db:"status"`
	CreatedAt     time.Time       `json:"createdAt" db:"created_at"`
}

// ProofRequest is the payload for attaching a proof of delivery. Image bytes
// arrive base64-encoded in JSON.
type ProofRequest struct {
	Image       []byte          `json:"image"`
	ContentType string          `json:"contentType"`
	Latitude    decimal.Decimal `json:"latitude"`
	Longitude   decimal.Decimal `json:"longitude"`
	Remarks     *string         `json:"remarks,omitempty"`
	Status      *string         `json:"status,omitempty"`
}
