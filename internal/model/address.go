package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Address types.
const (
	AddressTypeHome  = "home"
	AddressTypeWork  = "work"
	AddressTypeFarm  = "farm"
	AddressTypeOther = "other"
)

// Address is a delivery address belonging to a user. Among a user's active,
// non-deleted addresses at most one carries IsDefault.
type Address struct {
	ID         uuid.UUID        `json:"id" db:"id"`
	UserID     uuid.UUID        `json:"userId" db:"user_id"`
	Type       string           `json:"type" db:"type"`
	Street     string           `json:"street" db:"street"`
	Barangay   string           `json:"barangay" db:"barangay"`
	City       string           `json:"city" db:"city"`
	Province   string           `json:"province" db:"province"`
	Region     string           `json:"region" db:"region"`
	PostalCode string           `json:"postalCode" db:"postal_code"`
	Latitude   *decimal.Decimal `json:"latitude,omitempty" db:"latitude"`
	Longitude  *decimal.Decimal `json:"longitude,omitempty" db:"longitude"`
	IsDefault  bool             `json:"isDefault" db:"is_default"`
	IsActive   bool             `json:"isActive" db:"is_active"`
	CreatedAt  time.Time        `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time        `json:"updatedAt" db:"updated_at"`
	DeletedAt  *time.Time       `json:"-" db:"deleted_at"`
}

// FullText renders the address as a single shipping line.
func (a Address) FullText() string {
	parts := []string{a.Street, a.Barangay, a.City, a.Province, a.Region}
	text := ""
	for _, p := range parts {
		if p == "" {
			continue
		}
		if text != "" {
			text += ", "
		}
		text += p
	}
	if a.PostalCode != "" {
		text += " " + a.PostalCode
	}
	return text
}

// AddressRequest is the payload for creating an address.
type AddressRequest struct {
	Type       string           `json:"type"`
	Street     string           `json:"street"`
	Barangay   string           `json:"barangay"`
	City       string           `json:"city"`
	Province   string           `json:"province"`
	Region     string           `json:"region"`
	PostalCode string           `json:"postalCode"`
	Latitude   *decimal.Decimal `json:"latitude,omitempty"`
	Longitude  *decimal.Decimal `json:"longitude,omitempty"`
}
