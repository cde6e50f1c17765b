package model

import "github.com/google/uuid"

// Actor roles recognised by ownership checks.
const (
	RoleVendor = "vendor"
	RoleAdmin  = "admin"
	RoleRider  = "rider"
)

// Actor is the authenticated identity performing a request. It is supplied by
// the surrounding request layer and threaded explicitly into every service
// call that performs an ownership check.
type Actor struct {
	ID      uuid.UUID
	Role    string
	ShopIDs []uuid.UUID
}

// OwnsShop reports whether the actor owns the given shop. Admins own everything.
func (a Actor) OwnsShop(shopID uuid.UUID) bool {
	if a.Role == RoleAdmin {
		return true
	}
	for _, id := range a.ShopIDs {
		if id == shopID {
			return true
		}
	}
	return false
}

// EntityKind tags the type of an audit subject.
type EntityKind string

const (
	EntityOrder     EntityKind = "order"
	EntityOrderItem EntityKind = "order_item"
	EntityAddress   EntityKind = "address"
	EntityPromotion EntityKind = "promotion"
	EntityProof     EntityKind = "proof_of_delivery"
)

// EntityRef identifies an audit subject as a tagged {kind, id} pair.
type EntityRef struct {
	Kind EntityKind `json:"kind"`
	ID   uuid.UUID  `json:"id"`
}
