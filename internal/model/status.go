package model

import "github.com/google/uuid"

// Default fulfillment status names. The effective set is configuration-driven:
// an ordered, active subset loaded from the fulfillment_statuses table.
const (
	StatusPending        = "pending"
	StatusPreparing      = "preparing"
	StatusOutForDelivery = "out_for_delivery"
	StatusDelivered      = "delivered"
	StatusFailed         = "failed"
	StatusCancelled      = "cancelled"
)

// ItemStatus is one entry of the configured fulfillment status set, ordered by
// Position. Terminal statuses (failed/cancelled) are reachable from any
// non-terminal state.
type ItemStatus struct {
	ID       uuid.UUID `json:"id" db:"id"`
	Name     string    `json:"name" db:"name"`
	Position int       `json:"position" db:"position"`
	Terminal bool      `json:"terminal" db:"terminal"`
	IsActive bool      `json:"isActive" db:"is_active"`
}

// StatusSet is an ordered active status configuration.
type StatusSet []ItemStatus

// Contains reports whether the named status is part of the active set.
func (s StatusSet) Contains(name string) bool {
	for _, st := range s {
		if st.Name == name {
			return true
		}
	}
	return false
}

// Initial returns the first non-terminal status by position (the "pending"
// state new order items start in), or "" when the set is empty.
func (s StatusSet) Initial() string {
	for _, st := range s {
		if !st.Terminal {
			return st.Name
		}
	}
	return ""
}

// Next returns the non-terminal status following the named one by position,
// or "" when there is none.
func (s StatusSet) Next(name string) string {
	found := false
	for _, st := range s {
		if st.Terminal {
			continue
		}
		if found {
			return st.Name
		}
		if st.Name == name {
			found = true
		}
	}
	return ""
}
