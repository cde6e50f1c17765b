package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PromotionType discriminates the five discount rules.
type PromotionType string

const (
	PromotionPercentageOff  PromotionType = "percentage_off"
	PromotionFixedAmountOff PromotionType = "fixed_amount_off"
	PromotionBuyXGetY       PromotionType = "buy_x_get_y"
	PromotionBundle         PromotionType = "bundle"
	PromotionFreeShipping   PromotionType = "free_shipping"
)

// Promotion statuses.
const (
	PromotionActive   = "active"
	PromotionInactive = "inactive"
)

// Promotion is a time-boxed, usage-capped discount rule scoped to an agrivet
// and shared across that agrivet's shops. Item-set columns are stored as JSON
// arrays and decoded into typed slices at the repository boundary.
type Promotion struct {
	ID                 uuid.UUID        `json:"id" db:"id"`
	AgrivetID          uuid.UUID        `json:"agrivetId" db:"agrivet_id"`
	Type               PromotionType    `json:"type" db:"type"`
	Status             string           `json:"status" db:"status"`
	PromoCode          *string          `json:"promoCode,omitempty" db:"promo_code"`
	DiscountValue      decimal.Decimal  `json:"discountValue" db:"discount_value"`
	BuyQuantity        int              `json:"buyQuantity" db:"buy_quantity"`
	GetQuantity        int              `json:"getQuantity" db:"get_quantity"`
	MinimumOrderAmount *decimal.Decimal `json:"minimumOrderAmount,omitempty" db:"minimum_order_amount"`
	MaximumDiscount    *decimal.Decimal `json:"maximumDiscount,omitempty" db:"maximum_discount"`
	ApplicableItems    []uuid.UUID      `json:"applicableItems,omitempty" db:"applicable_items"`
	BundleItems        []uuid.UUID      `json:"bundleItems,omitempty" db:"bundle_items"`
	BundlePrice        *decimal.Decimal `json:"bundlePrice,omitempty" db:"bundle_price"`
	StartDate          time.Time        `json:"startDate" db:"start_date"`
	EndDate            time.Time        `json:"endDate" db:"end_date"`
	UsageLimit         *int             `json:"usageLimit,omitempty" db:"usage_limit"`
	UsageCount         int              `json:"usageCount" db:"usage_count"`
	PerCustomerLimit   *int             `json:"perCustomerLimit,omitempty" db:"per_customer_limit"`
	CreatedAt          time.Time        `json:"createdAt" db:"created_at"`
	UpdatedAt          time.Time        `json:"updatedAt" db:"updated_at"`
}
