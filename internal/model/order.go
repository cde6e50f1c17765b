package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment statuses carried on the order detail.
const (
	PaymentPending = "pending"
	PaymentPaid    = "paid"
	PaymentFailed  = "failed"
)

// Order references a user and exactly one OrderDetail. Its status is derived
// from the set of item statuses once items exist.
type Order struct {
	ID            uuid.UUID `json:"id" db:"id"`
	UserID        uuid.UUID `json:"userId" db:"user_id"`
	OrderDetailID uuid.UUID `json:"orderDetailId" db:"order_detail_id"`
	Status        string    `json:"status" db:"status"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at"`
}

// OrderDetail is the financial and shipping snapshot of an order.
type OrderDetail struct {
	ID              uuid.UUID        `json:"id" db:"id"`
	OrderCode       string           `json:"orderCode" db:"order_code"`
	Subtotal        decimal.Decimal  `json:"subtotal" db:"subtotal"`
	DiscountAmount  decimal.Decimal  `json:"discountAmount" db:"discount_amount"`
	ShippingFee     decimal.Decimal  `json:"shippingFee" db:"shipping_fee"`
	TotalAmount     decimal.Decimal  `json:"totalAmount" db:"total_amount"`
	ShippingAddress string           `json:"shippingAddress" db:"shipping_address"`
	Latitude        *decimal.Decimal `json:"latitude,omitempty" db:"latitude"`
	Longitude       *decimal.Decimal `json:"longitude,omitempty" db:"longitude"`
	PaymentMethod   string           `json:"paymentMethod" db:"payment_method"`
	PaymentStatus   string           `json:"paymentStatus" db:"payment_status"`
	Instructions    *string          `json:"instructions,omitempty" db:"instructions"`
	PromoCode       *string          `json:"promoCode,omitempty" db:"promo_code"`
	CreatedAt       time.Time        `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time        `json:"updatedAt" db:"updated_at"`
}

// OrderItem is a line item of an order. PriceAtPurchase is an immutable
// snapshot taken from the cart line at checkout.
type OrderItem struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	OrderID         uuid.UUID       `json:"-" db:"order_id"`
	ItemID          uuid.UUID       `json:"itemId" db:"item_id"`
	ShopID          uuid.UUID       `json:"shopId" db:"shop_id"`
	Quantity        int             `json:"quantity" db:"quantity"`
	PriceAtPurchase decimal.Decimal `json:"priceAtPurchase" db:"price_at_purchase"`
	Status          string          `json:"status" db:"status"`
	CreatedAt       time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time       `json:"updatedAt" db:"updated_at"`
}

// OrderRequest is the payload for placing an order from the active cart.
type OrderRequest struct {
	AddressID     uuid.UUID `json:"addressId"`
	PaymentMethod string    `json:"paymentMethod"`
	PromoCode     *string   `json:"promoCode,omitempty"`
}

// OrderUpdateRequest carries the mutable order-detail fields. Financial fields
// are refused once any item has left the initial status.
type OrderUpdateRequest struct {
	ShippingAddress *string          `json:"shippingAddress,omitempty"`
	Instructions    *string          `json:"instructions,omitempty"`
	PaymentStatus   *string          `json:"paymentStatus,omitempty"`
	ShippingFee     *decimal.Decimal `json:"shippingFee,omitempty"`
}

// OrderResponse is the order aggregate returned to callers.
type OrderResponse struct {
	Order  Order       `json:"order"`
	Detail OrderDetail `json:"detail"`
	Items  []OrderItem `json:"items"`
}

// ItemStatusRequest is the payload for a fulfillment transition.
type ItemStatusRequest struct {
	Status string `json:"status"`
}
