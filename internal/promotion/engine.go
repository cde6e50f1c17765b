package promotion

import (
	"time"

	"agrimart/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Ineligibility reasons surfaced to callers.
const (
	ReasonInactive         = "promotion is not active"
	ReasonNotStarted       = "promotion has not started"
	ReasonExpired          = "promotion has expired"
	ReasonUsageLimit       = "promotion usage limit reached"
	ReasonCustomerLimit    = "per-customer usage limit reached"
	ReasonMinimumNotMet    = "order subtotal below minimum amount"
	ReasonBundleIncomplete = "cart does not contain all bundle items"
)

// moneyPlaces is the fixed-point precision of monetary amounts.
const moneyPlaces = 2

// Line is one candidate order line presented for pricing.
type Line struct {
	ItemID    uuid.UUID
	Quantity  int
	UnitPrice decimal.Decimal
}

// Result is a successfully applied promotion: the discount against the
// subtotal, the discount against the shipping fee, and the resulting payable
// total.
type Result struct {
	Discount         decimal.Decimal
	ShippingDiscount decimal.Decimal
	AdjustedTotal    decimal.Decimal
}

// Engine evaluates promotion definitions against candidate orders. It is pure:
// it never touches persistence, and the per-customer usage count is supplied
// by the caller from the usage ledger.
type Engine struct {
	logger zerolog.Logger
}

// NewEngine creates a new promotion engine.
func NewEngine(logger zerolog.Logger) *Engine {
	return &Engine{
		logger: logger.With().Str("component", "promotion-engine").Logger(),
	}
}

// Subtotal sums quantity times unit price over the lines.
func Subtotal(lines []Line) decimal.Decimal {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return subtotal.Round(moneyPlaces)
}

// Evaluate checks eligibility and computes the discount for the candidate
// order. Eligibility checks run in a fixed order and short-circuit on the
// first failure, returning a *model.PromotionIneligibleError.
func (e *Engine) Evaluate(promo *model.Promotion, lines []Line, shippingFee decimal.Decimal, now time.Time, customerUsed int) (*Result, error) {
	if promo.Status != model.PromotionActive {
		return nil, model.NewPromotionIneligibleError(ReasonInactive)
	}

	if now.Before(promo.StartDate) {
		return nil, model.NewPromotionIneligibleError(ReasonNotStarted)
	}
	if now.After(promo.EndDate) {
		return nil, model.NewPromotionIneligibleError(ReasonExpired)
	}

	if promo.UsageLimit != nil && promo.UsageCount >= *promo.UsageLimit {
		return nil, model.NewPromotionIneligibleError(ReasonUsageLimit)
	}

	if promo.PerCustomerLimit != nil && customerUsed >= *promo.PerCustomerLimit {
		return nil, model.NewPromotionIneligibleError(ReasonCustomerLimit)
	}

	subtotal := Subtotal(lines)
	if promo.MinimumOrderAmount != nil && subtotal.LessThan(*promo.MinimumOrderAmount) {
		return nil, model.NewPromotionIneligibleError(ReasonMinimumNotMet)
	}

	var discount, shippingDiscount decimal.Decimal
	var err error

	switch promo.Type {
	case model.PromotionPercentageOff:
		discount = e.percentageOff(promo, subtotal)
	case model.PromotionFixedAmountOff:
		discount = decimal.Min(promo.DiscountValue, subtotal)
	case model.PromotionBuyXGetY:
		discount = e.buyXGetY(promo, lines)
	case model.PromotionBundle:
		discount, err = e.bundle(promo, lines)
		if err != nil {
			return nil, err
		}
	case model.PromotionFreeShipping:
		shippingDiscount = shippingFee
	default:
		return nil, model.NewValidationError("type", "unknown promotion type")
	}

	// A subtotal discount can never exceed the subtotal itself.
	discount = decimal.Min(discount, subtotal).Round(moneyPlaces)
	shippingDiscount = shippingDiscount.Round(moneyPlaces)

	adjusted := subtotal.Sub(discount).Add(shippingFee).Sub(shippingDiscount).Round(moneyPlaces)

	e.logger.Debug().
		Str("promotion_id", promo.ID.String()).
		Str("type", string(promo.Type)).
		Str("discount", discount.String()).
		Str("adjusted_total", adjusted.String()).
		Msg("promotion applied")

	return &Result{
		Discount:         discount,
		ShippingDiscount: shippingDiscount,
		AdjustedTotal:    adjusted,
	}, nil
}

// percentageOff computes subtotal * value / 100, capped at MaximumDiscount.
func (e *Engine) percentageOff(promo *model.Promotion, subtotal decimal.Decimal) decimal.Decimal {
	discount := subtotal.Mul(promo.DiscountValue).Div(decimal.NewFromInt(100))
	if promo.MaximumDiscount != nil {
		discount = decimal.Min(discount, *promo.MaximumDiscount)
	}
	return discount
}

// buyXGetY grants GetQuantity free units for every full group of
// BuyQuantity+GetQuantity units of an eligible item.
func (e *Engine) buyXGetY(promo *model.Promotion, lines []Line) decimal.Decimal {
	groupSize := promo.BuyQuantity + promo.GetQuantity
	if groupSize <= 0 || promo.GetQuantity <= 0 {
		return decimal.Zero
	}

	discount := decimal.Zero
	for _, l := range lines {
		if !eligibleItem(promo.ApplicableItems, l.ItemID) {
			continue
		}
		groups := l.Quantity / groupSize
		if groups == 0 {
			continue
		}
		freeUnits := int64(groups * promo.GetQuantity)
		discount = discount.Add(l.UnitPrice.Mul(decimal.NewFromInt(freeUnits)))
	}
	return discount
}

// bundle discounts the bundle items down to BundlePrice when the cart holds at
// least one of each. A bundle priced above its items yields no discount.
func (e *Engine) bundle(promo *model.Promotion, lines []Line) (decimal.Decimal, error) {
	if len(promo.BundleItems) == 0 || promo.BundlePrice == nil {
		return decimal.Zero, model.NewValidationError("bundleItems", "bundle promotion is missing items or price")
	}

	prices := make(map[uuid.UUID]decimal.Decimal, len(lines))
	for _, l := range lines {
		if l.Quantity > 0 {
			prices[l.ItemID] = l.UnitPrice
		}
	}

	bundleTotal := decimal.Zero
	for _, itemID := range promo.BundleItems {
		price, ok := prices[itemID]
		if !ok {
			return decimal.Zero, model.NewPromotionIneligibleError(ReasonBundleIncomplete)
		}
		bundleTotal = bundleTotal.Add(price)
	}

	discount := bundleTotal.Sub(*promo.BundlePrice)
	if discount.IsNegative() {
		return decimal.Zero, nil
	}
	return discount, nil
}

// eligibleItem reports whether the item participates in the promotion. An
// empty applicable set means every item is eligible.
func eligibleItem(applicable []uuid.UUID, itemID uuid.UUID) bool {
	if len(applicable) == 0 {
		return true
	}
	for _, id := range applicable {
		if id == itemID {
			return true
		}
	}
	return false
}
