package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"agrimart/internal/audit"
	"agrimart/internal/model"
	"agrimart/internal/promotion"
	"agrimart/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// orderCodeAlphabet is the character set of the random order-code suffix.
const orderCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// orderCodeLength is the length of the random order-code suffix.
const orderCodeLength = 10

var paymentStatuses = map[string]bool{
	model.PaymentPending: true,
	model.PaymentPaid:    true,
	model.PaymentFailed:  true,
}

// orderService implements OrderService.
type orderService struct {
	orderRepo   repository.OrderRepository
	cartRepo    repository.CartRepository
	itemRepo    repository.ItemRepository
	addressRepo repository.AddressRepository
	promoRepo   repository.PromotionRepository
	ledger      repository.UsageLedger
	statusRepo  repository.StatusRepository
	engine      *promotion.Engine
	sink        audit.Sink
	shippingFee decimal.Decimal
	codeRetries int
	logger      zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	itemRepo repository.ItemRepository,
	addressRepo repository.AddressRepository,
	promoRepo repository.PromotionRepository,
	ledger repository.UsageLedger,
	statusRepo repository.StatusRepository,
	engine *promotion.Engine,
	sink audit.Sink,
	shippingFee decimal.Decimal,
	codeRetries int,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		itemRepo:    itemRepo,
		addressRepo: addressRepo,
		promoRepo:   promoRepo,
		ledger:      ledger,
		statusRepo:  statusRepo,
		engine:      engine,
		sink:        sink,
		shippingFee: shippingFee,
		codeRetries: codeRetries,
		logger:      logger.With().Str("service", "order").Logger(),
	}
}

// pricing is the evaluated financial outcome of a checkout.
type pricing struct {
	subtotal    decimal.Decimal
	discount    decimal.Decimal
	shippingFee decimal.Decimal
	total       decimal.Decimal
	promo       *model.Promotion
}

// CreateOrder places an order from the user's active cart. All rows, the
// promotion usage increment and the per-customer usage record are written in
// one transaction; a failed creation leaves nothing behind.
func (s *orderService) CreateOrder(ctx context.Context, userID uuid.UUID, req *model.OrderRequest) (*model.OrderResponse, error) {
	if req == nil {
		return nil, model.NewValidationError("body", "request is required")
	}
	if req.PaymentMethod == "" {
		return nil, model.NewValidationError("paymentMethod", "payment method is required")
	}

	lines, err := s.cartRepo.ListActiveByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	if len(lines) == 0 {
		return nil, model.NewValidationError("cart", "cart is empty")
	}

	addr, err := s.addressRepo.GetByID(ctx, req.AddressID)
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	if addr == nil || addr.UserID != userID || !addr.IsActive {
		return nil, model.NewNotFoundError("address", req.AddressID.String())
	}

	statuses, err := s.statusRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	initialStatus := statuses.Initial()
	if initialStatus == "" {
		return nil, fmt.Errorf("no active fulfillment statuses configured")
	}

	shopByItem, err := s.resolveShops(ctx, lines)
	if err != nil {
		return nil, err
	}

	price, err := s.price(ctx, userID, lines, req.PromoCode)
	if err != nil {
		return nil, err
	}

	// Order codes are random; a collision aborts the whole transaction and the
	// creation is retried from scratch with a fresh code, bounded.
	for attempt := 0; attempt < s.codeRetries; attempt++ {
		resp, err := s.createOnce(ctx, userID, req, addr, lines, shopByItem, price, initialStatus)
		if err != nil {
			var conflict *model.ConflictError
			if errors.As(err, &conflict) {
				s.logger.Warn().
					Int("attempt", attempt+1).
					Msg("order code collision, retrying")
				continue
			}
			return nil, err
		}

		s.logger.Info().
			Str("order_id", resp.Order.ID.String()).
			Str("order_code", resp.Detail.OrderCode).
			Int("item_count", len(resp.Items)).
			Str("total", resp.Detail.TotalAmount.String()).
			Msg("order created successfully")

		s.sink.Log(ctx, "order.create",
			model.EntityRef{Kind: model.EntityOrder, ID: resp.Order.ID}, nil, resp.Detail)

		return resp, nil
	}

	return nil, model.NewConflictError("failed to generate a unique order code")
}

// resolveShops maps each cart item to its owning shop, validating catalog
// presence.
func (s *orderService) resolveShops(ctx context.Context, lines []model.CartLine) (map[uuid.UUID]uuid.UUID, error) {
	ids := make([]uuid.UUID, len(lines))
	for i, l := range lines {
		ids[i] = l.ItemID
	}

	items, err := s.itemRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	shopByItem := make(map[uuid.UUID]uuid.UUID, len(items))
	for _, item := range items {
		shopByItem[item.ID] = item.ShopID
	}

	for _, l := range lines {
		if _, ok := shopByItem[l.ItemID]; !ok {
			return nil, model.NewNotFoundError("item", l.ItemID.String())
		}
	}

	return shopByItem, nil
}

// price computes the financial snapshot from the cart line price snapshots,
// applying the promotion when a code is supplied. Ineligibility fails the
// whole checkout.
func (s *orderService) price(ctx context.Context, userID uuid.UUID, lines []model.CartLine, promoCode *string) (*pricing, error) {
	candidate := make([]promotion.Line, len(lines))
	for i, l := range lines {
		candidate[i] = promotion.Line{ItemID: l.ItemID, Quantity: l.Quantity, UnitPrice: l.PriceSnapshot}
	}

	subtotal := promotion.Subtotal(candidate)
	price := &pricing{
		subtotal:    subtotal,
		discount:    decimal.Zero,
		shippingFee: s.shippingFee,
		total:       subtotal.Add(s.shippingFee),
	}

	if promoCode == nil || *promoCode == "" {
		return price, nil
	}

	promo, err := s.promoRepo.GetByCode(ctx, *promoCode)
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	if promo == nil {
		return nil, model.NewNotFoundError("promotion", *promoCode)
	}

	customerUsed := 0
	if promo.PerCustomerLimit != nil {
		customerUsed, err = s.ledger.CountUsage(ctx, promo.ID, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to create order: %w", err)
		}
	}

	result, err := s.engine.Evaluate(promo, candidate, s.shippingFee, time.Now(), customerUsed)
	if err != nil {
		s.logger.Warn().
			Str("promo_code", *promoCode).
			Str("user_id", userID.String()).
			Err(err).
			Msg("promotion rejected")
		return nil, err
	}

	price.discount = result.Discount
	price.shippingFee = s.shippingFee.Sub(result.ShippingDiscount)
	price.total = result.AdjustedTotal
	price.promo = promo

	return price, nil
}

// createOnce performs a single transactional creation attempt.
func (s *orderService) createOnce(
	ctx context.Context,
	userID uuid.UUID,
	req *model.OrderRequest,
	addr *model.Address,
	lines []model.CartLine,
	shopByItem map[uuid.UUID]uuid.UUID,
	price *pricing,
	initialStatus string,
) (*model.OrderResponse, error) {
	code, err := generateOrderCode()
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	now := time.Now()
	detail := &model.OrderDetail{
		ID:              uuid.New(),
		OrderCode:       code,
		Subtotal:        price.subtotal,
		DiscountAmount:  price.discount,
		ShippingFee:     price.shippingFee,
		TotalAmount:     price.total,
		ShippingAddress: addr.FullText(),
		Latitude:        addr.Latitude,
		Longitude:       addr.Longitude,
		PaymentMethod:   req.PaymentMethod,
		PaymentStatus:   model.PaymentPending,
		PromoCode:       req.PromoCode,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err = s.orderRepo.CreateDetail(ctx, tx, detail); err != nil {
		return nil, err
	}

	order := &model.Order{
		ID:            uuid.New(),
		UserID:        userID,
		OrderDetailID: detail.ID,
		Status:        initialStatus,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err = s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	items := make([]model.OrderItem, len(lines))
	for i, l := range lines {
		items[i] = model.OrderItem{
			ID:              uuid.New(),
			OrderID:         order.ID,
			ItemID:          l.ItemID,
			ShopID:          shopByItem[l.ItemID],
			Quantity:        l.Quantity,
			PriceAtPurchase: l.PriceSnapshot,
			Status:          initialStatus,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
	}

	if err = s.orderRepo.CreateItems(ctx, tx, items); err != nil {
		return nil, fmt.Errorf("failed to create order items: %w", err)
	}

	if price.promo != nil {
		// The conditional increment is the arbiter of usage-capped races: the
		// losing checkout rolls back entirely.
		var incremented bool
		incremented, err = s.promoRepo.IncrementUsage(ctx, tx, price.promo.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to create order: %w", err)
		}
		if !incremented {
			err = model.NewPromotionIneligibleError(promotion.ReasonUsageLimit)
			return nil, err
		}

		if err = s.ledger.RecordUsage(ctx, tx, price.promo.ID, userID); err != nil {
			return nil, fmt.Errorf("failed to create order: %w", err)
		}
	}

	if err = s.cartRepo.MarkOrdered(ctx, tx, userID); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	return &model.OrderResponse{Order: *order, Detail: *detail, Items: items}, nil
}

// GetByID retrieves an order with its detail and items.
func (s *orderService) GetByID(ctx context.Context, id uuid.UUID) (*model.OrderResponse, error) {
	order, detail, items, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return nil, model.NewNotFoundError("order", id.String())
	}

	return &model.OrderResponse{Order: *order, Detail: *detail, Items: items}, nil
}

// UpdateOrder adjusts mutable order-detail fields. Financial totals are
// refused once any item has left the initial fulfillment status.
func (s *orderService) UpdateOrder(ctx context.Context, orderID uuid.UUID, req *model.OrderUpdateRequest) (*model.OrderDetail, error) {
	if req == nil {
		return nil, model.NewValidationError("body", "request is required")
	}

	order, detail, _, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to update order: %w", err)
	}
	if order == nil {
		return nil, model.NewNotFoundError("order", orderID.String())
	}

	old := *detail

	if req.ShippingFee != nil {
		statuses, err := s.statusRepo.ListActive(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to update order: %w", err)
		}

		beyond, err := s.orderRepo.HasItemsBeyond(ctx, orderID, statuses.Initial())
		if err != nil {
			return nil, fmt.Errorf("failed to update order: %w", err)
		}
		if beyond {
			return nil, model.NewValidationError("shippingFee", "financial fields are locked once fulfillment has started")
		}

		if req.ShippingFee.IsNegative() {
			return nil, model.NewValidationError("shippingFee", "cannot be negative")
		}

		detail.ShippingFee = req.ShippingFee.Round(2)
		detail.TotalAmount = detail.Subtotal.Sub(detail.DiscountAmount).Add(detail.ShippingFee).Round(2)
	}

	if req.ShippingAddress != nil {
		if *req.ShippingAddress == "" {
			return nil, model.NewValidationError("shippingAddress", "cannot be empty")
		}
		detail.ShippingAddress = *req.ShippingAddress
	}

	if req.Instructions != nil {
		detail.Instructions = req.Instructions
	}

	if req.PaymentStatus != nil {
		if !paymentStatuses[*req.PaymentStatus] {
			return nil, model.NewValidationError("paymentStatus", "must be one of pending, paid, failed")
		}
		detail.PaymentStatus = *req.PaymentStatus
	}

	detail.UpdatedAt = time.Now()

	if err := s.orderRepo.UpdateDetail(ctx, detail); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("order_id", orderID.String()).
		Msg("order detail updated")

	s.sink.Log(ctx, "order.update",
		model.EntityRef{Kind: model.EntityOrder, ID: orderID}, old, detail)

	return detail, nil
}

// generateOrderCode produces a user-facing "#ORD-" code with a random
// 10-character uppercase alphanumeric suffix.
func generateOrderCode() (string, error) {
	buf := make([]byte, orderCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate order code: %w", err)
	}

	for i, b := range buf {
		buf[i] = orderCodeAlphabet[int(b)%len(orderCodeAlphabet)]
	}

	return "#ORD-" + string(buf), nil
}
