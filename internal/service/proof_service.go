package service

import (
	"context"
	"fmt"
	"time"

	"agrimart/internal/audit"
	"agrimart/internal/blob"
	"agrimart/internal/model"
	"agrimart/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

var proofStatuses = map[string]bool{
	model.ProofPending:   true,
	model.ProofDelivered: true,
	model.ProofFailed:    true,
}

// proofService implements ProofService.
type proofService struct {
	proofRepo repository.ProofRepository
	orderRepo repository.OrderRepository
	store     blob.Store
	sink      audit.Sink
	logger    zerolog.Logger
}

// NewProofService creates a new proof-of-delivery service.
func NewProofService(
	proofRepo repository.ProofRepository,
	orderRepo repository.OrderRepository,
	store blob.Store,
	sink audit.Sink,
	logger zerolog.Logger,
) ProofService {
	return &proofService{
		proofRepo: proofRepo,
		orderRepo: orderRepo,
		store:     store,
		sink:      sink,
		logger:    logger.With().Str("service", "proof").Logger(),
	}
}

// Attach stores the image and records a proof against the order detail. The
// image goes to the blob store first; if the database write then fails, the
// uploaded image is deleted so no orphan remains.
func (s *proofService) Attach(ctx context.Context, orderDetailID uuid.UUID, req *model.ProofRequest) (*model.ProofOfDelivery, error) {
	if err := validateProofRequest(req); err != nil {
		return nil, err
	}

	detail, err := s.orderRepo.GetDetailByID(ctx, orderDetailID)
	if err != nil {
		return nil, fmt.Errorf("failed to attach proof: %w", err)
	}
	if detail == nil {
		return nil, model.NewNotFoundError("order detail", orderDetailID.String())
	}

	status := model.ProofDelivered
	if req.Status != nil {
		status = *req.Status
	}

	path, err := s.store.Store(ctx, req.Image, req.ContentType)
	if err != nil {
		return nil, fmt.Errorf("failed to store proof image: %w", err)
	}

	proof := &model.ProofOfDelivery{
		ID:            uuid.New(),
		OrderDetailID: orderDetailID,
		ImagePath:     path,
		Latitude:      req.Latitude.Round(coordPlaces),
		Longitude:     req.Longitude.Round(coordPlaces),
		Remarks:       req.Remarks,
		Status:        status,
		CreatedAt:     time.Now(),
	}

	if err := s.proofRepo.Create(ctx, proof); err != nil {
		// Compensating delete keeps the blob store free of orphans.
		if delErr := s.store.Delete(ctx, path); delErr != nil {
			s.logger.Error().
				Err(delErr).
				Str("path", path).
				Msg("failed to delete orphaned proof image")
		}
		return nil, fmt.Errorf("failed to attach proof: %w", err)
	}

	s.logger.Info().
		Str("proof_id", proof.ID.String()).
		Str("order_detail_id", orderDetailID.String()).
		Str("status", status).
		Msg("proof of delivery attached")

	s.sink.Log(ctx, "proof.attach",
		model.EntityRef{Kind: model.EntityProof, ID: proof.ID}, nil, proof)

	return proof, nil
}

// Latest returns the authoritative (most recent) proof for the order detail.
func (s *proofService) Latest(ctx context.Context, orderDetailID uuid.UUID) (*model.ProofOfDelivery, error) {
	proofs, err := s.List(ctx, orderDetailID)
	if err != nil {
		return nil, err
	}
	if len(proofs) == 0 {
		return nil, model.NewNotFoundError("proof of delivery", orderDetailID.String())
	}
	return &proofs[0], nil
}

// List retrieves all proofs for the order detail, newest first.
func (s *proofService) List(ctx context.Context, orderDetailID uuid.UUID) ([]model.ProofOfDelivery, error) {
	proofs, err := s.proofRepo.ListByOrderDetail(ctx, orderDetailID)
	if err != nil {
		return nil, fmt.Errorf("failed to list proofs: %w", err)
	}
	return proofs, nil
}

// validateProofRequest checks the payload before any external side effect.
func validateProofRequest(req *model.ProofRequest) error {
	if req == nil {
		return model.NewValidationError("body", "request is required")
	}
	if len(req.Image) == 0 {
		return model.NewValidationError("image", "image is required")
	}
	if req.ContentType == "" {
		return model.NewValidationError("contentType", "content type is required")
	}
	if req.Latitude.LessThan(decimal.NewFromInt(-90)) || req.Latitude.GreaterThan(decimal.NewFromInt(90)) {
		return model.NewValidationError("latitude", "must be between -90 and 90")
	}
	if req.Longitude.LessThan(decimal.NewFromInt(-180)) || req.Longitude.GreaterThan(decimal.NewFromInt(180)) {
		return model.NewValidationError("longitude", "must be between -180 and 180")
	}
	if req.Status != nil && !proofStatuses[*req.Status] {
		return model.NewValidationError("status", "must be one of pending, delivered, failed")
	}
	return nil
}
