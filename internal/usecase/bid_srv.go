package usecase

import (
	"context"
	"fmt"
	"time"

	"shuttle-booking/internal/data/entity"
	"shuttle-booking/internal/data/repository"
	"shuttle-booking/internal/dto/request"
	"shuttle-booking/internal/dto/response"
	"shuttle-booking/pkg/database"
	"shuttle-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BidService manages driver bids on private ride requests. Placing a bid is
// an upsert: a driver's second bid on the same request replaces the first.
type BidService interface {
	PlaceBid(ctx context.Context, req *request.PlaceBidRequest) (*response.BidResponse, error)
	ListBids(ctx context.Context, rideRequestID string) ([]response.BidResponse, error)
	AcceptBid(ctx context.Context, bidID string) (*response.BidResponse, error)
	WithdrawBid(ctx context.Context, bidID string) error
}

type bidService struct {
	db   database.PgxIface
	repo *repository.Repository
	log  *zap.Logger
}

func NewBidService(db database.PgxIface, repo *repository.Repository, log *zap.Logger) BidService {
	return &bidService{
		db:   db,
		repo: repo,
		log:  log.With(zap.String("service", "bid")),
	}
}

func (s *bidService) PlaceBid(ctx context.Context, req *request.PlaceBidRequest) (*response.BidResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRequest, utils.FormatValidationErrors(errs))
	}

	rideRequestID, err := uuid.Parse(req.RideRequestID)
	if err != nil {
		return nil, fmt.Errorf("%w: ride request ID %s", ErrInvalidRequest, req.RideRequestID)
	}

	driverID, err := uuid.Parse(req.DriverID)
	if err != nil {
		return nil, fmt.Errorf("%w: driver ID %s", ErrInvalidRequest, req.DriverID)
	}

	now := time.Now()
	stored, err := s.repo.Bid.Upsert(ctx, &entity.DriverBid{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		RideRequestID: rideRequestID,
		DriverID:      driverID,
		Amount:        req.Amount,
		Status:        entity.BidStatusActive,
		Notes:         req.Notes,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Bid placed",
		zap.String("bid_id", stored.ID.String()),
		zap.String("ride_request_id", req.RideRequestID),
		zap.String("driver_id", req.DriverID),
		zap.Float64("amount", req.Amount),
	)

	resp := response.BidToResponse(stored)
	return &resp, nil
}

func (s *bidService) ListBids(ctx context.Context, rideRequestID string) ([]response.BidResponse, error) {
	id, err := uuid.Parse(rideRequestID)
	if err != nil {
		return nil, fmt.Errorf("%w: ride request ID %s", ErrInvalidRequest, rideRequestID)
	}

	bids, err := s.repo.Bid.ListByRideRequest(ctx, id)
	if err != nil {
		return nil, err
	}

	out := make([]response.BidResponse, 0, len(bids))
	for _, bid := range bids {
		out = append(out, response.BidToResponse(bid))
	}

	return out, nil
}

// AcceptBid marks one bid accepted and rejects the other active bids on the
// same ride request, all in one transaction. Only active bids can be
// accepted; a second accept on the same request fails the conditional update.
func (s *bidService) AcceptBid(ctx context.Context, bidID string) (*response.BidResponse, error) {
	id, err := uuid.Parse(bidID)
	if err != nil {
		return nil, fmt.Errorf("%w: bid ID %s", ErrInvalidRequest, bidID)
	}

	bid, err := s.repo.Bid.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if bid == nil {
		return nil, fmt.Errorf("%w: %s", ErrBidNotFound, bidID)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin bid acceptance transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	accepted, err := s.repo.Bid.UpdateStatusIfTx(ctx, tx, id, entity.BidStatusActive, entity.BidStatusAccepted)
	if err != nil {
		return nil, err
	}
	if !accepted {
		return nil, fmt.Errorf("%w: bid %s is %s, only active bids can be accepted",
			ErrInvalidState, bidID, bid.Status)
	}

	if err := s.repo.Bid.RejectActiveExceptTx(ctx, tx, bid.RideRequestID, id); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit bid acceptance for %s: %w", bidID, err)
	}

	s.log.Info("Bid accepted",
		zap.String("bid_id", bidID),
		zap.String("ride_request_id", bid.RideRequestID.String()),
		zap.String("driver_id", bid.DriverID.String()),
	)

	bid.Status = entity.BidStatusAccepted
	resp := response.BidToResponse(bid)
	return &resp, nil
}

func (s *bidService) WithdrawBid(ctx context.Context, bidID string) error {
	id, err := uuid.Parse(bidID)
	if err != nil {
		return fmt.Errorf("%w: bid ID %s", ErrInvalidRequest, bidID)
	}

	deleted, err := s.repo.Bid.DeleteActive(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("%w: no active bid %s", ErrBidNotFound, bidID)
	}

	s.log.Info("Bid withdrawn", zap.String("bid_id", bidID))
	return nil
}
