package usecase

import (
	"context"
	"fmt"

	"shuttle-booking/internal/data/repository"
	"shuttle-booking/internal/dto/response"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CapacityService answers the catalog and occupancy questions the storefront
// asks before sending anyone to checkout.
type CapacityService interface {
	ListItems(ctx context.Context) ([]response.ItemResponse, error)
	GetCapacity(ctx context.Context, itemID, timeSlot string) (*response.CapacityResponse, error)
}

type capacityService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewCapacityService(repo *repository.Repository, log *zap.Logger) CapacityService {
	return &capacityService{
		repo: repo,
		log:  log.With(zap.String("service", "capacity")),
	}
}

func (s *capacityService) ListItems(ctx context.Context) ([]response.ItemResponse, error) {
	items, err := s.repo.Item.FindActive(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]response.ItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, response.ItemToResponse(item))
	}

	return out, nil
}

// GetCapacity reports slot occupancy for an item. With a time slot the
// response covers that slot's seats; either way it includes the item-wide
// confirmed total and whether it clears the minimum threshold to run.
func (s *capacityService) GetCapacity(ctx context.Context, itemID, timeSlot string) (*response.CapacityResponse, error) {
	id, err := uuid.Parse(itemID)
	if err != nil {
		return nil, fmt.Errorf("%w: item ID %s", ErrInvalidRequest, itemID)
	}

	item, err := s.repo.Item.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("%w: %s", ErrItemNotFound, itemID)
	}

	totalSold, err := s.repo.Booking.SumConfirmedTotal(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := &response.CapacityResponse{
		ItemID:      itemID,
		TimeSlot:    timeSlot,
		MaxCapacity: item.MaxCapacityPerSlot,
		TotalSold:   totalSold,
		Confirmed:   item.MinThreshold <= 0 || totalSold >= item.MinThreshold,
	}

	if timeSlot != "" {
		sold, err := s.repo.Booking.SumConfirmedQuantity(ctx, id, timeSlot)
		if err != nil {
			return nil, err
		}
		resp.Sold = sold
		resp.Remaining = item.MaxCapacityPerSlot - sold
		if resp.Remaining < 0 {
			resp.Remaining = 0
		}
	}

	return resp, nil
}
