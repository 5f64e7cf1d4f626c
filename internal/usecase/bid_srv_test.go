package usecase

import (
	"context"
	"errors"
	"testing"

	"shuttle-booking/internal/data/entity"
	"shuttle-booking/internal/dto/request"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"go.uber.org/zap"
)

func TestPlaceBid(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	bids := &stubBidRepo{byID: map[uuid.UUID]*entity.DriverBid{}}
	repo := newStubRepository(nil, nil, nil, nil, bids, nil)
	svc := NewBidService(mock, repo, zap.NewNop())

	resp, err := svc.PlaceBid(context.Background(), &request.PlaceBidRequest{
		RideRequestID: uuid.New().String(),
		DriverID:      uuid.New().String(),
		Amount:        75.50,
		Notes:         "15-seat sprinter, can arrive 10 min early",
	})
	if err != nil {
		t.Fatalf("PlaceBid: %v", err)
	}

	if resp.Status != entity.BidStatusActive {
		t.Errorf("status = %s, want active", resp.Status)
	}
	if len(bids.upserted) != 1 {
		t.Fatalf("upserts = %d, want 1", len(bids.upserted))
	}
	if bids.upserted[0].Amount != 75.50 {
		t.Errorf("amount = %v", bids.upserted[0].Amount)
	}
}

func TestPlaceBidRejectsNonPositiveAmount(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	repo := newStubRepository(nil, nil, nil, nil, nil, nil)
	svc := NewBidService(mock, repo, zap.NewNop())

	_, err = svc.PlaceBid(context.Background(), &request.PlaceBidRequest{
		RideRequestID: uuid.New().String(),
		DriverID:      uuid.New().String(),
		Amount:        0,
	})
	if !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("err = %v, want ErrInvalidRequest", err)
	}
}

func TestAcceptBidRejectsCompetitors(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	bid := &entity.DriverBid{
		RideRequestID: uuid.New(),
		DriverID:      uuid.New(),
		Amount:        60,
		Status:        entity.BidStatusActive,
	}
	bid.ID = uuid.New()

	bids := &stubBidRepo{
		byID:   map[uuid.UUID]*entity.DriverBid{bid.ID: bid},
		flipOK: true,
	}
	repo := newStubRepository(nil, nil, nil, nil, bids, nil)
	svc := NewBidService(mock, repo, zap.NewNop())

	mock.ExpectBegin()
	mock.ExpectCommit()

	resp, err := svc.AcceptBid(context.Background(), bid.ID.String())
	if err != nil {
		t.Fatalf("AcceptBid: %v", err)
	}

	if resp.Status != entity.BidStatusAccepted {
		t.Errorf("status = %s, want accepted", resp.Status)
	}
	if len(bids.flips) != 1 || bids.flips[0] != bid.ID {
		t.Errorf("flips = %v", bids.flips)
	}
	if len(bids.rejected) != 1 || bids.rejected[0] != bid.RideRequestID {
		t.Errorf("competitor rejection was not issued: %v", bids.rejected)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestAcceptBidRequiresActiveStatus(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	bid := &entity.DriverBid{
		RideRequestID: uuid.New(),
		DriverID:      uuid.New(),
		Amount:        60,
		Status:        entity.BidStatusRejected,
	}
	bid.ID = uuid.New()

	bids := &stubBidRepo{byID: map[uuid.UUID]*entity.DriverBid{bid.ID: bid}}
	repo := newStubRepository(nil, nil, nil, nil, bids, nil)
	svc := NewBidService(mock, repo, zap.NewNop())

	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err = svc.AcceptBid(context.Background(), bid.ID.String())
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("err = %v, want ErrInvalidState", err)
	}
}

func TestAcceptBidUnknown(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	repo := newStubRepository(nil, nil, nil, nil, nil, nil)
	svc := NewBidService(mock, repo, zap.NewNop())

	_, err = svc.AcceptBid(context.Background(), uuid.New().String())
	if !errors.Is(err, ErrBidNotFound) {
		t.Fatalf("err = %v, want ErrBidNotFound", err)
	}
}

func TestWithdrawBid(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	bids := &stubBidRepo{byID: map[uuid.UUID]*entity.DriverBid{}, deleteOK: true}
	repo := newStubRepository(nil, nil, nil, nil, bids, nil)
	svc := NewBidService(mock, repo, zap.NewNop())

	id := uuid.New()
	if err := svc.WithdrawBid(context.Background(), id.String()); err != nil {
		t.Fatalf("WithdrawBid: %v", err)
	}
	if len(bids.deleted) != 1 || bids.deleted[0] != id {
		t.Errorf("deleted = %v", bids.deleted)
	}
}

func TestWithdrawBidNotActive(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	repo := newStubRepository(nil, nil, nil, nil, nil, nil)
	svc := NewBidService(mock, repo, zap.NewNop())

	err = svc.WithdrawBid(context.Background(), uuid.New().String())
	if !errors.Is(err, ErrBidNotFound) {
		t.Fatalf("err = %v, want ErrBidNotFound", err)
	}
}
