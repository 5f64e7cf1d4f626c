package repository

import (
	"context"
	"fmt"

	"shuttle-booking/internal/data/entity"
	"shuttle-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type BidRepository interface {
	// Upsert places a bid, replacing any earlier bid by the same driver on
	// the same ride request. The returned bid carries the stored row's
	// identity and timestamps.
	Upsert(ctx context.Context, bid *entity.DriverBid) (*entity.DriverBid, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.DriverBid, error)
	ListByRideRequest(ctx context.Context, rideRequestID uuid.UUID) ([]*entity.DriverBid, error)
	DeleteActive(ctx context.Context, id uuid.UUID) (bool, error)

	UpdateStatusIfTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, from, to entity.BidStatus) (bool, error)
	RejectActiveExceptTx(ctx context.Context, tx pgx.Tx, rideRequestID, acceptedID uuid.UUID) error
}

type bidRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBidRepository(db database.PgxIface, log *zap.Logger) BidRepository {
	return &bidRepository{
		db:  db,
		log: log.With(zap.String("repository", "bid")),
	}
}

const bidColumns = `id, ride_request_id, driver_id, amount, status, notes, created_at, updated_at`

func scanBid(row pgx.Row) (*entity.DriverBid, error) {
	var b entity.DriverBid
	err := row.Scan(
		&b.ID,
		&b.RideRequestID,
		&b.DriverID,
		&b.Amount,
		&b.Status,
		&b.Notes,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *bidRepository) Upsert(ctx context.Context, bid *entity.DriverBid) (*entity.DriverBid, error) {
	query := `
		INSERT INTO driver_bids (` + bidColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (ride_request_id, driver_id) DO UPDATE
		SET amount = EXCLUDED.amount,
		    notes = EXCLUDED.notes,
		    status = 'active',
		    updated_at = NOW()
		RETURNING ` + bidColumns + `
	`

	stored, err := scanBid(r.db.QueryRow(ctx, query,
		bid.ID, bid.RideRequestID, bid.DriverID, bid.Amount, bid.Status,
		bid.Notes, bid.CreatedAt, bid.UpdatedAt,
	))
	if err != nil {
		r.log.Error("Failed to upsert bid",
			zap.Error(err),
			zap.String("ride_request_id", bid.RideRequestID.String()),
			zap.String("driver_id", bid.DriverID.String()),
		)
		return nil, fmt.Errorf("upsert bid for request %s driver %s: %w",
			bid.RideRequestID.String(), bid.DriverID.String(), err)
	}

	return stored, nil
}

func (r *bidRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.DriverBid, error) {
	query := `SELECT ` + bidColumns + ` FROM driver_bids WHERE id = $1`

	bid, err := scanBid(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find bid by ID",
			zap.Error(err),
			zap.String("bid_id", id.String()),
		)
		return nil, fmt.Errorf("find bid by ID %s: %w", id.String(), err)
	}

	return bid, nil
}

func (r *bidRepository) ListByRideRequest(ctx context.Context, rideRequestID uuid.UUID) ([]*entity.DriverBid, error) {
	// Lowest bid first; created_at breaks ties deterministically.
	query := `
		SELECT ` + bidColumns + `
		FROM driver_bids
		WHERE ride_request_id = $1
		ORDER BY amount, created_at
	`

	rows, err := r.db.Query(ctx, query, rideRequestID)
	if err != nil {
		r.log.Error("Failed to list bids",
			zap.Error(err),
			zap.String("ride_request_id", rideRequestID.String()),
		)
		return nil, fmt.Errorf("list bids for request %s: %w", rideRequestID.String(), err)
	}
	defer rows.Close()

	var bids []*entity.DriverBid
	for rows.Next() {
		bid, err := scanBid(rows)
		if err != nil {
			r.log.Error("Failed to scan bid row", zap.Error(err))
			return nil, fmt.Errorf("scan bid row: %w", err)
		}
		bids = append(bids, bid)
	}

	return bids, nil
}

func (r *bidRepository) DeleteActive(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `DELETE FROM driver_bids WHERE id = $1 AND status = 'active'`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete bid",
			zap.Error(err),
			zap.String("bid_id", id.String()),
		)
		return false, fmt.Errorf("delete bid %s: %w", id.String(), err)
	}

	return result.RowsAffected() == 1, nil
}

func (r *bidRepository) UpdateStatusIfTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, from, to entity.BidStatus) (bool, error) {
	query := `UPDATE driver_bids SET status = $3, updated_at = NOW() WHERE id = $1 AND status = $2`

	result, err := tx.Exec(ctx, query, id, from, to)
	if err != nil {
		r.log.Error("Failed to update bid status",
			zap.Error(err),
			zap.String("bid_id", id.String()),
			zap.String("from", string(from)),
			zap.String("to", string(to)),
		)
		return false, fmt.Errorf("update bid %s status %s -> %s: %w", id.String(), string(from), string(to), err)
	}

	return result.RowsAffected() == 1, nil
}

func (r *bidRepository) RejectActiveExceptTx(ctx context.Context, tx pgx.Tx, rideRequestID, acceptedID uuid.UUID) error {
	query := `
		UPDATE driver_bids
		SET status = 'rejected', updated_at = NOW()
		WHERE ride_request_id = $1 AND id <> $2 AND status = 'active'
	`

	_, err := tx.Exec(ctx, query, rideRequestID, acceptedID)
	if err != nil {
		r.log.Error("Failed to reject competing bids",
			zap.Error(err),
			zap.String("ride_request_id", rideRequestID.String()),
			zap.String("accepted_bid_id", acceptedID.String()),
		)
		return fmt.Errorf("reject competing bids for request %s: %w", rideRequestID.String(), err)
	}

	return nil
}
