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

type BookingRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	FindBySessionID(ctx context.Context, sessionID string) (*entity.Booking, error)
	FindConfirmedByItemID(ctx context.Context, itemID uuid.UUID) ([]*entity.Booking, error)
	SumConfirmedQuantity(ctx context.Context, itemID uuid.UUID, timeSlot string) (int, error)
	SumConfirmedTotal(ctx context.Context, itemID uuid.UUID) (int, error)

	// Transactional operations used by settlement and refund.
	LockSlotTx(ctx context.Context, tx pgx.Tx, itemID uuid.UUID, timeSlot string) error
	InsertConfirmedCapacityTx(ctx context.Context, tx pgx.Tx, booking *entity.Booking, maxCapacity int) (bool, error)
	InsertConfirmedTx(ctx context.Context, tx pgx.Tx, booking *entity.Booking) (bool, error)
	UpdateStatusIfTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, from, to entity.BookingStatus) (bool, error)
}

type bookingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookingRepository(db database.PgxIface, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

const bookingColumns = `id, ref, session_id, user_id, item_id, item_kind, time_slot, quantity, total_price, status, payment_intent_id, miles_redeemed, discount_code, discount_amount, discount_type, needs_review, created_at, updated_at`

func scanBooking(row pgx.Row) (*entity.Booking, error) {
	var b entity.Booking
	err := row.Scan(
		&b.ID,
		&b.Ref,
		&b.SessionID,
		&b.UserID,
		&b.ItemID,
		&b.ItemKind,
		&b.TimeSlot,
		&b.Quantity,
		&b.TotalPrice,
		&b.Status,
		&b.PaymentIntentID,
		&b.MilesRedeemed,
		&b.DiscountCode,
		&b.DiscountAmount,
		&b.DiscountType,
		&b.NeedsReview,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking by ID %s: %w", id.String(), err)
	}

	return booking, nil
}

func (r *bookingRepository) FindBySessionID(ctx context.Context, sessionID string) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE session_id = $1`

	booking, err := scanBooking(r.db.QueryRow(ctx, query, sessionID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by session ID",
			zap.Error(err),
			zap.String("session_id", sessionID),
		)
		return nil, fmt.Errorf("find booking by session ID %s: %w", sessionID, err)
	}

	return booking, nil
}

func (r *bookingRepository) FindConfirmedByItemID(ctx context.Context, itemID uuid.UUID) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE item_id = $1 AND status = 'confirmed'
		ORDER BY created_at
	`

	rows, err := r.db.Query(ctx, query, itemID)
	if err != nil {
		r.log.Error("Failed to find confirmed bookings by item ID",
			zap.Error(err),
			zap.String("item_id", itemID.String()),
		)
		return nil, fmt.Errorf("find confirmed bookings by item ID %s: %w", itemID.String(), err)
	}
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			r.log.Error("Failed to scan booking row", zap.Error(err))
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, booking)
	}

	return bookings, nil
}

func (r *bookingRepository) SumConfirmedQuantity(ctx context.Context, itemID uuid.UUID, timeSlot string) (int, error) {
	query := `
		SELECT COALESCE(SUM(quantity), 0)
		FROM bookings
		WHERE item_id = $1 AND time_slot = $2 AND status IN ('confirmed', 'completed')
	`

	var sum int
	err := r.db.QueryRow(ctx, query, itemID, timeSlot).Scan(&sum)
	if err != nil {
		r.log.Error("Failed to sum confirmed quantity",
			zap.Error(err),
			zap.String("item_id", itemID.String()),
			zap.String("time_slot", timeSlot),
		)
		return 0, fmt.Errorf("sum confirmed quantity for item %s slot %s: %w", itemID.String(), timeSlot, err)
	}

	return sum, nil
}

func (r *bookingRepository) SumConfirmedTotal(ctx context.Context, itemID uuid.UUID) (int, error) {
	query := `
		SELECT COALESCE(SUM(quantity), 0)
		FROM bookings
		WHERE item_id = $1 AND status IN ('confirmed', 'completed')
	`

	var sum int
	err := r.db.QueryRow(ctx, query, itemID).Scan(&sum)
	if err != nil {
		r.log.Error("Failed to sum confirmed total",
			zap.Error(err),
			zap.String("item_id", itemID.String()),
		)
		return 0, fmt.Errorf("sum confirmed total for item %s: %w", itemID.String(), err)
	}

	return sum, nil
}

// LockSlotTx takes a transaction-scoped advisory lock on the (item, slot)
// pair. Concurrent settlements for the same slot serialize here, which makes
// the recomputed-sum capacity check in InsertConfirmedCapacityTx race-free.
func (r *bookingRepository) LockSlotTx(ctx context.Context, tx pgx.Tx, itemID uuid.UUID, timeSlot string) error {
	_, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1), hashtext($2))`, itemID.String(), timeSlot)
	if err != nil {
		return fmt.Errorf("lock slot %s/%s: %w", itemID.String(), timeSlot, err)
	}
	return nil
}

const insertBookingColumns = `id, ref, session_id, user_id, item_id, item_kind, time_slot, quantity, total_price, status, payment_intent_id, miles_redeemed, discount_code, discount_amount, discount_type, needs_review, created_at, updated_at`

// InsertConfirmedCapacityTx inserts a confirmed booking only if the slot's
// confirmed+completed quantity, recomputed inside the same statement, stays
// within maxCapacity. The session_id unique index absorbs duplicate webhook
// deliveries. Returns false when nothing was inserted, either because the
// slot is full or because the session already settled; callers disambiguate
// via InsertConfirmedTx and FindBySessionID.
func (r *bookingRepository) InsertConfirmedCapacityTx(ctx context.Context, tx pgx.Tx, b *entity.Booking, maxCapacity int) (bool, error) {
	query := `
		INSERT INTO bookings (` + insertBookingColumns + `)
		SELECT $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18
		WHERE (
			SELECT COALESCE(SUM(quantity), 0)
			FROM bookings
			WHERE item_id = $5 AND time_slot = $7 AND status IN ('confirmed', 'completed')
		) + $8 <= $19
		ON CONFLICT (session_id) DO NOTHING
	`

	result, err := tx.Exec(ctx, query,
		b.ID, b.Ref, b.SessionID, b.UserID, b.ItemID, b.ItemKind, b.TimeSlot,
		b.Quantity, b.TotalPrice, b.Status, b.PaymentIntentID, b.MilesRedeemed,
		b.DiscountCode, b.DiscountAmount, b.DiscountType, b.NeedsReview,
		b.CreatedAt, b.UpdatedAt, maxCapacity,
	)
	if err != nil {
		r.log.Error("Failed to insert capacity-checked booking",
			zap.Error(err),
			zap.String("session_id", b.SessionID),
			zap.String("item_id", b.ItemID.String()),
			zap.String("time_slot", b.TimeSlot),
		)
		return false, fmt.Errorf("insert booking for session %s: %w", b.SessionID, err)
	}

	return result.RowsAffected() == 1, nil
}

// InsertConfirmedTx inserts a confirmed booking without a capacity guard.
// Used for deals and for over-capacity settlements flagged needs_review.
func (r *bookingRepository) InsertConfirmedTx(ctx context.Context, tx pgx.Tx, b *entity.Booking) (bool, error) {
	query := `
		INSERT INTO bookings (` + insertBookingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		ON CONFLICT (session_id) DO NOTHING
	`

	result, err := tx.Exec(ctx, query,
		b.ID, b.Ref, b.SessionID, b.UserID, b.ItemID, b.ItemKind, b.TimeSlot,
		b.Quantity, b.TotalPrice, b.Status, b.PaymentIntentID, b.MilesRedeemed,
		b.DiscountCode, b.DiscountAmount, b.DiscountType, b.NeedsReview,
		b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to insert booking",
			zap.Error(err),
			zap.String("session_id", b.SessionID),
		)
		return false, fmt.Errorf("insert booking for session %s: %w", b.SessionID, err)
	}

	return result.RowsAffected() == 1, nil
}

// UpdateStatusIfTx flips a booking's status only when it still holds the
// expected current status. Refunds rely on this as their double-release
// guard: the second attempt matches zero rows.
func (r *bookingRepository) UpdateStatusIfTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, from, to entity.BookingStatus) (bool, error) {
	query := `UPDATE bookings SET status = $3, updated_at = NOW() WHERE id = $1 AND status = $2`

	result, err := tx.Exec(ctx, query, id, from, to)
	if err != nil {
		r.log.Error("Failed to update booking status",
			zap.Error(err),
			zap.String("booking_id", id.String()),
			zap.String("from", string(from)),
			zap.String("to", string(to)),
		)
		return false, fmt.Errorf("update booking %s status %s -> %s: %w", id.String(), string(from), string(to), err)
	}

	return result.RowsAffected() == 1, nil
}
