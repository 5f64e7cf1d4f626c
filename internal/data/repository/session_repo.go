package repository

import (
	"context"
	"fmt"

	"shuttle-booking/internal/data/entity"
	"shuttle-booking/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type SessionRepository interface {
	Create(ctx context.Context, session *entity.CheckoutSession) error
	FindByID(ctx context.Context, sessionID string) (*entity.CheckoutSession, error)
	MarkConsumedTx(ctx context.Context, tx pgx.Tx, sessionID string) error
}

type sessionRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewSessionRepository(db database.PgxIface, log *zap.Logger) SessionRepository {
	return &sessionRepository{
		db:  db,
		log: log.With(zap.String("repository", "session")),
	}
}

func (r *sessionRepository) Create(ctx context.Context, s *entity.CheckoutSession) error {
	query := `
		INSERT INTO checkout_sessions (session_id, user_id, item_id, item_kind, time_slot, quantity, total_amount, miles_amount, miles_discount, referral_code, referral_discount, discount_type, paid, settled, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err := r.db.Exec(ctx, query,
		s.SessionID, s.UserID, s.ItemID, s.ItemKind, s.TimeSlot, s.Quantity,
		s.TotalAmount, s.MilesAmount, s.MilesDiscount, s.ReferralCode,
		s.ReferralDiscount, s.DiscountType, s.Paid, s.Settled, s.CreatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create checkout session",
			zap.Error(err),
			zap.String("session_id", s.SessionID),
			zap.String("user_id", s.UserID.String()),
		)
		return fmt.Errorf("create checkout session %s: %w", s.SessionID, err)
	}

	return nil
}

func (r *sessionRepository) FindByID(ctx context.Context, sessionID string) (*entity.CheckoutSession, error) {
	query := `
		SELECT session_id, user_id, item_id, item_kind, time_slot, quantity, total_amount, miles_amount, miles_discount, referral_code, referral_discount, discount_type, paid, settled, created_at
		FROM checkout_sessions
		WHERE session_id = $1
	`

	var s entity.CheckoutSession
	err := r.db.QueryRow(ctx, query, sessionID).Scan(
		&s.SessionID, &s.UserID, &s.ItemID, &s.ItemKind, &s.TimeSlot, &s.Quantity,
		&s.TotalAmount, &s.MilesAmount, &s.MilesDiscount, &s.ReferralCode,
		&s.ReferralDiscount, &s.DiscountType, &s.Paid, &s.Settled, &s.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find checkout session",
			zap.Error(err),
			zap.String("session_id", sessionID),
		)
		return nil, fmt.Errorf("find checkout session %s: %w", sessionID, err)
	}

	return &s, nil
}

func (r *sessionRepository) MarkConsumedTx(ctx context.Context, tx pgx.Tx, sessionID string) error {
	query := `UPDATE checkout_sessions SET paid = TRUE, settled = TRUE WHERE session_id = $1`

	_, err := tx.Exec(ctx, query, sessionID)
	if err != nil {
		r.log.Error("Failed to mark checkout session consumed",
			zap.Error(err),
			zap.String("session_id", sessionID),
		)
		return fmt.Errorf("mark checkout session %s consumed: %w", sessionID, err)
	}

	return nil
}
