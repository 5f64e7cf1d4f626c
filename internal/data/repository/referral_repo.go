package repository

import (
	"context"
	"fmt"
	"time"

	"shuttle-booking/internal/data/entity"
	"shuttle-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ReferralRepository interface {
	// GetOrCreate returns the user's referral code, creating it with the
	// supplied candidate code when none exists yet. Concurrent calls for the
	// same user converge on one row.
	GetOrCreate(ctx context.Context, userID uuid.UUID, candidate string) (*entity.ReferralCode, error)
	LookupOwner(ctx context.Context, code string) (uuid.UUID, bool, error)
}

type referralRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewReferralRepository(db database.PgxIface, log *zap.Logger) ReferralRepository {
	return &referralRepository{
		db:  db,
		log: log.With(zap.String("repository", "referral")),
	}
}

func (r *referralRepository) GetOrCreate(ctx context.Context, userID uuid.UUID, candidate string) (*entity.ReferralCode, error) {
	insert := `
		INSERT INTO referral_codes (user_id, code, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO NOTHING
	`

	if _, err := r.db.Exec(ctx, insert, userID, candidate, time.Now()); err != nil {
		r.log.Error("Failed to insert referral code",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("insert referral code for user %s: %w", userID.String(), err)
	}

	query := `SELECT user_id, code, created_at FROM referral_codes WHERE user_id = $1`

	var rc entity.ReferralCode
	err := r.db.QueryRow(ctx, query, userID).Scan(&rc.UserID, &rc.Code, &rc.CreatedAt)
	if err != nil {
		r.log.Error("Failed to load referral code",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("load referral code for user %s: %w", userID.String(), err)
	}

	return &rc, nil
}

func (r *referralRepository) LookupOwner(ctx context.Context, code string) (uuid.UUID, bool, error) {
	query := `SELECT user_id FROM referral_codes WHERE code = $1`

	var owner uuid.UUID
	err := r.db.QueryRow(ctx, query, code).Scan(&owner)
	if err == pgx.ErrNoRows {
		return uuid.Nil, false, nil
	}
	if err != nil {
		r.log.Error("Failed to look up referral code owner",
			zap.Error(err),
			zap.String("code", code),
		)
		return uuid.Nil, false, fmt.Errorf("look up referral code %s: %w", code, err)
	}

	return owner, true, nil
}
