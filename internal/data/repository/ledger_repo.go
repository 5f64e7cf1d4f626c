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

// LedgerRepository owns the miles and credit ledgers plus the cached wallet
// projection. Appends carrying a reference id are applied at most once per
// (user, reference, type); the boolean result reports whether the entry was
// actually written, so callers can skip downstream effects on redelivery.
type LedgerRepository interface {
	AppendMilesTx(ctx context.Context, tx pgx.Tx, entry *entity.MilesLedgerEntry) (bool, error)
	AppendCreditTx(ctx context.Context, tx pgx.Tx, entry *entity.CreditLedgerEntry) (bool, error)
	RefreshWalletTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID) error

	MilesBalance(ctx context.Context, userID uuid.UUID) (int64, error)
	CreditBalance(ctx context.Context, userID uuid.UUID) (float64, error)
	GetWallet(ctx context.Context, userID uuid.UUID) (*entity.Wallet, error)
	RecentMilesEntries(ctx context.Context, userID uuid.UUID, limit int) ([]*entity.MilesLedgerEntry, error)
	RecentCreditEntries(ctx context.Context, userID uuid.UUID, limit int) ([]*entity.CreditLedgerEntry, error)
}

type ledgerRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewLedgerRepository(db database.PgxIface, log *zap.Logger) LedgerRepository {
	return &ledgerRepository{
		db:  db,
		log: log.With(zap.String("repository", "ledger")),
	}
}

func (r *ledgerRepository) AppendMilesTx(ctx context.Context, tx pgx.Tx, e *entity.MilesLedgerEntry) (bool, error) {
	query := `
		INSERT INTO miles_ledger (id, user_id, delta, type, description, reference_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id, reference_id, type) WHERE reference_id IS NOT NULL DO NOTHING
	`

	result, err := tx.Exec(ctx, query,
		e.ID, e.UserID, e.Delta, e.Type, e.Description, e.ReferenceID, e.CreatedAt,
	)
	if err != nil {
		r.log.Error("Failed to append miles ledger entry",
			zap.Error(err),
			zap.String("user_id", e.UserID.String()),
			zap.String("type", string(e.Type)),
			zap.Int64("delta", e.Delta),
		)
		return false, fmt.Errorf("append miles entry for user %s: %w", e.UserID.String(), err)
	}

	return result.RowsAffected() == 1, nil
}

func (r *ledgerRepository) AppendCreditTx(ctx context.Context, tx pgx.Tx, e *entity.CreditLedgerEntry) (bool, error) {
	query := `
		INSERT INTO credit_ledger (id, user_id, amount, type, description, reference_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id, reference_id, type) WHERE reference_id IS NOT NULL DO NOTHING
	`

	result, err := tx.Exec(ctx, query,
		e.ID, e.UserID, e.Amount, e.Type, e.Description, e.ReferenceID, e.CreatedAt,
	)
	if err != nil {
		r.log.Error("Failed to append credit ledger entry",
			zap.Error(err),
			zap.String("user_id", e.UserID.String()),
			zap.String("type", string(e.Type)),
			zap.Float64("amount", e.Amount),
		)
		return false, fmt.Errorf("append credit entry for user %s: %w", e.UserID.String(), err)
	}

	return result.RowsAffected() == 1, nil
}

// RefreshWalletTx recomputes the cached balances from the ledgers inside the
// caller's transaction. The ledger is the source of truth; the wallet row is
// only ever written with sums derived from it.
func (r *ledgerRepository) RefreshWalletTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID) error {
	query := `
		INSERT INTO wallets (user_id, miles_balance, credit_balance, updated_at)
		VALUES (
			$1,
			COALESCE((SELECT SUM(delta) FROM miles_ledger WHERE user_id = $1), 0),
			COALESCE((SELECT SUM(amount) FROM credit_ledger WHERE user_id = $1), 0),
			NOW()
		)
		ON CONFLICT (user_id) DO UPDATE
		SET miles_balance = EXCLUDED.miles_balance,
		    credit_balance = EXCLUDED.credit_balance,
		    updated_at = NOW()
	`

	_, err := tx.Exec(ctx, query, userID)
	if err != nil {
		r.log.Error("Failed to refresh wallet",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return fmt.Errorf("refresh wallet for user %s: %w", userID.String(), err)
	}

	return nil
}

func (r *ledgerRepository) MilesBalance(ctx context.Context, userID uuid.UUID) (int64, error) {
	query := `SELECT COALESCE(SUM(delta), 0) FROM miles_ledger WHERE user_id = $1`

	var balance int64
	err := r.db.QueryRow(ctx, query, userID).Scan(&balance)
	if err != nil {
		r.log.Error("Failed to compute miles balance",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return 0, fmt.Errorf("compute miles balance for user %s: %w", userID.String(), err)
	}

	return balance, nil
}

func (r *ledgerRepository) CreditBalance(ctx context.Context, userID uuid.UUID) (float64, error) {
	query := `SELECT COALESCE(SUM(amount), 0) FROM credit_ledger WHERE user_id = $1`

	var balance float64
	err := r.db.QueryRow(ctx, query, userID).Scan(&balance)
	if err != nil {
		r.log.Error("Failed to compute credit balance",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return 0, fmt.Errorf("compute credit balance for user %s: %w", userID.String(), err)
	}

	return balance, nil
}

func (r *ledgerRepository) GetWallet(ctx context.Context, userID uuid.UUID) (*entity.Wallet, error) {
	query := `SELECT user_id, miles_balance, credit_balance FROM wallets WHERE user_id = $1`

	var w entity.Wallet
	err := r.db.QueryRow(ctx, query, userID).Scan(&w.UserID, &w.MilesBalance, &w.CreditBalance)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to get wallet",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("get wallet for user %s: %w", userID.String(), err)
	}

	return &w, nil
}

func (r *ledgerRepository) RecentMilesEntries(ctx context.Context, userID uuid.UUID, limit int) ([]*entity.MilesLedgerEntry, error) {
	query := `
		SELECT id, user_id, delta, type, description, reference_id, created_at
		FROM miles_ledger
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		r.log.Error("Failed to list miles entries",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("list miles entries for user %s: %w", userID.String(), err)
	}
	defer rows.Close()

	var entries []*entity.MilesLedgerEntry
	for rows.Next() {
		var e entity.MilesLedgerEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Delta, &e.Type, &e.Description, &e.ReferenceID, &e.CreatedAt); err != nil {
			r.log.Error("Failed to scan miles entry row", zap.Error(err))
			return nil, fmt.Errorf("scan miles entry row: %w", err)
		}
		entries = append(entries, &e)
	}

	return entries, nil
}

func (r *ledgerRepository) RecentCreditEntries(ctx context.Context, userID uuid.UUID, limit int) ([]*entity.CreditLedgerEntry, error) {
	query := `
		SELECT id, user_id, amount, type, description, reference_id, created_at
		FROM credit_ledger
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		r.log.Error("Failed to list credit entries",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("list credit entries for user %s: %w", userID.String(), err)
	}
	defer rows.Close()

	var entries []*entity.CreditLedgerEntry
	for rows.Next() {
		var e entity.CreditLedgerEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Amount, &e.Type, &e.Description, &e.ReferenceID, &e.CreatedAt); err != nil {
			r.log.Error("Failed to scan credit entry row", zap.Error(err))
			return nil, fmt.Errorf("scan credit entry row: %w", err)
		}
		entries = append(entries, &e)
	}

	return entries, nil
}
