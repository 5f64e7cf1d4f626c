package repository

import (
	"context"
	"fmt"

	"shuttle-booking/internal/data/entity"
	"shuttle-booking/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type SettingRepository interface {
	// Get returns the raw value for a system setting, or "" when unset.
	Get(ctx context.Context, key entity.SettingKey) (string, error)
}

type settingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewSettingRepository(db database.PgxIface, log *zap.Logger) SettingRepository {
	return &settingRepository{
		db:  db,
		log: log.With(zap.String("repository", "setting")),
	}
}

func (r *settingRepository) Get(ctx context.Context, key entity.SettingKey) (string, error) {
	query := `SELECT value FROM system_settings WHERE key = $1`

	var value string
	err := r.db.QueryRow(ctx, query, key).Scan(&value)
	if err == pgx.ErrNoRows {
		return "", nil
	}
	if err != nil {
		r.log.Error("Failed to get system setting",
			zap.Error(err),
			zap.String("key", string(key)),
		)
		return "", fmt.Errorf("get system setting %s: %w", string(key), err)
	}

	return value, nil
}
