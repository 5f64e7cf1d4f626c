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

type ItemRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Item, error)
	FindActive(ctx context.Context) ([]*entity.Item, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.ItemStatus) error
}

type itemRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewItemRepository(db database.PgxIface, log *zap.Logger) ItemRepository {
	return &itemRepository{
		db:  db,
		log: log.With(zap.String("repository", "item")),
	}
}

const itemColumns = `id, kind, name, unit_price, travel_date, max_capacity_per_slot, min_threshold, status, created_at, updated_at`

func scanItem(row pgx.Row) (*entity.Item, error) {
	var item entity.Item
	err := row.Scan(
		&item.ID,
		&item.Kind,
		&item.Name,
		&item.UnitPrice,
		&item.TravelDate,
		&item.MaxCapacityPerSlot,
		&item.MinThreshold,
		&item.Status,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1`

	item, err := scanItem(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find item by ID",
			zap.Error(err),
			zap.String("item_id", id.String()),
		)
		return nil, fmt.Errorf("find item by ID %s: %w", id.String(), err)
	}

	return item, nil
}

func (r *itemRepository) FindActive(ctx context.Context) ([]*entity.Item, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM items
		WHERE status = 'active' AND travel_date >= CURRENT_DATE
		ORDER BY travel_date
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to find active items", zap.Error(err))
		return nil, fmt.Errorf("find active items: %w", err)
	}
	defer rows.Close()

	var items []*entity.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			r.log.Error("Failed to scan item row", zap.Error(err))
			return nil, fmt.Errorf("scan item row: %w", err)
		}
		items = append(items, item)
	}

	return items, nil
}

func (r *itemRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.ItemStatus) error {
	query := `UPDATE items SET status = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, status)
	if err != nil {
		r.log.Error("Failed to update item status",
			zap.Error(err),
			zap.String("item_id", id.String()),
			zap.String("status", string(status)),
		)
		return fmt.Errorf("update item %s status to %s: %w", id.String(), string(status), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("item %s not found", id.String())
	}

	return nil
}
