package entity

import (
	"time"

	"github.com/google/uuid"
)

type ReferralCode struct {
	UserID    uuid.UUID `db:"user_id"`
	Code      string    `db:"code"`
	CreatedAt time.Time `db:"created_at"`
}
