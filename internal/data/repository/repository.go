package repository

import (
	"shuttle-booking/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	Item     ItemRepository
	Booking  BookingRepository
	Session  SessionRepository
	Ledger   LedgerRepository
	Bid      BidRepository
	Referral ReferralRepository
	Setting  SettingRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		Item:     NewItemRepository(db, log),
		Booking:  NewBookingRepository(db, log),
		Session:  NewSessionRepository(db, log),
		Ledger:   NewLedgerRepository(db, log),
		Bid:      NewBidRepository(db, log),
		Referral: NewReferralRepository(db, log),
		Setting:  NewSettingRepository(db, log),
	}
}
