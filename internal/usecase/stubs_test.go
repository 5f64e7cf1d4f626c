package usecase

import (
	"context"

	"shuttle-booking/internal/data/entity"
	"shuttle-booking/internal/data/repository"
	"shuttle-booking/internal/gateway"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// In-memory repository stubs. Each stub records the writes it receives so
// tests can assert on what the service actually did.

type stubItemRepo struct {
	items map[uuid.UUID]*entity.Item
	err   error
}

func (s *stubItemRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Item, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.items[id], nil
}

func (s *stubItemRepo) FindActive(ctx context.Context) ([]*entity.Item, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []*entity.Item
	for _, item := range s.items {
		if item.Status == entity.ItemStatusActive {
			out = append(out, item)
		}
	}
	return out, nil
}

func (s *stubItemRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.ItemStatus) error {
	if item, ok := s.items[id]; ok {
		item.Status = status
	}
	return s.err
}

type stubBookingRepo struct {
	byID      map[uuid.UUID]*entity.Booking
	bySession map[string]*entity.Booking
	confirmed []*entity.Booking
	soldQty   int
	totalQty  int

	slotFull  bool
	duplicate bool
	flipOK    bool

	locked   bool
	inserted []*entity.Booking
	flips    []entity.BookingStatus
}

func (s *stubBookingRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	return s.byID[id], nil
}

func (s *stubBookingRepo) FindBySessionID(ctx context.Context, sessionID string) (*entity.Booking, error) {
	return s.bySession[sessionID], nil
}

func (s *stubBookingRepo) FindConfirmedByItemID(ctx context.Context, itemID uuid.UUID) ([]*entity.Booking, error) {
	return s.confirmed, nil
}

func (s *stubBookingRepo) SumConfirmedQuantity(ctx context.Context, itemID uuid.UUID, timeSlot string) (int, error) {
	return s.soldQty, nil
}

func (s *stubBookingRepo) SumConfirmedTotal(ctx context.Context, itemID uuid.UUID) (int, error) {
	return s.totalQty, nil
}

func (s *stubBookingRepo) LockSlotTx(ctx context.Context, tx pgx.Tx, itemID uuid.UUID, timeSlot string) error {
	s.locked = true
	return nil
}

func (s *stubBookingRepo) InsertConfirmedCapacityTx(ctx context.Context, tx pgx.Tx, b *entity.Booking, maxCapacity int) (bool, error) {
	if s.slotFull || s.duplicate {
		return false, nil
	}
	s.inserted = append(s.inserted, b)
	return true, nil
}

func (s *stubBookingRepo) InsertConfirmedTx(ctx context.Context, tx pgx.Tx, b *entity.Booking) (bool, error) {
	if s.duplicate {
		return false, nil
	}
	s.inserted = append(s.inserted, b)
	return true, nil
}

func (s *stubBookingRepo) UpdateStatusIfTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, from, to entity.BookingStatus) (bool, error) {
	if !s.flipOK {
		return false, nil
	}
	s.flips = append(s.flips, to)
	return true, nil
}

type stubLedgerRepo struct {
	milesBalance  int64
	creditBalance float64
	applied       bool

	milesAppends  []*entity.MilesLedgerEntry
	creditAppends []*entity.CreditLedgerEntry
	refreshed     []uuid.UUID
}

func (s *stubLedgerRepo) AppendMilesTx(ctx context.Context, tx pgx.Tx, e *entity.MilesLedgerEntry) (bool, error) {
	if !s.applied {
		return false, nil
	}
	s.milesAppends = append(s.milesAppends, e)
	return true, nil
}

func (s *stubLedgerRepo) AppendCreditTx(ctx context.Context, tx pgx.Tx, e *entity.CreditLedgerEntry) (bool, error) {
	if !s.applied {
		return false, nil
	}
	s.creditAppends = append(s.creditAppends, e)
	return true, nil
}

func (s *stubLedgerRepo) RefreshWalletTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID) error {
	s.refreshed = append(s.refreshed, userID)
	return nil
}

func (s *stubLedgerRepo) MilesBalance(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.milesBalance, nil
}

func (s *stubLedgerRepo) CreditBalance(ctx context.Context, userID uuid.UUID) (float64, error) {
	return s.creditBalance, nil
}

func (s *stubLedgerRepo) GetWallet(ctx context.Context, userID uuid.UUID) (*entity.Wallet, error) {
	return &entity.Wallet{UserID: userID, MilesBalance: s.milesBalance, CreditBalance: s.creditBalance}, nil
}

func (s *stubLedgerRepo) RecentMilesEntries(ctx context.Context, userID uuid.UUID, limit int) ([]*entity.MilesLedgerEntry, error) {
	return s.milesAppends, nil
}

func (s *stubLedgerRepo) RecentCreditEntries(ctx context.Context, userID uuid.UUID, limit int) ([]*entity.CreditLedgerEntry, error) {
	return s.creditAppends, nil
}

type stubSessionRepo struct {
	sessions map[string]*entity.CheckoutSession
	created  []*entity.CheckoutSession
	consumed []string
}

func (s *stubSessionRepo) Create(ctx context.Context, session *entity.CheckoutSession) error {
	s.created = append(s.created, session)
	return nil
}

func (s *stubSessionRepo) FindByID(ctx context.Context, sessionID string) (*entity.CheckoutSession, error) {
	return s.sessions[sessionID], nil
}

func (s *stubSessionRepo) MarkConsumedTx(ctx context.Context, tx pgx.Tx, sessionID string) error {
	s.consumed = append(s.consumed, sessionID)
	return nil
}

type stubReferralRepo struct {
	owner uuid.UUID
	found bool
	code  string
}

func (s *stubReferralRepo) GetOrCreate(ctx context.Context, userID uuid.UUID, candidate string) (*entity.ReferralCode, error) {
	code := s.code
	if code == "" {
		code = candidate
	}
	return &entity.ReferralCode{UserID: userID, Code: code}, nil
}

func (s *stubReferralRepo) LookupOwner(ctx context.Context, code string) (uuid.UUID, bool, error) {
	return s.owner, s.found, nil
}

type stubBidRepo struct {
	byID map[uuid.UUID]*entity.DriverBid
	bids []*entity.DriverBid

	upserted  []*entity.DriverBid
	flipOK    bool
	flips     []uuid.UUID
	rejected  []uuid.UUID
	deleteOK  bool
	deleted   []uuid.UUID
}

func (s *stubBidRepo) Upsert(ctx context.Context, bid *entity.DriverBid) (*entity.DriverBid, error) {
	s.upserted = append(s.upserted, bid)
	return bid, nil
}

func (s *stubBidRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.DriverBid, error) {
	return s.byID[id], nil
}

func (s *stubBidRepo) ListByRideRequest(ctx context.Context, rideRequestID uuid.UUID) ([]*entity.DriverBid, error) {
	return s.bids, nil
}

func (s *stubBidRepo) DeleteActive(ctx context.Context, id uuid.UUID) (bool, error) {
	if !s.deleteOK {
		return false, nil
	}
	s.deleted = append(s.deleted, id)
	return true, nil
}

func (s *stubBidRepo) UpdateStatusIfTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, from, to entity.BidStatus) (bool, error) {
	if !s.flipOK {
		return false, nil
	}
	s.flips = append(s.flips, id)
	return true, nil
}

func (s *stubBidRepo) RejectActiveExceptTx(ctx context.Context, tx pgx.Tx, rideRequestID, acceptedID uuid.UUID) error {
	s.rejected = append(s.rejected, rideRequestID)
	return nil
}

type stubSettingRepo struct {
	values map[entity.SettingKey]string
}

func (s *stubSettingRepo) Get(ctx context.Context, key entity.SettingKey) (string, error) {
	return s.values[key], nil
}

// stubSettings bypasses the store entirely.
type stubSettings struct {
	pointValue       float64
	registration     int64
	referralReward   int64
	referralDiscount float64
}

func (s *stubSettings) PointValue(ctx context.Context) float64       { return s.pointValue }
func (s *stubSettings) RegistrationBonus(ctx context.Context) int64  { return s.registration }
func (s *stubSettings) ReferralReward(ctx context.Context) int64     { return s.referralReward }
func (s *stubSettings) ReferralDiscount(ctx context.Context) float64 { return s.referralDiscount }

type stubGateway struct {
	session    *gateway.Session
	sessionErr error
	requests   []*gateway.SessionRequest

	refundID  string
	refundErr error
	refunded  []string
}

func (s *stubGateway) CreateCheckoutSession(ctx context.Context, req *gateway.SessionRequest) (*gateway.Session, error) {
	if s.sessionErr != nil {
		return nil, s.sessionErr
	}
	s.requests = append(s.requests, req)
	return s.session, nil
}

func (s *stubGateway) CreateRefund(ctx context.Context, paymentIntentID string) (string, error) {
	if s.refundErr != nil {
		return "", s.refundErr
	}
	s.refunded = append(s.refunded, paymentIntentID)
	return s.refundID, nil
}

func newStubRepository(items *stubItemRepo, bookings *stubBookingRepo, sessions *stubSessionRepo, ledger *stubLedgerRepo, bids *stubBidRepo, referrals *stubReferralRepo) *repository.Repository {
	if items == nil {
		items = &stubItemRepo{items: map[uuid.UUID]*entity.Item{}}
	}
	if bookings == nil {
		bookings = &stubBookingRepo{byID: map[uuid.UUID]*entity.Booking{}, bySession: map[string]*entity.Booking{}}
	}
	if sessions == nil {
		sessions = &stubSessionRepo{sessions: map[string]*entity.CheckoutSession{}}
	}
	if ledger == nil {
		ledger = &stubLedgerRepo{applied: true}
	}
	if bids == nil {
		bids = &stubBidRepo{byID: map[uuid.UUID]*entity.DriverBid{}}
	}
	if referrals == nil {
		referrals = &stubReferralRepo{}
	}

	return &repository.Repository{
		Item:     items,
		Booking:  bookings,
		Session:  sessions,
		Ledger:   ledger,
		Bid:      bids,
		Referral: referrals,
		Setting:  &stubSettingRepo{},
	}
}
