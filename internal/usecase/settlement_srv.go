package usecase

import (
	"context"
	"fmt"
	"time"

	"shuttle-booking/internal/data/entity"
	"shuttle-booking/internal/data/repository"
	"shuttle-booking/internal/gateway"
	"shuttle-booking/internal/queue"
	"shuttle-booking/pkg/database"
	"shuttle-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// SettlementService turns a paid checkout session into a confirmed booking.
// Settlement must be idempotent (the gateway redelivers webhooks) and atomic:
// either the booking row, the miles movements, and the session consumption all
// commit together, or none of them do.
type SettlementService interface {
	SettleCheckout(ctx context.Context, event *gateway.Event) error
}

type settlementService struct {
	db       database.PgxIface
	repo     *repository.Repository
	settings SettingsService
	pub      *queue.Publisher
	log      *zap.Logger
}

func NewSettlementService(
	db database.PgxIface,
	repo *repository.Repository,
	settings SettingsService,
	pub *queue.Publisher,
	log *zap.Logger,
) SettlementService {
	return &settlementService{
		db:       db,
		repo:     repo,
		settings: settings,
		pub:      pub,
		log:      log.With(zap.String("service", "settlement")),
	}
}

func (s *settlementService) SettleCheckout(ctx context.Context, event *gateway.Event) error {
	if event.Type != gateway.EventCheckoutCompleted {
		s.log.Debug("Ignoring webhook event", zap.String("type", event.Type))
		return nil
	}

	sessionID := event.Data.Object.ID
	if sessionID == "" {
		return fmt.Errorf("%w: event %s has no session ID", ErrInvalidRequest, event.ID)
	}

	// Fast path for redeliveries: if the session already settled there is
	// nothing to do. The unique index on session_id still guards the race
	// where two deliveries pass this check at once.
	existing, err := s.repo.Booking.FindBySessionID(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("check for settled session: %w", err)
	}
	if existing != nil {
		s.log.Info("Session already settled, skipping",
			zap.String("session_id", sessionID),
			zap.String("booking_id", existing.ID.String()),
		)
		return nil
	}

	meta, err := gateway.MetadataFromMap(event.Data.Object.Metadata)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	// The payment is already captured, so a missing or deactivated item does
	// not abort settlement; the booking is flagged for manual review instead.
	item, err := s.repo.Item.FindByID(ctx, meta.ItemID)
	if err != nil {
		return fmt.Errorf("load item for settlement: %w", err)
	}

	booking := buildBooking(sessionID, event.Data.Object.PaymentIntent, meta)
	if item == nil {
		s.log.Warn("Settling session for unknown item, flagging for review",
			zap.String("session_id", sessionID),
			zap.String("item_id", meta.ItemID.String()),
		)
		booking.NeedsReview = true
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin settlement transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	capacityChecked := meta.Kind == entity.ItemKindRoute && item != nil && item.MaxCapacityPerSlot > 0

	var inserted bool
	if capacityChecked {
		// Serialize settlements for the slot so the capacity sum inside the
		// insert cannot race a concurrent settlement.
		if err := s.repo.Booking.LockSlotTx(ctx, tx, meta.ItemID, meta.TimeSlot); err != nil {
			return err
		}

		inserted, err = s.repo.Booking.InsertConfirmedCapacityTx(ctx, tx, booking, item.MaxCapacityPerSlot)
		if err != nil {
			return err
		}

		if !inserted {
			// Either the slot is full or the session settled concurrently.
			// Retry without the capacity guard: a duplicate session still
			// inserts nothing, a full slot settles flagged since the money
			// was already taken.
			booking.NeedsReview = true
			inserted, err = s.repo.Booking.InsertConfirmedTx(ctx, tx, booking)
			if err != nil {
				return err
			}
			if inserted {
				s.log.Warn("Slot over capacity at settlement, booking flagged for review",
					zap.String("session_id", sessionID),
					zap.String("item_id", meta.ItemID.String()),
					zap.String("time_slot", meta.TimeSlot),
					zap.Int("quantity", meta.Quantity),
				)
			}
		}
	} else {
		inserted, err = s.repo.Booking.InsertConfirmedTx(ctx, tx, booking)
		if err != nil {
			return err
		}
	}

	if !inserted {
		s.log.Info("Session settled concurrently, skipping",
			zap.String("session_id", sessionID),
		)
		return nil
	}

	if meta.MilesAmount > 0 {
		if err := s.redeemMiles(ctx, tx, booking, meta); err != nil {
			return err
		}
	}

	if meta.ReferralCode != "" {
		if err := s.rewardReferrer(ctx, tx, booking, meta); err != nil {
			return err
		}
	}

	if err := s.repo.Session.MarkConsumedTx(ctx, tx, sessionID); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit settlement for session %s: %w", sessionID, err)
	}

	s.log.Info("Booking settled",
		zap.String("booking_id", booking.ID.String()),
		zap.String("booking_ref", booking.Ref),
		zap.String("session_id", sessionID),
		zap.String("user_id", booking.UserID.String()),
		zap.Float64("total_price", booking.TotalPrice),
		zap.Bool("needs_review", booking.NeedsReview),
	)

	// Publish failures never fail a committed settlement.
	_ = s.pub.Publish(ctx, queue.QueueBookingConfirmed, &queue.BookingConfirmedEvent{
		BookingID:     booking.ID.String(),
		BookingRef:    booking.Ref,
		UserID:        booking.UserID.String(),
		ItemID:        booking.ItemID.String(),
		ItemKind:      string(booking.ItemKind),
		TimeSlot:      booking.TimeSlot,
		Quantity:      booking.Quantity,
		TotalPrice:    booking.TotalPrice,
		MilesRedeemed: booking.MilesRedeemed,
		NeedsReview:   booking.NeedsReview,
		ConfirmedAt:   time.Now(),
	})

	return nil
}

func buildBooking(sessionID, paymentIntent string, meta *gateway.Metadata) *entity.Booking {
	now := time.Now()

	totalPrice := meta.TotalAmount - meta.MilesDiscount - meta.ReferralDiscount
	if totalPrice < 0 {
		totalPrice = 0
	}

	b := &entity.Booking{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Ref:           utils.GenerateBookingRef(),
		SessionID:     sessionID,
		UserID:        meta.UserID,
		ItemID:        meta.ItemID,
		ItemKind:      meta.Kind,
		TimeSlot:      meta.TimeSlot,
		Quantity:      meta.Quantity,
		TotalPrice:    totalPrice,
		Status:        entity.BookingStatusConfirmed,
		MilesRedeemed: meta.MilesAmount,
	}

	if paymentIntent != "" {
		b.PaymentIntentID = &paymentIntent
	}
	if meta.ReferralCode != "" {
		code := meta.ReferralCode
		b.DiscountCode = &code
		b.DiscountAmount = meta.ReferralDiscount
	}
	if meta.DiscountType != "" {
		discountType := meta.DiscountType
		b.DiscountType = &discountType
	}

	return b
}

// redeemMiles debits the redeemed miles, keyed on the session so a redelivery
// that somehow reaches this point cannot debit twice.
func (s *settlementService) redeemMiles(ctx context.Context, tx pgx.Tx, booking *entity.Booking, meta *gateway.Metadata) error {
	ref := booking.SessionID
	applied, err := s.repo.Ledger.AppendMilesTx(ctx, tx, &entity.MilesLedgerEntry{
		BaseSimple:  entity.BaseSimple{ID: uuid.New(), CreatedAt: time.Now()},
		UserID:      booking.UserID,
		Delta:       -meta.MilesAmount,
		Type:        entity.MilesEntryRedeem,
		Description: fmt.Sprintf("Redeemed on booking %s", booking.Ref),
		ReferenceID: &ref,
	})
	if err != nil {
		return err
	}
	if !applied {
		s.log.Warn("Miles redemption already recorded",
			zap.String("session_id", booking.SessionID),
			zap.String("user_id", booking.UserID.String()),
		)
		return nil
	}

	return s.repo.Ledger.RefreshWalletTx(ctx, tx, booking.UserID)
}

// rewardReferrer credits the code owner's miles. Unknown and self-referral
// codes are skipped silently; the discount was already priced at checkout.
func (s *settlementService) rewardReferrer(ctx context.Context, tx pgx.Tx, booking *entity.Booking, meta *gateway.Metadata) error {
	owner, found, err := s.repo.Referral.LookupOwner(ctx, meta.ReferralCode)
	if err != nil {
		return err
	}
	if !found || owner == booking.UserID {
		return nil
	}

	reward := s.settings.ReferralReward(ctx)
	if reward <= 0 {
		return nil
	}

	ref := booking.SessionID
	applied, err := s.repo.Ledger.AppendMilesTx(ctx, tx, &entity.MilesLedgerEntry{
		BaseSimple:  entity.BaseSimple{ID: uuid.New(), CreatedAt: time.Now()},
		UserID:      owner,
		Delta:       reward,
		Type:        entity.MilesEntryReferralReward,
		Description: fmt.Sprintf("Referral reward for code %s", meta.ReferralCode),
		ReferenceID: &ref,
	})
	if err != nil {
		return err
	}
	if !applied {
		return nil
	}

	return s.repo.Ledger.RefreshWalletTx(ctx, tx, owner)
}
