package usecase

import (
	"context"
	"fmt"
	"time"

	"shuttle-booking/internal/data/entity"
	"shuttle-booking/internal/data/repository"
	"shuttle-booking/internal/dto/request"
	"shuttle-booking/internal/dto/response"
	"shuttle-booking/internal/gateway"
	"shuttle-booking/internal/queue"
	"shuttle-booking/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RefundService reverses confirmed bookings: it refunds the charge at the
// gateway, credits the paid amount to the user's credit ledger, and returns
// any redeemed miles. The confirmed -> refunded status flip is the
// idempotency gate: a booking only ever releases value once.
type RefundService interface {
	ProcessRefund(ctx context.Context, req *request.ProcessRefundRequest) (*response.RefundResponse, error)
}

type refundService struct {
	db   database.PgxIface
	repo *repository.Repository
	gw   gateway.PaymentGateway
	pub  *queue.Publisher
	log  *zap.Logger
}

func NewRefundService(
	db database.PgxIface,
	repo *repository.Repository,
	gw gateway.PaymentGateway,
	pub *queue.Publisher,
	log *zap.Logger,
) RefundService {
	return &refundService{
		db:   db,
		repo: repo,
		gw:   gw,
		pub:  pub,
		log:  log.With(zap.String("service", "refund")),
	}
}

func (s *refundService) ProcessRefund(ctx context.Context, req *request.ProcessRefundRequest) (*response.RefundResponse, error) {
	switch {
	case req.BookingID != "":
		return s.refundSingle(ctx, req.BookingID)
	case req.RouteID != "" && req.RefundAll:
		return s.refundRoute(ctx, req.RouteID)
	default:
		return nil, fmt.Errorf("%w: either bookingId or routeId with refundAll is required", ErrInvalidRequest)
	}
}

func (s *refundService) refundSingle(ctx context.Context, bookingID string) (*response.RefundResponse, error) {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, fmt.Errorf("%w: booking ID %s", ErrInvalidRequest, bookingID)
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load booking: %w", err)
	}
	if booking == nil {
		return nil, fmt.Errorf("%w: %s", ErrBookingNotFound, bookingID)
	}

	if err := s.refundBooking(ctx, booking); err != nil {
		return nil, err
	}

	return &response.RefundResponse{
		Success:  true,
		Message:  fmt.Sprintf("Booking %s refunded", booking.Ref),
		Refunded: 1,
	}, nil
}

// refundRoute reverses every confirmed booking on a route, typically after
// the route is cancelled for missing its minimum threshold. Failures on
// individual bookings are collected, not fatal: the rest still refund.
func (s *refundService) refundRoute(ctx context.Context, routeID string) (*response.RefundResponse, error) {
	itemID, err := uuid.Parse(routeID)
	if err != nil {
		return nil, fmt.Errorf("%w: route ID %s", ErrInvalidRequest, routeID)
	}

	item, err := s.repo.Item.FindByID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("load route: %w", err)
	}
	if item == nil {
		return nil, fmt.Errorf("%w: %s", ErrItemNotFound, routeID)
	}

	bookings, err := s.repo.Booking.FindConfirmedByItemID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("list confirmed bookings: %w", err)
	}

	resp := &response.RefundResponse{Success: true}
	for _, booking := range bookings {
		if err := s.refundBooking(ctx, booking); err != nil {
			s.log.Error("Bulk refund failed for booking",
				zap.Error(err),
				zap.String("booking_id", booking.ID.String()),
				zap.String("item_id", routeID),
			)
			resp.Errors = append(resp.Errors, response.RefundError{
				BookingID: booking.ID.String(),
				Error:     err.Error(),
			})
			continue
		}
		resp.Refunded++
	}

	if len(resp.Errors) > 0 {
		resp.Success = false
		resp.Message = fmt.Sprintf("Refunded %d of %d bookings", resp.Refunded, len(bookings))
	} else {
		resp.Message = fmt.Sprintf("Refunded %d bookings", resp.Refunded)
	}

	return resp, nil
}

func (s *refundService) refundBooking(ctx context.Context, booking *entity.Booking) error {
	if booking.Status != entity.BookingStatusConfirmed {
		return fmt.Errorf("%w: booking %s is %s, only confirmed bookings can be refunded",
			ErrInvalidState, booking.Ref, booking.Status)
	}

	// Gateway first: if the provider refuses, nothing local changes and the
	// booking stays confirmed for a later retry. Bookings without a payment
	// intent (fully covered by discounts) have nothing to reverse remotely.
	if booking.PaymentIntentID != nil {
		refundID, err := s.gw.CreateRefund(ctx, *booking.PaymentIntentID)
		if err != nil {
			return fmt.Errorf("refund payment for booking %s: %w", booking.Ref, err)
		}
		s.log.Info("Gateway refund created",
			zap.String("booking_id", booking.ID.String()),
			zap.String("refund_id", refundID),
		)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin refund transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Conditional flip is the double-release guard: a concurrent refund of
	// the same booking loses this race and credits nothing.
	flipped, err := s.repo.Booking.UpdateStatusIfTx(ctx, tx, booking.ID,
		entity.BookingStatusConfirmed, entity.BookingStatusRefunded)
	if err != nil {
		return err
	}
	if !flipped {
		s.log.Info("Booking already left confirmed state, skipping credit",
			zap.String("booking_id", booking.ID.String()),
		)
		return nil
	}

	ref := booking.ID.String()

	if booking.TotalPrice > 0 {
		if _, err := s.repo.Ledger.AppendCreditTx(ctx, tx, &entity.CreditLedgerEntry{
			BaseSimple:  entity.BaseSimple{ID: uuid.New(), CreatedAt: time.Now()},
			UserID:      booking.UserID,
			Amount:      booking.TotalPrice,
			Type:        entity.CreditEntryRefund,
			Description: fmt.Sprintf("Refund for booking %s", booking.Ref),
			ReferenceID: &ref,
		}); err != nil {
			return err
		}
	}

	if booking.MilesRedeemed > 0 {
		if _, err := s.repo.Ledger.AppendMilesTx(ctx, tx, &entity.MilesLedgerEntry{
			BaseSimple:  entity.BaseSimple{ID: uuid.New(), CreatedAt: time.Now()},
			UserID:      booking.UserID,
			Delta:       booking.MilesRedeemed,
			Type:        entity.MilesEntryRefund,
			Description: fmt.Sprintf("Miles returned for booking %s", booking.Ref),
			ReferenceID: &ref,
		}); err != nil {
			return err
		}
	}

	if err := s.repo.Ledger.RefreshWalletTx(ctx, tx, booking.UserID); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit refund for booking %s: %w", booking.Ref, err)
	}

	s.log.Info("Booking refunded",
		zap.String("booking_id", booking.ID.String()),
		zap.String("booking_ref", booking.Ref),
		zap.String("user_id", booking.UserID.String()),
		zap.Float64("amount_credited", booking.TotalPrice),
		zap.Int64("miles_returned", booking.MilesRedeemed),
	)

	_ = s.pub.Publish(ctx, queue.QueueBookingRefunded, &queue.BookingRefundedEvent{
		BookingID:      booking.ID.String(),
		BookingRef:     booking.Ref,
		UserID:         booking.UserID.String(),
		ItemID:         booking.ItemID.String(),
		AmountCredited: booking.TotalPrice,
		MilesReturned:  booking.MilesRedeemed,
		RefundedAt:     time.Now(),
	})

	return nil
}
