package usecase

import (
	"context"
	"fmt"
	"math"
	"time"

	"shuttle-booking/internal/data/entity"
	"shuttle-booking/internal/data/repository"
	"shuttle-booking/internal/dto/request"
	"shuttle-booking/internal/dto/response"
	"shuttle-booking/internal/gateway"
	"shuttle-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CheckoutService interface {
	CreateCheckout(ctx context.Context, req *request.CreateCheckoutRequest) (*response.CheckoutResponse, error)
}

type checkoutService struct {
	repo     *repository.Repository
	gw       gateway.PaymentGateway
	settings SettingsService
	config   utils.GatewayConfig
	log      *zap.Logger
}

func NewCheckoutService(
	repo *repository.Repository,
	gw gateway.PaymentGateway,
	settings SettingsService,
	config utils.GatewayConfig,
	log *zap.Logger,
) CheckoutService {
	return &checkoutService{
		repo:     repo,
		gw:       gw,
		settings: settings,
		config:   config,
		log:      log.With(zap.String("service", "checkout")),
	}
}

// Pricing applies discounts in order (miles first, then referral) and never
// lets the charge go below zero.
type pricing struct {
	Subtotal         float64
	MilesDiscount    float64
	ReferralDiscount float64
	Charge           float64
}

func computePricing(unitPrice float64, quantity int, milesAmount int64, pointValue, referralDiscount float64) pricing {
	p := pricing{Subtotal: unitPrice * float64(quantity)}

	if milesAmount > 0 {
		p.MilesDiscount = math.Min(float64(milesAmount)*pointValue, p.Subtotal)
	}
	if referralDiscount > 0 {
		p.ReferralDiscount = math.Min(referralDiscount, p.Subtotal-p.MilesDiscount)
	}

	p.Charge = p.Subtotal - p.MilesDiscount - p.ReferralDiscount
	if p.Charge < 0 {
		p.Charge = 0
	}

	return p
}

func (s *checkoutService) CreateCheckout(ctx context.Context, req *request.CreateCheckoutRequest) (*response.CheckoutResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRequest, utils.FormatValidationErrors(errs))
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: user ID %s", ErrInvalidRequest, req.UserID)
	}

	itemID, err := uuid.Parse(req.ItemID)
	if err != nil {
		return nil, fmt.Errorf("%w: item ID %s", ErrInvalidRequest, req.ItemID)
	}

	item, err := s.repo.Item.FindByID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("load item: %w", err)
	}
	if item == nil {
		return nil, fmt.Errorf("%w: %s", ErrItemNotFound, req.ItemID)
	}
	if item.Status != entity.ItemStatusActive {
		return nil, fmt.Errorf("%w: item %s is %s", ErrItemInactive, req.ItemID, item.Status)
	}

	if item.Kind == entity.ItemKindRoute {
		if req.TimeSlot == "" {
			return nil, fmt.Errorf("%w: time slot is required for route bookings", ErrInvalidRequest)
		}

		// Advisory pre-payment check only; the race-free reservation happens
		// at settlement. This just avoids charging for obviously full slots.
		sold, err := s.repo.Booking.SumConfirmedQuantity(ctx, itemID, req.TimeSlot)
		if err != nil {
			return nil, fmt.Errorf("check slot capacity: %w", err)
		}
		if sold+req.Quantity > item.MaxCapacityPerSlot {
			return nil, fmt.Errorf("%w: slot %s has %d of %d seats sold",
				ErrCapacityExceeded, req.TimeSlot, sold, item.MaxCapacityPerSlot)
		}
	}

	if req.MilesAmount > 0 {
		balance, err := s.repo.Ledger.MilesBalance(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("check miles balance: %w", err)
		}
		if req.MilesAmount > balance {
			return nil, fmt.Errorf("%w: %d miles requested, %d available", ErrInvalidRequest, req.MilesAmount, balance)
		}
	}

	var referralDiscount float64
	var discountType string
	referralCode := req.ReferralCode
	if referralCode != "" {
		owner, found, err := s.repo.Referral.LookupOwner(ctx, referralCode)
		if err != nil {
			return nil, fmt.Errorf("look up referral code: %w", err)
		}
		if !found || owner == userID {
			// Unknown or self-referral codes are ignored, not rejected.
			s.log.Info("Referral code not applied",
				zap.String("code", referralCode),
				zap.Bool("found", found),
			)
			referralCode = ""
		} else {
			referralDiscount = s.settings.ReferralDiscount(ctx)
			discountType = "referral"
		}
	}

	pointValue := s.settings.PointValue(ctx)
	p := computePricing(item.UnitPrice, req.Quantity, req.MilesAmount, pointValue, referralDiscount)

	meta := gateway.Metadata{
		Kind:             item.Kind,
		UserID:           userID,
		ItemID:           itemID,
		TimeSlot:         req.TimeSlot,
		Quantity:         req.Quantity,
		TotalAmount:      p.Subtotal,
		MilesAmount:      req.MilesAmount,
		MilesDiscount:    p.MilesDiscount,
		ReferralCode:     referralCode,
		ReferralDiscount: p.ReferralDiscount,
		DiscountType:     discountType,
	}

	description := fmt.Sprintf("%s | %s", item.Name, item.TravelDate.Format("2006-01-02"))
	if req.TimeSlot != "" {
		description += " | " + req.TimeSlot
	}
	description += fmt.Sprintf(" | x%d", req.Quantity)

	session, err := s.gw.CreateCheckoutSession(ctx, &gateway.SessionRequest{
		AmountCents: int64(math.Round(p.Charge * 100)),
		Currency:    s.config.Currency,
		Description: description,
		SuccessURL:  s.config.SuccessURL,
		CancelURL:   s.config.CancelURL,
		Metadata:    meta.ToMap(),
	})
	if err != nil {
		s.log.Error("Failed to create gateway session",
			zap.Error(err),
			zap.String("user_id", req.UserID),
			zap.String("item_id", req.ItemID),
		)
		return nil, err
	}

	record := &entity.CheckoutSession{
		SessionID:     session.ID,
		UserID:        userID,
		ItemID:        itemID,
		ItemKind:      item.Kind,
		TimeSlot:      req.TimeSlot,
		Quantity:      req.Quantity,
		TotalAmount:   p.Subtotal,
		MilesAmount:   req.MilesAmount,
		MilesDiscount: p.MilesDiscount,
		CreatedAt:     time.Now(),
	}
	if referralCode != "" {
		record.ReferralCode = &referralCode
		record.ReferralDiscount = p.ReferralDiscount
		record.DiscountType = &discountType
	}

	if err := s.repo.Session.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("persist checkout session: %w", err)
	}

	s.log.Info("Checkout session created",
		zap.String("session_id", session.ID),
		zap.String("user_id", req.UserID),
		zap.String("item_id", req.ItemID),
		zap.Int("quantity", req.Quantity),
		zap.Float64("charge", p.Charge),
		zap.Int64("miles_amount", req.MilesAmount),
	)

	return &response.CheckoutResponse{URL: session.URL}, nil
}
