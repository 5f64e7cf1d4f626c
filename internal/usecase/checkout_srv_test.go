package usecase

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"shuttle-booking/internal/data/entity"
	"shuttle-booking/internal/dto/request"
	"shuttle-booking/internal/gateway"
	"shuttle-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func testGatewayConfig() utils.GatewayConfig {
	return utils.GatewayConfig{
		Currency:   "usd",
		SuccessURL: "https://example.com/success",
		CancelURL:  "https://example.com/cancel",
	}
}

func testSettings() *stubSettings {
	return &stubSettings{
		pointValue:       0.02,
		registration:     500,
		referralReward:   250,
		referralDiscount: 5.0,
	}
}

func activeRoute(price float64, capacity int) *entity.Item {
	return &entity.Item{
		Base:               entity.Base{ID: uuid.New()},
		Kind:               entity.ItemKindRoute,
		Name:               "Airport Express",
		UnitPrice:          price,
		TravelDate:         time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		MaxCapacityPerSlot: capacity,
		Status:             entity.ItemStatusActive,
	}
}

func TestComputePricing(t *testing.T) {
	tests := []struct {
		name             string
		unitPrice        float64
		quantity         int
		miles            int64
		pointValue       float64
		referralDiscount float64
		wantCharge       float64
		wantMilesDisc    float64
	}{
		{"no discounts", 40, 3, 0, 0.02, 0, 120, 0},
		{"miles discount", 40, 3, 500, 0.02, 0, 110, 10},
		{"miles capped at subtotal", 10, 1, 5000, 0.02, 0, 0, 10},
		{"referral after miles", 40, 3, 500, 0.02, 5, 105, 10},
		{"referral capped by remainder", 10, 1, 400, 0.02, 5, 0, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := computePricing(tt.unitPrice, tt.quantity, tt.miles, tt.pointValue, tt.referralDiscount)
			if math.Abs(p.Charge-tt.wantCharge) > 1e-9 {
				t.Errorf("charge = %v, want %v", p.Charge, tt.wantCharge)
			}
			if math.Abs(p.MilesDiscount-tt.wantMilesDisc) > 1e-9 {
				t.Errorf("miles discount = %v, want %v", p.MilesDiscount, tt.wantMilesDisc)
			}
			if p.Charge < 0 {
				t.Errorf("charge went negative: %v", p.Charge)
			}
		})
	}
}

func TestCreateCheckoutWithMilesRedemption(t *testing.T) {
	item := activeRoute(40, 13)
	userID := uuid.New()

	items := &stubItemRepo{items: map[uuid.UUID]*entity.Item{item.ID: item}}
	bookings := &stubBookingRepo{bySession: map[string]*entity.Booking{}, soldQty: 0}
	sessions := &stubSessionRepo{sessions: map[string]*entity.CheckoutSession{}}
	ledger := &stubLedgerRepo{applied: true, milesBalance: 800}
	repo := newStubRepository(items, bookings, sessions, ledger, nil, nil)

	gw := &stubGateway{session: &gateway.Session{ID: "cs_test_1", URL: "https://pay.example.com/cs_test_1"}}
	svc := NewCheckoutService(repo, gw, testSettings(), testGatewayConfig(), zap.NewNop())

	resp, err := svc.CreateCheckout(context.Background(), &request.CreateCheckoutRequest{
		ItemID:      item.ID.String(),
		UserID:      userID.String(),
		TimeSlot:    "08:00",
		Quantity:    3,
		MilesAmount: 500,
	})
	if err != nil {
		t.Fatalf("CreateCheckout: %v", err)
	}
	if resp.URL != "https://pay.example.com/cs_test_1" {
		t.Errorf("url = %q", resp.URL)
	}

	if len(gw.requests) != 1 {
		t.Fatalf("gateway requests = %d, want 1", len(gw.requests))
	}
	// $40 x 3 minus 500 miles at $0.02 = $110.00
	if got := gw.requests[0].AmountCents; got != 11000 {
		t.Errorf("amount cents = %d, want 11000", got)
	}

	if len(sessions.created) != 1 {
		t.Fatalf("sessions created = %d, want 1", len(sessions.created))
	}
	created := sessions.created[0]
	if created.SessionID != "cs_test_1" || created.MilesAmount != 500 {
		t.Errorf("persisted session = %+v", created)
	}
}

func TestCreateCheckoutOverRedemptionClampsToZero(t *testing.T) {
	item := activeRoute(10, 10)
	userID := uuid.New()

	items := &stubItemRepo{items: map[uuid.UUID]*entity.Item{item.ID: item}}
	ledger := &stubLedgerRepo{applied: true, milesBalance: 5000}
	repo := newStubRepository(items, nil, nil, ledger, nil, nil)

	gw := &stubGateway{session: &gateway.Session{ID: "cs_test_2", URL: "https://pay.example.com/cs_test_2"}}
	svc := NewCheckoutService(repo, gw, testSettings(), testGatewayConfig(), zap.NewNop())

	_, err := svc.CreateCheckout(context.Background(), &request.CreateCheckoutRequest{
		ItemID:      item.ID.String(),
		UserID:      userID.String(),
		TimeSlot:    "08:00",
		Quantity:    1,
		MilesAmount: 5000,
	})
	if err != nil {
		t.Fatalf("CreateCheckout: %v", err)
	}

	if got := gw.requests[0].AmountCents; got != 0 {
		t.Errorf("amount cents = %d, want 0", got)
	}
}

func TestCreateCheckoutRejectsFullSlot(t *testing.T) {
	item := activeRoute(40, 13)

	items := &stubItemRepo{items: map[uuid.UUID]*entity.Item{item.ID: item}}
	bookings := &stubBookingRepo{bySession: map[string]*entity.Booking{}, soldQty: 12}
	repo := newStubRepository(items, bookings, nil, nil, nil, nil)

	gw := &stubGateway{session: &gateway.Session{ID: "cs", URL: "u"}}
	svc := NewCheckoutService(repo, gw, testSettings(), testGatewayConfig(), zap.NewNop())

	_, err := svc.CreateCheckout(context.Background(), &request.CreateCheckoutRequest{
		ItemID:   item.ID.String(),
		UserID:   uuid.New().String(),
		TimeSlot: "08:00",
		Quantity: 2,
	})
	if !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("err = %v, want ErrCapacityExceeded", err)
	}
	if len(gw.requests) != 0 {
		t.Errorf("gateway was called for a full slot")
	}
}

func TestCreateCheckoutRejectsInsufficientMiles(t *testing.T) {
	item := activeRoute(40, 13)

	items := &stubItemRepo{items: map[uuid.UUID]*entity.Item{item.ID: item}}
	ledger := &stubLedgerRepo{applied: true, milesBalance: 100}
	repo := newStubRepository(items, nil, nil, ledger, nil, nil)

	svc := NewCheckoutService(repo, &stubGateway{}, testSettings(), testGatewayConfig(), zap.NewNop())

	_, err := svc.CreateCheckout(context.Background(), &request.CreateCheckoutRequest{
		ItemID:      item.ID.String(),
		UserID:      uuid.New().String(),
		TimeSlot:    "08:00",
		Quantity:    1,
		MilesAmount: 500,
	})
	if !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("err = %v, want ErrInvalidRequest", err)
	}
}

func TestCreateCheckoutRequiresTimeSlotForRoutes(t *testing.T) {
	item := activeRoute(40, 13)

	items := &stubItemRepo{items: map[uuid.UUID]*entity.Item{item.ID: item}}
	repo := newStubRepository(items, nil, nil, nil, nil, nil)

	svc := NewCheckoutService(repo, &stubGateway{}, testSettings(), testGatewayConfig(), zap.NewNop())

	_, err := svc.CreateCheckout(context.Background(), &request.CreateCheckoutRequest{
		ItemID:   item.ID.String(),
		UserID:   uuid.New().String(),
		Quantity: 1,
	})
	if !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("err = %v, want ErrInvalidRequest", err)
	}
}

func TestCreateCheckoutIgnoresSelfReferral(t *testing.T) {
	item := activeRoute(40, 13)
	userID := uuid.New()

	items := &stubItemRepo{items: map[uuid.UUID]*entity.Item{item.ID: item}}
	referrals := &stubReferralRepo{owner: userID, found: true}
	repo := newStubRepository(items, nil, nil, nil, nil, referrals)

	gw := &stubGateway{session: &gateway.Session{ID: "cs", URL: "u"}}
	svc := NewCheckoutService(repo, gw, testSettings(), testGatewayConfig(), zap.NewNop())

	_, err := svc.CreateCheckout(context.Background(), &request.CreateCheckoutRequest{
		ItemID:       item.ID.String(),
		UserID:       userID.String(),
		TimeSlot:     "08:00",
		Quantity:     1,
		ReferralCode: "MYOWNCODE",
	})
	if err != nil {
		t.Fatalf("CreateCheckout: %v", err)
	}

	// Full price, no referral metadata.
	if got := gw.requests[0].AmountCents; got != 4000 {
		t.Errorf("amount cents = %d, want 4000", got)
	}
	if _, ok := gw.requests[0].Metadata["referral_code"]; ok {
		t.Errorf("self-referral code leaked into metadata")
	}
}

func TestCreateCheckoutAppliesReferralDiscount(t *testing.T) {
	item := activeRoute(40, 13)
	owner := uuid.New()

	items := &stubItemRepo{items: map[uuid.UUID]*entity.Item{item.ID: item}}
	referrals := &stubReferralRepo{owner: owner, found: true}
	repo := newStubRepository(items, nil, nil, nil, nil, referrals)

	gw := &stubGateway{session: &gateway.Session{ID: "cs", URL: "u"}}
	svc := NewCheckoutService(repo, gw, testSettings(), testGatewayConfig(), zap.NewNop())

	_, err := svc.CreateCheckout(context.Background(), &request.CreateCheckoutRequest{
		ItemID:       item.ID.String(),
		UserID:       uuid.New().String(),
		TimeSlot:     "08:00",
		Quantity:     1,
		ReferralCode: "FRIEND42",
	})
	if err != nil {
		t.Fatalf("CreateCheckout: %v", err)
	}

	// $40 minus the $5 referral discount.
	if got := gw.requests[0].AmountCents; got != 3500 {
		t.Errorf("amount cents = %d, want 3500", got)
	}
	if gw.requests[0].Metadata["referral_code"] != "FRIEND42" {
		t.Errorf("metadata referral_code = %q", gw.requests[0].Metadata["referral_code"])
	}
}

func TestCreateCheckoutRejectsInactiveItem(t *testing.T) {
	item := activeRoute(40, 13)
	item.Status = entity.ItemStatusCancelled

	items := &stubItemRepo{items: map[uuid.UUID]*entity.Item{item.ID: item}}
	repo := newStubRepository(items, nil, nil, nil, nil, nil)

	svc := NewCheckoutService(repo, &stubGateway{}, testSettings(), testGatewayConfig(), zap.NewNop())

	_, err := svc.CreateCheckout(context.Background(), &request.CreateCheckoutRequest{
		ItemID:   item.ID.String(),
		UserID:   uuid.New().String(),
		TimeSlot: "08:00",
		Quantity: 1,
	})
	if !errors.Is(err, ErrItemInactive) {
		t.Fatalf("err = %v, want ErrItemInactive", err)
	}
}

func TestCreateCheckoutUnknownItem(t *testing.T) {
	repo := newStubRepository(nil, nil, nil, nil, nil, nil)
	svc := NewCheckoutService(repo, &stubGateway{}, testSettings(), testGatewayConfig(), zap.NewNop())

	_, err := svc.CreateCheckout(context.Background(), &request.CreateCheckoutRequest{
		ItemID:   uuid.New().String(),
		UserID:   uuid.New().String(),
		Quantity: 1,
	})
	if !errors.Is(err, ErrItemNotFound) {
		t.Fatalf("err = %v, want ErrItemNotFound", err)
	}
}
