package gateway

import (
	"errors"
	"fmt"
	"strconv"

	"shuttle-booking/internal/data/entity"

	"github.com/google/uuid"
)

var ErrInvalidMetadata = errors.New("invalid session metadata")

// Metadata is everything settlement needs, carried opaquely on the gateway
// session. It is a tagged struct in the service and a string map only at the
// transport boundary.
type Metadata struct {
	Kind             entity.ItemKind
	UserID           uuid.UUID
	ItemID           uuid.UUID
	TimeSlot         string
	Quantity         int
	TotalAmount      float64
	MilesAmount      int64
	MilesDiscount    float64
	ReferralCode     string
	ReferralDiscount float64
	DiscountType     string
}

func (m *Metadata) ToMap() map[string]string {
	out := map[string]string{
		"kind":         string(m.Kind),
		"user_id":      m.UserID.String(),
		"item_id":      m.ItemID.String(),
		"quantity":     strconv.Itoa(m.Quantity),
		"total_amount": strconv.FormatFloat(m.TotalAmount, 'f', 2, 64),
	}

	if m.TimeSlot != "" {
		out["time_slot"] = m.TimeSlot
	}
	if m.MilesAmount > 0 {
		out["miles_amount"] = strconv.FormatInt(m.MilesAmount, 10)
		out["miles_discount"] = strconv.FormatFloat(m.MilesDiscount, 'f', 2, 64)
	}
	if m.ReferralCode != "" {
		out["referral_code"] = m.ReferralCode
		out["referral_discount"] = strconv.FormatFloat(m.ReferralDiscount, 'f', 2, 64)
	}
	if m.DiscountType != "" {
		out["discount_type"] = m.DiscountType
	}

	return out
}

func MetadataFromMap(values map[string]string) (*Metadata, error) {
	kind := entity.ItemKind(values["kind"])
	if kind != entity.ItemKindRoute && kind != entity.ItemKindDeal {
		return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidMetadata, values["kind"])
	}

	userID, err := uuid.Parse(values["user_id"])
	if err != nil {
		return nil, fmt.Errorf("%w: user_id: %v", ErrInvalidMetadata, err)
	}

	itemID, err := uuid.Parse(values["item_id"])
	if err != nil {
		return nil, fmt.Errorf("%w: item_id: %v", ErrInvalidMetadata, err)
	}

	quantity, err := strconv.Atoi(values["quantity"])
	if err != nil || quantity < 1 {
		return nil, fmt.Errorf("%w: quantity %q", ErrInvalidMetadata, values["quantity"])
	}

	totalAmount, err := strconv.ParseFloat(values["total_amount"], 64)
	if err != nil {
		return nil, fmt.Errorf("%w: total_amount %q", ErrInvalidMetadata, values["total_amount"])
	}

	m := &Metadata{
		Kind:         kind,
		UserID:       userID,
		ItemID:       itemID,
		TimeSlot:     values["time_slot"],
		Quantity:     quantity,
		TotalAmount:  totalAmount,
		ReferralCode: values["referral_code"],
		DiscountType: values["discount_type"],
	}

	if raw, ok := values["miles_amount"]; ok {
		m.MilesAmount, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: miles_amount %q", ErrInvalidMetadata, raw)
		}
	}
	if raw, ok := values["miles_discount"]; ok {
		m.MilesDiscount, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: miles_discount %q", ErrInvalidMetadata, raw)
		}
	}
	if raw, ok := values["referral_discount"]; ok {
		m.ReferralDiscount, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: referral_discount %q", ErrInvalidMetadata, raw)
		}
	}

	return m, nil
}
