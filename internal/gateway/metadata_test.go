package gateway

import (
	"errors"
	"testing"

	"shuttle-booking/internal/data/entity"

	"github.com/google/uuid"
)

func TestMetadataRoundTrip(t *testing.T) {
	in := Metadata{
		Kind:             entity.ItemKindRoute,
		UserID:           uuid.New(),
		ItemID:           uuid.New(),
		TimeSlot:         "08:00",
		Quantity:         3,
		TotalAmount:      120,
		MilesAmount:      500,
		MilesDiscount:    10,
		ReferralCode:     "FRIEND42",
		ReferralDiscount: 5,
		DiscountType:     "referral",
	}

	out, err := MetadataFromMap(in.ToMap())
	if err != nil {
		t.Fatalf("MetadataFromMap: %v", err)
	}

	if *out != in {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", *out, in)
	}
}

func TestMetadataOmitsEmptyOptionals(t *testing.T) {
	in := Metadata{
		Kind:        entity.ItemKindDeal,
		UserID:      uuid.New(),
		ItemID:      uuid.New(),
		Quantity:    1,
		TotalAmount: 25,
	}

	m := in.ToMap()
	for _, key := range []string{"time_slot", "miles_amount", "referral_code", "discount_type"} {
		if _, ok := m[key]; ok {
			t.Errorf("empty optional %q present in map", key)
		}
	}

	out, err := MetadataFromMap(m)
	if err != nil {
		t.Fatalf("MetadataFromMap: %v", err)
	}
	if out.MilesAmount != 0 || out.TimeSlot != "" {
		t.Errorf("optionals not zero: %+v", out)
	}
}

func TestMetadataFromMapRejectsBadInput(t *testing.T) {
	valid := Metadata{
		Kind:        entity.ItemKindRoute,
		UserID:      uuid.New(),
		ItemID:      uuid.New(),
		TimeSlot:    "08:00",
		Quantity:    1,
		TotalAmount: 40,
	}

	corrupt := func(key, value string) map[string]string {
		m := valid.ToMap()
		m[key] = value
		return m
	}

	cases := map[string]map[string]string{
		"unknown kind":  corrupt("kind", "flight"),
		"bad user id":   corrupt("user_id", "xyz"),
		"bad quantity":  corrupt("quantity", "zero"),
		"zero quantity": corrupt("quantity", "0"),
		"bad amount":    corrupt("total_amount", "lots"),
	}

	for name, m := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := MetadataFromMap(m); !errors.Is(err, ErrInvalidMetadata) {
				t.Errorf("err = %v, want ErrInvalidMetadata", err)
			}
		})
	}
}
