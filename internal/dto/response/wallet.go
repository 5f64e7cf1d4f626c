package response

import (
	"time"

	"shuttle-booking/internal/data/entity"
)

type LedgerEntryResponse struct {
	Delta       float64   `json:"delta"`
	Type        string    `json:"type"`
	Description string    `json:"description,omitempty"`
	ReferenceID *string   `json:"reference_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type WalletResponse struct {
	UserID        string                `json:"user_id"`
	MilesBalance  int64                 `json:"miles_balance"`
	CreditBalance float64               `json:"credit_balance"`
	MilesEntries  []LedgerEntryResponse `json:"miles_entries"`
	CreditEntries []LedgerEntryResponse `json:"credit_entries"`
}

func MilesEntryToResponse(e *entity.MilesLedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		Delta:       float64(e.Delta),
		Type:        string(e.Type),
		Description: e.Description,
		ReferenceID: e.ReferenceID,
		CreatedAt:   e.CreatedAt,
	}
}

func CreditEntryToResponse(e *entity.CreditLedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		Delta:       e.Amount,
		Type:        string(e.Type),
		Description: e.Description,
		ReferenceID: e.ReferenceID,
		CreatedAt:   e.CreatedAt,
	}
}

type SignupBonusResponse struct {
	UserID  string `json:"user_id"`
	Granted bool   `json:"granted"`
	Miles   int64  `json:"miles"`
}

type ReferralCodeResponse struct {
	UserID string `json:"user_id"`
	Code   string `json:"code"`
}
