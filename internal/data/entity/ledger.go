package entity

import (
	"github.com/google/uuid"
)

type MilesEntryType string

const (
	MilesEntrySignupBonus    MilesEntryType = "signup_bonus"
	MilesEntryReferralReward MilesEntryType = "referral_reward"
	MilesEntryRedeem         MilesEntryType = "redeem"
	MilesEntryRefund         MilesEntryType = "refund"
	MilesEntryAdjustment     MilesEntryType = "adjustment"
)

// MilesLedgerEntry is an append-only record of a mile balance change.
// The sum of Delta across a user's entries is that user's balance; the
// wallets table only caches it. Entries carrying a ReferenceID are applied
// at most once per (user, reference, type).
type MilesLedgerEntry struct {
	BaseSimple
	UserID      uuid.UUID      `db:"user_id"`
	Delta       int64          `db:"delta"`
	Type        MilesEntryType `db:"type"`
	Description string         `db:"description"`
	ReferenceID *string        `db:"reference_id"`
}

type CreditEntryType string

const (
	CreditEntryPurchase   CreditEntryType = "purchase"
	CreditEntryRefund     CreditEntryType = "refund"
	CreditEntryAdjustment CreditEntryType = "adjustment"
)

// CreditLedgerEntry is the dollar-denominated counterpart of
// MilesLedgerEntry, with the same at-most-once-per-reference rule.
type CreditLedgerEntry struct {
	BaseSimple
	UserID      uuid.UUID       `db:"user_id"`
	Amount      float64         `db:"amount"`
	Type        CreditEntryType `db:"type"`
	Description string          `db:"description"`
	ReferenceID *string         `db:"reference_id"`
}

// Wallet caches the ledger sums per user. It is a projection: on any
// divergence the ledger wins and the row is recomputed.
type Wallet struct {
	UserID        uuid.UUID `db:"user_id"`
	MilesBalance  int64     `db:"miles_balance"`
	CreditBalance float64   `db:"credit_balance"`
}
