package usecase

import (
	"context"
	"fmt"
	"time"

	"shuttle-booking/internal/data/entity"
	"shuttle-booking/internal/data/repository"
	"shuttle-booking/internal/dto/response"
	"shuttle-booking/pkg/database"
	"shuttle-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const recentEntriesLimit = 20

// WalletService exposes a user's miles and credit position plus the two
// account-lifecycle grants: the one-time signup bonus and the referral code.
type WalletService interface {
	GetWallet(ctx context.Context, userID string) (*response.WalletResponse, error)
	GrantSignupBonus(ctx context.Context, userID string) (*response.SignupBonusResponse, error)
	GetReferralCode(ctx context.Context, userID string) (*response.ReferralCodeResponse, error)
}

type walletService struct {
	db       database.PgxIface
	repo     *repository.Repository
	settings SettingsService
	log      *zap.Logger
}

func NewWalletService(
	db database.PgxIface,
	repo *repository.Repository,
	settings SettingsService,
	log *zap.Logger,
) WalletService {
	return &walletService{
		db:       db,
		repo:     repo,
		settings: settings,
		log:      log.With(zap.String("service", "wallet")),
	}
}

// GetWallet reports balances summed directly from the ledgers, not the cached
// wallet row; the ledgers are the source of truth.
func (s *walletService) GetWallet(ctx context.Context, userID string) (*response.WalletResponse, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: user ID %s", ErrInvalidRequest, userID)
	}

	miles, err := s.repo.Ledger.MilesBalance(ctx, id)
	if err != nil {
		return nil, err
	}

	credit, err := s.repo.Ledger.CreditBalance(ctx, id)
	if err != nil {
		return nil, err
	}

	milesEntries, err := s.repo.Ledger.RecentMilesEntries(ctx, id, recentEntriesLimit)
	if err != nil {
		return nil, err
	}

	creditEntries, err := s.repo.Ledger.RecentCreditEntries(ctx, id, recentEntriesLimit)
	if err != nil {
		return nil, err
	}

	resp := &response.WalletResponse{
		UserID:        userID,
		MilesBalance:  miles,
		CreditBalance: credit,
		MilesEntries:  make([]response.LedgerEntryResponse, 0, len(milesEntries)),
		CreditEntries: make([]response.LedgerEntryResponse, 0, len(creditEntries)),
	}
	for _, e := range milesEntries {
		resp.MilesEntries = append(resp.MilesEntries, response.MilesEntryToResponse(e))
	}
	for _, e := range creditEntries {
		resp.CreditEntries = append(resp.CreditEntries, response.CreditEntryToResponse(e))
	}

	return resp, nil
}

// GrantSignupBonus credits the registration miles bonus at most once per
// user. The ledger's reference key makes retries harmless: the response says
// whether this call actually granted anything.
func (s *walletService) GrantSignupBonus(ctx context.Context, userID string) (*response.SignupBonusResponse, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: user ID %s", ErrInvalidRequest, userID)
	}

	bonus := s.settings.RegistrationBonus(ctx)

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin signup bonus transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	ref := "signup:" + userID
	applied, err := s.repo.Ledger.AppendMilesTx(ctx, tx, &entity.MilesLedgerEntry{
		BaseSimple:  entity.BaseSimple{ID: uuid.New(), CreatedAt: time.Now()},
		UserID:      id,
		Delta:       bonus,
		Type:        entity.MilesEntrySignupBonus,
		Description: "Welcome bonus",
		ReferenceID: &ref,
	})
	if err != nil {
		return nil, err
	}

	if applied {
		if err := s.repo.Ledger.RefreshWalletTx(ctx, tx, id); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit signup bonus for user %s: %w", userID, err)
	}

	if applied {
		s.log.Info("Signup bonus granted",
			zap.String("user_id", userID),
			zap.Int64("miles", bonus),
		)
	}

	return &response.SignupBonusResponse{
		UserID:  userID,
		Granted: applied,
		Miles:   bonus,
	}, nil
}

func (s *walletService) GetReferralCode(ctx context.Context, userID string) (*response.ReferralCodeResponse, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: user ID %s", ErrInvalidRequest, userID)
	}

	code, err := s.repo.Referral.GetOrCreate(ctx, id, utils.GenerateReferralCode())
	if err != nil {
		return nil, err
	}

	return &response.ReferralCodeResponse{
		UserID: userID,
		Code:   code.Code,
	}, nil
}
