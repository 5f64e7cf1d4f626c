// Package usecase holds the business services behind the HTTP handlers.
// Services validate input, orchestrate repositories and the payment gateway,
// and own every transaction boundary.
package usecase

import (
	"time"

	"shuttle-booking/internal/data/repository"
	"shuttle-booking/internal/gateway"
	"shuttle-booking/internal/queue"
	"shuttle-booking/pkg/database"
	"shuttle-booking/pkg/utils"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Service bundles every business service for wiring.
type Service struct {
	Checkout   CheckoutService
	Settlement SettlementService
	Refund     RefundService
	Capacity   CapacityService
	Bid        BidService
	Wallet     WalletService
}

func NewService(
	db database.PgxIface,
	repo *repository.Repository,
	config *utils.Config,
	gw gateway.PaymentGateway,
	rdb *redis.Client,
	pub *queue.Publisher,
	log *zap.Logger,
) *Service {
	settings := NewSettingsService(repo.Setting, rdb, time.Duration(config.Redis.TTLSeconds)*time.Second, log)

	return &Service{
		Checkout:   NewCheckoutService(repo, gw, settings, config.Gateway, log),
		Settlement: NewSettlementService(db, repo, settings, pub, log),
		Refund:     NewRefundService(db, repo, gw, pub, log),
		Capacity:   NewCapacityService(repo, log),
		Bid:        NewBidService(db, repo, log),
		Wallet:     NewWalletService(db, repo, settings, log),
	}
}
