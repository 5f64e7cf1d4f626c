package usecase

import (
	"context"
	"strconv"
	"time"

	"shuttle-booking/internal/data/entity"
	"shuttle-booking/internal/data/repository"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Defaults applied when a setting is absent from the store.
const (
	defaultPointValue        = 0.01
	defaultRegistrationBonus = 500
	defaultReferralReward    = 250
	defaultReferralDiscount  = 5.0
)

// SettingsService resolves admin-editable system settings. Values are read
// through a short-lived Redis cache so hot paths (every checkout reads
// point_value) do not hit the store; without Redis it degrades to direct
// reads. Business logic receives resolved values and never touches the
// settings table itself.
type SettingsService interface {
	PointValue(ctx context.Context) float64
	RegistrationBonus(ctx context.Context) int64
	ReferralReward(ctx context.Context) int64
	ReferralDiscount(ctx context.Context) float64
}

type settingsService struct {
	repo  repository.SettingRepository
	cache *redis.Client
	ttl   time.Duration
	log   *zap.Logger
}

func NewSettingsService(repo repository.SettingRepository, cache *redis.Client, ttl time.Duration, log *zap.Logger) SettingsService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &settingsService{
		repo:  repo,
		cache: cache,
		ttl:   ttl,
		log:   log.With(zap.String("service", "settings")),
	}
}

func (s *settingsService) PointValue(ctx context.Context) float64 {
	return s.floatSetting(ctx, entity.SettingPointValue, defaultPointValue)
}

func (s *settingsService) RegistrationBonus(ctx context.Context) int64 {
	return s.intSetting(ctx, entity.SettingRegistrationBonus, defaultRegistrationBonus)
}

func (s *settingsService) ReferralReward(ctx context.Context) int64 {
	return s.intSetting(ctx, entity.SettingReferralReward, defaultReferralReward)
}

func (s *settingsService) ReferralDiscount(ctx context.Context) float64 {
	return s.floatSetting(ctx, entity.SettingReferralDiscount, defaultReferralDiscount)
}

func (s *settingsService) rawSetting(ctx context.Context, key entity.SettingKey) string {
	cacheKey := "settings:" + string(key)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			return cached
		}
	}

	value, err := s.repo.Get(ctx, key)
	if err != nil {
		s.log.Warn("Setting lookup failed, using default",
			zap.Error(err),
			zap.String("key", string(key)),
		)
		return ""
	}

	if s.cache != nil && value != "" {
		if err := s.cache.Set(ctx, cacheKey, value, s.ttl).Err(); err != nil {
			s.log.Warn("Setting cache write failed", zap.Error(err), zap.String("key", string(key)))
		}
	}

	return value
}

func (s *settingsService) floatSetting(ctx context.Context, key entity.SettingKey, fallback float64) float64 {
	raw := s.rawSetting(ctx, key)
	if raw == "" {
		return fallback
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		s.log.Warn("Malformed setting value, using default",
			zap.String("key", string(key)),
			zap.String("value", raw),
		)
		return fallback
	}

	return value
}

func (s *settingsService) intSetting(ctx context.Context, key entity.SettingKey, fallback int64) int64 {
	raw := s.rawSetting(ctx, key)
	if raw == "" {
		return fallback
	}

	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		s.log.Warn("Malformed setting value, using default",
			zap.String("key", string(key)),
			zap.String("value", raw),
		)
		return fallback
	}

	return value
}
