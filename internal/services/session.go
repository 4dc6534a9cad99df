package services

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/edital360/portal/internal/logging"
	"github.com/edital360/portal/internal/models"
	"github.com/edital360/portal/internal/observability"
	"github.com/edital360/portal/internal/redisclient"
)

const (
	sessionKeyPrefix  = "session:"
	cooldownKeyPrefix = "reset_cooldown:"
)

// SessionService mirrors issued tokens in Redis, keyed by CPF, and tracks
// the password-reset resend cooldown. The cookie remains the source of
// truth for authentication; the mirror makes server-side logout possible.
type SessionService struct {
	redis         *redisclient.Client
	tokenTTL      time.Duration
	resetCooldown time.Duration
	logger        *logging.SafeLogger
}

// NewSessionService creates a session service
func NewSessionService(redisClient *redisclient.Client, tokenTTL, resetCooldown time.Duration, logger *logging.SafeLogger) *SessionService {
	return &SessionService{
		redis:         redisClient,
		tokenTTL:      tokenTTL,
		resetCooldown: resetCooldown,
		logger:        logger,
	}
}

// Remember mirrors a freshly issued token for the user
func (s *SessionService) Remember(ctx context.Context, cpf, token string) error {
	err := s.redis.Set(ctx, sessionKeyPrefix+cpf, token, s.tokenTTL).Err()
	if err != nil {
		s.logger.Warn("failed to mirror session",
			zap.String("cpf", observability.MaskCPF(cpf)),
			zap.Error(err))
	}
	return err
}

// Forget drops the user's mirrored session
func (s *SessionService) Forget(ctx context.Context, cpf string) error {
	return s.redis.Del(ctx, sessionKeyPrefix+cpf).Err()
}

// Active reports whether the user still has a mirrored session. A token that
// was issued but later forgotten server-side counts as expired.
func (s *SessionService) Active(ctx context.Context, cpf, token string) (bool, error) {
	stored, err := s.redis.Get(ctx, sessionKeyPrefix+cpf).Result()
	if err == redis.Nil {
		return false, models.ErrSessionExpired
	}
	if err != nil {
		return false, err
	}
	return stored == token, nil
}

// TryResetRequest claims the resend cooldown slot for an email address.
// When the slot is already taken it returns the remaining wait, derived
// from the key's TTL.
func (s *SessionService) TryResetRequest(ctx context.Context, email string) (bool, time.Duration, error) {
	key := cooldownKeyPrefix + email

	acquired, err := s.redis.SetNX(ctx, key, time.Now().Unix(), s.resetCooldown).Result()
	if err != nil {
		return false, 0, err
	}
	if acquired {
		return true, 0, nil
	}

	remaining, err := s.redis.TTL(ctx, key).Result()
	if err != nil {
		return false, 0, err
	}
	if remaining < 0 {
		remaining = 0
	}
	return false, remaining, nil
}
