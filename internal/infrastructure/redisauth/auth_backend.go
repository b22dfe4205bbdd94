package redisauth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-live-inventory/pkg/helpers"
)

const (
	ProviderCustomToken = "custom_token"
	ProviderAnonymous   = "anonymous"
)

var ErrInvalidCustomToken = errors.New("invalid custom token")

// AnonymousKey holds the stable anonymous uid of an application.
func AnonymousKey(appID string) string { return "auth:anonymous:" + appID }

// SessionKey holds the session hash of a signed-in user.
func SessionKey(uid string) string { return "user:session:" + uid }

// Backend signs users in against Redis: custom tokens are verified with the
// JWT manager, anonymous sign-in reuses one uid per application.
type Backend struct {
	rdb        *redis.Client
	jwt        *helpers.JWTManager
	appID      string
	sessionTTL time.Duration
	logger     *logrus.Logger

	newID func() string
	now   func() time.Time
}

func NewBackend(rdb *redis.Client, jwt *helpers.JWTManager, appID string, sessionTTL time.Duration, logger *logrus.Logger) *Backend {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Backend{
		rdb:        rdb,
		jwt:        jwt,
		appID:      appID,
		sessionTTL: sessionTTL,
		logger:     logger,
		newID:      uuid.NewString,
		now:        time.Now,
	}
}

func (b *Backend) SignInWithCustomToken(ctx context.Context, token string) (string, error) {
	if b.jwt == nil {
		return "", fmt.Errorf("%w: no signing secret configured", ErrInvalidCustomToken)
	}
	claims, err := b.jwt.ParseCustomToken(token)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidCustomToken, err)
	}
	if err := b.recordSession(ctx, claims.UserID, ProviderCustomToken); err != nil {
		return "", err
	}
	return claims.UserID, nil
}

func (b *Backend) SignInAnonymously(ctx context.Context) (string, error) {
	key := AnonymousKey(b.appID)
	if _, err := b.rdb.SetNX(ctx, key, b.newID(), 0).Result(); err != nil {
		return "", err
	}
	uid, err := b.rdb.Get(ctx, key).Result()
	if err != nil {
		return "", err
	}
	if err := b.recordSession(ctx, uid, ProviderAnonymous); err != nil {
		return "", err
	}
	return uid, nil
}

func (b *Backend) recordSession(ctx context.Context, uid, provider string) error {
	err := helpers.RedisSetHash(ctx, b.rdb, SessionKey(uid), map[string]any{
		"user_id":      uid,
		"app_id":       b.appID,
		"provider":     provider,
		"signed_in_at": b.now().UTC().Format(time.RFC3339),
	}, b.sessionTTL)
	if err != nil {
		return fmt.Errorf("record session: %w", err)
	}
	b.logger.WithFields(logrus.Fields{"user_id": uid, "provider": provider}).Debug("session recorded")
	return nil
}
