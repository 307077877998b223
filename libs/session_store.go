package libs

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	revokedTokenPrefix  = "revoked_token:"
	passwordResetPrefix = "password_reset:"
)

var ErrOTPNotFound = errors.New("otp not found or expired")

// SessionStore keeps revoked token ids and password reset codes in Redis.
type SessionStore struct {
	client *redis.Client
}

func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

func (s *SessionStore) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return s.client.Set(ctx, revokedTokenPrefix+jti, "1", ttl).Err()
}

func (s *SessionStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := s.client.Exists(ctx, revokedTokenPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *SessionStore) SaveOTP(ctx context.Context, email, otp string, ttl time.Duration) error {
	return s.client.Set(ctx, passwordResetPrefix+email, otp, ttl).Err()
}

func (s *SessionStore) OTP(ctx context.Context, email string) (string, error) {
	otp, err := s.client.Get(ctx, passwordResetPrefix+email).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrOTPNotFound
	}
	return otp, err
}

func (s *SessionStore) DeleteOTP(ctx context.Context, email string) error {
	return s.client.Del(ctx, passwordResetPrefix+email).Err()
}
