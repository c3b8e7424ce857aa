package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/taskpulse/apiserver/config"
)

// Denylist records revoked token ids until their natural expiry.
type Denylist interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// RedisDenylist stores revoked ids as keys whose TTL matches the token expiry.
type RedisDenylist struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

type DenylistOption func(*RedisDenylist)

// WithDenylistClock sets the clock used to turn an expiry into a key TTL.
// Pass the issuer's clock so both agree on when a token dies.
func WithDenylistClock(now func() time.Time) DenylistOption {
	return func(d *RedisDenylist) {
		if now != nil {
			d.now = now
		}
	}
}

// NewRedisClient connects to Redis and verifies the connection.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	if strings.TrimSpace(cfg.Addr) == "" {
		return nil, errors.New("redis addr is required")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func NewRedisDenylist(client *redis.Client, opts ...DenylistOption) *RedisDenylist {
	d := &RedisDenylist{
		client: client,
		prefix: "taskpulse:revoked:",
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *RedisDenylist) key(tokenID string) string {
	return d.prefix + tokenID
}

// Revoke is a no-op for tokens that have already expired.
func (d *RedisDenylist) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if tokenID == "" {
		return errors.New("denylist: missing token id")
	}
	ttl := d.remaining(expiresAt)
	if ttl <= 0 {
		return nil
	}
	return d.client.Set(ctx, d.key(tokenID), "1", ttl).Err()
}

func (d *RedisDenylist) remaining(expiresAt time.Time) time.Duration {
	return expiresAt.Sub(d.now())
}

func (d *RedisDenylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if tokenID == "" {
		return false, nil
	}
	n, err := d.client.Exists(ctx, d.key(tokenID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
