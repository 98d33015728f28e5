package auth

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
)

// Blacklist records logged-out tokens in Redis until they expire. When
// disabled (no Redis configured) Add and Contains are no-ops, so logout
// still validates the token but revocation is not tracked.
type Blacklist struct {
	client  *redis.Client
	enabled bool
}

type BlacklistConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
}

func NewBlacklist(cfg BlacklistConfig) (*Blacklist, error) {
	if !cfg.Enabled {
		return &Blacklist{enabled: false}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, errors.Wrap(err, "failed to connect to Redis")
	}

	return &Blacklist{client: client, enabled: true}, nil
}

// Add blacklists a token until its expiry. Tokens already past expiry
// need no entry.
func (b *Blacklist) Add(ctx context.Context, token string, expiresAt time.Time) error {
	if !b.enabled {
		return nil
	}
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := b.client.Set(ctx, token, "blacklisted", ttl).Err(); err != nil {
		return errors.Wrap(err, "failed to blacklist token")
	}
	return nil
}

func (b *Blacklist) Contains(ctx context.Context, token string) (bool, error) {
	if !b.enabled {
		return false, nil
	}
	_, err := b.client.Get(ctx, token).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrap(err, "failed to check token blacklist")
	}
	return true, nil
}

func (b *Blacklist) Close() error {
	if !b.enabled {
		return nil
	}
	return b.client.Close()
}
