package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/BayiPanel/BayiPanel/internal/config"
	"github.com/BayiPanel/BayiPanel/internal/permission"
)

const (
	keyPrefix   = "bayipanel:perm:"
	pingTimeout = 5 * time.Second
)

// Redis shares resolved sets between server instances.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis connects to cfg.RedisAddr and verifies the connection.
func NewRedis(cfg config.Cache) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()

		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return NewRedisWithClient(client, cfg.TTL), nil
}

// NewRedisWithClient wraps an existing client.
func NewRedisWithClient(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

func key(role permission.Role) string {
	return keyPrefix + string(role)
}

// Get returns the cached set. Undecodable entries are removed and reported as a miss.
func (r *Redis) Get(ctx context.Context, role permission.Role) (permission.Set, error) {
	data, err := r.client.Get(ctx, key(role)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}

	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var set permission.Set
	if err := json.Unmarshal(data, &set); err != nil {
		log.Warn().Err(err).Str("role", string(role)).Msg("dropping corrupt cached permission set")
		r.client.Del(ctx, key(role))

		return nil, ErrCacheMiss
	}

	return set, nil
}

// Set stores set with the configured TTL.
func (r *Redis) Set(ctx context.Context, role permission.Role, set permission.Set) error {
	data, err := json.Marshal(set)
	if err != nil {
		return fmt.Errorf("failed to marshal permission set: %w", err)
	}

	if err := r.client.Set(ctx, key(role), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}

	return nil
}

// Delete drops the role's entry.
func (r *Redis) Delete(ctx context.Context, role permission.Role) error {
	if err := r.client.Del(ctx, key(role)).Err(); err != nil {
		return fmt.Errorf("redis del failed: %w", err)
	}

	return nil
}

// Close closes the client.
func (r *Redis) Close() error {
	return r.client.Close()
}
