// Package cache keeps resolved permission sets of non privileged roles.
//
// Entries are keyed by role name and dropped whenever the role's stored set
// changes. A cache never decides access on its own: a miss or a backend error
// sends the caller back to the permission store.
package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/BayiPanel/BayiPanel/internal/config"
	"github.com/BayiPanel/BayiPanel/internal/permission"
)

// ErrCacheMiss is returned by Get when no entry exists for the role.
var ErrCacheMiss = errors.New("cache miss")

// Cache stores resolved permission sets by role.
type Cache interface {
	Get(ctx context.Context, role permission.Role) (permission.Set, error)
	Set(ctx context.Context, role permission.Role, set permission.Set) error
	Delete(ctx context.Context, role permission.Role) error
	Close() error
}

// New creates the cache selected by cfg.Engine.
func New(cfg config.Cache) (Cache, error) {
	switch cfg.Engine {
	case "", config.CacheNone:
		return Nop{}, nil
	case config.CacheLRU:
		return NewMemory(cfg.Size, cfg.TTL), nil
	case config.CacheRedis:
		return NewRedis(cfg)
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownCacheEngine, cfg.Engine)
	}
}

// Nop caches nothing.
type Nop struct{}

// Get always misses.
func (Nop) Get(context.Context, permission.Role) (permission.Set, error) { return nil, ErrCacheMiss }

// Set does nothing.
func (Nop) Set(context.Context, permission.Role, permission.Set) error { return nil }

// Delete does nothing.
func (Nop) Delete(context.Context, permission.Role) error { return nil }

// Close does nothing.
func (Nop) Close() error { return nil }
