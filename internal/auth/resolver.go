package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/BayiPanel/BayiPanel/internal/cache"
	"github.com/BayiPanel/BayiPanel/internal/permission"
)

// PermissionReader reads stored permission sets.
//
// GetPermissions must return an error wrapping permission.ErrNotFound when
// nothing is stored for the role, and an empty non-nil set when the role
// explicitly has no capabilities.
type PermissionReader interface {
	GetPermissions(ctx context.Context, role permission.Role) (permission.Set, error)
}

// Resolver computes the effective permissions of a role.
type Resolver struct {
	store    PermissionReader
	registry *permission.Registry
	policy   permission.Policy
	cache    cache.Cache

	// generations counts invalidations per role. A load only fills the cache
	// when no invalidation happened while it was reading the store.
	mu          sync.Mutex
	generations map[permission.Role]uint64
}

// NewResolver creates a resolver. A nil registry means permission.DefaultRegistry,
// a nil cache disables caching.
func NewResolver(
	store PermissionReader,
	registry *permission.Registry,
	policy permission.Policy,
	c cache.Cache,
) *Resolver {
	if registry == nil {
		registry = permission.DefaultRegistry
	}

	if c == nil {
		c = cache.Nop{}
	}

	return &Resolver{
		store:    store,
		registry: registry,
		policy:      policy,
		cache:       c,
		generations: make(map[permission.Role]uint64),
	}
}

// Policy returns the privileged-role policy in effect.
func (r *Resolver) Policy() permission.Policy {
	return r.policy
}

// Registry returns the module registry checks are validated against.
func (r *Resolver) Registry() *permission.Registry {
	return r.registry
}

// ResolveAll returns the dense permission set of role.
func (r *Resolver) ResolveAll(ctx context.Context, role permission.Role) (permission.Set, error) {
	if r.policy.IsSuperAdmin(role) {
		return r.registry.Full(), nil
	}

	if cached, err := r.cache.Get(ctx, role); err == nil {
		return cached, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		log.Warn().Err(err).Str("role", string(role)).Msg("permission cache read failed")
	}

	gen := r.generation(role)

	resolved, err := r.load(ctx, role)
	if err != nil {
		return nil, err
	}

	r.remember(ctx, role, gen, resolved)

	return resolved, nil
}

func (r *Resolver) generation(role permission.Role) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.generations[role]
}

// remember caches resolved unless role was invalidated after gen was taken.
func (r *Resolver) remember(ctx context.Context, role permission.Role, gen uint64, resolved permission.Set) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.generations[role] != gen {
		log.Debug().Str("role", string(role)).Msg("discarding permission set loaded before invalidation")

		return
	}

	if err := r.cache.Set(ctx, role, resolved); err != nil {
		log.Warn().Err(err).Str("role", string(role)).Msg("permission cache write failed")
	}
}

func (r *Resolver) load(ctx context.Context, role permission.Role) (permission.Set, error) {
	stored, err := r.store.GetPermissions(ctx, role)

	switch {
	case err == nil:
		return r.registry.Normalize(stored), nil
	case errors.Is(err, permission.ErrNotFound):
		return r.policy.Fallback(r.registry, role), nil
	case errors.Is(err, permission.ErrStorage):
		return nil, err
	default:
		return nil, fmt.Errorf("%w: %w", permission.ErrStorage, err)
	}
}

// Check reports whether role may perform action on module.
// Unknown modules and actions are rejected with permission.ErrInvalidArgument.
func (r *Resolver) Check(ctx context.Context, role permission.Role, module permission.Module, action permission.Action) (bool, error) {
	if err := r.registry.CheckArgs(module, action); err != nil {
		log.Error().Err(err).
			Str("role", string(role)).
			Str("module", string(module)).
			Str("action", string(action)).
			Msg("permission check with unknown module or action")
		countCheck(string(module), string(action), resultInvalid)

		return false, err
	}

	if r.policy.IsSuperAdmin(role) {
		countCheck(string(module), string(action), resultAllowed)

		return true, nil
	}

	set, err := r.ResolveAll(ctx, role)
	if err != nil {
		countCheck(string(module), string(action), resultError)

		return false, err
	}

	allowed := set.Allows(module, action)
	if allowed {
		countCheck(string(module), string(action), resultAllowed)
	} else {
		countCheck(string(module), string(action), resultDenied)
	}

	return allowed, nil
}

// Invalidate drops the cached resolution of role.
func (r *Resolver) Invalidate(ctx context.Context, role permission.Role) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.generations[role]++

	if err := r.cache.Delete(ctx, role); err != nil {
		log.Warn().Err(err).Str("role", string(role)).Msg("permission cache invalidation failed")
	}
}
