package auth

import (
	"context"

	"github.com/BayiPanel/BayiPanel/internal/config"
	"github.com/BayiPanel/BayiPanel/internal/db/models"
	"github.com/BayiPanel/BayiPanel/internal/permission"
)

// RoleStore is the permission store used for role administration.
type RoleStore interface {
	PermissionReader
	SetPermissions(ctx context.Context, role permission.Role, set permission.Set) error
	PatchPermissions(ctx context.Context, role permission.Role, patch permission.Set) (permission.Set, error)
	ListRoles(ctx context.Context) ([]models.Role, error)
	CreateRole(ctx context.Context, name, description string) (*models.Role, error)
	GetRole(ctx context.Context, id uint) (*models.Role, error)
	GetRoleByName(ctx context.Context, name permission.Role) (*models.Role, error)
	DeleteRole(ctx context.Context, id uint) (*models.Role, error)
}

// Service provides role administration on top of the store and the resolver.
type Service struct {
	store              RoleStore
	resolver           *Resolver
	preventSelfLockout bool
}

// NewService creates a new auth service.
func NewService(store RoleStore, resolver *Resolver, cfg config.Permission) *Service {
	return &Service{
		store:              store,
		resolver:           resolver,
		preventSelfLockout: cfg.PreventSelfLockout,
	}
}

// Resolver returns the resolver used for checks.
func (s *Service) Resolver() *Resolver {
	return s.resolver
}

// UpdatePermissions replaces the stored permission set of role.
func (s *Service) UpdatePermissions(ctx context.Context, role permission.Role, set permission.Set) error {
	if err := s.store.SetPermissions(ctx, role, set); err != nil {
		return err
	}

	s.resolver.Invalidate(ctx, role)

	return nil
}

// PatchPermissions merges patch into the stored set and returns the newly
// resolved set of role.
func (s *Service) PatchPermissions(ctx context.Context, role permission.Role, patch permission.Set) (permission.Set, error) {
	if _, err := s.store.PatchPermissions(ctx, role, patch); err != nil {
		return nil, err
	}

	s.resolver.Invalidate(ctx, role)

	return s.resolver.ResolveAll(ctx, role)
}

// CreateRole creates a role with an empty permission set.
func (s *Service) CreateRole(ctx context.Context, name, description string) (*models.Role, error) {
	r, err := s.store.CreateRole(ctx, name, description)
	if err != nil {
		return nil, err
	}

	// a fallback for the unknown name may have been cached
	s.resolver.Invalidate(ctx, permission.Role(r.Name))

	return r, nil
}

// DeleteRole deletes the role with the given ID on behalf of actor, the role
// of the acting user.
func (s *Service) DeleteRole(ctx context.Context, id uint, actor permission.Role) (*models.Role, error) {
	if s.preventSelfLockout {
		r, err := s.store.GetRole(ctx, id)
		if err != nil {
			return nil, err
		}

		name := permission.Role(r.Name)
		if name == actor && !r.IsSystem && !permission.IsBuiltIn(name) {
			return nil, ErrSelfLockout
		}
	}

	deleted, err := s.store.DeleteRole(ctx, id)
	if err != nil {
		return nil, err
	}

	s.resolver.Invalidate(ctx, permission.Role(deleted.Name))

	return deleted, nil
}

// RoleByName returns the metadata of the named role.
func (s *Service) RoleByName(ctx context.Context, name permission.Role) (*models.Role, error) {
	return s.store.GetRoleByName(ctx, name)
}

// ListRoles returns role metadata ordered by name.
func (s *Service) ListRoles(ctx context.Context) ([]models.Role, error) {
	return s.store.ListRoles(ctx)
}
