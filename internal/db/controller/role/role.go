// Package role stores roles and their permission sets.
package role

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BayiPanel/BayiPanel/internal/db/models"
	"github.com/BayiPanel/BayiPanel/internal/permission"
)

const (
	nameQueryPattern   = "name = ?"
	roleIDQueryPattern = "role_id = ?"
)

var (
	// ErrRoleNotFound is returned when the role does not exist.
	ErrRoleNotFound = fmt.Errorf("role %w", permission.ErrNotFound)
	// ErrPermissionsNotFound is returned when the role exists but has no stored permission set.
	ErrPermissionsNotFound = fmt.Errorf("permission set %w", permission.ErrNotFound)
	// ErrRoleNameEmpty is returned when creating a role without a name.
	ErrRoleNameEmpty = errors.New("role name cannot be empty")
	// ErrRoleExists is returned when creating a role whose name is taken.
	ErrRoleExists = errors.New("role already exists")
	// ErrSystemRole is returned when deleting a built-in role.
	ErrSystemRole = errors.New("system roles cannot be deleted")
	// ErrRoleInUse is returned when deleting a role that users still hold.
	ErrRoleInUse = errors.New("role is still assigned to users")
)

// Store is the gorm backed permission store.
type Store struct {
	db       *gorm.DB
	registry *permission.Registry
}

// New creates a store validating writes against registry.
func New(db *gorm.DB, registry *permission.Registry) *Store {
	if registry == nil {
		registry = permission.DefaultRegistry
	}

	return &Store{db: db, registry: registry}
}

func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", permission.ErrStorage, op, err)
}

// GetRole loads a role by its ID.
func (s *Store) GetRole(ctx context.Context, id uint) (*models.Role, error) {
	var r models.Role

	err := s.db.WithContext(ctx).First(&r, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRoleNotFound
	}

	if err != nil {
		return nil, storageErr("load role", err)
	}

	return &r, nil
}

// GetRoleByName loads a role by its unique name.
func (s *Store) GetRoleByName(ctx context.Context, name permission.Role) (*models.Role, error) {
	return findRole(s.db.WithContext(ctx), name)
}

func findRole(tx *gorm.DB, name permission.Role) (*models.Role, error) {
	var r models.Role

	err := tx.Where(nameQueryPattern, string(name)).First(&r).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRoleNotFound
	}

	if err != nil {
		return nil, storageErr("load role", err)
	}

	return &r, nil
}

// ListRoles returns role metadata ordered by name. Permission sets are not loaded.
func (s *Store) ListRoles(ctx context.Context) ([]models.Role, error) {
	var roles []models.Role

	if err := s.db.WithContext(ctx).Order("name ASC").Find(&roles).Error; err != nil {
		return nil, storageErr("list roles", err)
	}

	return roles, nil
}

// CreateRole creates a role together with an empty permission set.
func (s *Store) CreateRole(ctx context.Context, name, description string) (*models.Role, error) {
	if name == "" {
		return nil, ErrRoleNameEmpty
	}

	r := models.Role{Name: name, Description: description}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := findRole(tx, permission.Role(name)); err == nil {
			return ErrRoleExists
		} else if !errors.Is(err, ErrRoleNotFound) {
			return err
		}

		if err := tx.Create(&r).Error; err != nil {
			return storageErr("create role", err)
		}

		return upsertPermissions(tx, r.ID, permission.Set{})
	})
	if err != nil {
		return nil, err
	}

	return &r, nil
}

// EnsureRole creates the role if it does not exist yet, without a permission set.
// It is used for the built-in roles, which rely on the fallback policy.
func (s *Store) EnsureRole(ctx context.Context, name permission.Role, description string, system bool) (*models.Role, error) {
	r := models.Role{Name: string(name), Description: description, IsSystem: system}

	err := s.db.WithContext(ctx).
		Where(nameQueryPattern, string(name)).
		Attrs(r).
		FirstOrCreate(&r).Error
	if err != nil {
		return nil, storageErr("ensure role", err)
	}

	return &r, nil
}

// GetPermissions returns the stored permission set of a role exactly as written.
// It distinguishes ErrRoleNotFound and ErrPermissionsNotFound from an empty set.
func (s *Store) GetPermissions(ctx context.Context, name permission.Role) (permission.Set, error) {
	tx := s.db.WithContext(ctx)

	r, err := findRole(tx, name)
	if err != nil {
		return nil, err
	}

	return loadPermissions(tx, r.ID)
}

func loadPermissions(tx *gorm.DB, roleID uint) (permission.Set, error) {
	var row models.RolePermission

	err := tx.Where(roleIDQueryPattern, roleID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPermissionsNotFound
	}

	if err != nil {
		return nil, storageErr("load permissions", err)
	}

	return row.Permissions.Data().Clone(), nil
}

// SetPermissions replaces the whole permission set of a role.
// Invalid sets are rejected before anything is written.
func (s *Store) SetPermissions(ctx context.Context, name permission.Role, set permission.Set) error {
	if err := s.registry.Validate(set); err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r, err := findRole(tx, name)
		if err != nil {
			return err
		}

		return upsertPermissions(tx, r.ID, set)
	})
}

// PatchPermissions merges patch over the stored set and returns the merged stored view.
// A role without a stored set is patched over the empty set.
func (s *Store) PatchPermissions(ctx context.Context, name permission.Role, patch permission.Set) (permission.Set, error) {
	if err := s.registry.Validate(patch); err != nil {
		return nil, err
	}

	var merged permission.Set

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r, err := findRole(tx, name)
		if err != nil {
			return err
		}

		current, err := loadPermissions(tx.Clauses(clause.Locking{Strength: "UPDATE"}), r.ID)

		switch {
		case errors.Is(err, ErrPermissionsNotFound):
			current = permission.Set{}
		case err != nil:
			return err
		}

		merged = current.Merge(patch)

		return upsertPermissions(tx, r.ID, merged)
	})
	if err != nil {
		return nil, err
	}

	return merged, nil
}

func upsertPermissions(tx *gorm.DB, roleID uint, set permission.Set) error {
	row := models.RolePermission{
		RoleID:      roleID,
		Permissions: datatypes.NewJSONType(set.Clone()),
	}

	err := tx.Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "role_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"permissions", "updated_at"}),
		}).
		Create(&row).Error
	if err != nil {
		return storageErr("store permissions", err)
	}

	return nil
}

// DeleteRole removes a role and its own permission set.
// Built-in roles and roles still held by users are refused; no other role changes.
func (s *Store) DeleteRole(ctx context.Context, id uint) (*models.Role, error) {
	var deleted models.Role

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&deleted, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRoleNotFound
			}

			return storageErr("load role", err)
		}

		if deleted.IsSystem || permission.IsBuiltIn(permission.Role(deleted.Name)) {
			return ErrSystemRole
		}

		var users int64
		if err := tx.Model(&models.User{}).Where(roleIDQueryPattern, id).Count(&users).Error; err != nil {
			return storageErr("count role users", err)
		}

		if users > 0 {
			return fmt.Errorf("%w (%d users)", ErrRoleInUse, users)
		}

		if err := tx.Where(roleIDQueryPattern, id).Delete(&models.RolePermission{}).Error; err != nil {
			return storageErr("delete permissions", err)
		}

		if err := tx.Delete(&models.Role{}, id).Error; err != nil {
			return storageErr("delete role", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &deleted, nil
}
