package daemon

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/BayiPanel/BayiPanel/internal/auth"
	"github.com/BayiPanel/BayiPanel/internal/db/controller/role"
	"github.com/BayiPanel/BayiPanel/internal/permission"
)

const (
	defaultAdminUser     = "admin"
	defaultAdminPassword = "changeme"
)

// seed creates the built-in roles without stored sets and, on an empty user
// table, a Super Admin account.
func seed(ctx context.Context, store *role.Store, users *auth.LocalProvider) error {
	superAdmin, err := store.EnsureRole(ctx, permission.RoleSuperAdmin, "full access to every module", true)
	if err != nil {
		return fmt.Errorf("seed super admin role: %w", err)
	}

	if _, err = store.EnsureRole(ctx, permission.RoleAdmin, "legacy administrator", true); err != nil {
		return fmt.Errorf("seed admin role: %w", err)
	}

	count, err := users.CountUsers(ctx)
	if err != nil {
		return fmt.Errorf("seed users: %w", err)
	}

	if count > 0 {
		return nil
	}

	if _, err = users.CreateUser(ctx, defaultAdminUser, "", defaultAdminPassword, superAdmin.ID); err != nil {
		return fmt.Errorf("seed admin user: %w", err)
	}

	log.Warn().Str("username", defaultAdminUser).Msg("created default admin user, change its password")

	return nil
}
