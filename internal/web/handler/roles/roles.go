// Package roles serves permission resolution and role administration.
package roles

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/BayiPanel/BayiPanel/internal/auth"
	"github.com/BayiPanel/BayiPanel/internal/permission"
	"github.com/BayiPanel/BayiPanel/internal/web/handler"
	"github.com/BayiPanel/BayiPanel/internal/web/session"
)

// Path is the prefix of all role routes.
const Path = "/roles"

// Service is the roles handler service.
type Service struct {
	permissions *auth.Service
	resolver    *auth.Resolver
}

// Handler is the roles handler.
var Handler = Service{}

// Init initializes the roles handler.
func (s *Service) Init(app *fiber.App, deps handler.Deps) error {
	if app == nil || !deps.Valid() {
		return errors.New(handler.ErrNilDepsMsg)
	}

	s.permissions = deps.Permissions
	s.resolver = deps.Permissions.Resolver()

	guard := func(action permission.Action) fiber.Handler {
		return auth.RequirePermission(s.resolver, permission.ModuleRoles, action)
	}

	app.Route(Path, func(router fiber.Router) {
		router.Use(auth.RequireSession(deps.Sessions))

		router.Get("/rolekontrol", s.Resolved)
		router.Get("/list-permissions", guard(permission.ActionView), s.Resolved)
		router.Get("/check", s.Check)
		router.Post("/update-permissions", guard(permission.ActionEdit), s.Update)
		router.Patch("/update-permissions", guard(permission.ActionEdit), s.Patch)
		router.Get(handler.RootPath, guard(permission.ActionView), s.List)
		router.Post(handler.RootPath, guard(permission.ActionCreate), s.Create)
		router.Delete("/:id", guard(permission.ActionDelete), s.Delete)
	})

	return nil
}

// targetRole returns the role named by the query, defaulting to the session's own role.
// Reading another role's permissions needs Rol-Yonetimi view and the role must exist.
func (s *Service) targetRole(c *fiber.Ctx) (permission.Role, error) {
	data, ok := session.FromLocals(c)
	if !ok {
		return "", fiber.ErrUnauthorized
	}

	role := permission.Role(c.Query("role"))
	if role == "" || role == data.User.Role {
		return data.User.Role, nil
	}

	allowed, err := s.resolver.Check(c.UserContext(), data.User.Role, permission.ModuleRoles, permission.ActionView)
	if err != nil {
		return "", auth.CheckError(err)
	}

	if !allowed {
		return "", auth.AccessDenied(permission.ModuleRoles, permission.ActionView)
	}

	// built-in roles resolve even before they are stored
	if !permission.IsBuiltIn(role) {
		if _, err := s.permissions.RoleByName(c.UserContext(), role); err != nil {
			return "", handler.FromError(err)
		}
	}

	return role, nil
}

// Resolved returns the resolved permission set of a role.
func (s *Service) Resolved(c *fiber.Ctx) error {
	role, err := s.targetRole(c)
	if err != nil {
		return err
	}

	set, err := s.resolver.ResolveAll(c.UserContext(), role)
	if err != nil {
		return handler.FromError(err)
	}

	return handler.OK(c, set)
}

// Check answers a single module/action question for a role.
// Unknown modules or actions are a bad request, never a plain false.
func (s *Service) Check(c *fiber.Ctx) error {
	role, err := s.targetRole(c)
	if err != nil {
		return err
	}

	allowed, err := s.resolver.Check(c.UserContext(), role,
		permission.Module(c.Query("module")), permission.Action(c.Query("action")))
	if err != nil {
		return handler.FromError(err)
	}

	return handler.OK(c, checkResult{Allowed: allowed})
}

// Update replaces the whole permission set of a role.
func (s *Service) Update(c *fiber.Ctx) error {
	in := new(permissionsInput)
	if err := handler.ParseAndValidate(c, in); err != nil {
		return err
	}

	if err := s.permissions.UpdatePermissions(c.UserContext(), in.Role, in.Permissions); err != nil {
		return handler.FromError(err)
	}

	log.Info().Str("role", string(in.Role)).Str("by", actor(c)).Msg("role permissions replaced")

	return handler.Message(c, "Permissions updated")
}

// Patch merges the submitted capabilities into the stored set and returns the
// resolved set afterwards.
func (s *Service) Patch(c *fiber.Ctx) error {
	in := new(permissionsInput)
	if err := handler.ParseAndValidate(c, in); err != nil {
		return err
	}

	set, err := s.permissions.PatchPermissions(c.UserContext(), in.Role, in.Permissions)
	if err != nil {
		return handler.FromError(err)
	}

	log.Info().Str("role", string(in.Role)).Str("by", actor(c)).Msg("role permissions patched")

	return handler.OK(c, set)
}

// List returns all roles without their permission sets.
func (s *Service) List(c *fiber.Ctx) error {
	roles, err := s.permissions.ListRoles(c.UserContext())
	if err != nil {
		return handler.FromError(err)
	}

	return handler.OK(c, roles)
}

// Create creates a role with an empty permission set.
func (s *Service) Create(c *fiber.Ctx) error {
	in := new(formInput)
	if err := handler.ParseAndValidate(c, in); err != nil {
		return err
	}

	r, err := s.permissions.CreateRole(c.UserContext(), in.Name, in.Description)
	if err != nil {
		return handler.FromError(err)
	}

	log.Info().Str("role", r.Name).Str("by", actor(c)).Msg("role created")

	return handler.Created(c, r)
}

// Delete removes a role. The role of the acting user is never deletable by them.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid role id")
	}

	data, ok := session.FromLocals(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	deleted, err := s.permissions.DeleteRole(c.UserContext(), uint(id), data.User.Role)
	if err != nil {
		return handler.FromError(err)
	}

	log.Info().Str("role", deleted.Name).Str("by", data.User.Username).Msg("role deleted")

	return handler.OK(c, deleted)
}

func actor(c *fiber.Ctx) string {
	if data, ok := session.FromLocals(c); ok {
		return data.User.Username
	}

	return ""
}
