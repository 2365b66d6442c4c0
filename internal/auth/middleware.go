package auth

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/BayiPanel/BayiPanel/internal/permission"
	"github.com/BayiPanel/BayiPanel/internal/web/session"
)

const (
	msgUnauthorized = "Unauthorized"
	msgUnavailable  = "Permission service unavailable"
	msgBadCheck     = "Internal Server Error"
)

// RequireSession creates Fiber middleware that rejects requests without a
// valid session and stores the session in fiber.Locals.
func RequireSession(sessions *session.Sessions) fiber.Handler {
	return func(c *fiber.Ctx) error {
		data, err := sessions.Read(c)
		if err != nil {
			if !errors.Is(err, session.ErrNoSession) {
				log.Error().Err(err).Msg("Failed to read session")
			}

			return fiber.NewError(fiber.StatusUnauthorized, msgUnauthorized)
		}

		c.Locals(session.LocalsKey, data)

		return c.Next()
	}
}

// RequirePermission creates Fiber middleware that requires module/action for
// the role of the current session. It must run after RequireSession.
func RequirePermission(resolver *Resolver, module permission.Module, action permission.Action) fiber.Handler {
	return func(c *fiber.Ctx) error {
		data, ok := session.FromLocals(c)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, msgUnauthorized)
		}

		allowed, err := resolver.Check(c.UserContext(), data.User.Role, module, action)
		if err != nil {
			return CheckError(err)
		}

		if !allowed {
			log.Warn().Uint64("user_id", data.User.ID).
				Str("role", string(data.User.Role)).
				Str("module", string(module)).
				Str("action", string(action)).
				Msg("User lacks required permission")

			return AccessDenied(module, action)
		}

		return c.Next()
	}
}

// CheckError converts a failed permission check into a fiber error.
// Storage failures answer 503; the request is never let through.
func CheckError(err error) error {
	if errors.Is(err, permission.ErrInvalidArgument) {
		return fiber.NewError(fiber.StatusInternalServerError, msgBadCheck)
	}

	log.Error().Err(err).Msg("Failed to check permission")

	return fiber.NewError(fiber.StatusServiceUnavailable, msgUnavailable)
}

// AccessDenied returns the 403 error for a missing module/action permission.
func AccessDenied(module permission.Module, action permission.Action) error {
	return fiber.NewError(fiber.StatusForbidden,
		fmt.Sprintf("Access denied: %s permission on %s is required", action, module))
}
