// Package logout closes sessions.
package logout

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/BayiPanel/BayiPanel/internal/auth"
	"github.com/BayiPanel/BayiPanel/internal/web/handler"
	"github.com/BayiPanel/BayiPanel/internal/web/session"
)

// Path is the path of the logout endpoint.
const Path = "/api/logout"

// Service is the logout handler service.
type Service struct {
	sessions *session.Sessions
}

// Handler is the logout handler.
var Handler = Service{}

// Init initializes the logout handler.
func (s *Service) Init(app *fiber.App, deps handler.Deps) error {
	if app == nil || !deps.Valid() {
		return errors.New(handler.ErrNilDepsMsg)
	}

	s.sessions = deps.Sessions

	app.Post(Path, auth.RequireSession(deps.Sessions), s.Logout)

	return nil
}

// Logout deletes the session and expires its cookie.
func (s *Service) Logout(c *fiber.Ctx) error {
	if err := s.sessions.Destroy(c); err != nil {
		log.Error().Err(err).Msg("failed to delete session")
	}

	return handler.Message(c, "Logged out")
}
