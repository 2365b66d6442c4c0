// Package user reports the account behind the current session.
package user

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/BayiPanel/BayiPanel/internal/auth"
	"github.com/BayiPanel/BayiPanel/internal/web/handler"
	"github.com/BayiPanel/BayiPanel/internal/web/session"
)

// Path is the path of the current user endpoint.
const Path = "/api/user"

// Service is the current user handler service.
type Service struct{}

// Handler is the current user handler.
var Handler = Service{}

// Init initializes the current user handler.
func (s *Service) Init(app *fiber.App, deps handler.Deps) error {
	if app == nil || !deps.Valid() {
		return errors.New(handler.ErrNilDepsMsg)
	}

	app.Get(Path, auth.RequireSession(deps.Sessions), s.Get)

	return nil
}

// Get returns id, username and role of the session user.
func (s *Service) Get(c *fiber.Ctx) error {
	data, ok := session.FromLocals(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	return handler.OK(c, data.User)
}
