package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/BayiPanel/BayiPanel/internal/auth"
	"github.com/BayiPanel/BayiPanel/internal/config"
	"github.com/BayiPanel/BayiPanel/internal/web/session"
)

// Deps are the services handlers are built from.
type Deps struct {
	Config      *config.Config
	Sessions    *session.Sessions
	Users       *auth.LocalProvider
	Permissions *auth.Service
}

// Service is the interface for a web handler service.
type Service interface {
	Init(app *fiber.App, deps Deps) error
}

// Valid reports whether every dependency is set.
func (d Deps) Valid() bool {
	return d.Config != nil && d.Sessions != nil && d.Users != nil && d.Permissions != nil
}
