// Package login opens sessions for local users.
package login

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/BayiPanel/BayiPanel/internal/auth"
	"github.com/BayiPanel/BayiPanel/internal/permission"
	"github.com/BayiPanel/BayiPanel/internal/web/handler"
	"github.com/BayiPanel/BayiPanel/internal/web/session"
)

const (
	// Path is the path of the login endpoint.
	Path = "/api/login"
)

type credentials struct {
	Username string `json:"username" form:"username" validate:"required,max=100"`
	Password string `json:"password" form:"password" validate:"required,max=255"`
}

// Service is the login handler service.
type Service struct {
	sessions *session.Sessions
	users    *auth.LocalProvider
}

// Handler is the login handler.
var Handler = Service{}

// Init initializes the login handler.
func (s *Service) Init(app *fiber.App, deps handler.Deps) error {
	if app == nil || !deps.Valid() {
		return errors.New(handler.ErrNilDepsMsg)
	}

	s.sessions = deps.Sessions
	s.users = deps.Users

	app.Post(Path, s.Post)

	return nil
}

// Post checks the credentials and opens a session holding the user's role.
func (s *Service) Post(c *fiber.Ctx) error {
	in := new(credentials)
	if err := handler.ParseAndValidate(c, in); err != nil {
		return err
	}

	user, err := s.users.Authenticate(c.UserContext(), in.Username, in.Password)

	switch {
	case errors.Is(err, auth.ErrUserNotFound), errors.Is(err, auth.ErrInvalidPassword):
		log.Info().Str("username", in.Username).Msg("failed login attempt")

		return fiber.NewError(fiber.StatusUnauthorized, ErrInvalidCredentials.Error())
	case errors.Is(err, auth.ErrUserAccountDisabled):
		return fiber.NewError(fiber.StatusForbidden, ErrAccountDisabled.Error())
	case err != nil:
		log.Error().Err(err).Msg("failed to authenticate user")

		return fiber.ErrInternalServerError
	}

	data := &session.Data{
		User: session.User{
			ID:       user.ID,
			Username: user.Username,
			Role:     permission.Role(user.Role.Name),
		},
	}

	if _, err = s.sessions.Write(c, data); err != nil {
		log.Error().Err(err).Msg("failed to write session")

		return fiber.ErrInternalServerError
	}

	log.Info().Uint64("user_id", user.ID).Str("role", user.Role.Name).Msg("user logged in")

	return handler.OK(c, data.User)
}
