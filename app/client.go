package app

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/BayiPanel/BayiPanel/internal/client"
	"github.com/BayiPanel/BayiPanel/internal/config"
	"github.com/BayiPanel/BayiPanel/internal/permission"
)

// EnvPassword holds the password of the client commands when --password is not given.
const EnvPassword = "BAYIPANEL_PASSWORD"

var (
	errNoCredentials = errors.New("username and password are required")

	username string
	password string
)

func addCredentialFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&username, "username", "u", "", "user to log in as")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password, defaults to $"+EnvPassword)
}

// session is a logged in client with its permission cache.
type session struct {
	cfg    config.Config
	api    *client.API
	user   *client.User
	cache  *client.Cache
	policy permission.Policy
}

func login(ctx context.Context) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	if password == "" {
		password = os.Getenv(EnvPassword)
	}

	if username == "" || password == "" {
		return nil, errNoCredentials
	}

	api, err := client.NewAPI(cfg.Client.BaseURL)
	if err != nil {
		return nil, err
	}

	user, err := api.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}

	return &session{
		cfg:    cfg,
		api:    api,
		user:   user,
		cache:  client.NewCache(api, cfg.Client.ResolveTimeout),
		policy: permission.Policy{AdminIsSuperAdmin: cfg.Permission.AdminIsSuperAdmin},
	}, nil
}

func (s *session) close(ctx context.Context) {
	_ = s.api.Logout(ctx)
}
