// Package daemon wires storage, caches and the web service together.
package daemon

import (
	"context"
	"errors"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/BayiPanel/BayiPanel/internal/auth"
	"github.com/BayiPanel/BayiPanel/internal/cache"
	"github.com/BayiPanel/BayiPanel/internal/config"
	"github.com/BayiPanel/BayiPanel/internal/db"
	"github.com/BayiPanel/BayiPanel/internal/db/controller/role"
	"github.com/BayiPanel/BayiPanel/internal/permission"
	"github.com/BayiPanel/BayiPanel/internal/web"
	"github.com/BayiPanel/BayiPanel/internal/web/handler"
	"github.com/BayiPanel/BayiPanel/internal/web/session"
)

// ErrNilConfig is returned when the daemon is created without configuration.
var ErrNilConfig = errors.New("config is nil")

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	webService *web.Service
	sessions   *session.Sessions
	cache      cache.Cache
}

// Start serves until SIGINT or SIGTERM, then releases all resources.
func (d *Daemon) Start() error {
	go d.webService.WaitShutdown()

	if err := d.webService.Start(":" + strconv.Itoa(d.cfg.Webserver.Port)); err != nil {
		return err
	}

	return d.Close()
}

// Close releases the session storage and the permission cache.
func (d *Daemon) Close() error {
	return errors.Join(d.sessions.Close(), d.cache.Close())
}

// New creates a new Daemon instance with the provided configuration.
func New(cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	gormDB, err := db.Open(cfg)
	if err != nil {
		return nil, err
	}

	resolvedCache, err := cache.New(cfg.Cache)
	if err != nil {
		return nil, err
	}

	store := role.New(gormDB, permission.DefaultRegistry)
	policy := permission.Policy{AdminIsSuperAdmin: cfg.Permission.AdminIsSuperAdmin}
	resolver := auth.NewResolver(store, permission.DefaultRegistry, policy, resolvedCache)
	users := auth.NewLocalProvider(gormDB)

	if err = seed(context.Background(), store, users); err != nil {
		_ = resolvedCache.Close()

		return nil, err
	}

	sessions := session.New(session.NewStorage(cfg), cfg.Webserver.Session, !cfg.DevMode)

	webService, err := web.New(cfg, handler.Deps{
		Sessions:    sessions,
		Users:       users,
		Permissions: auth.NewService(store, resolver, cfg.Permission),
	})
	if err != nil {
		_ = sessions.Close()
		_ = resolvedCache.Close()

		return nil, err
	}

	log.Info().
		Str("db", cfg.DB.GormEngine).
		Str("cache", cfg.Cache.Engine).
		Bool("admin_is_super_admin", policy.AdminIsSuperAdmin).
		Msg("daemon initialized")

	return &Daemon{
		cfg:        cfg,
		webService: webService,
		sessions:   sessions,
		cache:      resolvedCache,
	}, nil
}
