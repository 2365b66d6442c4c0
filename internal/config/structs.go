package config

import (
	"time"

	"github.com/BayiPanel/BayiPanel/internal/logger"
)

// Session settings.
type Session struct {
	ExpiryTime time.Duration
	CookieName string
	SameSite   string
}

// Config overall data structure.
type Config struct {
	DevMode    bool // enable dev mode for development
	DB         DB
	Log        logger.Log
	Title      string
	Webserver  Webserver
	Permission Permission
	Cache      Cache
	Client     Client
}

// Webserver implement webserver settings.
type Webserver struct {
	DisableRecover bool    // disable recover middleware
	Domain         string  // domain name for the webserver
	Port           int     // listening port for the webserver
	ShutDownTime   int     // wait time for shutdown in seconds
	URL            string  // base url for the webserver
	Session        Session // session settings
}

// Permission holds the privileged-role policy.
type Permission struct {
	// AdminIsSuperAdmin treats the "Admin" role exactly like "Super Admin".
	AdminIsSuperAdmin bool
	// PreventSelfLockout refuses deleting the role held by the acting user.
	PreventSelfLockout bool
}

// Cache configures caching of resolved permission sets on the server.
type Cache struct {
	Engine        string // none, lru or redis
	Size          int    // lru capacity
	TTL           time.Duration
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// Client configures the permission client used by the CLI.
type Client struct {
	BaseURL string
	// ResolveTimeout bounds how long a permission lookup may wait before
	// failing closed.
	ResolveTimeout time.Duration
}
