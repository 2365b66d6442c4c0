// Package config handles input from etc/*.toml files
package config

import (
	"bytes"
	"encoding/json"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

const (
	// EnvConfigJSON holds a JSON document merged over the TOML file.
	EnvConfigJSON = "BAYIPANEL_CONFIG_JSON"

	// CacheNone disables the resolved permission cache.
	CacheNone = "none"
	// CacheLRU keeps resolved permission sets in process.
	CacheLRU = "lru"
	// CacheRedis shares resolved permission sets through redis.
	CacheRedis = "redis"

	defaultShutDownTime   = 5
	defaultSessionExpiry  = 12 * time.Hour
	defaultCookieName     = "session"
	defaultSameSite       = "Lax"
	defaultCacheSize      = 256
	defaultCacheTTL       = time.Minute
	defaultResolveTimeout = 5 * time.Second
)

// ReadConfig from config file.
func ReadConfig(path string) (Config, error) {
	var (
		c             Config
		JSONConfigEnv string
		err           error
	)

	// keys missing from the file keep these values
	c.Permission.PreventSelfLockout = true

	// Read main configuration
	if path == "" {
		path = "./etc/"
	}

	if _, err = toml.DecodeFile(path+"main.toml", &c); err != nil {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	// override it from env
	JSONConfigEnv = os.Getenv(EnvConfigJSON)
	if JSONConfigEnv != "" {
		c, err = decodeAndMergeConfig(c, JSONConfigEnv)
		if err != nil {
			return c, err
		}
	}

	return c, validate(&c)
}

func decodeAndMergeConfig(c Config, configAsJSON string) (Config, error) {
	err := json.Unmarshal([]byte(configAsJSON), &c)
	if err != nil {
		return Config{}, errors.Wrap(err, "failed to decode json config override")
	}

	return c, nil
}

// DumpConfig config as TOML String.
func DumpConfig(c *Config) (string, error) {
	var buffer bytes.Buffer

	t := toml.NewEncoder(&buffer)
	if err := t.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// DumpConfigJSON config as JSON String.
func DumpConfigJSON(c *Config) (string, error) {
	var buffer bytes.Buffer

	j := json.NewEncoder(&buffer)
	j.SetIndent("", "  ")

	if err := j.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// validate checks the settings the service cannot start without and fills defaults.
func validate(c *Config) error {
	invalidErrMessage := "invalid config"

	// validate webserver listening port
	if c.Webserver.Port == 0 {
		return errors.Wrap(ErrWebServerPortCanNotBeZero, invalidErrMessage)
	}

	if c.Webserver.URL == "" {
		return errors.Wrap(ErrEmptyURL, invalidErrMessage)
	}

	switch c.DB.GormEngine {
	case "":
		c.DB.GormEngine = EngineMySQL
	case EngineMySQL, EnginePostgres, EngineSQLite:
	default:
		return errors.Wrap(ErrUnknownGormEngine, invalidErrMessage)
	}

	switch c.Cache.Engine {
	case "":
		c.Cache.Engine = CacheNone
	case CacheNone, CacheLRU, CacheRedis:
	default:
		return errors.Wrap(ErrUnknownCacheEngine, invalidErrMessage)
	}

	if c.Client.ResolveTimeout < 0 {
		return errors.Wrap(ErrResolveTimeout, invalidErrMessage)
	}

	applyDefaults(c)

	return nil
}

func applyDefaults(c *Config) {
	if c.Webserver.ShutDownTime == 0 {
		c.Webserver.ShutDownTime = defaultShutDownTime
	}

	if c.Webserver.Session.ExpiryTime == 0 {
		c.Webserver.Session.ExpiryTime = defaultSessionExpiry
	}

	if c.Webserver.Session.CookieName == "" {
		c.Webserver.Session.CookieName = defaultCookieName
	}

	if c.Webserver.Session.SameSite == "" {
		c.Webserver.Session.SameSite = defaultSameSite
	}

	if c.Cache.Size == 0 {
		c.Cache.Size = defaultCacheSize
	}

	if c.Cache.TTL == 0 {
		c.Cache.TTL = defaultCacheTTL
	}

	if c.Client.BaseURL == "" {
		c.Client.BaseURL = c.Webserver.URL
	}

	if c.Client.ResolveTimeout == 0 {
		c.Client.ResolveTimeout = defaultResolveTimeout
	}
}
