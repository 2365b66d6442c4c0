package config

import (
	"errors"
)

var (
	// ErrEmptyURL error if config webserver.URL is empty.
	ErrEmptyURL = errors.New("toml config webserver.url can not be empty")
	// ErrWebServerPortCanNotBeZero error if config webserver listening port is 0.
	ErrWebServerPortCanNotBeZero = errors.New("toml config webserver.port listening port can not be 0")
	// ErrUnknownGormEngine error if config db.gormengine is not supported.
	ErrUnknownGormEngine = errors.New("toml config db.gormengine must be mysql, postgres or sqlite")
	// ErrUnknownCacheEngine error if config cache.engine is not supported.
	ErrUnknownCacheEngine = errors.New("toml config cache.engine must be none, lru or redis")
	// ErrResolveTimeout error if config client.resolvetimeout is not positive.
	ErrResolveTimeout = errors.New("toml config client.resolvetimeout must be positive")
)
