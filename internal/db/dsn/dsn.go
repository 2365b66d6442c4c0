// Package dsn provides Data Source Name construction utilities for database connections.
package dsn

import (
	"fmt"

	"github.com/BayiPanel/BayiPanel/internal/config"
)

// Create builds the Data Source Name for the configured gorm engine.
// The sqlite engine uses the configured file path as is.
func Create(cfg *config.Config) string {
	db := cfg.DB

	switch db.GormEngine {
	case config.EnginePostgres:
		out := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s",
			db.Host, db.Port, db.User, db.Password, db.Name)
		if db.Extras != "" {
			out += " " + db.Extras
		}

		return out
	case config.EngineSQLite:
		return db.SQLitePath
	default:
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
			db.User, db.Password, db.Host, db.Port, db.Name, db.Extras)
	}
}

// URI builds a URL style connection string, used by the session storages.
func URI(cfg *config.Config) string {
	db := cfg.DB

	switch db.GormEngine {
	case config.EnginePostgres:
		return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?%s",
			db.User, db.Password, db.Host, db.Port, db.Name, db.Extras)
	default:
		return Create(cfg)
	}
}
