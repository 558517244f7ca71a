package database

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// Config contains database connection options. Driver selects the backend;
// DSN overrides the generated connection string when set.
type Config struct {
	Driver   string
	Path     string // SQLite file path when Driver == sqlite
	DSN      string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
}

// Open initialises a gorm.DB for the configured driver. SQLite is the
// default and the only driver used by the test suite.
func Open(cfg Config) (*gorm.DB, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	if driver == "" {
		driver = "sqlite"
	}

	switch driver {
	case "sqlite":
		return openSQLite(cfg)
	case "postgres":
		return openPostgres(cfg)
	case "mysql":
		return openMySQL(cfg)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}
