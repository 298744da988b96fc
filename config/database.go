package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/kendall-kelly/repair-desk-api/utils"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// ConnectDatabase establishes a connection to the PostgreSQL database.
// Every connection gets the configured schema as its search_path.
func ConnectDatabase(cfg *Config) error {
	if cfg == nil || cfg.DatabaseURL == "" {
		return utils.ErrConfiguration
	}

	dsn, err := WithSearchPath(cfg.DatabaseURL, cfg.DBSchema)
	if err != nil {
		return fmt.Errorf("failed to parse DATABASE_URL: %w", err)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: NewGormLogger(cfg.LogLevel),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	DB = db
	log.Printf("Database connection established successfully (schema %s)", cfg.DBSchema)
	return nil
}

// WithSearchPath adds a search_path runtime parameter to a PostgreSQL
// connection string, in URL or keyword/value form. An explicit search_path
// in the DSN wins.
func WithSearchPath(dsn, schema string) (string, error) {
	if schema == "" || strings.Contains(dsn, "search_path") {
		return dsn, nil
	}

	if !strings.Contains(dsn, "://") {
		return fmt.Sprintf("%s search_path=%s", strings.TrimSpace(dsn), schema), nil
	}

	u, err := url.Parse(dsn)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("search_path", schema)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// NewGormLogger builds the gorm logger for the given LOG_LEVEL
func NewGormLogger(level string) logger.Interface {
	var lvl logger.LogLevel
	switch strings.ToLower(level) {
	case "silent":
		lvl = logger.Silent
	case "error":
		lvl = logger.Error
	case "debug", "info":
		lvl = logger.Info
	default:
		lvl = logger.Warn
	}

	return logger.New(log.New(os.Stdout, "\r\n", log.LstdFlags), logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  lvl,
		IgnoreRecordNotFoundError: true,
	})
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}

// SetDB sets the database instance (primarily for testing)
func SetDB(db *gorm.DB) {
	DB = db
}
