package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kendall-kelly/repair-desk-api/utils"
)

// DefaultSchema is the namespace holding every table of the service
const DefaultSchema = "t_p72562668_inventory_management"

// Config is the service configuration, read from the environment
type Config struct {
	DatabaseURL        string
	DBSchema           string
	Port               string
	GoEnv              string
	AllowedOrigins     []string
	AWSRegion          string
	AWSS3Bucket        string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	LogLevel           string
}

var current *Config

// Load reads the configuration from the environment, after merging
// .env.{GO_ENV} (or .env) into it. The result becomes the current config.
func Load() (*Config, error) {
	loadEnvFile(getEnv("GO_ENV", "development"))

	cfg := &Config{
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		DBSchema:           getEnv("DB_SCHEMA", DefaultSchema),
		Port:               getEnv("PORT", "8080"),
		GoEnv:              getEnv("GO_ENV", "development"),
		AllowedOrigins:     splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		AWSRegion:          getEnv("AWS_REGION", "us-east-1"),
		AWSS3Bucket:        getEnv("AWS_S3_BUCKET", ""),
		AWSAccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	current = cfg
	return cfg, nil
}

// loadEnvFile merges the first env file found into the process environment.
// Variables already set win over the file.
func loadEnvFile(env string) {
	for _, name := range []string{".env." + env, ".env"} {
		if err := godotenv.Load(name); err == nil {
			log.Printf("Loaded configuration from %s", name)
			return
		}
	}
	log.Printf("No .env file found, using system environment variables")
}

// Validate reports a Configuration error when no database is configured
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return utils.ErrConfiguration
	}
	return nil
}

// IsProduction reports GO_ENV=production
func (c *Config) IsProduction() bool {
	return c.GoEnv == "production"
}

// IsTest reports GO_ENV=test
func (c *Config) IsTest() bool {
	return c.GoEnv == "test"
}

// IsDevelopment reports GO_ENV=development
func (c *Config) IsDevelopment() bool {
	return c.GoEnv == "development"
}

// S3Enabled reports whether product images can be served from S3
func (c *Config) S3Enabled() bool {
	return c.AWSS3Bucket != ""
}

// GetConfig returns the configuration loaded last, or nil
func GetConfig() *Config {
	return current
}

// SetConfig replaces the current configuration (primarily for testing)
func SetConfig(c *Config) {
	current = c
}

// getEnv returns the variable, or defaultValue when it is unset or empty
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
