// Package config reads the backend configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

var (
	ErrAPIURLMissing = errors.New("environment variable API_URL must be set")
	ErrAPIURLInvalid = errors.New("environment variable API_URL must be a valid absolute URL")
)

type Config struct {
	APIURL *url.URL
	Port   string

	DBPath    string
	LogFormat string
	GinMode   string

	CORSAllowOrigins []string
	EnablePprof      bool

	AuthJWTSecret string
	AuthRequired  bool

	AMQPURL      string
	AMQPExchange string

	ChargeBatchSize int
}

// Load reads a .env file if there is one, then the environment.
func Load() (Config, error) {
	// A missing .env file is fine, the environment is used as is
	_ = godotenv.Load()

	apiURL, ok := os.LookupEnv("API_URL")
	if !ok {
		return Config{}, ErrAPIURLMissing
	}

	parsed, err := url.Parse(apiURL)
	if err != nil || !parsed.IsAbs() {
		return Config{}, fmt.Errorf("%w, got '%s'", ErrAPIURLInvalid, apiURL)
	}

	cfg := Config{
		APIURL:           parsed,
		Port:             getEnv("PORT", "8080"),
		DBPath:           getEnv("DB_PATH", "data/condofin.db"),
		LogFormat:        getEnv("LOG_FORMAT", ""),
		GinMode:          getEnv("GIN_MODE", "release"),
		CORSAllowOrigins: strings.Fields(os.Getenv("CORS_ALLOW_ORIGINS")),
		EnablePprof:      getEnvBool("ENABLE_PPROF", false),
		AuthJWTSecret:    os.Getenv("AUTH_JWT_SECRET"),
		AuthRequired:     getEnvBool("AUTH_REQUIRED", false),
		AMQPURL:          os.Getenv("AMQP_URL"),
		AMQPExchange:     getEnv("AMQP_EXCHANGE", "condofin"),
		ChargeBatchSize:  getEnvInt("CHARGE_BATCH_SIZE", 100),
	}

	return cfg, cfg.Validate()
}

// Validate checks the values that have a restricted range.
func (c Config) Validate() error {
	var errs []error

	if port, err := strconv.Atoi(c.Port); err != nil || port < 1 || port > 65535 {
		errs = append(errs, fmt.Errorf("invalid port '%s': must be a number between 1 and 65535", c.Port))
	}

	if c.ChargeBatchSize < 1 {
		errs = append(errs, fmt.Errorf("invalid charge batch size %d: must be at least 1", c.ChargeBatchSize))
	}

	if c.AuthRequired && c.AuthJWTSecret == "" {
		errs = append(errs, errors.New("AUTH_REQUIRED needs AUTH_JWT_SECRET to be set"))
	}

	return errors.Join(errs...)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}

	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}
