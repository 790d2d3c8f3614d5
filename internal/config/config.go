// Package config loads and validates application configuration from
// environment variables. A .env file in the working directory is loaded
// first when present, so local development does not need exported variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds all configuration values for the bridge server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string `validate:"required"`

	// GraphQLURL is the Jore4 backend's GraphQL endpoint. Required.
	GraphQLURL string `validate:"required,url"`

	// LogLevel controls the minimum log level. Defaults to "info".
	LogLevel string `validate:"oneof=debug info warn error"`

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// MaxImportBodyBytes bounds the size of an import CSV body.
	// Defaults to 10 MiB.
	MaxImportBodyBytes int64 `validate:"gt=0"`

	// FailExportOnValidation controls whether structural validation failures
	// abort an export (true, the default) or are only logged as warnings.
	FailExportOnValidation bool
}

// Load reads configuration from the environment (and an optional .env file)
// and returns a validated Config.
func Load() (Config, error) {
	// A missing .env is the normal case outside local development.
	_ = godotenv.Load()

	cfg := Config{
		Port:                   getEnv("PORT", "8080"),
		GraphQLURL:             os.Getenv("GRAPHQL_URL"),
		LogLevel:               getEnv("LOG_LEVEL", "info"),
		CORSOrigins:            splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		FailExportOnValidation: true,
	}

	var err error
	cfg.MaxImportBodyBytes, err = parseInt64Env("MAX_IMPORT_BODY_BYTES", 10<<20)
	if err != nil {
		return Config{}, err
	}

	if v := os.Getenv("FAIL_EXPORT_ON_VALIDATION"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid FAIL_EXPORT_ON_VALIDATION: %q", v)
		}
		cfg.FailExportOnValidation = b
	}

	if cfg.GraphQLURL == "" {
		return Config{}, fmt.Errorf("required environment variables not set: GRAPHQL_URL")
	}

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// parseInt64Env parses an integer environment variable with a fallback.
func parseInt64Env(key string, fallback int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, v)
	}
	return n, nil
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
