// Copyright (c) 2026 Kakeibo. All rights reserved.
// Author: nhat.vu.dev@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis, TokenService) via constructors.
  - Zero Hidden State: No global variables are used to store config.

This ensures the application is Twelve-Factor compliant by storing config in the env.
*/
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Config holds all runtime configuration for the Kakeibo API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Cache (Redis)
	RedisURL string `env:"REDIS_URL,required"`

	// AccessTokenSecret signs JWT access tokens (HS256). Loaded once at
	// startup; refresh tokens are random, not signed, so no second secret exists.
	AccessTokenSecret string `env:"ACCESS_TOKEN_SECRET,required"`

	// Session lifetime classes, in seconds.
	AccessTokenTTLSeconds          int `env:"ACCESS_TOKEN_TTL_SECONDS"           envDefault:"86400"`
	RefreshTokenTTLSeconds         int `env:"REFRESH_TOKEN_TTL_SECONDS"          envDefault:"604800"`
	RefreshTokenRememberTTLSeconds int `env:"REFRESH_TOKEN_REMEMBER_TTL_SECONDS" envDefault:"2592000"`

	// FrontendOrigin is the single origin allowed to make credentialed
	// cross-origin requests (the SPA that owns the session cookies).
	FrontendOrigin string `env:"FRONTEND_ORIGIN" envDefault:"http://localhost:5173"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	return cfg, nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// AllowedOrigin returns the frontend origin permitted for credentialed CORS.
func (c *Config) AllowedOrigin() string {
	return c.FrontendOrigin
}

// # Derived Durations

// AccessTokenTTL returns the access token lifetime as a [time.Duration].
func (c *Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.AccessTokenTTLSeconds) * time.Second
}

// RefreshTokenTTL returns the standard refresh token lifetime.
func (c *Config) RefreshTokenTTL() time.Duration {
	return time.Duration(c.RefreshTokenTTLSeconds) * time.Second
}

// RefreshTokenRememberTTL returns the extended ("remember me") refresh token lifetime.
func (c *Config) RefreshTokenRememberTTL() time.Duration {
	return time.Duration(c.RefreshTokenRememberTTLSeconds) * time.Second
}
