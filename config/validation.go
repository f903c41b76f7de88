package config

import (
	"fmt"
	"strconv"
)

// ValidateConfig checks that all required configuration values are present
func ValidateConfig(cfg *Config) error {
	if cfg.JWTSecret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if cfg.DBHost == "" {
		return fmt.Errorf("database host is required")
	}
	if cfg.DBPort == "" {
		return fmt.Errorf("database port is required")
	}
	if _, err := strconv.Atoi(cfg.DBPort); err != nil {
		return fmt.Errorf("database port must be numeric: %q", cfg.DBPort)
	}
	if cfg.DBUser == "" {
		return fmt.Errorf("database user is required")
	}
	if cfg.DBName == "" {
		return fmt.Errorf("database name is required")
	}
	if cfg.ServerPort == "" {
		cfg.ServerPort = "8080"
	}
	if cfg.DBSSLMode == "" {
		cfg.DBSSLMode = "disable"
	}
	return nil
}
