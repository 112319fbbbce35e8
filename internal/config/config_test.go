/*-------------------------------------------------------------------------
 *
 * config_test.go
 *    Tests for configuration loading
 *
 * Copyright (c) 2024-2026, Hazem Saifelnasr
 *
 * IDENTIFICATION
 *    warehouse-management/internal/config/config_test.go
 *
 *-------------------------------------------------------------------------
 */

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Server.Port != 8080 {
		t.Errorf("default port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Database.SSLMode != "disable" {
		t.Errorf("default ssl mode = %q, want disable", cfg.Database.SSLMode)
	}
	if cfg.Auth.TokenLifetime != 24*time.Hour {
		t.Errorf("default token lifetime = %v, want 24h", cfg.Auth.TokenLifetime)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("default log level = %q, want info", cfg.Logging.Level)
	}
}

func TestLoadConfigYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  port: 9090
database:
  host: db.internal
  name: warehouse_test
auth:
  jwt_secret: file-secret
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Database.Host != "db.internal" {
		t.Errorf("db host = %q, want db.internal", cfg.Database.Host)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("log level = %q, want debug", cfg.Logging.Level)
	}
	/* Defaults survive where the file is silent */
	if cfg.Database.Port != 5432 {
		t.Errorf("db port = %d, want default 5432", cfg.Database.Port)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("SERVER_PORT", "7070")
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("DB_CONN_MAX_LIFETIME", "90s")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error: %v", err)
	}

	if cfg.Server.Port != 7070 {
		t.Errorf("port = %d, want 7070", cfg.Server.Port)
	}
	if cfg.Auth.JWTSecret != "env-secret" {
		t.Errorf("jwt secret = %q, want env-secret", cfg.Auth.JWTSecret)
	}
	if cfg.Database.ConnMaxLifetime != 90*time.Second {
		t.Errorf("conn max lifetime = %v, want 90s", cfg.Database.ConnMaxLifetime)
	}
}

func TestValidateRejectsMissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	if _, err := LoadFromEnv(); err == nil {
		t.Error("expected validation error with empty JWT secret")
	}
}

func TestDSN(t *testing.T) {
	dbCfg := DatabaseConfig{
		Host: "localhost", Port: 5432, User: "warehouse",
		Password: "pw", Name: "warehouse", SSLMode: "disable",
	}
	want := "host=localhost port=5432 user=warehouse password=pw dbname=warehouse sslmode=disable"
	if got := dbCfg.DSN(); got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}
}
