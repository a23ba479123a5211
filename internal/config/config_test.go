package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if errWrite := os.WriteFile(path, []byte(content), 0o644); errWrite != nil {
		t.Fatalf("write config: %v", errWrite)
	}
	return path
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfigFile(t, `
server:
  host: 127.0.0.1
  port: 9000
database:
  dsn: "file:test?mode=memory"
jwt:
  secret: file-secret
  expiry_hours: 48
media_dir: /srv/media
production: true
`)

	cfg, errLoad := Load(path)
	if errLoad != nil {
		t.Fatalf("load: %v", errLoad)
	}
	if cfg.Server.Addr() != "127.0.0.1:9000" {
		t.Fatalf("addr = %q", cfg.Server.Addr())
	}
	if cfg.JWT.Secret != "file-secret" {
		t.Fatalf("secret = %q", cfg.JWT.Secret)
	}
	if cfg.JWT.Expiry() != 48*time.Hour {
		t.Fatalf("expiry = %v", cfg.JWT.Expiry())
	}
	if cfg.Database.ResolveDSN() != "file:test?mode=memory" {
		t.Fatalf("dsn = %q", cfg.Database.ResolveDSN())
	}
	if cfg.MediaDir != "/srv/media" {
		t.Fatalf("media dir = %q", cfg.MediaDir)
	}
	if !cfg.Production {
		t.Fatal("production flag lost")
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, `
database:
  dsn: "file:file-dsn?mode=memory"
jwt:
  secret: file-secret
`)
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("DATABASE_DSN", "file:env-dsn?mode=memory")
	t.Setenv("SERVER_PORT", "7777")
	t.Setenv("APP_ENV", "production")

	cfg, errLoad := Load(path)
	if errLoad != nil {
		t.Fatalf("load: %v", errLoad)
	}
	if cfg.JWT.Secret != "env-secret" {
		t.Fatalf("secret = %q, want env override", cfg.JWT.Secret)
	}
	if cfg.Database.ResolveDSN() != "file:env-dsn?mode=memory" {
		t.Fatalf("dsn = %q, want env override", cfg.Database.ResolveDSN())
	}
	if cfg.Server.Port != 7777 {
		t.Fatalf("port = %d", cfg.Server.Port)
	}
	if !cfg.Production {
		t.Fatal("APP_ENV=production not applied")
	}
}

func TestLoadWithoutFileUsesEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "env-only")
	t.Setenv("DATABASE_DSN", "file:env?mode=memory")

	cfg, errLoad := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if errLoad != nil {
		t.Fatalf("load without file: %v", errLoad)
	}
	if cfg.JWT.Secret != "env-only" {
		t.Fatalf("secret = %q", cfg.JWT.Secret)
	}
	// Defaults survive.
	if cfg.Server.Addr() != ":8080" {
		t.Fatalf("addr = %q", cfg.Server.Addr())
	}
	if cfg.JWT.Expiry() != 24*time.Hour {
		t.Fatalf("expiry = %v", cfg.JWT.Expiry())
	}
	if cfg.MediaDir != "data/media" {
		t.Fatalf("media dir = %q", cfg.MediaDir)
	}
}

func TestLoadRequiresSecret(t *testing.T) {
	path := writeConfigFile(t, `
database:
  dsn: "file:test?mode=memory"
`)
	if _, errLoad := Load(path); errLoad == nil {
		t.Fatal("missing jwt secret accepted")
	}
}

func TestLoadRequiresDatabase(t *testing.T) {
	path := writeConfigFile(t, `
jwt:
  secret: some-secret
`)
	if _, errLoad := Load(path); errLoad == nil {
		t.Fatal("missing database config accepted")
	}
}

func TestResolveDSNFromParts(t *testing.T) {
	db := DatabaseConfig{Host: "db.internal", User: "panel", Password: "pw", Name: "adminpanel"}
	if got := db.ResolveDSN(); got != "postgres://panel:pw@db.internal:5432/adminpanel" {
		t.Fatalf("dsn = %q", got)
	}

	db.Port = 6543
	if got := db.ResolveDSN(); got != "postgres://panel:pw@db.internal:6543/adminpanel" {
		t.Fatalf("dsn = %q", got)
	}
}
