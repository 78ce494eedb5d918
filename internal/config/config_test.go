package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	t.Setenv("ACCESS_TOKEN_SECRET", "s3cret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("Expected default port 8080, got %s", cfg.Port)
	}
	if cfg.AccessTokenCookie != "accessToken" {
		t.Errorf("Expected cookie accessToken, got %s", cfg.AccessTokenCookie)
	}
	if cfg.DBDriver != "postgres" {
		t.Errorf("Expected postgres driver, got %s", cfg.DBDriver)
	}
	if cfg.ShutdownGrace != 10*time.Second {
		t.Errorf("Expected 10s grace, got %v", cfg.ShutdownGrace)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("ACCESS_TOKEN_SECRET", "s3cret")
	t.Setenv("REDIS_DB", "2")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Port != "9090" || cfg.DBDriver != "sqlite" || cfg.AccessTokenSecret != "s3cret" || cfg.RedisDB != 2 {
		t.Errorf("env not applied: %+v", cfg)
	}
}

func TestLoadRejectsMissingSecret(t *testing.T) {
	for _, env := range []string{"dev", "prod", "production", "staging"} {
		t.Run(env, func(t *testing.T) {
			t.Setenv("APP_ENV", env)
			t.Setenv("ACCESS_TOKEN_SECRET", "")

			cfg, err := Load()
			if err == nil {
				t.Fatalf("Expected error for empty secret, got secret %q", cfg.AccessTokenSecret)
			}
		})
	}
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "mongo")
	t.Setenv("ACCESS_TOKEN_SECRET", "s3cret")

	if _, err := Load(); err == nil {
		t.Fatal("Expected error for unknown driver")
	}
}
