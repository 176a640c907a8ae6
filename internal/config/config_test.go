package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load defaults: %v", err)
	}
	if cfg.Locale != "en" {
		t.Fatalf("default locale=%q want en", cfg.Locale)
	}
	if cfg.Services.UsersURL != "http://localhost:8080/users" {
		t.Fatalf("default users url=%q", cfg.Services.UsersURL)
	}
	if cfg.DevServer.Driver != "sqlite" {
		t.Fatalf("default driver=%q want sqlite", cfg.DevServer.Driver)
	}
	if cfg.Geo.Timeout != 10*time.Second {
		t.Fatalf("default geo timeout=%v want 10s", cfg.Geo.Timeout)
	}
}

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("missing config file should fall back to defaults: %v", err)
	}
	if cfg.DevServer.Port != 8080 {
		t.Fatalf("port=%d want 8080", cfg.DevServer.Port)
	}
}

func TestLoadYAMLOverridesDefaults(t *testing.T) {
	file := filepath.Join(t.TempDir(), "config.yaml")
	content := "locale: es\nservices:\n  users_url: http://users.internal\ndevserver:\n  port: 9090\n"
	if err := os.WriteFile(file, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := Load(file)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Locale != "es" {
		t.Fatalf("locale=%q want es", cfg.Locale)
	}
	if cfg.Services.UsersURL != "http://users.internal" {
		t.Fatalf("users url=%q", cfg.Services.UsersURL)
	}
	if cfg.DevServer.Port != 9090 {
		t.Fatalf("port=%d want 9090", cfg.DevServer.Port)
	}
	// Untouched sections keep their defaults.
	if cfg.Services.AnimalsURL != "http://localhost:8080/animals" {
		t.Fatalf("animals url=%q", cfg.Services.AnimalsURL)
	}
}

func TestEnvOverridesWinOverFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(file, []byte("locale: es\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("PAWMATE_LOCALE", "en")
	cfg, err := Load(file)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Locale != "en" {
		t.Fatalf("locale=%q, env override should win", cfg.Locale)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := map[string]func(*Config){
		"empty users url": func(c *Config) { c.Services.UsersURL = " " },
		"bad driver":      func(c *Config) { c.DevServer.Driver = "oracle" },
		"bad port":        func(c *Config) { c.DevServer.Port = 0 },
		"bad geo timeout": func(c *Config) { c.Geo.Timeout = 0 },
	}
	for name, mutate := range cases {
		cfg := defaults()
		mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}
