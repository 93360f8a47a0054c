package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.OAuth.StoragePrefix != "pleno." {
		t.Errorf("expected default storage prefix, got %q", cfg.OAuth.StoragePrefix)
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".plenosite.yml")
	content := `
server:
  port: 9000
  public_host: docs.pleno.ai
oauth:
  client_id: abc123
docs:
  dir: content
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Server.Port)
	}
	if cfg.OAuth.ClientID != "abc123" {
		t.Errorf("expected client id abc123, got %q", cfg.OAuth.ClientID)
	}
	if cfg.Docs.Dir != "content" {
		t.Errorf("expected docs dir content, got %q", cfg.Docs.Dir)
	}
	// Untouched values keep their defaults.
	if cfg.OAuth.Scope != "openid profile email" {
		t.Errorf("expected default scope, got %q", cfg.OAuth.Scope)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("PLENO_OAUTH__CLIENT_ID", "from-env")
	t.Setenv("PLENO_DATA_DIR", "/var/lib/plenosite")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.OAuth.ClientID != "from-env" {
		t.Errorf("expected env client id, got %q", cfg.OAuth.ClientID)
	}
	if cfg.DataDir != "/var/lib/plenosite" {
		t.Errorf("expected env data dir, got %q", cfg.DataDir)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty data dir", func(c *Config) { c.DataDir = "" }},
		{"port out of range", func(c *Config) { c.Server.Port = 70000 }},
		{"empty docs dir", func(c *Config) { c.Docs.Dir = "" }},
		{"client id without auth url", func(c *Config) {
			c.OAuth.ClientID = "abc"
			c.OAuth.AuthURL = ""
		}},
		{"malformed token url", func(c *Config) { c.OAuth.TokenURL = "::not-a-url" }},
		{"negative login ttl", func(c *Config) { c.OAuth.LoginTTLMin = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestRedirectURI(t *testing.T) {
	tests := []struct {
		name     string
		host     string
		override string
		want     string
	}{
		{"localhost gets http", "localhost:8080", "", "http://localhost:8080/callback"},
		{"loopback IP gets http", "127.0.0.1:3000", "", "http://127.0.0.1:3000/callback"},
		{"production gets https", "docs.pleno.ai", "", "https://docs.pleno.ai/callback"},
		{"production with port", "docs.pleno.ai:443", "", "https://docs.pleno.ai:443/callback"},
		{"explicit override wins", "localhost:8080", "https://example.com/cb", "https://example.com/cb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Server.PublicHost = tt.host
			cfg.OAuth.RedirectURI = tt.override
			if got := cfg.RedirectURI(); got != tt.want {
				t.Errorf("RedirectURI() = %q, want %q", got, tt.want)
			}
		})
	}
}
