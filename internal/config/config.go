package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (PLENO_*). Nested keys use a double
// underscore: PLENO_OAUTH__CLIENT_ID -> oauth.client_id.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// Overlay environment variables.
	if err := k.Load(env.Provider("PLENO_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, "PLENO_")), "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 0 and 65535")
	}

	if c.Docs.Dir == "" {
		return fmt.Errorf("docs.dir is required")
	}

	if c.OAuth.ClientID != "" {
		if c.OAuth.AuthURL == "" {
			return fmt.Errorf("oauth.auth_url is required when oauth.client_id is set")
		}
		if c.OAuth.TokenURL == "" {
			return fmt.Errorf("oauth.token_url is required when oauth.client_id is set")
		}
	}
	for name, raw := range map[string]string{
		"oauth.auth_url":      c.OAuth.AuthURL,
		"oauth.token_url":     c.OAuth.TokenURL,
		"oauth.redirect_uri":  c.OAuth.RedirectURI,
		"api.introspect_url":  c.API.IntrospectURL,
		"api.openai_base_url": c.API.OpenAIBaseURL,
	} {
		if raw == "" {
			continue
		}
		if _, err := url.ParseRequestURI(raw); err != nil {
			return fmt.Errorf("invalid %s %q: %w", name, raw, err)
		}
	}

	if c.OAuth.LoginTTLMin < 0 {
		return fmt.Errorf("oauth.login_ttl_minutes must be non-negative")
	}
	if c.OAuth.SessionTTLHrs < 0 {
		return fmt.Errorf("oauth.session_ttl_hours must be non-negative")
	}

	return nil
}

// localHosts are hostnames treated as local development hosts when
// computing the OAuth redirect URI.
var localHosts = map[string]bool{
	"localhost": true,
	"127.0.0.1": true,
	"[::1]":     true,
}

// RedirectURI returns the OAuth redirect URI for the given public host.
// An explicit oauth.redirect_uri override wins; otherwise the URI is
// computed from the host: plain http for local development hosts, https
// in production. The callback path is fixed.
func (c *Config) RedirectURI() string {
	if c.OAuth.RedirectURI != "" {
		return c.OAuth.RedirectURI
	}

	host := c.Server.PublicHost
	bare := host
	if i := strings.LastIndex(host, ":"); i >= 0 && !strings.HasSuffix(host, "]") {
		bare = host[:i]
	}

	scheme := "https"
	if localHosts[bare] {
		scheme = "http"
	}
	return fmt.Sprintf("%s://%s/callback", scheme, host)
}
