package config

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int    `yaml:"port" koanf:"port"`
	PublicHost      string `yaml:"public_host" koanf:"public_host"`
	AllowAllOrigins bool   `yaml:"allow_all_origins" koanf:"allow_all_origins"`
}

// OAuthConfig holds the authorization-code + PKCE client settings for the
// invitely authorization server.
type OAuthConfig struct {
	ClientID      string `yaml:"client_id" koanf:"client_id"`
	AuthURL       string `yaml:"auth_url" koanf:"auth_url"`
	TokenURL      string `yaml:"token_url" koanf:"token_url"`
	RedirectURI   string `yaml:"redirect_uri" koanf:"redirect_uri"` // optional override; computed from public_host when empty
	Scope         string `yaml:"scope" koanf:"scope"`
	StoragePrefix string `yaml:"storage_prefix" koanf:"storage_prefix"`
	StripQuery    bool   `yaml:"strip_query" koanf:"strip_query"`
	LoginTTLMin   int    `yaml:"login_ttl_minutes" koanf:"login_ttl_minutes"`
	SessionTTLHrs int    `yaml:"session_ttl_hours" koanf:"session_ttl_hours"`
}

// DocsConfig holds documentation content settings.
type DocsConfig struct {
	Dir         string   `yaml:"dir" koanf:"dir"`
	Include     []string `yaml:"include" koanf:"include"`
	Exclude     []string `yaml:"exclude" koanf:"exclude"`
	OpenAPISpec string   `yaml:"openapi_spec" koanf:"openapi_spec"`
}

// APIConfig holds settings for the anonymization API surface.
type APIConfig struct {
	IntrospectURL string `yaml:"introspect_url" koanf:"introspect_url"`
	OpenAIBaseURL string `yaml:"openai_base_url" koanf:"openai_base_url"`
	RedactChat    bool   `yaml:"redact_chat" koanf:"redact_chat"`
}

// Config is the top-level plenosite configuration, corresponding to .plenosite.yml.
type Config struct {
	DataDir string       `yaml:"data_dir" koanf:"data_dir"`
	Server  ServerConfig `yaml:"server" koanf:"server"`
	OAuth   OAuthConfig  `yaml:"oauth" koanf:"oauth"`
	Docs    DocsConfig   `yaml:"docs" koanf:"docs"`
	API     APIConfig    `yaml:"api" koanf:"api"`
}
