package config

// DefaultDocsIncludes are glob patterns for documentation content picked up
// from the docs directory by default.
var DefaultDocsIncludes = []string{"**/*.md"}

// DefaultDocsExcludes are glob patterns skipped when loading documentation
// content.
var DefaultDocsExcludes = []string{
	"drafts/**",
	"**/README.md",
	"**/*.draft.md",
}

// DefaultConfig returns a Config with sensible defaults. The OAuth endpoints
// point at the invitely authorization server; client_id must be provided
// before login works.
func DefaultConfig() *Config {
	return &Config{
		DataDir: ".plenosite",
		Server: ServerConfig{
			Port:       8080,
			PublicHost: "localhost:8080",
		},
		OAuth: OAuthConfig{
			AuthURL:       "https://auth.invitely.app/oauth/authorize",
			TokenURL:      "https://auth.invitely.app/oauth/token",
			Scope:         "openid profile email",
			StoragePrefix: "pleno.",
			StripQuery:    true,
			LoginTTLMin:   10,
			SessionTTLHrs: 24,
		},
		Docs: DocsConfig{
			Dir:         "docs",
			Include:     DefaultDocsIncludes,
			Exclude:     DefaultDocsExcludes,
			OpenAPISpec: "docs/openapi.yaml",
		},
		API: APIConfig{
			OpenAIBaseURL: "https://api.openai.com",
			RedactChat:    true,
		},
	}
}
