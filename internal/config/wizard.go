package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to .plenosite.yml.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to plenosite! Let's configure your site.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Server port.
	portPrompt := promptui.Prompt{
		Label:   "HTTP port",
		Default: strconv.Itoa(cfg.Server.Port),
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n < 1 || n > 65535 {
				return fmt.Errorf("enter a port between 1 and 65535")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port prompt: %w", err)
	}
	cfg.Server.Port, _ = strconv.Atoi(portStr)

	// 2. Public host (drives the redirect URI environment branch).
	hostPrompt := promptui.Prompt{
		Label:   "Public host (host[:port] the site is reached on)",
		Default: fmt.Sprintf("localhost:%d", cfg.Server.Port),
	}
	host, err := hostPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("host prompt: %w", err)
	}
	cfg.Server.PublicHost = strings.TrimSpace(host)

	// 3. OAuth client id.
	clientPrompt := promptui.Prompt{
		Label: "invitely OAuth client id",
		Validate: func(s string) error {
			if strings.TrimSpace(s) == "" {
				return fmt.Errorf("client id is required for sign-in")
			}
			return nil
		},
	}
	clientID, err := clientPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("client id prompt: %w", err)
	}
	cfg.OAuth.ClientID = strings.TrimSpace(clientID)

	// 4. Token introspection for the API surface.
	introspectPrompt := promptui.Select{
		Label: "Protect /api/* with token introspection?",
		Items: []string{"no (open API, local development)", "yes (introspect against invitely)"},
	}
	idx, _, err := introspectPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("introspection prompt: %w", err)
	}
	if idx == 1 {
		urlPrompt := promptui.Prompt{
			Label:   "Introspection endpoint URL",
			Default: "https://auth.invitely.app/oauth/introspect",
		}
		introspectURL, err := urlPrompt.Run()
		if err != nil {
			return nil, fmt.Errorf("introspection URL prompt: %w", err)
		}
		cfg.API.IntrospectURL = strings.TrimSpace(introspectURL)
	}

	// 5. Docs directory.
	docsPrompt := promptui.Prompt{
		Label:   "Documentation content directory",
		Default: cfg.Docs.Dir,
	}
	docsDir, err := docsPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("docs dir prompt: %w", err)
	}
	cfg.Docs.Dir = strings.TrimSpace(docsDir)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if err := cfg.Save(".plenosite.yml"); err != nil {
		return nil, err
	}

	fmt.Println()
	fmt.Println("Configuration written to .plenosite.yml")
	return cfg, nil
}
