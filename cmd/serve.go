package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"

	"github.com/plenohq/plenosite/internal/anonymize"
	"github.com/plenohq/plenosite/internal/config"
	"github.com/plenohq/plenosite/internal/db"
	"github.com/plenohq/plenosite/internal/docs"
	"github.com/plenohq/plenosite/internal/introspect"
	"github.com/plenohq/plenosite/internal/proxy"
	"github.com/plenohq/plenosite/internal/server"
	"github.com/plenohq/plenosite/internal/session"
	"github.com/plenohq/plenosite/internal/web"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the plenosite web server",
	Long:  `Starts the web server: documentation site, OAuth login, PII API and OpenAI proxy.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
		if cmd.Flags().Changed("port") {
			cfg.Server.Port = servePort
		}

		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			return fmt.Errorf("creating data dir: %w", err)
		}

		// Open database.
		dbPath := filepath.Join(cfg.DataDir, "plenosite.db")
		database, err := db.Open(dbPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		// Session provider over the sqlite store.
		store := session.NewStore(database, cfg.OAuth.StoragePrefix)
		provider, err := session.New(session.Config{
			ClientID:    cfg.OAuth.ClientID,
			AuthURL:     cfg.OAuth.AuthURL,
			TokenURL:    cfg.OAuth.TokenURL,
			RedirectURI: cfg.RedirectURI(),
			Scope:       cfg.OAuth.Scope,
			StripQuery:  cfg.OAuth.StripQuery,
			LoginTTL:    time.Duration(cfg.OAuth.LoginTTLMin) * time.Minute,
			SessionTTL:  time.Duration(cfg.OAuth.SessionTTLHrs) * time.Hour,
		}, store)
		if err != nil {
			return fmt.Errorf("creating session provider: %w", err)
		}

		// Documentation content.
		library, err := docs.LoadLibrary(cfg.Docs.Dir, cfg.Docs.Include, cfg.Docs.Exclude)
		if err != nil {
			return fmt.Errorf("loading docs from %s: %w", cfg.Docs.Dir, err)
		}

		var apiRef *docs.APIReference
		if cfg.Docs.OpenAPISpec != "" {
			apiRef, err = docs.LoadAPIReference(cmd.Context(), cfg.Docs.OpenAPISpec)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Warning: could not load OpenAPI document %s: %v\n", cfg.Docs.OpenAPISpec, err)
			}
		}

		site, err := web.New(provider, library, apiRef, 0)
		if err != nil {
			return fmt.Errorf("building web surface: %w", err)
		}

		srv := server.New(server.Config{
			Port:     cfg.Server.Port,
			DataDir:  cfg.DataDir,
			AllowAll: cfg.Server.AllowAllOrigins,
		}, database)
		registerAllRoutes(srv, cfg, provider, site)

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down server...")
			srv.Shutdown(context.Background())
		}()

		// Expired sessions and stale login attempts are purged periodically.
		go func() {
			ticker := time.NewTicker(time.Hour)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					if n, err := store.PurgeExpired(context.Background()); err != nil {
						log.Printf("purging sessions: %v", err)
					} else if n > 0 && verbose {
						log.Printf("purged %d expired session rows", n)
					}
				case <-ctx.Done():
					return
				}
			}
		}()

		fmt.Fprintf(os.Stderr, "plenosite v%s starting on port %d\n", Version, cfg.Server.Port)
		fmt.Fprintf(os.Stderr, "  Database: %s\n", dbPath)
		fmt.Fprintf(os.Stderr, "  Docs: %s\n", cfg.Docs.Dir)
		if cfg.API.IntrospectURL == "" {
			fmt.Fprintln(os.Stderr, "  API auth: disabled (no introspect_url)")
		}

		return srv.Start()
	},
}

// registerAllRoutes wires the feature routes onto the server's router.
func registerAllRoutes(srv *server.Server, cfg *config.Config, provider *session.Provider, site *web.Web) {
	r := srv.Router()

	secureCookies := strings.HasPrefix(cfg.RedirectURI(), "https://")

	// HTML surface and session event stream, behind the session middleware.
	r.Group(func(r chi.Router) {
		r.Use(session.Middleware(provider, secureCookies))
		site.RegisterRoutes(r)
		r.Get("/api/session/events", session.EventsHandler())
	})

	// JSON API, guarded by token introspection when configured.
	r.Group(func(api chi.Router) {
		api.Use(introspect.Middleware(introspect.Options{URL: cfg.API.IntrospectURL}))

		anonymize.RegisterRoutes(api, anonymize.NewAnalyzer())

		var redactor *proxy.Redactor
		if cfg.API.RedactChat {
			redactor = proxy.NewRedactor(anonymize.NewAnalyzer())
		}
		proxy.New(cfg.API.OpenAIBaseURL, redactor).RegisterRoutes(api)
	})
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	rootCmd.AddCommand(serveCmd)
}
