package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/wxyc/wxyc-discogs/internal/app"
	"github.com/wxyc/wxyc-discogs/internal/auth"
	"github.com/wxyc/wxyc-discogs/internal/catalog"
	"github.com/wxyc/wxyc-discogs/internal/config"
	"github.com/wxyc/wxyc-discogs/internal/discogs"
	"github.com/wxyc/wxyc-discogs/internal/enrich"
	"github.com/wxyc/wxyc-discogs/internal/errmsg"
	"github.com/wxyc/wxyc-discogs/internal/logging"
	"github.com/wxyc/wxyc-discogs/internal/session"
)

func loadConfig() (*config.Config, error) {
	// Credentials usually live in a .env next to the binary; it is optional.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if !cfg.HasDiscogsConfig() {
		return nil, config.ErrMissingDiscogsCredentials
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newAuthenticator(cfg *config.Config) app.Authenticator {
	if !cfg.HasAuthConfig() {
		return nil
	}
	endpoint := cfg.Auth.URL
	if endpoint == "" {
		endpoint = auth.Endpoint(cfg.Auth.Region)
	}
	return auth.NewClient(endpoint, cfg.Auth.ClientID)
}

// connector builds a browser bound to the given session. Each login gets its
// own catalog client so the access token never leaks between sessions.
func connector(cfg *config.Config, log *logging.Logger) func(auth.Session) app.Browser {
	search := discogs.NewClient(cfg.Discogs.URL, cfg.Discogs.Key, cfg.Discogs.Secret)
	return func(s auth.Session) app.Browser {
		lib := catalog.NewClient(cfg.Library.URL, s)
		verifier := catalog.NewVerifier(lib, log.WithComponent("verify").Logger)
		return session.New(
			search,
			enrich.New(verifier, log.WithComponent("enrich").Logger),
			catalog.NewDiscography(lib),
			log.WithComponent("session").Logger,
		)
	}
}

func run(cfg *config.Config) error {
	log := logging.New(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.LogFile(),
	})
	defer log.Close()
	log.Info("starting", "auth", cfg.HasAuthConfig(), "library", cfg.Library.URL)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := app.New(app.Options{
		Context: ctx,
		Auth:    newAuthenticator(cfg),
		Connect: connector(cfg, log),
		Logger:  log.WithComponent("app").Logger,
	})

	final, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	if fm, ok := final.(app.Model); ok {
		fm.Close()
	}
	return err
}

func exit(op errmsg.Op, err error) {
	fmt.Fprintln(os.Stderr, errmsg.Format(op, err))
	os.Exit(1)
}

func main() {
	cfg, err := loadConfig()
	if err != nil {
		exit(errmsg.OpConfigLoad, err)
	}
	if err := run(cfg); err != nil {
		exit(errmsg.OpInitialize, err)
	}
}
