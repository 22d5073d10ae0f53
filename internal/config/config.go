package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/wxyc/wxyc-discogs/internal/catalog"
	"github.com/wxyc/wxyc-discogs/internal/discogs"
)

// AppName names the config and state directories.
const AppName = "wxyc-discogs"

// ErrMissingDiscogsCredentials is reported when the search provider cannot be
// authenticated.
var ErrMissingDiscogsCredentials = errors.New("DISCOGS_KEY and DISCOGS_SECRET must be set")

type Config struct {
	Discogs DiscogsConfig `koanf:"discogs"`
	Library LibraryConfig `koanf:"library"`
	Auth    AuthConfig    `koanf:"auth"`
	Log     LogConfig     `koanf:"log"`
}

// DiscogsConfig holds the search provider credentials.
type DiscogsConfig struct {
	Key    string `koanf:"key"`
	Secret string `koanf:"secret"`
	URL    string `koanf:"url"` // database search endpoint
}

// LibraryConfig points at the station catalog service.
type LibraryConfig struct {
	URL string `koanf:"url"`
}

// AuthConfig holds the identity provider settings (enables login when configured).
type AuthConfig struct {
	Region   string `koanf:"region"`
	ClientID string `koanf:"client_id"`
	URL      string `koanf:"url"` // overrides the regional endpoint
}

// LogConfig controls the log file.
type LogConfig struct {
	Level  string `koanf:"level"`  // "debug", "info", "warn", "error"
	Format string `koanf:"format"` // "text" or "json"
	File   string `koanf:"file"`
}

// envKeys maps recognized environment variables to config keys.
var envKeys = map[string]string{
	"DISCOGS_KEY":      "discogs.key",
	"DISCOGS_SECRET":   "discogs.secret",
	"DISCOGS_URL":      "discogs.url",
	"WXYC_LIBRARY_URL": "library.url",
	"AWS_REGION":       "auth.region",
	"AWS_CLIENT_ID":    "auth.client_id",
	"WXYC_AUTH_URL":    "auth.url",
	"WXYC_LOG_LEVEL":   "log.level",
	"WXYC_LOG_FORMAT":  "log.format",
	"WXYC_LOG_FILE":    "log.file",
}

func Load() (*Config, error) {
	return load(getConfigPaths())
}

func load(configPaths []string) (*Config, error) {
	k := koanf.New(".")

	// Config files in order of priority (last wins), then the environment.
	for _, path := range configPaths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, fmt.Errorf("load %s: %w", path, err)
			}
		}
	}

	if err := k.Load(env.Provider("", ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := defaults()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	cfg.Discogs.URL = strings.TrimSuffix(cfg.Discogs.URL, "/")
	cfg.Library.URL = strings.TrimSuffix(cfg.Library.URL, "/")
	cfg.Log.Level = strings.ToLower(cfg.Log.Level)
	cfg.Log.Format = strings.ToLower(cfg.Log.Format)
	if cfg.Log.File != "" {
		cfg.Log.File = expandPath(cfg.Log.File)
	}

	return cfg, nil
}

// envKey translates an environment variable name; unknown names are skipped.
func envKey(name string) string {
	return envKeys[name]
}

func defaults() *Config {
	return &Config{
		Discogs: DiscogsConfig{URL: discogs.DefaultURL},
		Library: LibraryConfig{URL: catalog.DefaultURL},
		Log:     LogConfig{Level: "info", Format: "text"},
	}
}

func getConfigPaths() []string {
	return []string{
		// 1. $XDG_CONFIG_HOME/wxyc-discogs/config.toml
		filepath.Join(xdg.ConfigHome, AppName, "config.toml"),
		// 2. ./config.toml (pwd, highest priority)
		"config.toml",
	}
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// Validate reports every configuration problem at once.
func (c *Config) Validate() error {
	var problems []string

	if !c.HasDiscogsConfig() {
		problems = append(problems, ErrMissingDiscogsCredentials.Error())
	}
	if err := checkURL(c.Discogs.URL); err != nil {
		problems = append(problems, fmt.Sprintf("DISCOGS_URL %v", err))
	}
	if err := checkURL(c.Library.URL); err != nil {
		problems = append(problems, fmt.Sprintf("WXYC_LIBRARY_URL %v", err))
	}
	if (c.Auth.Region == "") != (c.Auth.ClientID == "") {
		problems = append(problems, "AWS_REGION and AWS_CLIENT_ID must be set together")
	}
	if c.Auth.URL != "" {
		if err := checkURL(c.Auth.URL); err != nil {
			problems = append(problems, fmt.Sprintf("WXYC_AUTH_URL %v", err))
		}
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("WXYC_LOG_LEVEL must be one of: debug, info, warn, error, got: %s", c.Log.Level))
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		problems = append(problems, fmt.Sprintf("WXYC_LOG_FORMAT must be one of: text, json, got: %s", c.Log.Format))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(problems, "\n  - "))
	}
	return nil
}

func checkURL(raw string) error {
	if raw == "" {
		return errors.New("cannot be empty")
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("is not a valid URL: %s", raw)
	}
	return nil
}

// HasDiscogsConfig returns true if search provider credentials are configured.
func (c *Config) HasDiscogsConfig() bool {
	return c.Discogs.Key != "" && c.Discogs.Secret != ""
}

// HasAuthConfig returns true if the identity provider is configured.
func (c *Config) HasAuthConfig() bool {
	return c.Auth.Region != "" && c.Auth.ClientID != ""
}

// LogFile returns the configured log file or the default under the XDG state
// directory.
func (c *Config) LogFile() string {
	if c.Log.File != "" {
		return c.Log.File
	}
	return filepath.Join(xdg.StateHome, AppName, AppName+".log")
}
