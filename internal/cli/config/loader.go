package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yndnr/rentdesk-go/internal/infra/confloader"
)

// LegacyURLEnv is honoured as the API base URL when RENTDESK_API_URL is
// not set.
const LegacyURLEnv = "REACT_APP_API_BASE_URL"

// DefaultDir returns ~/.rentdesk.
func DefaultDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".rentdesk"
	}
	return filepath.Join(homeDir, ".rentdesk")
}

// DefaultConfigPath returns the default CLI config file path.
func DefaultConfigPath() string {
	return filepath.Join(DefaultDir(), "config.yaml")
}

// Load reads configuration from defaults, the YAML file at path, the
// environment and finally flags (dotted keys). An empty path uses the
// default file, which may be absent; an explicit path must exist.
func Load(path string, flags map[string]any) (*CLIConfig, error) {
	fileOpt := confloader.WithConfigFile(path)
	if path == "" {
		fileOpt = confloader.WithOptionalConfigFile(DefaultConfigPath())
	}

	loader := confloader.NewLoader(
		confloader.WithDefaults(defaultValues()),
		fileOpt,
		confloader.WithEnvAlias(LegacyURLEnv, "api.url"),
	)

	cfg := &CLIConfig{}
	if err := loader.Load(cfg); err != nil {
		return nil, err
	}

	if len(flags) > 0 {
		if err := loader.LoadMap(flags); err != nil {
			return nil, err
		}
		if err := loader.Unmarshal(cfg); err != nil {
			return nil, fmt.Errorf("unmarshal config: %w", err)
		}
	}

	if err := Verify(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg as YAML readable only by the owner.
func Save(cfg *CLIConfig, path string) error {
	if path == "" {
		path = DefaultConfigPath()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}

// Verify validates the configuration.
func Verify(cfg *CLIConfig) error {
	u, err := url.Parse(cfg.API.URL)
	if err != nil || cfg.API.URL == "" {
		return fmt.Errorf("api.url: invalid URL %q", cfg.API.URL)
	}
	if u.Scheme != "" && u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api.url: unsupported scheme %q", u.Scheme)
	}
	if cfg.API.Timeout < 0 {
		return errors.New("api.timeout must not be negative")
	}
	if cfg.API.RateLimit < 0 {
		return errors.New("api.ratelimit must not be negative")
	}
	if !slices.Contains([]string{StoreFile, StoreBadger, StoreMemory}, cfg.Session.Store) {
		return fmt.Errorf("session.store: must be one of file, badger, memory (got %q)", cfg.Session.Store)
	}
	if !slices.Contains([]string{"table", "json", "yaml"}, strings.ToLower(cfg.Output.Format)) {
		return fmt.Errorf("output.format: must be one of table, json, yaml (got %q)", cfg.Output.Format)
	}
	return nil
}

// SessionPath returns where the configured store keeps the session.
func (c *CLIConfig) SessionPath() string {
	if c.Session.Path != "" {
		return c.Session.Path
	}
	switch c.Session.Store {
	case StoreBadger:
		return filepath.Join(DefaultDir(), "session.db")
	default:
		return filepath.Join(DefaultDir(), "auth.json")
	}
}

// Sanitize returns a copy of the config with secrets masked, for display.
func Sanitize(cfg *CLIConfig) *CLIConfig {
	sanitized := *cfg
	if sanitized.Session.Secret != "" {
		sanitized.Session.Secret = maskSecret(sanitized.Session.Secret)
	}
	return &sanitized
}

func maskSecret(s string) string {
	if len(s) <= 4 {
		return "****"
	}
	return s[:2] + strings.Repeat("*", len(s)-4) + s[len(s)-2:]
}
