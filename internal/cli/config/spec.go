package config

import (
	"time"

	"github.com/yndnr/rentdesk-go/internal/infra/tlsroots"
)

// Default configuration values.
const (
	DefaultAPIURL     = "http://localhost:5000"
	DefaultAPITimeout = 30 * time.Second

	StoreFile   = "file"
	StoreBadger = "badger"
	StoreMemory = "memory"

	DefaultOutput    = "table"
	DefaultLogLevel  = "warn"
	DefaultLogFormat = "text"
)

// CLIConfig is the configuration for rentdesk-cli (~/.rentdesk/config.yaml).
type CLIConfig struct {
	API     APISection     `koanf:"api" yaml:"api"`
	Session SessionSection `koanf:"session" yaml:"session"`
	Output  OutputSection  `koanf:"output" yaml:"output"`
	Log     LogSection     `koanf:"log" yaml:"log"`
}

// APISection configures the connection to the rentdesk API.
type APISection struct {
	URL       string        `koanf:"url" yaml:"url"`
	Timeout   time.Duration `koanf:"timeout" yaml:"timeout"`
	RateLimit float64       `koanf:"ratelimit" yaml:"ratelimit"` // requests per second, 0 = unlimited
	CAFile    string        `koanf:"cafile" yaml:"cafile,omitempty"`
	CertFile  string        `koanf:"certfile" yaml:"certfile,omitempty"`
	KeyFile   string        `koanf:"keyfile" yaml:"keyfile,omitempty"`
}

// MarshalYAML writes the timeout as "30s" rather than nanoseconds.
func (a APISection) MarshalYAML() (any, error) {
	type plain struct {
		URL       string  `yaml:"url"`
		Timeout   string  `yaml:"timeout"`
		RateLimit float64 `yaml:"ratelimit"`
		CAFile    string  `yaml:"cafile,omitempty"`
		CertFile  string  `yaml:"certfile,omitempty"`
		KeyFile   string  `yaml:"keyfile,omitempty"`
	}
	return plain{
		URL:       a.URL,
		Timeout:   a.Timeout.String(),
		RateLimit: a.RateLimit,
		CAFile:    a.CAFile,
		CertFile:  a.CertFile,
		KeyFile:   a.KeyFile,
	}, nil
}

// TLS returns the TLS material for the API connection.
func (a APISection) TLS() tlsroots.Options {
	return tlsroots.Options{CAFile: a.CAFile, CertFile: a.CertFile, KeyFile: a.KeyFile}
}

// SessionSection configures where the sign-in session is kept.
type SessionSection struct {
	Store  string `koanf:"store" yaml:"store"`             // file, badger or memory
	Path   string `koanf:"path" yaml:"path,omitempty"`     // defaults per store under ~/.rentdesk
	Secret string `koanf:"secret" yaml:"secret,omitempty"` // enables encryption at rest
}

// OutputSection configures command output.
type OutputSection struct {
	Format string `koanf:"format" yaml:"format"` // table, json, yaml
}

// LogSection configures diagnostics on stderr.
type LogSection struct {
	Level  string `koanf:"level" yaml:"level"`
	Format string `koanf:"format" yaml:"format"`
}

// Default returns the default CLI configuration.
func Default() *CLIConfig {
	return &CLIConfig{
		API: APISection{
			URL:     DefaultAPIURL,
			Timeout: DefaultAPITimeout,
		},
		Session: SessionSection{
			Store: StoreFile,
		},
		Output: OutputSection{
			Format: DefaultOutput,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// defaultValues is Default as dotted keys for the loader.
func defaultValues() map[string]any {
	d := Default()
	return map[string]any{
		"api.url":       d.API.URL,
		"api.timeout":   d.API.Timeout.String(),
		"api.ratelimit": d.API.RateLimit,
		"session.store": d.Session.Store,
		"output.format": d.Output.Format,
		"log.level":     d.Log.Level,
		"log.format":    d.Log.Format,
	}
}
