// Package config loads the site configuration.
//
// The file is a JSON document with upper-case keys; YAML with the same keys
// is accepted as well. ${VAR} references are expanded from the environment
// after .env files are loaded.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/bitacora/internal/foundation/errors"
	"git.home.luguber.info/inful/bitacora/internal/paginate"
)

// DefaultPath is the configuration file read when none is given.
const DefaultPath = "config.json"

// Config is the site configuration.
type Config struct {
	TemplateDir      string   `yaml:"TEMPLATE_DIR" json:"TEMPLATE_DIR" validate:"required"`
	OutputDir        string   `yaml:"OUTPUT_DIR" json:"OUTPUT_DIR" validate:"required"`
	MediaDir         string   `yaml:"MEDIA_DIR,omitempty" json:"MEDIA_DIR,omitempty" validate:"required,excludesall=/\\,ne=..,ne=."`
	DataEndpoint     string   `yaml:"DATA_ENDPOINT" json:"DATA_ENDPOINT" validate:"required,http_url"`
	DataAuthToken    string   `yaml:"DATA_AUTH_TOKEN" json:"DATA_AUTH_TOKEN" validate:"required"`
	CommentsEndpoint string   `yaml:"COMMENTS_ENDPOINT" json:"COMMENTS_ENDPOINT" validate:"omitempty,url"`
	RedirectFile     string   `yaml:"OUTPUT_REDIRECT_FILE" json:"OUTPUT_REDIRECT_FILE" validate:"required"`
	ItemsPerPage     int      `yaml:"ITEMS_PER_PAGE,omitempty" json:"ITEMS_PER_PAGE,omitempty" validate:"gte=1"`
	StaticDirs       []string `yaml:"STATIC_DIRS,omitempty" json:"STATIC_DIRS,omitempty" validate:"dive,required,excludesall=/\\"`

	Logging LoggingConfig `yaml:"LOGGING,omitempty" json:"LOGGING,omitempty"`
	Notify  *NotifyConfig `yaml:"NOTIFY,omitempty" json:"NOTIFY,omitempty"`
	Serve   ServeConfig   `yaml:"SERVE,omitempty" json:"SERVE,omitempty"`
}

// LoggingConfig selects the log level and format. Environment variables
// override both.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"LEVEL,omitempty" json:"LEVEL,omitempty"`
	Format LogFormat `yaml:"FORMAT,omitempty" json:"FORMAT,omitempty"`
}

// NotifyConfig enables publishing build reports to NATS.
type NotifyConfig struct {
	NATSURL string `yaml:"NATS_URL" json:"NATS_URL" validate:"required"`
	Subject string `yaml:"SUBJECT,omitempty" json:"SUBJECT,omitempty" validate:"required"`
}

// ServeConfig configures the preview server.
type ServeConfig struct {
	Addr         string `yaml:"ADDR,omitempty" json:"ADDR,omitempty" validate:"required"`
	RebuildEvery string `yaml:"REBUILD_EVERY,omitempty" json:"REBUILD_EVERY,omitempty"`
	Watch        *bool  `yaml:"WATCH,omitempty" json:"WATCH,omitempty"`
}

// RebuildInterval parses RebuildEvery; zero disables periodic rebuilds.
func (s ServeConfig) RebuildInterval() (time.Duration, error) {
	if s.RebuildEvery == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s.RebuildEvery)
	if err != nil {
		return 0, fmt.Errorf("invalid REBUILD_EVERY %q: %w", s.RebuildEvery, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("REBUILD_EVERY must not be negative: %s", s.RebuildEvery)
	}
	return d, nil
}

// WatchTemplates reports whether template changes trigger rebuilds.
func (s ServeConfig) WatchTemplates() bool {
	return s.Watch == nil || *s.Watch
}

// MediaPath is the media directory on disk.
func (c *Config) MediaPath() string {
	return filepath.Join(c.OutputDir, c.MediaDir)
}

// Load reads, expands, defaults and validates the configuration at path.
func Load(path string) (*Config, error) {
	loadEnvFiles()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, ferrors.ConfigError("configuration file not found: " + path).
			WithContext("path", path).Build()
	}
	// #nosec G304 -- the path is chosen by the operator
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to read config file").
			WithContext("path", path).Fatal().Build()
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes raw configuration bytes and applies defaults and validation.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := decode([]byte(expanded), &cfg); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to parse config").Fatal().Build()
	}
	ApplyDefaults(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// decode reads JSON documents strictly and anything else as YAML. Tab
// indentation is common in JSON but invalid in YAML, so JSON is not routed
// through the YAML decoder.
func decode(data []byte, cfg *Config) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		dec := json.NewDecoder(bytes.NewReader(trimmed))
		dec.DisallowUnknownFields()
		return dec.Decode(cfg)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// ApplyDefaults fills unset optional fields.
func ApplyDefaults(cfg *Config) {
	if cfg.MediaDir == "" {
		cfg.MediaDir = "img"
	}
	if cfg.ItemsPerPage == 0 {
		cfg.ItemsPerPage = paginate.DefaultPageSize
	}
	if cfg.StaticDirs == nil {
		cfg.StaticDirs = []string{"js", "img", "css"}
	}
	cfg.Logging.Level = NormalizeLogLevel(string(cfg.Logging.Level))
	cfg.Logging.Format = NormalizeLogFormat(string(cfg.Logging.Format))
	if cfg.Notify != nil && cfg.Notify.Subject == "" {
		cfg.Notify.Subject = "bitacora.builds"
	}
	if cfg.Serve.Addr == "" {
		cfg.Serve.Addr = ":8080"
	}
}
