// Package commands implements the bitacora CLI commands.
package commands

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/bitacora/internal/build"
	"git.home.luguber.info/inful/bitacora/internal/config"
	"git.home.luguber.info/inful/bitacora/internal/fetch"
	"git.home.luguber.info/inful/bitacora/internal/logfields"
	"git.home.luguber.info/inful/bitacora/internal/metrics"
	"git.home.luguber.info/inful/bitacora/internal/notify"
)

// Environment variables overriding the configured logging.
const (
	EnvLogLevel  = "BITACORA_LOG_LEVEL"
	EnvLogFormat = "BITACORA_LOG_FORMAT"
)

// Global carries state shared by every command.
type Global struct {
	Logger *slog.Logger
}

// CLI is the root command line.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"config.json" type:"path"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build BuildCmd `cmd:"" help:"Fetch content and build the site"`
	Serve ServeCmd `cmd:"" help:"Build, serve the output and rebuild on changes"`
	Init  InitCmd  `cmd:"" help:"Write an example configuration file"`
}

// AfterApply runs after flag parsing; logging is set up before the
// configuration is read and refined once it is.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	setupLogging(os.Stderr, c.Verbose, nil, os.Getenv)
	return nil
}

// loadConfig reads the configuration and applies its logging section.
func (c *CLI) loadConfig(g *Global) (*config.Config, error) {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return nil, err
	}
	g.Logger = setupLogging(os.Stderr, c.Verbose, &cfg.Logging, os.Getenv)
	return cfg, nil
}

// setupLogging installs the default logger. Precedence: --verbose, then the
// environment, then the configuration file.
func setupLogging(w io.Writer, verbose bool, cfg *config.LoggingConfig, getenv func(string) string) *slog.Logger {
	level, format := resolveLogging(verbose, cfg, getenv)
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if format == config.LogFormatJSON {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

func resolveLogging(verbose bool, cfg *config.LoggingConfig, getenv func(string) string) (slog.Level, config.LogFormat) {
	levelName, format := config.LogLevelInfo, config.LogFormatText
	if cfg != nil {
		if cfg.Level != "" {
			levelName = config.NormalizeLogLevel(string(cfg.Level))
		}
		if cfg.Format != "" {
			format = config.NormalizeLogFormat(string(cfg.Format))
		}
	}
	if v := strings.TrimSpace(getenv(EnvLogLevel)); v != "" {
		levelName = config.NormalizeLogLevel(v)
	}
	if v := strings.TrimSpace(getenv(EnvLogFormat)); v != "" {
		format = config.NormalizeLogFormat(v)
	}
	if verbose {
		levelName = config.LogLevelDebug
	}

	switch levelName {
	case config.LogLevelDebug:
		return slog.LevelDebug, format
	case config.LogLevelWarn:
		return slog.LevelWarn, format
	case config.LogLevelError:
		return slog.LevelError, format
	default:
		return slog.LevelInfo, format
	}
}

// signalContext is canceled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// newBuildService wires the fetch client, media resolver and optional NATS
// notifier into a build service. The returned cleanup closes the notifier.
func newBuildService(cfg *config.Config, rec metrics.Recorder, extra ...build.ServiceOption) (*build.Service, func(), error) {
	client, err := fetch.NewClient(cfg.DataEndpoint, cfg.DataAuthToken, fetch.WithRecorder(rec))
	if err != nil {
		return nil, nil, err
	}
	opts := []build.ServiceOption{build.WithRecorder(rec)}
	cleanup := func() {}
	if cfg.Notify != nil {
		pub, err := notify.Connect(cfg.Notify)
		if err != nil {
			slog.Warn("Build notifications disabled", logfields.Error(err))
		} else {
			opts = append(opts, build.WithNotifier(pub))
			cleanup = pub.Close
		}
	}
	return build.NewService(build.OptionsFromConfig(cfg), client, append(opts, extra...)...), cleanup, nil
}
