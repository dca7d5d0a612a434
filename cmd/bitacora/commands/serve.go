package commands

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	ferrors "git.home.luguber.info/inful/bitacora/internal/foundation/errors"
	"git.home.luguber.info/inful/bitacora/internal/metrics"
	"git.home.luguber.info/inful/bitacora/internal/preview"
)

// ServeCmd implements the 'serve' command.
type ServeCmd struct {
	Addr    string        `help:"Listen address; overrides SERVE.ADDR"`
	Every   time.Duration `help:"Rebuild interval; overrides SERVE.REBUILD_EVERY"`
	NoWatch bool          `name:"no-watch" help:"Do not rebuild when templates change"`
}

func (s *ServeCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig(g)
	if err != nil {
		return err
	}
	interval, err := cfg.Serve.RebuildInterval()
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryConfig, "invalid serve configuration").Build()
	}
	if s.Every > 0 {
		interval = s.Every
	}
	addr := cfg.Serve.Addr
	if s.Addr != "" {
		addr = s.Addr
	}

	reg := prom.NewRegistry()
	rec := metrics.NewPrometheusRecorder(reg)
	svc, cleanup, err := newBuildService(cfg, rec)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, stop := signalContext()
	defer stop()

	return preview.Run(ctx, preview.Options{
		Addr:        addr,
		OutputDir:   cfg.OutputDir,
		TemplateDir: cfg.TemplateDir,
		Watch:       cfg.Serve.WatchTemplates() && !s.NoWatch,
		Interval:    interval,
	}, svc, reg)
}
