package commands

import (
	"fmt"
	"log/slog"

	prom "github.com/prometheus/client_golang/prometheus"

	ferrors "git.home.luguber.info/inful/bitacora/internal/foundation/errors"
	"git.home.luguber.info/inful/bitacora/internal/logfields"
	"git.home.luguber.info/inful/bitacora/internal/metrics"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	MetricsFile string `name:"metrics-file" help:"Write Prometheus metrics in textfile format after the build" type:"path"`
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig(g)
	if err != nil {
		return err
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

	report, runErr := svc.Run(ctx)
	if b.MetricsFile != "" {
		if err := metrics.WriteTextfile(reg, b.MetricsFile); err != nil {
			slog.Warn("Failed to write metrics file", logfields.File(b.MetricsFile), logfields.Error(err))
		}
	}
	if runErr != nil {
		return runErr
	}
	for _, w := range report.Warnings {
		if ce, ok := ferrors.AsClassified(w); ok {
			g.Logger.LogAttrs(ctx, slog.LevelWarn, ce.Message(), ce.LogAttrs()...)
			continue
		}
		g.Logger.Warn("Build warning", logfields.Error(w))
	}
	fmt.Println(report.Summary())
	return nil
}
