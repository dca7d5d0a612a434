package preview

import (
	"context"
	"log/slog"
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/bitacora/internal/logfields"
)

// Options configure a preview session.
type Options struct {
	Addr        string
	OutputDir   string
	TemplateDir string
	Watch       bool
	Interval    time.Duration
	Debounce    time.Duration
}

// Run builds once, serves the output and keeps rebuilding until ctx is
// done. A failed initial build is logged; the server still starts so the
// previous output stays browsable.
func Run(ctx context.Context, opts Options, builder Builder, registry *prom.Registry) error {
	if _, err := builder.Run(ctx); err != nil {
		slog.Error("Initial build failed", logfields.Error(err))
	}

	srv := NewServer(opts.Addr, opts.OutputDir, builder, registry)
	if err := srv.Start(); err != nil {
		return err
	}
	slog.Info("Preview server listening", slog.String("addr", srv.Addr()))

	rebuilder := NewRebuilder(builder, opts.Debounce)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		rebuilder.Run(ctx)
	}()

	if opts.Watch {
		w, err := NewWatcher(opts.TemplateDir, rebuilder.Trigger)
		if err != nil {
			slog.Warn("Template watching disabled", logfields.Error(err))
		} else {
			defer func() { _ = w.Close() }()
			wg.Add(1)
			go func() {
				defer wg.Done()
				w.Run(ctx)
			}()
			slog.Info("Watching templates", logfields.Path(opts.TemplateDir))
		}
	}

	if opts.Interval > 0 {
		sched, err := NewScheduler(opts.Interval, rebuilder.Request)
		if err != nil {
			return err
		}
		sched.Start()
		defer func() {
			if err := sched.Stop(); err != nil {
				slog.Warn("Scheduler shutdown error", logfields.Error(err))
			}
		}()
		slog.Info("Periodic rebuild enabled", logfields.Duration(opts.Interval))
	}

	<-ctx.Done()
	slog.Info("Shutting down preview server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		slog.Warn("HTTP server shutdown error", logfields.Error(err))
	}
	wg.Wait()
	return nil
}
