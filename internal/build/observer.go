package build

import (
	"context"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/bitacora/internal/logfields"
	"git.home.luguber.info/inful/bitacora/internal/metrics"
	"git.home.luguber.info/inful/bitacora/internal/observability"
)

// Observer receives callbacks around stage execution and build lifecycle.
type Observer interface {
	OnStageStart(ctx context.Context, stage StageName)
	OnStageComplete(ctx context.Context, stage StageName, duration time.Duration, result StageResult)
	OnBuildComplete(ctx context.Context, report *Report)
}

// NoopObserver is a no-op implementation.
type NoopObserver struct{}

func (NoopObserver) OnStageStart(context.Context, StageName)                                {}
func (NoopObserver) OnStageComplete(context.Context, StageName, time.Duration, StageResult) {}
func (NoopObserver) OnBuildComplete(context.Context, *Report)                               {}

// RecorderObserver adapts metrics.Recorder into an Observer.
type RecorderObserver struct{ Recorder metrics.Recorder }

func (r RecorderObserver) OnStageStart(context.Context, StageName) {}

func (r RecorderObserver) OnStageComplete(_ context.Context, stage StageName, d time.Duration, _ StageResult) {
	if r.Recorder != nil {
		r.Recorder.ObserveStageDuration(string(stage), d)
	}
}

func (r RecorderObserver) OnBuildComplete(_ context.Context, report *Report) {
	if r.Recorder == nil {
		return
	}
	r.Recorder.ObserveBuildDuration(report.Duration())
	r.Recorder.IncBuildOutcome(metrics.BuildOutcomeLabel(report.Outcome))
}

// LogObserver logs stage transitions at debug level and the build summary at info.
type LogObserver struct{}

func (LogObserver) OnStageStart(ctx context.Context, stage StageName) {
	observability.DebugContext(ctx, "Stage started", logfields.Stage(string(stage)))
}

func (LogObserver) OnStageComplete(ctx context.Context, stage StageName, d time.Duration, result StageResult) {
	level := slog.LevelDebug
	if result != StageResultSuccess {
		level = slog.LevelWarn
	}
	attrs := []slog.Attr{logfields.Stage(string(stage)), logfields.Duration(d), slog.String("result", string(result))}
	if level == slog.LevelWarn {
		observability.WarnContext(ctx, "Stage finished", attrs...)
		return
	}
	observability.DebugContext(ctx, "Stage finished", attrs...)
}

func (LogObserver) OnBuildComplete(ctx context.Context, report *Report) {
	observability.InfoContext(ctx, "Build finished",
		slog.String("outcome", string(report.Outcome)),
		logfields.Duration(report.Duration()),
		slog.String("summary", report.Summary()))
}

// Observers fans callbacks out to several observers in order.
type Observers []Observer

func (o Observers) OnStageStart(ctx context.Context, stage StageName) {
	for _, ob := range o {
		ob.OnStageStart(ctx, stage)
	}
}

func (o Observers) OnStageComplete(ctx context.Context, stage StageName, d time.Duration, result StageResult) {
	for _, ob := range o {
		ob.OnStageComplete(ctx, stage, d, result)
	}
}

func (o Observers) OnBuildComplete(ctx context.Context, report *Report) {
	for _, ob := range o {
		ob.OnBuildComplete(ctx, report)
	}
}
