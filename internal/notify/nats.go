// Package notify publishes build reports to NATS.
package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"git.home.luguber.info/inful/bitacora/internal/build"
	"git.home.luguber.info/inful/bitacora/internal/config"
	ferrors "git.home.luguber.info/inful/bitacora/internal/foundation/errors"
	"git.home.luguber.info/inful/bitacora/internal/logfields"
	"git.home.luguber.info/inful/bitacora/internal/observability"
)

const flushTimeout = 5 * time.Second

// conn is the subset of *nats.Conn the publisher uses.
type conn interface {
	Publish(subject string, data []byte) error
	FlushWithContext(ctx context.Context) error
	Close()
}

// BuildEvent is the message published after every build.
type BuildEvent struct {
	BuildID      string                                `json:"build_id"`
	Version      string                                `json:"version"`
	Outcome      build.Outcome                         `json:"outcome"`
	Start        time.Time                             `json:"start"`
	End          time.Time                             `json:"end"`
	DurationMS   int64                                 `json:"duration_ms"`
	Counts       build.Counts                          `json:"counts"`
	Artifacts    map[string]int                        `json:"artifacts"`
	StageResults map[build.StageName]build.StageResult `json:"stage_results"`
	Messages     []string                              `json:"messages,omitempty"`
	Timestamp    time.Time                             `json:"timestamp"`
}

// NewBuildEvent summarizes report for publishing.
func NewBuildEvent(report *build.Report) BuildEvent {
	return BuildEvent{
		BuildID:      report.BuildID,
		Version:      report.Version,
		Outcome:      report.Outcome,
		Start:        report.Start,
		End:          report.End,
		DurationMS:   report.Duration().Milliseconds(),
		Counts:       report.Counts,
		Artifacts:    report.Artifacts,
		StageResults: report.StageResults,
		Messages:     report.Messages,
		Timestamp:    time.Now(),
	}
}

// Publisher sends build events to a NATS subject.
type Publisher struct {
	conn    conn
	subject string
}

// Connect opens a NATS connection for cfg.
func Connect(cfg *config.NotifyConfig) (*Publisher, error) {
	if cfg == nil {
		return nil, ferrors.ConfigError("notify config is required").Build()
	}
	nc, err := nats.Connect(cfg.NATSURL, nats.Name("bitacora"))
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryNotify, "failed to connect to NATS").
			WithContext("url", cfg.NATSURL).Build()
	}
	slog.Info("NATS notifier connected", logfields.URL(cfg.NATSURL), slog.String("subject", cfg.Subject))
	return &Publisher{conn: nc, subject: cfg.Subject}, nil
}

// Publish sends the report summary and waits for the server to acknowledge
// the flush.
func (p *Publisher) Publish(ctx context.Context, report *build.Report) error {
	data, err := json.Marshal(NewBuildEvent(report))
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryInternal, "failed to marshal build event").Build()
	}
	if err := p.conn.Publish(p.subject, data); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryNotify, "failed to publish build event").
			WithContext("subject", p.subject).Warning().Build()
	}
	ctx, cancel := context.WithTimeout(ctx, flushTimeout)
	defer cancel()
	if err := p.conn.FlushWithContext(ctx); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryNotify, "failed to flush build event").
			WithContext("subject", p.subject).Warning().Build()
	}
	observability.DebugContext(ctx, "Published build event",
		slog.String("subject", p.subject),
		slog.String("outcome", string(report.Outcome)))
	return nil
}

// Close closes the NATS connection.
func (p *Publisher) Close() {
	if p.conn != nil {
		p.conn.Close()
	}
}
