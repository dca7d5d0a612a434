package preview

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	"git.home.luguber.info/inful/bitacora/internal/logfields"
)

// Scheduler requests a rebuild on a fixed interval.
type Scheduler struct {
	scheduler gocron.Scheduler
}

// NewScheduler registers a periodic job calling request every interval.
func NewScheduler(interval time.Duration, request func()) (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	_, err = s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			slog.Debug("Scheduled rebuild", logfields.Duration(interval))
			request()
		}),
		gocron.WithName("periodic-rebuild"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = s.Shutdown()
		return nil, fmt.Errorf("failed to create periodic rebuild job: %w", err)
	}
	return &Scheduler{scheduler: s}, nil
}

// Start begins running jobs.
func (s *Scheduler) Start() { s.scheduler.Start() }

// Stop waits for running jobs and shuts the scheduler down.
func (s *Scheduler) Stop() error { return s.scheduler.Shutdown() }
