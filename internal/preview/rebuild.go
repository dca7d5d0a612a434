package preview

import (
	"context"
	"sync"
	"time"

	"git.home.luguber.info/inful/bitacora/internal/logfields"
	"git.home.luguber.info/inful/bitacora/internal/observability"
)

// DefaultDebounce is how long a burst of changes must settle before a
// rebuild starts.
const DefaultDebounce = 300 * time.Millisecond

// Rebuilder coalesces rebuild requests. At most one build runs at a time;
// requests arriving during a build cause exactly one follow-up build.
type Rebuilder struct {
	builder  Builder
	debounce time.Duration
	requests chan struct{}

	mu    sync.Mutex
	timer *time.Timer
}

// NewRebuilder returns a Rebuilder for builder.
func NewRebuilder(builder Builder, debounce time.Duration) *Rebuilder {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Rebuilder{
		builder:  builder,
		debounce: debounce,
		requests: make(chan struct{}, 1),
	}
}

// Trigger schedules a rebuild after the debounce delay, restarting the
// delay if one is already pending.
func (r *Rebuilder) Trigger() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.timer != nil {
		r.timer.Stop()
	}
	r.timer = time.AfterFunc(r.debounce, r.Request)
}

// Request asks for a rebuild without debouncing.
func (r *Rebuilder) Request() {
	select {
	case r.requests <- struct{}{}:
	default:
	}
}

// Run processes requests until ctx is done.
func (r *Rebuilder) Run(ctx context.Context) {
	defer r.stopTimer()
	for {
		select {
		case <-ctx.Done():
			return
		case <-r.requests:
			r.rebuild(ctx)
		}
	}
}

func (r *Rebuilder) rebuild(ctx context.Context) {
	observability.InfoContext(ctx, "Change detected; rebuilding site")
	report, err := r.builder.Run(ctx)
	if err != nil {
		observability.WarnContext(ctx, "Rebuild failed", logfields.Error(err))
		return
	}
	observability.InfoContext(ctx, "Rebuild complete", logfields.Duration(report.Duration()))
}

func (r *Rebuilder) stopTimer() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.timer != nil {
		r.timer.Stop()
	}
}
