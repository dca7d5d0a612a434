package build

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/bitacora/internal/config"
	"git.home.luguber.info/inful/bitacora/internal/fetch"
	ferrors "git.home.luguber.info/inful/bitacora/internal/foundation/errors"
	"git.home.luguber.info/inful/bitacora/internal/logfields"
	"git.home.luguber.info/inful/bitacora/internal/media"
	"git.home.luguber.info/inful/bitacora/internal/metrics"
	"git.home.luguber.info/inful/bitacora/internal/observability"
	"git.home.luguber.info/inful/bitacora/internal/site"
	"git.home.luguber.info/inful/bitacora/internal/transform"
)

// Options are the build settings taken from the configuration.
type Options struct {
	TemplateDir      string
	OutputDir        string
	MediaDir         string
	RedirectFile     string
	CommentsEndpoint string
	PageSize         int
	StaticDirs       []string
}

// OptionsFromConfig maps a loaded configuration onto build options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		TemplateDir:      cfg.TemplateDir,
		OutputDir:        cfg.OutputDir,
		MediaDir:         cfg.MediaDir,
		RedirectFile:     cfg.RedirectFile,
		CommentsEndpoint: cfg.CommentsEndpoint,
		PageSize:         cfg.ItemsPerPage,
		StaticDirs:       cfg.StaticDirs,
	}
}

// Notifier is told about every finished build.
type Notifier interface {
	Publish(ctx context.Context, report *Report) error
}

// Service runs full site builds. Run is safe to call from several
// goroutines; builds are serialized.
type Service struct {
	opts      Options
	source    fetch.Source
	media     transform.Resolver
	templates fs.FS
	out       site.Sink
	redirects site.Sink
	recorder  metrics.Recorder
	observers Observers
	notifier  Notifier
	stages    []StageDef
	now       func() time.Time
	newID     func() string

	mu   sync.Mutex
	last *Report
}

// ServiceOption customizes a Service.
type ServiceOption func(*Service)

// WithRecorder sets the metrics recorder.
func WithRecorder(rec metrics.Recorder) ServiceOption {
	return func(s *Service) { s.recorder = metrics.OrNoop(rec) }
}

// WithObserver adds an observer next to the logging and metrics ones.
func WithObserver(o Observer) ServiceOption {
	return func(s *Service) {
		if o != nil {
			s.observers = append(s.observers, o)
		}
	}
}

// WithNotifier publishes each report after the build.
func WithNotifier(n Notifier) ServiceOption {
	return func(s *Service) { s.notifier = n }
}

// WithMediaResolver replaces the disk-backed media resolver.
func WithMediaResolver(r transform.Resolver) ServiceOption {
	return func(s *Service) { s.media = r }
}

// WithTemplates reads templates and static assets from fsys instead of
// the template directory.
func WithTemplates(fsys fs.FS) ServiceOption {
	return func(s *Service) { s.templates = fsys }
}

// WithSinks replaces the output and redirect sinks.
func WithSinks(out, redirects site.Sink) ServiceOption {
	return func(s *Service) {
		s.out = out
		s.redirects = redirects
	}
}

// WithStages replaces the default pipeline.
func WithStages(stages []StageDef) ServiceOption {
	return func(s *Service) { s.stages = stages }
}

// WithClock sets the clock used for feed build dates.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) { s.now = now }
}

// NewService wires a build service for opts fetching from source.
func NewService(opts Options, source fetch.Source, svcOpts ...ServiceOption) *Service {
	s := &Service{
		opts:      opts,
		source:    source,
		templates: os.DirFS(opts.TemplateDir),
		out:       site.FileSink{Root: opts.OutputDir},
		redirects: site.FileSink{Root: redirectRoot(opts)},
		recorder:  metrics.NoopRecorder{},
		observers: Observers{LogObserver{}},
		stages:    DefaultPipeline(),
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, opt := range svcOpts {
		opt(s)
	}
	if s.media == nil {
		s.media = media.NewResolver(filepath.Join(opts.OutputDir, opts.MediaDir), media.WithRecorder(s.recorder))
	}
	s.observers = append(s.observers, RecorderObserver{Recorder: s.recorder})
	return s
}

// redirectRoot is the directory holding the redirects file. Without a
// configured path the file lands in the output root.
func redirectRoot(opts Options) string {
	if opts.RedirectFile == "" {
		return opts.OutputDir
	}
	return filepath.Dir(opts.RedirectFile)
}

// LastReport returns the report of the most recent build, or nil.
func (s *Service) LastReport() *Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// Run performs one full build. The returned report is never nil.
func (s *Service) Run(ctx context.Context) (*Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	buildID := s.newID()
	ctx = observability.WithBuildID(ctx, buildID)
	report := NewReport(buildID)

	st := &State{
		Options:   s.opts,
		Site:      s.siteContext(buildID),
		Report:    report,
		source:    s.source,
		media:     s.media,
		templates: s.templates,
		out:       s.out,
		redirects: s.redirects,
		recorder:  s.recorder,
		observer:  s.observers,
	}

	observability.InfoContext(ctx, "Starting build",
		slog.String("output_dir", s.opts.OutputDir),
		slog.String("template_dir", s.opts.TemplateDir))

	err := RunStages(ctx, st, s.stages)
	report.Finish()
	s.observers.OnBuildComplete(ctx, report)
	s.last = report

	if s.notifier != nil {
		// The build context may already be canceled; the report is still worth sending.
		if nerr := s.notifier.Publish(context.WithoutCancel(ctx), report); nerr != nil {
			observability.WarnContext(ctx, "Build notification failed", logfields.Error(nerr))
		}
	}
	if err != nil {
		if _, ok := ferrors.AsClassified(err); !ok {
			err = ferrors.WrapError(err, ferrors.CategoryRuntime, "build failed").
				WithContext(logfields.KeyBuildID, buildID).Fatal().Build()
		}
		return report, err
	}
	return report, nil
}

func (s *Service) siteContext(buildID string) site.Context {
	return site.NewContext(s.opts.CommentsEndpoint).
		WithPageSize(s.opts.PageSize).
		WithMediaDir(s.opts.MediaDir).
		WithRedirectFile(redirectName(s.opts.RedirectFile)).
		WithBuildID(buildID).
		WithClock(s.now)
}

func redirectName(p string) string {
	if p == "" {
		return ""
	}
	return filepath.Base(p)
}
