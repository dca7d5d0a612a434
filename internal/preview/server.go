package preview

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/bitacora/internal/build"
	ferrors "git.home.luguber.info/inful/bitacora/internal/foundation/errors"
	"git.home.luguber.info/inful/bitacora/internal/metrics"
	"git.home.luguber.info/inful/bitacora/internal/version"
)

// Builder runs a site build.
type Builder interface {
	Run(ctx context.Context) (*build.Report, error)
	LastReport() *build.Report
}

// Server serves the output directory plus health, metrics and rebuild
// endpoints.
type Server struct {
	addr      string
	outputDir string
	builder   Builder
	registry  *prom.Registry
	adapter   *ferrors.HTTPErrorAdapter
	logger    *slog.Logger
	router    chi.Router
	server    *http.Server
	listener  net.Listener
}

// NewServer builds the router. registry may be nil, in which case /metrics
// serves the default Prometheus registry.
func NewServer(addr, outputDir string, builder Builder, registry *prom.Registry) *Server {
	logger := slog.Default()
	s := &Server{
		addr:      addr,
		outputDir: outputDir,
		builder:   builder,
		registry:  registry,
		adapter:   ferrors.NewHTTPErrorAdapter(logger),
		logger:    logger,
	}
	s.router = s.routes()
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Handler exposes the router.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(chain(s.logger, s.adapter))

	r.Get("/healthz", s.handleHealth)
	r.Post("/rebuild", s.handleRebuild)
	r.Handle("/metrics", metrics.HTTPHandler(s.registry))
	r.Handle("/*", noCache(http.FileServer(http.Dir(s.outputDir))))
	return r
}

// Start listens on the configured address and serves in the background.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryRuntime, "failed to listen").
			WithContext("addr", s.addr).Fatal().Build()
	}
	s.listener = ln
	go func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Preview server stopped", slog.String("error", err.Error()))
		}
	}()
	return nil
}

// Addr is the bound address once started.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

// Stop shuts the server down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

type healthResponse struct {
	Status    string        `json:"status"`
	Version   string        `json:"version"`
	LastBuild *build.Report `json:"last_build,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	resp := healthResponse{Status: "ok", Version: version.Version, LastBuild: s.builder.LastReport()}
	if resp.LastBuild != nil && resp.LastBuild.Outcome == build.OutcomeFailed {
		resp.Status = "degraded"
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRebuild(w http.ResponseWriter, r *http.Request) {
	report, err := s.builder.Run(r.Context())
	if err != nil {
		s.adapter.WriteErrorResponse(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
