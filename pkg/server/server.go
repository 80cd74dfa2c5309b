// Package server exposes the interpreter over HTTP: POST a script to /run
// and the response carries its output followed by any diagnostics.
package server

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"lox/interpreter-go/pkg/driver"
)

const (
	// RequestIDHeader is echoed back, or generated when the request lacks it.
	RequestIDHeader = "X-Request-Id"
	// ExitCodeHeader carries the pipeline's exit status.
	ExitCodeHeader = "X-Lox-Exit-Code"
)

// Outcome labels for lox_runs_total.
const (
	OutcomeOK           = "ok"
	OutcomeSyntaxError  = "syntax_error"
	OutcomeRuntimeError = "runtime_error"
	OutcomeTimeout      = "timeout"
	OutcomeRejected     = "rejected"
)

// Options configures a Server. Zero fields fall back to driver.DefaultConfig.
type Options struct {
	Config   driver.ServerConfig
	Natives  []string
	Logger   *slog.Logger
	Registry *prometheus.Registry
}

// Server runs every request through a fresh pipeline.
type Server struct {
	cfg      driver.ServerConfig
	natives  []string
	logger   *slog.Logger
	registry *prometheus.Registry
	runs     *prometheus.CounterVec
	duration prometheus.Histogram
	router   chi.Router
}

// New builds a server and registers its metrics on opts.Registry (a new
// registry when nil).
func New(opts Options) (*Server, error) {
	defaults := driver.DefaultConfig().Server
	cfg := opts.Config
	if cfg.Addr == "" {
		cfg.Addr = defaults.Addr
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaults.Timeout
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = defaults.MaxBodyBytes
	}
	if cfg.MaxOutputBytes <= 0 {
		cfg.MaxOutputBytes = defaults.MaxOutputBytes
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	registry := opts.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	s := &Server{
		cfg:      cfg,
		natives:  opts.Natives,
		logger:   logger,
		registry: registry,
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lox_runs_total",
			Help: "Scripts submitted to /run, by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "lox_run_duration_seconds",
			Help:    "Wall time spent lexing, parsing and executing a script.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
		}),
	}
	for _, c := range []prometheus.Collector{s.runs, s.duration} {
		if err := registry.Register(c); err != nil {
			return nil, err
		}
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestID)
	r.Post("/run", s.handleRun)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, "ok\n")
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	s.router = r
	return s, nil
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr is the listen address.
func (s *Server) Addr() string {
	return s.cfg.Addr
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

type requestIDKey struct{}

func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id := requestIDFrom(r.Context())

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	if err != nil {
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		s.runs.WithLabelValues(OutcomeRejected).Inc()
		s.logger.Info("run rejected", "request_id", id, "status", status, "error", err)
		http.Error(w, http.StatusText(status), status)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.Timeout)
	defer cancel()

	out := &limitedBuffer{limit: s.cfg.MaxOutputBytes}
	res := driver.Run(ctx, string(body), driver.RunOptions{
		Stdout:  out,
		Stdin:   bytes.NewReader(nil),
		Natives: s.natives,
		Logger:  s.logger,
	})
	elapsed := time.Since(start)

	outcome, status := classify(res, ctx.Err())
	s.runs.WithLabelValues(outcome).Inc()
	s.duration.Observe(elapsed.Seconds())
	s.logger.Info("run",
		"request_id", id,
		"outcome", outcome,
		"exit_code", res.ExitCode,
		"duration", elapsed)

	// Diagnostics bypass the output cap.
	driver.NewPrinter(&out.buf, false).Print(res.Diagnostics)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set(ExitCodeHeader, strconv.Itoa(res.ExitCode))
	w.WriteHeader(status)
	_, _ = w.Write(out.buf.Bytes())
}

// ErrOutputLimit is returned by writes that would take a run's output past
// server.max_output_bytes.
var ErrOutputLimit = errors.New("output limit exceeded")

type limitedBuffer struct {
	buf   bytes.Buffer
	limit int64
}

func (b *limitedBuffer) Write(p []byte) (int, error) {
	room := b.limit - int64(b.buf.Len())
	if int64(len(p)) <= room {
		return b.buf.Write(p)
	}
	if room <= 0 {
		return 0, ErrOutputLimit
	}
	n, _ := b.buf.Write(p[:room])
	return n, ErrOutputLimit
}

// classify maps a run to its metric label and HTTP status. Runtime errors
// are part of a normal response; only input the pipeline rejected outright
// or a run cut short by the deadline changes the status.
func classify(res driver.Result, ctxErr error) (string, int) {
	switch {
	case res.ExitCode == driver.ExitDataErr:
		return OutcomeSyntaxError, http.StatusUnprocessableEntity
	case res.ExitCode == driver.ExitSoftware && errors.Is(ctxErr, context.DeadlineExceeded):
		return OutcomeTimeout, http.StatusRequestTimeout
	case res.ExitCode == driver.ExitSoftware:
		return OutcomeRuntimeError, http.StatusOK
	default:
		return OutcomeOK, http.StatusOK
	}
}
