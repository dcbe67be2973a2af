package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/agbru/procmon/internal/logging"
)

const shutdownTimeout = 5 * time.Second

// Server exposes a Prometheus registry at /metrics.
type Server struct {
	logger   logging.Logger
	security SecurityConfig
	metrics  http.Handler

	requests *prometheus.CounterVec
	active   prometheus.Gauge
}

// New creates a server for reg. The server's own request metrics are
// registered in reg too.
func New(reg *prometheus.Registry, logger logging.Logger) *Server {
	s := &Server{
		logger:   logger,
		security: DefaultSecurityConfig(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "procmon", Subsystem: "http", Name: "requests_total",
			Help: "HTTP requests by path and status code.",
		}, []string{"path", "code"}),
		active: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "procmon", Subsystem: "http", Name: "active_requests",
			Help: "HTTP requests currently being served.",
		}),
	}
	reg.MustRegister(s.requests, s.active)
	s.metrics = promhttp.HandlerFor(reg, promhttp.HandlerOpts{
		ErrorLog:      promLogger{logger},
		ErrorHandling: promhttp.ContinueOnError,
	})
	return s
}

// Handler returns the routed, instrumented handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/metrics", SecurityMiddleware(s.security, s.metricsMiddleware(s.handleMetrics)))
	mux.HandleFunc("/healthz", SecurityMiddleware(s.security, s.metricsMiddleware(s.handleHealth)))
	return mux
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	s.logger.Info("metrics server listening", logging.String("addr", ln.Addr().String()))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("metrics server shutdown: %w", err)
		}
		return nil
	}
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		s.logger.Debug("metrics method rejected", logging.String("method", r.Method))
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.metrics.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Server) metricsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.active.Inc()
		defer s.active.Dec()
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		next(rec, r)
		s.requests.WithLabelValues(r.URL.Path, fmt.Sprint(rec.code)).Inc()
	}
}

type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

// promLogger routes promhttp errors to the module logger.
type promLogger struct{ l logging.Logger }

func (p promLogger) Println(v ...any) { p.l.Println(v...) }
