package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/samber/do"
	"golang.org/x/sync/errgroup"

	"github.com/interera-ai/backend/internal/handler"
	"github.com/interera-ai/backend/internal/log"
	"github.com/interera-ai/backend/internal/metrics"
)

type Server struct {
	server          *http.Server
	metrics         *metrics.Metrics
	shutdownTimeout time.Duration
	startTime       time.Time
}

func NewServer(i *do.Injector) (*Server, error) {
	h := do.MustInvoke[*handler.Handler](i)
	m := do.MustInvoke[*metrics.Metrics](i)
	addr := do.MustInvokeNamed[string](i, "addr")
	shutdownTimeout := do.MustInvokeNamed[time.Duration](i, "shutdown_timeout")

	s := &Server{
		metrics:         m,
		shutdownTimeout: shutdownTimeout,
		startTime:       time.Now(),
	}

	mux := http.NewServeMux()
	h.Register(mux)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", m.Handler())

	s.server = &http.Server{
		Addr:    addr,
		Handler: s.middleware(mux),
	}
	return s, nil
}

// Run serves until ctx is canceled or the listener fails, then shuts down
// gracefully within the configured timeout.
func (s *Server) Run(ctx context.Context) error {
	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error { return s.start(ctx) })
	group.Go(func() error {
		<-ctx.Done()
		return s.stop(context.WithoutCancel(ctx))
	})
	return group.Wait()
}

func (s *Server) start(ctx context.Context) error {
	log.FromContextOrDiscard(ctx).Info("starting http server", "addr", s.server.Addr)

	s.server.BaseContext = func(net.Listener) context.Context { return ctx }
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) stop(ctx context.Context) error {
	log.FromContextOrDiscard(ctx).Info("stopping http server")

	ctx, cancel := context.WithTimeout(ctx, s.shutdownTimeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// middleware answers CORS for the browser client and records an access log
// line plus request metrics for everything that reaches the mux.
func (s *Server) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		if origin := r.Header.Get("Origin"); origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Add("Vary", "Origin")
		}
		if r.Method == http.MethodOptions {
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			if reqHeaders := r.Header.Get("Access-Control-Request-Headers"); reqHeaders != "" {
				w.Header().Set("Access-Control-Allow-Headers", reqHeaders)
			}
			w.Header().Set("Access-Control-Max-Age", "600")
			w.WriteHeader(http.StatusNoContent)
			return
		}

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := r.Pattern
		if _, after, ok := strings.Cut(route, " "); ok {
			route = after
		}
		if route == "" {
			route = "unmatched"
		}
		s.metrics.RequestsTotal.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()

		log.FromContextOrDiscard(r.Context()).Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start).String(),
		)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status": "ok",
		"uptime": time.Since(s.startTime).String(),
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
