package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/aliskhannn/medcourse-bot/internal/service"
)

const (
	readHeaderTimeout = 5 * time.Second
	pingTimeout       = 2 * time.Second
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type SweepReporter interface {
	LastReport() (service.SweepReport, bool)
}

type DigestReporter interface {
	LastReport() (service.DigestReport, bool)
}

// Status is the body of GET /status. A nil report means the job has not run yet.
type Status struct {
	Sweep  *service.SweepReport  `json:"sweep"`
	Digest *service.DigestReport `json:"digest"`
}

// Server exposes liveness and the last scheduler reports.
type Server struct {
	srv    *http.Server
	logger *zap.Logger
}

// New builds the ops server on addr.
func New(addr string, db Pinger, sweeps SweepReporter, digests DigestReporter, logger *zap.Logger) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           NewRouter(db, sweeps, digests, logger),
			ReadHeaderTimeout: readHeaderTimeout,
		},
		logger: logger,
	}
}

// NewRouter registers /healthz and /status.
func NewRouter(db Pinger, sweeps SweepReporter, digests DigestReporter, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			logger.Warn("health check failed", zap.Error(err))
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			logger.Error("failed to write health check response", zap.Error(err))
		}
	})

	r.Get("/status", func(w http.ResponseWriter, r *http.Request) {
		var status Status
		if rep, ok := sweeps.LastReport(); ok {
			status.Sweep = &rep
		}
		if rep, ok := digests.LastReport(); ok {
			status.Digest = &rep
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(status); err != nil {
			logger.Error("failed to write status response", zap.Error(err))
		}
	})

	return r
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			logger.Debug("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server started", zap.String("addr", s.srv.Addr))
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Info("http server stopped")
	return nil
}
