package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"max.ks1230/finance-dashboard/internal/logger"
	"max.ks1230/finance-dashboard/internal/model/analyze"
	"max.ks1230/finance-dashboard/internal/model/session"
)

const (
	sessionHeader   = "X-Session-ID"
	maxUploadBytes  = 10 << 20
	shutdownTimeout = 5 * time.Second

	insightsReportKind = "insights"
)

// SessionStorage owns per-session state; implementations must isolate
// sessions from each other.
type SessionStorage interface {
	GetByID(ctx context.Context, id string) (session.State, error)
	SaveByID(ctx context.Context, id string, st session.State) error
}

// ReportCache caches rendered insight reports per session. A nil cache means
// every request recomputes.
type ReportCache interface {
	CacheReport(sessionID, kind, report string) error
	GetReport(sessionID, kind string) (string, error)
	InvalidateCache(sessionID string, kinds []string) error
}

type config interface {
	Port() int
}

type Server struct {
	mux      *http.ServeMux
	port     int
	storage  SessionStorage
	cache    ReportCache
	analyzer *analyze.Analyzer
}

func New(cfg config, analyzer *analyze.Analyzer, storage SessionStorage, cache ReportCache) *Server {
	s := &Server{
		mux:      http.NewServeMux(),
		port:     cfg.Port(),
		storage:  storage,
		cache:    cache,
		analyzer: analyzer,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("POST /api/v1/paystub", s.instrument("uploadPaystub", s.handlePaystub))
	s.mux.HandleFunc("POST /api/v1/transactions", s.instrument("uploadTransactions", s.handleTransactions))
	s.mux.HandleFunc("PUT /api/v1/limits", s.instrument("setLimits", s.handleLimits))
	s.mux.HandleFunc("PUT /api/v1/role", s.instrument("setRole", s.handleRole))
	s.mux.HandleFunc("GET /api/v1/insights", s.instrument("getInsights", s.handleInsights))
	s.mux.HandleFunc("POST /api/v1/goals", s.instrument("computeGoals", s.handleGoals))
	s.mux.Handle("GET /metrics", promhttp.Handler())
}

// Handler exposes the routed mux, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", s.port),
		Handler: s.mux,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown", zap.Error(err))
		}
	}()

	logger.Info("dashboard listening", zap.Int("port", s.port))
	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return errors.Wrap(err, "listen")
}

type handlerFunc func(ctx context.Context, w http.ResponseWriter, r *http.Request) error

func (s *Server) instrument(op string, h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		span, ctx := opentracing.StartSpanFromContext(r.Context(), op)
		defer span.Finish()

		start := time.Now()
		err := h(ctx, w, r.WithContext(ctx))
		observeResponse(op, time.Since(start), err != nil)

		if err != nil {
			ext.Error.Set(span, true)
			logger.Error(op, zap.Error(err))
		}
	}
}

func (s *Server) invalidate(sessionID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateCache(sessionID, []string{insightsReportKind}); err != nil {
		logger.Warn("cache invalidation", zap.String("session", sessionID), zap.Error(err))
	}
}

func sessionID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.Header.Get(sessionHeader)
	if id == "" {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("missing %s header", sessionHeader))
		return "", false
	}
	return id, true
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("encoding response", zap.Error(err))
	}
}
