// Package api provides the HTTP server for the ledger daemon.
// Every operation carries an explicit logical timestamp supplied by the
// caller; the server never reads a wall clock on the engine's behalf.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ledgerkit/ledgerd/internal/journal"
	"github.com/ledgerkit/ledgerd/internal/ledger"
	"github.com/ledgerkit/ledgerd/internal/metrics"
)

// Server is the ledger HTTP API server.
type Server struct {
	engine         *ledger.Engine
	journal        *journal.Journal // nil disables the history endpoint
	log            *zap.Logger
	metricsEnabled bool
}

// NewServer creates a new API server around an engine.
func NewServer(engine *ledger.Engine, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{engine: engine, log: log}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// SetJournal attaches the audit journal backing /history.
func (s *Server) SetJournal(j *journal.Journal) { s.journal = j }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(s.observeRequests)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "ok",
		})
	})

	r.Route("/v1", func(r chi.Router) {
		r.Post("/accounts", s.handleCreateAccount)
		r.Get("/accounts/{id}", s.handleGetAccount)
		r.Post("/accounts/{id}/deposit", s.handleDeposit)
		r.Post("/accounts/{id}/pay", s.handlePay)
		r.Get("/accounts/{id}/payments/{paymentID}", s.handlePaymentStatus)
		r.Get("/accounts/{id}/history", s.handleHistory)
		r.Post("/transfers", s.handleTransfer)
		r.Post("/transfers/{id}/accept", s.handleAcceptTransfer)
		r.Get("/transfers/{id}", s.handleTransferStatus)
		r.Get("/spenders", s.handleTopSpenders)
	})

	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

// observeRequests logs each request and records its latency histogram.
func (s *Server) observeRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = r.URL.Path
		}
		code := strconv.Itoa(ww.Status())
		metrics.RequestDuration.WithLabelValues(route, code).Observe(time.Since(start).Seconds())
		s.log.Debug("request",
			zap.String("method", r.Method),
			zap.String("route", route),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())))
	})
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"message": msg,
			"type":    "error",
		},
	})
}
