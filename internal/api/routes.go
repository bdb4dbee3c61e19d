package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// SetupRoutes configures all API routes
func SetupRoutes(handler *Handler) *mux.Router {
	r := mux.NewRouter()
	r.Use(handler.logRequests)

	// Health check
	r.HandleFunc("/health", handler.HealthCheck).Methods("GET")

	api := r.PathPrefix("/api/v1").Subrouter()

	// Wine routes
	api.HandleFunc("/wines/{id:[0-9]+}/investment", handler.GetInvestmentProfile).Methods("GET")
	api.HandleFunc("/wines/{id:[0-9]+}/investment", handler.RecomputeInvestmentProfile).Methods("POST")
	api.HandleFunc("/wines/{id:[0-9]+}/roi", handler.CalculateROI).Methods("GET")

	// Investment routes
	api.HandleFunc("/investment/wines", handler.ListInvestmentWines).Methods("GET")
	api.HandleFunc("/investment/portfolio", handler.BuildPortfolio).Methods("GET")

	return r
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		h.logger.Debug("HTTP request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}
