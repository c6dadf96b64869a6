package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wonny/stockscope/internal/api/handlers"
	"github.com/wonny/stockscope/pkg/logger"
)

// NewRouter creates and configures the HTTP router
// ⭐ SSOT: 라우팅 설정은 이 함수에서만
func NewRouter(fundamentalsHandler *handlers.FundamentalsHandler, cacheHandler *handlers.CacheHandler, log *logger.Logger) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", healthCheckHandler).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()

	// Batch endpoints first so {ticker} does not capture them
	api.HandleFunc("/fundamentals/compare", fundamentalsHandler.Compare).Methods("POST")
	api.HandleFunc("/fundamentals/screener", fundamentalsHandler.Screen).Methods("POST")

	api.HandleFunc("/fundamentals/{ticker}", fundamentalsHandler.GetFundamentals).Methods("GET")
	api.HandleFunc("/fundamentals/{ticker}/ttm", fundamentalsHandler.GetTTM).Methods("GET")
	api.HandleFunc("/fundamentals/{ticker}/series", fundamentalsHandler.GetSeries).Methods("GET")

	// Cache admin
	api.HandleFunc("/cache/stats", cacheHandler.GetStats).Methods("GET")
	api.HandleFunc("/cache", cacheHandler.Clear).Methods("DELETE")

	// Apply middleware
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

// healthCheckHandler returns server health status
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "fundamentals",
	})
}
