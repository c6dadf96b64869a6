package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wonny/stockscope/internal/contracts"
	"github.com/wonny/stockscope/internal/fundamentals"
	"github.com/wonny/stockscope/pkg/logger"
)

// FundamentalsService is the engine surface the handlers read from
type FundamentalsService interface {
	TTM(ctx context.Context, ticker string) (contracts.TTMResult, error)
	Series(ctx context.Context, ticker string) (contracts.SeriesResult, error)
	Fundamentals(ctx context.Context, ticker string) (contracts.FundamentalsResponse, error)
}

// Comparer runs the compare batch
type Comparer interface {
	Compare(ctx context.Context, req contracts.CompareRequest) ([]contracts.TTMResult, error)
}

// Screener runs the screener batch
type Screener interface {
	Screen(ctx context.Context, req contracts.ScreenerRequest) (contracts.ScreenerResponse, error)
}

// FundamentalsHandler handles fundamentals API endpoints
// ⭐ SSOT: 펀더멘털 API 핸들러는 이 구조체에서만
type FundamentalsHandler struct {
	service  FundamentalsService
	comparer Comparer
	screener Screener
	logger   *logger.Logger
}

// NewFundamentalsHandler creates a new fundamentals handler
func NewFundamentalsHandler(service FundamentalsService, comparer Comparer, screener Screener, log *logger.Logger) *FundamentalsHandler {
	return &FundamentalsHandler{
		service:  service,
		comparer: comparer,
		screener: screener,
		logger:   log,
	}
}

// GetFundamentals returns TTM metrics, series and metadata in one payload
// GET /api/fundamentals/{ticker}
func (h *FundamentalsHandler) GetFundamentals(w http.ResponseWriter, r *http.Request) {
	ticker := mux.Vars(r)["ticker"]

	resp, err := h.service.Fundamentals(r.Context(), ticker)
	if err != nil {
		h.fail(w, r, err, ticker, fmt.Sprintf("Error fetching fundamentals for %s", ticker))
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

// GetTTM returns trailing-twelve-month metrics
// GET /api/fundamentals/{ticker}/ttm
func (h *FundamentalsHandler) GetTTM(w http.ResponseWriter, r *http.Request) {
	ticker := mux.Vars(r)["ticker"]

	result, err := h.service.TTM(r.Context(), ticker)
	if err != nil {
		h.fail(w, r, err, ticker, fmt.Sprintf("Error fetching TTM fundamentals for %s", ticker))
		return
	}

	respondJSON(w, http.StatusOK, fundamentals.Compact(result.Record()))
}

// GetSeries returns the quarterly chart series
// GET /api/fundamentals/{ticker}/series
func (h *FundamentalsHandler) GetSeries(w http.ResponseWriter, r *http.Request) {
	ticker := mux.Vars(r)["ticker"]

	result, err := h.service.Series(r.Context(), ticker)
	if err != nil {
		h.fail(w, r, err, ticker, fmt.Sprintf("Error fetching series for %s", ticker))
		return
	}

	respondJSON(w, http.StatusOK, fundamentals.Compact(result.Record()))
}

// Compare returns TTM metrics for several tickers, largest revenue first
// POST /api/fundamentals/compare
func (h *FundamentalsHandler) Compare(w http.ResponseWriter, r *http.Request) {
	var req contracts.CompareRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	results, err := h.comparer.Compare(r.Context(), req)
	if err != nil {
		h.fail(w, r, err, "", "Error comparing fundamentals")
		return
	}

	records := make([]map[string]any, len(results))
	for i, res := range results {
		records[i] = fundamentals.Compact(res.Record())
	}
	respondJSON(w, http.StatusOK, records)
}

// Screen filters a universe on growth and leverage
// POST /api/fundamentals/screener
func (h *FundamentalsHandler) Screen(w http.ResponseWriter, r *http.Request) {
	var req contracts.ScreenerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.screener.Screen(r.Context(), req)
	if err != nil {
		h.fail(w, r, err, "", "Error running screener")
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

// fail writes the mapped status. Client errors echo the cause; server
// errors are logged and answered with a generic message.
func (h *FundamentalsHandler) fail(w http.ResponseWriter, r *http.Request, err error, ticker, message string) {
	status := statusFor(err)
	if status != http.StatusInternalServerError {
		respondError(w, status, err.Error())
		return
	}

	log := h.logger.WithContext(r.Context()).WithError(err)
	if ticker != "" {
		log = log.WithField("ticker", ticker)
	}
	log.Error(message)
	respondError(w, status, message)
}
