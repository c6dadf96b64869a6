package handlers

import (
	"net/http"

	"github.com/wonny/stockscope/internal/cache"
	"github.com/wonny/stockscope/pkg/logger"
)

// CacheHandler exposes cache administration
type CacheHandler struct {
	store  cache.Service
	logger *logger.Logger
}

// NewCacheHandler creates a new cache handler
func NewCacheHandler(store cache.Service, log *logger.Logger) *CacheHandler {
	return &CacheHandler{
		store:  store,
		logger: log,
	}
}

// GetStats returns cache size and hit counters
// GET /api/cache/stats
func (h *CacheHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.store.Stats(r.Context()))
}

// Clear drops every entry, or only those matching ?pattern=
// DELETE /api/cache
func (h *CacheHandler) Clear(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	pattern := r.URL.Query().Get("pattern")

	var (
		removed int
		err     error
	)
	if pattern == "" {
		removed, err = h.store.Clear(ctx)
	} else {
		removed, err = h.store.ClearPattern(ctx, pattern)
	}
	if err != nil {
		h.logger.WithContext(ctx).WithError(err).Error("Failed to clear cache")
		respondError(w, http.StatusInternalServerError, "Failed to clear cache")
		return
	}

	h.logger.WithContext(ctx).WithFields(map[string]interface{}{
		"pattern": pattern,
		"removed": removed,
	}).Info("Cache cleared")

	resp := map[string]interface{}{
		"cleared": removed,
	}
	if pattern != "" {
		resp["pattern"] = pattern
	}
	respondJSON(w, http.StatusOK, resp)
}
