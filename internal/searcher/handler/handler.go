// Package handler implements the HTTP search API.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/AKNosov/InfSearch/internal/searcher"
	"github.com/AKNosov/InfSearch/internal/searcher/cache"
	"github.com/AKNosov/InfSearch/internal/searcher/executor"
	"github.com/AKNosov/InfSearch/pkg/logger"
	"github.com/AKNosov/InfSearch/pkg/metrics"
)

// Handler serves search queries over the snapshot service.
type Handler struct {
	service      *searcher.Service
	cache        *cache.QueryCache
	metrics      *metrics.Metrics
	defaultLimit int
	maxResults   int
	logger       *slog.Logger
}

// New creates a Handler. queryCache may be nil when Redis is
// unavailable.
func New(service *searcher.Service, queryCache *cache.QueryCache, m *metrics.Metrics, defaultLimit, maxResults int) *Handler {
	return &Handler{
		service:      service,
		cache:        queryCache,
		metrics:      m,
		defaultLimit: defaultLimit,
		maxResults:   maxResults,
		logger:       slog.Default().With("component", "search-handler"),
	}
}

// Search handles GET /api/v1/search?q=...&limit=N.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()
	log := logger.FromContext(ctx)

	query := r.URL.Query().Get("q")
	if query == "" {
		h.metrics.SearchQueriesTotal.WithLabelValues("rejected").Inc()
		h.writeError(w, http.StatusBadRequest, "query parameter 'q' is required")
		return
	}

	limit := h.defaultLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 1 {
			h.metrics.SearchQueriesTotal.WithLabelValues("rejected").Inc()
			h.writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		if parsed > h.maxResults {
			parsed = h.maxResults
		}
		limit = parsed
	}

	snap := h.service.Current()
	if snap == nil {
		h.writeError(w, http.StatusServiceUnavailable, "index not built yet")
		return
	}

	var ids []int
	cacheStatus := "bypass"
	if h.cache != nil {
		var hit bool
		ids, hit = h.cache.GetOrCompute(ctx, query, func() []int {
			return snap.Exec.Search(query)
		})
		cacheStatus = "miss"
		if hit {
			cacheStatus = "hit"
			h.metrics.CacheHitsTotal.Inc()
		} else {
			h.metrics.CacheMissesTotal.Inc()
		}
	} else {
		ids = snap.Exec.Search(query)
	}

	urls := make([]string, 0, limit)
	for _, id := range ids {
		if len(urls) >= limit {
			break
		}
		urls = append(urls, h.service.URL(snap, id))
	}

	result := &executor.SearchResult{
		Query:     query,
		TotalHits: len(ids),
		IDs:       ids,
		URLs:      urls,
	}

	resultType := "hit"
	if len(ids) == 0 {
		resultType = "zero_result"
	}
	h.metrics.SearchQueriesTotal.WithLabelValues(resultType).Inc()
	h.metrics.SearchLatency.WithLabelValues(cacheStatus).Observe(time.Since(start).Seconds())
	h.metrics.SearchHitsCount.Observe(float64(len(ids)))

	log.Info("search completed",
		"query", query,
		"total_hits", result.TotalHits,
		"cache", cacheStatus,
		"latency_ms", time.Since(start).Milliseconds(),
	)
	h.writeJSON(w, http.StatusOK, result)
}

// Stats handles GET /api/v1/index/stats.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, ok := h.service.Stats()
	if !ok {
		h.writeError(w, http.StatusServiceUnavailable, "index not built yet")
		return
	}
	resp := map[string]any{
		"docs":     stats.Docs,
		"terms":    stats.Terms,
		"built_at": stats.BuiltAt,
	}
	if h.cache != nil {
		hits, misses := h.cache.Stats()
		resp["cache"] = map[string]int64{"hits": hits, "misses": misses}
	}
	h.writeJSON(w, http.StatusOK, resp)
}

// CacheInvalidate handles POST /api/v1/cache/invalidate.
func (h *Handler) CacheInvalidate(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		h.writeError(w, http.StatusServiceUnavailable, "cache not configured")
		return
	}
	if err := h.cache.Invalidate(r.Context()); err != nil {
		h.logger.Error("cache invalidation failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "cache invalidation failed")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("writing response failed", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, map[string]string{"error": msg})
}
