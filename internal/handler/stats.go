package handler

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog"

	"github.com/dev-jianomads/ytsafe/internal/middleware"
	"github.com/dev-jianomads/ytsafe/internal/repository"
	"github.com/dev-jianomads/ytsafe/internal/service"
)

// StatsHandler serves GET /api/stats: aggregated, anonymized usage numbers
// for the parent-facing dashboard.
type StatsHandler struct {
	searches *repository.SearchRepo // nil when the analytics DB is not configured
	cache    *service.CacheService
	log      zerolog.Logger
}

func NewStatsHandler(searches *repository.SearchRepo, cache *service.CacheService, log zerolog.Logger) *StatsHandler {
	return &StatsHandler{searches: searches, cache: cache, log: log}
}

// Stats handles GET /api/stats?range=all|30days.
func (h *StatsHandler) Stats(c fiber.Ctx) error {
	rangeKey, problem := middleware.ValidateStatsRange(c.Query("range"))
	if problem != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_RANGE", problem)
	}

	if h.searches == nil {
		return middleware.ErrorResponse(c, fiber.StatusServiceUnavailable, "STATS_UNAVAILABLE", "analytics storage is not configured")
	}

	if cached, err := h.cache.GetStats(c.Context(), rangeKey); err == nil && cached != nil {
		Metrics.CacheHits.Inc()
		c.Set("Content-Type", "application/json")
		return c.Send(cached)
	}
	Metrics.CacheMisses.Inc()

	since := time.Time{}
	if rangeKey == "30days" {
		since = time.Now().AddDate(0, 0, -30)
	}

	summary, err := h.searches.Summary(c.Context(), since)
	if err != nil {
		h.log.Error().Err(err).Msg("stats query failed")
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "STATS_FAILED", "")
	}

	if err := h.cache.SetStats(c.Context(), rangeKey, summary); err != nil {
		h.log.Warn().Err(err).Msg("stats cache write failed")
	}

	return c.JSON(summary)
}
