package handler

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog"

	"github.com/dev-jianomads/ytsafe/internal/middleware"
	"github.com/dev-jianomads/ytsafe/internal/model"
	"github.com/dev-jianomads/ytsafe/internal/repository"
	"github.com/dev-jianomads/ytsafe/internal/service"
	"github.com/dev-jianomads/ytsafe/internal/youtube"
	"github.com/dev-jianomads/ytsafe/pkg/hash"
)

// AnalyzeHandler serves POST /api/analyse: the whole pipeline behind a
// single request-level deadline.
type AnalyzeHandler struct {
	svc      *service.AnalyzeService // nil when external credentials are missing
	searches *repository.SearchRepo  // nil when the analytics DB is not configured
	timeout  time.Duration
	log      zerolog.Logger
}

func NewAnalyzeHandler(svc *service.AnalyzeService, searches *repository.SearchRepo, timeout time.Duration, log zerolog.Logger) *AnalyzeHandler {
	return &AnalyzeHandler{svc: svc, searches: searches, timeout: timeout, log: log}
}

type analyzeRequest struct {
	Q string `json:"q"`
}

// Analyze handles POST /api/analyse.
func (h *AnalyzeHandler) Analyze(c fiber.Ctx) error {
	var req analyzeRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "MISSING_QUERY", "request body must be JSON with a q field")
	}

	query, problem := middleware.ValidateQuery(req.Q)
	if problem != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "MISSING_QUERY", problem)
	}

	if h.svc == nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "SERVER_MISCONFIG", "external API credentials are not configured")
	}

	sessionID := hash.NewSessionID()
	userAgentHash := hash.ShortHex(c.Get(fiber.HeaderUserAgent), 12)

	ctx, cancel := context.WithTimeout(c.Context(), h.timeout)
	defer cancel()

	start := time.Now()
	result, err := h.svc.Analyze(ctx, query)
	Metrics.AnalysisDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		code, status := errorCode(err)
		Metrics.AnalysesTotal.WithLabelValues(code).Inc()
		h.recordFailure(query, code, sessionID, userAgentHash)

		detail := ""
		if code == "ANALYSIS_FAILED" {
			detail = err.Error()
		}
		return middleware.ErrorResponse(c, status, code, detail)
	}

	Metrics.AnalysesTotal.WithLabelValues("success").Inc()
	Metrics.ClassifierFallbacks.Add(float64(result.FallbackCount))
	h.recordSuccess(query, result.Response, sessionID, userAgentHash)

	return c.JSON(result.Response)
}

// errorCode maps pipeline failures to the API error taxonomy.
func errorCode(err error) (code string, status int) {
	switch {
	case errors.Is(err, service.ErrChannelNotFound):
		return "CHANNEL_NOT_FOUND", fiber.StatusNotFound
	case errors.Is(err, service.ErrNoVideosFound):
		return "NO_VIDEOS_FOUND", fiber.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return "TIMEOUT", fiber.StatusRequestTimeout
	default:
		return "ANALYSIS_FAILED", fiber.StatusInternalServerError
	}
}

func (h *AnalyzeHandler) recordSuccess(query string, resp *model.AnalyzeResponse, sessionID, userAgentHash string) {
	rec := &model.SearchRecord{
		Query:                 query,
		QueryType:             string(youtube.ClassifyQuery(query)),
		AgeBand:               string(resp.Aggregate.AgeBand),
		VideoCount:            len(resp.Videos),
		TranscriptCoveragePct: resp.TranscriptCoverage.Percentage,
		WarningsCount:         len(resp.Warnings),
		Success:               true,
		SessionID:             sessionID,
		UserAgentHash:         userAgentHash,
		CreatedAt:             time.Now(),
	}
	if resp.Channel != nil {
		rec.ChannelID = resp.Channel.ID
		rec.ChannelName = resp.Channel.Title
	}

	velocitySum, velocityCount := 0.0, 0
	for _, v := range resp.Videos {
		if v.Engagement == nil {
			continue
		}
		if v.Engagement.ControversyScore > 0.7 {
			rec.HighControversyCount++
		}
		if v.Engagement.AudienceEngagement == model.EngagementSuspicious {
			rec.SuspiciousEngagementCount++
		}
		if v.Engagement.EngagementVelocity > 0 {
			velocitySum += v.Engagement.EngagementVelocity
			velocityCount++
		}
	}
	if velocityCount > 0 {
		rec.AvgEngagementVelocity = math.Round(velocitySum / float64(velocityCount))
	}

	h.record(rec)
}

func (h *AnalyzeHandler) recordFailure(query, errorType, sessionID, userAgentHash string) {
	h.record(&model.SearchRecord{
		Query:         query,
		QueryType:     string(youtube.ClassifyQuery(query)),
		Success:       false,
		ErrorType:     errorType,
		SessionID:     sessionID,
		UserAgentHash: userAgentHash,
		CreatedAt:     time.Now(),
	})
}

// record persists an analytics row fire-and-forget. Recording failures are
// logged, never surfaced to the caller.
func (h *AnalyzeHandler) record(rec *model.SearchRecord) {
	if h.searches == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := h.searches.Insert(ctx, rec); err != nil {
			h.log.Warn().Err(err).Msg("analytics insert failed")
		}
	}()
}
