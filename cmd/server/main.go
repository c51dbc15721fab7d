package main

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/dev-jianomads/ytsafe/internal/ai"
	"github.com/dev-jianomads/ytsafe/internal/config"
	"github.com/dev-jianomads/ytsafe/internal/db"
	"github.com/dev-jianomads/ytsafe/internal/handler"
	"github.com/dev-jianomads/ytsafe/internal/middleware"
	"github.com/dev-jianomads/ytsafe/internal/repository"
	"github.com/dev-jianomads/ytsafe/internal/router"
	"github.com/dev-jianomads/ytsafe/internal/service"
	"github.com/dev-jianomads/ytsafe/internal/transcript"
	"github.com/dev-jianomads/ytsafe/internal/youtube"
)

func main() {
	cfg := config.Load()

	middleware.InitLogger(cfg.LogLevel, "ytsafe-api")
	log := middleware.Logger

	ctx := context.Background()

	// Analytics storage is optional: without a database the analysis API
	// still works, only recording and /api/stats are disabled.
	var searches *repository.SearchRepo
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Warn().Err(err).Msg("database unavailable, analytics disabled")
	} else {
		defer pool.Close()
		searches = repository.NewSearchRepo(pool)
	}

	cache := service.NewCacheService(cfg.RedisURL)
	defer cache.Close()

	handler.InitMetrics(pool)

	// The pipeline is only wired when both external credentials are present.
	// A nil service surfaces as SERVER_MISCONFIG at request time.
	var analyzeSvc *service.AnalyzeService
	if cfg.Configured() {
		yt, err := youtube.NewClient(ctx, cfg.YouTubeAPIKey)
		if err != nil {
			log.Fatal().Err(err).Msg("youtube client init failed")
		}
		llm, err := ai.NewClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			log.Fatal().Err(err).Msg("gemini client init failed")
		}
		classifier := service.NewClassifyService(llm, log)
		analyzeSvc = service.NewAnalyzeService(yt, transcript.NewClient(), classifier, cfg.MaxVideos, log)
	} else {
		log.Warn().Msg("YOUTUBE_API_KEY or GEMINI_API_KEY missing, analysis disabled")
	}

	timeout := time.Duration(cfg.AnalyzeTimeout) * time.Second

	h := &router.Handlers{
		Analyze: handler.NewAnalyzeHandler(analyzeSvc, searches, timeout, log),
		Stats:   handler.NewStatsHandler(searches, cache, log),
		Health:  handler.NewHealthHandler(pool, cache.Client()),
	}

	app := fiber.New(fiber.Config{
		AppName:      "YTSafe API",
		ServerHeader: "YTSafe",
	})

	router.Setup(app, h, cfg.CORSOrigins)

	log.Info().Str("port", cfg.Port).Str("env", cfg.Environment).Msg("starting server")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
