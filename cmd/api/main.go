package main

import (
	"context"
	"log"
	"net/http"

	"mention-radar/aggregator"
	"mention-radar/cmd/api/router"
	"mention-radar/cmd/api/services"
	"mention-radar/config"
	"mention-radar/db"
	_ "mention-radar/docs" // swag will generate this package
	"mention-radar/internal/logger"
	"mention-radar/kafka"
	"mention-radar/repositories"
	"mention-radar/scoring"
	"mention-radar/sentiment"
	"mention-radar/sources"
)

// @title           Mention Radar API
// @version         1.0
// @description     Cross-platform social mention aggregation with credibility and sentiment scoring
// @BasePath        /api/v1
func main() {
	config.InitApp()
	cfg := config.GetConfig()
	logger.Init(cfg.Logging.Level)

	engineCfg := aggregator.Config{
		Sources: sources.FromConfig(cfg),
		Weights: scoring.Weights{
			Recency:     cfg.Scoring.RecencyWeight,
			Engagement:  cfg.Scoring.EngagementWeight,
			Credibility: cfg.Scoring.CredibilityWeight,
		},
		Logger: logger.Log,
	}
	if ga := sentiment.NewGeminiAnalyzer(cfg.GeminiApiKey, cfg.GeminiModel, sentiment.NewQuotaLimiterFromConfig(cfg)); ga != nil {
		engineCfg.Analyzer = ga
	} else {
		logger.Log.Warn("GEMINI_API_KEY not set; sentiment falls back to the lexicon distribution")
	}
	engine := aggregator.New(engineCfg)

	producer := kafka.NewProducerFromEnv()
	defer producer.Close()

	deps := router.Deps{
		Search: services.NewSearchService(engine, producer),
	}

	// Mongo 는 저장된 검색/알림 기능에만 필요하다. 미설정 시 집계 API 만 제공한다.
	if cfg.MongoURI != "" {
		if err := db.Init(context.Background()); err != nil {
			log.Fatal(err)
		}
		deps.SavedSearches = services.NewSavedSearchService(
			repositories.NewSavedSearchRepository(db.Database()),
			repositories.NewAlertRepository(db.Database()),
			engine,
			producer,
		)
	} else {
		logger.Log.Warn("MONGO_URI not set; saved searches and alerts are disabled")
	}

	r := router.New(deps)

	if err := r.Run(":8080"); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
