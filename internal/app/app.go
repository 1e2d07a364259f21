// Package app wires configuration, feed clients and services into a
// runnable HTTP server.
package app

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/onzecoach/onze-coach/internal/config"
	"github.com/onzecoach/onze-coach/internal/domain/scoring"
	"github.com/onzecoach/onze-coach/internal/infrastructure/sources/memory"
	"github.com/onzecoach/onze-coach/internal/interfaces/httpapi"
	"github.com/onzecoach/onze-coach/internal/platform/cache"
	"github.com/onzecoach/onze-coach/internal/platform/logging"
	"github.com/onzecoach/onze-coach/internal/platform/resilience"
	"github.com/onzecoach/onze-coach/internal/usecase"

	"github.com/onzecoach/onze-coach/external/apifootball"
	"github.com/onzecoach/onze-coach/external/statsfeed"
)

func NewHTTPServer(cfg config.Config, logger *slog.Logger) (*http.Server, error) {
	if logger == nil {
		logger = slog.Default()
	}

	sources := buildSources(cfg, logger)
	scoringCfg := buildScoringConfig(cfg)

	recommendSvc := usecase.NewRecommendationService(sources, scoringCfg, logger)
	bulkSvc := usecase.NewBulkService(recommendSvc, cfg.BulkWorkers, logger)

	handler := httpapi.NewHandler(recommendSvc, bulkSvc, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, nil
}

// buildSources picks the live feed clients when configured and the seeded
// in-memory provider otherwise. A partially configured setup mixes both:
// each disabled slot falls back to the seed so local runs always work.
func buildSources(cfg config.Config, logger *slog.Logger) usecase.Sources {
	seeded := memory.NewSeeded()
	sources := seeded.Sources()

	var store *cache.Store
	if cfg.CacheEnabled {
		store = cache.NewStore(cfg.CacheTTL)
	}
	platformLogger := logging.Default()

	if cfg.APIFootballEnabled {
		client := apifootball.NewClient(apifootball.ClientConfig{
			BaseURL:    cfg.APIFootballBaseURL,
			Token:      cfg.APIFootballToken,
			Season:     cfg.APIFootballSeason,
			Timeout:    cfg.APIFootballTimeout,
			MaxRetries: cfg.APIFootballMaxRetries,
			Logger:     platformLogger,
			Cache:      store,
			Leagues:    cfg.APIFootballLeagueByChamp,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.APIFootballCircuitEnabled,
				FailureThreshold: cfg.APIFootballCircuitFailureCount,
				OpenTimeout:      cfg.APIFootballCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.APIFootballCircuitHalfOpenMax,
			},
		})
		sources.Injuries = client
		sources.Schedule = client
		sources.Results = client
		sources.Transfers = client
		logger.Info("api-football feeds enabled", "base_url", cfg.APIFootballBaseURL)
	}

	if cfg.StatsFeedEnabled {
		client := statsfeed.NewClient(statsfeed.ClientConfig{
			BaseURL:    cfg.StatsFeedBaseURL,
			Token:      cfg.StatsFeedToken,
			Timeout:    cfg.StatsFeedTimeout,
			MaxRetries: cfg.StatsFeedMaxRetries,
			Logger:     platformLogger,
			Cache:      store,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.StatsFeedCircuitEnabled,
				FailureThreshold: cfg.StatsFeedCircuitFailureCount,
				OpenTimeout:      cfg.StatsFeedCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.StatsFeedCircuitHalfOpenMax,
			},
		})
		sources.Squad = client
		sources.Pool = client
		sources.News = client
		sources.Lineups = client
		logger.Info("stats feed enabled", "base_url", cfg.StatsFeedBaseURL)
	}

	if !cfg.APIFootballEnabled && !cfg.StatsFeedEnabled {
		logger.Info("running on seeded in-memory feeds",
			"championship", memory.ChampionshipLigue1,
			"demo_squad", memory.SquadIDDemo,
		)
	}

	return sources
}

func buildScoringConfig(cfg config.Config) scoring.Config {
	scoringCfg := scoring.DefaultConfig()
	if cfg.ScoreMinStarterMatches > 0 {
		scoringCfg.MinStarterMatches = cfg.ScoreMinStarterMatches
	}
	if cfg.ScoreLowThreshold > 0 {
		scoringCfg.LowScoreThreshold = cfg.ScoreLowThreshold
	}
	return scoringCfg
}

// ShutdownTimeout bounds graceful shutdown of the HTTP server.
const ShutdownTimeout = 10 * time.Second
