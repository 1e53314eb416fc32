package app

import (
	"context"
	"fmt"
	"net/http"

	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/riskibarqy/pitchmetrics/internal/config"
	"github.com/riskibarqy/pitchmetrics/internal/domain/event"
	"github.com/riskibarqy/pitchmetrics/internal/domain/passing"
	cachedrepo "github.com/riskibarqy/pitchmetrics/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/pitchmetrics/internal/infrastructure/repository/csvfile"
	"github.com/riskibarqy/pitchmetrics/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/pitchmetrics/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/pitchmetrics/internal/interfaces/httpapi"
	"github.com/riskibarqy/pitchmetrics/internal/platform/logging"
	"github.com/riskibarqy/pitchmetrics/internal/usecase"
)

func NewHTTPServer(ctx context.Context, cfg config.Config, logger *logging.Logger) (*http.Server, func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}

	repo, closeRepo, err := newEventRepository(ctx, cfg, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("build event repository: %w", err)
	}

	if cfg.CacheEnabled && cfg.EventSource != config.SourceMemory {
		repo = cachedrepo.NewEventRepository(repo, cfg.CacheTTL)
	}

	metricsSvc := usecase.NewMetricsService(repo, usecase.MetricsConfig{
		Passing: passing.Config{
			EventType:         cfg.PassEventType,
			LongBallMinLength: cfg.LongBallMinLength,
			PitchLength:       cfg.PitchLength,
		},
		DefaultMatchMinutes: cfg.DefaultMatchMinutes,
		SummaryCacheTTL:     cfg.SummaryCacheTTL,
		FanOutWorkers:       cfg.FanOutWorkers,
	}, logger)
	catalogSvc := usecase.NewCatalogService(repo)

	handler := httpapi.NewHandler(metricsSvc, catalogSvc, logger)
	router := httpapi.NewRouter(handler, logger, cfg.SwaggerEnabled, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		_ = closeRepo()
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	logger.Info("event repository ready", "source", cfg.EventSource)

	return server, closeRepo, nil
}

func newEventRepository(ctx context.Context, cfg config.Config, logger *logging.Logger) (event.Repository, func() error, error) {
	noop := func() error { return nil }

	switch cfg.EventSource {
	case config.SourceMemory:
		return memory.NewEventRepository(memory.SeedEvents()), noop, nil

	case config.SourceCSV:
		repo := csvfile.New(cfg.EventsCSVPath, csvfile.Options{OutcomeColumn: cfg.EventsOutcomeColumn}, logger)
		return repo, noop, nil

	case config.SourcePostgres:
		dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)
		db, err := otelsqlx.Connect("postgres", dsn,
			otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
			otelsql.WithQueryFormatter(formatDBQueryForTrace),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}

		if cfg.DBSeedOnStart {
			if err := postgres.BootstrapSeed(ctx, db); err != nil {
				_ = db.Close()
				return nil, nil, fmt.Errorf("bootstrap seed: %w", err)
			}
		}

		return postgres.NewEventRepository(db), db.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown event source %q", cfg.EventSource)
	}
}
