package app

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/believe-gautam/travel-planner-api/internal/cache"
	"github.com/believe-gautam/travel-planner-api/internal/compare"
	"github.com/believe-gautam/travel-planner-api/internal/config"
	handlers "github.com/believe-gautam/travel-planner-api/internal/http"
	"github.com/believe-gautam/travel-planner-api/internal/obs"
	"github.com/believe-gautam/travel-planner-api/internal/ratelimit"
	"github.com/believe-gautam/travel-planner-api/internal/routes"
	"github.com/believe-gautam/travel-planner-api/internal/store"
)

type App struct {
	Config  *config.Config
	Router  http.Handler
	Store   store.Store
	Cache   cache.Cache
	Service compare.ComparisonService
	Metrics *obs.Metrics
}

func SetAppConfig() (*App, error) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	db, err := store.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	st := store.New(db)

	// Redis when configured, in-process fallback otherwise
	var c cache.Cache
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("parse REDIS_URL: %w", err)
		}
		c = cache.NewRedis(redis.NewClient(opts), "comparisons")
	} else {
		c = cache.NewMemory()
	}

	customRegistry := prometheus.NewRegistry()
	metrics := obs.NewMetrics(customRegistry)

	dispatcher := compare.NewDispatcher(st, &http.Client{}, cfg.ProviderCallTimeout, metrics, logger)
	svc := compare.NewService(dispatcher, c, metrics, cfg.CacheTTL)
	rl := ratelimit.NewIPRateLimiter(cfg.RateLimitPerMinute)
	h := handlers.NewHandler(svc, st, rl, metrics)

	router := routes.GetRoutes(h, metrics, logger, cfg.RequestTimeout)

	return &App{
		Config:  cfg,
		Router:  router,
		Store:   st,
		Cache:   c,
		Service: svc,
		Metrics: metrics,
	}, nil
}
