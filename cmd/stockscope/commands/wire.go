package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/time/rate"

	"github.com/wonny/stockscope/internal/cache"
	"github.com/wonny/stockscope/internal/external/yahoo"
	"github.com/wonny/stockscope/internal/fundamentals"
	"github.com/wonny/stockscope/internal/selection"
	"github.com/wonny/stockscope/internal/universe"
	"github.com/wonny/stockscope/pkg/config"
	"github.com/wonny/stockscope/pkg/database"
	"github.com/wonny/stockscope/pkg/httputil"
	"github.com/wonny/stockscope/pkg/logger"
	"github.com/wonny/stockscope/pkg/redis"
)

// cachePrefix namespaces every Redis key this service writes
const cachePrefix = "stockscope"

// app holds the wired components shared by every command
type app struct {
	cfg      *config.Config
	log      *logger.Logger
	redis    *redis.Client
	db       *database.DB
	store    cache.Service
	service  *fundamentals.Service
	comparer *selection.Comparer
	screener *selection.Screener
	universe *universe.Source
	repo     *universe.Repository
}

// newApp wires config → logger → redis → cache → provider → engine
func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	log := logger.New(cfg)
	a := &app{cfg: cfg, log: log}

	// Redis (optional)
	a.redis, err = redis.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	// Result cache
	a.store = a.newStore()

	// Provider HTTP client
	httpClient := httputil.New(cfg, log).
		WithHeader("Accept", "application/json")
	if a.redis.Enabled() {
		limiter := redis.NewRateLimiter(a.redis, cachePrefix)
		httpClient = httpClient.WithRateLimiter(limiter, redis.YahooRateLimit.WithLimit(cfg.Provider.RateLimit))
	} else if cfg.Provider.RateLimit > 0 {
		httpClient = httpClient.WithLocalLimiter(rate.NewLimiter(rate.Limit(cfg.Provider.RateLimit), cfg.Provider.RateLimit))
	}

	provider := yahoo.NewClient(httpClient, cfg.Provider.BaseURL, cfg.Provider.LookbackYears, log.WithComponent("yahoo"))
	fetcher := fundamentals.NewFetcher(provider, cfg.Provider.Timeout, log.WithComponent("fetcher"))
	a.service = fundamentals.NewService(fetcher, a.store, log.WithComponent("fundamentals"))

	// Universe: PostgreSQL when configured, embedded list otherwise
	var primary universe.Lister
	a.db, err = database.New(ctx, cfg)
	switch {
	case err == nil:
		a.repo = universe.NewRepository(a.db.Pool)
		primary = a.repo
	case errors.Is(err, database.ErrDisabled):
		log.Debug("DATABASE_URL not set, using embedded universe")
	default:
		log.WithError(err).Warn("Database unavailable, using embedded universe")
	}
	a.universe = universe.NewSource(primary, log)

	batch := selection.ConfigFrom(cfg)
	a.comparer = selection.NewComparer(a.service, batch, log)
	a.screener = selection.NewScreener(a.service, a.universe, batch, log)

	return a, nil
}

func (a *app) newStore() cache.Service {
	cfg := a.cfg.Cache
	if noCache {
		// 크기 1, TTL 0에 가까운 저장소로 사실상 캐시 비활성
		return cache.NewMemoryStore(1, time.Nanosecond)
	}
	if cfg.Backend == config.CacheBackendRedis && a.redis.Enabled() {
		return cache.NewRedisStore(a.redis, cachePrefix, cfg.MaxSize, cfg.TTL, a.log.WithComponent("cache"))
	}
	return cache.NewMemoryStore(cfg.MaxSize, cfg.TTL)
}

func (a *app) close() {
	a.db.Close()
	if err := a.redis.Close(); err != nil {
		a.log.WithError(err).Warn("Failed to close redis")
	}
}

// printJSON writes v to stdout, indented
func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
