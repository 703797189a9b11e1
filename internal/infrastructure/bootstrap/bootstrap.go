package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"

	coreport "github.com/amirhossein-jamali/game-portal/internal/domain/port/core"
	upstreamport "github.com/amirhossein-jamali/game-portal/internal/domain/port/upstream"
	"github.com/amirhossein-jamali/game-portal/internal/domain/usecase/catalog"
	"github.com/amirhossein-jamali/game-portal/internal/domain/usecase/ledger"
	"github.com/amirhossein-jamali/game-portal/internal/infrastructure/adapter/logger"
	timeProvider "github.com/amirhossein-jamali/game-portal/internal/infrastructure/adapter/time"
	"github.com/amirhossein-jamali/game-portal/internal/infrastructure/adapter/upstream"
	"github.com/amirhossein-jamali/game-portal/internal/infrastructure/config"
)

const redisPingTimeout = 3 * time.Second

// NewLogger builds the zap logger for the environment at the configured level
func NewLogger(cfg *config.Config) coreport.Logger {
	l := logger.NewZapLogger(cfg.Environment == config.Production)
	l.SetLevel(coreport.ParseLogLevel(cfg.Logger.Level))
	return l
}

// NewTimeProvider returns a wall clock in the ledger timezone
func NewTimeProvider(cfg *config.Config) (coreport.TimeProvider, error) {
	loc, err := cfg.Ledger.Location()
	if err != nil {
		return nil, fmt.Errorf("invalid ledger.timezone: %w", err)
	}
	return timeProvider.NewRealTimeProviderIn(loc), nil
}

// LedgerLimits converts the ledger section into transfer caps
func LedgerLimits(cfg *config.Config, loc *time.Location) (ledger.Limits, error) {
	limits := ledger.Limits{Location: loc}
	for _, f := range []struct {
		name  string
		value string
		dst   *decimal.Decimal
	}{
		{"ledger.runnerPerTransfer", cfg.Ledger.RunnerPerTransfer, &limits.RunnerPerTransfer},
		{"ledger.perRecipientDaily", cfg.Ledger.PerRecipientDaily, &limits.PerRecipientDaily},
		{"ledger.runnerDailyTotal", cfg.Ledger.RunnerDailyTotal, &limits.RunnerDailyTotal},
	} {
		d, err := decimal.NewFromString(f.value)
		if err != nil || !d.IsPositive() {
			return ledger.Limits{}, fmt.Errorf("%s must be a positive amount, got %q", f.name, f.value)
		}
		*f.dst = d.Round(2)
	}
	return limits, nil
}

// CatalogConfig converts the catalog section
func CatalogConfig(cfg *config.Config) (catalog.Config, error) {
	style, err := upstreamport.ParseImageStyle(cfg.Catalog.DefaultImageStyle, upstreamport.ImageStyle1)
	if err != nil {
		return catalog.Config{}, fmt.Errorf("invalid catalog.defaultImageStyle: %w", err)
	}
	return catalog.Config{
		DefaultImageStyle: style,
		CDNURL:            cfg.Catalog.CDNURL,
		Placeholders:      cfg.Catalog.ImagePlaceholders,
		SyncTimeout:       cfg.Catalog.SyncTimeout,
	}, nil
}

// NewGamesClient builds the games API client. The response cache lives in Redis
// when enabled and reachable, otherwise in process memory. The returned func
// releases the Redis connection.
func NewGamesClient(
	ctx context.Context,
	cfg *config.Config,
	tp coreport.TimeProvider,
	log coreport.Logger,
	opts ...upstream.Option,
) (*upstream.Client, func() error) {
	cache, closeCache := newResponseCache(ctx, cfg.Redis, tp, log)

	client := upstream.NewClient(upstream.Config{
		BaseURL:    cfg.Upstream.BaseURL,
		Hall:       cfg.Upstream.Hall,
		Key:        cfg.Upstream.Key,
		Timeout:    cfg.Upstream.Timeout,
		Retries:    cfg.Upstream.Retries,
		RetryDelay: cfg.Upstream.RetryDelay,
		CacheTTL:   cfg.Upstream.CacheTTL,
	}, cache, tp, log, opts...)

	return client, closeCache
}

func newResponseCache(ctx context.Context, cfg config.RedisConfig, tp coreport.TimeProvider, log coreport.Logger) (upstream.ResponseCache, func() error) {
	noop := func() error { return nil }
	if !cfg.Enabled {
		return upstream.NewMemoryCache(tp), noop
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.Warn("Redis connection failed, caching upstream responses in memory", map[string]any{
			"addr":  cfg.Addr,
			"error": err.Error(),
		})
		_ = rdb.Close()
		return upstream.NewMemoryCache(tp), noop
	}

	log.Info("Redis connection established", map[string]any{"addr": cfg.Addr})
	return upstream.NewRedisCache(rdb, cfg.KeyPrefix), rdb.Close
}
