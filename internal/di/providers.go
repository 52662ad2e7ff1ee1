package di

import (
	"context"
	"fmt"
	"strings"
	"time"

	"PatternScan/internal/domain/repository"
	domsvc "PatternScan/internal/domain/service"
	"PatternScan/internal/handler/api"
	"PatternScan/internal/handler/ws"
	internalrepo "PatternScan/internal/repository"
	"PatternScan/internal/service/bybit"
	"PatternScan/internal/service/cache"
	"PatternScan/internal/service/ratelimit"
	"PatternScan/internal/services/analytics"
	"PatternScan/internal/usecase"
	"PatternScan/pkg/config"
	xhttp "PatternScan/pkg/http"
	pkgkafka "PatternScan/pkg/kafka"
	"PatternScan/pkg/logger"
	"PatternScan/pkg/metrics"
	"PatternScan/pkg/server"
	"PatternScan/pkg/util"
)

// ProvideLogger builds the process logger from the logging section.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	l, err := logger.New(&logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l.With(logger.String("env", cfg.Environment)), nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideHTTPClient creates the outbound client used for exchange calls.
func ProvideHTTPClient(cfg *config.Config) *xhttp.Client {
	return xhttp.NewClient(xhttp.WithTimeout(cfg.Exchange.Timeout))
}

// ProvideBybitClient creates the raw exchange client.
func ProvideBybitClient(cfg *config.Config, hc *xhttp.Client, m repository.Metrics, l *logger.Logger) *bybit.Client {
	return bybit.NewClient(cfg.Exchange.BaseURL, cfg.Exchange.Category, hc,
		bybit.WithMetrics(m),
		bybit.WithLogger(l),
	)
}

// ProvideCache picks Redis when configured, otherwise an in-process TTL map.
// The cleanup closes the Redis connection.
func ProvideCache(cfg *config.Config, l *logger.Logger) (cache.BytesCache, func(), error) {
	if !cfg.Cache.Redis.Enabled {
		return cache.NewTTLCache(), func() {}, nil
	}

	rc := cache.NewRedisCache(cache.RedisConfig{
		Addr:     cfg.Cache.Redis.Addr,
		Password: cfg.Cache.Redis.Password,
		DB:       cfg.Cache.Redis.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rc.Ping(ctx); err != nil {
		_ = rc.Close()
		return nil, nil, err
	}
	l.Info("redis cache connected", logger.String("addr", cfg.Cache.Redis.Addr))

	return rc, func() {
		if err := rc.Close(); err != nil {
			l.Warn("redis close error", logger.Error(err))
		}
	}, nil
}

// ProvideMarketData memoizes tickers and instruments in front of the exchange client.
func ProvideMarketData(cfg *config.Config, client *bybit.Client, c cache.BytesCache, l *logger.Logger) repository.MarketData {
	return bybit.NewCachedSource(client, c, client.Category(), cfg.Cache.TickersTTL, cfg.Cache.InstrumentsTTL, l)
}

func ProvideClassifier() domsvc.PatternClassifier { return analytics.NewClassifier() }

func ProvideCalculator() domsvc.TradeCalculator { return analytics.NewCalculator() }

// ProvideScanner creates the scan use case.
func ProvideScanner(
	cfg *config.Config,
	source repository.MarketData,
	classifier domsvc.PatternClassifier,
	calculator domsvc.TradeCalculator,
	m repository.Metrics,
	l *logger.Logger,
) *usecase.Scanner {
	return usecase.NewScanner(source, classifier, calculator, m, l, cfg.Scanner.SymbolDelay, cfg.Exchange.KlineLimit)
}

// ProvideLimiter creates the per-client limiter for on-demand scans.
func ProvideLimiter(cfg *config.Config) *ratelimit.Limiter {
	return ratelimit.New(cfg.RateLimit.Capacity, cfg.RateLimit.RefillPerSec)
}

// ProvideKafkaProducer creates a Kafka producer, or nil when Kafka is disabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(pkgkafka.Config{
		Brokers:      cfg.Kafka.Brokers,
		Topic:        cfg.Kafka.Topic,
		RequiredAcks: cfg.Kafka.RequiredAcks,
		Compression:  cfg.Kafka.Compression,
		MaxAttempts:  cfg.Kafka.Producer.MaxAttempts,
		BatchSize:    cfg.Kafka.Producer.BatchSize,
		BatchBytes:   cfg.Kafka.Producer.BatchBytes,
		Linger:       cfg.Kafka.Producer.Linger,
		WriteTimeout: cfg.Kafka.Producer.WriteTimeout,
		ReadTimeout:  cfg.Kafka.Producer.ReadTimeout,
		Async:        cfg.Kafka.Producer.Async,
	})
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideSignalPublisher wraps the producer; without one signals go nowhere.
func ProvideSignalPublisher(producer *pkgkafka.Producer, l *logger.Logger) (repository.SignalPublisher, func()) {
	if producer == nil {
		return internalrepo.NoopPublisher{}, func() {}
	}
	pub := internalrepo.NewKafkaSignalPublisher(producer)
	return pub, func() {
		if err := pub.Close(); err != nil {
			l.Warn("kafka producer close error", logger.Error(err))
		}
	}
}

// ProvideHub creates the websocket fan-out for scheduled snapshots.
func ProvideHub(l *logger.Logger) *ws.Hub {
	return ws.NewHub(l)
}

// ProvideScheduler creates the background scanner, or nil when it is disabled.
func ProvideScheduler(
	cfg *config.Config,
	scanner *usecase.Scanner,
	market *usecase.Market,
	pub repository.SignalPublisher,
	hub *ws.Hub,
	l *logger.Logger,
) *usecase.Scheduler {
	if !cfg.Scanner.Enabled {
		return nil
	}
	params := usecase.ScanParams{
		Symbols:   util.SplitSymbols(strings.Join(cfg.Scanner.Symbols, ",")),
		Timeframe: repository.NormalizeTimeframe(cfg.Scanner.Timeframe),
		Capital:   cfg.Scanner.Capital,
		Limit:     cfg.Exchange.KlineLimit,
	}
	return usecase.NewScheduler(scanner, market, pub, params, cfg.Scanner.RescanInterval, l, hub)
}

// ProvideLatestSnapshot exposes the scheduler to the API. A disabled scheduler
// must surface as a nil interface, not a typed nil.
func ProvideLatestSnapshot(s *usecase.Scheduler) api.LatestSnapshot {
	if s == nil {
		return nil
	}
	return s
}

// ProvidePatternsHandler creates the dashboard API handler.
func ProvidePatternsHandler(
	l *logger.Logger,
	scanner *usecase.Scanner,
	market *usecase.Market,
	latest api.LatestSnapshot,
	limiter *ratelimit.Limiter,
) *api.PatternsEchoHandler {
	return api.NewPatternsEchoHandler(l, scanner, market, latest, limiter)
}

// ProvideHTTPServer registers the API and websocket routes on one Echo server.
func ProvideHTTPServer(cfg *config.Config, l *logger.Logger, h *api.PatternsEchoHandler, hub *ws.Hub) *xhttp.Server {
	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}
	return xhttp.NewServer(l, []xhttp.Handler{h, hub},
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithMetricsPath(metricsPath),
	)
}

// ProvideApp creates the application server.
func ProvideApp(l *logger.Logger, srv *xhttp.Server, sched *usecase.Scheduler, hub *ws.Hub) *server.App {
	return server.New(l, srv, sched, hub)
}
