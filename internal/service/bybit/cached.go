package bybit

import (
	"context"
	"encoding/json"
	"time"

	"PatternScan/internal/domain/models"
	"PatternScan/internal/domain/repository"
	"PatternScan/internal/service/cache"
	"PatternScan/pkg/logger"
)

// CachedSource memoizes the parameterless ticker and instrument calls with
// independent TTLs. Klines always go to the source.
type CachedSource struct {
	src            repository.MarketData
	cache          cache.BytesCache
	category       string
	tickersTTL     time.Duration
	instrumentsTTL time.Duration
	log            *logger.Logger
}

func NewCachedSource(src repository.MarketData, c cache.BytesCache, category string, tickersTTL, instrumentsTTL time.Duration, log *logger.Logger) *CachedSource {
	if log == nil {
		log = logger.Nop()
	}
	return &CachedSource{
		src:            src,
		cache:          c,
		category:       category,
		tickersTTL:     tickersTTL,
		instrumentsTTL: instrumentsTTL,
		log:            log,
	}
}

func (s *CachedSource) Klines(ctx context.Context, symbol string, interval repository.Interval, limit int) ([]models.Candle, error) {
	return s.src.Klines(ctx, symbol, interval, limit)
}

func (s *CachedSource) Tickers(ctx context.Context) ([]models.Ticker, error) {
	return memo(ctx, s, "tickers:"+s.category, s.tickersTTL, s.src.Tickers)
}

func (s *CachedSource) Instruments(ctx context.Context) ([]models.Instrument, error) {
	return memo(ctx, s, "instruments:"+s.category, s.instrumentsTTL, s.src.Instruments)
}

// memo serves key from cache or calls fetch and stores the result. Cache
// errors are logged and fall through to the source; source errors are never cached.
func memo[T any](ctx context.Context, s *CachedSource, key string, ttl time.Duration, fetch func(context.Context) ([]T, error)) ([]T, error) {
	if b, ok, err := s.cache.GetBytes(ctx, key); err != nil {
		s.log.Warn("cache read failed", logger.String("key", key), logger.Error(err))
	} else if ok {
		var out []T
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		s.log.Warn("dropping undecodable cache entry", logger.String("key", key))
	}

	out, err := fetch(ctx)
	if err != nil {
		return nil, err
	}
	if b, err := json.Marshal(out); err == nil {
		if err := s.cache.SetBytes(ctx, key, b, ttl); err != nil {
			s.log.Warn("cache write failed", logger.String("key", key), logger.Error(err))
		}
	}
	return out, nil
}

// Listings maps each instrument symbol to its launch time; nil when unknown.
func Listings(ctx context.Context, src repository.MarketData) (map[string]*int64, error) {
	items, err := src.Instruments(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]*int64, len(items))
	for _, it := range items {
		out[it.Symbol] = it.LaunchTime
	}
	return out, nil
}

var _ repository.MarketData = (*CachedSource)(nil)
