package usecase

import (
	"context"
	"sort"

	"PatternScan/internal/domain/models"
	drepo "PatternScan/internal/domain/repository"
	"PatternScan/internal/service/bybit"
	"PatternScan/internal/services/analytics"
	"PatternScan/pkg/logger"
)

// DefaultPairCount is how many pairs a scan covers when none are selected.
const DefaultPairCount = 5

// Market answers listing questions from the (memoized) market data source.
type Market struct {
	source drepo.MarketData
	log    *logger.Logger
}

func NewMarket(source drepo.MarketData, log *logger.Logger) *Market {
	if log == nil {
		log = logger.Nop()
	}
	return &Market{source: source, log: log}
}

// Pairs lists tradable symbols in source order. Instruments with a status
// other than "Trading" are left out; an empty status counts as tradable.
func (m *Market) Pairs(ctx context.Context) ([]string, error) {
	items, err := m.source.Instruments(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		if it.Status != "" && it.Status != "Trading" {
			continue
		}
		out = append(out, it.Symbol)
	}
	return out, nil
}

// DefaultSymbols returns the first DefaultPairCount pairs.
func (m *Market) DefaultSymbols(ctx context.Context) ([]string, error) {
	pairs, err := m.Pairs(ctx)
	if err != nil {
		return nil, err
	}
	if len(pairs) > DefaultPairCount {
		pairs = pairs[:DefaultPairCount]
	}
	return pairs, nil
}

// Tickers returns tickers joined with listing times and filtered to
// min <= change <= max (max nil = unbounded). Symbols without a known
// listing time keep a nil ListedAt. Listing times are optional: when the
// instruments call fails every ListedAt stays nil.
func (m *Market) Tickers(ctx context.Context, min float64, max *float64) ([]models.Ticker, error) {
	tickers, err := m.source.Tickers(ctx)
	if err != nil {
		return nil, err
	}
	listed, err := bybit.Listings(ctx, m.source)
	if err != nil {
		m.log.Warn("listing times unavailable",
			logger.String("kind", models.ErrorKind(err)),
			logger.Error(err),
		)
		listed = nil
	}

	filtered := analytics.FilterTickers(tickers, min, max)
	for i := range filtered {
		filtered[i].ListedAt = listed[filtered[i].Symbol]
	}
	return filtered, nil
}

// SortByChange orders tickers by percent change, largest first. The filter
// itself never reorders; this is for the dashboard's "top movers" view.
func SortByChange(tickers []models.Ticker) []models.Ticker {
	out := append([]models.Ticker(nil), tickers...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].ChangePct > out[j].ChangePct })
	return out
}
