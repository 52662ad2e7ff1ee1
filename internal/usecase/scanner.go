package usecase

import (
	"context"
	"time"

	"PatternScan/internal/domain/models"
	drepo "PatternScan/internal/domain/repository"
	domsvc "PatternScan/internal/domain/service"
	"PatternScan/internal/service/ratelimit"
	"PatternScan/pkg/logger"
)

// ScanParams selects what a scan covers.
type ScanParams struct {
	Symbols   []string
	Timeframe drepo.Timeframe
	Capital   float64
	Limit     int
}

// Scanner runs ingestion, classification and trade projection for one or
// more symbols. Symbols are fetched one at a time with a courtesy delay in
// between; a cancelled context stops the scan before the next symbol.
type Scanner struct {
	source     drepo.MarketData
	classifier domsvc.PatternClassifier
	calculator domsvc.TradeCalculator
	metrics    drepo.Metrics
	log        *logger.Logger
	delay      time.Duration
	limit      int
}

func NewScanner(
	source drepo.MarketData,
	classifier domsvc.PatternClassifier,
	calculator domsvc.TradeCalculator,
	metrics drepo.Metrics,
	log *logger.Logger,
	symbolDelay time.Duration,
	defaultLimit int,
) *Scanner {
	if log == nil {
		log = logger.Nop()
	}
	return &Scanner{
		source:     source,
		classifier: classifier,
		calculator: calculator,
		metrics:    metrics,
		log:        log,
		delay:      symbolDelay,
		limit:      defaultLimit,
	}
}

// Scan evaluates every symbol in order. Per-symbol failures are reported on
// the row and do not stop the scan. If ctx ends between symbols the snapshot
// is returned with Partial set and the rows gathered so far.
func (s *Scanner) Scan(ctx context.Context, p ScanParams) (*models.ScanSnapshot, error) {
	if len(p.Symbols) == 0 {
		return nil, models.NewInvalidArgument("symbols", "select at least one trading pair")
	}
	if !drepo.IsValidTimeframe(p.Timeframe) {
		return nil, models.NewInvalidArgument("tf", "unsupported timeframe "+string(p.Timeframe))
	}
	if !(p.Capital > 0) {
		return nil, models.NewInvalidArgument("capital", "must be greater than 0")
	}

	interval := drepo.IntervalFor(p.Timeframe)
	snap := &models.ScanSnapshot{
		Timeframe: string(p.Timeframe),
		Interval:  string(interval),
		Capital:   p.Capital,
		StartedAt: time.Now().UTC(),
		Rows:      make([]models.ScanRow, 0, len(p.Symbols)),
	}

	pacer := ratelimit.NewPacer(s.delay)
	for _, sym := range p.Symbols {
		if err := pacer.Wait(ctx); err != nil {
			snap.Partial = true
			s.log.Info("scan abandoned",
				logger.Int("done", len(snap.Rows)),
				logger.Int("total", len(p.Symbols)),
				logger.Error(err),
			)
			break
		}
		snap.Rows = append(snap.Rows, s.scanSymbol(ctx, sym, interval, p.Capital, p.Limit))
	}

	snap.FinishedAt = time.Now().UTC()
	snap.Duration = snap.FinishedAt.Sub(snap.StartedAt)
	s.observe("scan", snap.Duration)
	return snap, nil
}

// Pattern is the single-symbol form of Scan. Unlike Scan it returns the
// ingestion error instead of folding it into the row.
func (s *Scanner) Pattern(ctx context.Context, symbol string, tf drepo.Timeframe, capital float64, limit int) (models.ScanRow, []models.Candle, error) {
	if !drepo.IsValidTimeframe(tf) {
		return models.ScanRow{}, nil, models.NewInvalidArgument("tf", "unsupported timeframe "+string(tf))
	}
	candles, err := s.source.Klines(ctx, symbol, drepo.IntervalFor(tf), s.limitOr(limit))
	if err != nil {
		return models.ScanRow{}, nil, err
	}
	row, err := s.evaluate(symbol, candles, capital)
	if err != nil {
		return models.ScanRow{}, candles, err
	}
	return row, candles, nil
}

func (s *Scanner) scanSymbol(ctx context.Context, symbol string, interval drepo.Interval, capital float64, limit int) models.ScanRow {
	start := time.Now()
	defer func() { s.observe("scan_symbol", time.Since(start)) }()

	candles, err := s.source.Klines(ctx, symbol, interval, s.limitOr(limit))
	if err != nil {
		s.log.Warn("fetch failed", logger.String("symbol", symbol), logger.Error(err))
		return failedRow(symbol, err)
	}
	row, err := s.evaluate(symbol, candles, capital)
	if err != nil {
		s.log.Warn("classification failed",
			logger.String("symbol", symbol),
			logger.Int("candles", len(candles)),
			logger.Error(err),
		)
		return failedRow(symbol, err)
	}
	return row
}

// evaluate classifies candles and, for directional labels, projects the trade
// from the latest close.
func (s *Scanner) evaluate(symbol string, candles []models.Candle, capital float64) (models.ScanRow, error) {
	res, err := s.classifier.Classify(candles)
	if err != nil {
		return models.ScanRow{}, err
	}
	if s.metrics != nil {
		s.metrics.RecordPattern(string(res.Pattern))
	}

	row := models.ScanRow{Symbol: symbol, Result: &res}
	if !res.Pattern.Directional() {
		return row, nil
	}
	entry := candles[len(candles)-1].Close
	proj, err := s.calculator.Calculate(capital, entry, res)
	if err != nil {
		return models.ScanRow{}, err
	}
	row.Projection = &proj
	return row, nil
}

func (s *Scanner) limitOr(limit int) int {
	if limit > 0 {
		return limit
	}
	return s.limit
}

func (s *Scanner) observe(op string, d time.Duration) {
	if s.metrics != nil {
		s.metrics.RecordLatency(op, d.Seconds())
	}
}

func failedRow(symbol string, err error) models.ScanRow {
	return models.ScanRow{Symbol: symbol, Error: err.Error(), ErrorKind: models.ErrorKind(err)}
}
