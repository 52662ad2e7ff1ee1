package repository

import (
	"context"

	"PatternScan/internal/domain/models"
)

// MarketData is the external candle/ticker source. Implementations perform a
// single synchronous fetch per call and never retry.
type MarketData interface {
	Klines(ctx context.Context, symbol string, interval Interval, limit int) ([]models.Candle, error)
	Tickers(ctx context.Context) ([]models.Ticker, error)
	Instruments(ctx context.Context) ([]models.Instrument, error)
}

// SignalPublisher broadcasts directional scan rows to downstream consumers.
type SignalPublisher interface {
	PublishSignals(ctx context.Context, snap *models.ScanSnapshot) error
	Close() error
}

// SnapshotSink receives every completed scan snapshot.
type SnapshotSink interface {
	Broadcast(snap *models.ScanSnapshot)
}

type Metrics interface {
	RecordFetch(endpoint, result string)
	RecordError(kind string)
	RecordPattern(label string)
	RecordLatency(op string, seconds float64)
}
