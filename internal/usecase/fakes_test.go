package usecase

import (
	"context"
	"sync"

	"PatternScan/internal/domain/models"
	drepo "PatternScan/internal/domain/repository"
)

type fakeSource struct {
	mu          sync.Mutex
	klines      map[string][]models.Candle
	klineErr    map[string]error
	tickers     []models.Ticker
	instruments []models.Instrument
	instErr     error
	calls       []string
	onKlines    func(symbol string)
}

func (f *fakeSource) Klines(_ context.Context, symbol string, _ drepo.Interval, _ int) ([]models.Candle, error) {
	f.mu.Lock()
	f.calls = append(f.calls, symbol)
	hook := f.onKlines
	f.mu.Unlock()
	if hook != nil {
		hook(symbol)
	}
	if err := f.klineErr[symbol]; err != nil {
		return nil, err
	}
	return f.klines[symbol], nil
}

func (f *fakeSource) Tickers(context.Context) ([]models.Ticker, error) {
	return f.tickers, nil
}

func (f *fakeSource) Instruments(context.Context) ([]models.Instrument, error) {
	return f.instruments, f.instErr
}

func (f *fakeSource) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

type recordingSink struct {
	mu    sync.Mutex
	snaps []*models.ScanSnapshot
}

func (r *recordingSink) Broadcast(s *models.ScanSnapshot) {
	r.mu.Lock()
	r.snaps = append(r.snaps, s)
	r.mu.Unlock()
}

func (r *recordingSink) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.snaps)
}

type recordingPublisher struct {
	recordingSink
}

func (r *recordingPublisher) PublishSignals(_ context.Context, s *models.ScanSnapshot) error {
	r.Broadcast(s)
	return nil
}

func (r *recordingPublisher) Close() error { return nil }

func candles(closes ...float64) []models.Candle {
	out := make([]models.Candle, len(closes))
	for i, c := range closes {
		out[i] = models.Candle{Timestamp: int64(i+1) * 60_000, Open: c, High: c + 1, Low: c - 1, Close: c}
	}
	return out
}
