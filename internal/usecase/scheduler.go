package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"PatternScan/internal/domain/models"
	drepo "PatternScan/internal/domain/repository"
	"PatternScan/pkg/logger"
)

// Scheduler reruns the configured scan on a fixed interval, keeps the latest
// complete snapshot and fans it out to sinks and the signal publisher.
type Scheduler struct {
	scanner   *Scanner
	market    *Market
	publisher drepo.SignalPublisher
	sinks     []drepo.SnapshotSink
	params    ScanParams
	interval  time.Duration
	log       *logger.Logger

	mu     sync.RWMutex
	latest *models.ScanSnapshot

	cancel context.CancelFunc
	done   chan struct{}
}

func NewScheduler(
	scanner *Scanner,
	market *Market,
	publisher drepo.SignalPublisher,
	params ScanParams,
	interval time.Duration,
	log *logger.Logger,
	sinks ...drepo.SnapshotSink,
) *Scheduler {
	if log == nil {
		log = logger.Nop()
	}
	return &Scheduler{
		scanner:   scanner,
		market:    market,
		publisher: publisher,
		sinks:     sinks,
		params:    params,
		interval:  interval,
		log:       log.With(logger.String("component", "scheduler")),
	}
}

// Start runs one scan immediately and then every interval until Stop or ctx ends.
func (s *Scheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			if _, err := s.RunOnce(ctx); err != nil && ctx.Err() == nil {
				s.log.Error("scheduled scan failed", logger.Error(err))
			}
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
	s.log.Info("scheduler started",
		logger.Duration("interval_ms", s.interval),
		logger.Strings("symbols", s.params.Symbols),
		logger.String("timeframe", string(s.params.Timeframe)),
		logger.Float64("capital", s.params.Capital),
	)
}

// Stop cancels the loop and waits for the current scan to notice.
func (s *Scheduler) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
	s.log.Info("scheduler stopped")
}

// RunOnce performs one scan. A snapshot cut short by cancellation is
// returned but not stored or broadcast.
func (s *Scheduler) RunOnce(ctx context.Context) (*models.ScanSnapshot, error) {
	p := s.params
	if len(p.Symbols) == 0 {
		symbols, err := s.market.DefaultSymbols(ctx)
		if err != nil {
			return nil, fmt.Errorf("resolve default symbols: %w", err)
		}
		p.Symbols = symbols
	}

	snap, err := s.scanner.Scan(ctx, p)
	if err != nil {
		return nil, err
	}
	if snap.Partial {
		return snap, nil
	}

	s.mu.Lock()
	s.latest = snap
	s.mu.Unlock()

	for _, sink := range s.sinks {
		sink.Broadcast(snap)
	}
	if s.publisher != nil {
		if err := s.publisher.PublishSignals(ctx, snap); err != nil {
			s.log.Warn("publish signals failed", logger.Error(err))
		}
	}
	s.log.Info("scan completed",
		logger.Int("rows", len(snap.Rows)),
		logger.Duration("took_ms", snap.Duration),
	)
	return snap, nil
}

// Latest returns the most recent complete snapshot, or nil before the first one.
func (s *Scheduler) Latest() *models.ScanSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}
