package ratelimit

import (
	"context"
	"time"
)

// Pacer spaces successive calls to the exchange by a fixed delay.
// The first Wait returns immediately.
type Pacer struct {
	delay time.Duration
	first bool
	after func(time.Duration) <-chan time.Time
}

func NewPacer(delay time.Duration) *Pacer {
	return &Pacer{delay: delay, first: true, after: time.After}
}

// Wait blocks for the delay, or returns ctx.Err() if ctx ends first.
// A Pacer belongs to one scan and is not safe for concurrent use.
func (p *Pacer) Wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if p.first || p.delay <= 0 {
		p.first = false
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-p.after(p.delay):
		return nil
	}
}
