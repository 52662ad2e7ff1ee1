package repository

import (
	"context"
	"fmt"

	"PatternScan/internal/domain/models"
	"PatternScan/internal/domain/repository"
	pkgkafka "PatternScan/pkg/kafka"
)

// keyedWriter is the part of pkg/kafka.Producer the publisher needs.
type keyedWriter interface {
	WriteKeyed(ctx context.Context, msgs []pkgkafka.Keyed) error
	Topic() string
	Close() error
}

// SignalMessage is the JSON value written per directional row.
type SignalMessage struct {
	Symbol     string                  `json:"symbol"`
	Timeframe  string                  `json:"timeframe"`
	Interval   string                  `json:"interval"`
	ScannedAt  int64                   `json:"scannedAt"`
	Result     models.PatternResult    `json:"result"`
	Projection *models.TradeProjection `json:"projection,omitempty"`
}

// KafkaSignalPublisher writes one message per directional scan row, keyed by
// symbol so a symbol's signals stay on one partition.
type KafkaSignalPublisher struct {
	producer keyedWriter
}

// NewKafkaSignalPublisher publishes to the producer's topic.
func NewKafkaSignalPublisher(producer *pkgkafka.Producer) *KafkaSignalPublisher {
	return &KafkaSignalPublisher{producer: producer}
}

func (p *KafkaSignalPublisher) PublishSignals(ctx context.Context, snap *models.ScanSnapshot) error {
	msgs := SignalMessages(snap)
	if len(msgs) == 0 {
		return nil
	}
	out := make([]pkgkafka.Keyed, len(msgs))
	for i, m := range msgs {
		out[i] = pkgkafka.Keyed{Key: m.Symbol, Value: m}
	}
	if err := p.producer.WriteKeyed(ctx, out); err != nil {
		return fmt.Errorf("publish %d signals to %s: %w", len(out), p.producer.Topic(), err)
	}
	return nil
}

func (p *KafkaSignalPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

// SignalMessages extracts the directional rows of snap.
func SignalMessages(snap *models.ScanSnapshot) []SignalMessage {
	if snap == nil {
		return nil
	}
	var out []SignalMessage
	for _, row := range snap.Rows {
		if row.Result == nil || !row.Result.Pattern.Directional() {
			continue
		}
		out = append(out, SignalMessage{
			Symbol:     row.Symbol,
			Timeframe:  snap.Timeframe,
			Interval:   snap.Interval,
			ScannedAt:  snap.FinishedAt.UnixMilli(),
			Result:     *row.Result,
			Projection: row.Projection,
		})
	}
	return out
}

// NoopPublisher is used when kafka is disabled.
type NoopPublisher struct{}

func (NoopPublisher) PublishSignals(context.Context, *models.ScanSnapshot) error { return nil }
func (NoopPublisher) Close() error                                               { return nil }

var (
	_ repository.SignalPublisher = (*KafkaSignalPublisher)(nil)
	_ repository.SignalPublisher = NoopPublisher{}
)
