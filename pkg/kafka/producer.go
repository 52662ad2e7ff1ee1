package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/segmentio/kafka-go"
)

// Keyed is one JSON message. Messages sharing a key land on the same
// partition, which keeps a symbol's signals in order.
type Keyed struct {
	Key   string
	Value any
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer writes keyed JSON messages to a single topic.
type Producer struct {
	w     messageWriter
	topic string
}

// NewProducer creates a writer bound to cfg.Topic with a key-hash balancer.
func NewProducer(cfg Config) (*Producer, error) {
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequiredAcks(cfg.RequiredAcks),
		Compression:  cfg.codec(),
		MaxAttempts:  cfg.MaxAttempts,
		BatchSize:    cfg.BatchSize,
		BatchBytes:   int64(cfg.BatchBytes),
		BatchTimeout: cfg.Linger,
		WriteTimeout: cfg.WriteTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		Async:        cfg.Async,
	}
	return newProducer(w, cfg.Topic), nil
}

func newProducer(w messageWriter, topic string) *Producer {
	registerMetrics()
	return &Producer{w: w, topic: topic}
}

// Topic is the destination of every message.
func (p *Producer) Topic() string { return p.topic }

// WriteKeyed encodes msgs as JSON and writes them in one call. Nothing is
// written when any value fails to encode.
func (p *Producer) WriteKeyed(ctx context.Context, msgs []Keyed) error {
	if len(msgs) == 0 {
		return nil
	}

	start := time.Now()
	now := start.UTC()
	out := make([]kafka.Message, len(msgs))
	var size int
	for i, m := range msgs {
		v, err := json.Marshal(m.Value)
		if err != nil {
			return fmt.Errorf("encode message %q: %w", m.Key, err)
		}
		out[i] = kafka.Message{Key: []byte(m.Key), Value: v, Time: now}
		size += len(v)
	}

	err := p.w.WriteMessages(ctx, out...)
	observe(p.topic, len(out), size, time.Since(start), err)
	return err
}

// Close flushes pending messages and releases the connection.
func (p *Producer) Close() error {
	if p.w == nil {
		return nil
	}
	return p.w.Close()
}

var (
	metricsOnce   sync.Once
	writtenTotal  *prometheus.CounterVec
	bytesTotal    *prometheus.CounterVec
	writeDuration *prometheus.HistogramVec
)

func registerMetrics() {
	metricsOnce.Do(func() {
		writtenTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "patternscan_kafka_messages_total",
			Help: "Signal messages handed to Kafka by result",
		}, []string{"topic", "result"})
		bytesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "patternscan_kafka_bytes_total",
			Help: "Encoded signal payload bytes written",
		}, []string{"topic"})
		writeDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "patternscan_kafka_write_seconds",
			Help:    "Latency of one batched signal write",
			Buckets: prometheus.DefBuckets,
		}, []string{"topic"})
	})
}

func observe(topic string, count, size int, d time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	writtenTotal.WithLabelValues(topic, result).Add(float64(count))
	if err == nil {
		bytesTotal.WithLabelValues(topic).Add(float64(size))
	}
	writeDuration.WithLabelValues(topic).Observe(d.Seconds())
}
