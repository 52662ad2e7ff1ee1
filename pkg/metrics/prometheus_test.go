package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorderCounts(t *testing.T) {
	r := NewWithRegistry(prometheus.NewRegistry())

	r.RecordFetch("kline", "ok")
	r.RecordFetch("kline", "ok")
	r.RecordFetch("kline", "http_status")
	r.RecordError("decode")
	r.RecordPattern("Bullish Reversal")
	r.RecordLatency("scan", 0.2)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.fetches.WithLabelValues("kline", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.fetches.WithLabelValues("kline", "http_status")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.errors.WithLabelValues("decode")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.patterns.WithLabelValues("Bullish Reversal")))
	assert.Equal(t, 1, testutil.CollectAndCount(r.latency))
}
