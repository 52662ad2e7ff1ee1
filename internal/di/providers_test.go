package di

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internalrepo "PatternScan/internal/repository"
	"PatternScan/internal/service/cache"
	"PatternScan/internal/usecase"
	"PatternScan/pkg/config"
	"PatternScan/pkg/logger"
)

func defaultConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Default()
	require.NoError(t, err)
	return cfg
}

func TestProvideCache_InProcessByDefault(t *testing.T) {
	c, cleanup, err := ProvideCache(defaultConfig(t), logger.Nop())
	require.NoError(t, err)
	defer cleanup()
	assert.IsType(t, &cache.TTLCache{}, c)
}

func TestProvideSignalPublisher_NoopWithoutKafka(t *testing.T) {
	cfg := defaultConfig(t)
	producer, err := ProvideKafkaProducer(cfg)
	require.NoError(t, err)
	assert.Nil(t, producer)

	pub, cleanup := ProvideSignalPublisher(producer, logger.Nop())
	defer cleanup()
	assert.IsType(t, internalrepo.NoopPublisher{}, pub)
}

func TestProvideScheduler_DisabledIsNil(t *testing.T) {
	cfg := defaultConfig(t)
	sched := ProvideScheduler(cfg, nil, nil, nil, nil, logger.Nop())
	assert.Nil(t, sched)
	assert.Nil(t, ProvideLatestSnapshot(sched), "a disabled scheduler must not leak as a typed nil")
}

func TestProvideScheduler_UsesConfiguredParams(t *testing.T) {
	cfg := defaultConfig(t)
	cfg.Scanner.Enabled = true
	cfg.Scanner.Symbols = []string{"btcusdt", " ethusdt", "BTCUSDT"}
	cfg.Scanner.Timeframe = "bogus"

	l := logger.Nop()
	hub := ProvideHub(l)
	defer hub.Close()

	sched := ProvideScheduler(cfg, &usecase.Scanner{}, &usecase.Market{}, internalrepo.NoopPublisher{}, hub, l)
	require.NotNil(t, sched)
	assert.NotNil(t, ProvideLatestSnapshot(sched))
	assert.Nil(t, sched.Latest())
}
