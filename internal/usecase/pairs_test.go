package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PatternScan/internal/domain/models"
)

func launch(ms int64) *int64 { return &ms }

func TestMarket_PairsAndDefaults(t *testing.T) {
	src := &fakeSource{instruments: []models.Instrument{
		{Symbol: "BTCUSDT", Status: "Trading"},
		{Symbol: "OLDUSDT", Status: "Closed"},
		{Symbol: "ETHUSDT"},
		{Symbol: "SOLUSDT", Status: "Trading"},
		{Symbol: "XRPUSDT", Status: "Trading"},
		{Symbol: "DOGEUSDT", Status: "Trading"},
		{Symbol: "ADAUSDT", Status: "Trading"},
	}}
	m := NewMarket(src, nil)

	pairs, err := m.Pairs(context.Background())
	require.NoError(t, err)
	assert.Len(t, pairs, 6)
	assert.NotContains(t, pairs, "OLDUSDT")

	def, err := m.DefaultSymbols(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"BTCUSDT", "ETHUSDT", "SOLUSDT", "XRPUSDT", "DOGEUSDT"}, def)
}

func TestMarket_TickersJoinAndFilter(t *testing.T) {
	src := &fakeSource{
		tickers: []models.Ticker{
			{Symbol: "AUSDT", ChangePct: -10},
			{Symbol: "BUSDT", ChangePct: 0},
			{Symbol: "CUSDT", ChangePct: 50},
			{Symbol: "DUSDT", ChangePct: 150},
		},
		instruments: []models.Instrument{
			{Symbol: "DUSDT", LaunchTime: launch(1700000000000)},
			{Symbol: "CUSDT"},
		},
	}
	m := NewMarket(src, nil)

	got, err := m.Tickers(context.Background(), 100, nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "DUSDT", got[0].Symbol)
	require.NotNil(t, got[0].ListedAt)
	assert.Equal(t, int64(1700000000000), *got[0].ListedAt)

	max := 50.0
	got, err = m.Tickers(context.Background(), -100, &max)
	require.NoError(t, err)
	assert.Len(t, got, 3)
	assert.Nil(t, got[2].ListedAt)

	sorted := SortByChange(got)
	assert.Equal(t, "CUSDT", sorted[0].Symbol)
	assert.Equal(t, "AUSDT", got[0].Symbol, "input left untouched")
}

func TestMarket_TickersWithoutListingTimes(t *testing.T) {
	src := &fakeSource{
		tickers: []models.Ticker{
			{Symbol: "AUSDT", ChangePct: 5},
			{Symbol: "BUSDT", ChangePct: -20},
		},
		instErr: &models.DecodeError{Op: "instruments", Reason: "missing result.list"},
	}
	got, err := NewMarket(src, nil).Tickers(context.Background(), 0, nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "AUSDT", got[0].Symbol)
	assert.Nil(t, got[0].ListedAt)
}

func TestMarket_PairsPropagatesSourceError(t *testing.T) {
	src := &fakeSource{instErr: &models.DecodeError{Op: "instruments", Reason: "missing result.list"}}
	_, err := NewMarket(src, nil).Pairs(context.Background())
	var de *models.DecodeError
	assert.True(t, errors.As(err, &de))
}
