package analytics

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PatternScan/internal/domain/models"
)

// series builds candles from closes with high=close+1 and low=close-1.
func series(closes ...float64) []models.Candle {
	out := make([]models.Candle, len(closes))
	for i, c := range closes {
		out[i] = models.Candle{
			Timestamp: int64(1_700_000_000_000 + i*60_000),
			Open:      c,
			High:      c + 1,
			Low:       c - 1,
			Close:     c,
		}
	}
	return out
}

func TestClassify_TooFewCandles(t *testing.T) {
	for _, in := range [][]models.Candle{nil, series(100)} {
		_, err := Classify(in)
		var ia *models.InvalidArgument
		require.True(t, errors.As(err, &ia), "expected InvalidArgument, got %v", err)
	}
}

func TestClassify_TwoPointMode(t *testing.T) {
	res, err := Classify(series(100, 101))
	require.NoError(t, err)
	assert.Equal(t, models.BullishReversal, res.Pattern)
	require.NotNil(t, res.TP1)
	assert.InDelta(t, 103.02, *res.TP1, 1e-9)

	res, err = Classify(series(101, 100))
	require.NoError(t, err)
	assert.Equal(t, models.BearishReversal, res.Pattern)
	require.NotNil(t, res.StopLoss)
	assert.InDelta(t, 102.0, *res.StopLoss, 1e-9)

	res, err = Classify(series(100, 100))
	require.NoError(t, err)
	assert.Equal(t, models.NoClearPattern, res.Pattern)
	assert.False(t, res.HasLevels())
}

func TestClassify_BullishReversalLevels(t *testing.T) {
	candles := series(100, 95, 105)
	res, err := Classify(candles)
	require.NoError(t, err)

	assert.Equal(t, models.BullishReversal, res.Pattern)
	assert.Equal(t, candles[2].Timestamp, res.Timestamp)
	require.True(t, res.HasLevels())
	assert.InDelta(t, 107.1, *res.TP1, 1e-9)
	assert.InDelta(t, 109.2, *res.TP2, 1e-9)
	assert.InDelta(t, 111.3, *res.TP3, 1e-9)
	assert.InDelta(t, 102.9, *res.StopLoss, 1e-9)
}

func TestClassify_BearishReversalLevels(t *testing.T) {
	res, err := Classify(series(100, 105, 95))
	require.NoError(t, err)

	assert.Equal(t, models.BearishReversal, res.Pattern)
	assert.InDelta(t, 93.1, *res.TP1, 1e-9)
	assert.InDelta(t, 91.2, *res.TP2, 1e-9)
	assert.InDelta(t, 89.3, *res.TP3, 1e-9)
	assert.InDelta(t, 96.9, *res.StopLoss, 1e-9)
}

func TestClassify_Triangle(t *testing.T) {
	res, err := Classify(series(1, 2, 3, 4))
	require.NoError(t, err)
	assert.Equal(t, models.TrianglePattern, res.Pattern)
	assert.False(t, res.HasLevels())
}

func TestClassify_ContinuationShortWindow(t *testing.T) {
	// fewer than five candles: the mean covers all of them
	up := []models.Candle{
		{Close: 5, High: 20, Low: 4},
		{Close: 10, High: 11, Low: 9},
		{Close: 11, High: 12, Low: 10},
		{Close: 12, High: 13, Low: 11},
	}
	res, err := Classify(up)
	require.NoError(t, err)
	assert.Equal(t, models.ContinuationUptrend, res.Pattern)
	assert.Nil(t, res.TP1)

	res, err = Classify(series(20, 15, 14, 13))
	require.NoError(t, err)
	assert.Equal(t, models.ContinuationDowntrend, res.Pattern)
}

func TestClassify_Flags(t *testing.T) {
	res, err := Classify(series(80, 120, 80, 120, 80, 100, 107, 108, 105, 105))
	require.NoError(t, err)
	assert.Equal(t, models.BullishFlag, res.Pattern)
	assert.InDelta(t, 107.1, *res.TP1, 1e-9)
	assert.InDelta(t, 102.9, *res.StopLoss, 1e-9)

	res, err = Classify(series(80, 120, 80, 120, 80, 100, 93, 92, 95, 95))
	require.NoError(t, err)
	assert.Equal(t, models.BearishFlag, res.Pattern)
	assert.InDelta(t, 93.1, *res.TP1, 1e-9)
	assert.InDelta(t, 96.9, *res.StopLoss, 1e-9)
}

func TestClassify_FlagsNeedTenCandles(t *testing.T) {
	res, err := Classify(series(120, 80, 120, 80, 100, 107, 108, 105, 105))
	require.NoError(t, err)
	assert.Equal(t, models.NoClearPattern, res.Pattern)
}

func TestClassify_ContinuationBeforeFlag(t *testing.T) {
	res, err := Classify(series(80, 120, 80, 120, 80, 100, 104, 105, 106, 106))
	require.NoError(t, err)
	assert.Equal(t, models.ContinuationUptrend, res.Pattern)
}

func TestClassify_PureAndIdempotent(t *testing.T) {
	candles := series(80, 120, 80, 120, 80, 100, 107, 108, 105, 105)
	before := append([]models.Candle(nil), candles...)

	a, err := NewClassifier().Classify(candles)
	require.NoError(t, err)
	b, err := NewClassifier().Classify(candles)
	require.NoError(t, err)

	assert.Equal(t, before, candles)
	assert.Equal(t, a, b)
}
