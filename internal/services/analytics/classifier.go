package analytics

import (
	"PatternScan/internal/domain/models"
	domsvc "PatternScan/internal/domain/service"
	"PatternScan/internal/services/features"
)

const (
	// minReversalWindow is the shortest window evaluated by the full rule cascade.
	minReversalWindow = 3
	// flagWindow is the history required by the flag rules.
	flagWindow = 10
	// trendWindow is the number of closes averaged by the continuation rules.
	trendWindow = 5
)

var (
	bullishTargets = [3]float64{1.02, 1.04, 1.06}
	bullishStop    = 0.98
	bearishTargets = [3]float64{0.98, 0.96, 0.94}
	bearishStop    = 1.02
)

// Classifier implements the fixed rule cascade over an oldest-to-newest candle window.
type Classifier struct{}

func NewClassifier() *Classifier { return &Classifier{} }

// Classify labels the latest price action. Rules are evaluated in order and the
// first match wins; the input slice is never modified.
func (Classifier) Classify(candles []models.Candle) (models.PatternResult, error) {
	return Classify(candles)
}

// Classify is the package-level form of Classifier.Classify.
func Classify(candles []models.Candle) (models.PatternResult, error) {
	n := len(candles)
	if n < 2 {
		return models.PatternResult{}, models.NewInvalidArgument("candles", "at least 2 candles are required")
	}

	closes := features.Closes(candles)
	last := closes[n-1]
	prev := closes[n-2]
	res := models.PatternResult{Pattern: models.NoClearPattern, Timestamp: candles[n-1].Timestamp}

	if n < minReversalWindow {
		switch {
		case last > prev:
			return bullish(res, models.BullishReversal, last), nil
		case last < prev:
			return bearish(res, models.BearishReversal, last), nil
		}
		return res, nil
	}

	prev2 := closes[n-3]
	switch {
	case last > prev && prev < prev2:
		return bullish(res, models.BullishReversal, last), nil
	case last < prev && prev > prev2:
		return bearish(res, models.BearishReversal, last), nil
	}

	highs := features.Highs(candles)
	lows := features.Lows(candles)
	if features.Max(highs) == highs[n-1] && features.Min(lows) == lows[0] {
		res.Pattern = models.TrianglePattern
		return res, nil
	}

	mean := features.Mean(features.Tail(closes, trendWindow))
	switch {
	case last > mean:
		res.Pattern = models.ContinuationUptrend
		return res, nil
	case last < mean:
		res.Pattern = models.ContinuationDowntrend
		return res, nil
	}

	if n < flagWindow {
		return res, nil
	}

	// sharp move followed by consolidation
	pole := closes[n-trendWindow]
	recent := features.PopStdDev(features.Tail(closes, trendWindow))
	before := features.PopStdDev(features.Window(closes, flagWindow, trendWindow))
	consolidating := recent < before
	switch {
	case last > pole*1.02 && consolidating:
		return bullish(res, models.BullishFlag, last), nil
	case last < pole*0.98 && consolidating:
		return bearish(res, models.BearishFlag, last), nil
	}
	return res, nil
}

func bullish(res models.PatternResult, label models.PatternLabel, last float64) models.PatternResult {
	return withLevels(res, label, last, bullishTargets, bullishStop)
}

func bearish(res models.PatternResult, label models.PatternLabel, last float64) models.PatternResult {
	return withLevels(res, label, last, bearishTargets, bearishStop)
}

func withLevels(res models.PatternResult, label models.PatternLabel, last float64, targets [3]float64, stop float64) models.PatternResult {
	res.Pattern = label
	res.TP1 = ptr(last * targets[0])
	res.TP2 = ptr(last * targets[1])
	res.TP3 = ptr(last * targets[2])
	res.StopLoss = ptr(last * stop)
	return res
}

func ptr(v float64) *float64 { return &v }

var _ domsvc.PatternClassifier = (*Classifier)(nil)
