package service

import "PatternScan/internal/domain/models"

// PatternClassifier labels the latest price action of an oldest-to-newest candle window.
type PatternClassifier interface {
	Classify(candles []models.Candle) (models.PatternResult, error)
}

// TradeCalculator derives trade parameters for a directional classification.
type TradeCalculator interface {
	Calculate(capital, entry float64, r models.PatternResult) (models.TradeProjection, error)
}
