package analytics

import "PatternScan/internal/domain/models"

// FilterTickers keeps tickers whose 24h percent change lies in [min, max].
// A nil max leaves the range unbounded above. Input order is preserved.
func FilterTickers(tickers []models.Ticker, min float64, max *float64) []models.Ticker {
	out := make([]models.Ticker, 0, len(tickers))
	for _, t := range tickers {
		if t.ChangePct < min {
			continue
		}
		if max != nil && t.ChangePct > *max {
			continue
		}
		out = append(out, t)
	}
	return out
}
