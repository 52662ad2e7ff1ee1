package models

// PatternLabel is one of the fixed classification tags.
type PatternLabel string

const (
	BullishReversal       PatternLabel = "Bullish Reversal"
	BearishReversal       PatternLabel = "Bearish Reversal"
	TrianglePattern       PatternLabel = "Triangle Pattern"
	ContinuationUptrend   PatternLabel = "Continuation Uptrend"
	ContinuationDowntrend PatternLabel = "Continuation Downtrend"
	BullishFlag           PatternLabel = "Bullish Flag"
	BearishFlag           PatternLabel = "Bearish Flag"
	NoClearPattern        PatternLabel = "No Clear Pattern"
)

// Directional reports whether the label carries take-profit/stop-loss levels.
func (l PatternLabel) Directional() bool {
	switch l {
	case BullishReversal, BearishReversal, BullishFlag, BearishFlag:
		return true
	default:
		return false
	}
}

// PatternResult is the classifier output. Nil levels mean "not applicable".
type PatternResult struct {
	Pattern   PatternLabel `json:"pattern"`
	Timestamp int64        `json:"timestamp"`
	TP1       *float64     `json:"tp1"`
	TP2       *float64     `json:"tp2"`
	TP3       *float64     `json:"tp3"`
	StopLoss  *float64     `json:"stopLoss"`
}

// HasLevels is true when at least one tp/sl level is present.
func (r PatternResult) HasLevels() bool {
	return r.TP1 != nil || r.TP2 != nil || r.TP3 != nil || r.StopLoss != nil
}

// TradeProjection is derived from a PatternResult, an entry price and capital.
// Nil fields mean the matching level was absent.
type TradeProjection struct {
	Capital   float64  `json:"capital"`
	Entry     float64  `json:"entry"`
	Leverage  float64  `json:"leverage"`
	ProfitTP1 *float64 `json:"profitTp1"`
	ProfitTP2 *float64 `json:"profitTp2"`
	ProfitTP3 *float64 `json:"profitTp3"`
	Loss      *float64 `json:"loss"`
}
