package models

import "time"

// ScanRow is the outcome of scanning one symbol. Error is set instead of
// Result when ingestion or classification failed for that symbol.
type ScanRow struct {
	Symbol     string           `json:"pair"`
	Result     *PatternResult   `json:"result,omitempty"`
	Projection *TradeProjection `json:"projection,omitempty"`
	Error      string           `json:"error,omitempty"`
	ErrorKind  string           `json:"errorKind,omitempty"`
}

// ScanSnapshot groups the rows of one scan run.
type ScanSnapshot struct {
	Timeframe  string        `json:"timeframe"`
	Interval   string        `json:"interval"`
	Capital    float64       `json:"capital"`
	StartedAt  time.Time     `json:"startedAt"`
	FinishedAt time.Time     `json:"finishedAt"`
	Partial    bool          `json:"partial"` // true when the scan was cancelled between symbols
	Rows       []ScanRow     `json:"rows"`
	Duration   time.Duration `json:"-"`
}
