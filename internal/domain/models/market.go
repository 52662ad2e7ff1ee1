package models

// Candle represents one OHLCV sample for a symbol/timeframe.
// Timestamp is the exchange-native start time in epoch milliseconds.
type Candle struct {
	Timestamp int64   `json:"timestamp"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
	Turnover  float64 `json:"turnover"`
}

// Ticker is a 24h snapshot for a symbol.
// ChangePct is in percent units (0.05 at the source becomes 5).
type Ticker struct {
	Symbol    string  `json:"symbol"`
	LastPrice float64 `json:"lastPrice"`
	ChangePct float64 `json:"changePct"`
	ListedAt  *int64  `json:"listedAt"` // nil when the listing time is unknown
}

// Instrument is a tradable pair from instruments-info.
type Instrument struct {
	Symbol     string `json:"symbol"`
	Status     string `json:"status,omitempty"`
	LaunchTime *int64 `json:"launchTime"`
}
