package models

// Requests for dashboard HTTP endpoints.

type ScanRequest struct {
	Symbols string `query:"symbols" json:"symbols"`
	TF      string `query:"tf" json:"tf" default:"15m" validate:"oneof=1m 3m 5m 15m 30m 1h 4h 1d"`
	Capital string `query:"capital" json:"capital"`
	Limit   int    `query:"limit" json:"limit" default:"200" validate:"gte=2,lte=1000"`
}

type PatternRequest struct {
	Symbol  string `query:"symbol" json:"symbol" default:"BTCUSDT" validate:"required"`
	TF      string `query:"tf" json:"tf" default:"15m" validate:"oneof=1m 3m 5m 15m 30m 1h 4h 1d"`
	Capital string `query:"capital" json:"capital"`
	Limit   int    `query:"limit" json:"limit" default:"200" validate:"gte=2,lte=1000"`
}

// TickersRequest bounds are percent units; an empty Max means unbounded.
type TickersRequest struct {
	Min  string `query:"min" json:"min" default:"-100"`
	Max  string `query:"max" json:"max"`
	Sort string `query:"sort" json:"sort" validate:"omitempty,oneof=change"`
}
