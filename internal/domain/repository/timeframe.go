package repository

import (
	"sort"
	"strconv"
)

// Timeframe is the user-facing candle bucket name ("15m").
type Timeframe string

// Interval is the exchange interval code ("15").
type Interval string

const (
	TF1m  Timeframe = "1m"
	TF3m  Timeframe = "3m"
	TF5m  Timeframe = "5m"
	TF15m Timeframe = "15m"
	TF30m Timeframe = "30m"
	TF1h  Timeframe = "1h"
	TF4h  Timeframe = "4h"
	TF1d  Timeframe = "1d"
)

var intervals = map[Timeframe]Interval{
	TF1m:  "1",
	TF3m:  "3",
	TF5m:  "5",
	TF15m: "15",
	TF30m: "30",
	TF1h:  "60",
	TF4h:  "240",
	TF1d:  "1440",
}

// IsValidTimeframe returns true if tf is a supported timeframe.
func IsValidTimeframe(tf Timeframe) bool {
	_, ok := intervals[tf]
	return ok
}

// DefaultTimeframe returns the default timeframe.
func DefaultTimeframe() Timeframe { return TF15m }

// NormalizeTimeframe converts raw string to a valid timeframe (or default).
func NormalizeTimeframe(s string) Timeframe {
	if s == "" {
		return DefaultTimeframe()
	}
	tf := Timeframe(s)
	if IsValidTimeframe(tf) {
		return tf
	}
	return DefaultTimeframe()
}

// IntervalFor maps a timeframe to the exchange interval code.
func IntervalFor(tf Timeframe) Interval {
	if iv, ok := intervals[tf]; ok {
		return iv
	}
	return intervals[DefaultTimeframe()]
}

// TimeframeOption is one entry of the timeframe selector.
type TimeframeOption struct {
	Timeframe Timeframe `json:"timeframe"`
	Interval  Interval  `json:"interval"`
	Minutes   int       `json:"minutes"`
}

// Timeframes lists supported timeframes ordered by bucket width.
func Timeframes() []TimeframeOption {
	out := make([]TimeframeOption, 0, len(intervals))
	for tf, iv := range intervals {
		out = append(out, TimeframeOption{Timeframe: tf, Interval: iv, Minutes: minutes(iv)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Minutes < out[j].Minutes })
	return out
}

func minutes(iv Interval) int {
	n, _ := strconv.Atoi(string(iv))
	return n
}
