package features

import (
	"math"

	"PatternScan/internal/domain/models"
)

// Closes extracts close prices in candle order.
func Closes(candles []models.Candle) []float64 {
	out := make([]float64, len(candles))
	for i, c := range candles {
		out[i] = c.Close
	}
	return out
}

// Highs extracts high prices in candle order.
func Highs(candles []models.Candle) []float64 {
	out := make([]float64, len(candles))
	for i, c := range candles {
		out[i] = c.High
	}
	return out
}

// Lows extracts low prices in candle order.
func Lows(candles []models.Candle) []float64 {
	out := make([]float64, len(candles))
	for i, c := range candles {
		out[i] = c.Low
	}
	return out
}

// Tail returns the last n values, or all of them when fewer than n exist.
// The returned slice shares the backing array with xs.
func Tail(xs []float64, n int) []float64 {
	if n >= len(xs) {
		return xs
	}
	if n <= 0 {
		return xs[:0]
	}
	return xs[len(xs)-n:]
}

// Window returns xs[len-from : len-to], mirroring a negative-index slice [-from:-to].
// Bounds are clamped to the slice.
func Window(xs []float64, from, to int) []float64 {
	n := len(xs)
	lo := n - from
	hi := n - to
	if lo < 0 {
		lo = 0
	}
	if lo > n {
		lo = n
	}
	if hi < lo {
		hi = lo
	}
	if hi > n {
		hi = n
	}
	return xs[lo:hi]
}

// Mean is the arithmetic mean; NaN for an empty window.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// PopStdDev is the population standard deviation (divisor n); NaN for an empty window.
func PopStdDev(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	m := Mean(xs)
	ss := 0.0
	for _, x := range xs {
		d := x - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(xs)))
}

// Max returns the largest value; NaN for an empty slice.
func Max(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	m := xs[0]
	for _, x := range xs[1:] {
		if x > m {
			m = x
		}
	}
	return m
}

// Min returns the smallest value; NaN for an empty slice.
func Min(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	m := xs[0]
	for _, x := range xs[1:] {
		if x < m {
			m = x
		}
	}
	return m
}
