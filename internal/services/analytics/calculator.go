package analytics

import (
	"math"
	"strconv"
	"strings"

	"PatternScan/internal/domain/models"
	domsvc "PatternScan/internal/domain/service"
)

const (
	// DefaultCapital applies when the caller supplies no usable capital.
	DefaultCapital = 100.0
	// notional is the fixed position size behind the leverage heuristic.
	notional = 1000.0
)

// Calculator derives leverage and projected profit/loss for directional calls.
type Calculator struct{}

func NewCalculator() *Calculator { return &Calculator{} }

func (Calculator) Calculate(capital, entry float64, r models.PatternResult) (models.TradeProjection, error) {
	return CalculateTrade(capital, entry, r)
}

// CalculateTrade computes the projection for r at the given entry price.
// Levels absent from r stay nil in the projection; a result with no levels at
// all is rejected.
func CalculateTrade(capital, entry float64, r models.PatternResult) (models.TradeProjection, error) {
	if !(capital > 0) || math.IsInf(capital, 0) {
		return models.TradeProjection{}, models.NewInvalidArgument("capital", "must be greater than 0")
	}
	if !(entry > 0) || math.IsInf(entry, 0) {
		return models.TradeProjection{}, models.NewInvalidArgument("entry", "must be greater than 0")
	}
	if !r.HasLevels() {
		return models.TradeProjection{}, models.NewInvalidArgument("levels", "no take-profit or stop-loss for pattern "+string(r.Pattern))
	}

	lev := Leverage(entry)
	p := models.TradeProjection{
		Capital:  capital,
		Entry:    entry,
		Leverage: lev,
	}
	profit := func(tp *float64) *float64 {
		if tp == nil {
			return nil
		}
		v := (*tp - entry) * lev
		return &v
	}
	p.ProfitTP1 = profit(r.TP1)
	p.ProfitTP2 = profit(r.TP2)
	p.ProfitTP3 = profit(r.TP3)
	if r.StopLoss != nil {
		v := (entry - *r.StopLoss) * lev
		p.Loss = &v
	}
	return p, nil
}

// Leverage is notional/entry rounded to one decimal place. Rounding is done on
// the exact binary value with ties to even, so 0.25 becomes 0.2 and 0.35 (stored
// as 0.34999...) becomes 0.3.
func Leverage(entry float64) float64 {
	return roundTo(notional/entry, 1)
}

func roundTo(x float64, places int) float64 {
	v, err := strconv.ParseFloat(strconv.FormatFloat(x, 'f', places, 64), 64)
	if err != nil {
		return x
	}
	return v
}

// ParseCapital parses a user-supplied capital amount, falling back to
// DefaultCapital for empty, unparseable or non-positive input.
func ParseCapital(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultCapital
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || !(v > 0) || math.IsInf(v, 0) {
		return DefaultCapital
	}
	return v
}

var _ domsvc.TradeCalculator = (*Calculator)(nil)
