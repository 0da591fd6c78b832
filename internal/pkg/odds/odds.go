// Package odds provides betting line calculations.
package odds

import (
	"math"

	"github.com/shopspring/decimal"
)

// ImpliedProbability converts American odds to the probability the line encodes,
// ignoring bookmaker margin. Zero odds are undefined; callers must reject them.
func ImpliedProbability(american int) float64 {
	if american > 0 {
		return 100 / (float64(american) + 100)
	}
	abs := math.Abs(float64(american))
	return abs / (abs + 100)
}

// DecimalOdds converts American odds to the decimal payout multiplier (stake included).
func DecimalOdds(american int) float64 {
	if american > 0 {
		return float64(american)/100 + 1
	}
	return 100/math.Abs(float64(american)) + 1
}

// ExpectedValue returns the expected fractional return per unit staked.
// impliedProbability is not part of the formula; it is kept so callers can pass the
// pair they display side by side.
func ExpectedValue(modelProbability, impliedProbability float64, american int) float64 {
	_ = impliedProbability
	return modelProbability*DecimalOdds(american) - 1
}

// Metrics is the display-side view of one result against the market line.
type Metrics struct {
	ImpliedProbability float64 `json:"implied_probability"`
	DecimalOdds        float64 `json:"decimal_odds"`
	ExpectedValue      float64 `json:"expected_value"`
	EVPercent          float64 `json:"ev_percent"`
	Edge               float64 `json:"edge"`
}

// Evaluate combines a model probability with the requested American odds.
func Evaluate(modelProbability float64, american int) Metrics {
	implied := ImpliedProbability(american)
	ev := ExpectedValue(modelProbability, implied, american)
	evPct, _ := decimal.NewFromFloat(ev).Mul(decimal.NewFromInt(100)).Round(1).Float64()
	edge, _ := decimal.NewFromFloat(modelProbability).Sub(decimal.NewFromFloat(implied)).Round(4).Float64()
	return Metrics{
		ImpliedProbability: implied,
		DecimalOdds:        DecimalOdds(american),
		ExpectedValue:      ev,
		EVPercent:          evPct,
		Edge:               edge,
	}
}
