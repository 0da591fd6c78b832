package prediction

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validResult() Result {
	return Result{
		Sport:            "NBA",
		Event:            "Hornets vs Celtics",
		BetType:          "Moneyline",
		Bet:              "Hornets ML",
		Probability:      0.62,
		Confidence:       "high",
		Edge:             0.05,
		RecommendedUnits: 1,
		Explanation:      "Rest edge.",
		KeyFactors:       []string{"rest"},
	}
}

func TestNormalizeLeavesValidResultUnchanged(t *testing.T) {
	r := validResult()
	assert.Equal(t, r, Normalize(r))
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []Result{
		validResult(),
		{Probability: 1.4, Confidence: "extreme"},
		{Probability: -0.2, Confidence: " HIGH "},
		{Probability: 0.5, KeyFactors: []string{}},
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once))
	}
}

func TestNormalizeClamping(t *testing.T) {
	assert.Equal(t, 1.0, Normalize(Result{Probability: 1.4}).Probability)
	assert.Equal(t, 0.0, Normalize(Result{Probability: -0.2}).Probability)
	assert.Equal(t, "medium", Normalize(Result{Confidence: "extreme"}).Confidence)
	assert.Equal(t, "medium", Normalize(Result{}).Confidence)
	assert.Equal(t, "medium", Normalize(Result{Confidence: "HIGH"}).Confidence)
	assert.Equal(t, "medium", Normalize(Result{Confidence: " high"}).Confidence)
	assert.Equal(t, "low", Normalize(Result{Confidence: "low"}).Confidence)
	assert.NotNil(t, Normalize(Result{}).KeyFactors)
	assert.Empty(t, Normalize(Result{}).KeyFactors)
}
