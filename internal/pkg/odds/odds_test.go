package odds

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestImpliedProbability(t *testing.T) {
	assert.InDelta(t, 0.5238, ImpliedProbability(-110), 1e-4)
	assert.InDelta(t, 0.4, ImpliedProbability(150), 1e-9)
	assert.InDelta(t, 0.5, ImpliedProbability(100), 1e-9)
	assert.InDelta(t, 0.5, ImpliedProbability(-100), 1e-9)

	for _, o := range []int{-10000, -500, -101, 1, 101, 250, 10000} {
		p := ImpliedProbability(o)
		assert.Greater(t, p, 0.0, "odds %d", o)
		assert.Less(t, p, 1.0, "odds %d", o)
	}
}

func TestDecimalOdds(t *testing.T) {
	assert.InDelta(t, 2.5, DecimalOdds(150), 1e-9)
	assert.InDelta(t, 1.9091, DecimalOdds(-110), 1e-4)
	assert.InDelta(t, 2.0, DecimalOdds(-100), 1e-9)
}

func TestExpectedValue(t *testing.T) {
	implied := ImpliedProbability(-110)
	ev := ExpectedValue(0.6, implied, -110)
	assert.Greater(t, ev, 0.0)
	assert.Equal(t, ev, ExpectedValue(0.6, implied, -110))

	assert.InDelta(t, 0.1836, ExpectedValue(0.62, implied, -110), 1e-3)
	assert.Less(t, ExpectedValue(0.4, ImpliedProbability(-110), -110), 0.0)
	assert.InDelta(t, 0.0, ExpectedValue(0.4, ImpliedProbability(150), 150), 1e-9)
}

func TestEvaluate(t *testing.T) {
	m := Evaluate(0.62, -110)
	assert.InDelta(t, 0.5238, m.ImpliedProbability, 1e-4)
	assert.InDelta(t, 0.1836, m.ExpectedValue, 1e-3)
	assert.Equal(t, 18.4, m.EVPercent)
	assert.InDelta(t, 0.0962, m.Edge, 1e-4)
}
