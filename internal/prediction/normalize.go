package prediction

import "math"

var validConfidence = map[string]struct{}{
	"low":    {},
	"medium": {},
	"high":   {},
}

// Normalize repairs out-of-range values without failing: probability is
// clamped to [0,1], any confidence other than exactly low, medium or high
// becomes "medium" and a missing factor
// list becomes empty. Applying it twice changes nothing.
func Normalize(r Result) Result {
	switch {
	case math.IsNaN(r.Probability):
		r.Probability = 0
	case r.Probability < 0:
		r.Probability = 0
	case r.Probability > 1:
		r.Probability = 1
	}
	if _, ok := validConfidence[r.Confidence]; !ok {
		r.Confidence = "medium"
	}
	factors := make([]string, len(r.KeyFactors))
	copy(factors, r.KeyFactors)
	r.KeyFactors = factors
	return r
}
