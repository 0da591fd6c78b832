package provider

import (
	"context"

	"golang.org/x/time/rate"
)

// throttle paces outgoing calls; a nil limiter never waits.
type throttle struct {
	limiter *rate.Limiter
}

func newThrottle(rps float64) throttle {
	if rps <= 0 {
		return throttle{}
	}
	burst := int(rps)
	if burst < 1 {
		burst = 1
	}
	return throttle{limiter: rate.NewLimiter(rate.Limit(rps), burst)}
}

func (t throttle) wait(ctx context.Context) error {
	if t.limiter == nil {
		return nil
	}
	return t.limiter.Wait(ctx)
}
