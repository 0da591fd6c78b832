package prediction

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"sharpline/internal/gateway/provider"
	"sharpline/internal/logger"
	"sharpline/internal/pkg/circuit"
)

const defaultProviderTimeout = 60 * time.Second

// Route binds a provider id to its predictor and call policy.
type Route struct {
	Predictor Predictor
	Timeout   time.Duration
	Breaker   *circuit.CircuitBreaker
}

// Dispatcher fans one input out to the requested providers and waits for all
// of them. A failing branch never cancels its siblings.
type Dispatcher struct {
	routes    map[string]Route
	defaultID string
}

func NewDispatcher(routes map[string]Route, defaultID string) *Dispatcher {
	cp := make(map[string]Route, len(routes))
	for id, r := range routes {
		cp[id] = r
	}
	return &Dispatcher{routes: cp, defaultID: defaultID}
}

// IDs lists the registered provider ids in sorted order.
func (d *Dispatcher) IDs() []string {
	ids := make([]string, 0, len(d.routes))
	for id := range d.routes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (d *Dispatcher) DefaultID() string { return d.defaultID }

// ResolveIDs trims and de-duplicates ids, keeping first occurrences. An empty
// request selects the default provider.
func (d *Dispatcher) ResolveIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, raw := range ids {
		id := strings.TrimSpace(raw)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	if len(out) == 0 {
		out = append(out, d.defaultID)
	}
	return out
}

// Dispatch returns the envelope and, when the primary (first) provider failed,
// a *PrimaryFailedError alongside it.
func (d *Dispatcher) Dispatch(ctx context.Context, in Input, ids []string) (Envelope, error) {
	ids = d.ResolveIDs(ids)
	env := Envelope{
		Primary: ids[0],
		Results: make(map[string]Result, len(ids)),
		Errors:  make(map[string]string),
	}
	// Unknown ids are settled before any branch starts writing to env.
	known := make([]string, 0, len(ids))
	for _, id := range ids {
		if route, ok := d.routes[id]; !ok || route.Predictor == nil {
			env.Errors[id] = "Unknown model: " + id
			continue
		}
		known = append(known, id)
	}

	var mu sync.Mutex
	eg, egCtx := errgroup.WithContext(ctx)
	for _, id := range known {
		id, route := id, d.routes[id]
		eg.Go(func() error {
			res, err := d.invokeSafe(egCtx, id, route, in)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				env.Errors[id] = err.Error()
			} else {
				env.Results[id] = res
			}
			return nil
		})
	}
	_ = eg.Wait()

	if _, ok := env.Results[env.Primary]; !ok {
		msg := env.Errors[env.Primary]
		if msg == "" {
			msg = "Prediction failed"
		}
		return env, &PrimaryFailedError{Provider: env.Primary, Message: msg}
	}
	return env, nil
}

func (d *Dispatcher) invokeSafe(parent context.Context, id string, route Route, in Input) (res Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("provider %s panic: %v", id, r)
			res, err = Result{}, fmt.Errorf("%s panic: %v", id, r)
		}
	}()
	if !route.Breaker.Allow() {
		return Result{}, fmt.Errorf("%s temporarily unavailable: %w", id, circuit.ErrOpen)
	}
	timeout := route.Timeout
	if timeout <= 0 {
		timeout = defaultProviderTimeout
	}
	cctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	start := time.Now()
	res, err = route.Predictor.GeneratePrediction(cctx, in)
	elapsed := time.Since(start).Truncate(time.Millisecond)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && cctx.Err() != nil && parent.Err() == nil {
			err = fmt.Errorf("%s timed out after %s: %w", id, timeout, err)
		}
		var cfgErr *provider.ConfigError
		if !errors.As(err, &cfgErr) {
			route.Breaker.RecordFailure()
		}
		logger.Warnf("provider %s failed elapsed=%s err=%v", id, elapsed, err)
		return Result{}, err
	}
	route.Breaker.RecordSuccess()
	logger.Debugf("provider %s ok elapsed=%s probability=%.3f", id, elapsed, res.Probability)
	return res, nil
}
