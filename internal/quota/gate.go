// Package quota enforces the daily prediction allowance per identity.
package quota

import (
	"context"
	"strings"
	"time"

	"sharpline/internal/logger"
)

const ExceededMessage = "Daily prediction limit reached. Create an account to save and increase limits."

// Identity is the caller; an empty UserID is the shared guest bucket.
type Identity struct {
	UserID string
}

func (i Identity) Guest() bool { return strings.TrimSpace(i.UserID) == "" }

// UserRef returns nil for guests, matching rows whose user_id IS NULL.
func (i Identity) UserRef() *string {
	if i.Guest() {
		return nil
	}
	id := strings.TrimSpace(i.UserID)
	return &id
}

// Counter counts recorded predictions for userID created at or after since.
type Counter interface {
	CountSince(ctx context.Context, userID *string, since time.Time) (int64, error)
}

type Limits struct {
	Guest int
	User  int
}

// Decision reports usage against the limit that applies to the caller.
type Decision struct {
	Used  int `json:"used"`
	Limit int `json:"limit"`
}

func (d Decision) Remaining() int {
	if d.Used >= d.Limit {
		return 0
	}
	return d.Limit - d.Used
}

type ExceededError struct {
	Limit int
	Count int
}

func (e *ExceededError) Error() string { return ExceededMessage }

// Gate admits requests while today's count is under the limit. The check is
// not atomic with the later insert, so concurrent callers may overshoot by a
// few near the boundary.
type Gate struct {
	counter Counter
	limits  Limits
	now     func() time.Time
}

func NewGate(counter Counter, limits Limits) *Gate {
	return &Gate{counter: counter, limits: limits, now: time.Now}
}

// WithClock replaces the time source.
func (g *Gate) WithClock(now func() time.Time) *Gate {
	g.now = now
	return g
}

func (g *Gate) limitFor(id Identity) int {
	if id.Guest() {
		return g.limits.Guest
	}
	return g.limits.User
}

// StartOfDayUTC returns 00:00 UTC of t's UTC date.
func StartOfDayUTC(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// Usage returns today's count for id without enforcing anything.
func (g *Gate) Usage(ctx context.Context, id Identity) (Decision, error) {
	dec := Decision{Limit: g.limitFor(id)}
	if g.counter == nil {
		return dec, nil
	}
	n, err := g.counter.CountSince(ctx, id.UserRef(), StartOfDayUTC(g.now()))
	if err != nil {
		return dec, err
	}
	dec.Used = int(n)
	return dec, nil
}

// Admit rejects with *ExceededError once the count reaches the limit. A failing
// counter admits the request.
func (g *Gate) Admit(ctx context.Context, id Identity) (Decision, error) {
	dec, err := g.Usage(ctx, id)
	if err != nil {
		logger.Warnf("quota count failed, admitting guest=%v: %v", id.Guest(), err)
		return dec, nil
	}
	if dec.Used >= dec.Limit {
		return dec, &ExceededError{Limit: dec.Limit, Count: dec.Used}
	}
	return dec, nil
}
