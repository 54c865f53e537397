package domain

import "time"

// Budget is the single wall-clock allotment of a retrieval call.
// It is derived once at call entry; every downstream check reads
// elapsed/remaining against the same origin, so branches never
// restart their own clock.
type Budget struct {
	origin   time.Time
	deadline time.Time
}

// NewBudget starts a budget of the given total duration now.
func NewBudget(total time.Duration) Budget {
	now := time.Now()
	return Budget{origin: now, deadline: now.Add(total)}
}

// Elapsed returns the time spent since the budget origin.
func (b Budget) Elapsed() time.Duration {
	return time.Since(b.origin)
}

// Remaining returns the time left until the deadline (negative once past).
func (b Budget) Remaining() time.Duration {
	return time.Until(b.deadline)
}

// Total returns the full span from origin to deadline.
func (b Budget) Total() time.Duration {
	return b.deadline.Sub(b.origin)
}

// Deadline returns the absolute deadline.
func (b Budget) Deadline() time.Time {
	return b.deadline
}

// Exhausted reports whether the deadline has passed.
func (b Budget) Exhausted() bool {
	return b.Remaining() <= 0
}

// ConsumedOver reports whether more than frac of the total span has
// elapsed since the origin.
func (b Budget) ConsumedOver(frac float64) bool {
	return b.Elapsed() >= time.Duration(frac*float64(b.Total()))
}

// Carve derives a branch budget worth frac of the time remaining now,
// capped at ceiling. The branch shares the parent origin, so time
// already spent on setup is correctly subtracted.
func (b Budget) Carve(frac float64, ceiling time.Duration) Budget {
	d := time.Duration(frac * float64(b.Remaining()))
	if d > ceiling {
		d = ceiling
	}
	if d < 0 {
		d = 0
	}
	return Budget{origin: b.origin, deadline: time.Now().Add(d)}
}

// JoinTimeout returns how long the orchestrator may wait on the branch
// join: the remaining time minus a safety margin, floored at one second.
func (b Budget) JoinTimeout(margin time.Duration) time.Duration {
	d := b.Remaining() - margin
	if d < time.Second {
		d = time.Second
	}
	return d
}
