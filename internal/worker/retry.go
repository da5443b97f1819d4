package worker

import (
	"math"
	"time"
)

// Defaults applied by normalize when the config leaves fields zero.
const (
	defaultMaxRetries   = 5
	defaultInitialDelay = 2 * time.Second
	defaultMaxDelay     = time.Minute
	defaultBackoff      = 2.0
)

// RetryPolicy defines exponential backoff for spreadsheet sync tasks.
type RetryPolicy struct {
	MaxRetries    int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
}

// normalize fills zero fields with the worker defaults.
func (r RetryPolicy) normalize() RetryPolicy {
	if r.MaxRetries <= 0 {
		r.MaxRetries = defaultMaxRetries
	}
	if r.InitialDelay <= 0 {
		r.InitialDelay = defaultInitialDelay
	}
	if r.MaxDelay <= 0 {
		r.MaxDelay = defaultMaxDelay
	}
	if r.BackoffFactor <= 0 {
		r.BackoffFactor = defaultBackoff
	}
	return r
}

// Exhausted reports whether the attempt count has used up the retry budget.
func (r RetryPolicy) Exhausted(attempt int) bool {
	return attempt >= r.MaxRetries
}

// NextDelay returns the backoff before a given attempt (1-based), capped
// at MaxDelay.
func (r RetryPolicy) NextDelay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := time.Duration(float64(r.InitialDelay) * math.Pow(r.BackoffFactor, float64(attempt-1)))
	if r.MaxDelay > 0 && d > r.MaxDelay {
		d = r.MaxDelay
	}
	if d <= 0 {
		d = defaultInitialDelay
	}
	return d
}
