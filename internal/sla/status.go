package sla

import "time"

// Status describes where a moment stands relative to a calculated deadline.
type Status struct {
	// Breached is true once now is past the expiration time.
	Breached bool `json:"breached"`
	// AtRisk is true when the deadline is not yet breached but falls within
	// the lead window.
	AtRisk bool `json:"atRisk"`
	// Remaining is the wall-clock time left, negative once breached.
	Remaining time.Duration `json:"remaining"`
}

// Check evaluates the result's deadline at now. A non-positive leadTime
// disables the at-risk window.
func (r *Result) Check(now time.Time, leadTime time.Duration) Status {
	st := Status{
		Breached:  now.After(r.ExpirationTime),
		Remaining: r.ExpirationTime.Sub(now),
	}
	if !st.Breached && leadTime > 0 {
		st.AtRisk = !now.Before(r.ExpirationTime.Add(-leadTime))
	}
	return st
}

// ParseLeadTime parses an at-risk lead time such as "30m" or "2h". Empty
// means no lead window.
func ParseLeadTime(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, &ValidationError{Kind: KindInvalidDurationBudget, Value: s, Detail: "lead time must not be negative"}
	}
	return d, nil
}
