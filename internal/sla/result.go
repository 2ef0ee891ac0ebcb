package sla

import (
	"time"

	"github.com/dwsmith1983/slacalc/pkg/types"
)

// Result is the outcome of one SLA calculation.
type Result struct {
	// StartTime is where budget counting began, after initial non-working-day
	// skips and clamping to the opening time.
	StartTime time.Time `json:"startTime"`
	// DayStart is where counting began on the day the deadline fell.
	DayStart time.Time `json:"dayStart"`
	// OpenTime and CloseTime bound the deadline's business window. Both are
	// nil when business hours were skipped.
	OpenTime       *time.Time `json:"openTime,omitempty"`
	CloseTime      *time.Time `json:"closeTime,omitempty"`
	ExpirationTime time.Time  `json:"slaExpirationTime"`

	BusinessDays  int `json:"businessDays"`
	BudgetMinutes int `json:"budgetMinutes"`
}

// ExpirationHour returns the wall-clock hour of the deadline.
func (r *Result) ExpirationHour() int { return r.ExpirationTime.Hour() }

// ExpirationMinute returns the wall-clock minute of the deadline.
func (r *Result) ExpirationMinute() int { return r.ExpirationTime.Minute() }

// ExpirationDay returns the day of month of the deadline.
func (r *Result) ExpirationDay() int { return r.ExpirationTime.Day() }

// ExpirationDate returns the calendar date of the deadline.
func (r *Result) ExpirationDate() types.Date { return types.DateOf(r.ExpirationTime) }

// SkippedBusinessHours reports whether the result was computed without a calendar.
func (r *Result) SkippedBusinessHours() bool { return r.OpenTime == nil }

func (r *Result) String() string {
	return r.ExpirationTime.Format(time.RFC3339)
}
