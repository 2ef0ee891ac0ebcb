package sla

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dwsmith1983/slacalc/internal/calendar"
	"github.com/dwsmith1983/slacalc/internal/metrics"
)

// engine spends a minutes budget against successive business windows.
type engine struct {
	cfg      calendar.Config
	resolver *calendar.Resolver
	logger   *slog.Logger
}

// iterationLimit bounds the day loop. Every day after the first two
// contributes a full window, and DST can shorten a window by an hour.
func iterationLimit(minutes, window int) int {
	perDay := window - 60
	if perDay < 1 {
		perDay = 1
	}
	return minutes/perDay + 3
}

func (e *engine) run(start time.Time, minutes int) (*Result, error) {
	if e.cfg.SkipBusinessHours {
		return &Result{
			StartTime:      start,
			DayStart:       start,
			ExpirationTime: start.Add(time.Duration(minutes) * time.Minute),
			BudgetMinutes:  minutes,
		}, nil
	}

	var (
		remaining = minutes
		candidate = start
		first     time.Time
		limit     = iterationLimit(minutes, e.cfg.WindowMinutes())
	)

	for i := 0; i < limit; i++ {
		day, err := e.settle(candidate)
		if err != nil {
			return nil, err
		}

		adjusted := day.Candidate
		if adjusted.After(day.Close) {
			// Past today's close: count from the next working day's open.
			if day, err = e.settle(day.Open.AddDate(0, 0, 1)); err != nil {
				return nil, err
			}
			adjusted = day.Candidate
		}
		if adjusted.Before(day.Open) {
			adjusted = day.Open
		}
		if i == 0 {
			first = adjusted
		}

		available := int(day.Close.Sub(adjusted) / time.Minute)
		metrics.BusinessDaysConsumed.Add(1)

		if available >= remaining {
			open, closing := day.Open, day.Close
			return &Result{
				StartTime:      first,
				DayStart:       adjusted,
				OpenTime:       &open,
				CloseTime:      &closing,
				ExpirationTime: adjusted.Add(time.Duration(remaining) * time.Minute),
				BusinessDays:   i + 1,
				BudgetMinutes:  minutes,
			}, nil
		}

		remaining -= available
		e.logger.Debug("business day consumed",
			"date", day.Date().String(), "available", available, "remaining", remaining)
		candidate = day.Open.AddDate(0, 0, 1)
	}

	return nil, fmt.Errorf("%w: %d minutes not spent after %d business days", ErrIterationLimitExceeded, remaining, limit)
}

func (e *engine) settle(candidate time.Time) (calendar.Day, error) {
	day, skipped, err := e.resolver.Settle(candidate)
	if errors.Is(err, calendar.ErrNoWorkingDay) {
		return calendar.Day{}, fmt.Errorf("%w: %w", ErrIterationLimitExceeded, err)
	}
	if err != nil {
		return calendar.Day{}, fmt.Errorf("resolving business day: %w", err)
	}
	if skipped > 0 {
		metrics.NonWorkingDaysSkipped.Add(int64(skipped))
		e.logger.Debug("skipped non-working days", "from", candidate.Format(time.RFC3339), "days", skipped)
	}
	return day, nil
}
