// Package sla computes SLA expiration deadlines against a business calendar:
// a minutes budget is spent only inside daily open windows, skipping weekends,
// holidays and excluded dates.
package sla

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/dwsmith1983/slacalc/internal/calendar"
	"github.com/dwsmith1983/slacalc/internal/metrics"
	"github.com/dwsmith1983/slacalc/pkg/types"
)

// Calculator computes SLA deadlines. It holds no per-calculation state and
// is safe for concurrent use.
type Calculator struct {
	holidays calendar.HolidayProvider
	logger   *slog.Logger
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithHolidays sets the holiday provider. Providers that are not already a
// *calendar.Cache are memoized per calculation.
func WithHolidays(p calendar.HolidayProvider) Option {
	return func(c *Calculator) { c.holidays = p }
}

// WithLogger sets the logger used for debug tracing of the day loop.
func WithLogger(l *slog.Logger) Option {
	return func(c *Calculator) { c.logger = l }
}

// NewCalculator creates a Calculator. By default national holidays come from
// calendar.Builtin behind a process-wide cache and logging is discarded.
func NewCalculator(opts ...Option) *Calculator {
	c := &Calculator{
		holidays: calendar.NewCache(calendar.Builtin{}),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var defaultCalculator = NewCalculator()

// Calculate computes a deadline with the default Calculator.
func Calculate(req types.Request) (*Result, error) {
	return defaultCalculator.Calculate(req)
}

// Calculate validates req and computes its SLA expiration. Validation is
// complete before any calendar resolution starts; there are no partial results.
func (c *Calculator) Calculate(req types.Request) (*Result, error) {
	metrics.CalculationsTotal.Add(1)

	res, err := c.calculate(req)
	if err != nil {
		metrics.CalculationErrors.Add(1)
		return nil, err
	}
	return res, nil
}

func (c *Calculator) calculate(req types.Request) (*Result, error) {
	norm, err := Normalize(req)
	if err != nil {
		return nil, err
	}

	holidays, err := c.holidaysFor(norm)
	if err != nil {
		return nil, err
	}

	eng := &engine{
		cfg:      norm.Calendar,
		resolver: calendar.NewResolver(norm.Calendar, holidays),
		logger:   c.logger,
	}
	res, err := eng.run(norm.Start, norm.Budget.Minutes)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("sla calculated",
		"start", res.StartTime, "budgetMinutes", res.BudgetMinutes,
		"expiration", res.ExpirationTime, "businessDays", res.BusinessDays)
	return res, nil
}

// holidaysFor returns the provider for one calculation and checks eagerly
// that it knows the requested locale.
func (c *Calculator) holidaysFor(norm *Normalized) (calendar.HolidayProvider, error) {
	locale := norm.Calendar.Locale
	if locale.IsZero() {
		return nil, nil
	}
	if c.holidays == nil {
		return nil, invalid(KindUnsupportedHolidayLocale, locale.String(), "no holiday provider configured for %s", locale)
	}

	holidays := c.holidays
	if _, ok := holidays.(*calendar.Cache); !ok {
		holidays = calendar.NewCache(holidays)
	}

	year := norm.Start.In(norm.Calendar.Location).Year()
	if _, err := holidays.Holidays(locale, year); err != nil {
		if errors.Is(err, calendar.ErrUnknownLocale) {
			return nil, &ValidationError{
				Kind:   KindUnsupportedHolidayLocale,
				Value:  locale.String(),
				Detail: "no holiday table for " + locale.String(),
				Err:    err,
			}
		}
		return nil, fmt.Errorf("loading holidays for %s %d: %w", locale, year, err)
	}
	return holidays, nil
}
