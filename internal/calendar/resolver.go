package calendar

import (
	"errors"
	"fmt"
	"time"

	"github.com/dwsmith1983/slacalc/pkg/types"
)

// maxSettlePasses bounds Settle: roughly ten years of consecutive non-working days.
const maxSettlePasses = 3660

// ErrNoWorkingDay is returned when Settle cannot reach a working day.
var ErrNoWorkingDay = errors.New("no working day reachable")

// Config is the immutable business calendar for one calculation.
type Config struct {
	OpenHour    int
	OpenMinute  int
	CloseHour   int
	CloseMinute int
	Location    *time.Location

	Excluded types.DateSet
	Locale   types.Locale

	SkipBusinessHours bool
}

// WindowMinutes returns the length of the daily business window in minutes.
func (c Config) WindowMinutes() int {
	return (c.CloseHour*60 + c.CloseMinute) - (c.OpenHour*60 + c.OpenMinute)
}

func (c Config) location() *time.Location {
	if c.Location == nil {
		return time.UTC
	}
	return c.Location
}

// Day is a resolved candidate together with the business window of its date.
type Day struct {
	Candidate time.Time
	Open      time.Time
	Close     time.Time
}

// Date returns the calendar date of the resolved candidate.
func (d Day) Date() types.Date {
	return types.DateOf(d.Candidate)
}

// Resolver moves candidate instants onto working days.
type Resolver struct {
	cfg      Config
	holidays HolidayProvider
}

// NewResolver creates a resolver. holidays may be nil when cfg has no locale.
func NewResolver(cfg Config, holidays HolidayProvider) *Resolver {
	return &Resolver{cfg: cfg, holidays: holidays}
}

// Resolve runs one pass of the skip pipeline: weekends (time reset to open),
// then holidays (time kept), then a single excluded-date nudge (time kept).
// The returned candidate may still land on a non-working day; see Settle.
func (r *Resolver) Resolve(candidate time.Time) (Day, error) {
	loc := r.cfg.location()
	c := candidate.In(loc)

	for isWeekend(c.Weekday()) {
		next := c.AddDate(0, 0, 1)
		c = time.Date(next.Year(), next.Month(), next.Day(), r.cfg.OpenHour, r.cfg.OpenMinute, 0, 0, loc)
	}

	if !r.cfg.Locale.IsZero() && r.holidays != nil {
		set, err := r.holidays.Holidays(r.cfg.Locale, c.Year())
		if err != nil {
			return Day{}, fmt.Errorf("loading holidays for %s %d: %w", r.cfg.Locale, c.Year(), err)
		}
		for n := 0; set.Contains(types.DateOf(c)); n++ {
			if n >= maxSettlePasses {
				return Day{}, fmt.Errorf("%w: %d consecutive holidays", ErrNoWorkingDay, n)
			}
			year := c.Year()
			c = c.AddDate(0, 0, 1)
			if c.Year() != year {
				if set, err = r.holidays.Holidays(r.cfg.Locale, c.Year()); err != nil {
					return Day{}, fmt.Errorf("loading holidays for %s %d: %w", r.cfg.Locale, c.Year(), err)
				}
			}
		}
	}

	if r.cfg.Excluded.Contains(types.DateOf(c)) {
		c = c.AddDate(0, 0, 1)
	}

	return Day{
		Candidate: c,
		Open:      r.at(c, r.cfg.OpenHour, r.cfg.OpenMinute),
		Close:     r.at(c, r.cfg.CloseHour, r.cfg.CloseMinute),
	}, nil
}

// Settle repeats Resolve until the candidate stops moving, so that a nudge
// onto a weekend, holiday or second excluded date is cleared as well. It
// also returns how many calendar days were skipped.
func (r *Resolver) Settle(candidate time.Time) (Day, int, error) {
	c := candidate
	for i := 0; i < maxSettlePasses; i++ {
		day, err := r.Resolve(c)
		if err != nil {
			return Day{}, 0, err
		}
		if day.Candidate.Equal(c) {
			return day, daysBetween(types.DateOf(candidate.In(r.cfg.location())), day.Date()), nil
		}
		c = day.Candidate
	}
	return Day{}, 0, fmt.Errorf("%w after %d passes from %s", ErrNoWorkingDay, maxSettlePasses, candidate.Format(time.RFC3339))
}

// IsWorkingDay reports whether d is neither a weekend, a holiday nor an excluded date.
func (r *Resolver) IsWorkingDay(d types.Date) (bool, error) {
	if isWeekend(d.Weekday()) || r.cfg.Excluded.Contains(d) {
		return false, nil
	}
	if r.cfg.Locale.IsZero() || r.holidays == nil {
		return true, nil
	}
	set, err := r.holidays.Holidays(r.cfg.Locale, d.Year)
	if err != nil {
		return false, fmt.Errorf("loading holidays for %s %d: %w", r.cfg.Locale, d.Year, err)
	}
	return !set.Contains(d), nil
}

func (r *Resolver) at(c time.Time, hour, minute int) time.Time {
	return time.Date(c.Year(), c.Month(), c.Day(), hour, minute, 0, 0, r.cfg.location())
}

func isWeekend(wd time.Weekday) bool {
	return wd == time.Saturday || wd == time.Sunday
}

func daysBetween(from, to types.Date) int {
	return int(to.In(time.UTC).Sub(from.In(time.UTC)).Hours() / 24)
}
