package sla

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/dwsmith1983/slacalc/internal/calendar"
	"github.com/dwsmith1983/slacalc/pkg/types"
)

// truncEpsilon absorbs binary float error (4.35*60 = 260.99999999999997)
// before minutes are truncated. Large budgets use a relative tolerance.
const (
	truncEpsilon  = 1e-9
	truncRelative = 1e-12
)

// MaxBudgetMinutes is the largest budget whose duration fits in a
// time.Duration (about 292 years).
const MaxBudgetMinutes = math.MaxInt64 / int64(time.Minute)

// Layouts accepted for start times. Offset-bearing layouts keep their own
// instant; naive layouts are read in the request's time zone.
var (
	offsetLayouts = []string{
		time.RFC3339Nano,
		"2006-01-02 15:04:05.999999999Z07:00",
		"2006-01-02T15:04:05.999999999Z0700",
		"2006-01-02 15:04:05.999999999Z0700",
	}
	naiveLayouts = []string{
		"2006-01-02T15:04:05.999999999",
		"2006-01-02 15:04:05.999999999",
		"2006-01-02T15:04",
		"2006-01-02 15:04",
		types.DateLayout,
	}
)

// Budget is a duration normalized to whole minutes.
type Budget struct {
	Minutes int
	Unit    types.BudgetUnit
	Value   float64
}

// NewBudget validates that exactly one of hours, days or weeks is non-zero
// and converts it to minutes, truncating any sub-minute remainder.
func NewBudget(hours, days, weeks float64) (Budget, error) {
	var set []Budget
	for _, b := range []Budget{
		{Unit: types.BudgetHours, Value: hours},
		{Unit: types.BudgetDays, Value: days},
		{Unit: types.BudgetWeeks, Value: weeks},
	} {
		if b.Value != 0 {
			set = append(set, b)
		}
	}

	switch len(set) {
	case 0:
		return Budget{}, invalid(KindMissingDurationBudget, "", "provide one of slaHours, slaDays or slaWeeks")
	case 1:
	default:
		units := make([]string, len(set))
		for i, b := range set {
			units[i] = string(b.Unit)
		}
		return Budget{}, invalid(KindAmbiguousDurationBudget, "",
			"provide only one of slaHours, slaDays or slaWeeks, got %s", strings.Join(units, " and "))
	}

	b := set[0]
	if b.Value < 0 || math.IsNaN(b.Value) || math.IsInf(b.Value, 0) {
		return Budget{}, invalid(KindInvalidDurationBudget, strconv.FormatFloat(b.Value, 'g', -1, 64),
			"%s must be a finite positive number, got %v", b.Unit, b.Value)
	}
	minutes, ok := truncateMinutes(b.Value * float64(b.Unit.Multiplier()))
	if !ok {
		return Budget{}, invalid(KindInvalidDurationBudget, strconv.FormatFloat(b.Value, 'g', -1, 64),
			"%s %v exceeds the maximum budget of %d minutes", b.Unit, b.Value, MaxBudgetMinutes)
	}
	b.Minutes = minutes
	return b, nil
}

// truncateMinutes drops the sub-minute part of m. It reports false when the
// result does not fit MaxBudgetMinutes.
func truncateMinutes(m float64) (int, bool) {
	if r := math.Round(m); math.Abs(m-r) <= math.Max(truncEpsilon, m*truncRelative) {
		m = r
	}
	m = math.Floor(m)
	if m > float64(MaxBudgetMinutes) {
		return 0, false
	}
	return int(m), true
}

// Duration returns the budget as a time.Duration.
func (b Budget) Duration() time.Duration {
	return time.Duration(b.Minutes) * time.Minute
}

// Normalized is a validated request: start instant, calendar and budget.
type Normalized struct {
	Start    time.Time
	Calendar calendar.Config
	Budget   Budget
}

// Normalize validates every field of req eagerly and builds the immutable
// calendar configuration. Holiday locales are checked by the Calculator,
// which owns the holiday provider.
func Normalize(req types.Request) (*Normalized, error) {
	budget, err := NewBudget(req.Hours, req.Days, req.Weeks)
	if err != nil {
		return nil, err
	}

	loc, err := loadLocation(req.TimeZone)
	if err != nil {
		return nil, err
	}

	skip := req.SkipsBusinessHours()
	if err := validateWindow(req, skip); err != nil {
		return nil, err
	}

	excluded, err := ParseExcludedDates(req.ExcludedDates)
	if err != nil {
		return nil, err
	}

	start, err := resolveStart(req, loc)
	if err != nil {
		return nil, err
	}

	return &Normalized{
		Start: start,
		Calendar: calendar.Config{
			OpenHour:          req.OpenHour,
			OpenMinute:        req.OpenMinute,
			CloseHour:         req.CloseHour,
			CloseMinute:       req.CloseMinute,
			Location:          loc,
			Excluded:          excluded,
			Locale:            req.Locale(),
			SkipBusinessHours: skip,
		},
		Budget: budget,
	}, nil
}

// ParseExcludedDates parses strict YYYY-MM-DD strings into a set. The first
// bad literal is named in the error.
func ParseExcludedDates(dates []string) (types.DateSet, error) {
	set := types.NewDateSet()
	for _, s := range dates {
		d, err := types.ParseDate(s)
		if err != nil {
			return nil, &ValidationError{
				Kind:   KindInvalidExcludedDate,
				Value:  s,
				Detail: "the date " + strconv.Quote(s) + " is not formatted as YYYY-MM-DD",
				Err:    err,
			}
		}
		set.Add(d)
	}
	return set, nil
}

// ParseStart parses a start time string. Strings carrying an offset keep it;
// naive strings are attached to loc.
func ParseStart(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range offsetLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, invalid(KindInvalidStartTime, s, "cannot parse %q in %s", s, loc)
}

func resolveStart(req types.Request, loc *time.Location) (time.Time, error) {
	if !req.StartTime.IsZero() {
		return req.StartTime, nil
	}
	if strings.TrimSpace(req.StartText) == "" {
		return time.Time{}, invalid(KindInvalidStartTime, "", "no start time given")
	}
	return ParseStart(req.StartText, loc)
}

func loadLocation(name string) (*time.Location, error) {
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, &ValidationError{Kind: KindInvalidTimeZone, Value: name, Detail: "unknown time zone " + strconv.Quote(name), Err: err}
	}
	return loc, nil
}

func validateWindow(req types.Request, skip bool) error {
	if req.OpenHour < 0 || req.OpenHour > 23 || req.CloseHour < 0 || req.CloseHour > 23 {
		return invalid(KindInvalidBusinessHours, "", "hours must be within 0-23, got open %d close %d", req.OpenHour, req.CloseHour)
	}
	if req.OpenMinute < 0 || req.OpenMinute > 59 || req.CloseMinute < 0 || req.CloseMinute > 59 {
		return invalid(KindInvalidBusinessHours, "", "minutes must be within 0-59, got open %d close %d", req.OpenMinute, req.CloseMinute)
	}
	if skip {
		return nil
	}
	if req.CloseHour*60+req.CloseMinute <= req.OpenHour*60+req.OpenMinute {
		return invalid(KindInvalidBusinessHours, "",
			"close %02d:%02d must be later than open %02d:%02d", req.CloseHour, req.CloseMinute, req.OpenHour, req.OpenMinute)
	}
	return nil
}
