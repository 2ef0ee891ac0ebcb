package calendar

import (
	"errors"
	"fmt"

	"github.com/dwsmith1983/slacalc/pkg/types"
)

// ErrUnknownLocale is returned by a HolidayProvider that has no table for a locale.
var ErrUnknownLocale = errors.New("unknown holiday locale")

// HolidayProvider yields the holiday dates observed by a locale in a given year.
// Implementations must be deterministic: the same inputs always yield the same set.
type HolidayProvider interface {
	Holidays(locale types.Locale, year int) (types.DateSet, error)
}

// ProviderFunc adapts a function to the HolidayProvider interface.
type ProviderFunc func(locale types.Locale, year int) (types.DateSet, error)

// Holidays calls f.
func (f ProviderFunc) Holidays(locale types.Locale, year int) (types.DateSet, error) {
	return f(locale, year)
}

// Static serves a fixed date set for every year of one country, ignoring
// state and province. Useful as a test double.
type Static struct {
	Country string
	Dates   types.DateSet
}

// Holidays returns the dates of the requested year.
func (s Static) Holidays(locale types.Locale, year int) (types.DateSet, error) {
	if locale.Country != s.Country {
		return nil, fmt.Errorf("%w: %s", ErrUnknownLocale, locale)
	}
	out := types.NewDateSet()
	for d := range s.Dates {
		if d.Year == year {
			out.Add(d)
		}
	}
	return out, nil
}

// Chain consults every provider and merges the answers of those that know
// the locale, so project tables add to the national ones. A hard error from
// any provider stops the lookup.
type Chain []HolidayProvider

// Holidays implements HolidayProvider.
func (c Chain) Holidays(locale types.Locale, year int) (types.DateSet, error) {
	var merged types.DateSet
	for _, p := range c {
		set, err := p.Holidays(locale, year)
		if errors.Is(err, ErrUnknownLocale) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if merged == nil {
			merged = types.NewDateSet()
		}
		for d := range set {
			merged.Add(d)
		}
	}
	if merged == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownLocale, locale)
	}
	return merged, nil
}
