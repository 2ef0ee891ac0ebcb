package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/gb"
	"github.com/rickar/cal/v2/us"

	"github.com/dwsmith1983/slacalc/pkg/types"
)

// builtinTables maps upper-case country codes to national holiday rules.
var builtinTables = map[string][]*cal.Holiday{
	"US": us.Holidays,
	"GB": gb.Holidays,
	"UK": gb.Holidays,
}

// Builtin serves national holidays from github.com/rickar/cal. State and
// province are ignored; regional tables come from a Registry.
type Builtin struct{}

// Countries lists the country codes Builtin answers for.
func (Builtin) Countries() []string {
	return []string{"GB", "UK", "US"}
}

// Holidays returns both the actual and the observed date of every national
// holiday falling in year. Neighbouring years are evaluated too, since a
// holiday can be observed across a year boundary (New Year on a Saturday).
func (Builtin) Holidays(locale types.Locale, year int) (types.DateSet, error) {
	rules, ok := builtinTables[strings.ToUpper(locale.Country)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownLocale, locale)
	}
	out := types.NewDateSet()
	for _, h := range rules {
		for y := year - 1; y <= year+1; y++ {
			actual, observed := h.Calc(y)
			for _, t := range []time.Time{actual, observed} {
				if !t.IsZero() && t.Year() == year {
					out.Add(types.DateOf(t))
				}
			}
		}
	}
	return out, nil
}
