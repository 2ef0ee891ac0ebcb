// Package calendar resolves business days: holiday tables, holiday providers
// and the resolver that moves a candidate instant onto a working day.
package calendar

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dwsmith1983/slacalc/pkg/types"
	"gopkg.in/yaml.v3"
)

// Registry manages holiday tables loaded from YAML files. It implements
// HolidayProvider, matching a locale by country, then state, then province.
type Registry struct {
	tables map[string]*types.HolidayTable
}

// NewRegistry creates a new empty holiday registry.
func NewRegistry() *Registry {
	return &Registry{
		tables: make(map[string]*types.HolidayTable),
	}
}

// LoadDir loads all YAML holiday table files from a directory.
func (r *Registry) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading holiday dir %s: %w", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml") {
			continue
		}
		path := filepath.Join(dir, name)
		if err := r.LoadFile(path); err != nil {
			return fmt.Errorf("loading holiday table %s: %w", path, err)
		}
	}
	return nil
}

// LoadFile loads a single holiday table YAML file.
func (r *Registry) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading file: %w", err)
	}

	var table types.HolidayTable
	if err := yaml.Unmarshal(data, &table); err != nil {
		return fmt.Errorf("parsing YAML: %w", err)
	}

	if table.Name == "" {
		return fmt.Errorf("holiday table in %s has no name", path)
	}
	return r.Register(&table)
}

// Get returns a table by name, or nil if not found.
func (r *Registry) Get(name string) *types.HolidayTable {
	return r.tables[name]
}

// Register validates a table and adds it to the registry.
func (r *Registry) Register(table *types.HolidayTable) error {
	if table.Name == "" {
		return fmt.Errorf("holiday table has no name")
	}
	if table.Country == "" {
		return fmt.Errorf("holiday table %s has no country", table.Name)
	}
	if r.Get(table.Name) != nil {
		return fmt.Errorf("holiday table %s is defined twice", table.Name)
	}
	for _, d := range table.Dates {
		if _, err := types.ParseDate(d); err != nil {
			return fmt.Errorf("holiday table %s: %w", table.Name, err)
		}
	}
	for _, md := range table.Annual {
		if _, err := parseMonthDay(md); err != nil {
			return fmt.Errorf("holiday table %s: %w", table.Name, err)
		}
	}
	r.tables[table.Name] = table
	return nil
}

// Len returns the number of registered tables.
func (r *Registry) Len() int {
	return len(r.tables)
}

// Holidays merges every table registered for the locale, falling back from
// province to state to country-wide tables when no exact match exists.
func (r *Registry) Holidays(locale types.Locale, year int) (types.DateSet, error) {
	candidates := []types.Locale{
		locale,
		{Country: locale.Country, State: locale.State},
		{Country: locale.Country},
	}
	for _, want := range candidates {
		var matched bool
		out := types.NewDateSet()
		for _, t := range r.tables {
			if !sameLocale(t.Locale(), want) {
				continue
			}
			matched = true
			addTableDates(out, t, year)
		}
		if matched {
			return out, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownLocale, locale)
}

func sameLocale(a, b types.Locale) bool {
	return strings.EqualFold(a.Country, b.Country) &&
		strings.EqualFold(a.State, b.State) &&
		strings.EqualFold(a.Province, b.Province)
}

// addTableDates assumes the table was validated by Register.
func addTableDates(out types.DateSet, t *types.HolidayTable, year int) {
	for _, s := range t.Dates {
		d, _ := types.ParseDate(s)
		if d.Year == year {
			out.Add(d)
		}
	}
	for _, s := range t.Annual {
		md, _ := parseMonthDay(s)
		// Feb 29 only exists in leap years; time.Date would normalise it to Mar 1.
		d := types.DateOf(time.Date(year, md.Month(), md.Day(), 0, 0, 0, 0, time.UTC))
		if d.Month == md.Month() {
			out.Add(d)
		}
	}
}

// parseMonthDay parses an "MM-DD" annual holiday into a reference date in leap year 2000.
func parseMonthDay(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", "2000-"+s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid annual date %q: expected MM-DD", s)
	}
	return t, nil
}
