// Package testutil provides shared test utilities for slacalc.
package testutil

import (
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dwsmith1983/slacalc/pkg/types"
)

// MockHolidays is an in-memory holiday provider for testing. It answers every
// locale with the same dates and records how often it was asked.
type MockHolidays struct {
	mu    sync.Mutex
	dates types.DateSet
	err   error
	delay time.Duration
	asked []string

	calls atomic.Int64
}

// NewMockHolidays creates a provider serving the given YYYY-MM-DD dates.
func NewMockHolidays(dates ...string) *MockHolidays {
	m := &MockHolidays{dates: types.NewDateSet()}
	for _, d := range dates {
		m.dates.Add(types.MustParseDate(d))
	}
	return m
}

// SetError makes every following lookup fail with err.
func (m *MockHolidays) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// SetDelay makes every following lookup sleep first.
func (m *MockHolidays) SetDelay(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delay = d
}

// Holidays returns the configured dates falling in year.
func (m *MockHolidays) Holidays(locale types.Locale, year int) (types.DateSet, error) {
	m.calls.Add(1)

	m.mu.Lock()
	m.asked = append(m.asked, locale.Key()+"/"+strconv.Itoa(year))
	delay, err := m.delay, m.err
	m.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	if err != nil {
		return nil, err
	}

	out := types.NewDateSet()
	for d := range m.dates {
		if d.Year == year {
			out.Add(d)
		}
	}
	return out, nil
}

// Calls returns the number of lookups served.
func (m *MockHolidays) Calls() int64 {
	return m.calls.Load()
}

// Asked returns the "locale-key/year" of every lookup in order.
func (m *MockHolidays) Asked() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.asked...)
}
