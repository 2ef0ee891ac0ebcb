package testutil

import (
	"testing"
	"time"
)

// AssertInstant fails the test unless got is the same instant as want,
// regardless of location.
func AssertInstant(t *testing.T, want, got time.Time) {
	t.Helper()
	if !want.Equal(got) {
		t.Errorf("want %s, got %s", want.Format(time.RFC3339), got.Format(time.RFC3339))
	}
}

// MustLoadLocation loads an IANA zone or fails the test.
func MustLoadLocation(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	if err != nil {
		t.Fatalf("loading location %s: %v", name, err)
	}
	return loc
}
