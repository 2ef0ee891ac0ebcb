package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dwsmith1983/slacalc/pkg/types"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0o644))
	return dir
}

func TestLoad(t *testing.T) {
	dir := writeConfig(t, `timezone: America/Chicago
businessHours:
  open: "09:00"
  close: "17:30"
skipBusinessHours: false
holidays:
  country: US
  state: TX
holidayDirs:
  - ./holidays
excludedDates:
  - "2025-12-26"
  - 2025-12-31
`)

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "America/Chicago", cfg.TimeZone)
	require.NotNil(t, cfg.BusinessHours)
	assert.Equal(t, "17:30", cfg.BusinessHours.Close)
	require.NotNil(t, cfg.SkipBusinessHours)
	assert.False(t, *cfg.SkipBusinessHours)
	assert.Equal(t, &types.Locale{Country: "US", State: "TX"}, cfg.Holidays)
	assert.Equal(t, []string{filepath.Join(dir, "holidays")}, cfg.HolidayDirs)
	assert.Equal(t, []string{"2025-12-26", "2025-12-31"}, cfg.ExcludedDates)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := writeConfig(t, "timezone: [yaml")
	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")
}

func TestLoadEmpty(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Nil(t, cfg.BusinessHours)
	assert.Nil(t, cfg.Holidays)
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{"bad open", "businessHours: {open: \"9am\", close: \"17:00\"}", "businessHours.open"},
		{"bad close minute", "businessHours: {open: \"09:00\", close: \"17:75\"}", "invalid minute"},
		{"close before open", "businessHours: {open: \"17:00\", close: \"09:00\"}", "must be later than open"},
		{"close equals open", "businessHours: {open: \"09:00\", close: \"09:00\"}", "must be later than open"},
		{"holidays without country", "holidays: {state: TX}", "holidays.country"},
		{"bad excluded date", "excludedDates: [\"2025-13-01\"]", "excludedDates"},
		{"empty holiday dir", "holidayDirs: [\"  \"]", "holidayDirs"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "validating config")
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestDefaults(t *testing.T) {
	skip := false
	cfg := &types.ProjectConfig{
		TimeZone:          "Europe/London",
		BusinessHours:     &types.BusinessHoursConfig{Open: "08:30", Close: "16:45"},
		SkipBusinessHours: &skip,
		Holidays:          &types.Locale{Country: "GB"},
		ExcludedDates:     []string{"2025-05-06"},
	}

	req, err := Defaults(cfg)
	require.NoError(t, err)
	assert.Equal(t, "Europe/London", req.TimeZone)
	assert.Equal(t, 8, req.OpenHour)
	assert.Equal(t, 30, req.OpenMinute)
	assert.Equal(t, 16, req.CloseHour)
	assert.Equal(t, 45, req.CloseMinute)
	assert.False(t, req.SkipsBusinessHours())
	assert.Equal(t, types.Locale{Country: "GB"}, req.Locale())
	assert.Equal(t, []string{"2025-05-06"}, req.ExcludedDates)

	req.ExcludedDates[0] = "changed"
	assert.Equal(t, "2025-05-06", cfg.ExcludedDates[0], "Defaults must copy excluded dates")
}

func TestDefaults_Nil(t *testing.T) {
	req, err := Defaults(nil)
	require.NoError(t, err)
	assert.True(t, req.SkipsBusinessHours())
	assert.Empty(t, req.TimeZone)
}

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		in           string
		hour, minute int
		wantErr      bool
	}{
		{"09:00", 9, 0, false},
		{"9:05", 9, 5, false},
		{"23:59", 23, 59, false},
		{"00:00", 0, 0, false},
		{"24:00", 0, 0, true},
		{"12:60", 0, 0, true},
		{"1200", 0, 0, true},
		{"noon", 0, 0, true},
		{"", 0, 0, true},
		{"123:456", 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			h, m, err := ParseTimeOfDay(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.hour, h)
			assert.Equal(t, tt.minute, m)
		})
	}
}
