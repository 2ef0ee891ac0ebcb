// Package config handles loading and validation of slacalc.yaml project configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dwsmith1983/slacalc/pkg/types"
	"gopkg.in/yaml.v3"
)

// FileName is the project configuration file looked up by Load.
const FileName = "slacalc.yaml"

// Load reads and parses slacalc.yaml from the given directory.
func Load(dir string) (*types.ProjectConfig, error) {
	return LoadFile(filepath.Join(dir, FileName))
}

// LoadFile reads, parses and validates a project configuration file.
func LoadFile(path string) (*types.ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg types.ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	// Holiday directories are relative to the file that names them.
	base := filepath.Dir(path)
	for i, dir := range cfg.HolidayDirs {
		if !filepath.IsAbs(dir) {
			cfg.HolidayDirs[i] = filepath.Join(base, dir)
		}
	}

	return &cfg, nil
}

// Defaults converts a project configuration into a base Request carrying the
// calendar settings. Budget and start time are left for the caller.
func Defaults(cfg *types.ProjectConfig) (types.Request, error) {
	var req types.Request
	if cfg == nil {
		return req, nil
	}
	req.TimeZone = cfg.TimeZone
	req.SkipBusinessHours = cfg.SkipBusinessHours
	req.ExcludedDates = append([]string(nil), cfg.ExcludedDates...)
	if cfg.Holidays != nil {
		req.HolidayCountry = cfg.Holidays.Country
		req.HolidayState = cfg.Holidays.State
		req.HolidayProvince = cfg.Holidays.Province
	}
	if cfg.BusinessHours != nil {
		var err error
		if req.OpenHour, req.OpenMinute, err = ParseTimeOfDay(cfg.BusinessHours.Open); err != nil {
			return types.Request{}, fmt.Errorf("businessHours.open: %w", err)
		}
		if req.CloseHour, req.CloseMinute, err = ParseTimeOfDay(cfg.BusinessHours.Close); err != nil {
			return types.Request{}, fmt.Errorf("businessHours.close: %w", err)
		}
	}
	return req, nil
}

// ParseTimeOfDay parses an "HH:MM" string into its hour and minute.
func ParseTimeOfDay(hhmm string) (hour, minute int, err error) {
	if len(hhmm) < 4 || len(hhmm) > 5 {
		return 0, 0, fmt.Errorf("invalid time format %q: expected HH:MM", hhmm)
	}
	colonIdx := strings.IndexByte(hhmm, ':')
	if colonIdx < 0 {
		return 0, 0, fmt.Errorf("invalid time format %q: missing colon", hhmm)
	}

	hour, err = strconv.Atoi(hhmm[:colonIdx])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid hour in %q", hhmm)
	}
	minute, err = strconv.Atoi(hhmm[colonIdx+1:])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid minute in %q", hhmm)
	}
	return hour, minute, nil
}

func validate(cfg *types.ProjectConfig) error {
	if cfg.BusinessHours != nil {
		oh, om, err := ParseTimeOfDay(cfg.BusinessHours.Open)
		if err != nil {
			return fmt.Errorf("businessHours.open: %w", err)
		}
		ch, cm, err := ParseTimeOfDay(cfg.BusinessHours.Close)
		if err != nil {
			return fmt.Errorf("businessHours.close: %w", err)
		}
		if ch*60+cm <= oh*60+om {
			return fmt.Errorf("businessHours.close %s must be later than open %s", cfg.BusinessHours.Close, cfg.BusinessHours.Open)
		}
	}
	if cfg.Holidays != nil && cfg.Holidays.Country == "" {
		return fmt.Errorf("holidays.country is required when holidays is set")
	}
	for _, d := range cfg.ExcludedDates {
		if _, err := types.ParseDate(d); err != nil {
			return fmt.Errorf("excludedDates: %w", err)
		}
	}
	for _, dir := range cfg.HolidayDirs {
		if strings.TrimSpace(dir) == "" {
			return fmt.Errorf("holidayDirs entries must not be empty")
		}
	}
	return nil
}
