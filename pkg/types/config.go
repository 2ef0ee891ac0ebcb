package types

// HolidayTable is a named set of holiday dates for a locale, loaded from YAML.
type HolidayTable struct {
	Name     string   `yaml:"name" json:"name"`
	Country  string   `yaml:"country" json:"country"`
	State    string   `yaml:"state,omitempty" json:"state,omitempty"`
	Province string   `yaml:"province,omitempty" json:"province,omitempty"`
	Dates    []string `yaml:"dates,omitempty" json:"dates,omitempty"`   // "2025-12-25"
	Annual   []string `yaml:"annual,omitempty" json:"annual,omitempty"` // "12-25", every year
}

// Locale returns the selector the table answers for.
func (t HolidayTable) Locale() Locale {
	return Locale{Country: t.Country, State: t.State, Province: t.Province}
}

// BusinessHoursConfig is the daily working window as "HH:MM" strings.
type BusinessHoursConfig struct {
	Open  string `yaml:"open" json:"open"`   // "09:00"
	Close string `yaml:"close" json:"close"` // "17:00"
}

// ProjectConfig represents the top-level slacalc.yaml configuration.
type ProjectConfig struct {
	TimeZone          string               `yaml:"timezone,omitempty"`
	BusinessHours     *BusinessHoursConfig `yaml:"businessHours,omitempty"`
	SkipBusinessHours *bool                `yaml:"skipBusinessHours,omitempty"`
	Holidays          *Locale              `yaml:"holidays,omitempty"`
	HolidayDirs       []string             `yaml:"holidayDirs,omitempty"`
	ExcludedDates     []string             `yaml:"excludedDates,omitempty"`
}
