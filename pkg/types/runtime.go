package types

import "time"

// Request is the raw input to an SLA calculation. Exactly one of Hours, Days
// or Weeks must be non-zero. StartTime takes precedence over StartText when set.
type Request struct {
	StartTime time.Time `yaml:"-" json:"-"`
	StartText string    `yaml:"startTime,omitempty" json:"startTime,omitempty"`

	OpenHour    int    `yaml:"openHour" json:"openHour"`
	OpenMinute  int    `yaml:"openMinute" json:"openMinute"`
	CloseHour   int    `yaml:"closeHour" json:"closeHour"`
	CloseMinute int    `yaml:"closeMinute" json:"closeMinute"`
	TimeZone    string `yaml:"timeZone,omitempty" json:"timeZone,omitempty"`

	// SkipBusinessHours defaults to true when nil.
	SkipBusinessHours *bool `yaml:"skipBusinessHours,omitempty" json:"skipBusinessHours,omitempty"`

	Hours float64 `yaml:"slaHours,omitempty" json:"slaHours,omitempty"`
	Days  float64 `yaml:"slaDays,omitempty" json:"slaDays,omitempty"`
	Weeks float64 `yaml:"slaWeeks,omitempty" json:"slaWeeks,omitempty"`

	ExcludedDates []string `yaml:"excludedDates,omitempty" json:"excludedDates,omitempty"`

	HolidayCountry  string `yaml:"holidayCountry,omitempty" json:"holidayCountry,omitempty"`
	HolidayState    string `yaml:"holidayState,omitempty" json:"holidayState,omitempty"`
	HolidayProvince string `yaml:"holidayProvince,omitempty" json:"holidayProvince,omitempty"`
}

// Locale returns the holiday selector carried by the request.
func (r Request) Locale() Locale {
	return Locale{Country: r.HolidayCountry, State: r.HolidayState, Province: r.HolidayProvince}
}

// SkipsBusinessHours resolves the SkipBusinessHours default.
func (r Request) SkipsBusinessHours() bool {
	if r.SkipBusinessHours == nil {
		return true
	}
	return *r.SkipBusinessHours
}

// Bool returns a pointer to b, for optional request fields.
func Bool(b bool) *bool {
	return &b
}
