// Package metrics exposes runtime counters via expvar.
package metrics

import "expvar"

var (
	CalculationsTotal     = expvar.NewInt("calculations_total")
	CalculationErrors     = expvar.NewInt("calculation_errors")
	BusinessDaysConsumed  = expvar.NewInt("business_days_consumed")
	NonWorkingDaysSkipped = expvar.NewInt("non_working_days_skipped")
	HolidayLookups        = expvar.NewInt("holiday_lookups")
	HolidayCacheHits      = expvar.NewInt("holiday_cache_hits")
)
