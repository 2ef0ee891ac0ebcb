package sla

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/dwsmith1983/slacalc/pkg/types"
)

// Option keys recognised by ParseOptions.
const (
	OptStartTime         = "startTime"
	OptOpenHour          = "openHour"
	OptOpenMinute        = "openMinute"
	OptCloseHour         = "closeHour"
	OptCloseMinute       = "closeMinute"
	OptTimeZone          = "timeZone"
	OptSkipBusinessHours = "skipBusinessHours"
	OptSLAHours          = "slaHours"
	OptSLADays           = "slaDays"
	OptSLAWeeks          = "slaWeeks"
	OptExcludedDates     = "excludedDates"
	OptHolidayCountry    = "holidayCountry"
	OptHolidayState      = "holidayState"
	OptHolidayProvince   = "holidayProvince"
)

// ParseOptions decodes a loosely-typed option map, as produced by decoding
// YAML or JSON into map[string]any, into a Request. Shape errors are
// reported here; value errors are left to Normalize.
func ParseOptions(opts map[string]any) (types.Request, error) {
	var req types.Request

	keys := make([]string, 0, len(opts))
	for k := range opts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		v := opts[key]
		if v == nil {
			continue
		}
		var err error
		switch key {
		case OptStartTime:
			switch s := v.(type) {
			case string:
				req.StartText = s
			case time.Time:
				req.StartTime = s
			default:
				err = invalid(KindInvalidStartTime, fmt.Sprint(v), "startTime must be a string or timestamp, got %T", v)
			}
		case OptOpenHour:
			req.OpenHour, err = intOption(key, v)
		case OptOpenMinute:
			req.OpenMinute, err = intOption(key, v)
		case OptCloseHour:
			req.CloseHour, err = intOption(key, v)
		case OptCloseMinute:
			req.CloseMinute, err = intOption(key, v)
		case OptTimeZone:
			req.TimeZone, err = stringOption(key, v)
		case OptSkipBusinessHours:
			b, ok := v.(bool)
			if !ok {
				err = fmt.Errorf("option %s must be a bool, got %T", key, v)
			}
			req.SkipBusinessHours = types.Bool(b)
		case OptSLAHours:
			req.Hours, err = numberOption(key, v)
		case OptSLADays:
			req.Days, err = numberOption(key, v)
		case OptSLAWeeks:
			req.Weeks, err = numberOption(key, v)
		case OptExcludedDates:
			req.ExcludedDates, err = dateListOption(v)
		case OptHolidayCountry:
			req.HolidayCountry, err = stringOption(key, v)
		case OptHolidayState:
			req.HolidayState, err = stringOption(key, v)
		case OptHolidayProvince:
			req.HolidayProvince, err = stringOption(key, v)
		default:
			err = fmt.Errorf("unknown option %q", key)
		}
		if err != nil {
			return types.Request{}, err
		}
	}
	return req, nil
}

func dateListOption(v any) ([]string, error) {
	errShape := invalid(KindInvalidExcludedDateList, fmt.Sprint(v),
		"excludedDates must be a list of 'YYYY-MM-DD' strings, got %T", v)
	switch list := v.(type) {
	case []string:
		return list, nil
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, errShape
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, errShape
	}
}

func stringOption(key string, v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("option %s must be a string, got %T", key, v)
	}
	return s, nil
}

func numberOption(key string, v any) (float64, error) {
	switch n := v.(type) {
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	case float64:
		return n, nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, invalid(KindInvalidDurationBudget, n, "option %s is not a number", key)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("option %s must be a number, got %T", key, v)
	}
}

func intOption(key string, v any) (int, error) {
	f, err := numberOption(key, v)
	if err != nil {
		return 0, fmt.Errorf("option %s must be an integer, got %v", key, v)
	}
	if f != math.Trunc(f) {
		return 0, invalid(KindInvalidBusinessHours, fmt.Sprint(v), "option %s must be an integer, got %v", key, v)
	}
	return int(f), nil
}
