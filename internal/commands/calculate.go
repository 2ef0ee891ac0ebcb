package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dwsmith1983/slacalc/internal/config"
	"github.com/dwsmith1983/slacalc/internal/sla"
	"github.com/dwsmith1983/slacalc/pkg/types"
)

// NewCalculateCmd creates the calculate command.
func NewCalculateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calculate",
		Short: "Calculate an SLA expiration time",
		Long: `Calculates when an SLA expires. With --business-hours the budget is only
spent between --open and --close on working days; weekends, holidays of the
selected country and --exclude dates are skipped.`,
		Example: `  slacalc calculate --start "2023-10-06 16:50" --hours 0.5 --business-hours \
    --open 09:00 --close 17:00 --tz America/Chicago --country US`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := bindFlags(cmd)
			if err != nil {
				return err
			}
			return runCalculate(v, cmd.OutOrStdout())
		},
	}

	f := cmd.Flags()
	f.String("start", "", "start time, e.g. 2023-10-01T10:00:00 or an RFC 3339 timestamp")
	f.Float64("hours", 0, "SLA budget in hours (fractions allowed)")
	f.Float64("days", 0, "SLA budget in days")
	f.Float64("weeks", 0, "SLA budget in weeks")
	f.String("open", "", "business day opening time, HH:MM")
	f.String("close", "", "business day closing time, HH:MM")
	f.String("tz", "", "IANA time zone for the business calendar")
	f.Bool("business-hours", false, "only count time inside business hours")
	f.StringSlice("exclude", nil, "additional non-working dates, YYYY-MM-DD")
	f.String("country", "", "holiday country code, e.g. US")
	f.String("state", "", "holiday state")
	f.String("province", "", "holiday province")
	f.String("at-risk", "", "report the deadline as at risk within this lead time, e.g. 30m")
	f.String("now", "", "moment to check the deadline against (default: current time)")
	f.Bool("json", false, "print the result as JSON")
	return cmd
}

func runCalculate(v *viper.Viper, out io.Writer) error {
	cfg, err := loadProject(v)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	req, err := requestFromFlags(v, cfg)
	if err != nil {
		return err
	}

	calc, _, err := newCalculator(cfg, newLogger(v.GetBool(flagVerbose)))
	if err != nil {
		return err
	}

	res, err := calc.Calculate(req)
	if err != nil {
		return fmt.Errorf("calculation failed: %w", err)
	}

	status, err := checkStatus(v, res)
	if err != nil {
		return err
	}

	if v.GetBool("json") {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(calculateOutput{Result: res, Status: status})
	}
	printResult(out, res)
	if status != nil {
		printStatus(out, status)
	}
	return nil
}

type calculateOutput struct {
	*sla.Result
	Status *sla.Status `json:"status,omitempty"`
}

// checkStatus evaluates the deadline when --at-risk or --now is given.
func checkStatus(v *viper.Viper, res *sla.Result) (*sla.Status, error) {
	if !v.IsSet("at-risk") && !v.IsSet("now") {
		return nil, nil
	}
	lead, err := sla.ParseLeadTime(v.GetString("at-risk"))
	if err != nil {
		return nil, fmt.Errorf("--at-risk: %w", err)
	}
	now := time.Now()
	if s := v.GetString("now"); s != "" {
		if now, err = sla.ParseStart(s, res.ExpirationTime.Location()); err != nil {
			return nil, fmt.Errorf("--now: %w", err)
		}
	}
	st := res.Check(now, lead)
	return &st, nil
}

// requestFromFlags layers explicitly set flags and SLACALC_* variables over
// the project configuration.
func requestFromFlags(v *viper.Viper, cfg *types.ProjectConfig) (types.Request, error) {
	req, err := config.Defaults(cfg)
	if err != nil {
		return types.Request{}, err
	}

	req.StartText = v.GetString("start")
	req.Hours = v.GetFloat64("hours")
	req.Days = v.GetFloat64("days")
	req.Weeks = v.GetFloat64("weeks")

	if v.IsSet("open") {
		if req.OpenHour, req.OpenMinute, err = config.ParseTimeOfDay(v.GetString("open")); err != nil {
			return types.Request{}, fmt.Errorf("--open: %w", err)
		}
	}
	if v.IsSet("close") {
		if req.CloseHour, req.CloseMinute, err = config.ParseTimeOfDay(v.GetString("close")); err != nil {
			return types.Request{}, fmt.Errorf("--close: %w", err)
		}
	}
	if v.IsSet("tz") {
		req.TimeZone = v.GetString("tz")
	}
	if v.IsSet("business-hours") {
		req.SkipBusinessHours = types.Bool(!v.GetBool("business-hours"))
	}
	if v.IsSet("exclude") {
		req.ExcludedDates = append(req.ExcludedDates, v.GetStringSlice("exclude")...)
	}
	if v.IsSet("country") {
		req.HolidayCountry = v.GetString("country")
		req.HolidayState = ""
		req.HolidayProvince = ""
	}
	if v.IsSet("state") {
		req.HolidayState = v.GetString("state")
	}
	if v.IsSet("province") {
		req.HolidayProvince = v.GetString("province")
	}
	return req, nil
}

func printResult(out io.Writer, res *sla.Result) {
	bold := color.New(color.Bold)
	green := color.New(color.FgGreen)

	_, _ = bold.Fprintf(out, "SLA expires: %s\n", res.ExpirationTime.Format("Mon 2006-01-02 15:04 MST"))
	_, _ = fmt.Fprintf(out, "  start:          %s\n", res.StartTime.Format("Mon 2006-01-02 15:04 MST"))
	_, _ = fmt.Fprintf(out, "  budget:         %d minutes\n", res.BudgetMinutes)
	if res.SkippedBusinessHours() {
		_, _ = green.Fprintln(out, "  business hours: skipped")
		return
	}
	_, _ = fmt.Fprintf(out, "  window:         %s - %s\n", res.OpenTime.Format("15:04"), res.CloseTime.Format("15:04"))
	_, _ = fmt.Fprintf(out, "  business days:  %d\n", res.BusinessDays)
}

func printStatus(out io.Writer, st *sla.Status) {
	switch {
	case st.Breached:
		_, _ = color.New(color.FgRed, color.Bold).Fprintf(out, "  status:         BREACHED %s ago\n", (-st.Remaining).Round(time.Minute))
	case st.AtRisk:
		_, _ = color.New(color.FgYellow).Fprintf(out, "  status:         at risk, %s left\n", st.Remaining.Round(time.Minute))
	default:
		_, _ = color.New(color.FgGreen).Fprintf(out, "  status:         ok, %s left\n", st.Remaining.Round(time.Minute))
	}
}
