package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dwsmith1983/slacalc/internal/config"
	"github.com/dwsmith1983/slacalc/pkg/types"
)

// NewHolidaysCmd creates the holidays command.
func NewHolidaysCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "holidays",
		Short: "List the holidays of a locale for a year",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := bindFlags(cmd)
			if err != nil {
				return err
			}
			return runHolidays(v, cmd.OutOrStdout())
		},
	}

	cmd.Flags().String("country", "", "holiday country code, e.g. US")
	cmd.Flags().String("state", "", "holiday state")
	cmd.Flags().String("province", "", "holiday province")
	cmd.Flags().Int("year", time.Now().Year(), "calendar year")
	return cmd
}

func runHolidays(v *viper.Viper, out io.Writer) error {
	cfg, err := loadProject(v)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	locale := types.Locale{}
	if cfg.Holidays != nil {
		locale = *cfg.Holidays
	}
	if v.IsSet("country") {
		locale = types.Locale{Country: v.GetString("country")}
	}
	if v.IsSet("state") {
		locale.State = v.GetString("state")
	}
	if v.IsSet("province") {
		locale.Province = v.GetString("province")
	}
	if locale.IsZero() {
		return fmt.Errorf("a country is required (--country or holidays.country in %s)", config.FileName)
	}

	provider, reg, err := newHolidayProvider(cfg)
	if err != nil {
		return err
	}
	year := v.GetInt("year")
	set, err := provider.Holidays(locale, year)
	if err != nil {
		return fmt.Errorf("listing holidays: %w", err)
	}

	_, _ = color.New(color.Bold).Fprintf(out, "Holidays for %s in %d\n", locale, year)
	for _, d := range set.Sorted() {
		_, _ = fmt.Fprintf(out, "  %s  %s\n", d, d.Weekday())
	}
	_, _ = fmt.Fprintf(out, "%d dates, %d project holiday tables loaded\n", len(set), reg.Len())
	return nil
}
