// Package commands implements the CLI subcommands for the slacalc binary.
package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dwsmith1983/slacalc/internal/calendar"
	"github.com/dwsmith1983/slacalc/internal/config"
	"github.com/dwsmith1983/slacalc/internal/sla"
	"github.com/dwsmith1983/slacalc/pkg/types"
)

// Persistent flag names shared by every subcommand.
const (
	flagConfig  = "config"
	flagVerbose = "verbose"
)

// AddPersistentFlags registers the flags every subcommand understands.
func AddPersistentFlags(root *cobra.Command) {
	root.PersistentFlags().String(flagConfig, "", "path to slacalc.yaml (default ./slacalc.yaml if present)")
	root.PersistentFlags().BoolP(flagVerbose, "v", false, "log calculation steps to stderr")
}

// bindFlags returns a viper instance over the command's flags, with
// SLACALC_* environment variables taking effect for unset flags.
func bindFlags(cmd *cobra.Command) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix("SLACALC")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, fmt.Errorf("binding flags: %w", err)
	}
	return v, nil
}

// loadProject loads the configured project file. Without an explicit path a
// missing ./slacalc.yaml is not an error.
func loadProject(v *viper.Viper) (*types.ProjectConfig, error) {
	if path := v.GetString(flagConfig); path != "" {
		return config.LoadFile(path)
	}
	cfg, err := config.Load(".")
	if errors.Is(err, os.ErrNotExist) {
		return &types.ProjectConfig{}, nil
	}
	return cfg, err
}

// newLogger builds the CLI's stderr logger.
func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// newHolidayProvider chains YAML holiday tables from the project's
// holidayDirs in front of the builtin national tables.
func newHolidayProvider(cfg *types.ProjectConfig) (*calendar.Cache, *calendar.Registry, error) {
	reg := calendar.NewRegistry()
	for _, dir := range cfg.HolidayDirs {
		if err := reg.LoadDir(dir); err != nil {
			return nil, nil, fmt.Errorf("loading holidays from %s: %w", dir, err)
		}
	}
	return calendar.NewCache(calendar.Chain{reg, calendar.Builtin{}}), reg, nil
}

// newCalculator builds a Calculator wired to the project's holiday tables
// and returns the holiday cache it shares.
func newCalculator(cfg *types.ProjectConfig, logger *slog.Logger) (*sla.Calculator, *calendar.Cache, error) {
	holidays, reg, err := newHolidayProvider(cfg)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("holiday tables loaded", "tables", reg.Len(), "dirs", len(cfg.HolidayDirs))
	return sla.NewCalculator(sla.WithHolidays(holidays), sla.WithLogger(logger)), holidays, nil
}
