package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dwsmith1983/slacalc/internal/config"
)

const starterConfig = `timezone: America/Chicago
businessHours:
  open: "09:00"
  close: "17:00"
skipBusinessHours: false
holidays:
  country: US
holidayDirs:
  - ./holidays
excludedDates: []
`

const starterHolidays = `name: company-days
country: US
annual:
  - "12-24"
  - "12-31"
dates: []
`

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Write a starter slacalc.yaml and holiday table",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return runInit(dir, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing files")
	return cmd
}

func runInit(dir string, force bool) error {
	bold := color.New(color.Bold)
	_, _ = bold.Printf("Initializing slacalc project in %s\n", dir)

	holidayDir := filepath.Join(dir, "holidays")
	if err := os.MkdirAll(holidayDir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", holidayDir, err)
	}

	files := []struct {
		path    string
		content string
	}{
		{filepath.Join(dir, config.FileName), starterConfig},
		{filepath.Join(holidayDir, "company-days.yaml"), starterHolidays},
	}
	for _, f := range files {
		if _, err := os.Stat(f.path); err == nil && !force {
			color.Yellow("  → %s exists, skipped (use --force to overwrite)", f.path)
			continue
		}
		if err := os.WriteFile(f.path, []byte(f.content), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", f.path, err)
		}
		color.Green("  ✓ wrote %s", f.path)
	}
	return nil
}
