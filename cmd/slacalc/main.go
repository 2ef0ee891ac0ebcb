package main

import (
	"fmt"
	"os"
	_ "time/tzdata"

	"github.com/spf13/cobra"

	"github.com/dwsmith1983/slacalc/internal/commands"
)

var version = "dev"

func main() {
	root := &cobra.Command{
		Use:   "slacalc",
		Short: "Business-calendar aware SLA deadline calculator",
		Long: `slacalc computes when an SLA expires. The budget (hours, days or weeks) is
either added straight to the start time, or spent only inside daily business
hours, skipping weekends, public holidays and excluded dates.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	commands.AddPersistentFlags(root)

	root.AddCommand(
		commands.NewInitCmd(),
		commands.NewCalculateCmd(),
		commands.NewBatchCmd(),
		commands.NewHolidaysCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
