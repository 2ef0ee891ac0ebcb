package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/oklog/ulid/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/dwsmith1983/slacalc/internal/sla"
)

// BatchRecord is one JSON line of batch output.
type BatchRecord struct {
	ID     string      `json:"id"`
	Index  int         `json:"index"`
	Result *sla.Result `json:"result,omitempty"`
	Error  *BatchError `json:"error,omitempty"`
}

// BatchError describes a request that could not be calculated.
type BatchError struct {
	Kind    sla.ErrorKind `json:"kind,omitempty"`
	Message string        `json:"message"`
	Value   string        `json:"value,omitempty"`
}

// NewBatchCmd creates the batch command.
func NewBatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "batch [requests.yaml]",
		Short: "Calculate SLA expirations for a YAML list of requests",
		Long: `Reads a YAML (or JSON) list of option maps using the keys startTime, openHour,
openMinute, closeHour, closeMinute, timeZone, skipBusinessHours, slaHours,
slaDays, slaWeeks, excludedDates, holidayCountry, holidayState and
holidayProvince, and writes one JSON line per request. Failed requests are
reported inline and do not stop the batch.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := bindFlags(cmd)
			if err != nil {
				return err
			}
			return runBatch(v, args[0], cmd.OutOrStdout())
		},
	}
}

func runBatch(v *viper.Viper, path string, out io.Writer) error {
	cfg, err := loadProject(v)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logger := newLogger(v.GetBool(flagVerbose))
	calc, holidays, err := newCalculator(cfg, logger)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	var requests []map[string]any
	if err := yaml.Unmarshal(data, &requests); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	enc := json.NewEncoder(out)
	failed := 0
	for i, opts := range requests {
		rec := calculateRecord(calc, i, opts)
		if rec.Error != nil {
			failed++
		}
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("writing result %d: %w", i, err)
		}
	}
	logger.Debug("batch complete", "records", len(requests), "failed", failed, "holidayYearsCached", holidays.Len())
	return nil
}

func calculateRecord(calc *sla.Calculator, index int, opts map[string]any) BatchRecord {
	rec := BatchRecord{ID: ulid.Make().String(), Index: index}

	req, err := sla.ParseOptions(opts)
	if err == nil {
		rec.Result, err = calc.Calculate(req)
	}
	if err != nil {
		rec.Result = nil
		rec.Error = &BatchError{Kind: sla.KindOf(err), Message: err.Error()}
		var ve *sla.ValidationError
		if errors.As(err, &ve) {
			rec.Error.Value = ve.Value
		}
	}
	return rec
}
