package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dwsmith1983/slacalc/internal/calendar"
	"github.com/dwsmith1983/slacalc/internal/config"
	"github.com/dwsmith1983/slacalc/internal/sla"
	"github.com/dwsmith1983/slacalc/pkg/types"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := &cobra.Command{Use: "slacalc", SilenceUsage: true, SilenceErrors: true}
	AddPersistentFlags(root)
	root.AddCommand(NewCalculateCmd(), NewBatchCmd(), NewHolidaysCmd(), NewInitCmd())

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

// writeProject writes slacalc.yaml (and optional holiday tables) into a
// temp dir and returns the config path.
func writeProject(t *testing.T, cfg string, tables map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, config.FileName)
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o644))
	if len(tables) > 0 {
		require.NoError(t, os.MkdirAll(filepath.Join(dir, "holidays"), 0o755))
		for name, content := range tables {
			require.NoError(t, os.WriteFile(filepath.Join(dir, "holidays", name), []byte(content), 0o644))
		}
	}
	return path
}

const companyProject = `timezone: America/Chicago
businessHours:
  open: "09:00"
  close: "17:00"
skipBusinessHours: false
holidays:
  country: US
holidayDirs:
  - holidays
`

var companyTables = map[string]string{
	"company.yaml": "name: company\ncountry: US\nannual: [\"12-24\"]\n",
}

func TestCalculate_JSON(t *testing.T) {
	cfgPath := writeProject(t, "", nil)
	out, err := execute(t, "calculate", "--config", cfgPath,
		"--start", "2023-10-06 16:50", "--hours", "0.5",
		"--business-hours", "--open", "09:00", "--close", "17:00",
		"--tz", "America/Chicago", "--json")
	require.NoError(t, err)

	var res sla.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	loc, err := time.LoadLocation("America/Chicago")
	require.NoError(t, err)
	want := time.Date(2023, 10, 9, 9, 20, 0, 0, loc)
	assert.True(t, want.Equal(res.ExpirationTime), "got %s", res.ExpirationTime)
	assert.Equal(t, 30, res.BudgetMinutes)
	assert.Equal(t, 2, res.BusinessDays)
	require.NotNil(t, res.CloseTime)
}

func TestCalculate_ProjectDefaults(t *testing.T) {
	cfgPath := writeProject(t, companyProject, companyTables)

	// 30 minutes on Tuesday; the company's Christmas Eve and the federal
	// Christmas Day are skipped.
	out, err := execute(t, "calculate", "--config", cfgPath, "--start", "2025-12-23 16:30", "--hours", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "SLA expires: Fri 2025-12-26 09:30 CST")
	assert.Contains(t, out, "window:         09:00 - 17:00")
}

func TestCalculate_SkipModeFromFlags(t *testing.T) {
	cfgPath := writeProject(t, companyProject, companyTables)
	out, err := execute(t, "calculate", "--config", cfgPath,
		"--start", "2025-12-24 16:30", "--hours", "1", "--business-hours=false")
	require.NoError(t, err)
	assert.Contains(t, out, "Wed 2025-12-24 17:30 CST")
	assert.Contains(t, out, "business hours: skipped")
}

func TestCalculate_Status(t *testing.T) {
	cfgPath := writeProject(t, "timezone: America/Chicago\nbusinessHours: {open: \"09:00\", close: \"17:00\"}\nskipBusinessHours: false\n", nil)
	args := []string{"calculate", "--config", cfgPath, "--start", "2023-10-06 16:50", "--hours", "0.5"}

	out, err := execute(t, append(args, "--now", "2023-10-09 09:00", "--at-risk", "30m")...)
	require.NoError(t, err)
	assert.Contains(t, out, "status:         at risk, 20m0s left")

	out, err = execute(t, append(args, "--now", "2023-10-09 10:00")...)
	require.NoError(t, err)
	assert.Contains(t, out, "status:         BREACHED 40m0s ago")

	out, err = execute(t, append(args, "--now", "2023-10-06 17:00", "--json")...)
	require.NoError(t, err)
	var decoded struct {
		ExpirationTime time.Time  `json:"slaExpirationTime"`
		Status         sla.Status `json:"status"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.False(t, decoded.Status.Breached)
	assert.Equal(t, 2*24*time.Hour+16*time.Hour+20*time.Minute, decoded.Status.Remaining)

	_, err = execute(t, append(args, "--at-risk", "soon")...)
	assert.ErrorContains(t, err, "--at-risk")
}

func TestCalculate_Errors(t *testing.T) {
	cfgPath := writeProject(t, "", nil)

	_, err := execute(t, "calculate", "--config", cfgPath, "--start", "2023-10-02", "--hours", "1", "--days", "1")
	assert.ErrorIs(t, err, sla.ErrAmbiguousDurationBudget)

	_, err = execute(t, "calculate", "--config", cfgPath, "--start", "2023-10-02", "--hours", "1", "--open", "9am")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--open")

	_, err = execute(t, "calculate", "--config", cfgPath, "--start", "2023-10-02", "--hours", "1", "--country", "XX")
	assert.ErrorIs(t, err, sla.ErrUnsupportedHolidayLocale)

	_, err = execute(t, "calculate", "--config", filepath.Join(t.TempDir(), "missing.yaml"), "--hours", "1")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRequestFromFlags(t *testing.T) {
	cmd := NewCalculateCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--country", "GB", "--exclude", "2025-01-02", "--close", "16:30"}))
	t.Setenv("SLACALC_TZ", "Europe/London")
	v, err := bindFlags(cmd)
	require.NoError(t, err)

	cfg := &types.ProjectConfig{
		TimeZone:      "America/Chicago",
		BusinessHours: &types.BusinessHoursConfig{Open: "08:00", Close: "16:00"},
		Holidays:      &types.Locale{Country: "US", State: "TX"},
		ExcludedDates: []string{"2025-01-01"},
	}
	req, err := requestFromFlags(v, cfg)
	require.NoError(t, err)

	assert.Equal(t, "Europe/London", req.TimeZone)
	assert.Equal(t, 8, req.OpenHour)
	assert.Equal(t, 16, req.CloseHour)
	assert.Equal(t, 30, req.CloseMinute)
	assert.Equal(t, types.Locale{Country: "GB"}, req.Locale())
	assert.Equal(t, []string{"2025-01-01", "2025-01-02"}, req.ExcludedDates)
	assert.True(t, req.SkipsBusinessHours())
}

func TestBatch(t *testing.T) {
	cfgPath := writeProject(t, "", nil)
	input := filepath.Join(t.TempDir(), "requests.yaml")
	require.NoError(t, os.WriteFile(input, []byte(`
- startTime: "2023-10-06 16:50"
  timeZone: America/Chicago
  skipBusinessHours: false
  openHour: 9
  closeHour: 17
  slaHours: 0.5
- startTime: "2023-10-02 09:00"
  slaHours: 1
  slaDays: 1
- startTime: "2023-10-02 09:00"
  slaHours: 1
  excludedDates: "2023-10-09"
- startTime: "2023-10-02 09:00"
  slaHours: 1
  excludedDates: ["2023-13-01"]
`), 0o644))

	out, err := execute(t, "batch", "--config", cfgPath, input)
	require.NoError(t, err)

	var records []BatchRecord
	dec := json.NewDecoder(bytes.NewBufferString(out))
	for dec.More() {
		var rec BatchRecord
		require.NoError(t, dec.Decode(&rec))
		records = append(records, rec)
	}
	require.Len(t, records, 4)

	ids := map[string]bool{}
	for i, rec := range records {
		assert.Equal(t, i, rec.Index)
		_, err := ulid.Parse(rec.ID)
		assert.NoError(t, err)
		ids[rec.ID] = true
	}
	assert.Len(t, ids, 4)

	require.NotNil(t, records[0].Result)
	assert.Nil(t, records[0].Error)
	assert.Equal(t, 9, records[0].Result.ExpirationHour())
	assert.Equal(t, 20, records[0].Result.ExpirationMinute())

	require.NotNil(t, records[1].Error)
	assert.Equal(t, sla.KindAmbiguousDurationBudget, records[1].Error.Kind)
	require.NotNil(t, records[2].Error)
	assert.Equal(t, sla.KindInvalidExcludedDateList, records[2].Error.Kind)
	require.NotNil(t, records[3].Error)
	assert.Equal(t, sla.KindInvalidExcludedDate, records[3].Error.Kind)
	assert.Equal(t, "2023-13-01", records[3].Error.Value)
}

func TestBatch_MissingFile(t *testing.T) {
	_, err := execute(t, "batch", "--config", writeProject(t, "", nil), filepath.Join(t.TempDir(), "none.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestHolidays(t *testing.T) {
	cfgPath := writeProject(t, companyProject, companyTables)
	out, err := execute(t, "holidays", "--config", cfgPath, "--year", "2025")
	require.NoError(t, err)
	assert.Contains(t, out, "Holidays for US in 2025")
	assert.Contains(t, out, "2025-07-04  Friday")
	assert.Contains(t, out, "2025-12-24  Wednesday")
	assert.Contains(t, out, "2025-12-25  Thursday")
	assert.Contains(t, out, ", 1 project holiday tables loaded")

	_, err = execute(t, "holidays", "--config", writeProject(t, "", nil))
	assert.Error(t, err)
}

func TestNewCalculator_SharesHolidayCache(t *testing.T) {
	cfg, err := config.LoadFile(writeProject(t, companyProject, companyTables))
	require.NoError(t, err)

	calc, holidays, err := newCalculator(cfg, newLogger(false))
	require.NoError(t, err)
	assert.Equal(t, 0, holidays.Len())

	req, err := requestFromFlags(mustFlags(t), cfg)
	require.NoError(t, err)
	req.StartText = "2025-12-31 16:00"
	req.Hours = 2
	_, err = calc.Calculate(req)
	require.NoError(t, err)
	assert.Equal(t, 2, holidays.Len(), "2025 and 2026 cached once")

	cfg.HolidayDirs = append(cfg.HolidayDirs, cfg.HolidayDirs[0])
	_, _, err = newCalculator(cfg, newLogger(false))
	assert.ErrorContains(t, err, "defined twice")
}

func mustFlags(t *testing.T, args ...string) *viper.Viper {
	t.Helper()
	cmd := NewCalculateCmd()
	require.NoError(t, cmd.ParseFlags(args))
	v, err := bindFlags(cmd)
	require.NoError(t, err)
	return v
}

func TestInit(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, runInit(dir, false))

	cfg, err := config.Load(dir)
	require.NoError(t, err)
	require.NotNil(t, cfg.Holidays)
	assert.Equal(t, "US", cfg.Holidays.Country)

	reg := calendar.NewRegistry()
	require.NoError(t, reg.LoadDir(cfg.HolidayDirs[0]))
	assert.Equal(t, 1, reg.Len())

	path := filepath.Join(dir, config.FileName)
	require.NoError(t, os.WriteFile(path, []byte("timezone: UTC\n"), 0o644))
	require.NoError(t, runInit(dir, false))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "timezone: UTC\n", string(data))

	require.NoError(t, runInit(dir, true))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, starterConfig, string(data))
}
