package types

// BudgetUnit names the field a duration budget was supplied in.
type BudgetUnit string

// BudgetUnit values with their fixed minute multipliers.
const (
	BudgetHours BudgetUnit = "hours"
	BudgetDays  BudgetUnit = "days"
	BudgetWeeks BudgetUnit = "weeks"
)

// Minute multipliers for each budget unit.
const (
	MinutesPerHour = 60
	MinutesPerDay  = 24 * MinutesPerHour
	MinutesPerWeek = 7 * MinutesPerDay
)

// Multiplier returns the number of minutes in one unit, or 0 for an unknown unit.
func (u BudgetUnit) Multiplier() int {
	switch u {
	case BudgetHours:
		return MinutesPerHour
	case BudgetDays:
		return MinutesPerDay
	case BudgetWeeks:
		return MinutesPerWeek
	default:
		return 0
	}
}
