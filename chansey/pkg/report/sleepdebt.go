package report

import (
	"math"

	"hv1/chansey/defs"
	"hv1/chansey/pkg/metrics"
)

const (
	// TargetSleepHours is the nightly target the debt accumulates against.
	TargetSleepHours = 8.0

	// Debt at or above one full hour over the window flags; the threshold
	// sits just under so exactly 1.0h is caught.
	maxAcceptableDebtHours = 0.99
)

// ComputeSleepDebt sums the nightly deficit against the target over the
// current window. Nights at or above target contribute nothing; surplus
// never pays down debt.
func ComputeSleepDebt(agg *Aggregated) defs.SleepDebt {
	series := agg.Series[metrics.KeyTotalSleepDuration]

	debt := 0.0
	for _, sec := range series.Current {
		deficit := TargetSleepHours - sec/3600
		if deficit > 0 {
			debt += deficit
		}
	}
	debt = math.Round(debt*100) / 100

	return defs.SleepDebt{
		Hours:   debt,
		Target:  TargetSleepHours,
		Flagged: debt > maxAcceptableDebtHours,
	}
}
