package stats

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"

	"hv1/chansey/defs"
)

// Percentile is the nearest-rank estimator: sort ascending and take the
// element at floor(p/100 * n). This is intentionally not the interpolated
// percentile most statistics packages compute. Downstream flag thresholds
// were tuned against this exact definition, so it has to be reproduced
// bit-for-bit; do not "fix" it.
func Percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	idx := int(math.Floor(p / 100 * float64(len(sorted))))
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

// IQR returns the (25th, 75th) nearest-rank percentile pair.
func IQR(values []float64) (q25, q75 float64) {
	return Percentile(values, 25), Percentile(values, 75)
}

// Classify grades a current-window result against the personal (q25, q75)
// reference pair. A flat reference (q25 == q75) has no measurable spread,
// so any deviation from it is Low or High outright. Otherwise a 10% buffer
// around the IQR separates Borderline from Low/High.
func Classify(result, q25, q75 float64) defs.Flag {
	if q25 == q75 {
		switch {
		case result < q25:
			return defs.FlagLow
		case result > q25:
			return defs.FlagHigh
		default:
			return defs.FlagNormal
		}
	}

	spread := q75 - q25
	lowerBound := q25 - 0.1*spread
	upperBound := q75 + 0.1*spread

	switch {
	case result <= lowerBound:
		return defs.FlagLow
	case result >= upperBound:
		return defs.FlagHigh
	case result < q25 || result > q75:
		return defs.FlagBorderline
	default:
		return defs.FlagNormal
	}
}

func Mean(values []float64) float64 {
	m, _ := stats.Mean(values)
	return m
}

func MinMax(values []float64) (min, max float64) {
	min, _ = stats.Min(values)
	max, _ = stats.Max(values)
	return min, max
}
