package report

import (
	"sort"

	"go.uber.org/zap"

	"hv1/chansey/defs"
	"hv1/chansey/pkg/metrics"
	"hv1/chansey/pkg/stats"
)

// Computed is one metric's full computed state: the presentable ReportMetric
// plus the numeric context the assembler still needs (quartiles, current
// average) to derive the visible-table flag and suppression decisions.
type Computed struct {
	Key string
	defs.ReportMetric

	Q25        float64
	Q75        float64
	HasRange   bool
	RefCount   int
	Current    float64
	HasCurrent bool
}

// ComputeMetrics turns aggregated series into one Computed entry per metric
// key, in deterministic key order. Reference handling follows the data
// volume: three or more reference days use the nearest-rank IQR, one or two
// fall back to min/max, none renders the placeholder with a Normal flag.
func ComputeMetrics(agg *Aggregated, age int, gender metrics.Gender, logger *zap.Logger) []Computed {
	keys := make([]string, 0, len(agg.Series))
	for key := range agg.Series {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	computed := make([]Computed, 0, len(keys))
	for _, key := range keys {
		series := agg.Series[key]
		def := metrics.Lookup(key)

		c := Computed{
			Key: key,
			ReportMetric: defs.ReportMetric{
				Metric:    def.DisplayName,
				Result:    defs.Placeholder,
				Flag:      defs.FlagNormal,
				Reference: defs.Placeholder,
			},
		}

		if len(series.Current) > 0 {
			c.Current = stats.Mean(series.Current)
			c.HasCurrent = true
			c.Result = def.FormatValue(c.Current)
		}

		c.RefCount = len(series.Reference)
		switch {
		case c.RefCount >= 3:
			c.Q25, c.Q75 = stats.IQR(series.Reference)
			c.HasRange = true
		case c.RefCount >= 1:
			c.Q25, c.Q75 = stats.MinMax(series.Reference)
			c.HasRange = true
		}

		if c.HasRange {
			c.Reference = def.FormatRange(c.Q25, c.Q75)
			if c.HasCurrent {
				c.Flag = stats.Classify(c.Current, c.Q25, c.Q75)
			}
		}

		if r, ok := metrics.ResolveClinicalRange(def.DisplayName, age, gender); ok {
			c.ClinicalRange = r.String()
		}

		logger.Debug("computed metric",
			zap.String("key", key),
			zap.String("result", c.Result),
			zap.String("flag", c.Flag.String()),
			zap.Int("referenceDays", c.RefCount),
		)

		computed = append(computed, c)
	}

	return computed
}
