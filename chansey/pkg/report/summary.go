package report

import (
	"sort"

	"hv1/chansey/defs"
	"hv1/chansey/pkg/metrics"
)

// row is a DoctorSummaryRow still carrying the numeric context used for
// ordering, suppression, and the health-score rollup.
type row struct {
	defs.DoctorSummaryRow
	category defs.Category
	rank     int
	value    float64
	hasValue bool
	q25      float64
	q75      float64
	hasRange bool
}

// sleepStage describes one mergeable percentage+duration pair. Display
// order is fixed: Deep, then REM, then Light.
type sleepStage struct {
	name   string
	pctKey string
	durKey string
}

var sleepStages = []sleepStage{
	{"Deep Sleep", metrics.KeyDeepSleepPercentage, metrics.KeyDeepSleepDuration},
	{"REM Sleep", metrics.KeyRemSleepPercentage, metrics.KeyRemSleepDuration},
	{"Light Sleep", metrics.KeyLightSleepPercentage, metrics.KeyLightSleepDuration},
}

// BuildSummary filters computed metrics to the category allow-lists, merges
// the sleep-stage pairs, applies the flag-eligibility gate and zero-range
// suppression, and orders each table canonically. The returned rows carry
// the numeric context the score rollup reads.
func BuildSummary(computed []Computed) (defs.DoctorSummary, []row) {
	deduped := Dedupe(computed)

	merged, rest := mergeSleepStages(deduped)

	rows := make([]row, 0, len(merged)+len(rest))
	rows = append(rows, merged...)
	for _, c := range rest {
		category, ok := metrics.CategoryOf(c.Key, c.Metric)
		if !ok {
			continue
		}

		v, hasValue := metrics.ParseDisplay(c.Result)
		if suppressed(c, v, hasValue) {
			continue
		}

		rows = append(rows, row{
			DoctorSummaryRow: defs.DoctorSummaryRow{
				Metric:         c.Metric,
				Value:          c.Result,
				ReferenceRange: c.Reference,
				Flag:           displayFlag(c, v, hasValue),
			},
			category: category,
			rank:     metrics.DisplayRank(category, c.Key),
			value:    v,
			hasValue: hasValue,
			q25:      c.Q25,
			q75:      c.Q75,
			hasRange: c.HasRange,
		})
	}

	summary := defs.DoctorSummary{
		SleepTable:          []defs.DoctorSummaryRow{},
		CardiovascularTable: []defs.DoctorSummaryRow{},
		ActivityTable:       []defs.DoctorSummaryRow{},
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].rank != rows[j].rank {
			return rows[i].rank < rows[j].rank
		}
		return rows[i].Metric < rows[j].Metric
	})

	for _, r := range rows {
		switch r.category {
		case defs.CategorySleep:
			summary.SleepTable = append(summary.SleepTable, r.DoctorSummaryRow)
		case defs.CategoryCardiovascular:
			summary.CardiovascularTable = append(summary.CardiovascularTable, r.DoctorSummaryRow)
		case defs.CategoryActivity:
			summary.ActivityTable = append(summary.ActivityTable, r.DoctorSummaryRow)
		}
	}

	return summary, rows
}

// mergeSleepStages combines each stage's percentage and duration candidates
// into one "{pct}% ({duration})" row whose flag comes from the percentage
// component only. Stages with just one candidate pass through untouched.
func mergeSleepStages(computed []Computed) (merged []row, rest []Computed) {
	used := make(map[int]bool)

	findCandidate := func(key string, kind metrics.Kind) (int, bool) {
		want := metrics.NormalizeName(metrics.Lookup(key).DisplayName)
		for i, c := range computed {
			if used[i] {
				continue
			}
			if metrics.Lookup(c.Key).Kind != kind {
				continue
			}
			if metrics.Canonical(c.Key) == key || metrics.NormalizeName(c.Metric) == want {
				return i, true
			}
		}
		return 0, false
	}

	for _, stage := range sleepStages {
		pi, pok := findCandidate(stage.pctKey, metrics.KindPercent)
		di, dok := findCandidate(stage.durKey, metrics.KindDuration)
		if !pok || !dok {
			continue
		}
		pct, dur := computed[pi], computed[di]
		if !pct.HasCurrent || !dur.HasCurrent {
			continue
		}
		used[pi], used[di] = true, true

		pctValue, pctParsed := metrics.ParseDisplay(pct.Result)
		merged = append(merged, row{
			DoctorSummaryRow: defs.DoctorSummaryRow{
				Metric:         stage.name,
				Value:          pct.Result + " (" + metrics.FormatDurationCompact(dur.Current) + ")",
				ReferenceRange: pct.Reference,
				Flag:           displayFlag(pct, pctValue, pctParsed),
			},
			category: defs.CategorySleep,
			rank:     metrics.DisplayRank(defs.CategorySleep, stage.pctKey),
			value:    pctValue,
			hasValue: pctParsed,
			q25:      pct.Q25,
			q75:      pct.Q75,
			hasRange: pct.HasRange,
		})
	}

	for i, c := range computed {
		if !used[i] {
			rest = append(rest, c)
		}
	}
	return merged, rest
}

// displayFlag is the coarse visible-table classification: strict comparison
// of the display-formatted value against the raw quartiles, no buffer. It is
// deliberately independent of the four-way Flag on ReportMetric; the two can
// disagree at the edges and that mismatch is preserved, not reconciled.
func displayFlag(c Computed, v float64, parsed bool) string {
	if !metrics.FlagEligible(c.Key, c.Metric) {
		return ""
	}
	if !c.HasRange || !parsed {
		return ""
	}
	switch {
	case v > c.Q75:
		return defs.AboveRange
	case v < c.Q25:
		return defs.BelowRange
	default:
		return ""
	}
}

// suppressed drops metrics whose reference collapsed to [0,0] while the
// current value is itself zero or unparsable. Legitimately-always-zero
// metrics (no high-intensity activity, say) would otherwise pad the table
// with noise rows.
func suppressed(c Computed, v float64, parsed bool) bool {
	if !c.HasRange || c.Q25 != 0 || c.Q75 != 0 {
		return false
	}
	return !parsed || v == 0
}
