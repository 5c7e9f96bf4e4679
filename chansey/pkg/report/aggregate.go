package report

import (
	"sort"
	"strconv"
	"time"

	"hv1/chansey/defs"
	"hv1/chansey/pkg/stats"
)

const (
	currentWindowDays   = 7
	referenceWindowDays = 30

	// Minimum distinct reference days before the degraded fallback kicks in.
	minReferenceDays = 7
)

// Series holds one metric's per-day scalars, split into the current window
// and the personal-baseline reference window. Same-day duplicates have
// already been averaged into a single scalar per day.
type Series struct {
	Current   []float64
	Reference []float64
}

// Windows describes the literal date spans the report covers. Days are ISO
// strings; all comparisons are lexicographic, never date arithmetic on
// parsed values, so a sample's day never shifts with the server timezone.
type Windows struct {
	CurrentStart string
	CurrentEnd   string
	CurrentDays  int
	RefStart     string
	RefEnd       string
	RefDays      int
}

// Aggregated is the output of the aggregation pass: per-key series plus the
// window metadata.
type Aggregated struct {
	Series  map[string]Series
	Windows Windows
}

// Aggregate groups raw samples by (day, key), averages same-day duplicates,
// and partitions each key's per-day scalars into the current 7-day window
// ending yesterday and the reference history strictly before it.
//
// Sparse-data fallbacks, per key:
//   - a current window with no samples falls back to all samples on or
//     before yesterday;
//   - a reference with fewer than 7 distinct days falls back to all samples
//     on or before yesterday, in which case reference and current may
//     overlap. Degraded, but better than flagging against nothing.
func Aggregate(samples []defs.RawSample, now time.Time) *Aggregated {
	currentStart := now.AddDate(0, 0, -currentWindowDays).Format(defs.DayFormat)
	currentEnd := now.AddDate(0, 0, -1).Format(defs.DayFormat)

	// key -> day -> accumulated values
	byKeyDay := make(map[string]map[string][]float64)
	for _, s := range samples {
		if s.Day == "" || s.Day > currentEnd {
			continue
		}
		v, err := strconv.ParseFloat(s.Value, 64)
		if err != nil {
			continue
		}
		days, ok := byKeyDay[s.MetricKey]
		if !ok {
			days = make(map[string][]float64)
			byKeyDay[s.MetricKey] = days
		}
		days[s.Day] = append(days[s.Day], v)
	}

	agg := &Aggregated{Series: make(map[string]Series, len(byKeyDay))}

	for key, days := range byKeyDay {
		sorted := make([]string, 0, len(days))
		for day := range days {
			sorted = append(sorted, day)
		}
		sort.Strings(sorted)

		var current, reference []float64
		refDays := 0
		for _, day := range sorted {
			avg := stats.Mean(days[day])
			if day >= currentStart {
				current = append(current, avg)
			} else {
				reference = append(reference, avg)
				refDays++
			}
		}

		all := func() []float64 {
			vals := make([]float64, 0, len(sorted))
			for _, day := range sorted {
				vals = append(vals, stats.Mean(days[day]))
			}
			return vals
		}

		if len(current) == 0 {
			current = all()
		}
		// A thin reference (under 7 distinct days) widens to the full
		// history, overlapping the current window in this degraded mode.
		// No reference at all stays empty: there is nothing to widen with
		// that is not already the current window itself.
		if refDays > 0 && refDays < minReferenceDays {
			reference = all()
		}

		agg.Series[key] = Series{Current: current, Reference: reference}
	}

	agg.Windows = windows(byKeyDay, currentStart, currentEnd)
	return agg
}

// windows derives the literal spans for the metadata block. The reference
// span is ideally the 30 days immediately preceding the current window,
// shrunk to the history that actually exists. Day counts are the inclusive
// calendar length of the span, gaps included, matching the current window's
// count.
func windows(byKeyDay map[string]map[string][]float64, currentStart, currentEnd string) Windows {
	w := Windows{
		CurrentStart: currentStart,
		CurrentEnd:   currentEnd,
		CurrentDays:  currentWindowDays,
	}

	idealStart := mustAddDays(currentStart, -referenceWindowDays)
	refEnd := mustAddDays(currentStart, -1)

	earliest := ""
	for _, days := range byKeyDay {
		for day := range days {
			if day >= currentStart {
				continue
			}
			if earliest == "" || day < earliest {
				earliest = day
			}
		}
	}

	if earliest == "" {
		return w
	}

	refStart := idealStart
	if earliest > refStart {
		refStart = earliest
	}

	w.RefStart = refStart
	w.RefEnd = refEnd
	w.RefDays = spanDays(refStart, refEnd)
	return w
}

func mustAddDays(day string, n int) string {
	t, err := time.Parse(defs.DayFormat, day)
	if err != nil {
		return day
	}
	return t.AddDate(0, 0, n).Format(defs.DayFormat)
}

// spanDays is the inclusive calendar length of [start, end].
func spanDays(start, end string) int {
	s, err := time.Parse(defs.DayFormat, start)
	if err != nil {
		return 0
	}
	e, err := time.Parse(defs.DayFormat, end)
	if err != nil {
		return 0
	}
	return int(e.Sub(s).Hours()/24) + 1
}
