package report

import (
	"time"

	"go.uber.org/zap"

	"hv1/chansey/defs"
	"hv1/chansey/pkg/metrics"
)

// Generator assembles clinician reports. It holds no state between calls;
// Generate is a pure function of (samples, now) and the subject profile,
// with the logger as the only side channel.
type Generator struct {
	Logger *zap.Logger
	Age    int
	Gender metrics.Gender
}

// Generate runs the full pipeline: aggregate, compute, dedupe, categorize,
// and roll up. Identical inputs produce byte-identical reports.
func (g *Generator) Generate(email string, samples []defs.RawSample, now time.Time) *defs.Report {
	agg := Aggregate(samples, now)
	computed := ComputeMetrics(agg, g.Age, g.Gender, g.logger())
	summary, rows := BuildSummary(computed)

	rep := &defs.Report{
		Metadata: defs.ReportMetadata{
			PatientEmail: email,
			ReportDate:   now.Format(defs.DayFormat),
			DataPeriod: defs.PeriodInfo{
				Start: agg.Windows.CurrentStart,
				End:   agg.Windows.CurrentEnd,
				Days:  agg.Windows.CurrentDays,
			},
			ReferenceRange: defs.PeriodInfo{
				Start: agg.Windows.RefStart,
				End:   agg.Windows.RefEnd,
				Days:  agg.Windows.RefDays,
			},
		},
		Summary:           summary,
		SleepDebt:         ComputeSleepDebt(agg),
		HealthScore:       HealthScore(rows),
		TotalFlagged:      CountFlagged(rows),
		FlaggedByCategory: FlaggedByCategory(rows),
	}

	g.logger().Debug("generated report",
		zap.String("email", email),
		zap.String("reportDate", rep.Metadata.ReportDate),
		zap.Int("totalFlagged", rep.TotalFlagged),
	)

	return rep
}

// Metrics computes the full pre-filter metric set, the lightweight preview
// surface: every key that has samples, before categories and dedupe prune it.
func (g *Generator) Metrics(samples []defs.RawSample, now time.Time) []defs.ReportMetric {
	agg := Aggregate(samples, now)
	computed := ComputeMetrics(agg, g.Age, g.Gender, g.logger())

	out := make([]defs.ReportMetric, len(computed))
	for i, c := range computed {
		out[i] = c.ReportMetric
	}
	return out
}

func (g *Generator) logger() *zap.Logger {
	if g.Logger == nil {
		return zap.NewNop()
	}
	return g.Logger
}
