package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"hv1/chansey/defs"
	"hv1/chansey/pkg/metrics"
)

type ReportTestSuite struct {
	suite.Suite
	gen Generator
	now time.Time
}

func TestReportTestSuite(t *testing.T) {
	suite.Run(t, new(ReportTestSuite))
}

func (suite *ReportTestSuite) SetupSuite() {
	suite.gen = Generator{Age: 35, Gender: metrics.GenderMale}
	suite.now = time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
}

// currentDays spreads one value across the full 7-day current window.
func (suite *ReportTestSuite) currentDays(key, value string) []defs.RawSample {
	var out []defs.RawSample
	for i := 1; i <= 7; i++ {
		out = append(out, sample(day(suite.now, -i), key, value))
	}
	return out
}

func (suite *ReportTestSuite) referenceDays(key string, values ...string) []defs.RawSample {
	var out []defs.RawSample
	for i, v := range values {
		out = append(out, sample(day(suite.now, -8-i), key, v))
	}
	return out
}

func findRow(rows []defs.DoctorSummaryRow, metric string) (defs.DoctorSummaryRow, bool) {
	for _, r := range rows {
		if r.Metric == metric {
			return r, true
		}
	}
	return defs.DoctorSummaryRow{}, false
}

func findMetric(ms []defs.ReportMetric, metric string) (defs.ReportMetric, bool) {
	for _, m := range ms {
		if m.Metric == metric {
			return m, true
		}
	}
	return defs.ReportMetric{}, false
}

func (suite *ReportTestSuite) TestNoReferenceRendersPlaceholder() {
	samples := suite.currentDays(metrics.KeyRestingHeartRate, "62")

	ms := suite.gen.Metrics(samples, suite.now)
	m, ok := findMetric(ms, "Resting Heart Rate")
	assert.True(suite.T(), ok)
	assert.Equal(suite.T(), "62 bpm", m.Result)
	assert.Equal(suite.T(), defs.Placeholder, m.Reference)
	assert.Equal(suite.T(), defs.FlagNormal, m.Flag)
	assert.Equal(suite.T(), "60 – 100 bpm", m.ClinicalRange)

	rep := suite.gen.Generate("test@example.com", samples, suite.now)
	r, ok := findRow(rep.Summary.CardiovascularTable, "Resting Heart Rate")
	assert.True(suite.T(), ok)
	assert.Equal(suite.T(), "62 bpm", r.Value)
	assert.Equal(suite.T(), defs.Placeholder, r.ReferenceRange)
	assert.Equal(suite.T(), "", r.Flag, "no reference means no visible flag")
}

func (suite *ReportTestSuite) TestElevatedHeartRateFlagsBothPaths() {
	samples := suite.referenceDays(metrics.KeyRestingHeartRate,
		"60", "62", "64", "66", "68", "70", "72")
	samples = append(samples, suite.currentDays(metrics.KeyRestingHeartRate, "95")...)

	ms := suite.gen.Metrics(samples, suite.now)
	m, ok := findMetric(ms, "Resting Heart Rate")
	assert.True(suite.T(), ok)
	assert.Equal(suite.T(), "95 bpm", m.Result)
	assert.Equal(suite.T(), "62 – 70 bpm", m.Reference)
	assert.Equal(suite.T(), defs.FlagHigh, m.Flag)

	rep := suite.gen.Generate("test@example.com", samples, suite.now)
	r, ok := findRow(rep.Summary.CardiovascularTable, "Resting Heart Rate")
	assert.True(suite.T(), ok)
	assert.Equal(suite.T(), defs.AboveRange, r.Flag)
	assert.Equal(suite.T(), 1, rep.TotalFlagged)
	assert.Equal(suite.T(), map[string]int{"Cardiovascular": 1}, rep.FlaggedByCategory)
}

func (suite *ReportTestSuite) TestSleepStageMerge() {
	samples := suite.referenceDays(metrics.KeyDeepSleepPercentage,
		"12", "12", "12", "12", "18", "18", "18", "18")
	samples = append(samples, suite.currentDays(metrics.KeyDeepSleepPercentage, "10.5")...)
	samples = append(samples, suite.currentDays(metrics.KeyDeepSleepDuration, "3120")...)

	rep := suite.gen.Generate("test@example.com", samples, suite.now)

	r, ok := findRow(rep.Summary.SleepTable, "Deep Sleep")
	assert.True(suite.T(), ok)
	assert.Equal(suite.T(), "10.5% (52m)", r.Value)
	assert.Equal(suite.T(), "12.0% – 18.0%", r.ReferenceRange)
	assert.Equal(suite.T(), defs.BelowRange, r.Flag, "the merged flag follows the percentage")

	// The duration must not surface as its own row once merged.
	_, ok = findRow(rep.Summary.SleepTable, "Deep Sleep Duration")
	assert.False(suite.T(), ok)
}

func (suite *ReportTestSuite) TestUnmergedStagePassesThrough() {
	// A duration with no percentage counterpart stays its own row.
	samples := suite.currentDays(metrics.KeyDeepSleepDuration, "3120")

	rep := suite.gen.Generate("test@example.com", samples, suite.now)

	r, ok := findRow(rep.Summary.SleepTable, "Deep Sleep Duration")
	assert.True(suite.T(), ok)
	assert.Equal(suite.T(), "52 min", r.Value)
}

func (suite *ReportTestSuite) TestTimeInBedNeverFlags() {
	samples := suite.referenceDays(metrics.KeyTimeInBed,
		"28800", "28800", "28800", "28800", "28800", "28800", "28800")
	samples = append(samples, suite.currentDays(metrics.KeyTimeInBed, "36000")...)

	ms := suite.gen.Metrics(samples, suite.now)
	m, ok := findMetric(ms, "Time in Bed")
	assert.True(suite.T(), ok)
	assert.Equal(suite.T(), defs.FlagHigh, m.Flag, "the four-way flag still computes")

	rep := suite.gen.Generate("test@example.com", samples, suite.now)
	r, ok := findRow(rep.Summary.SleepTable, "Time in Bed")
	assert.True(suite.T(), ok)
	assert.Equal(suite.T(), "10h 0m", r.Value)
	assert.Equal(suite.T(), "", r.Flag, "not flag-eligible in the visible table")
	assert.Equal(suite.T(), 0, rep.TotalFlagged)
}

func (suite *ReportTestSuite) TestZeroRangeSuppression() {
	base := suite.referenceDays(metrics.KeyHighActivityTime,
		"0", "0", "0", "0", "0", "0", "0")

	samples := append([]defs.RawSample{}, base...)
	samples = append(samples, suite.currentDays(metrics.KeyHighActivityTime, "0")...)
	rep := suite.gen.Generate("test@example.com", samples, suite.now)
	_, ok := findRow(rep.Summary.ActivityTable, "High Activity Time")
	assert.False(suite.T(), ok, "all-zero metric should be suppressed")

	samples = append([]defs.RawSample{}, base...)
	samples = append(samples, suite.currentDays(metrics.KeyHighActivityTime, "300")...)
	rep = suite.gen.Generate("test@example.com", samples, suite.now)
	r, ok := findRow(rep.Summary.ActivityTable, "High Activity Time")
	assert.True(suite.T(), ok, "nonzero current keeps the row")
	assert.Equal(suite.T(), "5 min", r.Value)
}

func (suite *ReportTestSuite) TestAliasCollapsesToCanonicalRow() {
	samples := suite.referenceDays(metrics.KeyAverageHRV,
		"40", "41", "42", "43", "44", "45", "46")
	samples = append(samples, suite.currentDays(metrics.KeyAverageHRV, "45")...)
	samples = append(samples, suite.currentDays("hrv", "45")...)

	rep := suite.gen.Generate("test@example.com", samples, suite.now)

	count := 0
	for _, r := range rep.Summary.CardiovascularTable {
		if strings.Contains(r.Metric, "Heart Rate Variability") {
			count++
		}
	}
	assert.Equal(suite.T(), 1, count, "alias and canonical must collapse to one row")

	r, ok := findRow(rep.Summary.CardiovascularTable, "Heart Rate Variability")
	assert.True(suite.T(), ok)
	assert.Equal(suite.T(), "45 ms", r.Value)
}

func (suite *ReportTestSuite) TestDedupePrecedence() {
	placeholder := Computed{
		Key: "hrv",
		ReportMetric: defs.ReportMetric{
			Metric: "Heart Rate Variability (HRV)", Result: defs.Placeholder,
		},
	}
	measured := Computed{
		Key: metrics.KeyAverageHRV,
		ReportMetric: defs.ReportMetric{
			Metric: "Heart Rate Variability", Result: "45 ms",
		},
	}

	out := Dedupe([]Computed{placeholder, measured})
	assert.Len(suite.T(), out, 1)
	assert.Equal(suite.T(), "45 ms", out[0].Result, "real result beats placeholder")

	bare := Computed{
		Key: "readiness_score_resting_heart_rate",
		ReportMetric: defs.ReportMetric{
			Metric: "Resting Heart Rate (Score)", Result: "85",
		},
	}
	unit := Computed{
		Key: metrics.KeyRestingHeartRate,
		ReportMetric: defs.ReportMetric{
			Metric: "Resting Heart Rate", Result: "62 bpm",
		},
	}

	out = Dedupe([]Computed{bare, unit})
	assert.Len(suite.T(), out, 1)
	assert.Equal(suite.T(), "62 bpm", out[0].Result, "unit token beats bare number")
}

func (suite *ReportTestSuite) TestSleepTableOrdering() {
	samples := suite.currentDays(metrics.KeyTotalSleepDuration, "27000")
	samples = append(samples, suite.currentDays(metrics.KeyTimeInBed, "30000")...)
	samples = append(samples, suite.currentDays(metrics.KeyDeepSleepDuration, "4000")...)
	samples = append(samples, suite.currentDays(metrics.KeySleepEfficiency, "90")...)

	rep := suite.gen.Generate("test@example.com", samples, suite.now)

	var names []string
	for _, r := range rep.Summary.SleepTable {
		names = append(names, r.Metric)
	}
	assert.Equal(suite.T(), []string{
		"Deep Sleep Duration",
		"Total Sleep Duration",
		"Sleep Efficiency",
		"Time in Bed",
	}, names)
}

func (suite *ReportTestSuite) TestGenerateIsIdempotent() {
	samples := suite.referenceDays(metrics.KeyRestingHeartRate,
		"60", "62", "64", "66", "68", "70", "72")
	samples = append(samples, suite.currentDays(metrics.KeyRestingHeartRate, "95")...)
	samples = append(samples, suite.currentDays(metrics.KeyTotalSleepDuration, "27000")...)

	first := suite.gen.Generate("test@example.com", samples, suite.now)
	second := suite.gen.Generate("test@example.com", samples, suite.now)
	assert.Equal(suite.T(), first, second)
}

func (suite *ReportTestSuite) TestMetadataSpans() {
	samples := suite.currentDays(metrics.KeyRestingHeartRate, "62")
	samples = append(samples, suite.referenceDays(metrics.KeyRestingHeartRate,
		"60", "61", "62", "63", "64", "65", "66")...)

	rep := suite.gen.Generate("test@example.com", samples, suite.now)

	assert.Equal(suite.T(), "test@example.com", rep.Metadata.PatientEmail)
	assert.Equal(suite.T(), "2026-08-31", rep.Metadata.ReportDate)
	assert.Equal(suite.T(), "2026-08-24", rep.Metadata.DataPeriod.Start)
	assert.Equal(suite.T(), "2026-08-30", rep.Metadata.DataPeriod.End)
	assert.Equal(suite.T(), 7, rep.Metadata.DataPeriod.Days)
	assert.Equal(suite.T(), "2026-08-17", rep.Metadata.ReferenceRange.Start)
	assert.Equal(suite.T(), "2026-08-23", rep.Metadata.ReferenceRange.End)
	assert.Equal(suite.T(), 7, rep.Metadata.ReferenceRange.Days)
}

func (suite *ReportTestSuite) TestSleepDebtAccumulates() {
	// 7h 51m 25s a night for a week lands just over an hour of debt.
	samples := suite.currentDays(metrics.KeyTotalSleepDuration, "28285")

	rep := suite.gen.Generate("test@example.com", samples, suite.now)

	assert.InDelta(suite.T(), 1.0, rep.SleepDebt.Hours, 0.005)
	assert.Equal(suite.T(), TargetSleepHours, rep.SleepDebt.Target)
	assert.True(suite.T(), rep.SleepDebt.Flagged)
}

func (suite *ReportTestSuite) TestSleepSurplusIsNotCredit() {
	samples := suite.currentDays(metrics.KeyTotalSleepDuration, "30000")

	rep := suite.gen.Generate("test@example.com", samples, suite.now)

	assert.Equal(suite.T(), 0.0, rep.SleepDebt.Hours)
	assert.False(suite.T(), rep.SleepDebt.Flagged)
}

func (suite *ReportTestSuite) TestHealthScoreWeighting() {
	rows := []row{
		{category: defs.CategorySleep, value: 0.5, hasValue: true, q25: 0, q75: 1, hasRange: true},
		{
			DoctorSummaryRow: defs.DoctorSummaryRow{Flag: defs.AboveRange},
			category:         defs.CategoryCardiovascular,
			value:            2, hasValue: true, q25: 0, q75: 1, hasRange: true,
		},
		{category: defs.CategoryActivity, value: 10, hasValue: true, q25: 10, q75: 10, hasRange: true},
	}

	// sleep 0.5*0.3 + flagged cardio 0.7*0.3 + flat activity 1.0*0.4 = 0.76
	assert.InDelta(suite.T(), 76.0, HealthScore(rows), 0.001)
	assert.Equal(suite.T(), 1, CountFlagged(rows))
}

func (suite *ReportTestSuite) TestHealthScoreEmptyReport() {
	assert.Equal(suite.T(), 100.0, HealthScore(nil))

	rep := suite.gen.Generate("test@example.com", nil, suite.now)
	assert.Equal(suite.T(), 100.0, rep.HealthScore)
	assert.Equal(suite.T(), 0, rep.TotalFlagged)
}

func (suite *ReportTestSuite) TestRenderText() {
	samples := suite.referenceDays(metrics.KeyRestingHeartRate,
		"60", "62", "64", "66", "68", "70", "72")
	samples = append(samples, suite.currentDays(metrics.KeyRestingHeartRate, "95")...)
	samples = append(samples, suite.currentDays(metrics.KeyTotalSleepDuration, "28285")...)

	rep := suite.gen.Generate("test@example.com", samples, suite.now)
	text := RenderText(rep)

	assert.Contains(suite.T(), text, "WEARABLE HEALTH SUMMARY REPORT")
	assert.Contains(suite.T(), text, "Patient email: test@example.com")
	assert.Contains(suite.T(), text, "Report date: 2026-08-31")
	assert.Contains(suite.T(), text, "7 Days values: Aug 24, 2026 - Aug 30, 2026 (7 days)")
	assert.Contains(suite.T(), text, "Total flagged metrics: 1")
	assert.Contains(suite.T(), text, "  Cardiovascular: 1")
	assert.Contains(suite.T(), text, "[Above Range]")
	assert.Contains(suite.T(), text, "Total sleep debt: 1.00 hours")
	assert.Contains(suite.T(), text, "Status: FLAGGED")
	assert.Contains(suite.T(), text, "Overall Health Score:")
}
