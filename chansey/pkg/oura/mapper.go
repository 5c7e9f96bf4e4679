package oura

import (
	"strconv"
	"time"

	"go.uber.org/zap"

	"hv1/chansey/defs"
	"hv1/chansey/pkg/metrics"
)

const (
	// Sleep-stage durations above this are unit or parsing errors upstream
	// and get discarded outright, never clamped.
	sleepDurationCeiling = 16 * 3600.0

	// Daily totals (sedentary time etc.) can legitimately run most of a day.
	dayDurationCeiling = 24 * 3600.0
)

// Mapper turns vendor collections into canonical RawSample triples. It never
// fails on a malformed record; bad records are skipped, implausible values
// are logged and dropped, and whatever remains is returned.
type Mapper struct {
	Email  string
	Logger *zap.Logger
}

func (m *Mapper) Map(cols *Collections) []defs.RawSample {
	var out []defs.RawSample
	if cols == nil {
		return out
	}

	for _, r := range cols.Sleep {
		out = m.mapSleep(out, r)
	}
	for _, r := range cols.Sleeps {
		out = m.mapDailySleep(out, r)
	}
	for _, r := range cols.Activity {
		out = m.mapDailyActivity(out, r)
	}
	for _, r := range cols.Readiness {
		out = m.mapDailyReadiness(out, r)
	}
	for _, r := range cols.Stress {
		out = m.mapDailyStress(out, r)
	}
	for _, r := range cols.SpO2 {
		out = m.mapDailySpO2(out, r)
	}

	return out
}

func (m *Mapper) mapSleep(out []defs.RawSample, r SleepRecord) []defs.RawSample {
	if !validDay(r.Day) {
		return out
	}

	out = m.duration(out, r.Day, metrics.KeyDeepSleepDuration, r.DeepSleepDuration, sleepDurationCeiling)
	out = m.duration(out, r.Day, metrics.KeyRemSleepDuration, r.RemSleepDuration, sleepDurationCeiling)
	out = m.duration(out, r.Day, metrics.KeyLightSleepDuration, r.LightSleepDuration, sleepDurationCeiling)
	out = m.duration(out, r.Day, metrics.KeyTotalSleepDuration, r.TotalSleepDuration, sleepDurationCeiling)
	out = m.duration(out, r.Day, metrics.KeyAwakeDuration, r.AwakeTime, sleepDurationCeiling)
	out = m.duration(out, r.Day, metrics.KeyTimeInBed, r.TimeInBed, dayDurationCeiling)
	out = m.duration(out, r.Day, metrics.KeySleepLatency, r.Latency, sleepDurationCeiling)

	// Stage percentages are derived, never vendor-supplied. They only exist
	// when the total is plausible and positive, and a derived value outside
	// [0,100] is discarded rather than clamped.
	if plausibleDuration(r.TotalSleepDuration, sleepDurationCeiling) && *r.TotalSleepDuration > 0 {
		total := *r.TotalSleepDuration
		out = m.stagePercentage(out, r.Day, metrics.KeyDeepSleepPercentage, r.DeepSleepDuration, total)
		out = m.stagePercentage(out, r.Day, metrics.KeyRemSleepPercentage, r.RemSleepDuration, total)
		out = m.stagePercentage(out, r.Day, metrics.KeyLightSleepPercentage, r.LightSleepDuration, total)
	}

	// Efficiency only needs time in bed; a zero-sleep night is a valid 0%.
	if plausibleDuration(r.TimeInBed, dayDurationCeiling) && *r.TimeInBed > 0 {
		out = m.stagePercentage(out, r.Day, metrics.KeySleepEfficiency, r.TotalSleepDuration, *r.TimeInBed)
	}

	out = m.direct(out, r.Day, metrics.KeyAverageHeartRate, r.AverageHeartRate)
	out = m.direct(out, r.Day, metrics.KeyRestingHeartRate, r.LowestHeartRate)
	out = m.direct(out, r.Day, metrics.KeyAverageHRV, r.AverageHRV)
	out = m.direct(out, r.Day, metrics.KeyAverageBreathingRate, r.AverageBreath)

	return out
}

func (m *Mapper) mapDailySleep(out []defs.RawSample, r DailySleepRecord) []defs.RawSample {
	if !validDay(r.Day) {
		return out
	}

	out = m.score(out, r.Day, metrics.KeySleepScore, r.Score)
	out = m.score(out, r.Day, metrics.KeySleepScoreDeepSleep, r.Contributors.DeepSleep)
	out = m.score(out, r.Day, metrics.KeySleepScoreEfficiency, r.Contributors.Efficiency)
	out = m.score(out, r.Day, metrics.KeySleepScoreLatency, r.Contributors.Latency)
	out = m.score(out, r.Day, metrics.KeySleepScoreRemSleep, r.Contributors.RemSleep)
	out = m.score(out, r.Day, metrics.KeySleepScoreRestfulness, r.Contributors.Restfulness)
	out = m.score(out, r.Day, metrics.KeySleepScoreTiming, r.Contributors.Timing)
	out = m.score(out, r.Day, metrics.KeySleepScoreTotalSleep, r.Contributors.TotalSleep)

	return out
}

func (m *Mapper) mapDailyActivity(out []defs.RawSample, r DailyActivityRecord) []defs.RawSample {
	if !validDay(r.Day) {
		return out
	}

	out = m.score(out, r.Day, metrics.KeyActivityScore, r.Score)
	out = m.score(out, r.Day, metrics.KeyActivityScoreMeetDailyTargets, r.Contributors.MeetDailyTargets)
	out = m.score(out, r.Day, metrics.KeyActivityScoreMoveEveryHour, r.Contributors.MoveEveryHour)
	out = m.score(out, r.Day, metrics.KeyActivityScoreRecoveryTime, r.Contributors.RecoveryTime)
	out = m.score(out, r.Day, metrics.KeyActivityScoreStayActive, r.Contributors.StayActive)
	out = m.score(out, r.Day, metrics.KeyActivityScoreTrainingFrequency, r.Contributors.TrainingFrequency)
	out = m.score(out, r.Day, metrics.KeyActivityScoreTrainingVolume, r.Contributors.TrainingVolume)

	out = m.direct(out, r.Day, metrics.KeySteps, r.Steps)
	out = m.direct(out, r.Day, metrics.KeyActiveCalories, r.ActiveCalories)
	out = m.direct(out, r.Day, metrics.KeyTotalCalories, r.TotalCalories)
	out = m.direct(out, r.Day, metrics.KeyWalkingDistance, r.EquivalentWalkingDistance)

	out = m.duration(out, r.Day, metrics.KeyHighActivityTime, r.HighActivityTime, dayDurationCeiling)
	out = m.duration(out, r.Day, metrics.KeyMediumActivityTime, r.MediumActivityTime, dayDurationCeiling)
	out = m.duration(out, r.Day, metrics.KeyLowActivityTime, r.LowActivityTime, dayDurationCeiling)
	out = m.duration(out, r.Day, metrics.KeySedentaryTime, r.SedentaryTime, dayDurationCeiling)

	return out
}

func (m *Mapper) mapDailyReadiness(out []defs.RawSample, r DailyReadinessRecord) []defs.RawSample {
	if !validDay(r.Day) {
		return out
	}

	out = m.score(out, r.Day, metrics.KeyReadinessScore, r.Score)
	out = m.score(out, r.Day, metrics.KeyReadinessScoreActivityBalance, r.Contributors.ActivityBalance)
	out = m.score(out, r.Day, metrics.KeyReadinessScoreBodyTemperature, r.Contributors.BodyTemperature)
	out = m.score(out, r.Day, metrics.KeyReadinessScoreHRVBalance, r.Contributors.HRVBalance)
	out = m.score(out, r.Day, metrics.KeyReadinessScorePreviousDay, r.Contributors.PreviousDayActivity)
	out = m.score(out, r.Day, metrics.KeyReadinessScorePreviousNight, r.Contributors.PreviousNight)
	out = m.score(out, r.Day, metrics.KeyReadinessScoreRecoveryIndex, r.Contributors.RecoveryIndex)
	// The resting heart rate contributor is a 0-100 score and must stay
	// namespaced away from the bpm metric of the same textual name.
	out = m.score(out, r.Day, metrics.KeyReadinessScoreRestingHeartRate, r.Contributors.RestingHeartRate)
	out = m.score(out, r.Day, metrics.KeyReadinessScoreSleepBalance, r.Contributors.SleepBalance)

	out = m.direct(out, r.Day, metrics.KeyTemperatureDeviation, r.TemperatureDeviation)

	return out
}

func (m *Mapper) mapDailyStress(out []defs.RawSample, r DailyStressRecord) []defs.RawSample {
	if !validDay(r.Day) {
		return out
	}

	out = m.duration(out, r.Day, metrics.KeyStressHighDuration, r.StressHigh, dayDurationCeiling)
	out = m.duration(out, r.Day, metrics.KeyRecoveryHighDuration, r.RecoveryHigh, dayDurationCeiling)

	return out
}

func (m *Mapper) mapDailySpO2(out []defs.RawSample, r DailySpO2Record) []defs.RawSample {
	if !validDay(r.Day) {
		return out
	}

	if r.SpO2Percentage != nil {
		out = m.percentage(out, r.Day, metrics.KeySpO2Percentage, r.SpO2Percentage.Average)
	}
	out = m.direct(out, r.Day, metrics.KeyBreathingDisturbanceIndex, r.BreathingDisturbanceIndex)

	return out
}

// add appends one sample under the canonical key and every legacy alias.
func (m *Mapper) add(out []defs.RawSample, day, key string, v float64) []defs.RawSample {
	value := strconv.FormatFloat(v, 'f', -1, 64)
	out = append(out, defs.RawSample{Email: m.Email, Day: day, MetricKey: key, Value: value})
	for _, alias := range metrics.Aliases[key] {
		out = append(out, defs.RawSample{Email: m.Email, Day: day, MetricKey: alias, Value: value})
	}
	return out
}

// score stores a 0-100 composite or contributor score. Out-of-range values
// are clamped, not rejected; the vendor occasionally emits 101s.
func (m *Mapper) score(out []defs.RawSample, day, key string, v *float64) []defs.RawSample {
	if v == nil {
		return out
	}
	s := *v
	if s < 0 || s > 100 {
		m.logger().Warn("clamping out-of-range score",
			zap.String("key", key),
			zap.String("day", day),
			zap.Float64("value", s),
		)
		if s < 0 {
			s = 0
		} else {
			s = 100
		}
	}
	return m.add(out, day, key, s)
}

// duration stores seconds, discarding values above the plausibility ceiling.
func (m *Mapper) duration(out []defs.RawSample, day, key string, v *float64, ceiling float64) []defs.RawSample {
	if v == nil {
		return out
	}
	if *v < 0 || *v > ceiling {
		m.logger().Debug("discarding implausible duration",
			zap.String("key", key),
			zap.String("day", day),
			zap.Float64("seconds", *v),
		)
		return out
	}
	return m.add(out, day, key, *v)
}

// stagePercentage derives part/total*100, discarding results outside [0,100].
func (m *Mapper) stagePercentage(out []defs.RawSample, day, key string, part *float64, total float64) []defs.RawSample {
	if part == nil || total <= 0 {
		return out
	}
	pct := *part / total * 100
	if pct < 0 || pct > 100 {
		m.logger().Debug("discarding derived percentage outside [0,100]",
			zap.String("key", key),
			zap.String("day", day),
			zap.Float64("percentage", pct),
		)
		return out
	}
	return m.add(out, day, key, pct)
}

// percentage stores a vendor-supplied percentage, discarding out-of-range.
func (m *Mapper) percentage(out []defs.RawSample, day, key string, v *float64) []defs.RawSample {
	if v == nil {
		return out
	}
	if *v < 0 || *v > 100 {
		m.logger().Debug("discarding percentage outside [0,100]",
			zap.String("key", key),
			zap.String("day", day),
			zap.Float64("percentage", *v),
		)
		return out
	}
	return m.add(out, day, key, *v)
}

func (m *Mapper) direct(out []defs.RawSample, day, key string, v *float64) []defs.RawSample {
	if v == nil {
		return out
	}
	return m.add(out, day, key, *v)
}

func (m *Mapper) logger() *zap.Logger {
	if m.Logger == nil {
		return zap.NewNop()
	}
	return m.Logger
}

func validDay(day string) bool {
	if day == "" {
		return false
	}
	_, err := time.Parse(defs.DayFormat, day)
	return err == nil
}

func plausibleDuration(v *float64, ceiling float64) bool {
	return v != nil && *v >= 0 && *v <= ceiling
}
