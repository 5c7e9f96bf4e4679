package oura

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"hv1/chansey/defs"
	"hv1/chansey/pkg/metrics"
)

type MapperTestSuite struct {
	suite.Suite
	mapper *Mapper
}

func TestMapperTestSuite(t *testing.T) {
	suite.Run(t, new(MapperTestSuite))
}

func (suite *MapperTestSuite) SetupSuite() {
	suite.mapper = &Mapper{Email: "test@example.com", Logger: zap.NewNop()}
}

func f(v float64) *float64 { return &v }

func find(samples []defs.RawSample, day, key string) (string, bool) {
	for _, s := range samples {
		if s.Day == day && s.MetricKey == key {
			return s.Value, true
		}
	}
	return "", false
}

func (suite *MapperTestSuite) TestMapSleepRecord() {
	cols := &Collections{Sleep: []SleepRecord{{
		Day:                "2026-08-30",
		DeepSleepDuration:  f(5400),
		RemSleepDuration:   f(6300),
		LightSleepDuration: f(16200),
		TotalSleepDuration: f(27900),
		TimeInBed:          f(30600),
		Latency:            f(600),
		AverageHeartRate:   f(58.5),
		LowestHeartRate:    f(52),
		AverageHRV:         f(44),
	}}}

	samples := suite.mapper.Map(cols)

	v, ok := find(samples, "2026-08-30", metrics.KeyDeepSleepDuration)
	assert.True(suite.T(), ok)
	assert.Equal(suite.T(), "5400", v)

	// Derived stage percentage: 5400/27900*100.
	v, ok = find(samples, "2026-08-30", metrics.KeyDeepSleepPercentage)
	assert.True(suite.T(), ok)
	assert.InDelta(suite.T(), 19.35, mustFloat(v), 0.01)

	// Derived efficiency: 27900/30600*100.
	v, ok = find(samples, "2026-08-30", metrics.KeySleepEfficiency)
	assert.True(suite.T(), ok)
	assert.InDelta(suite.T(), 91.18, mustFloat(v), 0.01)

	// Resting heart rate comes from the lowest nightly rate, in bpm.
	v, ok = find(samples, "2026-08-30", metrics.KeyRestingHeartRate)
	assert.True(suite.T(), ok)
	assert.Equal(suite.T(), "52", v)

	// Email is stamped on every sample.
	for _, s := range samples {
		assert.Equal(suite.T(), "test@example.com", s.Email)
	}
}

func (suite *MapperTestSuite) TestAliasKeysWritten() {
	cols := &Collections{Sleep: []SleepRecord{{
		Day:                "2026-08-30",
		TotalSleepDuration: f(27900),
		AverageHRV:         f(44),
	}}}

	samples := suite.mapper.Map(cols)

	for _, key := range []string{
		metrics.KeyTotalSleepDuration, "total_sleep", "sleep_duration",
		metrics.KeyAverageHRV, "hrv", "rmssd",
	} {
		_, ok := find(samples, "2026-08-30", key)
		assert.True(suite.T(), ok, "expected sample under %s", key)
	}
}

func (suite *MapperTestSuite) TestImplausibleDurationDiscarded() {
	// 17 hours of deep sleep is a unit error, not a clampable value.
	cols := &Collections{Sleep: []SleepRecord{{
		Day:               "2026-08-30",
		DeepSleepDuration: f(17 * 3600),
		RemSleepDuration:  f(-5),
	}}}

	samples := suite.mapper.Map(cols)

	_, ok := find(samples, "2026-08-30", metrics.KeyDeepSleepDuration)
	assert.False(suite.T(), ok)
	_, ok = find(samples, "2026-08-30", metrics.KeyRemSleepDuration)
	assert.False(suite.T(), ok)
}

func (suite *MapperTestSuite) TestDerivedPercentageDiscardedNotClamped() {
	// Stage exceeding total would derive >100%; the sample must vanish.
	cols := &Collections{Sleep: []SleepRecord{{
		Day:                "2026-08-30",
		DeepSleepDuration:  f(30000),
		TotalSleepDuration: f(27900),
	}}}

	samples := suite.mapper.Map(cols)

	_, ok := find(samples, "2026-08-30", metrics.KeyDeepSleepPercentage)
	assert.False(suite.T(), ok)

	// The raw duration itself is plausible and survives.
	_, ok = find(samples, "2026-08-30", metrics.KeyDeepSleepDuration)
	assert.True(suite.T(), ok)
}

func (suite *MapperTestSuite) TestZeroSleepNightHasZeroEfficiency() {
	// No sleep at all is still a measurement: efficiency derives from time
	// in bed alone.
	cols := &Collections{Sleep: []SleepRecord{{
		Day:                "2026-08-30",
		TotalSleepDuration: f(0),
		TimeInBed:          f(28800),
	}}}

	samples := suite.mapper.Map(cols)

	v, ok := find(samples, "2026-08-30", metrics.KeySleepEfficiency)
	assert.True(suite.T(), ok)
	assert.Equal(suite.T(), "0", v)

	// Stage percentages have no total to derive against.
	_, ok = find(samples, "2026-08-30", metrics.KeyDeepSleepPercentage)
	assert.False(suite.T(), ok)
}

func (suite *MapperTestSuite) TestZeroValueMapperDoesNotPanic() {
	m := &Mapper{Email: "test@example.com"}
	cols := &Collections{Sleeps: []DailySleepRecord{{
		Day:   "2026-08-30",
		Score: f(104),
	}}}

	var samples []defs.RawSample
	assert.NotPanics(suite.T(), func() { samples = m.Map(cols) })

	v, _ := find(samples, "2026-08-30", metrics.KeySleepScore)
	assert.Equal(suite.T(), "100", v)
}

func (suite *MapperTestSuite) TestScoreClamped() {
	cols := &Collections{Sleeps: []DailySleepRecord{{
		Day:   "2026-08-30",
		Score: f(104),
		Contributors: SleepContributors{
			DeepSleep: f(-3),
			RemSleep:  f(88),
		},
	}}}

	samples := suite.mapper.Map(cols)

	v, _ := find(samples, "2026-08-30", metrics.KeySleepScore)
	assert.Equal(suite.T(), "100", v)
	v, _ = find(samples, "2026-08-30", metrics.KeySleepScoreDeepSleep)
	assert.Equal(suite.T(), "0", v)
	v, _ = find(samples, "2026-08-30", metrics.KeySleepScoreRemSleep)
	assert.Equal(suite.T(), "88", v)
}

func (suite *MapperTestSuite) TestContributorScoreNamespacing() {
	cols := &Collections{Readiness: []DailyReadinessRecord{{
		Day:   "2026-08-30",
		Score: f(82),
		Contributors: ReadinessContributors{
			RestingHeartRate: f(95),
		},
	}}}

	samples := suite.mapper.Map(cols)

	// The contributor lands under its namespaced key only; the bpm metric
	// stays untouched.
	v, ok := find(samples, "2026-08-30", metrics.KeyReadinessScoreRestingHeartRate)
	assert.True(suite.T(), ok)
	assert.Equal(suite.T(), "95", v)

	_, ok = find(samples, "2026-08-30", metrics.KeyRestingHeartRate)
	assert.False(suite.T(), ok)
}

func (suite *MapperTestSuite) TestMalformedRecordSkipped() {
	cols := &Collections{
		Sleep: []SleepRecord{
			{Day: "not-a-day", TotalSleepDuration: f(27900)},
			{Day: "", TotalSleepDuration: f(27900)},
			{Day: "2026-08-30", TotalSleepDuration: f(25200)},
		},
		SpO2: []DailySpO2Record{{
			Day:                       "2026-08-30",
			SpO2Percentage:            &SpO2Percentage{Average: f(97.2)},
			BreathingDisturbanceIndex: f(3.1),
		}},
	}

	samples := suite.mapper.Map(cols)

	// Only the valid sleep record contributes.
	v, ok := find(samples, "2026-08-30", metrics.KeyTotalSleepDuration)
	assert.True(suite.T(), ok)
	assert.Equal(suite.T(), "25200", v)
	for _, s := range samples {
		assert.Equal(suite.T(), "2026-08-30", s.Day)
	}

	v, _ = find(samples, "2026-08-30", metrics.KeySpO2Percentage)
	assert.Equal(suite.T(), "97.2", v)
}

func mustFloat(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}
