package metrics

// Canonical metric keys. Every physiological concept has exactly one
// canonical key; vendor field names and historically stored variants map
// onto these through the alias table below.
//
// Contributor scores (0-100, vendor-computed) are namespaced with a
// "sleep_score_" / "readiness_score_" / "activity_score_" prefix so they can
// never be confused with a real-world unit of a similar name. A
// "readiness_score_resting_heart_rate" of 85 is a score, not 85 bpm.
const (
	// Sleep durations, seconds.
	KeyTotalSleepDuration = "total_sleep_duration"
	KeyDeepSleepDuration  = "deep_sleep_duration"
	KeyRemSleepDuration   = "rem_sleep_duration"
	KeyLightSleepDuration = "light_sleep_duration"
	KeyAwakeDuration      = "awake_duration"
	KeyTimeInBed          = "time_in_bed"
	KeySleepLatency       = "sleep_latency"

	// Sleep percentages, 0-100.
	KeyDeepSleepPercentage  = "deep_sleep_percentage"
	KeyRemSleepPercentage   = "rem_sleep_percentage"
	KeyLightSleepPercentage = "light_sleep_percentage"
	KeySleepEfficiency      = "sleep_efficiency"

	// Composite scores, 0-100.
	KeySleepScore     = "sleep_score"
	KeyReadinessScore = "readiness_score"
	KeyActivityScore  = "activity_score"

	// Sleep score contributors.
	KeySleepScoreDeepSleep   = "sleep_score_deep_sleep"
	KeySleepScoreEfficiency  = "sleep_score_efficiency"
	KeySleepScoreLatency     = "sleep_score_latency"
	KeySleepScoreRemSleep    = "sleep_score_rem_sleep"
	KeySleepScoreRestfulness = "sleep_score_restfulness"
	KeySleepScoreTiming      = "sleep_score_timing"
	KeySleepScoreTotalSleep  = "sleep_score_total_sleep"

	// Readiness score contributors.
	KeyReadinessScoreActivityBalance  = "readiness_score_activity_balance"
	KeyReadinessScoreBodyTemperature  = "readiness_score_body_temperature"
	KeyReadinessScoreHRVBalance       = "readiness_score_hrv_balance"
	KeyReadinessScorePreviousDay      = "readiness_score_previous_day_activity"
	KeyReadinessScorePreviousNight    = "readiness_score_previous_night"
	KeyReadinessScoreRecoveryIndex    = "readiness_score_recovery_index"
	KeyReadinessScoreRestingHeartRate = "readiness_score_resting_heart_rate"
	KeyReadinessScoreSleepBalance     = "readiness_score_sleep_balance"

	// Activity score contributors.
	KeyActivityScoreMeetDailyTargets  = "activity_score_meet_daily_targets"
	KeyActivityScoreMoveEveryHour     = "activity_score_move_every_hour"
	KeyActivityScoreRecoveryTime      = "activity_score_recovery_time"
	KeyActivityScoreStayActive        = "activity_score_stay_active"
	KeyActivityScoreTrainingFrequency = "activity_score_training_frequency"
	KeyActivityScoreTrainingVolume    = "activity_score_training_volume"

	// Direct physiological values.
	KeyRestingHeartRate          = "resting_heart_rate"          // bpm
	KeyAverageHeartRate          = "average_heart_rate"          // bpm
	KeyAverageHRV                = "average_hrv"                 // ms
	KeySpO2Percentage            = "spo2_percentage"             // 0-100
	KeyBreathingDisturbanceIndex = "breathing_disturbance_index" // index
	KeyTemperatureDeviation      = "temperature_deviation"       // °C
	KeyAverageBreathingRate      = "average_breathing_rate"      // breaths/min

	// Activity.
	KeySteps              = "steps"
	KeyActiveCalories     = "active_calories"  // kcal
	KeyTotalCalories      = "total_calories"   // kcal
	KeyWalkingDistance    = "walking_distance" // meters
	KeyHighActivityTime   = "high_activity_time"
	KeyMediumActivityTime = "medium_activity_time"
	KeyLowActivityTime    = "low_activity_time"
	KeySedentaryTime      = "sedentary_time"

	// Stress, seconds.
	KeyStressHighDuration   = "stress_high_duration"
	KeyRecoveryHighDuration = "recovery_high_duration"
)

// Aliases maps a canonical key to the legacy keys it is also written under.
// Earlier deployments stored some concepts under these names; writing both
// keeps previously stored data and fresh data mergeable. The report-side
// deduplicator later collapses the variants back to one row.
var Aliases = map[string][]string{
	KeyTotalSleepDuration: {"total_sleep", "sleep_duration"},
	KeyDeepSleepDuration:  {"deep_sleep"},
	KeyRemSleepDuration:   {"rem_sleep"},
	KeyLightSleepDuration: {"light_sleep"},
	KeySleepEfficiency:    {"efficiency"},
	KeyRestingHeartRate:   {"lowest_heart_rate"},
	KeyAverageHRV:         {"hrv", "rmssd"},
	KeySpO2Percentage:     {"spo2_average"},
	KeySteps:              {"daily_steps"},
	KeyActiveCalories:     {"cal_active"},
	KeyTotalCalories:      {"cal_total"},
	KeyWalkingDistance:    {"equivalent_walking_distance"},
}

// canonicalByAlias is the inverted alias table, built once.
var canonicalByAlias = func() map[string]string {
	m := make(map[string]string)
	for canonical, aliases := range Aliases {
		for _, a := range aliases {
			m[a] = canonical
		}
	}
	return m
}()

// Canonical resolves a stored key to its canonical form. Keys that are
// already canonical, or unknown entirely, pass through unchanged.
func Canonical(key string) string {
	if c, ok := canonicalByAlias[key]; ok {
		return c
	}
	return key
}
