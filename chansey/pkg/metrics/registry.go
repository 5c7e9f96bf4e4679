package metrics

import (
	"fmt"
	"strings"
)

// Kind selects how a metric's scalar renders for display.
type Kind int

const (
	KindNumber Kind = iota
	KindDuration
	KindPercent
	KindScore
	KindBPM
	KindMs
	KindSteps
	KindCalories
	KindDistance
	KindTemperature
	KindIndex
	KindBreathRate
)

// Definition describes how one canonical metric is presented.
type Definition struct {
	Key         string
	DisplayName string
	Kind        Kind
}

// FormatValue renders a scalar in the metric's display form.
func (d Definition) FormatValue(v float64) string {
	switch d.Kind {
	case KindDuration:
		return FormatDuration(v)
	case KindPercent:
		return FormatPercent(v)
	case KindScore:
		return fmt.Sprintf("%.0f", v)
	case KindBPM:
		return fmt.Sprintf("%.0f bpm", v)
	case KindMs:
		return fmt.Sprintf("%.0f ms", v)
	case KindSteps:
		return fmt.Sprintf("%.0f steps", v)
	case KindCalories:
		return fmt.Sprintf("%.0f kcal", v)
	case KindDistance:
		return fmt.Sprintf("%.1f km", v/1000)
	case KindTemperature:
		return fmt.Sprintf("%+.2f °C", v)
	case KindIndex:
		return fmt.Sprintf("%.1f", v)
	case KindBreathRate:
		return fmt.Sprintf("%.1f br/min", v)
	default:
		return fmt.Sprintf("%.1f", v)
	}
}

// FormatRange renders a (p25, p75) pair in the metric's display form.
// Unit-suffixed kinds print the unit once; duration ranges format each end
// in full.
func (d Definition) FormatRange(lo, hi float64) string {
	switch d.Kind {
	case KindDuration:
		return FormatDuration(lo) + " – " + FormatDuration(hi)
	case KindPercent:
		return FormatPercent(lo) + " – " + FormatPercent(hi)
	case KindBPM:
		return fmt.Sprintf("%.0f – %.0f bpm", lo, hi)
	case KindMs:
		return fmt.Sprintf("%.0f – %.0f ms", lo, hi)
	case KindSteps:
		return fmt.Sprintf("%.0f – %.0f steps", lo, hi)
	case KindCalories:
		return fmt.Sprintf("%.0f – %.0f kcal", lo, hi)
	case KindDistance:
		return fmt.Sprintf("%.1f – %.1f km", lo/1000, hi/1000)
	case KindTemperature:
		return fmt.Sprintf("%+.2f – %+.2f °C", lo, hi)
	default:
		return d.FormatValue(lo) + " – " + d.FormatValue(hi)
	}
}

var registry = map[string]Definition{
	KeyTotalSleepDuration: {KeyTotalSleepDuration, "Total Sleep Duration", KindDuration},
	KeyDeepSleepDuration:  {KeyDeepSleepDuration, "Deep Sleep Duration", KindDuration},
	KeyRemSleepDuration:   {KeyRemSleepDuration, "REM Sleep Duration", KindDuration},
	KeyLightSleepDuration: {KeyLightSleepDuration, "Light Sleep Duration", KindDuration},
	KeyAwakeDuration:      {KeyAwakeDuration, "Awake Time", KindDuration},
	KeyTimeInBed:          {KeyTimeInBed, "Time in Bed", KindDuration},
	KeySleepLatency:       {KeySleepLatency, "Sleep Latency", KindDuration},

	KeyDeepSleepPercentage:  {KeyDeepSleepPercentage, "Deep Sleep %", KindPercent},
	KeyRemSleepPercentage:   {KeyRemSleepPercentage, "REM Sleep %", KindPercent},
	KeyLightSleepPercentage: {KeyLightSleepPercentage, "Light Sleep %", KindPercent},
	KeySleepEfficiency:      {KeySleepEfficiency, "Sleep Efficiency", KindPercent},

	KeySleepScore:     {KeySleepScore, "Sleep Score", KindScore},
	KeyReadinessScore: {KeyReadinessScore, "Readiness Score", KindScore},
	KeyActivityScore:  {KeyActivityScore, "Activity Score", KindScore},

	KeySleepScoreDeepSleep:   {KeySleepScoreDeepSleep, "Deep Sleep (Score)", KindScore},
	KeySleepScoreEfficiency:  {KeySleepScoreEfficiency, "Efficiency (Score)", KindScore},
	KeySleepScoreLatency:     {KeySleepScoreLatency, "Latency (Score)", KindScore},
	KeySleepScoreRemSleep:    {KeySleepScoreRemSleep, "REM Sleep (Score)", KindScore},
	KeySleepScoreRestfulness: {KeySleepScoreRestfulness, "Restfulness (Score)", KindScore},
	KeySleepScoreTiming:      {KeySleepScoreTiming, "Timing (Score)", KindScore},
	KeySleepScoreTotalSleep:  {KeySleepScoreTotalSleep, "Total Sleep (Score)", KindScore},

	KeyReadinessScoreActivityBalance:  {KeyReadinessScoreActivityBalance, "Activity Balance (Score)", KindScore},
	KeyReadinessScoreBodyTemperature:  {KeyReadinessScoreBodyTemperature, "Body Temperature (Score)", KindScore},
	KeyReadinessScoreHRVBalance:       {KeyReadinessScoreHRVBalance, "HRV Balance (Score)", KindScore},
	KeyReadinessScorePreviousDay:      {KeyReadinessScorePreviousDay, "Previous Day Activity (Score)", KindScore},
	KeyReadinessScorePreviousNight:    {KeyReadinessScorePreviousNight, "Previous Night (Score)", KindScore},
	KeyReadinessScoreRecoveryIndex:    {KeyReadinessScoreRecoveryIndex, "Recovery Index (Score)", KindScore},
	KeyReadinessScoreRestingHeartRate: {KeyReadinessScoreRestingHeartRate, "Resting Heart Rate (Score)", KindScore},
	KeyReadinessScoreSleepBalance:     {KeyReadinessScoreSleepBalance, "Sleep Balance (Score)", KindScore},

	KeyActivityScoreMeetDailyTargets:  {KeyActivityScoreMeetDailyTargets, "Meet Daily Targets (Score)", KindScore},
	KeyActivityScoreMoveEveryHour:     {KeyActivityScoreMoveEveryHour, "Move Every Hour (Score)", KindScore},
	KeyActivityScoreRecoveryTime:      {KeyActivityScoreRecoveryTime, "Recovery Time (Score)", KindScore},
	KeyActivityScoreStayActive:        {KeyActivityScoreStayActive, "Stay Active (Score)", KindScore},
	KeyActivityScoreTrainingFrequency: {KeyActivityScoreTrainingFrequency, "Training Frequency (Score)", KindScore},
	KeyActivityScoreTrainingVolume:    {KeyActivityScoreTrainingVolume, "Training Volume (Score)", KindScore},

	KeyRestingHeartRate:          {KeyRestingHeartRate, "Resting Heart Rate", KindBPM},
	KeyAverageHeartRate:          {KeyAverageHeartRate, "Average Heart Rate", KindBPM},
	KeyAverageHRV:                {KeyAverageHRV, "Heart Rate Variability", KindMs},
	KeySpO2Percentage:            {KeySpO2Percentage, "SpO2", KindPercent},
	KeyBreathingDisturbanceIndex: {KeyBreathingDisturbanceIndex, "Breathing Disturbance Index", KindIndex},
	KeyTemperatureDeviation:      {KeyTemperatureDeviation, "Temperature Deviation", KindTemperature},
	KeyAverageBreathingRate:      {KeyAverageBreathingRate, "Breathing Rate", KindBreathRate},

	KeySteps:              {KeySteps, "Steps", KindSteps},
	KeyActiveCalories:     {KeyActiveCalories, "Active Calories", KindCalories},
	KeyTotalCalories:      {KeyTotalCalories, "Total Calories", KindCalories},
	KeyWalkingDistance:    {KeyWalkingDistance, "Walking Distance", KindDistance},
	KeyHighActivityTime:   {KeyHighActivityTime, "High Activity Time", KindDuration},
	KeyMediumActivityTime: {KeyMediumActivityTime, "Medium Activity Time", KindDuration},
	KeyLowActivityTime:    {KeyLowActivityTime, "Low Activity Time", KindDuration},
	KeySedentaryTime:      {KeySedentaryTime, "Sedentary Time", KindDuration},

	KeyStressHighDuration:   {KeyStressHighDuration, "High Stress Time", KindDuration},
	KeyRecoveryHighDuration: {KeyRecoveryHighDuration, "Recovery Time", KindDuration},

	// Legacy alias keys keep their own display entries so historically
	// stored samples still render; dedupe folds them into the canonical row.
	"total_sleep":                 {"total_sleep", "Total Sleep", KindDuration},
	"sleep_duration":              {"sleep_duration", "Total Sleep (Duration)", KindDuration},
	"deep_sleep":                  {"deep_sleep", "Deep Sleep", KindDuration},
	"rem_sleep":                   {"rem_sleep", "REM Sleep", KindDuration},
	"light_sleep":                 {"light_sleep", "Light Sleep", KindDuration},
	"efficiency":                  {"efficiency", "Sleep Efficiency (%)", KindPercent},
	"lowest_heart_rate":           {"lowest_heart_rate", "Resting Heart Rate (Lowest)", KindBPM},
	"hrv":                         {"hrv", "Heart Rate Variability (HRV)", KindMs},
	"rmssd":                       {"rmssd", "Heart Rate Variability (rMSSD)", KindMs},
	"spo2_average":                {"spo2_average", "SpO2 (Average)", KindPercent},
	"daily_steps":                 {"daily_steps", "Steps (Daily)", KindSteps},
	"cal_active":                  {"cal_active", "Active Calories (kcal)", KindCalories},
	"cal_total":                   {"cal_total", "Total Calories (kcal)", KindCalories},
	"equivalent_walking_distance": {"equivalent_walking_distance", "Walking Distance (Equivalent)", KindDistance},
}

// Lookup returns the definition for a key. Unknown keys get a definition
// inferred from the key's own text, so a newly added vendor field renders
// reasonably before the registry learns about it.
func Lookup(key string) Definition {
	if d, ok := registry[key]; ok {
		return d
	}
	return Definition{Key: key, DisplayName: displayName(key), Kind: inferKind(key)}
}

func inferKind(key string) Kind {
	switch {
	case strings.Contains(key, "percentage") || strings.Contains(key, "efficiency") || strings.Contains(key, "spo2"):
		return KindPercent
	case strings.Contains(key, "score") || strings.Contains(key, "contrib"):
		return KindScore
	case strings.Contains(key, "duration") || strings.Contains(key, "latency") || strings.HasSuffix(key, "_time"):
		return KindDuration
	case strings.Contains(key, "temperature"):
		return KindTemperature
	case strings.Contains(key, "calorie") || strings.HasPrefix(key, "cal_"):
		return KindCalories
	case strings.Contains(key, "steps"):
		return KindSteps
	case strings.Contains(key, "distance"):
		return KindDistance
	case strings.Contains(key, "heart_rate"):
		return KindBPM
	case strings.Contains(key, "hrv") || strings.Contains(key, "rmssd"):
		return KindMs
	default:
		return KindNumber
	}
}

var acronyms = map[string]string{
	"hrv":  "HRV",
	"rem":  "REM",
	"spo2": "SpO2",
	"bpm":  "BPM",
}

func displayName(key string) string {
	parts := strings.Split(key, "_")
	for i, p := range parts {
		if p == "" {
			continue
		}
		if fixed, ok := acronyms[p]; ok {
			parts[i] = fixed
			continue
		}
		if p == "in" || p == "of" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}
