package metrics

import (
	"strings"

	"hv1/chansey/defs"
)

// Category assignment is primarily a table lookup on the canonical key.
// The phrase lists below back it up for legacy keys and anything the table
// does not know: a normalized display name is retained when it equals, or
// substring-matches in either direction, a phrase for the category.

var categoryByKey = map[string]defs.Category{
	KeyTotalSleepDuration:   defs.CategorySleep,
	KeyDeepSleepDuration:    defs.CategorySleep,
	KeyRemSleepDuration:     defs.CategorySleep,
	KeyLightSleepDuration:   defs.CategorySleep,
	KeyTimeInBed:            defs.CategorySleep,
	KeySleepLatency:         defs.CategorySleep,
	KeyDeepSleepPercentage:  defs.CategorySleep,
	KeyRemSleepPercentage:   defs.CategorySleep,
	KeyLightSleepPercentage: defs.CategorySleep,
	KeySleepEfficiency:      defs.CategorySleep,

	KeyRestingHeartRate:          defs.CategoryCardiovascular,
	KeyAverageHeartRate:          defs.CategoryCardiovascular,
	KeyAverageHRV:                defs.CategoryCardiovascular,
	KeySpO2Percentage:            defs.CategoryCardiovascular,
	KeyBreathingDisturbanceIndex: defs.CategoryCardiovascular,
	KeyAverageBreathingRate:      defs.CategoryCardiovascular,
	KeyTemperatureDeviation:      defs.CategoryCardiovascular,

	KeySteps:              defs.CategoryActivity,
	KeyActiveCalories:     defs.CategoryActivity,
	KeyTotalCalories:      defs.CategoryActivity,
	KeyWalkingDistance:    defs.CategoryActivity,
	KeyHighActivityTime:   defs.CategoryActivity,
	KeyMediumActivityTime: defs.CategoryActivity,
	KeyLowActivityTime:    defs.CategoryActivity,
	KeySedentaryTime:      defs.CategoryActivity,
}

var categoryPhrases = map[defs.Category][]string{
	defs.CategorySleep: {
		"deep sleep", "rem sleep", "light sleep", "total sleep",
		"time in bed", "sleep efficiency", "sleep latency",
	},
	defs.CategoryCardiovascular: {
		"resting heart rate", "average heart rate", "heart rate variability",
		"spo2", "breathing disturbance", "breathing rate", "temperature deviation",
	},
	defs.CategoryActivity: {
		"steps", "active calories", "total calories", "walking distance",
		"high activity", "medium activity", "low activity", "sedentary",
	},
}

func phraseMatch(normalized string, phrases []string) bool {
	for _, p := range phrases {
		if normalized == p || strings.Contains(normalized, p) || strings.Contains(p, normalized) {
			return true
		}
	}
	return false
}

// CategoryOf places a metric in its report category, or reports that it has
// none and should be dropped from the visible tables.
func CategoryOf(key, displayName string) (defs.Category, bool) {
	if c, ok := categoryByKey[Canonical(key)]; ok {
		return c, true
	}
	normalized := NormalizeName(displayName)
	for _, c := range []defs.Category{defs.CategorySleep, defs.CategoryCardiovascular, defs.CategoryActivity} {
		if phraseMatch(normalized, categoryPhrases[c]) {
			return c, true
		}
	}
	return 0, false
}

// flagEligible is the smaller allow-list of metrics permitted to carry a
// visible flag. Passive measurements like time in bed always render blank
// no matter where the value sits.
var flagEligible = map[string]bool{
	KeyTotalSleepDuration:        true,
	KeyDeepSleepDuration:         true,
	KeyRemSleepDuration:          true,
	KeyLightSleepDuration:        true,
	KeyDeepSleepPercentage:       true,
	KeyRemSleepPercentage:        true,
	KeyLightSleepPercentage:      true,
	KeySleepEfficiency:           true,
	KeyRestingHeartRate:          true,
	KeyAverageHeartRate:          true,
	KeyAverageHRV:                true,
	KeySpO2Percentage:            true,
	KeyBreathingDisturbanceIndex: true,
	KeySteps:                     true,
	KeyActiveCalories:            true,
}

var flagEligiblePhrases = []string{
	"deep sleep", "rem sleep", "light sleep", "total sleep", "sleep efficiency",
	"resting heart rate", "average heart rate", "heart rate variability",
	"spo2", "breathing disturbance", "steps", "active calories",
}

// FlagEligible reports whether a metric may carry a non-blank visible flag.
// Composite and contributor scores never do: a score deviating from its own
// baseline is not a clinical signal.
func FlagEligible(key, displayName string) bool {
	if Lookup(key).Kind == KindScore {
		return false
	}
	if flagEligible[Canonical(key)] {
		return true
	}
	if _, tabled := categoryByKey[Canonical(key)]; tabled {
		return false
	}
	return phraseMatch(NormalizeName(displayName), flagEligiblePhrases)
}

// Display orders. Rows render in these fixed orders, not input order; the
// sleep stages lead with Deep, then REM, then Light. Keys missing from a
// list sort after it alphabetically by display name.
var displayOrder = map[defs.Category][]string{
	defs.CategorySleep: {
		KeyDeepSleepPercentage, KeyDeepSleepDuration,
		KeyRemSleepPercentage, KeyRemSleepDuration,
		KeyLightSleepPercentage, KeyLightSleepDuration,
		KeyTotalSleepDuration, KeySleepEfficiency, KeySleepLatency, KeyTimeInBed,
	},
	defs.CategoryCardiovascular: {
		KeyRestingHeartRate, KeyAverageHeartRate, KeyAverageHRV,
		KeySpO2Percentage, KeyBreathingDisturbanceIndex, KeyAverageBreathingRate,
		KeyTemperatureDeviation,
	},
	defs.CategoryActivity: {
		KeySteps, KeyActiveCalories, KeyTotalCalories, KeyWalkingDistance,
		KeyHighActivityTime, KeyMediumActivityTime, KeyLowActivityTime,
		KeySedentaryTime,
	},
}

// DisplayRank returns the position of a key in its category's fixed order.
// Unlisted keys rank after every listed one.
func DisplayRank(c defs.Category, key string) int {
	for i, k := range displayOrder[c] {
		if k == Canonical(key) {
			return i
		}
	}
	return len(displayOrder[c])
}
