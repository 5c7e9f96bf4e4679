package metrics

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"hv1/chansey/defs"
)

// FormatDuration renders seconds for display. Under an hour the value shows
// as whole minutes, above it as hours and minutes.
func FormatDuration(sec float64) string {
	if sec < 3600 {
		return fmt.Sprintf("%d min", int(math.Round(sec/60)))
	}
	h := int(sec) / 3600
	m := int(math.Round(math.Mod(sec, 3600) / 60))
	if m == 60 {
		h++
		m = 0
	}
	return fmt.Sprintf("%dh %dm", h, m)
}

// FormatDurationCompact is the short form used inside merged sleep-stage
// rows: "52m" rather than "52 min".
func FormatDurationCompact(sec float64) string {
	if sec < 3600 {
		return fmt.Sprintf("%dm", int(math.Round(sec/60)))
	}
	h := int(sec) / 3600
	m := int(math.Round(math.Mod(sec, 3600) / 60))
	if m == 60 {
		h++
		m = 0
	}
	return fmt.Sprintf("%dh %dm", h, m)
}

func FormatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64) + "%"
}

var (
	reHourMin = regexp.MustCompile(`^(\d+)h (\d+)m$`)
	reMinutes = regexp.MustCompile(`^(\d+) ?m(?:in)?$`)
	reSuffix  = regexp.MustCompile(`^([+-]?\d+(?:\.\d+)?) ?(%|bpm|ms|steps|kcal|km|°C|br/min)$`)
)

// ParseDisplay recovers the numeric value from a display-formatted string,
// in the same unit the value was stored in (seconds for durations, meters
// for distance). The visible-table flag comparison runs on this recovered
// value, so the round trip has to be exact for every formatter above.
func ParseDisplay(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s == defs.Placeholder {
		return 0, false
	}
	if m := reHourMin.FindStringSubmatch(s); m != nil {
		h, _ := strconv.Atoi(m[1])
		min, _ := strconv.Atoi(m[2])
		return float64(h*3600 + min*60), true
	}
	if m := reMinutes.FindStringSubmatch(s); m != nil {
		min, _ := strconv.Atoi(m[1])
		return float64(min * 60), true
	}
	if m := reSuffix.FindStringSubmatch(s); m != nil {
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0, false
		}
		if m[2] == "km" {
			v *= 1000
		}
		return v, true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

var reParenthetical = regexp.MustCompile(`\s*\([^)]*\)`)

var normalizeSuffixes = []string{" score", " contributor", " duration"}

// NormalizeName reduces a display name to the form variants are matched on:
// lowercased, parenthetical qualifiers removed, score-related and duration
// suffixes stripped. "Resting Heart Rate (Score)" and "Resting Heart Rate"
// normalize identically; the deduplicator decides which one survives.
func NormalizeName(name string) string {
	s := reParenthetical.ReplaceAllString(name, "")
	s = strings.ToLower(strings.TrimSpace(s))
	for changed := true; changed; {
		changed = false
		for _, suf := range normalizeSuffixes {
			if strings.HasSuffix(s, suf) {
				s = strings.TrimSpace(strings.TrimSuffix(s, suf))
				changed = true
			}
		}
	}
	return strings.Join(strings.Fields(s), " ")
}

var unitTokens = []string{"%", "bpm", "ms", "kcal", "steps", "km", "°C"}

// HasUnitToken reports whether a formatted value carries a human-readable
// unit marker, as opposed to a bare number. Used as a dedupe tiebreaker.
func HasUnitToken(formatted string) bool {
	if reHourMin.MatchString(formatted) || reMinutes.MatchString(formatted) {
		return true
	}
	for _, tok := range unitTokens {
		if strings.Contains(formatted, tok) {
			return true
		}
	}
	return false
}
