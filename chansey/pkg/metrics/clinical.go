package metrics

import "fmt"

// ClinicalRange is an absolute population-based range, independent of the
// subject's own history. It is display context only; flagging always runs
// against the personal reference range.
type ClinicalRange struct {
	Min  float64
	Max  float64
	Unit string
}

func (r ClinicalRange) String() string {
	return fmt.Sprintf("%g – %g %s", r.Min, r.Max, r.Unit)
}

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

type clinicalEntry struct {
	fixed   *ClinicalRange
	resolve func(age int, gender Gender) ClinicalRange
}

// Keyed by display name: the resolver is consulted after the registry has
// produced a row, so the display name is the stable identifier at that point.
var clinicalRanges = map[string]clinicalEntry{
	"Resting Heart Rate": {fixed: &ClinicalRange{60, 100, "bpm"}},
	"Average Heart Rate": {fixed: &ClinicalRange{60, 100, "bpm"}},
	"SpO2":               {fixed: &ClinicalRange{95, 100, "%"}},
	"Sleep Efficiency":   {fixed: &ClinicalRange{85, 100, "%"}},
	"Deep Sleep %":       {fixed: &ClinicalRange{13, 23, "%"}},
	"REM Sleep %":        {fixed: &ClinicalRange{20, 25, "%"}},
	"Breathing Rate":     {fixed: &ClinicalRange{12, 20, "br/min"}},
	"Heart Rate Variability": {
		resolve: func(age int, _ Gender) ClinicalRange {
			// rMSSD declines with age; buckets follow published norms.
			switch {
			case age < 30:
				return ClinicalRange{40, 100, "ms"}
			case age < 50:
				return ClinicalRange{30, 80, "ms"}
			case age < 65:
				return ClinicalRange{20, 60, "ms"}
			default:
				return ClinicalRange{15, 50, "ms"}
			}
		},
	},
	"Total Sleep Duration": {
		resolve: func(age int, _ Gender) ClinicalRange {
			if age >= 65 {
				return ClinicalRange{7, 8, "h"}
			}
			return ClinicalRange{7, 9, "h"}
		},
	},
	"Active Calories": {
		resolve: func(_ int, gender Gender) ClinicalRange {
			if gender == GenderFemale {
				return ClinicalRange{300, 500, "kcal"}
			}
			return ClinicalRange{400, 650, "kcal"}
		},
	},
	"Steps": {fixed: &ClinicalRange{7000, 12000, "steps"}},
}

// ResolveClinicalRange looks up the absolute range for a display name.
// Ranges defined as a function of the subject are resolved with the given
// age and gender.
func ResolveClinicalRange(displayName string, age int, gender Gender) (ClinicalRange, bool) {
	e, ok := clinicalRanges[displayName]
	if !ok {
		return ClinicalRange{}, false
	}
	if e.fixed != nil {
		return *e.fixed, true
	}
	return e.resolve(age, gender), true
}
