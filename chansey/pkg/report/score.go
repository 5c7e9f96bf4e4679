package report

import "hv1/chansey/defs"

// Category weights for the composite score. Uncategorized metrics never
// reach this point, but the fallback weight matches the original tuning.
var scoreWeights = map[defs.Category]float64{
	defs.CategorySleep:          0.3,
	defs.CategoryCardiovascular: 0.3,
	defs.CategoryActivity:       0.4,
}

const defaultScoreWeight = 0.1

// HealthScore folds the visible rows into one 0-100 number. Each row scores
// by its normalized position inside its reference range; flagged rows score
// a flat 0.3 or 0.7 depending on which side of the midpoint they fall. An
// empty report scores a clean 100.
func HealthScore(rows []row) float64 {
	totalScore, totalWeight := 0.0, 0.0

	for _, r := range rows {
		if !r.hasValue || !r.hasRange {
			continue
		}

		weight, ok := scoreWeights[r.category]
		if !ok {
			weight = defaultScoreWeight
		}

		flagged := r.Flag != ""
		var score float64
		if r.q75 > r.q25 {
			normalized := (r.value - r.q25) / (r.q75 - r.q25)
			if normalized < 0 {
				normalized = 0
			} else if normalized > 1 {
				normalized = 1
			}
			if flagged {
				if normalized < 0.5 {
					score = 0.3
				} else {
					score = 0.7
				}
			} else {
				score = normalized
			}
		} else {
			if flagged {
				score = 0.5
			} else {
				score = 1.0
			}
		}

		totalScore += score * weight
		totalWeight += weight
	}

	if totalWeight == 0 {
		return 100.0
	}
	return totalScore / totalWeight * 100.0
}

// CountFlagged tallies rows carrying a visible flag.
func CountFlagged(rows []row) int {
	n := 0
	for _, r := range rows {
		if r.Flag != "" {
			n++
		}
	}
	return n
}

// FlaggedByCategory breaks the flagged tally down per category. Categories
// with nothing flagged are omitted; an all-clear report yields nil.
func FlaggedByCategory(rows []row) map[string]int {
	var counts map[string]int
	for _, r := range rows {
		if r.Flag == "" {
			continue
		}
		if counts == nil {
			counts = make(map[string]int)
		}
		counts[r.category.String()]++
	}
	return counts
}
