package report

import (
	"sort"

	"hv1/chansey/defs"
	"hv1/chansey/pkg/metrics"
)

// Dedupe collapses metric variants whose normalized names collide into one
// best representative each. The same physiological concept routinely arrives
// under two or three keys (a canonical key plus legacy aliases, or a real
// unit metric plus a same-named contributor score); only one may reach the
// report.
//
// Precedence among colliding candidates:
//  1. a real result beats a placeholder;
//  2. a formatted value with a unit token beats a bare number;
//  3. the shorter display name wins.
//
// A concept with a single representative is always kept as-is.
func Dedupe(computed []Computed) []Computed {
	groups := make(map[string][]Computed)
	order := make([]string, 0)
	for _, c := range computed {
		name := metrics.NormalizeName(c.Metric)
		if _, seen := groups[name]; !seen {
			order = append(order, name)
		}
		groups[name] = append(groups[name], c)
	}
	sort.Strings(order)

	out := make([]Computed, 0, len(order))
	for _, name := range order {
		group := groups[name]
		best := group[0]
		for _, c := range group[1:] {
			if better(c, best) {
				best = c
			}
		}
		out = append(out, best)
	}
	return out
}

func better(a, b Computed) bool {
	aReal, bReal := a.Result != defs.Placeholder, b.Result != defs.Placeholder
	if aReal != bReal {
		return aReal
	}
	aUnit, bUnit := metrics.HasUnitToken(a.Result), metrics.HasUnitToken(b.Result)
	if aUnit != bUnit {
		return aUnit
	}
	return len(a.Metric) < len(b.Metric)
}
