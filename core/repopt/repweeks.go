// Package repopt sizes the fleet with a linear program over representative
// weeks instead of simulating all 8760 hours. Unit counts are relaxed to
// continuous, the LP is solved, counts are rounded up and fixed, and the
// dispatch is re-solved. The chosen fleet is then validated by the full
// hourly simulator, so the reduction never hides a constraint violation.
package repopt

import "github.com/DougMackenzie/energy-optimizer/core/model"

// HoursPerWeek is the length of one representative block.
const HoursPerWeek = 168

// RepWeek is one representative slice of the year. Weight is the number of
// calendar weeks the slice stands in for.
type RepWeek struct {
	StartDay int
	Weight   float64
}

// DefaultWeeks covers the seasonal spread: spring, early and high summer,
// fall, early winter and deep winter. Weights sum to 52.
func DefaultWeeks() []RepWeek {
	return []RepWeek{
		{StartDay: 80, Weight: 10},
		{StartDay: 160, Weight: 8},
		{StartDay: 200, Weight: 4},
		{StartDay: 260, Weight: 10},
		{StartDay: 340, Weight: 12},
		{StartDay: 10, Weight: 8},
	}
}

// HourWeights returns the per-hour annualization weights for the given
// weeks, normalized so they sum to exactly one year of hours.
func HourWeights(weeks []RepWeek) []float64 {
	total := 0.0
	for _, w := range weeks {
		total += w.Weight * HoursPerWeek
	}
	norm := 8760 / total

	out := make([]float64, 0, len(weeks)*HoursPerWeek)
	for _, w := range weeks {
		for h := 0; h < HoursPerWeek; h++ {
			out = append(out, w.Weight*norm)
		}
	}
	return out
}

// SliceProfile extracts the representative hours from a full-year profile.
// The result keeps per-hour flexibility so curtailment and DR constraints
// see the same breakdown the simulator does.
func SliceProfile(full *model.HourlyProfile, weeks []RepWeek) *model.HourlyProfile {
	n := len(weeks) * HoursPerWeek
	out := &model.HourlyProfile{
		Seed:          full.Seed,
		ScaleFactor:   8760 / float64(n),
		TotalMW:       make([]float64, 0, n),
		ITMW:          make([]float64, 0, n),
		CoolingMW:     make([]float64, 0, n),
		FirmMW:        make([]float64, 0, n),
		CoolingFlexMW: make([]float64, 0, n),
		FlexMW:        make(map[model.WorkloadCategory][]float64, len(full.FlexMW)),
	}
	for w := range full.FlexMW {
		out.FlexMW[w] = make([]float64, 0, n)
	}

	for _, week := range weeks {
		start := week.StartDay * 24
		for h := start; h < start+HoursPerWeek; h++ {
			idx := h % full.Len()
			out.TotalMW = append(out.TotalMW, full.TotalMW[idx])
			out.ITMW = append(out.ITMW, full.ITMW[idx])
			out.CoolingMW = append(out.CoolingMW, full.CoolingMW[idx])
			out.FirmMW = append(out.FirmMW, full.FirmMW[idx])
			out.CoolingFlexMW = append(out.CoolingFlexMW, full.CoolingFlexMW[idx])
			for w := range full.FlexMW {
				out.FlexMW[w] = append(out.FlexMW[w], full.FlexMW[w][idx])
			}
		}
	}
	return out
}

// SliceSeries extracts the same representative hours from a plain series.
func SliceSeries(full []float64, weeks []RepWeek) []float64 {
	out := make([]float64, 0, len(weeks)*HoursPerWeek)
	for _, week := range weeks {
		start := week.StartDay * 24
		for h := start; h < start+HoursPerWeek; h++ {
			out = append(out, full[h%len(full)])
		}
	}
	return out
}
