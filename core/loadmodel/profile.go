// Package loadmodel converts a load trajectory and workload mix into hourly
// demand profiles with per-category flexibility bounds. Profiles are pure
// functions of their inputs: the same seed and trajectory always produce
// identical output.
package loadmodel

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/DougMackenzie/energy-optimizer/core/model"
)

// ErrInvalidMix is returned when workload percentages do not sum to 100
// within tolerance.
var ErrInvalidMix = errors.New("workload mix percentages must sum to 100")

// HoursPerYear is the full-resolution profile length.
const HoursPerYear = 8760

// Generator produces demand and solar profiles. The zero value uses seed 0;
// runs that need reproducibility should set Seed explicitly.
type Generator struct {
	Seed int64
}

// Validate checks trajectory invariants that must hold before any
// optimization work begins.
func Validate(t model.LoadTrajectory) error {
	if sum := t.MixSum(); math.Abs(sum-100) > model.MixTolerance {
		return fmt.Errorf("%w: got %.2f", ErrInvalidMix, sum)
	}
	if t.PUE < 1 {
		return fmt.Errorf("pue must be >= 1, got %.3f", t.PUE)
	}
	if t.LoadFactor <= 0 || t.LoadFactor > 1 {
		return fmt.Errorf("load factor must be in (0,1], got %.3f", t.LoadFactor)
	}
	return nil
}

// Profile generates the hourly demand series for one year at the given
// facility peak. The shape combines a daytime plateau (09-22h), a smooth
// seasonal multiplier peaking in summer, and bounded seeded noise; the
// result is clipped to [0.5*peak, peak].
func (g Generator) Profile(t model.LoadTrajectory, peakMW float64, hours int) (*model.HourlyProfile, error) {
	if err := Validate(t); err != nil {
		return nil, err
	}
	if hours <= 0 {
		hours = HoursPerYear
	}

	rng := rand.New(rand.NewSource(g.Seed))
	base := peakMW * t.LoadFactor

	p := &model.HourlyProfile{
		Seed:          g.Seed,
		ScaleFactor:   float64(HoursPerYear) / float64(hours),
		TotalMW:       make([]float64, hours),
		ITMW:          make([]float64, hours),
		CoolingMW:     make([]float64, hours),
		FirmMW:        make([]float64, hours),
		CoolingFlexMW: make([]float64, hours),
		FlexMW:        make(map[model.WorkloadCategory][]float64, len(model.WorkloadCategories)),
	}
	for _, w := range model.WorkloadCategories {
		p.FlexMW[w] = make([]float64, hours)
	}

	for h := 0; h < hours; h++ {
		hourOfDay := h % 24
		dayOfYear := h / 24

		daily := 0.95
		if hourOfDay >= 9 && hourOfDay <= 22 {
			daily = 1.03
		}
		seasonal := 1.0 + 0.05*math.Sin(2*math.Pi*float64(dayOfYear-80)/365)
		noise := 1.0 + (rng.Float64()*0.04 - 0.02)

		total := base * daily * seasonal * noise
		if total < peakMW*0.5 {
			total = peakMW * 0.5
		}
		if total > peakMW {
			total = peakMW
		}

		it := total / t.PUE
		cooling := total - it

		p.TotalMW[h] = total
		p.ITMW[h] = it
		p.CoolingMW[h] = cooling

		flexTotal := 0.0
		for _, w := range model.WorkloadCategories {
			load := it * t.WorkloadMix[w] / 100
			flex := load * t.FlexFraction(w)
			p.FlexMW[w][h] = flex
			flexTotal += flex
		}
		p.CoolingFlexMW[h] = cooling * t.CoolingFlex
		flexTotal += p.CoolingFlexMW[h]

		p.FirmMW[h] = total - flexTotal
	}

	return p, nil
}

// SolarProfile generates the hourly available solar output for the given DC
// capacity: a midday Gaussian shape, a seasonal sine peaking near the summer
// solstice, and seeded weather variation. Zero capacity yields a zero
// series.
func (g Generator) SolarProfile(capacityMW float64, hours int) []float64 {
	if hours <= 0 {
		hours = HoursPerYear
	}
	out := make([]float64, hours)
	if capacityMW <= 0 {
		return out
	}

	rng := rand.New(rand.NewSource(g.Seed + 1))
	for h := 0; h < hours; h++ {
		hourOfDay := h % 24
		dayOfYear := h / 24
		if hourOfDay < 6 || hourOfDay > 18 {
			continue
		}
		hourFactor := math.Exp(-math.Pow(float64(hourOfDay)-12, 2) / 8)
		seasonal := 0.7 + 0.3*math.Sin(2*math.Pi*float64(dayOfYear-80)/365)
		weather := 0.85 + 0.15*rng.Float64()
		out[h] = hourFactor * seasonal * weather * 0.9 * capacityMW
	}
	return out
}
