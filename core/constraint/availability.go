package constraint

import (
	"math"

	"gonum.org/v1/gonum/stat/combin"

	"github.com/DougMackenzie/energy-optimizer/core/model"
)

// KOfN returns the probability that at least k of n identical units are
// simultaneously available, each with independent availability p.
func KOfN(n, k int, p float64) float64 {
	if k <= 0 {
		return 1
	}
	if k > n {
		return 0
	}
	prob := 0.0
	for i := k; i <= n; i++ {
		prob += float64(combin.Binomial(n, i)) * math.Pow(p, float64(i)) * math.Pow(1-p, float64(n-i))
	}
	return prob
}

// Series composes subsystems that must all be up.
func Series(avail ...float64) float64 {
	out := 1.0
	for _, a := range avail {
		out *= a
	}
	return out
}

// Parallel composes redundant subsystems where any one suffices.
func Parallel(avail ...float64) float64 {
	down := 1.0
	for _, a := range avail {
		down *= 1 - a
	}
	return 1 - down
}

// AvailabilityAnalysis reports the probability that the fleet can carry the
// facility peak, broken down by subsystem.
type AvailabilityAnalysis struct {
	RecipAvailability   float64
	TurbineAvailability float64
	ThermalAvailability float64
	SystemAvailability  float64

	RecipsRequired   int
	TurbinesRequired int
}

// FleetAvailability computes the probability that installed firm capacity
// covers peakMW. Each thermal class is modeled k-of-n against the share of
// peak it is sized to carry; the classes are in series because both shares
// are needed at the same time. Grid import, when present, sits in parallel
// with the thermal block.
func FleetAvailability(fleet model.Fleet, specs model.EquipmentSpecs, peakMW float64) AvailabilityAnalysis {
	a := AvailabilityAnalysis{
		RecipAvailability:   1,
		TurbineAvailability: 1,
	}
	thermal := fleet.ThermalMW(specs)
	if peakMW <= 0 || thermal <= 0 {
		a.ThermalAvailability = boolToAvail(peakMW <= 0)
		a.SystemAvailability = Parallel(a.ThermalAvailability, gridAvail(fleet, specs, peakMW))
		return a
	}

	// Split the peak between classes in proportion to installed capacity.
	recipShare := peakMW * fleet.RecipMW(specs) / thermal
	turbineShare := peakMW * fleet.TurbineMW(specs) / thermal

	if fleet.Recips > 0 && recipShare > 0 {
		a.RecipsRequired = unitsFor(recipShare, specs.Recip.UnitMW)
		a.RecipAvailability = KOfN(fleet.Recips, a.RecipsRequired, specs.Recip.Availability)
	}
	if fleet.Turbines > 0 && turbineShare > 0 {
		a.TurbinesRequired = unitsFor(turbineShare, specs.Turbine.UnitMW)
		a.TurbineAvailability = KOfN(fleet.Turbines, a.TurbinesRequired, specs.Turbine.Availability)
	}

	a.ThermalAvailability = Series(a.RecipAvailability, a.TurbineAvailability)
	a.SystemAvailability = Parallel(a.ThermalAvailability, gridAvail(fleet, specs, peakMW))
	return a
}

func unitsFor(mw, unitMW float64) int {
	if unitMW <= 0 {
		return 0
	}
	return int(math.Ceil(mw / unitMW))
}

func gridAvail(fleet model.Fleet, specs model.EquipmentSpecs, peakMW float64) float64 {
	if fleet.GridMW >= peakMW && peakMW > 0 {
		return specs.Grid.Availability
	}
	return 0
}

func boolToAvail(ok bool) float64 {
	if ok {
		return 1
	}
	return 0
}
