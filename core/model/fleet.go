package model

// Fleet is the equipment on the ground for one planning year. Snapshots are
// value types: each year's fleet is derived from the previous year's plus
// that year's additions, never mutated in place.
type Fleet struct {
	Year int

	Recips   int
	Turbines int

	StorageMW  float64
	StorageMWh float64
	SolarMW    float64
	GridMW     float64
}

// RecipMW returns installed reciprocating-engine capacity.
func (f Fleet) RecipMW(specs EquipmentSpecs) float64 {
	return float64(f.Recips) * specs.Recip.UnitMW
}

// TurbineMW returns installed gas-turbine capacity.
func (f Fleet) TurbineMW(specs EquipmentSpecs) float64 {
	return float64(f.Turbines) * specs.Turbine.UnitMW
}

// ThermalMW returns total installed thermal capacity.
func (f Fleet) ThermalMW(specs EquipmentSpecs) float64 {
	return f.RecipMW(specs) + f.TurbineMW(specs)
}

// FirmMW is behind-the-meter firm capacity: thermal plus storage at its
// capacity-credit fraction. Solar and grid do not count as firm.
func (f Fleet) FirmMW(specs EquipmentSpecs, storageCredit float64) float64 {
	return f.ThermalMW(specs) + f.StorageMW*storageCredit
}

// LargestUnitMW returns the single largest deployed unit, the contingency
// assumed by the N-1 check.
func (f Fleet) LargestUnitMW(specs EquipmentSpecs) float64 {
	largest := 0.0
	if f.Recips > 0 && specs.Recip.UnitMW > largest {
		largest = specs.Recip.UnitMW
	}
	if f.Turbines > 0 && specs.Turbine.UnitMW > largest {
		largest = specs.Turbine.UnitMW
	}
	return largest
}

// FirmN1MW is firm capacity with the largest single unit out of service.
func (f Fleet) FirmN1MW(specs EquipmentSpecs, storageCredit float64) float64 {
	return f.FirmMW(specs, storageCredit) - f.LargestUnitMW(specs)
}

// TotalCapacityMW is firm capacity plus solar and grid import.
func (f Fleet) TotalCapacityMW(specs EquipmentSpecs, storageCredit float64) float64 {
	return f.FirmMW(specs, storageCredit) + f.SolarMW + f.GridMW
}

// RampMWPerMin sums each online unit's capacity times its per-minute ramp
// fraction.
func (f Fleet) RampMWPerMin(specs EquipmentSpecs) float64 {
	return f.RecipMW(specs)*specs.Recip.RampPctPerMin/100 +
		f.TurbineMW(specs)*specs.Turbine.RampPctPerMin/100 +
		f.StorageMW*specs.Storage.RampPctPerMin/100
}

// LandAcres is the footprint of the generation equipment alone. Site-level
// allocations (datacenter, substation, infrastructure) are handled by the
// constraint evaluator.
func (f Fleet) LandAcres(specs EquipmentSpecs) float64 {
	return f.RecipMW(specs)*specs.Recip.LandAcresPerMW +
		f.TurbineMW(specs)*specs.Turbine.LandAcresPerMW +
		f.StorageMW*specs.Storage.LandAcresPerMW +
		f.SolarMW*specs.Solar.LandAcresPerMW
}

// AtLeast raises counts and continuous capacities to the given lower bound.
// Used to seed brownfield equipment and to enforce the non-decreasing fleet
// invariant across years.
func (f Fleet) AtLeast(min Fleet) Fleet {
	if f.Recips < min.Recips {
		f.Recips = min.Recips
	}
	if f.Turbines < min.Turbines {
		f.Turbines = min.Turbines
	}
	if f.StorageMW < min.StorageMW {
		f.StorageMW = min.StorageMW
	}
	if f.StorageMWh < min.StorageMWh {
		f.StorageMWh = min.StorageMWh
	}
	if f.SolarMW < min.SolarMW {
		f.SolarMW = min.SolarMW
	}
	if f.GridMW < min.GridMW {
		f.GridMW = min.GridMW
	}
	return f
}
