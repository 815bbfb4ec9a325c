package model

// DispatchSchedule is the hourly generation, storage and curtailment plan
// for one year with a fixed fleet. Supply equals demand minus curtailment
// plus storage charge at every step; residual shortfall is recorded in
// UnservedMW rather than dropped.
type DispatchSchedule struct {
	Year      int
	StepHours float64 // duration of one step, 1.0 for hourly

	LoadMW             []float64
	SolarMW            []float64
	StorageChargeMW    []float64
	StorageDischargeMW []float64
	StorageSoCMWh      []float64
	RecipMW            []float64
	TurbineMW          []float64
	GridMW             []float64
	UnservedMW         []float64

	CurtailMW        map[WorkloadCategory][]float64
	CoolingCurtailMW []float64

	EnergyRequiredMWh  float64
	EnergyDeliveredMWh float64
	UnservedMWh        float64
	CurtailedMWh       float64

	GenerationBySource map[string]float64 // MWh by "solar","storage","recip","turbine","grid"
	CapacityFactors    map[string]float64

	PeakUnservedMW    float64
	HoursWithUnserved int
	MaxRampMWPerMin   float64
}

// Len returns the number of dispatch steps.
func (s *DispatchSchedule) Len() int { return len(s.LoadMW) }

// SupplyMW returns total generation plus storage discharge at step h.
func (s *DispatchSchedule) SupplyMW(h int) float64 {
	return s.SolarMW[h] + s.StorageDischargeMW[h] + s.RecipMW[h] + s.TurbineMW[h] + s.GridMW[h]
}

// CurtailTotalMW returns curtailment across all categories at step h.
func (s *DispatchSchedule) CurtailTotalMW(h int) float64 {
	total := s.CoolingCurtailMW[h]
	for _, series := range s.CurtailMW {
		total += series[h]
	}
	return total
}

// CoveragePct is the share of required energy actually served.
func (s *DispatchSchedule) CoveragePct() float64 {
	if s.EnergyRequiredMWh <= 0 {
		return 100
	}
	return 100 * (1 - s.UnservedMWh/s.EnergyRequiredMWh)
}
