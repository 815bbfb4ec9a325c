package model

import "time"

// Economics is the cost breakdown for a portfolio. VoLLPenalty is tracked
// on its own and never folded into LCOE.
type Economics struct {
	LCOE             float64 // $/MWh against required (not served) energy
	CapexTotal       float64
	OpexAnnual       float64
	FuelAnnual       float64
	NPVTotalCost     float64
	DRRevenueAnnual  float64
	DRRevenueSurplus float64 // revenue beyond the cost it offsets, clamped out of LCOE
	VoLLPenalty      float64
}

// LandAllocation reports how the site's acreage is assigned, in priority
// order.
type LandAllocation struct {
	DatacenterAcres     float64
	SubstationAcres     float64
	InfrastructureAcres float64
	ThermalAcres        float64
	StorageAcres        float64
	SolarAvailableAcres float64
	TotalUsedAcres      float64
	RemainingAcres      float64
}

// RampAnalysis compares required against available ramp capability.
type RampAnalysis struct {
	RequiredMWPerMin    float64
	AvailableMWPerMin   float64
	MarginMWPerMin      float64
	MaxObservedMWPerMin float64
}

// OptimizationResult is the terminal artifact of a run, immutable once
// produced. Feasible=false with populated Violations means the constraints
// cannot be met — an actionable outcome, distinct from an execution error.
type OptimizationResult struct {
	RunID    string
	Engine   string // "heuristic" or "representative-period"
	Feasible bool

	FleetByYear    map[int]Fleet
	DispatchByYear map[int]*DispatchSchedule
	Constraints    []ConstraintResult

	Economics Economics

	TotalEnergyRequiredMWh  float64
	TotalEnergyDeliveredMWh float64
	TotalUnservedMWh        float64
	LoadCoveragePct         float64

	BindingConstraints []string
	PrimaryBinding     string
	ShadowPrices       map[string]float64

	Land LandAllocation
	Ramp RampAnalysis

	TimelineMonths int
	SolveTime      time.Duration

	Violations []string
	Warnings   []string
}

// FinalFleet returns the last planning year's fleet.
func (r *OptimizationResult) FinalFleet() (Fleet, bool) {
	var last Fleet
	found := false
	for year, fleet := range r.FleetByYear {
		if !found || year > last.Year {
			last = fleet
			last.Year = year
			found = true
		}
	}
	return last, found
}
