// Package econ turns a planned fleet and its dispatch into cost metrics.
// LCOE is computed against required energy, not served energy, so an
// undersized fleet cannot buy a better score by leaving load on the floor;
// unserved energy is penalized separately at VoLL.
package econ

import (
	"math"
	"sort"

	"github.com/DougMackenzie/energy-optimizer/core/backend"
	"github.com/DougMackenzie/energy-optimizer/core/model"
)

// CRF is the capital recovery factor for rate r over n years.
func CRF(r float64, n int) float64 {
	if n <= 0 {
		return 1
	}
	if r == 0 {
		return 1 / float64(n)
	}
	f := math.Pow(1+r, float64(n))
	return r * f / (f - 1)
}

// FleetCapex prices the equipment added between prev and next.
func FleetCapex(prev, next model.Fleet, specs model.EquipmentSpecs) float64 {
	capex := 0.0
	if d := next.Recips - prev.Recips; d > 0 {
		capex += float64(d) * specs.Recip.UnitMW * specs.Recip.CapexPerMW
	}
	if d := next.Turbines - prev.Turbines; d > 0 {
		capex += float64(d) * specs.Turbine.UnitMW * specs.Turbine.CapexPerMW
	}
	if d := next.StorageMW - prev.StorageMW; d > 0 {
		capex += d * specs.Storage.CapexPerMW
	}
	if d := next.StorageMWh - prev.StorageMWh; d > 0 {
		capex += d * specs.Storage.CapexPerMWh
	}
	if d := next.SolarMW - prev.SolarMW; d > 0 {
		capex += d * specs.Solar.CapexPerMW
	}
	if d := next.GridMW - prev.GridMW; d > 0 {
		// Interconnection build-out cost.
		capex += d * specs.Grid.CapexPerMW
	}
	return capex
}

// AnnualOpex is fixed plus variable O&M for one year of operation.
func AnnualOpex(fleet model.Fleet, sched *model.DispatchSchedule, specs model.EquipmentSpecs) float64 {
	fixed := fleet.RecipMW(specs)*specs.Recip.FixedOMPerMWYear +
		fleet.TurbineMW(specs)*specs.Turbine.FixedOMPerMWYear +
		fleet.StorageMW*specs.Storage.FixedOMPerMWYear +
		fleet.SolarMW*specs.Solar.FixedOMPerMWYear

	variable := sched.GenerationBySource["recip"]*specs.Recip.VarOMPerMWh +
		sched.GenerationBySource["turbine"]*specs.Turbine.VarOMPerMWh
	return fixed + variable
}

// AnnualFuel is gas purchases plus grid energy purchases for one year.
func AnnualFuel(sched *model.DispatchSchedule, specs model.EquipmentSpecs, params backend.Params) float64 {
	gasMCF := sched.GenerationBySource["recip"]*specs.Recip.GasMCFPerMWh +
		sched.GenerationBySource["turbine"]*specs.Turbine.GasMCFPerMWh
	return gasMCF*params.GasPrice + sched.GenerationBySource["grid"]*params.ElectricityPrice
}

// shadowPriceCF is the utilization assumed when converting $/MWh into the
// annual value of one more unit of a relaxed limit.
const shadowPriceCF = 0.85

// ShadowPrices estimates the marginal value of relaxing each binding limit,
// expressed per unit of the limit ($/ton, $/MCF-day, $/acre, $/MW).
func ShadowPrices(lcoe float64, binding []string) map[string]float64 {
	base := lcoe * 8760 * shadowPriceCF / 1000
	out := make(map[string]float64, len(binding))
	for _, name := range binding {
		switch name {
		case "nox_emissions":
			out[name] = 3.0 * base
		case "gas_supply":
			out[name] = 0.005 * base
		case "land_use":
			out[name] = 0.1 * base
		case "firm_capacity_n1", "firm_capacity", "ramp_capability", "grid_capacity":
			out[name] = base
		}
	}
	return out
}

// Evaluate computes the full cost picture for a multi-year plan. Capex is
// discounted to the first planning year; annual figures come from the final
// year's steady state. drRevenue is the expected annual demand-response
// revenue; when it exceeds the costs it offsets, the surplus is reported
// separately rather than driving LCOE negative.
func Evaluate(fleetByYear map[int]model.Fleet, dispatchByYear map[int]*model.DispatchSchedule,
	snap backend.Snapshot, drRevenue float64) (model.Economics, []string) {

	specs := snap.Specs
	params := snap.Params
	var warnings []string

	years := make([]int, 0, len(fleetByYear))
	for y := range fleetByYear {
		years = append(years, y)
	}
	sort.Ints(years)
	if len(years) == 0 {
		return model.Economics{}, nil
	}
	startYear := years[0]
	finalYear := years[len(years)-1]

	capexPV := 0.0
	prev := model.Fleet{}
	for _, y := range years {
		spend := FleetCapex(prev, fleetByYear[y], specs)
		capexPV += spend / math.Pow(1+params.DiscountRate, float64(y-startYear))
		prev = fleetByYear[y]
	}

	finalFleet := fleetByYear[finalYear]
	finalSched := dispatchByYear[finalYear]

	opex := AnnualOpex(finalFleet, finalSched, specs)
	fuel := AnnualFuel(finalSched, specs, params)
	crf := CRF(params.DiscountRate, params.AnalysisYears)

	annualCost := capexPV*crf + opex + fuel
	netRevenue := drRevenue
	surplus := 0.0
	if netRevenue > annualCost {
		surplus = netRevenue - annualCost
		netRevenue = annualCost
		warnings = append(warnings,
			"demand-response revenue exceeds annualized system cost; surplus excluded from LCOE")
	}

	lcoe := 0.0
	if req := finalSched.EnergyRequiredMWh; req > 0 {
		lcoe = (annualCost - netRevenue) / req
	}

	return model.Economics{
		LCOE:             lcoe,
		CapexTotal:       capexPV,
		OpexAnnual:       opex,
		FuelAnnual:       fuel,
		NPVTotalCost:     capexPV + (opex+fuel)/crf,
		DRRevenueAnnual:  drRevenue,
		DRRevenueSurplus: surplus,
		VoLLPenalty:      finalSched.UnservedMWh * params.VoLL,
	}, warnings
}
