package repopt

import (
	"github.com/DougMackenzie/energy-optimizer/core/backend"
	"github.com/DougMackenzie/energy-optimizer/core/constraint"
	"github.com/DougMackenzie/energy-optimizer/core/econ"
	"github.com/DougMackenzie/energy-optimizer/core/loadmodel"
	"github.com/DougMackenzie/energy-optimizer/core/model"
)

// OneWayEfficiency is the per-direction storage efficiency used by the LP.
const OneWayEfficiency = 0.92

// MinSoCFraction is the LP state-of-charge floor.
const MinSoCFraction = 0.10

// Scalar variable indices. Per-hour variables follow in blocks of
// varsPerHour starting at numScalarVars.
const (
	ivRecips = iota
	ivTurbines
	ivBessMWh
	ivSolarMW
	ivGridMW
	ivDRMW
	numScalarVars
)

const (
	ohRecip = iota
	ohTurbine
	ohGrid
	ohCharge
	ohDischarge
	ohSoC
	ohCurtail
	varsPerHour
)

// Problem is one year's sizing LP in general form:
// minimize C·x subject to G·x <= H and Aeq·x = Beq.
type Problem struct {
	Year     int
	NumHours int
	NumVars  int

	Weights        []float64 // annualization weight per representative hour
	RequiredEnergy float64   // MWh/yr the plan must serve
	BessMWPerMWh   float64   // inverse storage duration

	C   []float64
	G   [][]float64
	H   []float64
	Aeq [][]float64
	Beq []float64

	// ConstraintNames labels the G rows for reporting.
	ConstraintNames []string
}

// hourVar returns the column of per-hour variable v at hour h.
func (p *Problem) hourVar(h, v int) int {
	return numScalarVars + h*varsPerHour + v
}

func (p *Problem) addIneq(name string, coeffs map[int]float64, rhs float64) {
	row := make([]float64, p.NumVars)
	for i, c := range coeffs {
		row[i] = c
	}
	p.G = append(p.G, row)
	p.H = append(p.H, rhs)
	p.ConstraintNames = append(p.ConstraintNames, name)
}

func (p *Problem) addEq(coeffs map[int]float64, rhs float64) {
	row := make([]float64, p.NumVars)
	for i, c := range coeffs {
		row[i] = c
	}
	p.Aeq = append(p.Aeq, row)
	p.Beq = append(p.Beq, rhs)
}

// Inputs collects everything BuildProblem needs for one year.
type Inputs struct {
	Site   model.Site
	Limits model.Limits
	Snap   backend.Snapshot

	Year int
	Peak float64

	// Profile holds the representative hours, SolarUnit the per-MW solar
	// output over the same hours.
	Profile   *model.HourlyProfile
	SolarUnit []float64
	Weights   []float64

	// Prev sets lower bounds so the fleet never shrinks year over year.
	Prev model.Fleet

	DRProduct    *loadmodel.DRProduct
	DREventHours float64

	RampRequiredMWPerMin  float64
	CurtailBudgetFraction float64
}

// BuildProblem assembles the sizing LP for one year. Unit-count variables
// are continuous here; the solver rounds and re-solves.
func BuildProblem(in Inputs) *Problem {
	specs := in.Snap.Specs
	params := in.Snap.Params
	n := in.Profile.Len()

	p := &Problem{
		Year:     in.Year,
		NumHours: n,
		NumVars:  numScalarVars + n*varsPerHour,
		Weights:  in.Weights,
	}
	for h := 0; h < n; h++ {
		p.RequiredEnergy += in.Weights[h] * in.Profile.TotalMW[h]
	}

	crf := econ.CRF(params.DiscountRate, params.AnalysisYears)
	recipCap := specs.Recip.UnitMW * specs.Recip.Availability
	turbCap := specs.Turbine.UnitMW * specs.Turbine.Availability
	bessMWPerMWh := 1 / params.StorageDurationHours
	p.BessMWPerMWh = bessMWPerMWh

	// Objective: annualized capex and fixed O&M on capacity, fuel and
	// variable cost on dispatch, DR revenue negative.
	p.C = make([]float64, p.NumVars)
	p.C[ivRecips] = specs.Recip.UnitMW * (specs.Recip.CapexPerMW*crf + specs.Recip.FixedOMPerMWYear)
	p.C[ivTurbines] = specs.Turbine.UnitMW * (specs.Turbine.CapexPerMW*crf + specs.Turbine.FixedOMPerMWYear)
	p.C[ivBessMWh] = specs.Storage.CapexPerMWh*crf +
		(specs.Storage.CapexPerMW*crf+specs.Storage.FixedOMPerMWYear)*bessMWPerMWh
	p.C[ivSolarMW] = specs.Solar.CapexPerMW*crf + specs.Solar.FixedOMPerMWYear
	p.C[ivGridMW] = specs.Grid.CapexPerMW * crf
	if in.DRProduct != nil {
		p.C[ivDRMW] = -(in.DRProduct.CapacityPayment*8760 + in.DRProduct.ActivationPayment*in.DREventHours)
	}

	recipFuel := specs.Recip.GasMCFPerMWh*params.GasPrice + specs.Recip.VarOMPerMWh
	turbFuel := specs.Turbine.GasMCFPerMWh*params.GasPrice + specs.Turbine.VarOMPerMWh
	for h := 0; h < n; h++ {
		w := in.Weights[h]
		p.C[p.hourVar(h, ohRecip)] = w * recipFuel
		p.C[p.hourVar(h, ohTurbine)] = w * turbFuel
		p.C[p.hourVar(h, ohGrid)] = w * params.ElectricityPrice
	}

	p.buildHourly(in, recipCap, turbCap, bessMWPerMWh)
	p.buildScalar(in, bessMWPerMWh)
	return p
}

func (p *Problem) buildHourly(in Inputs, recipCap, turbCap, bessMWPerMWh float64) {
	n := p.NumHours
	for h := 0; h < n; h++ {
		// Energy balance: supply plus curtailment covers load. Written as >=
		// so free solar can spill instead of forcing infeasibility.
		p.addIneq("balance", map[int]float64{
			p.hourVar(h, ohRecip):     -1,
			p.hourVar(h, ohTurbine):   -1,
			p.hourVar(h, ohGrid):      -1,
			p.hourVar(h, ohDischarge): -1,
			p.hourVar(h, ohCharge):    1,
			p.hourVar(h, ohCurtail):   -1,
			ivSolarMW:                 -in.SolarUnit[h],
		}, -in.Profile.TotalMW[h])

		p.addIneq("recip_capacity", map[int]float64{
			p.hourVar(h, ohRecip): 1, ivRecips: -recipCap,
		}, 0)
		p.addIneq("turbine_capacity", map[int]float64{
			p.hourVar(h, ohTurbine): 1, ivTurbines: -turbCap,
		}, 0)
		p.addIneq("grid_import", map[int]float64{
			p.hourVar(h, ohGrid): 1, ivGridMW: -1,
		}, 0)
		p.addIneq("charge_power", map[int]float64{
			p.hourVar(h, ohCharge): 1, ivBessMWh: -bessMWPerMWh,
		}, 0)
		p.addIneq("discharge_power", map[int]float64{
			p.hourVar(h, ohDischarge): 1, ivBessMWh: -bessMWPerMWh,
		}, 0)
		p.addIneq("soc_ceiling", map[int]float64{
			p.hourVar(h, ohSoC): 1, ivBessMWh: -1,
		}, 0)
		p.addIneq("soc_floor", map[int]float64{
			p.hourVar(h, ohSoC): -1, ivBessMWh: MinSoCFraction,
		}, 0)
		p.addIneq("curtail_flex", map[int]float64{
			p.hourVar(h, ohCurtail): 1,
		}, in.Profile.FlexTotalMW(h))

		// Nonnegativity for the dispatch block.
		for _, v := range []int{ohRecip, ohTurbine, ohGrid, ohCharge, ohDischarge, ohCurtail} {
			p.addIneq("nonneg", map[int]float64{p.hourVar(h, v): -1}, 0)
		}

		// SoC dynamics; each representative week starts at half charge.
		if h%HoursPerWeek == 0 {
			p.addEq(map[int]float64{
				p.hourVar(h, ohSoC):       1,
				ivBessMWh:                 -0.5,
				p.hourVar(h, ohCharge):    -OneWayEfficiency,
				p.hourVar(h, ohDischarge): 1 / OneWayEfficiency,
			}, 0)
		} else {
			p.addEq(map[int]float64{
				p.hourVar(h, ohSoC):       1,
				p.hourVar(h-1, ohSoC):     -1,
				p.hourVar(h, ohCharge):    -OneWayEfficiency,
				p.hourVar(h, ohDischarge): 1 / OneWayEfficiency,
			}, 0)
		}

		// DR capacity must be deliverable in every peak-window hour after
		// whatever reliability curtailment the plan already leans on.
		if in.DRProduct != nil && loadmodel.InPeakWindow(h%24) {
			p.addIneq("dr_window", map[int]float64{
				ivDRMW: 1, p.hourVar(h, ohCurtail): 1,
			}, in.Profile.FlexTotalMW(h))
		}
	}
}

func (p *Problem) buildScalar(in Inputs, bessMWPerMWh float64) {
	specs := in.Snap.Specs
	params := in.Snap.Params
	n := p.NumHours

	// Fleet bounds: non-decreasing from the previous year, search caps from
	// the site limits.
	p.addIneq("min_recips", map[int]float64{ivRecips: -1}, -float64(in.Prev.Recips))
	p.addIneq("min_turbines", map[int]float64{ivTurbines: -1}, -float64(in.Prev.Turbines))
	p.addIneq("min_bess", map[int]float64{ivBessMWh: -1}, -in.Prev.StorageMWh)
	p.addIneq("min_solar", map[int]float64{ivSolarMW: -1}, -in.Prev.SolarMW)
	p.addIneq("min_grid", map[int]float64{ivGridMW: -1}, -in.Prev.GridMW)
	if in.Limits.MaxRecips > 0 {
		p.addIneq("max_recips", map[int]float64{ivRecips: 1}, float64(in.Limits.MaxRecips))
	}
	if in.Limits.MaxTurbines > 0 {
		p.addIneq("max_turbines", map[int]float64{ivTurbines: 1}, float64(in.Limits.MaxTurbines))
	}

	// Grid gated by the interconnection year.
	gridCap := 0.0
	if in.Limits.GridAvailable(in.Year) {
		gridCap = in.Limits.GridCapacityMW
	}
	p.addIneq("grid_capacity", map[int]float64{ivGridMW: 1}, gridCap)

	// Land: equipment shares what the datacenter, substation and
	// infrastructure leave behind.
	fixedLand := in.Peak/params.DatacenterMWPerAcre + params.SubstationAcres +
		in.Site.LandAcres*params.InfrastructureFraction
	equipLand := in.Site.LandAcres - fixedLand
	p.addIneq("land", map[int]float64{
		ivRecips:   specs.Recip.UnitMW * specs.Recip.LandAcresPerMW,
		ivTurbines: specs.Turbine.UnitMW * specs.Turbine.LandAcresPerMW,
		ivBessMWh:  bessMWPerMWh * specs.Storage.LandAcresPerMW,
		ivSolarMW:  specs.Solar.LandAcresPerMW,
	}, equipLand)

	// Solar only above the utility threshold; the builder decides up front
	// since the threshold is a step the LP cannot express.
	alloc := constraint.AllocateLand(in.Site, in.Prev, specs, params, in.Peak)
	p.addIneq("max_solar", map[int]float64{ivSolarMW: 1}, constraint.MaxSolarMW(alloc, specs))

	// Annual permit limits over weighted representative hours.
	noxRecip := specs.Recip.HeatRateBTUPerKWh / 1000 * specs.Recip.NOxRateLbPerMMBTU / 2000
	noxTurb := specs.Turbine.HeatRateBTUPerKWh / 1000 * specs.Turbine.NOxRateLbPerMMBTU / 2000
	if in.Limits.NOxTonsPerYear > 0 {
		coeffs := make(map[int]float64, 2*n)
		for h := 0; h < n; h++ {
			coeffs[p.hourVar(h, ohRecip)] = in.Weights[h] * noxRecip
			coeffs[p.hourVar(h, ohTurbine)] = in.Weights[h] * noxTurb
		}
		p.addIneq("nox_annual", coeffs, in.Limits.NOxTonsPerYear)
	}
	if in.Limits.CO2TonsPerYear > 0 {
		coeffs := make(map[int]float64, 2*n)
		for h := 0; h < n; h++ {
			coeffs[p.hourVar(h, ohRecip)] = in.Weights[h] * specs.Recip.HeatRateBTUPerKWh / 1000 * constraint.CO2LbPerMMBTU / 2000
			coeffs[p.hourVar(h, ohTurbine)] = in.Weights[h] * specs.Turbine.HeatRateBTUPerKWh / 1000 * constraint.CO2LbPerMMBTU / 2000
		}
		p.addIneq("co2_annual", coeffs, in.Limits.CO2TonsPerYear)
	}
	if in.Limits.GasMCFPerDay > 0 {
		coeffs := make(map[int]float64, 2*n)
		for h := 0; h < n; h++ {
			coeffs[p.hourVar(h, ohRecip)] = in.Weights[h] * specs.Recip.GasMCFPerMWh
			coeffs[p.hourVar(h, ohTurbine)] = in.Weights[h] * specs.Turbine.GasMCFPerMWh
		}
		p.addIneq("gas_annual", coeffs, in.Limits.GasMCFPerDay*365)
	}

	// Curtailment budget against required energy.
	budget := in.CurtailBudgetFraction
	if budget <= 0 {
		budget = 0.01
	}
	coeffs := make(map[int]float64, n)
	for h := 0; h < n; h++ {
		coeffs[p.hourVar(h, ohCurtail)] = in.Weights[h]
	}
	p.addIneq("curtail_budget", coeffs, budget*p.RequiredEnergy)

	// Firm capacity with the largest credible unit out.
	largest := specs.Recip.UnitMW
	if in.Limits.MaxTurbines != 0 && specs.Turbine.UnitMW > largest {
		largest = specs.Turbine.UnitMW
	}
	if params.NMinus1Required {
		p.addIneq("firm_n1", map[int]float64{
			ivRecips:   -specs.Recip.UnitMW,
			ivTurbines: -specs.Turbine.UnitMW,
			ivBessMWh:  -params.StorageCapacityCredit * bessMWPerMWh,
		}, -(in.Peak + largest))
	} else {
		p.addIneq("firm", map[int]float64{
			ivRecips:   -specs.Recip.UnitMW,
			ivTurbines: -specs.Turbine.UnitMW,
			ivBessMWh:  -params.StorageCapacityCredit * bessMWPerMWh,
		}, -in.Peak)
	}

	// Ramp capability.
	p.addIneq("ramp", map[int]float64{
		ivRecips:   -specs.Recip.UnitMW * specs.Recip.RampPctPerMin / 100,
		ivTurbines: -specs.Turbine.UnitMW * specs.Turbine.RampPctPerMin / 100,
		ivBessMWh:  -bessMWPerMWh * specs.Storage.RampPctPerMin / 100,
	}, -in.RampRequiredMWPerMin)

	// DR capacity is non-negative and switched off without a product.
	p.addIneq("nonneg", map[int]float64{ivDRMW: -1}, 0)
	if in.DRProduct == nil {
		p.addEq(map[int]float64{ivDRMW: 1}, 0)
	}
}
