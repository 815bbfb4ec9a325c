// Package planner builds a multi-year capacity plan with a staged heuristic:
// size for firm capacity first, then ramp, then energy-limited resources,
// with grid import last. Each candidate plan is validated by full hourly
// dispatch and the constraint evaluator; hard violations trigger bounded
// backtracking before the year is declared infeasible.
package planner

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/DougMackenzie/energy-optimizer/core/backend"
	"github.com/DougMackenzie/energy-optimizer/core/constraint"
	"github.com/DougMackenzie/energy-optimizer/core/dispatchsim"
	"github.com/DougMackenzie/energy-optimizer/core/econ"
	"github.com/DougMackenzie/energy-optimizer/core/loadmodel"
	"github.com/DougMackenzie/energy-optimizer/core/model"
	"github.com/DougMackenzie/energy-optimizer/infra/logger"
)

// ThermalPlanningCF is the capacity factor assumed when translating an
// annual emissions or fuel budget into a thermal capacity cap.
const ThermalPlanningCF = 0.85

// maxBacktracks bounds the repair loop per year.
const maxBacktracks = 8

// Options tune the heuristic without changing its semantics.
type Options struct {
	Seed int64

	// Brownfield is existing equipment that every year's fleet must include.
	Brownfield model.Fleet

	// DRProductID enables demand-response revenue in the economics when set.
	DRProductID string
	// DREventHours is the expected annual activation hours.
	DREventHours float64

	// CurtailBudgetFraction overrides the simulator's annual curtailment
	// budget when positive.
	CurtailBudgetFraction float64
}

// Planner produces heuristic capacity plans.
type Planner struct {
	site   model.Site
	limits model.Limits
	snap   backend.Snapshot
	log    logger.Logger

	sim  *dispatchsim.Simulator
	eval *constraint.Evaluator
}

// New constructs a Planner. The snapshot is shared read-only with the
// simulator and evaluator.
func New(site model.Site, limits model.Limits, snap backend.Snapshot, log logger.Logger) *Planner {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Planner{
		site:   site,
		limits: limits,
		snap:   snap,
		log:    log,
		sim:    dispatchsim.New(snap, limits, log),
		eval:   constraint.NewEvaluator(site, limits, snap, log),
	}
}

// Plan runs the heuristic over the full trajectory. It always returns a
// result; infeasibility is reported through Feasible and Violations, not an
// error. Errors are reserved for invalid input.
func (p *Planner) Plan(ctx context.Context, traj model.LoadTrajectory, opts Options) (*model.OptimizationResult, error) {
	if err := loadmodel.Validate(traj); err != nil {
		return nil, fmt.Errorf("invalid trajectory: %w", err)
	}
	start := time.Now()
	gen := loadmodel.Generator{Seed: opts.Seed}
	p.sim.CurtailBudgetFraction = opts.CurtailBudgetFraction

	res := &model.OptimizationResult{
		RunID:          uuid.NewString(),
		Engine:         "heuristic",
		Feasible:       true,
		FleetByYear:    make(map[int]model.Fleet),
		DispatchByYear: make(map[int]*model.DispatchSchedule),
		ShadowPrices:   make(map[string]float64),
		Warnings:       append([]string(nil), p.snap.Warnings...),
	}

	startYear := traj.StartYear()
	prev := opts.Brownfield
	var lastReport *constraint.Report

	for _, year := range traj.Years() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		peak := traj.PeakMWByYear[year]

		profile, err := gen.Profile(traj, peak, loadmodel.HoursPerYear)
		if err != nil {
			return nil, err
		}

		fleet := p.sizeYear(prev, year, startYear, peak, traj)
		fleet, sched, report := p.validateAndRepair(fleet, profile, gen, traj, peak, year, startYear)

		if !report.Feasible() {
			res.Feasible = false
			for _, v := range report.HardViolations {
				res.Violations = append(res.Violations, fmt.Sprintf("year %d: %s", year, v))
			}
		}

		res.FleetByYear[year] = fleet
		res.DispatchByYear[year] = sched
		res.Constraints = append(res.Constraints, report.Results...)
		res.TotalEnergyRequiredMWh += sched.EnergyRequiredMWh
		res.TotalEnergyDeliveredMWh += sched.EnergyDeliveredMWh
		res.TotalUnservedMWh += sched.UnservedMWh

		prev = fleet
		lastReport = report
	}

	if res.TotalEnergyRequiredMWh > 0 {
		res.LoadCoveragePct = 100 * (1 - res.TotalUnservedMWh/res.TotalEnergyRequiredMWh)
	}

	drRevenue := p.drRevenue(gen, traj, opts, res)
	eco, warnings := econ.Evaluate(res.FleetByYear, res.DispatchByYear, p.snap, drRevenue)
	res.Economics = eco
	res.Warnings = append(res.Warnings, warnings...)

	if lastReport != nil {
		res.BindingConstraints = lastReport.Binding()
		res.PrimaryBinding = lastReport.PrimaryBinding()
		res.Land = lastReport.Land
		res.Ramp = lastReport.Ramp
		res.ShadowPrices = econ.ShadowPrices(res.Economics.LCOE, res.BindingConstraints)
	}
	if final, ok := res.FinalFleet(); ok {
		res.TimelineMonths = p.timelineMonths(final)
	}
	res.SolveTime = time.Since(start)

	p.log.Infof("heuristic plan %s: feasible=%t lcoe=%.2f coverage=%.1f%%",
		res.RunID, res.Feasible, res.Economics.LCOE, res.LoadCoveragePct)
	return res, nil
}

// sizeYear grows the previous year's fleet to meet this year's peak. Stages
// run in lexicographic priority: firm capacity, ramp, land-limited solar,
// grid last.
func (p *Planner) sizeYear(prev model.Fleet, year, startYear int, peak float64, traj model.LoadTrajectory) model.Fleet {
	specs := p.snap.Specs
	params := p.snap.Params

	fleet := prev
	fleet.Year = year
	elapsed := (year - startYear) * 12

	canDeploy := func(t model.EquipmentType) bool { return elapsed >= t.LeadTimeMonths }
	gridAllowed := p.limits.GridAvailable(year) && canDeploy(specs.Grid)

	// Stage 1: firm capacity with N-1. Without grid backup the plan carries
	// one extra spare unit beyond the contingency.
	target := peak
	firm := func() float64 { return fleet.FirmN1MW(specs, params.StorageCapacityCredit) }
	if !params.NMinus1Required {
		firm = func() float64 { return fleet.FirmMW(specs, params.StorageCapacityCredit) }
	}

	thermalCap := p.thermalCapMW()
	for firm() < target {
		if p.addThermalUnit(&fleet, thermalCap, canDeploy) {
			continue
		}
		break
	}
	if !gridAllowed && fleet.Recips > 0 && fleet.Recips < p.maxRecips() && canDeploy(specs.Recip) {
		fleet.Recips++ // spare unit: no grid to lean on during maintenance
	}

	// Stage 2: ramp. Storage is the cheapest fast capacity; recips cover
	// whatever storage cannot.
	if canDeploy(specs.Storage) {
		need := constraint.RequiredRampMWPerMin(traj, peak)
		for i := 0; fleet.RampMWPerMin(specs) < need && i < 1000; i++ {
			fleet.StorageMW += specs.Storage.UnitMW * 10
			fleet.StorageMWh += specs.Storage.UnitMWh * 10
		}
		// Reliability storage floor: cover the largest unit for the storage
		// duration at the capacity credit.
		if minMW := fleet.LargestUnitMW(specs); fleet.StorageMW < minMW {
			fleet.StorageMW = minMW
			fleet.StorageMWh = minMW * params.StorageDurationHours
		}
	}

	// Stage 3: solar on residual land above the utility threshold.
	if canDeploy(specs.Solar) {
		alloc := constraint.AllocateLand(p.site, fleet, specs, params, peak)
		if maxSolar := constraint.MaxSolarMW(alloc, specs); maxSolar > fleet.SolarMW {
			fleet.SolarMW = maxSolar
		}
	}

	// Stage 4: grid import, last in merit. Sized to the remaining firm gap
	// or the full peak when it is the cheaper energy source.
	if gridAllowed {
		gap := target - firm()
		if gap > 0 {
			fleet.GridMW = math.Min(p.limits.GridCapacityMW, math.Max(fleet.GridMW, gap))
		}
		if params.ElectricityPrice < dispatchsim.MarginalCost(specs.Recip, params.GasPrice) {
			fleet.GridMW = math.Min(p.limits.GridCapacityMW, math.Max(fleet.GridMW, peak))
		}
	} else {
		fleet.GridMW = 0
	}

	return fleet.AtLeast(prev)
}

// validateAndRepair dispatches the candidate fleet and repairs hard
// violations by shifting capacity toward whichever resource has headroom.
func (p *Planner) validateAndRepair(fleet model.Fleet, profile *model.HourlyProfile,
	gen loadmodel.Generator, traj model.LoadTrajectory, peak float64, year, startYear int) (model.Fleet, *model.DispatchSchedule, *constraint.Report) {

	specs := p.snap.Specs
	elapsed := (year - startYear) * 12

	var sched *model.DispatchSchedule
	var report *constraint.Report
	for i := 0; ; i++ {
		solar := gen.SolarProfile(fleet.SolarMW, profile.Len())
		sched = p.sim.Run(fleet, profile, solar)
		report = p.eval.Evaluate(fleet, sched, traj, peak)
		if report.Feasible() || i >= maxBacktracks {
			return fleet, sched, report
		}

		repaired := fleet
		for _, c := range report.Results {
			if c.Kind != model.ConstraintHard || !c.Violated() {
				continue
			}
			switch c.Name {
			case "nox_emissions", "co2_emissions":
				// Swap recips for lower-emitting turbines, or shed thermal in
				// favor of grid when available.
				if repaired.Recips > 5 && repaired.Turbines < p.maxTurbines() && elapsed >= specs.Turbine.LeadTimeMonths {
					repaired.Recips -= 5
					repaired.Turbines++
				} else if p.limits.GridAvailable(year) {
					repaired.GridMW = math.Min(p.limits.GridCapacityMW, repaired.GridMW+peak*0.2)
				}
			case "firm_capacity_n1", "firm_capacity":
				if !p.addThermalUnit(&repaired, p.thermalCapMW(), func(t model.EquipmentType) bool {
					return elapsed >= t.LeadTimeMonths
				}) && p.limits.GridAvailable(year) {
					repaired.GridMW = math.Min(p.limits.GridCapacityMW, repaired.GridMW+specs.Turbine.UnitMW)
				}
			case "ramp_capability":
				repaired.StorageMW += specs.Storage.UnitMW * 10
				repaired.StorageMWh += specs.Storage.UnitMWh * 10
			case "grid_capacity":
				repaired.GridMW = math.Min(repaired.GridMW, p.limits.GridCapacityMW)
			}
		}
		if repaired == fleet {
			return fleet, sched, report // no move available, report as-is
		}
		fleet = repaired
	}
}

// addThermalUnit adds one recip, falling back to a turbine when the recip
// count is exhausted. Returns false when neither class can grow.
func (p *Planner) addThermalUnit(fleet *model.Fleet, thermalCapMW float64, canDeploy func(model.EquipmentType) bool) bool {
	specs := p.snap.Specs
	if thermalCapMW > 0 && fleet.ThermalMW(specs)+specs.Recip.UnitMW > thermalCapMW {
		return false
	}
	if fleet.Recips < p.maxRecips() && canDeploy(specs.Recip) {
		fleet.Recips++
		return true
	}
	if fleet.Turbines < p.maxTurbines() && canDeploy(specs.Turbine) {
		fleet.Turbines++
		return true
	}
	return false
}

// thermalCapMW converts the NOx and gas budgets into a thermal capacity
// ceiling at the planning capacity factor. Zero means unconstrained.
func (p *Planner) thermalCapMW() float64 {
	specs := p.snap.Specs
	cap := 0.0
	if p.limits.NOxTonsPerYear > 0 {
		// tons = MW * 8760 * CF * HR/1000 * rate / 2000
		perMW := constraint.NOxTons(8760*ThermalPlanningCF, specs.Recip.HeatRateBTUPerKWh, specs.Recip.NOxRateLbPerMMBTU)
		if perMW > 0 {
			cap = p.limits.NOxTonsPerYear / perMW
		}
	}
	if p.limits.GasMCFPerDay > 0 {
		perMW := constraint.GasMCFPerDay(8760*ThermalPlanningCF, specs.Recip.GasMCFPerMWh)
		if perMW > 0 {
			gasCap := p.limits.GasMCFPerDay / perMW
			if cap == 0 || gasCap < cap {
				cap = gasCap
			}
		}
	}
	return cap
}

func (p *Planner) maxRecips() int {
	if p.limits.MaxRecips > 0 {
		return p.limits.MaxRecips
	}
	return 200
}

func (p *Planner) maxTurbines() int {
	if p.limits.MaxTurbines > 0 {
		return p.limits.MaxTurbines
	}
	return 40
}

// drRevenue prices the configured DR product against the final year profile.
func (p *Planner) drRevenue(gen loadmodel.Generator, traj model.LoadTrajectory, opts Options, res *model.OptimizationResult) float64 {
	if opts.DRProductID == "" {
		return 0
	}
	product, err := loadmodel.ProductByID(opts.DRProductID)
	if err != nil {
		res.Warnings = append(res.Warnings, err.Error())
		return 0
	}
	profile, err := gen.Profile(traj, traj.PeakMWByYear[traj.EndYear()], loadmodel.HoursPerYear)
	if err != nil {
		return 0
	}
	return loadmodel.Economics(profile, product, opts.DREventHours).TotalRevenue
}

// timelineMonths is the procurement critical path for the final fleet plus a
// permitting margin.
func (p *Planner) timelineMonths(fleet model.Fleet) int {
	specs := p.snap.Specs
	longest := 0
	consider := func(n bool, t model.EquipmentType) {
		if n && t.LeadTimeMonths > longest {
			longest = t.LeadTimeMonths
		}
	}
	consider(fleet.Recips > 0, specs.Recip)
	consider(fleet.Turbines > 0, specs.Turbine)
	consider(fleet.StorageMW > 0, specs.Storage)
	consider(fleet.SolarMW > 0, specs.Solar)
	consider(fleet.GridMW > 0, specs.Grid)
	if longest == 0 {
		return 0
	}
	return longest + 2
}
