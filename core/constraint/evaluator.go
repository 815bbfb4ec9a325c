package constraint

import (
	"fmt"

	"github.com/DougMackenzie/energy-optimizer/core/backend"
	"github.com/DougMackenzie/energy-optimizer/core/model"
	"github.com/DougMackenzie/energy-optimizer/infra/logger"
)

// SoftTolerance is the fractional band above a soft limit before it is
// reported as violated. Average daily fuel draw in particular can swing with
// dispatch weather without the contract actually being breached.
const SoftTolerance = 0.10

// RampFactors are each workload category's contribution to the worst-case
// load step, as a fraction of the category's peak draw per minute. Realtime
// inference dominates; pre-training and batch jobs step slowly enough to be
// ramp-neutral.
var RampFactors = map[model.WorkloadCategory]float64{
	model.WorkloadPreTraining:       0.00,
	model.WorkloadFineTuning:        0.05,
	model.WorkloadBatchInference:    0.00,
	model.WorkloadRealtimeInference: 0.50,
	model.WorkloadRLTraining:        0.10,
	model.WorkloadCloudHPC:          0.02,
}

// CoolingRampFactor is the cooling plant's share of the worst-case step.
const CoolingRampFactor = 0.02

// Report is the full constraint picture for one configuration-year.
type Report struct {
	Year    int
	Results []model.ConstraintResult

	Land         model.LandAllocation
	Ramp         model.RampAnalysis
	Availability AvailabilityAnalysis

	// HardViolations lists the names of violated hard constraints. Empty
	// means the year is feasible.
	HardViolations []string
}

// Feasible reports whether no hard constraint is violated.
func (r *Report) Feasible() bool { return len(r.HardViolations) == 0 }

// Binding returns the names of constraints at or above 95% utilization.
func (r *Report) Binding() []string {
	var names []string
	for _, c := range r.Results {
		if s := c.Status(); s == model.StatusBinding || s == model.StatusViolated {
			names = append(names, c.Name)
		}
	}
	return names
}

// PrimaryBinding returns the constraint with the highest utilization, or ""
// when nothing binds.
func (r *Report) PrimaryBinding() string {
	best := ""
	bestUtil := 0.0
	for _, c := range r.Results {
		if u := c.Utilization(); (c.Binding() || c.Violated()) && u > bestUtil {
			best, bestUtil = c.Name, u
		}
	}
	return best
}

// Evaluator checks a fleet and its dispatch against the site limits.
type Evaluator struct {
	site   model.Site
	limits model.Limits
	snap   backend.Snapshot
	log    logger.Logger
}

// NewEvaluator builds an evaluator for one site.
func NewEvaluator(site model.Site, limits model.Limits, snap backend.Snapshot, log logger.Logger) *Evaluator {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Evaluator{site: site, limits: limits, snap: snap, log: log}
}

// Evaluate runs every constraint check for one year. The dispatch schedule
// supplies annual generation by source; the trajectory supplies the demand
// composition behind the ramp requirement.
func (e *Evaluator) Evaluate(fleet model.Fleet, sched *model.DispatchSchedule, traj model.LoadTrajectory, peakMW float64) *Report {
	specs := e.snap.Specs
	params := e.snap.Params

	rep := &Report{Year: fleet.Year}

	recipMWh := sched.GenerationBySource["recip"]
	turbineMWh := sched.GenerationBySource["turbine"]

	// Permit limits. A zero limit means the permit does not cap that
	// pollutant.
	if e.limits.NOxTonsPerYear > 0 {
		nox := NOxTons(recipMWh, specs.Recip.HeatRateBTUPerKWh, specs.Recip.NOxRateLbPerMMBTU) +
			NOxTons(turbineMWh, specs.Turbine.HeatRateBTUPerKWh, specs.Turbine.NOxRateLbPerMMBTU)
		rep.add(model.ConstraintResult{
			Name: "nox_emissions", Value: nox, Limit: e.limits.NOxTonsPerYear,
			Unit: "tons/yr", Kind: model.ConstraintHard,
		})
	}

	if e.limits.CO2TonsPerYear > 0 {
		co2 := CO2Tons(recipMWh, specs.Recip.HeatRateBTUPerKWh) +
			CO2Tons(turbineMWh, specs.Turbine.HeatRateBTUPerKWh)
		rep.add(model.ConstraintResult{
			Name: "co2_emissions", Value: co2, Limit: e.limits.CO2TonsPerYear,
			Unit: "tons/yr", Kind: model.ConstraintHard,
		})
	}

	if e.limits.GasMCFPerDay > 0 {
		gas := GasMCFPerDay(recipMWh, specs.Recip.GasMCFPerMWh) +
			GasMCFPerDay(turbineMWh, specs.Turbine.GasMCFPerMWh)
		rep.add(model.ConstraintResult{
			Name: "gas_supply", Value: gas, Limit: e.limits.GasMCFPerDay,
			Unit: "MCF/day", Kind: model.ConstraintSoft, Tolerance: SoftTolerance,
		})
	}

	// Land.
	rep.Land = AllocateLand(e.site, fleet, specs, params, peakMW)
	landLimit := e.limits.LandAcres
	if landLimit <= 0 {
		landLimit = e.site.LandAcres
	}
	rep.add(model.ConstraintResult{
		Name: "land_use", Value: rep.Land.TotalUsedAcres, Limit: landLimit,
		Unit: "acres", Kind: model.ConstraintSoft, Tolerance: SoftTolerance,
	})

	// Reliability. Required capacity goes in Value and available in Limit so
	// the shared utilization logic reads a shortfall as a violation.
	if params.NMinus1Required {
		firm := fleet.FirmN1MW(specs, params.StorageCapacityCredit)
		rep.add(model.ConstraintResult{
			Name: "firm_capacity_n1", Value: peakMW, Limit: firm,
			Unit: "MW", Kind: model.ConstraintHard,
		})
	} else {
		rep.add(model.ConstraintResult{
			Name: "firm_capacity", Value: peakMW, Limit: fleet.FirmMW(specs, params.StorageCapacityCredit),
			Unit: "MW", Kind: model.ConstraintHard,
		})
	}

	// Ramp.
	rep.Ramp = e.rampAnalysis(fleet, traj, peakMW)
	if sched.MaxRampMWPerMin > rep.Ramp.MaxObservedMWPerMin {
		rep.Ramp.MaxObservedMWPerMin = sched.MaxRampMWPerMin
	}
	rep.add(model.ConstraintResult{
		Name: "ramp_capability", Value: rep.Ramp.RequiredMWPerMin, Limit: rep.Ramp.AvailableMWPerMin,
		Unit: "MW/min", Kind: model.ConstraintHard,
	})

	// Interconnection.
	if fleet.GridMW > 0 {
		rep.add(model.ConstraintResult{
			Name: "grid_capacity", Value: fleet.GridMW, Limit: e.limits.GridCapacityMW,
			Unit: "MW", Kind: model.ConstraintHard,
		})
		if !e.limits.GridAvailable(fleet.Year) {
			rep.HardViolations = append(rep.HardViolations,
				fmt.Sprintf("grid_capacity: %0.f MW imported in %d before interconnection year %d",
					fleet.GridMW, fleet.Year, e.limits.GridAvailableYear))
		}
	}

	rep.Availability = FleetAvailability(fleet, specs, peakMW)

	for _, c := range rep.Results {
		if c.Kind == model.ConstraintHard && c.Violated() {
			rep.HardViolations = append(rep.HardViolations,
				fmt.Sprintf("%s: %.1f %s exceeds limit %.1f", c.Name, c.Value, c.Unit, c.Limit))
		}
	}
	if len(rep.HardViolations) > 0 {
		e.log.Warnf("year %d infeasible: %d hard constraint(s) violated", fleet.Year, len(rep.HardViolations))
	}
	return rep
}

func (e *Evaluator) rampAnalysis(fleet model.Fleet, traj model.LoadTrajectory, peakMW float64) model.RampAnalysis {
	required := RequiredRampMWPerMin(traj, peakMW)
	available := fleet.RampMWPerMin(e.snap.Specs)
	return model.RampAnalysis{
		RequiredMWPerMin:  required,
		AvailableMWPerMin: available,
		MarginMWPerMin:    available - required,
	}
}

// RequiredRampMWPerMin is the worst-case simultaneous load step for a peak
// at the trajectory's workload composition.
func RequiredRampMWPerMin(traj model.LoadTrajectory, peakMW float64) float64 {
	if traj.PUE <= 0 {
		return 0
	}
	peakIT := peakMW / traj.PUE
	required := 0.0
	for w, pct := range traj.WorkloadMix {
		required += peakIT * pct / 100 * RampFactors[w]
	}
	return required + (peakMW-peakIT)*CoolingRampFactor
}

func (r *Report) add(c model.ConstraintResult) {
	r.Results = append(r.Results, c)
}
