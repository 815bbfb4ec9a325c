package repopt

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/DougMackenzie/energy-optimizer/core/backend"
	"github.com/DougMackenzie/energy-optimizer/core/constraint"
	"github.com/DougMackenzie/energy-optimizer/core/dispatchsim"
	"github.com/DougMackenzie/energy-optimizer/core/econ"
	"github.com/DougMackenzie/energy-optimizer/core/loadmodel"
	"github.com/DougMackenzie/energy-optimizer/core/metrics"
	"github.com/DougMackenzie/energy-optimizer/core/model"
	"github.com/DougMackenzie/energy-optimizer/infra/logger"
)

// Options tune a representative-period run.
type Options struct {
	Seed  int64
	Weeks []RepWeek

	Brownfield model.Fleet

	DRProductID  string
	DREventHours float64

	CurtailBudgetFraction float64

	// SolveTimeout bounds the total LP time. Zero means no limit.
	SolveTimeout time.Duration

	// Metrics receives per-year solve events when it implements
	// metrics.SolveRecorder. Nil disables recording.
	Metrics metrics.MetricsSink
}

// Optimizer runs the representative-period sizing engine.
type Optimizer struct {
	site   model.Site
	limits model.Limits
	snap   backend.Snapshot
	log    logger.Logger

	solver Solver
	sim    *dispatchsim.Simulator
	eval   *constraint.Evaluator
}

// New constructs an Optimizer. A nil solver defaults to the dense simplex.
func New(site model.Site, limits model.Limits, snap backend.Snapshot, solver Solver, log logger.Logger) *Optimizer {
	if log == nil {
		log = logger.NopLogger{}
	}
	if solver == nil {
		solver = &SimplexSolver{}
	}
	return &Optimizer{
		site:   site,
		limits: limits,
		snap:   snap,
		log:    log,
		solver: solver,
		sim:    dispatchsim.New(snap, limits, log),
		eval:   constraint.NewEvaluator(site, limits, snap, log),
	}
}

// Optimize sizes the fleet year by year over the representative weeks and
// validates each year with a full hourly dispatch. Like the heuristic,
// infeasibility is a reported outcome, not an error.
func (o *Optimizer) Optimize(ctx context.Context, traj model.LoadTrajectory, opts Options) (*model.OptimizationResult, error) {
	if err := loadmodel.Validate(traj); err != nil {
		return nil, fmt.Errorf("invalid trajectory: %w", err)
	}
	start := time.Now()

	if opts.SolveTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.SolveTimeout)
		defer cancel()
	}

	// The validation dispatch must run against the same budget the LP
	// sized with.
	o.sim.CurtailBudgetFraction = opts.CurtailBudgetFraction

	weeks := opts.Weeks
	if len(weeks) == 0 {
		weeks = DefaultWeeks()
	}
	weights := HourWeights(weeks)
	gen := loadmodel.Generator{Seed: opts.Seed}

	var drProduct *loadmodel.DRProduct
	res := &model.OptimizationResult{
		RunID:          uuid.NewString(),
		Engine:         "representative-period",
		Feasible:       true,
		FleetByYear:    make(map[int]model.Fleet),
		DispatchByYear: make(map[int]*model.DispatchSchedule),
		ShadowPrices:   make(map[string]float64),
		Warnings:       append([]string(nil), o.snap.Warnings...),
	}
	if opts.DRProductID != "" {
		p, err := loadmodel.ProductByID(opts.DRProductID)
		if err != nil {
			return nil, err
		}
		drProduct = &p
	}

	prev := opts.Brownfield
	drMW := 0.0
	var lastReport *constraint.Report

	for _, year := range traj.Years() {
		if err := ctx.Err(); err != nil && len(res.FleetByYear) == 0 {
			return nil, err
		}
		peak := traj.PeakMWByYear[year]

		full, err := gen.Profile(traj, peak, loadmodel.HoursPerYear)
		if err != nil {
			return nil, err
		}
		solarUnit := gen.SolarProfile(1, loadmodel.HoursPerYear)

		problem := BuildProblem(Inputs{
			Site:                  o.site,
			Limits:                o.limits,
			Snap:                  o.snap,
			Year:                  year,
			Peak:                  peak,
			Profile:               SliceProfile(full, weeks),
			SolarUnit:             SliceSeries(solarUnit, weeks),
			Weights:               weights,
			Prev:                  prev,
			DRProduct:             drProduct,
			DREventHours:          opts.DREventHours,
			RampRequiredMWPerMin:  constraint.RequiredRampMWPerMin(traj, peak),
			CurtailBudgetFraction: opts.CurtailBudgetFraction,
		})

		solveStart := time.Now()
		sol, err := o.solver.Solve(ctx, problem)
		if err != nil {
			res.Feasible = false
			res.Violations = append(res.Violations, fmt.Sprintf("year %d: %v", year, err))
			// Carry the previous fleet forward so later years still solve
			// against a defined lower bound.
			sol = &Solution{Fleet: prev}
			sol.Fleet.Year = year
		}
		if rec, ok := opts.Metrics.(metrics.SolveRecorder); ok {
			ev := metrics.SolveEvent{
				RunID:     res.RunID,
				Engine:    res.Engine,
				Year:      year,
				Duration:  time.Since(solveStart),
				Incumbent: sol.Incumbent,
				Time:      time.Now(),
			}
			if err := rec.RecordSolve(ev); err != nil {
				o.log.Warnf("record solve metrics: %v", err)
			}
		}
		res.Warnings = append(res.Warnings, sol.Warnings...)
		if sol.Incumbent {
			o.log.Warnf("year %d: returning incumbent solution", year)
		}

		fleet := sol.Fleet.AtLeast(prev)
		fleet.Year = year

		// Full-resolution validation of the reduced-horizon sizing.
		solar := gen.SolarProfile(fleet.SolarMW, full.Len())
		sched := o.sim.Run(fleet, full, solar)
		report := o.eval.Evaluate(fleet, sched, traj, peak)
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
		drMW = sol.DRMW
		lastReport = report
	}

	if res.TotalEnergyRequiredMWh > 0 {
		res.LoadCoveragePct = 100 * (1 - res.TotalUnservedMWh/res.TotalEnergyRequiredMWh)
	}

	drRevenue := 0.0
	if drProduct != nil && drMW > 0 {
		drRevenue = drMW * (drProduct.CapacityPayment*8760 + drProduct.ActivationPayment*opts.DREventHours)
	}
	eco, warnings := econ.Evaluate(res.FleetByYear, res.DispatchByYear, o.snap, drRevenue)
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
		res.TimelineMonths = timelineMonths(final, o.snap.Specs)
	}
	res.SolveTime = time.Since(start)

	o.log.Infof("representative-period run %s: feasible=%t lcoe=%.2f solve=%s",
		res.RunID, res.Feasible, res.Economics.LCOE, res.SolveTime)
	return res, nil
}

func timelineMonths(fleet model.Fleet, specs model.EquipmentSpecs) int {
	longest := 0
	consider := func(deployed bool, t model.EquipmentType) {
		if deployed && t.LeadTimeMonths > longest {
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
