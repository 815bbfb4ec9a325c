package scenarios

import (
	"context"
	"fmt"
	"testing"

	corebackend "github.com/DougMackenzie/energy-optimizer/core/backend"
	"github.com/DougMackenzie/energy-optimizer/core/model"
	"github.com/DougMackenzie/energy-optimizer/core/planner"
	"github.com/DougMackenzie/energy-optimizer/infra/logger"
)

// Run plans the scenario with the heuristic engine. Each run resolves its
// own snapshot so scenarios can run in parallel.
func Run(ctx context.Context, sc *Scenario) (*model.OptimizationResult, error) {
	snap := corebackend.NewResolver(nil, logger.NopLogger{}).Resolve(ctx)

	site := model.Site{Name: sc.Site.Name, LandAcres: sc.Site.LandAcres}
	p := planner.New(site, sc.Limits.ToModel(), snap, logger.NopLogger{})
	return p.Plan(ctx, sc.Trajectory.ToModel(), planner.Options{Seed: sc.Seed})
}

// Check compares a result against the scenario's expectations and returns
// one message per failed expectation.
func Check(sc *Scenario, res *model.OptimizationResult) []string {
	var fails []string
	if res.Feasible != sc.Expected.Feasible {
		fails = append(fails, fmt.Sprintf("feasible = %t, want %t (violations: %v)",
			res.Feasible, sc.Expected.Feasible, res.Violations))
	}
	if sc.Expected.MaxLCOE > 0 && res.Economics.LCOE > sc.Expected.MaxLCOE {
		fails = append(fails, fmt.Sprintf("LCOE %.2f above ceiling %.2f", res.Economics.LCOE, sc.Expected.MaxLCOE))
	}
	if sc.Expected.MinLCOE > 0 && res.Economics.LCOE < sc.Expected.MinLCOE {
		fails = append(fails, fmt.Sprintf("LCOE %.2f below floor %.2f", res.Economics.LCOE, sc.Expected.MinLCOE))
	}
	if sc.Expected.GridZeroBy > 0 {
		for year, fleet := range res.FleetByYear {
			if year < sc.Expected.GridZeroBy && fleet.GridMW != 0 {
				fails = append(fails, fmt.Sprintf("year %d imports %.1f MW before %d",
					year, fleet.GridMW, sc.Expected.GridZeroBy))
			}
		}
	}
	return fails
}

// RunScenario runs one scenario and reports expectation failures on t.
func RunScenario(t *testing.T, sc *Scenario) {
	res, err := Run(context.Background(), sc)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	for _, msg := range Check(sc, res) {
		t.Errorf("scenario %s: %s", sc.Name, msg)
	}
}
