package planner

import (
	"context"
	"testing"

	"github.com/DougMackenzie/energy-optimizer/core/backend"
	"github.com/DougMackenzie/energy-optimizer/core/model"
)

func testSnapshot() backend.Snapshot {
	return backend.Snapshot{Specs: backend.DefaultSpecs(), Params: backend.DefaultParams()}
}

func testTrajectory() model.LoadTrajectory {
	return model.LoadTrajectory{
		PeakMWByYear: map[int]float64{
			2026: 0, 2027: 100, 2028: 200, 2029: 300, 2030: 450, 2031: 600,
		},
		WorkloadMix: map[model.WorkloadCategory]float64{
			model.WorkloadPreTraining:       40,
			model.WorkloadBatchInference:    30,
			model.WorkloadRealtimeInference: 30,
		},
		Flexibility: map[model.WorkloadCategory]model.FlexibilitySpec{
			model.WorkloadPreTraining:    {Fraction: 0.30},
			model.WorkloadBatchInference: {Fraction: 0.90},
		},
		CoolingFlex: 0.25,
		PUE:         1.25,
		LoadFactor:  0.85,
	}
}

func testSite() model.Site {
	return model.Site{Name: "campus", LandAcres: 3000}
}

func testLimits() model.Limits {
	return model.Limits{
		NOxTonsPerYear:    4000,
		LandAcres:         3000,
		GridAvailableYear: 2031,
		GridCapacityMW:    600,
		MaxRecips:         120,
		MaxTurbines:       20,
	}
}

func TestPlanGridZeroBeforeInterconnection(t *testing.T) {
	p := New(testSite(), testLimits(), testSnapshot(), nil)
	res, err := p.Plan(context.Background(), testTrajectory(), Options{Seed: 7})
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}

	for year, fleet := range res.FleetByYear {
		if year < 2031 && fleet.GridMW != 0 {
			t.Fatalf("year %d: grid %.1f MW before interconnection", year, fleet.GridMW)
		}
	}
}

func TestPlanNonDecreasingFleet(t *testing.T) {
	p := New(testSite(), testLimits(), testSnapshot(), nil)
	res, err := p.Plan(context.Background(), testTrajectory(), Options{Seed: 7})
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}

	traj := testTrajectory()
	years := traj.Years()
	for i := 1; i < len(years); i++ {
		prev, cur := res.FleetByYear[years[i-1]], res.FleetByYear[years[i]]
		if cur.Recips < prev.Recips || cur.Turbines < prev.Turbines ||
			cur.StorageMW < prev.StorageMW || cur.SolarMW < prev.SolarMW {
			t.Fatalf("fleet shrank between %d and %d", years[i-1], years[i])
		}
	}
}

func TestPlanFirmCapacityCoversPeak(t *testing.T) {
	snap := testSnapshot()
	p := New(testSite(), testLimits(), snap, nil)
	res, err := p.Plan(context.Background(), testTrajectory(), Options{Seed: 7})
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}

	// Mid-trajectory years have had time to procure; firm N-1 must clear
	// the peak there.
	fleet := res.FleetByYear[2030]
	firm := fleet.FirmN1MW(snap.Specs, snap.Params.StorageCapacityCredit)
	if firm < 450 {
		t.Fatalf("2030 firm N-1 = %.1f MW, want >= 450", firm)
	}
}

func TestPlanLeadTimeGating(t *testing.T) {
	p := New(testSite(), testLimits(), testSnapshot(), nil)
	res, err := p.Plan(context.Background(), testTrajectory(), Options{Seed: 7})
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}

	// Recips carry a 24-month lead; nothing thermal can be on the ground in
	// the first two years.
	if f := res.FleetByYear[2026]; f.Recips != 0 || f.Turbines != 0 {
		t.Fatalf("2026 fleet has thermal before lead time: %+v", f)
	}
	if f := res.FleetByYear[2027]; f.Recips != 0 {
		t.Fatalf("2027 fleet has recips before 24-month lead time: %+v", f)
	}
}

func TestPlanBrownfieldLowerBound(t *testing.T) {
	p := New(testSite(), testLimits(), testSnapshot(), nil)
	existing := model.Fleet{Recips: 8, StorageMW: 20, StorageMWh: 80}
	res, err := p.Plan(context.Background(), testTrajectory(), Options{Seed: 7, Brownfield: existing})
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	for year, fleet := range res.FleetByYear {
		if fleet.Recips < 8 || fleet.StorageMW < 20 {
			t.Fatalf("year %d: brownfield equipment lost: %+v", year, fleet)
		}
	}
}

func TestPlanResultShape(t *testing.T) {
	p := New(testSite(), testLimits(), testSnapshot(), nil)
	res, err := p.Plan(context.Background(), testTrajectory(), Options{Seed: 7})
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}

	if res.RunID == "" || res.Engine != "heuristic" {
		t.Fatalf("bad result identity: %q %q", res.RunID, res.Engine)
	}
	if res.Economics.LCOE <= 0 {
		t.Fatalf("LCOE = %.2f, want > 0", res.Economics.LCOE)
	}
	if res.TimelineMonths <= 0 {
		t.Fatal("timeline missing")
	}
	if len(res.DispatchByYear) != len(testTrajectory().Years()) {
		t.Fatal("dispatch missing for some years")
	}
}

func TestPlanInfeasibleTinyNOx(t *testing.T) {
	limits := testLimits()
	limits.NOxTonsPerYear = 1 // impossible permit for a thermal-only site
	limits.GridAvailableYear = 0

	p := New(testSite(), limits, testSnapshot(), nil)
	res, err := p.Plan(context.Background(), testTrajectory(), Options{Seed: 7})
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if res.Feasible {
		t.Fatal("1 ton/yr NOx with no grid cannot be feasible")
	}
	if len(res.Violations) == 0 {
		t.Fatal("violations must be populated when infeasible")
	}
}

func TestPlanCurtailBudgetReachesDispatch(t *testing.T) {
	// Starve the fleet so the shortfall is limited only by the budget: what
	// the dispatch curtails then reflects the configured fraction directly.
	limits := testLimits()
	limits.NOxTonsPerYear = 1
	limits.GridAvailableYear = 0

	curtailed := func(budget float64) float64 {
		p := New(testSite(), limits, testSnapshot(), nil)
		res, err := p.Plan(context.Background(), testTrajectory(), Options{
			Seed:                  7,
			CurtailBudgetFraction: budget,
		})
		if err != nil {
			t.Fatalf("Plan: %v", err)
		}
		total := 0.0
		for _, sched := range res.DispatchByYear {
			total += sched.CurtailedMWh
		}
		return total
	}

	narrow := curtailed(0) // simulator default, 1%
	wide := curtailed(0.10)
	if wide <= narrow {
		t.Fatalf("10%% budget curtailed %.1f MWh, not above default's %.1f", wide, narrow)
	}
}

func TestPlanInvalidTrajectory(t *testing.T) {
	p := New(testSite(), testLimits(), testSnapshot(), nil)
	traj := testTrajectory()
	traj.WorkloadMix[model.WorkloadPreTraining] = 90 // sums past 100

	if _, err := p.Plan(context.Background(), traj, Options{}); err == nil {
		t.Fatal("invalid mix must error")
	}
}
