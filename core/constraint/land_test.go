package constraint

import (
	"math"
	"testing"

	"github.com/DougMackenzie/energy-optimizer/core/backend"
	"github.com/DougMackenzie/energy-optimizer/core/model"
)

func TestAllocateLandPriority(t *testing.T) {
	specs := backend.DefaultSpecs()
	params := backend.DefaultParams()
	site := model.Site{LandAcres: 2000}
	fleet := model.Fleet{Recips: 30, StorageMW: 100}

	alloc := AllocateLand(site, fleet, specs, params, 300)

	if math.Abs(alloc.DatacenterAcres-100) > 1e-9 {
		t.Fatalf("datacenter = %.1f acres, want 100", alloc.DatacenterAcres)
	}
	if alloc.SubstationAcres != 10 {
		t.Fatalf("substation = %.1f acres, want 10", alloc.SubstationAcres)
	}
	if math.Abs(alloc.InfrastructureAcres-200) > 1e-9 {
		t.Fatalf("infrastructure = %.1f acres, want 200", alloc.InfrastructureAcres)
	}
	if math.Abs(alloc.ThermalAcres-150) > 1e-9 {
		t.Fatalf("thermal = %.1f acres, want 150", alloc.ThermalAcres)
	}
	if math.Abs(alloc.StorageAcres-25) > 1e-9 {
		t.Fatalf("storage = %.1f acres, want 25", alloc.StorageAcres)
	}

	// 2000 - 485 = 1515 acres left, above the 800-acre threshold.
	if math.Abs(alloc.SolarAvailableAcres-1515) > 1e-9 {
		t.Fatalf("solar available = %.1f acres, want 1515", alloc.SolarAvailableAcres)
	}
	if got := MaxSolarMW(alloc, specs); math.Abs(got-303) > 1e-9 {
		t.Fatalf("max solar = %.1f MW, want 303", got)
	}
}

func TestAllocateLandPerClassFootprint(t *testing.T) {
	specs := backend.DefaultSpecs()
	specs.Turbine.LandAcresPerMW = 1.0 // twice the recip footprint
	params := backend.DefaultParams()

	fleet := model.Fleet{Recips: 10, Turbines: 2} // 100 MW recip, 100 MW turbine
	alloc := AllocateLand(model.Site{LandAcres: 2000}, fleet, specs, params, 300)

	want := 100*0.5 + 100*1.0
	if math.Abs(alloc.ThermalAcres-want) > 1e-9 {
		t.Fatalf("thermal = %.1f acres, want %.1f (per-class coefficients)", alloc.ThermalAcres, want)
	}
	if got := fleet.LandAcres(specs); math.Abs(got-want) > 1e-9 {
		t.Fatalf("fleet footprint = %.1f acres, want %.1f", got, want)
	}
}

func TestAllocateLandSolarThreshold(t *testing.T) {
	specs := backend.DefaultSpecs()
	params := backend.DefaultParams()

	// Small site: the residual after equipment is below 800 acres, so solar
	// gets nothing even though land remains.
	site := model.Site{LandAcres: 600}
	alloc := AllocateLand(site, model.Fleet{Recips: 30}, specs, params, 300)

	if alloc.SolarAvailableAcres != 0 {
		t.Fatalf("solar available = %.1f acres, want 0 below threshold", alloc.SolarAvailableAcres)
	}
	if MaxSolarMW(alloc, specs) != 0 {
		t.Fatal("max solar must be 0 below threshold")
	}
}
