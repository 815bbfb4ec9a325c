package constraint

import (
	"math"
	"testing"

	"github.com/DougMackenzie/energy-optimizer/core/backend"
	"github.com/DougMackenzie/energy-optimizer/core/model"
)

func TestKOfN(t *testing.T) {
	cases := []struct {
		n, k int
		p    float64
		want float64
	}{
		{3, 0, 0.9, 1},
		{3, 4, 0.9, 0},
		{1, 1, 0.97, 0.97},
		// 2-of-3 at p=0.9: C(3,2)*0.81*0.1 + 0.729
		{3, 2, 0.9, 0.972},
	}
	for _, c := range cases {
		got := KOfN(c.n, c.k, c.p)
		if math.Abs(got-c.want) > 1e-9 {
			t.Errorf("KOfN(%d,%d,%.2f) = %.6f, want %.6f", c.n, c.k, c.p, got, c.want)
		}
	}
}

func TestSeriesParallel(t *testing.T) {
	if got := Series(0.9, 0.9); math.Abs(got-0.81) > 1e-12 {
		t.Fatalf("Series = %.6f, want 0.81", got)
	}
	if got := Parallel(0.9, 0.9); math.Abs(got-0.99) > 1e-12 {
		t.Fatalf("Parallel = %.6f, want 0.99", got)
	}
}

func TestFleetAvailabilityRedundancy(t *testing.T) {
	specs := backend.DefaultSpecs()

	// 30 recips against a 250 MW peak leaves 5 spare units; availability
	// should be close to 1 and strictly better than an exact-fit fleet.
	spare := FleetAvailability(model.Fleet{Recips: 30}, specs, 250)
	exact := FleetAvailability(model.Fleet{Recips: 25}, specs, 250)

	if spare.RecipsRequired != 25 {
		t.Fatalf("RecipsRequired = %d, want 25", spare.RecipsRequired)
	}
	if spare.SystemAvailability <= exact.SystemAvailability {
		t.Fatalf("spare fleet availability %.6f not above exact-fit %.6f",
			spare.SystemAvailability, exact.SystemAvailability)
	}
	if spare.SystemAvailability < 0.99 {
		t.Fatalf("spare fleet availability %.6f, want >= 0.99", spare.SystemAvailability)
	}
}

func TestFleetAvailabilityNoThermal(t *testing.T) {
	specs := backend.DefaultSpecs()
	a := FleetAvailability(model.Fleet{GridMW: 300}, specs, 250)
	if math.Abs(a.SystemAvailability-specs.Grid.Availability) > 1e-12 {
		t.Fatalf("grid-only availability = %.6f, want %.6f", a.SystemAvailability, specs.Grid.Availability)
	}
}
