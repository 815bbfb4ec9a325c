package loadmodel

import (
	"math"
	"testing"

	"github.com/DougMackenzie/energy-optimizer/core/model"
)

func testTrajectory() model.LoadTrajectory {
	return model.LoadTrajectory{
		PeakMWByYear: map[int]float64{2028: 300},
		WorkloadMix: map[model.WorkloadCategory]float64{
			model.WorkloadPreTraining:       40,
			model.WorkloadBatchInference:    30,
			model.WorkloadRealtimeInference: 30,
		},
		Flexibility: map[model.WorkloadCategory]model.FlexibilitySpec{
			model.WorkloadPreTraining:       {Fraction: 0.30},
			model.WorkloadBatchInference:    {Fraction: 0.90},
			model.WorkloadRealtimeInference: {Fraction: 0.05},
		},
		CoolingFlex: 0.25,
		PUE:         1.25,
		LoadFactor:  0.85,
	}
}

func TestProfileBounds(t *testing.T) {
	p, err := Generator{Seed: 1}.Profile(testTrajectory(), 300, HoursPerYear)
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}
	if p.Len() != HoursPerYear {
		t.Fatalf("len = %d", p.Len())
	}
	for h := 0; h < p.Len(); h++ {
		if p.TotalMW[h] < 150 || p.TotalMW[h] > 300 {
			t.Fatalf("hour %d outside [0.5*peak, peak]: %v", h, p.TotalMW[h])
		}
	}
}

func TestProfileDecomposition(t *testing.T) {
	p, err := Generator{Seed: 1}.Profile(testTrajectory(), 300, 24*7)
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}
	for h := 0; h < p.Len(); h++ {
		if math.Abs(p.ITMW[h]+p.CoolingMW[h]-p.TotalMW[h]) > 1e-9 {
			t.Fatalf("hour %d: IT+cooling != total", h)
		}
		if math.Abs(p.FirmMW[h]+p.FlexTotalMW(h)-p.TotalMW[h]) > 1e-9 {
			t.Fatalf("hour %d: firm+flex != total", h)
		}
	}
	// Reduced horizon scales back to annual totals.
	if p.ScaleFactor != float64(HoursPerYear)/float64(24*7) {
		t.Fatalf("scale factor = %v", p.ScaleFactor)
	}
}

func TestProfileDeterministic(t *testing.T) {
	traj := testTrajectory()
	a, _ := Generator{Seed: 42}.Profile(traj, 300, 24*30)
	b, _ := Generator{Seed: 42}.Profile(traj, 300, 24*30)
	for h := 0; h < a.Len(); h++ {
		if a.TotalMW[h] != b.TotalMW[h] {
			t.Fatalf("hour %d differs across runs with same seed", h)
		}
	}
	c, _ := Generator{Seed: 43}.Profile(traj, 300, 24*30)
	same := true
	for h := 0; h < a.Len(); h++ {
		if a.TotalMW[h] != c.TotalMW[h] {
			same = false
			break
		}
	}
	if same {
		t.Fatal("different seeds produced identical profiles")
	}
}

func TestValidateRejectsBadMix(t *testing.T) {
	traj := testTrajectory()
	traj.WorkloadMix[model.WorkloadPreTraining] = 50 // sums to 110
	if _, err := (Generator{}).Profile(traj, 300, 0); err == nil {
		t.Fatal("invalid mix must be rejected")
	}
}

func TestSolarProfileShape(t *testing.T) {
	out := Generator{Seed: 1}.SolarProfile(100, HoursPerYear)
	for h, mw := range out {
		hourOfDay := h % 24
		if (hourOfDay < 6 || hourOfDay > 18) && mw != 0 {
			t.Fatalf("hour %d: solar output %v at night", h, mw)
		}
		if mw < 0 || mw > 100 {
			t.Fatalf("hour %d: output %v outside [0, capacity]", h, mw)
		}
	}
	if zero := (Generator{}).SolarProfile(0, 24); len(zero) != 24 {
		t.Fatal("zero capacity must still yield a full series")
	}
}

func TestDREconomicsGuaranteedIsPeakWindowMin(t *testing.T) {
	p, err := Generator{Seed: 1}.Profile(testTrajectory(), 300, HoursPerYear)
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}
	product, err := ProductByID("economic_dr")
	if err != nil {
		t.Fatalf("ProductByID: %v", err)
	}
	eco := Economics(p, product, 40)

	want := math.Inf(1)
	for h := 0; h < p.Len(); h++ {
		if !InPeakWindow(h % 24) {
			continue
		}
		flex := p.CoolingFlexMW[h]
		for _, w := range product.Compatible {
			flex += p.FlexMW[w][h]
		}
		if flex < want {
			want = flex
		}
	}
	if math.Abs(eco.GuaranteedMW-want) > 1e-9 {
		t.Fatalf("guaranteed = %v, want %v", eco.GuaranteedMW, want)
	}
	if eco.TotalRevenue != eco.CapacityRevenue+eco.ActivationRevenue {
		t.Fatal("revenue components must sum")
	}
	if eco.GuaranteedMW <= 0 {
		t.Fatal("profile with flexible load must credit some DR capacity")
	}
}

func TestProductByIDUnknown(t *testing.T) {
	if _, err := ProductByID("frequency_regulation"); err == nil {
		t.Fatal("unknown product must error")
	}
}
