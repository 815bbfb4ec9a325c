package repopt

import (
	"context"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// tinyProblem is small enough to inspect by hand: one hour, all scalar
// variables present.
func tinyProblem() *Problem {
	p := &Problem{
		Year:         2026,
		NumHours:     1,
		NumVars:      numScalarVars + varsPerHour,
		Weights:      []float64{8760},
		BessMWPerMWh: 0.25,
	}
	p.C = make([]float64, p.NumVars)
	p.addIneq("nonneg", map[int]float64{ivRecips: -1}, 0)
	p.addEq(map[int]float64{ivDRMW: 1}, 0)
	return p
}

func stubLP(t *testing.T, results ...[]float64) (restore func(), calls *int) {
	t.Helper()
	orig := lpSolve
	n := 0
	lpSolve = func(c []float64, A mat.Matrix, b []float64, tol float64, initial []int) (float64, []float64, error) {
		if n >= len(results) {
			t.Fatalf("unexpected solve call %d", n+1)
		}
		x := make([]float64, len(c))
		copy(x, results[n])
		n++
		return 0, x, nil
	}
	return func() { lpSolve = orig }, &n
}

func TestSimplexSolverRoundsUp(t *testing.T) {
	p := tinyProblem()

	relaxed := make([]float64, p.NumVars)
	relaxed[ivRecips] = 2.3
	relaxed[ivBessMWh] = 100
	fixed := make([]float64, p.NumVars)
	fixed[ivRecips] = 3
	fixed[ivBessMWh] = 100

	restore, calls := stubLP(t, relaxed, fixed)
	defer restore()

	sol, err := (&SimplexSolver{}).Solve(context.Background(), p)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if sol.Fleet.Recips != 3 {
		t.Fatalf("recips = %d, want 3 (rounded up from 2.3)", sol.Fleet.Recips)
	}
	if sol.Fleet.StorageMW != 25 {
		t.Fatalf("storage power = %.1f, want 25 at 4h duration", sol.Fleet.StorageMW)
	}
	if *calls != 2 {
		t.Fatalf("solve calls = %d, want relaxation + fixed re-solve", *calls)
	}
	if sol.Incumbent {
		t.Fatal("completed solve must not be an incumbent")
	}
}

func TestSimplexSolverIntegerRelaxationNotReRounded(t *testing.T) {
	p := tinyProblem()
	relaxed := make([]float64, p.NumVars)
	relaxed[ivRecips] = 5.0000000001 // solver noise above an integer
	fixed := make([]float64, p.NumVars)
	fixed[ivRecips] = 5

	restore, _ := stubLP(t, relaxed, fixed)
	defer restore()

	sol, err := (&SimplexSolver{}).Solve(context.Background(), p)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if sol.Fleet.Recips != 5 {
		t.Fatalf("recips = %d, want 5 (noise within tolerance)", sol.Fleet.Recips)
	}
}

func TestSimplexSolverDeadlineReturnsIncumbent(t *testing.T) {
	p := tinyProblem()
	relaxed := make([]float64, p.NumVars)
	relaxed[ivRecips] = 2.3

	restore, calls := stubLP(t, relaxed)
	defer restore()

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // deadline gone before the re-solve

	sol, err := (&SimplexSolver{}).Solve(ctx, p)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if !sol.Incumbent {
		t.Fatal("expired context must yield an incumbent")
	}
	if len(sol.Warnings) == 0 {
		t.Fatal("incumbent must carry a warning")
	}
	if *calls != 1 {
		t.Fatalf("solve calls = %d, want 1", *calls)
	}
	if sol.Fleet.Recips != 3 {
		t.Fatalf("incumbent recips = %d, want rounded 3", sol.Fleet.Recips)
	}
}
