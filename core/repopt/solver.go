package repopt

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"

	"github.com/DougMackenzie/energy-optimizer/core/model"
)

// Solution is the solved sizing for one year.
type Solution struct {
	Fleet     model.Fleet
	DRMW      float64
	Objective float64

	// Hourly dispatch over the representative hours.
	RecipMW     []float64
	TurbineMW   []float64
	GridMW      []float64
	ChargeMW    []float64
	DischargeMW []float64
	SoCMWh      []float64
	CurtailMW   []float64

	// Incumbent marks a solution returned on deadline before the
	// fixed-count re-solve completed.
	Incumbent bool
	Warnings  []string
}

// Solver turns a Problem into a Solution. Implementations must respect the
// context deadline and return their best incumbent rather than failing.
type Solver interface {
	Solve(ctx context.Context, p *Problem) (*Solution, error)
}

// lpSolve is swapped out in tests.
var lpSolve = lp.Simplex

// SimplexSolver solves the relaxation with a dense simplex, rounds the unit
// counts up to whole units, fixes them, and re-solves the dispatch.
type SimplexSolver struct {
	Tol float64
}

// Solve implements Solver.
func (s *SimplexSolver) Solve(ctx context.Context, p *Problem) (*Solution, error) {
	tol := s.Tol
	if tol <= 0 {
		tol = 1e-8
	}

	x, obj, err := solveGeneral(p.C, p.G, p.H, p.Aeq, p.Beq, tol)
	if err != nil {
		return nil, fmt.Errorf("relaxation infeasible: %w", err)
	}

	sol := extract(p, x, obj)
	sol.Fleet.Recips = int(math.Ceil(x[ivRecips] - tol))
	sol.Fleet.Turbines = int(math.Ceil(x[ivTurbines] - tol))

	// Deadline already spent: ship the rounded relaxation as an incumbent.
	if err := ctx.Err(); err != nil {
		sol.Incumbent = true
		sol.Warnings = append(sol.Warnings,
			"solver deadline reached after relaxation; dispatch not re-solved for rounded unit counts")
		return sol, nil
	}

	// Fix the rounded counts and re-solve so the dispatch matches the
	// buildable fleet.
	fixed := *p
	fixed.Aeq = append(append([][]float64{}, p.Aeq...),
		unitRow(p.NumVars, ivRecips), unitRow(p.NumVars, ivTurbines))
	fixed.Beq = append(append([]float64{}, p.Beq...),
		float64(sol.Fleet.Recips), float64(sol.Fleet.Turbines))

	x2, obj2, err := solveGeneral(fixed.C, fixed.G, fixed.H, fixed.Aeq, fixed.Beq, tol)
	if err != nil {
		sol.Incumbent = true
		sol.Warnings = append(sol.Warnings,
			"fixed-count re-solve failed, keeping relaxation dispatch: "+err.Error())
		return sol, nil
	}

	out := extract(p, x2, obj2)
	out.Fleet.Recips = sol.Fleet.Recips
	out.Fleet.Turbines = sol.Fleet.Turbines
	return out, nil
}

func unitRow(n, col int) []float64 {
	row := make([]float64, n)
	row[col] = 1
	return row
}

// solveGeneral converts the general-form LP to standard form and runs the
// simplex.
func solveGeneral(c []float64, g [][]float64, h []float64, aeq [][]float64, beq []float64, tol float64) ([]float64, float64, error) {
	n := len(c)
	gm := mat.NewDense(len(g), n, nil)
	for i, row := range g {
		gm.SetRow(i, row)
	}
	var am mat.Matrix
	if len(aeq) > 0 {
		d := mat.NewDense(len(aeq), n, nil)
		for i, row := range aeq {
			d.SetRow(i, row)
		}
		am = d
	}

	cStd, aStd, bStd := lp.Convert(c, gm, h, am, beq)
	obj, xStd, err := lpSolve(cStd, aStd, bStd, tol, nil)
	if err != nil {
		return nil, 0, err
	}

	// Standard form splits each free variable into a positive pair.
	x := make([]float64, n)
	for i := 0; i < n; i++ {
		x[i] = xStd[i] - xStd[n+i]
	}
	return x, obj, nil
}

func extract(p *Problem, x []float64, obj float64) *Solution {
	n := p.NumHours
	sol := &Solution{
		Objective: obj,
		Fleet: model.Fleet{
			Year:       p.Year,
			StorageMWh: nonneg(x[ivBessMWh]),
			SolarMW:    nonneg(x[ivSolarMW]),
			GridMW:     nonneg(x[ivGridMW]),
		},
		DRMW:        nonneg(x[ivDRMW]),
		RecipMW:     make([]float64, n),
		TurbineMW:   make([]float64, n),
		GridMW:      make([]float64, n),
		ChargeMW:    make([]float64, n),
		DischargeMW: make([]float64, n),
		SoCMWh:      make([]float64, n),
		CurtailMW:   make([]float64, n),
	}
	sol.Fleet.StorageMW = sol.Fleet.StorageMWh * p.BessMWPerMWh

	for h := 0; h < n; h++ {
		sol.RecipMW[h] = nonneg(x[p.hourVar(h, ohRecip)])
		sol.TurbineMW[h] = nonneg(x[p.hourVar(h, ohTurbine)])
		sol.GridMW[h] = nonneg(x[p.hourVar(h, ohGrid)])
		sol.ChargeMW[h] = nonneg(x[p.hourVar(h, ohCharge)])
		sol.DischargeMW[h] = nonneg(x[p.hourVar(h, ohDischarge)])
		sol.SoCMWh[h] = nonneg(x[p.hourVar(h, ohSoC)])
		sol.CurtailMW[h] = nonneg(x[p.hourVar(h, ohCurtail)])
	}
	return sol
}

func nonneg(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
