package integrate

import "github.com/dorival/dipsmc/plant"

// eulerIntegrator is the first-order explicit method: x + dt·f(x,u). Kept
// for testing and teaching only, per spec.md §4.2 — never the default.
type eulerIntegrator struct{}

func (eulerIntegrator) Kind() Kind { return Euler }

func (eulerIntegrator) Step(f Deriv, x plant.State, u float64, dt float64) (Result, error) {
	dx, err := f(x, u)
	if err != nil {
		return Result{}, err
	}
	next := addScaled(x, dx, dt)
	return Result{X: next, StepUsed: dt, Failed: !finite(next)}, nil
}
