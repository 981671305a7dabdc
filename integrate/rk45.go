package integrate

import (
	"github.com/cpmech/gosl/ode"

	"github.com/dorival/dipsmc/errs"
	"github.com/dorival/dipsmc/plant"
)

const minStep = 1e-9

// rk45Integrator wraps gosl/ode's embedded Dormand-Prince solver the way
// mreten/t_refm1_test.go drives ode.ODE for a scalar retention-curve ODE:
// Init with the derivative closure, SetTol, then Solve. Here all three run
// on every Step, because the closure captures the held-constant control
// input for the step,
// since compute() is evaluated once per outer simulation step (spec.md
// §4.5) and the plant ODE only varies in x over [t, t+dt].
type rk45Integrator struct {
	rtol, atol float64
}

// NewRK45 builds an adaptive integrator with the given relative/absolute
// tolerances (spec.md §4.2 defaults: rtol 1e-6, atol 1e-8).
func NewRK45(rtol, atol float64) Integrator {
	return rk45Integrator{rtol: rtol, atol: atol}
}

func (rk45Integrator) Kind() Kind { return RK45 }

func (o rk45Integrator) Step(f Deriv, x plant.State, u float64, dt float64) (Result, error) {
	var stepErr error
	fcn := func(fy []float64, t float64, y []float64, args ...interface{}) error {
		var xs plant.State
		copy(xs[:], y)
		dx, err := f(xs, u)
		if err != nil {
			stepErr = err
			return err
		}
		copy(fy, dx[:])
		return nil
	}

	var solver ode.ODE
	solver.Init("Dopri5", len(x), fcn, nil, nil, nil, true)
	solver.SetTol(o.rtol, o.atol)

	y := make([]float64, len(x))
	copy(y, x[:])

	err := solver.Solve(y, 0, dt, dt, false)
	if err != nil || stepErr != nil {
		if stepErr != nil {
			return Result{}, stepErr
		}
		return Result{}, errs.New(errs.IntegratorFailure, "rk45: min-step %v breached over dt=%v", minStep, dt)
	}

	var next plant.State
	copy(next[:], y)
	if !finite(next) {
		return Result{X: next, StepUsed: dt, Failed: true}, nil
	}
	return Result{X: next, StepUsed: dt}, nil
}
