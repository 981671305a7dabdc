package integrate

import "github.com/dorival/dipsmc/plant"

// rk4Integrator is the classical 4-stage Runge-Kutta method at constant dt,
// the default integrator per spec.md §4.2.
type rk4Integrator struct{}

func (rk4Integrator) Kind() Kind { return RK4 }

func (rk4Integrator) Step(f Deriv, x plant.State, u float64, dt float64) (Result, error) {
	k1, err := f(x, u)
	if err != nil {
		return Result{}, err
	}
	k2, err := f(addScaled(x, k1, dt/2), u)
	if err != nil {
		return Result{}, err
	}
	k3, err := f(addScaled(x, k2, dt/2), u)
	if err != nil {
		return Result{}, err
	}
	k4, err := f(addScaled(x, k3, dt), u)
	if err != nil {
		return Result{}, err
	}
	var next plant.State
	for i := range x {
		next[i] = x[i] + dt/6*(k1[i]+2*k2[i]+2*k3[i]+k4[i])
	}
	return Result{X: next, StepUsed: dt, Failed: !finite(next)}, nil
}
