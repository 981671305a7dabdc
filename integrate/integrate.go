// Package integrate advances the DIP state one step at a time, x_{k+1} =
// Φ(x_k, u_k, dt, f), in three flavors: fixed Euler, fixed RK4 (the
// default) and adaptive RK45. All three are deterministic: a given
// (x0, u, dt, f) input produces a bit-identical output across runs.
package integrate

import (
	"math"

	"github.com/dorival/dipsmc/plant"
)

// Deriv evaluates ẋ = f(x, u) for a fixed control input held over the step.
type Deriv func(x plant.State, u float64) (plant.State, error)

// Kind names the integration method, mirroring fem's DynCoefs method tags.
type Kind int

const (
	Euler Kind = iota
	RK4
	RK45
)

func (k Kind) String() string {
	switch k {
	case Euler:
		return "euler"
	case RK4:
		return "rk4"
	case RK45:
		return "rk45"
	default:
		return "unknown"
	}
}

// KindFromString parses the simulation.integrator configuration field.
func KindFromString(s string) (Kind, bool) {
	switch s {
	case "euler":
		return Euler, true
	case "rk4":
		return RK4, true
	case "rk45":
		return RK45, true
	default:
		return 0, false
	}
}

// Result carries the advanced state, the step actually taken (may differ
// from the requested dt for an adaptive integrator), and a failure flag.
type Result struct {
	X        plant.State
	StepUsed float64
	Failed   bool // non-finite output state; a min-step breach is instead returned as an errs.IntegratorFailure error
}

// Integrator advances one step of the plant dynamics.
type Integrator interface {
	Kind() Kind
	Step(f Deriv, x plant.State, u float64, dt float64) (Result, error)
}

// New constructs the Integrator named by kind. RK45 tolerances use the
// spec.md §4.2 defaults (rtol 1e-6, atol 1e-8) unless overridden via
// NewRK45.
func New(kind Kind) Integrator {
	switch kind {
	case Euler:
		return eulerIntegrator{}
	case RK45:
		return NewRK45(1e-6, 1e-8)
	default:
		return rk4Integrator{}
	}
}

func addScaled(x, k plant.State, h float64) plant.State {
	var r plant.State
	for i := range x {
		r[i] = x[i] + h*k[i]
	}
	return r
}

func finite(x plant.State) bool {
	for _, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
