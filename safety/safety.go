// Package safety enforces the per-step guards spec.md §4.3 requires: finite
// state, angle/rate bounds, energy envelope and control saturation. A
// violation stops the rollout; it never panics.
package safety

import (
	"math"

	"github.com/dorival/dipsmc/plant"
)

// Reason names why a rollout stopped, spec.md §4.3's exit_reason set.
type Reason int

const (
	Completed Reason = iota
	Timeout
	SafetyViolation
	IntegratorFailure
)

func (r Reason) String() string {
	switch r {
	case Completed:
		return "completed"
	case Timeout:
		return "timeout"
	case SafetyViolation:
		return "safety_violation"
	case IntegratorFailure:
		return "integrator_failure"
	default:
		return "unknown"
	}
}

// Limits configures the guard thresholds (simulation.safety.* in spec.md §6).
type Limits struct {
	MaxAngle   float64 // θ_max_guard, radians
	MaxOmega   float64 // ω_max_guard, rad/s
	MaxControl float64 // u_max
	MaxEnergy  float64 // ΔE_max above the admissible envelope; 0 disables the check
	TimeoutSec float64 // carried from configuration; not checked by Check or by simulate.Run
}

// DefaultLimits mirrors the typical bounds spec.md §4.3 describes.
func DefaultLimits(uMax float64) Limits {
	return Limits{
		MaxAngle:   10,
		MaxOmega:   50,
		MaxControl: uMax,
		MaxEnergy:  0,
		TimeoutSec: 0,
	}
}

// Check evaluates all guards for the given state, control and energy over
// the admissible baseline energy E0. It returns Completed when nothing is
// violated, regardless of t — the caller decides Timeout vs Completed from
// the elapsed horizon.
func Check(x plant.State, u float64, energy, baselineEnergy float64, lim Limits) (Reason, bool) {
	if !x.Finite() || math.IsNaN(u) || math.IsInf(u, 0) {
		return SafetyViolation, true
	}
	if math.Abs(x[plant.IxTheta1]) > lim.MaxAngle || math.Abs(x[plant.IxTheta2]) > lim.MaxAngle {
		return SafetyViolation, true
	}
	if math.Abs(x[plant.IxTheta1Dot]) > lim.MaxOmega || math.Abs(x[plant.IxTheta2Dot]) > lim.MaxOmega {
		return SafetyViolation, true
	}
	if lim.MaxControl > 0 && math.Abs(u) > lim.MaxControl+1e-9 {
		return SafetyViolation, true
	}
	if lim.MaxEnergy > 0 && math.Abs(energy-baselineEnergy) > lim.MaxEnergy {
		return SafetyViolation, true
	}
	return Completed, false
}

// Energy computes total mechanical energy (kinetic + potential) of the
// system, used by the energy guard and by cost/metrics aggregation.
func Energy(x plant.State, p plant.Params) float64 {
	th1, th2 := x[plant.IxTheta1], x[plant.IxTheta2]
	dth1, dth2 := x[plant.IxTheta1Dot], x[plant.IxTheta2Dot]
	xdot := x[plant.IxCartVel]

	x1dot := xdot + p.L1*math.Cos(th1)*dth1
	y1dot := -p.L1 * math.Sin(th1) * dth1
	x2dot := x1dot + p.L2*math.Cos(th2)*dth2
	y2dot := y1dot - p.L2*math.Sin(th2)*dth2

	I1 := p.J1 + p.M1*p.L1*p.L1
	I2 := p.J2 + p.M2*p.L2*p.L2

	kinetic := 0.5*p.Mc*xdot*xdot +
		0.5*p.M1*(x1dot*x1dot+y1dot*y1dot) + 0.5*I1*dth1*dth1 +
		0.5*p.M2*(x2dot*x2dot+y2dot*y2dot) + 0.5*I2*dth2*dth2

	y1 := p.L1 * math.Cos(th1)
	y2 := y1 + p.L2*math.Cos(th2)
	potential := p.M1*p.G*y1 + p.M2*p.G*y2

	return kinetic + potential
}

// Saturate clips u to [-uMax, uMax] and reports whether it was active.
func Saturate(u, uMax float64) (float64, bool) {
	if u > uMax {
		return uMax, true
	}
	if u < -uMax {
		return -uMax, true
	}
	return u, false
}
