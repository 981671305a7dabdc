// Package cost implements the composite fitness function PSO optimizes
// against (spec.md §4.6): a normalized blend of tracking error, control
// effort, slew and sliding-surface energy, with an instability penalty.
package cost

import (
	"math"

	"github.com/dorival/dipsmc/integrate"
	"github.com/dorival/dipsmc/plant"
	"github.com/dorival/dipsmc/safety"
	"github.com/dorival/dipsmc/simulate"
	"github.com/dorival/dipsmc/smc"
)

// Weights are the w_e, w_u, w_du, w_s terms of spec.md §4.6's J(g). Their
// sum is not required to be 1.
type Weights struct {
	ISE, Control, Slew, Surface float64
}

// DefaultWeights matches the balance spec.md §8's S5 scenario implies:
// error tracking dominates, with control effort and chattering penalized
// secondarily.
func DefaultWeights() Weights {
	return Weights{ISE: 1.0, Control: 0.1, Slew: 0.01, Surface: 0.05}
}

// Normalization constants for each term; zero falls back to 1 (spec.md
// §4.6's "safe-divide").
type Normalization struct {
	ISE, Control, Slew, Surface float64
}

const instabilityPenalty = 1e6

// Evaluator binds a plant, an integration/horizon configuration, and
// weights/normalization to a callable ℝⁿ → ℝ cost function, per spec.md
// §6's Cost evaluator API.
type Evaluator struct {
	Plant          plant.Plant
	X0             plant.State
	TFinal, Dt     float64
	Integrator     integrate.Kind
	Limits         safety.Limits
	Weights        Weights
	Norm           Normalization
	Variant        smc.Variant
	SwitchMethod   smc.SwitchMethod
	BoundaryLayer  float64
	MaxForce       float64
	AdaptiveParams smc.AdaptiveParams
	HybridParams   smc.HybridParams
}

// Evaluate constructs a controller from gains, rolls it out against the
// evaluator's plant/horizon, and returns the scalar composite cost J(g).
// Construction failures (invalid gains) and rollout instability both map
// to a large finite cost rather than an error, per spec.md §4.8/§7: the
// PSO loop never sees NaN.
func (e *Evaluator) Evaluate(gains []float64) float64 {
	ctrl, err := smc.New(smc.Spec{
		Variant:          e.Variant,
		Gains:            gains,
		MaxForce:         e.MaxForce,
		BoundaryLayer:    e.BoundaryLayer,
		SwitchMethod:     e.SwitchMethod,
		EnableEquivalent: true,
		Adaptive:         e.AdaptiveParams,
		Hybrid:           e.HybridParams,
	})
	if err != nil {
		return instabilityPenalty
	}

	res := simulate.Run(simulate.Config{
		Controller: ctrl,
		Plant:      e.Plant,
		X0:         e.X0,
		TFinal:     e.TFinal,
		Dt:         e.Dt,
		Integrator: e.Integrator,
		Limits:     e.Limits,
	})

	return e.compositeCost(res)
}

func (e *Evaluator) compositeCost(res simulate.Result) float64 {
	m := res.Metrics
	iseN := safeDivide(m.ISE, orOne(e.Norm.ISE))
	uN := safeDivide(m.ControlEnergy, orOne(e.Norm.Control))
	duN := safeDivide(m.SlewEnergy, orOne(e.Norm.Slew))
	sN := safeDivide(m.SurfaceEnergy, orOne(e.Norm.Surface))

	j := e.Weights.ISE*iseN + e.Weights.Control*uN + e.Weights.Slew*duN + e.Weights.Surface*sN

	penalty := instabilityPenaltyFor(res, e.TFinal)
	if math.IsNaN(j) || math.IsInf(j, 0) {
		return instabilityPenalty
	}
	return j + penalty
}

func instabilityPenaltyFor(res simulate.Result, tFinal float64) float64 {
	n := len(res.Trajectory.States)
	for _, x := range res.Trajectory.States {
		if !x.Finite() {
			return instabilityPenalty
		}
	}
	if res.ExitReason == safety.SafetyViolation || res.ExitReason == safety.IntegratorFailure {
		if n == 0 {
			return instabilityPenalty
		}
		last := res.Trajectory.Times[n-1]
		remaining := tFinal - last
		if remaining < 0 {
			remaining = 0
		}
		return instabilityPenalty * (remaining / tFinal)
	}
	return 0
}

func safeDivide(num, den float64) float64 {
	if den == 0 {
		return 1.0
	}
	return num / den
}

func orOne(v float64) float64 {
	if v == 0 {
		return 1
	}
	return v
}
