package cost

import (
	"github.com/dorival/dipsmc/integrate"
	"github.com/dorival/dipsmc/plant"
	"github.com/dorival/dipsmc/safety"
	"github.com/dorival/dipsmc/simulate"
	"github.com/dorival/dipsmc/smc"
)

// NewEvaluator constructs an Evaluator for variant against plant pl over
// the given horizon. When norm is the zero value, a baseline rollout using
// baselineGains is run once, here, to derive ISE/control/slew/surface
// normalization constants automatically, per spec.md §4.6 ("automatic
// baseline rollout at construction").
func NewEvaluator(
	variant smc.Variant,
	baselineGains []float64,
	pl plant.Plant,
	x0 plant.State,
	tFinal, dt float64,
	integrator integrate.Kind,
	limits safety.Limits,
	maxForce, boundaryLayer float64,
	switchMethod smc.SwitchMethod,
	adaptive smc.AdaptiveParams,
	hybrid smc.HybridParams,
	weights Weights,
	norm Normalization,
) (*Evaluator, error) {
	e := &Evaluator{
		Plant: pl, X0: x0, TFinal: tFinal, Dt: dt, Integrator: integrator,
		Limits: limits, Weights: weights, Norm: norm, Variant: variant,
		SwitchMethod: switchMethod, BoundaryLayer: boundaryLayer, MaxForce: maxForce,
		AdaptiveParams: adaptive, HybridParams: hybrid,
	}
	if norm == (Normalization{}) {
		ctrl, err := smc.New(smc.Spec{
			Variant: variant, Gains: baselineGains, MaxForce: maxForce,
			BoundaryLayer: boundaryLayer, SwitchMethod: switchMethod,
			EnableEquivalent: true, Adaptive: adaptive, Hybrid: hybrid,
		})
		if err != nil {
			return nil, err
		}
		res := simulate.Run(simulate.Config{
			Controller: ctrl, Plant: pl, X0: x0, TFinal: tFinal, Dt: dt,
			Integrator: integrator, Limits: limits,
		})
		m := res.Metrics
		e.Norm = Normalization{ISE: orOne(m.ISE), Control: orOne(m.ControlEnergy), Slew: orOne(m.SlewEnergy), Surface: orOne(m.SurfaceEnergy)}
	}
	return e, nil
}
