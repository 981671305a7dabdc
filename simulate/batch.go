package simulate

import (
	"github.com/dorival/dipsmc/plant"
	"github.com/dorival/dipsmc/smc"
)

// BatchResult collects N independent rollouts evaluated in lock-step,
// spec.md §4.5's "Batch vectorized" requirement.
type BatchResult struct {
	Results []Result
}

// ControllerFactory builds a fresh controller instance for one rollout. PSO
// and Monte-Carlo batches each need their own controller instance because
// adaptive/hybrid state is exclusively owned per rollout (spec.md §3).
type ControllerFactory func() (smc.Controller, error)

// RunBatch evaluates N initial conditions against cfgTemplate in lock-step.
// Each element reuses cfgTemplate's Plant/Integrator/Limits/TFinal/Dt but
// gets its own controller from factory and its own X0. Running the
// identical per-sample code path as Run, in index order, is what makes
// scalar/batch parity exact for fixed-step integrators (spec.md §8
// invariant 7) without any special-cased vector kernel.
func RunBatch(factory ControllerFactory, x0s []plant.State, cfgTemplate Config) BatchResult {
	out := make([]Result, len(x0s))
	for i, x0 := range x0s {
		ctrl, err := factory()
		if err != nil {
			out[i] = Result{}
			continue
		}
		cfg := cfgTemplate
		cfg.Controller = ctrl
		cfg.X0 = x0
		out[i] = Run(cfg)
	}
	return BatchResult{Results: out}
}
