package smc

import "github.com/dorival/dipsmc/errs"

// Spec bundles the controller.* configuration fields (spec.md §6) needed to
// construct any variant through a single New entry point.
type Spec struct {
	Variant          Variant
	Gains            []float64
	MaxForce         float64
	BoundaryLayer    float64
	SwitchMethod     SwitchMethod
	EnableEquivalent bool
	Adaptive         AdaptiveParams
	Hybrid           HybridParams
}

// New dispatches to the variant-specific constructor named by s.Variant.
// Construction fails with a ConfigError on invalid gains or parameters,
// never silently (spec.md §7).
func New(s Spec) (Controller, error) {
	switch s.Variant {
	case ClassicalVariant:
		return NewClassical(s.Gains, s.MaxForce, s.BoundaryLayer, s.SwitchMethod, s.EnableEquivalent)
	case SuperTwistingVariant:
		return NewSuperTwisting(s.Gains, s.MaxForce, s.BoundaryLayer, s.SwitchMethod, s.EnableEquivalent)
	case AdaptiveVariant:
		return NewAdaptive(s.Gains, s.MaxForce, s.BoundaryLayer, s.SwitchMethod, s.EnableEquivalent, s.Adaptive)
	case HybridVariant:
		hp := s.Hybrid
		hp.EnableEquivalent = s.EnableEquivalent || hp.EnableEquivalent
		return NewHybrid(s.Gains, s.MaxForce, s.SwitchMethod, hp)
	default:
		return nil, errs.New(errs.ConfigError, "smc: unknown controller variant %v", s.Variant)
	}
}

// NGainsFor reports the fixed gain-vector arity for a variant without
// constructing one, used by the PSO layer to size its search space.
func NGainsFor(v Variant) int {
	switch v {
	case ClassicalVariant, SuperTwistingVariant:
		return 6
	case AdaptiveVariant:
		return 5
	case HybridVariant:
		return 4
	default:
		return 0
	}
}
