// Package smc implements the four sliding-mode controller variants of
// spec.md §4.4 as a tagged sum type sharing a common saturation/surface
// toolkit, the way msolid.Solid variants share SmallElasticity while
// differing in their own internal state and update law.
package smc

import (
	"math"

	"github.com/dorival/dipsmc/errs"
	"github.com/dorival/dipsmc/plant"
)

// SwitchMethod selects how sign(s) is smoothed across the boundary layer.
type SwitchMethod int

const (
	Linear SwitchMethod = iota
	Tanh
)

// SwitchMethodFromString parses controller.switch_method.
func SwitchMethodFromString(s string) (SwitchMethod, bool) {
	switch s {
	case "linear":
		return Linear, true
	case "tanh":
		return Tanh, true
	default:
		return 0, false
	}
}

// Sat implements sat(s, ε, method) from spec.md §4.4: linear clips s/ε to
// [-1,1]; tanh applies tanh(s/ε). Both stand in for sign(s) to mitigate
// chattering.
func Sat(s, eps float64, method SwitchMethod) float64 {
	if eps <= 0 {
		eps = 1e-9
	}
	r := s / eps
	switch method {
	case Tanh:
		return math.Tanh(r)
	default:
		if r > 1 {
			return 1
		}
		if r < -1 {
			return -1
		}
		return r
	}
}

// Diagnostics reports the decomposition of u and any mode information the
// simulation/cost layer may want to inspect, per spec.md §6's
// "(u, controller_state, diagnostics)" contract.
type Diagnostics struct {
	S                float64
	UEquivalent      float64
	USwitch          float64
	UDerivative      float64
	SaturationActive bool
	EquivalentUsed   bool
	EquivalentReason string
	Mode             string // "" for variants without a mode machine
}

// History carries the scalar bookkeeping compute() needs across steps to
// estimate ṡ by finite difference; it does not carry controller-internal
// adaptive state (that is owned by the Controller instance itself, per
// spec.md §3 "Ownership").
type History struct {
	HasPrev bool
	PrevS   float64
	Dt      float64
}

// InitializeHistory returns a fresh, empty History.
func InitializeHistory(dt float64) *History {
	return &History{Dt: dt}
}

// sDot estimates ṡ by backward finite difference and updates h in place.
func (h *History) sDot(s float64) float64 {
	var sd float64
	if h.HasPrev && h.Dt > 0 {
		sd = (s - h.PrevS) / h.Dt
	}
	h.PrevS = s
	h.HasPrev = true
	return sd
}

// Variant tags which SMC law a Controller implements.
type Variant int

const (
	ClassicalVariant Variant = iota
	SuperTwistingVariant
	AdaptiveVariant
	HybridVariant
)

func (v Variant) String() string {
	switch v {
	case ClassicalVariant:
		return "classical"
	case SuperTwistingVariant:
		return "super_twisting"
	case AdaptiveVariant:
		return "adaptive"
	case HybridVariant:
		return "hybrid"
	default:
		return "unknown"
	}
}

// VariantFromString parses controller.type.
func VariantFromString(s string) (Variant, bool) {
	switch s {
	case "classical":
		return ClassicalVariant, true
	case "super_twisting", "sta":
		return SuperTwistingVariant, true
	case "adaptive":
		return AdaptiveVariant, true
	case "hybrid":
		return HybridVariant, true
	default:
		return 0, false
	}
}

// Controller is the capability set every SMC variant exposes (spec.md §6,
// §9 "Polymorphism without inheritance"): compute, reset, initialize,
// validate, arity and cleanup. The plant is passed into Compute by
// reference rather than cached, matching §9's non-owning borrow guidance.
type Controller interface {
	Variant() Variant
	NGains() int
	Gains() []float64
	ValidateGains(g []float64) bool
	Compute(x plant.State, h *History, pl plant.Plant) (u float64, diag Diagnostics, err error)
	Reset()
	InitializeState()
	Cleanup()
}

func allPositive(g []float64, n int) bool {
	if len(g) < n {
		return false
	}
	for i := 0; i < n; i++ {
		if g[i] <= 0 {
			return false
		}
	}
	return true
}

// configErr builds the ConfigError new controllers return on bad gains.
func configErr(variant Variant, g []float64) error {
	return errs.New(errs.ConfigError, "%s: invalid gain vector %v", variant, g)
}
