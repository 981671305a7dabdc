package smc

import (
	"github.com/dorival/dipsmc/plant"
)

// Classical implements boundary-layer sliding-mode control, spec.md §4.4.1.
// Gains: (k1, k2, λ1, λ2, K, k_d).
type Classical struct {
	gains            [6]float64
	uMax, eps        float64
	method           SwitchMethod
	enableEquivalent bool
}

// NewClassical validates gains and constructs a Classical controller.
func NewClassical(gains []float64, uMax, eps float64, method SwitchMethod, enableEquivalent bool) (*Classical, error) {
	c := &Classical{uMax: uMax, eps: eps, method: method, enableEquivalent: enableEquivalent}
	if !c.ValidateGains(gains) {
		return nil, configErr(ClassicalVariant, gains)
	}
	copy(c.gains[:], gains)
	return c, nil
}

func (c *Classical) Variant() Variant  { return ClassicalVariant }
func (c *Classical) NGains() int       { return 6 }
func (c *Classical) Gains() []float64  { return append([]float64(nil), c.gains[:]...) }
func (c *Classical) Reset()            {}
func (c *Classical) InitializeState()  {}
func (c *Classical) Cleanup()          {}

// ValidateGains enforces spec.md §3: k1,k2,λ1,λ2,K > 0; k_d >= 0.
func (c *Classical) ValidateGains(g []float64) bool {
	if len(g) != 6 {
		return false
	}
	if !allPositive(g, 5) {
		return false
	}
	return g[5] >= 0
}

func (c *Classical) surface(x plant.State) float64 {
	k1, k2, lam1, lam2 := c.gains[0], c.gains[1], c.gains[2], c.gains[3]
	return k1*(x[plant.IxTheta1Dot]+lam1*x[plant.IxTheta1]) +
		k2*(x[plant.IxTheta2Dot]+lam2*x[plant.IxTheta2])
}

func (c *Classical) Compute(x plant.State, h *History, pl plant.Plant) (float64, Diagnostics, error) {
	k1, k2, lam1, lam2, K, kd := c.gains[0], c.gains[1], c.gains[2], c.gains[3], c.gains[4], c.gains[5]
	s := c.surface(x)

	var diag Diagnostics
	diag.S = s

	if c.enableEquivalent && pl != nil {
		res := plant.EquivalentControl(pl, x, k1, lam1, k2, lam2)
		diag.EquivalentUsed = res.Used
		diag.EquivalentReason = res.Reason
		if res.Used {
			diag.UEquivalent = res.Value
		}
	}

	diag.USwitch = -K * Sat(s, c.eps, c.method)

	if kd > 0 && h != nil {
		sDot := h.sDot(s)
		diag.UDerivative = -kd * sDot
	} else if h != nil {
		h.sDot(s)
	}

	uRaw := diag.UEquivalent + diag.USwitch + diag.UDerivative
	u, active := clip(uRaw, c.uMax)
	diag.SaturationActive = active
	return u, diag, nil
}

func clip(u, uMax float64) (float64, bool) {
	if uMax <= 0 {
		return u, false
	}
	if u > uMax {
		return uMax, true
	}
	if u < -uMax {
		return -uMax, true
	}
	return u, false
}
