package smc

import (
	"math"

	"github.com/dorival/dipsmc/plant"
)

// zMaxDefault bounds the STA integral term per spec.md §3/§8 invariant 4.
const zMaxDefault = 1e3

// SuperTwisting implements the second-order finite-time sliding law of
// spec.md §4.4.2. Gains: (K1, K2, k1, k2, λ1, λ2); state: integral z.
type SuperTwisting struct {
	gains            [6]float64
	uMax, eps, zMax  float64
	method           SwitchMethod
	enableEquivalent bool
	z                float64
}

// NewSuperTwisting validates gains and constructs a SuperTwisting controller.
func NewSuperTwisting(gains []float64, uMax, eps float64, method SwitchMethod, enableEquivalent bool) (*SuperTwisting, error) {
	c := &SuperTwisting{uMax: uMax, eps: eps, zMax: zMaxDefault, method: method, enableEquivalent: enableEquivalent}
	if !c.ValidateGains(gains) {
		return nil, configErr(SuperTwistingVariant, gains)
	}
	copy(c.gains[:], gains)
	return c, nil
}

func (c *SuperTwisting) Variant() Variant { return SuperTwistingVariant }
func (c *SuperTwisting) NGains() int      { return 6 }
func (c *SuperTwisting) Gains() []float64 { return append([]float64(nil), c.gains[:]...) }
func (c *SuperTwisting) Reset()           { c.z = 0 }
func (c *SuperTwisting) InitializeState() { c.z = 0 }
func (c *SuperTwisting) Cleanup()         {}

// ValidateGains enforces spec.md §3: K1 > K2 > 0; k1,k2,λ1,λ2 > 0.
func (c *SuperTwisting) ValidateGains(g []float64) bool {
	if len(g) != 6 {
		return false
	}
	K1, K2 := g[0], g[1]
	if !(K1 > K2 && K2 > 0) {
		return false
	}
	return allPositive(g[2:], 4)
}

func (c *SuperTwisting) surface(x plant.State) float64 {
	k1, k2, lam1, lam2 := c.gains[2], c.gains[3], c.gains[4], c.gains[5]
	return k1*(x[plant.IxTheta1Dot]+lam1*x[plant.IxTheta1]) +
		k2*(x[plant.IxTheta2Dot]+lam2*x[plant.IxTheta2])
}

// Z returns the current anti-windup-clamped integral state.
func (c *SuperTwisting) Z() float64 { return c.z }

func (c *SuperTwisting) Compute(x plant.State, h *History, pl plant.Plant) (float64, Diagnostics, error) {
	K1, K2, k1, k2, lam1, lam2 := c.gains[0], c.gains[1], c.gains[2], c.gains[3], c.gains[4], c.gains[5]
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

	switchTerm := Sat(s, c.eps, c.method)
	u1 := -K1 * math.Sqrt(math.Abs(s)) * switchTerm

	dt := 0.0
	if h != nil {
		dt = h.Dt
		h.sDot(s)
	}
	zCandidate := c.z + dt*(-K2*switchTerm)
	zCandidate = clampAbs(zCandidate, c.zMax)

	uTrial := diag.UEquivalent + u1 + zCandidate
	_, wouldSaturate := clip(uTrial, c.uMax)
	if wouldSaturate && math.Abs(zCandidate) > math.Abs(c.z) {
		// anti-windup: freeze the integral this step rather than let it
		// wind further into saturation.
		zCandidate = c.z
	}
	c.z = zCandidate

	diag.USwitch = u1
	uRaw := diag.UEquivalent + u1 + c.z
	u, active := clip(uRaw, c.uMax)
	diag.SaturationActive = active
	return u, diag, nil
}

func clampAbs(v, max float64) float64 {
	if v > max {
		return max
	}
	if v < -max {
		return -max
	}
	return v
}
