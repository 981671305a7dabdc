package smc

import (
	"math"

	"github.com/dorival/dipsmc/plant"
)

// AdaptiveParams configures the on-line gain law of spec.md §4.4.3, beyond
// the fixed (k1,k2,λ1,λ2,γ) gain vector.
type AdaptiveParams struct {
	KInit, KMin, KMax float64
	Leak              float64
	DeadZone          float64 // d_dz
	RateLimit         float64
	Alpha             float64 // proportional term in u = -K·sat(s) - α·s
}

// DefaultAdaptiveParams returns K_init = 10 within [K_min, K_max] = [1, 100],
// a 0.01 dead zone, leak 0.01, rate limit 50 and no proportional term.
func DefaultAdaptiveParams() AdaptiveParams {
	return AdaptiveParams{KInit: 10, KMin: 1, KMax: 100, Leak: 0.01, DeadZone: 0.01, RateLimit: 50, Alpha: 0}
}

// Adaptive implements spec.md §4.4.3. Gains: (k1, k2, λ1, λ2, γ).
type Adaptive struct {
	gains            [5]float64
	uMax, eps        float64
	method           SwitchMethod
	enableEquivalent bool
	p                AdaptiveParams

	k            float64
	dK           float64
	timeInSlide  int
}

// NewAdaptive validates gains and constructs an Adaptive controller.
func NewAdaptive(gains []float64, uMax, eps float64, method SwitchMethod, enableEquivalent bool, p AdaptiveParams) (*Adaptive, error) {
	c := &Adaptive{uMax: uMax, eps: eps, method: method, enableEquivalent: enableEquivalent, p: p}
	if !c.ValidateGains(gains) {
		return nil, configErr(AdaptiveVariant, gains)
	}
	copy(c.gains[:], gains)
	c.k = p.KInit
	return c, nil
}

func (c *Adaptive) Variant() Variant { return AdaptiveVariant }
func (c *Adaptive) NGains() int      { return 5 }
func (c *Adaptive) Gains() []float64 { return append([]float64(nil), c.gains[:]...) }
func (c *Adaptive) Cleanup()         {}

func (c *Adaptive) Reset() {
	c.k = c.p.KInit
	c.dK = 0
	c.timeInSlide = 0
}
func (c *Adaptive) InitializeState() { c.Reset() }

// ValidateGains enforces spec.md §3: all five gains strictly positive.
func (c *Adaptive) ValidateGains(g []float64) bool {
	return len(g) == 5 && allPositive(g, 5)
}

func (c *Adaptive) surface(x plant.State) float64 {
	k1, k2, lam1, lam2 := c.gains[0], c.gains[1], c.gains[2], c.gains[3]
	return k1*(x[plant.IxTheta1Dot]+lam1*x[plant.IxTheta1]) +
		k2*(x[plant.IxTheta2Dot]+lam2*x[plant.IxTheta2])
}

// K returns the current adaptive switching gain.
func (c *Adaptive) K() float64 { return c.k }

// TimeInSliding returns the number of consecutive steps with |s| <= ε.
func (c *Adaptive) TimeInSliding() int { return c.timeInSlide }

func (c *Adaptive) Compute(x plant.State, h *History, pl plant.Plant) (float64, Diagnostics, error) {
	gamma := c.gains[4]
	lam1, lam2 := c.gains[2], c.gains[3]
	s := c.surface(x)

	var diag Diagnostics
	diag.S = s

	if c.enableEquivalent && pl != nil {
		res := plant.EquivalentControl(pl, x, c.gains[0], lam1, c.gains[1], lam2)
		diag.EquivalentUsed = res.Used
		diag.EquivalentReason = res.Reason
		if res.Used {
			diag.UEquivalent = res.Value
		}
	}

	dt := 0.0
	if h != nil {
		dt = h.Dt
		h.sDot(s)
	}

	if math.Abs(s) <= c.p.DeadZone {
		c.dK = 0
	} else {
		dK := gamma*math.Abs(s) - c.p.Leak*(c.k-c.p.KInit)
		c.dK = clampAbs(dK, c.p.RateLimit)
	}
	c.k = clampRange(c.k+c.dK*dt, c.p.KMin, c.p.KMax)

	if math.Abs(s) <= c.eps {
		c.timeInSlide++
	} else {
		c.timeInSlide = 0
	}

	diag.USwitch = -c.k * Sat(s, c.eps, c.method)
	uRaw := diag.UEquivalent + diag.USwitch - c.p.Alpha*s
	u, active := clip(uRaw, c.uMax)
	diag.SaturationActive = active
	return u, diag, nil
}

func clampRange(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
