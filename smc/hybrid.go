package smc

import (
	"math"

	"github.com/dorival/dipsmc/errs"
	"github.com/dorival/dipsmc/plant"
)

// HybridMode tags the hybrid controller's two-state machine (spec.md
// §4.4.4): normal operation, or a recoverable emergency reset.
type HybridMode int

const (
	HybridNormal HybridMode = iota
	HybridEmergency
)

func (m HybridMode) String() string {
	if m == HybridEmergency {
		return "emergency"
	}
	return "normal"
}

// HybridParams configures the adaptation, recentering, dead-zone and
// emergency thresholds beyond the (c1, λ1, c2, λ2) gain vector.
type HybridParams struct {
	KMax               float64 // ceiling for both adaptive surface gains
	TauEps             float64 // tapering time constant τ_ε
	UIntMax            float64 // ±bound on the STA integral
	XEmerg             float64 // ‖x‖ emergency threshold
	RecenterLow        float64 // |xc| below this: rc = 0
	RecenterHigh       float64 // |xc| above this: rc = 1
	Kx, Kv             float64 // cart recentering surface coefficients
	DeadZone           float64 // freezes adaptation and the STA integral
	SatSoftWidth       float64 // ε used by Sat(); must be >= DeadZone
	TaperStepStart     int     // additional tapering kicks in past this step count
	Leak, StrongLeak   float64 // leak below/above 0.8*KMax
	EnableEquivalent   bool
	UseEquivalentLegacy bool // deprecated alias, folded into EnableEquivalent
}

const hybridMinimalGainFraction = 0.05

// Hybrid implements spec.md §4.4.4. Gains: (c1, λ1, c2, λ2).
type Hybrid struct {
	gains  [4]float64
	uMax   float64
	method SwitchMethod
	p      HybridParams

	k1, k2    float64
	uInt      float64
	mode      HybridMode
	stepCount int
}

// NewHybrid validates gains and parameters and constructs a Hybrid
// controller. The deprecated UseEquivalentLegacy flag (spec.md §9 Open
// Questions) is folded into EnableEquivalent once, here, and never
// consulted again.
func NewHybrid(gains []float64, uMax float64, method SwitchMethod, p HybridParams) (*Hybrid, error) {
	if p.SatSoftWidth < p.DeadZone {
		return nil, errs.New(errs.ConfigError, "hybrid: sat_soft_width (%v) must be >= dead_zone (%v)", p.SatSoftWidth, p.DeadZone)
	}
	if p.UseEquivalentLegacy {
		p.EnableEquivalent = true
	}
	c := &Hybrid{uMax: uMax, method: method, p: p}
	if !c.ValidateGains(gains) {
		return nil, configErr(HybridVariant, gains)
	}
	copy(c.gains[:], gains)
	c.k1, c.k2 = gains[0], gains[2]
	return c, nil
}

func (c *Hybrid) Variant() Variant { return HybridVariant }
func (c *Hybrid) NGains() int      { return 4 }
func (c *Hybrid) Gains() []float64 { return append([]float64(nil), c.gains[:]...) }
func (c *Hybrid) Cleanup()         {}

func (c *Hybrid) Reset() {
	c.k1, c.k2 = c.gains[0], c.gains[2]
	c.uInt = 0
	c.mode = HybridNormal
	c.stepCount = 0
}
func (c *Hybrid) InitializeState() { c.Reset() }

// ValidateGains enforces spec.md §3: c1, λ1, c2, λ2 all strictly positive.
func (c *Hybrid) ValidateGains(g []float64) bool {
	return len(g) == 4 && allPositive(g, 4)
}

// Mode returns the controller's current mode.
func (c *Hybrid) Mode() HybridMode { return c.mode }

func (c *Hybrid) recenterFactor(xc float64) float64 {
	a := math.Abs(xc)
	if a <= c.p.RecenterLow {
		return 0
	}
	if a >= c.p.RecenterHigh {
		return 1
	}
	if c.p.RecenterHigh <= c.p.RecenterLow {
		return 1
	}
	return (a - c.p.RecenterLow) / (c.p.RecenterHigh - c.p.RecenterLow)
}

func (c *Hybrid) surface(x plant.State) float64 {
	lam1, lam2 := c.gains[1], c.gains[3]
	s := c.k1*(x[plant.IxTheta1Dot]+lam1*x[plant.IxTheta1]) +
		c.k2*(x[plant.IxTheta2Dot]+lam2*x[plant.IxTheta2])
	if c.p.Kx != 0 || c.p.Kv != 0 {
		rc := c.recenterFactor(x[plant.IxCartPos])
		s += rc * (c.p.Kx*x[plant.IxCartPos] + c.p.Kv*x[plant.IxCartVel])
	}
	return s
}

func (c *Hybrid) safeState(x plant.State) bool {
	return x.Finite() && x.Norm() <= c.p.XEmerg
}

func (c *Hybrid) emergencyTriggered(x plant.State, uRaw float64) bool {
	if !x.Finite() || x.Norm() > c.p.XEmerg {
		return true
	}
	if c.k1 >= 0.9*c.p.KMax || c.k2 >= 0.9*c.p.KMax {
		return true
	}
	return math.Abs(uRaw) >= 2*c.uMax
}

func (c *Hybrid) resetToEmergency() {
	minimal := hybridMinimalGainFraction * c.p.KMax
	c.k1, c.k2 = minimal, minimal
	c.uInt = 0
	c.mode = HybridEmergency
}

func (c *Hybrid) Compute(x plant.State, h *History, pl plant.Plant) (float64, Diagnostics, error) {
	c.stepCount++

	var diag Diagnostics

	// Recovery half of the state machine: a safe state observed while in
	// emergency returns control to normal mode within this same step.
	if c.mode == HybridEmergency && c.safeState(x) {
		c.mode = HybridNormal
	}

	if c.mode == HybridEmergency {
		diag.Mode = HybridEmergency.String()
		return 0, diag, nil
	}

	s := c.surface(x)
	diag.S = s

	if c.p.EnableEquivalent && pl != nil {
		res := plant.EquivalentControl(pl, x, c.k1, c.gains[1], c.k2, c.gains[3])
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

	frozen := math.Abs(s) <= c.p.DeadZone
	if !frozen {
		c.adapt(s, dt)
	}

	switchCoeff := Sat(s, c.p.SatSoftWidth, c.method)
	diag.USwitch = -c.k1 * math.Sqrt(math.Abs(s)) * switchCoeff

	uIntCandidate := c.uInt
	if !frozen {
		uIntCandidate = clampAbs(c.uInt+dt*(-c.k2*switchCoeff), c.p.UIntMax)
	}
	uTrial := diag.UEquivalent + diag.USwitch + uIntCandidate
	_, wouldSaturate := clip(uTrial, c.uMax)
	if wouldSaturate && math.Abs(uIntCandidate) > math.Abs(c.uInt) {
		uIntCandidate = c.uInt // anti-windup rollback
	}
	c.uInt = uIntCandidate

	uRaw := diag.UEquivalent + diag.USwitch + c.uInt

	if c.emergencyTriggered(x, uRaw) {
		c.resetToEmergency()
		diag.Mode = HybridEmergency.String()
		return 0, diag, nil
	}

	u, active := clip(uRaw, c.uMax)
	diag.SaturationActive = active
	diag.Mode = HybridNormal.String()
	return u, diag, nil
}

func (c *Hybrid) adapt(s, dt float64) {
	taper := math.Abs(s) / (math.Abs(s) + c.p.TauEps)
	if c.stepCount > c.p.TaperStepStart {
		taper *= 0.5
	}
	c.k1 = clampRange(c.k1+dt*(c.gains[0]*taper*math.Abs(s)-c.leakFor(c.k1)*(c.k1-c.gains[0])), 0, c.p.KMax)
	c.k2 = clampRange(c.k2+dt*(c.gains[2]*taper*math.Abs(s)-c.leakFor(c.k2)*(c.k2-c.gains[2])), 0, c.p.KMax)
}

func (c *Hybrid) leakFor(k float64) float64 {
	if k >= 0.8*c.p.KMax {
		return c.p.StrongLeak
	}
	return c.p.Leak
}
