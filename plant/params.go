package plant

import (
	"github.com/cpmech/gosl/fun"

	"github.com/dorival/dipsmc/errs"
)

// Params holds the physical parameters of the cart + two-pendulum system.
// Masses in kg, lengths in m, inertias in kg·m², gravity in m/s².
type Params struct {
	Mc, M1, M2 float64 // cart, link-1, link-2 mass
	L1, L2     float64 // pivot-to-CM length of each link
	J1, J2     float64 // link moment of inertia about its own CM
	B0, B1, B2 float64 // viscous friction: cart, joint-1, joint-2
	G          float64 // gravitational acceleration
}

// DefaultParams returns a nominal, well-conditioned parameter set used by
// tests and by the CLI when no configuration is supplied.
func DefaultParams() Params {
	return Params{
		Mc: 1.5, M1: 0.2, M2: 0.15,
		L1: 0.4, L2: 0.3,
		J1: 0.0085, J2: 0.0051,
		B0: 0.2, B1: 0.005, B2: 0.004,
		G: 9.81,
	}
}

// ToPrms exports the parameter set as a named fun.Prms record, the same
// {N, V} shape msolid uses for constitutive model parameters.
func (p Params) ToPrms() fun.Prms {
	return fun.Prms{
		&fun.Prm{N: "Mc", V: p.Mc},
		&fun.Prm{N: "M1", V: p.M1},
		&fun.Prm{N: "M2", V: p.M2},
		&fun.Prm{N: "L1", V: p.L1},
		&fun.Prm{N: "L2", V: p.L2},
		&fun.Prm{N: "J1", V: p.J1},
		&fun.Prm{N: "J2", V: p.J2},
		&fun.Prm{N: "B0", V: p.B0},
		&fun.Prm{N: "B1", V: p.B1},
		&fun.Prm{N: "B2", V: p.B2},
		&fun.Prm{N: "G", V: p.G},
	}
}

// FromPrms parses a fun.Prms record produced by ToPrms (or by an injected
// configuration) into a Params value. Unknown names are rejected, matching
// VonMises.Init's parameter switch.
func FromPrms(prms fun.Prms) (p Params, err error) {
	p = DefaultParams()
	for _, prm := range prms {
		switch prm.N {
		case "Mc":
			p.Mc = prm.V
		case "M1":
			p.M1 = prm.V
		case "M2":
			p.M2 = prm.V
		case "L1":
			p.L1 = prm.V
		case "L2":
			p.L2 = prm.V
		case "J1":
			p.J1 = prm.V
		case "J2":
			p.J2 = prm.V
		case "B0":
			p.B0 = prm.V
		case "B1":
			p.B1 = prm.V
		case "B2":
			p.B2 = prm.V
		case "G":
			p.G = prm.V
		default:
			return p, errs.New(errs.ConfigError, "plant: parameter named %q is unknown", prm.N)
		}
	}
	return p, nil
}

// Validate reports whether the parameter set describes a physically sane
// plant (strictly positive masses, lengths and gravity; non-negative
// inertias).
func (p Params) Validate() error {
	if p.Mc <= 0 || p.M1 <= 0 || p.M2 <= 0 {
		return errs.New(errs.ConfigError, "plant: masses must be positive (Mc=%v M1=%v M2=%v)", p.Mc, p.M1, p.M2)
	}
	if p.L1 <= 0 || p.L2 <= 0 {
		return errs.New(errs.ConfigError, "plant: link lengths must be positive (L1=%v L2=%v)", p.L1, p.L2)
	}
	if p.J1 < 0 || p.J2 < 0 {
		return errs.New(errs.ConfigError, "plant: inertias must be non-negative (J1=%v J2=%v)", p.J1, p.J2)
	}
	if p.G <= 0 {
		return errs.New(errs.ConfigError, "plant: gravity must be positive, got %v", p.G)
	}
	return nil
}
