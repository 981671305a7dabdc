package plant

import "math/rand"

// Uncertainty describes optional multi-draw parameter uncertainty sampling
// for Monte-Carlo style fitness evaluation. spec.md §9 leaves the
// distribution shapes of this feature underspecified; per that note this is
// implemented as an inert, zero-variance default rather than a guess.
type Uncertainty struct {
	MassSpread   float64 // fractional 1σ spread applied to Mc, M1, M2
	LengthSpread float64 // fractional 1σ spread applied to L1, L2
}

// Sample draws a perturbed Params from p using rng. With the zero-value
// Uncertainty (both spreads 0) it always returns p unchanged.
func (u Uncertainty) Sample(p Params, rng *rand.Rand) Params {
	if u.MassSpread == 0 && u.LengthSpread == 0 {
		return p
	}
	q := p
	q.Mc *= 1 + u.MassSpread*rng.NormFloat64()
	q.M1 *= 1 + u.MassSpread*rng.NormFloat64()
	q.M2 *= 1 + u.MassSpread*rng.NormFloat64()
	q.L1 *= 1 + u.LengthSpread*rng.NormFloat64()
	q.L2 *= 1 + u.LengthSpread*rng.NormFloat64()
	return q
}
