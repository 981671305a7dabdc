package plant

import (
	"math"

	"github.com/cpmech/gosl/la"
)

// Model tags the dynamics fidelity, the same role msolid's allocator map
// plays for solid constitutive models — a small closed set of variants
// dispatched through a sum type rather than a class hierarchy.
type Model int

const (
	Simplified Model = iota
	Full
	LowRank
)

func (m Model) String() string {
	switch m {
	case Simplified:
		return "simplified"
	case Full:
		return "full"
	case LowRank:
		return "lowrank"
	default:
		return "unknown"
	}
}

// ModelFromString parses the plant.model configuration field.
func ModelFromString(s string) (Model, bool) {
	switch s {
	case "simplified":
		return Simplified, true
	case "full":
		return Full, true
	case "lowrank":
		return LowRank, true
	default:
		return 0, false
	}
}

// Condition reports the conditioning of the inertia matrix solve performed
// while evaluating the dynamics or an equivalent-control term.
type Condition struct {
	Number         float64 // estimated condition number of M
	IllConditioned bool    // Number > tolerance
	Alpha          float64 // Tikhonov regularization factor applied, 0 if none
}

// condTolerance is τ_cond from spec.md §4.1.
const condTolerance = 1e8

const (
	alphaMin = 1e-10
	alphaMax = 1e-2
)

// Plant evaluates ẋ = f(x,u) for a DIP in one of three fidelities.
type Plant interface {
	Model() Model
	Params() Params
	// Derivative returns ẋ for the given state and scalar control input.
	Derivative(x State, u float64) (State, error)
	// MatricesAt returns the (M, C·q̇, G, B) decomposition at x together
	// with the conditioning of M, used by the SMC equivalent-control path.
	MatricesAt(x State) (M [3][3]float64, Cqdot, G, B [3]float64, cond Condition)
}

// New constructs the Plant variant named by model with the given params.
func New(model Model, p Params) Plant {
	switch model {
	case Simplified:
		return &simplified{p: p}
	case LowRank:
		return &lowRank{p: p}
	default:
		return &full{p: p}
	}
}

// solveRegularized solves M qdd = rhs for qdd, falling back to a
// Tikhonov-regularized solve (M + α·tr(M)/n·I) when M is ill-conditioned,
// per spec.md §4.1. Never proceeds silently past an unresolved residual:
// if even the regularized solve fails to produce a finite result, the
// returned Condition.IllConditioned stays true and the zero vector is used
// by the caller (equivalent control falls back to 0 contribution per §4.8).
func solveRegularized(M [3][3]float64, rhs [3]float64) (qdd [3]float64, cond Condition) {
	cond.Number = conditionEstimate(M)
	cond.IllConditioned = cond.Number > condTolerance
	Muse := M
	if cond.IllConditioned {
		trace := M[0][0] + M[1][1] + M[2][2]
		alpha := clamp(normalizedSeverity(cond.Number), alphaMin, alphaMax)
		cond.Alpha = alpha
		shift := alpha * trace / 3
		for i := 0; i < 3; i++ {
			Muse[i][i] += shift
		}
	}
	Mflat := la.MatAlloc(3, 3)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			Mflat[i][j] = Muse[i][j]
		}
	}
	Minv := la.MatAlloc(3, 3)
	const minDet = 1e-14
	_, err := la.MatInv(Minv, Mflat, minDet)
	if err != nil {
		cond.IllConditioned = true
		return qdd, cond
	}
	out := make([]float64, 3)
	la.MatVecMul(out, 1.0, Minv, rhs[:])
	qdd = [3]float64{out[0], out[1], out[2]}
	for _, v := range qdd {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			cond.IllConditioned = true
			return [3]float64{}, cond
		}
	}
	return qdd, cond
}

// conditionEstimate approximates κ(M) from the ratio of the largest to the
// smallest diagonal entry magnitude |M_ii|. M for this plant is always SPD and
// near-diagonally-dominant away from the singular configurations the guard
// cares about, so this cheap estimate is sufficient to flag the
// ill-conditioned branch without a full SVD.
func conditionEstimate(M [3][3]float64) float64 {
	maxD, minD := math.Inf(-1), math.Inf(1)
	for i := 0; i < 3; i++ {
		d := math.Abs(M[i][i])
		if d > maxD {
			maxD = d
		}
		if d < minD {
			minD = d
		}
	}
	if minD < 1e-12 {
		return math.Inf(1)
	}
	return maxD / minD
}

func normalizedSeverity(cond float64) float64 {
	if math.IsInf(cond, 1) {
		return 1
	}
	s := math.Log10(cond) / math.Log10(condTolerance)
	return clamp(s, 0, 1)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
