package plant

import (
	"math"

	"github.com/cpmech/gosl/la"
)

// EqControlResult is the structured outcome of an equivalent-control
// solve, mirroring msolid.Driver's predictor-corrector diagnostics: callers
// (and tests) can inspect why equivalent control was or wasn't applied
// instead of only seeing a bare float.
type EqControlResult struct {
	Value     float64
	Used      bool
	Reason    string
	Condition Condition
}

// EquivalentControl solves ṡ = 0 for the linear surface
// s = k1(θ̇1+λ1θ1) + k2(θ̇2+λ2θ2) using the plant's local (M, Cq̇, G, B)
// decomposition at x, per spec.md §4.4.1. When M is ill-conditioned, or the
// reduced scalar coefficient of u in ṡ vanishes, the equivalent-control
// contribution falls back to 0 and Used is false (spec.md §4.8).
func EquivalentControl(p Plant, x State, k1, lam1, k2, lam2 float64) EqControlResult {
	M, Cqdot, G, B, cond := p.MatricesAt(x)
	if cond.IllConditioned {
		return EqControlResult{Used: false, Reason: "ill-conditioned inertia matrix", Condition: cond}
	}
	Minv, err := invertMat3(M)
	if err != nil {
		return EqControlResult{Used: false, Reason: "singular inertia matrix", Condition: cond}
	}
	// row i of M^-1 dotted with B gives dθ̈i/du; dotted with (Cq̇+G) gives
	// the u-independent part of θ̈i. Both are a single 3x3 mat-vec multiply,
	// the same la.MatVecMul call solveRegularized uses for the full qdd
	// solve in plant.go.
	fromB := make([]float64, 3)
	la.MatVecMul(fromB, 1.0, Minv, B[:])
	a1, a2 := fromB[1], fromB[2]

	rhs := []float64{Cqdot[0] + G[0], Cqdot[1] + G[1], Cqdot[2] + G[2]}
	fromRhs := make([]float64, 3)
	la.MatVecMul(fromRhs, 1.0, Minv, rhs)
	b1, b2 := fromRhs[1], fromRhs[2]

	denom := k1*a1 + k2*a2
	if math.Abs(denom) < 1e-9 {
		return EqControlResult{Used: false, Reason: "sliding-surface coefficient of u near zero", Condition: cond}
	}
	numer := k1*(b1-lam1*x[IxTheta1Dot]) + k2*(b2-lam2*x[IxTheta2Dot])
	u := numer / denom
	if math.IsNaN(u) || math.IsInf(u, 0) {
		return EqControlResult{Used: false, Reason: "non-finite equivalent control", Condition: cond}
	}
	return EqControlResult{Value: u, Used: true, Condition: cond}
}

// invertMat3 inverts a 3x3 matrix via la.MatInv, the same call
// solveRegularized in plant.go uses for the full dynamics solve, so the
// two 3x3 inversions this package performs go through one library path
// instead of a duplicated hand-written adjugate formula.
func invertMat3(M [3][3]float64) ([][]float64, error) {
	Mflat := la.MatAlloc(3, 3)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			Mflat[i][j] = M[i][j]
		}
	}
	Minv := la.MatAlloc(3, 3)
	const minDet = 1e-14
	_, err := la.MatInv(Minv, Mflat, minDet)
	if err != nil {
		return nil, err
	}
	return Minv, nil
}
