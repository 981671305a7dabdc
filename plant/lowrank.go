package plant

import "math"

// lowRank drops the M23/M32 link1–link2 inertial coupling terms (the
// cart–link couplings M12/M21 and M13/M31 are kept), approximating the two
// pendulums as independently coupled to the cart only, and keeps only the
// viscous friction part of C·q̇. The mass matrix is still solved through
// solveRegularized like the other models; the model trades accuracy for
// simpler dynamics in large batch rollouts (spec.md §2, "rank-reduced
// approximation for fast batch evaluation").
type lowRank struct{ p Params }

func (o *lowRank) Model() Model   { return LowRank }
func (o *lowRank) Params() Params { return o.p }

func (o *lowRank) MatricesAt(x State) (M [3][3]float64, Cqdot, G, B [3]float64, cond Condition) {
	p := o.p
	th1, th2 := x[IxTheta1], x[IxTheta2]
	s1, c1 := math.Sin(th1), math.Cos(th1)
	s2, c2 := math.Sin(th2), math.Cos(th2)
	m1, m2, L1, L2 := p.M1, p.M2, p.L1, p.L2
	I1 := p.J1 + m1*L1*L1
	I2 := p.J2 + m2*L2*L2

	M[0][0] = p.Mc + m1 + m2
	M[0][1] = (m1 + m2) * L1 * c1
	M[0][2] = m2 * L2 * c2
	M[1][0] = M[0][1]
	M[1][1] = (m1+m2)*L1*L1 + I1
	M[2][0] = M[0][2]
	M[2][2] = m2*L2*L2 + I2
	// M[1][2], M[2][1] intentionally left at zero: the dropped coupling term.

	Cqdot = [3]float64{
		p.B0 * x[IxCartVel],
		p.B1 * x[IxTheta1Dot],
		p.B2 * x[IxTheta2Dot],
	}
	G = [3]float64{0, -(m1 + m2) * p.G * L1 * s1, -m2 * p.G * L2 * s2}
	B = [3]float64{1, 0, 0}
	cond.Number = conditionEstimate(M)
	cond.IllConditioned = cond.Number > condTolerance
	return
}

func (o *lowRank) Derivative(x State, u float64) (State, error) {
	M, Cqdot, G, B, _ := o.MatricesAt(x)
	rhs := [3]float64{
		B[0]*u - Cqdot[0] - G[0],
		B[1]*u - Cqdot[1] - G[1],
		B[2]*u - Cqdot[2] - G[2],
	}
	qdd, _ := solveRegularized(M, rhs)
	var dx State
	dx[IxCartPos] = x[IxCartVel]
	dx[IxTheta1] = x[IxTheta1Dot]
	dx[IxTheta2] = x[IxTheta2Dot]
	dx[IxCartVel] = qdd[0]
	dx[IxTheta1Dot] = qdd[1]
	dx[IxTheta2Dot] = qdd[2]
	return dx, nil
}
