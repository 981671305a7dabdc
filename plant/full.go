package plant

import "math"

// full implements the full nonlinear DIP dynamics: a cart carrying two
// serially-hinged links, each modeled as a point mass at distance L_i from
// its own pivot (pivot 2 sits at the position of mass 1), with an added
// rotational inertia I_i = J_i + m_i·L_i² about that pivot (J_i being the
// link inertia about its CM, shifted to the pivot).
type full struct{ p Params }

func (o *full) Model() Model   { return Full }
func (o *full) Params() Params { return o.p }

func (o *full) MatricesAt(x State) (M [3][3]float64, Cqdot, G, B [3]float64, cond Condition) {
	p := o.p
	th1, th2 := x[IxTheta1], x[IxTheta2]
	dth1, dth2 := x[IxTheta1Dot], x[IxTheta2Dot]
	s1, c1 := math.Sin(th1), math.Cos(th1)
	s2, c2 := math.Sin(th2), math.Cos(th2)
	s12 := math.Sin(th1 - th2)

	m1, m2, L1, L2 := p.M1, p.M2, p.L1, p.L2
	I1 := p.J1 + m1*L1*L1
	I2 := p.J2 + m2*L2*L2

	M[0][0] = p.Mc + m1 + m2
	M[0][1] = (m1 + m2) * L1 * c1
	M[0][2] = m2 * L2 * c2
	M[1][0] = M[0][1]
	M[1][1] = (m1+m2)*L1*L1 + I1
	M[1][2] = m2 * L1 * L2 * math.Cos(th1-th2)
	M[2][0] = M[0][2]
	M[2][1] = M[1][2]
	M[2][2] = m2*L2*L2 + I2

	c := [3][3]float64{
		{0, -(m1 + m2) * L1 * s1 * dth1, -m2 * L2 * s2 * dth2},
		{0, p.B1, m2 * L1 * L2 * s12 * dth2},
		{0, -m2 * L1 * L2 * s12 * dth1, p.B2},
	}
	qdot := [3]float64{x[IxCartVel], dth1, dth2}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			Cqdot[i] += c[i][j] * qdot[j]
		}
	}
	Cqdot[0] += p.B0 * x[IxCartVel]

	G = [3]float64{0, -(m1 + m2) * p.G * L1 * s1, -m2 * p.G * L2 * s2}
	B = [3]float64{1, 0, 0}
	cond.Number = conditionEstimate(M)
	cond.IllConditioned = cond.Number > condTolerance
	return
}

func (o *full) Derivative(x State, u float64) (State, error) {
	M, Cqdot, G, B, _ := o.MatricesAt(x)
	rhs := [3]float64{
		B[0]*u - Cqdot[0] - G[0],
		B[1]*u - Cqdot[1] - G[1],
		B[2]*u - Cqdot[2] - G[2],
	}
	qdd, cond := solveRegularized(M, rhs)
	var dx State
	dx[IxCartPos] = x[IxCartVel]
	dx[IxTheta1] = x[IxTheta1Dot]
	dx[IxTheta2] = x[IxTheta2Dot]
	if cond.IllConditioned && cond.Alpha == 0 {
		// regularized solve itself failed: equivalent-control callers fall
		// back to zero, but the raw derivative must still be finite so the
		// integrator can apply the safety guard rather than propagate NaN.
		return dx, nil
	}
	dx[IxCartVel] = qdd[0]
	dx[IxTheta1Dot] = qdd[1]
	dx[IxTheta2Dot] = qdd[2]
	return dx, nil
}
