package plant

// simplified linearizes the DIP about the upright equilibrium: sinθ≈θ,
// cosθ≈1, and velocity-squared (Coriolis) products are dropped. Mass
// matrix is evaluated at θ=0 and held constant, the way a rapid-prototyping
// model should be — cheap to evaluate, exact only near upright.
type simplified struct{ p Params }

func (o *simplified) Model() Model   { return Simplified }
func (o *simplified) Params() Params { return o.p }

func (o *simplified) MatricesAt(x State) (M [3][3]float64, Cqdot, G, B [3]float64, cond Condition) {
	p := o.p
	m1, m2, L1, L2 := p.M1, p.M2, p.L1, p.L2
	I1 := p.J1 + m1*L1*L1
	I2 := p.J2 + m2*L2*L2

	M[0][0] = p.Mc + m1 + m2
	M[0][1] = (m1 + m2) * L1
	M[0][2] = m2 * L2
	M[1][0] = M[0][1]
	M[1][1] = (m1+m2)*L1*L1 + I1
	M[1][2] = m2 * L1 * L2
	M[2][0] = M[0][2]
	M[2][1] = M[1][2]
	M[2][2] = m2*L2*L2 + I2

	Cqdot = [3]float64{
		p.B0 * x[IxCartVel],
		p.B1 * x[IxTheta1Dot],
		p.B2 * x[IxTheta2Dot],
	}
	G = [3]float64{0, -(m1 + m2) * p.G * L1 * x[IxTheta1], -m2 * p.G * L2 * x[IxTheta2]}
	B = [3]float64{1, 0, 0}
	cond.Number = conditionEstimate(M)
	cond.IllConditioned = cond.Number > condTolerance
	return
}

func (o *simplified) Derivative(x State, u float64) (State, error) {
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
