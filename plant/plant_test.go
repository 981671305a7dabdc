package plant

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_plant01(tst *testing.T) {

	chk.PrintTitle("plant01: upright equilibrium has zero derivative")

	p := DefaultParams()
	for _, m := range []Model{Simplified, Full, LowRank} {
		pl := New(m, p)
		dx, err := pl.Derivative(Upright, 0)
		if err != nil {
			tst.Errorf("%v: derivative failed: %v", m, err)
			continue
		}
		chk.Vector(tst, m.String()+": dx at upright", 1e-12, dx[:], []float64{0, 0, 0, 0, 0, 0})
	}
}

func Test_plant02(tst *testing.T) {

	chk.PrintTitle("plant02: full-model mass matrix is symmetric")

	pl := New(Full, DefaultParams())
	x := State{0.1, 0.2, -0.15, 0.05, 0.3, -0.2}
	M, _, _, _, cond := pl.MatricesAt(x)
	if cond.IllConditioned {
		tst.Fatalf("unexpected ill-conditioned M at a benign state")
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			chk.Scalar(tst, "M symmetric", 1e-12, M[i][j], M[j][i])
		}
	}
}

func Test_plant03(tst *testing.T) {

	chk.PrintTitle("plant03: equivalent control falls back to 0 when the surface's u-coefficient vanishes")

	pl := New(Full, DefaultParams())
	res := EquivalentControl(pl, Upright, 0, 0, 0, 0)
	if res.Used {
		tst.Fatalf("expected equivalent control to be unused with zero gains, got used=true")
	}
}

func Test_plant04(tst *testing.T) {

	chk.PrintTitle("plant04: params validate rejects non-positive mass")

	p := DefaultParams()
	p.Mc = -1
	if err := p.Validate(); err == nil {
		tst.Fatalf("expected validation error for negative cart mass")
	}
}
