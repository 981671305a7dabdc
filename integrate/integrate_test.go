package integrate

import (
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/dorival/dipsmc/plant"
)

func freeFall(x plant.State, u float64) (plant.State, error) {
	return plant.State{x[3], x[4], x[5], 0, 0, 0}, nil
}

func Test_integrate01(tst *testing.T) {

	chk.PrintTitle("integrate01: RK4 determinism")

	x0 := plant.State{0, 0.1, -0.05, 0, 0, 0}
	rk4 := New(RK4)
	r1, err := rk4.Step(freeFall, x0, 0, 0.01)
	if err != nil {
		tst.Fatalf("step failed: %v", err)
	}
	r2, err := rk4.Step(freeFall, x0, 0, 0.01)
	if err != nil {
		tst.Fatalf("step failed: %v", err)
	}
	chk.Vector(tst, "RK4 bit-identical across runs", 0, r1.X[:], r2.X[:])
}

func Test_integrate02(tst *testing.T) {

	chk.PrintTitle("integrate02: Euler zero-derivative is a no-op")

	euler := New(Euler)
	r, err := euler.Step(freeFall, plant.Upright, 0, 0.02)
	if err != nil {
		tst.Fatalf("step failed: %v", err)
	}
	chk.Vector(tst, "no movement at rest", 1e-12, r.X[:], plant.Upright[:])
}
