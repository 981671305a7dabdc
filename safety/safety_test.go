package safety

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/dorival/dipsmc/plant"
)

func Test_safety01(tst *testing.T) {

	chk.PrintTitle("safety01: non-finite state is a violation")

	x := plant.State{0, math.NaN(), 0, 0, 0, 0}
	reason, violated := Check(x, 0, 0, 0, DefaultLimits(100))
	if !violated || reason != SafetyViolation {
		tst.Fatalf("expected SafetyViolation, got %v (violated=%v)", reason, violated)
	}
}

func Test_safety02(tst *testing.T) {

	chk.PrintTitle("safety02: control saturation bound")

	u, active := Saturate(150, 100)
	chk.Scalar(tst, "clipped to max", 1e-12, u, 100)
	if !active {
		tst.Fatalf("expected saturation_active=true")
	}
}

func Test_safety03(tst *testing.T) {

	chk.PrintTitle("safety03: benign state passes all guards")

	reason, violated := Check(plant.Upright, 0, 0, 0, DefaultLimits(100))
	if violated || reason != Completed {
		tst.Fatalf("expected no violation at rest, got %v", reason)
	}
}

func Test_safety04(tst *testing.T) {

	chk.PrintTitle("safety04: IntegratorFailure is a distinct Reason from SafetyViolation")

	if IntegratorFailure == SafetyViolation {
		tst.Fatalf("IntegratorFailure must not collapse into SafetyViolation")
	}
	if IntegratorFailure.String() != "integrator_failure" {
		tst.Fatalf("unexpected String(), got %q", IntegratorFailure.String())
	}
}
