package cost

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/dorival/dipsmc/integrate"
	"github.com/dorival/dipsmc/plant"
	"github.com/dorival/dipsmc/safety"
	"github.com/dorival/dipsmc/smc"
)

func Test_cost01(tst *testing.T) {

	chk.PrintTitle("cost01: finite cost for a stable gain set, penalty for instability")

	x0 := plant.State{0, 0.1, 0.05, 0, 0, 0}
	pl := plant.New(plant.Full, plant.DefaultParams())
	limits := safety.DefaultLimits(100)

	e, err := NewEvaluator(smc.ClassicalVariant, []float64{10, 8, 15, 12, 50, 5}, pl, x0, 5, 0.01,
		integrate.RK4, limits, 100, 0.01, smc.Linear, smc.AdaptiveParams{}, smc.HybridParams{}, DefaultWeights(), Normalization{})
	if err != nil {
		tst.Fatalf("construct failed: %v", err)
	}

	good := e.Evaluate([]float64{10, 8, 15, 12, 50, 5})
	if math.IsNaN(good) || math.IsInf(good, 0) {
		tst.Fatalf("expected finite cost, got %v", good)
	}

	bad := e.Evaluate([]float64{-1, -1, -1, -1, -1, -1})
	chk.Scalar(tst, "invalid gains penalized at the instability constant", 1e-9, bad, instabilityPenalty)

	if good >= bad {
		tst.Fatalf("stable gains should cost less than a rejected gain vector: good=%v bad=%v", good, bad)
	}
}
