package pso

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/dorival/dipsmc/seed"
)

// sphere is a simple convex benchmark: minimum 0 at the origin.
func sphere(pos []float64) float64 {
	var sum float64
	for _, v := range pos {
		sum += v * v
	}
	return sum
}

func Test_pso01(tst *testing.T) {

	chk.PrintTitle("pso01: best-fitness history is monotone non-increasing and improves on the initial swarm")

	lower := []float64{-5, -5, -5}
	upper := []float64{5, 5, 5}
	cfg := DefaultConfig(lower, upper)
	cfg.Seed = 42
	cfg.Iters = 40
	cfg.NParticles = 20

	res := Optimize(sphere, cfg)

	if len(res.History) == 0 {
		tst.Fatalf("expected non-empty history")
	}
	for i := 1; i < len(res.History); i++ {
		if res.History[i].BestFitness > res.History[i-1].BestFitness+1e-12 {
			tst.Fatalf("best fitness increased at iteration %d: %v -> %v", i, res.History[i-1].BestFitness, res.History[i].BestFitness)
		}
	}
	if res.BestFitness >= res.History[0].BestFitness {
		tst.Fatalf("final fitness %v should be strictly below the first-iteration best %v", res.BestFitness, res.History[0].BestFitness)
	}
}

func Test_pso02(tst *testing.T) {

	chk.PrintTitle("pso02: identical seed reproduces an identical run")

	lower := []float64{-5, -5}
	upper := []float64{5, 5}
	cfg := DefaultConfig(lower, upper)
	cfg.Seed = 42
	cfg.Iters = 25
	cfg.NParticles = 12

	r1 := Optimize(sphere, cfg)
	r2 := Optimize(sphere, cfg)

	chk.Vector(tst, "best position reproducible", 0, r1.BestPosition, r2.BestPosition)
	chk.Scalar(tst, "best fitness reproducible", 0, r1.BestFitness, r2.BestFitness)
	if r1.Iterations != r2.Iterations || r1.Convergence != r2.Convergence {
		tst.Fatalf("non-deterministic termination: %v/%v vs %v/%v", r1.Iterations, r1.Convergence, r2.Iterations, r2.Convergence)
	}
}

func Test_pso03(tst *testing.T) {

	chk.PrintTitle("pso03: positions stay within bounds and velocities respect the clamp")

	lower := []float64{-1, -1}
	upper := []float64{1, 1}
	cfg := DefaultConfig(lower, upper)
	cfg.Seed = 7
	cfg.Iters = 15
	cfg.NParticles = 10

	n := len(lower)
	swarm := make([]*Particle, cfg.NParticles)
	for i := range swarm {
		swarm[i] = initParticle(n, i, cfg, sphere)
	}
	gBest, _ := globalBest(swarm)

	for iter := 0; iter < cfg.Iters; iter++ {
		w, c1, c2 := schedule(cfg, iter)
		for i, p := range swarm {
			rng := seed.New(cfg.Seed, iter, i)
			updateParticle(p, gBest, w, c1, c2, cfg, rng)
			for d := 0; d < n; d++ {
				if p.Pos[d] < lower[d]-1e-9 || p.Pos[d] > upper[d]+1e-9 {
					tst.Fatalf("position escaped bounds at dim %d: %v", d, p.Pos[d])
				}
				vmax := cfg.VelKappa * (upper[d] - lower[d])
				if math.Abs(p.Vel[d]) > vmax+1e-9 {
					tst.Fatalf("velocity %v exceeds clamp %v at dim %d", p.Vel[d], vmax, d)
				}
			}
		}
		gBest, _ = reduceGlobalBest(swarm, gBest, sphere(gBest))
	}
}
