// Package pso implements the constrained, adaptive particle-swarm tuner of
// spec.md §4.7. The swarm update equations follow the momentum/cognitive/
// social structure of pso/pso.go in the shiblon-entrogo PSO package — the
// one repository in this pack that actually implements particle-swarm
// optimization — adapted from its topology-driven, momentum-based law to
// the fixed global-best, linearly-scheduled ω/c1/c2 law spec.md §4.7 calls
// for, and reseeded deterministically per spec.md §5 instead of sharing one
// process-wide math/rand source.
package pso

import (
	"math"
	"math/rand"

	"github.com/cpmech/gosl/la"

	"github.com/dorival/dipsmc/seed"
)

// Objective is the cost evaluator bound to a configuration, ℝⁿ → ℝ, per
// spec.md §6's PSO API.
type Objective func(pos []float64) float64

// Config holds the pso.* configuration fields of spec.md §6.
type Config struct {
	NParticles int
	Iters      int
	Lower      []float64
	Upper      []float64

	W0, W1   float64 // inertia schedule endpoints
	C10, C11 float64 // cognitive schedule endpoints
	C20, C21 float64 // social schedule endpoints

	Adaptive   bool    // diversity-driven ω/c1/c2 adjustment
	Clamp      bool    // velocity clamping
	VelKappa   float64 // v_max = κ·(upper-lower); spec.md default ≈0.2
	Seed       int64
	Tol        float64 // sliding-window improvement tolerance
	WindowSize int     // sliding window length for convergence (spec.md default 20)

	// Budget, when > 0 and Elapsed is set, is compared against Elapsed()
	// once per completed iteration (spec.md §5 "Cancellation / timeouts");
	// the caller supplies Elapsed, since this package does not read the
	// system clock itself (kept deterministic, testable).
	Elapsed func() float64
	Budget  float64
}

// DefaultConfig matches the nominal schedule in spec.md §4.7.
func DefaultConfig(lower, upper []float64) Config {
	return Config{
		NParticles: 30, Iters: 100,
		Lower: lower, Upper: upper,
		W0: 0.9, W1: 0.4,
		C10: 2.5, C11: 0.5,
		C20: 1.5, C21: 2.5,
		Adaptive: true, Clamp: true, VelKappa: 0.2,
		Tol: 1e-6, WindowSize: 20,
	}
}

// Convergence names why Optimize stopped.
type Convergence int

const (
	ReachedIterations Convergence = iota
	ConvergedByTolerance
	PrematureConvergence
	StoppedByBudget
)

func (c Convergence) String() string {
	switch c {
	case ConvergedByTolerance:
		return "converged"
	case PrematureConvergence:
		return "premature_convergence"
	case StoppedByBudget:
		return "budget_exhausted"
	default:
		return "reached_iterations"
	}
}

// IterationRecord is one entry of Result.History.
type IterationRecord struct {
	BestFitness float64
	MeanFitness float64
	Diversity   float64
}

// Result is spec.md §6's PSO API return value.
type Result struct {
	BestPosition []float64
	BestFitness  float64
	History      []IterationRecord
	Iterations   int
	Convergence  Convergence
}

// Optimize runs the swarm to convergence or budget exhaustion, per spec.md
// §4.7. Given an identical seed, it reproduces bit-identical positions,
// velocities, evaluations and bests across runs (spec.md §4.7/§8 invariant
// 8), because every random draw routes through seed.New(cfg.Seed, iter,
// particle) rather than a shared RNG.
func Optimize(objective Objective, cfg Config) Result {
	n := len(cfg.Lower)
	swarm := make([]*Particle, cfg.NParticles)
	for i := range swarm {
		swarm[i] = initParticle(n, i, cfg, objective)
	}

	bestPos, bestFit := globalBest(swarm)
	var history []IterationRecord
	conv := ReachedIterations
	window := make([]float64, 0, cfg.WindowSize)

	for iter := 0; iter < cfg.Iters; iter++ {
		w, c1, c2 := schedule(cfg, iter)
		if cfg.Adaptive {
			w, c1, c2 = adjustForDiversity(w, c1, c2, diversity(swarm, cfg.Lower, cfg.Upper))
		}

		for i, p := range swarm {
			rng := seed.New(cfg.Seed, iter, i)
			updateParticle(p, bestPos, w, c1, c2, cfg, rng)
			p.Fitness = objective(p.Pos)
			if p.Fitness < p.BestFitness {
				p.BestFitness = p.Fitness
				copy(p.BestPos, p.Pos)
			}
		}

		bestPos, bestFit = reduceGlobalBest(swarm, bestPos, bestFit)

		rec := IterationRecord{BestFitness: bestFit, MeanFitness: meanFitness(swarm), Diversity: diversity(swarm, cfg.Lower, cfg.Upper)}
		history = append(history, rec)
		window = append(window, bestFit)
		if len(window) > cfg.WindowSize {
			window = window[1:]
		}

		if len(window) == cfg.WindowSize && window[0]-window[len(window)-1] < cfg.Tol {
			conv = ConvergedByTolerance
			return finish(bestPos, bestFit, history, iter+1, conv)
		}
		if iter > 0 {
			initialDiversity := history[0].Diversity
			if initialDiversity > 0 && rec.Diversity < 0.01*initialDiversity && bestFit > cfg.Tol*100 {
				conv = PrematureConvergence
				return finish(bestPos, bestFit, history, iter+1, conv)
			}
		}
		if cfg.Elapsed != nil && cfg.Budget > 0 && cfg.Elapsed() >= cfg.Budget {
			conv = StoppedByBudget
			return finish(bestPos, bestFit, history, iter+1, conv)
		}
	}

	return finish(bestPos, bestFit, history, cfg.Iters, conv)
}

func finish(pos []float64, fit float64, hist []IterationRecord, iters int, conv Convergence) Result {
	return Result{BestPosition: clonef(pos), BestFitness: fit, History: hist, Iterations: iters, Convergence: conv}
}

func initParticle(n, idx int, cfg Config, objective Objective) *Particle {
	p := newParticle(n)
	rng := seed.New(cfg.Seed, -1, idx)
	for d := 0; d < n; d++ {
		lo, hi := cfg.Lower[d], cfg.Upper[d]
		p.Pos[d] = lo + rng.Float64()*(hi-lo)
		p.Vel[d] = (rng.Float64()*2 - 1) * 0.1 * (hi - lo)
	}
	p.Fitness = objective(p.Pos)
	p.BestFitness = p.Fitness
	copy(p.BestPos, p.Pos)
	return p
}

func schedule(cfg Config, iter int) (w, c1, c2 float64) {
	frac := 0.0
	if cfg.Iters > 1 {
		frac = float64(iter) / float64(cfg.Iters-1)
	}
	lerp := func(a, b float64) float64 { return a + frac*(b-a) }
	return lerp(cfg.W0, cfg.W1), lerp(cfg.C10, cfg.C11), lerp(cfg.C20, cfg.C21)
}

// adjustForDiversity nudges ω/c1 up when the swarm has collapsed (to
// re-explore) and ω down / c2 up when it remains too spread out, per
// spec.md §4.7's optional diversity-driven adjustment, bounded to stay
// within sane PSO ranges.
func adjustForDiversity(w, c1, c2, div float64) (float64, float64, float64) {
	const lowDiv, highDiv = 0.05, 0.6
	switch {
	case div < lowDiv:
		w = math.Min(w*1.2, 1.2)
		c1 = math.Min(c1*1.2, 3.0)
	case div > highDiv:
		w = math.Max(w*0.8, 0.2)
		c2 = math.Min(c2*1.1, 3.0)
	}
	return w, c1, c2
}

// updateParticle applies the canonical velocity/position update
//
//	v_new = w·v + c1·r1·(pBest-pos) + c2·r2·(gBest-pos)
//	p_new = pos + v_new
//
// via la.VecAdd2, the same "new = α·a + β·b" combinator msolid/driver.go
// uses for its strain-path update (εnew = εold + Δε). r1, r2 are drawn
// once per particle per iteration from the deterministically seeded rng,
// matching the scalar-weighted (not per-dimension) form la.VecAdd2 takes.
func updateParticle(p *Particle, gBest []float64, w, c1, c2 float64, cfg Config, rng *rand.Rand) {
	n := len(p.Pos)
	r1, r2 := rng.Float64(), rng.Float64()

	cogDiff := make([]float64, n)
	la.VecAdd2(cogDiff, 1, p.BestPos, -1, p.Pos) // pBest - pos

	socDiff := make([]float64, n)
	la.VecAdd2(socDiff, 1, gBest, -1, p.Pos) // gBest - pos

	velNew := make([]float64, n)
	la.VecAdd2(velNew, w, p.Vel, c1*r1, cogDiff)
	la.VecAdd2(velNew, 1, velNew, c2*r2, socDiff)

	if cfg.Clamp {
		for d := 0; d < n; d++ {
			vmax := cfg.VelKappa * (cfg.Upper[d] - cfg.Lower[d])
			if vmax <= 0 {
				vmax = math.Inf(1)
			}
			velNew[d] = clamp(velNew[d], -vmax, vmax)
		}
	}

	posNew := make([]float64, n)
	la.VecAdd2(posNew, 1, p.Pos, 1, velNew)

	for d := 0; d < n; d++ {
		lo, hi := cfg.Lower[d], cfg.Upper[d]
		if posNew[d] < lo {
			posNew[d] = lo
			velNew[d] = 0 // absorbing boundary
		} else if posNew[d] > hi {
			posNew[d] = hi
			velNew[d] = 0
		}
	}
	copy(p.Vel, velNew)
	copy(p.Pos, posNew)
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

func globalBest(swarm []*Particle) ([]float64, float64) {
	best := swarm[0]
	for _, p := range swarm[1:] {
		if p.BestFitness < best.BestFitness {
			best = p
		}
	}
	return clonef(best.BestPos), best.BestFitness
}

// reduceGlobalBest folds the swarm's personal bests into a single global
// best after the (conceptually parallel) per-particle update, by an
// associative min-with-tiebreak on lowest index, per spec.md §5's ordering
// guarantee.
func reduceGlobalBest(swarm []*Particle, curPos []float64, curFit float64) ([]float64, float64) {
	bestPos, bestFit := curPos, curFit
	for _, p := range swarm {
		if p.BestFitness < bestFit {
			bestFit = p.BestFitness
			bestPos = clonef(p.BestPos)
		}
	}
	return bestPos, bestFit
}

func meanFitness(swarm []*Particle) float64 {
	var sum float64
	for _, p := range swarm {
		sum += p.Fitness
	}
	return sum / float64(len(swarm))
}

// diversity is the mean distance of particles from the swarm centroid,
// normalized by the search-space diagonal, per spec.md §3. Distances are
// computed via la.VecAdd2 (difference) and la.VecNorm (Euclidean length),
// the same primitives e_rjoint.go uses to normalize its joint direction
// vector.
func diversity(swarm []*Particle, lower, upper []float64) float64 {
	n := len(swarm[0].Pos)
	mean := make([]float64, n)
	for _, p := range swarm {
		for d := 0; d < n; d++ {
			mean[d] += p.Pos[d]
		}
	}
	for d := range mean {
		mean[d] /= float64(len(swarm))
	}

	diagVec := make([]float64, n)
	la.VecAdd2(diagVec, 1, upper, -1, lower)
	diag := la.VecNorm(diagVec)
	if diag == 0 {
		return 0
	}

	var sum float64
	diff := make([]float64, n)
	for _, p := range swarm {
		la.VecAdd2(diff, 1, p.Pos, -1, mean)
		sum += la.VecNorm(diff)
	}
	return (sum / float64(len(swarm))) / diag
}
