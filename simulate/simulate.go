// Package simulate drives the closed loop of controller + plant +
// integrator for one rollout at a time (spec.md §4.5), and the same loop
// run in lock-step across independent initial conditions for batch
// evaluation. Every rollout owns its own trajectory buffer exclusively;
// nothing here mutates state shared across rollouts.
package simulate

import (
	"github.com/dorival/dipsmc/errs"
	"github.com/dorival/dipsmc/integrate"
	"github.com/dorival/dipsmc/plant"
	"github.com/dorival/dipsmc/safety"
	"github.com/dorival/dipsmc/smc"
)

// Trajectory is the ordered (t, x, u, s) sequence spec.md §3 describes.
type Trajectory struct {
	Times    []float64
	States   []plant.State
	Controls []float64
	Surfaces []float64
}

func (tr *Trajectory) append(t float64, x plant.State, u, s float64) {
	tr.Times = append(tr.Times, t)
	tr.States = append(tr.States, x)
	tr.Controls = append(tr.Controls, u)
	tr.Surfaces = append(tr.Surfaces, s)
}

// Config describes one rollout: the controller and plant instances, the
// integration method and horizon, and the safety guards to enforce.
type Config struct {
	Controller smc.Controller
	Plant      plant.Plant
	X0         plant.State
	TFinal     float64
	Dt         float64
	Integrator integrate.Kind
	Limits     safety.Limits
	// MaxSteps bounds the loop independently of TFinal/Dt, guarding against
	// an adaptive integrator's step collapsing below what TFinal/Dt would
	// otherwise imply; 0 derives it as TFinal/Dt + 2.
	MaxSteps int
}

// Result is what spec.md §6's Simulation API returns: the trajectory, why
// it stopped, and the aggregated metrics.
type Result struct {
	Trajectory Trajectory
	ExitReason safety.Reason
	Metrics    Metrics
}

// Run executes a single closed-loop rollout per spec.md §4.5.
func Run(cfg Config) Result {
	integrator := integrate.New(cfg.Integrator)
	hist := smc.InitializeHistory(cfg.Dt)

	maxSteps := cfg.MaxSteps
	if maxSteps <= 0 {
		if cfg.Dt > 0 {
			maxSteps = int(cfg.TFinal/cfg.Dt) + 2
		} else {
			maxSteps = 100000
		}
	}

	var tr Trajectory
	x := cfg.X0
	t := 0.0
	baselineEnergy := safety.Energy(cfg.X0, cfg.Plant.Params())
	exitReason := safety.Completed

	for step := 0; step < maxSteps; step++ {
		if reason, violated := safety.Check(x, 0, 0, 0, safety.Limits{MaxAngle: cfg.Limits.MaxAngle, MaxOmega: cfg.Limits.MaxOmega}); violated {
			exitReason = reason
			tr.append(t, x, 0, 0)
			break
		}

		u, diag, err := cfg.Controller.Compute(x, hist, cfg.Plant)
		if err != nil {
			exitReason = safety.SafetyViolation
			tr.append(t, x, 0, diag.S)
			break
		}

		energy := safety.Energy(x, cfg.Plant.Params())
		if reason, violated := safety.Check(x, u, energy, baselineEnergy, cfg.Limits); violated {
			exitReason = reason
			tr.append(t, x, u, diag.S)
			break
		}

		tr.append(t, x, u, diag.S)

		if t >= cfg.TFinal {
			exitReason = safety.Completed
			break
		}

		res, err := integrator.Step(func(xs plant.State, uu float64) (plant.State, error) {
			return cfg.Plant.Derivative(xs, uu)
		}, x, u, cfg.Dt)
		if err != nil {
			if errs.Is(err, errs.IntegratorFailure) {
				exitReason = safety.IntegratorFailure
			} else {
				exitReason = safety.SafetyViolation
			}
			break
		}
		if res.Failed {
			exitReason = safety.SafetyViolation
			break
		}

		x = res.X
		t += res.StepUsed
	}

	if exitReason == safety.Completed && t < cfg.TFinal {
		exitReason = safety.Timeout
	}

	return Result{Trajectory: tr, ExitReason: exitReason, Metrics: ComputeMetrics(tr, cfg.Limits.MaxControl)}
}
