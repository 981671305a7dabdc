// Copyright 2015 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/cpmech/gosl/utl"

	"github.com/dorival/dipsmc/cfg"
	"github.com/dorival/dipsmc/cost"
	"github.com/dorival/dipsmc/errs"
	"github.com/dorival/dipsmc/integrate"
	"github.com/dorival/dipsmc/plant"
	"github.com/dorival/dipsmc/pso"
	"github.com/dorival/dipsmc/safety"
	"github.com/dorival/dipsmc/simulate"
	"github.com/dorival/dipsmc/smc"
)

const (
	exitOK             = 0
	exitConfigError    = 2
	exitInstability    = 3
	exitPSONotConverge = 4
)

func main() {
	utl.PfWhite("\nDIP-SMC -- sliding-mode control and PSO tuning for a double inverted pendulum\n\n")

	if len(os.Args) < 2 {
		usage()
		os.Exit(exitConfigError)
	}

	var code int
	switch os.Args[1] {
	case "simulate":
		code = cmdSimulate(os.Args[2:])
	case "tune":
		code = cmdTune(os.Args[2:])
	case "evaluate":
		code = cmdEvaluate(os.Args[2:])
	default:
		utl.PfRed("ERROR: unrecognized subcommand %q\n", os.Args[1])
		usage()
		code = exitConfigError
	}
	os.Exit(code)
}

func usage() {
	utl.Pf("usage:\n")
	utl.Pf("  dipsmc simulate --ctrl <variant> --gains <vec> --t <s>\n")
	utl.Pf("  dipsmc tune --ctrl <variant> --iters <n> --particles <n>\n")
	utl.Pf("  dipsmc evaluate --ctrl <variant> --gains <vec> --runs <n>\n")
}

func parseGains(s string) ([]float64, error) {
	if s == "" {
		return nil, errs.New(errs.ConfigError, "--gains is required")
	}
	fields := strings.Split(s, ",")
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, errs.New(errs.ConfigError, "invalid gain %q: %v", f, err)
		}
		out[i] = v
	}
	return out, nil
}

func cmdSimulate(args []string) int {
	fs := flag.NewFlagSet("simulate", flag.ContinueOnError)
	ctrlType := fs.String("ctrl", "classical", "controller variant")
	gainsStr := fs.String("gains", "", "comma separated gain vector")
	tFinal := fs.Float64("t", 10, "simulation horizon in seconds")
	dt := fs.Float64("dt", 0.01, "step size")
	maxForce := fs.Float64("max-force", 100, "actuator bound")
	if err := fs.Parse(args); err != nil {
		return exitConfigError
	}

	gains, err := parseGains(*gainsStr)
	if err != nil {
		utl.PfRed("ERROR: %v\n", err)
		return exitConfigError
	}

	var r cfg.Root
	r.Controller.Type = *ctrlType
	r.Controller.Gains = gains
	r.Controller.MaxForce = *maxForce
	r.Simulation.TFinal = *tFinal
	r.Simulation.Dt = *dt
	r.SetDefault()
	if err := r.Validate(); err != nil {
		utl.PfRed("ERROR: %v\n", err)
		return exitConfigError
	}

	ctrlSpec, err := r.ControllerSpec()
	if err != nil {
		utl.PfRed("ERROR: %v\n", err)
		return exitConfigError
	}
	ctrl, err := smc.New(ctrlSpec)
	if err != nil {
		utl.PfRed("ERROR: %v\n", err)
		return exitConfigError
	}
	pl, err := r.PlantModel()
	if err != nil {
		utl.PfRed("ERROR: %v\n", err)
		return exitConfigError
	}

	x0 := plant.State{0, 0.1, 0.05, 0, 0, 0}
	res := simulate.Run(simulate.Config{
		Controller: ctrl, Plant: pl, X0: x0, TFinal: r.Simulation.TFinal, Dt: r.Simulation.Dt,
		Integrator: r.IntegratorKind(), Limits: r.Limits(),
	})

	utl.Pf("exit_reason     = %v\n", res.ExitReason)
	utl.Pf("settle_time     = %v\n", res.Metrics.SettleTime)
	utl.Pf("peak_control    = %v\n", res.Metrics.PeakControl)
	utl.Pf("final_error     = %v\n", res.Metrics.FinalError)

	if res.ExitReason == safety.SafetyViolation || res.ExitReason == safety.IntegratorFailure {
		return exitInstability
	}
	return exitOK
}

func cmdTune(args []string) int {
	fs := flag.NewFlagSet("tune", flag.ContinueOnError)
	ctrlType := fs.String("ctrl", "classical", "controller variant")
	iters := fs.Int("iters", 100, "PSO iterations")
	particles := fs.Int("particles", 30, "swarm size")
	seedFlag := fs.Int64("seed", 42, "top-level RNG seed")
	strict := fs.Bool("strict", false, "exit 4 when PSO fails to converge")
	if err := fs.Parse(args); err != nil {
		return exitConfigError
	}

	variant, ok := smc.VariantFromString(*ctrlType)
	if !ok {
		utl.PfRed("ERROR: unrecognized controller type %q\n", *ctrlType)
		return exitConfigError
	}
	n := smc.NGainsFor(variant)
	lower := make([]float64, n)
	upper := make([]float64, n)
	baseline := make([]float64, n)
	for i := range lower {
		lower[i] = 0.1
		upper[i] = 100
		baseline[i] = 10
	}

	pl := plant.New(plant.Full, plant.DefaultParams())
	x0 := plant.State{0, 0.1, 0.05, 0, 0, 0}
	limits := safety.DefaultLimits(100)

	evaluator, err := cost.NewEvaluator(variant, baseline, pl, x0, 10, 0.01,
		integrate.RK4, limits, 100, 0.05, smc.Tanh, smc.DefaultAdaptiveParams(), smc.HybridParams{}, cost.DefaultWeights(), cost.Normalization{})
	if err != nil {
		utl.PfRed("ERROR: %v\n", err)
		return exitConfigError
	}

	pcfg := pso.DefaultConfig(lower, upper)
	pcfg.Iters = *iters
	pcfg.NParticles = *particles
	pcfg.Seed = *seedFlag

	res := pso.Optimize(evaluator.Evaluate, pcfg)

	utl.Pf("best_fitness  = %v\n", res.BestFitness)
	utl.Pf("best_position = %v\n", res.BestPosition)
	utl.Pf("iterations    = %v\n", res.Iterations)
	utl.Pf("convergence   = %v\n", res.Convergence)

	if *strict && res.Convergence == pso.ReachedIterations {
		return exitPSONotConverge
	}
	return exitOK
}

func cmdEvaluate(args []string) int {
	fs := flag.NewFlagSet("evaluate", flag.ContinueOnError)
	ctrlType := fs.String("ctrl", "classical", "controller variant")
	gainsStr := fs.String("gains", "", "comma separated gain vector")
	runs := fs.Int("runs", 1, "number of repeated rollouts")
	if err := fs.Parse(args); err != nil {
		return exitConfigError
	}

	gains, err := parseGains(*gainsStr)
	if err != nil {
		utl.PfRed("ERROR: %v\n", err)
		return exitConfigError
	}

	variant, ok := smc.VariantFromString(*ctrlType)
	if !ok {
		utl.PfRed("ERROR: unrecognized controller type %q\n", *ctrlType)
		return exitConfigError
	}

	pl := plant.New(plant.Full, plant.DefaultParams())
	x0 := plant.State{0, 0.1, 0.05, 0, 0, 0}
	limits := safety.DefaultLimits(100)

	evaluator, err := cost.NewEvaluator(variant, gains, pl, x0, 10, 0.01,
		integrate.RK4, limits, 100, 0.05, smc.Tanh, smc.DefaultAdaptiveParams(), smc.HybridParams{}, cost.DefaultWeights(), cost.Normalization{})
	if err != nil {
		utl.PfRed("ERROR: %v\n", err)
		return exitConfigError
	}

	var worst float64
	for i := 0; i < *runs; i++ {
		c := evaluator.Evaluate(gains)
		utl.Pf("run %d: cost = %v\n", i, c)
		if c > worst {
			worst = c
		}
	}
	fmt.Printf("worst_cost = %v\n", worst)
	return exitOK
}
