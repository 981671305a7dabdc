package cfg

import (
	"encoding/json"
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/dorival/dipsmc/errs"
)

func Test_cfg01(tst *testing.T) {

	chk.PrintTitle("cfg01: defaults fill a zero-valued record to a valid configuration")

	var r Root
	r.Controller.Type = "classical"
	r.Controller.Gains = []float64{10, 8, 15, 12, 50, 5}
	r.SetDefault()

	if err := r.Validate(); err != nil {
		tst.Fatalf("expected defaulted record to validate, got: %v", err)
	}
	if r.Simulation.Integrator != "rk4" {
		tst.Fatalf("expected default integrator rk4, got %q", r.Simulation.Integrator)
	}
	if r.Plant.Params.Mc == 0 {
		tst.Fatalf("expected default plant params to be filled in")
	}
}

func Test_cfg02(tst *testing.T) {

	chk.PrintTitle("cfg02: an unrecognized controller type is a ConfigError")

	var r Root
	r.Controller.Type = "not-a-real-variant"
	r.SetDefault()

	err := r.Validate()
	if err == nil {
		tst.Fatalf("expected ConfigError for unrecognized controller.type")
	}
	if !errs.Is(err, errs.ConfigError) {
		tst.Fatalf("expected Kind ConfigError, got: %v", err)
	}
}

func Test_cfg03(tst *testing.T) {

	chk.PrintTitle("cfg03: ControllerSpec and PlantModel build usable domain objects")

	var r Root
	r.Controller.Type = "super_twisting"
	r.Controller.Gains = []float64{20, 10, 5, 3, 8, 4}
	r.SetDefault()

	spec, err := r.ControllerSpec()
	if err != nil {
		tst.Fatalf("ControllerSpec failed: %v", err)
	}
	if spec.Variant.String() != "super_twisting" {
		tst.Fatalf("unexpected variant: %v", spec.Variant)
	}

	pl, err := r.PlantModel()
	if err != nil {
		tst.Fatalf("PlantModel failed: %v", err)
	}
	if pl.Model().String() != "full" {
		tst.Fatalf("expected default model full, got %v", pl.Model())
	}
}

func Test_cfg04(tst *testing.T) {

	chk.PrintTitle("cfg04: pso.w0/w1/c10/c11/c20/c21 round-trip through JSON as distinct fields")

	raw := []byte(`{
		"pso": {
			"n_particles": 40,
			"iters": 50,
			"w0": 0.9, "w1": 0.4,
			"c10": 2.5, "c11": 0.5,
			"c20": 1.5, "c21": 2.5
		}
	}`)

	var r Root
	if err := json.Unmarshal(raw, &r); err != nil {
		tst.Fatalf("unmarshal failed: %v", err)
	}

	chk.Scalar(tst, "w0", 1e-15, r.PSO.W0, 0.9)
	chk.Scalar(tst, "w1", 1e-15, r.PSO.W1, 0.4)
	chk.Scalar(tst, "c10", 1e-15, r.PSO.C10, 2.5)
	chk.Scalar(tst, "c11", 1e-15, r.PSO.C11, 0.5)
	chk.Scalar(tst, "c20", 1e-15, r.PSO.C20, 1.5)
	chk.Scalar(tst, "c21", 1e-15, r.PSO.C21, 2.5)

	out, err := json.Marshal(r)
	if err != nil {
		tst.Fatalf("marshal failed: %v", err)
	}
	var roundTripped Root
	if err := json.Unmarshal(out, &roundTripped); err != nil {
		tst.Fatalf("round-trip unmarshal failed: %v", err)
	}
	chk.Scalar(tst, "w0 round-trip", 1e-15, roundTripped.PSO.W0, r.PSO.W0)
	chk.Scalar(tst, "c11 round-trip", 1e-15, roundTripped.PSO.C11, r.PSO.C11)
}
