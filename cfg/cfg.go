// Package cfg holds the plain, JSON-tagged configuration records consumed
// by the simulate/cost/pso packages, in the style of inp.Data in
// mallano-gofem's inp package: a struct with JSON tags and a SetDefault
// method, never parsed inside the core packages themselves — the CLI
// decodes JSON into one of these and hands it straight to the domain
// constructors.
package cfg

import (
	"encoding/json"

	"github.com/cpmech/gosl/io"

	"github.com/dorival/dipsmc/cost"
	"github.com/dorival/dipsmc/errs"
	"github.com/dorival/dipsmc/integrate"
	"github.com/dorival/dipsmc/plant"
	"github.com/dorival/dipsmc/pso"
	"github.com/dorival/dipsmc/safety"
	"github.com/dorival/dipsmc/smc"
)

// Controller mirrors the controller.* fields of spec.md §6.
type Controller struct {
	Type          string    `json:"type"`
	Gains         []float64 `json:"gains"`
	MaxForce      float64   `json:"max_force"`
	BoundaryLayer float64   `json:"boundary_layer"`
	SwitchMethod  string    `json:"switch_method"`
	DeadZone      float64   `json:"dead_zone"`

	KInit     float64 `json:"k_init"`
	KMin      float64 `json:"k_min"`
	KMax      float64 `json:"k_max"`
	Leak      float64 `json:"leak"`
	Gamma     float64 `json:"gamma"`
	RateLimit float64 `json:"rate_limit"`

	RecenterLow  float64 `json:"recenter_low"`
	RecenterHigh float64 `json:"recenter_high"`
	Kx           float64 `json:"k_x"`
	Kv           float64 `json:"k_v"`

	EnableEquivalent bool `json:"enable_equivalent"`
}

// Plant mirrors the plant.* fields of spec.md §6.
type Plant struct {
	Model  string       `json:"model"`
	Params plant.Params `json:"params"`
}

// Simulation mirrors the simulation.* fields of spec.md §6.
type Simulation struct {
	Dt         float64 `json:"dt"`
	TFinal     float64 `json:"t_final"`
	Integrator string  `json:"integrator"`
	Rtol       float64 `json:"rtol"`
	Atol       float64 `json:"atol"`

	MaxAngle   float64 `json:"max_angle"`
	MaxOmega   float64 `json:"max_omega"`
	MaxControl float64 `json:"max_control"`
	Timeout    float64 `json:"timeout"`
}

// PSO mirrors the pso.* fields of spec.md §6.
type PSO struct {
	NParticles int       `json:"n_particles"`
	Iters      int       `json:"iters"`
	W0         float64   `json:"w0"`
	W1         float64   `json:"w1"`
	C10        float64   `json:"c10"`
	C11        float64   `json:"c11"`
	C20        float64   `json:"c20"`
	C21        float64   `json:"c21"`
	Lower      []float64 `json:"lower"`
	Upper      []float64 `json:"upper"`
	Adaptive   bool      `json:"adaptive"`
	Clamp      bool      `json:"clamp"`
	VelKappa   float64   `json:"vel_kappa"`
	Seed       int64     `json:"seed"`
	Tol        float64   `json:"tol"`
	WindowSize int       `json:"window_size"`
}

// Cost mirrors the cost.* fields of spec.md §6.
type Cost struct {
	Weights cost.Weights       `json:"weights"`
	Norm    cost.Normalization `json:"normalization"`
}

// Root is the full injected configuration record.
type Root struct {
	Controller Controller `json:"controller"`
	Plant      Plant      `json:"plant"`
	Simulation Simulation `json:"simulation"`
	PSO        PSO        `json:"pso"`
	Cost       Cost       `json:"cost"`
}

// SetDefault fills zero-valued fields with the nominal values named across
// spec.md §§4–6. It never overwrites a field the caller set.
func (r *Root) SetDefault() {
	if r.Controller.SwitchMethod == "" {
		r.Controller.SwitchMethod = "tanh"
	}
	if r.Controller.BoundaryLayer == 0 {
		r.Controller.BoundaryLayer = 0.05
	}
	if r.Controller.MaxForce == 0 {
		r.Controller.MaxForce = 100
	}
	if r.Plant.Model == "" {
		r.Plant.Model = "full"
	}
	if (r.Plant.Params == plant.Params{}) {
		r.Plant.Params = plant.DefaultParams()
	}
	if r.Simulation.Dt == 0 {
		r.Simulation.Dt = 0.01
	}
	if r.Simulation.TFinal == 0 {
		r.Simulation.TFinal = 10
	}
	if r.Simulation.Integrator == "" {
		r.Simulation.Integrator = "rk4"
	}
	if r.Simulation.Rtol == 0 {
		r.Simulation.Rtol = 1e-6
	}
	if r.Simulation.Atol == 0 {
		r.Simulation.Atol = 1e-8
	}
	lim := safety.DefaultLimits(r.Controller.MaxForce)
	if r.Simulation.MaxAngle == 0 {
		r.Simulation.MaxAngle = lim.MaxAngle
	}
	if r.Simulation.MaxOmega == 0 {
		r.Simulation.MaxOmega = lim.MaxOmega
	}
	if r.Simulation.MaxControl == 0 {
		r.Simulation.MaxControl = r.Controller.MaxForce
	}
	if r.Simulation.Timeout == 0 {
		r.Simulation.Timeout = 60
	}
	if r.PSO.NParticles == 0 {
		r.PSO.NParticles = 30
	}
	if r.PSO.Iters == 0 {
		r.PSO.Iters = 100
	}
	if r.PSO.W0 == 0 && r.PSO.W1 == 0 {
		r.PSO.W0, r.PSO.W1 = 0.9, 0.4
	}
	if r.PSO.C10 == 0 && r.PSO.C11 == 0 {
		r.PSO.C10, r.PSO.C11 = 2.5, 0.5
	}
	if r.PSO.C20 == 0 && r.PSO.C21 == 0 {
		r.PSO.C20, r.PSO.C21 = 1.5, 2.5
	}
	if r.PSO.VelKappa == 0 {
		r.PSO.VelKappa = 0.2
	}
	if r.PSO.Tol == 0 {
		r.PSO.Tol = 1e-6
	}
	if r.PSO.WindowSize == 0 {
		r.PSO.WindowSize = 20
	}
	if (r.Cost.Weights == cost.Weights{}) {
		r.Cost.Weights = cost.DefaultWeights()
	}
}

// Validate checks the record for internal consistency, returning an
// *errs.Error with Kind ConfigError on the first problem found.
func (r *Root) Validate() error {
	if err := r.Plant.Params.Validate(); err != nil {
		return err
	}
	if _, ok := plant.ModelFromString(r.Plant.Model); !ok {
		return errs.New(errs.ConfigError, "plant.model: unrecognized value %q", r.Plant.Model)
	}
	if _, ok := integrate.KindFromString(r.Simulation.Integrator); !ok {
		return errs.New(errs.ConfigError, "simulation.integrator: unrecognized value %q", r.Simulation.Integrator)
	}
	if _, ok := smc.SwitchMethodFromString(r.Controller.SwitchMethod); !ok {
		return errs.New(errs.ConfigError, "controller.switch_method: unrecognized value %q", r.Controller.SwitchMethod)
	}
	if _, ok := smc.VariantFromString(r.Controller.Type); !ok {
		return errs.New(errs.ConfigError, "controller.type: unrecognized value %q", r.Controller.Type)
	}
	if r.Simulation.Dt <= 0 {
		return errs.New(errs.ConfigError, "simulation.dt must be positive, got %v", r.Simulation.Dt)
	}
	if r.Simulation.TFinal <= 0 {
		return errs.New(errs.ConfigError, "simulation.t_final must be positive, got %v", r.Simulation.TFinal)
	}
	if len(r.PSO.Lower) != 0 && len(r.PSO.Lower) != len(r.PSO.Upper) {
		return errs.New(errs.ConfigError, "pso.lower and pso.upper must have equal length")
	}
	return nil
}

// ControllerSpec converts the JSON record into a smc.Spec ready for
// smc.New.
func (r *Root) ControllerSpec() (smc.Spec, error) {
	variant, ok := smc.VariantFromString(r.Controller.Type)
	if !ok {
		return smc.Spec{}, errs.New(errs.ConfigError, "controller.type: unrecognized value %q", r.Controller.Type)
	}
	method, ok := smc.SwitchMethodFromString(r.Controller.SwitchMethod)
	if !ok {
		return smc.Spec{}, errs.New(errs.ConfigError, "controller.switch_method: unrecognized value %q", r.Controller.SwitchMethod)
	}
	adaptive := smc.AdaptiveParams{
		KInit: r.Controller.KInit, KMin: r.Controller.KMin, KMax: r.Controller.KMax,
		Leak: r.Controller.Leak, DeadZone: r.Controller.DeadZone,
		RateLimit: r.Controller.RateLimit, Alpha: r.Controller.Gamma,
	}
	if adaptive == (smc.AdaptiveParams{}) {
		adaptive = smc.DefaultAdaptiveParams()
	}
	hybrid := smc.HybridParams{
		KMax: r.Controller.KMax, RecenterLow: r.Controller.RecenterLow,
		RecenterHigh: r.Controller.RecenterHigh, Kx: r.Controller.Kx, Kv: r.Controller.Kv,
		DeadZone: r.Controller.DeadZone, EnableEquivalent: r.Controller.EnableEquivalent,
	}
	return smc.Spec{
		Variant: variant, Gains: r.Controller.Gains, MaxForce: r.Controller.MaxForce,
		BoundaryLayer: r.Controller.BoundaryLayer, SwitchMethod: method,
		EnableEquivalent: r.Controller.EnableEquivalent, Adaptive: adaptive, Hybrid: hybrid,
	}, nil
}

// PlantModel builds the plant.Plant named by r.Plant.Model.
func (r *Root) PlantModel() (plant.Plant, error) {
	model, ok := plant.ModelFromString(r.Plant.Model)
	if !ok {
		return nil, errs.New(errs.ConfigError, "plant.model: unrecognized value %q", r.Plant.Model)
	}
	return plant.New(model, r.Plant.Params), nil
}

// Limits converts the simulation.safety.* fields into a safety.Limits.
func (r *Root) Limits() safety.Limits {
	return safety.Limits{
		MaxAngle: r.Simulation.MaxAngle, MaxOmega: r.Simulation.MaxOmega,
		MaxControl: r.Simulation.MaxControl, TimeoutSec: r.Simulation.Timeout,
	}
}

// PSOConfig converts the pso.* fields into a pso.Config.
func (r *Root) PSOConfig() pso.Config {
	return pso.Config{
		NParticles: r.PSO.NParticles, Iters: r.PSO.Iters,
		Lower: r.PSO.Lower, Upper: r.PSO.Upper,
		W0: r.PSO.W0, W1: r.PSO.W1, C10: r.PSO.C10, C11: r.PSO.C11,
		C20: r.PSO.C20, C21: r.PSO.C21, Adaptive: r.PSO.Adaptive, Clamp: r.PSO.Clamp,
		VelKappa: r.PSO.VelKappa, Seed: r.PSO.Seed, Tol: r.PSO.Tol, WindowSize: r.PSO.WindowSize,
	}
}

// IntegratorKind converts the simulation.integrator field.
func (r *Root) IntegratorKind() integrate.Kind {
	k, ok := integrate.KindFromString(r.Simulation.Integrator)
	if !ok {
		return integrate.RK4
	}
	return k
}

// Load decodes a JSON configuration file via gosl/io, fills defaults and
// validates it, mirroring inp.Data's read-then-PostProcess flow.
func Load(path string) (*Root, error) {
	b, err := io.ReadFile(path)
	if err != nil {
		return nil, errs.New(errs.ConfigError, "cannot read config %q: %v", path, err)
	}
	var r Root
	if err := json.Unmarshal(b, &r); err != nil {
		return nil, errs.New(errs.ConfigError, "cannot parse config %q: %v", path, err)
	}
	r.SetDefault()
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}
