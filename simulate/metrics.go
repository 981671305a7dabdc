package simulate

import "math"

// Metrics aggregates a rollout's trajectory into the scalar summaries the
// cost evaluator and external callers consume, computed once per rollout
// rather than recomputed by every caller (spec.md §3 "Trajectory").
type Metrics struct {
	SettleTime     float64 // first time ‖x_err‖ stays below a settling band, or the last sample time if never
	PeakControl    float64 // max |u| observed
	ISE            float64 // ∫‖x_err‖² dt
	ControlEnergy  float64 // ∫u² dt
	SlewEnergy     float64 // ∫(du/dt)² dt
	SurfaceEnergy  float64 // ∫s² dt
	SaturationTime float64 // total time spent with |u| at the control bound
	FinalError     float64 // ‖x_err(T)‖
}

const settleBand = 0.05

// ComputeMetrics integrates the trajectory with the trapezoidal rule using
// the recorded (possibly non-uniform, for RK45) sample times.
func ComputeMetrics(tr Trajectory, uMax float64) Metrics {
	var m Metrics
	n := len(tr.Times)
	if n == 0 {
		return m
	}
	m.FinalError = tr.States[n-1].Error().Norm()
	m.SettleTime = tr.Times[n-1]
	settled := false

	for i := 0; i < n; i++ {
		errNorm := tr.States[i].Error().Norm()
		if errNorm >= settleBand {
			settled = false
		} else if !settled {
			m.SettleTime = tr.Times[i]
			settled = true
		}
		if math.Abs(tr.Controls[i]) > m.PeakControl {
			m.PeakControl = math.Abs(tr.Controls[i])
		}
		if uMax > 0 && math.Abs(tr.Controls[i]) >= uMax-1e-9 {
			if i > 0 {
				m.SaturationTime += tr.Times[i] - tr.Times[i-1]
			}
		}
		if i == 0 {
			continue
		}
		dt := tr.Times[i] - tr.Times[i-1]
		if dt <= 0 {
			continue
		}
		e0 := tr.States[i-1].Error().Norm()
		m.ISE += 0.5 * (errNorm*errNorm + e0*e0) * dt
		m.ControlEnergy += 0.5 * (tr.Controls[i]*tr.Controls[i] + tr.Controls[i-1]*tr.Controls[i-1]) * dt
		m.SurfaceEnergy += 0.5 * (tr.Surfaces[i]*tr.Surfaces[i] + tr.Surfaces[i-1]*tr.Surfaces[i-1]) * dt
		du := (tr.Controls[i] - tr.Controls[i-1]) / dt
		m.SlewEnergy += du * du * dt
	}
	if !settled {
		m.SettleTime = tr.Times[n-1]
	}
	return m
}
