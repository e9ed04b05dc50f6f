package trajectory

import "math"

// HelixParams describes a charged particle gyrating in a uniform field
// along z while drifting at constant speed.
type HelixParams struct {
	Radius  float64 // gyration radius
	Omega   float64 // angular frequency, rad per unit time
	DriftVZ float64 // constant velocity along z
	Dt      float64 // time between samples
}

// DefaultHelix is a unit-radius helix sampled 20 times per turn.
var DefaultHelix = HelixParams{
	Radius:  1.0,
	Omega:   1.0,
	DriftVZ: 0.1,
	Dt:      2 * math.Pi / 20,
}

// Synthetic generates n samples of a helical trajectory. It is used for
// demos and fixtures; it is not a simulator.
func Synthetic(n int, p HelixParams) *Trajectory {
	if n < 0 {
		n = 0
	}
	samples := make([]Sample, n)
	for i := range samples {
		t := float64(i) * p.Dt
		sin, cos := math.Sincos(p.Omega * t)
		samples[i] = Sample{
			T:  t,
			X:  p.Radius * cos,
			Y:  p.Radius * sin,
			Z:  p.DriftVZ * t,
			VX: -p.Radius * p.Omega * sin,
			VY: p.Radius * p.Omega * cos,
			VZ: p.DriftVZ,
		}
	}
	return &Trajectory{samples: samples}
}
