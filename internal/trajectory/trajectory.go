// Package trajectory holds the recorded particle trajectory and the reader
// for the simulator's flat text output.
package trajectory

import "fmt"

// Axis selects a Cartesian component of a position or velocity.
type Axis int

const (
	X Axis = iota
	Y
	Z
)

// String returns the lower-case axis name used in labels and config.
func (a Axis) String() string {
	switch a {
	case X:
		return "x"
	case Y:
		return "y"
	case Z:
		return "z"
	default:
		return fmt.Sprintf("axis(%d)", int(a))
	}
}

// ParseAxis maps "x", "y" or "z" to an Axis.
func ParseAxis(s string) (Axis, error) {
	switch s {
	case "x", "X":
		return X, nil
	case "y", "Y":
		return Y, nil
	case "z", "Z":
		return Z, nil
	}
	return 0, fmt.Errorf("unknown axis %q (want x, y or z)", s)
}

// Sample is one row of the trajectory file.
type Sample struct {
	T          float64
	X, Y, Z    float64
	VX, VY, VZ float64
}

// Position returns the position component along a.
func (s Sample) Position(a Axis) float64 {
	switch a {
	case Y:
		return s.Y
	case Z:
		return s.Z
	default:
		return s.X
	}
}

// Velocity returns the velocity component along a.
func (s Sample) Velocity(a Axis) float64 {
	switch a {
	case Y:
		return s.VY
	case Z:
		return s.VZ
	default:
		return s.VX
	}
}

// Point returns the sample's position as a 3-vector.
func (s Sample) Point() [3]float64 {
	return [3]float64{s.X, s.Y, s.Z}
}

// Trajectory is an ordered, read-only sequence of samples. The samples are
// kept in file order; nothing here sorts or filters them.
type Trajectory struct {
	samples []Sample
}

// New builds a Trajectory from samples. The slice is copied.
func New(samples []Sample) *Trajectory {
	s := make([]Sample, len(samples))
	copy(s, samples)
	return &Trajectory{samples: s}
}

// Len returns the number of samples.
func (tr *Trajectory) Len() int {
	if tr == nil {
		return 0
	}
	return len(tr.samples)
}

// At returns sample i. It panics if i is out of range, like a slice index.
func (tr *Trajectory) At(i int) Sample {
	return tr.samples[i]
}

// Samples returns a copy of all samples.
func (tr *Trajectory) Samples() []Sample {
	return tr.Prefix(tr.Len())
}

// Prefix returns a copy of samples [0, i). i is clamped to [0, Len()].
func (tr *Trajectory) Prefix(i int) []Sample {
	if i < 0 {
		i = 0
	}
	if i > tr.Len() {
		i = tr.Len()
	}
	out := make([]Sample, i)
	if i == 0 {
		return out
	}
	copy(out, tr.samples[:i])
	return out
}

// Times returns the t column.
func (tr *Trajectory) Times() []float64 {
	return tr.column(func(s Sample) float64 { return s.T })
}

// Positions returns the position column for axis a.
func (tr *Trajectory) Positions(a Axis) []float64 {
	return tr.column(func(s Sample) float64 { return s.Position(a) })
}

// Velocities returns the velocity column for axis a.
func (tr *Trajectory) Velocities(a Axis) []float64 {
	return tr.column(func(s Sample) float64 { return s.Velocity(a) })
}

func (tr *Trajectory) column(get func(Sample) float64) []float64 {
	out := make([]float64, tr.Len())
	for i := range out {
		out[i] = get(tr.samples[i])
	}
	return out
}
