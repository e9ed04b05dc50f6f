// Package canvas implements the drawing collaborators for figures and
// animation frames: PNG output through gonum/plot, HTML output through
// go-echarts, and an in-memory recorder.
package canvas

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/banshee-data/trajectory.report/internal/axisrange"
	"github.com/banshee-data/trajectory.report/internal/render"
)

// minVisibleSpan is the width drawn for a zero-width range.
const minVisibleSpan = 1.0

// visibleSpan widens a zero-width range around its value so the plotting
// backend always gets a drawable axis.
func visibleSpan(r axisrange.Range) axisrange.Range {
	if !r.Degenerate() {
		return r
	}
	return axisrange.Range{Min: r.Min - minVisibleSpan/2, Max: r.Max + minVisibleSpan/2}
}

// Projector maps 3D points onto a 2D view plane with an orthographic
// camera. Each axis is first normalised into [-0.5, 0.5] using its bounds,
// so the bounds box projects as a unit cube regardless of data scale.
type Projector struct {
	rot    *mat.Dense // 2x3
	center [3]float64
	scale  [3]float64
}

// NewProjector builds a projector for the given bounds and camera pose.
// Azimuth turns the camera around z; altitude tilts it above the xy-plane.
func NewProjector(bounds [3]axisrange.Range, pose render.Pose) *Projector {
	az := pose.Azimuth * math.Pi / 180
	el := pose.Altitude * math.Pi / 180
	sinAz, cosAz := math.Sincos(az)
	sinEl, cosEl := math.Sincos(el)

	p := &Projector{
		rot: mat.NewDense(2, 3, []float64{
			-sinAz, cosAz, 0,
			-cosAz * sinEl, -sinAz * sinEl, cosEl,
		}),
	}
	for i, r := range bounds {
		p.center[i] = (r.Min + r.Max) / 2
		if w := r.Width(); w > 0 {
			p.scale[i] = 1 / w
		}
	}
	return p
}

// Project returns the screen coordinates of points.
func (p *Projector) Project(points [][3]float64) (xs, ys []float64) {
	if len(points) == 0 {
		return nil, nil
	}

	norm := mat.NewDense(len(points), 3, nil)
	for i, pt := range points {
		for j := 0; j < 3; j++ {
			norm.Set(i, j, (pt[j]-p.center[j])*p.scale[j])
		}
	}

	var screen mat.Dense
	screen.Mul(norm, p.rot.T())

	xs = mat.Col(nil, 0, &screen)
	ys = mat.Col(nil, 1, &screen)
	return xs, ys
}

// Corners returns the eight corners of the bounds box.
func Corners(bounds [3]axisrange.Range) [][3]float64 {
	corners := make([][3]float64, 0, 8)
	for _, x := range []float64{bounds[0].Min, bounds[0].Max} {
		for _, y := range []float64{bounds[1].Min, bounds[1].Max} {
			for _, z := range []float64{bounds[2].Min, bounds[2].Max} {
				corners = append(corners, [3]float64{x, y, z})
			}
		}
	}
	return corners
}

// ScreenBounds returns the screen-space ranges covering the projected
// bounds box. They stay fixed for a whole animation, so frames do not
// rescale as the path grows.
func (p *Projector) ScreenBounds(bounds [3]axisrange.Range) (axisrange.Range, axisrange.Range) {
	xs, ys := p.Project(Corners(bounds))
	xr, _ := axisrange.Raw(xs)
	yr, _ := axisrange.Raw(ys)
	return visibleSpan(xr), visibleSpan(yr)
}

// panelBounds converts a 3D panel's range slice to the fixed-size array
// the projector expects.
func panelBounds(p render.Panel) [3]axisrange.Range {
	var b [3]axisrange.Range
	copy(b[:], p.Ranges)
	return b
}

// seriesPoints zips a 3D series into points.
func seriesPoints(s render.Series) [][3]float64 {
	n := len(s.X)
	if len(s.Y) < n {
		n = len(s.Y)
	}
	if len(s.Z) < n {
		n = len(s.Z)
	}
	pts := make([][3]float64, n)
	for i := range pts {
		pts[i] = [3]float64{s.X[i], s.Y[i], s.Z[i]}
	}
	return pts
}
