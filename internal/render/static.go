package render

import (
	"fmt"

	"github.com/banshee-data/trajectory.report/internal/axisrange"
	"github.com/banshee-data/trajectory.report/internal/trajectory"
)

// TimeSeries builds the stacked position/velocity vs. time figure for one
// component. The time axis uses the literal first and last sample times;
// each value axis is padded.
func TimeSeries(tr *trajectory.Trajectory, c trajectory.Axis) (Figure, error) {
	if tr.Len() == 0 {
		return Figure{}, fmt.Errorf("time series: %w", axisrange.ErrEmptyRange)
	}

	t := tr.Times()
	pos := tr.Positions(c)
	vel := tr.Velocities(c)

	tRange := axisrange.Span(t[0], t[len(t)-1])
	posRange, err := axisrange.Padded(pos)
	if err != nil {
		return Figure{}, fmt.Errorf("time series position: %w", err)
	}
	velRange, err := axisrange.Padded(vel)
	if err != nil {
		return Figure{}, fmt.Errorf("time series velocity: %w", err)
	}

	return Figure{
		Kind: KindTimeSeries,
		Panels: []Panel{
			{
				XLabel: "t",
				YLabel: positionLabel(c),
				Ranges: []axisrange.Range{tRange, posRange},
				Series: []Series{{
					Name:       positionLabel(c),
					X:          t,
					Y:          pos,
					Line:       true,
					LineColor:  Black,
					LineWidth:  1,
					Marker:     true,
					MarkerFill: Black,
					MarkerEdge: Black,
					MarkerSize: 3,
				}},
			},
			{
				XLabel: "t",
				YLabel: velocityLabel(c),
				Ranges: []axisrange.Range{tRange, velRange},
				Series: []Series{{
					Name:      velocityLabel(c),
					X:         t,
					Y:         vel,
					Line:      true,
					LineColor: Red,
					LineWidth: 1,
				}},
			},
		},
	}, nil
}

// PhaseSpace builds the velocity vs. position portrait for one component,
// padded on both axes, with a grid.
func PhaseSpace(tr *trajectory.Trajectory, c trajectory.Axis) (Figure, error) {
	pos := tr.Positions(c)
	vel := tr.Velocities(c)

	posRange, err := axisrange.Padded(pos)
	if err != nil {
		return Figure{}, fmt.Errorf("phase space position: %w", err)
	}
	velRange, err := axisrange.Padded(vel)
	if err != nil {
		return Figure{}, fmt.Errorf("phase space velocity: %w", err)
	}

	return Figure{
		Kind: KindPhaseSpace,
		Panels: []Panel{{
			Title:  "Phase Space",
			XLabel: positionLabel(c),
			YLabel: velocityLabel(c),
			Ranges: []axisrange.Range{posRange, velRange},
			Grid:   true,
			Series: []Series{{
				Name:      "phase",
				X:         pos,
				Y:         vel,
				Line:      true,
				LineColor: Blue,
				LineWidth: 1,
			}},
		}},
	}, nil
}

// Path3D builds the plain labelled 3D path, framed by the raw per-axis
// extremes.
func Path3D(tr *trajectory.Trajectory) (Figure, error) {
	xs, ys, zs := tr.Positions(trajectory.X), tr.Positions(trajectory.Y), tr.Positions(trajectory.Z)

	ranges := make([]axisrange.Range, 3)
	for i, col := range [][]float64{xs, ys, zs} {
		r, err := axisrange.Raw(col)
		if err != nil {
			return Figure{}, fmt.Errorf("path 3d %s: %w", trajectory.Axis(i), err)
		}
		ranges[i] = r
	}

	pose := DefaultPlotPose
	return Figure{
		Kind: KindPath3D,
		Panels: []Panel{{
			XLabel: "x",
			YLabel: "y",
			ZLabel: "z",
			Ranges: ranges,
			Camera: &pose,
			Series: []Series{{
				Name:      "trajectory",
				X:         xs,
				Y:         ys,
				Z:         zs,
				Line:      true,
				LineColor: PathBlue,
				LineWidth: 1,
			}},
		}},
	}, nil
}

// Pose3D builds the axis-free 3D backdrop: the full path and the last
// sample as the current point, framed with a fixed margin and viewed from
// pose. It has the same geometry as the final animation frame.
func Pose3D(tr *trajectory.Trajectory, margin float64, pose Pose, style PathStyle) (Figure, error) {
	xs, ys, zs := tr.Positions(trajectory.X), tr.Positions(trajectory.Y), tr.Positions(trajectory.Z)

	ranges := make([]axisrange.Range, 3)
	for i, col := range [][]float64{xs, ys, zs} {
		r, err := axisrange.Margin(col, margin)
		if err != nil {
			return Figure{}, fmt.Errorf("pose 3d %s: %w", trajectory.Axis(i), err)
		}
		ranges[i] = r
	}

	last := len(xs) - 1
	return Figure{
		Kind: KindPose3D,
		Panels: []Panel{{
			Ranges:   ranges,
			HideAxes: true,
			Camera:   &pose,
			Series: []Series{
				PathSeries(xs, ys, zs, style),
				PointSeries([3]float64{xs[last], ys[last], zs[last]}, style),
			},
		}},
	}, nil
}

// PathSeries is the traced-path line shared by the pose figure and frames.
func PathSeries(xs, ys, zs []float64, style PathStyle) Series {
	return Series{
		Name:      "path",
		X:         xs,
		Y:         ys,
		Z:         zs,
		Line:      true,
		LineColor: Black,
		LineWidth: style.LineWidth,
	}
}

// PointSeries is the current-point marker shared by the pose figure and
// frames.
func PointSeries(p [3]float64, style PathStyle) Series {
	return Series{
		Name:       "point",
		X:          []float64{p[0]},
		Y:          []float64{p[1]},
		Z:          []float64{p[2]},
		Marker:     true,
		MarkerFill: Red,
		MarkerEdge: Black,
		MarkerSize: style.MarkerSize,
	}
}

func positionLabel(c trajectory.Axis) string {
	return fmt.Sprintf("%s(t)", c)
}

func velocityLabel(c trajectory.Axis) string {
	return fmt.Sprintf("v_%s(t)", c)
}
