// Package render describes trajectory figures and animation frames as plain
// values and hands them to a Canvas. Nothing in this package draws pixels;
// see package canvas for the implementations that do.
package render

import (
	"fmt"
	"image/color"

	"github.com/banshee-data/trajectory.report/internal/axisrange"
)

// Canvas is the drawing collaborator. Both calls are fire-and-forget: the
// pipeline never inspects a result. Implementations that can fail report
// failures through their own logging or an Err method.
type Canvas interface {
	DrawStaticFigure(fig Figure)
	DrawFrame(frame Frame)
}

// Pose is a 3D viewpoint in degrees: altitude above the xy-plane and
// azimuth around z.
type Pose struct {
	Altitude float64 `json:"altitude"`
	Azimuth  float64 `json:"azimuth"`
}

func (p Pose) String() string {
	return fmt.Sprintf("(alt=%g°, az=%g°)", p.Altitude, p.Azimuth)
}

// DefaultPlotPose is the viewpoint used for the labelled 3D path plot.
var DefaultPlotPose = Pose{Altitude: 30, Azimuth: -60}

// DefaultBackdropPose is the fixed oblique view of the pose backdrop and
// of static-camera animations.
var DefaultBackdropPose = Pose{Altitude: 15, Azimuth: 0}

// FigureKind identifies which static view a Figure holds.
type FigureKind int

const (
	KindTimeSeries FigureKind = iota
	KindPhaseSpace
	KindPath3D
	KindPose3D
)

// String returns the kind name, also used as the output file stem.
func (k FigureKind) String() string {
	switch k {
	case KindTimeSeries:
		return "time_series"
	case KindPhaseSpace:
		return "phase_space"
	case KindPath3D:
		return "path_3d"
	case KindPose3D:
		return "pose_3d"
	default:
		return fmt.Sprintf("figure_%d", int(k))
	}
}

// Palette used by the static views.
var (
	Black = color.RGBA{A: 255}
	Red   = color.RGBA{R: 255, A: 255}
	Blue  = color.RGBA{B: 255, A: 255}
	// PathBlue is the default line colour of the labelled 3D path.
	PathBlue = color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 255}
)

// Series is one plotted data set. Z is nil for 2D panels.
type Series struct {
	Name string
	X    []float64
	Y    []float64
	Z    []float64

	Line       bool
	LineColor  color.RGBA
	LineWidth  float64 // points
	Marker     bool
	MarkerFill color.RGBA
	MarkerEdge color.RGBA
	MarkerSize float64 // points
}

// Len returns the number of points in the series.
func (s Series) Len() int {
	return len(s.X)
}

// Panel is one set of axes within a figure.
type Panel struct {
	Title  string
	XLabel string
	YLabel string
	ZLabel string

	// Ranges holds one range per axis: two for 2D panels, three for 3D.
	Ranges []axisrange.Range
	Series []Series

	Grid     bool
	HideAxes bool
	// Camera is set for 3D panels only.
	Camera *Pose
}

// Is3D reports whether the panel has a z axis.
func (p Panel) Is3D() bool {
	return len(p.Ranges) == 3
}

// Figure is one renderable artifact. The time-series figure carries two
// stacked panels; the other kinds carry one.
type Figure struct {
	Kind   FigureKind
	Panels []Panel
}

// Name returns the file stem for the figure.
func (f Figure) Name() string {
	return f.Kind.String()
}

// PathStyle controls how the traced path and current point are drawn in
// the pose figure and the animation frames.
type PathStyle struct {
	LineWidth  float64
	MarkerSize float64
}

// DefaultPathStyle matches the heavier of the two animation styles.
var DefaultPathStyle = PathStyle{LineWidth: 3, MarkerSize: 11}

// Frame describes one animation redraw: the path revealed so far, the
// current point, the camera and the fixed 3D bounds.
type Frame struct {
	Session string
	// Index is the number of samples revealed, equal to len(Path).
	Index int
	Total int
	Path  [][3]float64
	// Current is nil when no sample has been revealed yet.
	Current *[3]float64
	Camera  Pose
	Bounds  [3]axisrange.Range
	Style   PathStyle
}

// Empty reports whether the frame reveals nothing (the init frame).
func (f Frame) Empty() bool {
	return len(f.Path) == 0
}
