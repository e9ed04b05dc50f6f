package canvas

import (
	"fmt"
	"image/color"
	"io"
	"path/filepath"
	"sync"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/banshee-data/trajectory.report/internal/axisrange"
	"github.com/banshee-data/trajectory.report/internal/fsutil"
	"github.com/banshee-data/trajectory.report/internal/monitoring"
	"github.com/banshee-data/trajectory.report/internal/render"
)

// FramesDir is the sub-directory that receives animation frames.
const FramesDir = "frames"

var axisGrey = color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 255}

// PlotCanvas renders figures and frames to PNG files with gonum/plot.
// Figures are written as <dir>/<kind>.png and frames as
// <dir>/frames/frame_NNNNNN.png.
type PlotCanvas struct {
	mu  sync.Mutex
	fs  fsutil.FileSystem
	dir string

	// Figure and frame sizes. Stacked panels share the figure height.
	FigureWidth  vg.Length
	FigureHeight vg.Length
	FrameSize    vg.Length
	DPI          int

	err      error
	failures int
	written  []string
}

// NewPlotCanvas creates dir (and its frames sub-directory) on fsys.
func NewPlotCanvas(fsys fsutil.FileSystem, dir string) (*PlotCanvas, error) {
	if err := fsys.MkdirAll(filepath.Join(dir, FramesDir), 0755); err != nil {
		return nil, fmt.Errorf("failed to create output dir: %w", err)
	}
	return &PlotCanvas{
		fs:           fsys,
		dir:          dir,
		FigureWidth:  8 * vg.Inch,
		FigureHeight: 6 * vg.Inch,
		FrameSize:    6 * vg.Inch,
		DPI:          96,
	}, nil
}

// DrawStaticFigure writes fig as one PNG. Stacked panels are aligned in a
// single column.
func (c *PlotCanvas) DrawStaticFigure(fig render.Figure) {
	plots := make([][]*plot.Plot, 0, len(fig.Panels))
	for _, panel := range fig.Panels {
		p, err := panelPlot(panel)
		if err != nil {
			c.fail(fmt.Errorf("%s: %w", fig.Name(), err))
			return
		}
		plots = append(plots, []*plot.Plot{p})
	}

	name := filepath.Join(c.dir, fig.Name()+".png")
	c.write(name, plots, c.FigureWidth, c.FigureHeight)
}

// DrawFrame writes one PNG for the frame. The empty init frame is drawn as
// a blank view.
func (c *PlotCanvas) DrawFrame(frame render.Frame) {
	p, err := framePlot(frame)
	if err != nil {
		c.fail(fmt.Errorf("frame %d: %w", frame.Index, err))
		return
	}
	name := filepath.Join(c.dir, FramesDir, fmt.Sprintf("frame_%06d.png", frame.Index))
	c.write(name, [][]*plot.Plot{{p}}, c.FrameSize, c.FrameSize)
}

// Err returns the first error seen, if any.
func (c *PlotCanvas) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil && c.failures > 1 {
		return fmt.Errorf("%w (and %d more failures)", c.err, c.failures-1)
	}
	return c.err
}

// Written lists the files written so far, in order.
func (c *PlotCanvas) Written() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.written))
	copy(out, c.written)
	return out
}

func (c *PlotCanvas) write(name string, plots [][]*plot.Plot, w, h vg.Length) {
	img := vgimg.NewWith(vgimg.UseWH(w, h), vgimg.UseDPI(c.DPI))
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows: len(plots),
		Cols: 1,
		PadX: vg.Millimeter,
		PadY: 4 * vg.Millimeter,
	}
	canvases := plot.Align(plots, tiles, dc)
	for i := range plots {
		plots[i][0].Draw(canvases[i][0])
	}

	f, err := c.fs.Create(name)
	if err != nil {
		c.fail(fmt.Errorf("cannot create png: %w", err))
		return
	}
	if err := writePNG(f, img); err != nil {
		f.Close()
		c.fail(fmt.Errorf("cannot write png %s: %w", name, err))
		return
	}
	if err := f.Close(); err != nil {
		c.fail(fmt.Errorf("cannot close png %s: %w", name, err))
		return
	}

	c.mu.Lock()
	c.written = append(c.written, name)
	c.mu.Unlock()
	monitoring.Debugf("[canvas] wrote %s", name)
}

func writePNG(w io.Writer, img *vgimg.Canvas) error {
	png := vgimg.PngCanvas{Canvas: img}
	_, err := png.WriteTo(w)
	return err
}

func (c *PlotCanvas) fail(err error) {
	monitoring.Logf("[canvas] %v", err)
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err == nil {
		c.err = err
	}
	c.failures++
}

// panelPlot builds one gonum plot for a panel. 3D panels are projected
// through the panel's camera.
func panelPlot(panel render.Panel) (*plot.Plot, error) {
	if panel.Is3D() {
		return panel3DPlot(panel)
	}
	if len(panel.Ranges) != 2 {
		return nil, fmt.Errorf("panel needs 2 or 3 ranges, got %d", len(panel.Ranges))
	}

	p := plot.New()
	p.Title.Text = panel.Title
	p.X.Label.Text = panel.XLabel
	p.Y.Label.Text = panel.YLabel
	if panel.Grid {
		p.Add(plotter.NewGrid())
	}

	for _, s := range panel.Series {
		if err := addSeries(p, toXYs(s.X, s.Y), s); err != nil {
			return nil, err
		}
	}

	setAxes(p, visibleSpan(panel.Ranges[0]), visibleSpan(panel.Ranges[1]))
	if panel.HideAxes {
		p.HideAxes()
	}
	return p, nil
}

func panel3DPlot(panel render.Panel) (*plot.Plot, error) {
	pose := render.DefaultPlotPose
	if panel.Camera != nil {
		pose = *panel.Camera
	}
	bounds := panelBounds(panel)
	proj := NewProjector(bounds, pose)

	p := plot.New()
	p.Title.Text = panel.Title

	if !panel.HideAxes {
		if err := addAxisEdges(p, proj, bounds, [3]string{panel.XLabel, panel.YLabel, panel.ZLabel}); err != nil {
			return nil, err
		}
	}

	for _, s := range panel.Series {
		xs, ys := proj.Project(seriesPoints(s))
		if err := addSeries(p, toXYs(xs, ys), s); err != nil {
			return nil, err
		}
	}

	xr, yr := proj.ScreenBounds(bounds)
	setAxes(p, xr, yr)
	p.HideAxes()
	return p, nil
}

// addAxisEdges draws the three box edges leaving the minimum corner, each
// labelled at its far end.
func addAxisEdges(p *plot.Plot, proj *Projector, bounds [3]axisrange.Range, labels [3]string) error {
	origin := [3]float64{bounds[0].Min, bounds[1].Min, bounds[2].Min}
	ends := make(plotter.XYs, 0, 3)
	for axis := 0; axis < 3; axis++ {
		end := origin
		end[axis] = bounds[axis].Max
		xs, ys := proj.Project([][3]float64{origin, end})

		edge, err := plotter.NewLine(toXYs(xs, ys))
		if err != nil {
			return err
		}
		edge.Color = axisGrey
		edge.Width = vg.Points(0.5)
		p.Add(edge)
		ends = append(ends, plotter.XY{X: xs[1], Y: ys[1]})
	}

	names, err := plotter.NewLabels(plotter.XYLabels{XYs: ends, Labels: labels[:]})
	if err != nil {
		return err
	}
	p.Add(names)
	return nil
}

// framePlot draws the revealed path and current point of a frame within
// the frame's fixed bounds.
func framePlot(frame render.Frame) (*plot.Plot, error) {
	proj := NewProjector(frame.Bounds, frame.Camera)
	p := plot.New()

	if !frame.Empty() {
		xs, ys := proj.Project(frame.Path)
		if err := addSeries(p, toXYs(xs, ys), render.PathSeries(nil, nil, nil, frame.Style)); err != nil {
			return nil, err
		}
		cx, cy := proj.Project([][3]float64{*frame.Current})
		if err := addSeries(p, toXYs(cx, cy), render.PointSeries(*frame.Current, frame.Style)); err != nil {
			return nil, err
		}
	}

	xr, yr := proj.ScreenBounds(frame.Bounds)
	setAxes(p, xr, yr)
	p.HideAxes()
	return p, nil
}

// addSeries adds the line and/or markers described by s, drawn at xys.
func addSeries(p *plot.Plot, xys plotter.XYs, s render.Series) error {
	if len(xys) == 0 {
		return nil
	}
	if s.Line {
		l, err := plotter.NewLine(xys)
		if err != nil {
			return err
		}
		l.Color = s.LineColor
		l.Width = vg.Points(s.LineWidth)
		p.Add(l)
	}
	if s.Marker {
		radius := vg.Points(s.MarkerSize / 2)

		fill, err := plotter.NewScatter(xys)
		if err != nil {
			return err
		}
		fill.GlyphStyle = draw.GlyphStyle{Color: s.MarkerFill, Radius: radius, Shape: draw.CircleGlyph{}}

		edge, err := plotter.NewScatter(xys)
		if err != nil {
			return err
		}
		edge.GlyphStyle = draw.GlyphStyle{Color: s.MarkerEdge, Radius: radius, Shape: draw.RingGlyph{}}

		p.Add(fill, edge)
	}
	return nil
}

// setAxes fixes the plot's axis bounds. It must run after the plotters are
// added, because Add widens the axes to fit the data.
func setAxes(p *plot.Plot, x, y axisrange.Range) {
	p.X.Min, p.X.Max = x.Min, x.Max
	p.Y.Min, p.Y.Max = y.Min, y.Max
}

func toXYs(xs, ys []float64) plotter.XYs {
	n := len(xs)
	if len(ys) < n {
		n = len(ys)
	}
	pts := make(plotter.XYs, n)
	for i := range pts {
		pts[i].X = xs[i]
		pts[i].Y = ys[i]
	}
	return pts
}
