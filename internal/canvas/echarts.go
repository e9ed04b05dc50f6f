package canvas

import (
	"bytes"
	"fmt"
	"image/color"
	"path/filepath"
	"sync"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/trajectory.report/internal/axisrange"
	"github.com/banshee-data/trajectory.report/internal/fsutil"
	"github.com/banshee-data/trajectory.report/internal/monitoring"
	"github.com/banshee-data/trajectory.report/internal/render"
)

// LatestFrameFile is the HTML snapshot overwritten on every frame.
const LatestFrameFile = "animation_latest.html"

// EChartsCanvas renders figures as standalone HTML pages with go-echarts.
// 3D panels are projected to 2D the same way PlotCanvas projects them.
// Frames overwrite a single snapshot page, so reloading it follows the
// animation.
type EChartsCanvas struct {
	mu  sync.Mutex
	fs  fsutil.FileSystem
	dir string

	Width  string
	Height string

	err     error
	written []string
}

// NewEChartsCanvas creates dir on fsys.
func NewEChartsCanvas(fsys fsutil.FileSystem, dir string) (*EChartsCanvas, error) {
	if err := fsys.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output dir: %w", err)
	}
	return &EChartsCanvas{
		fs:     fsys,
		dir:    dir,
		Width:  "900px",
		Height: "600px",
	}, nil
}

// DrawStaticFigure writes fig as <dir>/<kind>.html. Stacked panels become
// charts on one page.
func (c *EChartsCanvas) DrawStaticFigure(fig render.Figure) {
	var buf bytes.Buffer
	name := filepath.Join(c.dir, fig.Name()+".html")

	if len(fig.Panels) == 1 {
		chart := c.panelChart(fig.Name(), fig.Panels[0])
		if err := chart.Render(&buf); err != nil {
			c.fail(fmt.Errorf("failed to render chart %s: %w", fig.Name(), err))
			return
		}
	} else {
		page := components.NewPage()
		for i, panel := range fig.Panels {
			page.AddCharts(c.panelChart(fmt.Sprintf("%s %d", fig.Name(), i+1), panel))
		}
		if err := page.Render(&buf); err != nil {
			c.fail(fmt.Errorf("failed to render page %s: %w", fig.Name(), err))
			return
		}
	}

	c.save(name, buf.Bytes())
}

// DrawFrame overwrites the snapshot page with frame.
func (c *EChartsCanvas) DrawFrame(frame render.Frame) {
	proj := NewProjector(frame.Bounds, frame.Camera)
	xr, yr := proj.ScreenBounds(frame.Bounds)

	line := c.newLine(
		"Trajectory",
		fmt.Sprintf("frame %d/%d camera %s", frame.Index, frame.Total, frame.Camera),
		axisOpts{Range: xr, Hide: true}, axisOpts{Range: yr, Hide: true},
	)
	if !frame.Empty() {
		xs, ys := proj.Project(frame.Path)
		addLineSeries(line, xs, ys, render.PathSeries(nil, nil, nil, frame.Style))
		cx, cy := proj.Project([][3]float64{*frame.Current})
		addLineSeries(line, cx, cy, render.PointSeries(*frame.Current, frame.Style))
	}

	var buf bytes.Buffer
	if err := line.Render(&buf); err != nil {
		c.fail(fmt.Errorf("failed to render frame %d: %w", frame.Index, err))
		return
	}
	c.save(filepath.Join(c.dir, LatestFrameFile), buf.Bytes())
}

// Err returns the first error seen, if any.
func (c *EChartsCanvas) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Written lists the files written so far, in order. The frame snapshot is
// listed once per write.
func (c *EChartsCanvas) Written() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.written))
	copy(out, c.written)
	return out
}

func (c *EChartsCanvas) panelChart(title string, panel render.Panel) *charts.Line {
	if panel.Is3D() {
		pose := render.DefaultPlotPose
		if panel.Camera != nil {
			pose = *panel.Camera
		}
		bounds := panelBounds(panel)
		proj := NewProjector(bounds, pose)
		xr, yr := proj.ScreenBounds(bounds)

		line := c.newLine(title, fmt.Sprintf("camera %s", pose), axisOpts{Range: xr, Hide: true}, axisOpts{Range: yr, Hide: true})
		for _, s := range panel.Series {
			xs, ys := proj.Project(seriesPoints(s))
			addLineSeries(line, xs, ys, s)
		}
		return line
	}

	if panel.Title != "" {
		title = panel.Title
	}
	x := axisOpts{Name: panel.XLabel, Grid: panel.Grid, Hide: panel.HideAxes}
	y := axisOpts{Name: panel.YLabel, Grid: panel.Grid, Hide: panel.HideAxes}
	if len(panel.Ranges) == 2 {
		x.Range, y.Range = visibleSpan(panel.Ranges[0]), visibleSpan(panel.Ranges[1])
	}
	line := c.newLine(title, "", x, y)
	for _, s := range panel.Series {
		addLineSeries(line, s.X, s.Y, s)
	}
	return line
}

type axisOpts struct {
	Name  string
	Range axisrange.Range
	Grid  bool
	Hide  bool
}

func (c *EChartsCanvas) newLine(title, subtitle string, x, y axisOpts) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: c.Width, Height: c.Height}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{
			Type: "value", Name: x.Name, NameLocation: "middle", NameGap: 25,
			Min: x.Range.Min, Max: x.Range.Max, Show: opts.Bool(!x.Hide),
			SplitLine: &opts.SplitLine{Show: opts.Bool(x.Grid)},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type: "value", Name: y.Name, NameLocation: "middle", NameGap: 40,
			Min: y.Range.Min, Max: y.Range.Max, Show: opts.Bool(!y.Hide),
			SplitLine: &opts.SplitLine{Show: opts.Bool(y.Grid)},
		}),
	)
	return line
}

// addLineSeries adds s, drawn at (xs, ys), as one line series. Marker-only
// series hide the line; line-only series hide the symbols.
func addLineSeries(line *charts.Line, xs, ys []float64, s render.Series) {
	n := len(xs)
	if len(ys) < n {
		n = len(ys)
	}
	data := make([]opts.LineData, n)
	for i := 0; i < n; i++ {
		data[i] = opts.LineData{Value: []interface{}{xs[i], ys[i]}}
	}

	lineWidth := float32(s.LineWidth)
	if !s.Line {
		lineWidth = 0
	}
	itemColor := hexColor(s.LineColor)
	if s.Marker {
		itemColor = hexColor(s.MarkerFill)
	}

	line.AddSeries(s.Name, data,
		charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(s.Marker)}),
		charts.WithLineStyleOpts(opts.LineStyle{Color: hexColor(s.LineColor), Width: lineWidth}),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: itemColor}),
	)
}

func (c *EChartsCanvas) save(name string, html []byte) {
	f, err := c.fs.Create(name)
	if err != nil {
		c.fail(fmt.Errorf("cannot create html: %w", err))
		return
	}
	if _, err := f.Write(html); err != nil {
		f.Close()
		c.fail(fmt.Errorf("cannot write html %s: %w", name, err))
		return
	}
	if err := f.Close(); err != nil {
		c.fail(fmt.Errorf("cannot close html %s: %w", name, err))
		return
	}

	c.mu.Lock()
	c.written = append(c.written, name)
	c.mu.Unlock()
	monitoring.Debugf("[canvas] wrote %s", name)
}

func (c *EChartsCanvas) fail(err error) {
	monitoring.Logf("[canvas] %v", err)
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err == nil {
		c.err = err
	}
}

func hexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
