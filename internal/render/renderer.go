package render

import (
	"errors"
	"fmt"

	"github.com/banshee-data/trajectory.report/internal/axisrange"
	"github.com/banshee-data/trajectory.report/internal/monitoring"
	"github.com/banshee-data/trajectory.report/internal/trajectory"
)

// RendererConfig holds the static renderer's settings. Zero values fall
// back to defaults.
type RendererConfig struct {
	Component trajectory.Axis
	// Margin for the pose figure. Nil means axisrange.DefaultMargin.
	Margin *float64
	// Pose of the backdrop camera. Nil means DefaultBackdropPose.
	Pose  *Pose
	Style PathStyle
}

// Renderer draws the static views of a trajectory onto a Canvas. It holds
// no per-trajectory state; each Draw call is independent.
type Renderer struct {
	canvas    Canvas
	component trajectory.Axis
	margin    float64
	pose      Pose
	style     PathStyle
}

// NewRenderer creates a renderer drawing onto c.
func NewRenderer(c Canvas, cfg RendererConfig) *Renderer {
	margin := axisrange.DefaultMargin
	if cfg.Margin != nil {
		margin = *cfg.Margin
	}
	pose := DefaultBackdropPose
	if cfg.Pose != nil {
		pose = *cfg.Pose
	}
	style := cfg.Style
	if style.LineWidth <= 0 {
		style.LineWidth = DefaultPathStyle.LineWidth
	}
	if style.MarkerSize <= 0 {
		style.MarkerSize = DefaultPathStyle.MarkerSize
	}
	return &Renderer{
		canvas:    c,
		component: cfg.Component,
		margin:    margin,
		pose:      pose,
		style:     style,
	}
}

// DrawTimeSeries draws the stacked position/velocity vs. time figure.
func (r *Renderer) DrawTimeSeries(tr *trajectory.Trajectory) error {
	return r.draw(TimeSeries(tr, r.component))
}

// DrawPhaseSpace draws the phase-space portrait.
func (r *Renderer) DrawPhaseSpace(tr *trajectory.Trajectory) error {
	return r.draw(PhaseSpace(tr, r.component))
}

// DrawPath3D draws the plain labelled 3D path.
func (r *Renderer) DrawPath3D(tr *trajectory.Trajectory) error {
	return r.draw(Path3D(tr))
}

// DrawPose3D draws the axis-free 3D backdrop.
func (r *Renderer) DrawPose3D(tr *trajectory.Trajectory) error {
	return r.draw(Pose3D(tr, r.margin, r.pose, r.style))
}

// DrawAll draws every static view. A failing view does not stop the
// others; all failures are returned joined.
func (r *Renderer) DrawAll(tr *trajectory.Trajectory) error {
	var errs []error
	for _, draw := range []func(*trajectory.Trajectory) error{
		r.DrawTimeSeries,
		r.DrawPhaseSpace,
		r.DrawPath3D,
		r.DrawPose3D,
	} {
		if err := draw(tr); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (r *Renderer) draw(fig Figure, err error) error {
	if err != nil {
		return err
	}
	if r.canvas == nil {
		return fmt.Errorf("render %s: no canvas", fig.Name())
	}
	monitoring.Debugf("[render] drawing %s (%d panels)", fig.Name(), len(fig.Panels))
	r.canvas.DrawStaticFigure(fig)
	return nil
}
