package canvas

import (
	"errors"
	"sync"

	"github.com/banshee-data/trajectory.report/internal/render"
)

// Recorder keeps every figure and frame it is handed, in memory.
type Recorder struct {
	mu      sync.Mutex
	figures []render.Figure
	frames  []render.Frame
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// DrawStaticFigure records fig.
func (r *Recorder) DrawStaticFigure(fig render.Figure) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.figures = append(r.figures, fig)
}

// DrawFrame records frame.
func (r *Recorder) DrawFrame(frame render.Frame) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames = append(r.frames, frame)
}

// Figures returns the recorded figures in draw order.
func (r *Recorder) Figures() []render.Figure {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]render.Figure, len(r.figures))
	copy(out, r.figures)
	return out
}

// Frames returns the recorded frames in draw order.
func (r *Recorder) Frames() []render.Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]render.Frame, len(r.frames))
	copy(out, r.frames)
	return out
}

// Reset drops everything recorded so far.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.figures = nil
	r.frames = nil
}

// Multi fans every call out to several canvases, in order.
type Multi []render.Canvas

// DrawStaticFigure forwards fig to every canvas.
func (m Multi) DrawStaticFigure(fig render.Figure) {
	for _, c := range m {
		c.DrawStaticFigure(fig)
	}
}

// DrawFrame forwards frame to every canvas.
func (m Multi) DrawFrame(frame render.Frame) {
	for _, c := range m {
		c.DrawFrame(frame)
	}
}

// Err joins the errors of every member that reports one.
func (m Multi) Err() error {
	var errs []error
	for _, c := range m {
		if e, ok := c.(interface{ Err() error }); ok {
			if err := e.Err(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
