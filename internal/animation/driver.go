// Package animation steps through a trajectory one sample per tick,
// handing each partial path to a canvas together with the camera pose.
package animation

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/banshee-data/trajectory.report/internal/axisrange"
	"github.com/banshee-data/trajectory.report/internal/monitoring"
	"github.com/banshee-data/trajectory.report/internal/render"
	"github.com/banshee-data/trajectory.report/internal/trajectory"
)

var (
	// ErrEmptyTrajectory is returned by Start for a trajectory with no samples.
	ErrEmptyTrajectory = errors.New("animation: empty trajectory")

	// ErrAlreadyStarted is returned by Start on a driver that has left Idle.
	ErrAlreadyStarted = errors.New("animation: session already started")
)

// State is the driver's lifecycle state.
type State int

const (
	Idle State = iota
	Running
	Finished
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Finished:
		return "finished"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// DriverConfig holds the driver's framing and style. Zero values fall back
// to defaults.
type DriverConfig struct {
	// Margin around the 3D bounds. Nil means axisrange.DefaultMargin.
	Margin *float64
	Style  render.PathStyle
}

// Driver runs one animation session: Idle -> Running -> Finished. A session
// runs once; there is no rewind or repeat.
type Driver struct {
	mu     sync.Mutex
	canvas render.Canvas
	policy CameraPolicy
	margin float64
	style  render.PathStyle

	state   State
	session string
	traj    *trajectory.Trajectory
	bounds  [3]axisrange.Range
	camera  Pose
	// index is the number of samples revealed so far.
	index int
	ticks int
}

// NewDriver creates an idle driver that draws onto c using policy.
func NewDriver(c render.Canvas, policy CameraPolicy, cfg DriverConfig) *Driver {
	margin := axisrange.DefaultMargin
	if cfg.Margin != nil {
		margin = *cfg.Margin
	}
	style := cfg.Style
	if style.LineWidth <= 0 {
		style.LineWidth = render.DefaultPathStyle.LineWidth
	}
	if style.MarkerSize <= 0 {
		style.MarkerSize = render.DefaultPathStyle.MarkerSize
	}
	if policy == nil {
		policy = StaticPose{Pose: DefaultStaticPose}
	}
	return &Driver{
		canvas: c,
		policy: policy,
		margin: margin,
		style:  style,
	}
}

// Start begins a session over tr. It computes the 3D bounds once and sets
// the frame index and camera to their initial values.
func (d *Driver) Start(tr *trajectory.Trajectory) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state != Idle {
		return fmt.Errorf("%w (state %s)", ErrAlreadyStarted, d.state)
	}
	if tr.Len() == 0 {
		return ErrEmptyTrajectory
	}

	var bounds [3]axisrange.Range
	for _, a := range []trajectory.Axis{trajectory.X, trajectory.Y, trajectory.Z} {
		r, err := axisrange.Margin(tr.Positions(a), d.margin)
		if err != nil {
			return fmt.Errorf("animation bounds %s: %w", a, err)
		}
		bounds[a] = r
	}

	d.traj = tr
	d.bounds = bounds
	d.index = 0
	d.ticks = 0
	d.camera = d.policy.Initial()
	d.session = uuid.NewString()
	d.state = Running

	monitoring.Logf("[animation] session %s started: %d frames, camera %v", d.session, tr.Len(), d.policy)
	return nil
}

// Tick reveals one more sample and issues exactly one redraw. It returns
// false without drawing unless the driver is Running. After the tick that
// reveals the last sample the driver is Finished.
func (d *Driver) Tick() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state != Running {
		return false
	}

	n := d.traj.Len()
	next := d.index + 1
	if next > n {
		d.state = Finished
		return false
	}

	d.camera = d.policy.Next(d.ticks, d.camera)
	frame := BuildFrame(d.traj, next, d.camera, d.bounds, d.style)
	frame.Session = d.session

	if d.canvas != nil {
		d.canvas.DrawFrame(frame)
	}
	monitoring.Debugf("[animation] session %s frame %d/%d camera %s", d.session, next, n, d.camera)

	d.index = next
	d.ticks++
	if d.index == n {
		d.state = Finished
		monitoring.Logf("[animation] session %s finished after %d frames", d.session, d.ticks)
	}
	return true
}

// Frame describes what is currently visible. Right after Start it is the
// empty init frame.
func (d *Driver) Frame() render.Frame {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.traj == nil {
		return render.Frame{Camera: d.camera, Style: d.style}
	}
	f := BuildFrame(d.traj, d.index, d.camera, d.bounds, d.style)
	f.Session = d.session
	return f
}

// State returns the lifecycle state.
func (d *Driver) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Index returns the number of samples revealed.
func (d *Driver) Index() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.index
}

// Camera returns the current pose.
func (d *Driver) Camera() Pose {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.camera
}

// Bounds returns the 3D bounds computed at Start.
func (d *Driver) Bounds() [3]axisrange.Range {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.bounds
}

// Session returns the session id assigned at Start.
func (d *Driver) Session() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.session
}

// BuildFrame describes the frame that reveals samples [0, i) of tr with
// sample i-1 as the current point. i is clamped to [0, tr.Len()].
func BuildFrame(tr *trajectory.Trajectory, i int, camera Pose, bounds [3]axisrange.Range, style render.PathStyle) render.Frame {
	prefix := tr.Prefix(i)
	path := make([][3]float64, len(prefix))
	for j, s := range prefix {
		path[j] = s.Point()
	}

	f := render.Frame{
		Index:  len(path),
		Total:  tr.Len(),
		Path:   path,
		Camera: camera,
		Bounds: bounds,
		Style:  style,
	}
	if len(path) > 0 {
		cur := path[len(path)-1]
		f.Current = &cur
	}
	return f
}
