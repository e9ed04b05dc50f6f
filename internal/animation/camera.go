package animation

import (
	"fmt"

	"github.com/banshee-data/trajectory.report/internal/render"
)

// Pose is the camera state of an animation session.
type Pose = render.Pose

// CameraPolicy decides the camera pose for each tick. Next is called once
// per tick, before the redraw, with the zero-based tick number and the
// pose used so far.
type CameraPolicy interface {
	Initial() Pose
	Next(tick int, current Pose) Pose
}

// StaticPose holds one pose for the whole session.
type StaticPose struct {
	Pose Pose
}

// Initial returns the fixed pose.
func (p StaticPose) Initial() Pose { return p.Pose }

// Next returns the fixed pose.
func (p StaticPose) Next(int, Pose) Pose { return p.Pose }

func (p StaticPose) String() string {
	return fmt.Sprintf("static %s", p.Pose)
}

// OneShotReorient starts at From and switches to To on the first tick,
// before that tick's redraw. Every redraw therefore uses To; From is only
// visible in the init frame.
type OneShotReorient struct {
	From Pose
	To   Pose
}

// Initial returns the starting pose.
func (p OneShotReorient) Initial() Pose { return p.From }

// Next jumps to To on tick 0 and keeps whatever pose is current after that.
func (p OneShotReorient) Next(tick int, current Pose) Pose {
	if tick == 0 {
		return p.To
	}
	return current
}

// RedrawPose returns the pose p uses for every redraw after the first
// tick: the pose a still image must use to match the final frame.
func RedrawPose(p CameraPolicy) Pose {
	return p.Next(0, p.Initial())
}

func (p OneShotReorient) String() string {
	return fmt.Sprintf("one-shot %s -> %s", p.From, p.To)
}

// Default poses from the two reference animations: a fixed oblique view,
// and a reorientation from that view to a 45° azimuth.
var (
	DefaultStaticPose   = render.DefaultBackdropPose
	DefaultReorientFrom = Pose{Altitude: 15, Azimuth: 0}
	DefaultReorientTo   = Pose{Altitude: 15, Azimuth: 45}
)
