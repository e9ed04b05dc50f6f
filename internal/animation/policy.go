package animation

import (
	"fmt"

	"github.com/banshee-data/trajectory.report/internal/config"
)

// PolicyFromConfig builds the camera policy selected by cfg.
func PolicyFromConfig(cfg *config.VizConfig) (CameraPolicy, error) {
	if cfg == nil {
		cfg = config.EmptyVizConfig()
	}

	switch name := cfg.GetCameraPolicy(); name {
	case config.PolicyStatic:
		return StaticPose{Pose: poseFromConfig(cfg.GetStaticPose())}, nil
	case config.PolicyOneShotReorient:
		from, to := cfg.GetReorientPoses()
		return OneShotReorient{From: poseFromConfig(from), To: poseFromConfig(to)}, nil
	default:
		return nil, fmt.Errorf("unknown camera policy %q", name)
	}
}

func poseFromConfig(p config.PoseConfig) Pose {
	return Pose{Altitude: p.Altitude, Azimuth: p.Azimuth}
}
