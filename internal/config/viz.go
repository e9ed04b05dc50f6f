package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Camera policy names accepted by camera_policy.
const (
	PolicyStatic          = "static"
	PolicyOneShotReorient = "one_shot_reorient"
)

// Output formats accepted by output_format.
const (
	FormatPNG  = "png"
	FormatHTML = "html"
	FormatBoth = "both"
)

// PoseConfig is a camera pose in degrees.
type PoseConfig struct {
	Altitude float64 `json:"altitude"`
	Azimuth  float64 `json:"azimuth"`
}

// VizConfig is the visualiser's configuration surface. Every field is
// optional; the Get* methods supply defaults for fields left nil.
type VizConfig struct {
	// Camera
	CameraPolicy  *string      `json:"camera_policy,omitempty"` // "static" or "one_shot_reorient"
	StaticPose    *PoseConfig  `json:"static_pose,omitempty"`
	ReorientPoses []PoseConfig `json:"reorient_poses,omitempty"` // exactly [from, to] when set

	// Framing and style
	StaticMargin    *float64 `json:"static_margin,omitempty"`
	PathLineWidth   *float64 `json:"path_line_width,omitempty"`
	PointMarkerSize *float64 `json:"point_marker_size,omitempty"`

	// 1D plots: which position/velocity component to plot
	Component *string `json:"component,omitempty"`

	// Animation clock
	FrameInterval *string `json:"frame_interval,omitempty"` // duration string like "1ms"

	// Canvas selection
	OutputFormat *string `json:"output_format,omitempty"`
}

func ptrFloat64(v float64) *float64 { return &v }
func ptrString(v string) *string    { return &v }

// EmptyVizConfig returns a VizConfig with all fields unset.
func EmptyVizConfig() *VizConfig {
	return &VizConfig{}
}

// DefaultVizConfig returns a VizConfig with every field set to its default.
func DefaultVizConfig() *VizConfig {
	return &VizConfig{
		CameraPolicy:    ptrString(PolicyStatic),
		StaticPose:      &PoseConfig{Altitude: 15, Azimuth: 0},
		ReorientPoses:   []PoseConfig{{Altitude: 15, Azimuth: 0}, {Altitude: 15, Azimuth: 45}},
		StaticMargin:    ptrFloat64(1.0),
		PathLineWidth:   ptrFloat64(3.0),
		PointMarkerSize: ptrFloat64(11.0),
		Component:       ptrString("x"),
		FrameInterval:   ptrString("1ms"),
		OutputFormat:    ptrString(FormatPNG),
	}
}

// LoadVizConfig loads a VizConfig from a JSON file.
// The file must have a .json extension and be at most 1MB. Fields omitted
// from the file keep their defaults through the Get* methods.
func LoadVizConfig(path string) (*VizConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyVizConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration values are valid.
func (c *VizConfig) Validate() error {
	if c.CameraPolicy != nil {
		switch *c.CameraPolicy {
		case PolicyStatic, PolicyOneShotReorient:
		default:
			return fmt.Errorf("camera_policy must be %q or %q, got %q", PolicyStatic, PolicyOneShotReorient, *c.CameraPolicy)
		}
	}

	if c.ReorientPoses != nil && len(c.ReorientPoses) != 2 {
		return fmt.Errorf("reorient_poses must hold exactly 2 poses, got %d", len(c.ReorientPoses))
	}

	if c.StaticMargin != nil && *c.StaticMargin < 0 {
		return fmt.Errorf("static_margin must be non-negative, got %f", *c.StaticMargin)
	}

	if c.PathLineWidth != nil && *c.PathLineWidth <= 0 {
		return fmt.Errorf("path_line_width must be positive, got %f", *c.PathLineWidth)
	}

	if c.PointMarkerSize != nil && *c.PointMarkerSize <= 0 {
		return fmt.Errorf("point_marker_size must be positive, got %f", *c.PointMarkerSize)
	}

	if c.Component != nil {
		switch *c.Component {
		case "x", "y", "z":
		default:
			return fmt.Errorf("component must be x, y or z, got %q", *c.Component)
		}
	}

	if c.FrameInterval != nil && *c.FrameInterval != "" {
		d, err := time.ParseDuration(*c.FrameInterval)
		if err != nil {
			return fmt.Errorf("invalid frame_interval '%s': %w", *c.FrameInterval, err)
		}
		if d < 0 {
			return fmt.Errorf("frame_interval must be non-negative, got %s", d)
		}
	}

	if c.OutputFormat != nil {
		switch *c.OutputFormat {
		case FormatPNG, FormatHTML, FormatBoth:
		default:
			return fmt.Errorf("output_format must be png, html or both, got %q", *c.OutputFormat)
		}
	}

	return nil
}

// GetCameraPolicy returns the camera_policy value or the default.
func (c *VizConfig) GetCameraPolicy() string {
	if c.CameraPolicy == nil || *c.CameraPolicy == "" {
		return PolicyStatic // default
	}
	return *c.CameraPolicy
}

// GetStaticPose returns the static_pose value or the default.
func (c *VizConfig) GetStaticPose() PoseConfig {
	if c.StaticPose == nil {
		return PoseConfig{Altitude: 15, Azimuth: 0} // default
	}
	return *c.StaticPose
}

// GetReorientPoses returns the (from, to) reorientation poses or the default.
func (c *VizConfig) GetReorientPoses() (from, to PoseConfig) {
	if len(c.ReorientPoses) != 2 {
		return PoseConfig{Altitude: 15, Azimuth: 0}, PoseConfig{Altitude: 15, Azimuth: 45} // default
	}
	return c.ReorientPoses[0], c.ReorientPoses[1]
}

// GetStaticMargin returns the static_margin value or the default.
func (c *VizConfig) GetStaticMargin() float64 {
	if c.StaticMargin == nil {
		return 1.0 // default
	}
	return *c.StaticMargin
}

// GetPathLineWidth returns the path_line_width value or the default.
func (c *VizConfig) GetPathLineWidth() float64 {
	if c.PathLineWidth == nil {
		return 3.0 // default
	}
	return *c.PathLineWidth
}

// GetPointMarkerSize returns the point_marker_size value or the default.
func (c *VizConfig) GetPointMarkerSize() float64 {
	if c.PointMarkerSize == nil {
		return 11.0 // default
	}
	return *c.PointMarkerSize
}

// GetComponent returns the component value or the default.
func (c *VizConfig) GetComponent() string {
	if c.Component == nil || *c.Component == "" {
		return "x" // default
	}
	return *c.Component
}

// GetFrameInterval parses and returns the FrameInterval as a time.Duration.
func (c *VizConfig) GetFrameInterval() time.Duration {
	if c.FrameInterval == nil || *c.FrameInterval == "" {
		return time.Millisecond // default
	}
	d, err := time.ParseDuration(*c.FrameInterval)
	if err != nil || d < 0 {
		return time.Millisecond // default on parse error
	}
	return d
}

// GetOutputFormat returns the output_format value or the default.
func (c *VizConfig) GetOutputFormat() string {
	if c.OutputFormat == nil || *c.OutputFormat == "" {
		return FormatPNG // default
	}
	return *c.OutputFormat
}
