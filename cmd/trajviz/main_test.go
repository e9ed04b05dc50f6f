package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/trajectory.report/internal/canvas"
	"github.com/banshee-data/trajectory.report/internal/config"
	"github.com/banshee-data/trajectory.report/internal/monitoring"
	"github.com/banshee-data/trajectory.report/internal/render"
	"github.com/banshee-data/trajectory.report/internal/trajectory"
)

func quiet(t *testing.T) {
	t.Helper()
	monitoring.SetLogger(nil)
	t.Cleanup(func() {
		monitoring.SetLogger(nil)
		monitoring.SetVerbose(false)
	})
}

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    options
		wantErr bool
	}{
		{
			name: "defaults",
			args: []string{"plot", "traj.txt"},
			want: options{outDir: "out", command: "plot", input: "traj.txt"},
		},
		{
			name: "all flags",
			args: []string{"-config", "viz.json", "-o", "figs", "-format", "both", "-synthetic", "40", "-v", "all", "t.txt"},
			want: options{
				configPath: "viz.json", outDir: "figs", format: "both",
				synthetic: 40, verbose: true, command: "all", input: "t.txt",
			},
		},
		{name: "missing input", args: []string{"plot"}, wantErr: true},
		{name: "unknown command", args: []string{"draw", "t.txt"}, wantErr: true},
		{name: "unknown flag", args: []string{"-fast", "plot", "t.txt"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stderr bytes.Buffer
			got, err := parseArgs(tt.args, &stderr)
			if tt.wantErr {
				assert.ErrorIs(t, err, errUsage)
				assert.Contains(t, stderr.String(), "Usage: trajviz")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRun_PlotSyntheticPNG(t *testing.T) {
	quiet(t)
	dir := t.TempDir()
	input := filepath.Join(dir, "data", "helix.txt")
	out := filepath.Join(dir, "out")

	err := run(context.Background(), []string{"-o", out, "-synthetic", "15", "plot", input}, &bytes.Buffer{})
	require.NoError(t, err)

	tr, err := trajectory.Load(input)
	require.NoError(t, err)
	assert.Equal(t, 15, tr.Len())

	for _, name := range []string{"time_series.png", "phase_space.png", "path_3d.png", "pose_3d.png"} {
		assert.FileExists(t, filepath.Join(out, name))
	}
	entries, err := os.ReadDir(filepath.Join(out, canvas.FramesDir))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRun_AnimateHTMLWithConfig(t *testing.T) {
	quiet(t)
	dir := t.TempDir()
	input := filepath.Join(dir, "helix.txt")
	out := filepath.Join(dir, "out")
	cfgPath := filepath.Join(dir, "viz.json")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`{
		"camera_policy": "one_shot_reorient",
		"frame_interval": "0s",
		"output_format": "html"
	}`), 0644))

	err := run(context.Background(), []string{"-config", cfgPath, "-o", out, "-synthetic", "6", "animate", input}, &bytes.Buffer{})
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(out, canvas.LatestFrameFile))
	assert.NoFileExists(t, filepath.Join(out, "pose_3d.html"))
}

func TestRun_FormatFlagOverridesConfig(t *testing.T) {
	quiet(t)
	dir := t.TempDir()
	input := filepath.Join(dir, "helix.txt")
	out := filepath.Join(dir, "out")

	err := run(context.Background(), []string{"-o", out, "-format", "both", "-synthetic", "4", "all", input}, &bytes.Buffer{})
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(out, "pose_3d.png"))
	assert.FileExists(t, filepath.Join(out, "pose_3d.html"))
	assert.FileExists(t, filepath.Join(out, canvas.FramesDir, "frame_000004.png"))
	assert.FileExists(t, filepath.Join(out, canvas.LatestFrameFile))
}

func TestRun_Errors(t *testing.T) {
	quiet(t)
	dir := t.TempDir()

	t.Run("missing trajectory", func(t *testing.T) {
		err := run(context.Background(), []string{"-o", dir, "plot", filepath.Join(dir, "nope.txt")}, &bytes.Buffer{})
		assert.ErrorIs(t, err, trajectory.ErrFileNotFound)
	})

	t.Run("bad format", func(t *testing.T) {
		input := filepath.Join(dir, "one.txt")
		require.NoError(t, os.WriteFile(input, []byte("0 1 2 3 0 0 0\n"), 0644))
		err := run(context.Background(), []string{"-format", "svg", "plot", input}, &bytes.Buffer{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "output_format")
	})

	t.Run("malformed row", func(t *testing.T) {
		input := filepath.Join(dir, "bad.txt")
		require.NoError(t, os.WriteFile(input, []byte("0 1 2\n"), 0644))
		err := run(context.Background(), []string{"-o", dir, "plot", input}, &bytes.Buffer{})
		assert.ErrorIs(t, err, trajectory.ErrMalformedRow)
	})

	t.Run("cancelled animation", func(t *testing.T) {
		input := filepath.Join(dir, "long.txt")
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := run(ctx, []string{"-o", filepath.Join(dir, "anim"), "-synthetic", "50", "animate", input}, &bytes.Buffer{})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestParseArgs_Version(t *testing.T) {
	var stderr bytes.Buffer
	_, err := parseArgs([]string{"-version"}, &stderr)
	assert.ErrorIs(t, err, errVersion)
	assert.Contains(t, stderr.String(), "trajviz dev")
}

func TestRun_CompressedInput(t *testing.T) {
	quiet(t)
	dir := t.TempDir()
	input := filepath.Join(dir, "helix.txt.zst")
	out := filepath.Join(dir, "out")

	require.NoError(t, run(context.Background(), []string{"-o", out, "-synthetic", "10", "plot", input}, &bytes.Buffer{}))
	assert.FileExists(t, filepath.Join(out, "path_3d.png"))

	tr, err := trajectory.Load(input)
	require.NoError(t, err)
	assert.Equal(t, 10, tr.Len())
}

func TestPlotAndAnimate_BackdropMatchesFinalFrame(t *testing.T) {
	quiet(t)
	tr := trajectory.Synthetic(5, trajectory.DefaultHelix)

	for _, policy := range []string{config.PolicyStatic, config.PolicyOneShotReorient} {
		t.Run(policy, func(t *testing.T) {
			interval := "0s"
			cfg := &config.VizConfig{CameraPolicy: &policy, FrameInterval: &interval}
			rec := canvas.NewRecorder()

			require.NoError(t, plot(tr, cfg, rec))
			require.NoError(t, animate(context.Background(), tr, cfg, rec))

			var backdrop *render.Panel
			for _, fig := range rec.Figures() {
				if fig.Kind == render.KindPose3D {
					backdrop = &fig.Panels[0]
				}
			}
			require.NotNil(t, backdrop)

			frames := rec.Frames()
			require.Len(t, frames, tr.Len())
			last := frames[len(frames)-1]

			require.NotNil(t, backdrop.Camera)
			assert.Equal(t, last.Camera, *backdrop.Camera)
			assert.Equal(t, last.Bounds[:], backdrop.Ranges)

			point := backdrop.Series[1]
			require.NotNil(t, last.Current)
			assert.Equal(t, *last.Current, [3]float64{point.X[0], point.Y[0], point.Z[0]})
			assert.Equal(t, last.Style.LineWidth, backdrop.Series[0].LineWidth)
			assert.Equal(t, last.Style.MarkerSize, point.MarkerSize)
		})
	}
}
