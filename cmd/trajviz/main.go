// Command trajviz draws the static figures of a particle trajectory and
// animates its 3D path.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/banshee-data/trajectory.report/internal/animation"
	"github.com/banshee-data/trajectory.report/internal/canvas"
	"github.com/banshee-data/trajectory.report/internal/config"
	"github.com/banshee-data/trajectory.report/internal/fsutil"
	"github.com/banshee-data/trajectory.report/internal/monitoring"
	"github.com/banshee-data/trajectory.report/internal/render"
	"github.com/banshee-data/trajectory.report/internal/trajectory"
	"github.com/banshee-data/trajectory.report/internal/version"
)

var (
	errUsage = errors.New("usage error")
	// errVersion stops run after -version has been printed.
	errVersion = errors.New("version printed")
)

// options is the parsed command line.
type options struct {
	configPath string
	outDir     string
	format     string
	synthetic  int
	verbose    bool
	command    string
	input      string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stderr); err != nil {
		if errors.Is(err, errVersion) {
			return
		}
		if !errors.Is(err, errUsage) {
			monitoring.Logf("[trajviz] %v", err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stderr io.Writer) error {
	opts, err := parseArgs(args, stderr)
	if err != nil {
		return err
	}
	monitoring.SetVerbose(opts.verbose)

	cfg := config.EmptyVizConfig()
	if opts.configPath != "" {
		if cfg, err = config.LoadVizConfig(opts.configPath); err != nil {
			return err
		}
	}
	if opts.format != "" {
		cfg.OutputFormat = &opts.format
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	fsys := fsutil.OSFileSystem{}
	if opts.synthetic > 0 {
		if err := writeSynthetic(fsys, opts.input, opts.synthetic); err != nil {
			return err
		}
	}

	tr, err := trajectory.LoadFS(fsys, opts.input)
	if err != nil {
		return err
	}

	out, err := newCanvas(fsys, opts.outDir, cfg.GetOutputFormat())
	if err != nil {
		return err
	}

	var errs []error
	if opts.command == "plot" || opts.command == "all" {
		errs = append(errs, plot(tr, cfg, out))
	}
	if opts.command == "animate" || opts.command == "all" {
		errs = append(errs, animate(ctx, tr, cfg, out))
	}
	if e, ok := out.(interface{ Err() error }); ok {
		errs = append(errs, e.Err())
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}

	monitoring.Logf("[trajviz] %s done, output in %s", opts.command, opts.outDir)
	return nil
}

func parseArgs(args []string, stderr io.Writer) (options, error) {
	var opts options
	fset := flag.NewFlagSet("trajviz", flag.ContinueOnError)
	fset.SetOutput(stderr)
	fset.StringVar(&opts.configPath, "config", "", "JSON visualiser config")
	fset.StringVar(&opts.outDir, "o", "out", "Output directory")
	fset.StringVar(&opts.format, "format", "", "Output format: png, html or both (overrides config)")
	fset.IntVar(&opts.synthetic, "synthetic", 0, "Write an N-sample demo helix to the input path first (.gz/.zst compress it)")
	fset.BoolVar(&opts.verbose, "v", false, "Log every frame")
	showVersion := fset.Bool("version", false, "Print version and exit")
	fset.Usage = func() { printUsage(fset) }

	if err := fset.Parse(args); err != nil {
		return opts, errUsage
	}
	if *showVersion {
		fmt.Fprintf(stderr, "trajviz %s\n", version.String())
		return opts, errVersion
	}
	if fset.NArg() != 2 {
		fset.Usage()
		return opts, errUsage
	}

	opts.command, opts.input = fset.Arg(0), fset.Arg(1)
	switch opts.command {
	case "plot", "animate", "all":
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n\n", opts.command)
		fset.Usage()
		return opts, errUsage
	}
	return opts, nil
}

func printUsage(fset *flag.FlagSet) {
	fmt.Fprintln(fset.Output(), `trajviz - particle trajectory visualiser

Usage: trajviz [options] <command> <trajectory.txt>

Commands:
  plot       Draw time series, phase space and 3D figures
  animate    Animate the 3D path one sample per frame
  all        plot, then animate

Options:`)
	fset.PrintDefaults()
}

func writeSynthetic(fsys fsutil.FileSystem, path string, n int) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := fsys.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return trajectory.SaveFS(fsys, path, trajectory.Synthetic(n, trajectory.DefaultHelix))
}

func newCanvas(fsys fsutil.FileSystem, dir, format string) (render.Canvas, error) {
	switch format {
	case config.FormatPNG:
		return canvas.NewPlotCanvas(fsys, dir)
	case config.FormatHTML:
		return canvas.NewEChartsCanvas(fsys, dir)
	case config.FormatBoth:
		pc, err := canvas.NewPlotCanvas(fsys, dir)
		if err != nil {
			return nil, err
		}
		ec, err := canvas.NewEChartsCanvas(fsys, dir)
		if err != nil {
			return nil, err
		}
		return canvas.Multi{pc, ec}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

func pathStyle(cfg *config.VizConfig) render.PathStyle {
	return render.PathStyle{
		LineWidth:  cfg.GetPathLineWidth(),
		MarkerSize: cfg.GetPointMarkerSize(),
	}
}

func plot(tr *trajectory.Trajectory, cfg *config.VizConfig, c render.Canvas) error {
	component, err := trajectory.ParseAxis(cfg.GetComponent())
	if err != nil {
		return err
	}
	policy, err := animation.PolicyFromConfig(cfg)
	if err != nil {
		return err
	}
	margin := cfg.GetStaticMargin()
	// The backdrop is seen from the camera of the animation's final frame.
	pose := animation.RedrawPose(policy)

	r := render.NewRenderer(c, render.RendererConfig{
		Component: component,
		Margin:    &margin,
		Pose:      &pose,
		Style:     pathStyle(cfg),
	})
	return r.DrawAll(tr)
}

func animate(ctx context.Context, tr *trajectory.Trajectory, cfg *config.VizConfig, c render.Canvas) error {
	policy, err := animation.PolicyFromConfig(cfg)
	if err != nil {
		return err
	}
	margin := cfg.GetStaticMargin()

	d := animation.NewDriver(c, policy, animation.DriverConfig{
		Margin: &margin,
		Style:  pathStyle(cfg),
	})
	if err := d.Start(tr); err != nil {
		return err
	}
	return animation.Play(ctx, d, cfg.GetFrameInterval())
}
