package trajectory

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/banshee-data/trajectory.report/internal/fsutil"
	"github.com/banshee-data/trajectory.report/internal/monitoring"
)

// Columns is the number of fields per row: t x y z vx vy vz.
const Columns = 7

// Load reads a trajectory file from the local filesystem.
func Load(path string) (*Trajectory, error) {
	return LoadFS(fsutil.OSFileSystem{}, path)
}

// LoadFS reads a trajectory file through fsys. Files ending in .gz or .zst
// are decompressed first. On any error no trajectory is returned.
func LoadFS(fsys fsutil.FileSystem, path string) (*Trajectory, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFileNotFound, path, err)
	}
	defer f.Close()

	if info, err := f.Stat(); err == nil && info.IsDir() {
		return nil, fmt.Errorf("%w: %s: is a directory", ErrFileNotFound, path)
	}

	codec := CompressionFor(path)
	r, err := codec.newDecompressor(f)
	if err != nil {
		return nil, fmt.Errorf("%s: open %s stream: %w", path, codec, err)
	}
	defer r.Close()

	tr, err := Read(r)
	if errors.Is(err, ErrMalformedRow) {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFileNotFound, path, err)
	}
	monitoring.Logf("[trajectory] loaded %d samples from %s", tr.Len(), path)
	return tr, nil
}

// SaveFS writes tr to path on fsys, compressing it when the extension asks
// for it.
func SaveFS(fsys fsutil.FileSystem, path string, tr *Trajectory) error {
	f, err := fsys.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	codec := CompressionFor(path)
	w, err := codec.newCompressor(f)
	if err != nil {
		f.Close()
		return fmt.Errorf("%s: open %s stream: %w", path, codec, err)
	}
	if err := Write(w, tr); err != nil {
		w.Close()
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		f.Close()
		return fmt.Errorf("failed to flush %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	monitoring.Logf("[trajectory] saved %d samples to %s", tr.Len(), path)
	return nil
}

// Read parses whitespace-separated rows of seven floats. Blank lines and
// lines starting with '#' are skipped.
func Read(r io.Reader) (*Trajectory, error) {
	var samples []Sample

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		s, err := parseRow(line, text)
		if err != nil {
			return nil, err
		}
		samples = append(samples, s)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("trajectory: read failed after line %d: %w", line, err)
	}

	return &Trajectory{samples: samples}, nil
}

func parseRow(line int, text string) (Sample, error) {
	fields := strings.Fields(text)
	if len(fields) != Columns {
		return Sample{}, &MalformedRowError{
			Line:   line,
			Fields: len(fields),
			Reason: fmt.Sprintf("expected %d fields", Columns),
		}
	}

	var v [Columns]float64
	for i, f := range fields {
		x, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return Sample{}, &MalformedRowError{
				Line:   line,
				Fields: len(fields),
				Reason: fmt.Sprintf("field %d %q is not a number", i+1, f),
			}
		}
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return Sample{}, &MalformedRowError{
				Line:   line,
				Fields: len(fields),
				Reason: fmt.Sprintf("field %d %q is not a finite number", i+1, f),
			}
		}
		v[i] = x
	}

	return Sample{T: v[0], X: v[1], Y: v[2], Z: v[3], VX: v[4], VY: v[5], VZ: v[6]}, nil
}

// Write encodes tr in the format Read accepts, one sample per line.
func Write(w io.Writer, tr *Trajectory) error {
	bw := bufio.NewWriter(w)
	for i := 0; i < tr.Len(); i++ {
		s := tr.At(i)
		row := []float64{s.T, s.X, s.Y, s.Z, s.VX, s.VY, s.VZ}
		for j, v := range row {
			if j > 0 {
				if err := bw.WriteByte(' '); err != nil {
					return err
				}
			}
			if _, err := bw.WriteString(strconv.FormatFloat(v, 'g', -1, 64)); err != nil {
				return err
			}
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}
