package trajectory

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/trajectory.report/internal/fsutil"
)

const sampleFile = `0.0 1.0 0.0 0.0 0.0 1.0 0.1
0.5 0.8775825618903728 0.479425538604203 0.05 -0.479425538604203 0.8775825618903728 0.1
1.0 0.5403023058681398 0.8414709848078965 0.1 -0.8414709848078965 0.5403023058681398 0.1
`

func TestRead_RoundTripFidelity(t *testing.T) {
	tr, err := Read(strings.NewReader(sampleFile))
	require.NoError(t, err)
	require.Equal(t, 3, tr.Len())

	want := []Sample{
		{T: 0.0, X: 1.0, Y: 0.0, Z: 0.0, VX: 0.0, VY: 1.0, VZ: 0.1},
		{T: 0.5, X: 0.8775825618903728, Y: 0.479425538604203, Z: 0.05, VX: -0.479425538604203, VY: 0.8775825618903728, VZ: 0.1},
		{T: 1.0, X: 0.5403023058681398, Y: 0.8414709848078965, Z: 0.1, VX: -0.8414709848078965, VY: 0.5403023058681398, VZ: 0.1},
	}
	if diff := cmp.Diff(want, tr.Samples()); diff != "" {
		t.Errorf("samples mismatch (-want +got):\n%s", diff)
	}
}

func TestRead_WhitespaceRunsAndBlankLines(t *testing.T) {
	input := "# t x y z vx vy vz\n\n  1\t2  3 4    5 6 7  \n\n8 9 10 11 12 13 14\n"
	tr, err := Read(strings.NewReader(input))
	require.NoError(t, err)
	require.Equal(t, 2, tr.Len())

	assert.Equal(t, Sample{T: 1, X: 2, Y: 3, Z: 4, VX: 5, VY: 6, VZ: 7}, tr.At(0))
	assert.Equal(t, Sample{T: 8, X: 9, Y: 10, Z: 11, VX: 12, VY: 13, VZ: 14}, tr.At(1))
}

func TestRead_PreservesOrderWithoutSorting(t *testing.T) {
	input := "3 0 0 0 0 0 0\n1 0 0 0 0 0 0\n2 0 0 0 0 0 0\n"
	tr, err := Read(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 1, 2}, tr.Times())
}

func TestRead_EmptyInput(t *testing.T) {
	tr, err := Read(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, 0, tr.Len())
	assert.Empty(t, tr.Times())
}

func TestRead_MalformedRows(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantLine   int
		wantFields int
	}{
		{
			name:       "six fields",
			input:      "0 1 2 3 4 5 6\n0 1 2 3 4 5\n",
			wantLine:   2,
			wantFields: 6,
		},
		{
			name:       "eight fields",
			input:      "0 1 2 3 4 5 6 7\n",
			wantLine:   1,
			wantFields: 8,
		},
		{
			name:       "non-numeric field",
			input:      "0 1 2 3 4 5 6\n\n0 1 two 3 4 5 6\n",
			wantLine:   3,
			wantFields: 7,
		},
		{
			name:       "nan field",
			input:      "0 1 2 3 4 5 6\n1 nan 2 3 4 5 6\n",
			wantLine:   2,
			wantFields: 7,
		},
		{
			name:       "infinite field",
			input:      "0 1 2 3 4 5 +Inf\n",
			wantLine:   1,
			wantFields: 7,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := Read(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Nil(t, tr, "no partial trajectory on error")
			assert.True(t, errors.Is(err, ErrMalformedRow))

			var rowErr *MalformedRowError
			require.True(t, errors.As(err, &rowErr))
			assert.Equal(t, tt.wantLine, rowErr.Line)
			assert.Equal(t, tt.wantFields, rowErr.Fields)
		})
	}
}

func TestLoad_FromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output.txt")
	require.NoError(t, os.WriteFile(path, []byte(sampleFile), 0644))

	tr, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, tr.Len())
}

func TestLoad_MissingFile(t *testing.T) {
	tr, err := Load(filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
	assert.Nil(t, tr)
	assert.True(t, errors.Is(err, ErrFileNotFound))
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestLoadFS_Memory(t *testing.T) {
	mfs := fsutil.NewMemoryFileSystem()
	mfs.WriteFile("/data/output.txt", []byte(sampleFile))

	tr, err := LoadFS(mfs, "/data/output.txt")
	require.NoError(t, err)
	assert.Equal(t, 3, tr.Len())

	mfs.WriteFile("/data/bad.txt", []byte("1 2 3\n"))
	_, err = LoadFS(mfs, "/data/bad.txt")
	assert.ErrorIs(t, err, ErrMalformedRow)
}

func TestWrite_ReadBack(t *testing.T) {
	orig := Synthetic(25, DefaultHelix)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, orig))
	assert.Equal(t, 25, strings.Count(buf.String(), "\n"))

	got, err := Read(&buf)
	require.NoError(t, err)
	if diff := cmp.Diff(orig.Samples(), got.Samples()); diff != "" {
		t.Errorf("write/read mismatch (-want +got):\n%s", diff)
	}
}

func TestRead_NonFiniteReason(t *testing.T) {
	_, err := Read(strings.NewReader("0 1 2 -inf 4 5 6\n"))
	var rowErr *MalformedRowError
	require.True(t, errors.As(err, &rowErr))
	assert.Contains(t, rowErr.Reason, "not a finite number")
}

func TestLoad_DirectoryIsNotReadable(t *testing.T) {
	tr, err := Load(t.TempDir())
	require.Error(t, err)
	assert.Nil(t, tr)
	assert.ErrorIs(t, err, ErrFileNotFound)
	assert.NotErrorIs(t, err, ErrMalformedRow)
}

// brokenFS serves files whose reads fail part-way through.
type brokenFS struct {
	*fsutil.MemoryFileSystem
	err error
}

type brokenFile struct {
	fs.File
	err error
}

func (f brokenFile) Read([]byte) (int, error) { return 0, f.err }

func (b *brokenFS) Open(name string) (fs.File, error) {
	f, err := b.MemoryFileSystem.Open(name)
	if err != nil {
		return nil, err
	}
	return brokenFile{File: f, err: b.err}, nil
}

func TestLoadFS_ReadErrorIsNotReadable(t *testing.T) {
	ioErr := errors.New("input/output error")
	bfs := &brokenFS{MemoryFileSystem: fsutil.NewMemoryFileSystem(), err: ioErr}
	bfs.WriteFile("/data/output.txt", []byte(sampleFile))

	tr, err := LoadFS(bfs, "/data/output.txt")
	require.Error(t, err)
	assert.Nil(t, tr)
	assert.ErrorIs(t, err, ErrFileNotFound)
	assert.ErrorIs(t, err, ioErr)
}
