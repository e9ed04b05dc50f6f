package trajectory

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/trajectory.report/internal/fsutil"
)

func TestCompressionFor(t *testing.T) {
	tests := []struct {
		path string
		want Compression
	}{
		{"output.txt", None},
		{"output", None},
		{"runs/output.txt.gz", Gzip},
		{"OUTPUT.TXT.GZ", Gzip},
		{"output.txt.zst", Zstd},
		{"output.zstd", Zstd},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, CompressionFor(tt.path))
		})
	}
}

func TestSaveFS_LoadFS_Compressed(t *testing.T) {
	orig := Synthetic(40, DefaultHelix)

	for _, name := range []string{"helix.txt", "helix.txt.gz", "helix.txt.zst"} {
		t.Run(name, func(t *testing.T) {
			mfs := fsutil.NewMemoryFileSystem()
			path := "/runs/" + name
			require.NoError(t, SaveFS(mfs, path, orig))

			got, err := LoadFS(mfs, path)
			require.NoError(t, err)
			if diff := cmp.Diff(orig.Samples(), got.Samples()); diff != "" {
				t.Errorf("save/load mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSaveFS_CompressesOnDisk(t *testing.T) {
	orig := Synthetic(200, DefaultHelix)
	var plain bytes.Buffer
	require.NoError(t, Write(&plain, orig))

	mfs := fsutil.NewMemoryFileSystem()
	require.NoError(t, SaveFS(mfs, "/runs/helix.txt.zst", orig))
	stored, err := mfs.ReadFile("/runs/helix.txt.zst")
	require.NoError(t, err)
	assert.Less(t, len(stored), plain.Len())
}

func TestLoadFS_CorruptCompressedStream(t *testing.T) {
	mfs := fsutil.NewMemoryFileSystem()
	mfs.WriteFile("/runs/bad.txt.gz", []byte(sampleFile))

	tr, err := LoadFS(mfs, "/runs/bad.txt.gz")
	require.Error(t, err)
	assert.Nil(t, tr)
	assert.Contains(t, err.Error(), "gzip")
}
