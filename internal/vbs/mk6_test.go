package vbs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jive-vlbi/vlbid/internal/vbs"
)

func writeMk6File(t *testing.T, path string, blocks [][]byte) {
	t.Helper()
	w, err := vbs.NewWriter(vbs.LayoutMk6, []vbs.Mountpoint{vbs.Mountpoint(filepath.Dir(path))}, 1, vbs.MinBlockSizeMk6, 0)
	require.NoError(t, err)
	for i, b := range blocks {
		require.NoError(t, w.Write(vbs.Chunk{Data: b, ChunkNumber: uint32(i), TargetName: filepath.Base(path)}))
	}
	require.NoError(t, w.Close())
}

func TestScanMk6RecoversBlocks(t *testing.T) {
	mp := t.TempDir()
	path := filepath.Join(mp, "scan1.mk6")
	writeMk6File(t, path, [][]byte{make([]byte, 1000), make([]byte, 2000)})

	chunks, err := vbs.ScanMk6([]vbs.Mountpoint{vbs.Mountpoint(mp)}, "scan1")
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	require.Equal(t, int64(1000), chunks[0].Size)
	require.Equal(t, int64(2000), chunks[1].Size)
}

func TestScanMk6IgnoresNonMk6Files(t *testing.T) {
	mp := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(mp, "scan2.junk"), []byte("not an mk6 file, too short"), 0o644))

	chunks, err := vbs.ScanMk6([]vbs.Mountpoint{vbs.Mountpoint(mp)}, "scan2")
	require.NoError(t, err)
	require.Empty(t, chunks)
}
