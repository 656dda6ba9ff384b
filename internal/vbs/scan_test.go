package vbs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jive-vlbi/vlbid/internal/vbs"
)

func writeFile(t *testing.T, path string, size int) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, make([]byte, size), 0o644))
}

func TestScanFlexBuffFindsChunksAcrossMountpoints(t *testing.T) {
	mp1 := t.TempDir()
	mp2 := t.TempDir()

	require.NoError(t, os.MkdirAll(filepath.Join(mp1, "exp1"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(mp2, "exp1"), 0o755))
	writeFile(t, filepath.Join(mp1, "exp1", "exp1.00000000"), 100)
	writeFile(t, filepath.Join(mp2, "exp1", "exp1.00000001"), 200)

	mountpoints := []vbs.Mountpoint{vbs.Mountpoint(mp1), vbs.Mountpoint(mp2)}
	chunks, err := vbs.ScanFlexBuff(mountpoints, "exp1")
	require.NoError(t, err)
	require.Len(t, chunks, 2)

	total := int64(0)
	for _, c := range chunks {
		total += c.Size
	}
	require.Equal(t, int64(300), total)
}

func TestScanFlexBuffRejectsDuplicateChunkNumbers(t *testing.T) {
	mp1 := t.TempDir()
	mp2 := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(mp1, "exp2"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(mp2, "exp2"), 0o755))
	writeFile(t, filepath.Join(mp1, "exp2", "exp2.00000000"), 10)
	writeFile(t, filepath.Join(mp2, "exp2", "exp2.00000000"), 10)

	_, err := vbs.ScanFlexBuff([]vbs.Mountpoint{vbs.Mountpoint(mp1), vbs.Mountpoint(mp2)}, "exp2")
	require.Error(t, err)
}

func TestScanFlexBuffDistinguishesSuffixedDatastream(t *testing.T) {
	mp := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(mp, "exp3"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(mp, "exp3_ds1"), 0o755))
	writeFile(t, filepath.Join(mp, "exp3", "exp3.00000000"), 10)
	writeFile(t, filepath.Join(mp, "exp3_ds1", "exp3_ds1.00000000"), 10)

	chunks, err := vbs.ScanFlexBuff([]vbs.Mountpoint{vbs.Mountpoint(mp)}, "exp3")
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	require.NotEqual(t, chunks[0].SuffixID, chunks[1].SuffixID)
}
