package vbs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jive-vlbi/vlbid/internal/vbs"
)

func TestNewWriterRejectsBlockSizeBelowMinimum(t *testing.T) {
	mp := t.TempDir()
	_, err := vbs.NewWriter(vbs.LayoutFlexBuff, []vbs.Mountpoint{vbs.Mountpoint(mp)}, 1, 1024, 0)
	require.Error(t, err)
}

func TestWriterRoundTripsThroughFlexBuffScan(t *testing.T) {
	mp := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(mp, "rec"), 0o755))
	w, err := vbs.NewWriter(vbs.LayoutFlexBuff, []vbs.Mountpoint{vbs.Mountpoint(mp)}, 1, vbs.MinBlockSizeFlexBuff, 0)
	require.NoError(t, err)

	payload := []byte("striped-payload")
	require.NoError(t, w.Write(vbs.Chunk{Data: payload, ChunkNumber: 0, TargetName: "rec/rec.00000000"}))
	require.NoError(t, w.Close())

	chunks, err := vbs.ScanFlexBuff([]vbs.Mountpoint{vbs.Mountpoint(mp)}, "rec")
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	require.Equal(t, int64(len(payload)), chunks[0].Size)
}
