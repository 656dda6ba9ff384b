package vbs_test

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jive-vlbi/vlbid/internal/vbs"
)

func TestOpenFileReadsAcrossFlexBuffChunks(t *testing.T) {
	mp := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(mp, "exp"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(mp, "exp", "exp.00000000"), []byte("abcd"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(mp, "exp", "exp.00000001"), []byte("EFGHI"), 0o644))

	chunks, err := vbs.ScanFlexBuff([]vbs.Mountpoint{vbs.Mountpoint(mp)}, "exp")
	require.NoError(t, err)
	of := vbs.Open(chunks)
	require.Equal(t, int64(9), of.Size())

	out := make([]byte, 9)
	n, err := io.ReadFull(of, out)
	require.NoError(t, err)
	require.Equal(t, 9, n)
	require.Equal(t, "abcdEFGHI", string(out))
}

func TestOpenFileSeekAndPartialRead(t *testing.T) {
	mp := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(mp, "exp"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(mp, "exp", "exp.00000000"), []byte("0123456789"), 0o644))

	chunks, err := vbs.ScanFlexBuff([]vbs.Mountpoint{vbs.Mountpoint(mp)}, "exp")
	require.NoError(t, err)
	of := vbs.Open(chunks)

	pos, err := of.Seek(5, io.SeekStart)
	require.NoError(t, err)
	require.Equal(t, int64(5), pos)

	buf := make([]byte, 4)
	n, err := of.Read(buf)
	require.NoError(t, err)
	require.Equal(t, "5678", string(buf[:n]))

	_, err = of.Seek(-1, io.SeekStart)
	require.Error(t, err)

	require.NoError(t, of.Close())
}

func TestOpenFileCloseDedupsSharedMk6Descriptor(t *testing.T) {
	mp := t.TempDir()
	path := filepath.Join(mp, "scan.mk6")
	writeMk6File(t, path, [][]byte{bytes.Repeat([]byte{1}, 10), bytes.Repeat([]byte{2}, 20)})

	chunks, err := vbs.ScanMk6([]vbs.Mountpoint{vbs.Mountpoint(mp)}, "scan")
	require.NoError(t, err)
	of := vbs.Open(chunks)
	require.NoError(t, of.Close())
}
