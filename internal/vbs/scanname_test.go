package vbs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jive-vlbi/vlbid/internal/vbs"
)

func TestNextScanNameNoPriorEntryKeepsBaseName(t *testing.T) {
	mp := t.TempDir()
	name, err := vbs.NextScanName([]vbs.Mountpoint{vbs.Mountpoint(mp)}, "rec001")
	require.NoError(t, err)
	require.Equal(t, "rec001", name)
}

func TestNextScanNameAppendsLeastUsedSuffix(t *testing.T) {
	mp := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(mp, "rec001"), 0o755))
	require.NoError(t, os.Mkdir(filepath.Join(mp, "rec001a"), 0o755))

	name, err := vbs.NextScanName([]vbs.Mountpoint{vbs.Mountpoint(mp)}, "rec001")
	require.NoError(t, err)
	require.Equal(t, "rec001b", name)
}
