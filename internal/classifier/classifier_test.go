package classifier_test

import (
	"net/netip"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jive-vlbi/vlbid/internal/classifier"
)

func key(station, thread uint16, addrPort string) classifier.VDIFKey {
	ap := netip.MustParseAddrPort(addrPort)
	return classifier.VDIFKey{StationID: station, ThreadID: thread, Origin: ap}
}

func TestClassifyWildcardMatchesAnyKey(t *testing.T) {
	c := classifier.New()
	require.NoError(t, c.Define("ch{thread}", []string{"*/*.*"}))

	id1, name1, err := c.Classify(key(0x4142, 3, "10.0.0.1:1234"))
	require.NoError(t, err)
	require.Equal(t, "ch3", name1)

	id2, _, err := c.Classify(key(0x4142, 3, "10.0.0.2:9999"))
	require.NoError(t, err)
	require.Equal(t, id1, id2)
}

func TestClassifyStationAndThreadRange(t *testing.T) {
	c := classifier.New()
	require.NoError(t, c.Define("{station}-{thread}", []string{"*/Ef.0-3"}))

	id, name, err := c.Classify(key(encodeStation(t, "Ef"), 2, "192.168.1.1:100"))
	require.NoError(t, err)
	require.Equal(t, "Ef-2", name)
	require.NotZero(t, id)

	_, _, err = c.Classify(key(encodeStation(t, "Ef"), 9, "192.168.1.1:100"))
	require.Error(t, err)
}

func TestClassifyHostAndPortBound(t *testing.T) {
	c := classifier.New()
	require.NoError(t, c.Define("bound", []string{"10.0.0.5@4000/*.*"}))

	_, _, err := c.Classify(key(0, 0, "10.0.0.5:4000"))
	require.NoError(t, err)

	_, _, err = c.Classify(key(0, 0, "10.0.0.6:4000"))
	require.Error(t, err)
}

func TestDefineRejectsDuplicateName(t *testing.T) {
	c := classifier.New()
	require.NoError(t, c.Define("dup", []string{"*/*.*"}))
	err := c.Define("dup", []string{"*/*.*"})
	require.Error(t, err)
}

func TestClassifyFirstMatchingDatastreamWins(t *testing.T) {
	c := classifier.New()
	require.NoError(t, c.Define("first", []string{"*/*.0"}))
	require.NoError(t, c.Define("second", []string{"*/*.*"}))

	_, name, err := c.Classify(key(0, 0, "10.0.0.1:1"))
	require.NoError(t, err)
	require.Equal(t, "first", name)

	_, name, err = c.Classify(key(0, 5, "10.0.0.1:1"))
	require.NoError(t, err)
	require.Equal(t, "second", name)
}

func TestClassifySameNameDifferentKeysShareID(t *testing.T) {
	c := classifier.New()
	require.NoError(t, c.Define("shared", []string{"*/*.*"}))

	id1, _, err := c.Classify(key(1, 1, "10.0.0.1:1"))
	require.NoError(t, err)
	id2, _, err := c.Classify(key(2, 2, "10.0.0.2:2"))
	require.NoError(t, err)
	require.Equal(t, id1, id2)
}

func encodeStation(t *testing.T, s string) uint16 {
	t.Helper()
	require.Len(t, s, 2)
	return uint16(s[0])<<8 | uint16(s[1])
}
