package session_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jive-vlbi/vlbid/internal/session"
)

func TestModeStringKnownValues(t *testing.T) {
	require.Equal(t, "no_transfer", session.NoTransfer.String())
	require.Equal(t, "vbsrecord", session.VBSRecord.String())
	require.Equal(t, "net2vbs", session.Net2VBS.String())
	require.Equal(t, "in2net", session.In2Net.String())
}

func TestModeStringOutOfRange(t *testing.T) {
	require.Equal(t, "unknown", session.Mode(9999).String())
}
