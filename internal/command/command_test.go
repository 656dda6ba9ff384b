package command_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jive-vlbi/vlbid/internal/command"
)

func TestParseCommandWithArgs(t *testing.T) {
	cmd, err := command.Parse("net_protocol = udp : 1500 ;")
	require.NoError(t, err)
	require.Equal(t, "net_protocol", cmd.Keyword)
	require.False(t, cmd.IsQuery)
	require.Equal(t, []string{"udp", "1500"}, cmd.Args)
}

func TestParseQueryNoArgs(t *testing.T) {
	cmd, err := command.Parse("mode? ;")
	require.NoError(t, err)
	require.True(t, cmd.IsQuery)
	require.Empty(t, cmd.Args)
}

func TestParseRejectsMissingSemicolon(t *testing.T) {
	_, err := command.Parse("mode?")
	require.Error(t, err)
}

func TestParseRejectsMissingSeparator(t *testing.T) {
	_, err := command.Parse("mode;")
	require.Error(t, err)
}

func TestParseRejectsInvalidKeyword(t *testing.T) {
	_, err := command.Parse("1bad = x ;")
	require.Error(t, err)
}

func TestParseLowercasesKeyword(t *testing.T) {
	cmd, err := command.Parse("MODE? ;")
	require.NoError(t, err)
	require.Equal(t, "mode", cmd.Keyword)
}
