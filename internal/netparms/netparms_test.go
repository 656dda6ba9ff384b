package netparms_test

import (
	"net"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jive-vlbi/vlbid/internal/netparms"
)

func TestParseProtocolRoundTripsKnownValues(t *testing.T) {
	for _, s := range []string{"tcp", "udp", "udt", "udps"} {
		p, err := netparms.ParseProtocol(s)
		require.NoError(t, err)
		require.Equal(t, s, p.String())
	}
}

func TestParseProtocolRejectsUnknown(t *testing.T) {
	_, err := netparms.ParseProtocol("sctp")
	require.Error(t, err)
}

func TestPayloadSizeAccountsForUDPSPrefix(t *testing.T) {
	p := netparms.Default()
	p.Protocol = netparms.UDP
	udp := p.PayloadSize()

	p.Protocol = netparms.UDPS
	udps := p.PayloadSize()

	require.Equal(t, netparms.SequencePrefixSize, udp-udps)
}

func TestPayloadSizeTCPIgnoresMTU(t *testing.T) {
	p := netparms.Default()
	require.Equal(t, p.BlockSize, p.PayloadSize())
}

func TestApplySocketBuffersSetsOptionsOnRealSocket(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	conn, err := net.Dial("tcp", ln.Addr().String())
	require.NoError(t, err)
	defer conn.Close()

	p := netparms.Default()
	require.NoError(t, p.ApplySocketBuffers(conn.(*net.TCPConn)))
}
