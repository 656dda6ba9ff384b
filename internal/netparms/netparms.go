// Package netparms implements the §6.5 network-parameters contract: the
// protocol/MTU/socket-buffer/interpacket-delay/blocksize/nblock struct
// that the framer/reader side of a transfer is configured from, plus the
// socket-buffer application that needs golang.org/x/sys/unix (the
// standard net package exposes no SetsockoptInt equivalent).
package netparms

import (
	"syscall"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"

	"github.com/jive-vlbi/vlbid/internal/vlbierr"
)

// Protocol enumerates the transports §6.5 names: TCP, UDP, UDT and
// "udps" — UDP where each datagram carries a 64-bit sequence-number
// prefix, used to detect reordering/loss without a full reliable
// transport.
type Protocol int

const (
	TCP Protocol = iota
	UDP
	UDT
	UDPS
)

func (p Protocol) String() string {
	switch p {
	case TCP:
		return "tcp"
	case UDP:
		return "udp"
	case UDT:
		return "udt"
	case UDPS:
		return "udps"
	default:
		return "unknown"
	}
}

// ParseProtocol maps a command-protocol argument (§6.1) to a Protocol.
func ParseProtocol(s string) (Protocol, error) {
	switch s {
	case "tcp":
		return TCP, nil
	case "udp":
		return UDP, nil
	case "udt":
		return UDT, nil
	case "udps":
		return UDPS, nil
	default:
		return 0, vlbierr.New(vlbierr.KindSyntax, "ParseProtocol", vlbierr.ErrInvalidFormatString)
	}
}

// SequencePrefixSize is the byte width of the 64-bit sequence number
// prepended to every "udps" datagram.
const SequencePrefixSize = 8

// Params is the network configuration a transfer's producer/consumer
// steps are built from (§6.5).
type Params struct {
	Protocol           Protocol
	BlockSize          int           // bytes moved per queue item
	NBlock             int           // number of in-flight blocks (queue depth)
	MTU                int           // path MTU, bounds per-datagram payload for UDP-family protocols
	InterpacketDelay   time.Duration // enforced gap between consecutive sends, 0 disables
	ReceiveBufferSize  int           // SO_RCVBUF
	SendBufferSize     int           // SO_SNDBUF
}

// Default returns conservative defaults for a TCP transfer.
func Default() Params {
	return Params{
		Protocol:          TCP,
		BlockSize:         1 << 20,
		NBlock:            8,
		MTU:               1500,
		ReceiveBufferSize: 4 << 20,
		SendBufferSize:    4 << 20,
	}
}

// PayloadSize returns the usable bytes per datagram for UDP-family
// protocols: MTU minus the IP/UDP headers and, for "udps", the
// sequence-number prefix. TCP has no per-datagram ceiling and returns
// BlockSize unchanged.
func (p Params) PayloadSize() int {
	switch p.Protocol {
	case TCP:
		return p.BlockSize
	case UDPS:
		return p.MTU - udpIPHeaderOverhead - SequencePrefixSize
	default:
		return p.MTU - udpIPHeaderOverhead
	}
}

// udpIPHeaderOverhead approximates the IPv4+UDP header cost subtracted
// from the path MTU to get a conservative payload ceiling.
const udpIPHeaderOverhead = 28

// ApplySocketBuffers sets SO_RCVBUF/SO_SNDBUF on conn's underlying file
// descriptor to p.ReceiveBufferSize/p.SendBufferSize. The standard
// library exposes no portable setter for these, so this reaches into
// golang.org/x/sys/unix via the connection's SyscallConn; the storage
// backend (internal/vbs) uses the same package for unix.Statfs.
func (p Params) ApplySocketBuffers(conn syscallConn) error {
	raw, err := conn.SyscallConn()
	if err != nil {
		return errors.Wrap(err, "netparms: SyscallConn")
	}

	var sockErr error
	err = raw.Control(func(fd uintptr) {
		if p.ReceiveBufferSize > 0 {
			if e := unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_RCVBUF, p.ReceiveBufferSize); e != nil {
				sockErr = e
				return
			}
		}
		if p.SendBufferSize > 0 {
			if e := unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_SNDBUF, p.SendBufferSize); e != nil {
				sockErr = e
				return
			}
		}
	})
	if err != nil {
		return errors.Wrap(err, "netparms: Control")
	}
	if sockErr != nil {
		return errors.Wrap(sockErr, "netparms: setsockopt")
	}
	return nil
}

// syscallConn is the subset of net.Conn (and *net.TCPConn/*net.UDPConn,
// *net.UnixConn) ApplySocketBuffers needs; every real net.Conn satisfies
// this via its SyscallConn method.
type syscallConn interface {
	SyscallConn() (syscall.RawConn, error)
}
