package command

import (
	"context"
	"fmt"

	"github.com/jive-vlbi/vlbid/internal/netparms"
	"github.com/jive-vlbi/vlbid/internal/session"
	"github.com/jive-vlbi/vlbid/internal/vlbierr"
)

// RegisterDefaultVerbs binds the handful of session-control keywords the
// command protocol exposes over every session: mode/submode queries,
// network-parameter get/set, pause/resume and off/disconnect (§4.F, §6.5).
func RegisterDefaultVerbs(d *Dispatcher) {
	d.Register("mode", false, true, 0, handleMode)
	d.Register("status", false, true, 0, handleStatus)
	d.Register("net_protocol", true, true, 0, handleNetProtocol)
	d.Register("pause", true, false, 0, handlePause)
	d.Register("resume", true, false, 0, handleResume)
	d.Register("off", true, false, 0, handleOff)
	d.Register("disconnect", true, false, 0, handleOff)
}

func handleMode(_ context.Context, _ bool, _ []string, rt *session.Session) (string, error) {
	sub := rt.SubMode()
	return fmt.Sprintf("%s : %t : %t : %t : %t", rt.Mode(), sub.Connected, sub.Run, sub.Pause, sub.Wait), nil
}

func handleStatus(_ context.Context, _ bool, _ []string, rt *session.Session) (string, error) {
	snap := rt.Stats().Snapshot()
	return fmt.Sprintf("%d : %d : %d : %d : %d", snap.BytesTransferred, snap.FramesProcessed, snap.FramesDropped, snap.MissingBytes, snap.Errors), nil
}

func handleNetProtocol(_ context.Context, isQuery bool, args []string, rt *session.Session) (string, error) {
	if isQuery {
		return rt.NetParms().Protocol.String(), nil
	}
	if len(args) < 1 {
		return "", vlbierr.New(vlbierr.KindSyntax, "net_protocol", vlbierr.ErrInvalidFormatString)
	}
	proto, err := netparms.ParseProtocol(args[0])
	if err != nil {
		return "", err
	}
	np := rt.NetParms()
	np.Protocol = proto
	if err := rt.SetNetParms(np); err != nil {
		return "", err
	}
	return "", nil
}

func handlePause(_ context.Context, _ bool, _ []string, rt *session.Session) (string, error) {
	return "", rt.Pause()
}

func handleResume(_ context.Context, _ bool, _ []string, rt *session.Session) (string, error) {
	return "", rt.Resume()
}

func handleOff(_ context.Context, _ bool, _ []string, rt *session.Session) (string, error) {
	return "", rt.Off()
}
