package session_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jive-vlbi/vlbid/internal/chain"
	"github.com/jive-vlbi/vlbid/internal/session"
)

func noopChain() *chain.Chain {
	c := chain.New()
	c.Add(func(ctx context.Context, _ any, _ <-chan any, _ chan<- any) error {
		<-ctx.Done()
		return nil
	}, 1, nil)
	return c
}

func TestSessionStartsInNoTransfer(t *testing.T) {
	s := session.New(nil)
	require.Equal(t, session.NoTransfer, s.Mode())
	require.Equal(t, session.SubMode{}, s.SubMode())
}

func TestStartSetsModeAndWait(t *testing.T) {
	s := session.New(nil)
	require.NoError(t, s.Start(session.Net2VBS, noopChain()))

	require.Equal(t, session.Net2VBS, s.Mode())
	require.True(t, s.SubMode().Wait)
	require.True(t, s.SubMode().Connected)
	require.False(t, s.SubMode().Run)
}

func TestStartRejectsConflictingMode(t *testing.T) {
	s := session.New(nil)
	require.NoError(t, s.Start(session.Net2VBS, noopChain()))

	err := s.Start(session.In2Disk, noopChain())
	require.Error(t, err)
}

func TestStartAllowsSameModeAgain(t *testing.T) {
	s := session.New(nil)
	require.NoError(t, s.Start(session.Net2VBS, noopChain()))
	require.NoError(t, s.Start(session.Net2VBS, noopChain()))
}

func TestOnClearsWaitAndSetsRun(t *testing.T) {
	s := session.New(nil)
	require.NoError(t, s.Start(session.Net2VBS, noopChain()))
	require.NoError(t, s.On(context.Background()))

	require.False(t, s.SubMode().Wait)
	require.True(t, s.SubMode().Run)

	require.NoError(t, s.Off())
}

func TestOnWithoutStartIsRejected(t *testing.T) {
	s := session.New(nil)
	err := s.On(context.Background())
	require.Error(t, err)
}

func TestOffReturnsToNoTransferAndStopsChain(t *testing.T) {
	s := session.New(nil)
	require.NoError(t, s.Start(session.Net2VBS, noopChain()))
	require.NoError(t, s.On(context.Background()))

	require.NoError(t, s.Off())
	require.Equal(t, session.NoTransfer, s.Mode())
	require.Equal(t, session.SubMode{}, s.SubMode())
	require.Nil(t, s.Chain())
}

func TestOffIsIdempotentWithNoActiveChain(t *testing.T) {
	s := session.New(nil)
	require.NoError(t, s.Off())
	require.Equal(t, session.NoTransfer, s.Mode())
}

func TestPauseAndResumeToggleSubMode(t *testing.T) {
	s := session.New(nil)
	require.NoError(t, s.Start(session.VBSRecord, noopChain()))
	require.NoError(t, s.On(context.Background()))

	require.NoError(t, s.Pause())
	require.True(t, s.SubMode().Pause)
	require.False(t, s.SubMode().Run)

	require.NoError(t, s.Resume())
	require.True(t, s.SubMode().Run)
	require.False(t, s.SubMode().Pause)

	require.NoError(t, s.Off())
}

func TestSetNetParmsRejectedOnceRunning(t *testing.T) {
	s := session.New(nil)
	require.NoError(t, s.Start(session.VBSRecord, noopChain()))
	require.NoError(t, s.On(context.Background()))

	err := s.SetNetParms(s.NetParms())
	require.Error(t, err)

	require.NoError(t, s.Off())
}

func TestStatsCountersAreIndependentOfMutex(t *testing.T) {
	s := session.New(nil)
	s.Stats().BytesTransferred.Add(1024)
	require.EqualValues(t, 1024, s.Stats().Snapshot().BytesTransferred)
}
