package chain_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jive-vlbi/vlbid/internal/chain"
)

// producer emits n ints then returns, or returns early if ctx is cancelled
// — the worker-level "check a stop flag on blocking operations" contract.
func producer(n int) chain.WorkerFunc {
	return func(ctx context.Context, _ any, _ <-chan any, out chan<- any) error {
		for i := 0; i < n; i++ {
			select {
			case <-ctx.Done():
				return nil
			case out <- i:
			}
		}
		return nil
	}
}

func doubler(ctx context.Context, _ any, in <-chan any, out chan<- any) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case v, ok := <-in:
			if !ok {
				return nil
			}
			select {
			case <-ctx.Done():
				return nil
			case out <- v.(int) * 2:
			}
		}
	}
}

func collector(sum *atomic.Int64) chain.WorkerFunc {
	return func(ctx context.Context, _ any, in <-chan any, _ chan<- any) error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case v, ok := <-in:
				if !ok {
					return nil
				}
				sum.Add(int64(v.(int)))
			}
		}
	}
}

func TestChainRunsStagesToCompletionAndJoins(t *testing.T) {
	var sum atomic.Int64
	c := chain.New()
	c.Add(producer(5), 1, nil)
	c.Add(doubler, 1, nil)
	c.Add(collector(&sum), 1, nil)

	require.NoError(t, c.Run(context.Background()))
	require.NoError(t, c.Join())

	require.EqualValues(t, 2*(0+1+2+3+4), sum.Load())
}

func TestChainNThreadFansOutWithoutDroppingWork(t *testing.T) {
	var sum atomic.Int64
	c := chain.New()
	c.Add(producer(100), 4, nil)
	doublerID := c.Add(doubler, 4, nil)
	c.NThread(doublerID, 8)
	c.Add(collector(&sum), 4, nil)

	require.NoError(t, c.Run(context.Background()))
	require.NoError(t, c.Join())

	want := int64(0)
	for i := 0; i < 100; i++ {
		want += int64(i * 2)
	}
	require.EqualValues(t, want, sum.Load())
}

func TestChainGentleStopLetsWorkersDrainAndExit(t *testing.T) {
	var sum atomic.Int64
	c := chain.New()
	// an effectively endless producer, stopped by GentleStop rather than exhaustion
	c.Add(func(ctx context.Context, _ any, _ <-chan any, out chan<- any) error {
		for i := 0; ; i++ {
			select {
			case <-ctx.Done():
				return nil
			case out <- i:
			}
		}
	}, 1, nil)
	c.Add(doubler, 1, nil)
	c.Add(collector(&sum), 1, nil)

	require.NoError(t, c.Run(context.Background()))
	time.Sleep(10 * time.Millisecond)
	c.GentleStop()
	require.NoError(t, c.Join())
}

func TestChainStopInvokesCancelHandlersInRegistrationOrder(t *testing.T) {
	c := chain.New()
	id := c.Add(func(ctx context.Context, _ any, _ <-chan any, _ chan<- any) error {
		<-ctx.Done()
		return nil
	}, 1, nil)

	var order []int
	c.RegisterCancel(id, func() { order = append(order, 1) })
	c.RegisterCancel(id, func() { order = append(order, 2) })

	require.NoError(t, c.Run(context.Background()))
	c.Stop()
	require.NoError(t, c.Join())

	require.Equal(t, []int{1, 2}, order)
}

func TestChainFinalizeRunsInReverseRegistrationOrder(t *testing.T) {
	c := chain.New()
	var sum atomic.Int64
	id := c.Add(producer(1), 1, nil)
	c.Add(collector(&sum), 1, nil)

	var order []int
	c.RegisterFinal(id, func(*chain.Chain) { order = append(order, 1) })
	c.RegisterFinal(id, func(*chain.Chain) { order = append(order, 2) })

	require.NoError(t, c.Run(context.Background()))
	require.NoError(t, c.Join())
	c.Finalize()

	require.Equal(t, []int{2, 1}, order)
}

func TestCommunicateCallsThunkAgainstLiveUserData(t *testing.T) {
	c := chain.New()
	id := c.Add(func(ctx context.Context, userData any, _ <-chan any, _ chan<- any) error {
		<-ctx.Done()
		return nil
	}, 1, 7)

	require.NoError(t, c.Run(context.Background()))

	result, err := c.Communicate(id, func(userData int, delta int) int { return userData + delta }, 3)
	require.NoError(t, err)
	require.Equal(t, 10, result)

	c.GentleStop()
	require.NoError(t, c.Join())
}

func TestCommunicateRejectsMismatchedSignature(t *testing.T) {
	c := chain.New()
	id := c.Add(func(ctx context.Context, _ any, _ <-chan any, _ chan<- any) error {
		<-ctx.Done()
		return nil
	}, 1, 7)

	require.NoError(t, c.Run(context.Background()))

	_, err := c.Communicate(id, func(userData string) string { return userData })
	require.Error(t, err)

	c.GentleStop()
	require.NoError(t, c.Join())
}

func TestChainDisposeClearsUserData(t *testing.T) {
	c := chain.New()
	var sum atomic.Int64
	id := c.Add(producer(1), 1, "state")
	c.Add(collector(&sum), 1, nil)
	require.NoError(t, c.Run(context.Background()))
	require.NoError(t, c.Join())
	c.Dispose()

	got, err := c.Communicate(id, func(userData any) any { return userData })
	require.NoError(t, err)
	require.Nil(t, got)
}
