// Package chain implements the processing-chain runtime (spec.md §4.E):
// a staged pipeline of producer/transform/consumer steps connected by
// bounded queues, with cancellation, finalization and cross-stage calls.
//
// The original's bounded queue is a hand-rolled mutex + two condition
// variables (non-empty, non-full); a buffered Go channel already is that
// primitive, so every inter-step queue here is a buffered `chan any` and
// "gentle stop" is expressed as the idiomatic Go cascade: cancel the
// producer's context, let its goroutines return, close its output
// channel, and let each downstream step do the same once its own workers
// drain and exit.
package chain

import (
	"context"
	"sync"

	"github.com/jive-vlbi/vlbid/internal/vlbierr"
)

// StepID addresses a step after the chain is built, for NThread,
// RegisterCancel, RegisterFinal and Communicate calls (§3.5).
type StepID int

// WorkerFunc is one step's body: it pulls from in (nil for the first
// step, which must generate its own items), does its work, and pushes to
// out (nil for the last step). It must return promptly once ctx is
// cancelled (§4.E "Concurrency model": "worker functions are expected to
// check a stop flag on their blocking operations").
type WorkerFunc func(ctx context.Context, userData any, in <-chan any, out chan<- any) error

type step struct {
	id         StepID
	fn         WorkerFunc
	queueDepth int
	nthreads   int

	mu       sync.Mutex // guards userData for Communicate (§4.E "Communication")
	userData any
}

// Chain is an ordered sequence of steps built imperatively via Add, then
// run once via Run (§3.5 "Lifecycle: build -> register -> run -> ...").
type Chain struct {
	steps   []*step
	queues  []chan any
	cancels []func()
	finals  []func(*Chain)

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	errMu    sync.Mutex
	firstErr error
}

// New returns an empty Chain ready for Add calls.
func New() *Chain {
	return &Chain{}
}

// Add appends a step with the given worker function, input-queue depth
// (ignored for the first step, which has no input queue) and initial
// per-step user-data, returning its StepID (§4.E "Construction").
func (c *Chain) Add(fn WorkerFunc, queueDepth int, userData any) StepID {
	id := StepID(len(c.steps))
	c.steps = append(c.steps, &step{id: id, fn: fn, queueDepth: queueDepth, nthreads: 1, userData: userData})
	return id
}

// RegisterCancel associates a cancellation handler with a step, invoked
// by Stop (not GentleStop) to unblock a worker stuck in blocking I/O,
// e.g. closing a file descriptor or socket (§4.E "Cancellation").
// Handlers run in registration order across the whole chain.
func (c *Chain) RegisterCancel(id StepID, fn func()) {
	_ = id // recorded for symmetry with the original API; execution order is chain-wide
	c.cancels = append(c.cancels, fn)
}

// RegisterFinal associates a finalizer with a step, invoked by Finalize
// after every worker has joined; finalizers run in the reverse of their
// registration order (§4.E "Finalization").
func (c *Chain) RegisterFinal(id StepID, fn func(*Chain)) {
	_ = id
	c.finals = append(c.finals, fn)
}

// NThread sets the worker-thread count for a step (§4.E "Construction").
func (c *Chain) NThread(id StepID, n int) {
	if n < 1 {
		n = 1
	}
	c.steps[int(id)].nthreads = n
}

// Run instantiates one bounded queue between each adjacent pair of steps
// and spawns each step's configured worker count (§4.E "Execution").
func (c *Chain) Run(ctx context.Context) error {
	if len(c.steps) == 0 {
		return vlbierr.New(vlbierr.KindProgrammer, "Chain.Run", vlbierr.ErrInvalidFormatString)
	}
	c.ctx, c.cancel = context.WithCancel(ctx)

	c.queues = make([]chan any, len(c.steps)-1)
	for i := range c.queues {
		c.queues[i] = make(chan any, c.steps[i].queueDepth)
	}

	for i, s := range c.steps {
		var in <-chan any
		var out chan<- any
		// Only the first step runs under the context GentleStop cancels;
		// later steps run under the caller's ctx and return once their
		// input queue has been closed and drained.
		stepCtx := ctx
		if i == 0 {
			stepCtx = c.ctx
		}
		if i > 0 {
			in = c.queues[i-1]
		}
		if i < len(c.steps)-1 {
			out = c.queues[i]
		}
		c.runStep(s, stepCtx, in, out)
	}
	return nil
}

// runStep spawns s.nthreads workers and, once they have all returned,
// closes out exactly once so the next step (or nothing, for the last
// step) sees a clean EOF — the channel-native equivalent of "close the
// output side of each queue in source-to-sink order".
func (c *Chain) runStep(s *step, ctx context.Context, in <-chan any, out chan<- any) {
	var stepWG sync.WaitGroup
	for t := 0; t < s.nthreads; t++ {
		stepWG.Add(1)
		c.wg.Add(1)
		go func() {
			defer c.wg.Done()
			defer stepWG.Done()
			s.mu.Lock()
			userData := s.userData
			s.mu.Unlock()
			if err := s.fn(ctx, userData, in, out); err != nil {
				c.recordError(err)
			}
		}()
	}
	if out != nil {
		go func() {
			stepWG.Wait()
			close(out)
		}()
	}
}

func (c *Chain) recordError(err error) {
	c.errMu.Lock()
	defer c.errMu.Unlock()
	if c.firstErr == nil {
		c.firstErr = err
	}
}

// GentleStop cancels the chain's context, letting producers notice at
// their next check and return; downstream steps then drain naturally via
// the queue-close cascade (§4.E "Cancellation": "gentle_stop() ...
// letting each stage drain and exit normally").
func (c *Chain) GentleStop() {
	if c.cancel != nil {
		c.cancel()
	}
}

// Stop additionally invokes every registered cancellation handler, in
// registration order, to unblock workers stuck in blocking I/O, then
// gently stops the chain (§4.E "Cancellation").
func (c *Chain) Stop() {
	for _, fn := range c.cancels {
		fn()
	}
	c.GentleStop()
}

// Join blocks until every worker across every step has returned.
func (c *Chain) Join() error {
	c.wg.Wait()
	c.errMu.Lock()
	defer c.errMu.Unlock()
	return c.firstErr
}

// Finalize invokes every registered finalizer in reverse registration
// order, passing the chain itself (§4.E "Finalization"). Call after Join.
func (c *Chain) Finalize() {
	for i := len(c.finals) - 1; i >= 0; i-- {
		c.finals[i](c)
	}
}

// Dispose releases the chain's queues and per-step user-data (§3.5
// "Lifecycle: ... -> dispose").
func (c *Chain) Dispose() {
	for _, s := range c.steps {
		s.mu.Lock()
		s.userData = nil
		s.mu.Unlock()
	}
	c.queues = nil
}
