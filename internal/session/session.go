// Package session implements the per-connection runtime/session state of
// spec.md §4.F: the current transfer mode and sub-mode flags, the
// (current_mode, requested_mode) gating state machine, the live
// processing chain, network parameters, frame-format descriptors,
// statistics counters and scan-directory metadata.
package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/jive-vlbi/vlbid/internal/chain"
	"github.com/jive-vlbi/vlbid/internal/frameformat"
	"github.com/jive-vlbi/vlbid/internal/netparms"
	"github.com/jive-vlbi/vlbid/internal/vlbierr"
)

// Session holds everything one text-protocol connection needs across the
// lifetime of zero or more transfers. §5 calls for "a reentrant mutex"
// guarding the runtime object; Go's sync.Mutex is not reentrant, and this
// package is structured so no method ever re-enters its own lock (status
// queries and command handlers each take it exactly once), which is the
// documented substitute — see DESIGN.md.
type Session struct {
	mu     sync.Mutex
	logger *slog.Logger

	mode Mode
	sub  SubMode

	chain *chain.Chain

	net netparms.Params

	inputFormat  frameformat.Descriptor
	outputFormat frameformat.Descriptor

	stats Stats
	scan  ScanMeta
}

// New returns a session in NoTransfer with default network parameters. A
// nil logger falls back to slog.Default().
func New(logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		logger: logger.With("component", "session"),
		net:    netparms.Default(),
	}
}

// Mode reports the current transfer mode.
func (s *Session) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// SubMode reports the current sub-mode flags.
func (s *Session) SubMode() SubMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sub
}

// allowed reports whether a command requesting mode may proceed given the
// session's current mode (§4.F: "permitted only when current == no_transfer
// or current == requested"). Caller must hold mu.
func (s *Session) allowed(requested Mode) bool {
	return s.mode == NoTransfer || s.mode == requested
}

// Start begins a transfer: it validates the (current, requested) gate,
// adopts c as the session's live chain, and sets the Wait sub-mode flag —
// the transfer is requested but not yet running until On is called
// (§4.F: "starting a transfer transitions to the new mode and sets wait").
func (s *Session) Start(requested Mode, c *chain.Chain) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.allowed(requested) {
		return vlbierr.New(vlbierr.KindConcurrency, "Session.Start", vlbierr.ErrWrongState)
	}
	s.mode = requested
	s.sub = SubMode{Connected: true, Wait: true}
	s.chain = c
	s.logger.Info("transfer requested", "mode", requested.String())
	return nil
}

// On runs the session's chain and clears Wait in favour of Run (§4.F:
// "'=on' clears wait and sets run").
func (s *Session) On(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode == NoTransfer || s.chain == nil {
		return vlbierr.New(vlbierr.KindConcurrency, "Session.On", vlbierr.ErrWrongState)
	}
	if err := s.chain.Run(ctx); err != nil {
		return err
	}
	s.sub.Wait = false
	s.sub.Run = true
	s.logger.Info("transfer started", "mode", s.mode.String())
	return nil
}

// Pause clears Run and sets Pause without touching the chain's lifecycle
// — the worker functions themselves are expected to observe the flag via
// Communicate and throttle or hold their own state (§4.F sub-mode flags).
func (s *Session) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.sub.Run {
		return vlbierr.New(vlbierr.KindConcurrency, "Session.Pause", vlbierr.ErrWrongState)
	}
	s.sub.Run = false
	s.sub.Pause = true
	return nil
}

// Resume is the inverse of Pause.
func (s *Session) Resume() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.sub.Pause {
		return vlbierr.New(vlbierr.KindConcurrency, "Session.Resume", vlbierr.ErrWrongState)
	}
	s.sub.Pause = false
	s.sub.Run = true
	return nil
}

// Off runs the chain's cancel -> join -> finalize -> dispose sequence and
// returns the session to NoTransfer (§4.F: "'=off' or '=disconnect' runs
// the chain's cancel -> join -> finalize sequence and transitions back to
// no_transfer"). Idempotent: calling it with no active chain is a no-op.
func (s *Session) Off() error {
	s.mu.Lock()
	c := s.chain
	s.mu.Unlock()

	var joinErr error
	if c != nil {
		c.Stop()
		joinErr = c.Join()
		c.Finalize()
		c.Dispose()
		if joinErr != nil {
			s.stats.Errors.Add(1)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = NoTransfer
	s.sub = SubMode{}
	s.chain = nil
	s.logger.Info("transfer stopped")
	return joinErr
}

// Chain returns the session's live chain, or nil if NoTransfer.
func (s *Session) Chain() *chain.Chain {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chain
}

// NetParms returns the session's current network parameters.
func (s *Session) NetParms() netparms.Params {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.net
}

// SetNetParms replaces the session's network parameters; rejected once a
// transfer has moved past Wait, matching command-protocol parameters
// being fixed for the duration of an active transfer.
func (s *Session) SetNetParms(p netparms.Params) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sub.Run || s.sub.Pause {
		return vlbierr.New(vlbierr.KindConcurrency, "Session.SetNetParms", vlbierr.ErrWrongState)
	}
	s.net = p
	return nil
}

// InputFormat and OutputFormat report the session's current frame-format
// descriptors (§4.F).
func (s *Session) InputFormat() frameformat.Descriptor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inputFormat
}

func (s *Session) OutputFormat() frameformat.Descriptor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.outputFormat
}

func (s *Session) SetInputFormat(d frameformat.Descriptor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inputFormat = d
}

func (s *Session) SetOutputFormat(d frameformat.Descriptor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outputFormat = d
}

// Stats returns the session's statistics counters. The returned pointer
// is shared and safe for concurrent use from worker goroutines: Stats'
// fields are atomics (§5: "statistics counters are atomic integers").
func (s *Session) Stats() *Stats {
	return &s.stats
}

// ScanMeta returns the current scan-directory metadata.
func (s *Session) ScanMeta() ScanMeta {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scan
}

func (s *Session) SetScanMeta(m ScanMeta) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scan = m
}

// Logger returns the session's component-scoped logger.
func (s *Session) Logger() *slog.Logger {
	return s.logger
}
