package main

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net"
	"strings"

	"github.com/jive-vlbi/vlbid/internal/command"
	"github.com/jive-vlbi/vlbid/internal/session"
)

const noTransfer = session.NoTransfer

// cmdServe runs the "serve" verb: the VSI/S text-command server,
// blocking until the listener errors.
func cmdServe(cfg runtimeConfig, logger *slog.Logger, listenAddr string) error {
	srv := newServer(cfg, logger)
	return srv.ListenAndServe(listenAddr)
}

// server accepts text-protocol connections (§6.1) and runs one Session
// per connection. Every accepted connection shares the same Dispatcher
// (the keyword table is immutable after RegisterDefaultVerbs), mirroring
// the teacher's CommandContext/RunCLI split of "fixed command table,
// per-invocation state".
type server struct {
	cfg    runtimeConfig
	logger *slog.Logger
	disp   *command.Dispatcher
}

func newServer(cfg runtimeConfig, logger *slog.Logger) *server {
	disp := command.NewDispatcher()
	command.RegisterDefaultVerbs(disp)
	return &server{cfg: cfg, logger: logger, disp: disp}
}

// ListenAndServe blocks accepting connections on addr until the listener
// errors (e.g. the caller closes it from another goroutine, or the
// process receives a fatal socket error).
func (s *server) ListenAndServe(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	defer ln.Close()

	s.logger.Info("vlbid listening", "addr", addr)

	for {
		conn, err := ln.Accept()
		if err != nil {
			return fmt.Errorf("accept: %w", err)
		}
		go s.handleConn(conn)
	}
}

// handleConn runs one session's worth of commands end to end: every
// semicolon-terminated line read from conn is dispatched and the
// formatted reply (§6.1) is written back. The session's own transfer,
// if any, is torn down via Off when the connection drops, matching
// "'=off' or '=disconnect' runs the chain's cancel -> join -> finalize
// sequence" for a client that disappears mid-transfer.
func (s *server) handleConn(conn net.Conn) {
	remote := conn.RemoteAddr().String()
	logger := s.logger.With("remote", remote)
	logger.Info("connection accepted")
	defer func() {
		conn.Close()
		logger.Info("connection closed")
	}()

	rt := session.New(logger)
	ctx := context.Background()

	scanner := bufio.NewScanner(conn)
	scanner.Split(scanSemicolonTerminated)

	for scanner.Scan() {
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" {
			continue
		}
		reply := s.disp.Dispatch(ctx, raw+";", rt)
		if _, err := fmt.Fprintln(conn, reply); err != nil {
			logger.Warn("write reply failed", "error", err)
			break
		}
	}
	if err := scanner.Err(); err != nil {
		logger.Warn("connection read failed", "error", err)
	}

	if rt.Mode() != noTransfer {
		if err := rt.Off(); err != nil {
			logger.Warn("cleanup off failed", "error", err)
		}
	}
}

// scanSemicolonTerminated is a bufio.SplitFunc that yields one token per
// semicolon-terminated command, discarding the trailing ';' itself (it
// is re-added before dispatch so Parse's grammar stays the single
// authority on "what a command looks like").
func scanSemicolonTerminated(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexByte(data, ';'); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}
