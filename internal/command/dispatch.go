package command

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/jive-vlbi/vlbid/internal/session"
	"github.com/jive-vlbi/vlbid/internal/vlbierr"
)

// ErrAsync signals that a handler started work that will complete later;
// Dispatch reports this as reply code 1 ("running async") rather than 0.
var ErrAsync = errors.New("operation running asynchronously")

// HandlerFunc is the per-keyword dispatch entry (§6.1: "a dispatch entry
// taking (is_query, args, runtime&) -> string"). It returns the reply
// data (everything after the code in the formatted reply) and an error;
// wrap the returned error in ErrAsync to report reply code 1 instead of 0.
type HandlerFunc func(ctx context.Context, isQuery bool, args []string, rt *session.Session) (string, error)

type entry struct {
	fn              HandlerFunc
	minArgs         int
	supportsCommand bool
	supportsQuery   bool
}

// Dispatcher is the keyword -> handler table (§6.1).
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[string]entry
}

// NewDispatcher returns an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: make(map[string]entry)}
}

// Register binds keyword to fn. supportsCommand/supportsQuery gate
// whether `keyword = ...` / `keyword? ...` forms are accepted; minArgs is
// the minimum argument count required before fn is even called.
func (d *Dispatcher) Register(keyword string, supportsCommand, supportsQuery bool, minArgs int, fn HandlerFunc) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[strings.ToLower(keyword)] = entry{fn: fn, minArgs: minArgs, supportsCommand: supportsCommand, supportsQuery: supportsQuery}
}

// Dispatch parses raw, routes it to the registered handler and formats
// the reply string per §6.1, never returning a Go error itself — every
// failure mode is represented in the formatted reply's code, matching
// "the command-handler wraps each dispatch in a catch-all".
func (d *Dispatcher) Dispatch(ctx context.Context, raw string, rt *session.Session) string {
	cmd, err := Parse(raw)
	if err != nil {
		return formatReply("?", vlbierr.ReplySyntax, err.Error())
	}

	d.mu.RLock()
	e, ok := d.handlers[cmd.Keyword]
	d.mu.RUnlock()
	if !ok {
		return formatReply(cmd.Keyword, vlbierr.ReplyNotImpl)
	}

	if cmd.IsQuery && !e.supportsQuery {
		return formatReply(cmd.Keyword, vlbierr.ReplyInapprop)
	}
	if !cmd.IsQuery && !e.supportsCommand {
		return formatReply(cmd.Keyword, vlbierr.ReplyInapprop)
	}
	if len(cmd.Args) < e.minArgs {
		return formatReply(cmd.Keyword, vlbierr.ReplyMissingArgs)
	}

	data, err := e.fn(ctx, cmd.IsQuery, cmd.Args, rt)
	if err != nil {
		if errors.Is(err, ErrAsync) {
			return formatReply(cmd.Keyword, vlbierr.ReplyAsync, data)
		}
		return formatReply(cmd.Keyword, vlbierr.Of(err).ReplyCode(), err.Error())
	}
	return formatReply(cmd.Keyword, vlbierr.ReplyOK, data)
}

// formatReply renders "!keyword = code : data... ;" (§6.1). Empty data
// fields are dropped so a bare-success reply is "!keyword = 0 ;".
func formatReply(keyword string, code vlbierr.ReplyCode, data ...string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "!%s = %d", keyword, code)
	for _, d := range data {
		if d == "" {
			continue
		}
		b.WriteString(" : ")
		b.WriteString(d)
	}
	b.WriteString(" ;")
	return b.String()
}
