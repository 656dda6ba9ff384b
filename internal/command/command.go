// Package command implements the §6.1 text command protocol consumed
// from the front-end: `keyword = arg1 : arg2 : ...;` (command) or
// `keyword? arg1 : ...;` (query), replying `!keyword = code : data : ...;`.
package command

import (
	"strings"

	"github.com/jive-vlbi/vlbid/internal/vlbierr"
)

// Command is one parsed request.
type Command struct {
	Keyword string
	IsQuery bool
	Args    []string
}

// Parse validates and decomposes a single semicolon-terminated command
// string. The grammar is small enough that, unlike the teacher's
// rune-by-rune Lexer (built for a full programming language), a
// strings.Cut-based scan is the idiomatic fit — see DESIGN.md.
func Parse(raw string) (Command, error) {
	s := strings.TrimSpace(raw)
	if s == "" || !strings.HasSuffix(s, ";") {
		return Command{}, vlbierr.New(vlbierr.KindSyntax, "command.Parse", vlbierr.ErrInvalidFormatString)
	}
	s = strings.TrimSpace(strings.TrimSuffix(s, ";"))

	idx := strings.IndexAny(s, "=?")
	if idx < 0 {
		return Command{}, vlbierr.New(vlbierr.KindSyntax, "command.Parse", vlbierr.ErrInvalidFormatString)
	}

	keyword := strings.TrimSpace(s[:idx])
	if !isValidKeyword(keyword) {
		return Command{}, vlbierr.New(vlbierr.KindSyntax, "command.Parse", vlbierr.ErrInvalidFormatString)
	}

	isQuery := s[idx] == '?'
	rest := strings.TrimSpace(s[idx+1:])

	var args []string
	if rest != "" {
		for _, part := range strings.Split(rest, ":") {
			args = append(args, strings.TrimSpace(part))
		}
	}

	return Command{Keyword: strings.ToLower(keyword), IsQuery: isQuery, Args: args}, nil
}

func isValidKeyword(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
