// Package script runs line-oriented cache commands against a string cache.
//
// One command per line:
//
//	set <key> <value...>
//	get <key>
//	remove <key>
//	clear
//	keys
//	len
//	valid <token>
//	stats
//
// Blank lines and lines starting with # are skipped.
package script

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gofifo/internal/cache"
)

// Absent is printed by get for a missing key.
const Absent = "(absent)"

// SyntaxError reports a malformed script line.
type SyntaxError struct {
	Line int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

// arity is the minimum and maximum argument count per command; -1 is unbounded.
var arity = map[string][2]int{
	"set":    {2, -1},
	"get":    {1, 1},
	"remove": {1, 1},
	"clear":  {0, 0},
	"keys":   {0, 0},
	"len":    {0, 0},
	"valid":  {1, 1},
	"stats":  {0, 0},
}

// Run executes every command in r against c and writes results to w.
//
// It stops at the first malformed line or when ctx is done.
func Run(ctx context.Context, c *cache.Cache[string, string], r io.Reader, w io.Writer) error {
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		if err := ctx.Err(); err != nil {
			return err
		}

		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		fields := strings.Fields(text)
		cmd, args := fields[0], fields[1:]
		bounds, ok := arity[cmd]
		if !ok {
			return &SyntaxError{Line: line, Msg: fmt.Sprintf("unknown command %q", cmd)}
		}
		if len(args) < bounds[0] || (bounds[1] >= 0 && len(args) > bounds[1]) {
			return &SyntaxError{Line: line, Msg: fmt.Sprintf("%s: wrong number of arguments (%d)", cmd, len(args))}
		}

		if err := exec(c, cmd, args, w); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("reading script: %w", err)
	}
	return nil
}

func exec(c *cache.Cache[string, string], cmd string, args []string, w io.Writer) error {
	var err error
	switch cmd {
	case "set":
		c.Set(args[0], strings.Join(args[1:], " "))
	case "get":
		if v, ok := c.Get(args[0]); ok {
			_, err = fmt.Fprintln(w, v)
		} else {
			_, err = fmt.Fprintln(w, Absent)
		}
	case "remove":
		c.Remove(args[0])
	case "clear":
		c.Clear()
	case "keys":
		_, err = fmt.Fprintln(w, strings.Join(c.Keys(), " "))
	case "len":
		_, err = fmt.Fprintln(w, c.Len())
	case "valid":
		_, err = fmt.Fprintln(w, c.IsValidKey(ParseToken(args[0])))
	case "stats":
		s := c.Stats()
		_, err = fmt.Fprintf(w, "hits=%d misses=%d evictions=%d\n", s.Hits, s.Misses, s.Evictions)
	}
	return err
}

// ParseToken turns a script token into a Go value for key validation.
//
// Integers become int64, other numbers float64, null/nil become nil, [] and
// {} become an empty slice and map, double-quoted text is unquoted and
// anything else is kept as a string.
func ParseToken(tok string) any {
	switch tok {
	case "null", "nil", "undefined":
		return nil
	case "[]":
		return []any{}
	case "{}":
		return map[string]any{}
	}
	if i, err := strconv.ParseInt(tok, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(tok, 64); err == nil {
		return f
	}
	if s, err := strconv.Unquote(tok); err == nil {
		return s
	}
	return tok
}
