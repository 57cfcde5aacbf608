// Package testutil holds helpers for testing code that runs behind xgx
// boundaries. Its frames are shown in user tracebacks by default.
package testutil

import (
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	xgxtrace "github.com/xgx-io/xgx-trace"
)

// Entry is one frame parsed back from a rendered traceback.
type Entry struct {
	File     string
	Line     int
	Function string
	Source   string
}

var entryRe = regexp.MustCompile(`^  File "(.*)", line (\d+), in (.*)$`)

// Traceback parses the traceback section of the named framework out of msg.
// It returns the entries, outermost first, and the label of the closing
// "<label>: <detail>" line. ok is false when msg has no such section.
func Traceback(msg, framework string) (entries []Entry, label string, ok bool) {
	header := xgxtrace.Header(framework)
	_, rest, found := strings.Cut(msg, header+"\n")
	if !found {
		return nil, "", false
	}
	for _, line := range strings.Split(rest, "\n") {
		if m := entryRe.FindStringSubmatch(line); m != nil {
			n, _ := strconv.Atoi(m[2])
			entries = append(entries, Entry{File: m[1], Line: n, Function: m[3]})
			continue
		}
		if strings.HasPrefix(line, "    ") && len(entries) > 0 && entries[len(entries)-1].Source == "" {
			entries[len(entries)-1].Source = strings.TrimSpace(line)
			continue
		}
		label, _ = xgxtrace.SplitText(line)
		break
	}
	return entries, label, true
}

// HeaderCount returns how many traceback sections of framework msg holds.
func HeaderCount(msg, framework string) int {
	return strings.Count(msg, xgxtrace.Header(framework))
}

// RequireTraceback asserts that err carries exactly one traceback section of
// framework, closed by label, whose sources contain each fragment in order.
func RequireTraceback(t testing.TB, err error, framework, label string, fragments ...string) []Entry {
	t.Helper()
	require.Error(t, err)
	msg := err.Error()
	require.Equal(t, 1, HeaderCount(msg, framework), "traceback sections in:\n%s", msg)

	entries, got, ok := Traceback(msg, framework)
	require.True(t, ok)
	require.Equal(t, label, got, "closing label in:\n%s", msg)

	next := 0
	for _, e := range entries {
		if next < len(fragments) && strings.Contains(e.Source, fragments[next]) {
			next++
		}
	}
	if next < len(fragments) {
		require.FailNowf(t, "traceback mismatch", "missing %q (in order) in:\n%s", fragments[next], msg)
	}
	return entries
}

// Nested runs leaf behind n levels of b.
func Nested(b *xgxtrace.Boundary, n int, leaf func() error) error {
	if n == 0 {
		return leaf()
	}
	return b.Call(func() error {
		return Nested(b, n-1, leaf)
	})
}
