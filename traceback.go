package xgxtrace

import (
	"os"
	"strings"
)

// Traceback pairs the two stacks a boundary sees when a call fails.
//
// Live is the stack of the boundary's handler, starting at the boundary frame
// and running outward. Raised is the stack recorded where the failure
// originated, or nil when the failure carries none.
type Traceback struct {
	Live   Stack
	Raised Stack
}

// Frames returns the combined stack, most recent call first.
//
// A raise stack recorded on the boundary's own goroutine already holds every
// frame leading to the boundary, so it is returned as is. A raise stack from
// another goroutine is followed by the live stack, which puts the frames that
// led to the boundary first once the result is displayed outermost-first.
func (tb Traceback) Frames() Stack {
	switch {
	case len(tb.Raised) == 0:
		return tb.Live
	case len(tb.Live) == 0, sameOrigin(tb.Live, tb.Raised):
		return tb.Raised
	}
	out := make(Stack, 0, len(tb.Raised)+len(tb.Live))
	out = append(out, tb.Raised...)
	return append(out, tb.Live...)
}

// sameOrigin reports whether raised was recorded below live[0] on the
// goroutine that owns live: its outer frames match live[1:] call for call, and
// the frame right under them runs the same function as live[0].
func sameOrigin(live, raised Stack) bool {
	outer := live[1:]
	n := len(raised) - len(outer)
	if n < 1 {
		return false
	}
	for i, f := range outer {
		if raised[n+i].PC != f.PC {
			return false
		}
	}
	return raised[n-1].Function == live[0].Function
}

// Filter returns the frames of tb that ps includes, outermost first.
// The result may be empty.
func (ps PathSet) Filter(tb Traceback) Stack {
	all := tb.Frames()
	out := make(Stack, 0, len(all))
	for i := len(all) - 1; i >= 0; i-- {
		if ps.Include(all[i]) {
			out = append(out, all[i])
		}
	}
	return out
}

// withSource returns a copy of s with Source filled from the files on disk.
// Files are read once per call; unreadable files leave Source empty.
func withSource(s Stack) Stack {
	files := make(map[string][]string)
	out := make(Stack, len(s))
	for i, f := range s {
		lines, ok := files[f.File]
		if !ok {
			lines = readLines(f.File)
			files[f.File] = lines
		}
		if f.Line >= 1 && f.Line <= len(lines) {
			f.Source = strings.TrimSpace(lines[f.Line-1])
		}
		out[i] = f
	}
	return out
}

func readLines(file string) []string {
	if file == "" {
		return nil
	}
	data, err := os.ReadFile(file)
	if err != nil {
		// Sources are optional: trimmed builds and deployed binaries have none.
		return nil
	}
	return strings.Split(string(data), "\n")
}
