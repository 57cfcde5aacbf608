// stack.go: stack capture for the boundary core.
//
// Design goals:
//   - Use runtime.Callers + runtime.CallersFrames for accurate frame resolution
//     (handles inlining correctly).
//   - Keep runtime order: a Stack lists the most recent call first. Only
//     rendering reverses it.
//   - Pay for source text late: Frame.Source stays empty until a frame is
//     about to be shown (see traceback.go).
//
// Skip model: skip=0 always means "the caller of the capture helper".
// Captures are never truncated.
package xgxtrace

import (
	"runtime"
	"strings"
)

// Frame is an immutable snapshot of one call site.
type Frame struct {
	PC       uintptr // program counter of the call
	File     string  // absolute file path (as provided by runtime)
	Line     int     // line number
	Function string  // fully-qualified function name (pkg.Func or method)
	Source   string  // trimmed source line; empty when not resolved or unreadable
}

// ShortFunction returns Function without the directory part of its import
// path, e.g. "xgxtrace.(*Boundary).Call".
func (f Frame) ShortFunction() string {
	if i := strings.LastIndexByte(f.Function, '/'); i >= 0 {
		return f.Function[i+1:]
	}
	return f.Function
}

// Stack is a slice of Frames from most recent call outward.
type Stack []Frame

// Outermost returns a copy of s ordered from the outermost call inward, the
// order in which tracebacks are displayed.
func (s Stack) Outermost() Stack {
	out := make(Stack, len(s))
	for i, f := range s {
		out[len(s)-1-i] = f
	}
	return out
}

// initialDepth is the first PC buffer size tried by captureFull.
const initialDepth = 64

// captureRaise records the stack of a raise point, starting at the caller of
// captureRaise after skipping 'skip' frames. No frame is dropped: a boundary
// splices the raise stack onto its own only when their outer frames line up
// (see Traceback.Frames).
func captureRaise(skip int) Stack {
	return captureFull(skip + 1)
}

// captureFull captures the whole stack of the calling goroutine, growing the
// PC buffer until it fits. Boundaries need every frame: an enclosing boundary
// hidden by a depth cap would be a missed nesting.
func captureFull(skip int) Stack {
	size := initialDepth
	for {
		pc := make([]uintptr, size)
		// +2: runtime.Callers and captureFull itself.
		n := runtime.Callers(skip+2, pc)
		if n == 0 {
			return nil
		}
		if n < size {
			return resolve(pc[:n])
		}
		size *= 2
	}
}

func resolve(pc []uintptr) Stack {
	frames := runtime.CallersFrames(pc)
	out := make(Stack, 0, len(pc))
	for {
		fr, more := frames.Next()
		out = append(out, Frame{
			PC:       fr.PC,
			File:     fr.File,
			Line:     fr.Line,
			Function: fr.Function,
		})
		if !more {
			break
		}
	}
	return out
}
