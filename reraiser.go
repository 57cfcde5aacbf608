package xgxtrace

import "strings"

// entryName is the suffix of the reraise entry point's function name. Frames
// are matched on (file, function) pairs, never on PCs: every nesting level
// runs the same code.
const entryName = ".(*Boundary).call"

// isEntryFrame reports whether f is an activation of the reraise entry point.
func isEntryFrame(f Frame) bool {
	return f.File == boundarySource && strings.HasSuffix(f.Function, entryName)
}

// isHandlerFrame reports whether f is the deferred handler of an entry point.
func isHandlerFrame(f Frame) bool {
	return f.File == boundarySource && strings.Contains(f.Function, entryName+".func")
}

func isRuntimeFrame(f Frame) bool {
	return strings.HasPrefix(f.Function, "runtime.")
}

// underReraiser reports whether live, which starts at the executing entry
// frame, holds another entry frame further out.
func underReraiser(live Stack) bool {
	if len(live) == 0 {
		return false
	}
	for _, f := range live[1:] {
		if isEntryFrame(f) {
			return true
		}
	}
	return false
}

// panicOwner locates the entry frame owning the running handler in a stack
// captured while panicking, and reports whether an enclosing entry frame sits
// above it.
//
// Handlers of nested boundaries re-panic from inside themselves, so each one
// stays on the stack. With h handler frames visible, handlers belong to the h
// innermost entry frames and the running one owns the h-th.
func panicOwner(s Stack) (self int, nested bool) {
	handlers := 0
	for _, f := range s {
		if isHandlerFrame(f) {
			handlers++
		}
	}
	self = -1
	seen := 0
	for i, f := range s {
		if !isEntryFrame(f) {
			continue
		}
		seen++
		switch {
		case seen == handlers:
			self = i
		case seen > handlers:
			return self, true
		}
	}
	return self, false
}

// raisePoint drops the handler and runtime frames a recovered panic leaves on
// top of the stack, so that the result starts at the panicking call.
func raisePoint(s Stack) Stack {
	for i, f := range s {
		if !isHandlerFrame(f) && !isRuntimeFrame(f) {
			return s[i:]
		}
	}
	return nil
}
