// format.go: fmt.Formatter implementations.
//
// Behavior:
//
//	%s, %v   → Error().
//	%q       → quoted Error().
//	%+v      → verbose, multi-line:
//	             kind=<kind> msg="<message>"
//	             ctx: key1=val1 key2=val2 ...
//	             cause: <recursively formatted with %+v>
//	             stack:
//	               funcA file.go:123
package xgxtrace

import (
	"fmt"
	"io"
)

func formatVerbose(w io.Writer, label, msg string, ctx fields, cause error, stk Stack) {
	_, _ = fmt.Fprintf(w, "kind=%s msg=%q", label, msg)

	if len(ctx) > 0 {
		_, _ = io.WriteString(w, "\nctx:")
		for _, f := range ctx {
			if f.Key != "" {
				_, _ = fmt.Fprintf(w, " %s=%v", f.Key, f.Val)
			}
		}
	}

	if cause != nil {
		_, _ = io.WriteString(w, "\ncause: ")
		_, _ = fmt.Fprintf(w, "%+v", cause)
	}

	if len(stk) > 0 {
		_, _ = io.WriteString(w, "\nstack:")
		for _, fr := range stk {
			_, _ = fmt.Fprintf(w, "\n  %s %s:%d", fr.Function, fr.File, fr.Line)
		}
	}
}

func formatError(s fmt.State, verb rune, e error, verbose func(io.Writer)) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			verbose(s)
			return
		}
		_, _ = io.WriteString(s, e.Error())
	case 'q':
		_, _ = fmt.Fprintf(s, "%q", e.Error())
	default:
		_, _ = io.WriteString(s, e.Error())
	}
}

func (e *kindErr) Format(s fmt.State, verb rune) {
	formatError(s, verb, e, func(w io.Writer) {
		formatVerbose(w, string(e.kind), e.msg, e.ctx, e.cause, e.stk)
	})
}

// BoundaryError prints the wrapped value as its cause only when it is an
// error; other panic values are already rendered in the message.
func (e *BoundaryError) Format(s fmt.State, verb rune) {
	formatError(s, verb, e, func(w io.Writer) {
		formatVerbose(w, e.typeName, e.msg, nil, e.Unwrap(), e.stk)
	})
}
