// boundary.go: the API boundary between user code and the framework.
//
// A failure leaving a transformed function is rewritten once, at the
// outermost boundary it crosses: its message gains the user frames of the
// traceback, its type stays the same. Boundaries nested inside another one
// pass failures through untouched.
//
// Returned errors and panics are both failures. Panics are recovered, rewritten
// and raised again from the boundary frame.
package xgxtrace

import (
	"runtime"
	"strings"

	"go.uber.org/zap"
)

// boundarySource is the file declaring the reraise entry point.
var boundarySource = func() string {
	_, file, _, _ := runtime.Caller(0)
	return file
}()

// DefaultFramework is the name shown in the traceback header.
const DefaultFramework = "XGX"

// Boundary rewrites failures crossing it. A Boundary is immutable once built
// and safe for concurrent use.
type Boundary struct {
	framework string
	header    string
	paths     PathSet
	registry  *Registry
	logger    *zap.Logger
	metrics   *boundaryMetrics
}

// New builds a Boundary for the framework tree with the given options.
func New(opts ...Option) *Boundary {
	b := &Boundary{
		framework: DefaultFramework,
		paths:     DefaultPathSet(),
		registry:  defaultRegistry,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.header = Header(b.framework)
	return b
}

var std = New()

// Default returns the package-wide Boundary built with no options.
func Default() *Boundary { return std }

// Call runs fn on the Default boundary.
func Call(fn func() error) error { return std.Call(fn) }

// Framework returns the name shown in the traceback header.
func (b *Boundary) Framework() string { return b.framework }

// Paths returns the PathSet deciding which frames are shown.
func (b *Boundary) Paths() PathSet { return b.paths }

// repanic carries a rewritten panic value out of the handler, so that it is
// raised after the original panic has been recovered and unwound. Raising it
// from the handler would make the runtime report the original alongside it.
type repanic struct {
	value any
	set   bool
}

// Call runs fn behind the boundary. On success it returns nil. A failure is
// either passed through as is (an enclosing boundary will handle it) or
// replaced by a failure of the same type whose message carries the user
// traceback. Panics leave Call as panics.
func (b *Boundary) Call(fn func() error) error {
	var rp repanic
	err := b.call(fn, &rp)
	if rp.set {
		panic(rp.value)
	}
	return err
}

// call is the reraise entry point; enclosing boundaries are found by looking
// for its frames. Keep it a named method with a single deferred handler.
func (b *Boundary) call(fn func() error, rp *repanic) (err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		stk := captureFull(0)
		self, nested := panicOwner(stk)
		if nested || b.decorated(r) {
			b.propagated(r)
			// Re-panicking here keeps this handler and the raise frames on the
			// stack for the enclosing boundary.
			panic(r)
		}
		var live Stack
		if self >= 0 {
			live = stk[self:]
		}
		tb := Traceback{Live: live, Raised: raisePoint(stk)}
		msg := b.message(r, tb)
		rp.value, rp.set = b.registry.rebuildValue(r, msg, tb.Frames()), true
	}()
	if err = fn(); err != nil {
		err = b.reraise(err)
	}
	return err
}

// reraise handles an error returned to the entry point.
func (b *Boundary) reraise(err error) error {
	live := captureFull(1)
	if underReraiser(live) || b.decorated(err) {
		b.propagated(err)
		return err
	}
	tb := Traceback{Live: live, Raised: StackOf(err)}
	msg := b.message(err, tb)
	return b.registry.rebuildError(err, msg, tb.Frames())
}

// decorated reports whether v already carries this boundary's traceback
// section. It covers failures rewritten by a boundary on another goroutine,
// which the stack of this one cannot show.
func (b *Boundary) decorated(v any) bool {
	err, ok := v.(error)
	return ok && strings.Contains(err.Error(), b.header)
}

func (b *Boundary) message(v any, tb Traceback) string {
	frames := withSource(b.paths.Filter(tb))
	label := TypeLabel(v)
	b.logger.Debug("boundary: composed user traceback",
		zap.String("framework", b.framework),
		zap.String("type", label),
		zap.Int("frames", len(frames)))
	b.metrics.observe(outcomeComposed, label)
	return ComposeMessage(b.framework, TextOf(v), frames)
}

func (b *Boundary) propagated(v any) {
	label := TypeLabel(v)
	b.logger.Debug("boundary: propagating nested failure",
		zap.String("framework", b.framework),
		zap.String("type", label))
	b.metrics.observe(outcomePropagated, label)
}
