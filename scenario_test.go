package xgxtrace_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/sync/errgroup"

	xgxtrace "github.com/xgx-io/xgx-trace"
	"github.com/xgx-io/xgx-trace/testutil"
)

// Test files live under the framework root, so this one is allowed through
// explicitly.
var testPaths = xgxtrace.NewPathSet(xgxtrace.DefaultRoot(), "scenario_test.go", "testutil")

func newBoundary(opts ...xgxtrace.Option) *xgxtrace.Boundary {
	return xgxtrace.New(append([]xgxtrace.Option{xgxtrace.WithPathSet(testPaths)}, opts...)...)
}

func outer(b *xgxtrace.Boundary, leaf func() error) error {
	return b.Call(func() error {
		return mid(b, leaf)
	})
}

func mid(b *xgxtrace.Boundary, leaf func() error) error {
	return b.Call(func() error {
		return inner(b, leaf)
	})
}

func inner(b *xgxtrace.Boundary, leaf func() error) error {
	return b.Call(leaf)
}

func catch(fn func()) (r any) {
	defer func() { r = recover() }()
	fn()
	return nil
}

func TestCall_Success(t *testing.T) {
	b := newBoundary()
	require.NoError(t, outer(b, func() error { return nil }))
	require.NoError(t, xgxtrace.Call(func() error { return nil }))
}

func TestNested_ErrorPath(t *testing.T) {
	b := newBoundary()
	err := outer(b, func() error {
		return xgxtrace.ValueErrorf("bad rank %d", 3)
	})

	entries := testutil.RequireTraceback(t, err, xgxtrace.DefaultFramework, "ValueError",
		"return mid(b, leaf)",
		"return inner(b, leaf)",
		`return xgxtrace.ValueErrorf("bad rank %d", 3)`)
	for _, e := range entries {
		assert.NotContains(t, e.File, "/boundary.go")
		assert.NotContains(t, e.File, "/construct.go")
	}
	assert.True(t, strings.HasPrefix(err.Error(), "ValueError: bad rank 3\n\nTraceback modulo XGX:\n"), err.Error())
	assert.True(t, strings.HasSuffix(err.Error(), "\nValueError: bad rank 3\n"), err.Error())
	assert.Equal(t, xgxtrace.KindValue, xgxtrace.KindOf(err))
}

func TestNested_PanicPath(t *testing.T) {
	b := newBoundary()
	r := catch(func() {
		_ = outer(b, func() error {
			xgxtrace.Assert(false, "rank %d", 2)
			return nil
		})
	})

	err, ok := r.(error)
	require.True(t, ok, "panic value %T", r)
	testutil.RequireTraceback(t, err, xgxtrace.DefaultFramework, "AssertionError",
		"return mid(b, leaf)",
		"return inner(b, leaf)",
		`xgxtrace.Assert(false, "rank %d", 2)`)
	assert.Equal(t, xgxtrace.KindAssertion, xgxtrace.KindOf(err))
}

func TestStringPanic(t *testing.T) {
	b := newBoundary()
	r := catch(func() {
		_ = outer(b, func() error { panic("index out of range") })
	})

	msg, ok := r.(string)
	require.True(t, ok, "panic value %T", r)
	assert.Equal(t, 1, testutil.HeaderCount(msg, xgxtrace.DefaultFramework))
	_, label, ok := testutil.Traceback(msg, xgxtrace.DefaultFramework)
	require.True(t, ok)
	assert.Equal(t, "string", label)
	assert.True(t, strings.HasPrefix(msg, "index out of range\n\n"), msg)
}

func TestNonErrorPanic_BecomesBoundaryError(t *testing.T) {
	b := newBoundary()
	r := catch(func() {
		_ = b.Call(func() error { panic(42) })
	})

	be, ok := r.(*xgxtrace.BoundaryError)
	require.True(t, ok, "panic value %T", r)
	assert.Equal(t, 42, be.Value())
	assert.Equal(t, "int", be.TypeName())
	testutil.RequireTraceback(t, be, xgxtrace.DefaultFramework, "int", "panic(42)")
}

func TestDepth_OneSectionAtAnyNesting(t *testing.T) {
	b := newBoundary()
	for n := 1; n <= 6; n++ {
		err := testutil.Nested(b, n, func() error {
			return xgxtrace.ValueErrorf("bad")
		})
		entries := testutil.RequireTraceback(t, err, xgxtrace.DefaultFramework, "ValueError", "xgxtrace.ValueErrorf(")
		assert.True(t, strings.HasPrefix(err.Error(), "ValueError: bad\n\n"), "depth %d", n)

		levels := 0
		for _, e := range entries {
			if strings.Contains(e.Source, "return Nested(b, n-1, leaf)") {
				levels++
			}
		}
		assert.Equal(t, n, levels, "depth %d", n)
	}
}

func TestDepth_OneSectionAtAnyNesting_Panic(t *testing.T) {
	b := newBoundary()
	for n := 1; n <= 6; n++ {
		r := catch(func() {
			_ = testutil.Nested(b, n, func() error {
				xgxtrace.Assert(false, "bad")
				return nil
			})
		})
		err, ok := r.(error)
		require.True(t, ok, "depth %d: panic value %T", n, r)

		entries := testutil.RequireTraceback(t, err, xgxtrace.DefaultFramework, "AssertionError", `xgxtrace.Assert(false, "bad")`)
		assert.True(t, strings.HasPrefix(err.Error(), "AssertionError: bad\n\n"), "depth %d", n)

		levels := 0
		for _, e := range entries {
			if strings.Contains(e.Source, "return Nested(b, n-1, leaf)") {
				levels++
			}
		}
		assert.Equal(t, n, levels, "depth %d", n)
	}
}

func recurse(n int) error {
	if n == 0 {
		return xgxtrace.ValueErrorf("too deep")
	}
	return recurse(n - 1)
}

func TestDeepRaise_KeepsEveryFrame(t *testing.T) {
	const depth = 300
	b := newBoundary()
	err := b.Call(func() error { return recurse(depth) })

	entries := testutil.RequireTraceback(t, err, xgxtrace.DefaultFramework, "ValueError",
		"return recurse(depth)",
		"return recurse(n - 1)",
		`return xgxtrace.ValueErrorf("too deep")`)
	levels := 0
	for _, e := range entries {
		if strings.Contains(e.Source, "return recurse(n - 1)") {
			levels++
		}
	}
	assert.Equal(t, depth, levels)
}

type rankError struct{ msg string }

func (e *rankError) Error() string { return e.msg }

type foreignError struct{ op string }

func (e *foreignError) Error() string { return e.op + " failed" }

func TestTypePreservation(t *testing.T) {
	reg := xgxtrace.NewRegistry()
	xgxtrace.Register(reg, func(msg string) *rankError { return &rankError{msg: msg} })
	b := newBoundary(xgxtrace.WithRegistry(reg))

	t.Run("Registered", func(t *testing.T) {
		err := outer(b, func() error {
			return xgxtrace.WithStack(&rankError{msg: "rank 3 != 2"})
		})
		var re *rankError
		require.ErrorAs(t, err, &re)
		assert.True(t, strings.HasPrefix(re.msg, "rank 3 != 2\n\nTraceback modulo XGX:\n"), re.msg)
		testutil.RequireTraceback(t, err, xgxtrace.DefaultFramework, "*xgxtrace_test.rankError",
			"return mid(b, leaf)", "xgxtrace.WithStack(&rankError")
	})

	t.Run("Fallback", func(t *testing.T) {
		orig := &foreignError{op: "read"}
		err := outer(b, func() error { return orig })
		var fe *foreignError
		require.ErrorAs(t, err, &fe)
		assert.Same(t, orig, fe)
		assert.ErrorIs(t, err, orig)
		be, ok := xgxtrace.AsBoundaryError(err)
		require.True(t, ok)
		assert.Equal(t, "*xgxtrace_test.foreignError", be.TypeName())
		// Without a recorded raise point the traceback ends at the boundary.
		testutil.RequireTraceback(t, err, xgxtrace.DefaultFramework, "*xgxtrace_test.foreignError",
			"err := outer(b, func() error { return orig })")
	})

	t.Run("ErrorsNew", func(t *testing.T) {
		sentinel := errors.New("plain")
		err := outer(b, func() error { return sentinel })
		assert.Equal(t, "*errors.errorString", fmt.Sprintf("%T", err))
		assert.NotErrorIs(t, err, sentinel)
		assert.True(t, xgxtrace.IsDecorated(err, xgxtrace.DefaultFramework))
	})
}

func TestEmptyFilter_KeepsDetailOnly(t *testing.T) {
	b := xgxtrace.New(xgxtrace.WithPathSet(xgxtrace.NewPathSet("/")))
	err := outer(b, func() error { return xgxtrace.ValueErrorf("bad") })
	require.Error(t, err)
	assert.Equal(t, "ValueError: bad\n", err.Error())
	assert.Zero(t, testutil.HeaderCount(err.Error(), xgxtrace.DefaultFramework))
}

func TestCustomFramework(t *testing.T) {
	b := newBoundary(xgxtrace.WithFramework("Toy"))
	assert.Equal(t, "Toy", b.Framework())
	err := outer(b, func() error { return xgxtrace.TypeErrorf("f32 != i32") })
	testutil.RequireTraceback(t, err, "Toy", "TypeError", "xgxtrace.TypeErrorf(")
	assert.False(t, xgxtrace.IsDecorated(err, xgxtrace.DefaultFramework))
}

func TestCrossGoroutine_DecoratedOnce(t *testing.T) {
	b := newBoundary()
	err := b.Call(func() error {
		var g errgroup.Group
		for i := range 4 {
			g.Go(func() error {
				return b.Call(func() error {
					if i == 2 {
						return xgxtrace.IndexErrorf("axis %d", i)
					}
					return nil
				})
			})
		}
		return g.Wait()
	})

	testutil.RequireTraceback(t, err, xgxtrace.DefaultFramework, "IndexError",
		`return xgxtrace.IndexErrorf("axis %d", i)`)
	assert.Equal(t, xgxtrace.KindIndex, xgxtrace.KindOf(err))
}

func TestFunc_Wrap(t *testing.T) {
	b := newBoundary()
	square := xgxtrace.Wrap(b, func(x int) (int, error) {
		if x < 0 {
			return 0, xgxtrace.ValueErrorf("negative input %d", x)
		}
		return x * x, nil
	})
	assert.Contains(t, square.Name(), "TestFunc_Wrap")

	got, err := square.Fn()(4)
	require.NoError(t, err)
	assert.Equal(t, 16, got)

	_, err = square.Call(-1)
	testutil.RequireTraceback(t, err, xgxtrace.DefaultFramework, "ValueError",
		"_, err = square.Call(-1)", "negative input")

	named := xgxtrace.WrapNamed(nil, "loss", func(string) (float64, error) { return 1, nil })
	assert.Equal(t, "loss", named.Name())
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	b := newBoundary(xgxtrace.WithMetrics(reg))
	// A second boundary on the same registerer shares the counter.
	b2 := newBoundary(xgxtrace.WithMetrics(reg))

	_ = outer(b, func() error { return xgxtrace.ValueErrorf("x") })
	_ = b2.Call(func() error { return xgxtrace.ValueErrorf("y") })

	const want = `
# HELP xgx_boundary_failures_total Failures that crossed an API boundary, by outcome and type.
# TYPE xgx_boundary_failures_total counter
xgx_boundary_failures_total{outcome="composed",type="ValueError"} 2
xgx_boundary_failures_total{outcome="propagated",type="ValueError"} 2
`
	require.NoError(t, promtestutil.GatherAndCompare(reg, strings.NewReader(want), "xgx_boundary_failures_total"))
}

func TestLogging(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	b := newBoundary(xgxtrace.WithLogger(zap.New(core)))

	_ = outer(b, func() error { return xgxtrace.ValueErrorf("x") })

	composed := logs.FilterMessage("boundary: composed user traceback").All()
	require.Len(t, composed, 1)
	assert.Equal(t, "ValueError", composed[0].ContextMap()["type"])
	assert.Equal(t, "XGX", composed[0].ContextMap()["framework"])
	assert.Equal(t, 2, logs.FilterMessage("boundary: propagating nested failure").Len())
}

func TestScenario_OuterMidInner(t *testing.T) {
	b := newBoundary()
	inner := xgxtrace.WrapNamed(b, "inner", func(int) (int, error) {
		return 0, xgxtrace.Assertf("x")
	})
	mid := xgxtrace.WrapNamed(b, "mid", func(x int) (int, error) { return inner.Call(x) })
	outer := xgxtrace.WrapNamed(b, "outer", func(x int) (int, error) { return mid.Call(x) })

	_, err := outer.Call(1)
	testutil.RequireTraceback(t, err, xgxtrace.DefaultFramework, "AssertionError",
		"_, err := outer.Call(1)",
		"return mid.Call(x)",
		"return inner.Call(x)",
		`return 0, xgxtrace.Assertf("x")`)
	assert.True(t, strings.HasSuffix(err.Error(), "\nAssertionError: x\n"), err.Error())
	assert.Equal(t, xgxtrace.KindAssertion, xgxtrace.KindOf(err))
}
