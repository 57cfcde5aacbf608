// Package xgxtrace is the error boundary of the xgx numerical framework. When a
// function transformed by the framework fails, the failure surfaces with a
// traceback that shows user code only:
//
//	AssertionError: x
//
//	Traceback modulo XGX:
//	  File "/home/me/model/train.go", line 31, in main.main
//	    loss, err := step.Call(batch)
//	  File "/home/me/model/train.go", line 18, in main.lossFn
//	    xgxtrace.Assert(len(b) > 0, "x")
//	AssertionError: x
//
// # Boundaries
//
// Wrap a function, or run a closure with Boundary.Call:
//
//	b := xgxtrace.New(xgxtrace.WithLogger(logger))
//	step := xgxtrace.Wrap(b, lossFn)
//	loss, err := step.Call(batch)
//
// Returned errors and panics are both handled. Only the outermost boundary a
// failure crosses rewrites it; nested boundaries pass it through, so the
// traceback section appears once however deep transformations nest.
//
// # Which frames are shown
//
// A PathSet names the framework root. Frames under it are hidden, except
// under the include subpaths (config, experimental, testutil by default).
// Matching is by string prefix.
//
// # Where failures were raised
//
// Panics are recovered with their stack intact. Returned errors only know
// where they were raised if they recorded it: errors built by NewError,
// Errorf and the kind constructors do, and WithStack records it on any other
// error.
// Without a recorded stack the traceback ends at the boundary.
//
// # Types are preserved
//
// The rewritten failure has the type of the original, rebuilt with the new
// message by, in order: its Reconstruct method, a constructor registered with
// Register, or (for string panics) the string itself. Anything else becomes a
// *BoundaryError that unwraps to the original, so errors.Is and errors.As keep
// working.
package xgxtrace
