// wrap.go: raise-time stacks for errors the framework did not create.
//
// A boundary can only show where an error was raised if the error recorded it.
// Framework kinds always do; WithStack lets any other error record it too.
package xgxtrace

// stackedErr attaches a stack to a foreign error without changing what it
// says: Error, TypeName and Message all defer to the wrapped error.
type stackedErr struct {
	err error
	stk Stack
}

func (e *stackedErr) Error() string    { return e.err.Error() }
func (e *stackedErr) Unwrap() error    { return e.err }
func (e *stackedErr) Stack() Stack     { return e.stk }
func (e *stackedErr) TypeName() string { return TypeLabel(e.err) }
func (e *stackedErr) Message() string  { return messageOf(e.err) }

// WithStack records the caller's stack on err. Errors that already carry a
// stack are returned unchanged: the first recording is the raise point.
func WithStack(err error) error {
	if err == nil {
		return nil
	}
	if len(StackOf(err)) > 0 {
		return err
	}
	return &stackedErr{err: err, stk: captureRaise(1)}
}

// StackOf returns the first non-empty stack found in err's unwrap graph, in
// pre-order, or nil.
func StackOf(err error) Stack {
	var out Stack
	Walk(err, func(e error) bool {
		if s, ok := e.(interface{ Stack() Stack }); ok && len(s.Stack()) > 0 {
			out = s.Stack()
			return false
		}
		return true
	})
	return out
}
