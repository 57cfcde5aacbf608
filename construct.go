// construct.go: the concrete framework error type and its constructors.
//
// Every constructor records the stack of its caller: that stack is the raise
// point a boundary shows when the error escapes a transformed function.
package xgxtrace

import "fmt"

type kindErr struct {
	kind  Kind
	msg   string
	ctx   fields
	cause error
	stk   Stack
}

func (e *kindErr) Error() string {
	if e.msg == "" {
		return string(e.kind)
	}
	return string(e.kind) + ": " + e.msg
}

func (e *kindErr) Kind() Kind              { return e.kind }
func (e *kindErr) TypeName() string        { return string(e.kind) }
func (e *kindErr) Message() string         { return e.msg }
func (e *kindErr) Unwrap() error           { return e.cause }
func (e *kindErr) Stack() Stack            { return e.stk }
func (e *kindErr) Context() map[string]any { return e.ctx.toMap() }

func (e *kindErr) With(key string, val any) Error {
	n := *e
	n.ctx = appendFields(e.ctx, Field{Key: key, Val: val})
	return &n
}

func (e *kindErr) Reconstruct(msg string) error {
	n := *e
	n.msg = msg
	return &n
}

func newKind(kind Kind, msg string, cause error, kv []any) *kindErr {
	return &kindErr{
		kind:  kind,
		msg:   msg,
		ctx:   fieldsFromKV(kv...),
		cause: cause,
		// skip newKind and the exported constructor calling it
		stk: captureRaise(2),
	}
}

// NewError creates an error of the given kind with optional key-value fields.
func NewError(kind Kind, msg string, kv ...any) Error {
	return newKind(kind, msg, nil, kv)
}

// Errorf creates an error of the given kind with a formatted message. A %w
// operand becomes the cause.
func Errorf(kind Kind, format string, args ...any) Error {
	wrapped := fmt.Errorf(format, args...)
	return newKind(kind, wrapped.Error(), unwrapOne(wrapped), nil)
}

// Wrapf wraps cause in an error of the given kind.
func Wrapf(cause error, kind Kind, format string, args ...any) Error {
	return newKind(kind, fmt.Sprintf(format, args...), cause, nil)
}

// Assertf reports a violated assertion in user or framework code.
func Assertf(format string, args ...any) Error {
	return newKind(KindAssertion, fmt.Sprintf(format, args...), nil, nil)
}

// TypeErrorf reports a value of the wrong type or dtype.
func TypeErrorf(format string, args ...any) Error {
	return newKind(KindType, fmt.Sprintf(format, args...), nil, nil)
}

// ValueErrorf reports a value of the right type but an unusable content.
func ValueErrorf(format string, args ...any) Error {
	return newKind(KindValue, fmt.Sprintf(format, args...), nil, nil)
}

// IndexErrorf reports an out-of-range index or axis.
func IndexErrorf(format string, args ...any) Error {
	return newKind(KindIndex, fmt.Sprintf(format, args...), nil, nil)
}

// NotImplementedf reports a transformation rule that does not exist yet.
func NotImplementedf(format string, args ...any) Error {
	return newKind(KindNotImplemented, fmt.Sprintf(format, args...), nil, nil)
}

// Internal wraps an unexpected failure of the framework itself.
func Internal(err error) Error {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return newKind(KindInternal, msg, err, nil)
}

// Assert panics with an AssertionError when cond is false. The panic value
// is the Error; a boundary above rewrites it like any other panic.
func Assert(cond bool, format string, args ...any) {
	if cond {
		return
	}
	panic(newKind(KindAssertion, fmt.Sprintf(format, args...), nil, nil))
}

func unwrapOne(err error) error {
	if u, ok := err.(interface{ Unwrap() error }); ok {
		return u.Unwrap()
	}
	return nil
}

var _ Error = (*kindErr)(nil)
