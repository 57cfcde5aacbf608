// reconstruct.go: rebuilding a failure of the same type around a new message.
//
// Resolution order for a value v and message msg:
//  1. v implements Reconstructor            → v.Reconstruct(msg)
//  2. a constructor is registered for v's type → ctor(msg)
//  3. v is a string (panic value)            → msg
//  4. otherwise                              → *BoundaryError wrapping v
//
// Types that cannot be rebuilt from a message alone (several constructor
// arguments, unexported types from other packages) end up in case 4. The
// BoundaryError unwraps to the original, so errors.Is and errors.As keep
// matching it.
package xgxtrace

import (
	"errors"
	"reflect"
	"sync"
)

// Reconstructor is implemented by errors that can produce a copy of
// themselves carrying a different message.
type Reconstructor interface {
	Reconstruct(msg string) error
}

// Registry maps concrete error types to message constructors. Register during
// setup; lookups are safe from any goroutine.
type Registry struct {
	mu    sync.RWMutex
	ctors map[reflect.Type]func(string) error
}

// NewRegistry returns a registry that already knows the type behind
// errors.New (and fmt.Errorf without %w).
func NewRegistry() *Registry {
	r := &Registry{ctors: make(map[reflect.Type]func(string) error)}
	r.ctors[reflect.TypeOf(errors.New(""))] = errors.New
	return r
}

var defaultRegistry = NewRegistry()

// DefaultRegistry returns the registry boundaries use unless told otherwise.
func DefaultRegistry() *Registry { return defaultRegistry }

// Register teaches r to rebuild errors of type T. T must be the concrete
// dynamic type the errors have (usually a pointer type), not an interface.
func Register[T error](r *Registry, ctor func(msg string) T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ctors[reflect.TypeFor[T]()] = func(msg string) error { return ctor(msg) }
}

func (r *Registry) lookup(t reflect.Type) func(string) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.ctors[t]
}

// rebuildError returns an error of err's type carrying msg. stk is recorded on
// the fallback BoundaryError.
func (r *Registry) rebuildError(err error, msg string, stk Stack) error {
	switch x := err.(type) {
	case *stackedErr:
		return &stackedErr{err: r.rebuildError(x.err, msg, stk), stk: x.stk}
	case Reconstructor:
		return x.Reconstruct(msg)
	}
	if ctor := r.lookup(reflect.TypeOf(err)); ctor != nil {
		return ctor(msg)
	}
	return newBoundaryError(err, msg, stk)
}

// rebuildValue is rebuildError for panic values.
func (r *Registry) rebuildValue(v any, msg string, stk Stack) any {
	switch x := v.(type) {
	case error:
		return r.rebuildError(x, msg, stk)
	case string:
		return msg
	}
	return newBoundaryError(v, msg, stk)
}

// BoundaryError stands in for a failure whose type could not be rebuilt. It
// renders like the original ("<type>: <message>") and unwraps to it when the
// original is an error.
type BoundaryError struct {
	typeName string
	msg      string
	value    any
	stk      Stack
}

func newBoundaryError(v any, msg string, stk Stack) *BoundaryError {
	return &BoundaryError{typeName: TypeLabel(v), msg: msg, value: v, stk: stk}
}

func (e *BoundaryError) Error() string    { return e.typeName + ": " + e.msg }
func (e *BoundaryError) TypeName() string { return e.typeName }
func (e *BoundaryError) Message() string  { return e.msg }
func (e *BoundaryError) Stack() Stack     { return e.stk }

// Value returns the original failure value.
func (e *BoundaryError) Value() any { return e.value }

// Unwrap returns the original failure when it is an error.
func (e *BoundaryError) Unwrap() error {
	err, _ := e.value.(error)
	return err
}
