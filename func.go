package xgxtrace

import (
	"reflect"
	"runtime"
)

// Func is a function wrapped in a Boundary. It keeps the wrapped function's
// name, copied when the wrapper is built, for introspection and logs.
type Func[A, R any] struct {
	name string
	fn   func(A) (R, error)
	b    *Boundary
}

// Wrap puts fn behind b. A nil b means the Default boundary.
func Wrap[A, R any](b *Boundary, fn func(A) (R, error)) *Func[A, R] {
	return WrapNamed(b, funcName(fn), fn)
}

// WrapNamed is Wrap with an explicit name.
func WrapNamed[A, R any](b *Boundary, name string, fn func(A) (R, error)) *Func[A, R] {
	if b == nil {
		b = std
	}
	return &Func[A, R]{name: name, fn: fn, b: b}
}

// Name returns the name of the wrapped function.
func (f *Func[A, R]) Name() string { return f.name }

// Call invokes the wrapped function behind the boundary. The result is
// whatever the function returned, also when it failed.
func (f *Func[A, R]) Call(arg A) (R, error) {
	var out R
	err := f.b.Call(func() error {
		var err error
		out, err = f.fn(arg)
		return err
	})
	return out, err
}

// Fn returns Call as a plain function value.
func (f *Func[A, R]) Fn() func(A) (R, error) { return f.Call }

func funcName(fn any) string {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return ""
	}
	if rf := runtime.FuncForPC(v.Pointer()); rf != nil {
		return rf.Name()
	}
	return ""
}
