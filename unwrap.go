// unwrap.go: traversal over single- and multi-wrapped errors.
//
// errors.Join returns an error with Unwrap() []error while errors.Unwrap only
// calls Unwrap() error, so traversal handles BOTH forms. Pointer identity
// guards against cycles; non-pointer errors are treated as acyclic and the
// depth cap bounds the walk.
package xgxtrace

import "reflect"

type singleUnwrapper interface{ Unwrap() error }
type multiUnwrapper interface{ Unwrap() []error }

// ptrID returns a pointer identity for pointer-typed dynamic errors.
func ptrID(err error) (uintptr, bool) {
	rv := reflect.ValueOf(err)
	if rv.Kind() == reflect.Pointer && !rv.IsNil() {
		return rv.Pointer(), true
	}
	return 0, false
}

// Walk calls visit for each distinct error in err's graph in pre-order,
// children left to right. It stops when visit returns false. nil is a no-op.
func Walk(err error, visit func(error) bool) {
	if err == nil || visit == nil {
		return
	}
	const maxDepth = 1 << 12

	seen := make(map[uintptr]struct{}, 8)
	mark := func(e error) bool {
		id, ok := ptrID(e)
		if !ok {
			return true
		}
		if _, dup := seen[id]; dup {
			return false
		}
		seen[id] = struct{}{}
		return true
	}

	stack := []error{err}
	mark(err)
	for len(stack) > 0 && len(stack) < maxDepth {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !visit(cur) {
			return
		}

		switch x := cur.(type) {
		case multiUnwrapper:
			kids := x.Unwrap()
			for i := len(kids) - 1; i >= 0; i-- {
				if kids[i] != nil && mark(kids[i]) {
					stack = append(stack, kids[i])
				}
			}
		case singleUnwrapper:
			if u := x.Unwrap(); u != nil && mark(u) {
				stack = append(stack, u)
			}
		}
	}
}
