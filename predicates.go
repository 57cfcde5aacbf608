// predicates.go: classification helpers over unwrap chains.
//
// errors.As traverses both Unwrap() error and Unwrap() []error, so these work
// on joined errors and on BoundaryError wrappers alike.
package xgxtrace

import (
	"errors"
	"strings"
)

// KindOf returns the first Kind found along err's chain, or "" if none.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var k interface{ Kind() Kind }
	if errors.As(err, &k) {
		return k.Kind()
	}
	return ""
}

// IsKind reports whether any error in err's graph has kind k.
func IsKind(err error, k Kind) bool {
	found := false
	Walk(err, func(e error) bool {
		if x, ok := e.(interface{ Kind() Kind }); ok && x.Kind() == k {
			found = true
		}
		return !found
	})
	return found
}

// IsDecorated reports whether err's message carries a traceback section
// written by a boundary of the named framework.
func IsDecorated(err error, framework string) bool {
	return err != nil && strings.Contains(err.Error(), Header(framework))
}

// AsBoundaryError reports whether err is or wraps a BoundaryError.
func AsBoundaryError(err error) (*BoundaryError, bool) {
	var be *BoundaryError
	ok := errors.As(err, &be)
	return be, ok
}
