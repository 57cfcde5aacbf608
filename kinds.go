// kinds.go: the failure kinds the framework raises itself.
//
// Projects add their own kinds as CamelCase labels ending in "Error".
package xgxtrace

const (
	KindAssertion      Kind = "AssertionError"
	KindType           Kind = "TypeError"
	KindValue          Kind = "ValueError"
	KindIndex          Kind = "IndexError"
	KindNotImplemented Kind = "NotImplementedError"
	KindInternal       Kind = "InternalError"
)
