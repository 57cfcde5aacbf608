package xgxtrace

// Kind classifies framework failures. Its string is the type label users see
// in front of the message, e.g. "TypeError: grad requires real-valued inputs".
//
// Kinds are stringly-typed so that projects built on the framework can add
// their own without touching a central enum.
type Kind string

// Error is the contract of failures raised by the framework.
//
// All fluent methods are non-mutating: they return a new Error value
// (copy-on-write) and never alter the receiver. Shared error values stay safe
// to read from any goroutine without synchronization.
type Error interface {
	// error returns "<Kind>: <Message>", or the kind alone for an empty message.
	error

	// Kind returns the classification.
	Kind() Kind

	// TypeName returns the kind as a label for rendered tracebacks.
	TypeName() string

	// Message returns the message without the kind prefix.
	Message() string

	// With adds a single key-value field. Returns a NEW Error.
	With(key string, val any) Error

	// Context returns a COPY of the fields as a map (last write wins).
	Context() map[string]any

	// Stack returns the stack recorded where the error was created.
	Stack() Stack

	// Reconstruct returns a NEW Error of the same kind carrying msg, keeping
	// fields, cause and stack. Boundaries use it to rewrite messages.
	Reconstruct(msg string) error

	// Unwrap returns the causal parent, or nil.
	Unwrap() error
}
