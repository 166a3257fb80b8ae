// Package lexer implements a chunk-fed, resumable JSON tokenizer: a
// byte-at-a-time scanner built from step functions, in the style of the
// standard library's encoding/json scanner and the state/action design in
// mcvoid/json's parser.go, except it emits events instead of building a
// value tree. It can suspend at any byte boundary — inside a literal, a
// number, a string escape, whitespace, or a comment — between Feed calls,
// and resumes correctly because every piece of in-progress state (current
// step, nesting stack, partial literal bytes) lives on the Lexer, not on
// the Go call stack.
package lexer

// Kind is the event vocabulary emitted by the scanner.
type Kind uint8

const (
	ObjectStart Kind = iota
	ObjectEnd
	ObjectKey
	ArrayStart
	ArrayEnd
	String
	Number
	Boolean
	Null
)

func (k Kind) String() string {
	switch k {
	case ObjectStart:
		return "object_start"
	case ObjectEnd:
		return "object_end"
	case ObjectKey:
		return "object_key"
	case ArrayStart:
		return "array_start"
	case ArrayEnd:
		return "array_end"
	case String:
		return "string"
	case Number:
		return "number"
	case Boolean:
		return "boolean"
	case Null:
		return "null"
	default:
		return "unknown"
	}
}

// Event is one lexical event. Bytes is populated for String (escapes
// decoded unless the lexer is in raw-string mode) and Number (always raw
// bytes, never pre-converted — numeric conversion is a separate concern).
// Ctx is an opaque per-event token a handler can use for contextual
// dispatch; this implementation sets it to the current container nesting
// depth.
type Event struct {
	Kind  Kind
	Bytes []byte
	Bool  bool
	Ctx   int
}

// Handler consumes one event at a time. Returning false tells the lexer
// to stop: Feed returns false afterward and Err reports the sticky
// ErrCanceled.
type Handler func(Event) bool
