// Package validator executes a compiled schema.Schema against an
// instance value.Value tree, mirroring the teacher's evaluation result
// model (EvaluationError/EvaluationResult) but against a fixed,
// draft-04-ish keyword set and a closed error-code vocabulary instead
// of the teacher's open keyword/code strings.
package validator

import "fmt"

// Code is the closed enumeration of validation failure reasons.
type Code string

const (
	CodeNotNull              Code = "not-null"
	CodeNotNumber            Code = "not-number"
	CodeNumberTooSmall       Code = "number-too-small"
	CodeNumberTooBig         Code = "number-too-big"
	CodeNotInteger           Code = "not-integer"
	CodeNotBoolean           Code = "not-boolean"
	CodeNotString            Code = "not-string"
	CodeStringTooShort       Code = "string-too-short"
	CodeStringTooLong        Code = "string-too-long"
	CodeNotArray             Code = "not-array"
	CodeArrayTooShort        Code = "array-too-short"
	CodeArrayTooLong         Code = "array-too-long"
	CodeArrayHasDuplicates   Code = "array-has-duplicates"
	CodeNotObject            Code = "not-object"
	CodeNotEnoughKeys        Code = "not-enough-keys"
	CodeTooManyKeys          Code = "too-many-keys"
	CodeMissingRequiredKey   Code = "missing-required-key"
	CodePropertyNotAllowed   Code = "object-property-not-allowed"
	CodeTypeNotAllowed       Code = "type-not-allowed"
	CodeUnexpectedValue      Code = "unexpected-value"
	CodeNotEveryAllOf        Code = "not-every-all-of"
	CodeNeitherOfAny         Code = "neither-of-any"
	CodeMoreThanOneOf        Code = "more-than-one-of"
)

// Error reports one failed constraint: the code, the JSON-Pointer-ish
// instance path it applies to, a human message, and Params (set by some
// checks) that i18n.go's Localize passes to the locale catalog when it
// re-renders the message.
type Error struct {
	Code    Code
	Path    string
	Message string
	Params  map[string]any
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("validator: %s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("validator: %s at %s: %s", e.Code, e.Path, e.Message)
}

func newError(code Code, path, format string, args ...any) *Error {
	return &Error{Code: code, Path: path, Message: fmt.Sprintf(format, args...)}
}

func withParams(e *Error, params map[string]any) *Error {
	e.Params = params
	return e
}
