package schema

import "fmt"

// ErrorCategory is the closed enumeration of compile-time failure
// reasons the test suite pins down.
type ErrorCategory string

const (
	CategorySyntax              ErrorCategory = "syntax"
	CategoryTypeFormat          ErrorCategory = "type-format"
	CategoryTypeValue           ErrorCategory = "type-value"
	CategoryBoundFormat         ErrorCategory = "bound-format"
	CategoryBoundValue          ErrorCategory = "bound-value"
	CategoryLengthFormat        ErrorCategory = "length-format"
	CategoryLengthValue         ErrorCategory = "length-value"
	CategoryPattern             ErrorCategory = "pattern"
	CategoryItems               ErrorCategory = "items"
	CategoryAdditionalItems     ErrorCategory = "additional-items"
	CategoryProperties          ErrorCategory = "properties"
	CategoryPatternProperties   ErrorCategory = "pattern-properties"
	CategoryRequired            ErrorCategory = "required"
	CategoryAdditionalProperties ErrorCategory = "additional-properties"
	CategoryEnum                ErrorCategory = "enum"
	CategoryCombinator          ErrorCategory = "combinator"
	CategoryDefinitions         ErrorCategory = "definitions"
	CategoryMultipleOf          ErrorCategory = "multipleOf"
	CategoryTitle               ErrorCategory = "title"
	CategoryDescription          ErrorCategory = "description"
)

// CompileError reports why a schema document was rejected, naming the
// keyword and a JSON-pointer-ish path to the offending sub-schema.
type CompileError struct {
	Category ErrorCategory
	Path     string
	Message  string
}

func (e *CompileError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("schema: %s: %s", e.Category, e.Message)
	}
	return fmt.Sprintf("schema: %s at %s: %s", e.Category, e.Path, e.Message)
}

func compileErr(category ErrorCategory, path, format string, args ...any) *CompileError {
	return &CompileError{Category: category, Path: path, Message: fmt.Sprintf(format, args...)}
}
