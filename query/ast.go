// Package query implements a jQuery/jsonselect-style selector language
// over value.Value trees, grounded on the grammar
// src/pbnjson_c/selectors/jquery_selectors.c enumerates: type and key
// selectors, :root, the descendant/child/sibling combinators, a set of
// structural pseudo-classes, and comma-separated alternation.
package query

import "github.com/webosose/pbnjson-go/value"

// Combinator describes how a compound selector relates to the one
// before it in a chain.
type Combinator int

const (
	// none marks the first compound in a chain; it carries no combinator.
	none Combinator = iota
	// Descendant is "T U": U has some ancestor matching T.
	Descendant
	// Child is "T > U": U's immediate parent matches T.
	Child
	// Sibling is "T ~ U": U has a preceding sibling matching T.
	Sibling
)

// Compound is one non-combinator selector component: "object:has(.id)"
// is a single Compound; "a b" is two Compounds joined by Descendant.
type Compound struct {
	Combinator Combinator

	TypeName string // "", "null", "boolean", "number", "string", "array", "object"
	Key      string // non-empty for ".key"
	Root     bool   // ":root"

	Contains  string       // ":contains(S)"
	Has       *Query       // ":has(...)"
	Value     *value.Value // ":val(V)"
	Empty     bool         // ":empty"
	OnlyChild bool         // ":only-child"
	FirstChild bool        // ":first-child"
	LastChild  bool        // ":last-child"
	HasNth     bool
	Nth        int // ":nth-child(N)", 1-based
	NthLast    bool

	Expr *exprNode // ":expr(lhs op rhs)"
}

// Chain is a sequence of Compounds read left to right; the last entry
// is the one a match is reported against.
type Chain []*Compound

// Query is a full selector: one or more comma-separated Chains, any of
// which matching a node is enough.
type Query struct {
	Alternatives []Chain
}
