package query

import (
	"bytes"
	"math"
	"strconv"
	"strings"

	"github.com/webosose/pbnjson-go/value"
)

// binOp is the operator vocabulary of a :expr(...) boolean expression,
// grounded on expression.h's BinOpType.
type binOp int

const (
	bopEqual binOp = iota
	bopNotEqual
	bopLess
	bopGreater
	bopLEqual
	bopGEqual
	bopAnd
	bopOr
)

type exprKind int

const (
	exprX exprKind = iota
	exprLiteral
	exprBinOp
)

// exprNode is a parsed :expr(...) tree, mirroring expression.c's SelEx:
// a leaf is either the node under test ("x") or a literal, and an
// interior node composes two subexpressions with a binOp.
type exprNode struct {
	kind exprKind
	lit  *value.Value
	op   binOp
	lhs  *exprNode
	rhs  *exprNode
}

// evalExpr evaluates e against the node value x, returning a
// value.Value the way expression.c's Eval functions return a
// jvalue_ref: the node itself, a literal, or the boolean result of a
// composition (or the invalid sentinel when a comparison's operand
// types can't be ordered).
func evalExpr(e *exprNode, x *value.Value) *value.Value {
	switch e.kind {
	case exprX:
		return x
	case exprLiteral:
		return e.lit
	case exprBinOp:
		a := evalExpr(e.lhs, x)
		b := evalExpr(e.rhs, x)
		r := composeOp(e.op, a, b)
		if r < 0 {
			return value.InvalidValue()
		}
		return value.NewBool(r == 1)
	}
	return value.InvalidValue()
}

// evalSelEx is sel_ex_eval: jvalue_to_bool applied to the expression's
// evaluated result.
func evalSelEx(e *exprNode, x *value.Value) bool {
	return jvalueToBool(evalExpr(e, x))
}

// jvalueToBool mirrors expression.c's jvalue_to_bool.
func jvalueToBool(v *value.Value) bool {
	if v.IsInvalid() {
		return false
	}
	switch v.Kind() {
	case value.Null:
		return true
	case value.Bool:
		b, _ := v.AsBool()
		return b
	case value.Number:
		f, _ := v.AsF64()
		return math.Abs(f-0.0) > 1e-9
	default:
		return true
	}
}

func boolToTri(b bool) int {
	if b {
		return 1
	}
	return 0
}

// composeOp dispatches a binOp the way sel_ex_binop wires up
// compose_func pairs, including its lhs/rhs swap for GREATER, GEQUAL
// and OR.
func composeOp(op binOp, a, b *value.Value) int {
	switch op {
	case bopEqual:
		return boolToTri(value.Equal(a, b))
	case bopNotEqual:
		return boolToTri(!value.Equal(a, b))
	case bopLess:
		return compareLess(a, b, false)
	case bopGreater:
		return compareLess(b, a, false)
	case bopLEqual:
		return compareLess(a, b, true)
	case bopGEqual:
		return compareLess(b, a, true)
	case bopAnd:
		return boolToTri(jvalueToBool(a) && jvalueToBool(b))
	case bopOr:
		return boolToTri(jvalueToBool(b) || jvalueToBool(a))
	}
	return -1
}

// compareLess mirrors compare_less_impl: -1 when a and b aren't
// ordering-comparable (different kinds that also aren't equal),
// otherwise the ordered-or-equal result for bool/number/string, and
// for any other matching kind, orEqual iff a equals b.
func compareLess(a, b *value.Value, orEqual bool) int {
	if a.Kind() != b.Kind() {
		if !value.Equal(a, b) {
			return -1
		}
		return boolToTri(orEqual)
	}
	switch a.Kind() {
	case value.Bool:
		av, _ := a.AsBool()
		bv, _ := b.AsBool()
		if orEqual {
			return boolToTri(boolToTri(av) <= boolToTri(bv))
		}
		return boolToTri(boolToTri(av) < boolToTri(bv))
	case value.Number:
		af, _ := a.AsF64()
		bf, _ := b.AsF64()
		if orEqual {
			return boolToTri(af <= bf)
		}
		return boolToTri(af < bf)
	case value.String:
		as, _ := a.AsString()
		bs, _ := b.AsString()
		cmp := bytes.Compare(as, bs)
		if orEqual {
			return boolToTri(cmp <= 0)
		}
		return boolToTri(cmp < 0)
	default:
		if !value.Equal(a, b) {
			return -1
		}
		return boolToTri(orEqual)
	}
}

// exprParser parses the argument of :expr(...) on its own cursor,
// separate from the selector parser, since its grammar (operators,
// literals) doesn't overlap with compound-selector syntax.
type exprParser struct {
	src string
	pos int
}

func compileExpr(s string) (*exprNode, error) {
	ep := &exprParser{src: s}
	e, err := ep.parseOr()
	if err != nil {
		return nil, err
	}
	ep.skipSpace()
	if ep.pos != len(ep.src) {
		return nil, &ParseError{Pos: ep.pos, Msg: "unexpected trailing input in :expr(...)"}
	}
	return e, nil
}

func (ep *exprParser) fail(msg string) error { return &ParseError{Pos: ep.pos, Msg: msg} }

func (ep *exprParser) skipSpace() {
	for ep.pos < len(ep.src) && (ep.src[ep.pos] == ' ' || ep.src[ep.pos] == '\t' || ep.src[ep.pos] == '\n') {
		ep.pos++
	}
}

func (ep *exprParser) peek() byte {
	if ep.pos >= len(ep.src) {
		return 0
	}
	return ep.src[ep.pos]
}

func (ep *exprParser) hasPrefix(s string) bool {
	return strings.HasPrefix(ep.src[ep.pos:], s)
}

// parseOr and parseAnd give && higher precedence than ||, matching
// the grouping "x<10 && x>5 || x<20 && x>15" == "(x<10 && x>5) ||
// (x<20 && x>15)".
func (ep *exprParser) parseOr() (*exprNode, error) {
	lhs, err := ep.parseAnd()
	if err != nil {
		return nil, err
	}
	for {
		ep.skipSpace()
		if !ep.hasPrefix("||") {
			return lhs, nil
		}
		ep.pos += 2
		rhs, err := ep.parseAnd()
		if err != nil {
			return nil, err
		}
		lhs = &exprNode{kind: exprBinOp, op: bopOr, lhs: lhs, rhs: rhs}
	}
}

func (ep *exprParser) parseAnd() (*exprNode, error) {
	lhs, err := ep.parseComparison()
	if err != nil {
		return nil, err
	}
	for {
		ep.skipSpace()
		if !ep.hasPrefix("&&") {
			return lhs, nil
		}
		ep.pos += 2
		rhs, err := ep.parseComparison()
		if err != nil {
			return nil, err
		}
		lhs = &exprNode{kind: exprBinOp, op: bopAnd, lhs: lhs, rhs: rhs}
	}
}

func (ep *exprParser) parseComparison() (*exprNode, error) {
	lhs, err := ep.parseOperand()
	if err != nil {
		return nil, err
	}
	ep.skipSpace()
	op, ok := ep.tryParseCmpOp()
	if !ok {
		return lhs, nil
	}
	ep.skipSpace()
	rhs, err := ep.parseOperand()
	if err != nil {
		return nil, err
	}
	return &exprNode{kind: exprBinOp, op: op, lhs: lhs, rhs: rhs}, nil
}

func (ep *exprParser) tryParseCmpOp() (binOp, bool) {
	switch {
	case ep.hasPrefix("<="):
		ep.pos += 2
		return bopLEqual, true
	case ep.hasPrefix(">="):
		ep.pos += 2
		return bopGEqual, true
	case ep.hasPrefix("!="):
		ep.pos += 2
		return bopNotEqual, true
	case ep.hasPrefix("<"):
		ep.pos++
		return bopLess, true
	case ep.hasPrefix(">"):
		ep.pos++
		return bopGreater, true
	case ep.hasPrefix("="):
		ep.pos++
		return bopEqual, true
	default:
		return 0, false
	}
}

func (ep *exprParser) parseOperand() (*exprNode, error) {
	ep.skipSpace()
	if ep.pos >= len(ep.src) {
		return nil, ep.fail("expected an operand")
	}
	if ep.peek() == 'x' && (ep.pos+1 >= len(ep.src) || !isIdentByte(ep.src[ep.pos+1])) {
		ep.pos++
		return &exprNode{kind: exprX}, nil
	}
	lit, err := ep.parseLiteral()
	if err != nil {
		return nil, err
	}
	return &exprNode{kind: exprLiteral, lit: lit}, nil
}

func (ep *exprParser) parseLiteral() (*value.Value, error) {
	switch {
	case ep.peek() == '"' || ep.peek() == '\'':
		s, err := ep.parseQuotedString()
		if err != nil {
			return nil, err
		}
		return value.NewStringCopy(s), nil
	case ep.hasPrefix("null"):
		ep.pos += 4
		return value.NewNull(), nil
	case ep.hasPrefix("true"):
		ep.pos += 4
		return value.NewBool(true), nil
	case ep.hasPrefix("false"):
		ep.pos += 5
		return value.NewBool(false), nil
	case ep.peek() == '-' || (ep.peek() >= '0' && ep.peek() <= '9'):
		return ep.parseNumber()
	default:
		return nil, ep.fail("expected an operand")
	}
}

func (ep *exprParser) parseQuotedString() (string, error) {
	quote := ep.peek()
	ep.pos++
	var sb strings.Builder
	for ep.pos < len(ep.src) && ep.src[ep.pos] != quote {
		if ep.src[ep.pos] == '\\' && ep.pos+1 < len(ep.src) {
			ep.pos++
		}
		sb.WriteByte(ep.src[ep.pos])
		ep.pos++
	}
	if ep.pos >= len(ep.src) {
		return "", ep.fail("unterminated quoted string")
	}
	ep.pos++
	return sb.String(), nil
}

func (ep *exprParser) parseNumber() (*value.Value, error) {
	start := ep.pos
	if ep.peek() == '-' {
		ep.pos++
	}
	for ep.pos < len(ep.src) && ep.src[ep.pos] >= '0' && ep.src[ep.pos] <= '9' {
		ep.pos++
	}
	if ep.peek() == '.' {
		ep.pos++
		for ep.pos < len(ep.src) && ep.src[ep.pos] >= '0' && ep.src[ep.pos] <= '9' {
			ep.pos++
		}
	}
	f, err := strconv.ParseFloat(ep.src[start:ep.pos], 64)
	if err != nil {
		return nil, ep.fail("expected a number")
	}
	return value.NewF64(f), nil
}
