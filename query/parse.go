package query

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/webosose/pbnjson-go/value"
)

// ParseError reports a selector that could not be parsed.
type ParseError struct {
	Pos int
	Msg string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("query: %s (at byte %d)", e.Msg, e.Pos)
}

var typeNames = map[string]bool{
	"null": true, "boolean": true, "number": true,
	"string": true, "array": true, "object": true,
}

// Compile parses a selector string into a Query ready to run against a
// document with Find/First.
func Compile(sel string) (*Query, error) {
	p := &parser{src: sel}
	q, err := p.parseQuery()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, &ParseError{Pos: p.pos, Msg: "unexpected trailing input"}
	}
	return q, nil
}

type parser struct {
	src string
	pos int
}

func (p *parser) fail(msg string) error { return &ParseError{Pos: p.pos, Msg: msg} }

func (p *parser) peek() byte {
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t' || p.src[p.pos] == '\n') {
		p.pos++
	}
}

func isIdentByte(b byte) bool {
	return b == '-' || b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

func (p *parser) ident() string {
	start := p.pos
	for p.pos < len(p.src) && isIdentByte(p.src[p.pos]) {
		p.pos++
	}
	return p.src[start:p.pos]
}

func (p *parser) parseQuery() (*Query, error) {
	q := &Query{}
	for {
		chain, err := p.parseChain()
		if err != nil {
			return nil, err
		}
		q.Alternatives = append(q.Alternatives, chain)
		p.skipSpace()
		if p.peek() != ',' {
			break
		}
		p.pos++
		p.skipSpace()
	}
	return q, nil
}

func (p *parser) parseChain() (Chain, error) {
	var chain Chain
	first := true
	for {
		p.skipSpace()
		if p.pos >= len(p.src) || p.peek() == ',' {
			if first {
				return nil, p.fail("expected a selector")
			}
			return chain, nil
		}
		comb := Descendant
		switch {
		case first:
			comb = none
		case p.peek() == '>':
			comb = Child
			p.pos++
			p.skipSpace()
		case p.peek() == '~':
			comb = Sibling
			p.pos++
			p.skipSpace()
		}
		c, err := p.parseCompound()
		if err != nil {
			return nil, err
		}
		c.Combinator = comb
		chain = append(chain, c)
		first = false
	}
}

func (p *parser) parseCompound() (*Compound, error) {
	c := &Compound{}
	matched := false

	switch {
	case p.peek() == '*':
		p.pos++
		matched = true
	case isIdentByte(p.peek()) && p.peek() != '-':
		name := p.ident()
		if !typeNames[name] {
			return nil, p.fail(fmt.Sprintf("unknown type selector %q", name))
		}
		c.TypeName = name
		matched = true
	}

	for {
		switch p.peek() {
		case '.':
			p.pos++
			key := p.ident()
			if key == "" {
				return nil, p.fail("expected a property name after '.'")
			}
			c.Key = key
			matched = true
		case ':':
			p.pos++
			name := p.ident()
			if err := p.applyPseudo(c, name); err != nil {
				return nil, err
			}
			matched = true
		default:
			if !matched {
				return nil, p.fail("expected a selector")
			}
			return c, nil
		}
	}
}

func (p *parser) applyPseudo(c *Compound, name string) error {
	switch name {
	case "root":
		c.Root = true
		return nil
	case "empty":
		c.Empty = true
		return nil
	case "only-child":
		c.OnlyChild = true
		return nil
	case "first-child":
		c.FirstChild = true
		return nil
	case "last-child":
		c.LastChild = true
		return nil
	case "nth-child", "nth-last-child":
		n, err := p.parseIntArg()
		if err != nil {
			return err
		}
		c.HasNth = true
		c.Nth = n
		c.NthLast = name == "nth-last-child"
		return nil
	case "contains":
		s, err := p.parseStringArg()
		if err != nil {
			return err
		}
		c.Contains = s
		return nil
	case "val":
		v, err := p.parseValueArg()
		if err != nil {
			return err
		}
		c.Value = v
		return nil
	case "has":
		sub, err := p.parseSubQueryArg()
		if err != nil {
			return err
		}
		c.Has = sub
		return nil
	case "expr":
		e, err := p.parseExprArg()
		if err != nil {
			return err
		}
		c.Expr = e
		return nil
	default:
		return p.fail(fmt.Sprintf("unknown pseudo-class %q", name))
	}
}

func (p *parser) expect(b byte) error {
	if p.peek() != b {
		return p.fail(fmt.Sprintf("expected %q", b))
	}
	p.pos++
	return nil
}

func (p *parser) parseIntArg() (int, error) {
	if err := p.expect('('); err != nil {
		return 0, err
	}
	start := p.pos
	if p.peek() == '-' {
		p.pos++
	}
	for p.pos < len(p.src) && p.src[p.pos] >= '0' && p.src[p.pos] <= '9' {
		p.pos++
	}
	n, err := strconv.Atoi(p.src[start:p.pos])
	if err != nil {
		return 0, p.fail("expected an integer argument")
	}
	if err := p.expect(')'); err != nil {
		return 0, err
	}
	return n, nil
}

func (p *parser) parseStringArg() (string, error) {
	if err := p.expect('('); err != nil {
		return "", err
	}
	s, err := p.parseQuotedOrBare(')')
	if err != nil {
		return "", err
	}
	if err := p.expect(')'); err != nil {
		return "", err
	}
	return s, nil
}

func (p *parser) parseQuotedOrBare(end byte) (string, error) {
	if p.peek() == '"' || p.peek() == '\'' {
		quote := p.peek()
		p.pos++
		var sb strings.Builder
		for p.pos < len(p.src) && p.src[p.pos] != quote {
			if p.src[p.pos] == '\\' && p.pos+1 < len(p.src) {
				p.pos++
			}
			sb.WriteByte(p.src[p.pos])
			p.pos++
		}
		if p.pos >= len(p.src) {
			return "", p.fail("unterminated quoted string")
		}
		p.pos++
		return sb.String(), nil
	}
	start := p.pos
	for p.pos < len(p.src) && p.src[p.pos] != end {
		p.pos++
	}
	return p.src[start:p.pos], nil
}

func (p *parser) parseValueArg() (*value.Value, error) {
	if err := p.expect('('); err != nil {
		return nil, err
	}
	raw, err := p.parseQuotedOrBare(')')
	if err != nil {
		return nil, err
	}
	if err := p.expect(')'); err != nil {
		return nil, err
	}
	return literalToValue(raw)
}

func literalToValue(raw string) (*value.Value, error) {
	trimmed := strings.TrimSpace(raw)
	var decoded any
	if err := json.Unmarshal([]byte(trimmed), &decoded); err != nil {
		return value.NewStringCopy(raw), nil
	}
	return anyToValue(decoded), nil
}

func anyToValue(a any) *value.Value {
	switch t := a.(type) {
	case nil:
		return value.NewNull()
	case bool:
		return value.NewBool(t)
	case float64:
		return value.NewF64(t)
	case string:
		return value.NewStringCopy(t)
	case []any:
		arr := value.NewEmptyArray()
		for _, el := range t {
			value.ArrayAppend(arr, anyToValue(el))
		}
		return arr
	case map[string]any:
		obj := value.NewEmptyObject()
		for k, v := range t {
			value.ObjectPutKey(obj, k, anyToValue(v))
		}
		return obj
	default:
		return value.NewNull()
	}
}

// parseExprArg extracts the balanced-paren argument of :expr(...) and
// hands it to the expression grammar's own parser, the same depth-
// counting approach parseSubQueryArg uses for :has(...).
func (p *parser) parseExprArg() (*exprNode, error) {
	if err := p.expect('('); err != nil {
		return nil, err
	}
	depth := 1
	start := p.pos
	for p.pos < len(p.src) && depth > 0 {
		switch p.src[p.pos] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				inner := p.src[start:p.pos]
				p.pos++
				return compileExpr(inner)
			}
		}
		p.pos++
	}
	return nil, p.fail("unterminated :expr(...) argument")
}

func (p *parser) parseSubQueryArg() (*Query, error) {
	if err := p.expect('('); err != nil {
		return nil, err
	}
	depth := 1
	start := p.pos
	for p.pos < len(p.src) && depth > 0 {
		switch p.src[p.pos] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				inner := p.src[start:p.pos]
				p.pos++
				return Compile(inner)
			}
		}
		p.pos++
	}
	return nil, p.fail("unterminated :has(...) argument")
}
