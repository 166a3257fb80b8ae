package query

import "github.com/webosose/pbnjson-go/value"

// Find runs sel against doc and returns every matching node's value, in
// document order (pre-order: a node before its own children).
func Find(doc *value.Value, sel string) ([]*value.Value, error) {
	q, err := Compile(sel)
	if err != nil {
		return nil, err
	}
	return q.Find(doc), nil
}

// Find runs q against doc.
func (q *Query) Find(doc *value.Value) []*value.Value {
	var out []*value.Value
	root := &node{v: doc, index: -1, root: true}
	walkFrom(root, func(n *node) {
		if matchesAny(q, n) {
			out = append(out, n.v)
		}
	})
	return out
}

// First returns the first match, or nil if none.
func (q *Query) First(doc *value.Value) *value.Value {
	matches := q.Find(doc)
	if len(matches) == 0 {
		return nil
	}
	return matches[0]
}
