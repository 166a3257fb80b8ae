package query

import (
	"strings"

	"github.com/webosose/pbnjson-go/value"
)

// node augments a value.Value with the tree position a selector needs:
// its key (if reached through an object property), its index (if
// reached through an array element, else -1), and a link to its parent
// for combinator evaluation.
type node struct {
	v      *value.Value
	key    string
	index  int
	parent *node
	root   bool
}

func typeName(v *value.Value) string {
	switch v.Kind() {
	case value.Null:
		return "null"
	case value.Bool:
		return "boolean"
	case value.Number:
		return "number"
	case value.String:
		return "string"
	case value.Array:
		return "array"
	case value.Object:
		return "object"
	}
	return ""
}

func (n *node) siblingCount() int {
	if n.parent == nil {
		return 0
	}
	return n.parent.v.Size()
}

func matchCompound(c *Compound, n *node) bool {
	if c.Root && !n.root {
		return false
	}
	if c.TypeName != "" && typeName(n.v) != c.TypeName {
		return false
	}
	if c.Key != "" && n.key != c.Key {
		return false
	}
	if c.Contains != "" {
		if n.v.Kind() != value.String {
			return false
		}
		s, _ := n.v.AsString()
		if !strings.Contains(string(s), c.Contains) {
			return false
		}
	}
	if c.Value != nil && !value.Equal(n.v, c.Value) {
		return false
	}
	if c.Empty {
		if n.v.Kind() != value.Array && n.v.Kind() != value.Object {
			return false
		}
		if n.v.Size() != 0 {
			return false
		}
	}
	if c.OnlyChild {
		if n.parent == nil || n.parent.v.Kind() != value.Array || n.parent.v.Size() != 1 {
			return false
		}
	}
	if c.FirstChild && n.index != 0 {
		return false
	}
	if c.LastChild {
		if n.parent == nil || n.index != n.siblingCount()-1 {
			return false
		}
	}
	if c.HasNth {
		if n.parent == nil || n.index < 0 {
			return false
		}
		want := c.Nth - 1
		if c.NthLast {
			want = n.siblingCount() - c.Nth
		}
		if n.index != want {
			return false
		}
	}
	if c.Has != nil && !hasDescendantMatch(c.Has, n) {
		return false
	}
	if c.Expr != nil && !evalSelEx(c.Expr, n.v) {
		return false
	}
	return true
}

func hasDescendantMatch(q *Query, n *node) bool {
	found := false
	for _, child := range children(n) {
		walkFrom(child, func(m *node) {
			if matchesAny(q, m) {
				found = true
			}
		})
	}
	return found
}

func children(n *node) []*node {
	var out []*node
	switch n.v.Kind() {
	case value.Array:
		for i := 0; i < n.v.Size(); i++ {
			out = append(out, &node{v: value.ArrayGet(n.v, i), index: i, parent: n})
		}
	case value.Object:
		for _, k := range value.ObjectKeys(n.v) {
			out = append(out, &node{v: value.ObjectGet(n.v, k), key: k, index: -1, parent: n})
		}
	}
	return out
}

func matchesAny(q *Query, n *node) bool {
	for _, chain := range q.Alternatives {
		if matchChain(chain, n) {
			return true
		}
	}
	return false
}

func matchChain(chain Chain, n *node) bool {
	if len(chain) == 0 {
		return false
	}
	last := chain[len(chain)-1]
	if !matchCompound(last, n) {
		return false
	}
	cur := n
	for i := len(chain) - 1; i > 0; i-- {
		prev := chain[i-1]
		switch chain[i].Combinator {
		case Child:
			if cur.parent == nil || !matchCompound(prev, cur.parent) {
				return false
			}
			cur = cur.parent
		case Descendant:
			anc := cur.parent
			found := false
			for anc != nil {
				if matchCompound(prev, anc) {
					found = true
					cur = anc
					break
				}
				anc = anc.parent
			}
			if !found {
				return false
			}
		case Sibling:
			found := false
			for _, sib := range siblingsBefore(cur) {
				if matchCompound(prev, sib) {
					found = true
					cur = sib
					break
				}
			}
			if !found {
				return false
			}
		}
	}
	return true
}

func siblingsBefore(n *node) []*node {
	if n.parent == nil {
		return nil
	}
	var out []*node
	p := n.parent
	switch p.v.Kind() {
	case value.Array:
		for i := 0; i < n.index; i++ {
			out = append(out, &node{v: value.ArrayGet(p.v, i), index: i, parent: p})
		}
	case value.Object:
		for _, k := range value.ObjectKeys(p.v) {
			if k == n.key {
				continue
			}
			out = append(out, &node{v: value.ObjectGet(p.v, k), key: k, index: -1, parent: p})
		}
	}
	return out
}

// walkFrom visits n, then every node in its subtree, in document order.
func walkFrom(n *node, visit func(*node)) {
	visit(n)
	for _, child := range children(n) {
		walkFrom(child, visit)
	}
}
