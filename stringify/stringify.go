// Package stringify walks a value.Value tree and emits JSON text,
// mirroring jgenerate.c's event-driven writer: the same recursive
// descent a DOM-consuming serializer would use, just writing bytes
// instead of re-entering a SAX callback table.
package stringify

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/webosose/pbnjson-go/value"
)

// Option configures the writer.
type Option func(*writer)

// Indent enables pretty-printing: one copy of indent per nesting level,
// plus a newline after every structural comma and opening bracket. indent
// must contain only JSON whitespace characters (space, \t, \n, \r, \v,
// \f); Write returns an error otherwise.
func Indent(indent string) Option {
	return func(w *writer) { w.indent = indent; w.pretty = true }
}

// Write serializes v as compact JSON.
func Write(v *value.Value) ([]byte, error) {
	return render(v)
}

// WritePretty serializes v with the given indent string repeated once per
// nesting level.
func WritePretty(v *value.Value, indent string) ([]byte, error) {
	return render(v, Indent(indent))
}

func render(v *value.Value, opts ...Option) ([]byte, error) {
	w := &writer{}
	for _, opt := range opts {
		opt(w)
	}
	if w.pretty {
		if err := validateIndent(w.indent); err != nil {
			return nil, err
		}
	}
	if err := w.value(v, 0); err != nil {
		return nil, err
	}
	return w.buf, nil
}

func validateIndent(s string) error {
	for _, r := range s {
		switch r {
		case ' ', '\t', '\n', '\r', '\v', '\f':
		default:
			return fmt.Errorf("stringify: indent must contain only whitespace, got %q", r)
		}
	}
	return nil
}

type writer struct {
	buf    []byte
	indent string
	pretty bool
}

func (w *writer) newline(depth int) {
	if !w.pretty {
		return
	}
	w.buf = append(w.buf, '\n')
	for i := 0; i < depth; i++ {
		w.buf = append(w.buf, w.indent...)
	}
}

func (w *writer) value(v *value.Value, depth int) error {
	if v == nil {
		return fmt.Errorf("stringify: nil value")
	}
	switch v.Kind() {
	case value.Invalid:
		return fmt.Errorf("stringify: cannot serialize an invalid value")
	case value.Null:
		w.buf = append(w.buf, "null"...)
	case value.Bool:
		b, _ := v.AsBool()
		if b {
			w.buf = append(w.buf, "true"...)
		} else {
			w.buf = append(w.buf, "false"...)
		}
	case value.Number:
		return w.number(v)
	case value.String:
		s, _ := v.AsString()
		w.string(s)
	case value.Array:
		return w.array(v, depth)
	case value.Object:
		return w.object(v, depth)
	}
	return nil
}

// number formats by the value's internal encoding, per the variant
// emission rules: raw bytes pass through verbatim, i64 uses decimal, f64
// uses the general format truncated to 14 significant digits the way the
// C library's number-to-string helper does.
func (w *writer) number(v *value.Value) error {
	switch v.NumKind() {
	case value.NumRaw:
		raw, _ := v.AsRawBytes()
		w.buf = append(w.buf, raw...)
	case value.NumI64:
		i, _ := v.AsI64()
		w.buf = strconv.AppendInt(w.buf, i, 10)
	case value.NumF64:
		f, _ := v.AsF64()
		w.buf = append(w.buf, formatFloat(f)...)
	}
	return nil
}

func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', 14, 64)
	// Go renders the exponent as e+05; JSON numbers don't require the
	// leading zero pad, but either form parses, so only normalize the
	// capitalization to match %.14g's lowercase 'e'.
	return strings.ToLower(s)
}

var hexDigits = "0123456789abcdef"

// string writes s as a JSON string literal, escaping the characters RFC
// 8259 requires plus every other control character as \u00XX.
func (w *writer) string(s []byte) {
	w.buf = append(w.buf, '"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '"':
			w.buf = append(w.buf, '\\', '"')
		case '\\':
			w.buf = append(w.buf, '\\', '\\')
		case '\n':
			w.buf = append(w.buf, '\\', 'n')
		case '\r':
			w.buf = append(w.buf, '\\', 'r')
		case '\t':
			w.buf = append(w.buf, '\\', 't')
		case '\b':
			w.buf = append(w.buf, '\\', 'b')
		case '\f':
			w.buf = append(w.buf, '\\', 'f')
		default:
			if c < 0x20 {
				w.buf = append(w.buf, '\\', 'u', '0', '0', hexDigits[c>>4], hexDigits[c&0xF])
				continue
			}
			w.buf = append(w.buf, c)
		}
	}
	w.buf = append(w.buf, '"')
}

func (w *writer) array(v *value.Value, depth int) error {
	w.buf = append(w.buf, '[')
	n := v.Size()
	for i := 0; i < n; i++ {
		if i > 0 {
			w.buf = append(w.buf, ',')
		}
		w.newline(depth + 1)
		if err := w.value(value.ArrayGet(v, i), depth+1); err != nil {
			return err
		}
	}
	if n > 0 {
		w.newline(depth)
	}
	w.buf = append(w.buf, ']')
	return nil
}

func (w *writer) object(v *value.Value, depth int) error {
	w.buf = append(w.buf, '{')
	keys := value.ObjectKeys(v)
	for i, k := range keys {
		if i > 0 {
			w.buf = append(w.buf, ',')
		}
		w.newline(depth + 1)
		w.string([]byte(k))
		w.buf = append(w.buf, ':')
		if w.pretty {
			w.buf = append(w.buf, ' ')
		}
		if err := w.value(value.ObjectGet(v, k), depth+1); err != nil {
			return err
		}
	}
	if len(keys) > 0 {
		w.newline(depth)
	}
	w.buf = append(w.buf, '}')
	return nil
}
