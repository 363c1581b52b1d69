// Package header implements the header-field container: an
// insertion-ordered sequence of (name, value) pairs with
// case-insensitive ASCII name lookup and multi-valued field support.
package header

import (
	"fmt"
	"io"
	"strings"
)

// Field is a single (name, value) header entry. Name equality is
// case-insensitive ASCII; two fields may legally share a name (a
// multi-valued header).
type Field struct {
	Name  string
	Value string
}

func sameName(a, b string) bool {
	return strings.EqualFold(a, b)
}

// Container is an insertion-ordered sequence of Fields. The zero value
// is a valid, empty Container.
type Container struct {
	fields []Field
}

// NewContainer returns an empty Container.
func NewContainer() *Container {
	return &Container{}
}

// Iter returns the first field whose name matches name case-insensitively.
func (c *Container) Iter(name string) (Field, bool) {
	for _, f := range c.fields {
		if sameName(f.Name, name) {
			return f, true
		}
	}
	return Field{}, false
}

// Get returns the value of the first field matching name, or "" if none.
func (c *Container) Get(name string) string {
	f, ok := c.Iter(name)
	if !ok {
		return ""
	}
	return f.Value
}

// Values returns every value stored under name, in insertion order.
func (c *Container) Values(name string) []string {
	var out []string
	for _, f := range c.fields {
		if sameName(f.Name, name) {
			out = append(out, f.Value)
		}
	}
	return out
}

// Has reports, for each name given, whether at least one field matches.
// A single name yields a one-element slice; callers checking one name
// typically write `c.Has("X-Foo")[0]`.
func (c *Container) Has(names ...string) []bool {
	out := make([]bool, len(names))
	for i, n := range names {
		_, out[i] = c.Iter(n)
	}
	return out
}

// Set inserts a new field. It does not replace any existing field with
// the same name — callers that want replace semantics must call EraseIf
// first.
func (c *Container) Set(name, value string) {
	c.fields = append(c.fields, Field{Name: name, Value: value})
}

// EraseIf removes every field whose name matches name case-insensitively.
// It is the primitive callers combine with Set to get replace semantics.
func (c *Container) EraseIf(name string) {
	kept := c.fields[:0]
	for _, f := range c.fields {
		if !sameName(f.Name, name) {
			kept = append(kept, f)
		}
	}
	c.fields = kept
}

// Replace removes every existing field named name, then inserts the new
// (name, value) pair. It is sugar over EraseIf + Set for the common case.
func (c *Container) Replace(name, value string) {
	c.EraseIf(name)
	c.Set(name, value)
}

// Empty reports whether the container holds zero fields.
func (c *Container) Empty() bool {
	return len(c.fields) == 0
}

// Size returns the number of fields stored (counting multi-valued
// headers once per value).
func (c *Container) Size() int {
	return len(c.fields)
}

// All returns the fields in insertion order. The returned slice is a
// copy; mutating it does not affect the container.
func (c *Container) All() []Field {
	out := make([]Field, len(c.fields))
	copy(out, c.fields)
	return out
}

// Equal reports whether c and other hold the same ordered sequence of
// (lowercase-name, value) entries.
func (c *Container) Equal(other *Container) bool {
	if len(c.fields) != len(other.fields) {
		return false
	}
	for i, f := range c.fields {
		g := other.fields[i]
		if !strings.EqualFold(f.Name, g.Name) || f.Value != g.Value {
			return false
		}
	}
	return true
}

// WriteTo serializes each field as "Name: Value\r\n", in insertion order.
// No value sanitization is performed: callers must not place CR/LF
// inside a value (see the open design question in DESIGN.md).
func (c *Container) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, f := range c.fields {
		n, err := fmt.Fprintf(w, "%s: %s\r\n", f.Name, f.Value)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
