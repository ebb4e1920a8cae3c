// Package jsonvalue provides immutable JSON values: a whole-document type
// and a family of node types, one per JSON kind. Values are parsed once and
// never mutated, so sharing them across callers is safe and deep copy is the
// identity function.
//
// Every value knows its canonical text form: object members sorted by key,
// no insignificant whitespace. Two values are equal exactly when their
// canonical texts match.
package jsonvalue

import (
	"encoding/json"
	"fmt"
	"sort"
)

// A Node is one JSON value: an *Object, *Array, *String, *Number, *Bool, or
// *Null.
type Node interface {
	// Text returns the node's canonical JSON text.
	Text() string

	value() any
}

// A Document is a complete, immutable JSON document.
type Document struct {
	root Node
}

// Parse decodes a JSON document from its text form.
func Parse(text string) (*Document, error) {
	root, err := Decode(text)
	if err != nil {
		return nil, err
	}
	return &Document{root: root}, nil
}

// Root returns the document's top-level value.
func (d *Document) Root() Node { return d.root }

// Text returns the document's canonical text form.
func (d *Document) Text() string { return d.root.Text() }

// Equal reports whether two documents are structurally equal.
func (d *Document) Equal(other *Document) bool {
	if d == nil || other == nil {
		return d == other
	}
	return d.Text() == other.Text()
}

// Decode parses a single JSON value into the concrete node for its kind.
func Decode(text string) (Node, error) {
	var decoded any
	if err := json.Unmarshal([]byte(text), &decoded); err != nil {
		return nil, fmt.Errorf("jsonvalue: parse: %w", err)
	}
	return nodeOf(decoded), nil
}

// nodeOf wraps a value decoded by encoding/json. The decoded trees are owned
// exclusively by the nodes built here, which is what makes them immutable.
func nodeOf(decoded any) Node {
	switch value := decoded.(type) {
	case map[string]any:
		return &Object{members: value}
	case []any:
		return &Array{items: value}
	case string:
		return &String{val: value}
	case float64:
		return &Number{val: value}
	case bool:
		return &Bool{val: value}
	default:
		return &Null{}
	}
}

func canonical(decoded any) string {
	// encoding/json sorts map keys, which is exactly the canonical form.
	text, err := json.Marshal(decoded)
	if err != nil {
		// Decoded trees contain only maps, slices, strings, float64s, bools,
		// and nils, all of which marshal.
		panic(fmt.Sprintf("jsonvalue: canonicalize: %v", err))
	}
	return string(text)
}

// An Object is an immutable JSON object.
type Object struct {
	members map[string]any
}

func (o *Object) Text() string { return canonical(o.members) }
func (o *Object) value() any   { return o.members }

// Len returns the number of members.
func (o *Object) Len() int { return len(o.members) }

// Member returns the named member, if present.
func (o *Object) Member(key string) (Node, bool) {
	decoded, ok := o.members[key]
	if !ok {
		return nil, false
	}
	return nodeOf(decoded), true
}

// Keys returns the member names in sorted order.
func (o *Object) Keys() []string {
	keys := make([]string, 0, len(o.members))
	for key := range o.members {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// An Array is an immutable JSON array.
type Array struct {
	items []any
}

func (a *Array) Text() string { return canonical(a.items) }
func (a *Array) value() any   { return a.items }

// Len returns the number of items.
func (a *Array) Len() int { return len(a.items) }

// Item returns the item at index i.
func (a *Array) Item(i int) Node { return nodeOf(a.items[i]) }

// A String is a JSON string.
type String struct {
	val string
}

func (s *String) Text() string { return canonical(s.val) }
func (s *String) value() any   { return s.val }

// Value returns the string's contents.
func (s *String) Value() string { return s.val }

// A Number is a JSON number.
type Number struct {
	val float64
}

func (n *Number) Text() string { return canonical(n.val) }
func (n *Number) value() any   { return n.val }

// Value returns the number as a float64, encoding/json's native numeric type.
func (n *Number) Value() float64 { return n.val }

// A Bool is a JSON boolean.
type Bool struct {
	val bool
}

func (b *Bool) Text() string { return canonical(b.val) }
func (b *Bool) value() any   { return b.val }

// Value returns the boolean.
func (b *Bool) Value() bool { return b.val }

// A Null is a JSON null.
type Null struct{}

func (*Null) Text() string { return "null" }
func (*Null) value() any   { return nil }
