package jsonvalue

import (
	"fmt"
	"reflect"

	"github.com/rikace/orleans"
)

// RegisterCodecs registers codecs for *Document and every node type, so the
// engine moves JSON values as a single canonical-text token instead of
// walking their internals. Registration is per exact type; passing a node
// where a different node type is expected fails at deserialization.
//
// Deep copy is the identity function: all types in this package are
// immutable.
func RegisterCodecs(registry *orleans.Registry) error {
	identity := func(value any) any { return value }
	serialize := func(value any, writer orleans.TokenWriter, _ reflect.Type) error {
		text, err := textOf(value)
		if err != nil {
			return err
		}
		return writer.WriteString(text)
	}
	deserialize := func(expected reflect.Type, reader orleans.TokenReader) (any, error) {
		text, err := reader.ReadString()
		if err != nil {
			return nil, err
		}
		return decodeAs(expected, text)
	}
	for _, template := range []any{
		(*Document)(nil),
		(*Object)(nil),
		(*Array)(nil),
		(*String)(nil),
		(*Number)(nil),
		(*Bool)(nil),
		(*Null)(nil),
	} {
		if err := registry.Register(reflect.TypeOf(template), identity, serialize, deserialize); err != nil {
			return err
		}
	}
	return nil
}

func textOf(value any) (string, error) {
	switch v := value.(type) {
	case *Document:
		return v.Text(), nil
	case Node:
		return v.Text(), nil
	default:
		return "", fmt.Errorf("jsonvalue: %T is not a jsonvalue type", value)
	}
}

func decodeAs(expected reflect.Type, text string) (any, error) {
	if expected == reflect.TypeOf((*Document)(nil)) {
		return Parse(text)
	}
	node, err := Decode(text)
	if err != nil {
		return nil, err
	}
	if expected != nil && reflect.TypeOf(node) != expected {
		return nil, fmt.Errorf("jsonvalue: decoded %T, want %s", node, expected)
	}
	return node, nil
}
