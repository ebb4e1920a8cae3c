package orleans

import (
	"reflect"

	cbor "github.com/fxamacker/cbor/v2"
)

// RegisterCBORCodec registers a codec for the concrete type of template that
// encodes values as deterministic CBOR (RFC 8949 core profile). Deep copy is
// an encode/decode round trip, so it works for any type the codec can
// serialize at all.
func RegisterCBORCodec(registry *Registry, template any) error {
	if template == nil {
		return errorf(CodeInvalidArgument, "register cbor codec: nil template")
	}
	enc, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		return err
	}
	dec, err := cbor.DecOptions{}.DecMode()
	if err != nil {
		return err
	}
	typ := reflect.TypeOf(template)
	decode := func(wire []byte, expected reflect.Type) (any, error) {
		if expected == nil {
			expected = typ
		}
		if expected.Kind() == reflect.Pointer {
			out := reflect.New(expected.Elem())
			if err := dec.Unmarshal(wire, out.Interface()); err != nil {
				return nil, err
			}
			return out.Interface(), nil
		}
		out := reflect.New(expected)
		if err := dec.Unmarshal(wire, out.Interface()); err != nil {
			return nil, err
		}
		return out.Elem().Interface(), nil
	}
	return registry.Register(
		typ,
		func(value any) any {
			wire, err := enc.Marshal(value)
			if err != nil {
				return value
			}
			copied, err := decode(wire, reflect.TypeOf(value))
			if err != nil {
				return value
			}
			return copied
		},
		func(value any, writer TokenWriter, _ reflect.Type) error {
			wire, err := enc.Marshal(value)
			if err != nil {
				return err
			}
			return writer.WriteBytes(wire)
		},
		func(expected reflect.Type, reader TokenReader) (any, error) {
			wire, err := reader.ReadBytes()
			if err != nil {
				return nil, err
			}
			return decode(wire, expected)
		},
	)
}
