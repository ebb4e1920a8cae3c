package orleans

import (
	"reflect"

	"google.golang.org/protobuf/proto"
)

// RegisterProtoCodec registers a codec for the concrete type of msg, so the
// engine serializes that message type as protobuf wire bytes instead of
// walking its fields structurally. Each generated message type needs its own
// registration; matching is by exact type.
func RegisterProtoCodec(registry *Registry, msg proto.Message) error {
	if msg == nil {
		return errorf(CodeInvalidArgument, "register proto codec: nil message")
	}
	typ := reflect.TypeOf(msg)
	return registry.Register(
		typ,
		func(value any) any {
			message, ok := value.(proto.Message)
			if !ok {
				return value
			}
			return proto.Clone(message)
		},
		func(value any, writer TokenWriter, _ reflect.Type) error {
			message, ok := value.(proto.Message)
			if !ok {
				return errNotProtobuf(value)
			}
			wire, err := proto.Marshal(message)
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
			if expected == nil {
				expected = typ
			}
			if expected.Kind() != reflect.Pointer {
				return nil, errNotProtobuf(reflect.Zero(expected).Interface())
			}
			message, ok := reflect.New(expected.Elem()).Interface().(proto.Message)
			if !ok {
				return nil, errNotProtobuf(reflect.Zero(expected).Interface())
			}
			if err := proto.Unmarshal(wire, message); err != nil {
				return nil, err
			}
			return message, nil
		},
	)
}

func errNotProtobuf(m any) error {
	return errorf(CodeInvalidArgument, "%T doesn't implement proto.Message", m)
}
