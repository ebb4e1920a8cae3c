package orleans

import (
	"reflect"
	"testing"

	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/rikace/orleans/internal/assert"
	"github.com/rikace/orleans/internal/tokentest"
)

func TestRegisterProtoCodecValidation(t *testing.T) {
	t.Parallel()
	registry := NewRegistry()
	assert.Equal(t, CodeOf(RegisterProtoCodec(registry, nil)), CodeInvalidArgument)
}

func TestProtoCodecRoundTrip(t *testing.T) {
	t.Parallel()
	registry := NewRegistry()
	assert.Nil(t, RegisterProtoCodec(registry, (*wrapperspb.StringValue)(nil)))

	codec, ok := registry.Lookup(reflect.TypeOf((*wrapperspb.StringValue)(nil)))
	assert.True(t, ok)

	want := wrapperspb.String("grain-7")
	stream := &tokentest.Stream{}
	assert.Nil(t, codec.Serialize(want, stream, reflect.TypeOf(want)))
	got, err := codec.Deserialize(reflect.TypeOf(want), stream)
	assert.Nil(t, err)
	assert.Equal(t, got.(*wrapperspb.StringValue), want)
}

func TestProtoCodecDeepCopy(t *testing.T) {
	t.Parallel()
	registry := NewRegistry()
	original, err := structpb.NewStruct(map[string]any{"region": "us-east"})
	assert.Nil(t, err)
	assert.Nil(t, RegisterProtoCodec(registry, original))

	codec, ok := registry.Lookup(reflect.TypeOf(original))
	assert.True(t, ok)
	copied := codec.DeepCopy(original).(*structpb.Struct)
	assert.Equal(t, copied, original)

	// Mutating the copy must not leak into the original.
	copied.Fields["region"] = structpb.NewStringValue("eu-west")
	assert.Equal(t, original.Fields["region"].GetStringValue(), "us-east")
}

func TestProtoCodecRejectsForeignValues(t *testing.T) {
	t.Parallel()
	registry := NewRegistry()
	assert.Nil(t, RegisterProtoCodec(registry, (*wrapperspb.StringValue)(nil)))
	codec, _ := registry.Lookup(reflect.TypeOf((*wrapperspb.StringValue)(nil)))
	err := codec.Serialize(42, &tokentest.Stream{}, nil)
	assert.Equal(t, CodeOf(err), CodeInvalidArgument)
}
