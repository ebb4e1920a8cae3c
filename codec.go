package orleans

import (
	"reflect"
	"sync"
)

// A TokenWriter is the engine-supplied sink custom serializers write to. It's
// a token stream, not a byte stream: WriteValue hands a nested value back to
// the engine's own serialization entry point, so codecs compose with the
// engine's default handling of primitives and already-registered types.
type TokenWriter interface {
	WriteString(string) error
	WriteBytes([]byte) error
	WriteValue(any) error
}

// A TokenReader is the engine-supplied source custom deserializers read from.
// Reads must mirror the writes the paired serializer performed, in order.
type TokenReader interface {
	ReadString() (string, error)
	ReadBytes() ([]byte, error)
	ReadValue(expected reflect.Type) (any, error)
}

// A DeepCopierFunc produces a copy of value that the engine may hand to
// another caller. Immutable types can return the value unchanged.
type DeepCopierFunc func(value any) any

// A SerializerFunc writes value to the token stream. The expected type is the
// static type the engine will pass to the matching DeserializerFunc.
type SerializerFunc func(value any, writer TokenWriter, expected reflect.Type) error

// A DeserializerFunc reconstructs a value of the expected type from the token
// stream.
type DeserializerFunc func(expected reflect.Type, reader TokenReader) (any, error)

// A Codec bundles the three operations the engine delegates for a registered
// type. The override is total: when a lookup succeeds, the engine's default
// reflective path for that type is never invoked.
type Codec interface {
	DeepCopy(value any) any
	Serialize(value any, writer TokenWriter, expected reflect.Type) error
	Deserialize(expected reflect.Type, reader TokenReader) (any, error)
}

type codecEntry struct {
	typ          reflect.Type
	copier       DeepCopierFunc
	serializer   SerializerFunc
	deserializer DeserializerFunc
}

var _ Codec = (*codecEntry)(nil)

func (e *codecEntry) DeepCopy(value any) any {
	return e.copier(value)
}

func (e *codecEntry) Serialize(value any, writer TokenWriter, expected reflect.Type) error {
	return e.serializer(value, writer, expected)
}

func (e *codecEntry) Deserialize(expected reflect.Type, reader TokenReader) (any, error) {
	return e.deserializer(expected, reader)
}

// A Registry maps exact runtime types to codecs. The serialization engine
// consults it before deep-copying, serializing, or deserializing any value;
// an absent entry means "use the default structural path".
//
// Matching is by type identity only - registering a type does not affect
// types that embed it or interfaces it satisfies.
type Registry struct {
	policy  ConflictPolicy
	entries sync.Map // reflect.Type -> *codecEntry
}

// NewRegistry constructs an empty codec registry. Registries are typically
// built during process initialization and handed to the engine by reference.
func NewRegistry(options ...RegistryOption) *Registry {
	cfg := registryConfig{policy: ConflictReplace}
	for _, opt := range options {
		opt.applyToRegistry(&cfg)
	}
	return &Registry{policy: cfg.policy}
}

// Register associates a type with a codec function triple. All three
// functions are required; a nil type or nil function fails with
// CodeInvalidArgument before the mapping is touched.
//
// Behavior on duplicate registration follows the registry's ConflictPolicy.
// Under the default ConflictReplace, the new entry atomically replaces the
// old one and later lookups never observe the stale codec.
func (r *Registry) Register(typ reflect.Type, copier DeepCopierFunc, serializer SerializerFunc, deserializer DeserializerFunc) error {
	if typ == nil {
		return errorf(CodeInvalidArgument, "register codec: nil type")
	}
	if copier == nil {
		return errorf(CodeInvalidArgument, "register codec for %s: nil deep copier", typ)
	}
	if serializer == nil {
		return errorf(CodeInvalidArgument, "register codec for %s: nil serializer", typ)
	}
	if deserializer == nil {
		return errorf(CodeInvalidArgument, "register codec for %s: nil deserializer", typ)
	}
	entry := &codecEntry{
		typ:          typ,
		copier:       copier,
		serializer:   serializer,
		deserializer: deserializer,
	}
	switch r.policy {
	case ConflictSkip:
		r.entries.LoadOrStore(typ, entry)
	case ConflictError:
		if _, loaded := r.entries.LoadOrStore(typ, entry); loaded {
			return errorf(CodeAlreadyRegistered, "register codec for %s: already registered", typ)
		}
	default: // ConflictReplace: last write wins
		r.entries.Store(typ, entry)
	}
	return nil
}

// Lookup returns the codec registered for exactly typ. A false result is not
// an error - it tells the engine this registry has no opinion about the type.
// Lookup is safe to call concurrently with Register and never observes a
// partially constructed entry.
func (r *Registry) Lookup(typ reflect.Type) (Codec, bool) {
	value, ok := r.entries.Load(typ)
	if !ok {
		return nil, false
	}
	return value.(*codecEntry), true
}

// Types returns a copy of the registered types. The returned slice is safe
// for the caller to mutate.
func (r *Registry) Types() []reflect.Type {
	var types []reflect.Type
	r.entries.Range(func(key, _ any) bool {
		types = append(types, key.(reflect.Type))
		return true
	})
	return types
}
