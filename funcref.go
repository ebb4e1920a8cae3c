package orleans

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sync"
)

// A StreamID identifies the stream a filtered item belongs to. It's passed
// through to the predicate unchanged.
type StreamID struct {
	Namespace string
	Key       string
}

func (id StreamID) String() string {
	return id.Namespace + "/" + id.Key
}

// A PredicateFunc decides whether an item on a stream passes a filter. Only
// package-level functions with exactly this shape can travel between
// processes; filterData is the opaque payload the reference was constructed
// with.
type PredicateFunc func(id StreamID, filterData any, item any) bool

type referenceState uint8

const (
	stateHydrated referenceState = iota // constructed from a live predicate
	stateDehydrated                     // identity only, predicate not yet resolved
	stateResolved                       // predicate resolved and cached, terminal
)

// A FilterReference carries a reference to a fixed predicate function across
// process boundaries. It never transmits code: the persisted form is the
// predicate's declaring scope, its name, and the caller's opaque filter data.
// On the receiving side the predicate is resolved lazily, on first Evaluate,
// and the resolution is cached for the life of the instance.
//
// The zero value is not useful; construct with NewFilterReference or
// RestoreFilterReference, or unmarshal from JSON or a registered codec.
type FilterReference struct {
	filterData any
	className  string
	methodName string
	resolver   *Resolver

	mu       sync.Mutex
	state    referenceState
	resolved PredicateFunc
}

// NewFilterReference wraps a live predicate together with opaque filter data.
// The data is stored as-is: the reference neither copies nor interprets it,
// so the caller keeps whatever mutability contract it had.
//
// The predicate must be a package-level function. A nil predicate fails with
// CodeInvalidArgument; method values and closures fail with
// CodeInvalidPredicate, since their identity can't be reconstructed in
// another process. The returned reference is immediately invocable.
func NewFilterReference(filterData any, predicate PredicateFunc, options ...ReferenceOption) (*FilterReference, error) {
	class, method, err := predicateIdentity(predicate)
	if err != nil {
		return nil, err
	}
	cfg := referenceConfig{}
	for _, opt := range options {
		opt.applyToReference(&cfg)
	}
	return &FilterReference{
		filterData: filterData,
		className:  class,
		methodName: method,
		resolver:   cfg.resolver,
		state:      stateHydrated,
		resolved:   predicate,
	}, nil
}

// RestoreFilterReference reconstructs a reference from a dehydrated identity,
// typically on the receiving side of a process boundary. The predicate isn't
// resolved until the first Evaluate, so restoring never fails - a bad
// identity surfaces as a coded error from Evaluate instead.
func RestoreFilterReference(filterData any, className, methodName string, options ...ReferenceOption) *FilterReference {
	cfg := referenceConfig{}
	for _, opt := range options {
		opt.applyToReference(&cfg)
	}
	return &FilterReference{
		filterData: filterData,
		className:  className,
		methodName: methodName,
		resolver:   cfg.resolver,
		state:      stateDehydrated,
	}
}

// FilterData returns the opaque payload the reference was constructed with.
func (f *FilterReference) FilterData() any { return f.filterData }

// ClassName returns the fully qualified name of the predicate's declaring
// scope: a package path for package-level functions, or a package-qualified
// type name for methods resolved on a registered type.
func (f *FilterReference) ClassName() string { return f.className }

// MethodName returns the predicate's simple name within its declaring scope.
func (f *FilterReference) MethodName() string { return f.methodName }

// Evaluate runs the predicate against an item. A freshly restored reference
// resolves its predicate on the first call and caches the result, so the
// resolution cost is paid at most once per instance; resolution failures
// surface here as coded errors and are not cached, a later call simply fails
// the same way.
func (f *FilterReference) Evaluate(id StreamID, item any) (bool, error) {
	predicate, err := f.predicate()
	if err != nil {
		return false, err
	}
	return predicate(id, f.filterData, item), nil
}

// predicate returns the resolved predicate, rehydrating it first if needed.
// Resolved is terminal: once set, the cached predicate is reused for the
// remainder of the instance's life.
func (f *FilterReference) predicate() (PredicateFunc, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch f.state {
	case stateResolved:
		return f.resolved, nil
	case stateHydrated:
		f.state = stateResolved
		return f.resolved, nil
	}
	resolver := f.resolver
	if resolver == nil {
		resolver = defaultResolver
	}
	resolved, err := resolver.resolvePredicate(f.className, f.methodName)
	if err != nil {
		return nil, err
	}
	f.revalidate(resolver, resolved)
	f.resolved = resolved
	f.state = stateResolved
	return resolved, nil
}

// revalidate re-checks a freshly rehydrated predicate against the shape
// contract. In diagnostics builds a violation is an internal consistency
// failure - the serialized identity and the running code have drifted - and
// panics rather than returning a recoverable error. Release builds skip the
// check entirely; the asymmetry is deliberate.
func (f *FilterReference) revalidate(resolver *Resolver, resolved PredicateFunc) {
	if !diagnosticChecks {
		return
	}
	if resolved == nil {
		panic(fmt.Sprintf("orleans: %s.%s rehydrated to a nil predicate", f.className, f.methodName))
	}
	if _, err := resolver.resolvePredicate(f.className, f.methodName); err != nil {
		panic(fmt.Sprintf("orleans: %s.%s failed re-validation after rehydration: %v", f.className, f.methodName, err))
	}
}

// filterReferenceWire is the persisted shape of a reference. Field names are
// stable and order-independent; the resolved predicate is never part of it.
type filterReferenceWire struct {
	FilterData any    `json:"FilterData"`
	MethodName string `json:"MethodName"`
	ClassName  string `json:"ClassName"`
}

// MarshalJSON implements json.Marshaler. Only the identity fields and the
// opaque payload are persisted.
func (f *FilterReference) MarshalJSON() ([]byte, error) {
	return json.Marshal(filterReferenceWire{
		FilterData: f.filterData,
		MethodName: f.methodName,
		ClassName:  f.className,
	})
}

// UnmarshalJSON implements json.Unmarshaler. The result is a dehydrated
// reference; the predicate resolves on first Evaluate.
func (f *FilterReference) UnmarshalJSON(data []byte) error {
	var wire filterReferenceWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.filterData = wire.FilterData
	f.className = wire.ClassName
	f.methodName = wire.MethodName
	f.state = stateDehydrated
	f.resolved = nil
	return nil
}

// RegisterFilterCodec registers a codec for *FilterReference so the engine
// serializes references through their dehydrated identity instead of its
// structural default. Deep copy returns the reference unchanged: the wrapper
// owns its payload and the identity fields are immutable. Options apply to
// references produced by deserialization, so receivers can pin a resolver.
func RegisterFilterCodec(registry *Registry, options ...ReferenceOption) error {
	return registry.Register(
		reflect.TypeOf((*FilterReference)(nil)),
		func(value any) any { return value },
		func(value any, writer TokenWriter, _ reflect.Type) error {
			ref, ok := value.(*FilterReference)
			if !ok {
				return errorf(CodeInvalidArgument, "filter codec: %T is not a *FilterReference", value)
			}
			if err := writer.WriteString(ref.className); err != nil {
				return err
			}
			if err := writer.WriteString(ref.methodName); err != nil {
				return err
			}
			return writer.WriteValue(ref.filterData)
		},
		func(_ reflect.Type, reader TokenReader) (any, error) {
			class, err := reader.ReadString()
			if err != nil {
				return nil, err
			}
			method, err := reader.ReadString()
			if err != nil {
				return nil, err
			}
			data, err := reader.ReadValue(nil)
			if err != nil {
				return nil, err
			}
			return RestoreFilterReference(data, class, method, options...), nil
		},
	)
}
