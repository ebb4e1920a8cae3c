package orleans

import (
	"reflect"
	"regexp"
	"runtime"
	"strings"
	"sync"
)

// A Resolver maps the fully qualified names carried by dehydrated filter
// references back to runtime types and predicate functions. It is populated
// explicitly - every participating process registers the same types and
// functions during initialization, so rehydration is a deterministic lookup
// rather than a scan of arbitrary loaded code.
//
// All methods are safe for concurrent use. The resolution cache is
// append-only: type identities don't change during a process's lifetime, so
// cached results are never invalidated. Two goroutines racing to resolve the
// same name may both perform the lookup; they write the same result.
type Resolver struct {
	types  sync.Map // string -> reflect.Type
	funcs  sync.Map // funcKey -> PredicateFunc
	scopes sync.Map // string -> struct{}, package scopes with registered funcs
	cache  sync.Map // string -> reflect.Type, resolved names
}

type funcKey struct {
	class  string
	method string
}

var defaultResolver = NewResolver()

// NewResolver constructs an empty resolver. Most programs use the process-wide
// Default resolver; explicit instances exist so tests can rehydrate in a
// fresh resolution context.
func NewResolver() *Resolver {
	return &Resolver{}
}

// Default returns the process-wide resolver. FilterReferences constructed
// without WithResolver rehydrate through it.
func Default() *Resolver {
	return defaultResolver
}

// RegisterPredicate registers a package-level predicate with the process-wide
// resolver. Call it during initialization in every process that might
// rehydrate a reference to the predicate.
func RegisterPredicate(fn PredicateFunc) error {
	return defaultResolver.RegisterFunc(fn)
}

// RegisterFilterType registers a named type with the process-wide resolver,
// making its predicate-shaped methods rehydratable by name.
func RegisterFilterType(instance any) (string, error) {
	return defaultResolver.RegisterType(instance)
}

// RegisterType makes the concrete type of instance resolvable by name. The
// type must be named; its predicate-shaped methods become available to
// rehydration under "<package path>.<TypeName>". The returned string is the
// fully qualified name a dehydrated reference would carry.
func (r *Resolver) RegisterType(instance any) (string, error) {
	if instance == nil {
		return "", errorf(CodeInvalidArgument, "register type: nil instance")
	}
	typ := reflect.TypeOf(instance)
	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	if typ.Name() == "" || typ.PkgPath() == "" {
		return "", errorf(CodeInvalidArgument, "register type: %s is not a named type", typ)
	}
	name := typ.PkgPath() + "." + typ.Name()
	r.types.Store(name, typ)
	return name, nil
}

// RegisterFunc makes a package-level predicate function resolvable under its
// runtime symbol name. Method values and closures are rejected with
// CodeInvalidPredicate: they capture state that can't be reconstructed in
// another process.
func (r *Resolver) RegisterFunc(fn PredicateFunc) error {
	class, method, err := predicateIdentity(fn)
	if err != nil {
		return err
	}
	r.funcs.Store(funcKey{class: class, method: method}, fn)
	r.scopes.Store(class, struct{}{})
	return nil
}

// ResolveType returns the registered type with the given fully qualified
// name. The first call for a name performs the lookup (exact match first,
// then a unique short-name match) and caches the result; later calls are
// cache hits. Fails with CodeTypeResolution if no registered type matches.
func (r *Resolver) ResolveType(name string) (reflect.Type, error) {
	if cached, ok := r.cache.Load(name); ok {
		return cached.(reflect.Type), nil
	}
	if typ, ok := r.types.Load(name); ok {
		r.cache.Store(name, typ)
		return typ.(reflect.Type), nil
	}
	// Fall back to a unique match on the unqualified type name, so identities
	// produced by a differently laid-out sender can still resolve.
	var found reflect.Type
	ambiguous := false
	r.types.Range(func(key, value any) bool {
		full := key.(string)
		if full[strings.LastIndex(full, ".")+1:] == name {
			if found != nil {
				ambiguous = true
				return false
			}
			found = value.(reflect.Type)
		}
		return true
	})
	if found == nil || ambiguous {
		return nil, errorf(CodeTypeResolution, "no registered type named %q", name)
	}
	r.cache.Store(name, found)
	return found, nil
}

// resolvePredicate locates the predicate identified by a declaring scope and
// a simple name. Package-level functions resolve from the function table;
// anything else resolves as a method on a registered type.
func (r *Resolver) resolvePredicate(class, method string) (PredicateFunc, error) {
	if fn, ok := r.funcs.Load(funcKey{class: class, method: method}); ok {
		return fn.(PredicateFunc), nil
	}
	if _, ok := r.scopes.Load(class); ok {
		return nil, errorf(CodeMethodResolution, "no function %q registered in %s", method, class)
	}
	typ, err := r.ResolveType(class)
	if err != nil {
		return nil, err
	}
	return bindMethod(typ, method)
}

// bindMethod binds a named method on typ into the fixed predicate shape. The
// receiver is a zero value: qualifying methods must not depend on receiver
// state, mirroring the static-method contract on the sending side.
func bindMethod(typ reflect.Type, method string) (PredicateFunc, error) {
	bound := reflect.New(typ).Elem().MethodByName(method)
	if !bound.IsValid() {
		// Pointer receivers aren't in the value's method set.
		bound = reflect.New(typ).MethodByName(method)
	}
	if !bound.IsValid() {
		return nil, errorf(CodeMethodResolution, "type %s has no method %q", typ, method)
	}
	pred, ok := bound.Interface().(func(StreamID, any, any) bool)
	if !ok {
		return nil, errorf(
			CodeSignatureMismatch,
			"method %s.%s has type %s, want func(StreamID, any, any) bool",
			typ, method, bound.Type(),
		)
	}
	return pred, nil
}

// Method values carry a -fm suffix; compiler-generated closures end in funcN.
var anonymousFuncName = regexp.MustCompile(`^func\d+`)

// predicateIdentity derives the declaring scope and simple name of a
// predicate from its runtime symbol. Only package-level functions qualify:
// the identity must denote the same behavior in every process that registers
// it, which bound methods and closures cannot guarantee.
func predicateIdentity(fn PredicateFunc) (class, method string, err error) {
	if fn == nil {
		return "", "", errorf(CodeInvalidArgument, "nil predicate")
	}
	symbol := runtime.FuncForPC(reflect.ValueOf(fn).Pointer())
	if symbol == nil {
		return "", "", errorf(CodeInvalidPredicate, "predicate has no runtime symbol")
	}
	full := symbol.Name()
	if strings.HasSuffix(full, "-fm") {
		return "", "", errorf(CodeInvalidPredicate, "%s is a method value bound to an instance", strings.TrimSuffix(full, "-fm"))
	}
	dot := strings.LastIndex(full, ".")
	if dot < 0 {
		return "", "", errorf(CodeInvalidPredicate, "%s has no declaring scope", full)
	}
	class, method = full[:dot], full[dot+1:]
	if anonymousFuncName.MatchString(method) {
		return "", "", errorf(CodeInvalidPredicate, "%s is an anonymous function", full)
	}
	return class, method, nil
}
