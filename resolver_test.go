package orleans

import (
	"reflect"
	"sync"
	"testing"

	"github.com/rikace/orleans/internal/assert"
)

const testPackage = "github.com/rikace/orleans"

// regionFilters carries stateless predicate methods for resolver tests. The
// non-predicate methods exercise the failure paths.
type regionFilters struct{}

func (regionFilters) InMetrics(id StreamID, _ any, _ any) bool {
	return id.Namespace == "metrics"
}

func (*regionFilters) NonEmptyKey(id StreamID, _ any, _ any) bool {
	return id.Key != ""
}

func (regionFilters) WrongShape(item int) int {
	return item
}

func isEvenItem(_ StreamID, _ any, item any) bool {
	n, ok := item.(int)
	return ok && n%2 == 0
}

func aboveThreshold(_ StreamID, filterData any, item any) bool {
	threshold, ok := filterData.(int)
	if !ok {
		return false
	}
	n, ok := item.(int)
	return ok && n > threshold
}

func TestRegisterType(t *testing.T) {
	t.Parallel()
	resolver := NewResolver()

	name, err := resolver.RegisterType(regionFilters{})
	assert.Nil(t, err)
	assert.Equal(t, name, testPackage+".regionFilters")

	// Pointers register their element type.
	name, err = resolver.RegisterType(&regionFilters{})
	assert.Nil(t, err)
	assert.Equal(t, name, testPackage+".regionFilters")

	_, err = resolver.RegisterType(nil)
	assert.Equal(t, CodeOf(err), CodeInvalidArgument)
	_, err = resolver.RegisterType(struct{ N int }{})
	assert.Equal(t, CodeOf(err), CodeInvalidArgument, assert.Sprintf("anonymous types have no stable name"))
}

func TestResolveType(t *testing.T) {
	t.Parallel()
	resolver := NewResolver()
	name, err := resolver.RegisterType(regionFilters{})
	assert.Nil(t, err)

	typ, err := resolver.ResolveType(name)
	assert.Nil(t, err)
	assert.Equal(t, typ, reflect.TypeOf(regionFilters{}))

	// Unqualified names resolve when unambiguous.
	typ, err = resolver.ResolveType("regionFilters")
	assert.Nil(t, err)
	assert.Equal(t, typ, reflect.TypeOf(regionFilters{}))

	_, err = resolver.ResolveType("example.com/other.regionFilters")
	assert.Equal(t, CodeOf(err), CodeTypeResolution)
}

func TestResolveTypeCaches(t *testing.T) {
	t.Parallel()
	resolver := NewResolver()
	name, err := resolver.RegisterType(regionFilters{})
	assert.Nil(t, err)

	_, cached := resolver.cache.Load(name)
	assert.False(t, cached, assert.Sprintf("cache fills on resolution, not registration"))
	_, err = resolver.ResolveType(name)
	assert.Nil(t, err)
	_, cached = resolver.cache.Load(name)
	assert.True(t, cached)
}

func TestResolveTypeConcurrently(t *testing.T) {
	t.Parallel()
	resolver := NewResolver()
	name, err := resolver.RegisterType(regionFilters{})
	assert.Nil(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			typ, err := resolver.ResolveType(name)
			if err != nil || typ != reflect.TypeOf(regionFilters{}) {
				t.Errorf("concurrent resolve: got %v, %v", typ, err)
			}
		}()
	}
	wg.Wait()
}

func TestRegisterFunc(t *testing.T) {
	t.Parallel()
	resolver := NewResolver()

	assert.Nil(t, resolver.RegisterFunc(isEvenItem))
	assert.Equal(t, CodeOf(resolver.RegisterFunc(nil)), CodeInvalidArgument)

	closure := func(StreamID, any, any) bool { return true }
	assert.Equal(t, CodeOf(resolver.RegisterFunc(closure)), CodeInvalidPredicate)

	bound := regionFilters{}.InMetrics
	assert.Equal(t, CodeOf(resolver.RegisterFunc(bound)), CodeInvalidPredicate)
}

func TestResolvePredicateFunctions(t *testing.T) {
	t.Parallel()
	resolver := NewResolver()
	assert.Nil(t, resolver.RegisterFunc(isEvenItem))

	predicate, err := resolver.resolvePredicate(testPackage, "isEvenItem")
	assert.Nil(t, err)
	assert.True(t, predicate(StreamID{}, nil, 2))
	assert.False(t, predicate(StreamID{}, nil, 3))

	// Known package scope, unknown function name.
	_, err = resolver.resolvePredicate(testPackage, "neverRegistered")
	assert.Equal(t, CodeOf(err), CodeMethodResolution)

	// Entirely unknown scope.
	_, err = resolver.resolvePredicate("example.com/nowhere", "isEvenItem")
	assert.Equal(t, CodeOf(err), CodeTypeResolution)
}

func TestResolvePredicateMethods(t *testing.T) {
	t.Parallel()
	resolver := NewResolver()
	name, err := resolver.RegisterType(regionFilters{})
	assert.Nil(t, err)

	predicate, err := resolver.resolvePredicate(name, "InMetrics")
	assert.Nil(t, err)
	assert.True(t, predicate(StreamID{Namespace: "metrics"}, nil, nil))
	assert.False(t, predicate(StreamID{Namespace: "events"}, nil, nil))

	// Pointer-receiver methods bind through the addressable zero value.
	predicate, err = resolver.resolvePredicate(name, "NonEmptyKey")
	assert.Nil(t, err)
	assert.True(t, predicate(StreamID{Key: "k"}, nil, nil))

	_, err = resolver.resolvePredicate(name, "Vanished")
	assert.Equal(t, CodeOf(err), CodeMethodResolution)

	_, err = resolver.resolvePredicate(name, "WrongShape")
	assert.Equal(t, CodeOf(err), CodeSignatureMismatch)
}

func TestPredicateIdentity(t *testing.T) {
	t.Parallel()
	class, method, err := predicateIdentity(aboveThreshold)
	assert.Nil(t, err)
	assert.Equal(t, class, testPackage)
	assert.Equal(t, method, "aboveThreshold")
}
