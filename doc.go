// Package orleans extends a generic serialization engine in two ways: a
// type-keyed codec registry that overrides the engine's default structural
// handling for specific types, and a filter-reference wrapper that moves a
// reference to a fixed predicate function between processes without moving
// code.
//
// A Registry maps exact runtime types to (deep-copy, serialize, deserialize)
// triples. The engine consults it before every copy, serialize, and
// deserialize; an absent entry means the registry has no opinion and the
// engine's default path applies.
//
// A FilterReference dehydrates to the declaring scope and name of its
// predicate plus an opaque payload. Receiving processes register the same
// predicates and filter types in a Resolver during initialization, so
// rehydration is a deterministic lookup, performed lazily on the first
// Evaluate and cached for the life of the instance.
package orleans
