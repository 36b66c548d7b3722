package api

// Marker types for the schema algebra. They let the translator see
// every construct syntactically; none of them carry behavior.

// Optional marks T as nullable. Equivalent to declaring the field as
// *T.
type Optional[T any] struct {
	Value *T
}

// None is the union member meaning "null". It is removed from the
// member list and mapped to nullable: true.
type None struct{}

// Any is an unconstrained value.
type Any = any

// OneOf2 declares a discriminated alternative over two member types.
type OneOf2[A, B any] struct{}

// OneOf3 declares a discriminated alternative over three member types.
type OneOf3[A, B, C any] struct{}

// OneOf4 declares a discriminated alternative over four member types.
type OneOf4[A, B, C, D any] struct{}

// AnyOf2 declares a non-exclusive alternative over two member types.
type AnyOf2[A, B any] struct{}

// AnyOf3 declares a non-exclusive alternative over three member types.
type AnyOf3[A, B, C any] struct{}
