// Package types provides the read models shared by the query pipeline, the
// search strategies and the HTTP layer.
package types

// SearchResult pairs the number of entities matching a filter with one page of them.
// TotalAmount ignores pagination; Entities is never nil so it encodes as [].
type SearchResult[T any] struct {
	TotalAmount int64 `json:"totalAmount" example:"25"`
	Entities    []T   `json:"entities"`
}

// NewSearchResult creates a SearchResult from a total and a page
func NewSearchResult[T any](total int64, entities []T) SearchResult[T] {
	if entities == nil {
		entities = []T{}
	}
	return SearchResult[T]{
		TotalAmount: total,
		Entities:    entities,
	}
}

// EmptyResult returns a result with no entities and the given true total
func EmptyResult[T any](total int64) SearchResult[T] {
	return NewSearchResult[T](total, nil)
}

// Option represents an optional value
type Option[T any] struct {
	value   T
	present bool
}

// Some creates an Option with a value
func Some[T any](value T) Option[T] {
	return Option[T]{value: value, present: true}
}

// None creates an empty Option
func None[T any]() Option[T] {
	return Option[T]{}
}

// IsPresent returns true if the option contains a value
func (o Option[T]) IsPresent() bool {
	return o.present
}

// Get returns the value, panics if empty
func (o Option[T]) Get() T {
	if !o.present {
		panic("called Get() on empty Option")
	}
	return o.value
}

// OrElse returns the value if present, otherwise returns the alternative
func (o Option[T]) OrElse(alternative T) T {
	if o.present {
		return o.value
	}
	return alternative
}

// Ptr returns a pointer to a copy of the value, or nil when empty
func (o Option[T]) Ptr() *T {
	if !o.present {
		return nil
	}
	v := o.value
	return &v
}
