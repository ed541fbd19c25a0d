package ast

// Arena is a compact slice-backed store. IDs are 1-based; index 0 is the
// universal "absent" sentinel.
type Arena[T any] struct {
	data []T
}

// NewArena creates an *Arena[T] whose internal slice is allocated with a
// capacity of capHint. Zero is allowed.
func NewArena[T any](capHint uint) *Arena[T] {
	return &Arena[T]{
		data: make([]T, 0, capHint),
	}
}

// Allocate appends a value and returns its 1-based index.
func (a *Arena[T]) Allocate(value T) uint32 {
	a.data = append(a.data, value)
	return uint32(len(a.data)) //nolint:gosec // arena sizes fit uint32
}

// Get returns a pointer to the element, or nil for the zero index.
func (a *Arena[T]) Get(index uint32) *T {
	if index == 0 || int(index) > len(a.data) {
		return nil
	}
	return &a.data[index-1]
}

// Slice exposes the underlying storage. Read-only.
func (a *Arena[T]) Slice() []T {
	return a.data
}

func (a *Arena[T]) Len() uint32 {
	return uint32(len(a.data)) //nolint:gosec // arena sizes fit uint32
}
