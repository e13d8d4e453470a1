package soaecs

// column is the type-erased run backing one field. It holds capacity*Count elements.
type column interface {
	elements() int
	// reallocate moves the run to a fresh slice of n elements, keeping the first keep of them.
	reallocate(n, keep int)
	// clear zeroes elements in [from, to).
	clear(from, to int)
}

var _ column = &typedColumn[float32]{}

// typedColumn is a field run of a concrete element type.
type typedColumn[T Number] struct {
	data []T
}

func (c *typedColumn[T]) elements() int {
	return len(c.data)
}

func (c *typedColumn[T]) reallocate(n, keep int) {
	data := make([]T, n)
	copy(data, c.data[:keep])
	c.data = data
}

func (c *typedColumn[T]) clear(from, to int) {
	clear(c.data[from:to])
}
