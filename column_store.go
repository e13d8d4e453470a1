package soaecs

import (
	"math"
	"reflect"

	"github.com/edwinsyarief/soaecs/internal/assert"
	"github.com/rs/zerolog"
)

// ColumnStore is a growable structure-of-arrays buffer. Each declared field owns one contiguous
// run of Cap() rows, and every run grows together. Rows are addressed by plain integers in
// [0, Len()).
//
// Reserve, Resize and Extend return true when the runs were reallocated. Every slice obtained
// from View or Row before such a call is stale afterwards and must be fetched again; writes to a
// stale view are silently lost. Holders that cache views can compare Generation instead of
// tracking the return values themselves.
//
// A ColumnStore is not safe for concurrent use. Reserve, Resize and Extend are the only calls that
// need exclusive access.
type ColumnStore struct {
	fields     []Field
	columns    []column
	capacity   int
	count      int
	rowStride  int
	generation uint64 // bumped on every reallocation
	logger     zerolog.Logger
	bus        *EventBus
}

// NewColumnStore creates a store with the given fields and reserves initialCapacity rows. Field
// byte offsets are packed in declaration order without padding.
//
// Parameters:
//   - initialCapacity: Rows to reserve up front, rounded up to a multiple of 32. Must be > 0.
//   - fields: The field layout. Must not be empty and every Count must be > 0.
//   - opts: Optional logger and event bus.
//
// Returns:
//   - The new store with Len() == 0.
func NewColumnStore(initialCapacity int, fields []FieldSpec, opts ...Option) *ColumnStore {
	assert.That(len(fields) > 0, "column store needs at least one field")
	assert.That(initialCapacity > 0, "initial capacity must be positive, got %d", initialCapacity)

	o := newOptions(opts)
	s := &ColumnStore{
		fields:  make([]Field, len(fields)),
		columns: make([]column, len(fields)),
		logger:  o.logger.With().Str("component", "columns").Logger(),
		bus:     o.bus,
	}
	for i, spec := range fields {
		assert.That(spec.Count > 0, "field %d has element count %d", i, spec.Count)
		col, ok := spec.Type.newColumn(0)
		assert.That(ok, "field %d has no element type", i)
		s.fields[i] = Field{Type: spec.Type, Count: spec.Count, ByteOffset: s.rowStride}
		s.columns[i] = col
		s.rowStride += s.fields[i].ByteSize()
	}
	s.Reserve(initialCapacity)
	return s
}

// Reserve makes room for at least n rows without changing Len. n is rounded up to a multiple of
// 32. Nothing happens when the store can already hold n rows.
//
// Returns true when the runs moved and previously obtained views are stale.
func (s *ColumnStore) Reserve(n int) bool {
	if n <= s.capacity {
		return false
	}
	// The largest aligned row count whose byte size still fits an int. Checked before rounding so
	// roundUp cannot wrap.
	limit := (math.MaxInt / s.rowStride) &^ (rowAlignment - 1)
	assert.That(n <= limit, "capacity %d overflows the address space", n)
	newCap := roundUp(n)

	for i, f := range s.fields {
		s.columns[i].reallocate(newCap*f.Count, s.count*f.Count)
	}
	oldCap := s.capacity
	s.capacity = newCap
	s.generation++

	s.logger.Debug().
		Int("old_capacity", oldCap).
		Int("new_capacity", newCap).
		Int("count", s.count).
		Int("bytes", s.BytesRequiredForCount(newCap)).
		Msg("columns reallocated")
	Publish(s.bus, ColumnsReallocated{OldCapacity: oldCap, NewCapacity: newCap, Generation: s.generation})
	return true
}

// Resize sets Len to n, growing the runs when n exceeds Cap. Rows dropped by a shrink are zeroed,
// so they read as zero if the store grows over them again.
//
// Returns true when the runs moved and previously obtained views are stale.
func (s *ColumnStore) Resize(n int) bool {
	assert.That(n >= 0, "cannot resize to %d rows", n)
	invalidated := false
	if n > s.capacity {
		invalidated = s.Reserve(n)
	}
	if n < s.count {
		for i, f := range s.fields {
			s.columns[i].clear(n*f.Count, s.count*f.Count)
		}
	}
	s.count = n
	return invalidated
}

// Extend appends one zeroed row, doubling the capacity first when the store is full.
//
// Returns true when the runs moved and previously obtained views are stale.
func (s *ColumnStore) Extend() bool {
	invalidated := false
	if s.count == s.capacity {
		assert.That(s.capacity <= math.MaxInt/2, "capacity %d cannot double", s.capacity)
		invalidated = s.Reserve(s.capacity * 2)
	}
	s.count++
	return invalidated
}

// Len returns the number of live rows.
func (s *ColumnStore) Len() int {
	return s.count
}

// Cap returns the number of rows the runs can hold without reallocating.
func (s *ColumnStore) Cap() int {
	return s.capacity
}

// RowStride returns the byte size of one row as if the fields were interleaved.
func (s *ColumnStore) RowStride() int {
	return s.rowStride
}

// BytesRequiredForCount returns the bytes n rows take across all fields.
func (s *ColumnStore) BytesRequiredForCount(n int) int {
	return n * s.rowStride
}

// Generation changes every time the runs are reallocated.
func (s *ColumnStore) Generation() uint64 {
	return s.generation
}

// NumFields returns the number of declared fields.
func (s *ColumnStore) NumFields() int {
	return len(s.fields)
}

// Field returns the layout metadata of field i.
func (s *ColumnStore) Field(i int) Field {
	s.checkField(i)
	return s.fields[i]
}

// Fields returns a copy of the layout metadata of every field.
func (s *ColumnStore) Fields() []Field {
	out := make([]Field, len(s.fields))
	copy(out, s.fields)
	return out
}

func (s *ColumnStore) checkField(i int) {
	assert.That(i >= 0 && i < len(s.fields), "field %d out of range [0, %d)", i, len(s.fields))
}

// View returns the whole run of field as a []T of Cap()*Count elements; row r occupies elements
// [r*Count, (r+1)*Count). T must be the element type the field was declared with.
//
// The slice aliases the store. It is stale after any call that reports a reallocation.
func View[T Number](s *ColumnStore, field int) []T {
	s.checkField(field)
	col, ok := s.columns[field].(*typedColumn[T])
	if !ok {
		assert.That(false, "field %d holds %s, not %s", field, s.fields[field].Type.Name, reflect.TypeFor[T]())
	}
	return col.data
}

// Row returns the Count elements of field at row. row must be in [0, Len()).
func Row[T Number](s *ColumnStore, field, row int) []T {
	assert.That(row >= 0 && row < s.count, "row %d out of range [0, %d)", row, s.count)
	v := View[T](s, field)
	n := s.fields[field].Count
	return v[row*n : (row+1)*n : (row+1)*n]
}
