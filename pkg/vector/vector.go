// Package vector provides the owned fixed-width arrays that back series
// storage. A Vector keeps its elements in an Arrow memory buffer and exposes
// them as a typed Go slice, so the same bytes can be handed to a row codec
// without conversion.
package vector

import (
	"fmt"
	"unsafe"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// Element is the set of physical element types a Vector can hold.
type Element interface {
	int64 | float64
}

// Vector is a fixed-length array of T. It is not safe for concurrent
// mutation.
type Vector[T Element] struct {
	mem  memory.Allocator
	buf  *memory.Buffer
	data []T
}

// New allocates a zeroed vector of n elements from the default allocator.
func New[T Element](n int) *Vector[T] {
	return NewWithAllocator[T](memory.DefaultAllocator, n)
}

// NewWithAllocator allocates a zeroed vector of n elements from mem.
func NewWithAllocator[T Element](mem memory.Allocator, n int) *Vector[T] {
	if n < 0 {
		panic(fmt.Sprintf("vector: negative length %d", n))
	}
	v := &Vector[T]{mem: mem}
	if n == 0 {
		return v
	}
	v.buf = memory.NewResizableBuffer(mem)
	v.buf.Resize(n * ElementSize[T]())
	v.data = arrow.GetData[T](v.buf.Bytes())
	// Allocators are not required to hand back zeroed memory.
	clear(v.data)
	return v
}

// FromValues copies values into a new vector.
func FromValues[T Element](values []T) *Vector[T] {
	v := New[T](len(values))
	copy(v.data, values)
	return v
}

// ElementSize returns the width in bytes of one T.
func ElementSize[T Element]() int {
	var zero T
	return int(unsafe.Sizeof(zero))
}

// Len returns the number of elements.
func (v *Vector[T]) Len() int { return len(v.data) }

// At returns element i. It panics if i is out of range.
func (v *Vector[T]) At(i int) T { return v.data[i] }

// Set stores x at element i. It panics if i is out of range.
func (v *Vector[T]) Set(i int, x T) { v.data[i] = x }

// Slice returns a new vector holding length elements starting at start and
// advancing by step. The result never shares memory with v.
func (v *Vector[T]) Slice(start, length, step int) *Vector[T] {
	if step < 1 {
		panic(fmt.Sprintf("vector: invalid step %d", step))
	}
	out := NewWithAllocator[T](v.mem, length)
	for i, j := 0, start; i < length; i, j = i+1, j+step {
		out.data[i] = v.data[j]
	}
	return out
}

// Clone returns a deep copy of v.
func (v *Vector[T]) Clone() *Vector[T] {
	out := NewWithAllocator[T](v.mem, len(v.data))
	copy(out.data, v.data)
	return out
}

// Values materializes the elements into a new Go slice.
func (v *Vector[T]) Values() []T {
	out := make([]T, len(v.data))
	copy(out, v.data)
	return out
}

// Bytes returns the host-order byte view of the elements. The view aliases
// the vector's storage.
func (v *Vector[T]) Bytes() []byte {
	if len(v.data) == 0 {
		return nil
	}
	return arrow.GetBytes(v.data)
}

// Fill sets every element to fn(i).
func (v *Vector[T]) Fill(fn func(i int) T) {
	for i := range v.data {
		v.data[i] = fn(i)
	}
}

// Release returns the backing buffer to its allocator. The vector must not be
// used afterwards.
func (v *Vector[T]) Release() {
	if v.buf != nil {
		v.buf.Release()
		v.buf = nil
	}
	v.data = nil
}
