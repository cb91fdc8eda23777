package series

import (
	"iter"

	"github.com/ajitpratap0/colseries/pkg/errors"
	"github.com/ajitpratap0/colseries/pkg/vector"
)

// Owned is a column that exclusively owns its storage.
//
// Slicing an Owned column copies the selected elements; writes to a slice
// are never visible in the parent and vice versa.
type Owned[T vector.Element] struct {
	name string
	data *vector.Vector[T]
}

// NewOwned wraps data as a column. The column takes ownership of data.
func NewOwned[T vector.Element](name string, data *vector.Vector[T]) *Owned[T] {
	if data == nil {
		data = vector.New[T](0)
	}
	return &Owned[T]{name: name, data: data}
}

// FromValues copies values into a new owned column.
func FromValues[T vector.Element](name string, values []T) *Owned[T] {
	return NewOwned(name, vector.FromValues(values))
}

func (c *Owned[T]) isSeries() {}

func (c *Owned[T]) Name() string { return c.name }

func (c *Owned[T]) Type() TypeTag { return elementType[T]() }

func (c *Owned[T]) Len() int { return c.data.Len() }

// At returns element i.
func (c *Owned[T]) At(i int) (T, error) {
	if err := checkIndex(c.name, i, c.data.Len()); err != nil {
		var zero T
		return zero, err
	}
	return c.data.At(i), nil
}

// Set overwrites element i in place.
func (c *Owned[T]) Set(i int, v T) error {
	if err := checkIndex(c.name, i, c.data.Len()); err != nil {
		return err
	}
	c.data.Set(i, v)
	return nil
}

func (c *Owned[T]) Value(i int) (any, error) {
	v, err := c.At(i)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (c *Owned[T]) Values() []T { return c.data.Values() }

func (c *Owned[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i := 0; i < c.data.Len(); i++ {
			if !yield(i, c.data.At(i)) {
				return
			}
		}
	}
}

func (c *Owned[T]) String() string { return format[T](c) }

func (c *Owned[T]) physical() TypeTag { return elementType[T]() }

// SliceOwned returns a copy of the elements selected by r.
func (c *Owned[T]) SliceOwned(r Range) (*Owned[T], error) {
	step, err := r.resolve(c.data.Len())
	if err != nil {
		return nil, err
	}
	return NewOwned(c.name, c.data.Slice(r.Start, r.Length, step)), nil
}

func (c *Owned[T]) SliceColumn(r Range) (Column[T], error) {
	s, err := c.SliceOwned(r)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (c *Owned[T]) Slice(r Range) (Series, error) {
	s, err := c.SliceOwned(r)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// CloneOwned returns a deep copy with independent storage.
func (c *Owned[T]) CloneOwned() *Owned[T] {
	return NewOwned(c.name, c.data.Clone())
}

func (c *Owned[T]) CloneColumn() Column[T] { return c.CloneOwned() }

func (c *Owned[T]) Clone() Series { return c.CloneOwned() }

// ToBuffer packs the elements into field's slot, one element per row.
func (c *Owned[T]) ToBuffer(buf []byte, stride int, field Field) error {
	n := c.data.Len()
	if err := checkSlot(len(buf), stride, field, vector.ElementSize[T](), n); err != nil {
		return err
	}
	packRows(buf, stride, field, c.data.Bytes(), n)
	return nil
}

// OwnedFromBuffer reads height rows of field's slot out of buf into a new
// owned column named after the field.
func OwnedFromBuffer[T vector.Element](buf []byte, stride int, field Field, height int) (*Owned[T], error) {
	if height < 0 {
		return nil, errors.Newf(errors.ErrorTypeValidation, "negative row height %d", height)
	}
	if err := checkSlot(len(buf), stride, field, vector.ElementSize[T](), height); err != nil {
		return nil, err
	}
	data := vector.New[T](height)
	unpackRows(data.Bytes(), buf, stride, field, height)
	return NewOwned(field.Name, data), nil
}

func elementType[T vector.Element]() TypeTag {
	var zero T
	switch any(zero).(type) {
	case float64:
		return TypeFloat64
	default:
		return TypeInt64
	}
}
