package series

import (
	"iter"

	"github.com/ajitpratap0/colseries/pkg/errors"
)

// Conversion maps between a logical element type T and the physical element
// type Q of the column that stores it. Decode and Encode must be pure: they
// are called once per element on every access, possibly from several
// goroutines working on independent slices.
type Conversion[T, Q any] struct {
	// Type is the logical type presented by adapters using this conversion.
	Type   TypeTag
	Decode func(Q) T
	// Encode may be nil, making adapters read-only.
	Encode func(T) Q
}

// Adapter presents a Column[Q] as a Column[T] through a Conversion.
//
// The adapter does not own its source: several adapters may wrap the same
// source, and writes through any of them are visible to all. Clone and Slice
// produce adapters over fresh sources.
type Adapter[T, Q any] struct {
	source Column[Q]
	conv   Conversion[T, Q]
}

// NewAdapter wraps source. It panics if source or conv.Decode is nil.
func NewAdapter[T, Q any](source Column[Q], conv Conversion[T, Q]) *Adapter[T, Q] {
	if source == nil {
		panic("series: adapter source is nil")
	}
	if conv.Decode == nil {
		panic("series: adapter conversion has no Decode")
	}
	return &Adapter[T, Q]{source: source, conv: conv}
}

// Source returns the wrapped column.
func (a *Adapter[T, Q]) Source() Column[Q] { return a.source }

// Conversion returns the conversion pair.
func (a *Adapter[T, Q]) Conversion() Conversion[T, Q] { return a.conv }

func (a *Adapter[T, Q]) isSeries() {}

func (a *Adapter[T, Q]) Name() string { return a.source.Name() }

func (a *Adapter[T, Q]) Type() TypeTag { return a.conv.Type }

func (a *Adapter[T, Q]) Len() int { return a.source.Len() }

func (a *Adapter[T, Q]) At(i int) (T, error) {
	q, err := a.source.At(i)
	if err != nil {
		var zero T
		return zero, err
	}
	return a.conv.Decode(q), nil
}

// Set encodes v and stores it in the source.
func (a *Adapter[T, Q]) Set(i int, v T) error {
	if a.conv.Encode == nil {
		return errors.Newf(errors.ErrorTypeUnsupportedOperation,
			"series %q is a read-only %s view", a.Name(), a.conv.Type)
	}
	return a.source.Set(i, a.conv.Encode(v))
}

func (a *Adapter[T, Q]) Value(i int) (any, error) {
	v, err := a.At(i)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (a *Adapter[T, Q]) Values() []T {
	raw := a.source.Values()
	out := make([]T, len(raw))
	for i, q := range raw {
		out[i] = a.conv.Decode(q)
	}
	return out
}

func (a *Adapter[T, Q]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i, q := range a.source.All() {
			if !yield(i, a.conv.Decode(q)) {
				return
			}
		}
	}
}

func (a *Adapter[T, Q]) String() string { return format[T](a) }

func (a *Adapter[T, Q]) physical() TypeTag { return a.source.physical() }

// SliceAdapter slices the source and wraps the result with the same
// conversion. No element is decoded.
func (a *Adapter[T, Q]) SliceAdapter(r Range) (*Adapter[T, Q], error) {
	src, err := a.source.SliceColumn(r)
	if err != nil {
		return nil, err
	}
	return NewAdapter(src, a.conv), nil
}

func (a *Adapter[T, Q]) SliceColumn(r Range) (Column[T], error) {
	s, err := a.SliceAdapter(r)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (a *Adapter[T, Q]) Slice(r Range) (Series, error) {
	s, err := a.SliceAdapter(r)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// CloneAdapter deep-copies the source and wraps the copy with the same
// conversion.
func (a *Adapter[T, Q]) CloneAdapter() *Adapter[T, Q] {
	return NewAdapter(a.source.CloneColumn(), a.conv)
}

func (a *Adapter[T, Q]) CloneColumn() Column[T] { return a.CloneAdapter() }

func (a *Adapter[T, Q]) Clone() Series { return a.CloneAdapter() }

// ToBuffer delegates to the source: an adapter occupies exactly the bytes of
// its physical column.
func (a *Adapter[T, Q]) ToBuffer(buf []byte, stride int, field Field) error {
	return a.source.ToBuffer(buf, stride, field)
}
