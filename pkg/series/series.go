package series

import (
	"fmt"
	"iter"
	"strings"
	"time"

	"github.com/ajitpratap0/colseries/pkg/errors"
	"github.com/ajitpratap0/colseries/pkg/vector"
)

// Series is the type-erased view of a column. The only implementations are
// *Owned[T] and *Adapter[T,Q]; use AsOwned, AsAdapter or AsColumn to recover a
// typed view.
type Series interface {
	// Name returns the column name.
	Name() string
	// Type returns the logical type of the elements.
	Type() TypeTag
	// Len returns the number of elements.
	Len() int
	// Value returns element i boxed as an interface. It is meant for
	// printing and generic enumeration, not for hot loops.
	Value(i int) (any, error)
	// Slice returns a series of the same shape restricted to r.
	Slice(r Range) (Series, error)
	// Clone returns a deep copy.
	Clone() Series
	// ToBuffer writes one element per row into field's slot of buf, whose
	// rows are stride bytes apart.
	ToBuffer(buf []byte, stride int, field Field) error
	// String renders the series as "type(len): v0 v1 ...".
	String() string

	// physical is the element type written by ToBuffer.
	physical() TypeTag
	isSeries()
}

// Column is a Series with typed element access.
type Column[T any] interface {
	Series
	At(i int) (T, error)
	Set(i int, v T) error
	// Values materializes all elements into a new slice.
	Values() []T
	// All yields index and element pairs in order without copying the column.
	All() iter.Seq2[int, T]
	SliceColumn(r Range) (Column[T], error)
	CloneColumn() Column[T]
}

// Range selects Length elements starting at Start, Step apart. A zero Step
// means 1.
type Range struct {
	Start  int
	Length int
	Step   int
}

// Span returns the contiguous range [start, start+length).
func Span(start, length int) Range {
	return Range{Start: start, Length: length, Step: 1}
}

// resolve validates r against a series of n elements and returns the
// normalized step.
func (r Range) resolve(n int) (int, error) {
	step := r.Step
	if step == 0 {
		step = 1
	}
	if step < 0 {
		return 0, errors.Newf(errors.ErrorTypeValidation, "negative range step %d", r.Step)
	}
	if r.Start < 0 || r.Length < 0 {
		return 0, errors.Newf(errors.ErrorTypeIndexOutOfRange,
			"range start %d length %d out of bounds", r.Start, r.Length)
	}
	if r.Length > 0 && r.Start+(r.Length-1)*step >= n {
		return 0, errors.Newf(errors.ErrorTypeIndexOutOfRange,
			"range start %d length %d step %d exceeds length %d", r.Start, r.Length, step, n)
	}
	if r.Length == 0 && r.Start > n {
		return 0, errors.Newf(errors.ErrorTypeIndexOutOfRange, "range start %d exceeds length %d", r.Start, n)
	}
	return step, nil
}

func checkIndex(name string, i, n int) error {
	if i < 0 || i >= n {
		return errors.Newf(errors.ErrorTypeIndexOutOfRange, "index %d out of range [0,%d)", i, n).
			WithDetail("series", name)
	}
	return nil
}

// AsOwned narrows s to an owned column of T.
func AsOwned[T vector.Element](s Series) (*Owned[T], error) {
	c, ok := s.(*Owned[T])
	if !ok {
		return nil, mismatch[*Owned[T]](s)
	}
	return c, nil
}

// AsAdapter narrows s to an adapter presenting T over a source of Q.
func AsAdapter[T, Q any](s Series) (*Adapter[T, Q], error) {
	c, ok := s.(*Adapter[T, Q])
	if !ok {
		return nil, mismatch[*Adapter[T, Q]](s)
	}
	return c, nil
}

// AsColumn narrows s to any column whose elements are T, regardless of
// whether it is owned or adapted.
func AsColumn[T any](s Series) (Column[T], error) {
	c, ok := s.(Column[T])
	if !ok {
		return nil, mismatch[Column[T]](s)
	}
	return c, nil
}

func format[T any](s Column[T]) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s(%d):", s.Type(), s.Len())
	for _, v := range s.All() {
		b.WriteByte(' ')
		switch x := any(v).(type) {
		case time.Time:
			b.WriteString(x.Format(time.RFC3339Nano))
		default:
			fmt.Fprint(&b, x)
		}
	}
	return b.String()
}

func mismatch[Want any](s Series) error {
	want := fmt.Sprintf("%T", (*Want)(nil))[1:]
	err := errors.Newf(errors.ErrorTypeTypeMismatch, "series is %T, not %s", s, want)
	if s != nil {
		err = err.WithDetail("series", s.Name())
	}
	return err
}
