package series

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/colseries/pkg/errors"
)

func TestOwnedBasics(t *testing.T) {
	c := FromFloat64s("price", []float64{1.5, 2.5, 3.5})

	assert.Equal(t, "price", c.Name())
	assert.Equal(t, TypeFloat64, c.Type())
	assert.Equal(t, 3, c.Len())

	v, err := c.At(1)
	require.NoError(t, err)
	assert.Equal(t, 2.5, v)

	require.NoError(t, c.Set(1, 9))
	assert.Equal(t, []float64{1.5, 9, 3.5}, c.Values())

	boxed, err := c.Value(2)
	require.NoError(t, err)
	assert.Equal(t, 3.5, boxed)

	assert.Equal(t, TypeInt64, FromInt64s("n", nil).Type())
	assert.Equal(t, 0, NewOwned[int64]("empty", nil).Len())
}

func TestOwnedIndexOutOfRange(t *testing.T) {
	c := FromInt64s("n", []int64{1, 2, 3})

	for _, i := range []int{-1, 3, 100} {
		_, err := c.At(i)
		assert.True(t, errors.IsType(err, errors.ErrorTypeIndexOutOfRange), "At(%d): %v", i, err)

		err = c.Set(i, 0)
		assert.True(t, errors.IsType(err, errors.ErrorTypeIndexOutOfRange), "Set(%d): %v", i, err)

		_, err = c.Value(i)
		assert.True(t, errors.IsType(err, errors.ErrorTypeIndexOutOfRange), "Value(%d): %v", i, err)
	}
	assert.Equal(t, []int64{1, 2, 3}, c.Values())
}

func TestOwnedSlice(t *testing.T) {
	c := FromInt64s("n", []int64{0, 10, 20, 30, 40, 50, 60})

	tests := []struct {
		name     string
		r        Range
		expected []int64
	}{
		{name: "prefix", r: Span(0, 3), expected: []int64{0, 10, 20}},
		{name: "middle", r: Span(2, 4), expected: []int64{20, 30, 40, 50}},
		{name: "whole", r: Span(0, 7), expected: []int64{0, 10, 20, 30, 40, 50, 60}},
		{name: "empty at end", r: Span(7, 0), expected: []int64{}},
		{name: "zero step means one", r: Range{Start: 5, Length: 2}, expected: []int64{50, 60}},
		{name: "strided", r: Range{Start: 1, Length: 3, Step: 2}, expected: []int64{10, 30, 50}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := c.SliceOwned(tt.r)
			require.NoError(t, err)
			assert.Equal(t, tt.r.Length, s.Len())
			assert.Equal(t, tt.expected, s.Values())
			assert.Equal(t, "n", s.Name())

			step := tt.r.Step
			if step == 0 {
				step = 1
			}
			for i := 0; i < s.Len(); i++ {
				got, err := s.At(i)
				require.NoError(t, err)
				want, err := c.At(tt.r.Start + i*step)
				require.NoError(t, err)
				assert.Equal(t, want, got)
			}
		})
	}
}

func TestOwnedSliceErrors(t *testing.T) {
	c := FromInt64s("n", []int64{1, 2, 3})

	tests := []struct {
		name    string
		r       Range
		errType errors.ErrorType
	}{
		{name: "past end", r: Span(2, 2), errType: errors.ErrorTypeIndexOutOfRange},
		{name: "negative start", r: Span(-1, 1), errType: errors.ErrorTypeIndexOutOfRange},
		{name: "negative length", r: Span(0, -1), errType: errors.ErrorTypeIndexOutOfRange},
		{name: "empty past end", r: Span(4, 0), errType: errors.ErrorTypeIndexOutOfRange},
		{name: "stride past end", r: Range{Start: 0, Length: 2, Step: 3}, errType: errors.ErrorTypeIndexOutOfRange},
		{name: "negative step", r: Range{Start: 2, Length: 2, Step: -1}, errType: errors.ErrorTypeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := c.Slice(tt.r)
			assert.Nil(t, s)
			assert.True(t, errors.IsType(err, tt.errType), "got %v", err)
		})
	}
}

// Slices of owned columns are copies: writes never cross between a slice
// and its parent.
func TestOwnedSliceDoesNotAlias(t *testing.T) {
	parent := FromFloat64s("x", []float64{1, 2, 3, 4})
	child, err := parent.SliceOwned(Span(1, 2))
	require.NoError(t, err)

	require.NoError(t, child.Set(0, -2))
	assert.Equal(t, []float64{1, 2, 3, 4}, parent.Values())

	require.NoError(t, parent.Set(2, -3))
	assert.Equal(t, []float64{-2, 3}, child.Values())
}

func TestOwnedCloneIsIndependent(t *testing.T) {
	orig := FromFloat64s("x", []float64{1, 2, 3})
	clone := orig.Clone()

	typed, err := AsOwned[float64](clone)
	require.NoError(t, err)
	require.NoError(t, typed.Set(0, 100))

	v, err := orig.At(0)
	require.NoError(t, err)
	assert.Equal(t, 1.0, v)
	assert.Equal(t, []float64{100, 2, 3}, typed.Values())
	assert.Equal(t, orig.Name(), clone.Name())
}
