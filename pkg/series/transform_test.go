package series

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestApply(t *testing.T) {
	src := FromFloat64s("price", []float64{1, 4, 9})
	out := Apply(src, math.Sqrt)

	assert.Equal(t, "price", out.Name())
	assert.Equal(t, []float64{1, 2, 3}, out.Values())
	assert.Equal(t, []float64{1, 4, 9}, src.Values())

	a := NewAdapter[float64, int64](FromInt64s("amount", []int64{150, -50}), cents)
	assert.Equal(t, []float64{3, -1}, Apply(a, func(v float64) float64 { return v * 2 }).Values())

	assert.Equal(t, 0, Apply(FromFloat64s("empty", nil), math.Abs).Len())
}

func TestCumSum(t *testing.T) {
	src := FromFloat64s("qty", []float64{1, 2, 3, 4})
	assert.Equal(t, []float64{1, 3, 6, 10}, CumSum(src, 0).Values())
	assert.Equal(t, []float64{11, 13, 16, 20}, CumSum(src, 10).Values())
	assert.Equal(t, []float64{1, 2, 3, 4}, src.Values())
}

func TestAllIterates(t *testing.T) {
	c := FromInt64s("n", []int64{5, 6, 7})
	var idx []int
	var vals []int64
	for i, v := range c.All() {
		idx = append(idx, i)
		vals = append(vals, v)
	}
	assert.Equal(t, []int{0, 1, 2}, idx)
	assert.Equal(t, []int64{5, 6, 7}, vals)

	// Breaking out early stops the sequence.
	var seen []float64
	for _, v := range NewAdapter[float64, int64](c, cents).All() {
		seen = append(seen, v)
		if len(seen) == 2 {
			break
		}
	}
	assert.Equal(t, []float64{0.05, 0.06}, seen)
}

func TestString(t *testing.T) {
	assert.Equal(t, "float64(3): 1.5 2.5 -3", FromFloat64s("x", []float64{1.5, 2.5, -3}).String())
	assert.Equal(t, "int64(0):", FromInt64s("n", nil).String())

	at := FromTimes("at", []time.Time{
		time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.March, 1, 9, 30, 0, 500, time.UTC),
	})
	assert.Equal(t, "timestamp(2): 2024-03-01T00:00:00Z 2024-03-01T09:30:00.0000005Z", at.String())

	var s Series = NewAdapter[float64, int64](FromInt64s("amount", []int64{150}), cents)
	assert.Equal(t, "float64(1): 1.5", s.String())
}
