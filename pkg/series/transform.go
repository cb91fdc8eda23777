package series

import (
	"github.com/ajitpratap0/colseries/pkg/vector"
)

// Apply returns a new float64 column holding fn of every element of c. The
// result keeps c's name; c is not modified.
func Apply(c Column[float64], fn func(float64) float64) *Owned[float64] {
	out := vector.New[float64](c.Len())
	for i, v := range c.All() {
		out.Set(i, fn(v))
	}
	return NewOwned(c.Name(), out)
}

// CumSum returns the running totals of c, offset by start.
func CumSum(c Column[float64], start float64) *Owned[float64] {
	sum := start
	return Apply(c, func(v float64) float64 {
		sum += v
		return sum
	})
}
