package series

import (
	"math/rand/v2"
	"time"

	"github.com/ajitpratap0/colseries/pkg/errors"
	"github.com/ajitpratap0/colseries/pkg/vector"
)

// FromFloat64s copies values into a float64 column.
func FromFloat64s(name string, values []float64) *Owned[float64] {
	return FromValues(name, values)
}

// FromInt64s copies values into an int64 column.
func FromInt64s(name string, values []int64) *Owned[int64] {
	return FromValues(name, values)
}

// FromTimes encodes values into a new tick column and returns its timestamp
// view.
func FromTimes(name string, values []time.Time) *TimestampColumn {
	ticks := vector.New[int64](len(values))
	ticks.Fill(func(i int) int64 { return TimeToTicks(values[i]) })
	return NewTimestamps(NewOwned(name, ticks))
}

// DateRange returns count timestamps starting at start and spaced
// (end-start)/count apart, rounded down to whole ticks. end itself is not
// included.
func DateRange(name string, start, end time.Time, count int) (*TimestampColumn, error) {
	if count < 0 {
		return nil, errors.Newf(errors.ErrorTypeValidation, "negative count %d", count)
	}
	if end.Before(start) {
		return nil, errors.Newf(errors.ErrorTypeValidation,
			"range end %s is before start %s", end.Format(time.RFC3339Nano), start.Format(time.RFC3339Nano))
	}

	first := TimeToTicks(start)
	var step int64
	if count > 0 {
		step = (TimeToTicks(end) - first) / int64(count)
	}

	ticks := vector.New[int64](count)
	ticks.Fill(func(i int) int64 { return first + int64(i)*step })
	return NewTimestamps(NewOwned(name, ticks)), nil
}

// Random returns count float64 values drawn uniformly from [0,1). The same
// seed always yields the same values.
func Random(name string, count int, seed uint64) (*Owned[float64], error) {
	if count < 0 {
		return nil, errors.Newf(errors.ErrorTypeValidation, "negative count %d", count)
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	data := vector.New[float64](count)
	data.Fill(func(int) float64 { return rng.Float64() })
	return NewOwned(name, data), nil
}
