package series

import (
	"math"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTickAnchors(t *testing.T) {
	assert.Equal(t, int64(0), TimeToTicks(TickEpoch))
	assert.Equal(t, int64(621_355_968_000_000_000), TimeToTicks(time.Unix(0, 0)))
	assert.Equal(t, int64(TicksPerSecond), TimeToTicks(TickEpoch.Add(time.Second)))

	assert.True(t, TicksToTime(0).Equal(TickEpoch))
	assert.True(t, TicksToTime(621_355_968_000_000_000).Equal(time.Unix(0, 0)))
	assert.Equal(t, time.UTC, TicksToTime(42).Location())
}

func TestTickRoundTripIsExact(t *testing.T) {
	cases := []time.Time{
		TickEpoch,
		time.Date(1969, time.December, 31, 23, 59, 59, 999_999_900, time.UTC),
		time.Date(1970, time.January, 1, 0, 0, 0, 100, time.UTC),
		time.Date(2024, time.February, 29, 12, 34, 56, 789_012_300, time.UTC),
		time.Date(9999, time.December, 31, 23, 59, 59, 999_999_900, time.UTC),
		time.Date(2001, time.May, 4, 1, 2, 3, 0, time.FixedZone("UTC+5", 5*3600)),
	}

	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 1000; i++ {
		ticks := rng.Int64N(TimeToTicks(time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)))
		cases = append(cases, TicksToTime(ticks))
	}

	for _, want := range cases {
		got := TicksToTime(TimeToTicks(want))
		assert.True(t, want.Equal(got), "want %s, got %s", want, got)
	}
}

// Nanoseconds below the tick resolution are dropped, always rounding toward
// the earlier tick, including before the Unix epoch.
func TestTickTruncatesSubTickPrecision(t *testing.T) {
	tests := []struct {
		name     string
		in       time.Time
		expected time.Time
	}{
		{
			name:     "after unix epoch",
			in:       time.Date(2020, time.June, 1, 0, 0, 0, 199, time.UTC),
			expected: time.Date(2020, time.June, 1, 0, 0, 0, 100, time.UTC),
		},
		{
			name:     "before unix epoch",
			in:       time.Unix(-1, 150),
			expected: time.Unix(-1, 100),
		},
		{
			name:     "below one tick",
			in:       TickEpoch.Add(99 * time.Nanosecond),
			expected: TickEpoch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TicksToTime(TimeToTicks(tt.in))
			assert.True(t, tt.expected.Equal(got), "want %s, got %s", tt.expected, got)
		})
	}
}

func TestNegativeTicks(t *testing.T) {
	got := TicksToTime(-1)
	assert.True(t, TickEpoch.Add(-100*time.Nanosecond).Equal(got), "got %s", got)
	assert.Equal(t, int64(-1), TimeToTicks(got))

	got = TicksToTime(-TicksPerSecond)
	assert.True(t, TickEpoch.Add(-time.Second).Equal(got), "got %s", got)
}

func TestTimeToTicksSaturates(t *testing.T) {
	assert.Equal(t, int64(math.MaxInt64), TimeToTicks(time.Date(30000, time.January, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, int64(math.MinInt64), TimeToTicks(time.Date(-30000, time.January, 1, 0, 0, 0, 0, time.UTC)))

	assert.Equal(t, int64(math.MaxInt64), TimeToTicks(TicksToTime(math.MaxInt64)))
	assert.Equal(t, int64(math.MinInt64), TimeToTicks(TicksToTime(math.MinInt64)))

	last := int64(math.MaxInt64 - TicksPerSecond)
	assert.Equal(t, last, TimeToTicks(TicksToTime(last)))
	first := int64(math.MinInt64 + 2*TicksPerSecond)
	assert.Equal(t, first, TimeToTicks(TicksToTime(first)))
}
