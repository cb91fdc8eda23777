package series

import (
	"math"
	"time"
)

// Timestamps are stored as signed 64-bit counts of 100ns ticks since
// 0001-01-01T00:00:00Z. Every time.Time between year 1 and year 9999 whose
// nanosecond component is a multiple of 100 round-trips exactly; finer
// precision is truncated toward the earlier tick.
const (
	TicksPerSecond     = 10_000_000
	NanosecondsPerTick = 100

	// seconds from the tick epoch to the Unix epoch
	unixEpochSeconds int64 = 62_135_596_800

	// Unix seconds bounding the times whose tick count fits in an int64
	maxTickUnix = math.MaxInt64/TicksPerSecond - unixEpochSeconds
	minTickUnix = math.MinInt64/TicksPerSecond - unixEpochSeconds
)

// TickEpoch is the instant represented by tick 0.
var TickEpoch = time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC)

// TimeToTicks converts t to ticks, truncating sub-tick nanoseconds.
//
// An int64 tick count spans roughly 29227 years either side of the tick
// epoch. Times outside that range saturate to math.MaxInt64 or
// math.MinInt64 instead of wrapping.
func TimeToTicks(t time.Time) int64 {
	sec := t.Unix()
	switch {
	case sec >= maxTickUnix:
		return math.MaxInt64
	case sec < minTickUnix:
		return math.MinInt64
	}
	return (sec+unixEpochSeconds)*TicksPerSecond + int64(t.Nanosecond())/NanosecondsPerTick
}

// TicksToTime converts ticks to a UTC time.
func TicksToTime(ticks int64) time.Time {
	sec, rem := ticks/TicksPerSecond, ticks%TicksPerSecond
	if rem < 0 {
		sec--
		rem += TicksPerSecond
	}
	return time.Unix(sec-unixEpochSeconds, rem*NanosecondsPerTick).UTC()
}

// TimestampTicks is the conversion used for every timestamp field.
var TimestampTicks = Conversion[time.Time, int64]{
	Type:   TypeTimestamp,
	Decode: TicksToTime,
	Encode: TimeToTicks,
}

// TimestampColumn is a timestamp view over a tick column.
type TimestampColumn = Adapter[time.Time, int64]

// NewTimestamps presents ticks as timestamps. The adapter shares ticks.
func NewTimestamps(ticks Column[int64]) *TimestampColumn {
	return NewAdapter(ticks, TimestampTicks)
}
