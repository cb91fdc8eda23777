// Package series implements named, homogeneously typed columns and the codec
// that packs them into fixed-stride row buffers.
//
// # Overview
//
// Every column satisfies the type-erased Series interface. There are exactly
// two shapes:
//
//   - Owned[T]: a column that owns a vector of int64 or float64 values.
//   - Adapter[T, Q]: a view presenting a Column[Q] as a Column[T] through a
//     pure Decode/Encode pair. Timestamps are the canonical case: a
//     TimestampColumn is an Adapter[time.Time, int64] over 100ns ticks.
//
// Typed access is recovered with AsOwned, AsAdapter or AsColumn, which fail
// with errors.ErrorTypeTypeMismatch instead of returning a wrong view.
//
// # Ownership
//
// Slicing an owned column copies. Cloning always deep-copies, and cloning an
// adapter clones its source. Wrapping a column in an adapter shares it, so
// writes through the adapter are visible in the source and in every other
// adapter over it.
//
// # Row buffers
//
// A Schema lists fields with a byte offset and width inside a row of Stride
// bytes. EncodeField and DecodeField move one column in and out of its slot
// using the host's native byte order; no conversion is performed:
//
//	schema := series.NewSchema(
//		series.Field{Name: "at", Type: series.TypeTimestamp},
//		series.Field{Name: "price", Type: series.TypeFloat64},
//	)
//	buf := make([]byte, schema.BufferSize(3))
//	err := series.EncodeField(buf, schema, 1, series.FromFloat64s("price", prices), 3)
//
// A float64 field stores float64 elements; int64 and timestamp fields store
// int64. An adapter writes the elements of its source, so EncodeField
// rejects an adapter whose storage differs from the field's with
// errors.ErrorTypeTypeMismatch. Fields of any other type are rejected with
// errors.ErrorTypeUnsupportedType.
//
// # Iteration and transforms
//
// Column.All iterates without copying, Values materializes a slice and
// String renders "type(len): v0 v1 ...". Apply and CumSum derive new float64
// columns from any Column[float64].
//
// # Concurrency
//
// Columns are not safe for concurrent mutation. Distinct fields of one buffer
// occupy disjoint bytes and may be encoded or decoded concurrently.
package series
