// Package colseries provides typed columnar series that pack into and unpack
// from fixed-stride row buffers.
//
// A row buffer holds height rows of Stride bytes. Each schema field owns a
// fixed byte slot at the same offset in every row, so a column of values can
// be written into or read out of the buffer independently of the others.
//
// # Architecture
//
// Series come in two shapes:
//
// 1. Owned columns (series.Owned[T]) store their values in an Arrow-allocated
// buffer (pkg/vector) and give typed, bounds-checked access.
//
// 2. Adapter columns (series.Adapter[T,Q]) present values of type T over a
// source column of Q through a decode/encode pair. Timestamps are an adapter
// presenting time.Time over int64 counts of 100ns ticks since 0001-01-01 UTC.
//
// Both shapes encode into a row buffer through the shared field codec
// (series.EncodeField, series.DecodeField). pkg/frame groups equal-length
// columns under one schema and encodes or decodes all fields in parallel.
//
// # Quick Start
//
//	schema := series.NewSchema(
//	    series.Field{Name: "at", Type: series.TypeTimestamp},
//	    series.Field{Name: "price", Type: series.TypeFloat64},
//	)
//
//	at, _ := series.DateRange("at", start, end, 100)
//	price, _ := series.Random("price", 100, 42)
//
//	f, _ := frame.New(schema, []series.Series{at, price})
//	buf, _ := f.Encode(ctx)
//
//	decoded, _ := frame.Decode(ctx, schema, buf, f.Height())
//
// # Key Packages
//
//	pkg/series        - Series, owned and adapter columns, field codec, ticks
//	pkg/vector        - Arrow-backed fixed-width value storage
//	pkg/frame         - Multi-column row buffers with parallel encode/decode
//	pkg/docstore      - Row buffer documents in memory, on disk or in MongoDB
//	pkg/config        - YAML configuration with ${VAR} substitution
//	pkg/errors        - Structured error handling
//	pkg/logger        - Structured logging
//	pkg/metrics       - Prometheus codec and store metrics
//	pkg/observability - OpenTelemetry tracing
//
// # Command Line
//
//	colseries generate quotes --rows 1000 --interval 1s
//	colseries show quotes --limit 10
//	colseries show quotes --format json --offset 100 --step 10
//	colseries list
//	colseries delete quotes
//	colseries config --output colseries.yaml
//
// Every flag can also be set through a COLSERIES_ environment variable, for
// example COLSERIES_STORE_DRIVER=mongodb and COLSERIES_STORE_URI.
package colseries
