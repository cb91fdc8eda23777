package frame

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ajitpratap0/colseries/pkg/docstore"
	"github.com/ajitpratap0/colseries/pkg/errors"
	"github.com/ajitpratap0/colseries/pkg/series"
)

var quoteSchema = series.Schema{
	Fields: []series.Field{
		{Name: "at", Type: series.TypeTimestamp, Offset: 0, Width: 8},
		{Name: "price", Type: series.TypeFloat64, Offset: 8, Width: 8},
		{Name: "flag", Type: series.TypeBool, Offset: 16, Width: 1},
		{Name: "qty", Type: series.TypeInt64, Offset: 20, Width: 8},
	},
	Stride: 32,
}

// encodable drops the bool field, which has no column implementation.
func encodable() *series.Schema {
	return series.NewSchema(
		series.Field{Name: "at", Type: series.TypeTimestamp},
		series.Field{Name: "price", Type: series.TypeFloat64},
		series.Field{Name: "qty", Type: series.TypeInt64},
	)
}

func quoteColumns(t *testing.T, n int) []series.Series {
	t.Helper()
	start := time.Date(2024, time.January, 2, 9, 30, 0, 0, time.UTC)
	at, err := series.DateRange("at", start, start.Add(time.Duration(n)*time.Minute), n)
	require.NoError(t, err)
	price, err := series.Random("price", n, 7)
	require.NoError(t, err)
	qty := make([]int64, n)
	for i := range qty {
		qty[i] = int64(100 * i)
	}
	return []series.Series{at, price, series.FromInt64s("qty", qty)}
}

func TestNewValidates(t *testing.T) {
	schema := encodable()
	cols := quoteColumns(t, 4)

	tests := []struct {
		name    string
		schema  *series.Schema
		columns []series.Series
		errType errors.ErrorType
	}{
		{"nil schema", nil, cols, errors.ErrorTypeValidation},
		{"column count", schema, cols[:2], errors.ErrorTypeValidation},
		{"column order", schema, []series.Series{cols[1], cols[0], cols[2]}, errors.ErrorTypeValidation},
		{"column type", schema, []series.Series{cols[0], series.FromInt64s("price", make([]int64, 4)), cols[2]}, errors.ErrorTypeTypeMismatch},
		{"column length", schema, []series.Series{cols[0], cols[1], series.FromInt64s("qty", make([]int64, 3))}, errors.ErrorTypeValidation},
		{"nil column", schema, []series.Series{cols[0], nil, cols[2]}, errors.ErrorTypeValidation},
		{"invalid schema", &series.Schema{Fields: schema.Fields, Stride: 8}, cols, errors.ErrorTypeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.schema, tt.columns)
			require.Error(t, err)
			assert.True(t, errors.IsType(err, tt.errType), "got %v", err)
		})
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	ctx := context.Background()
	for _, height := range []int{0, 1, 500} {
		cols := quoteColumns(t, height)
		f, err := New(encodable(), cols, WithWorkers(2), WithLogger(zap.NewNop()))
		require.NoError(t, err)
		assert.Equal(t, height, f.Height())

		buf, err := f.Encode(ctx)
		require.NoError(t, err)
		assert.Len(t, buf, height*24)

		out, err := Decode(ctx, f.Schema(), buf, height, WithWorkers(3))
		require.NoError(t, err)
		assert.Equal(t, height, out.Height())

		at, err := ColumnOf[time.Time](out, "at")
		require.NoError(t, err)
		want, err := series.AsColumn[time.Time](cols[0])
		require.NoError(t, err)
		require.Equal(t, want.Len(), at.Len())
		for i, v := range want.Values() {
			assert.True(t, v.Equal(at.Values()[i]), "row %d", i)
		}

		price, err := ColumnOf[float64](out, "price")
		require.NoError(t, err)
		wantPrice, err := series.AsColumn[float64](cols[1])
		require.NoError(t, err)
		assert.Equal(t, wantPrice.Values(), price.Values())

		qty, err := ColumnOf[int64](out, "qty")
		require.NoError(t, err)
		wantQty, err := series.AsColumn[int64](cols[2])
		require.NoError(t, err)
		assert.Equal(t, wantQty.Values(), qty.Values())
	}
}

func TestDecodeOwnsValues(t *testing.T) {
	ctx := context.Background()
	f, err := New(encodable(), quoteColumns(t, 3))
	require.NoError(t, err)
	buf, err := f.Encode(ctx)
	require.NoError(t, err)

	out, err := Decode(ctx, f.Schema(), buf, 3)
	require.NoError(t, err)
	qty, err := ColumnOf[int64](out, "qty")
	require.NoError(t, err)

	for i := range buf {
		buf[i] = 0
	}
	assert.Equal(t, []int64{0, 100, 200}, qty.Values())
}

func TestDecodeUnsupportedField(t *testing.T) {
	buf := make([]byte, quoteSchema.BufferSize(2))
	_, err := Decode(context.Background(), &quoteSchema, buf, 2)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeUnsupportedType))
}

func TestDecodeShortBuffer(t *testing.T) {
	schema := encodable()
	_, err := Decode(context.Background(), schema, make([]byte, schema.BufferSize(2)-1), 2)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeData))
}

func TestEncodeHonorsCancellation(t *testing.T) {
	f, err := New(encodable(), quoteColumns(t, 10), WithWorkers(1))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = f.Encode(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestColumnLookup(t *testing.T) {
	f, err := New(encodable(), quoteColumns(t, 2))
	require.NoError(t, err)

	s, ok := f.Column("price")
	require.True(t, ok)
	assert.Equal(t, series.TypeFloat64, s.Type())

	_, ok = f.Column("volume")
	assert.False(t, ok)

	_, err = ColumnOf[float64](f, "volume")
	assert.True(t, errors.IsType(err, errors.ErrorTypeNotFound))

	_, err = ColumnOf[int64](f, "price")
	assert.True(t, errors.IsType(err, errors.ErrorTypeTypeMismatch))

	cols := f.Columns()
	cols[0] = nil
	assert.NotNil(t, f.Columns()[0])
}

func TestDocumentRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemoryStore()

	f, err := New(encodable(), quoteColumns(t, 16))
	require.NoError(t, err)
	doc, err := f.ToDocument(ctx, "quotes")
	require.NoError(t, err)
	require.NoError(t, store.Put(ctx, doc))

	loaded, err := store.Get(ctx, "quotes")
	require.NoError(t, err)
	out, err := FromDocument(ctx, loaded)
	require.NoError(t, err)
	assert.Equal(t, 16, out.Height())
	assert.Equal(t, f.Schema().Fields, out.Schema().Fields)

	qty, err := ColumnOf[int64](out, "qty")
	require.NoError(t, err)
	assert.Equal(t, int64(1500), qty.Values()[15])
}

func TestFromDocumentErrors(t *testing.T) {
	_, err := FromDocument(context.Background(), &docstore.Document{})
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))

	doc := &docstore.Document{ID: "quotes", Schema: quoteSchema, Height: 1, Rows: make([]byte, 32)}
	_, err = FromDocument(context.Background(), doc)
	assert.True(t, errors.IsType(err, errors.ErrorTypeUnsupportedType))
}

func TestFromDocumentRejectsOverflowingHeight(t *testing.T) {
	schema := encodable()
	doc := &docstore.Document{ID: "corrupt", Schema: *schema, Height: 1 << 61}

	assert.NotPanics(t, func() {
		_, err := FromDocument(context.Background(), doc)
		assert.True(t, errors.IsType(err, errors.ErrorTypeValidation), "got %v", err)
	})
	assert.NotPanics(t, func() {
		_, err := Decode(context.Background(), schema, nil, 1<<61)
		assert.True(t, errors.IsType(err, errors.ErrorTypeData), "got %v", err)
	})
}

func TestDocumentLogsCarryContext(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := zap.New(core)
	ctx := context.Background()

	f, err := New(encodable(), quoteColumns(t, 3), WithLogger(log))
	require.NoError(t, err)
	doc, err := f.ToDocument(ctx, "quotes")
	require.NoError(t, err)
	_, err = FromDocument(ctx, doc, WithLogger(log))
	require.NoError(t, err)

	encoded := logs.FilterMessage("encoded frame").All()
	require.Len(t, encoded, 1)
	assert.Equal(t, "quotes", encoded[0].ContextMap()["document"])
	assert.Equal(t, "encode", encoded[0].ContextMap()["operation"])

	decoded := logs.FilterMessage("decoded frame").All()
	require.Len(t, decoded, 1)
	assert.Equal(t, "quotes", decoded[0].ContextMap()["document"])
	assert.Equal(t, "decode", decoded[0].ContextMap()["operation"])
	assert.Equal(t, int64(3), decoded[0].ContextMap()["rows"])
}

func TestEncodeEmitsSpan(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	defer otel.SetTracerProvider(prev)

	f, err := New(encodable(), quoteColumns(t, 5))
	require.NoError(t, err)
	_, err = f.Encode(context.Background())
	require.NoError(t, err)

	ended := rec.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "frame.encode", ended[0].Name())
}

func TestSliceAndRow(t *testing.T) {
	f, err := New(encodable(), quoteColumns(t, 10))
	require.NoError(t, err)

	page, err := f.Slice(series.Range{Start: 2, Length: 4, Step: 2})
	require.NoError(t, err)
	assert.Equal(t, 4, page.Height())

	row, err := page.Row(1)
	require.NoError(t, err)
	require.Len(t, row, 3)
	assert.Equal(t, int64(400), row[2])
	at, ok := row[0].(time.Time)
	require.True(t, ok)
	assert.True(t, at.Equal(time.Date(2024, time.January, 2, 9, 34, 0, 0, time.UTC)), "got %s", at)

	_, err = page.Row(4)
	assert.True(t, errors.IsType(err, errors.ErrorTypeIndexOutOfRange))

	_, err = f.Slice(series.Span(8, 5))
	assert.True(t, errors.IsType(err, errors.ErrorTypeIndexOutOfRange))

	buf, err := page.Encode(context.Background())
	require.NoError(t, err)
	assert.Len(t, buf, 4*24)
}
