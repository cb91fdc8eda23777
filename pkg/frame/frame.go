// Package frame groups equal-length series under one schema and moves them
// to and from a single row buffer. Fields are encoded and decoded in
// parallel; they occupy disjoint bytes of every row, so workers never write
// the same byte.
package frame

import (
	"context"
	"runtime"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ajitpratap0/colseries/pkg/docstore"
	"github.com/ajitpratap0/colseries/pkg/errors"
	"github.com/ajitpratap0/colseries/pkg/logger"
	"github.com/ajitpratap0/colseries/pkg/metrics"
	"github.com/ajitpratap0/colseries/pkg/observability"
	"github.com/ajitpratap0/colseries/pkg/series"
)

// Frame is an ordered set of series matching a schema field for field.
type Frame struct {
	schema  *series.Schema
	columns []series.Series
	height  int
	workers int
	logger  *zap.Logger
}

// Option configures a Frame.
type Option func(*Frame)

// WithWorkers bounds how many fields are encoded or decoded at once. Values
// below one mean one worker per CPU.
func WithWorkers(n int) Option {
	return func(f *Frame) {
		f.workers = n
	}
}

// WithLogger sets the logger. The global logger is used otherwise.
func WithLogger(l *zap.Logger) Option {
	return func(f *Frame) {
		f.logger = l
	}
}

func build(schema *series.Schema, columns []series.Series, height int, opts []Option) *Frame {
	f := &Frame{
		schema:  schema,
		columns: columns,
		height:  height,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.workers < 1 {
		f.workers = runtime.NumCPU()
	}
	f.logger = logger.OrGlobal(f.logger)
	return f
}

// New binds columns to schema. Column i must carry the name and type of
// field i, and every column must have the same length.
func New(schema *series.Schema, columns []series.Series, opts ...Option) (*Frame, error) {
	if schema == nil {
		return nil, errors.New(errors.ErrorTypeValidation, "frame requires a schema")
	}
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	if len(columns) != len(schema.Fields) {
		return nil, errors.Newf(errors.ErrorTypeValidation,
			"schema has %d fields but %d columns were given", len(schema.Fields), len(columns))
	}

	height := 0
	for i, col := range columns {
		field := schema.Fields[i]
		if col == nil {
			return nil, errors.Newf(errors.ErrorTypeValidation, "column for field %s is nil", field.Name)
		}
		if col.Name() != field.Name {
			return nil, errors.Newf(errors.ErrorTypeValidation,
				"column %d is named %q, schema expects %q", i, col.Name(), field.Name)
		}
		if col.Type() != field.Type {
			return nil, errors.Newf(errors.ErrorTypeTypeMismatch,
				"column %q has type %s, schema declares %s", col.Name(), col.Type(), field.Type)
		}
		if i == 0 {
			height = col.Len()
		} else if col.Len() != height {
			return nil, errors.Newf(errors.ErrorTypeValidation,
				"column %q has %d values, expected %d", col.Name(), col.Len(), height)
		}
	}

	return build(schema, columns, height, opts), nil
}

// Schema returns the frame layout.
func (f *Frame) Schema() *series.Schema { return f.schema }

// Height returns the number of rows.
func (f *Frame) Height() int { return f.height }

// Columns returns the columns in schema order.
func (f *Frame) Columns() []series.Series {
	out := make([]series.Series, len(f.columns))
	copy(out, f.columns)
	return out
}

// Column returns the column with the given name.
func (f *Frame) Column(name string) (series.Series, bool) {
	i := f.schema.Index(name)
	if i < 0 {
		return nil, false
	}
	return f.columns[i], true
}

// Row returns the boxed values of row i in schema order.
func (f *Frame) Row(i int) ([]any, error) {
	row := make([]any, len(f.columns))
	for j, col := range f.columns {
		v, err := col.Value(i)
		if err != nil {
			return nil, err
		}
		row[j] = v
	}
	return row, nil
}

// Slice returns a frame of copies of every column restricted to r.
func (f *Frame) Slice(r series.Range) (*Frame, error) {
	cols := make([]series.Series, len(f.columns))
	height := r.Length
	for i, col := range f.columns {
		s, err := col.Slice(r)
		if err != nil {
			return nil, err
		}
		cols[i] = s
		height = s.Len()
	}
	return build(f.schema, cols, height, []Option{WithWorkers(f.workers), WithLogger(f.logger)}), nil
}

// ColumnOf returns the named column viewed as a Column[T].
func ColumnOf[T any](f *Frame, name string) (series.Column[T], error) {
	s, ok := f.Column(name)
	if !ok {
		return nil, errors.Newf(errors.ErrorTypeNotFound, "frame has no column %q", name)
	}
	return series.AsColumn[T](s)
}

// Encode packs every column into a new row buffer of Height()*Stride bytes.
func (f *Frame) Encode(ctx context.Context) (_ []byte, err error) {
	ctx = logger.WithOperation(ctx, metrics.OpEncode)
	log := logger.WithContext(ctx, f.logger)
	ctx, span := observability.Start(ctx, "frame.encode",
		attribute.Int("rows", f.height),
		attribute.Int("fields", len(f.columns)),
		attribute.Int("stride", f.schema.Stride))
	timer := metrics.NewTimer()
	buf := make([]byte, f.schema.BufferSize(f.height))
	defer func() {
		metrics.ObserveCodec(metrics.OpEncode, timer.Stop(), f.height, len(buf), err)
		observability.End(span, err)
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.workers)
	for i, col := range f.columns {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			err := series.EncodeField(buf, f.schema, i, col, f.height)
			metrics.ObserveField(metrics.OpEncode, col.Type().String(), err)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		log.Debug("frame encode failed", zap.Error(err))
		return nil, err
	}

	log.Debug("encoded frame",
		zap.Int("rows", f.height),
		zap.Int("fields", len(f.columns)),
		zap.Int("bytes", len(buf)))
	return buf, nil
}

// Decode rebuilds a frame from height rows of buf laid out by schema. Every
// decoded column owns its values; buf may be reused afterwards.
func Decode(ctx context.Context, schema *series.Schema, buf []byte, height int, opts ...Option) (_ *Frame, err error) {
	if schema == nil {
		return nil, errors.New(errors.ErrorTypeValidation, "decode requires a schema")
	}
	if err := schema.Validate(); err != nil {
		return nil, err
	}

	f := build(schema, make([]series.Series, len(schema.Fields)), height, opts)
	ctx = logger.WithOperation(ctx, metrics.OpDecode)
	log := logger.WithContext(ctx, f.logger)

	ctx, span := observability.Start(ctx, "frame.decode",
		attribute.Int("rows", height),
		attribute.Int("fields", len(schema.Fields)),
		attribute.Int("bytes", len(buf)))
	timer := metrics.NewTimer()
	defer func() {
		metrics.ObserveCodec(metrics.OpDecode, timer.Stop(), height, len(buf), err)
		observability.End(span, err)
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.workers)
	for i, field := range schema.Fields {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			col, err := series.DecodeField(buf, schema, i, height)
			metrics.ObserveField(metrics.OpDecode, field.Type.String(), err)
			if err != nil {
				return err
			}
			f.columns[i] = col
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Debug("frame decode failed", zap.Error(err))
		return nil, err
	}

	log.Debug("decoded frame",
		zap.Int("rows", height),
		zap.Int("fields", len(schema.Fields)))
	return f, nil
}

// ToDocument encodes the frame into a document with the given id.
func (f *Frame) ToDocument(ctx context.Context, id string) (*docstore.Document, error) {
	rows, err := f.Encode(logger.WithDocument(ctx, id))
	if err != nil {
		return nil, err
	}
	schema := *f.schema
	schema.Fields = append([]series.Field(nil), f.schema.Fields...)
	return &docstore.Document{
		ID:     id,
		Schema: schema,
		Height: f.height,
		Rows:   rows,
	}, nil
}

// FromDocument decodes a stored document.
func FromDocument(ctx context.Context, doc *docstore.Document, opts ...Option) (*Frame, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	schema := doc.Schema
	f, err := Decode(logger.WithDocument(ctx, doc.ID), &schema, doc.Rows, doc.Height, opts...)
	if err != nil {
		return nil, errors.Wrap(err, errors.TypeOf(err), "failed to decode document").WithDetail("document", doc.ID)
	}
	return f, nil
}
