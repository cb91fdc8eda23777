// Package docstore persists row buffers as documents. A document carries the
// schema, the row height and the raw row bytes, which is everything needed to
// decode its columns again.
package docstore

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ajitpratap0/colseries/pkg/config"
	"github.com/ajitpratap0/colseries/pkg/errors"
	"github.com/ajitpratap0/colseries/pkg/series"
)

// Document is one persisted row buffer.
type Document struct {
	ID        string        `bson:"_id" json:"id"`
	Schema    series.Schema `bson:"schema" json:"schema"`
	Height    int           `bson:"height" json:"height"`
	Rows      []byte        `bson:"rows" json:"rows"`
	UpdatedAt time.Time     `bson:"updated_at" json:"updated_at"`
}

// Validate checks that the document is self-consistent.
func (d *Document) Validate() error {
	if d.ID == "" {
		return errors.New(errors.ErrorTypeValidation, "document id is required")
	}
	if err := d.Schema.Validate(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeValidation, "invalid document schema").
			WithDetail("document", d.ID)
	}
	if d.Height < 0 {
		return errors.Newf(errors.ErrorTypeValidation, "negative row height %d", d.Height).
			WithDetail("document", d.ID)
	}
	if !d.Schema.Fits(d.Height, len(d.Rows)) {
		return errors.Newf(errors.ErrorTypeValidation,
			"document holds %d row bytes, too few for %d rows of stride %d", len(d.Rows), d.Height, d.Schema.Stride).
			WithDetail("document", d.ID)
	}
	if want := d.Schema.BufferSize(d.Height); len(d.Rows) != want {
		return errors.Newf(errors.ErrorTypeValidation,
			"document holds %d row bytes, %d rows of stride %d need %d", len(d.Rows), d.Height, d.Schema.Stride, want).
			WithDetail("document", d.ID)
	}
	return nil
}

// Summary describes a stored document without its rows.
type Summary struct {
	ID        string    `bson:"_id" json:"id"`
	Height    int       `bson:"height" json:"height"`
	Fields    int       `bson:"fields" json:"fields"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Store is a document store for row buffers.
type Store interface {
	// Put inserts or replaces the document with doc.ID.
	Put(ctx context.Context, doc *Document) error
	// Get returns the document, or an ErrorTypeNotFound error.
	Get(ctx context.Context, id string) (*Document, error)
	// Delete removes the document, or returns an ErrorTypeNotFound error.
	Delete(ctx context.Context, id string) error
	// List summarizes all documents ordered by id.
	List(ctx context.Context) ([]Summary, error)
	Close(ctx context.Context) error
}

// Open creates the store selected by cfg.Driver.
func Open(ctx context.Context, cfg config.StoreConfig, logger *zap.Logger) (Store, error) {
	switch cfg.Driver {
	case config.DriverMemory, "":
		return NewMemoryStore(), nil
	case config.DriverFile:
		s, err := NewFileStore(cfg.Path, logger)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.DriverMongo:
		s, err := NewMongoStore(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, errors.Newf(errors.ErrorTypeConfig, "unknown store driver %q", cfg.Driver)
	}
}

func notFound(id string) error {
	return errors.Newf(errors.ErrorTypeNotFound, "document %q not found", id).
		WithDetail("document", id)
}
