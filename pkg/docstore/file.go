package docstore

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ajitpratap0/colseries/pkg/config"
	"github.com/ajitpratap0/colseries/pkg/errors"
	"github.com/ajitpratap0/colseries/pkg/json"
	"github.com/ajitpratap0/colseries/pkg/logger"
	"github.com/ajitpratap0/colseries/pkg/metrics"
)

const fileExt = ".json"

// FileStore keeps one JSON file per document in a directory. Row bytes are
// stored base64 encoded.
type FileStore struct {
	dir    string
	logger *zap.Logger
}

// NewFileStore creates dir if needed.
func NewFileStore(dir string, log *zap.Logger) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New(errors.ErrorTypeConfig, "file store requires a path")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to create store directory").
			WithDetail("path", dir)
	}
	return &FileStore{
		dir:    dir,
		logger: logger.OrGlobal(log).With(zap.String("driver", config.DriverFile), zap.String("path", dir)),
	}, nil
}

func (s *FileStore) path(id string) (string, error) {
	// Dot files are temporaries and are skipped by List.
	if id == "" || strings.HasPrefix(id, ".") || strings.ContainsAny(id, `/\`) {
		return "", errors.Newf(errors.ErrorTypeValidation, "document id %q is not a valid file name", id)
	}
	return filepath.Join(s.dir, id+fileExt), nil
}

func (s *FileStore) Put(_ context.Context, doc *Document) (err error) {
	defer func() { metrics.ObserveStore(config.DriverFile, "put", err) }()

	if err := doc.Validate(); err != nil {
		return err
	}
	path, err := s.path(doc.ID)
	if err != nil {
		return err
	}

	c := *doc
	c.UpdatedAt = time.Now().UTC()
	data, err := json.Marshal(&c)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeData, "failed to encode document").WithDetail("document", c.ID)
	}

	// Write then rename so readers never see a partial file.
	tmp, err := os.CreateTemp(s.dir, "."+c.ID+"-*")
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to create temp file")
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to write document").WithDetail("document", c.ID)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to write document").WithDetail("document", c.ID)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to replace document").WithDetail("document", c.ID)
	}

	s.logger.Debug("stored document", zap.String("document", c.ID), zap.Int("bytes", len(data)))
	return nil
}

func (s *FileStore) Get(_ context.Context, id string) (_ *Document, err error) {
	defer func() { metrics.ObserveStore(config.DriverFile, "get", err) }()

	path, err := s.path(id)
	if err != nil {
		return nil, err
	}
	return s.read(id, path)
}

func (s *FileStore) read(id, path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, notFound(id)
		}
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to read document").WithDetail("document", id)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeData, "failed to parse document").WithDetail("document", id)
	}
	return &doc, nil
}

func (s *FileStore) Delete(_ context.Context, id string) (err error) {
	defer func() { metrics.ObserveStore(config.DriverFile, "delete", err) }()

	path, err := s.path(id)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return notFound(id)
		}
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to delete document").WithDetail("document", id)
	}
	return nil
}

func (s *FileStore) List(ctx context.Context) (_ []Summary, err error) {
	defer func() { metrics.ObserveStore(config.DriverFile, "list", err) }()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to list store directory")
	}

	out := []Summary{}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || filepath.Ext(name) != fileExt {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		id := strings.TrimSuffix(name, fileExt)
		doc, err := s.read(id, filepath.Join(s.dir, name))
		if err != nil {
			s.logger.Warn("skipping unreadable document", zap.String("document", id), zap.Error(err))
			continue
		}
		out = append(out, Summary{
			ID:        doc.ID,
			Height:    doc.Height,
			Fields:    len(doc.Schema.Fields),
			UpdatedAt: doc.UpdatedAt,
		})
	}
	slices.SortFunc(out, func(a, b Summary) int { return strings.Compare(a.ID, b.ID) })
	return out, nil
}

func (s *FileStore) Close(context.Context) error { return nil }
