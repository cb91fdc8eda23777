package docstore

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/ajitpratap0/colseries/pkg/config"
	"github.com/ajitpratap0/colseries/pkg/metrics"
)

// MemoryStore keeps documents in process memory. Documents are copied on the
// way in and out, so callers never share row bytes with the store.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]*Document
	now  func() time.Time
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs: make(map[string]*Document),
		now:  time.Now,
	}
}

func (s *MemoryStore) Put(_ context.Context, doc *Document) (err error) {
	defer func() { metrics.ObserveStore(config.DriverMemory, "put", err) }()

	if err := doc.Validate(); err != nil {
		return err
	}
	c := copyDocument(doc)
	c.UpdatedAt = s.now().UTC()

	s.mu.Lock()
	s.docs[c.ID] = c
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (_ *Document, err error) {
	defer func() { metrics.ObserveStore(config.DriverMemory, "get", err) }()

	s.mu.RLock()
	doc, ok := s.docs[id]
	s.mu.RUnlock()
	if !ok {
		return nil, notFound(id)
	}
	return copyDocument(doc), nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) (err error) {
	defer func() { metrics.ObserveStore(config.DriverMemory, "delete", err) }()

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[id]; !ok {
		return notFound(id)
	}
	delete(s.docs, id)
	return nil
}

func (s *MemoryStore) List(context.Context) ([]Summary, error) {
	s.mu.RLock()
	out := make([]Summary, 0, len(s.docs))
	for _, d := range s.docs {
		out = append(out, Summary{
			ID:        d.ID,
			Height:    d.Height,
			Fields:    len(d.Schema.Fields),
			UpdatedAt: d.UpdatedAt,
		})
	}
	s.mu.RUnlock()

	slices.SortFunc(out, func(a, b Summary) int { return strings.Compare(a.ID, b.ID) })
	metrics.ObserveStore(config.DriverMemory, "list", nil)
	return out, nil
}

func (s *MemoryStore) Close(context.Context) error { return nil }

func copyDocument(d *Document) *Document {
	c := *d
	c.Schema.Fields = slices.Clone(d.Schema.Fields)
	c.Rows = slices.Clone(d.Rows)
	return &c
}
