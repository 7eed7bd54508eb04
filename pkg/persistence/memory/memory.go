// Package memory provides an in-process persistence.Store.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-sitegen/pkg/persistence"
)

// Option customises the Store.
type Option func(*Store)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides id assignment.
func WithIDGenerator(next func() string) Option {
	return func(s *Store) {
		if next != nil {
			s.newID = next
		}
	}
}

// Store keeps documents in a map guarded by a RWMutex.
type Store struct {
	mu    sync.RWMutex
	docs  map[string]persistence.Document
	seq   map[string]int
	next  int
	now   func() time.Time
	newID func() string
}

var _ persistence.Store = (*Store)(nil)

// New constructs an empty Store.
func New(opts ...Option) *Store {
	s := &Store{
		docs:  make(map[string]persistence.Document),
		seq:   make(map[string]int),
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *Store) Get(ctx context.Context, id string) (persistence.Document, error) {
	if err := ctx.Err(); err != nil {
		return persistence.Document{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[id]
	if !ok {
		return persistence.Document{}, fmt.Errorf("%w: %s", persistence.ErrNotFound, id)
	}
	return cloneDocument(doc), nil
}

func (s *Store) List(ctx context.Context) ([]persistence.Summary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	docs := make([]persistence.Document, 0, len(s.docs))
	for _, doc := range s.docs {
		docs = append(docs, doc)
	}
	// Newest first; the write sequence breaks timestamp ties.
	sort.Slice(docs, func(i, j int) bool {
		if !docs[i].UpdatedAt.Equal(docs[j].UpdatedAt) {
			return docs[i].UpdatedAt.After(docs[j].UpdatedAt)
		}
		return s.seq[docs[i].ID] > s.seq[docs[j].ID]
	})
	out := make([]persistence.Summary, len(docs))
	for i, doc := range docs {
		out[i] = doc.Summary()
	}
	return out, nil
}

func (s *Store) Insert(ctx context.Context, name string, config json.RawMessage) (persistence.Document, error) {
	if err := ctx.Err(); err != nil {
		return persistence.Document{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now().UTC()
	doc := persistence.Document{
		ID:        s.newID(),
		Name:      name,
		Config:    append(json.RawMessage(nil), config...),
		Status:    persistence.StatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, exists := s.docs[doc.ID]; exists {
		return persistence.Document{}, fmt.Errorf("memory: duplicate id %q", doc.ID)
	}
	s.docs[doc.ID] = doc
	s.touch(doc.ID)
	return cloneDocument(doc), nil
}

func (s *Store) Update(ctx context.Context, id, name string, config json.RawMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[id]
	if !ok {
		return fmt.Errorf("%w: %s", persistence.ErrNotFound, id)
	}
	doc.Name = name
	doc.Config = append(json.RawMessage(nil), config...)
	doc.UpdatedAt = s.now().UTC()
	s.docs[id] = doc
	s.touch(id)
	return nil
}

func (s *Store) touch(id string) {
	s.next++
	s.seq[id] = s.next
}

func cloneDocument(doc persistence.Document) persistence.Document {
	doc.Config = append(json.RawMessage(nil), doc.Config...)
	return doc
}
