// Package store is the local persistent record store: generic CRUD over the
// four typed entity collections, with search and the dashboard aggregates.
package store

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"undian/internal/identity"
	"undian/internal/storage"
)

// Store is the process-wide record store. Each collection round-trips as one
// JSON array through the injected backend, so every mutation is a whole
// collection read-modify-write. A single mutex serialises all mutations; with
// four kinds and low contention that is cheaper than a lock per kind. There is
// no cross-kind transaction support.
type Store struct {
	backend storage.Backend
	mu      sync.Mutex
	now     func() time.Time
	newID   func() string
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the timestamp source. Tests use it to pin created_at.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides record id generation.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

// New creates a Store over the given backend.
func New(backend storage.Backend, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		now:     time.Now,
		newID:   identity.GenerateID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) timestamp() string {
	return s.now().UTC().Format(time.RFC3339)
}

// load reads one collection. Missing, unreadable or corrupt storage degrades
// to the empty collection; readers never see a fault.
func (s *Store) load(key string) []Document {
	raw, err := s.backend.Get(key)
	if err != nil {
		log.Printf("store: reading %s failed, treating as empty: %v", key, err)
		return []Document{}
	}
	if len(raw) == 0 {
		return []Document{}
	}
	var docs []Document
	if err := json.Unmarshal(raw, &docs); err != nil {
		log.Printf("store: %s is corrupt, treating as empty: %v", key, err)
		return []Document{}
	}
	return docs
}

func (s *Store) persist(key string, docs []Document) error {
	raw, err := json.Marshal(docs)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := s.backend.Put(key, raw); err != nil {
		return fmt.Errorf("failed to persist %s: %w", key, err)
	}
	return nil
}

// GetAll returns the collection in insertion order.
func (s *Store) GetAll(kind Kind) []Document {
	key, err := kind.storageKey()
	if err != nil {
		return []Document{}
	}
	return s.load(key)
}

// GetByID returns the record with the given id, or nil.
func (s *Store) GetByID(kind Kind, id string) Document {
	for _, d := range s.GetAll(kind) {
		if d.ID() == id {
			return d
		}
	}
	return nil
}

// FindBy returns all records whose field equals value exactly.
func (s *Store) FindBy(kind Kind, field string, value any) []Document {
	var out []Document
	for _, d := range s.GetAll(kind) {
		if equalValues(d[field], value) {
			out = append(out, d)
		}
	}
	return out
}

// FindOneBy returns the first record (insertion order) whose field equals
// value, or nil.
func (s *Store) FindOneBy(kind Kind, field string, value any) Document {
	for _, d := range s.GetAll(kind) {
		if equalValues(d[field], value) {
			return d
		}
	}
	return nil
}

// Search returns records matching every non-falsy criterion. String criteria
// match stored strings by case-insensitive substring; everything else is exact
// equality.
func (s *Store) Search(kind Kind, criteria map[string]any) []Document {
	var out []Document
	for _, d := range s.GetAll(kind) {
		if matches(d, criteria) {
			out = append(out, d)
		}
	}
	return out
}

func matches(d Document, criteria map[string]any) bool {
	for field, want := range criteria {
		if falsy(want) {
			continue
		}
		got := d[field]
		if ws, ok := want.(string); ok {
			if gs, ok := got.(string); ok {
				if !strings.Contains(strings.ToLower(gs), strings.ToLower(ws)) {
					return false
				}
				continue
			}
		}
		if !equalValues(got, want) {
			return false
		}
	}
	return true
}

// Insert assigns a fresh id and created_at, appends the record and persists
// the whole collection in one read-modify-write.
func (s *Store) Insert(kind Kind, data any) (Document, error) {
	key, err := kind.storageKey()
	if err != nil {
		return nil, err
	}
	doc, err := ToDocument(data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode record: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	docs := s.load(key)
	doc["id"] = s.newID()
	doc["created_at"] = s.timestamp()
	delete(doc, "updated_at")
	docs = append(docs, doc)
	if err := s.persist(key, docs); err != nil {
		return nil, err
	}
	return doc, nil
}

// Update merges patch over the stored record and stamps updated_at. The id and
// created_at fields are immutable and silently dropped from the patch. Returns
// (nil, false) when no record has the id.
func (s *Store) Update(kind Kind, id string, patch map[string]any) (Document, bool) {
	key, err := kind.storageKey()
	if err != nil {
		return nil, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	docs := s.load(key)
	for i, d := range docs {
		if d.ID() != id {
			continue
		}
		for field, value := range patch {
			if field == "id" || field == "created_at" {
				continue
			}
			d[field] = value
		}
		d["updated_at"] = s.timestamp()
		docs[i] = d
		if err := s.persist(key, docs); err != nil {
			log.Printf("store: update of %s/%s not persisted: %v", kind, id, err)
			return nil, false
		}
		return d, true
	}
	return nil, false
}

// Delete removes the record with the given id. Returns false, leaving the
// collection untouched, when the id is absent.
func (s *Store) Delete(kind Kind, id string) bool {
	key, err := kind.storageKey()
	if err != nil {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	docs := s.load(key)
	for i, d := range docs {
		if d.ID() != id {
			continue
		}
		docs = append(docs[:i], docs[i+1:]...)
		if err := s.persist(key, docs); err != nil {
			log.Printf("store: delete of %s/%s not persisted: %v", kind, id, err)
			return false
		}
		return true
	}
	return false
}
