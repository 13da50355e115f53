// Package store keeps named mind map documents.
package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"sync"

	"mindmap/diagram"
)

var (
	// ErrNotFound is returned when no map has the requested name.
	ErrNotFound = errors.New("map not found")
	// ErrInvalidName is returned for names outside [A-Za-z0-9_.-]{1,64}.
	ErrInvalidName = errors.New("invalid map name")
)

var validName = regexp.MustCompile(`^[A-Za-z0-9_.-]{1,64}$`)

// Store persists documents by name.
type Store interface {
	Save(ctx context.Context, name string, doc diagram.Document) error
	Load(ctx context.Context, name string) (*diagram.Document, error)
	List(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, name string) error
	Close() error
}

// CheckName validates a map name.
func CheckName(name string) error {
	if !validName.MatchString(name) {
		return fmt.Errorf("%q: %w", name, ErrInvalidName)
	}
	return nil
}

// MemoryStore keeps documents in process memory.
type MemoryStore struct {
	mu   sync.RWMutex
	maps map[string]diagram.Document
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{maps: make(map[string]diagram.Document)}
}

// Save stores a copy of doc under name, replacing any earlier version.
func (s *MemoryStore) Save(_ context.Context, name string, doc diagram.Document) error {
	if err := CheckName(name); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.maps[name] = copyDocument(doc)
	return nil
}

// Load returns a copy of the document saved under name.
func (s *MemoryStore) Load(_ context.Context, name string) (*diagram.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.maps[name]
	if !ok {
		return nil, fmt.Errorf("load %q: %w", name, ErrNotFound)
	}
	out := copyDocument(doc)
	return &out, nil
}

// List returns the saved names in order.
func (s *MemoryStore) List(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.maps))
	for name := range s.maps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes a saved map.
func (s *MemoryStore) Delete(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.maps[name]; !ok {
		return fmt.Errorf("delete %q: %w", name, ErrNotFound)
	}
	delete(s.maps, name)
	return nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}

func copyDocument(doc diagram.Document) diagram.Document {
	out := doc
	out.Nodes = make([]diagram.Node, len(doc.Nodes))
	for i := range doc.Nodes {
		out.Nodes[i] = *doc.Nodes[i].Clone()
	}
	return out
}
