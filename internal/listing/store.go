package listing

import (
	"errors"
	"fmt"
	"slices"
)

// ErrNotFound is returned when an id is absent from the store.
var ErrNotFound = errors.New("not found")

// Store is the ordered, in-memory source of truth of one screen. It is not
// safe for concurrent use; the owning screen serializes access.
type Store[T Record] struct {
	items []T
}

// NewStore copies items into a new store.
func NewStore[T Record](items []T) *Store[T] {
	return &Store[T]{items: slices.Clone(items)}
}

// Reset replaces the whole content, as a fresh fetch does.
func (s *Store[T]) Reset(items []T) {
	s.items = slices.Clone(items)
}

// All returns a copy of the records in store order.
func (s *Store[T]) All() []T {
	return slices.Clone(s.items)
}

// Len returns the number of records.
func (s *Store[T]) Len() int { return len(s.items) }

// Get returns the record with the given id.
func (s *Store[T]) Get(id string) (T, error) {
	i := s.index(id)
	if i < 0 {
		var zero T
		return zero, fmt.Errorf("record %q: %w", id, ErrNotFound)
	}
	return s.items[i], nil
}

// Put replaces the record that has the same id, keeping its position.
func (s *Store[T]) Put(r T) error {
	i := s.index(r.RecordID())
	if i < 0 {
		return fmt.Errorf("record %q: %w", r.RecordID(), ErrNotFound)
	}
	s.items[i] = r
	return nil
}

// Remove deletes the record with the given id.
func (s *Store[T]) Remove(id string) error {
	i := s.index(id)
	if i < 0 {
		return fmt.Errorf("record %q: %w", id, ErrNotFound)
	}
	s.items = slices.Delete(s.items, i, i+1)
	return nil
}

func (s *Store[T]) index(id string) int {
	return slices.IndexFunc(s.items, func(r T) bool { return r.RecordID() == id })
}
