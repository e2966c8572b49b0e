package repository

import (
	"context"
	"fmt"
	"sync"

	"messenger_service/internal/backend/domain"
	errprocess "messenger_service/pkg/err"
)

type memoryStore struct {
	mu          sync.RWMutex
	collections map[string][]domain.Record
}

// NewMemoryStore in-process store, lost on exit
func NewMemoryStore(collections []string) Store {
	s := &memoryStore{collections: make(map[string][]domain.Record, len(collections))}
	for _, c := range collections {
		s.collections[c] = nil
	}
	return s
}

func (s *memoryStore) List(_ context.Context, collection string, filter map[string]string) ([]domain.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records, ok := s.collections[collection]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCollection, collection)
	}
	out := make([]domain.Record, 0, len(records))
	for _, r := range records {
		if r.Matches(filter) {
			out = append(out, r.Clone())
		}
	}
	return out, nil
}

func (s *memoryStore) Get(_ context.Context, collection, id string) (domain.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, err := s.find(collection, id)
	if err != nil {
		return nil, err
	}
	return s.collections[collection][idx].Clone(), nil
}

func (s *memoryStore) Create(_ context.Context, collection string, record domain.Record) (domain.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, ok := s.collections[collection]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCollection, collection)
	}
	id := record.ID()
	for _, r := range records {
		if r.ID() == id {
			return nil, errprocess.Validation(domain.IDField, fmt.Sprintf("duplicate id %s", id))
		}
	}
	s.collections[collection] = append(records, record.Clone())
	return record.Clone(), nil
}

func (s *memoryStore) Patch(_ context.Context, collection, id string, fields domain.Record) (domain.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, err := s.find(collection, id)
	if err != nil {
		return nil, err
	}
	merged := s.collections[collection][idx].Clone()
	for k, v := range fields {
		if k == domain.IDField {
			continue
		}
		merged[k] = v
	}
	s.collections[collection][idx] = merged
	return merged.Clone(), nil
}

func (s *memoryStore) Delete(_ context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, err := s.find(collection, id)
	if err != nil {
		return err
	}
	records := s.collections[collection]
	s.collections[collection] = append(records[:idx:idx], records[idx+1:]...)
	return nil
}

// find caller holds the lock
func (s *memoryStore) find(collection, id string) (int, error) {
	records, ok := s.collections[collection]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownCollection, collection)
	}
	for i, r := range records {
		if r.ID() == id {
			return i, nil
		}
	}
	return 0, errprocess.NotFound(collection, id)
}
