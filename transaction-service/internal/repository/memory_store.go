package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/ledgerline/bank/shared/errs"
	"github.com/ledgerline/bank/shared/models"
)

// MemoryStore is an in-process LedgerStore for tests and DATABASE_DRIVER=memory.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[int64]models.LedgerEntry
	nextID  int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[int64]models.LedgerEntry)}
}

func (s *MemoryStore) Save(_ context.Context, entry *models.LedgerEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	entry.ID = s.nextID
	s.entries[entry.ID] = *entry
	return nil
}

func (s *MemoryStore) Update(_ context.Context, entry *models.LedgerEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[entry.ID]; !ok {
		return &errs.NotFoundError{Entity: errs.EntityLedgerEntry, ID: entry.ID}
	}
	s.entries[entry.ID] = *entry
	return nil
}

func (s *MemoryStore) FindByID(_ context.Context, id int64) (*models.LedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[id]
	if !ok {
		return nil, &errs.NotFoundError{Entity: errs.EntityLedgerEntry, ID: id}
	}
	return &entry, nil
}

func (s *MemoryStore) ExistsByID(_ context.Context, id int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.entries[id]
	return ok, nil
}

func (s *MemoryStore) DeleteByID(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[id]; !ok {
		return &errs.NotFoundError{Entity: errs.EntityLedgerEntry, ID: id}
	}
	delete(s.entries, id)
	return nil
}

func (s *MemoryStore) FindAll(_ context.Context) ([]models.LedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.LedgerEntry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) FindByDateRange(_ context.Context, start, end models.Date) ([]models.LedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.LedgerEntry{}
	for _, e := range s.entries {
		if !e.Date.Before(start) && !e.Date.After(end) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
