package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/ledgerline/bank/shared/errs"
	"github.com/ledgerline/bank/shared/models"
)

// MemoryStore is an in-process ClientStore for tests and DATABASE_DRIVER=memory.
type MemoryStore struct {
	mu      sync.RWMutex
	clients map[int64]models.Client
	nextID  int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{clients: make(map[int64]models.Client)}
}

func (s *MemoryStore) Save(_ context.Context, client *models.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	client.ID = s.nextID
	s.clients[client.ID] = *client
	return nil
}

func (s *MemoryStore) Update(_ context.Context, client *models.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[client.ID]; !ok {
		return &errs.NotFoundError{Entity: errs.EntityClient, ID: client.ID}
	}
	s.clients[client.ID] = *client
	return nil
}

func (s *MemoryStore) FindByID(_ context.Context, id int64) (*models.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	client, ok := s.clients[id]
	if !ok {
		return nil, &errs.NotFoundError{Entity: errs.EntityClient, ID: id}
	}
	return &client, nil
}

func (s *MemoryStore) FindByIdentification(_ context.Context, identification string) (*models.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.clients {
		if c.Identification == identification {
			return &c, nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) ExistsByID(_ context.Context, id int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.clients[id]
	return ok, nil
}

func (s *MemoryStore) DeleteByID(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[id]; !ok {
		return &errs.NotFoundError{Entity: errs.EntityClient, ID: id}
	}
	delete(s.clients, id)
	return nil
}

func (s *MemoryStore) FindAll(_ context.Context) ([]models.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Client, 0, len(s.clients))
	for _, c := range s.clients {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
