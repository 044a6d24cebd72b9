package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/ledgerline/bank/shared/errs"
	"github.com/ledgerline/bank/shared/models"
)

// MemoryStore is an in-process AccountStore for tests and DATABASE_DRIVER=memory.
type MemoryStore struct {
	mu       sync.RWMutex
	accounts map[int64]models.Account
	next     int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{accounts: make(map[int64]models.Account)}
}

func (s *MemoryStore) Save(_ context.Context, account *models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	account.AccountNumber = s.next
	s.accounts[account.AccountNumber] = *account
	return nil
}

func (s *MemoryStore) Update(_ context.Context, account *models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[account.AccountNumber]; !ok {
		return &errs.NotFoundError{Entity: errs.EntityAccount, ID: account.AccountNumber}
	}
	s.accounts[account.AccountNumber] = *account
	return nil
}

func (s *MemoryStore) FindByNumber(_ context.Context, accountNumber int64) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	account, ok := s.accounts[accountNumber]
	if !ok {
		return nil, &errs.NotFoundError{Entity: errs.EntityAccount, ID: accountNumber}
	}
	return &account, nil
}

func (s *MemoryStore) ExistsByNumber(_ context.Context, accountNumber int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.accounts[accountNumber]
	return ok, nil
}

func (s *MemoryStore) DeleteByNumber(_ context.Context, accountNumber int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[accountNumber]; !ok {
		return &errs.NotFoundError{Entity: errs.EntityAccount, ID: accountNumber}
	}
	delete(s.accounts, accountNumber)
	return nil
}

func (s *MemoryStore) FindAll(_ context.Context, clientID int64) ([]models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.Account{}
	for _, a := range s.accounts {
		if clientID > 0 && a.ClientID != clientID {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AccountNumber < out[j].AccountNumber })
	return out, nil
}
