package repository

import (
	"context"

	"github.com/ledgerline/bank/shared/models"
	sharedredis "github.com/ledgerline/bank/shared/redis"
	goredis "github.com/redis/go-redis/v9"
)

// CachedStore treats Redis as the primary source for single-account reads
// and falls back to the wrapped store, warming the cache on every cold read.
// The owning client is not cached; it is resolved on every read.
type CachedStore struct {
	AccountStore
	cache *sharedredis.RecordCache[models.Account]
}

func NewCachedStore(store AccountStore, redisClient *goredis.Client) *CachedStore {
	return &CachedStore{
		AccountStore: store,
		cache:        sharedredis.NewRecordCache[models.Account](redisClient, "account:record", 0),
	}
}

func (s *CachedStore) Save(ctx context.Context, account *models.Account) error {
	if err := s.AccountStore.Save(ctx, account); err != nil {
		return err
	}
	s.cache.Put(ctx, account.AccountNumber, account)
	return nil
}

func (s *CachedStore) Update(ctx context.Context, account *models.Account) error {
	if err := s.AccountStore.Update(ctx, account); err != nil {
		return err
	}
	s.cache.Put(ctx, account.AccountNumber, account)
	return nil
}

func (s *CachedStore) FindByNumber(ctx context.Context, accountNumber int64) (*models.Account, error) {
	return s.cache.Load(ctx, accountNumber, s.AccountStore.FindByNumber)
}

func (s *CachedStore) DeleteByNumber(ctx context.Context, accountNumber int64) error {
	if err := s.AccountStore.DeleteByNumber(ctx, accountNumber); err != nil {
		return err
	}
	s.cache.Evict(ctx, accountNumber)
	return nil
}
