package repository

import (
	"context"

	"github.com/ledgerline/bank/shared/models"
	sharedredis "github.com/ledgerline/bank/shared/redis"
	goredis "github.com/redis/go-redis/v9"
)

// CachedStore serves FindByID from Redis, falling back to the wrapped store
// on a miss. Writes go to the store first and then refresh or evict the key.
type CachedStore struct {
	LedgerStore
	cache *sharedredis.RecordCache[models.LedgerEntry]
}

func NewCachedStore(store LedgerStore, redisClient *goredis.Client) *CachedStore {
	return &CachedStore{
		LedgerStore: store,
		cache:       sharedredis.NewRecordCache[models.LedgerEntry](redisClient, "ledger:entry", 0),
	}
}

func (s *CachedStore) Save(ctx context.Context, entry *models.LedgerEntry) error {
	if err := s.LedgerStore.Save(ctx, entry); err != nil {
		return err
	}
	s.cache.Put(ctx, entry.ID, entry)
	return nil
}

func (s *CachedStore) Update(ctx context.Context, entry *models.LedgerEntry) error {
	if err := s.LedgerStore.Update(ctx, entry); err != nil {
		return err
	}
	s.cache.Put(ctx, entry.ID, entry)
	return nil
}

func (s *CachedStore) FindByID(ctx context.Context, id int64) (*models.LedgerEntry, error) {
	return s.cache.Load(ctx, id, s.LedgerStore.FindByID)
}

func (s *CachedStore) DeleteByID(ctx context.Context, id int64) error {
	if err := s.LedgerStore.DeleteByID(ctx, id); err != nil {
		return err
	}
	s.cache.Evict(ctx, id)
	return nil
}
