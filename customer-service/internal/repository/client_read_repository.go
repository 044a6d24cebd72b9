package repository

import (
	"context"

	"github.com/ledgerline/bank/shared/models"
	sharedredis "github.com/ledgerline/bank/shared/redis"
	goredis "github.com/redis/go-redis/v9"
)

// ClientReadRepository serves client views from Redis, falling back to the
// store on a miss and warming the cache. With no Redis client it reads the
// store directly.
type ClientReadRepository struct {
	store ClientStore
	cache *sharedredis.RecordCache[models.ClientView]
}

func NewClientReadRepository(store ClientStore, redisClient *goredis.Client) *ClientReadRepository {
	return &ClientReadRepository{
		store: store,
		cache: sharedredis.NewRecordCache[models.ClientView](redisClient, "client:view", 0),
	}
}

func (r *ClientReadRepository) GetByID(ctx context.Context, id int64) (*models.ClientView, error) {
	return r.cache.Load(ctx, id, r.loadView)
}

func (r *ClientReadRepository) loadView(ctx context.Context, id int64) (*models.ClientView, error) {
	client, err := r.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return models.ClientToView(client), nil
}

// List always reads the store; only single views are cached.
func (r *ClientReadRepository) List(ctx context.Context) ([]models.ClientView, error) {
	clients, err := r.store.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]models.ClientView, 0, len(clients))
	for i := range clients {
		views = append(views, *models.ClientToView(&clients[i]))
	}
	return views, nil
}

// CacheClientView stores or refreshes the read model after a mutation.
func (r *ClientReadRepository) CacheClientView(ctx context.Context, view *models.ClientView) {
	r.cache.Put(ctx, view.ID, view)
}

func (r *ClientReadRepository) InvalidateClientView(ctx context.Context, id int64) {
	r.cache.Evict(ctx, id)
}
