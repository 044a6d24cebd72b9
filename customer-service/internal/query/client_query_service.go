package query

import (
	"context"

	"github.com/ledgerline/bank/customer-service/internal/repository"
	"github.com/ledgerline/bank/shared/cqrs"
	"github.com/ledgerline/bank/shared/logger"
	"github.com/ledgerline/bank/shared/models"
	sharedredis "github.com/ledgerline/bank/shared/redis"
)

// ClientQueryService reads client views from the Redis cache (with a store
// fallback) and adds the number of accounts each client owns.
type ClientQueryService struct {
	readRepo *repository.ClientReadRepository
	accounts sharedredis.Membership
}

func NewClientQueryService(readRepo *repository.ClientReadRepository, accounts sharedredis.Membership) *ClientQueryService {
	return &ClientQueryService{readRepo: readRepo, accounts: accounts}
}

func (s *ClientQueryService) GetClient(ctx context.Context, q cqrs.GetClientQuery) (*models.ClientView, error) {
	view, err := s.readRepo.GetByID(ctx, q.ClientID)
	if err != nil {
		return nil, err
	}
	s.countAccounts(ctx, view)
	return view, nil
}

func (s *ClientQueryService) ListClients(ctx context.Context, _ cqrs.ListClientsQuery) ([]models.ClientView, error) {
	views, err := s.readRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range views {
		s.countAccounts(ctx, &views[i])
	}
	return views, nil
}

func (s *ClientQueryService) countAccounts(ctx context.Context, view *models.ClientView) {
	n, err := s.accounts.Count(ctx, view.ID)
	if err != nil {
		logger.Warn("failed to count accounts", logger.Fields{"clientId": view.ID, "error": err.Error()})
		return
	}
	view.AccountCount = n
}
