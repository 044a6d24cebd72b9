package query

import (
	"context"

	"github.com/ledgerline/bank/account-service/internal/repository"
	"github.com/ledgerline/bank/shared/cqrs"
	"github.com/ledgerline/bank/shared/errs"
	"github.com/ledgerline/bank/shared/logger"
	"github.com/ledgerline/bank/shared/models"
	sharedredis "github.com/ledgerline/bank/shared/redis"
	"github.com/ledgerline/bank/shared/remote"
)

// AccountQueryService serves account views with the owning client embedded.
// The client is resolved on every read and never cached.
type AccountQueryService struct {
	store   repository.AccountStore
	clients remote.Resolver[models.ClientView]
	entries sharedredis.Membership
}

func NewAccountQueryService(
	store repository.AccountStore,
	clients remote.Resolver[models.ClientView],
	entries sharedredis.Membership,
) *AccountQueryService {
	return &AccountQueryService{store: store, clients: clients, entries: entries}
}

func (s *AccountQueryService) GetAccount(ctx context.Context, q cqrs.GetAccountQuery) (*models.AccountView, error) {
	account, err := s.store.FindByNumber(ctx, q.AccountNumber)
	if err != nil {
		return nil, err
	}
	client, err := remote.Lookup(ctx, s.clients, errs.EntityClient, account.ClientID, remote.PurposeEmbed)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, account, client), nil
}

// ListAccounts embeds the client of every account. The first failed client
// lookup fails the whole list.
func (s *AccountQueryService) ListAccounts(ctx context.Context, q cqrs.ListAccountsQuery) ([]models.AccountView, error) {
	accounts, err := s.store.FindAll(ctx, q.ClientID)
	if err != nil {
		return nil, err
	}

	clients := make(map[int64]*models.ClientView)
	views := make([]models.AccountView, 0, len(accounts))
	for i := range accounts {
		account := &accounts[i]
		client, ok := clients[account.ClientID]
		if !ok {
			client, err = remote.Lookup(ctx, s.clients, errs.EntityClient, account.ClientID, remote.PurposeEmbed)
			if err != nil {
				return nil, err
			}
			clients[account.ClientID] = client
		}
		views = append(views, *s.view(ctx, account, client))
	}
	return views, nil
}

func (s *AccountQueryService) view(ctx context.Context, account *models.Account, client *models.ClientView) *models.AccountView {
	view := models.AccountToView(account, client)
	n, err := s.entries.Count(ctx, account.AccountNumber)
	if err != nil {
		// the count is informational; the view is still served
		logger.Warn("failed to count ledger entries", logger.Fields{"accountNumber": account.AccountNumber, "error": err.Error()})
		return view
	}
	view.EntryCount = n
	return view
}
