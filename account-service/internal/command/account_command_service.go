package command

import (
	"context"
	"fmt"
	"time"

	"github.com/ledgerline/bank/account-service/internal/repository"
	"github.com/ledgerline/bank/shared/cqrs"
	"github.com/ledgerline/bank/shared/errs"
	"github.com/ledgerline/bank/shared/events"
	"github.com/ledgerline/bank/shared/logger"
	"github.com/ledgerline/bank/shared/models"
	sharedredis "github.com/ledgerline/bank/shared/redis"
	"github.com/ledgerline/bank/shared/remote"
)

// AccountCommandService writes account state and keeps the ledger entry
// membership of each account in sync from ledger events.
type AccountCommandService struct {
	store     repository.AccountStore
	clients   remote.Resolver[models.ClientView]
	entries   sharedredis.Membership
	publisher events.Publisher
}

func NewAccountCommandService(
	store repository.AccountStore,
	clients remote.Resolver[models.ClientView],
	entries sharedredis.Membership,
	publisher events.Publisher,
) *AccountCommandService {
	return &AccountCommandService{
		store:     store,
		clients:   clients,
		entries:   entries,
		publisher: publisher,
	}
}

func (s *AccountCommandService) CreateAccount(ctx context.Context, cmd cqrs.CreateAccountCommand) (*models.Account, error) {
	account, err := models.NewAccount(cmd.AccountType, cmd.InitialBalance, cmd.ClientID)
	if err != nil {
		return nil, err
	}
	if err := s.requireClient(ctx, account.ClientID); err != nil {
		return nil, err
	}

	if err := s.store.Save(ctx, account); err != nil {
		return nil, err
	}
	s.publish(ctx, events.AccountCreated, accountEvent(account, 0))
	return account, nil
}

// UpdateAccount replaces every mutable field of the account after
// re-validating the owning client.
func (s *AccountCommandService) UpdateAccount(ctx context.Context, cmd cqrs.UpdateAccountCommand) (*models.Account, error) {
	replacement, err := models.NewAccount(cmd.AccountType, cmd.InitialBalance, cmd.ClientID)
	if err != nil {
		return nil, err
	}
	if err := s.requireClient(ctx, replacement.ClientID); err != nil {
		return nil, err
	}

	account, err := s.store.FindByNumber(ctx, cmd.AccountNumber)
	if err != nil {
		return nil, err
	}
	previousClient := account.ClientID

	account.AccountType = replacement.AccountType
	account.InitialBalance = replacement.InitialBalance
	account.ClientID = replacement.ClientID
	account.Active = cmd.Active
	account.UpdatedAt = time.Now().UTC()
	if err := s.store.Update(ctx, account); err != nil {
		return nil, err
	}

	moved := int64(0)
	if previousClient != account.ClientID {
		moved = previousClient
	}
	s.publish(ctx, events.AccountUpdated, accountEvent(account, moved))
	return account, nil
}

// DeleteAccount refuses while ledger entries still reference the account.
func (s *AccountCommandService) DeleteAccount(ctx context.Context, cmd cqrs.DeleteAccountCommand) error {
	exists, err := s.store.ExistsByNumber(ctx, cmd.AccountNumber)
	if err != nil {
		return err
	}
	if !exists {
		return &errs.NotFoundError{Entity: errs.EntityAccount, ID: cmd.AccountNumber}
	}

	n, err := s.entries.Count(ctx, cmd.AccountNumber)
	if err != nil {
		return fmt.Errorf("failed to count ledger entries: %w", err)
	}
	if n > 0 {
		return &errs.ConflictError{
			Entity: errs.EntityAccount,
			ID:     cmd.AccountNumber,
			Reason: fmt.Sprintf("account still has %d ledger entries", n),
		}
	}

	account, err := s.store.FindByNumber(ctx, cmd.AccountNumber)
	if err != nil {
		return err
	}
	if err := s.store.DeleteByNumber(ctx, cmd.AccountNumber); err != nil {
		return err
	}
	s.publish(ctx, events.AccountDeleted, accountEvent(account, 0))
	return nil
}

// HandleLedgerEvent records which ledger entries reference which account.
// Membership is a set, so redelivered events leave it unchanged.
func (s *AccountCommandService) HandleLedgerEvent(ctx context.Context, event events.Event) error {
	var data events.LedgerEntryEvent
	switch event.Type {
	case events.LedgerEntryCreated, events.LedgerEntryUpdated, events.LedgerEntryDeleted:
		if err := event.Decode(&data); err != nil {
			return err
		}
	default:
		return nil
	}

	switch event.Type {
	case events.LedgerEntryCreated:
		return s.entries.Add(ctx, data.AccountNumber, data.EntryID)
	case events.LedgerEntryUpdated:
		if data.PreviousAccountNumber != 0 {
			if err := s.entries.Remove(ctx, data.PreviousAccountNumber, data.EntryID); err != nil {
				return err
			}
		}
		return s.entries.Add(ctx, data.AccountNumber, data.EntryID)
	default:
		return s.entries.Remove(ctx, data.AccountNumber, data.EntryID)
	}
}

func (s *AccountCommandService) requireClient(ctx context.Context, clientID int64) error {
	_, err := remote.Lookup(ctx, s.clients, errs.EntityClient, clientID, remote.PurposeValidate)
	return err
}

func (s *AccountCommandService) publish(ctx context.Context, eventType string, data events.AccountEvent) {
	if err := s.publisher.Publish(ctx, events.AccountEventsStream, eventType, data); err != nil {
		logger.Error("failed to publish event", err, logger.Fields{"type": eventType, "accountNumber": data.AccountNumber})
	}
}

func accountEvent(a *models.Account, previousClient int64) events.AccountEvent {
	return events.AccountEvent{
		AccountNumber:    a.AccountNumber,
		ClientID:         a.ClientID,
		AccountType:      a.AccountType,
		PreviousClientID: previousClient,
	}
}
