package command

import (
	"context"
	"time"

	"github.com/ledgerline/bank/shared/cqrs"
	"github.com/ledgerline/bank/shared/errs"
	"github.com/ledgerline/bank/shared/events"
	"github.com/ledgerline/bank/shared/logger"
	"github.com/ledgerline/bank/shared/models"
	"github.com/ledgerline/bank/shared/remote"
	"github.com/ledgerline/bank/transaction-service/internal/ledger"
	"github.com/ledgerline/bank/transaction-service/internal/repository"
)

// LedgerCommandService mutates ledger entries. Input and balance checks run
// first and touch nothing; the referenced account is then confirmed with the
// account service before storage is written.
type LedgerCommandService struct {
	store     repository.LedgerStore
	accounts  remote.Resolver[models.AccountView]
	publisher events.Publisher
}

func NewLedgerCommandService(
	store repository.LedgerStore,
	accounts remote.Resolver[models.AccountView],
	publisher events.Publisher,
) *LedgerCommandService {
	return &LedgerCommandService{
		store:     store,
		accounts:  accounts,
		publisher: publisher,
	}
}

func (s *LedgerCommandService) CreateLedgerEntry(ctx context.Context, cmd cqrs.CreateLedgerEntryCommand) (*models.LedgerEntry, error) {
	entry, err := ledger.NewEntry(ledger.EntryParams{
		Date:           cmd.Date,
		AccountNumber:  cmd.AccountNumber,
		Type:           cmd.Type,
		OpeningBalance: cmd.OpeningBalance,
		Amount:         cmd.Amount,
		Active:         true,
	})
	if err != nil {
		return nil, err
	}
	if err := s.requireAccount(ctx, entry.AccountNumber); err != nil {
		return nil, err
	}

	if err := s.store.Save(ctx, &entry); err != nil {
		return nil, err
	}
	s.publish(ctx, events.LedgerEntryCreated, entryEvent(&entry, 0))
	return &entry, nil
}

// UpdateLedgerEntry replaces every mutable field of the entry. The closing
// balance is recomputed from the new opening balance and amount.
func (s *LedgerCommandService) UpdateLedgerEntry(ctx context.Context, cmd cqrs.UpdateLedgerEntryCommand) (*models.LedgerEntry, error) {
	replacement, err := ledger.NewEntry(ledger.EntryParams{
		Date:           cmd.Date,
		AccountNumber:  cmd.AccountNumber,
		Type:           cmd.Type,
		OpeningBalance: cmd.OpeningBalance,
		Amount:         cmd.Amount,
		Active:         cmd.Active,
	})
	if err != nil {
		return nil, err
	}
	if err := s.requireAccount(ctx, replacement.AccountNumber); err != nil {
		return nil, err
	}

	existing, err := s.store.FindByID(ctx, cmd.ID)
	if err != nil {
		return nil, err
	}
	previousAccount := existing.AccountNumber

	existing.Date = replacement.Date
	existing.AccountNumber = replacement.AccountNumber
	existing.Type = replacement.Type
	existing.OpeningBalance = replacement.OpeningBalance
	existing.Amount = replacement.Amount
	existing.ClosingBalance = replacement.ClosingBalance
	existing.Active = replacement.Active
	existing.UpdatedAt = time.Now().UTC()

	if err := s.store.Update(ctx, existing); err != nil {
		return nil, err
	}

	moved := int64(0)
	if previousAccount != existing.AccountNumber {
		moved = previousAccount
	}
	s.publish(ctx, events.LedgerEntryUpdated, entryEvent(existing, moved))
	return existing, nil
}

func (s *LedgerCommandService) DeleteLedgerEntry(ctx context.Context, cmd cqrs.DeleteLedgerEntryCommand) error {
	exists, err := s.store.ExistsByID(ctx, cmd.ID)
	if err != nil {
		return err
	}
	if !exists {
		return &errs.NotFoundError{Entity: errs.EntityLedgerEntry, ID: cmd.ID}
	}

	// loaded for the event payload
	entry, err := s.store.FindByID(ctx, cmd.ID)
	if err != nil {
		return err
	}
	if err := s.store.DeleteByID(ctx, cmd.ID); err != nil {
		return err
	}
	s.publish(ctx, events.LedgerEntryDeleted, entryEvent(entry, 0))
	return nil
}

func (s *LedgerCommandService) requireAccount(ctx context.Context, accountNumber int64) error {
	_, err := remote.Lookup(ctx, s.accounts, errs.EntityAccount, accountNumber, remote.PurposeValidate)
	return err
}

// publish never fails the request; the write has already happened.
func (s *LedgerCommandService) publish(ctx context.Context, eventType string, data events.LedgerEntryEvent) {
	if err := s.publisher.Publish(ctx, events.LedgerEventsStream, eventType, data); err != nil {
		logger.Error("failed to publish event", err, logger.Fields{"type": eventType, "entryId": data.EntryID})
	}
}

func entryEvent(e *models.LedgerEntry, previousAccount int64) events.LedgerEntryEvent {
	return events.LedgerEntryEvent{
		EntryID:               e.ID,
		AccountNumber:         e.AccountNumber,
		Date:                  e.Date.String(),
		Type:                  e.Type,
		Amount:                e.Amount,
		ClosingBalance:        e.ClosingBalance,
		PreviousAccountNumber: previousAccount,
	}
}
