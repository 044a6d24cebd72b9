package command

import (
	"context"
	"fmt"
	"time"

	"github.com/ledgerline/bank/customer-service/internal/repository"
	"github.com/ledgerline/bank/shared/cqrs"
	"github.com/ledgerline/bank/shared/errs"
	"github.com/ledgerline/bank/shared/events"
	"github.com/ledgerline/bank/shared/logger"
	"github.com/ledgerline/bank/shared/models"
	sharedredis "github.com/ledgerline/bank/shared/redis"
	"github.com/ledgerline/bank/shared/utils"
)

// ClientCommandService writes client state to the store and keeps the Redis
// read model up to date.
type ClientCommandService struct {
	store     repository.ClientStore
	readRepo  *repository.ClientReadRepository
	accounts  sharedredis.Membership
	publisher events.Publisher
}

func NewClientCommandService(
	store repository.ClientStore,
	readRepo *repository.ClientReadRepository,
	accounts sharedredis.Membership,
	publisher events.Publisher,
) *ClientCommandService {
	return &ClientCommandService{
		store:     store,
		readRepo:  readRepo,
		accounts:  accounts,
		publisher: publisher,
	}
}

func (s *ClientCommandService) CreateClient(ctx context.Context, cmd cqrs.CreateClientCommand) (*models.Client, error) {
	client, err := s.buildClient(cmd.Person, cmd.Password)
	if err != nil {
		return nil, err
	}
	if err := s.requireUniqueIdentification(ctx, client.Identification, 0); err != nil {
		return nil, err
	}

	if err := s.store.Save(ctx, client); err != nil {
		return nil, err
	}
	s.readRepo.CacheClientView(ctx, models.ClientToView(client))
	s.publish(ctx, events.ClientCreated, client)
	return client, nil
}

// UpdateClient replaces every personal detail and the password. The client
// is reactivated.
func (s *ClientCommandService) UpdateClient(ctx context.Context, cmd cqrs.UpdateClientCommand) (*models.Client, error) {
	replacement, err := s.buildClient(cmd.Person, cmd.Password)
	if err != nil {
		return nil, err
	}

	client, err := s.store.FindByID(ctx, cmd.ClientID)
	if err != nil {
		return nil, err
	}
	if err := s.requireUniqueIdentification(ctx, replacement.Identification, client.ID); err != nil {
		return nil, err
	}

	client.Person = replacement.Person
	client.PasswordHash = replacement.PasswordHash
	client.Active = true
	client.UpdatedAt = time.Now().UTC()
	if err := s.store.Update(ctx, client); err != nil {
		return nil, err
	}
	s.readRepo.CacheClientView(ctx, models.ClientToView(client))
	s.publish(ctx, events.ClientUpdated, client)
	return client, nil
}

// DeleteClient refuses while the client still owns accounts.
func (s *ClientCommandService) DeleteClient(ctx context.Context, cmd cqrs.DeleteClientCommand) error {
	client, err := s.store.FindByID(ctx, cmd.ClientID)
	if err != nil {
		return err
	}

	n, err := s.accounts.Count(ctx, cmd.ClientID)
	if err != nil {
		return fmt.Errorf("failed to count accounts: %w", err)
	}
	if n > 0 {
		return &errs.ConflictError{
			Entity: errs.EntityClient,
			ID:     cmd.ClientID,
			Reason: fmt.Sprintf("client still owns %d accounts", n),
		}
	}

	if err := s.store.DeleteByID(ctx, cmd.ClientID); err != nil {
		return err
	}
	s.readRepo.InvalidateClientView(ctx, cmd.ClientID)
	s.publish(ctx, events.ClientDeleted, client)
	return nil
}

// HandleAccountEvent keeps the set of accounts each client owns current.
func (s *ClientCommandService) HandleAccountEvent(ctx context.Context, event events.Event) error {
	var data events.AccountEvent
	switch event.Type {
	case events.AccountCreated:
		if err := event.Decode(&data); err != nil {
			return err
		}
		return s.accounts.Add(ctx, data.ClientID, data.AccountNumber)
	case events.AccountUpdated:
		if err := event.Decode(&data); err != nil {
			return err
		}
		if data.PreviousClientID != 0 {
			if err := s.accounts.Remove(ctx, data.PreviousClientID, data.AccountNumber); err != nil {
				return err
			}
		}
		return s.accounts.Add(ctx, data.ClientID, data.AccountNumber)
	case events.AccountDeleted:
		if err := event.Decode(&data); err != nil {
			return err
		}
		return s.accounts.Remove(ctx, data.ClientID, data.AccountNumber)
	}
	return nil
}

func (s *ClientCommandService) buildClient(p models.Person, password string) (*models.Client, error) {
	if password == "" {
		return nil, errs.Invalid("password", "is required")
	}
	// validate the details before paying for the hash
	if _, err := models.NewClient(p, "-"); err != nil {
		return nil, err
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	return models.NewClient(p, hash)
}

func (s *ClientCommandService) requireUniqueIdentification(ctx context.Context, identification string, self int64) error {
	existing, err := s.store.FindByIdentification(ctx, identification)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != self {
		return &errs.ConflictError{
			Entity: errs.EntityClient,
			ID:     existing.ID,
			Reason: "identification is already registered",
		}
	}
	return nil
}

func (s *ClientCommandService) publish(ctx context.Context, eventType string, c *models.Client) {
	data := events.ClientEvent{ClientID: c.ID, Name: c.Name}
	if err := s.publisher.Publish(ctx, events.ClientEventsStream, eventType, data); err != nil {
		logger.Error("failed to publish event", err, logger.Fields{"type": eventType, "clientId": c.ID})
	}
}
