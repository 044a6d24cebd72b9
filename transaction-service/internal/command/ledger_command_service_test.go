package command

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/ledgerline/bank/shared/cqrs"
	"github.com/ledgerline/bank/shared/errs"
	"github.com/ledgerline/bank/shared/events"
	"github.com/ledgerline/bank/shared/models"
	"github.com/ledgerline/bank/shared/remote"
	"github.com/ledgerline/bank/transaction-service/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	knownAccount   int64 = 478758
	otherAccount   int64 = 225487
	missingAccount int64 = 111111
	brokenAccount  int64 = 999999
)

// countingStore wraps a MemoryStore and counts writes.
type countingStore struct {
	*repository.MemoryStore
	saves, updates, deletes int
}

func (s *countingStore) Save(ctx context.Context, e *models.LedgerEntry) error {
	s.saves++
	return s.MemoryStore.Save(ctx, e)
}

func (s *countingStore) Update(ctx context.Context, e *models.LedgerEntry) error {
	s.updates++
	return s.MemoryStore.Update(ctx, e)
}

func (s *countingStore) DeleteByID(ctx context.Context, id int64) error {
	s.deletes++
	return s.MemoryStore.DeleteByID(ctx, id)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []string
	data   []events.LedgerEntryEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, _ string, eventType string, data any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, eventType)
	if d, ok := data.(events.LedgerEntryEvent); ok {
		p.data = append(p.data, d)
	}
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

type fixture struct {
	svc       *LedgerCommandService
	store     *countingStore
	publisher *recordingPublisher
	lookups   *int
}

func newFixture() fixture {
	lookups := 0
	accounts := remote.ResolverFunc[models.AccountView](func(ctx context.Context, id int64) remote.Outcome[models.AccountView] {
		lookups++
		switch id {
		case knownAccount, otherAccount:
			return remote.FoundValue(&models.AccountView{AccountNumber: id, ClientID: 1})
		case brokenAccount:
			return remote.Failed[models.AccountView](0, errors.New("dial tcp 10.0.0.3:8083: connection refused"))
		default:
			return remote.Absent[models.AccountView](http.StatusNotFound)
		}
	})
	store := &countingStore{MemoryStore: repository.NewMemoryStore()}
	publisher := &recordingPublisher{}
	return fixture{
		svc:       NewLedgerCommandService(store, accounts, publisher),
		store:     store,
		publisher: publisher,
		lookups:   &lookups,
	}
}

func createCmd(account, opening, amount int64) cqrs.CreateLedgerEntryCommand {
	return cqrs.CreateLedgerEntryCommand{
		Date:           models.Date{Year: 2024, Month: time.January, Day: 15},
		AccountNumber:  account,
		Type:           "withdrawal",
		OpeningBalance: opening,
		Amount:         amount,
	}
}

func TestCreateLedgerEntry(t *testing.T) {
	f := newFixture()

	entry, err := f.svc.CreateLedgerEntry(context.Background(), createCmd(knownAccount, 1000, -1000))
	require.NoError(t, err)
	assert.NotZero(t, entry.ID)
	assert.Zero(t, entry.ClosingBalance)
	assert.True(t, entry.Active)
	assert.Equal(t, 1, f.store.saves)
	assert.Equal(t, []string{events.LedgerEntryCreated}, f.publisher.events)

	stored, err := f.store.FindByID(context.Background(), entry.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stored.ClosingBalance)
}

func TestCreateLedgerEntryInsufficientBalance(t *testing.T) {
	f := newFixture()

	_, err := f.svc.CreateLedgerEntry(context.Background(), createCmd(knownAccount, 1000, -1001))
	assert.ErrorIs(t, err, errs.ErrInsufficientBalance)
	assert.Zero(t, f.store.saves)
	assert.Zero(t, *f.lookups, "balance is checked before the account lookup")
	assert.Empty(t, f.publisher.events)
}

func TestCreateLedgerEntryValidationTouchesNothing(t *testing.T) {
	f := newFixture()
	cmd := createCmd(knownAccount, 10, 5)
	cmd.Type = ""

	_, err := f.svc.CreateLedgerEntry(context.Background(), cmd)
	assert.ErrorIs(t, err, errs.ErrValidation)
	assert.Zero(t, *f.lookups)
	assert.Zero(t, f.store.saves)
}

func TestBalanceIsCheckedBeforeAccountExistence(t *testing.T) {
	f := newFixture()
	created, err := f.svc.CreateLedgerEntry(context.Background(), createCmd(knownAccount, 100, 0))
	require.NoError(t, err)
	lookupsBefore := *f.lookups

	_, err = f.svc.CreateLedgerEntry(context.Background(), createCmd(missingAccount, 100, -101))
	assert.ErrorIs(t, err, errs.ErrInsufficientBalance)
	assert.False(t, errs.IsNotFoundOf(err, errs.EntityAccount))

	_, err = f.svc.UpdateLedgerEntry(context.Background(), cqrs.UpdateLedgerEntryCommand{
		ID: created.ID, Date: created.Date, AccountNumber: missingAccount, Type: "withdrawal", OpeningBalance: 100, Amount: -101, Active: true,
	})
	assert.ErrorIs(t, err, errs.ErrInsufficientBalance)
	assert.False(t, errs.IsNotFoundOf(err, errs.EntityAccount))

	assert.Equal(t, lookupsBefore, *f.lookups)
	assert.Equal(t, 1, f.store.saves)
	assert.Zero(t, f.store.updates)
}

func TestNonPositiveAccountNumberIsRejectedAsInput(t *testing.T) {
	f := newFixture()

	for _, account := range []int64{0, -8} {
		_, err := f.svc.CreateLedgerEntry(context.Background(), createCmd(account, 100, 5))
		var ve *errs.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "accountNumber", ve.Field)
	}
	assert.Zero(t, *f.lookups)
	assert.Zero(t, f.store.saves)
}

func TestCreateLedgerEntryAccountNotFound(t *testing.T) {
	f := newFixture()

	_, err := f.svc.CreateLedgerEntry(context.Background(), createCmd(missingAccount, 500, 100))
	var nf *errs.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, errs.EntityAccount, nf.Entity)
	assert.Equal(t, missingAccount, nf.ID)
	assert.Zero(t, f.store.saves)

	all, err := f.store.FindAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestCreateAndUpdateUpstreamFailureIsDistinct(t *testing.T) {
	f := newFixture()

	_, err := f.svc.CreateLedgerEntry(context.Background(), createCmd(brokenAccount, 500, 100))
	assert.ErrorIs(t, err, errs.ErrUpstream)
	assert.False(t, errors.Is(err, errs.ErrNotFound))
	assert.Zero(t, f.store.saves)

	entry, err := f.svc.CreateLedgerEntry(context.Background(), createCmd(knownAccount, 500, 100))
	require.NoError(t, err)

	_, err = f.svc.UpdateLedgerEntry(context.Background(), cqrs.UpdateLedgerEntryCommand{
		ID: entry.ID, Date: entry.Date, AccountNumber: brokenAccount, Type: "deposit", OpeningBalance: 1, Amount: 1, Active: true,
	})
	var up *errs.UpstreamError
	require.ErrorAs(t, err, &up)
	assert.Equal(t, errs.EntityAccount, up.Entity)
	assert.Zero(t, f.store.updates)
}

func TestCreateLedgerEntryPublishFailureDoesNotFail(t *testing.T) {
	f := newFixture()
	f.publisher.err = errors.New("broker down")

	entry, err := f.svc.CreateLedgerEntry(context.Background(), createCmd(knownAccount, 100, 50))
	require.NoError(t, err)
	assert.Equal(t, int64(150), entry.ClosingBalance)
}

func TestUpdateLedgerEntry(t *testing.T) {
	f := newFixture()
	created, err := f.svc.CreateLedgerEntry(context.Background(), createCmd(knownAccount, 2000, -575))
	require.NoError(t, err)

	updated, err := f.svc.UpdateLedgerEntry(context.Background(), cqrs.UpdateLedgerEntryCommand{
		ID:             created.ID,
		Date:           models.Date{Year: 2024, Month: time.January, Day: 20},
		AccountNumber:  otherAccount,
		Type:           "deposit",
		OpeningBalance: 100,
		Amount:         600,
		Active:         false,
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, int64(700), updated.ClosingBalance)
	assert.Equal(t, otherAccount, updated.AccountNumber)
	assert.Equal(t, "deposit", updated.Type)
	assert.False(t, updated.Active)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)

	stored, err := f.store.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(700), stored.ClosingBalance)

	require.Len(t, f.publisher.data, 2)
	assert.Equal(t, events.LedgerEntryUpdated, f.publisher.events[1])
	assert.Equal(t, knownAccount, f.publisher.data[1].PreviousAccountNumber)
}

func TestUpdateLedgerEntryErrors(t *testing.T) {
	f := newFixture()
	created, err := f.svc.CreateLedgerEntry(context.Background(), createCmd(knownAccount, 100, 0))
	require.NoError(t, err)

	base := cqrs.UpdateLedgerEntryCommand{
		ID: created.ID, Date: created.Date, AccountNumber: knownAccount, Type: "deposit", OpeningBalance: 100, Amount: 5, Active: true,
	}

	t.Run("missing entry", func(t *testing.T) {
		cmd := base
		cmd.ID = 404
		_, err := f.svc.UpdateLedgerEntry(context.Background(), cmd)
		assert.True(t, errs.IsNotFoundOf(err, errs.EntityLedgerEntry))
		assert.False(t, errs.IsNotFoundOf(err, errs.EntityAccount))
	})

	t.Run("missing account", func(t *testing.T) {
		cmd := base
		cmd.AccountNumber = missingAccount
		_, err := f.svc.UpdateLedgerEntry(context.Background(), cmd)
		assert.True(t, errs.IsNotFoundOf(err, errs.EntityAccount))
	})

	t.Run("negative closing", func(t *testing.T) {
		cmd := base
		cmd.Amount = -101
		_, err := f.svc.UpdateLedgerEntry(context.Background(), cmd)
		assert.ErrorIs(t, err, errs.ErrInsufficientBalance)
	})

	assert.Zero(t, f.store.updates)
	stored, err := f.store.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(100), stored.ClosingBalance)
}

func TestDeleteLedgerEntry(t *testing.T) {
	f := newFixture()
	created, err := f.svc.CreateLedgerEntry(context.Background(), createCmd(knownAccount, 100, 0))
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteLedgerEntry(context.Background(), cqrs.DeleteLedgerEntryCommand{ID: created.ID}))
	assert.Equal(t, 1, f.store.deletes)
	assert.Equal(t, events.LedgerEntryDeleted, f.publisher.events[len(f.publisher.events)-1])

	err = f.svc.DeleteLedgerEntry(context.Background(), cqrs.DeleteLedgerEntryCommand{ID: created.ID})
	var nf *errs.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, errs.EntityLedgerEntry, nf.Entity)
	assert.Equal(t, 1, f.store.deletes, "no delete is issued for an absent entry")
}
