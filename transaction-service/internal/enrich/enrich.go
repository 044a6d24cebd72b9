// Package enrich decorates ledger entries with the display name of the
// client that owns each entry's account.
package enrich

import (
	"context"
	"strconv"
	"sync"

	"github.com/ledgerline/bank/shared/errs"
	"github.com/ledgerline/bank/shared/models"
	"github.com/ledgerline/bank/shared/remote"
	"github.com/ledgerline/bank/transaction-service/internal/repository"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Enricher resolves the owning client of every entry through the account
// service. Lookups run in parallel up to the configured concurrency and an
// account referenced by several entries is looked up once per call.
type Enricher struct {
	store       repository.LedgerStore
	accounts    remote.Resolver[models.AccountView]
	concurrency int
}

func NewEnricher(store repository.LedgerStore, accounts remote.Resolver[models.AccountView], concurrency int) *Enricher {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Enricher{store: store, accounts: accounts, concurrency: concurrency}
}

// Report returns the enriched entries dated within [start, end]. Equal
// dates select a single day.
func (e *Enricher) Report(ctx context.Context, start, end models.Date) ([]models.LedgerEntryView, error) {
	if start.IsZero() {
		return nil, errs.Invalid("startDate", "is required")
	}
	if end.IsZero() {
		return nil, errs.Invalid("endDate", "is required")
	}
	if start.After(end) {
		return nil, errs.Invalid("startDate", "must not be after endDate")
	}

	entries, err := e.store.FindByDateRange(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return e.Enrich(ctx, entries)
}

// Enrich returns one view per entry, in input order. It fails with the
// error of the first failing entry in input order, whatever order the
// lookups finish in. Entries after a known failure are not looked up.
func (e *Enricher) Enrich(ctx context.Context, entries []models.LedgerEntry) ([]models.LedgerEntryView, error) {
	views := make([]models.LedgerEntryView, len(entries))
	if len(entries) == 0 {
		return views, nil
	}

	memo := newAccountMemo(e.accounts)
	rowErrs := make([]error, len(entries))
	var (
		mu     sync.Mutex
		failed = len(entries) // lowest failing index so far
	)

	var g errgroup.Group
	g.SetLimit(e.concurrency)
	for i := range entries {
		i := i
		g.Go(func() error {
			mu.Lock()
			skip := i > failed
			mu.Unlock()
			if skip {
				return nil
			}
			if err := ctx.Err(); err != nil {
				rowErrs[i] = err
				return nil
			}

			// Lookups for earlier rows are never cancelled by a later
			// row's failure; only the caller's context stops them.
			name, err := memo.clientName(ctx, entries[i].AccountNumber)
			if err != nil {
				rowErrs[i] = err
				mu.Lock()
				failed = min(failed, i)
				mu.Unlock()
				return nil
			}
			views[i] = models.LedgerEntryView{LedgerEntry: entries[i], ClientName: name}
			return nil
		})
	}
	_ = g.Wait()

	for _, err := range rowErrs {
		if err != nil {
			return nil, err
		}
	}
	return views, nil
}

// accountMemo lives for a single Enrich call.
type accountMemo struct {
	resolver remote.Resolver[models.AccountView]
	group    singleflight.Group

	mu       sync.Mutex
	accounts map[int64]*models.AccountView
}

func newAccountMemo(resolver remote.Resolver[models.AccountView]) *accountMemo {
	return &accountMemo{resolver: resolver, accounts: make(map[int64]*models.AccountView)}
}

func (m *accountMemo) account(ctx context.Context, accountNumber int64) (*models.AccountView, error) {
	m.mu.Lock()
	account, ok := m.accounts[accountNumber]
	m.mu.Unlock()
	if ok {
		return account, nil
	}

	v, err, _ := m.group.Do(strconv.FormatInt(accountNumber, 10), func() (any, error) {
		m.mu.Lock()
		cached, ok := m.accounts[accountNumber]
		m.mu.Unlock()
		if ok {
			return cached, nil
		}
		account, err := remote.Lookup(ctx, m.resolver, errs.EntityAccount, accountNumber, remote.PurposeEnrich)
		if err != nil {
			return nil, err
		}
		m.mu.Lock()
		m.accounts[accountNumber] = account
		m.mu.Unlock()
		return account, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.AccountView), nil
}

func (m *accountMemo) clientName(ctx context.Context, accountNumber int64) (string, error) {
	account, err := m.account(ctx, accountNumber)
	if err != nil {
		return "", err
	}
	if account.Client == nil || account.Client.Empty() {
		return "", &errs.NotFoundError{Entity: errs.EntityClient, ID: account.ClientID}
	}
	return account.Client.Name, nil
}
