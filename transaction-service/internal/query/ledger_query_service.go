package query

import (
	"context"

	"github.com/ledgerline/bank/shared/cqrs"
	"github.com/ledgerline/bank/shared/models"
	"github.com/ledgerline/bank/transaction-service/internal/enrich"
	"github.com/ledgerline/bank/transaction-service/internal/repository"
)

// LedgerQueryService serves ledger reads. Every row returned carries the
// owning client's name, resolved fresh for each request.
type LedgerQueryService struct {
	store    repository.LedgerStore
	enricher *enrich.Enricher
}

func NewLedgerQueryService(store repository.LedgerStore, enricher *enrich.Enricher) *LedgerQueryService {
	return &LedgerQueryService{store: store, enricher: enricher}
}

func (s *LedgerQueryService) GetLedgerEntry(ctx context.Context, q cqrs.GetLedgerEntryQuery) (*models.LedgerEntryView, error) {
	entry, err := s.store.FindByID(ctx, q.ID)
	if err != nil {
		return nil, err
	}
	views, err := s.enricher.Enrich(ctx, []models.LedgerEntry{*entry})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// ListLedgerEntries returns every entry; one failed enrichment fails the list.
func (s *LedgerQueryService) ListLedgerEntries(ctx context.Context, _ cqrs.ListLedgerEntriesQuery) ([]models.LedgerEntryView, error) {
	entries, err := s.store.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return s.enricher.Enrich(ctx, entries)
}

func (s *LedgerQueryService) LedgerReport(ctx context.Context, q cqrs.LedgerReportQuery) ([]models.LedgerEntryView, error) {
	return s.enricher.Report(ctx, q.Start, q.End)
}
