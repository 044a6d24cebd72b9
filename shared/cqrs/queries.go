package cqrs

import "github.com/ledgerline/bank/shared/models"

// ---------- Client queries ----------

type GetClientQuery struct {
	ClientID int64
}

type ListClientsQuery struct{}

// ---------- Account queries ----------

// GetAccountQuery fetches a single account with its client embedded.
type GetAccountQuery struct {
	AccountNumber int64
}

// ListAccountsQuery lists accounts, restricted to one client when ClientID
// is set.
type ListAccountsQuery struct {
	ClientID int64
}

// ---------- Ledger queries ----------

type GetLedgerEntryQuery struct {
	ID int64
}

type ListLedgerEntriesQuery struct{}

// LedgerReportQuery selects entries dated within [Start, End], both inclusive.
type LedgerReportQuery struct {
	Start models.Date
	End   models.Date
}
