package cqrs

import (
	"github.com/ledgerline/bank/shared/models"
	"github.com/shopspring/decimal"
)

type CreateClientCommand struct {
	Person   models.Person
	Password string
}

// UpdateClientCommand fully replaces a client's details and password.
type UpdateClientCommand struct {
	ClientID int64
	Person   models.Person
	Password string
}

type DeleteClientCommand struct {
	ClientID int64
}

type CreateAccountCommand struct {
	AccountType    string
	InitialBalance decimal.Decimal
	ClientID       int64
}

type UpdateAccountCommand struct {
	AccountNumber  int64
	AccountType    string
	InitialBalance decimal.Decimal
	ClientID       int64
	Active         bool
}

type DeleteAccountCommand struct {
	AccountNumber int64
}

type CreateLedgerEntryCommand struct {
	Date           models.Date
	AccountNumber  int64
	Type           string
	OpeningBalance int64
	Amount         int64
}

// UpdateLedgerEntryCommand replaces every mutable field of entry ID. There is
// no closing balance field: it is always recomputed.
type UpdateLedgerEntryCommand struct {
	ID             int64
	Date           models.Date
	AccountNumber  int64
	Type           string
	OpeningBalance int64
	Amount         int64
	Active         bool
}

type DeleteLedgerEntryCommand struct {
	ID int64
}

type LoginCommand struct {
	Identification string
	Password       string
}

type RefreshTokenCommand struct {
	Token string
}
