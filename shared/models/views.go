package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ClientView is the read projection of a client. It never exposes the
// password hash. AccountCount is maintained from account events.
type ClientView struct {
	ID int64 `json:"id"`
	Person
	Active       bool      `json:"active"`
	AccountCount int64     `json:"accountCount"`
	CreatedAt    time.Time `json:"createdTimestamp"`
	UpdatedAt    time.Time `json:"updatedTimestamp"`
}

// Empty reports whether the view carries no client at all.
func (v ClientView) Empty() bool { return v.ID == 0 }

// AccountView is the read projection of an account with its owning client
// embedded. It is what the account service returns to the other services.
type AccountView struct {
	AccountNumber  int64           `json:"accountNumber"`
	AccountType    string          `json:"accountType"`
	InitialBalance decimal.Decimal `json:"initialBalance"`
	Active         bool            `json:"active"`
	ClientID       int64           `json:"clientId"`
	Client         *ClientView     `json:"client"`
	EntryCount     int64           `json:"entryCount"`
	CreatedAt      time.Time       `json:"createdTimestamp"`
	UpdatedAt      time.Time       `json:"updatedTimestamp"`
}

// Empty reports whether the view carries no account at all.
func (v AccountView) Empty() bool { return v.AccountNumber == 0 }

// LedgerEntryView is a ledger entry enriched with the owning client's name.
type LedgerEntryView struct {
	LedgerEntry
	ClientName string `json:"clientName"`
}

func ClientToView(c *Client) *ClientView {
	return &ClientView{
		ID:        c.ID,
		Person:    c.Person,
		Active:    c.Active,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func AccountToView(a *Account, client *ClientView) *AccountView {
	return &AccountView{
		AccountNumber:  a.AccountNumber,
		AccountType:    a.AccountType,
		InitialBalance: a.InitialBalance,
		Active:         a.Active,
		ClientID:       a.ClientID,
		Client:         client,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}
