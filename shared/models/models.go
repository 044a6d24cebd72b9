package models

import (
	"strings"
	"time"

	"github.com/ledgerline/bank/shared/errs"
	"github.com/shopspring/decimal"
)

// Person holds the personal details a client is made of.
type Person struct {
	Name           string `json:"name"`
	Gender         string `json:"gender"`
	Age            int    `json:"age"`
	Identification string `json:"identification"`
	Address        string `json:"address"`
	PhoneNumber    string `json:"phoneNumber"`
}

type Client struct {
	ID int64 `json:"id"`
	Person
	PasswordHash string    `json:"-"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"createdTimestamp"`
	UpdatedAt    time.Time `json:"updatedTimestamp"`
}

// NewClient builds an active client, rejecting missing required details.
func NewClient(p Person, passwordHash string) (*Client, error) {
	if strings.TrimSpace(p.Name) == "" {
		return nil, errs.Invalid("name", "is required")
	}
	if strings.TrimSpace(p.Identification) == "" {
		return nil, errs.Invalid("identification", "is required")
	}
	if p.Age < 0 {
		return nil, errs.Invalid("age", "must not be negative")
	}
	if passwordHash == "" {
		return nil, errs.Invalid("password", "is required")
	}
	now := time.Now().UTC()
	return &Client{
		Person:       p,
		PasswordHash: passwordHash,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

type Account struct {
	AccountNumber  int64           `json:"accountNumber"`
	AccountType    string          `json:"accountType"`
	InitialBalance decimal.Decimal `json:"initialBalance"`
	Active         bool            `json:"active"`
	ClientID       int64           `json:"clientId"`
	CreatedAt      time.Time       `json:"createdTimestamp"`
	UpdatedAt      time.Time       `json:"updatedTimestamp"`
}

// NewAccount builds an active account owned by clientID.
func NewAccount(accountType string, initialBalance decimal.Decimal, clientID int64) (*Account, error) {
	if strings.TrimSpace(accountType) == "" {
		return nil, errs.Invalid("accountType", "is required")
	}
	if clientID <= 0 {
		return nil, errs.Invalid("clientId", "must be a positive number")
	}
	if initialBalance.IsNegative() {
		return nil, errs.Invalid("initialBalance", "must not be negative")
	}
	now := time.Now().UTC()
	return &Account{
		AccountType:    accountType,
		InitialBalance: initialBalance,
		Active:         true,
		ClientID:       clientID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// LedgerEntry is a single transaction recorded against an account. It carries
// its own opening/closing snapshot; entries are not chained to each other.
type LedgerEntry struct {
	ID             int64     `json:"id"`
	Date           Date      `json:"date"`
	AccountNumber  int64     `json:"accountNumber"`
	Type           string    `json:"type"`
	OpeningBalance int64     `json:"openingBalance"`
	Amount         int64     `json:"amount"`
	ClosingBalance int64     `json:"closingBalance"`
	Active         bool      `json:"active"`
	CreatedAt      time.Time `json:"createdTimestamp"`
	UpdatedAt      time.Time `json:"updatedTimestamp"`
}
