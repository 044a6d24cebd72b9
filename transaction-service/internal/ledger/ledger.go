// Package ledger holds the balance rules every ledger entry must satisfy
// before it is stored. Nothing here performs I/O.
package ledger

import (
	"strings"
	"time"

	"github.com/ledgerline/bank/shared/errs"
	"github.com/ledgerline/bank/shared/models"
)

func ComputeClosing(opening, amount int64) int64 {
	return opening + amount
}

// CheckInvariant verifies closing == opening + amount and closing >= 0.
func CheckInvariant(e models.LedgerEntry) error {
	closing := ComputeClosing(e.OpeningBalance, e.Amount)
	if closing < 0 {
		return &errs.InsufficientBalanceError{
			Opening: e.OpeningBalance,
			Amount:  e.Amount,
			Closing: closing,
		}
	}
	if e.ClosingBalance != closing {
		return errs.Invalid("closingBalance", "must equal openingBalance + amount")
	}
	return nil
}

type EntryParams struct {
	Date           models.Date
	AccountNumber  int64
	Type           string
	OpeningBalance int64
	Amount         int64
	Active         bool
}

// NewEntry validates p and returns an unsaved entry with its closing balance
// computed.
func NewEntry(p EntryParams) (models.LedgerEntry, error) {
	if p.Date.IsZero() {
		return models.LedgerEntry{}, errs.Invalid("date", "is required")
	}
	if p.AccountNumber <= 0 {
		return models.LedgerEntry{}, errs.Invalid("accountNumber", "must be a positive number")
	}
	entryType := strings.TrimSpace(p.Type)
	if entryType == "" {
		return models.LedgerEntry{}, errs.Invalid("type", "is required")
	}
	if overflows(p.OpeningBalance, p.Amount) {
		return models.LedgerEntry{}, errs.Invalid("amount", "is out of range for the opening balance")
	}

	now := time.Now().UTC()
	entry := models.LedgerEntry{
		Date:           p.Date,
		AccountNumber:  p.AccountNumber,
		Type:           entryType,
		OpeningBalance: p.OpeningBalance,
		Amount:         p.Amount,
		ClosingBalance: ComputeClosing(p.OpeningBalance, p.Amount),
		Active:         p.Active,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := CheckInvariant(entry); err != nil {
		return models.LedgerEntry{}, err
	}
	return entry, nil
}

func overflows(a, b int64) bool {
	sum := a + b
	return (b > 0 && sum < a) || (b < 0 && sum > a)
}
