package ledger

import (
	"math"
	"testing"
	"time"

	"github.com/ledgerline/bank/shared/errs"
	"github.com/ledgerline/bank/shared/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func params() EntryParams {
	return EntryParams{
		Date:           models.DateOf(time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)),
		AccountNumber:  478758,
		Type:           "withdrawal",
		OpeningBalance: 2000,
		Amount:         -575,
		Active:         true,
	}
}

func TestComputeClosingAndInvariant(t *testing.T) {
	cases := []struct{ opening, amount int64 }{
		{0, 0}, {1000, -1000}, {1000, -1001}, {-50, 50}, {-50, 49}, {0, 600}, {100, -99},
	}
	for _, c := range cases {
		closing := ComputeClosing(c.opening, c.amount)
		assert.Equal(t, c.opening+c.amount, closing)

		err := CheckInvariant(models.LedgerEntry{OpeningBalance: c.opening, Amount: c.amount, ClosingBalance: closing})
		if c.opening+c.amount < 0 {
			assert.ErrorIs(t, err, errs.ErrInsufficientBalance, "opening=%d amount=%d", c.opening, c.amount)
		} else {
			assert.NoError(t, err, "opening=%d amount=%d", c.opening, c.amount)
		}
	}
}

func TestCheckInvariantRejectsInconsistentClosing(t *testing.T) {
	err := CheckInvariant(models.LedgerEntry{OpeningBalance: 100, Amount: 10, ClosingBalance: 500})
	var ve *errs.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "closingBalance", ve.Field)
}

func TestNewEntry(t *testing.T) {
	entry, err := NewEntry(params())
	require.NoError(t, err)
	assert.Equal(t, int64(1425), entry.ClosingBalance)
	assert.Equal(t, "withdrawal", entry.Type)
	assert.True(t, entry.Active)
	assert.Zero(t, entry.ID)

	p := params()
	p.OpeningBalance, p.Amount = 1000, -1000
	entry, err = NewEntry(p)
	require.NoError(t, err)
	assert.Zero(t, entry.ClosingBalance)

	p.Amount = -1001
	_, err = NewEntry(p)
	var ib *errs.InsufficientBalanceError
	require.ErrorAs(t, err, &ib)
	assert.Equal(t, int64(-1), ib.Closing)
}

func TestNewEntryValidation(t *testing.T) {
	tests := []struct {
		name  string
		mod   func(p *EntryParams)
		field string
	}{
		{"missing date", func(p *EntryParams) { p.Date = models.Date{} }, "date"},
		{"zero account", func(p *EntryParams) { p.AccountNumber = 0 }, "accountNumber"},
		{"negative account", func(p *EntryParams) { p.AccountNumber = -8 }, "accountNumber"},
		{"blank type", func(p *EntryParams) { p.Type = "  " }, "type"},
		{"overflow", func(p *EntryParams) { p.OpeningBalance, p.Amount = math.MaxInt64, 1 }, "amount"},
		{"underflow", func(p *EntryParams) { p.OpeningBalance, p.Amount = math.MinInt64, -1 }, "amount"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := params()
			tt.mod(&p)
			_, err := NewEntry(p)
			var ve *errs.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}
