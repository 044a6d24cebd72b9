package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSentinelMatching(t *testing.T) {
	cause := errors.New("connection refused")
	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"validation", Invalid("startDate", "must not be after endDate"), ErrValidation},
		{"insufficient balance", &InsufficientBalanceError{Opening: 10, Amount: -11, Closing: -1}, ErrInsufficientBalance},
		{"not found", &NotFoundError{Entity: EntityAccount, ID: 7}, ErrNotFound},
		{"upstream", &UpstreamError{Entity: EntityAccount, ID: 7, Cause: cause}, ErrUpstream},
		{"conflict", &ConflictError{Entity: EntityClient, ID: 1, Reason: "client still owns accounts"}, ErrConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("handler: %w", tt.err)
			assert.ErrorIs(t, wrapped, tt.sentinel)
			for _, other := range []error{ErrValidation, ErrInsufficientBalance, ErrNotFound, ErrUpstream, ErrConflict} {
				if other != tt.sentinel {
					assert.NotErrorIs(t, wrapped, other)
				}
			}
		})
	}
}

func TestUpstreamErrorIsNeverNotFound(t *testing.T) {
	err := &UpstreamError{Entity: EntityAccount, ID: 3, Cause: errors.New("status 503")}
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.False(t, IsClientError(err))
	assert.EqualError(t, errors.Unwrap(err), "status 503")
}

func TestIsNotFoundOf(t *testing.T) {
	err := fmt.Errorf("update: %w", &NotFoundError{Entity: EntityLedgerEntry, ID: 9})
	assert.True(t, IsNotFoundOf(err, EntityLedgerEntry))
	assert.False(t, IsNotFoundOf(err, EntityAccount))
	assert.False(t, IsNotFoundOf(errors.New("boom"), EntityLedgerEntry))
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "account not found with id: 42", (&NotFoundError{Entity: EntityAccount, ID: 42}).Error())
	assert.Equal(t, "type: is required", Invalid("type", "is required").Error())
	assert.Equal(t, "bad range", (&ValidationError{Message: "bad range"}).Error())
}
