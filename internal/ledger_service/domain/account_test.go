package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAccount_UseBalance_Success(t *testing.T) {
	account := &Account{
		AccountNumber: "1000000000",
		Status:        AccountStatusActive,
		Balance:       10000,
	}

	err := account.UseBalance(2800)

	assert.NoError(t, err)
	assert.Equal(t, int64(7200), account.Balance)
}

func TestAccount_UseBalance_AmountExceedsBalance(t *testing.T) {
	account := &Account{
		AccountNumber: "1000000000",
		Status:        AccountStatusActive,
		Balance:       1000,
	}

	err := account.UseBalance(2000)

	assert.ErrorIs(t, err, ErrAmountExceedsBalance)
	assert.Equal(t, int64(1000), account.Balance, "balance must be unchanged on failure")
}

func TestAccount_UseBalance_ExactBalance(t *testing.T) {
	account := &Account{Balance: 500, Status: AccountStatusActive}

	err := account.UseBalance(500)

	assert.NoError(t, err)
	assert.Equal(t, int64(0), account.Balance)
}

func TestAccount_CancelBalance_RestoresAmount(t *testing.T) {
	account := &Account{Balance: 8000, Status: AccountStatusActive}

	account.CancelBalance(2000)

	assert.Equal(t, int64(10000), account.Balance)
}

func TestAccount_Close(t *testing.T) {
	account := &Account{Status: AccountStatusActive}
	now := time.Now().UTC()

	account.Close(now)

	assert.Equal(t, AccountStatusClosed, account.Status)
	if assert.NotNil(t, account.ClosedAt) {
		assert.Equal(t, now, *account.ClosedAt)
	}
}
