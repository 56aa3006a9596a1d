package domain

import (
	"time"
)

// AccountStatus is the lifecycle state of an account.
type AccountStatus string

const (
	AccountStatusActive AccountStatus = "ACTIVE"
	AccountStatusClosed AccountStatus = "CLOSED"
)

// Account is a bank account holding a balance in minor currency units.
// The account number is immutable once assigned; the balance is only
// mutated through UseBalance and CancelBalance so it can never go negative.
type Account struct {
	AccountNumber string        `json:"account_number"`
	OwnerID       string        `json:"owner_id"`
	Status        AccountStatus `json:"status"`
	Balance       int64         `json:"balance"`
	OpenedAt      time.Time     `json:"opened_at"`
	ClosedAt      *time.Time    `json:"closed_at,omitempty"`
}

// UseBalance debits amount from the account. The balance invariant (>= 0)
// is enforced here: an amount larger than the balance is rejected.
func (a *Account) UseBalance(amount int64) error {
	if amount > a.Balance {
		return ErrAmountExceedsBalance
	}
	a.Balance -= amount
	return nil
}

// CancelBalance credits amount back to the account, reversing a prior use.
func (a *Account) CancelBalance(amount int64) {
	a.Balance += amount
}

// Close marks the account CLOSED. Closed accounts are never reopened.
func (a *Account) Close(at time.Time) {
	a.Status = AccountStatusClosed
	a.ClosedAt = &at
}
