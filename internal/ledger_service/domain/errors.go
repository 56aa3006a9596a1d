package domain

import "errors"

// Validated business-rule failures. These are expected outcomes, not defects;
// storage-layer faults are wrapped separately and must never be conflated
// with this taxonomy.
var (
	// ErrOwnerNotFound indicates the calling owner does not exist.
	ErrOwnerNotFound = errors.New("owner not found")
	// ErrAccountNotFound indicates no account exists for the given number.
	ErrAccountNotFound = errors.New("account not found")
	// ErrOwnerAccountMismatch indicates the account belongs to a different owner.
	ErrOwnerAccountMismatch = errors.New("owner and account holder do not match")
	// ErrAccountAlreadyClosed indicates the account was already soft-closed.
	ErrAccountAlreadyClosed = errors.New("account is already closed")
	// ErrAmountExceedsBalance indicates a use amount larger than the balance.
	ErrAmountExceedsBalance = errors.New("amount exceeds account balance")
	// ErrTransactionNotFound indicates no transaction exists for the given id.
	ErrTransactionNotFound = errors.New("transaction not found")
	// ErrTransactionAccountMismatch indicates the transaction belongs to a different account.
	ErrTransactionAccountMismatch = errors.New("transaction does not belong to account")
	// ErrCancelMustBeFull indicates a partial cancellation attempt.
	ErrCancelMustBeFull = errors.New("cancel amount must equal the original transaction amount")
	// ErrTooOldToCancel indicates the original transaction is older than one year.
	ErrTooOldToCancel = errors.New("transaction is too old to cancel")
	// ErrMaxAccountsPerOwnerExceeded indicates the owner already holds the maximum number of accounts.
	ErrMaxAccountsPerOwnerExceeded = errors.New("maximum number of accounts per owner exceeded")
	// ErrAccountBalanceNotEmpty indicates an attempt to close an account with a remaining balance.
	ErrAccountBalanceNotEmpty = errors.New("account balance is not empty")
)

// ErrorCode returns the stable machine-readable code for a business error,
// suitable for serialization in transport responses. Unknown (infrastructure)
// errors yield "INTERNAL_ERROR".
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrOwnerNotFound):
		return "OWNER_NOT_FOUND"
	case errors.Is(err, ErrAccountNotFound):
		return "ACCOUNT_NOT_FOUND"
	case errors.Is(err, ErrOwnerAccountMismatch):
		return "OWNER_ACCOUNT_MISMATCH"
	case errors.Is(err, ErrAccountAlreadyClosed):
		return "ACCOUNT_ALREADY_CLOSED"
	case errors.Is(err, ErrAmountExceedsBalance):
		return "AMOUNT_EXCEEDS_BALANCE"
	case errors.Is(err, ErrTransactionNotFound):
		return "TRANSACTION_NOT_FOUND"
	case errors.Is(err, ErrTransactionAccountMismatch):
		return "TRANSACTION_ACCOUNT_MISMATCH"
	case errors.Is(err, ErrCancelMustBeFull):
		return "CANCEL_MUST_BE_FULL"
	case errors.Is(err, ErrTooOldToCancel):
		return "TOO_OLD_TO_CANCEL"
	case errors.Is(err, ErrMaxAccountsPerOwnerExceeded):
		return "MAX_ACCOUNTS_PER_OWNER_EXCEEDED"
	case errors.Is(err, ErrAccountBalanceNotEmpty):
		return "ACCOUNT_BALANCE_NOT_EMPTY"
	default:
		return "INTERNAL_ERROR"
	}
}
