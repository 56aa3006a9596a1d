package domain

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// TransactionType defines the nature of a ledger entry.
type TransactionType string

const (
	TransactionTypeUse    TransactionType = "USE"
	TransactionTypeCancel TransactionType = "CANCEL"
)

// Value implements the driver.Valuer interface for TransactionType.
func (tt TransactionType) Value() (driver.Value, error) {
	return string(tt), nil
}

// Scan implements the sql.Scanner interface for TransactionType.
func (tt *TransactionType) Scan(value interface{}) error {
	strVal, ok := value.(string)
	if !ok {
		bytesVal, ok := value.([]byte)
		if !ok {
			return fmt.Errorf("failed to scan TransactionType: value is not string or []byte, it is %T", value)
		}
		strVal = string(bytesVal)
	}
	*tt = TransactionType(strVal)
	switch *tt {
	case TransactionTypeUse, TransactionTypeCancel:
		return nil
	default:
		return fmt.Errorf("unknown TransactionType value: %s", strVal)
	}
}

// TransactionResultType records whether the attempted operation succeeded.
type TransactionResultType string

const (
	TransactionResultSuccess TransactionResultType = "SUCCESS"
	TransactionResultFail    TransactionResultType = "FAIL"
)

// Transaction is one append-only ledger entry. Entries are never mutated or
// deleted after creation; they form the durable audit trail of an account.
// BalanceSnapshot is the account balance immediately after this entry took
// effect, or the unchanged pre-operation balance for FAIL entries.
type Transaction struct {
	TransactionID   string                `json:"transaction_id"`
	AccountNumber   string                `json:"account_number"`
	Type            TransactionType       `json:"transaction_type"`
	Result          TransactionResultType `json:"transaction_result"`
	Amount          int64                 `json:"amount"`
	BalanceSnapshot int64                 `json:"balance_snapshot"`
	TransactedAt    time.Time             `json:"transacted_at"`
}
