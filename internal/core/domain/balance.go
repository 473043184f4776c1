package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Balance is a cached running-balance checkpoint for one account.
// TransactionID is the highest transaction already folded into Amount.
// Rows are pure memoization over the immutable transaction log: deleting
// them costs a rebuild, never correctness. Duplicate checkpoints for the
// same account can appear under concurrent reads and are not a conflict.
type Balance struct {
	BalanceID     int64           `json:"balanceID"`
	AccountID     int64           `json:"accountID"`
	TransactionID int64           `json:"transactionID"`
	Amount        decimal.Decimal `json:"amount"`
	CreatedAt     time.Time       `json:"createdAt"`
}
