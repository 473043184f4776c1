package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType indicates whether a transaction line is a Debit or a Credit.
type TransactionType string

const (
	Debit  TransactionType = "DEBIT"
	Credit TransactionType = "CREDIT"
)

// MaxMemoLength bounds entry and transaction memos.
const MaxMemoLength = 1024

// Meta is an arbitrary structured payload attached to a transaction line,
// filterable by exact key/value match in ledger queries.
type Meta map[string]any

// JournalEntry groups the transactions created in one atomic write.
// An entry is balanced in base-currency terms at the moment of commit;
// this is enforced once, pre-write, and never re-checked.
type JournalEntry struct {
	JournalID    int64         `json:"journalID"`
	CreatedAt    time.Time     `json:"createdAt"`
	Transactions []Transaction `json:"transactions,omitempty"`
}

// Transaction is a single immutable line affecting one account. Amount is a
// positive integer in the account currency's smallest unit; ExchangeRate is
// the divisor to base currency that was in effect when the line committed.
// Transactions are append-only: corrections happen via inverse entries.
type Transaction struct {
	TransactionID   int64           `json:"transactionID"`
	JournalID       int64           `json:"journalID"`
	AccountID       int64           `json:"accountID"`
	Amount          decimal.Decimal `json:"amount"`
	TransactionType TransactionType `json:"transactionType"`
	ExchangeRate    decimal.Decimal `json:"exchangeRate"`
	Memo            string          `json:"memo,omitempty"`
	Meta            Meta            `json:"meta"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// IsCredit reports the line direction as a boolean.
func (t Transaction) IsCredit() bool {
	return t.TransactionType == Credit
}
