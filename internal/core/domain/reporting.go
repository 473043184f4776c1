package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RichTransaction is the denormalized projection returned by ledger queries:
// a transaction joined with its owning account and currency.
type RichTransaction struct {
	TransactionID int64           `json:"transactionID"`
	AccountName   string          `json:"accountName"`
	AccountPath   []string        `json:"accountPath"`
	Amount        decimal.Decimal `json:"amount"`
	Credit        bool            `json:"credit"`
	CurrencyCode  string          `json:"currency"`
	ExchangeRate  decimal.Decimal `json:"exchangeRate"`
	Memo          string          `json:"memo,omitempty"`
	Meta          Meta            `json:"meta"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// CurrencyTrading is one currency's raw debit/credit totals across the whole
// ledger, without any per-line exchange-rate division.
type CurrencyTrading struct {
	CurrencyCode string          `json:"currency"`
	Debits       decimal.Decimal `json:"debits"`
	Credits      decimal.Decimal `json:"credits"`
	Net          decimal.Decimal `json:"net"` // debits - credits
}

// TradingBalance is the whole-ledger currency-conversion P&L proxy: per
// currency nets plus their sum converted into base units at the currently
// cached rates.
type TradingBalance struct {
	Currencies []CurrencyTrading `json:"currencies"`
	Base       decimal.Decimal   `json:"base"`
}

// AccountNode is the tree projection of the chart of accounts. Children is
// nil for leaf nodes.
type AccountNode struct {
	Name         string         `json:"name"`
	FullName     string         `json:"fullName"`
	Path         []string       `json:"path"`
	CurrencyCode string         `json:"currency"`
	Children     []*AccountNode `json:"children,omitempty"`
}
