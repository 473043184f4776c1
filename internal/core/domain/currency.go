package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaxCurrencyCodeLength bounds the currency code column.
const MaxCurrencyCodeLength = 10

// Currency represents a supported currency.
//
// ExchangeRate is a divisor into base-currency units: amount / rate = base
// amount. It is nil until the first committed entry supplies a rate for this
// currency, and is rewritten by the commit protocol after every entry that
// touches the currency. The base currency is always valued at exactly 1;
// its stored rate is never consulted.
type Currency struct {
	CurrencyID   int64            `json:"currencyID"`
	Code         string           `json:"code"`
	ExchangeRate *decimal.Decimal `json:"exchangeRate,omitempty"`
	IsBase       bool             `json:"isBase"`
	CreatedAt    time.Time        `json:"createdAt"`
}

// CachedRate returns the rate to divide by when converting this currency's
// amounts into base units. The base currency is special-cased on identity,
// not on its stored rate. The second return is false when a foreign currency
// has no cached rate yet.
func (c Currency) CachedRate() (decimal.Decimal, bool) {
	if c.IsBase {
		return decimal.NewFromInt(1), true
	}
	if c.ExchangeRate == nil {
		return decimal.Decimal{}, false
	}
	return *c.ExchangeRate, true
}
