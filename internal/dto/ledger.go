package dto

import (
	"time"

	"github.com/finbook/finbook/internal/core/domain"
)

// LedgerQueryRequest defines the filter and pagination arguments for a
// ledger history query. Nil fields fall back to defaults: unbounded dates,
// offset 0, no limit, newest first.
type LedgerQueryRequest struct {
	StartDate *time.Time  `json:"startDate"`
	EndDate   *time.Time  `json:"endDate"`
	Offset    *int        `json:"offset"`
	Limit     *int        `json:"limit"`
	Order     *string     `json:"order"` // "asc" or "desc"
	Meta      domain.Meta `json:"meta"`
}

// DateRangeRequest bounds a trading-balance computation.
type DateRangeRequest struct {
	StartDate *time.Time `json:"startDate"`
	EndDate   *time.Time `json:"endDate"`
}

// RichTransactionResponse is the denormalized history record returned by
// ledger queries.
type RichTransactionResponse struct {
	TransactionID int64       `json:"transactionID"`
	AccountName   string      `json:"accountName"`
	AccountPath   []string    `json:"accountPath"`
	Amount        string      `json:"amount"`
	Credit        bool        `json:"credit"`
	Currency      string      `json:"currency"`
	ExchangeRate  string      `json:"exchangeRate"`
	Memo          string      `json:"memo,omitempty"`
	Meta          domain.Meta `json:"meta"`
	CreatedAt     time.Time   `json:"createdAt"`
}

// ToRichTransactionResponses converts projection records to response DTOs.
func ToRichTransactionResponses(txns []domain.RichTransaction) []RichTransactionResponse {
	res := make([]RichTransactionResponse, len(txns))
	for i, t := range txns {
		res[i] = RichTransactionResponse{
			TransactionID: t.TransactionID,
			AccountName:   t.AccountName,
			AccountPath:   t.AccountPath,
			Amount:        t.Amount.String(),
			Credit:        t.Credit,
			Currency:      t.CurrencyCode,
			ExchangeRate:  t.ExchangeRate.String(),
			Memo:          t.Memo,
			Meta:          t.Meta,
			CreatedAt:     t.CreatedAt,
		}
	}
	return res
}

// CurrencyTradingResponse is one currency's raw totals in a trading balance.
type CurrencyTradingResponse struct {
	Currency string `json:"currency"`
	Debits   string `json:"debits"`
	Credits  string `json:"credits"`
	Net      string `json:"net"`
}

// TradingBalanceResponse is the whole-ledger trading balance projection.
type TradingBalanceResponse struct {
	Currencies []CurrencyTradingResponse `json:"currencies"`
	Base       string                    `json:"base"`
}

// ToTradingBalanceResponse converts a trading balance to its response DTO.
func ToTradingBalanceResponse(tb *domain.TradingBalance) TradingBalanceResponse {
	resp := TradingBalanceResponse{
		Currencies: make([]CurrencyTradingResponse, len(tb.Currencies)),
		Base:       tb.Base.String(),
	}
	for i, c := range tb.Currencies {
		resp.Currencies[i] = CurrencyTradingResponse{
			Currency: c.CurrencyCode,
			Debits:   c.Debits.String(),
			Credits:  c.Credits.String(),
			Net:      c.Net.String(),
		}
	}
	return resp
}
