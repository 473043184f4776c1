package dto

import (
	"time"

	"github.com/finbook/finbook/internal/core/domain"
)

// CreateAccountRequest defines the data needed to create an account. Path is
// the full colon-delimited path of the new account; everything up to the last
// segment must already exist.
type CreateAccountRequest struct {
	Path         string `json:"path" binding:"required,ledgerpath,max=1024"`
	CurrencyCode string `json:"currencyCode" binding:"required,alphanum,max=10"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID  int64     `json:"accountID"`
	Name       string    `json:"name"`
	FullName   string    `json:"fullName"`
	Path       []string  `json:"path"`
	CurrencyID int64     `json:"currencyID"`
	CreatedAt  time.Time `json:"createdAt"`
}

// BalanceResponse carries a balance figure for an account path. Aggregate
// balances are expressed in base-currency units.
type BalanceResponse struct {
	Path    string `json:"path"`
	Balance string `json:"balance"`
}

// ToAccountResponse converts a domain.Account to its response DTO.
func ToAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:  a.AccountID,
		Name:       a.Name,
		FullName:   a.FullName,
		Path:       a.Path(),
		CurrencyID: a.CurrencyID,
		CreatedAt:  a.CreatedAt,
	}
}
