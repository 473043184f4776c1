package dto

import (
	"time"

	"github.com/finbook/finbook/internal/core/domain"
)

// CreateCurrencyRequest defines the data needed to create a new currency.
// The first currency ever created becomes the base currency.
type CreateCurrencyRequest struct {
	Code string `json:"code" binding:"required,alphanum,max=10"`
}

// CurrencyResponse defines the data returned for a currency.
type CurrencyResponse struct {
	CurrencyID   int64     `json:"currencyID"`
	Code         string    `json:"code"`
	ExchangeRate *string   `json:"exchangeRate,omitempty"`
	IsBase       bool      `json:"isBase"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ToCurrencyResponse converts a domain.Currency to its response DTO.
func ToCurrencyResponse(c *domain.Currency) CurrencyResponse {
	resp := CurrencyResponse{
		CurrencyID: c.CurrencyID,
		Code:       c.Code,
		IsBase:     c.IsBase,
		CreatedAt:  c.CreatedAt,
	}
	if c.ExchangeRate != nil {
		rate := c.ExchangeRate.String()
		resp.ExchangeRate = &rate
	}
	return resp
}

// ToListCurrencyResponse converts a slice of currencies to response DTOs.
func ToListCurrencyResponse(currencies []domain.Currency) []CurrencyResponse {
	res := make([]CurrencyResponse, len(currencies))
	for i := range currencies {
		res[i] = ToCurrencyResponse(&currencies[i])
	}
	return res
}
