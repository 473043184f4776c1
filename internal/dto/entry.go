package dto

import (
	"time"

	"github.com/finbook/finbook/internal/core/domain"
	"github.com/shopspring/decimal"
)

// EntryLineRequest is one line of an entry to commit.
type EntryLineRequest struct {
	Type         string           `json:"type" binding:"required,oneof=DEBIT CREDIT"`
	AccountPath  string           `json:"accountPath" binding:"required,ledgerpath"`
	Amount       decimal.Decimal  `json:"amount" binding:"required"`
	Meta         domain.Meta      `json:"meta"`
	ExchangeRate *decimal.Decimal `json:"exchangeRate"`
}

// CreateEntryRequest defines a multi-line entry to commit atomically.
type CreateEntryRequest struct {
	Memo  string             `json:"memo" binding:"max=1024"`
	Lines []EntryLineRequest `json:"lines" binding:"required,min=2,dive"`
}

// ToEntry builds a draft entry from the request. Line validation errors are
// recorded on the draft and surface at commit.
func (r CreateEntryRequest) ToEntry() (*domain.Entry, error) {
	entry, err := domain.NewEntry(r.Memo)
	if err != nil {
		return nil, err
	}
	for _, line := range r.Lines {
		entry.AddLine(domain.TransactionType(line.Type), line.AccountPath, line.Amount, line.Meta, line.ExchangeRate)
	}
	return entry, nil
}

// TransactionResponse defines the data returned for a committed transaction.
type TransactionResponse struct {
	TransactionID int64       `json:"transactionID"`
	JournalID     int64       `json:"journalID"`
	AccountID     int64       `json:"accountID"`
	Amount        string      `json:"amount"`
	Credit        bool        `json:"credit"`
	ExchangeRate  string      `json:"exchangeRate"`
	Memo          string      `json:"memo,omitempty"`
	Meta          domain.Meta `json:"meta"`
	CreatedAt     time.Time   `json:"createdAt"`
}

// EntryResponse defines the data returned for a committed journal entry.
type EntryResponse struct {
	JournalID    int64                 `json:"journalID"`
	CreatedAt    time.Time             `json:"createdAt"`
	Transactions []TransactionResponse `json:"transactions"`
}

// ToEntryResponse converts a committed journal entry to its response DTO.
func ToEntryResponse(e *domain.JournalEntry) EntryResponse {
	resp := EntryResponse{
		JournalID:    e.JournalID,
		CreatedAt:    e.CreatedAt,
		Transactions: make([]TransactionResponse, len(e.Transactions)),
	}
	for i, txn := range e.Transactions {
		resp.Transactions[i] = TransactionResponse{
			TransactionID: txn.TransactionID,
			JournalID:     txn.JournalID,
			AccountID:     txn.AccountID,
			Amount:        txn.Amount.String(),
			Credit:        txn.IsCredit(),
			ExchangeRate:  txn.ExchangeRate.String(),
			Memo:          txn.Memo,
			Meta:          txn.Meta,
			CreatedAt:     txn.CreatedAt,
		}
	}
	return resp
}
