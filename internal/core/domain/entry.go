package domain

import (
	"fmt"

	"github.com/finbook/finbook/internal/apperrors"
	"github.com/shopspring/decimal"
)

// EntryLine is one draft line of an uncommitted entry. The account is held as
// an unresolved path string until commit.
type EntryLine struct {
	TransactionType TransactionType
	AccountPath     string
	Amount          decimal.Decimal
	Meta            Meta
	ExchangeRate    *decimal.Decimal
}

// Entry is an immutable-once-committed draft of a journal entry. Lines are
// added with the chainable Debit/Credit methods; the first invalid line is
// remembered and surfaced when the entry is committed, so a fluent build-up
// never needs intermediate error checks.
type Entry struct {
	memo      string
	lines     []EntryLine
	committed bool
	err       error
}

// NewEntry starts a draft. The memo is optional and copied onto every
// transaction the entry produces.
func NewEntry(memo string) (*Entry, error) {
	if len(memo) > MaxMemoLength {
		return nil, fmt.Errorf("%w: memo exceeds %d characters", apperrors.ErrValidation, MaxMemoLength)
	}
	return &Entry{memo: memo}, nil
}

// Debit adds a debit line for the account at path.
func (e *Entry) Debit(path string, amount decimal.Decimal) *Entry {
	return e.AddLine(Debit, path, amount, nil, nil)
}

// Credit adds a credit line for the account at path.
func (e *Entry) Credit(path string, amount decimal.Decimal) *Entry {
	return e.AddLine(Credit, path, amount, nil, nil)
}

// DebitWith adds a debit line with a meta payload and an optional explicit
// exchange rate.
func (e *Entry) DebitWith(path string, amount decimal.Decimal, meta Meta, rate *decimal.Decimal) *Entry {
	return e.AddLine(Debit, path, amount, meta, rate)
}

// CreditWith adds a credit line with a meta payload and an optional explicit
// exchange rate.
func (e *Entry) CreditWith(path string, amount decimal.Decimal, meta Meta, rate *decimal.Decimal) *Entry {
	return e.AddLine(Credit, path, amount, meta, rate)
}

// AddLine validates and appends a line, returning the same draft. Amounts
// must be positive integers in the account currency's smallest unit; an
// explicit rate, when given, must be positive.
func (e *Entry) AddLine(tt TransactionType, path string, amount decimal.Decimal, meta Meta, rate *decimal.Decimal) *Entry {
	if e.err != nil {
		return e
	}
	if tt != Debit && tt != Credit {
		e.err = fmt.Errorf("%w: unknown transaction type %q", apperrors.ErrValidation, tt)
		return e
	}
	if !amount.IsInteger() || amount.Sign() <= 0 {
		e.err = fmt.Errorf("%w: line amount must be a positive integer, got %s", apperrors.ErrValidation, amount)
		return e
	}
	if rate != nil {
		if rate.Sign() <= 0 {
			e.err = fmt.Errorf("%w: exchange rate must be positive, got %s", apperrors.ErrValidation, rate)
			return e
		}
		r := *rate
		rate = &r
	}
	if meta == nil {
		meta = Meta{}
	}
	e.lines = append(e.lines, EntryLine{
		TransactionType: tt,
		AccountPath:     path,
		Amount:          amount,
		Meta:            meta,
		ExchangeRate:    rate,
	})
	return e
}

// Memo returns the draft memo.
func (e *Entry) Memo() string { return e.memo }

// Lines returns the draft lines in insertion order.
func (e *Entry) Lines() []EntryLine { return e.lines }

// Err returns the first line-validation error recorded on the draft.
func (e *Entry) Err() error { return e.err }

// Committed reports whether the entry has been committed.
func (e *Entry) Committed() bool { return e.committed }

// MarkCommitted transitions the draft to its terminal state. Called by the
// commit protocol after the atomic write succeeds.
func (e *Entry) MarkCommitted() { e.committed = true }
