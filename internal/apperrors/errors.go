package apperrors

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUnbalanced indicates that an entry's debit and credit sides do not match
// in base-currency terms.
var ErrUnbalanced = errors.New("entry does not balance")

// ErrNoExchangeRate indicates that a foreign-currency line has neither an
// explicit exchange rate nor a previously cached one.
var ErrNoExchangeRate = errors.New("no exchange rate available")

// ErrAlreadyCommitted indicates that commit was invoked twice on the same entry.
var ErrAlreadyCommitted = errors.New("entry already committed")

// UnbalancedEntryError carries both base-currency sums for diagnostics.
// It matches ErrUnbalanced under errors.Is.
type UnbalancedEntryError struct {
	Debits  decimal.Decimal
	Credits decimal.Decimal
}

func (e *UnbalancedEntryError) Error() string {
	return fmt.Sprintf("entry does not balance: debits sum to %s and credits sum to %s in base currency units",
		e.Debits.String(), e.Credits.String())
}

func (e *UnbalancedEntryError) Is(target error) bool {
	return target == ErrUnbalanced
}
