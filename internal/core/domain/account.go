package domain

import (
	"strings"
	"time"
)

// PathSeparator joins account names into a full path, e.g. "Assets:bank:AlfaBank".
const PathSeparator = ":"

const (
	MaxAccountNameLength = 255
	MaxFullNameLength    = 1024
)

// Account is a node in the chart of accounts. The tree is modeled with flat
// records and a nullable parent id; FullName is derived once at creation by
// walking the parent chain and is immutable afterwards (there is no
// account-move operation).
type Account struct {
	AccountID       int64     `json:"accountID"`
	Name            string    `json:"name"`
	FullName        string    `json:"fullName"`
	ParentAccountID *int64    `json:"parentAccountID,omitempty"`
	CurrencyID      int64     `json:"currencyID"`
	CreatedAt       time.Time `json:"createdAt"`
}

// Path returns the full name split into its ordered segments.
func (a Account) Path() []string {
	return strings.Split(a.FullName, PathSeparator)
}
