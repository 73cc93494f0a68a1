package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account types supported by the bank.
const (
	AccountTypeChecking = "CHECKING"
	AccountTypeSavings  = "SAVINGS"
	AccountTypeSalary   = "SALARY"
)

// Account holds the balance for a single owner. Balance is stored as
// numeric(15,2) and is only ever written through the ledger service.
type Account struct {
	ID          int64           `json:"id" db:"id"`
	UserID      int64           `json:"user_id" db:"user_id"`
	Balance     decimal.Decimal `json:"balance" db:"balance"`
	AccountType string          `json:"account_type" db:"account_type"`
	Version     int             `json:"version" db:"version"` // for optimistic locking
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}

// ValidAccountType reports whether t is one of the supported account types.
func ValidAccountType(t string) bool {
	switch t {
	case AccountTypeChecking, AccountTypeSavings, AccountTypeSalary:
		return true
	}
	return false
}
