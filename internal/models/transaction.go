package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction types recorded in the ledger. A transfer always writes a
// TRANSFER_OUT on the source account and a TRANSFER_IN on the target,
// sharing the same reference and timestamp.
const (
	TransactionTypeDeposit     = "DEPOSIT"
	TransactionTypeWithdrawal  = "WITHDRAWAL"
	TransactionTypeTransferIn  = "TRANSFER_IN"
	TransactionTypeTransferOut = "TRANSFER_OUT"
)

// Transaction is a single immutable ledger entry. Rows are only ever
// inserted; there is no update or delete path anywhere in the codebase.
type Transaction struct {
	ID              int64           `json:"id" db:"id"`
	AccountID       int64           `json:"account_id" db:"account_id"`
	Reference       string          `json:"reference" db:"reference"`
	TransactionType string          `json:"transaction_type" db:"transaction_type"`
	Amount          decimal.Decimal `json:"amount" db:"amount"`
	TransactionDate time.Time       `json:"transaction_date" db:"transaction_date"`
}
