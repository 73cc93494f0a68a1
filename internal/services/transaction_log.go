package services

import (
	"context"
	"database/sql"

	"github.com/vilabank/console/internal/models"
)

// TransactionLog is the append-only record of completed monetary movements.
// Existing entries are never mutated or removed.
type TransactionLog interface {
	Append(ctx context.Context, tx *sql.Tx, entry *models.Transaction) error
	ListByAccount(ctx context.Context, accountID int64) ([]models.Transaction, error)
}

// PostgresTransactionLog implements TransactionLog against the transactions
// table.
type PostgresTransactionLog struct {
	db *sql.DB
}

func NewPostgresTransactionLog(db *sql.DB) *PostgresTransactionLog {
	return &PostgresTransactionLog{db: db}
}

func (l *PostgresTransactionLog) Append(ctx context.Context, tx *sql.Tx, entry *models.Transaction) error {
	err := tx.QueryRowContext(ctx, `
		INSERT INTO transactions (account_id, reference, transaction_type, amount, transaction_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		entry.AccountID, entry.Reference, entry.TransactionType,
		entry.Amount, entry.TransactionDate).Scan(&entry.ID)
	if err != nil {
		return storeErr("append transaction", err)
	}
	return nil
}

// ListByAccount returns the account's entries newest first. The id tiebreak
// keeps the order stable for entries sharing a timestamp (the two legs of a
// transfer do).
func (l *PostgresTransactionLog) ListByAccount(ctx context.Context, accountID int64) ([]models.Transaction, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT id, account_id, reference, transaction_type, amount, transaction_date
		FROM transactions
		WHERE account_id = $1
		ORDER BY transaction_date DESC, id DESC`, accountID)
	if err != nil {
		return nil, storeErr("list transactions", err)
	}
	defer rows.Close()

	var entries []models.Transaction
	for rows.Next() {
		var entry models.Transaction
		if err := rows.Scan(&entry.ID, &entry.AccountID, &entry.Reference,
			&entry.TransactionType, &entry.Amount, &entry.TransactionDate); err != nil {
			return nil, storeErr("scan transaction", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list transactions", err)
	}

	return entries, nil
}
