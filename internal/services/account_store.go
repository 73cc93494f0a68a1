package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vilabank/console/internal/models"
)

// AccountStore is the durable account mapping consumed by the ledger
// service. UpdateBalance is the only way a balance changes; callers always
// read the current row (GetForUpdate) inside the same transaction first.
type AccountStore interface {
	GetByID(ctx context.Context, accountID int64) (*models.Account, error)
	GetByUserID(ctx context.Context, userID int64) (*models.Account, error)
	GetForUpdate(ctx context.Context, tx *sql.Tx, accountID int64) (*models.Account, error)
	UpdateBalance(ctx context.Context, tx *sql.Tx, accountID int64, newBalance decimal.Decimal, version int) error
	Create(ctx context.Context, tx *sql.Tx, account *models.Account) error
}

// PostgresAccountStore implements AccountStore against the accounts table.
type PostgresAccountStore struct {
	db *sql.DB
}

func NewPostgresAccountStore(db *sql.DB) *PostgresAccountStore {
	return &PostgresAccountStore{db: db}
}

func (s *PostgresAccountStore) GetByID(ctx context.Context, accountID int64) (*models.Account, error) {
	return s.scanAccount(s.db.QueryRowContext(ctx, `
		SELECT id, user_id, balance, account_type, version, updated_at
		FROM accounts
		WHERE id = $1`, accountID))
}

func (s *PostgresAccountStore) GetByUserID(ctx context.Context, userID int64) (*models.Account, error) {
	return s.scanAccount(s.db.QueryRowContext(ctx, `
		SELECT id, user_id, balance, account_type, version, updated_at
		FROM accounts
		WHERE user_id = $1`, userID))
}

// GetForUpdate locks the account row for the duration of tx so the balance
// read here is still the balance at commit time.
func (s *PostgresAccountStore) GetForUpdate(ctx context.Context, tx *sql.Tx, accountID int64) (*models.Account, error) {
	return s.scanAccount(tx.QueryRowContext(ctx, `
		SELECT id, user_id, balance, account_type, version, updated_at
		FROM accounts
		WHERE id = $1
		FOR UPDATE`, accountID))
}

func (s *PostgresAccountStore) UpdateBalance(ctx context.Context, tx *sql.Tx, accountID int64, newBalance decimal.Decimal, version int) error {
	result, err := tx.ExecContext(ctx, `
		UPDATE accounts
		SET balance = $1, version = version + 1, updated_at = $2
		WHERE id = $3 AND version = $4`,
		newBalance, time.Now(), accountID, version)
	if err != nil {
		return storeErr("update balance", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return storeErr("update balance", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("%w: optimistic lock failed for account %d", ErrStoreUnavailable, accountID)
	}

	return nil
}

func (s *PostgresAccountStore) Create(ctx context.Context, tx *sql.Tx, account *models.Account) error {
	err := tx.QueryRowContext(ctx, `
		INSERT INTO accounts (user_id, balance, account_type, version, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id`,
		account.UserID, account.Balance, account.AccountType, 1).Scan(&account.ID)
	if err != nil {
		return storeErr("create account", err)
	}
	account.Version = 1
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *PostgresAccountStore) scanAccount(row rowScanner) (*models.Account, error) {
	var account models.Account
	err := row.Scan(&account.ID, &account.UserID, &account.Balance,
		&account.AccountType, &account.Version, &account.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, storeErr("fetch account", err)
	}
	return &account, nil
}
