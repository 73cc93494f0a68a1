package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vilabank/console/internal/models"
)

// LedgerService validates and executes every balance mutation. Each
// operation is a single database transaction: the balance update and its
// ledger entries commit together or not at all. Balances are always re-read
// under FOR UPDATE inside the transaction, so a balance shown earlier in the
// interactive flow can never authorize a withdrawal or transfer.
type LedgerService struct {
	db       *sql.DB
	accounts AccountStore
	log      TransactionLog
}

func NewLedgerService(db *sql.DB, accounts AccountStore, log TransactionLog) *LedgerService {
	return &LedgerService{
		db:       db,
		accounts: accounts,
		log:      log,
	}
}

// validAmount accepts positive amounts with at most two decimal places.
func validAmount(amount decimal.Decimal) bool {
	return amount.IsPositive() && amount.Exponent() >= -2
}

// Deposit increases the account balance by amount and appends a DEPOSIT
// entry.
func (s *LedgerService) Deposit(ctx context.Context, accountID int64, amount decimal.Decimal) error {
	if !validAmount(amount) {
		return ErrInvalidAmount
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storeErr("begin deposit", err)
	}
	defer tx.Rollback()

	account, err := s.accounts.GetForUpdate(ctx, tx, accountID)
	if err != nil {
		return err
	}

	newBalance := account.Balance.Add(amount)
	if err := s.accounts.UpdateBalance(ctx, tx, account.ID, newBalance, account.Version); err != nil {
		return err
	}

	entry := &models.Transaction{
		AccountID:       account.ID,
		Reference:       uuid.NewString(),
		TransactionType: models.TransactionTypeDeposit,
		Amount:          amount,
		TransactionDate: time.Now(),
	}
	if err := s.log.Append(ctx, tx, entry); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return storeErr("commit deposit", err)
	}
	return nil
}

// Withdraw decreases the account balance by amount and appends a WITHDRAWAL
// entry. The insufficient-funds check runs against the locked row, not
// against any balance read earlier in the session.
func (s *LedgerService) Withdraw(ctx context.Context, accountID int64, amount decimal.Decimal) error {
	if !validAmount(amount) {
		return ErrInvalidAmount
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storeErr("begin withdrawal", err)
	}
	defer tx.Rollback()

	account, err := s.accounts.GetForUpdate(ctx, tx, accountID)
	if err != nil {
		return err
	}

	if account.Balance.LessThan(amount) {
		return ErrInsufficientFunds
	}

	newBalance := account.Balance.Sub(amount)
	if err := s.accounts.UpdateBalance(ctx, tx, account.ID, newBalance, account.Version); err != nil {
		return err
	}

	entry := &models.Transaction{
		AccountID:       account.ID,
		Reference:       uuid.NewString(),
		TransactionType: models.TransactionTypeWithdrawal,
		Amount:          amount,
		TransactionDate: time.Now(),
	}
	if err := s.log.Append(ctx, tx, entry); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return storeErr("commit withdrawal", err)
	}
	return nil
}

// CheckBalance returns the account's current balance.
func (s *LedgerService) CheckBalance(ctx context.Context, accountID int64) (decimal.Decimal, error) {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return account.Balance, nil
}

// Transfer atomically moves amount from the source account to the target
// account. Checks run in a fixed order and the first failing one aborts the
// whole operation: account existence, same-account, source account type,
// amount, funds. On success both balance updates and both ledger entries
// (TRANSFER_OUT then TRANSFER_IN, same amount, same timestamp, shared
// reference) are committed together.
func (s *LedgerService) Transfer(ctx context.Context, sourceID, targetID int64, amount decimal.Decimal) error {
	if sourceID == targetID {
		// Existence is still checked first so a transfer to one's own
		// unknown ID reports the missing account, not the self-transfer.
		if _, err := s.accounts.GetByID(ctx, sourceID); err != nil {
			return err
		}
		return ErrSameAccountTransfer
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storeErr("begin transfer", err)
	}
	defer tx.Rollback()

	// Lock accounts in ascending ID order to prevent deadlocks.
	firstLock, secondLock := sourceID, targetID
	if sourceID > targetID {
		firstLock, secondLock = targetID, sourceID
	}

	first, err := s.accounts.GetForUpdate(ctx, tx, firstLock)
	if err != nil {
		return err
	}
	second, err := s.accounts.GetForUpdate(ctx, tx, secondLock)
	if err != nil {
		return err
	}

	source, target := first, second
	if firstLock != sourceID {
		source, target = second, first
	}

	if source.AccountType != models.AccountTypeChecking {
		return ErrInvalidAccountType
	}
	if !validAmount(amount) {
		return ErrInvalidAmount
	}
	if source.Balance.LessThan(amount) {
		return ErrInsufficientFunds
	}

	if err := s.accounts.UpdateBalance(ctx, tx, source.ID, source.Balance.Sub(amount), source.Version); err != nil {
		return err
	}
	if err := s.accounts.UpdateBalance(ctx, tx, target.ID, target.Balance.Add(amount), target.Version); err != nil {
		return err
	}

	reference := uuid.NewString()
	now := time.Now()

	out := &models.Transaction{
		AccountID:       source.ID,
		Reference:       reference,
		TransactionType: models.TransactionTypeTransferOut,
		Amount:          amount,
		TransactionDate: now,
	}
	if err := s.log.Append(ctx, tx, out); err != nil {
		return err
	}

	in := &models.Transaction{
		AccountID:       target.ID,
		Reference:       reference,
		TransactionType: models.TransactionTypeTransferIn,
		Amount:          amount,
		TransactionDate: now,
	}
	if err := s.log.Append(ctx, tx, in); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return storeErr("commit transfer", err)
	}
	return nil
}

// ListTransactions returns the account's ledger entries, newest first.
func (s *LedgerService) ListTransactions(ctx context.Context, accountID int64) ([]models.Transaction, error) {
	if _, err := s.accounts.GetByID(ctx, accountID); err != nil {
		return nil, err
	}
	return s.log.ListByAccount(ctx, accountID)
}
