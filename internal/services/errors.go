package services

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidAmount means the amount is zero, negative, or has more than
	// two decimal places.
	ErrInvalidAmount = errors.New("amount must be a positive value")

	// ErrInsufficientFunds means the account balance, read at commit time,
	// does not cover the requested amount.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrAccountNotFound means the account ID does not resolve.
	ErrAccountNotFound = errors.New("account not found")

	// ErrSameAccountTransfer means source and target are the same account.
	ErrSameAccountTransfer = errors.New("cannot transfer to the same account")

	// ErrInvalidAccountType means the source account may not originate
	// transfers (only CHECKING accounts can).
	ErrInvalidAccountType = errors.New("transfers are only allowed from checking accounts")

	// ErrStoreUnavailable wraps any underlying persistence failure. The
	// operation that hit it has been rolled back in full.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrCPFAlreadyRegistered means a user with that CPF already exists.
	ErrCPFAlreadyRegistered = errors.New("cpf already registered")

	// ErrInvalidCredentials means the CPF/password pair did not match.
	ErrInvalidCredentials = errors.New("invalid cpf or password")

	// ErrTooManyLoginAttempts means the failed-login limit was hit and the
	// CPF is locked out for the configured window.
	ErrTooManyLoginAttempts = errors.New("too many failed login attempts, try again later")

	// ErrUnderage means the birth date does not meet the minimum age for
	// opening an account.
	ErrUnderage = errors.New("account holder must be of legal age")
)

// storeErr tags an underlying database failure as ErrStoreUnavailable while
// keeping the operation name and driver error in the message.
func storeErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrStoreUnavailable, op, err)
}
