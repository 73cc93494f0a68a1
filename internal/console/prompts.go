package console

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vilabank/console/internal/services"
)

// readLine prompts and reads one trimmed line. ok is false once the input
// stream is exhausted.
func (m *Menu) readLine(label string) (line string, ok bool) {
	fmt.Fprint(m.out, label)
	if !m.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(m.in.Text()), true
}

// promptAmount keeps asking until it gets a positive amount with at most
// two decimal places.
func (m *Menu) promptAmount(label string) (decimal.Decimal, bool) {
	for {
		input, ok := m.readLine(label)
		if !ok {
			return decimal.Decimal{}, false
		}
		amount, err := services.ParseAmount(input)
		if err != nil {
			fmt.Fprintln(m.out, "Invalid input: please enter a positive amount with up to two decimal places.")
			continue
		}
		return amount, true
	}
}

// promptAccountID keeps asking until it gets a positive integer.
func (m *Menu) promptAccountID(label string) (int64, bool) {
	for {
		input, ok := m.readLine(label)
		if !ok {
			return 0, false
		}
		id, err := strconv.ParseInt(input, 10, 64)
		if err != nil || id <= 0 {
			fmt.Fprintln(m.out, "Invalid input: please enter a valid account ID.")
			continue
		}
		return id, true
	}
}

// promptCPF keeps asking until the CPF passes the check-digit validation.
func (m *Menu) promptCPF(label string) (string, bool) {
	for {
		cpf, ok := m.readLine(label)
		if !ok {
			return "", false
		}
		if !services.ValidCPF(cpf) {
			fmt.Fprintln(m.out, "Invalid CPF. Use the format 000.000.000-00 or 11 digits.")
			continue
		}
		return cpf, true
	}
}

// errorMessage renders a ledger or auth error as console text.
func errorMessage(err error) string {
	switch {
	case errors.Is(err, services.ErrInvalidAmount):
		return "Invalid amount: enter a positive value with up to two decimal places."
	case errors.Is(err, services.ErrInsufficientFunds):
		return "Insufficient funds for this operation."
	case errors.Is(err, services.ErrAccountNotFound):
		return "Account not found."
	case errors.Is(err, services.ErrSameAccountTransfer):
		return "Invalid operation: you cannot transfer money to the same account."
	case errors.Is(err, services.ErrInvalidAccountType):
		return "Transfers are only allowed from CHECKING accounts."
	case errors.Is(err, services.ErrTooManyLoginAttempts):
		return "Too many failed login attempts. Try again later."
	case errors.Is(err, services.ErrInvalidCredentials):
		return "Invalid CPF or password."
	case errors.Is(err, services.ErrCPFAlreadyRegistered):
		return "This CPF is already registered."
	case errors.Is(err, services.ErrUnderage):
		return "You must be of legal age to open an account."
	case errors.Is(err, services.ErrStoreUnavailable):
		return "The service is temporarily unavailable. Please try again."
	}
	return "Operation failed: " + err.Error()
}
