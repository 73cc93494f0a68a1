package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vilabank/console/internal/config"
	"github.com/vilabank/console/internal/models"
	"github.com/vilabank/console/internal/services"
)

// Ledger is the slice of the ledger service the menus call.
type Ledger interface {
	Deposit(ctx context.Context, accountID int64, amount decimal.Decimal) error
	Withdraw(ctx context.Context, accountID int64, amount decimal.Decimal) error
	CheckBalance(ctx context.Context, accountID int64) (decimal.Decimal, error)
	Transfer(ctx context.Context, sourceID, targetID int64, amount decimal.Decimal) error
	ListTransactions(ctx context.Context, accountID int64) ([]models.Transaction, error)
}

// Users is the registration/authentication surface the menus call.
type Users interface {
	Register(ctx context.Context, req services.RegisterRequest) (*models.User, *models.Account, error)
	Login(ctx context.Context, cpf, password string) (*models.User, error)
	CPFRegistered(ctx context.Context, cpf string) (bool, error)
}

// Accounts resolves the logged-in user's account.
type Accounts interface {
	GetByUserID(ctx context.Context, userID int64) (*models.Account, error)
}

// Menu drives the interactive text session. It only renders prompts and
// results; every rule lives behind the Ledger and Users interfaces.
type Menu struct {
	in       *bufio.Scanner
	out      io.Writer
	ledger   Ledger
	users    Users
	accounts Accounts
	cfg      *config.ConsoleConfig
}

func NewMenu(in io.Reader, out io.Writer, ledger Ledger, users Users, accounts Accounts, cfg *config.ConsoleConfig) *Menu {
	return &Menu{
		in:       bufio.NewScanner(in),
		out:      out,
		ledger:   ledger,
		users:    users,
		accounts: accounts,
		cfg:      cfg,
	}
}

// Run blocks on the main menu until the user exits or input ends.
func (m *Menu) Run(ctx context.Context) {
	for {
		fmt.Fprintln(m.out)
		fmt.Fprintln(m.out, "========== VILA BANK ==========")
		fmt.Fprintln(m.out, "1 - Login")
		fmt.Fprintln(m.out, "2 - Open account")
		fmt.Fprintln(m.out, "0 - Exit")

		choice, ok := m.readLine("Choose an option: ")
		if !ok {
			return
		}

		switch choice {
		case "1":
			m.login(ctx)
		case "2":
			m.openAccount(ctx)
		case "0":
			fmt.Fprintln(m.out, "Goodbye!")
			return
		default:
			fmt.Fprintln(m.out, "Invalid option.")
		}
	}
}

func (m *Menu) openAccount(ctx context.Context) {
	cpf, ok := m.promptCPF("Enter CPF: ")
	if !ok {
		return
	}

	registered, err := m.users.CPFRegistered(ctx, cpf)
	if err != nil {
		fmt.Fprintln(m.out, errorMessage(err))
		return
	}
	if registered {
		fmt.Fprintln(m.out, "This CPF is already registered.")
		return
	}

	name, ok := m.readLine("Enter name: ")
	if !ok {
		return
	}

	email, ok := m.readLine("Enter email: ")
	if !ok {
		return
	}

	phone, ok := m.readLine("Enter phone number (DDD + number): ")
	if !ok {
		return
	}

	var birthDate time.Time
	for {
		input, ok := m.readLine(fmt.Sprintf("Enter birth date (%s): ", strings.ToLower(m.cfg.DateLayout)))
		if !ok {
			return
		}
		birthDate, err = time.Parse(m.cfg.DateLayout, input)
		if err != nil {
			fmt.Fprintln(m.out, "Invalid date. Use the format dd/mm/yyyy.")
			continue
		}
		break
	}

	var accountType string
	for {
		input, ok := m.readLine("Enter account type (CHECKING, SAVINGS, SALARY): ")
		if !ok {
			return
		}
		accountType = strings.ToUpper(input)
		if !models.ValidAccountType(accountType) {
			fmt.Fprintln(m.out, "Invalid account type.")
			continue
		}
		break
	}

	password, ok := m.readLine("Enter password: ")
	if !ok {
		return
	}

	_, account, err := m.users.Register(ctx, services.RegisterRequest{
		CPF:         cpf,
		Name:        name,
		Email:       email,
		Phone:       phone,
		BirthDate:   birthDate,
		AccountType: accountType,
		Password:    password,
	})
	if err != nil {
		if services.IsValidationError(err) {
			for _, msg := range services.ValidationMessages(err) {
				fmt.Fprintln(m.out, msg)
			}
			return
		}
		fmt.Fprintln(m.out, errorMessage(err))
		return
	}

	fmt.Fprintf(m.out, "Account opened. Your account ID is %d.\n", account.ID)
}

func (m *Menu) login(ctx context.Context) {
	for {
		cpf, ok := m.promptCPF("Enter CPF: ")
		if !ok {
			return
		}

		password, ok := m.readLine("Enter password: ")
		if !ok {
			return
		}

		user, err := m.users.Login(ctx, cpf, password)
		if err != nil {
			fmt.Fprintln(m.out, errorMessage(err))
			if errors.Is(err, services.ErrTooManyLoginAttempts) || errors.Is(err, services.ErrStoreUnavailable) {
				return
			}

			retry, ok := m.readLine("Would you like to try again? (yes/no): ")
			if !ok || strings.EqualFold(retry, "no") {
				return
			}
			continue
		}

		fmt.Fprintf(m.out, "Login successful! Welcome, %s!\n", user.Name)

		account, err := m.accounts.GetByUserID(ctx, user.ID)
		if err != nil {
			fmt.Fprintln(m.out, "No account found for this user.")
			return
		}

		m.bankMenu(ctx, account)
		return
	}
}

func (m *Menu) bankMenu(ctx context.Context, account *models.Account) {
	for {
		fmt.Fprintln(m.out)
		fmt.Fprintf(m.out, "===== Account %d (%s) =====\n", account.ID, account.AccountType)
		fmt.Fprintln(m.out, "1 - Deposit")
		fmt.Fprintln(m.out, "2 - Withdraw")
		fmt.Fprintln(m.out, "3 - Check balance")
		fmt.Fprintln(m.out, "4 - Transfer")
		fmt.Fprintln(m.out, "5 - Statement")
		fmt.Fprintln(m.out, "0 - Logout")

		choice, ok := m.readLine("Choose an option: ")
		if !ok {
			return
		}

		switch choice {
		case "1":
			if !m.deposit(ctx, account) {
				return
			}
		case "2":
			if !m.withdraw(ctx, account) {
				return
			}
		case "3":
			m.checkBalance(ctx, account)
		case "4":
			if !m.transfer(ctx, account) {
				return
			}
		case "5":
			m.statement(ctx, account)
		case "0":
			fmt.Fprintln(m.out, "Logged out.")
			return
		default:
			fmt.Fprintln(m.out, "Invalid option.")
		}
	}
}

func (m *Menu) deposit(ctx context.Context, account *models.Account) bool {
	amount, ok := m.promptAmount("Enter the amount to deposit: ")
	if !ok {
		return false
	}

	if err := m.ledger.Deposit(ctx, account.ID, amount); err != nil {
		fmt.Fprintln(m.out, errorMessage(err))
		return true
	}

	fmt.Fprintf(m.out, "Deposit of %s successfully made to account ID: %d\n", m.money(amount), account.ID)
	return true
}

func (m *Menu) withdraw(ctx context.Context, account *models.Account) bool {
	// Advisory only: the ledger re-checks the balance at commit time.
	if balance, err := m.ledger.CheckBalance(ctx, account.ID); err == nil {
		fmt.Fprintf(m.out, "Current balance: %s\n", m.money(balance))
	}

	for {
		amount, ok := m.promptAmount("Enter the amount to withdraw: ")
		if !ok {
			return false
		}

		err := m.ledger.Withdraw(ctx, account.ID, amount)
		if err == nil {
			fmt.Fprintf(m.out, "Withdrawal of %s successfully made from account ID: %d\n", m.money(amount), account.ID)
			return true
		}

		fmt.Fprintln(m.out, errorMessage(err))
		if errors.Is(err, services.ErrInsufficientFunds) || errors.Is(err, services.ErrInvalidAmount) {
			continue
		}
		return true
	}
}

func (m *Menu) checkBalance(ctx context.Context, account *models.Account) {
	balance, err := m.ledger.CheckBalance(ctx, account.ID)
	if err != nil {
		fmt.Fprintln(m.out, errorMessage(err))
		return
	}
	fmt.Fprintf(m.out, "Your current balance is: %s\n", m.money(balance))
}

func (m *Menu) transfer(ctx context.Context, account *models.Account) bool {
	targetID, ok := m.promptAccountID("Enter the target account ID: ")
	if !ok {
		return false
	}

	amount, ok := m.promptAmount("Enter the amount to transfer: ")
	if !ok {
		return false
	}

	if err := m.ledger.Transfer(ctx, account.ID, targetID, amount); err != nil {
		fmt.Fprintln(m.out, errorMessage(err))
		return true
	}

	log.Printf("[CONSOLE] Transfer of %s from account %d to account %d", amount.StringFixed(2), account.ID, targetID)
	fmt.Fprintf(m.out, "Transfer of %s successfully made to account ID: %d\n", m.money(amount), targetID)
	return true
}

func (m *Menu) statement(ctx context.Context, account *models.Account) {
	transactions, err := m.ledger.ListTransactions(ctx, account.ID)
	if err != nil {
		fmt.Fprintln(m.out, errorMessage(err))
		return
	}

	if len(transactions) == 0 {
		fmt.Fprintln(m.out, "No transactions found for this account.")
		return
	}

	fmt.Fprintln(m.out, "Transaction History (newest first):")
	for _, t := range transactions {
		fmt.Fprintf(m.out, "ID: %d | Type: %s | Amount: %s | Date: %s\n",
			t.ID, t.TransactionType, m.money(t.Amount), t.TransactionDate.Format("2006-01-02 15:04:05"))
	}
}

func (m *Menu) money(amount decimal.Decimal) string {
	return m.cfg.CurrencySymbol + amount.StringFixed(2)
}
