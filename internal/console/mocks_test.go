package console

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/vilabank/console/internal/models"
	"github.com/vilabank/console/internal/services"
)

type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) Deposit(ctx context.Context, accountID int64, amount decimal.Decimal) error {
	args := m.Called(ctx, accountID, amount)
	return args.Error(0)
}

func (m *MockLedger) Withdraw(ctx context.Context, accountID int64, amount decimal.Decimal) error {
	args := m.Called(ctx, accountID, amount)
	return args.Error(0)
}

func (m *MockLedger) CheckBalance(ctx context.Context, accountID int64) (decimal.Decimal, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockLedger) Transfer(ctx context.Context, sourceID, targetID int64, amount decimal.Decimal) error {
	args := m.Called(ctx, sourceID, targetID, amount)
	return args.Error(0)
}

func (m *MockLedger) ListTransactions(ctx context.Context, accountID int64) ([]models.Transaction, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Transaction), args.Error(1)
}

type MockUsers struct {
	mock.Mock
}

func (m *MockUsers) Register(ctx context.Context, req services.RegisterRequest) (*models.User, *models.Account, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*models.User), args.Get(1).(*models.Account), args.Error(2)
}

func (m *MockUsers) Login(ctx context.Context, cpf, password string) (*models.User, error) {
	args := m.Called(ctx, cpf, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUsers) CPFRegistered(ctx context.Context, cpf string) (bool, error) {
	args := m.Called(ctx, cpf)
	return args.Bool(0), args.Error(1)
}

type MockAccounts struct {
	mock.Mock
}

func (m *MockAccounts) GetByUserID(ctx context.Context, userID int64) (*models.Account, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}
