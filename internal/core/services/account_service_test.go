package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/afrimoni/remit_backend/internal/apperrors"
	"github.com/afrimoni/remit_backend/internal/core/domain"
	portssvc "github.com/afrimoni/remit_backend/internal/core/ports/services"
	"github.com/afrimoni/remit_backend/internal/core/services"
	"github.com/afrimoni/remit_backend/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockCurrencyRepository is a mock type for the CurrencyRepository interface
type MockCurrencyRepository struct {
	mock.Mock
}

func (m *MockCurrencyRepository) SaveCurrency(ctx context.Context, currency domain.Currency) error {
	args := m.Called(ctx, currency)
	return args.Error(0)
}

func (m *MockCurrencyRepository) FindCurrencyByCode(ctx context.Context, code string) (*domain.Currency, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}

func (m *MockCurrencyRepository) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Currency), args.Error(1)
}

// --- Test Suite Setup ---

type AccountServiceTestSuite struct {
	suite.Suite
	mockAccounts   *MockAccountRepository
	mockCurrencies *MockCurrencyRepository
	service        portssvc.AccountSvcFacade
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockAccounts = new(MockAccountRepository)
	suite.mockCurrencies = new(MockCurrencyRepository)
	suite.service = services.NewAccountService(suite.mockAccounts, suite.mockCurrencies)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_Success() {
	ctx := context.Background()
	userID := uuid.NewString()
	req := dto.CreateAccountRequest{
		Phone:        "+237670000001",
		Country:      "Cameroon",
		CurrencyCode: "XAF",
	}

	suite.mockCurrencies.On("FindCurrencyByCode", ctx, "XAF").Return(&domain.Currency{CurrencyCode: "XAF"}, nil).Once()
	suite.mockAccounts.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()

	account, err := suite.service.CreateAccount(ctx, req, userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(account)
	suite.NotEmpty(account.AccountID)
	suite.Equal(userID, account.UserID)
	suite.Equal(domain.RoleUser, account.Role)
	suite.True(account.Balance.IsZero())
	suite.True(account.CommissionBalance.IsZero())
	suite.True(account.IsActive)
	suite.Equal(userID, account.CreatedBy)
	suite.WithinDuration(time.Now(), account.CreatedAt, time.Second)

	suite.mockAccounts.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_UnsupportedCurrency() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{
		Phone:        "+237670000001",
		Country:      "Cameroon",
		CurrencyCode: "ZZZ",
	}

	suite.mockCurrencies.On("FindCurrencyByCode", ctx, "ZZZ").Return(nil, apperrors.ErrNotFound).Once()

	account, err := suite.service.CreateAccount(ctx, req, uuid.NewString())

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(account)
	suite.mockAccounts.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestGetAccountByID_ObscuresOtherUsersAccounts() {
	ctx := context.Background()
	account := &domain.Account{
		AccountID: uuid.NewString(),
		UserID:    uuid.NewString(),
	}

	suite.mockAccounts.On("FindAccountByID", ctx, account.AccountID).Return(account, nil).Once()

	got, err := suite.service.GetAccountByID(ctx, account.AccountID, uuid.NewString())

	suite.Require().ErrorIs(err, apperrors.ErrNotFound)
	suite.Nil(got)
}

func (suite *AccountServiceTestSuite) TestDeactivateAccount_RequiresZeroBalance() {
	ctx := context.Background()
	userID := uuid.NewString()
	account := &domain.Account{
		AccountID: uuid.NewString(),
		UserID:    userID,
		Balance:   decimal.NewFromInt(1500),
	}

	suite.mockAccounts.On("FindAccountByID", ctx, account.AccountID).Return(account, nil).Once()

	err := suite.service.DeactivateAccount(ctx, account.AccountID, userID)

	suite.Require().ErrorIs(err, apperrors.ErrConflict)
	suite.mockAccounts.AssertNotCalled(suite.T(), "DeactivateAccount", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestDeactivateAccount_Success() {
	ctx := context.Background()
	userID := uuid.NewString()
	account := &domain.Account{
		AccountID: uuid.NewString(),
		UserID:    userID,
		Balance:   decimal.Zero,
	}

	suite.mockAccounts.On("FindAccountByID", ctx, account.AccountID).Return(account, nil).Once()
	suite.mockAccounts.On("DeactivateAccount", ctx, account.AccountID, userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	err := suite.service.DeactivateAccount(ctx, account.AccountID, userID)

	suite.Require().NoError(err)
	suite.mockAccounts.AssertExpectations(suite.T())
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}
