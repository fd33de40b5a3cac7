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
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockAccountRepository is a mock type for the AccountRepository interface
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByPhone(ctx context.Context, phone string) (*domain.Account, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccountsByUserID(ctx context.Context, userID string) ([]domain.Account, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) IncrementBalance(ctx context.Context, accountID string, delta decimal.Decimal, updaterUserID string, now time.Time) error {
	args := m.Called(ctx, accountID, delta, updaterUserID, now)
	return args.Error(0)
}

func (m *MockAccountRepository) IncrementAgentCommission(ctx context.Context, accountID string, delta decimal.Decimal, updaterUserID string, now time.Time) error {
	args := m.Called(ctx, accountID, delta, updaterUserID, now)
	return args.Error(0)
}

func (m *MockAccountRepository) DeactivateAccount(ctx context.Context, accountID string, updaterUserID string, now time.Time) error {
	args := m.Called(ctx, accountID, updaterUserID, now)
	return args.Error(0)
}

// MockTransferRepository is a mock type for the TransferRepository interface
type MockTransferRepository struct {
	mock.Mock
}

func (m *MockTransferRepository) SaveTransfer(ctx context.Context, transfer domain.Transfer) error {
	args := m.Called(ctx, transfer)
	return args.Error(0)
}

func (m *MockTransferRepository) FindTransferByID(ctx context.Context, transferID string) (*domain.Transfer, error) {
	args := m.Called(ctx, transferID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transfer), args.Error(1)
}

func (m *MockTransferRepository) ListTransfersByAccountID(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.Transfer, *string, error) {
	args := m.Called(ctx, accountID, limit, nextToken)
	var transfers []domain.Transfer
	if args.Get(0) != nil {
		transfers = args.Get(0).([]domain.Transfer)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return transfers, token, args.Error(2)
}

func (m *MockTransferRepository) SavePendingTransfer(ctx context.Context, pending domain.PendingTransfer) error {
	args := m.Called(ctx, pending)
	return args.Error(0)
}

func (m *MockTransferRepository) FindPendingTransferByClaimCode(ctx context.Context, claimCode string) (*domain.PendingTransfer, error) {
	args := m.Called(ctx, claimCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PendingTransfer), args.Error(1)
}

func (m *MockTransferRepository) MarkPendingTransferClaimed(ctx context.Context, pendingTransferID string, claimantAccountID string, now time.Time) error {
	args := m.Called(ctx, pendingTransferID, claimantAccountID, now)
	return args.Error(0)
}

func (m *MockTransferRepository) RevertPendingTransferClaim(ctx context.Context, pendingTransferID string, now time.Time) error {
	args := m.Called(ctx, pendingTransferID, now)
	return args.Error(0)
}

func (m *MockTransferRepository) ListExpiredPendingTransfers(ctx context.Context, asOf time.Time, limit int) ([]domain.PendingTransfer, error) {
	args := m.Called(ctx, asOf, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PendingTransfer), args.Error(1)
}

func (m *MockTransferRepository) MarkPendingTransferExpired(ctx context.Context, pendingTransferID string, now time.Time) error {
	args := m.Called(ctx, pendingTransferID, now)
	return args.Error(0)
}

// --- Test Suite Setup ---

type TransferServiceTestSuite struct {
	suite.Suite
	mockAccounts  *MockAccountRepository
	mockTransfers *MockTransferRepository
	service       portssvc.TransferSvcFacade

	senderUserID string
	sender       *domain.Account
	recipient    *domain.Account
}

func (suite *TransferServiceTestSuite) SetupTest() {
	suite.mockAccounts = new(MockAccountRepository)
	suite.mockTransfers = new(MockTransferRepository)
	suite.service = services.NewTransferService(suite.mockAccounts, suite.mockTransfers, 30*24*time.Hour)

	suite.senderUserID = uuid.NewString()
	suite.sender = &domain.Account{
		AccountID:    uuid.NewString(),
		UserID:       suite.senderUserID,
		Phone:        "+237670000001",
		Country:      "Cameroon",
		CurrencyCode: "XAF",
		Role:         domain.RoleUser,
		Balance:      decimal.NewFromInt(20000),
		IsActive:     true,
	}
	suite.recipient = &domain.Account{
		AccountID:    uuid.NewString(),
		UserID:       uuid.NewString(),
		Phone:        "+221770000002",
		Country:      "Senegal",
		CurrencyCode: "XAF",
		Role:         domain.RoleUser,
		Balance:      decimal.NewFromInt(500),
		IsActive:     true,
	}
}

func (suite *TransferServiceTestSuite) transferRequest(amount int64) dto.CreateTransferRequest {
	return dto.CreateTransferRequest{
		SenderAccountID:  suite.sender.AccountID,
		RecipientPhone:   suite.recipient.Phone,
		RecipientCountry: suite.recipient.Country,
		Amount:           decimal.NewFromInt(amount),
		CurrencyCode:     "XAF",
	}
}

func decimalEq(expected int64) interface{} {
	return mock.MatchedBy(func(d decimal.Decimal) bool {
		return d.Equal(decimal.NewFromInt(expected))
	})
}

// --- ExecuteTransfer ---

func (suite *TransferServiceTestSuite) TestExecuteTransfer_DirectSuccess() {
	ctx := context.Background()
	req := suite.transferRequest(5000)
	// Cameroon -> Senegal crosses the Central/West Africa boundary: 6% fee.
	fee := int64(300)
	total := int64(5300)

	suite.mockAccounts.On("FindAccountByID", ctx, suite.sender.AccountID).Return(suite.sender, nil).Once()
	suite.mockAccounts.On("IncrementBalance", ctx, suite.sender.AccountID, decimalEq(-total), suite.senderUserID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockAccounts.On("FindAccountByPhone", ctx, suite.recipient.Phone).Return(suite.recipient, nil).Once()
	suite.mockAccounts.On("IncrementBalance", ctx, suite.recipient.AccountID, decimalEq(5000), suite.senderUserID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockTransfers.On("SaveTransfer", ctx, mock.MatchedBy(func(t domain.Transfer) bool {
		return t.Fee.Equal(decimal.NewFromInt(fee)) && t.Amount.Equal(decimal.NewFromInt(5000)) && t.Status == domain.TransferCompleted
	})).Return(nil).Once()

	result, err := suite.service.ExecuteTransfer(ctx, req, suite.senderUserID)

	suite.Require().NoError(err)
	suite.Require().NotNil(result)
	suite.True(result.Success)
	suite.Equal("completed", result.Status)
	suite.Nil(result.ClaimCode)

	suite.mockAccounts.AssertExpectations(suite.T())
	suite.mockTransfers.AssertExpectations(suite.T())
}

func (suite *TransferServiceTestSuite) TestExecuteTransfer_InsufficientFunds_NoMutation() {
	ctx := context.Background()
	suite.sender.Balance = decimal.NewFromInt(5000) // needs 5300
	req := suite.transferRequest(5000)

	suite.mockAccounts.On("FindAccountByID", ctx, suite.sender.AccountID).Return(suite.sender, nil).Once()

	result, err := suite.service.ExecuteTransfer(ctx, req, suite.senderUserID)

	suite.Require().ErrorIs(err, apperrors.ErrInsufficientFunds)
	suite.Nil(result)

	// No debit, no credit, nothing persisted.
	suite.mockAccounts.AssertNotCalled(suite.T(), "IncrementBalance", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockTransfers.AssertNotCalled(suite.T(), "SaveTransfer", mock.Anything, mock.Anything)
}

func (suite *TransferServiceTestSuite) TestExecuteTransfer_NotOwner() {
	ctx := context.Background()
	req := suite.transferRequest(5000)

	suite.mockAccounts.On("FindAccountByID", ctx, suite.sender.AccountID).Return(suite.sender, nil).Once()

	result, err := suite.service.ExecuteTransfer(ctx, req, uuid.NewString())

	suite.Require().ErrorIs(err, apperrors.ErrForbidden)
	suite.Nil(result)
}

func (suite *TransferServiceTestSuite) TestExecuteTransfer_RecipientMissing_CreatesPending() {
	ctx := context.Background()
	req := suite.transferRequest(5000)
	total := int64(5300)

	suite.mockAccounts.On("FindAccountByID", ctx, suite.sender.AccountID).Return(suite.sender, nil).Once()
	suite.mockAccounts.On("IncrementBalance", ctx, suite.sender.AccountID, decimalEq(-total), suite.senderUserID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockAccounts.On("FindAccountByPhone", ctx, suite.recipient.Phone).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockTransfers.On("SavePendingTransfer", ctx, mock.MatchedBy(func(p domain.PendingTransfer) bool {
		return p.Status == domain.PendingStatusPending &&
			p.Amount.Equal(decimal.NewFromInt(5000)) &&
			p.Fee.Equal(decimal.NewFromInt(300)) &&
			len(p.ClaimCode) == 6
	})).Return(nil).Once()

	result, err := suite.service.ExecuteTransfer(ctx, req, suite.senderUserID)

	suite.Require().NoError(err)
	suite.Require().NotNil(result)
	suite.Equal("pending", result.Status)
	suite.Require().NotNil(result.ClaimCode)
	suite.Len(*result.ClaimCode, 6)

	// The debited funds stay held; no recipient credit happened.
	suite.mockAccounts.AssertNumberOfCalls(suite.T(), "IncrementBalance", 1)
	suite.mockAccounts.AssertExpectations(suite.T())
	suite.mockTransfers.AssertExpectations(suite.T())
}

func (suite *TransferServiceTestSuite) TestExecuteTransfer_CreditFails_CompensatesSender() {
	ctx := context.Background()
	req := suite.transferRequest(5000)
	total := int64(5300)

	suite.mockAccounts.On("FindAccountByID", ctx, suite.sender.AccountID).Return(suite.sender, nil).Once()
	suite.mockAccounts.On("IncrementBalance", ctx, suite.sender.AccountID, decimalEq(-total), suite.senderUserID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockAccounts.On("FindAccountByPhone", ctx, suite.recipient.Phone).Return(suite.recipient, nil).Once()
	suite.mockAccounts.On("IncrementBalance", ctx, suite.recipient.AccountID, decimalEq(5000), suite.senderUserID, mock.AnythingOfType("time.Time")).Return(assert.AnError).Once()
	// Compensating credit restores the full debited amount.
	suite.mockAccounts.On("IncrementBalance", ctx, suite.sender.AccountID, decimalEq(total), suite.senderUserID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	result, err := suite.service.ExecuteTransfer(ctx, req, suite.senderUserID)

	suite.Require().ErrorIs(err, apperrors.ErrCreditFailed)
	suite.Nil(result)
	suite.mockAccounts.AssertExpectations(suite.T())
	suite.mockTransfers.AssertNotCalled(suite.T(), "SaveTransfer", mock.Anything, mock.Anything)
}

func (suite *TransferServiceTestSuite) TestExecuteTransfer_CompensationFails_CriticalRollback() {
	ctx := context.Background()
	req := suite.transferRequest(5000)
	total := int64(5300)

	suite.mockAccounts.On("FindAccountByID", ctx, suite.sender.AccountID).Return(suite.sender, nil).Once()
	suite.mockAccounts.On("IncrementBalance", ctx, suite.sender.AccountID, decimalEq(-total), suite.senderUserID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockAccounts.On("FindAccountByPhone", ctx, suite.recipient.Phone).Return(suite.recipient, nil).Once()
	suite.mockAccounts.On("IncrementBalance", ctx, suite.recipient.AccountID, decimalEq(5000), suite.senderUserID, mock.AnythingOfType("time.Time")).Return(assert.AnError).Once()
	suite.mockAccounts.On("IncrementBalance", ctx, suite.sender.AccountID, decimalEq(total), suite.senderUserID, mock.AnythingOfType("time.Time")).Return(assert.AnError).Once()

	result, err := suite.service.ExecuteTransfer(ctx, req, suite.senderUserID)

	suite.Require().ErrorIs(err, apperrors.ErrCriticalRollback)
	suite.Nil(result)
}

func (suite *TransferServiceTestSuite) TestExecuteTransfer_RecordPersistenceFailureTolerated() {
	ctx := context.Background()
	req := suite.transferRequest(5000)
	total := int64(5300)

	suite.mockAccounts.On("FindAccountByID", ctx, suite.sender.AccountID).Return(suite.sender, nil).Once()
	suite.mockAccounts.On("IncrementBalance", ctx, suite.sender.AccountID, decimalEq(-total), suite.senderUserID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockAccounts.On("FindAccountByPhone", ctx, suite.recipient.Phone).Return(suite.recipient, nil).Once()
	suite.mockAccounts.On("IncrementBalance", ctx, suite.recipient.AccountID, decimalEq(5000), suite.senderUserID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockTransfers.On("SaveTransfer", ctx, mock.AnythingOfType("domain.Transfer")).Return(assert.AnError).Once()

	result, err := suite.service.ExecuteTransfer(ctx, req, suite.senderUserID)

	// Funds settled correctly; the bookkeeping miss does not fail the call.
	suite.Require().NoError(err)
	suite.Require().NotNil(result)
	suite.True(result.Success)
}

func (suite *TransferServiceTestSuite) TestExecuteTransfer_AgentEarnsCommission() {
	ctx := context.Background()
	suite.sender.Role = domain.RoleAgent
	req := suite.transferRequest(5000)
	total := int64(5300)

	suite.mockAccounts.On("FindAccountByID", ctx, suite.sender.AccountID).Return(suite.sender, nil).Once()
	suite.mockAccounts.On("IncrementBalance", ctx, suite.sender.AccountID, decimalEq(-total), suite.senderUserID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockAccounts.On("FindAccountByPhone", ctx, suite.recipient.Phone).Return(suite.recipient, nil).Once()
	suite.mockAccounts.On("IncrementBalance", ctx, suite.recipient.AccountID, decimalEq(5000), suite.senderUserID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	// Agent keeps 10% of the 300 fee.
	suite.mockAccounts.On("IncrementAgentCommission", ctx, suite.sender.AccountID, decimalEq(30), suite.senderUserID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockTransfers.On("SaveTransfer", ctx, mock.MatchedBy(func(t domain.Transfer) bool {
		return t.AgentCommission.Equal(decimal.NewFromInt(30))
	})).Return(nil).Once()

	result, err := suite.service.ExecuteTransfer(ctx, req, suite.senderUserID)

	suite.Require().NoError(err)
	suite.True(result.Success)
	suite.mockAccounts.AssertExpectations(suite.T())
}

func (suite *TransferServiceTestSuite) TestExecuteTransfer_CurrencyMismatch() {
	ctx := context.Background()
	req := suite.transferRequest(5000)
	req.CurrencyCode = "EUR"

	suite.mockAccounts.On("FindAccountByID", ctx, suite.sender.AccountID).Return(suite.sender, nil).Once()

	result, err := suite.service.ExecuteTransfer(ctx, req, suite.senderUserID)

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(result)
}

// --- ClaimTransfer ---

func (suite *TransferServiceTestSuite) pendingTransfer() *domain.PendingTransfer {
	return &domain.PendingTransfer{
		PendingTransferID: uuid.NewString(),
		SenderAccountID:   suite.sender.AccountID,
		RecipientPhone:    suite.recipient.Phone,
		Amount:            decimal.NewFromInt(5000),
		Fee:               decimal.NewFromInt(300),
		CurrencyCode:      "XAF",
		ClaimCode:         "aB3dE9",
		Status:            domain.PendingStatusPending,
		ExpiresAt:         time.Now().Add(24 * time.Hour),
	}
}

func (suite *TransferServiceTestSuite) TestClaimTransfer_Success() {
	ctx := context.Background()
	pending := suite.pendingTransfer()
	claimantUserID := suite.recipient.UserID

	suite.mockTransfers.On("FindPendingTransferByClaimCode", ctx, pending.ClaimCode).Return(pending, nil).Once()
	suite.mockAccounts.On("FindAccountByID", ctx, suite.recipient.AccountID).Return(suite.recipient, nil).Once()
	suite.mockTransfers.On("MarkPendingTransferClaimed", ctx, pending.PendingTransferID, suite.recipient.AccountID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockAccounts.On("IncrementBalance", ctx, suite.recipient.AccountID, decimalEq(5000), claimantUserID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockTransfers.On("SaveTransfer", ctx, mock.AnythingOfType("domain.Transfer")).Return(nil).Once()

	req := dto.ClaimTransferRequest{ClaimCode: pending.ClaimCode, AccountID: suite.recipient.AccountID}
	result, err := suite.service.ClaimTransfer(ctx, req, claimantUserID)

	suite.Require().NoError(err)
	suite.True(result.Success)
	suite.Equal("completed", result.Status)
	suite.mockTransfers.AssertExpectations(suite.T())
}

func (suite *TransferServiceTestSuite) TestClaimTransfer_UnknownCode() {
	ctx := context.Background()

	suite.mockTransfers.On("FindPendingTransferByClaimCode", ctx, "zzzzzz").Return(nil, apperrors.ErrNotFound).Once()

	req := dto.ClaimTransferRequest{ClaimCode: "zzzzzz", AccountID: suite.recipient.AccountID}
	result, err := suite.service.ClaimTransfer(ctx, req, suite.recipient.UserID)

	suite.Require().ErrorIs(err, apperrors.ErrClaimCodeInvalid)
	suite.Nil(result)
}

func (suite *TransferServiceTestSuite) TestClaimTransfer_Expired() {
	ctx := context.Background()
	pending := suite.pendingTransfer()
	pending.ExpiresAt = time.Now().Add(-time.Hour)

	suite.mockTransfers.On("FindPendingTransferByClaimCode", ctx, pending.ClaimCode).Return(pending, nil).Once()

	req := dto.ClaimTransferRequest{ClaimCode: pending.ClaimCode, AccountID: suite.recipient.AccountID}
	result, err := suite.service.ClaimTransfer(ctx, req, suite.recipient.UserID)

	suite.Require().ErrorIs(err, apperrors.ErrClaimCodeInvalid)
	suite.Nil(result)
	suite.mockAccounts.AssertNotCalled(suite.T(), "IncrementBalance", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TransferServiceTestSuite) TestClaimTransfer_ConcurrentClaimLoses() {
	ctx := context.Background()
	pending := suite.pendingTransfer()

	suite.mockTransfers.On("FindPendingTransferByClaimCode", ctx, pending.ClaimCode).Return(pending, nil).Once()
	suite.mockAccounts.On("FindAccountByID", ctx, suite.recipient.AccountID).Return(suite.recipient, nil).Once()
	suite.mockTransfers.On("MarkPendingTransferClaimed", ctx, pending.PendingTransferID, suite.recipient.AccountID, mock.AnythingOfType("time.Time")).Return(apperrors.ErrConflict).Once()

	req := dto.ClaimTransferRequest{ClaimCode: pending.ClaimCode, AccountID: suite.recipient.AccountID}
	result, err := suite.service.ClaimTransfer(ctx, req, suite.recipient.UserID)

	suite.Require().ErrorIs(err, apperrors.ErrClaimCodeInvalid)
	suite.Nil(result)
}

func (suite *TransferServiceTestSuite) TestClaimTransfer_CreditFails_RevertsClaim() {
	ctx := context.Background()
	pending := suite.pendingTransfer()

	suite.mockTransfers.On("FindPendingTransferByClaimCode", ctx, pending.ClaimCode).Return(pending, nil).Once()
	suite.mockAccounts.On("FindAccountByID", ctx, suite.recipient.AccountID).Return(suite.recipient, nil).Once()
	suite.mockTransfers.On("MarkPendingTransferClaimed", ctx, pending.PendingTransferID, suite.recipient.AccountID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockAccounts.On("IncrementBalance", ctx, suite.recipient.AccountID, decimalEq(5000), suite.recipient.UserID, mock.AnythingOfType("time.Time")).Return(assert.AnError).Once()
	suite.mockTransfers.On("RevertPendingTransferClaim", ctx, pending.PendingTransferID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	req := dto.ClaimTransferRequest{ClaimCode: pending.ClaimCode, AccountID: suite.recipient.AccountID}
	result, err := suite.service.ClaimTransfer(ctx, req, suite.recipient.UserID)

	suite.Require().ErrorIs(err, apperrors.ErrCreditFailed)
	suite.Nil(result)
	suite.mockTransfers.AssertExpectations(suite.T())
}

// --- ExpirePendingTransfers ---

func (suite *TransferServiceTestSuite) TestExpirePendingTransfers_RefundsSender() {
	ctx := context.Background()
	now := time.Now().UTC()
	pending := *suite.pendingTransfer()
	pending.CreatedBy = suite.senderUserID

	suite.mockTransfers.On("ListExpiredPendingTransfers", ctx, now, 500).Return([]domain.PendingTransfer{pending}, nil).Once()
	suite.mockTransfers.On("MarkPendingTransferExpired", ctx, pending.PendingTransferID, now).Return(nil).Once()
	// Refund is amount + fee.
	suite.mockAccounts.On("IncrementBalance", ctx, pending.SenderAccountID, decimalEq(5300), suite.senderUserID, now).Return(nil).Once()

	count, err := suite.service.ExpirePendingTransfers(ctx, now)

	suite.Require().NoError(err)
	suite.Equal(1, count)
	suite.mockAccounts.AssertExpectations(suite.T())
	suite.mockTransfers.AssertExpectations(suite.T())
}

func (suite *TransferServiceTestSuite) TestExpirePendingTransfers_RefundFailureDoesNotStopScan() {
	ctx := context.Background()
	now := time.Now().UTC()
	first := *suite.pendingTransfer()
	second := *suite.pendingTransfer()

	suite.mockTransfers.On("ListExpiredPendingTransfers", ctx, now, 500).Return([]domain.PendingTransfer{first, second}, nil).Once()
	suite.mockTransfers.On("MarkPendingTransferExpired", ctx, first.PendingTransferID, now).Return(nil).Once()
	suite.mockTransfers.On("MarkPendingTransferExpired", ctx, second.PendingTransferID, now).Return(nil).Once()
	suite.mockAccounts.On("IncrementBalance", ctx, first.SenderAccountID, decimalEq(5300), first.CreatedBy, now).Return(assert.AnError).Once()
	suite.mockAccounts.On("IncrementBalance", ctx, second.SenderAccountID, decimalEq(5300), second.CreatedBy, now).Return(nil).Once()

	count, err := suite.service.ExpirePendingTransfers(ctx, now)

	suite.Require().NoError(err)
	suite.Equal(1, count)
}

// --- ListTransfers / GetTransferByID ---

func (suite *TransferServiceTestSuite) TestListTransfers_ForbiddenForNonOwner() {
	ctx := context.Background()

	suite.mockAccounts.On("FindAccountByID", ctx, suite.sender.AccountID).Return(suite.sender, nil).Once()

	params := dto.ListTransfersParams{AccountID: suite.sender.AccountID, Limit: 10}
	resp, err := suite.service.ListTransfers(ctx, params, uuid.NewString())

	suite.Require().ErrorIs(err, apperrors.ErrForbidden)
	suite.Nil(resp)
}

func (suite *TransferServiceTestSuite) TestGetTransferByID_NonParticipantGetsNotFound() {
	ctx := context.Background()
	transfer := &domain.Transfer{
		TransferID:         uuid.NewString(),
		SenderAccountID:    suite.sender.AccountID,
		RecipientAccountID: suite.recipient.AccountID,
	}

	suite.mockTransfers.On("FindTransferByID", ctx, transfer.TransferID).Return(transfer, nil).Once()
	suite.mockAccounts.On("FindAccountByID", ctx, suite.sender.AccountID).Return(suite.sender, nil).Once()
	suite.mockAccounts.On("FindAccountByID", ctx, suite.recipient.AccountID).Return(suite.recipient, nil).Once()

	got, err := suite.service.GetTransferByID(ctx, transfer.TransferID, uuid.NewString())

	suite.Require().ErrorIs(err, apperrors.ErrNotFound)
	suite.Nil(got)
}

func TestTransferServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TransferServiceTestSuite))
}
