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

// MockBillRepository is a mock type for the BillRepository interface
type MockBillRepository struct {
	mock.Mock
}

func (m *MockBillRepository) SaveBill(ctx context.Context, bill domain.AutomaticBill) error {
	args := m.Called(ctx, bill)
	return args.Error(0)
}

func (m *MockBillRepository) FindBillByID(ctx context.Context, billID string) (*domain.AutomaticBill, error) {
	args := m.Called(ctx, billID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AutomaticBill), args.Error(1)
}

func (m *MockBillRepository) ListBillsByUserID(ctx context.Context, userID string) ([]domain.AutomaticBill, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AutomaticBill), args.Error(1)
}

func (m *MockBillRepository) FindBillsDueOn(ctx context.Context, day time.Time) ([]domain.AutomaticBill, error) {
	args := m.Called(ctx, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AutomaticBill), args.Error(1)
}

func (m *MockBillRepository) FindRetryableBills(ctx context.Context, before time.Time, maxAttempts int) ([]domain.AutomaticBill, error) {
	args := m.Called(ctx, before, maxAttempts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AutomaticBill), args.Error(1)
}

func (m *MockBillRepository) ExecutePayment(ctx context.Context, billID string, now time.Time) (domain.BillPaymentOutcome, error) {
	args := m.Called(ctx, billID, now)
	return args.Get(0).(domain.BillPaymentOutcome), args.Error(1)
}

func (m *MockBillRepository) MarkBillFailed(ctx context.Context, billID string, now time.Time) error {
	args := m.Called(ctx, billID, now)
	return args.Error(0)
}

// MockNotificationRepository is a mock type for the NotificationRepository interface
type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) SaveNotification(ctx context.Context, notification domain.Notification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

func (m *MockNotificationRepository) HasNotificationForDay(ctx context.Context, billID string, kind domain.NotificationKind, day time.Time) (bool, error) {
	args := m.Called(ctx, billID, kind, day)
	return args.Bool(0), args.Error(1)
}

func (m *MockNotificationRepository) ListNotificationsByUserID(ctx context.Context, userID string, limit int) ([]domain.Notification, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Notification), args.Error(1)
}

// MockTransferService is a mock type for the TransferSvcFacade interface
type MockTransferService struct {
	mock.Mock
}

func (m *MockTransferService) ExecuteTransfer(ctx context.Context, req dto.CreateTransferRequest, requestingUserID string) (*dto.TransferResult, error) {
	args := m.Called(ctx, req, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TransferResult), args.Error(1)
}

func (m *MockTransferService) ClaimTransfer(ctx context.Context, req dto.ClaimTransferRequest, requestingUserID string) (*dto.TransferResult, error) {
	args := m.Called(ctx, req, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TransferResult), args.Error(1)
}

func (m *MockTransferService) ExpirePendingTransfers(ctx context.Context, now time.Time) (int, error) {
	args := m.Called(ctx, now)
	return args.Int(0), args.Error(1)
}

func (m *MockTransferService) ListTransfers(ctx context.Context, params dto.ListTransfersParams, requestingUserID string) (*dto.ListTransfersResponse, error) {
	args := m.Called(ctx, params, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListTransfersResponse), args.Error(1)
}

func (m *MockTransferService) GetTransferByID(ctx context.Context, transferID string, requestingUserID string) (*domain.Transfer, error) {
	args := m.Called(ctx, transferID, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transfer), args.Error(1)
}

// --- Test Suite Setup ---

const testMaxAttempts = 30

type BillServiceTestSuite struct {
	suite.Suite
	mockBills         *MockBillRepository
	mockNotifications *MockNotificationRepository
	mockAccounts      *MockAccountRepository
	mockTransferSvc   *MockTransferService
	service           portssvc.BillSvcFacade

	userID  string
	account *domain.Account
}

func (suite *BillServiceTestSuite) SetupTest() {
	suite.mockBills = new(MockBillRepository)
	suite.mockNotifications = new(MockNotificationRepository)
	suite.mockAccounts = new(MockAccountRepository)
	suite.mockTransferSvc = new(MockTransferService)
	suite.service = services.NewBillService(suite.mockBills, suite.mockNotifications, suite.mockAccounts, suite.mockTransferSvc, testMaxAttempts)

	suite.userID = uuid.NewString()
	suite.account = &domain.Account{
		AccountID:    uuid.NewString(),
		UserID:       suite.userID,
		Country:      "Cameroon",
		CurrencyCode: "XAF",
		Balance:      decimal.NewFromInt(10000),
		IsActive:     true,
	}
}

func (suite *BillServiceTestSuite) bill(attempts int) domain.AutomaticBill {
	return domain.AutomaticBill{
		BillID:          uuid.NewString(),
		UserID:          suite.userID,
		AccountID:       suite.account.AccountID,
		Name:            "Electricity",
		Amount:          decimal.NewFromInt(2500),
		CurrencyCode:    "XAF",
		DueDate:         time.Now().UTC().Truncate(24 * time.Hour),
		Recurrence:      domain.RecurrenceMonthly,
		PaymentAttempts: attempts,
		Status:          domain.BillPending,
		Priority:        5,
	}
}

// --- CreateBill ---

func (suite *BillServiceTestSuite) TestCreateBill_Success() {
	ctx := context.Background()
	req := dto.CreateBillRequest{
		AccountID:    suite.account.AccountID,
		Name:         "Electricity",
		Amount:       decimal.NewFromInt(2500),
		CurrencyCode: "XAF",
		DueDate:      time.Now().AddDate(0, 0, 5),
		Recurrence:   "MONTHLY",
	}

	suite.mockAccounts.On("FindAccountByID", ctx, suite.account.AccountID).Return(suite.account, nil).Once()
	suite.mockBills.On("SaveBill", ctx, mock.MatchedBy(func(b domain.AutomaticBill) bool {
		return b.Status == domain.BillPending && b.Priority == 5 && b.PaymentAttempts == 0
	})).Return(nil).Once()

	resp, err := suite.service.CreateBill(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(resp)
	suite.Equal("PENDING", resp.Status)
	suite.mockBills.AssertExpectations(suite.T())
}

func (suite *BillServiceTestSuite) TestCreateBill_RejectsFractionalAmount() {
	ctx := context.Background()
	req := dto.CreateBillRequest{
		AccountID:    suite.account.AccountID,
		Name:         "Water",
		Amount:       decimal.RequireFromString("10.5"),
		CurrencyCode: "XAF",
		DueDate:      time.Now(),
		Recurrence:   "ONCE",
	}

	suite.mockAccounts.On("FindAccountByID", ctx, suite.account.AccountID).Return(suite.account, nil).Once()

	resp, err := suite.service.CreateBill(ctx, req, suite.userID)

	suite.Require().ErrorIs(err, apperrors.ErrInvalidAmount)
	suite.Nil(resp)
	suite.mockBills.AssertNotCalled(suite.T(), "SaveBill", mock.Anything, mock.Anything)
}

func (suite *BillServiceTestSuite) TestCreateBill_ForbiddenForNonOwner() {
	ctx := context.Background()
	req := dto.CreateBillRequest{
		AccountID:    suite.account.AccountID,
		Name:         "Rent",
		Amount:       decimal.NewFromInt(50000),
		CurrencyCode: "XAF",
		DueDate:      time.Now(),
		Recurrence:   "MONTHLY",
	}

	suite.mockAccounts.On("FindAccountByID", ctx, suite.account.AccountID).Return(suite.account, nil).Once()

	resp, err := suite.service.CreateBill(ctx, req, uuid.NewString())

	suite.Require().ErrorIs(err, apperrors.ErrForbidden)
	suite.Nil(resp)
}

// --- RunDailyBatch ---

func (suite *BillServiceTestSuite) TestRunDailyBatch_ReminderPassIsIdempotent() {
	ctx := context.Background()
	now := time.Now().UTC()
	today := now.Truncate(24 * time.Hour)
	tomorrow := today.AddDate(0, 0, 1)

	reminded := suite.bill(0)
	fresh := suite.bill(0)

	suite.mockBills.On("FindBillsDueOn", ctx, tomorrow).Return([]domain.AutomaticBill{reminded, fresh}, nil).Once()
	// One bill was already reminded today, the other was not.
	suite.mockNotifications.On("HasNotificationForDay", ctx, reminded.BillID, domain.NotificationBillReminder, today).Return(true, nil).Once()
	suite.mockNotifications.On("HasNotificationForDay", ctx, fresh.BillID, domain.NotificationBillReminder, today).Return(false, nil).Once()
	suite.mockNotifications.On("SaveNotification", ctx, mock.MatchedBy(func(n domain.Notification) bool {
		return n.Kind == domain.NotificationBillReminder && *n.BillID == fresh.BillID
	})).Return(nil).Once()

	// Nothing due today, nothing to retry.
	suite.mockBills.On("FindBillsDueOn", ctx, today).Return([]domain.AutomaticBill{}, nil).Once()
	suite.mockBills.On("FindRetryableBills", ctx, today, testMaxAttempts).Return([]domain.AutomaticBill{}, nil).Once()
	suite.mockTransferSvc.On("ExpirePendingTransfers", ctx, now).Return(0, nil).Once()

	summary, err := suite.service.RunDailyBatch(ctx, now)

	suite.Require().NoError(err)
	suite.Equal(1, summary.RemindersSent)
	suite.mockNotifications.AssertExpectations(suite.T())
}

func (suite *BillServiceTestSuite) TestRunDailyBatch_DuePassExecutesPayments() {
	ctx := context.Background()
	now := time.Now().UTC()
	today := now.Truncate(24 * time.Hour)
	tomorrow := today.AddDate(0, 0, 1)

	due := suite.bill(0)

	suite.mockBills.On("FindBillsDueOn", ctx, tomorrow).Return([]domain.AutomaticBill{}, nil).Once()
	suite.mockBills.On("FindBillsDueOn", ctx, today).Return([]domain.AutomaticBill{due}, nil).Once()
	suite.mockNotifications.On("HasNotificationForDay", ctx, due.BillID, domain.NotificationBillDue, today).Return(false, nil).Once()
	suite.mockNotifications.On("SaveNotification", ctx, mock.AnythingOfType("domain.Notification")).Return(nil).Once()
	suite.mockBills.On("ExecutePayment", ctx, due.BillID, now).Return(domain.BillPaymentSucceeded, nil).Once()
	suite.mockBills.On("FindRetryableBills", ctx, today, testMaxAttempts).Return([]domain.AutomaticBill{}, nil).Once()
	suite.mockTransferSvc.On("ExpirePendingTransfers", ctx, now).Return(0, nil).Once()

	summary, err := suite.service.RunDailyBatch(ctx, now)

	suite.Require().NoError(err)
	suite.Equal(1, summary.DueBillsProcessed)
	suite.Equal(1, summary.PaymentsSucceeded)
	suite.Equal(0, summary.PaymentsFailed)
	suite.mockBills.AssertExpectations(suite.T())
}

func (suite *BillServiceTestSuite) TestRunDailyBatch_RetryReachesCapAndFailsBill() {
	ctx := context.Background()
	now := time.Now().UTC()
	today := now.Truncate(24 * time.Hour)
	tomorrow := today.AddDate(0, 0, 1)

	// 29 failed attempts so far; the next insufficient-funds outcome is the
	// 30th and final one.
	retry := suite.bill(testMaxAttempts - 1)

	suite.mockBills.On("FindBillsDueOn", ctx, tomorrow).Return([]domain.AutomaticBill{}, nil).Once()
	suite.mockBills.On("FindBillsDueOn", ctx, today).Return([]domain.AutomaticBill{}, nil).Once()
	suite.mockBills.On("FindRetryableBills", ctx, today, testMaxAttempts).Return([]domain.AutomaticBill{retry}, nil).Once()
	suite.mockBills.On("ExecutePayment", ctx, retry.BillID, now).Return(domain.BillPaymentInsufficientFunds, nil).Once()
	suite.mockBills.On("MarkBillFailed", ctx, retry.BillID, now).Return(nil).Once()
	suite.mockNotifications.On("HasNotificationForDay", ctx, retry.BillID, domain.NotificationBillFailed, today).Return(false, nil).Once()
	suite.mockNotifications.On("SaveNotification", ctx, mock.MatchedBy(func(n domain.Notification) bool {
		return n.Kind == domain.NotificationBillFailed
	})).Return(nil).Once()
	suite.mockTransferSvc.On("ExpirePendingTransfers", ctx, now).Return(0, nil).Once()

	summary, err := suite.service.RunDailyBatch(ctx, now)

	suite.Require().NoError(err)
	suite.Equal(1, summary.RetriesAttempted)
	suite.Equal(1, summary.PaymentsFailed)
	suite.Equal(1, summary.BillsMarkedFailed)
	suite.mockBills.AssertExpectations(suite.T())
}

func (suite *BillServiceTestSuite) TestRunDailyBatch_RetryBelowCapDoesNotFailBill() {
	ctx := context.Background()
	now := time.Now().UTC()
	today := now.Truncate(24 * time.Hour)
	tomorrow := today.AddDate(0, 0, 1)

	retry := suite.bill(10)

	suite.mockBills.On("FindBillsDueOn", ctx, tomorrow).Return([]domain.AutomaticBill{}, nil).Once()
	suite.mockBills.On("FindBillsDueOn", ctx, today).Return([]domain.AutomaticBill{}, nil).Once()
	suite.mockBills.On("FindRetryableBills", ctx, today, testMaxAttempts).Return([]domain.AutomaticBill{retry}, nil).Once()
	suite.mockBills.On("ExecutePayment", ctx, retry.BillID, now).Return(domain.BillPaymentInsufficientFunds, nil).Once()
	suite.mockTransferSvc.On("ExpirePendingTransfers", ctx, now).Return(0, nil).Once()

	summary, err := suite.service.RunDailyBatch(ctx, now)

	suite.Require().NoError(err)
	suite.Equal(1, summary.PaymentsFailed)
	suite.Equal(0, summary.BillsMarkedFailed)
	suite.mockBills.AssertNotCalled(suite.T(), "MarkBillFailed", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *BillServiceTestSuite) TestRunDailyBatch_PaymentErrorDoesNotAbortBatch() {
	ctx := context.Background()
	now := time.Now().UTC()
	today := now.Truncate(24 * time.Hour)
	tomorrow := today.AddDate(0, 0, 1)

	broken := suite.bill(0)
	healthy := suite.bill(0)

	suite.mockBills.On("FindBillsDueOn", ctx, tomorrow).Return([]domain.AutomaticBill{}, nil).Once()
	suite.mockBills.On("FindBillsDueOn", ctx, today).Return([]domain.AutomaticBill{broken, healthy}, nil).Once()
	suite.mockNotifications.On("HasNotificationForDay", ctx, mock.Anything, domain.NotificationBillDue, today).Return(true, nil).Twice()
	suite.mockBills.On("ExecutePayment", ctx, broken.BillID, now).Return(domain.BillPaymentOutcome(""), assert.AnError).Once()
	suite.mockBills.On("ExecutePayment", ctx, healthy.BillID, now).Return(domain.BillPaymentSucceeded, nil).Once()
	suite.mockBills.On("FindRetryableBills", ctx, today, testMaxAttempts).Return([]domain.AutomaticBill{}, nil).Once()
	suite.mockTransferSvc.On("ExpirePendingTransfers", ctx, now).Return(0, nil).Once()

	summary, err := suite.service.RunDailyBatch(ctx, now)

	suite.Require().NoError(err)
	suite.Equal(2, summary.DueBillsProcessed)
	suite.Equal(1, summary.PaymentsSucceeded)
	suite.Equal(1, summary.PaymentsFailed)
	suite.mockBills.AssertExpectations(suite.T())
}

func (suite *BillServiceTestSuite) TestRunDailyBatch_ExpiresPendingTransfers() {
	ctx := context.Background()
	now := time.Now().UTC()
	today := now.Truncate(24 * time.Hour)
	tomorrow := today.AddDate(0, 0, 1)

	suite.mockBills.On("FindBillsDueOn", ctx, tomorrow).Return([]domain.AutomaticBill{}, nil).Once()
	suite.mockBills.On("FindBillsDueOn", ctx, today).Return([]domain.AutomaticBill{}, nil).Once()
	suite.mockBills.On("FindRetryableBills", ctx, today, testMaxAttempts).Return([]domain.AutomaticBill{}, nil).Once()
	suite.mockTransferSvc.On("ExpirePendingTransfers", ctx, now).Return(3, nil).Once()

	summary, err := suite.service.RunDailyBatch(ctx, now)

	suite.Require().NoError(err)
	suite.Equal(3, summary.PendingTransfersExpired)
	suite.mockTransferSvc.AssertExpectations(suite.T())
}

func (suite *BillServiceTestSuite) TestListNotifications() {
	ctx := context.Background()
	billID := uuid.NewString()
	stored := []domain.Notification{
		{NotificationID: uuid.NewString(), UserID: suite.userID, BillID: &billID, Kind: domain.NotificationBillDue, Message: "due"},
	}

	suite.mockNotifications.On("ListNotificationsByUserID", ctx, suite.userID, 10).Return(stored, nil).Once()

	notifications, err := suite.service.ListNotifications(ctx, suite.userID, 10)

	suite.Require().NoError(err)
	suite.Len(notifications, 1)
	suite.Equal(domain.NotificationBillDue, notifications[0].Kind)
}

func TestBillServiceTestSuite(t *testing.T) {
	suite.Run(t, new(BillServiceTestSuite))
}
