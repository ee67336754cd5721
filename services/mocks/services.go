package mocks

import (
	"context"

	"github.com/IfedayoAwe/corp-payment-gateway/models"
	"github.com/IfedayoAwe/corp-payment-gateway/queue"
	"github.com/stretchr/testify/mock"
)

type MockIdempotencyTracker struct {
	mock.Mock
}

func (m *MockIdempotencyTracker) TryClaim(ctx context.Context, tranID string) (bool, error) {
	args := m.Called(ctx, tranID)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyTracker) Claimed(ctx context.Context, tranID string) (bool, error) {
	args := m.Called(ctx, tranID)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyTracker) Release(ctx context.Context, tranID string) error {
	args := m.Called(ctx, tranID)
	return args.Error(0)
}

type MockHoldDispatcher struct {
	mock.Mock
}

func (m *MockHoldDispatcher) Submit(ctx context.Context, held models.HeldPayment) error {
	args := m.Called(ctx, held)
	return args.Error(0)
}

func (m *MockHoldDispatcher) StartWorker(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockQueue struct {
	mock.Mock
}

func (m *MockQueue) Enqueue(ctx context.Context, jobType queue.JobType, payload any) error {
	args := m.Called(ctx, jobType, payload)
	return args.Error(0)
}

func (m *MockQueue) Close() error {
	args := m.Called()
	return args.Error(0)
}

type MockSettlementService struct {
	mock.Mock
}

func (m *MockSettlementService) Settle(ctx context.Context, authorization string, req *models.PaymentRequest) (*models.TransactionOutcome, error) {
	args := m.Called(ctx, authorization, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TransactionOutcome), args.Error(1)
}

type MockStatusService struct {
	mock.Mock
}

func (m *MockStatusService) Inquire(ctx context.Context, authorization string, req *models.StatusRequest) (*models.InquiryOutcome, error) {
	args := m.Called(ctx, authorization, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InquiryOutcome), args.Error(1)
}

type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) ListAccounts(ctx context.Context, authorization string, req *models.AccountsRequest) (*models.InquiryOutcome, error) {
	args := m.Called(ctx, authorization, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InquiryOutcome), args.Error(1)
}
