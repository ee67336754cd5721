package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/IfedayoAwe/corp-payment-gateway/models"
	"github.com/IfedayoAwe/corp-payment-gateway/pkg/money"
	"github.com/IfedayoAwe/corp-payment-gateway/providers"
	"github.com/IfedayoAwe/corp-payment-gateway/services/mocks"
	"github.com/IfedayoAwe/corp-payment-gateway/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	financeAuth = "Basic RmluYW5jZTpGaW5AMjAyMw==" // Finance:Fin@2023
	adminAuth   = "Basic QWRtaW46QWRtaW5AMTIz"     // Admin:Admin@123
)

func balanceOf(t *testing.T, s *Services, acctNo string) string {
	t.Helper()
	b, err := s.Ledger().Balance(acctNo)
	require.NoError(t, err)
	return money.Format(b)
}

func settle(t *testing.T, s *Services, auth string, req *models.PaymentRequest) *models.TransactionOutcome {
	t.Helper()
	outcome, err := s.Settlement().Settle(context.Background(), auth, req)
	require.NoError(t, err)
	require.NotNil(t, outcome)
	return outcome
}

func TestSettle_Success(t *testing.T) {
	s := newTestServices(t)

	outcome := settle(t, s, financeAuth, payment("TXN0001", "TMW04", "123456789012", "1000", "FT"))

	assert.Equal(t, models.TransactionStatusSuccess, outcome.Status)
	assert.Equal(t, models.StageResponded, outcome.Stage)
	assert.Empty(t, outcome.ErrorCode)
	assert.Equal(t, "499000.00", money.Format(outcome.RemainingBalance))
	assert.Regexp(t, `^REF[0-9]{12}$`, outcome.References.RefNo)
	assert.Regexp(t, `^UTR[0-9]{14}$`, outcome.References.UTRNo)
	assert.Regexp(t, `^PO[0-9]{12}$`, outcome.References.PONum)
	assert.Equal(t, "499000.00", balanceOf(t, s, "123456789012"))

	journalled, ok := s.Journal().Lookup("TMW04", "TXN0001")
	require.True(t, ok)
	assert.Equal(t, outcome.References, journalled.References)
}

func TestSettle_Idempotency(t *testing.T) {
	s := newTestServices(t)
	req := payment("TXN0001", "TMW04", "123456789012", "1000", "FT")

	first := settle(t, s, financeAuth, req)
	require.Equal(t, models.TransactionStatusSuccess, first.Status)
	assert.Equal(t, "499000.00", balanceOf(t, s, "123456789012"))

	second := settle(t, s, financeAuth, req)
	assert.Equal(t, models.TransactionStatusFailed, second.Status)
	assert.Equal(t, models.ErrorCodeDuplicate, second.ErrorCode)
	assert.Equal(t, models.StageRuleValid, second.Stage)
	assert.Equal(t, "499000.00", balanceOf(t, s, "123456789012"))
}

func TestSettle_ConcurrentSameTranID(t *testing.T) {
	s := newTestServices(t)
	settlement := s.Settlement()

	const attempts = 50
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		dupes     int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			outcome, err := settlement.Settle(context.Background(), financeAuth,
				payment("TXNRACE", "TMW04", "123456789012", "10", "IMPS"))
			if err != nil {
				return
			}
			mu.Lock()
			defer mu.Unlock()
			switch outcome.ErrorCode {
			case "":
				successes++
			case models.ErrorCodeDuplicate:
				dupes++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, attempts-1, dupes)
	assert.Equal(t, "499990.00", balanceOf(t, s, "123456789012"))
}

func TestSettle_InsufficientFunds(t *testing.T) {
	s := newTestServices(t)
	user1 := basic("User1:Password1")

	outcome := settle(t, s, user1, payment("TXN0002", "TMW03", "987654321098", "501", "FT"))
	assert.Equal(t, models.TransactionStatusFailed, outcome.Status)
	assert.Equal(t, models.ErrorCodeBusinessRule, outcome.ErrorCode)
	assert.Equal(t, descInsufficientFunds, outcome.ErrorDesc)
	assert.Equal(t, models.StageClaimed, outcome.Stage)
	assert.Equal(t, "500.00", balanceOf(t, s, "987654321098"))

	// The claim was released, so the same TranID may settle once funds allow.
	retry := settle(t, s, user1, payment("TXN0002", "TMW03", "987654321098", "500", "FT"))
	assert.Equal(t, models.TransactionStatusSuccess, retry.Status)
	assert.Equal(t, "0.00", balanceOf(t, s, "987654321098"))
}

func TestSettle_ModeBoundaries(t *testing.T) {
	tests := []struct {
		mode    string
		amount  string
		success bool
	}{
		{"RTGS", "199999.99", false},
		{"RTGS", "200000.00", true},
		{"FT", "200000.00", false},
		{"FT", "199999.99", true},
		{"IMPS", "200000.00", false},
		{"NEFT", "999.99", false},
		{"NEFT", "1000.00", true},
		{"NEFT", "500000.00", true},
		{"NEFT", "500000.01", false},
	}

	for _, tt := range tests {
		t.Run(tt.mode+" "+tt.amount, func(t *testing.T) {
			s := newTestServices(t)

			outcome := settle(t, s, adminAuth, payment("TXNB1", "TMW02", "456789123456", tt.amount, tt.mode))
			if tt.success {
				assert.Equal(t, models.TransactionStatusSuccess, outcome.Status)
				return
			}
			assert.Equal(t, models.TransactionStatusFailed, outcome.Status)
			assert.Equal(t, models.ErrorCodeBusinessRule, outcome.ErrorCode)
			assert.Equal(t, models.StageSchemaValid, outcome.Stage)
			assert.Equal(t, "750000.00", balanceOf(t, s, "456789123456"))
		})
	}
}

func TestSettle_CutoffHold(t *testing.T) {
	t.Run("held at cutoff", func(t *testing.T) {
		holds := new(mocks.MockHoldDispatcher)
		holds.On("Submit", mock.Anything, mock.MatchedBy(func(h models.HeldPayment) bool {
			return h.TranID == "TXNN1" && h.Mode == models.ModeNEFT && h.Amount == "1000"
		})).Return(nil).Once()

		tracker := new(mocks.MockIdempotencyTracker)
		tracker.On("Claimed", mock.Anything, "TXNN1").Return(false, nil).Once()
		s := newTestServices(t, WithClock(istClock(17, 0)), WithHoldDispatcher(holds), WithIdempotencyTracker(tracker))

		outcome := settle(t, s, adminAuth, payment("TXNN1", "TMW02", "456789123456", "1000", "NEFT"))
		assert.Equal(t, models.TransactionStatusHeld, outcome.Status)
		assert.Equal(t, models.ErrorCodeCutoffHold, outcome.ErrorCode)
		assert.Equal(t, models.StageRuleValid, outcome.Stage)
		assert.Equal(t, "750000.00", balanceOf(t, s, "456789123456"))

		holds.AssertExpectations(t)
		tracker.AssertNotCalled(t, "TryClaim", mock.Anything, mock.Anything)

		journalled, ok := s.Journal().Lookup("TMW02", "TXNN1")
		require.True(t, ok)
		assert.Equal(t, models.TransactionStatusHeld, journalled.Status)
	})

	t.Run("processed before cutoff", func(t *testing.T) {
		s := newTestServices(t, WithClock(istClock(16, 59)))

		outcome := settle(t, s, adminAuth, payment("TXNN1", "TMW02", "456789123456", "1000", "NEFT"))
		assert.Equal(t, models.TransactionStatusSuccess, outcome.Status)
		assert.Equal(t, "749000.00", balanceOf(t, s, "456789123456"))
	})

	t.Run("submit failure keeps the hold", func(t *testing.T) {
		holds := new(mocks.MockHoldDispatcher)
		holds.On("Submit", mock.Anything, mock.Anything).Return(ErrHoldBufferFull)
		s := newTestServices(t, WithClock(istClock(18, 0)), WithHoldDispatcher(holds))

		outcome := settle(t, s, adminAuth, payment("TXNN2", "TMW02", "456789123456", "1000", "NEFT"))
		assert.Equal(t, models.TransactionStatusHeld, outcome.Status)
	})

	t.Run("settled TranID resubmitted after cutoff is a duplicate", func(t *testing.T) {
		holds := new(mocks.MockHoldDispatcher)
		clock := istClock(16, 0)
		s := newTestServices(t, WithClock(func() time.Time { return clock() }), WithHoldDispatcher(holds))

		first := settle(t, s, adminAuth, payment("TXNDUP1", "TMW02", "456789123456", "1000", "NEFT"))
		require.Equal(t, models.TransactionStatusSuccess, first.Status)

		clock = istClock(17, 30)
		second := settle(t, s, adminAuth, payment("TXNDUP1", "TMW02", "456789123456", "1000", "NEFT"))
		assert.Equal(t, models.TransactionStatusFailed, second.Status)
		assert.Equal(t, models.ErrorCodeDuplicate, second.ErrorCode)
		assert.Equal(t, "749000.00", balanceOf(t, s, "456789123456"))
		holds.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything)

		journalled, ok := s.Journal().Lookup("TMW02", "TXNDUP1")
		require.True(t, ok)
		assert.Equal(t, models.TransactionStatusSuccess, journalled.Status)
	})

	t.Run("held TranID is dispatched once", func(t *testing.T) {
		holds := new(mocks.MockHoldDispatcher)
		holds.On("Submit", mock.Anything, mock.Anything).Return(nil).Once()
		s := newTestServices(t, WithClock(istClock(17, 30)), WithHoldDispatcher(holds))

		for i := 0; i < 3; i++ {
			outcome := settle(t, s, adminAuth, payment("TXNHLD", "TMW02", "456789123456", "1000", "NEFT"))
			assert.Equal(t, models.TransactionStatusHeld, outcome.Status)
			assert.Equal(t, models.ErrorCodeCutoffHold, outcome.ErrorCode)
		}

		holds.AssertNumberOfCalls(t, "Submit", 1)
		assert.Equal(t, "750000.00", balanceOf(t, s, "456789123456"))
	})

	t.Run("claim check deadline", func(t *testing.T) {
		holds := new(mocks.MockHoldDispatcher)
		tracker := new(mocks.MockIdempotencyTracker)
		tracker.On("Claimed", mock.Anything, "TXNN3").Return(false, context.DeadlineExceeded)
		s := newTestServices(t, WithClock(istClock(17, 30)), WithHoldDispatcher(holds), WithIdempotencyTracker(tracker))

		outcome := settle(t, s, adminAuth, payment("TXNN3", "TMW02", "456789123456", "1000", "NEFT"))
		assert.Equal(t, models.TransactionStatusFailed, outcome.Status)
		assert.Equal(t, models.ErrorCodeUnexpected, outcome.ErrorCode)
		holds.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything)
	})

	t.Run("FT ignores cutoff", func(t *testing.T) {
		s := newTestServices(t, WithClock(istClock(18, 0)))

		outcome := settle(t, s, adminAuth, payment("TXNF1", "TMW02", "456789123456", "1000", "FT"))
		assert.Equal(t, models.TransactionStatusSuccess, outcome.Status)
	})
}

func TestSettle_Ownership(t *testing.T) {
	s := newTestServices(t)

	outcome := settle(t, s, basic("Test:Welcome@123"), payment("TXNO1", "TMW01", "456789123456", "1000", "FT"))
	assert.Equal(t, models.TransactionStatusFailed, outcome.Status)
	assert.Equal(t, models.ErrorCodeAuth, outcome.ErrorCode)
	assert.Equal(t, descOwnershipMismatch, outcome.ErrorDesc)
	assert.Equal(t, descOwnershipMismatchMore, outcome.ErrorMoreDesc)
	assert.NotEqual(t, descCorpMismatchMore, outcome.ErrorMoreDesc)
	assert.Equal(t, models.StageSchemaValid, outcome.Stage)
	assert.Equal(t, "750000.00", balanceOf(t, s, "456789123456"))
}

func TestSettle_CorpMismatch(t *testing.T) {
	s := newTestServices(t)

	outcome := settle(t, s, basic("Test:Welcome@123"), payment("TXNC1", "TMW02", "456789123456", "1000", "FT"))
	assert.Equal(t, models.TransactionStatusFailed, outcome.Status)
	assert.Equal(t, models.ErrorCodeAuth, outcome.ErrorCode)
	assert.Equal(t, descCorpMismatch, outcome.ErrorDesc)
	assert.Equal(t, models.StageReceived, outcome.Stage)
}

func TestSettle_SchemaFailures(t *testing.T) {
	s := newTestServices(t)

	tests := []struct {
		name string
		req  *models.PaymentRequest
		desc string
	}{
		{"tran id too long", payment("ABCDEFGHIJ1234567", "TMW04", "123456789012", "1000", "FT"), "Invalid or missing field: TranID"},
		{"tran id hyphen", payment("TXN-0001", "TMW04", "123456789012", "1000", "FT"), "Invalid or missing field: TranID"},
		{"unknown account", payment("TXNS1", "TMW04", "111111111111", "1000", "FT"), "Invalid or unregistered Debit_Acct_No"},
		{"bad amount", payment("TXNS2", "TMW04", "123456789012", "10.123", "FT"), "Amount must be a positive number greater than zero with at most 2 decimal places"},
		{"bad mode", payment("TXNS3", "TMW04", "123456789012", "1000", "UPI"), "Invalid or missing Mode_of_Pay. Valid options are 'FT', 'RTGS', 'IMPS', 'NEFT'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome := settle(t, s, financeAuth, tt.req)
			assert.Equal(t, models.TransactionStatusFailed, outcome.Status)
			assert.Equal(t, models.ErrorCodeSchema, outcome.ErrorCode)
			assert.Equal(t, tt.desc, outcome.ErrorDesc)
			assert.Equal(t, models.StageAuthenticated, outcome.Stage)
		})
	}

	assert.Equal(t, "500000.00", balanceOf(t, s, "123456789012"))
}

func TestSettle_TransportFailures(t *testing.T) {
	s := newTestServices(t)
	req := payment("TXNT1", "TMW04", "123456789012", "1000", "FT")

	tests := []struct {
		name    string
		auth    string
		kind    error
		message string
	}{
		{"missing header", "", utils.ErrNotAuthorized, "Invalid LDAP Format"},
		{"bearer scheme", "Bearer abc", utils.ErrNotAuthorized, "Invalid LDAP Format"},
		{"bad base64", "Basic !!!", utils.ErrBadRequest, "Invalid Base64 encoding in Authorization Header"},
		{"no separator", basic("Finance"), utils.ErrNotAuthorized, "Malformed Authorization Header"},
		{"wrong password", basic("Finance:fin@2023"), utils.ErrNotAuthorized, "LDAP ID or Password is wrong"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome, err := s.Settlement().Settle(context.Background(), tt.auth, req)
			assert.Nil(t, outcome)
			assert.ErrorIs(t, err, tt.kind)

			wrapped, ok := utils.IsWrappedError(err)
			require.True(t, ok)
			assert.Equal(t, tt.message, wrapped.GetMessage())
		})
	}

	t.Run("missing envelope", func(t *testing.T) {
		_, err := s.Settlement().Settle(context.Background(), financeAuth, nil)
		assert.ErrorIs(t, err, utils.ErrBadRequest)
	})

	assert.Equal(t, "500000.00", balanceOf(t, s, "123456789012"))
}

func TestSettle_ClaimStore(t *testing.T) {
	req := payment("TXNK1", "TMW04", "123456789012", "1000", "FT")

	t.Run("deadline exceeded", func(t *testing.T) {
		tracker := new(mocks.MockIdempotencyTracker)
		tracker.On("TryClaim", mock.Anything, "TXNK1").Return(false, fmt.Errorf("claim: %w", context.DeadlineExceeded))
		s := newTestServices(t, WithIdempotencyTracker(tracker))

		outcome := settle(t, s, financeAuth, req)
		assert.Equal(t, models.ErrorCodeUnexpected, outcome.ErrorCode)
		assert.Equal(t, "500000.00", balanceOf(t, s, "123456789012"))
		tracker.AssertNotCalled(t, "Release", mock.Anything, mock.Anything)
	})

	t.Run("store failure", func(t *testing.T) {
		tracker := new(mocks.MockIdempotencyTracker)
		tracker.On("TryClaim", mock.Anything, "TXNK1").Return(false, errors.New("connection refused"))
		s := newTestServices(t, WithIdempotencyTracker(tracker))

		outcome, err := s.Settlement().Settle(context.Background(), financeAuth, req)
		assert.Nil(t, outcome)
		assert.ErrorIs(t, err, utils.ErrInternal)
	})

	t.Run("rail failure releases claim", func(t *testing.T) {
		tracker := new(mocks.MockIdempotencyTracker)
		tracker.On("TryClaim", mock.Anything, "TXNK1").Return(true, nil)
		tracker.On("Release", mock.Anything, "TXNK1").Return(nil).Once()
		s := newTestServices(t, WithIdempotencyTracker(tracker), WithRails(providers.NewProcessor()))

		_, err := s.Settlement().Settle(context.Background(), financeAuth, req)
		assert.ErrorIs(t, err, utils.ErrInternal)
		tracker.AssertExpectations(t)
		assert.Equal(t, "500000.00", balanceOf(t, s, "123456789012"))
	})

	t.Run("release survives cancelled request", func(t *testing.T) {
		tracker := new(mocks.MockIdempotencyTracker)
		tracker.On("TryClaim", mock.Anything, "TXNK2").Return(true, nil)
		tracker.On("Release", mock.MatchedBy(func(ctx context.Context) bool { return ctx.Err() == nil }), "TXNK2").Return(nil).Once()
		s := newTestServices(t, WithIdempotencyTracker(tracker))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		// The rail refuses a cancelled context, which triggers the release.
		_, err := s.Settlement().Settle(ctx, financeAuth, payment("TXNK2", "TMW04", "123456789012", "1000", "FT"))
		assert.ErrorIs(t, err, utils.ErrInternal)
		tracker.AssertExpectations(t)
		assert.Equal(t, "500000.00", balanceOf(t, s, "123456789012"))
	})
}

func TestSettle_DecimalRoundTrip(t *testing.T) {
	s := newTestServices(t)

	prior := dec("500000.00")
	for i := 0; i < 10; i++ {
		outcome := settle(t, s, financeAuth, payment(fmt.Sprintf("TXNR%d", i), "TMW04", "123456789012", "0.10", "FT"))
		require.Equal(t, models.TransactionStatusSuccess, outcome.Status)
		assert.True(t, prior.Sub(dec("0.10")).Equal(outcome.RemainingBalance))
		prior = outcome.RemainingBalance
	}
	assert.Equal(t, "499999.00", balanceOf(t, s, "123456789012"))
}
