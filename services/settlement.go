package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/IfedayoAwe/corp-payment-gateway/models"
	"github.com/IfedayoAwe/corp-payment-gateway/providers"
	"github.com/IfedayoAwe/corp-payment-gateway/utils"
	"github.com/rs/zerolog"
)

const releaseTimeout = 5 * time.Second

// Caller-facing descriptions of domain failures.
const (
	descCorpMismatch          = "LDAP to CORP Mismatched"
	descCorpMismatchMore      = "LDAP ID and CORP ID do not match"
	descOwnershipMismatch     = "Debit_Acct_No does not belong to the Corp_ID"
	descOwnershipMismatchMore = "Debit account is registered to a different corporate"
	descDuplicate             = "Duplicate Transaction ID"
	descUnexpected            = "Timeout or unexpected error occurred"
	descInsufficientFunds     = "Insufficient balance in the Debit Account"
	descCutoffHold            = "Transaction on hold as cutoff time exceeded. Will be processed on the next working day."
)

// SettlementService runs one payment through
// Authenticate, Schema, Ownership, Rules, Idempotency and Debit.
//
// A returned outcome is a domain result (SUCCESS, FAILED or HELD) sent with
// HTTP 200. A returned error is a transport failure for utils.HandleError.
type SettlementService interface {
	Settle(ctx context.Context, authorization string, req *models.PaymentRequest) (*models.TransactionOutcome, error)
}

type settlementService struct {
	auth      Authenticator
	schema    SchemaValidator
	ledger    AccountLedger
	rules     BusinessRuleEngine
	tracker   IdempotencyTracker
	rails     *providers.Processor
	journal   TransactionJournal
	holds     HoldDispatcher
	responses ResponseBuilder
	now       func() time.Time
}

func (s *Services) Settlement() SettlementService {
	return &settlementService{
		auth:      s.Auth(),
		schema:    s.Schema(),
		ledger:    s.ledger,
		rules:     s.rules,
		tracker:   s.tracker,
		rails:     s.rails,
		journal:   s.journal,
		holds:     s.holds,
		responses: s.Responses(),
		now:       s.now,
	}
}

func (ss *settlementService) Settle(ctx context.Context, authorization string, req *models.PaymentRequest) (*models.TransactionOutcome, error) {
	if req == nil {
		return nil, ss.responses.TransportError(ErrMissingEnvelope)
	}

	outcome := &models.TransactionOutcome{
		Stage:       models.StageReceived,
		Header:      req.Header,
		DebitAcctNo: req.Body.DebitAcctNo,
		Mode:        models.PaymentMode(req.Body.ModeOfPay),
		BenIFSC:     req.Body.BenIFSC,
		ProcessedAt: ss.now(),
	}

	logger := utils.LoggerFromContext(ctx).With().
		Str("tran_id", req.Header.TranID).
		Str("corp_id", req.Header.CorpID).
		Logger()

	corpID, err := ss.auth.Authenticate(authorization, req.Header.CorpID)
	if err != nil {
		if errors.Is(err, ErrCorpMismatch) {
			return ss.fail(logger, outcome, models.ErrorCodeAuth, descCorpMismatch, descCorpMismatchMore), nil
		}
		logger.Debug().Err(err).Msg("authentication failed")
		return nil, ss.responses.TransportError(err)
	}
	ss.advance(logger, outcome, models.StageAuthenticated)

	instr, err := ss.schema.Validate(req)
	if err != nil {
		desc, more, ok := ss.responses.DescribeSchemaError(err)
		if !ok {
			return nil, utils.ServerErr(fmt.Errorf("validate payment: %w", err))
		}
		return ss.fail(logger, outcome, models.ErrorCodeSchema, desc, more), nil
	}
	outcome.DebitAcctNo = instr.DebitAcctNo
	outcome.Amount = instr.Amount
	outcome.Mode = instr.Mode
	ss.advance(logger, outcome, models.StageSchemaValid)

	owner, err := ss.ledger.OwnerOf(instr.DebitAcctNo)
	if err != nil {
		return nil, utils.ServerErr(fmt.Errorf("owner of %s: %w", instr.DebitAcctNo, err))
	}
	if owner != corpID {
		logger.Debug().Str("owner_corp_id", owner).Msg("debit account owned by another corp")
		return ss.fail(logger, outcome, models.ErrorCodeAuth, descOwnershipMismatch, descOwnershipMismatchMore), nil
	}

	err = ss.rules.Evaluate(instr.Mode, instr.Amount, ss.now())
	if errors.Is(err, ErrCutoffHold) {
		ss.advance(logger, outcome, models.StageRuleValid)
		settled, err := ss.tracker.Claimed(ctx, instr.Header.TranID)
		if err != nil {
			return ss.claimStoreFailure(logger, outcome, instr.Header.TranID, err)
		}
		if settled {
			return ss.fail(logger, outcome, models.ErrorCodeDuplicate, descDuplicate, ""), nil
		}
		return ss.hold(ctx, logger, outcome, instr), nil
	}
	if err != nil {
		var ruleErr *RuleError
		if !errors.As(err, &ruleErr) {
			return nil, utils.ServerErr(fmt.Errorf("evaluate rules: %w", err))
		}
		return ss.fail(logger, outcome, models.ErrorCodeBusinessRule, ruleErr.Description, ""), nil
	}
	ss.advance(logger, outcome, models.StageRuleValid)

	claimed, err := ss.tracker.TryClaim(ctx, instr.Header.TranID)
	if err != nil {
		return ss.claimStoreFailure(logger, outcome, instr.Header.TranID, err)
	}
	if !claimed {
		return ss.fail(logger, outcome, models.ErrorCodeDuplicate, descDuplicate, ""), nil
	}
	ss.advance(logger, outcome, models.StageClaimed)

	// From here on every failure must give the TranID back.
	refs, err := ss.rails.IssueReferences(ctx, providers.ReferenceRequest{
		TranID: instr.Header.TranID,
		Mode:   instr.Mode,
	})
	if err != nil {
		ss.release(ctx, logger, instr.Header.TranID)
		return nil, utils.ServerErr(fmt.Errorf("issue references: %w", err))
	}

	remaining, err := ss.ledger.Debit(instr.DebitAcctNo, instr.Amount)
	if err != nil {
		ss.release(ctx, logger, instr.Header.TranID)
		if errors.Is(err, ErrInsufficientFunds) {
			return ss.fail(logger, outcome, models.ErrorCodeBusinessRule, descInsufficientFunds, ""), nil
		}
		return nil, utils.ServerErr(fmt.Errorf("debit: %w", err))
	}
	outcome.References = refs.References
	outcome.RemainingBalance = remaining
	outcome.ProcessedAt = ss.now()
	ss.advance(logger, outcome, models.StageDebited)

	outcome.Status = models.TransactionStatusSuccess
	outcome.Stage = models.StageResponded
	ss.journal.Record(*outcome)

	logger.Info().
		Str("status", string(outcome.Status)).
		Str("ref_no", outcome.References.RefNo).
		Str("provider", refs.ProviderName).
		Str("mode", string(outcome.Mode)).
		Msg("payment settled")

	return outcome, nil
}

func (ss *settlementService) advance(logger zerolog.Logger, outcome *models.TransactionOutcome, stage models.Stage) {
	outcome.Stage = stage
	logger.Debug().Str("stage", string(stage)).Msg("payment advanced")
}

// fail ends the payment at its current stage.
func (ss *settlementService) fail(logger zerolog.Logger, outcome *models.TransactionOutcome, code models.ErrorCode, desc, more string) *models.TransactionOutcome {
	outcome.Status = models.TransactionStatusFailed
	outcome.ErrorCode = code
	outcome.ErrorDesc = desc
	outcome.ErrorMoreDesc = more

	logger.Info().
		Str("status", string(outcome.Status)).
		Str("stage", string(outcome.Stage)).
		Str("error_code", string(code)).
		Str("error_desc", desc).
		Msg("payment failed")

	return outcome
}

// claimStoreFailure turns a deadline on the claim store into ER006. Anything else is internal.
func (ss *settlementService) claimStoreFailure(logger zerolog.Logger, outcome *models.TransactionOutcome, tranID string, err error) (*models.TransactionOutcome, error) {
	if errors.Is(err, context.DeadlineExceeded) {
		logger.Warn().Err(err).Msg("idempotency claim timed out")
		return ss.fail(logger, outcome, models.ErrorCodeUnexpected, descUnexpected, ""), nil
	}
	return nil, utils.ServerErr(fmt.Errorf("claim %s: %w", tranID, err))
}

// hold parks a valid NEFT payment past the cutoff. Nothing is claimed or debited.
func (ss *settlementService) hold(ctx context.Context, logger zerolog.Logger, outcome *models.TransactionOutcome, instr *models.PaymentInstruction) *models.TransactionOutcome {
	outcome.Status = models.TransactionStatusHeld
	outcome.ErrorCode = models.ErrorCodeCutoffHold
	outcome.ErrorDesc = descCutoffHold
	if !ss.journal.Record(*outcome) {
		logger.Info().Str("status", string(outcome.Status)).Msg("payment already held")
		return outcome
	}

	held := models.HeldPayment{
		TranID:      instr.Header.TranID,
		CorpID:      instr.Header.CorpID,
		MakerID:     instr.Header.MakerID,
		CheckerID:   instr.Header.CheckerID,
		ApproverID:  instr.Header.ApproverID,
		DebitAcctNo: instr.DebitAcctNo,
		Amount:      instr.Amount.String(),
		Mode:        instr.Mode,
		BenIFSC:     instr.BenIFSC,
		HeldAt:      outcome.ProcessedAt.UTC(),
	}
	if err := ss.holds.Submit(ctx, held); err != nil {
		logger.Error().Err(err).Msg("error submitting held payment")
	}

	logger.Info().
		Str("status", string(outcome.Status)).
		Str("mode", string(outcome.Mode)).
		Msg("payment held")

	return outcome
}

// release is the compensation for a failed debit. It must run even when the
// request context is already done.
func (ss *settlementService) release(ctx context.Context, logger zerolog.Logger, tranID string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
	defer cancel()

	if err := ss.tracker.Release(ctx, tranID); err != nil {
		logger.Error().Err(err).Msg("error releasing idempotency claim")
		return
	}
	logger.Debug().Msg("idempotency claim released")
}
