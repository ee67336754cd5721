package services

import (
	"context"

	"github.com/IfedayoAwe/corp-payment-gateway/models"
	"github.com/IfedayoAwe/corp-payment-gateway/utils"
)

type AccountService interface {
	ListAccounts(ctx context.Context, authorization string, req *models.AccountsRequest) (*models.InquiryOutcome, error)
}

type accountService struct {
	inquiry
	ledger AccountLedger
	tag    string
}

func (s *Services) Accounts() AccountService {
	return &accountService{
		inquiry: s.newInquiry(),
		ledger:  s.ledger,
		tag:     s.Config.AccountsRequestTag,
	}
}

// ListAccounts returns balance snapshots of every account the caller's corp owns.
func (as *accountService) ListAccounts(ctx context.Context, authorization string, req *models.AccountsRequest) (*models.InquiryOutcome, error) {
	if req == nil {
		return nil, missingEnvelopeErr(as.tag)
	}

	corpID, failed, err := as.admit(authorization, req.Header)
	if err != nil || failed != nil {
		return failed, err
	}

	accounts := as.ledger.ListByCorp(corpID)
	if len(accounts) == 0 {
		return nil, utils.NotFoundErr("No accounts found for the provided Corp_ID")
	}

	logger := inquiryLogger(ctx, req.Header)
	logger.Debug().Int("accounts", len(accounts)).Msg("accounts listed")

	return &models.InquiryOutcome{
		Status:   models.TransactionStatusSuccess,
		Header:   req.Header,
		Accounts: accounts,
	}, nil
}
