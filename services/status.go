package services

import (
	"context"

	"github.com/IfedayoAwe/corp-payment-gateway/models"
	"github.com/IfedayoAwe/corp-payment-gateway/utils"
)

type StatusService interface {
	Inquire(ctx context.Context, authorization string, req *models.StatusRequest) (*models.InquiryOutcome, error)
}

type statusService struct {
	inquiry
	journal TransactionJournal
	tag     string
}

func (s *Services) Status() StatusService {
	return &statusService{
		inquiry: s.newInquiry(),
		journal: s.journal,
		tag:     s.Config.StatusRequestTag(),
	}
}

// Inquire reports a journalled SUCCESS or HELD payment of the caller's corp.
func (ss *statusService) Inquire(ctx context.Context, authorization string, req *models.StatusRequest) (*models.InquiryOutcome, error) {
	if req == nil {
		return nil, missingEnvelopeErr(ss.tag)
	}

	corpID, failed, err := ss.admit(authorization, req.Header)
	if err != nil || failed != nil {
		return failed, err
	}

	if err := ss.schema.ValidateTranID("OrgTranID", req.OrgTranID); err != nil {
		desc, more, ok := ss.responses.DescribeSchemaError(err)
		if !ok {
			return nil, utils.ServerErr(err)
		}
		return failedInquiry(req.Header, models.ErrorCodeSchema, desc, more), nil
	}

	txn, ok := ss.journal.Lookup(corpID, req.OrgTranID)
	if !ok {
		return nil, utils.NotFoundErr("No transaction found for the provided OrgTranID")
	}

	logger := inquiryLogger(ctx, req.Header)
	logger.Debug().
		Str("org_tran_id", req.OrgTranID).
		Str("txn_status", string(txn.Status)).
		Msg("status inquiry answered")

	return &models.InquiryOutcome{
		Status:      models.TransactionStatusSuccess,
		Header:      req.Header,
		Transaction: &txn,
	}, nil
}
