package services

import (
	"context"
	"errors"

	"github.com/IfedayoAwe/corp-payment-gateway/models"
	"github.com/IfedayoAwe/corp-payment-gateway/utils"
	"github.com/rs/zerolog"
)

// inquiry holds the checks shared by the read-only operations: authenticate,
// match the corp and validate the header.
type inquiry struct {
	auth      Authenticator
	schema    SchemaValidator
	responses ResponseBuilder
}

func (s *Services) newInquiry() inquiry {
	return inquiry{
		auth:      s.Auth(),
		schema:    s.Schema(),
		responses: s.Responses(),
	}
}

// admit returns the caller's corp. A non-nil outcome is a domain failure to
// send back as is; a non-nil error is a transport failure.
func (in inquiry) admit(authorization string, h models.PaymentHeader) (string, *models.InquiryOutcome, error) {
	corpID, err := in.auth.Authenticate(authorization, h.CorpID)
	if err != nil {
		if errors.Is(err, ErrCorpMismatch) {
			return "", failedInquiry(h, models.ErrorCodeAuth, descCorpMismatch, descCorpMismatchMore), nil
		}
		return "", nil, in.responses.TransportError(err)
	}

	if err := in.schema.ValidateHeader(h); err != nil {
		desc, more, ok := in.responses.DescribeSchemaError(err)
		if !ok {
			return "", nil, utils.ServerErr(err)
		}
		return "", failedInquiry(h, models.ErrorCodeSchema, desc, more), nil
	}

	return corpID, nil, nil
}

func failedInquiry(h models.PaymentHeader, code models.ErrorCode, desc, more string) *models.InquiryOutcome {
	return &models.InquiryOutcome{
		Status:        models.TransactionStatusFailed,
		ErrorCode:     code,
		ErrorDesc:     desc,
		ErrorMoreDesc: more,
		Header:        h,
	}
}

func inquiryLogger(ctx context.Context, h models.PaymentHeader) zerolog.Logger {
	return utils.LoggerFromContext(ctx).With().
		Str("tran_id", h.TranID).
		Str("corp_id", h.CorpID).
		Logger()
}
