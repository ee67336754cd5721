package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/IfedayoAwe/corp-payment-gateway/models"
	"github.com/IfedayoAwe/corp-payment-gateway/pkg/money"
	"github.com/IfedayoAwe/corp-payment-gateway/utils"
)

// TxnTimeLayout renders IST timestamps as dd/mm/yyyy, h:mm:ss pm.
const TxnTimeLayout = "02/01/2006, 3:04:05 pm"

// ResponseBuilder turns outcomes into domain envelopes and classifies errors
// that belong on the transport channel.
type ResponseBuilder interface {
	Payment(outcome *models.TransactionOutcome) models.PaymentResponse
	Status(outcome *models.InquiryOutcome) models.StatusResponse
	Accounts(outcome *models.InquiryOutcome) models.AccountsResponse
	TransportError(err error) error
	DescribeSchemaError(err error) (desc, more string, ok bool)
}

type responseBuilder struct {
	signature  string
	requestTag string
	modes      []models.PaymentMode
}

func (s *Services) Responses() ResponseBuilder {
	return &responseBuilder{
		signature:  s.Config.SignatureValue,
		requestTag: s.Config.PaymentRequestTag(),
		modes:      s.rules.Modes(),
	}
}

func header(h models.PaymentHeader, status models.TransactionStatus, code models.ErrorCode, desc, more string) models.ResponseHeader {
	return models.ResponseHeader{
		TranID:        h.TranID,
		CorpID:        h.CorpID,
		MakerID:       h.MakerID,
		CheckerID:     h.CheckerID,
		ApproverID:    h.ApproverID,
		Status:        status,
		ErrorCode:     code,
		ErrorDesc:     desc,
		ErrorMoreDesc: more,
	}
}

func (rb *responseBuilder) Payment(outcome *models.TransactionOutcome) models.PaymentResponse {
	resp := models.PaymentResponse{
		Header:    header(outcome.Header, outcome.Status, outcome.ErrorCode, outcome.ErrorDesc, outcome.ErrorMoreDesc),
		Signature: models.Signature{Signature: rb.signature},
	}

	if outcome.Status == models.TransactionStatusSuccess {
		resp.Body = &models.PaymentResponseBody{
			RefNo:            outcome.References.RefNo,
			UTRNo:            outcome.References.UTRNo,
			PONum:            outcome.References.PONum,
			DebitAcctNo:      outcome.DebitAcctNo,
			Amount:           money.Format(outcome.Amount),
			RemainingBalance: money.Format(outcome.RemainingBalance),
			BenIFSC:          outcome.BenIFSC,
			TxnTime:          outcome.ProcessedAt.In(IST).Format(TxnTimeLayout),
			ModeOfPay:        string(outcome.Mode),
		}
	}
	return resp
}

func (rb *responseBuilder) Status(outcome *models.InquiryOutcome) models.StatusResponse {
	resp := models.StatusResponse{
		Header:    header(outcome.Header, outcome.Status, outcome.ErrorCode, outcome.ErrorDesc, outcome.ErrorMoreDesc),
		Signature: models.Signature{Signature: rb.signature},
	}

	if txn := outcome.Transaction; txn != nil && outcome.Status == models.TransactionStatusSuccess {
		resp.Body = &models.StatusResponseBody{
			OrgTranID:   txn.Header.TranID,
			TxnStatus:   txn.Status,
			RefNo:       txn.References.RefNo,
			UTRNo:       txn.References.UTRNo,
			PONum:       txn.References.PONum,
			DebitAcctNo: txn.DebitAcctNo,
			Amount:      money.Format(txn.Amount),
			ModeOfPay:   string(txn.Mode),
			TxnTime:     txn.ProcessedAt.In(IST).Format(TxnTimeLayout),
			ErrorCode:   txn.ErrorCode,
			ErrorDesc:   txn.ErrorDesc,
		}
	}
	return resp
}

func (rb *responseBuilder) Accounts(outcome *models.InquiryOutcome) models.AccountsResponse {
	resp := models.AccountsResponse{
		Header:    header(outcome.Header, outcome.Status, outcome.ErrorCode, outcome.ErrorDesc, outcome.ErrorMoreDesc),
		Signature: models.Signature{Signature: rb.signature},
	}

	if outcome.Status == models.TransactionStatusSuccess {
		info := make([]models.CIFInfo, 0, len(outcome.Accounts))
		for _, acct := range outcome.Accounts {
			info = append(info, models.CIFInfo{
				AcctBalance: models.AcctBalance{
					AmountValue:  money.Format(acct.Balance),
					CurrencyCode: acct.Currency.String(),
				},
				AcctCurrCode: acct.Currency.String(),
				AcctNumber:   acct.Number,
				AcctType:     acct.Type,
			})
		}
		resp.Body = &models.AccountsResponseBody{CIFInfo: info}
	}
	return resp
}

// TransportError maps failures that prevent interpreting the request as a
// transaction. Anything unrecognised becomes a 500.
func (rb *responseBuilder) TransportError(err error) error {
	switch {
	case errors.Is(err, ErrMissingEnvelope):
		return missingEnvelopeErr(rb.requestTag)
	case errors.Is(err, ErrAuthMissing):
		return utils.WithDetails(utils.NotAuthorizedErr("Invalid LDAP Format"), "LDAP ID or Password not found")
	case errors.Is(err, ErrAuthBadEncoding):
		return utils.WithDetails(utils.BadRequestErr("Invalid Base64 encoding in Authorization Header"),
			"Authorization credentials must be base64 encoded UTF-8 text")
	case errors.Is(err, ErrAuthMalformed):
		return utils.WithDetails(utils.NotAuthorizedErr("Malformed Authorization Header"),
			"Missing ':' separator between username and password")
	case errors.Is(err, ErrInvalidCredentials):
		return utils.NotAuthorizedErr("LDAP ID or Password is wrong")
	default:
		return utils.ServerErr(err)
	}
}

func missingEnvelopeErr(tag string) error {
	return utils.BadRequestErr(fmt.Sprintf("'%s' tag missing in Request Body", tag))
}

// DescribeSchemaError returns the Error_Desc and Error_More_Desc for a schema
// failure. ok is false when err is not a schema failure.
func (rb *responseBuilder) DescribeSchemaError(err error) (desc, more string, ok bool) {
	var fieldErr *FieldError
	switch {
	case errors.As(err, &fieldErr):
		return "Invalid or missing field: " + fieldErr.Field, fieldErr.Message, true
	case errors.Is(err, ErrUnknownAccount):
		return "Invalid or unregistered Debit_Acct_No", "", true
	case errors.Is(err, ErrInvalidAmount):
		return "Amount must be a positive number greater than zero with at most 2 decimal places", "", true
	case errors.Is(err, ErrInvalidMode):
		quoted := make([]string, len(rb.modes))
		for i, m := range rb.modes {
			quoted[i] = "'" + string(m) + "'"
		}
		return "Invalid or missing Mode_of_Pay. Valid options are " + strings.Join(quoted, ", "), "", true
	}
	return "", "", false
}
