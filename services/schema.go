package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/IfedayoAwe/corp-payment-gateway/models"
	"github.com/IfedayoAwe/corp-payment-gateway/pkg/money"
	"github.com/IfedayoAwe/corp-payment-gateway/utils"
	"github.com/go-playground/validator/v10"
)

type SchemaValidator interface {
	Validate(req *models.PaymentRequest) (*models.PaymentInstruction, error)
	ValidateHeader(header models.PaymentHeader) error
	ValidateTranID(field, value string) error
}

type schemaValidator struct {
	validate *validator.Validate
	ledger   AccountLedger
	rules    BusinessRuleEngine
}

func (s *Services) Schema() SchemaValidator {
	return &schemaValidator{
		validate: utils.InitValidator(),
		ledger:   s.ledger,
		rules:    s.rules,
	}
}

// ValidateHeader checks TranID, Corp_ID, Maker_ID, Checker_ID and Approver_ID
// in that order; the first failure is reported.
func (v *schemaValidator) ValidateHeader(header models.PaymentHeader) error {
	if err := v.validate.Struct(header); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("validate header: %w", err)
		}
		field, message := utils.FirstValidationError(verrs)
		return &FieldError{Field: field, Message: message}
	}
	return nil
}

func (v *schemaValidator) ValidateTranID(field, value string) error {
	if err := v.validate.Var(value, "required,alphanum,max=16"); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("validate %s: %w", field, err)
		}
		// Var reports no field name, so the translation starts with a blank.
		_, message := utils.FirstValidationError(verrs)
		return &FieldError{Field: field, Message: field + message}
	}
	return nil
}

func (v *schemaValidator) Validate(req *models.PaymentRequest) (*models.PaymentInstruction, error) {
	if req == nil {
		return nil, ErrMissingEnvelope
	}

	if err := v.ValidateHeader(req.Header); err != nil {
		return nil, err
	}

	body := req.Body
	acctNo := strings.TrimSpace(body.DebitAcctNo)
	if acctNo == "" {
		return nil, &FieldError{Field: "Debit_Acct_No", Message: "Debit_Acct_No is a required field"}
	}
	if !v.ledger.Exists(acctNo) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAccount, acctNo)
	}

	amount, err := money.ParseAmount(body.Amount)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAmount, err)
	}

	mode := models.PaymentMode(strings.TrimSpace(body.ModeOfPay))
	if !v.rules.Supports(mode) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMode, body.ModeOfPay)
	}

	return &models.PaymentInstruction{
		Header:      req.Header,
		DebitAcctNo: acctNo,
		Amount:      amount,
		Mode:        mode,
		BenIFSC:     body.BenIFSC,
	}, nil
}
