package models

import (
	"time"

	"github.com/IfedayoAwe/corp-payment-gateway/pkg/money"
	"github.com/shopspring/decimal"
)

type PaymentMode string

const (
	ModeFT   PaymentMode = "FT"
	ModeRTGS PaymentMode = "RTGS"
	ModeIMPS PaymentMode = "IMPS"
	ModeNEFT PaymentMode = "NEFT"
)

type TransactionStatus string

const (
	TransactionStatusSuccess TransactionStatus = "SUCCESS"
	TransactionStatusFailed  TransactionStatus = "FAILED"
	TransactionStatusHeld    TransactionStatus = "HELD"
)

// Stage is the last pipeline state a payment reached.
type Stage string

const (
	StageReceived      Stage = "RECEIVED"
	StageAuthenticated Stage = "AUTHENTICATED"
	StageSchemaValid   Stage = "SCHEMA_VALID"
	StageRuleValid     Stage = "RULE_VALID"
	StageClaimed       Stage = "CLAIMED"
	StageDebited       Stage = "DEBITED"
	StageResponded     Stage = "RESPONDED"
)

type ErrorCode string

const (
	ErrorCodeSchema       ErrorCode = "ER002"
	ErrorCodeAuth         ErrorCode = "ER003"
	ErrorCodeEncoding     ErrorCode = "ER004"
	ErrorCodeUnexpected   ErrorCode = "ER006"
	ErrorCodeBusinessRule ErrorCode = "ER012"
	ErrorCodeDuplicate    ErrorCode = "ER013"
	ErrorCodeCutoffHold   ErrorCode = "ER101"
)

type Credential struct {
	Username     string
	PasswordHash string
	CorpID       string
}

type Account struct {
	Number   string
	Balance  decimal.Decimal
	CorpID   string
	Type     string
	Currency money.Currency
}

// Seed is the startup profile of credentials and accounts.
type Seed struct {
	Credentials []Credential
	Accounts    []Account
}

type PaymentHeader struct {
	TranID     string `json:"TranID" validate:"required,alphanum,max=16"`
	CorpID     string `json:"Corp_ID" validate:"required,alphanum,max=16"`
	MakerID    string `json:"Maker_ID" validate:"required,alphanum,max=16"`
	CheckerID  string `json:"Checker_ID" validate:"required,alphanum,max=16"`
	ApproverID string `json:"Approver_ID" validate:"required,alphanum,max=16"`
}

// PaymentBody holds the body exactly as received; Amount is still text.
type PaymentBody struct {
	DebitAcctNo string
	Amount      string
	ModeOfPay   string
	BenIFSC     string
}

type PaymentRequest struct {
	Header PaymentHeader
	Body   PaymentBody
}

// PaymentInstruction is a request that passed schema validation.
type PaymentInstruction struct {
	Header      PaymentHeader
	DebitAcctNo string
	Amount      decimal.Decimal
	Mode        PaymentMode
	BenIFSC     string
}

type References struct {
	RefNo string
	UTRNo string
	PONum string
}

type TransactionOutcome struct {
	Status           TransactionStatus
	Stage            Stage
	ErrorCode        ErrorCode
	ErrorDesc        string
	ErrorMoreDesc    string
	Header           PaymentHeader
	DebitAcctNo      string
	Amount           decimal.Decimal
	Mode             PaymentMode
	BenIFSC          string
	References       References
	RemainingBalance decimal.Decimal
	ProcessedAt      time.Time
}

// HeldPayment is the job payload handed to the next-day scheduler.
type HeldPayment struct {
	TranID      string      `json:"tran_id"`
	CorpID      string      `json:"corp_id"`
	MakerID     string      `json:"maker_id"`
	CheckerID   string      `json:"checker_id"`
	ApproverID  string      `json:"approver_id"`
	DebitAcctNo string      `json:"debit_acct_no"`
	Amount      string      `json:"amount"`
	Mode        PaymentMode `json:"mode_of_pay"`
	BenIFSC     string      `json:"ben_ifsc"`
	HeldAt      time.Time   `json:"held_at"`
}

// StatusRequest asks for the outcome of an earlier payment.
type StatusRequest struct {
	Header    PaymentHeader
	OrgTranID string
}

type AccountsRequest struct {
	Header PaymentHeader
}
