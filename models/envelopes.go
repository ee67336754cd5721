package models

// ResponseHeader echoes the request header and carries the domain status.
type ResponseHeader struct {
	TranID        string            `json:"TranID"`
	CorpID        string            `json:"Corp_ID"`
	MakerID       string            `json:"Maker_ID"`
	CheckerID     string            `json:"Checker_ID"`
	ApproverID    string            `json:"Approver_ID"`
	Status        TransactionStatus `json:"Status"`
	ErrorCode     ErrorCode         `json:"Error_Cde"`
	ErrorDesc     string            `json:"Error_Desc"`
	ErrorMoreDesc string            `json:"Error_More_Desc,omitempty"`
}

// Signature is an opaque placeholder; nothing is signed.
type Signature struct {
	Signature string `json:"Signature"`
}

type PaymentResponseBody struct {
	RefNo            string `json:"RefNo"`
	UTRNo            string `json:"UTRNo"`
	PONum            string `json:"PONum"`
	DebitAcctNo      string `json:"Debit_Acct_No"`
	Amount           string `json:"Amount"`
	RemainingBalance string `json:"Remaining_Balance"`
	BenIFSC          string `json:"BenIFSC"`
	TxnTime          string `json:"Txn_Time"`
	ModeOfPay        string `json:"Mode_of_Pay"`
}

type PaymentResponse struct {
	Header    ResponseHeader       `json:"Header"`
	Body      *PaymentResponseBody `json:"Body,omitempty"`
	Signature Signature            `json:"Signature"`
}

type StatusResponseBody struct {
	OrgTranID   string            `json:"OrgTranID"`
	TxnStatus   TransactionStatus `json:"Txn_Status"`
	RefNo       string            `json:"RefNo"`
	UTRNo       string            `json:"UTRNo"`
	PONum       string            `json:"PONum"`
	DebitAcctNo string            `json:"Debit_Acct_No"`
	Amount      string            `json:"Amount"`
	ModeOfPay   string            `json:"Mode_of_Pay"`
	TxnTime     string            `json:"Txn_Time"`
	ErrorCode   ErrorCode         `json:"Error_Cde"`
	ErrorDesc   string            `json:"Error_Desc"`
}

type StatusResponse struct {
	Header    ResponseHeader      `json:"Header"`
	Body      *StatusResponseBody `json:"Body,omitempty"`
	Signature Signature           `json:"Signature"`
}

type AcctBalance struct {
	AmountValue  string `json:"amountValue"`
	CurrencyCode string `json:"currencyCode"`
}

type CIFInfo struct {
	AcctBalance  AcctBalance `json:"acctBalance"`
	AcctCurrCode string      `json:"acctCurrCode"`
	AcctNumber   string      `json:"acctNumber"`
	AcctType     string      `json:"acctType"`
}

type AccountsResponseBody struct {
	CIFInfo []CIFInfo `json:"cifInfo"`
}

type AccountsResponse struct {
	Header    ResponseHeader        `json:"Header"`
	Body      *AccountsResponseBody `json:"Body,omitempty"`
	Signature Signature             `json:"Signature"`
}

// InquiryOutcome is the result of a read-only inquiry (status or account listing).
type InquiryOutcome struct {
	Status        TransactionStatus
	ErrorCode     ErrorCode
	ErrorDesc     string
	ErrorMoreDesc string
	Header        PaymentHeader
	Transaction   *TransactionOutcome
	Accounts      []Account
}
