package requests

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/IfedayoAwe/corp-payment-gateway/models"
	"github.com/IfedayoAwe/corp-payment-gateway/utils"
)

// Text accepts a JSON string, number or null. Numbers keep their literal
// text so an Amount sent as 1000.50 is validated exactly as written.
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*t = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
	default:
		// Objects, arrays and booleans fall through as raw text and fail
		// field validation later.
		*t = Text(data)
	}
	return nil
}

func (t Text) String() string {
	return string(t)
}

type Header struct {
	TranID     Text `json:"TranID"`
	CorpID     Text `json:"Corp_ID"`
	MakerID    Text `json:"Maker_ID"`
	CheckerID  Text `json:"Checker_ID"`
	ApproverID Text `json:"Approver_ID"`
}

func (h Header) ToModel() models.PaymentHeader {
	return models.PaymentHeader{
		TranID:     h.TranID.String(),
		CorpID:     h.CorpID.String(),
		MakerID:    h.MakerID.String(),
		CheckerID:  h.CheckerID.String(),
		ApproverID: h.ApproverID.String(),
	}
}

type PaymentBody struct {
	DebitAcctNo Text `json:"Debit_Acct_No"`
	Amount      Text `json:"Amount"`
	ModeOfPay   Text `json:"Mode_of_Pay"`
	BenIFSC     Text `json:"Ben_IFSC"`
}

type PaymentRequest struct {
	Header Header      `json:"Header"`
	Body   PaymentBody `json:"Body"`
}

func (r *PaymentRequest) ToModel() *models.PaymentRequest {
	return &models.PaymentRequest{
		Header: r.Header.ToModel(),
		Body: models.PaymentBody{
			DebitAcctNo: r.Body.DebitAcctNo.String(),
			Amount:      r.Body.Amount.String(),
			ModeOfPay:   r.Body.ModeOfPay.String(),
			BenIFSC:     r.Body.BenIFSC.String(),
		},
	}
}

type StatusBody struct {
	OrgTranID Text `json:"OrgTranID"`
}

type StatusRequest struct {
	Header Header     `json:"Header"`
	Body   StatusBody `json:"Body"`
}

func (r *StatusRequest) ToModel() *models.StatusRequest {
	return &models.StatusRequest{
		Header:    r.Header.ToModel(),
		OrgTranID: r.Body.OrgTranID.String(),
	}
}

// AccountsRequest ignores its Body; the corp comes from the header.
type AccountsRequest struct {
	Header Header `json:"Header"`
}

func (r *AccountsRequest) ToModel() *models.AccountsRequest {
	return &models.AccountsRequest{
		Header: r.Header.ToModel(),
	}
}

// DecodeEnvelope unwraps the object stored under tag into dst.
func DecodeEnvelope(body []byte, tag string, dst any) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return utils.BadRequestErr("Request Body is missing or empty")
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(body, &top); err != nil {
		return utils.WithDetails(utils.BadRequestErr("Invalid JSON format in Request Body"), err.Error())
	}

	raw, ok := top[tag]
	if !ok || strings.TrimSpace(string(raw)) == "null" {
		return utils.BadRequestErr("'" + tag + "' tag missing in Request Body")
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		return utils.WithDetails(utils.BadRequestErr("Invalid JSON format in Request Body"), err.Error())
	}
	return nil
}
