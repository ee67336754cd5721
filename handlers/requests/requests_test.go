package requests

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/IfedayoAwe/corp-payment-gateway/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestText_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Text
	}{
		{"string", `"TXN0001"`, "TXN0001"},
		{"number keeps literal", `1000.50`, "1000.50"},
		{"exponent keeps literal", `1e3`, "1e3"},
		{"null", `null`, ""},
		{"boolean", `true`, "true"},
		{"escaped string", `"a\u0042c"`, "aBc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Text
			require.NoError(t, json.Unmarshal([]byte(tt.input), &got))
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestDecodeEnvelope(t *testing.T) {
	const tag = "Single_Payment_Corp_Req"

	t.Run("decodes payment", func(t *testing.T) {
		body := `{"Single_Payment_Corp_Req":{"Header":{"TranID":"TXN0001","Corp_ID":"TMW04","Maker_ID":"M1",` +
			`"Checker_ID":"C1","Approver_ID":"A1"},"Body":{"Debit_Acct_No":"123456789012","Amount":1000,` +
			`"Mode_of_Pay":"FT","Ben_IFSC":"HDFC0001234"}}}`

		var req PaymentRequest
		require.NoError(t, DecodeEnvelope([]byte(body), tag, &req))

		model := req.ToModel()
		assert.Equal(t, "TXN0001", model.Header.TranID)
		assert.Equal(t, "A1", model.Header.ApproverID)
		assert.Equal(t, "1000", model.Body.Amount)
		assert.Equal(t, "HDFC0001234", model.Body.BenIFSC)
	})

	tests := []struct {
		name    string
		body    string
		message string
	}{
		{"empty", "  ", "Request Body is missing or empty"},
		{"not json", "{", "Invalid JSON format in Request Body"},
		{"array", "[]", "Invalid JSON format in Request Body"},
		{"missing tag", `{"Other":{}}`, "'Single_Payment_Corp_Req' tag missing in Request Body"},
		{"null tag", `{"Single_Payment_Corp_Req":null}`, "'Single_Payment_Corp_Req' tag missing in Request Body"},
		{"tag not an object", `{"Single_Payment_Corp_Req":"x"}`, "Invalid JSON format in Request Body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req PaymentRequest
			err := DecodeEnvelope([]byte(tt.body), tag, &req)
			assert.True(t, errors.Is(err, utils.ErrBadRequest))

			wrapped, ok := utils.IsWrappedError(err)
			require.True(t, ok)
			assert.Equal(t, tt.message, wrapped.GetMessage())
		})
	}

	t.Run("status body", func(t *testing.T) {
		body := `{"get_Single_Payment_Status_Corp_Req":{"Header":{"TranID":"T1"},"Body":{"OrgTranID":"TXN0001"}}}`
		var req StatusRequest
		require.NoError(t, DecodeEnvelope([]byte(body), "get_Single_Payment_Status_Corp_Req", &req))
		assert.Equal(t, "TXN0001", req.ToModel().OrgTranID)
	})
}
