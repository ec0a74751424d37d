package mpesa

import (
	"strings"
	"testing"
)

const successCallback = `{
  "Body": {
    "stkCallback": {
      "MerchantRequestID": "29115-34620561-1",
      "CheckoutRequestID": "ws_CO_191220191020363925",
      "ResultCode": 0,
      "ResultDesc": "The service request is processed successfully.",
      "CallbackMetadata": {
        "Item": [
          {"Name": "Amount", "Value": 1500.00},
          {"Name": "MpesaReceiptNumber", "Value": "NLJ7RT61SV"},
          {"Name": "TransactionDate", "Value": 20191219102115},
          {"Name": "PhoneNumber", "Value": 254708374149}
        ]
      }
    }
  }
}`

const failedCallback = `{
  "Body": {
    "stkCallback": {
      "MerchantRequestID": "29115-34620561-1",
      "CheckoutRequestID": "ws_CO_191220191020363925",
      "ResultCode": 1032,
      "ResultDesc": "Request cancelled by user."
    }
  }
}`

func TestParseCallbackSuccess(t *testing.T) {
	cb, err := ParseCallback(strings.NewReader(successCallback))
	if err != nil {
		t.Fatalf("ParseCallback error: %v", err)
	}

	if !cb.Succeeded() {
		t.Fatalf("expected success")
	}
	if cb.CheckoutRequestID() != "ws_CO_191220191020363925" {
		t.Fatalf("unexpected checkout request ID %q", cb.CheckoutRequestID())
	}
	if cb.Receipt() != "NLJ7RT61SV" {
		t.Fatalf("unexpected receipt %q", cb.Receipt())
	}
	if cb.Amount() != 1500 {
		t.Fatalf("unexpected amount %v", cb.Amount())
	}
}

func TestParseCallbackFailure(t *testing.T) {
	cb, err := ParseCallback(strings.NewReader(failedCallback))
	if err != nil {
		t.Fatalf("ParseCallback error: %v", err)
	}

	if cb.Succeeded() {
		t.Fatalf("expected failure")
	}
	if cb.ResultCode() != 1032 {
		t.Fatalf("unexpected result code %d", cb.ResultCode())
	}
	if cb.Receipt() != "" {
		t.Fatalf("failed callback should have no receipt, got %q", cb.Receipt())
	}
}

func TestParseCallbackMissingCheckoutID(t *testing.T) {
	if _, err := ParseCallback(strings.NewReader(`{"Body":{"stkCallback":{}}}`)); err == nil {
		t.Fatalf("expected error for missing CheckoutRequestID")
	}
}

func TestParseCallbackMalformed(t *testing.T) {
	if _, err := ParseCallback(strings.NewReader(`not json`)); err == nil {
		t.Fatalf("expected error for malformed body")
	}
}
