package mpesa

import (
	"encoding/json"
	"fmt"
	"io"
)

// Callback is the asynchronous STK push result Daraja posts to the callback
// URL once the customer completes or abandons the payment prompt.
type Callback struct {
	Body struct {
		STKCallback struct {
			MerchantRequestID string `json:"MerchantRequestID"`
			CheckoutRequestID string `json:"CheckoutRequestID"`
			ResultCode        int    `json:"ResultCode"`
			ResultDesc        string `json:"ResultDesc"`
			CallbackMetadata  struct {
				Item []callbackItem `json:"Item"`
			} `json:"CallbackMetadata"`
		} `json:"stkCallback"`
	} `json:"Body"`
}

type callbackItem struct {
	Name  string `json:"Name"`
	Value any    `json:"Value"`
}

func ParseCallback(r io.Reader) (*Callback, error) {
	var cb Callback
	if err := json.NewDecoder(r).Decode(&cb); err != nil {
		return nil, fmt.Errorf("decode mpesa callback: %w", err)
	}
	if cb.Body.STKCallback.CheckoutRequestID == "" {
		return nil, fmt.Errorf("mpesa callback missing CheckoutRequestID")
	}
	return &cb, nil
}

func (cb *Callback) CheckoutRequestID() string {
	return cb.Body.STKCallback.CheckoutRequestID
}

func (cb *Callback) Succeeded() bool {
	return cb.Body.STKCallback.ResultCode == 0
}

func (cb *Callback) ResultCode() int {
	return cb.Body.STKCallback.ResultCode
}

func (cb *Callback) ResultDesc() string {
	return cb.Body.STKCallback.ResultDesc
}

// Receipt returns the MpesaReceiptNumber from the callback metadata, or ""
// when absent (failed payments carry no metadata).
func (cb *Callback) Receipt() string {
	for _, item := range cb.Body.STKCallback.CallbackMetadata.Item {
		if item.Name == "MpesaReceiptNumber" {
			if s, ok := item.Value.(string); ok {
				return s
			}
		}
	}
	return ""
}

// Amount returns the paid amount from the callback metadata.
func (cb *Callback) Amount() float64 {
	for _, item := range cb.Body.STKCallback.CallbackMetadata.Item {
		if item.Name == "Amount" {
			if f, ok := item.Value.(float64); ok {
				return f
			}
		}
	}
	return 0
}
