package mpesa

import (
	"encoding/json"
	"fmt"
)

// Result codes Daraja sends in an STK callback.
const (
	ResultCodeSuccess         = 0
	ResultCodeCancelledByUser = 1032
)

// MetadataReceiptNumber is the CallbackMetadata item holding the M-Pesa receipt.
const MetadataReceiptNumber = "MpesaReceiptNumber"

type CallbackItem struct {
	Name  string `json:"Name"`
	Value any    `json:"Value,omitempty"`
}

type STKCallback struct {
	MerchantRequestID string `json:"MerchantRequestID"`
	CheckoutRequestID string `json:"CheckoutRequestID"`
	ResultCode        int    `json:"ResultCode"`
	ResultDesc        string `json:"ResultDesc"`
	CallbackMetadata  struct {
		Item []CallbackItem `json:"Item"`
	} `json:"CallbackMetadata"`
}

type CallbackEnvelope struct {
	Body struct {
		StkCallback STKCallback `json:"stkCallback"`
	} `json:"Body"`
}

// CallbackAck is the body Daraja expects back from the callback URL.
type CallbackAck struct {
	ResultCode int    `json:"ResultCode"`
	ResultDesc string `json:"ResultDesc"`
}

// ParseSTKCallback decodes the document Daraja posts to the callback URL.
func ParseSTKCallback(payload []byte) (*STKCallback, error) {
	var env CallbackEnvelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, fmt.Errorf("decode stk callback: %w", err)
	}

	cb := env.Body.StkCallback
	if cb.CheckoutRequestID == "" {
		return nil, fmt.Errorf("stk callback has no CheckoutRequestID")
	}
	return &cb, nil
}

func (cb *STKCallback) Success() bool {
	return cb.ResultCode == ResultCodeSuccess
}

// Metadata returns the value of the named CallbackMetadata item, e.g. "MpesaReceiptNumber".
func (cb *STKCallback) Metadata(name string) (any, bool) {
	for _, item := range cb.CallbackMetadata.Item {
		if item.Name == name {
			return item.Value, true
		}
	}
	return nil, false
}
