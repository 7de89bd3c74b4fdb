package request

import "encoding/json"

// STKPushRequest keeps Phone untyped: a non-string phone is a format error,
// not a decode error.
type STKPushRequest struct {
	Phone  any         `json:"phone"`
	Amount json.Number `json:"amount"`
}

// CreatePaymentRequest accepts amount as a JSON number or a numeric string.
type CreatePaymentRequest struct {
	Amount        json.Number `json:"amount" validate:"required"`
	Method        string      `json:"method" validate:"required,max=50"`
	TransactionID string      `json:"transactionId" validate:"required,max=100"`
	BookingID     string      `json:"bookingId" validate:"required"`
}

type UpdatePaymentStatusRequest struct {
	Status        string `json:"status" validate:"required,oneof=pending completed failed cancelled"`
	TransactionID string `json:"transactionId" validate:"required"`
}
