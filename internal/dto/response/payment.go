package response

import (
	"time"

	"ehousing-booking/internal/data/entity"
)

type PaymentResponse struct {
	ID            string               `json:"id"`
	Amount        float64              `json:"amount"`
	Method        string               `json:"method"`
	TransactionID string               `json:"transactionId"`
	Status        entity.PaymentStatus `json:"status"`
	BookingID     string               `json:"bookingId"`
	Booking       *BookingResponse     `json:"booking,omitempty"`
	CreatedAt     time.Time            `json:"createdAt"`
	UpdatedAt     time.Time            `json:"updatedAt"`
}

// PaymentStatusUpdateResponse is returned as-is by PATCH /payments/status.
type PaymentStatusUpdateResponse struct {
	Success        bool            `json:"success"`
	Message        string          `json:"message"`
	UpdatedPayment PaymentResponse `json:"updatedPayment"`
}

// PaymentToResponse attaches booking when it is not nil.
func PaymentToResponse(payment *entity.Payment, booking *entity.Booking) PaymentResponse {
	resp := PaymentResponse{
		ID:            payment.ID.String(),
		Amount:        payment.Amount,
		Method:        payment.Method,
		TransactionID: payment.TransactionID,
		Status:        payment.Status,
		BookingID:     payment.BookingID.String(),
		CreatedAt:     payment.CreatedAt,
		UpdatedAt:     payment.UpdatedAt,
	}

	if booking != nil {
		b := BookingToResponse(booking)
		resp.Booking = &b
	}

	return resp
}
