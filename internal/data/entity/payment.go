package entity

import (
	"github.com/google/uuid"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusCancelled PaymentStatus = "cancelled"
)

type Payment struct {
	Base
	Amount        float64       `db:"amount"`
	Method        string        `db:"method"`
	TransactionID string        `db:"transaction_id"`
	Status        PaymentStatus `db:"status"`
	BookingID     uuid.UUID     `db:"booking_id"`
}
