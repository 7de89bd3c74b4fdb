package entity

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
)

type Booking struct {
	Base
	StartDate  time.Time     `db:"start_date"`
	EndDate    time.Time     `db:"end_date"`
	Status     BookingStatus `db:"status"`
	Type       string        `db:"type"`
	PostID     uuid.UUID     `db:"post_id"`
	UserID     uuid.UUID     `db:"user_id"`
	CheckoutID *string       `db:"checkout_id"`

	// Post hanya terisi untuk query yang join ke posts
	Post *Post `db:"-"`
}
