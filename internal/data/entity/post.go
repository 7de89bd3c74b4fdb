package entity

import (
	"time"

	"github.com/google/uuid"
)

// Post is a property listing. Bookings only read it.
type Post struct {
	ID        uuid.UUID `db:"id"`
	Title     string    `db:"title"`
	Price     float64   `db:"price"`
	Address   string    `db:"address"`
	City      string    `db:"city"`
	UserID    uuid.UUID `db:"user_id"`
	CreatedAt time.Time `db:"created_at"`
}
