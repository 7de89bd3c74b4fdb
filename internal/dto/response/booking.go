package response

import (
	"time"

	"ehousing-booking/internal/data/entity"
)

type PostResponse struct {
	ID      string  `json:"id"`
	Title   string  `json:"title"`
	Price   float64 `json:"price"`
	Address string  `json:"address"`
	City    string  `json:"city"`
	UserID  string  `json:"userId"`
}

type BookingResponse struct {
	ID         string               `json:"id"`
	StartDate  time.Time            `json:"startDate"`
	EndDate    time.Time            `json:"endDate"`
	Status     entity.BookingStatus `json:"status"`
	Type       string               `json:"type"`
	PostID     string               `json:"postId"`
	UserID     string               `json:"userId"`
	CheckoutID *string              `json:"checkoutId,omitempty"`
	Post       *PostResponse        `json:"post,omitempty"`
	CreatedAt  time.Time            `json:"createdAt"`
}

type BookingStatsResponse struct {
	Count         int64 `json:"count"`
	NewBookings   int64 `json:"newBookings"`
	PercentChange int64 `json:"percentChange"`
}

type BookingCountResponse struct {
	Count int64 `json:"count"`
}

// Helper converters
func BookingToResponse(booking *entity.Booking) BookingResponse {
	resp := BookingResponse{
		ID:         booking.ID.String(),
		StartDate:  booking.StartDate,
		EndDate:    booking.EndDate,
		Status:     booking.Status,
		Type:       booking.Type,
		PostID:     booking.PostID.String(),
		UserID:     booking.UserID.String(),
		CheckoutID: booking.CheckoutID,
		CreatedAt:  booking.CreatedAt,
	}

	if booking.Post != nil {
		resp.Post = &PostResponse{
			ID:      booking.Post.ID.String(),
			Title:   booking.Post.Title,
			Price:   booking.Post.Price,
			Address: booking.Post.Address,
			City:    booking.Post.City,
			UserID:  booking.Post.UserID.String(),
		}
	}

	return resp
}

func BookingsToResponse(bookings []*entity.Booking) []BookingResponse {
	out := make([]BookingResponse, len(bookings))
	for i, b := range bookings {
		out[i] = BookingToResponse(b)
	}
	return out
}
