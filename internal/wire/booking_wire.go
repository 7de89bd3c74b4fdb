package wire

import (
	"ehousing-booking/internal/adaptor"
	"ehousing-booking/internal/data/repository"
	"ehousing-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireBooking(
	r chi.Router,
	bookingHandler *adaptor.BookingHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	r.Route("/bookings", func(r chi.Router) {
		// ==================== PUBLIC ROUTES ====================
		r.Get("/", bookingHandler.ListBookings)
		r.Post("/", bookingHandler.CreateBooking)
		r.Get("/count", bookingHandler.CountBookings)
		r.Get("/stats", bookingHandler.GetBookingStats)

		// ==================== PROTECTED ROUTES ====================
		// GET /bookings/mine - booking milik user yang login, dengan post
		r.With(middleware.AuthSession(repo.Session, log)).Get("/mine", bookingHandler.ListMyBookings)
	})
}
