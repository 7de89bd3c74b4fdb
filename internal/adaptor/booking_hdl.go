package adaptor

import (
	"encoding/json"
	"net/http"

	"ehousing-booking/internal/dto/request"
	"ehousing-booking/internal/usecase"
	"ehousing-booking/pkg/utils"

	"go.uber.org/zap"
)

type BookingHandler struct {
	service usecase.BookingService
	log     *zap.Logger
}

func NewBookingHandler(service usecase.BookingService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log.With(zap.String("handler", "booking")),
	}
}

// ListBookings handles GET /bookings
func (h *BookingHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.service.ListBookings(r.Context())
	if err != nil {
		h.handleServiceError(w, err, "list bookings")
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}

// ListMyBookings handles GET /bookings/mine (protected)
func (h *BookingHandler) ListMyBookings(w http.ResponseWriter, r *http.Request) {
	// Get user ID from context
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	bookings, err := h.service.ListUserBookings(r.Context(), userID)
	if err != nil {
		h.handleServiceError(w, err, "list user bookings")
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}

// CreateBooking handles POST /bookings
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req request.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	booking, err := h.service.CreateBooking(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err, "create booking")
		return
	}

	utils.ResponseCreated(w, "success", booking)
}

// CountBookings handles GET /bookings/count
func (h *BookingHandler) CountBookings(w http.ResponseWriter, r *http.Request) {
	count, err := h.service.CountBookings(r.Context())
	if err != nil {
		h.handleServiceError(w, err, "count bookings")
		return
	}

	utils.ResponseSuccess(w, "success", count)
}

// GetBookingStats handles GET /bookings/stats. Body tanpa envelope: {count,newBookings,percentChange}
func (h *BookingHandler) GetBookingStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.GetBookingStats(r.Context())
	if err != nil {
		h.handleServiceError(w, err, "get booking stats")
		return
	}

	utils.WriteJSON(w, http.StatusOK, stats)
}

func (h *BookingHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	writeServiceError(h.log, w, err, operation)
}
