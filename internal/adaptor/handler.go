package adaptor

import (
	"net/http"

	"ehousing-booking/internal/usecase"
	"ehousing-booking/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Auth    *AuthHandler
	Booking *BookingHandler
	Payment *PaymentHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Auth:    NewAuthHandler(service.Auth, log),
		Booking: NewBookingHandler(service.Booking, log),
		Payment: NewPaymentHandler(service.Payment, log),
	}
}

// writeServiceError logs err at a level matching its kind and writes the error response.
func writeServiceError(log *zap.Logger, w http.ResponseWriter, err error, operation string) {
	kind := utils.KindOf(err)

	if kind.HTTPStatus() < http.StatusInternalServerError {
		log.Warn(operation+" failed",
			zap.Error(err),
			zap.String("operation", operation),
			zap.Stringer("kind", kind))
	} else {
		log.Error("Failed to "+operation,
			zap.Error(err),
			zap.String("operation", operation),
			zap.Stringer("kind", kind))
	}

	utils.ResponseError(w, err)
}
